package wasm

import "github.com/corewasm/corewasm/api"

// Opcode identifies a single decoded instruction. Single-byte opcodes are
// their own numeric value; opcodes introduced behind the 0xFC ("misc") and
// 0xFD ("SIMD") prefix bytes are folded into the high bits so the whole
// instruction set fits in one comparable, switchable integer instead of a
// two-field (prefix, sub) pair.
type Opcode uint32

const (
	miscPrefixShift = 16
	simdPrefixShift = 16
)

func miscOpcode(sub uint32) Opcode { return Opcode(0xFC<<miscPrefixShift) | Opcode(sub) }
func simdOpcode(sub uint32) Opcode { return Opcode(0xFD<<simdPrefixShift) | Opcode(sub) }

// Control instructions.
const (
	OpcodeUnreachable Opcode = 0x00
	OpcodeNop         Opcode = 0x01
	OpcodeBlock       Opcode = 0x02
	OpcodeLoop        Opcode = 0x03
	OpcodeIf          Opcode = 0x04
	OpcodeElse        Opcode = 0x05
	OpcodeEnd         Opcode = 0x0b
	OpcodeBr          Opcode = 0x0c
	OpcodeBrIf        Opcode = 0x0d
	OpcodeBrTable     Opcode = 0x0e
	OpcodeReturn      Opcode = 0x0f
	OpcodeCall        Opcode = 0x10
	OpcodeCallIndirect Opcode = 0x11
)

// Parametric, variable and table instructions.
const (
	OpcodeDrop       Opcode = 0x1a
	OpcodeSelect     Opcode = 0x1b
	OpcodeSelectT    Opcode = 0x1c
	OpcodeLocalGet   Opcode = 0x20
	OpcodeLocalSet   Opcode = 0x21
	OpcodeLocalTee   Opcode = 0x22
	OpcodeGlobalGet  Opcode = 0x23
	OpcodeGlobalSet  Opcode = 0x24
	OpcodeTableGet   Opcode = 0x25
	OpcodeTableSet   Opcode = 0x26
)

// Memory instructions.
const (
	OpcodeI32Load    Opcode = 0x28
	OpcodeI64Load    Opcode = 0x29
	OpcodeF32Load    Opcode = 0x2a
	OpcodeF64Load    Opcode = 0x2b
	OpcodeI32Load8S  Opcode = 0x2c
	OpcodeI32Load8U  Opcode = 0x2d
	OpcodeI32Load16S Opcode = 0x2e
	OpcodeI32Load16U Opcode = 0x2f
	OpcodeI64Load8S  Opcode = 0x30
	OpcodeI64Load8U  Opcode = 0x31
	OpcodeI64Load16S Opcode = 0x32
	OpcodeI64Load16U Opcode = 0x33
	OpcodeI64Load32S Opcode = 0x34
	OpcodeI64Load32U Opcode = 0x35
	OpcodeI32Store   Opcode = 0x36
	OpcodeI64Store   Opcode = 0x37
	OpcodeF32Store   Opcode = 0x38
	OpcodeF64Store   Opcode = 0x39
	OpcodeI32Store8  Opcode = 0x3a
	OpcodeI32Store16 Opcode = 0x3b
	OpcodeI64Store8  Opcode = 0x3c
	OpcodeI64Store16 Opcode = 0x3d
	OpcodeI64Store32 Opcode = 0x3e
	OpcodeMemorySize Opcode = 0x3f
	OpcodeMemoryGrow Opcode = 0x40
)

// Numeric constant and computation instructions. Names follow the Wasm text
// format mnemonic (I32Add = "i32.add").
const (
	OpcodeI32Const Opcode = 0x41
	OpcodeI64Const Opcode = 0x42
	OpcodeF32Const Opcode = 0x43
	OpcodeF64Const Opcode = 0x44

	OpcodeI32Eqz  Opcode = 0x45
	OpcodeI32Eq   Opcode = 0x46
	OpcodeI32Ne   Opcode = 0x47
	OpcodeI32LtS  Opcode = 0x48
	OpcodeI32LtU  Opcode = 0x49
	OpcodeI32GtS  Opcode = 0x4a
	OpcodeI32GtU  Opcode = 0x4b
	OpcodeI32LeS  Opcode = 0x4c
	OpcodeI32LeU  Opcode = 0x4d
	OpcodeI32GeS  Opcode = 0x4e
	OpcodeI32GeU  Opcode = 0x4f

	OpcodeI64Eqz Opcode = 0x50
	OpcodeI64Eq  Opcode = 0x51
	OpcodeI64Ne  Opcode = 0x52
	OpcodeI64LtS Opcode = 0x53
	OpcodeI64LtU Opcode = 0x54
	OpcodeI64GtS Opcode = 0x55
	OpcodeI64GtU Opcode = 0x56
	OpcodeI64LeS Opcode = 0x57
	OpcodeI64LeU Opcode = 0x58
	OpcodeI64GeS Opcode = 0x59
	OpcodeI64GeU Opcode = 0x5a

	OpcodeF32Eq Opcode = 0x5b
	OpcodeF32Ne Opcode = 0x5c
	OpcodeF32Lt Opcode = 0x5d
	OpcodeF32Gt Opcode = 0x5e
	OpcodeF32Le Opcode = 0x5f
	OpcodeF32Ge Opcode = 0x60

	OpcodeF64Eq Opcode = 0x61
	OpcodeF64Ne Opcode = 0x62
	OpcodeF64Lt Opcode = 0x63
	OpcodeF64Gt Opcode = 0x64
	OpcodeF64Le Opcode = 0x65
	OpcodeF64Ge Opcode = 0x66

	OpcodeI32Clz    Opcode = 0x67
	OpcodeI32Ctz    Opcode = 0x68
	OpcodeI32Popcnt Opcode = 0x69
	OpcodeI32Add    Opcode = 0x6a
	OpcodeI32Sub    Opcode = 0x6b
	OpcodeI32Mul    Opcode = 0x6c
	OpcodeI32DivS   Opcode = 0x6d
	OpcodeI32DivU   Opcode = 0x6e
	OpcodeI32RemS   Opcode = 0x6f
	OpcodeI32RemU   Opcode = 0x70
	OpcodeI32And    Opcode = 0x71
	OpcodeI32Or     Opcode = 0x72
	OpcodeI32Xor    Opcode = 0x73
	OpcodeI32Shl    Opcode = 0x74
	OpcodeI32ShrS   Opcode = 0x75
	OpcodeI32ShrU   Opcode = 0x76
	OpcodeI32Rotl   Opcode = 0x77
	OpcodeI32Rotr   Opcode = 0x78

	OpcodeI64Clz    Opcode = 0x79
	OpcodeI64Ctz    Opcode = 0x7a
	OpcodeI64Popcnt Opcode = 0x7b
	OpcodeI64Add    Opcode = 0x7c
	OpcodeI64Sub    Opcode = 0x7d
	OpcodeI64Mul    Opcode = 0x7e
	OpcodeI64DivS   Opcode = 0x7f
	OpcodeI64DivU   Opcode = 0x80
	OpcodeI64RemS   Opcode = 0x81
	OpcodeI64RemU   Opcode = 0x82
	OpcodeI64And    Opcode = 0x83
	OpcodeI64Or     Opcode = 0x84
	OpcodeI64Xor    Opcode = 0x85
	OpcodeI64Shl    Opcode = 0x86
	OpcodeI64ShrS   Opcode = 0x87
	OpcodeI64ShrU   Opcode = 0x88
	OpcodeI64Rotl   Opcode = 0x89
	OpcodeI64Rotr   Opcode = 0x8a

	OpcodeF32Abs      Opcode = 0x8b
	OpcodeF32Neg      Opcode = 0x8c
	OpcodeF32Ceil     Opcode = 0x8d
	OpcodeF32Floor    Opcode = 0x8e
	OpcodeF32Trunc    Opcode = 0x8f
	OpcodeF32Nearest  Opcode = 0x90
	OpcodeF32Sqrt     Opcode = 0x91
	OpcodeF32Add      Opcode = 0x92
	OpcodeF32Sub      Opcode = 0x93
	OpcodeF32Mul      Opcode = 0x94
	OpcodeF32Div      Opcode = 0x95
	OpcodeF32Min      Opcode = 0x96
	OpcodeF32Max      Opcode = 0x97
	OpcodeF32Copysign Opcode = 0x98

	OpcodeF64Abs      Opcode = 0x99
	OpcodeF64Neg      Opcode = 0x9a
	OpcodeF64Ceil     Opcode = 0x9b
	OpcodeF64Floor    Opcode = 0x9c
	OpcodeF64Trunc    Opcode = 0x9d
	OpcodeF64Nearest  Opcode = 0x9e
	OpcodeF64Sqrt     Opcode = 0x9f
	OpcodeF64Add      Opcode = 0xa0
	OpcodeF64Sub      Opcode = 0xa1
	OpcodeF64Mul      Opcode = 0xa2
	OpcodeF64Div      Opcode = 0xa3
	OpcodeF64Min      Opcode = 0xa4
	OpcodeF64Max      Opcode = 0xa5
	OpcodeF64Copysign Opcode = 0xa6

	OpcodeI32WrapI64      Opcode = 0xa7
	OpcodeI32TruncF32S    Opcode = 0xa8
	OpcodeI32TruncF32U    Opcode = 0xa9
	OpcodeI32TruncF64S    Opcode = 0xaa
	OpcodeI32TruncF64U    Opcode = 0xab
	OpcodeI64ExtendI32S   Opcode = 0xac
	OpcodeI64ExtendI32U   Opcode = 0xad
	OpcodeI64TruncF32S    Opcode = 0xae
	OpcodeI64TruncF32U    Opcode = 0xaf
	OpcodeI64TruncF64S    Opcode = 0xb0
	OpcodeI64TruncF64U    Opcode = 0xb1
	OpcodeF32ConvertI32S  Opcode = 0xb2
	OpcodeF32ConvertI32U  Opcode = 0xb3
	OpcodeF32ConvertI64S  Opcode = 0xb4
	OpcodeF32ConvertI64U  Opcode = 0xb5
	OpcodeF32DemoteF64    Opcode = 0xb6
	OpcodeF64ConvertI32S  Opcode = 0xb7
	OpcodeF64ConvertI32U  Opcode = 0xb8
	OpcodeF64ConvertI64S  Opcode = 0xb9
	OpcodeF64ConvertI64U  Opcode = 0xba
	OpcodeF64PromoteF32   Opcode = 0xbb
	OpcodeI32ReinterpretF32 Opcode = 0xbc
	OpcodeI64ReinterpretF64 Opcode = 0xbd
	OpcodeF32ReinterpretI32 Opcode = 0xbe
	OpcodeF64ReinterpretI64 Opcode = 0xbf

	OpcodeI32Extend8S  Opcode = 0xc0
	OpcodeI32Extend16S Opcode = 0xc1
	OpcodeI64Extend8S  Opcode = 0xc2
	OpcodeI64Extend16S Opcode = 0xc3
	OpcodeI64Extend32S Opcode = 0xc4

	OpcodeRefNull   Opcode = 0xd0
	OpcodeRefIsNull Opcode = 0xd1
	OpcodeRefFunc   Opcode = 0xd2
)

// 0xFC-prefixed "misc" opcodes: saturating truncation and bulk memory/table.
var (
	OpcodeMiscI32TruncSatF32S Opcode = miscOpcode(0)
	OpcodeMiscI32TruncSatF32U Opcode = miscOpcode(1)
	OpcodeMiscI32TruncSatF64S Opcode = miscOpcode(2)
	OpcodeMiscI32TruncSatF64U Opcode = miscOpcode(3)
	OpcodeMiscI64TruncSatF32S Opcode = miscOpcode(4)
	OpcodeMiscI64TruncSatF32U Opcode = miscOpcode(5)
	OpcodeMiscI64TruncSatF64S Opcode = miscOpcode(6)
	OpcodeMiscI64TruncSatF64U Opcode = miscOpcode(7)

	OpcodeMiscMemoryInit Opcode = miscOpcode(8)
	OpcodeMiscDataDrop   Opcode = miscOpcode(9)
	OpcodeMiscMemoryCopy Opcode = miscOpcode(10)
	OpcodeMiscMemoryFill Opcode = miscOpcode(11)
	OpcodeMiscTableInit  Opcode = miscOpcode(12)
	OpcodeMiscElemDrop   Opcode = miscOpcode(13)
	OpcodeMiscTableCopy  Opcode = miscOpcode(14)
	OpcodeMiscTableGrow  Opcode = miscOpcode(15)
	OpcodeMiscTableSize  Opcode = miscOpcode(16)
	OpcodeMiscTableFill  Opcode = miscOpcode(17)
)

// 0xFD-prefixed SIMD opcodes, covering the full fixed-width SIMD lane family:
// memory access and v128.const, lane extraction/replacement, shuffle/swizzle,
// the complete comparison set per lane interpretation, bitwise ops, lane
// shifts, saturating arithmetic, narrow/extend/extmul/extadd_pairwise, the
// float lane unary family, min/max (plus pmin/pmax), and the v128<->i32x4
// conversion family. The sub-opcode numbers below are this runtime's own
// assignment: some equal the standard SIMD binary encoding and others do
// not, so a binary encoded with the standard numbers decodes as intended
// only for the opcodes whose numbers coincide. Extended v128 load variants
// (load_splat, load_zero, load_lane/store_lane, loadNxM_s/u) are not part of
// the opcode family this runtime implements.
var (
	OpcodeSIMDV128Load  Opcode = simdOpcode(0)
	OpcodeSIMDV128Store Opcode = simdOpcode(11)
	OpcodeSIMDV128Const Opcode = simdOpcode(12)

	OpcodeSIMDI8x16Shuffle Opcode = simdOpcode(13)
	OpcodeSIMDI8x16Swizzle Opcode = simdOpcode(14)

	OpcodeSIMDI8x16Splat Opcode = simdOpcode(15)
	OpcodeSIMDI16x8Splat Opcode = simdOpcode(16)
	OpcodeSIMDI32x4Splat Opcode = simdOpcode(17)
	OpcodeSIMDI64x2Splat Opcode = simdOpcode(18)
	OpcodeSIMDF32x4Splat Opcode = simdOpcode(19)
	OpcodeSIMDF64x2Splat Opcode = simdOpcode(20)

	OpcodeSIMDI8x16ExtractLaneS Opcode = simdOpcode(21)
	OpcodeSIMDI8x16ExtractLaneU Opcode = simdOpcode(22)
	OpcodeSIMDI8x16ReplaceLane  Opcode = simdOpcode(23)
	OpcodeSIMDI16x8ExtractLaneS Opcode = simdOpcode(24)
	OpcodeSIMDI16x8ExtractLaneU Opcode = simdOpcode(25)
	OpcodeSIMDI16x8ReplaceLane  Opcode = simdOpcode(26)
	OpcodeSIMDI32x4ExtractLane  Opcode = simdOpcode(27)
	OpcodeSIMDI32x4ReplaceLane  Opcode = simdOpcode(28)
	OpcodeSIMDI64x2ExtractLane  Opcode = simdOpcode(29)
	OpcodeSIMDI64x2ReplaceLane  Opcode = simdOpcode(30)
	OpcodeSIMDF32x4ExtractLane  Opcode = simdOpcode(31)
	OpcodeSIMDF32x4ReplaceLane  Opcode = simdOpcode(32)
	OpcodeSIMDF64x2ExtractLane  Opcode = simdOpcode(33)
	OpcodeSIMDF64x2ReplaceLane  Opcode = simdOpcode(34)

	OpcodeSIMDI8x16Eq   Opcode = simdOpcode(35)
	OpcodeSIMDI8x16Ne   Opcode = simdOpcode(36)
	OpcodeSIMDI8x16LtS  Opcode = simdOpcode(37)
	OpcodeSIMDI8x16LtU  Opcode = simdOpcode(38)
	OpcodeSIMDI8x16GtS  Opcode = simdOpcode(39)
	OpcodeSIMDI8x16GtU  Opcode = simdOpcode(40)
	OpcodeSIMDI8x16LeS  Opcode = simdOpcode(41)
	OpcodeSIMDI8x16LeU  Opcode = simdOpcode(42)
	OpcodeSIMDI8x16GeS  Opcode = simdOpcode(43)
	OpcodeSIMDI8x16GeU  Opcode = simdOpcode(44)

	OpcodeSIMDI16x8Eq  Opcode = simdOpcode(45)
	OpcodeSIMDI16x8Ne  Opcode = simdOpcode(46)
	OpcodeSIMDI16x8LtS Opcode = simdOpcode(47)
	OpcodeSIMDI16x8LtU Opcode = simdOpcode(48)
	OpcodeSIMDI16x8GtS Opcode = simdOpcode(49)
	OpcodeSIMDI16x8GtU Opcode = simdOpcode(50)
	OpcodeSIMDI16x8LeS Opcode = simdOpcode(51)
	OpcodeSIMDI16x8LeU Opcode = simdOpcode(52)
	OpcodeSIMDI16x8GeS Opcode = simdOpcode(53)
	OpcodeSIMDI16x8GeU Opcode = simdOpcode(54)

	OpcodeSIMDI32x4Eq  Opcode = simdOpcode(55)
	OpcodeSIMDI32x4Ne  Opcode = simdOpcode(56)
	OpcodeSIMDI32x4LtS Opcode = simdOpcode(57)
	OpcodeSIMDI32x4LtU Opcode = simdOpcode(58)
	OpcodeSIMDI32x4GtS Opcode = simdOpcode(59)
	OpcodeSIMDI32x4GtU Opcode = simdOpcode(60)
	OpcodeSIMDI32x4LeS Opcode = simdOpcode(61)
	OpcodeSIMDI32x4LeU Opcode = simdOpcode(62)
	OpcodeSIMDI32x4GeS Opcode = simdOpcode(63)
	OpcodeSIMDI32x4GeU Opcode = simdOpcode(64)

	OpcodeSIMDF32x4Eq Opcode = simdOpcode(65)
	OpcodeSIMDF32x4Ne Opcode = simdOpcode(66)
	OpcodeSIMDF32x4Lt Opcode = simdOpcode(67)
	OpcodeSIMDF32x4Gt Opcode = simdOpcode(68)
	OpcodeSIMDF32x4Le Opcode = simdOpcode(69)
	OpcodeSIMDF32x4Ge Opcode = simdOpcode(70)

	OpcodeSIMDF64x2Eq Opcode = simdOpcode(71)
	OpcodeSIMDF64x2Ne Opcode = simdOpcode(72)
	OpcodeSIMDF64x2Lt Opcode = simdOpcode(73)
	OpcodeSIMDF64x2Gt Opcode = simdOpcode(74)
	OpcodeSIMDF64x2Le Opcode = simdOpcode(75)
	OpcodeSIMDF64x2Ge Opcode = simdOpcode(76)

	OpcodeSIMDV128Not      Opcode = simdOpcode(77)
	OpcodeSIMDV128And      Opcode = simdOpcode(78)
	OpcodeSIMDV128AndNot   Opcode = simdOpcode(79)
	OpcodeSIMDV128Or       Opcode = simdOpcode(80)
	OpcodeSIMDV128Xor      Opcode = simdOpcode(81)
	OpcodeSIMDV128Bitselect Opcode = simdOpcode(82)
	OpcodeSIMDV128AnyTrue  Opcode = simdOpcode(83)

	OpcodeSIMDI64x2Eq  Opcode = simdOpcode(85)
	OpcodeSIMDI64x2Ne  Opcode = simdOpcode(86)
	OpcodeSIMDI64x2LtS Opcode = simdOpcode(87)
	OpcodeSIMDI64x2GtS Opcode = simdOpcode(88)
	OpcodeSIMDI64x2LeS Opcode = simdOpcode(89)
	OpcodeSIMDI64x2GeS Opcode = simdOpcode(90)

	OpcodeSIMDF32x4Ceil    Opcode = simdOpcode(103)
	OpcodeSIMDF32x4Floor   Opcode = simdOpcode(104)
	OpcodeSIMDF32x4Trunc   Opcode = simdOpcode(105)
	OpcodeSIMDF32x4Nearest Opcode = simdOpcode(106)

	OpcodeSIMDI8x16Abs     Opcode = simdOpcode(96)
	OpcodeSIMDI8x16Neg     Opcode = simdOpcode(97)
	OpcodeSIMDI8x16Popcnt  Opcode = simdOpcode(98)
	OpcodeSIMDI8x16AllTrue Opcode = simdOpcode(99)
	OpcodeSIMDI8x16Bitmask Opcode = simdOpcode(100)
	OpcodeSIMDI8x16NarrowI16x8S Opcode = simdOpcode(101)
	OpcodeSIMDI8x16NarrowI16x8U Opcode = simdOpcode(102)

	OpcodeSIMDI8x16Shl   Opcode = simdOpcode(107)
	OpcodeSIMDI8x16ShrS  Opcode = simdOpcode(108)
	OpcodeSIMDI8x16ShrU  Opcode = simdOpcode(109)
	OpcodeSIMDI8x16Add   Opcode = simdOpcode(110)
	OpcodeSIMDI8x16AddSatS Opcode = simdOpcode(111)
	OpcodeSIMDI8x16AddSatU Opcode = simdOpcode(112)
	OpcodeSIMDI8x16Sub   Opcode = simdOpcode(113)
	OpcodeSIMDI8x16SubSatS Opcode = simdOpcode(114)
	OpcodeSIMDI8x16SubSatU Opcode = simdOpcode(115)

	OpcodeSIMDF64x2Ceil  Opcode = simdOpcode(116)
	OpcodeSIMDF64x2Floor Opcode = simdOpcode(117)

	OpcodeSIMDI8x16MinS Opcode = simdOpcode(118)
	OpcodeSIMDI8x16MinU Opcode = simdOpcode(119)
	OpcodeSIMDI8x16MaxS Opcode = simdOpcode(120)
	OpcodeSIMDI8x16MaxU Opcode = simdOpcode(121)

	OpcodeSIMDF64x2Trunc  Opcode = simdOpcode(122)
	OpcodeSIMDI8x16AvgrU  Opcode = simdOpcode(123)

	OpcodeSIMDI16x8ExtaddPairwiseI8x16S Opcode = simdOpcode(124)
	OpcodeSIMDI16x8ExtaddPairwiseI8x16U Opcode = simdOpcode(125)
	OpcodeSIMDI32x4ExtaddPairwiseI16x8S Opcode = simdOpcode(126)
	OpcodeSIMDI32x4ExtaddPairwiseI16x8U Opcode = simdOpcode(127)

	OpcodeSIMDI16x8Abs          Opcode = simdOpcode(128)
	OpcodeSIMDI16x8Neg          Opcode = simdOpcode(129)
	OpcodeSIMDI16x8Q15mulrSatS  Opcode = simdOpcode(130)
	OpcodeSIMDI16x8AllTrue      Opcode = simdOpcode(131)
	OpcodeSIMDI16x8Bitmask      Opcode = simdOpcode(132)
	OpcodeSIMDI16x8NarrowI32x4S Opcode = simdOpcode(133)
	OpcodeSIMDI16x8NarrowI32x4U Opcode = simdOpcode(134)
	OpcodeSIMDI16x8ExtendLowI8x16S  Opcode = simdOpcode(135)
	OpcodeSIMDI16x8ExtendHighI8x16S Opcode = simdOpcode(136)
	OpcodeSIMDI16x8ExtendLowI8x16U  Opcode = simdOpcode(137)
	OpcodeSIMDI16x8ExtendHighI8x16U Opcode = simdOpcode(138)

	OpcodeSIMDI16x8Shl    Opcode = simdOpcode(139)
	OpcodeSIMDI16x8ShrS   Opcode = simdOpcode(140)
	OpcodeSIMDI16x8ShrU   Opcode = simdOpcode(141)
	OpcodeSIMDI16x8Add    Opcode = simdOpcode(142)
	OpcodeSIMDI16x8AddSatS Opcode = simdOpcode(143)
	OpcodeSIMDI16x8AddSatU Opcode = simdOpcode(144)
	OpcodeSIMDI16x8Sub    Opcode = simdOpcode(145)
	OpcodeSIMDI16x8SubSatS Opcode = simdOpcode(146)
	OpcodeSIMDI16x8SubSatU Opcode = simdOpcode(147)

	OpcodeSIMDF64x2Nearest Opcode = simdOpcode(148)

	OpcodeSIMDI16x8Mul   Opcode = simdOpcode(149)
	OpcodeSIMDI16x8MinS  Opcode = simdOpcode(150)
	OpcodeSIMDI16x8MinU  Opcode = simdOpcode(151)
	OpcodeSIMDI16x8MaxS  Opcode = simdOpcode(152)
	OpcodeSIMDI16x8MaxU  Opcode = simdOpcode(153)
	OpcodeSIMDI16x8AvgrU Opcode = simdOpcode(155)

	OpcodeSIMDI16x8ExtmulLowI8x16S  Opcode = simdOpcode(156)
	OpcodeSIMDI16x8ExtmulHighI8x16S Opcode = simdOpcode(157)
	OpcodeSIMDI16x8ExtmulLowI8x16U  Opcode = simdOpcode(158)
	OpcodeSIMDI16x8ExtmulHighI8x16U Opcode = simdOpcode(159)

	OpcodeSIMDI32x4Abs     Opcode = simdOpcode(160)
	OpcodeSIMDI32x4Neg     Opcode = simdOpcode(161)
	OpcodeSIMDI32x4AllTrue Opcode = simdOpcode(163)
	OpcodeSIMDI32x4Bitmask Opcode = simdOpcode(164)
	OpcodeSIMDI32x4ExtendLowI16x8S  Opcode = simdOpcode(167)
	OpcodeSIMDI32x4ExtendHighI16x8S Opcode = simdOpcode(168)
	OpcodeSIMDI32x4ExtendLowI16x8U  Opcode = simdOpcode(169)
	OpcodeSIMDI32x4ExtendHighI16x8U Opcode = simdOpcode(170)

	OpcodeSIMDI32x4Shl  Opcode = simdOpcode(171)
	OpcodeSIMDI32x4ShrS Opcode = simdOpcode(172)
	OpcodeSIMDI32x4ShrU Opcode = simdOpcode(173)
	OpcodeSIMDI32x4Add  Opcode = simdOpcode(174)
	OpcodeSIMDI32x4Sub  Opcode = simdOpcode(177)
	OpcodeSIMDI32x4Mul  Opcode = simdOpcode(181)
	OpcodeSIMDI32x4MinS Opcode = simdOpcode(182)
	OpcodeSIMDI32x4MinU Opcode = simdOpcode(183)
	OpcodeSIMDI32x4MaxS Opcode = simdOpcode(184)
	OpcodeSIMDI32x4DotI16x8S Opcode = simdOpcode(185)
	OpcodeSIMDI32x4MaxU Opcode = simdOpcode(186)

	OpcodeSIMDI32x4ExtmulLowI16x8S  Opcode = simdOpcode(187)
	OpcodeSIMDI32x4ExtmulHighI16x8S Opcode = simdOpcode(188)
	OpcodeSIMDI32x4ExtmulLowI16x8U  Opcode = simdOpcode(189)
	OpcodeSIMDI32x4ExtmulHighI16x8U Opcode = simdOpcode(190)

	OpcodeSIMDI64x2Abs     Opcode = simdOpcode(191)
	OpcodeSIMDI64x2Neg     Opcode = simdOpcode(192)
	OpcodeSIMDI64x2AllTrue Opcode = simdOpcode(194)
	OpcodeSIMDI64x2Bitmask Opcode = simdOpcode(195)
	OpcodeSIMDI64x2ExtendLowI32x4S  Opcode = simdOpcode(198)
	OpcodeSIMDI64x2ExtendHighI32x4S Opcode = simdOpcode(199)
	OpcodeSIMDI64x2ExtendLowI32x4U  Opcode = simdOpcode(200)
	OpcodeSIMDI64x2ExtendHighI32x4U Opcode = simdOpcode(201)

	OpcodeSIMDI64x2Shl  Opcode = simdOpcode(202)
	OpcodeSIMDI64x2ShrS Opcode = simdOpcode(203)
	OpcodeSIMDI64x2ShrU Opcode = simdOpcode(204)
	OpcodeSIMDI64x2Add  Opcode = simdOpcode(205)
	OpcodeSIMDI64x2Sub  Opcode = simdOpcode(209)
	OpcodeSIMDI64x2Mul  Opcode = simdOpcode(245)

	OpcodeSIMDI64x2ExtmulLowI32x4S  Opcode = simdOpcode(212)
	OpcodeSIMDI64x2ExtmulHighI32x4S Opcode = simdOpcode(213)
	OpcodeSIMDI64x2ExtmulLowI32x4U  Opcode = simdOpcode(214)
	OpcodeSIMDI64x2ExtmulHighI32x4U Opcode = simdOpcode(215)

	OpcodeSIMDF32x4Abs  Opcode = simdOpcode(216)
	OpcodeSIMDF32x4Neg  Opcode = simdOpcode(217)
	OpcodeSIMDF32x4Sqrt Opcode = simdOpcode(219)
	OpcodeSIMDF32x4Add  Opcode = simdOpcode(228)
	OpcodeSIMDF32x4Sub  Opcode = simdOpcode(229)
	OpcodeSIMDF32x4Mul  Opcode = simdOpcode(230)
	OpcodeSIMDF32x4Div  Opcode = simdOpcode(231)
	OpcodeSIMDF32x4Min  Opcode = simdOpcode(222)
	OpcodeSIMDF32x4Max  Opcode = simdOpcode(223)
	OpcodeSIMDF32x4Pmin Opcode = simdOpcode(226)
	OpcodeSIMDF32x4Pmax Opcode = simdOpcode(227)

	OpcodeSIMDF64x2Abs  Opcode = simdOpcode(224)
	OpcodeSIMDF64x2Neg  Opcode = simdOpcode(225)
	OpcodeSIMDF64x2Sqrt Opcode = simdOpcode(218)
	OpcodeSIMDF64x2Add  Opcode = simdOpcode(240)
	OpcodeSIMDF64x2Sub  Opcode = simdOpcode(241)
	OpcodeSIMDF64x2Mul  Opcode = simdOpcode(242)
	OpcodeSIMDF64x2Div  Opcode = simdOpcode(243)
	OpcodeSIMDF64x2Min  Opcode = simdOpcode(236)
	OpcodeSIMDF64x2Max  Opcode = simdOpcode(237)
	OpcodeSIMDF64x2Pmin Opcode = simdOpcode(250)
	OpcodeSIMDF64x2Pmax Opcode = simdOpcode(251)

	OpcodeSIMDI32x4TruncSatF32x4S Opcode = simdOpcode(306)
	OpcodeSIMDI32x4TruncSatF32x4U Opcode = simdOpcode(307)
	OpcodeSIMDF32x4ConvertI32x4S  Opcode = simdOpcode(308)
	OpcodeSIMDF32x4ConvertI32x4U  Opcode = simdOpcode(309)
	OpcodeSIMDF32x4DemoteF64x2Zero   Opcode = simdOpcode(304)
	OpcodeSIMDF64x2PromoteLowF32x4   Opcode = simdOpcode(305)
	OpcodeSIMDI32x4TruncSatF64x2SZero Opcode = simdOpcode(300)
	OpcodeSIMDI32x4TruncSatF64x2UZero Opcode = simdOpcode(301)
	OpcodeSIMDF64x2ConvertLowI32x4S   Opcode = simdOpcode(302)
	OpcodeSIMDF64x2ConvertLowI32x4U   Opcode = simdOpcode(303)
)

// BlockType describes the parameters and results a structured control
// instruction's body expects, resolved during decode from the signed-33-bit
// LEB128 immediate: negative single-digit values denote a bare value type
// (or the empty type), non-negative values index the module's type section
// (the multi-value proposal's contribution, carried per SPEC_FULL.md §3).
type BlockType struct {
	Params  []api.ValueType
	Results []api.ValueType
}

// ResolveBlockType turns a raw signed-33-bit block type immediate into a
// concrete BlockType, indexing types when the immediate is non-negative.
// Called by the decoder, which stores the result in ImmBlockType for the
// validator to type-check against.
func ResolveBlockType(raw int64, types []FunctionType) (BlockType, error) {
	if raw == -64 { // 0x40, encoded as the 7-bit value 0x40 sign-extended
		return BlockType{}, nil
	}
	if raw >= 0 {
		if int(raw) >= len(types) {
			return BlockType{}, NewMalformedModuleError("block type: type index %d out of range", raw)
		}
		t := types[raw]
		return BlockType{Params: t.Params, Results: t.Results}, nil
	}
	switch vt := api.ValueType(raw & 0x7f); vt {
	case ValueTypeI32, ValueTypeI64, ValueTypeF32, ValueTypeF64, ValueTypeV128, ValueTypeFuncref, ValueTypeExternref:
		return BlockType{Results: []api.ValueType{vt}}, nil
	default:
		return BlockType{}, NewMalformedModuleError("block type: invalid value type %d", raw)
	}
}

// Label is the pre-resolved branch target a decoded Br/BrIf/BrTable argument
// points to. Arity and StackHeight are filled in by the validator, which is
// the only component with enough context (the control-frame stack) to know
// how many values a branch to this point carries and how deep the operand
// stack must be truncated to.
type Label struct {
	// Position is the index into the owning function's Instructions slice
	// that control transfers to.
	Position int
	// Arity is the number of values carried across the branch.
	Arity int
	// StackHeight is the operand-stack height at the point this label was
	// introduced; branching here truncates the stack back down to it before
	// pushing the Arity carried values.
	StackHeight int
	// IsLoopHeader marks a label that targets a loop's start (branching
	// here re-enters the loop) as opposed to a block/if/function end
	// (branching here exits).
	IsLoopHeader bool
}

// Instruction is one decoded, linearized step of a function body. Structured
// control flow (block/loop/if) has already been resolved into plain
// conditional/unconditional jumps over this flat slice by the time the
// validator is done, so the interpreter never recurses through nested
// blocks — it just walks Instructions with a program counter.
type Instruction struct {
	Opcode Opcode

	// Imm* hold the instruction's immediate operands; which fields are
	// meaningful depends on Opcode. Populated by the decoder, consumed by
	// the validator (which may rewrite ImmLabel) and the interpreter.
	ImmI32   int32
	ImmI64   int64
	ImmF32   uint32 // bit pattern
	ImmF64   uint64 // bit pattern
	ImmIndex uint32 // local/global/func/table/type/data/elem index
	ImmIndex2 uint32 // second index operand (e.g. table.copy's src table)
	ImmAlign uint32
	ImmOffset uint32

	// ImmV128 holds a full 128-bit constant or lane-immediate payload: the 16
	// lane-select bytes for i8x16.shuffle, or (in byte 0 only) the single
	// lane index for an extract_lane/replace_lane opcode.
	ImmV128 [16]byte

	// ImmLabel is the single resolved branch target for Br/BrIf, and also
	// doubles as the Block/Loop/If continuation the validator resolves
	// while it walks the control-frame stack (each of these gets exactly one
	// Label: its own continuation). Else gets no Label; it jumps through
	// its own ImmElsePC.
	ImmLabel *Label

	// ImmBrTableTargets holds BrTable's raw relative depths as decoded
	// (ImmIndex carries the raw default depth); the validator resolves both
	// into ImmLabels, parallel to ImmBrTableTargets plus one trailing entry
	// for the default.
	ImmBrTableTargets []uint32
	ImmLabels         []*Label

	// ImmBlockType carries the signature consumed while the validator walks
	// a block/loop/if; unused after validation produces the Label.
	ImmBlockType BlockType

	// ImmElsePC is set on an If instruction to the index of the instruction
	// immediately following its matching Else, or -1 when the If has no
	// Else arm (so a false condition jumps straight to ImmLabel.Position,
	// the End continuation). Set on an Else instruction to the index
	// immediately following the matching End, so that falling through the
	// Then arm at runtime (reaching Else without having branched) skips the
	// Else arm's body. Unused by every other opcode.
	ImmElsePC int

	// ImmValueType carries the operand type the validator resolved for
	// Select/SelectT, so the interpreter knows how many operand-stack slots
	// each of the two candidate values occupies (one for every type except
	// v128, which takes two). Unused by every other opcode.
	ImmValueType api.ValueType
}
