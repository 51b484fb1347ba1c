package interpreter

import (
	"encoding/binary"
	"math"

	"github.com/corewasm/corewasm/internal/wasm"
	"github.com/corewasm/corewasm/internal/wasm/ops"
	"github.com/corewasm/corewasm/internal/wasmruntime"
)

// stepMemoryOrArith handles every opcode step doesn't special-case directly:
// numeric comparisons/arithmetic/conversions (dispatched to internal/wasm/ops
// for anything with nontrivial semantics), memory load/store, and the SIMD
// lane operations. Returns handled=false only for an opcode nobody
// recognizes, which step turns into a panic.
func (e *Engine) stepMemoryOrArith(f *callFrame, inst *wasm.Instruction, pc int) (handled bool, next int, err error) {
	if lo, ok := loadWidths[inst.Opcode]; ok {
		e.execLoad(f, inst, lo)
		return true, pc + 1, nil
	}
	if st, ok := storeWidths[inst.Opcode]; ok {
		e.execStore(f, inst, st)
		return true, pc + 1, nil
	}
	if execArith(f, inst) {
		return true, pc + 1, nil
	}
	return false, 0, nil
}

// execMemoryInit copies n bytes from data segment inst.ImmIndex at offset src
// into memory 0 at offset dst. A dropped segment behaves as though its
// length were zero, so any nonzero n traps.
func execMemoryInit(f *callFrame, inst *wasm.Instruction) {
	n, src, dst := u32(f.pop()), u32(f.pop()), u32(f.pop())
	seg := &f.inst.Module.DataSection[inst.ImmIndex]
	data := seg.Init
	if f.inst.DataDropped[inst.ImmIndex] {
		data = nil
	}
	mem := f.inst.Memories[0]
	if uint64(src)+uint64(n) > uint64(len(data)) || uint64(dst)+uint64(n) > uint64(len(mem.Buffer)) {
		panic(wasmruntime.ErrRuntimeOutOfBoundsMemoryAccess)
	}
	copy(mem.Buffer[dst:dst+n], data[src:src+n])
}

// execMemoryCopy moves n bytes within memory 0, src to dst. Go's builtin
// copy is memmove-safe, so overlapping ranges need no special casing.
func execMemoryCopy(f *callFrame) {
	n, src, dst := u32(f.pop()), u32(f.pop()), u32(f.pop())
	mem := f.inst.Memories[0]
	if uint64(src)+uint64(n) > uint64(len(mem.Buffer)) || uint64(dst)+uint64(n) > uint64(len(mem.Buffer)) {
		panic(wasmruntime.ErrRuntimeOutOfBoundsMemoryAccess)
	}
	copy(mem.Buffer[dst:dst+n], mem.Buffer[src:src+n])
}

func execMemoryFill(f *callFrame) {
	n, val, dst := u32(f.pop()), byte(f.pop()), u32(f.pop())
	mem := f.inst.Memories[0]
	if uint64(dst)+uint64(n) > uint64(len(mem.Buffer)) {
		panic(wasmruntime.ErrRuntimeOutOfBoundsMemoryAccess)
	}
	for i := uint32(0); i < n; i++ {
		mem.Buffer[dst+i] = val
	}
}

// execTableInit copies n entries from element segment inst.ImmIndex at
// offset src into table inst.ImmIndex2 at offset dst. A dropped segment
// behaves as though its length were zero.
func execTableInit(f *callFrame, inst *wasm.Instruction) {
	n, src, dst := u32(f.pop()), u32(f.pop()), u32(f.pop())
	seg := &f.inst.Module.ElementSection[inst.ImmIndex]
	init := seg.Init
	if f.inst.ElemDropped[inst.ImmIndex] {
		init = nil
	}
	table := f.inst.Tables[inst.ImmIndex2]
	if uint64(src)+uint64(n) > uint64(len(init)) || uint64(dst)+uint64(n) > uint64(len(table.Elems)) {
		panic(wasmruntime.ErrRuntimeInvalidTableAccess)
	}
	for i := uint32(0); i < n; i++ {
		funcIdx := init[src+i]
		if funcIdx == ^uint32(0) {
			table.Elems[dst+i] = wasm.TableElement{}
		} else {
			table.Elems[dst+i] = wasm.TableElement{Function: f.inst.Functions[funcIdx]}
		}
	}
}

// execTableCopy moves n entries from table inst.ImmIndex2 (src) into table
// inst.ImmIndex (dst); the two may be the same table, so it relies on
// copy's memmove semantics rather than a manual loop.
func execTableCopy(f *callFrame, inst *wasm.Instruction) {
	n, src, dst := u32(f.pop()), u32(f.pop()), u32(f.pop())
	dstTable := f.inst.Tables[inst.ImmIndex]
	srcTable := f.inst.Tables[inst.ImmIndex2]
	if uint64(src)+uint64(n) > uint64(len(srcTable.Elems)) || uint64(dst)+uint64(n) > uint64(len(dstTable.Elems)) {
		panic(wasmruntime.ErrRuntimeInvalidTableAccess)
	}
	copy(dstTable.Elems[dst:dst+n], srcTable.Elems[src:src+n])
}

func execTableGrow(f *callFrame, inst *wasm.Instruction) {
	n, val := u32(f.pop()), f.pop()
	table := f.inst.Tables[inst.ImmIndex]
	prev := uint32(len(table.Elems))
	next := uint64(prev) + uint64(n)
	if table.Type.IsMaxEncoded && next > uint64(table.Type.Max) {
		f.push(uint64(uint32(0xffffffff)))
		return
	}
	elem := TableElementFromU64(f.inst, val)
	grown := make([]wasm.TableElement, n)
	for i := range grown {
		grown[i] = elem
	}
	table.Elems = append(table.Elems, grown...)
	f.push(uint64(prev))
}

func execTableFill(f *callFrame, inst *wasm.Instruction) {
	n, val, dst := u32(f.pop()), f.pop(), u32(f.pop())
	table := f.inst.Tables[inst.ImmIndex]
	if uint64(dst)+uint64(n) > uint64(len(table.Elems)) {
		panic(wasmruntime.ErrRuntimeInvalidTableAccess)
	}
	elem := TableElementFromU64(f.inst, val)
	for i := uint32(0); i < n; i++ {
		table.Elems[dst+i] = elem
	}
}

type loadShape struct {
	width   int
	signed  bool
	is64    bool
	isFloat bool
}

var loadWidths = map[wasm.Opcode]loadShape{
	wasm.OpcodeI32Load:    {4, false, false, false},
	wasm.OpcodeI64Load:    {8, false, true, false},
	wasm.OpcodeF32Load:    {4, false, false, true},
	wasm.OpcodeF64Load:    {8, false, true, true},
	wasm.OpcodeI32Load8S:  {1, true, false, false},
	wasm.OpcodeI32Load8U:  {1, false, false, false},
	wasm.OpcodeI32Load16S: {2, true, false, false},
	wasm.OpcodeI32Load16U: {2, false, false, false},
	wasm.OpcodeI64Load8S:  {1, true, true, false},
	wasm.OpcodeI64Load8U:  {1, false, true, false},
	wasm.OpcodeI64Load16S: {2, true, true, false},
	wasm.OpcodeI64Load16U: {2, false, true, false},
	wasm.OpcodeI64Load32S: {4, true, true, false},
	wasm.OpcodeI64Load32U: {4, false, true, false},
}

var storeWidths = map[wasm.Opcode]int{
	wasm.OpcodeI32Store:   4,
	wasm.OpcodeI64Store:   8,
	wasm.OpcodeF32Store:   4,
	wasm.OpcodeF64Store:   8,
	wasm.OpcodeI32Store8:  1,
	wasm.OpcodeI32Store16: 2,
	wasm.OpcodeI64Store8:  1,
	wasm.OpcodeI64Store16: 2,
	wasm.OpcodeI64Store32: 4,
}

func effectiveAddr(f *callFrame, inst *wasm.Instruction, width int) []byte {
	base := uint32(f.pop())
	addr := uint64(base) + uint64(inst.ImmOffset)
	mem := f.inst.Memories[0]
	if addr+uint64(width) > uint64(len(mem.Buffer)) {
		panic(wasmruntime.ErrRuntimeOutOfBoundsMemoryAccess)
	}
	return mem.Buffer[addr : addr+uint64(width)]
}

func (e *Engine) execLoad(f *callFrame, inst *wasm.Instruction, lo loadShape) {
	b := effectiveAddr(f, inst, lo.width)
	switch lo.width {
	case 1:
		v := b[0]
		if lo.signed {
			s := int64(int8(v))
			f.push(uint64(s))
		} else if lo.is64 {
			f.push(uint64(v))
		} else {
			f.push(uint64(uint32(v)))
		}
	case 2:
		v := binary.LittleEndian.Uint16(b)
		if lo.signed {
			s := int64(int16(v))
			f.push(uint64(s))
		} else if lo.is64 {
			f.push(uint64(v))
		} else {
			f.push(uint64(uint32(v)))
		}
	case 4:
		v := binary.LittleEndian.Uint32(b)
		if lo.isFloat {
			f.push(uint64(v))
			return
		}
		if lo.is64 {
			if lo.signed {
				f.push(uint64(int64(int32(v))))
			} else {
				f.push(uint64(v))
			}
		} else {
			f.push(uint64(v))
		}
	case 8:
		v := binary.LittleEndian.Uint64(b)
		f.push(v)
	}
}

func (e *Engine) execStore(f *callFrame, inst *wasm.Instruction, width int) {
	v := f.pop()
	b := effectiveAddr(f, inst, width)
	switch width {
	case 1:
		b[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(b, uint32(v))
	case 8:
		binary.LittleEndian.PutUint64(b, v)
	}
}

func boolU64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func i32(v uint64) int32   { return int32(uint32(v)) }
func u32(v uint64) uint32  { return uint32(v) }
func i64(v uint64) int64   { return int64(v) }
func u64(v uint64) uint64  { return v }
func f32(v uint64) float32 { return math.Float32frombits(uint32(v)) }
func f64(v uint64) float64 { return math.Float64frombits(v) }
func pushF32(f *callFrame, v float32) { f.push(uint64(math.Float32bits(v))) }
func pushF64(f *callFrame, v float64) { f.push(math.Float64bits(v)) }

// execArith dispatches every fixed-shape numeric and SIMD opcode. Returns
// false for anything not in this table (control flow, memory, calls —
// handled elsewhere).
func execArith(f *callFrame, inst *wasm.Instruction) bool {
	op := inst.Opcode
	switch op {
	// i32 comparisons
	case wasm.OpcodeI32Eqz:
		f.push(boolU64(i32(f.pop()) == 0))
	case wasm.OpcodeI32Eq:
		b, a := i32(f.pop()), i32(f.pop())
		f.push(boolU64(a == b))
	case wasm.OpcodeI32Ne:
		b, a := i32(f.pop()), i32(f.pop())
		f.push(boolU64(a != b))
	case wasm.OpcodeI32LtS:
		b, a := i32(f.pop()), i32(f.pop())
		f.push(boolU64(a < b))
	case wasm.OpcodeI32LtU:
		b, a := u32(f.pop()), u32(f.pop())
		f.push(boolU64(a < b))
	case wasm.OpcodeI32GtS:
		b, a := i32(f.pop()), i32(f.pop())
		f.push(boolU64(a > b))
	case wasm.OpcodeI32GtU:
		b, a := u32(f.pop()), u32(f.pop())
		f.push(boolU64(a > b))
	case wasm.OpcodeI32LeS:
		b, a := i32(f.pop()), i32(f.pop())
		f.push(boolU64(a <= b))
	case wasm.OpcodeI32LeU:
		b, a := u32(f.pop()), u32(f.pop())
		f.push(boolU64(a <= b))
	case wasm.OpcodeI32GeS:
		b, a := i32(f.pop()), i32(f.pop())
		f.push(boolU64(a >= b))
	case wasm.OpcodeI32GeU:
		b, a := u32(f.pop()), u32(f.pop())
		f.push(boolU64(a >= b))

	// i64 comparisons
	case wasm.OpcodeI64Eqz:
		f.push(boolU64(i64(f.pop()) == 0))
	case wasm.OpcodeI64Eq:
		b, a := i64(f.pop()), i64(f.pop())
		f.push(boolU64(a == b))
	case wasm.OpcodeI64Ne:
		b, a := i64(f.pop()), i64(f.pop())
		f.push(boolU64(a != b))
	case wasm.OpcodeI64LtS:
		b, a := i64(f.pop()), i64(f.pop())
		f.push(boolU64(a < b))
	case wasm.OpcodeI64LtU:
		b, a := u64(f.pop()), u64(f.pop())
		f.push(boolU64(a < b))
	case wasm.OpcodeI64GtS:
		b, a := i64(f.pop()), i64(f.pop())
		f.push(boolU64(a > b))
	case wasm.OpcodeI64GtU:
		b, a := u64(f.pop()), u64(f.pop())
		f.push(boolU64(a > b))
	case wasm.OpcodeI64LeS:
		b, a := i64(f.pop()), i64(f.pop())
		f.push(boolU64(a <= b))
	case wasm.OpcodeI64LeU:
		b, a := u64(f.pop()), u64(f.pop())
		f.push(boolU64(a <= b))
	case wasm.OpcodeI64GeS:
		b, a := i64(f.pop()), i64(f.pop())
		f.push(boolU64(a >= b))
	case wasm.OpcodeI64GeU:
		b, a := u64(f.pop()), u64(f.pop())
		f.push(boolU64(a >= b))

	// f32/f64 comparisons
	case wasm.OpcodeF32Eq:
		b, a := f32(f.pop()), f32(f.pop())
		f.push(boolU64(a == b))
	case wasm.OpcodeF32Ne:
		b, a := f32(f.pop()), f32(f.pop())
		f.push(boolU64(a != b))
	case wasm.OpcodeF32Lt:
		b, a := f32(f.pop()), f32(f.pop())
		f.push(boolU64(a < b))
	case wasm.OpcodeF32Gt:
		b, a := f32(f.pop()), f32(f.pop())
		f.push(boolU64(a > b))
	case wasm.OpcodeF32Le:
		b, a := f32(f.pop()), f32(f.pop())
		f.push(boolU64(a <= b))
	case wasm.OpcodeF32Ge:
		b, a := f32(f.pop()), f32(f.pop())
		f.push(boolU64(a >= b))
	case wasm.OpcodeF64Eq:
		b, a := f64(f.pop()), f64(f.pop())
		f.push(boolU64(a == b))
	case wasm.OpcodeF64Ne:
		b, a := f64(f.pop()), f64(f.pop())
		f.push(boolU64(a != b))
	case wasm.OpcodeF64Lt:
		b, a := f64(f.pop()), f64(f.pop())
		f.push(boolU64(a < b))
	case wasm.OpcodeF64Gt:
		b, a := f64(f.pop()), f64(f.pop())
		f.push(boolU64(a > b))
	case wasm.OpcodeF64Le:
		b, a := f64(f.pop()), f64(f.pop())
		f.push(boolU64(a <= b))
	case wasm.OpcodeF64Ge:
		b, a := f64(f.pop()), f64(f.pop())
		f.push(boolU64(a >= b))

	// i32 arithmetic
	case wasm.OpcodeI32Clz:
		f.push(uint64(ops.I32Clz(u32(f.pop()))))
	case wasm.OpcodeI32Ctz:
		f.push(uint64(ops.I32Ctz(u32(f.pop()))))
	case wasm.OpcodeI32Popcnt:
		f.push(uint64(ops.I32Popcnt(u32(f.pop()))))
	case wasm.OpcodeI32Add:
		b, a := u32(f.pop()), u32(f.pop())
		f.push(uint64(a + b))
	case wasm.OpcodeI32Sub:
		b, a := u32(f.pop()), u32(f.pop())
		f.push(uint64(a - b))
	case wasm.OpcodeI32Mul:
		b, a := u32(f.pop()), u32(f.pop())
		f.push(uint64(a * b))
	case wasm.OpcodeI32DivS:
		b, a := i32(f.pop()), i32(f.pop())
		f.push(uint64(uint32(ops.I32DivS(a, b))))
	case wasm.OpcodeI32DivU:
		b, a := u32(f.pop()), u32(f.pop())
		f.push(uint64(ops.I32DivU(a, b)))
	case wasm.OpcodeI32RemS:
		b, a := i32(f.pop()), i32(f.pop())
		f.push(uint64(uint32(ops.I32RemS(a, b))))
	case wasm.OpcodeI32RemU:
		b, a := u32(f.pop()), u32(f.pop())
		f.push(uint64(ops.I32RemU(a, b)))
	case wasm.OpcodeI32And:
		b, a := u32(f.pop()), u32(f.pop())
		f.push(uint64(a & b))
	case wasm.OpcodeI32Or:
		b, a := u32(f.pop()), u32(f.pop())
		f.push(uint64(a | b))
	case wasm.OpcodeI32Xor:
		b, a := u32(f.pop()), u32(f.pop())
		f.push(uint64(a ^ b))
	case wasm.OpcodeI32Shl:
		b, a := u32(f.pop()), u32(f.pop())
		f.push(uint64(a << (b & 31)))
	case wasm.OpcodeI32ShrS:
		b, a := u32(f.pop()), i32(f.pop())
		f.push(uint64(uint32(a >> (b & 31))))
	case wasm.OpcodeI32ShrU:
		b, a := u32(f.pop()), u32(f.pop())
		f.push(uint64(a >> (b & 31)))
	case wasm.OpcodeI32Rotl:
		b, a := u32(f.pop()), u32(f.pop())
		f.push(uint64(ops.I32Rotl(a, b)))
	case wasm.OpcodeI32Rotr:
		b, a := u32(f.pop()), u32(f.pop())
		f.push(uint64(ops.I32Rotr(a, b)))

	// i64 arithmetic
	case wasm.OpcodeI64Clz:
		f.push(ops.I64Clz(u64(f.pop())))
	case wasm.OpcodeI64Ctz:
		f.push(ops.I64Ctz(u64(f.pop())))
	case wasm.OpcodeI64Popcnt:
		f.push(ops.I64Popcnt(u64(f.pop())))
	case wasm.OpcodeI64Add:
		b, a := u64(f.pop()), u64(f.pop())
		f.push(a + b)
	case wasm.OpcodeI64Sub:
		b, a := u64(f.pop()), u64(f.pop())
		f.push(a - b)
	case wasm.OpcodeI64Mul:
		b, a := u64(f.pop()), u64(f.pop())
		f.push(a * b)
	case wasm.OpcodeI64DivS:
		b, a := i64(f.pop()), i64(f.pop())
		f.push(uint64(ops.I64DivS(a, b)))
	case wasm.OpcodeI64DivU:
		b, a := u64(f.pop()), u64(f.pop())
		f.push(ops.I64DivU(a, b))
	case wasm.OpcodeI64RemS:
		b, a := i64(f.pop()), i64(f.pop())
		f.push(uint64(ops.I64RemS(a, b)))
	case wasm.OpcodeI64RemU:
		b, a := u64(f.pop()), u64(f.pop())
		f.push(ops.I64RemU(a, b))
	case wasm.OpcodeI64And:
		b, a := u64(f.pop()), u64(f.pop())
		f.push(a & b)
	case wasm.OpcodeI64Or:
		b, a := u64(f.pop()), u64(f.pop())
		f.push(a | b)
	case wasm.OpcodeI64Xor:
		b, a := u64(f.pop()), u64(f.pop())
		f.push(a ^ b)
	case wasm.OpcodeI64Shl:
		b, a := u64(f.pop()), u64(f.pop())
		f.push(a << (b & 63))
	case wasm.OpcodeI64ShrS:
		b, a := u64(f.pop()), i64(f.pop())
		f.push(uint64(a >> (b & 63)))
	case wasm.OpcodeI64ShrU:
		b, a := u64(f.pop()), u64(f.pop())
		f.push(a >> (b & 63))
	case wasm.OpcodeI64Rotl:
		b, a := u64(f.pop()), u64(f.pop())
		f.push(ops.I64Rotl(a, b))
	case wasm.OpcodeI64Rotr:
		b, a := u64(f.pop()), u64(f.pop())
		f.push(ops.I64Rotr(a, b))

	// f32 arithmetic
	case wasm.OpcodeF32Abs:
		pushF32(f, float32(math.Abs(float64(f32(f.pop())))))
	case wasm.OpcodeF32Neg:
		pushF32(f, -f32(f.pop()))
	case wasm.OpcodeF32Ceil:
		pushF32(f, float32(math.Ceil(float64(f32(f.pop())))))
	case wasm.OpcodeF32Floor:
		pushF32(f, float32(math.Floor(float64(f32(f.pop())))))
	case wasm.OpcodeF32Trunc:
		pushF32(f, float32(math.Trunc(float64(f32(f.pop())))))
	case wasm.OpcodeF32Nearest:
		pushF32(f, ops.F32Nearest(f32(f.pop())))
	case wasm.OpcodeF32Sqrt:
		pushF32(f, float32(math.Sqrt(float64(f32(f.pop())))))
	case wasm.OpcodeF32Add:
		b, a := f32(f.pop()), f32(f.pop())
		pushF32(f, a+b)
	case wasm.OpcodeF32Sub:
		b, a := f32(f.pop()), f32(f.pop())
		pushF32(f, a-b)
	case wasm.OpcodeF32Mul:
		b, a := f32(f.pop()), f32(f.pop())
		pushF32(f, a*b)
	case wasm.OpcodeF32Div:
		b, a := f32(f.pop()), f32(f.pop())
		pushF32(f, a/b)
	case wasm.OpcodeF32Min:
		b, a := f32(f.pop()), f32(f.pop())
		pushF32(f, ops.F32Min(a, b))
	case wasm.OpcodeF32Max:
		b, a := f32(f.pop()), f32(f.pop())
		pushF32(f, ops.F32Max(a, b))
	case wasm.OpcodeF32Copysign:
		b, a := f32(f.pop()), f32(f.pop())
		pushF32(f, ops.F32Copysign(a, b))

	// f64 arithmetic
	case wasm.OpcodeF64Abs:
		pushF64(f, math.Abs(f64(f.pop())))
	case wasm.OpcodeF64Neg:
		pushF64(f, -f64(f.pop()))
	case wasm.OpcodeF64Ceil:
		pushF64(f, math.Ceil(f64(f.pop())))
	case wasm.OpcodeF64Floor:
		pushF64(f, math.Floor(f64(f.pop())))
	case wasm.OpcodeF64Trunc:
		pushF64(f, math.Trunc(f64(f.pop())))
	case wasm.OpcodeF64Nearest:
		pushF64(f, ops.F64Nearest(f64(f.pop())))
	case wasm.OpcodeF64Sqrt:
		pushF64(f, math.Sqrt(f64(f.pop())))
	case wasm.OpcodeF64Add:
		b, a := f64(f.pop()), f64(f.pop())
		pushF64(f, a+b)
	case wasm.OpcodeF64Sub:
		b, a := f64(f.pop()), f64(f.pop())
		pushF64(f, a-b)
	case wasm.OpcodeF64Mul:
		b, a := f64(f.pop()), f64(f.pop())
		pushF64(f, a*b)
	case wasm.OpcodeF64Div:
		b, a := f64(f.pop()), f64(f.pop())
		pushF64(f, a/b)
	case wasm.OpcodeF64Min:
		b, a := f64(f.pop()), f64(f.pop())
		pushF64(f, ops.F64Min(a, b))
	case wasm.OpcodeF64Max:
		b, a := f64(f.pop()), f64(f.pop())
		pushF64(f, ops.F64Max(a, b))
	case wasm.OpcodeF64Copysign:
		b, a := f64(f.pop()), f64(f.pop())
		pushF64(f, ops.F64Copysign(a, b))

	// conversions
	case wasm.OpcodeI32WrapI64:
		f.push(uint64(uint32(u64(f.pop()))))
	case wasm.OpcodeI32TruncF32S:
		f.push(uint64(uint32(ops.I32TruncF32S(f32(f.pop())))))
	case wasm.OpcodeI32TruncF32U:
		f.push(uint64(ops.I32TruncF32U(f32(f.pop()))))
	case wasm.OpcodeI32TruncF64S:
		f.push(uint64(uint32(ops.I32TruncF64S(f64(f.pop())))))
	case wasm.OpcodeI32TruncF64U:
		f.push(uint64(ops.I32TruncF64U(f64(f.pop()))))
	case wasm.OpcodeI64ExtendI32S:
		f.push(uint64(int64(i32(f.pop()))))
	case wasm.OpcodeI64ExtendI32U:
		f.push(uint64(u32(f.pop())))
	case wasm.OpcodeI64TruncF32S:
		f.push(uint64(ops.I64TruncF32S(f32(f.pop()))))
	case wasm.OpcodeI64TruncF32U:
		f.push(ops.I64TruncF32U(f32(f.pop())))
	case wasm.OpcodeI64TruncF64S:
		f.push(uint64(ops.I64TruncF64S(f64(f.pop()))))
	case wasm.OpcodeI64TruncF64U:
		f.push(ops.I64TruncF64U(f64(f.pop())))
	case wasm.OpcodeF32ConvertI32S:
		pushF32(f, float32(i32(f.pop())))
	case wasm.OpcodeF32ConvertI32U:
		pushF32(f, float32(u32(f.pop())))
	case wasm.OpcodeF32ConvertI64S:
		pushF32(f, float32(i64(f.pop())))
	case wasm.OpcodeF32ConvertI64U:
		pushF32(f, float32(u64(f.pop())))
	case wasm.OpcodeF32DemoteF64:
		pushF32(f, float32(f64(f.pop())))
	case wasm.OpcodeF64ConvertI32S:
		pushF64(f, float64(i32(f.pop())))
	case wasm.OpcodeF64ConvertI32U:
		pushF64(f, float64(u32(f.pop())))
	case wasm.OpcodeF64ConvertI64S:
		pushF64(f, float64(i64(f.pop())))
	case wasm.OpcodeF64ConvertI64U:
		pushF64(f, float64(u64(f.pop())))
	case wasm.OpcodeF64PromoteF32:
		pushF64(f, float64(f32(f.pop())))
	case wasm.OpcodeI32ReinterpretF32:
		f.push(uint64(uint32(f.pop())))
	case wasm.OpcodeI64ReinterpretF64:
		f.push(f.pop())
	case wasm.OpcodeF32ReinterpretI32:
		f.push(uint64(uint32(f.pop())))
	case wasm.OpcodeF64ReinterpretI64:
		f.push(f.pop())

	case wasm.OpcodeI32Extend8S:
		f.push(uint64(uint32(int32(int8(u32(f.pop()))))))
	case wasm.OpcodeI32Extend16S:
		f.push(uint64(uint32(int32(int16(u32(f.pop()))))))
	case wasm.OpcodeI64Extend8S:
		f.push(uint64(int64(int8(u64(f.pop())))))
	case wasm.OpcodeI64Extend16S:
		f.push(uint64(int64(int16(u64(f.pop())))))
	case wasm.OpcodeI64Extend32S:
		f.push(uint64(int64(int32(u64(f.pop())))))

	case wasm.OpcodeMiscI32TruncSatF32S:
		f.push(uint64(uint32(ops.I32TruncSatF32S(f32(f.pop())))))
	case wasm.OpcodeMiscI32TruncSatF32U:
		f.push(uint64(ops.I32TruncSatF32U(f32(f.pop()))))
	case wasm.OpcodeMiscI32TruncSatF64S:
		f.push(uint64(uint32(ops.I32TruncSatF64S(f64(f.pop())))))
	case wasm.OpcodeMiscI32TruncSatF64U:
		f.push(uint64(ops.I32TruncSatF64U(f64(f.pop()))))
	case wasm.OpcodeMiscI64TruncSatF32S:
		f.push(uint64(ops.I64TruncSatF32S(f32(f.pop()))))
	case wasm.OpcodeMiscI64TruncSatF32U:
		f.push(ops.I64TruncSatF32U(f32(f.pop())))
	case wasm.OpcodeMiscI64TruncSatF64S:
		f.push(uint64(ops.I64TruncSatF64S(f64(f.pop()))))
	case wasm.OpcodeMiscI64TruncSatF64U:
		f.push(ops.I64TruncSatF64U(f64(f.pop())))

	case wasm.OpcodeMiscMemoryInit:
		execMemoryInit(f, inst)
	case wasm.OpcodeMiscDataDrop:
		f.inst.DataDropped[inst.ImmIndex] = true
	case wasm.OpcodeMiscMemoryCopy:
		execMemoryCopy(f)
	case wasm.OpcodeMiscMemoryFill:
		execMemoryFill(f)
	case wasm.OpcodeMiscTableInit:
		execTableInit(f, inst)
	case wasm.OpcodeMiscElemDrop:
		f.inst.ElemDropped[inst.ImmIndex] = true
	case wasm.OpcodeMiscTableCopy:
		execTableCopy(f, inst)
	case wasm.OpcodeMiscTableGrow:
		execTableGrow(f, inst)
	case wasm.OpcodeMiscTableSize:
		table := f.inst.Tables[inst.ImmIndex]
		f.push(uint64(uint32(len(table.Elems))))
	case wasm.OpcodeMiscTableFill:
		execTableFill(f, inst)

	default:
		return execSIMD(f, inst)
	}
	return true
}

func execSIMD(f *callFrame, inst *wasm.Instruction) bool {
	op := inst.Opcode
	switch op {
	case wasm.OpcodeSIMDI8x16Splat:
		f.pushV128(bytesToV128(ops.I8x16Splat(int8(u32(f.pop())))))
	case wasm.OpcodeSIMDI16x8Splat:
		f.pushV128(bytesToV128(ops.I16x8Splat(int16(u32(f.pop())))))
	case wasm.OpcodeSIMDI32x4Splat:
		f.pushV128(bytesToV128(ops.I32x4Splat(i32(f.pop()))))
	case wasm.OpcodeSIMDI64x2Splat:
		f.pushV128(bytesToV128(ops.I64x2Splat(i64(f.pop()))))
	case wasm.OpcodeSIMDF32x4Splat:
		f.pushV128(bytesToV128(ops.F32x4Splat(f32(f.pop()))))
	case wasm.OpcodeSIMDF64x2Splat:
		f.pushV128(bytesToV128(ops.F64x2Splat(f64(f.pop()))))

	case wasm.OpcodeSIMDI8x16Eq:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I8x16Eq(a, b)))
	case wasm.OpcodeSIMDI16x8Eq:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8Eq(a, b)))
	case wasm.OpcodeSIMDI32x4Eq:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I32x4Eq(a, b)))

	case wasm.OpcodeSIMDV128Not:
		f.pushV128(bytesToV128(ops.V128Not(popV128Bytes(f))))
	case wasm.OpcodeSIMDV128And:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.V128And(a, b)))
	case wasm.OpcodeSIMDV128Or:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.V128Or(a, b)))
	case wasm.OpcodeSIMDV128Xor:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.V128Xor(a, b)))
	case wasm.OpcodeSIMDV128Bitselect:
		c, b, a := popV128Bytes(f), popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.V128Bitselect(a, b, c)))
	case wasm.OpcodeSIMDV128AnyTrue:
		f.push(boolU64(ops.V128AnyTrue(popV128Bytes(f))))

	case wasm.OpcodeSIMDI8x16Add:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I8x16Add(a, b)))
	case wasm.OpcodeSIMDI8x16Sub:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I8x16Sub(a, b)))
	case wasm.OpcodeSIMDI16x8Add:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8Add(a, b)))
	case wasm.OpcodeSIMDI16x8Sub:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8Sub(a, b)))
	case wasm.OpcodeSIMDI16x8Mul:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8Mul(a, b)))
	case wasm.OpcodeSIMDI32x4Add:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I32x4Add(a, b)))
	case wasm.OpcodeSIMDI32x4Sub:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I32x4Sub(a, b)))
	case wasm.OpcodeSIMDI32x4Mul:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I32x4Mul(a, b)))
	case wasm.OpcodeSIMDI64x2Add:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I64x2Add(a, b)))
	case wasm.OpcodeSIMDI64x2Sub:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I64x2Sub(a, b)))
	case wasm.OpcodeSIMDI64x2Mul:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I64x2Mul(a, b)))
	case wasm.OpcodeSIMDF32x4Add:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F32x4Add(a, b)))
	case wasm.OpcodeSIMDF32x4Sub:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F32x4Sub(a, b)))
	case wasm.OpcodeSIMDF32x4Mul:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F32x4Mul(a, b)))
	case wasm.OpcodeSIMDF32x4Div:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F32x4Div(a, b)))
	case wasm.OpcodeSIMDF64x2Add:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F64x2Add(a, b)))
	case wasm.OpcodeSIMDF64x2Sub:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F64x2Sub(a, b)))
	case wasm.OpcodeSIMDF64x2Mul:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F64x2Mul(a, b)))
	case wasm.OpcodeSIMDF64x2Div:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F64x2Div(a, b)))

	case wasm.OpcodeSIMDV128Load:
		b := effectiveAddr(f, inst, 16)
		var v [16]byte
		copy(v[:], b)
		f.pushV128(bytesToV128(v))
	case wasm.OpcodeSIMDV128Store:
		v := popV128Bytes(f)
		b := effectiveAddr(f, inst, 16)
		copy(b, v[:])
	case wasm.OpcodeSIMDV128Const:
		f.pushV128(bytesToV128(inst.ImmV128))

	case wasm.OpcodeSIMDI8x16Shuffle:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I8x16Shuffle(a, b, inst.ImmV128)))
	case wasm.OpcodeSIMDI8x16Swizzle:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I8x16Swizzle(a, b)))

	case wasm.OpcodeSIMDI8x16ExtractLaneS:
		f.push(uint64(uint32(ops.I8x16ExtractLaneS(popV128Bytes(f), inst.ImmV128[0]))))
	case wasm.OpcodeSIMDI8x16ExtractLaneU:
		f.push(uint64(uint32(ops.I8x16ExtractLaneU(popV128Bytes(f), inst.ImmV128[0]))))
	case wasm.OpcodeSIMDI16x8ExtractLaneS:
		f.push(uint64(uint32(ops.I16x8ExtractLaneS(popV128Bytes(f), inst.ImmV128[0]))))
	case wasm.OpcodeSIMDI16x8ExtractLaneU:
		f.push(uint64(uint32(ops.I16x8ExtractLaneU(popV128Bytes(f), inst.ImmV128[0]))))
	case wasm.OpcodeSIMDI32x4ExtractLane:
		f.push(uint64(uint32(ops.I32x4ExtractLane(popV128Bytes(f), inst.ImmV128[0]))))
	case wasm.OpcodeSIMDI64x2ExtractLane:
		f.push(uint64(ops.I64x2ExtractLane(popV128Bytes(f), inst.ImmV128[0])))
	case wasm.OpcodeSIMDF32x4ExtractLane:
		pushF32(f, ops.F32x4ExtractLane(popV128Bytes(f), inst.ImmV128[0]))
	case wasm.OpcodeSIMDF64x2ExtractLane:
		pushF64(f, ops.F64x2ExtractLane(popV128Bytes(f), inst.ImmV128[0]))

	case wasm.OpcodeSIMDI8x16ReplaceLane:
		val, v := i32(f.pop()), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I8x16ReplaceLane(v, inst.ImmV128[0], val)))
	case wasm.OpcodeSIMDI16x8ReplaceLane:
		val, v := i32(f.pop()), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8ReplaceLane(v, inst.ImmV128[0], val)))
	case wasm.OpcodeSIMDI32x4ReplaceLane:
		val, v := i32(f.pop()), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I32x4ReplaceLane(v, inst.ImmV128[0], val)))
	case wasm.OpcodeSIMDI64x2ReplaceLane:
		val, v := i64(f.pop()), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I64x2ReplaceLane(v, inst.ImmV128[0], val)))
	case wasm.OpcodeSIMDF32x4ReplaceLane:
		val, v := f32(f.pop()), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F32x4ReplaceLane(v, inst.ImmV128[0], val)))
	case wasm.OpcodeSIMDF64x2ReplaceLane:
		val, v := f64(f.pop()), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F64x2ReplaceLane(v, inst.ImmV128[0], val)))

	case wasm.OpcodeSIMDI8x16Ne:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I8x16Ne(a, b)))
	case wasm.OpcodeSIMDI8x16LtS:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I8x16LtS(a, b)))
	case wasm.OpcodeSIMDI8x16LtU:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I8x16LtU(a, b)))
	case wasm.OpcodeSIMDI8x16GtS:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I8x16GtS(a, b)))
	case wasm.OpcodeSIMDI8x16GtU:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I8x16GtU(a, b)))
	case wasm.OpcodeSIMDI8x16LeS:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I8x16LeS(a, b)))
	case wasm.OpcodeSIMDI8x16LeU:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I8x16LeU(a, b)))
	case wasm.OpcodeSIMDI8x16GeS:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I8x16GeS(a, b)))
	case wasm.OpcodeSIMDI8x16GeU:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I8x16GeU(a, b)))

	case wasm.OpcodeSIMDI16x8Ne:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8Ne(a, b)))
	case wasm.OpcodeSIMDI16x8LtS:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8LtS(a, b)))
	case wasm.OpcodeSIMDI16x8LtU:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8LtU(a, b)))
	case wasm.OpcodeSIMDI16x8GtS:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8GtS(a, b)))
	case wasm.OpcodeSIMDI16x8GtU:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8GtU(a, b)))
	case wasm.OpcodeSIMDI16x8LeS:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8LeS(a, b)))
	case wasm.OpcodeSIMDI16x8LeU:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8LeU(a, b)))
	case wasm.OpcodeSIMDI16x8GeS:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8GeS(a, b)))
	case wasm.OpcodeSIMDI16x8GeU:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8GeU(a, b)))

	case wasm.OpcodeSIMDI32x4Ne:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I32x4Ne(a, b)))
	case wasm.OpcodeSIMDI32x4LtS:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I32x4LtS(a, b)))
	case wasm.OpcodeSIMDI32x4LtU:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I32x4LtU(a, b)))
	case wasm.OpcodeSIMDI32x4GtS:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I32x4GtS(a, b)))
	case wasm.OpcodeSIMDI32x4GtU:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I32x4GtU(a, b)))
	case wasm.OpcodeSIMDI32x4LeS:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I32x4LeS(a, b)))
	case wasm.OpcodeSIMDI32x4LeU:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I32x4LeU(a, b)))
	case wasm.OpcodeSIMDI32x4GeS:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I32x4GeS(a, b)))
	case wasm.OpcodeSIMDI32x4GeU:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I32x4GeU(a, b)))

	case wasm.OpcodeSIMDI64x2Eq:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I64x2Eq(a, b)))
	case wasm.OpcodeSIMDI64x2Ne:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I64x2Ne(a, b)))
	case wasm.OpcodeSIMDI64x2LtS:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I64x2LtS(a, b)))
	case wasm.OpcodeSIMDI64x2GtS:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I64x2GtS(a, b)))
	case wasm.OpcodeSIMDI64x2LeS:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I64x2LeS(a, b)))
	case wasm.OpcodeSIMDI64x2GeS:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I64x2GeS(a, b)))

	case wasm.OpcodeSIMDF32x4Eq:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F32x4Eq(a, b)))
	case wasm.OpcodeSIMDF32x4Ne:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F32x4Ne(a, b)))
	case wasm.OpcodeSIMDF32x4Lt:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F32x4Lt(a, b)))
	case wasm.OpcodeSIMDF32x4Gt:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F32x4Gt(a, b)))
	case wasm.OpcodeSIMDF32x4Le:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F32x4Le(a, b)))
	case wasm.OpcodeSIMDF32x4Ge:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F32x4Ge(a, b)))

	case wasm.OpcodeSIMDF64x2Eq:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F64x2Eq(a, b)))
	case wasm.OpcodeSIMDF64x2Ne:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F64x2Ne(a, b)))
	case wasm.OpcodeSIMDF64x2Lt:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F64x2Lt(a, b)))
	case wasm.OpcodeSIMDF64x2Gt:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F64x2Gt(a, b)))
	case wasm.OpcodeSIMDF64x2Le:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F64x2Le(a, b)))
	case wasm.OpcodeSIMDF64x2Ge:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F64x2Ge(a, b)))

	case wasm.OpcodeSIMDV128AndNot:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.V128AndNot(a, b)))

	case wasm.OpcodeSIMDF32x4Ceil:
		f.pushV128(bytesToV128(ops.F32x4Ceil(popV128Bytes(f))))
	case wasm.OpcodeSIMDF32x4Floor:
		f.pushV128(bytesToV128(ops.F32x4Floor(popV128Bytes(f))))
	case wasm.OpcodeSIMDF32x4Trunc:
		f.pushV128(bytesToV128(ops.F32x4Trunc(popV128Bytes(f))))
	case wasm.OpcodeSIMDF32x4Nearest:
		f.pushV128(bytesToV128(ops.F32x4Nearest(popV128Bytes(f))))
	case wasm.OpcodeSIMDF64x2Ceil:
		f.pushV128(bytesToV128(ops.F64x2Ceil(popV128Bytes(f))))
	case wasm.OpcodeSIMDF64x2Floor:
		f.pushV128(bytesToV128(ops.F64x2Floor(popV128Bytes(f))))
	case wasm.OpcodeSIMDF64x2Trunc:
		f.pushV128(bytesToV128(ops.F64x2Trunc(popV128Bytes(f))))
	case wasm.OpcodeSIMDF64x2Nearest:
		f.pushV128(bytesToV128(ops.F64x2Nearest(popV128Bytes(f))))
	case wasm.OpcodeSIMDF32x4Abs:
		f.pushV128(bytesToV128(ops.F32x4Abs(popV128Bytes(f))))
	case wasm.OpcodeSIMDF32x4Neg:
		f.pushV128(bytesToV128(ops.F32x4Neg(popV128Bytes(f))))
	case wasm.OpcodeSIMDF32x4Sqrt:
		f.pushV128(bytesToV128(ops.F32x4Sqrt(popV128Bytes(f))))
	case wasm.OpcodeSIMDF64x2Abs:
		f.pushV128(bytesToV128(ops.F64x2Abs(popV128Bytes(f))))
	case wasm.OpcodeSIMDF64x2Neg:
		f.pushV128(bytesToV128(ops.F64x2Neg(popV128Bytes(f))))
	case wasm.OpcodeSIMDF64x2Sqrt:
		f.pushV128(bytesToV128(ops.F64x2Sqrt(popV128Bytes(f))))
	case wasm.OpcodeSIMDF32x4Min:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F32x4Min(a, b)))
	case wasm.OpcodeSIMDF32x4Max:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F32x4Max(a, b)))
	case wasm.OpcodeSIMDF32x4Pmin:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F32x4Pmin(a, b)))
	case wasm.OpcodeSIMDF32x4Pmax:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F32x4Pmax(a, b)))
	case wasm.OpcodeSIMDF64x2Min:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F64x2Min(a, b)))
	case wasm.OpcodeSIMDF64x2Max:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F64x2Max(a, b)))
	case wasm.OpcodeSIMDF64x2Pmin:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F64x2Pmin(a, b)))
	case wasm.OpcodeSIMDF64x2Pmax:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.F64x2Pmax(a, b)))

	case wasm.OpcodeSIMDI8x16Abs:
		f.pushV128(bytesToV128(ops.I8x16Abs(popV128Bytes(f))))
	case wasm.OpcodeSIMDI8x16Neg:
		f.pushV128(bytesToV128(ops.I8x16Neg(popV128Bytes(f))))
	case wasm.OpcodeSIMDI8x16Popcnt:
		f.pushV128(bytesToV128(ops.I8x16Popcnt(popV128Bytes(f))))
	case wasm.OpcodeSIMDI8x16AllTrue:
		f.push(boolU64(ops.I8x16AllTrue(popV128Bytes(f))))
	case wasm.OpcodeSIMDI8x16Bitmask:
		f.push(uint64(uint32(ops.I8x16Bitmask(popV128Bytes(f)))))
	case wasm.OpcodeSIMDI8x16NarrowI16x8S:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I8x16NarrowI16x8S(a, b)))
	case wasm.OpcodeSIMDI8x16NarrowI16x8U:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I8x16NarrowI16x8U(a, b)))
	case wasm.OpcodeSIMDI8x16Shl:
		shift, v := u32(f.pop()), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I8x16Shl(v, shift)))
	case wasm.OpcodeSIMDI8x16ShrS:
		shift, v := u32(f.pop()), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I8x16ShrS(v, shift)))
	case wasm.OpcodeSIMDI8x16ShrU:
		shift, v := u32(f.pop()), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I8x16ShrU(v, shift)))
	case wasm.OpcodeSIMDI8x16AddSatS:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I8x16AddSatS(a, b)))
	case wasm.OpcodeSIMDI8x16AddSatU:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I8x16AddSatU(a, b)))
	case wasm.OpcodeSIMDI8x16SubSatS:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I8x16SubSatS(a, b)))
	case wasm.OpcodeSIMDI8x16SubSatU:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I8x16SubSatU(a, b)))
	case wasm.OpcodeSIMDI8x16MinS:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I8x16MinS(a, b)))
	case wasm.OpcodeSIMDI8x16MinU:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I8x16MinU(a, b)))
	case wasm.OpcodeSIMDI8x16MaxS:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I8x16MaxS(a, b)))
	case wasm.OpcodeSIMDI8x16MaxU:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I8x16MaxU(a, b)))
	case wasm.OpcodeSIMDI8x16AvgrU:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I8x16AvgrU(a, b)))

	case wasm.OpcodeSIMDI16x8ExtaddPairwiseI8x16S:
		f.pushV128(bytesToV128(ops.I16x8ExtaddPairwiseI8x16S(popV128Bytes(f))))
	case wasm.OpcodeSIMDI16x8ExtaddPairwiseI8x16U:
		f.pushV128(bytesToV128(ops.I16x8ExtaddPairwiseI8x16U(popV128Bytes(f))))
	case wasm.OpcodeSIMDI32x4ExtaddPairwiseI16x8S:
		f.pushV128(bytesToV128(ops.I32x4ExtaddPairwiseI16x8S(popV128Bytes(f))))
	case wasm.OpcodeSIMDI32x4ExtaddPairwiseI16x8U:
		f.pushV128(bytesToV128(ops.I32x4ExtaddPairwiseI16x8U(popV128Bytes(f))))

	case wasm.OpcodeSIMDI16x8Abs:
		f.pushV128(bytesToV128(ops.I16x8Abs(popV128Bytes(f))))
	case wasm.OpcodeSIMDI16x8Neg:
		f.pushV128(bytesToV128(ops.I16x8Neg(popV128Bytes(f))))
	case wasm.OpcodeSIMDI16x8Q15mulrSatS:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8Q15mulrSatS(a, b)))
	case wasm.OpcodeSIMDI16x8AllTrue:
		f.push(boolU64(ops.I16x8AllTrue(popV128Bytes(f))))
	case wasm.OpcodeSIMDI16x8Bitmask:
		f.push(uint64(uint32(ops.I16x8Bitmask(popV128Bytes(f)))))
	case wasm.OpcodeSIMDI16x8NarrowI32x4S:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8NarrowI32x4S(a, b)))
	case wasm.OpcodeSIMDI16x8NarrowI32x4U:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8NarrowI32x4U(a, b)))
	case wasm.OpcodeSIMDI16x8ExtendLowI8x16S:
		f.pushV128(bytesToV128(ops.I16x8ExtendLowI8x16S(popV128Bytes(f))))
	case wasm.OpcodeSIMDI16x8ExtendHighI8x16S:
		f.pushV128(bytesToV128(ops.I16x8ExtendHighI8x16S(popV128Bytes(f))))
	case wasm.OpcodeSIMDI16x8ExtendLowI8x16U:
		f.pushV128(bytesToV128(ops.I16x8ExtendLowI8x16U(popV128Bytes(f))))
	case wasm.OpcodeSIMDI16x8ExtendHighI8x16U:
		f.pushV128(bytesToV128(ops.I16x8ExtendHighI8x16U(popV128Bytes(f))))
	case wasm.OpcodeSIMDI16x8Shl:
		shift, v := u32(f.pop()), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8Shl(v, shift)))
	case wasm.OpcodeSIMDI16x8ShrS:
		shift, v := u32(f.pop()), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8ShrS(v, shift)))
	case wasm.OpcodeSIMDI16x8ShrU:
		shift, v := u32(f.pop()), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8ShrU(v, shift)))
	case wasm.OpcodeSIMDI16x8AddSatS:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8AddSatS(a, b)))
	case wasm.OpcodeSIMDI16x8AddSatU:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8AddSatU(a, b)))
	case wasm.OpcodeSIMDI16x8SubSatS:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8SubSatS(a, b)))
	case wasm.OpcodeSIMDI16x8SubSatU:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8SubSatU(a, b)))
	case wasm.OpcodeSIMDI16x8MinS:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8MinS(a, b)))
	case wasm.OpcodeSIMDI16x8MinU:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8MinU(a, b)))
	case wasm.OpcodeSIMDI16x8MaxS:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8MaxS(a, b)))
	case wasm.OpcodeSIMDI16x8MaxU:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8MaxU(a, b)))
	case wasm.OpcodeSIMDI16x8AvgrU:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8AvgrU(a, b)))
	case wasm.OpcodeSIMDI16x8ExtmulLowI8x16S:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8ExtmulLowI8x16S(a, b)))
	case wasm.OpcodeSIMDI16x8ExtmulHighI8x16S:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8ExtmulHighI8x16S(a, b)))
	case wasm.OpcodeSIMDI16x8ExtmulLowI8x16U:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8ExtmulLowI8x16U(a, b)))
	case wasm.OpcodeSIMDI16x8ExtmulHighI8x16U:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I16x8ExtmulHighI8x16U(a, b)))

	case wasm.OpcodeSIMDI32x4Abs:
		f.pushV128(bytesToV128(ops.I32x4Abs(popV128Bytes(f))))
	case wasm.OpcodeSIMDI32x4Neg:
		f.pushV128(bytesToV128(ops.I32x4Neg(popV128Bytes(f))))
	case wasm.OpcodeSIMDI32x4AllTrue:
		f.push(boolU64(ops.I32x4AllTrue(popV128Bytes(f))))
	case wasm.OpcodeSIMDI32x4Bitmask:
		f.push(uint64(uint32(ops.I32x4Bitmask(popV128Bytes(f)))))
	case wasm.OpcodeSIMDI32x4ExtendLowI16x8S:
		f.pushV128(bytesToV128(ops.I32x4ExtendLowI16x8S(popV128Bytes(f))))
	case wasm.OpcodeSIMDI32x4ExtendHighI16x8S:
		f.pushV128(bytesToV128(ops.I32x4ExtendHighI16x8S(popV128Bytes(f))))
	case wasm.OpcodeSIMDI32x4ExtendLowI16x8U:
		f.pushV128(bytesToV128(ops.I32x4ExtendLowI16x8U(popV128Bytes(f))))
	case wasm.OpcodeSIMDI32x4ExtendHighI16x8U:
		f.pushV128(bytesToV128(ops.I32x4ExtendHighI16x8U(popV128Bytes(f))))
	case wasm.OpcodeSIMDI32x4Shl:
		shift, v := u32(f.pop()), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I32x4Shl(v, shift)))
	case wasm.OpcodeSIMDI32x4ShrS:
		shift, v := u32(f.pop()), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I32x4ShrS(v, shift)))
	case wasm.OpcodeSIMDI32x4ShrU:
		shift, v := u32(f.pop()), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I32x4ShrU(v, shift)))
	case wasm.OpcodeSIMDI32x4MinS:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I32x4MinS(a, b)))
	case wasm.OpcodeSIMDI32x4MinU:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I32x4MinU(a, b)))
	case wasm.OpcodeSIMDI32x4MaxS:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I32x4MaxS(a, b)))
	case wasm.OpcodeSIMDI32x4MaxU:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I32x4MaxU(a, b)))
	case wasm.OpcodeSIMDI32x4DotI16x8S:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I32x4DotI16x8S(a, b)))
	case wasm.OpcodeSIMDI32x4ExtmulLowI16x8S:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I32x4ExtmulLowI16x8S(a, b)))
	case wasm.OpcodeSIMDI32x4ExtmulHighI16x8S:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I32x4ExtmulHighI16x8S(a, b)))
	case wasm.OpcodeSIMDI32x4ExtmulLowI16x8U:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I32x4ExtmulLowI16x8U(a, b)))
	case wasm.OpcodeSIMDI32x4ExtmulHighI16x8U:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I32x4ExtmulHighI16x8U(a, b)))

	case wasm.OpcodeSIMDI64x2Abs:
		f.pushV128(bytesToV128(ops.I64x2Abs(popV128Bytes(f))))
	case wasm.OpcodeSIMDI64x2Neg:
		f.pushV128(bytesToV128(ops.I64x2Neg(popV128Bytes(f))))
	case wasm.OpcodeSIMDI64x2AllTrue:
		f.push(boolU64(ops.I64x2AllTrue(popV128Bytes(f))))
	case wasm.OpcodeSIMDI64x2Bitmask:
		f.push(uint64(uint32(ops.I64x2Bitmask(popV128Bytes(f)))))
	case wasm.OpcodeSIMDI64x2ExtendLowI32x4S:
		f.pushV128(bytesToV128(ops.I64x2ExtendLowI32x4S(popV128Bytes(f))))
	case wasm.OpcodeSIMDI64x2ExtendHighI32x4S:
		f.pushV128(bytesToV128(ops.I64x2ExtendHighI32x4S(popV128Bytes(f))))
	case wasm.OpcodeSIMDI64x2ExtendLowI32x4U:
		f.pushV128(bytesToV128(ops.I64x2ExtendLowI32x4U(popV128Bytes(f))))
	case wasm.OpcodeSIMDI64x2ExtendHighI32x4U:
		f.pushV128(bytesToV128(ops.I64x2ExtendHighI32x4U(popV128Bytes(f))))
	case wasm.OpcodeSIMDI64x2Shl:
		shift, v := u32(f.pop()), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I64x2Shl(v, shift)))
	case wasm.OpcodeSIMDI64x2ShrS:
		shift, v := u32(f.pop()), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I64x2ShrS(v, shift)))
	case wasm.OpcodeSIMDI64x2ShrU:
		shift, v := u32(f.pop()), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I64x2ShrU(v, shift)))
	case wasm.OpcodeSIMDI64x2ExtmulLowI32x4S:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I64x2ExtmulLowI32x4S(a, b)))
	case wasm.OpcodeSIMDI64x2ExtmulHighI32x4S:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I64x2ExtmulHighI32x4S(a, b)))
	case wasm.OpcodeSIMDI64x2ExtmulLowI32x4U:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I64x2ExtmulLowI32x4U(a, b)))
	case wasm.OpcodeSIMDI64x2ExtmulHighI32x4U:
		b, a := popV128Bytes(f), popV128Bytes(f)
		f.pushV128(bytesToV128(ops.I64x2ExtmulHighI32x4U(a, b)))

	case wasm.OpcodeSIMDI32x4TruncSatF32x4S:
		f.pushV128(bytesToV128(ops.I32x4TruncSatF32x4S(popV128Bytes(f))))
	case wasm.OpcodeSIMDI32x4TruncSatF32x4U:
		f.pushV128(bytesToV128(ops.I32x4TruncSatF32x4U(popV128Bytes(f))))
	case wasm.OpcodeSIMDF32x4ConvertI32x4S:
		f.pushV128(bytesToV128(ops.F32x4ConvertI32x4S(popV128Bytes(f))))
	case wasm.OpcodeSIMDF32x4ConvertI32x4U:
		f.pushV128(bytesToV128(ops.F32x4ConvertI32x4U(popV128Bytes(f))))
	case wasm.OpcodeSIMDF32x4DemoteF64x2Zero:
		f.pushV128(bytesToV128(ops.F32x4DemoteF64x2Zero(popV128Bytes(f))))
	case wasm.OpcodeSIMDF64x2PromoteLowF32x4:
		f.pushV128(bytesToV128(ops.F64x2PromoteLowF32x4(popV128Bytes(f))))
	case wasm.OpcodeSIMDI32x4TruncSatF64x2SZero:
		f.pushV128(bytesToV128(ops.I32x4TruncSatF64x2SZero(popV128Bytes(f))))
	case wasm.OpcodeSIMDI32x4TruncSatF64x2UZero:
		f.pushV128(bytesToV128(ops.I32x4TruncSatF64x2UZero(popV128Bytes(f))))
	case wasm.OpcodeSIMDF64x2ConvertLowI32x4S:
		f.pushV128(bytesToV128(ops.F64x2ConvertLowI32x4S(popV128Bytes(f))))
	case wasm.OpcodeSIMDF64x2ConvertLowI32x4U:
		f.pushV128(bytesToV128(ops.F64x2ConvertLowI32x4U(popV128Bytes(f))))

	default:
		return false
	}
	return true
}

func popV128Bytes(f *callFrame) [16]byte {
	lo, hi := f.popV128()
	return v128ToBytes(lo, hi)
}
