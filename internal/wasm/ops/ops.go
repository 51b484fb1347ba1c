// Package ops implements the value-level semantics of every numeric
// instruction: integer arithmetic with two's-complement wraparound, trapping
// division/remainder/conversion, float arithmetic with Wasm's NaN-propagating
// min/max, and the full fixed-width SIMD lane family the decoder/validator
// recognize. The interpreter calls these from its opcode switch; keeping
// them here keeps that switch statement about control flow, not
// bit-twiddling.
package ops

import (
	"math"
	"math/bits"

	"github.com/corewasm/corewasm/internal/moremath"
	"github.com/corewasm/corewasm/internal/wasmruntime"
)

// I32Clz counts leading zero bits of a 32-bit operand.
func I32Clz(v uint32) uint32 { return uint32(bits.LeadingZeros32(v)) }

// I32Ctz counts trailing zero bits of a 32-bit operand.
func I32Ctz(v uint32) uint32 { return uint32(bits.TrailingZeros32(v)) }

// I32Popcnt counts set bits of a 32-bit operand.
func I32Popcnt(v uint32) uint32 { return uint32(bits.OnesCount32(v)) }

func I32DivS(a, b int32) int32 {
	if b == 0 {
		panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
	}
	if a == math.MinInt32 && b == -1 {
		panic(wasmruntime.ErrRuntimeIntegerOverflow)
	}
	return a / b
}

func I32DivU(a, b uint32) uint32 {
	if b == 0 {
		panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
	}
	return a / b
}

func I32RemS(a, b int32) int32 {
	if b == 0 {
		panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
	}
	if a == math.MinInt32 && b == -1 {
		return 0
	}
	return a % b
}

func I32RemU(a, b uint32) uint32 {
	if b == 0 {
		panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
	}
	return a % b
}

func I32Rotl(a uint32, n uint32) uint32 { return bits.RotateLeft32(a, int(n&31)) }
func I32Rotr(a uint32, n uint32) uint32 { return bits.RotateLeft32(a, -int(n&31)) }

func I64Clz(v uint64) uint64   { return uint64(bits.LeadingZeros64(v)) }
func I64Ctz(v uint64) uint64   { return uint64(bits.TrailingZeros64(v)) }
func I64Popcnt(v uint64) uint64 { return uint64(bits.OnesCount64(v)) }

func I64DivS(a, b int64) int64 {
	if b == 0 {
		panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
	}
	if a == math.MinInt64 && b == -1 {
		panic(wasmruntime.ErrRuntimeIntegerOverflow)
	}
	return a / b
}

func I64DivU(a, b uint64) uint64 {
	if b == 0 {
		panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
	}
	return a / b
}

func I64RemS(a, b int64) int64 {
	if b == 0 {
		panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
	}
	if a == math.MinInt64 && b == -1 {
		return 0
	}
	return a % b
}

func I64RemU(a, b uint64) uint64 {
	if b == 0 {
		panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
	}
	return a % b
}

func I64Rotl(a uint64, n uint64) uint64 { return bits.RotateLeft64(a, int(n&63)) }
func I64Rotr(a uint64, n uint64) uint64 { return bits.RotateLeft64(a, -int(n&63)) }

// F32Min/F32Max/F64Min/F64Max delegate to moremath for Wasm's NaN-propagating
// semantics, which differ from math.Min/math.Max on -0/+0 and NaN.
func F32Min(a, b float32) float32 { return float32(moremath.WasmCompatMin(float64(a), float64(b))) }
func F32Max(a, b float32) float32 { return float32(moremath.WasmCompatMax(float64(a), float64(b))) }
func F64Min(a, b float64) float64 { return moremath.WasmCompatMin(a, b) }
func F64Max(a, b float64) float64 { return moremath.WasmCompatMax(a, b) }

func F32Nearest(f float32) float32 { return moremath.WasmCompatNearestF32(f) }
func F64Nearest(f float64) float64 { return moremath.WasmCompatNearestF64(f) }

func F32Copysign(a, b float32) float32 { return float32(math.Copysign(float64(a), float64(b))) }
func F64Copysign(a, b float64) float64 { return math.Copysign(a, b) }

// truncBoundsI32 gives the valid [min, max] float64 range for a trapping
// i32.trunc_f64_s; outside it (including NaN) traps per spec.md §4.7.
const (
	i32MinF = -2147483649.0 // one below math.MinInt32, exclusive lower bound
	i32MaxF = 2147483648.0  // one above math.MaxInt32, exclusive upper bound
	i32MaxUF = 4294967296.0
	i64MinF = -9223372036854775808.0
	i64MaxF = 9223372036854775808.0
	i64MaxUF = 18446744073709551616.0
)

func I32TruncF64S(f float64) int32 {
	if math.IsNaN(f) || f <= i32MinF || f >= i32MaxF {
		panic(wasmruntime.ErrRuntimeInvalidConversionToInteger)
	}
	return int32(f)
}

func I32TruncF64U(f float64) uint32 {
	if math.IsNaN(f) || f <= -1 || f >= i32MaxUF {
		panic(wasmruntime.ErrRuntimeInvalidConversionToInteger)
	}
	return uint32(f)
}

func I32TruncF32S(f float32) int32 { return I32TruncF64S(float64(f)) }
func I32TruncF32U(f float32) uint32 { return I32TruncF64U(float64(f)) }

func I64TruncF64S(f float64) int64 {
	if math.IsNaN(f) || f <= i64MinF || f >= i64MaxF {
		panic(wasmruntime.ErrRuntimeInvalidConversionToInteger)
	}
	return int64(f)
}

func I64TruncF64U(f float64) uint64 {
	if math.IsNaN(f) || f <= -1 || f >= i64MaxUF {
		panic(wasmruntime.ErrRuntimeInvalidConversionToInteger)
	}
	return uint64(f)
}

func I64TruncF32S(f float32) int64 { return I64TruncF64S(float64(f)) }
func I64TruncF32U(f float32) uint64 { return I64TruncF64U(float64(f)) }

// Saturating truncation (the "misc" trunc_sat family): never traps, instead
// clamping out-of-range and NaN inputs to the nearest representable bound
// (NaN clamps to zero), per the non-trapping-float-to-int-conversion
// proposal spec.md §4.7 folds into the interpreter's step contract.
func I32TruncSatF64S(f float64) int32 {
	if math.IsNaN(f) {
		return 0
	}
	if f <= i32MinF {
		return math.MinInt32
	}
	if f >= i32MaxF {
		return math.MaxInt32
	}
	return int32(f)
}

func I32TruncSatF64U(f float64) uint32 {
	if math.IsNaN(f) || f <= -1 {
		return 0
	}
	if f >= i32MaxUF {
		return math.MaxUint32
	}
	return uint32(f)
}

func I32TruncSatF32S(f float32) int32  { return I32TruncSatF64S(float64(f)) }
func I32TruncSatF32U(f float32) uint32 { return I32TruncSatF64U(float64(f)) }

func I64TruncSatF64S(f float64) int64 {
	if math.IsNaN(f) {
		return 0
	}
	if f <= i64MinF {
		return math.MinInt64
	}
	if f >= i64MaxF {
		return math.MaxInt64
	}
	return int64(f)
}

func I64TruncSatF64U(f float64) uint64 {
	if math.IsNaN(f) || f <= -1 {
		return 0
	}
	if f >= i64MaxUF {
		return math.MaxUint64
	}
	return uint64(f)
}

func I64TruncSatF32S(f float32) int64  { return I64TruncSatF64S(float64(f)) }
func I64TruncSatF32U(f float32) uint64 { return I64TruncSatF64U(float64(f)) }

// SIMD lane helpers. v128 values are carried as [16]byte (little-endian per
// lane, matching v128.const's raw byte encoding) through the interpreter's
// two-uint64-stack-slot representation; these functions operate directly on
// that byte array so the interpreter's SIMD opcode cases stay one-liners.

func I8x16Splat(v int8) (out [16]byte) {
	for i := range out {
		out[i] = byte(v)
	}
	return out
}

func I16x8Splat(v int16) (out [16]byte) {
	for i := 0; i < 8; i++ {
		out[i*2] = byte(v)
		out[i*2+1] = byte(v >> 8)
	}
	return out
}

func I32x4Splat(v int32) (out [16]byte) {
	for i := 0; i < 4; i++ {
		putU32(out[i*4:], uint32(v))
	}
	return out
}

func I64x2Splat(v int64) (out [16]byte) {
	putU64(out[0:], uint64(v))
	putU64(out[8:], uint64(v))
	return out
}

func F32x4Splat(v float32) (out [16]byte) {
	bits := math.Float32bits(v)
	for i := 0; i < 4; i++ {
		putU32(out[i*4:], bits)
	}
	return out
}

func F64x2Splat(v float64) (out [16]byte) {
	bits := math.Float64bits(v)
	putU64(out[0:], bits)
	putU64(out[8:], bits)
	return out
}

func V128Not(a [16]byte) (out [16]byte) {
	for i := range a {
		out[i] = ^a[i]
	}
	return out
}

func V128And(a, b [16]byte) (out [16]byte) {
	for i := range a {
		out[i] = a[i] & b[i]
	}
	return out
}

func V128Or(a, b [16]byte) (out [16]byte) {
	for i := range a {
		out[i] = a[i] | b[i]
	}
	return out
}

func V128Xor(a, b [16]byte) (out [16]byte) {
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}

func V128Bitselect(a, b, mask [16]byte) (out [16]byte) {
	for i := range a {
		out[i] = (a[i] & mask[i]) | (b[i] &^ mask[i])
	}
	return out
}

func V128AnyTrue(a [16]byte) bool {
	for _, b := range a {
		if b != 0 {
			return true
		}
	}
	return false
}

func I8x16Add(a, b [16]byte) (out [16]byte) {
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}

func I8x16Sub(a, b [16]byte) (out [16]byte) {
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

func I8x16Eq(a, b [16]byte) (out [16]byte) {
	for i := range a {
		if a[i] == b[i] {
			out[i] = 0xff
		}
	}
	return out
}

func I16x8Add(a, b [16]byte) [16]byte { return lane16(a, b, func(x, y uint16) uint16 { return x + y }) }
func I16x8Sub(a, b [16]byte) [16]byte { return lane16(a, b, func(x, y uint16) uint16 { return x - y }) }
func I16x8Mul(a, b [16]byte) [16]byte { return lane16(a, b, func(x, y uint16) uint16 { return x * y }) }
func I16x8Eq(a, b [16]byte) [16]byte {
	return lane16(a, b, func(x, y uint16) uint16 {
		if x == y {
			return 0xffff
		}
		return 0
	})
}

func I32x4Add(a, b [16]byte) [16]byte { return lane32(a, b, func(x, y uint32) uint32 { return x + y }) }
func I32x4Sub(a, b [16]byte) [16]byte { return lane32(a, b, func(x, y uint32) uint32 { return x - y }) }
func I32x4Mul(a, b [16]byte) [16]byte { return lane32(a, b, func(x, y uint32) uint32 { return x * y }) }
func I32x4Eq(a, b [16]byte) [16]byte {
	return lane32(a, b, func(x, y uint32) uint32 {
		if x == y {
			return 0xffffffff
		}
		return 0
	})
}

func I64x2Add(a, b [16]byte) [16]byte { return lane64(a, b, func(x, y uint64) uint64 { return x + y }) }
func I64x2Sub(a, b [16]byte) [16]byte { return lane64(a, b, func(x, y uint64) uint64 { return x - y }) }
func I64x2Mul(a, b [16]byte) [16]byte { return lane64(a, b, func(x, y uint64) uint64 { return x * y }) }

func F32x4Add(a, b [16]byte) [16]byte { return laneF32(a, b, func(x, y float32) float32 { return x + y }) }
func F32x4Sub(a, b [16]byte) [16]byte { return laneF32(a, b, func(x, y float32) float32 { return x - y }) }
func F32x4Mul(a, b [16]byte) [16]byte { return laneF32(a, b, func(x, y float32) float32 { return x * y }) }
func F32x4Div(a, b [16]byte) [16]byte { return laneF32(a, b, func(x, y float32) float32 { return x / y }) }

func F64x2Add(a, b [16]byte) [16]byte { return laneF64(a, b, func(x, y float64) float64 { return x + y }) }
func F64x2Sub(a, b [16]byte) [16]byte { return laneF64(a, b, func(x, y float64) float64 { return x - y }) }
func F64x2Mul(a, b [16]byte) [16]byte { return laneF64(a, b, func(x, y float64) float64 { return x * y }) }
func F64x2Div(a, b [16]byte) [16]byte { return laneF64(a, b, func(x, y float64) float64 { return x / y }) }

func lane16(a, b [16]byte, f func(x, y uint16) uint16) (out [16]byte) {
	for i := 0; i < 8; i++ {
		putU16(out[i*2:], f(getU16(a[i*2:]), getU16(b[i*2:])))
	}
	return out
}

func lane32(a, b [16]byte, f func(x, y uint32) uint32) (out [16]byte) {
	for i := 0; i < 4; i++ {
		putU32(out[i*4:], f(getU32(a[i*4:]), getU32(b[i*4:])))
	}
	return out
}

func lane64(a, b [16]byte, f func(x, y uint64) uint64) (out [16]byte) {
	for i := 0; i < 2; i++ {
		putU64(out[i*8:], f(getU64(a[i*8:]), getU64(b[i*8:])))
	}
	return out
}

func laneF32(a, b [16]byte, f func(x, y float32) float32) (out [16]byte) {
	for i := 0; i < 4; i++ {
		r := f(math.Float32frombits(getU32(a[i*4:])), math.Float32frombits(getU32(b[i*4:])))
		putU32(out[i*4:], math.Float32bits(r))
	}
	return out
}

func laneF64(a, b [16]byte, f func(x, y float64) float64) (out [16]byte) {
	for i := 0; i < 2; i++ {
		r := f(math.Float64frombits(getU64(a[i*8:])), math.Float64frombits(getU64(b[i*8:])))
		putU64(out[i*8:], math.Float64bits(r))
	}
	return out
}

func putU16(b []byte, v uint16) { b[0], b[1] = byte(v), byte(v>>8) }
func getU16(b []byte) uint16    { return uint16(b[0]) | uint16(b[1])<<8 }

func putU32(b []byte, v uint32) {
	b[0], b[1], b[2], b[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
}
func getU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putU64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
func getU64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}

func lane8(a, b [16]byte, f func(x, y byte) byte) (out [16]byte) {
	for i := range a {
		out[i] = f(a[i], b[i])
	}
	return out
}

func lane16Unary(a [16]byte, f func(x uint16) uint16) (out [16]byte) {
	for i := 0; i < 8; i++ {
		putU16(out[i*2:], f(getU16(a[i*2:])))
	}
	return out
}

func lane32Unary(a [16]byte, f func(x uint32) uint32) (out [16]byte) {
	for i := 0; i < 4; i++ {
		putU32(out[i*4:], f(getU32(a[i*4:])))
	}
	return out
}

func lane64Unary(a [16]byte, f func(x uint64) uint64) (out [16]byte) {
	for i := 0; i < 2; i++ {
		putU64(out[i*8:], f(getU64(a[i*8:])))
	}
	return out
}

func laneF32Unary(a [16]byte, f func(x float32) float32) (out [16]byte) {
	for i := 0; i < 4; i++ {
		putU32(out[i*4:], math.Float32bits(f(math.Float32frombits(getU32(a[i*4:])))))
	}
	return out
}

func laneF64Unary(a [16]byte, f func(x float64) float64) (out [16]byte) {
	for i := 0; i < 2; i++ {
		putU64(out[i*8:], math.Float64bits(f(math.Float64frombits(getU64(a[i*8:])))))
	}
	return out
}

// Lane access.

func I8x16ExtractLaneS(v [16]byte, lane byte) int32 { return int32(int8(v[lane])) }
func I8x16ExtractLaneU(v [16]byte, lane byte) int32 { return int32(v[lane]) }
func I16x8ExtractLaneS(v [16]byte, lane byte) int32 { return int32(int16(getU16(v[lane*2:]))) }
func I16x8ExtractLaneU(v [16]byte, lane byte) int32 { return int32(getU16(v[lane*2:])) }
func I32x4ExtractLane(v [16]byte, lane byte) int32   { return int32(getU32(v[lane*4:])) }
func I64x2ExtractLane(v [16]byte, lane byte) int64   { return int64(getU64(v[lane*8:])) }
func F32x4ExtractLane(v [16]byte, lane byte) float32 { return math.Float32frombits(getU32(v[lane*4:])) }
func F64x2ExtractLane(v [16]byte, lane byte) float64 { return math.Float64frombits(getU64(v[lane*8:])) }

func I8x16ReplaceLane(v [16]byte, lane byte, val int32) [16]byte { v[lane] = byte(val); return v }
func I16x8ReplaceLane(v [16]byte, lane byte, val int32) [16]byte {
	putU16(v[lane*2:], uint16(val))
	return v
}
func I32x4ReplaceLane(v [16]byte, lane byte, val int32) [16]byte {
	putU32(v[lane*4:], uint32(val))
	return v
}
func I64x2ReplaceLane(v [16]byte, lane byte, val int64) [16]byte {
	putU64(v[lane*8:], uint64(val))
	return v
}
func F32x4ReplaceLane(v [16]byte, lane byte, val float32) [16]byte {
	putU32(v[lane*4:], math.Float32bits(val))
	return v
}
func F64x2ReplaceLane(v [16]byte, lane byte, val float64) [16]byte {
	putU64(v[lane*8:], math.Float64bits(val))
	return v
}

// I8x16Shuffle selects 16 bytes from the concatenation of a and b using the
// selector's lane indices (already range-checked against 31 by the validator).
func I8x16Shuffle(a, b [16]byte, sel [16]byte) (out [16]byte) {
	var cat [32]byte
	copy(cat[:16], a[:])
	copy(cat[16:], b[:])
	for i, s := range sel {
		out[i] = cat[s]
	}
	return out
}

// I8x16Swizzle selects bytes of a by the lane indices in idx, yielding zero
// for any index outside 0..15.
func I8x16Swizzle(a, idx [16]byte) (out [16]byte) {
	for i, s := range idx {
		if s < 16 {
			out[i] = a[s]
		}
	}
	return out
}

// Comparisons past eq.

func i8x16CmpS(a, b [16]byte, f func(x, y int8) bool) (out [16]byte) {
	for i := range a {
		if f(int8(a[i]), int8(b[i])) {
			out[i] = 0xff
		}
	}
	return out
}

func i8x16CmpU(a, b [16]byte, f func(x, y byte) bool) (out [16]byte) {
	for i := range a {
		if f(a[i], b[i]) {
			out[i] = 0xff
		}
	}
	return out
}

func I8x16Ne(a, b [16]byte) [16]byte  { return i8x16CmpU(a, b, func(x, y byte) bool { return x != y }) }
func I8x16LtS(a, b [16]byte) [16]byte { return i8x16CmpS(a, b, func(x, y int8) bool { return x < y }) }
func I8x16LtU(a, b [16]byte) [16]byte { return i8x16CmpU(a, b, func(x, y byte) bool { return x < y }) }
func I8x16GtS(a, b [16]byte) [16]byte { return i8x16CmpS(a, b, func(x, y int8) bool { return x > y }) }
func I8x16GtU(a, b [16]byte) [16]byte { return i8x16CmpU(a, b, func(x, y byte) bool { return x > y }) }
func I8x16LeS(a, b [16]byte) [16]byte { return i8x16CmpS(a, b, func(x, y int8) bool { return x <= y }) }
func I8x16LeU(a, b [16]byte) [16]byte { return i8x16CmpU(a, b, func(x, y byte) bool { return x <= y }) }
func I8x16GeS(a, b [16]byte) [16]byte { return i8x16CmpS(a, b, func(x, y int8) bool { return x >= y }) }
func I8x16GeU(a, b [16]byte) [16]byte { return i8x16CmpU(a, b, func(x, y byte) bool { return x >= y }) }

func i16x8CmpS(a, b [16]byte, f func(x, y int16) bool) (out [16]byte) {
	for i := 0; i < 8; i++ {
		if f(int16(getU16(a[i*2:])), int16(getU16(b[i*2:]))) {
			putU16(out[i*2:], 0xffff)
		}
	}
	return out
}

func i16x8CmpU(a, b [16]byte, f func(x, y uint16) bool) (out [16]byte) {
	for i := 0; i < 8; i++ {
		if f(getU16(a[i*2:]), getU16(b[i*2:])) {
			putU16(out[i*2:], 0xffff)
		}
	}
	return out
}

func I16x8Ne(a, b [16]byte) [16]byte {
	return i16x8CmpU(a, b, func(x, y uint16) bool { return x != y })
}
func I16x8LtS(a, b [16]byte) [16]byte { return i16x8CmpS(a, b, func(x, y int16) bool { return x < y }) }
func I16x8LtU(a, b [16]byte) [16]byte {
	return i16x8CmpU(a, b, func(x, y uint16) bool { return x < y })
}
func I16x8GtS(a, b [16]byte) [16]byte { return i16x8CmpS(a, b, func(x, y int16) bool { return x > y }) }
func I16x8GtU(a, b [16]byte) [16]byte {
	return i16x8CmpU(a, b, func(x, y uint16) bool { return x > y })
}
func I16x8LeS(a, b [16]byte) [16]byte {
	return i16x8CmpS(a, b, func(x, y int16) bool { return x <= y })
}
func I16x8LeU(a, b [16]byte) [16]byte {
	return i16x8CmpU(a, b, func(x, y uint16) bool { return x <= y })
}
func I16x8GeS(a, b [16]byte) [16]byte {
	return i16x8CmpS(a, b, func(x, y int16) bool { return x >= y })
}
func I16x8GeU(a, b [16]byte) [16]byte {
	return i16x8CmpU(a, b, func(x, y uint16) bool { return x >= y })
}

func i32x4CmpS(a, b [16]byte, f func(x, y int32) bool) (out [16]byte) {
	for i := 0; i < 4; i++ {
		if f(int32(getU32(a[i*4:])), int32(getU32(b[i*4:]))) {
			putU32(out[i*4:], 0xffffffff)
		}
	}
	return out
}

func i32x4CmpU(a, b [16]byte, f func(x, y uint32) bool) (out [16]byte) {
	for i := 0; i < 4; i++ {
		if f(getU32(a[i*4:]), getU32(b[i*4:])) {
			putU32(out[i*4:], 0xffffffff)
		}
	}
	return out
}

func I32x4Ne(a, b [16]byte) [16]byte {
	return i32x4CmpU(a, b, func(x, y uint32) bool { return x != y })
}
func I32x4LtS(a, b [16]byte) [16]byte { return i32x4CmpS(a, b, func(x, y int32) bool { return x < y }) }
func I32x4LtU(a, b [16]byte) [16]byte {
	return i32x4CmpU(a, b, func(x, y uint32) bool { return x < y })
}
func I32x4GtS(a, b [16]byte) [16]byte { return i32x4CmpS(a, b, func(x, y int32) bool { return x > y }) }
func I32x4GtU(a, b [16]byte) [16]byte {
	return i32x4CmpU(a, b, func(x, y uint32) bool { return x > y })
}
func I32x4LeS(a, b [16]byte) [16]byte {
	return i32x4CmpS(a, b, func(x, y int32) bool { return x <= y })
}
func I32x4LeU(a, b [16]byte) [16]byte {
	return i32x4CmpU(a, b, func(x, y uint32) bool { return x <= y })
}
func I32x4GeS(a, b [16]byte) [16]byte {
	return i32x4CmpS(a, b, func(x, y int32) bool { return x >= y })
}
func I32x4GeU(a, b [16]byte) [16]byte {
	return i32x4CmpU(a, b, func(x, y uint32) bool { return x >= y })
}

func i64x2Cmp(a, b [16]byte, f func(x, y int64) bool) (out [16]byte) {
	for i := 0; i < 2; i++ {
		if f(int64(getU64(a[i*8:])), int64(getU64(b[i*8:]))) {
			putU64(out[i*8:], ^uint64(0))
		}
	}
	return out
}

func I64x2Eq(a, b [16]byte) [16]byte  { return i64x2Cmp(a, b, func(x, y int64) bool { return x == y }) }
func I64x2Ne(a, b [16]byte) [16]byte  { return i64x2Cmp(a, b, func(x, y int64) bool { return x != y }) }
func I64x2LtS(a, b [16]byte) [16]byte { return i64x2Cmp(a, b, func(x, y int64) bool { return x < y }) }
func I64x2GtS(a, b [16]byte) [16]byte { return i64x2Cmp(a, b, func(x, y int64) bool { return x > y }) }
func I64x2LeS(a, b [16]byte) [16]byte { return i64x2Cmp(a, b, func(x, y int64) bool { return x <= y }) }
func I64x2GeS(a, b [16]byte) [16]byte { return i64x2Cmp(a, b, func(x, y int64) bool { return x >= y }) }

func f32x4Cmp(a, b [16]byte, f func(x, y float32) bool) (out [16]byte) {
	for i := 0; i < 4; i++ {
		x := math.Float32frombits(getU32(a[i*4:]))
		y := math.Float32frombits(getU32(b[i*4:]))
		if f(x, y) {
			putU32(out[i*4:], 0xffffffff)
		}
	}
	return out
}

func F32x4Eq(a, b [16]byte) [16]byte { return f32x4Cmp(a, b, func(x, y float32) bool { return x == y }) }
func F32x4Ne(a, b [16]byte) [16]byte { return f32x4Cmp(a, b, func(x, y float32) bool { return x != y }) }
func F32x4Lt(a, b [16]byte) [16]byte { return f32x4Cmp(a, b, func(x, y float32) bool { return x < y }) }
func F32x4Gt(a, b [16]byte) [16]byte { return f32x4Cmp(a, b, func(x, y float32) bool { return x > y }) }
func F32x4Le(a, b [16]byte) [16]byte { return f32x4Cmp(a, b, func(x, y float32) bool { return x <= y }) }
func F32x4Ge(a, b [16]byte) [16]byte { return f32x4Cmp(a, b, func(x, y float32) bool { return x >= y }) }

func f64x2Cmp(a, b [16]byte, f func(x, y float64) bool) (out [16]byte) {
	for i := 0; i < 2; i++ {
		x := math.Float64frombits(getU64(a[i*8:]))
		y := math.Float64frombits(getU64(b[i*8:]))
		if f(x, y) {
			putU64(out[i*8:], ^uint64(0))
		}
	}
	return out
}

func F64x2Eq(a, b [16]byte) [16]byte { return f64x2Cmp(a, b, func(x, y float64) bool { return x == y }) }
func F64x2Ne(a, b [16]byte) [16]byte { return f64x2Cmp(a, b, func(x, y float64) bool { return x != y }) }
func F64x2Lt(a, b [16]byte) [16]byte { return f64x2Cmp(a, b, func(x, y float64) bool { return x < y }) }
func F64x2Gt(a, b [16]byte) [16]byte { return f64x2Cmp(a, b, func(x, y float64) bool { return x > y }) }
func F64x2Le(a, b [16]byte) [16]byte { return f64x2Cmp(a, b, func(x, y float64) bool { return x <= y }) }
func F64x2Ge(a, b [16]byte) [16]byte { return f64x2Cmp(a, b, func(x, y float64) bool { return x >= y }) }

func V128AndNot(a, b [16]byte) (out [16]byte) {
	for i := range a {
		out[i] = a[i] &^ b[i]
	}
	return out
}

// Lane shifts. The shift amount is masked to the lane's bit width, per the
// fixed-width-SIMD proposal's shift semantics.

func I8x16Shl(a [16]byte, shift uint32) (out [16]byte) {
	s := shift & 7
	for i := range a {
		out[i] = a[i] << s
	}
	return out
}
func I8x16ShrS(a [16]byte, shift uint32) (out [16]byte) {
	s := uint(shift & 7)
	for i := range a {
		out[i] = byte(int8(a[i]) >> s)
	}
	return out
}
func I8x16ShrU(a [16]byte, shift uint32) (out [16]byte) {
	s := shift & 7
	for i := range a {
		out[i] = a[i] >> s
	}
	return out
}

func I16x8Shl(a [16]byte, shift uint32) [16]byte {
	s := uint16(shift & 15)
	return lane16Unary(a, func(x uint16) uint16 { return x << s })
}
func I16x8ShrS(a [16]byte, shift uint32) [16]byte {
	s := uint(shift & 15)
	return lane16Unary(a, func(x uint16) uint16 { return uint16(int16(x) >> s) })
}
func I16x8ShrU(a [16]byte, shift uint32) [16]byte {
	s := uint16(shift & 15)
	return lane16Unary(a, func(x uint16) uint16 { return x >> s })
}

func I32x4Shl(a [16]byte, shift uint32) [16]byte {
	s := shift & 31
	return lane32Unary(a, func(x uint32) uint32 { return x << s })
}
func I32x4ShrS(a [16]byte, shift uint32) [16]byte {
	s := shift & 31
	return lane32Unary(a, func(x uint32) uint32 { return uint32(int32(x) >> s) })
}
func I32x4ShrU(a [16]byte, shift uint32) [16]byte {
	s := shift & 31
	return lane32Unary(a, func(x uint32) uint32 { return x >> s })
}

func I64x2Shl(a [16]byte, shift uint32) [16]byte {
	s := uint64(shift & 63)
	return lane64Unary(a, func(x uint64) uint64 { return x << s })
}
func I64x2ShrS(a [16]byte, shift uint32) [16]byte {
	s := uint(shift & 63)
	return lane64Unary(a, func(x uint64) uint64 { return uint64(int64(x) >> s) })
}
func I64x2ShrU(a [16]byte, shift uint32) [16]byte {
	s := uint64(shift & 63)
	return lane64Unary(a, func(x uint64) uint64 { return x >> s })
}

// Saturating arithmetic.

func satAddS8(x, y int8) byte {
	s := int32(x) + int32(y)
	if s > 127 {
		s = 127
	} else if s < -128 {
		s = -128
	}
	return byte(int8(s))
}
func satAddU8(x, y byte) byte {
	s := int32(x) + int32(y)
	if s > 255 {
		s = 255
	}
	return byte(s)
}
func satSubS8(x, y int8) byte {
	s := int32(x) - int32(y)
	if s > 127 {
		s = 127
	} else if s < -128 {
		s = -128
	}
	return byte(int8(s))
}
func satSubU8(x, y byte) byte {
	s := int32(x) - int32(y)
	if s < 0 {
		s = 0
	}
	return byte(s)
}

func I8x16AddSatS(a, b [16]byte) [16]byte {
	return lane8(a, b, func(x, y byte) byte { return satAddS8(int8(x), int8(y)) })
}
func I8x16AddSatU(a, b [16]byte) [16]byte { return lane8(a, b, satAddU8) }
func I8x16SubSatS(a, b [16]byte) [16]byte {
	return lane8(a, b, func(x, y byte) byte { return satSubS8(int8(x), int8(y)) })
}
func I8x16SubSatU(a, b [16]byte) [16]byte { return lane8(a, b, satSubU8) }
func I8x16AvgrU(a, b [16]byte) [16]byte {
	return lane8(a, b, func(x, y byte) byte { return byte((uint16(x) + uint16(y) + 1) / 2) })
}

func satAddS16(x, y int16) uint16 {
	s := int32(x) + int32(y)
	if s > 32767 {
		s = 32767
	} else if s < -32768 {
		s = -32768
	}
	return uint16(int16(s))
}
func satAddU16(x, y uint16) uint16 {
	s := int32(x) + int32(y)
	if s > 65535 {
		s = 65535
	}
	return uint16(s)
}
func satSubS16(x, y int16) uint16 {
	s := int32(x) - int32(y)
	if s > 32767 {
		s = 32767
	} else if s < -32768 {
		s = -32768
	}
	return uint16(int16(s))
}
func satSubU16(x, y uint16) uint16 {
	s := int32(x) - int32(y)
	if s < 0 {
		s = 0
	}
	return uint16(s)
}

func I16x8AddSatS(a, b [16]byte) [16]byte {
	return lane16(a, b, func(x, y uint16) uint16 { return satAddS16(int16(x), int16(y)) })
}
func I16x8AddSatU(a, b [16]byte) [16]byte { return lane16(a, b, satAddU16) }
func I16x8SubSatS(a, b [16]byte) [16]byte {
	return lane16(a, b, func(x, y uint16) uint16 { return satSubS16(int16(x), int16(y)) })
}
func I16x8SubSatU(a, b [16]byte) [16]byte { return lane16(a, b, satSubU16) }
func I16x8AvgrU(a, b [16]byte) [16]byte {
	return lane16(a, b, func(x, y uint16) uint16 { return uint16((uint32(x) + uint32(y) + 1) / 2) })
}

// I16x8Q15mulrSatS implements the Q15 fixed-point rounding saturating
// multiply: round((x*y) / 2^15), clamped to the int16 range.
func I16x8Q15mulrSatS(a, b [16]byte) [16]byte {
	return lane16(a, b, func(x, y uint16) uint16 {
		p := (int32(int16(x))*int32(int16(y)) + (1 << 14)) >> 15
		if p > 32767 {
			p = 32767
		} else if p < -32768 {
			p = -32768
		}
		return uint16(int16(p))
	})
}

// Narrow.

func satI16ToI8(x int16) byte {
	if x > 127 {
		return 127
	}
	if x < -128 {
		return 0x80
	}
	return byte(x)
}
func satI16ToU8(x int16) byte {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return byte(x)
}

func I8x16NarrowI16x8S(a, b [16]byte) (out [16]byte) {
	for i := 0; i < 8; i++ {
		out[i] = satI16ToI8(int16(getU16(a[i*2:])))
	}
	for i := 0; i < 8; i++ {
		out[8+i] = satI16ToI8(int16(getU16(b[i*2:])))
	}
	return out
}
func I8x16NarrowI16x8U(a, b [16]byte) (out [16]byte) {
	for i := 0; i < 8; i++ {
		out[i] = satI16ToU8(int16(getU16(a[i*2:])))
	}
	for i := 0; i < 8; i++ {
		out[8+i] = satI16ToU8(int16(getU16(b[i*2:])))
	}
	return out
}

func satI32ToI16(x int32) uint16 {
	if x > 32767 {
		return 32767
	}
	if x < -32768 {
		return uint16(int16(-32768))
	}
	return uint16(int16(x))
}
func satI32ToU16(x int32) uint16 {
	if x < 0 {
		return 0
	}
	if x > 65535 {
		return 65535
	}
	return uint16(x)
}

func I16x8NarrowI32x4S(a, b [16]byte) (out [16]byte) {
	for i := 0; i < 4; i++ {
		putU16(out[i*2:], satI32ToI16(int32(getU32(a[i*4:]))))
	}
	for i := 0; i < 4; i++ {
		putU16(out[8+i*2:], satI32ToI16(int32(getU32(b[i*4:]))))
	}
	return out
}
func I16x8NarrowI32x4U(a, b [16]byte) (out [16]byte) {
	for i := 0; i < 4; i++ {
		putU16(out[i*2:], satI32ToU16(int32(getU32(a[i*4:]))))
	}
	for i := 0; i < 4; i++ {
		putU16(out[8+i*2:], satI32ToU16(int32(getU32(b[i*4:]))))
	}
	return out
}

// Sign/zero extension to double lane width.

func I16x8ExtendLowI8x16S(a [16]byte) (out [16]byte) {
	for i := 0; i < 8; i++ {
		putU16(out[i*2:], uint16(int16(int8(a[i]))))
	}
	return out
}
func I16x8ExtendHighI8x16S(a [16]byte) (out [16]byte) {
	for i := 0; i < 8; i++ {
		putU16(out[i*2:], uint16(int16(int8(a[8+i]))))
	}
	return out
}
func I16x8ExtendLowI8x16U(a [16]byte) (out [16]byte) {
	for i := 0; i < 8; i++ {
		putU16(out[i*2:], uint16(a[i]))
	}
	return out
}
func I16x8ExtendHighI8x16U(a [16]byte) (out [16]byte) {
	for i := 0; i < 8; i++ {
		putU16(out[i*2:], uint16(a[8+i]))
	}
	return out
}

func I32x4ExtendLowI16x8S(a [16]byte) (out [16]byte) {
	for i := 0; i < 4; i++ {
		putU32(out[i*4:], uint32(int32(int16(getU16(a[i*2:])))))
	}
	return out
}
func I32x4ExtendHighI16x8S(a [16]byte) (out [16]byte) {
	for i := 0; i < 4; i++ {
		putU32(out[i*4:], uint32(int32(int16(getU16(a[8+i*2:])))))
	}
	return out
}
func I32x4ExtendLowI16x8U(a [16]byte) (out [16]byte) {
	for i := 0; i < 4; i++ {
		putU32(out[i*4:], uint32(getU16(a[i*2:])))
	}
	return out
}
func I32x4ExtendHighI16x8U(a [16]byte) (out [16]byte) {
	for i := 0; i < 4; i++ {
		putU32(out[i*4:], uint32(getU16(a[8+i*2:])))
	}
	return out
}

func I64x2ExtendLowI32x4S(a [16]byte) (out [16]byte) {
	for i := 0; i < 2; i++ {
		putU64(out[i*8:], uint64(int64(int32(getU32(a[i*4:])))))
	}
	return out
}
func I64x2ExtendHighI32x4S(a [16]byte) (out [16]byte) {
	for i := 0; i < 2; i++ {
		putU64(out[i*8:], uint64(int64(int32(getU32(a[8+i*4:])))))
	}
	return out
}
func I64x2ExtendLowI32x4U(a [16]byte) (out [16]byte) {
	for i := 0; i < 2; i++ {
		putU64(out[i*8:], uint64(getU32(a[i*4:])))
	}
	return out
}
func I64x2ExtendHighI32x4U(a [16]byte) (out [16]byte) {
	for i := 0; i < 2; i++ {
		putU64(out[i*8:], uint64(getU32(a[8+i*4:])))
	}
	return out
}

// Widening multiply (extmul) and widening pairwise add (extadd_pairwise).

func I16x8ExtmulLowI8x16S(a, b [16]byte) (out [16]byte) {
	for i := 0; i < 8; i++ {
		putU16(out[i*2:], uint16(int16(int8(a[i]))*int16(int8(b[i]))))
	}
	return out
}
func I16x8ExtmulHighI8x16S(a, b [16]byte) (out [16]byte) {
	for i := 0; i < 8; i++ {
		putU16(out[i*2:], uint16(int16(int8(a[8+i]))*int16(int8(b[8+i]))))
	}
	return out
}
func I16x8ExtmulLowI8x16U(a, b [16]byte) (out [16]byte) {
	for i := 0; i < 8; i++ {
		putU16(out[i*2:], uint16(a[i])*uint16(b[i]))
	}
	return out
}
func I16x8ExtmulHighI8x16U(a, b [16]byte) (out [16]byte) {
	for i := 0; i < 8; i++ {
		putU16(out[i*2:], uint16(a[8+i])*uint16(b[8+i]))
	}
	return out
}

func I32x4ExtmulLowI16x8S(a, b [16]byte) (out [16]byte) {
	for i := 0; i < 4; i++ {
		x, y := int32(int16(getU16(a[i*2:]))), int32(int16(getU16(b[i*2:])))
		putU32(out[i*4:], uint32(x*y))
	}
	return out
}
func I32x4ExtmulHighI16x8S(a, b [16]byte) (out [16]byte) {
	for i := 0; i < 4; i++ {
		x, y := int32(int16(getU16(a[8+i*2:]))), int32(int16(getU16(b[8+i*2:])))
		putU32(out[i*4:], uint32(x*y))
	}
	return out
}
func I32x4ExtmulLowI16x8U(a, b [16]byte) (out [16]byte) {
	for i := 0; i < 4; i++ {
		x, y := uint32(getU16(a[i*2:])), uint32(getU16(b[i*2:]))
		putU32(out[i*4:], x*y)
	}
	return out
}
func I32x4ExtmulHighI16x8U(a, b [16]byte) (out [16]byte) {
	for i := 0; i < 4; i++ {
		x, y := uint32(getU16(a[8+i*2:])), uint32(getU16(b[8+i*2:]))
		putU32(out[i*4:], x*y)
	}
	return out
}

func I64x2ExtmulLowI32x4S(a, b [16]byte) (out [16]byte) {
	for i := 0; i < 2; i++ {
		x, y := int64(int32(getU32(a[i*4:]))), int64(int32(getU32(b[i*4:])))
		putU64(out[i*8:], uint64(x*y))
	}
	return out
}
func I64x2ExtmulHighI32x4S(a, b [16]byte) (out [16]byte) {
	for i := 0; i < 2; i++ {
		x, y := int64(int32(getU32(a[8+i*4:]))), int64(int32(getU32(b[8+i*4:])))
		putU64(out[i*8:], uint64(x*y))
	}
	return out
}
func I64x2ExtmulLowI32x4U(a, b [16]byte) (out [16]byte) {
	for i := 0; i < 2; i++ {
		x, y := uint64(getU32(a[i*4:])), uint64(getU32(b[i*4:]))
		putU64(out[i*8:], x*y)
	}
	return out
}
func I64x2ExtmulHighI32x4U(a, b [16]byte) (out [16]byte) {
	for i := 0; i < 2; i++ {
		x, y := uint64(getU32(a[8+i*4:])), uint64(getU32(b[8+i*4:]))
		putU64(out[i*8:], x*y)
	}
	return out
}

func I16x8ExtaddPairwiseI8x16S(a [16]byte) (out [16]byte) {
	for i := 0; i < 8; i++ {
		s := int16(int8(a[2*i])) + int16(int8(a[2*i+1]))
		putU16(out[i*2:], uint16(s))
	}
	return out
}
func I16x8ExtaddPairwiseI8x16U(a [16]byte) (out [16]byte) {
	for i := 0; i < 8; i++ {
		s := uint16(a[2*i]) + uint16(a[2*i+1])
		putU16(out[i*2:], s)
	}
	return out
}
func I32x4ExtaddPairwiseI16x8S(a [16]byte) (out [16]byte) {
	for i := 0; i < 4; i++ {
		s := int32(int16(getU16(a[(2*i)*2:]))) + int32(int16(getU16(a[(2*i+1)*2:])))
		putU32(out[i*4:], uint32(s))
	}
	return out
}
func I32x4ExtaddPairwiseI16x8U(a [16]byte) (out [16]byte) {
	for i := 0; i < 4; i++ {
		s := uint32(getU16(a[(2*i)*2:])) + uint32(getU16(a[(2*i+1)*2:]))
		putU32(out[i*4:], s)
	}
	return out
}

// I32x4DotI16x8S sums adjacent signed 16-bit lane products into 32-bit lanes.
func I32x4DotI16x8S(a, b [16]byte) (out [16]byte) {
	for i := 0; i < 4; i++ {
		x0, y0 := int32(int16(getU16(a[(2*i)*2:]))), int32(int16(getU16(b[(2*i)*2:])))
		x1, y1 := int32(int16(getU16(a[(2*i+1)*2:]))), int32(int16(getU16(b[(2*i+1)*2:])))
		putU32(out[i*4:], uint32(x0*y0+x1*y1))
	}
	return out
}

// Per-lane abs/neg/popcnt/all_true/bitmask.

func I8x16Abs(a [16]byte) (out [16]byte) {
	for i, v := range a {
		x := int8(v)
		if x < 0 {
			x = -x
		}
		out[i] = byte(x)
	}
	return out
}
func I8x16Neg(a [16]byte) (out [16]byte) {
	for i, v := range a {
		out[i] = byte(-int8(v))
	}
	return out
}
func I8x16Popcnt(a [16]byte) (out [16]byte) {
	for i, v := range a {
		out[i] = byte(bits.OnesCount8(v))
	}
	return out
}
func I8x16AllTrue(a [16]byte) bool {
	for _, v := range a {
		if v == 0 {
			return false
		}
	}
	return true
}
func I8x16Bitmask(a [16]byte) int32 {
	var m int32
	for i, v := range a {
		if int8(v) < 0 {
			m |= 1 << uint(i)
		}
	}
	return m
}

func I16x8Abs(a [16]byte) [16]byte {
	return lane16Unary(a, func(x uint16) uint16 {
		v := int16(x)
		if v < 0 {
			v = -v
		}
		return uint16(v)
	})
}
func I16x8Neg(a [16]byte) [16]byte {
	return lane16Unary(a, func(x uint16) uint16 { return uint16(-int16(x)) })
}
func I16x8AllTrue(a [16]byte) bool {
	for i := 0; i < 8; i++ {
		if getU16(a[i*2:]) == 0 {
			return false
		}
	}
	return true
}
func I16x8Bitmask(a [16]byte) int32 {
	var m int32
	for i := 0; i < 8; i++ {
		if int16(getU16(a[i*2:])) < 0 {
			m |= 1 << uint(i)
		}
	}
	return m
}

func I32x4Abs(a [16]byte) [16]byte {
	return lane32Unary(a, func(x uint32) uint32 {
		v := int32(x)
		if v < 0 {
			v = -v
		}
		return uint32(v)
	})
}
func I32x4Neg(a [16]byte) [16]byte {
	return lane32Unary(a, func(x uint32) uint32 { return uint32(-int32(x)) })
}
func I32x4AllTrue(a [16]byte) bool {
	for i := 0; i < 4; i++ {
		if getU32(a[i*4:]) == 0 {
			return false
		}
	}
	return true
}
func I32x4Bitmask(a [16]byte) int32 {
	var m int32
	for i := 0; i < 4; i++ {
		if int32(getU32(a[i*4:])) < 0 {
			m |= 1 << uint(i)
		}
	}
	return m
}

func I64x2Abs(a [16]byte) [16]byte {
	return lane64Unary(a, func(x uint64) uint64 {
		v := int64(x)
		if v < 0 {
			v = -v
		}
		return uint64(v)
	})
}
func I64x2Neg(a [16]byte) [16]byte {
	return lane64Unary(a, func(x uint64) uint64 { return uint64(-int64(x)) })
}
func I64x2AllTrue(a [16]byte) bool {
	for i := 0; i < 2; i++ {
		if getU64(a[i*8:]) == 0 {
			return false
		}
	}
	return true
}
func I64x2Bitmask(a [16]byte) int32 {
	var m int32
	for i := 0; i < 2; i++ {
		if int64(getU64(a[i*8:])) < 0 {
			m |= 1 << uint(i)
		}
	}
	return m
}

// Per-lane signed/unsigned min/max (i8x16, i16x8, i32x4; the proposal has no
// i64x2 min/max).

func I8x16MinS(a, b [16]byte) [16]byte {
	return lane8(a, b, func(x, y byte) byte {
		if int8(x) < int8(y) {
			return x
		}
		return y
	})
}
func I8x16MinU(a, b [16]byte) [16]byte {
	return lane8(a, b, func(x, y byte) byte {
		if x < y {
			return x
		}
		return y
	})
}
func I8x16MaxS(a, b [16]byte) [16]byte {
	return lane8(a, b, func(x, y byte) byte {
		if int8(x) > int8(y) {
			return x
		}
		return y
	})
}
func I8x16MaxU(a, b [16]byte) [16]byte {
	return lane8(a, b, func(x, y byte) byte {
		if x > y {
			return x
		}
		return y
	})
}

func I16x8MinS(a, b [16]byte) [16]byte {
	return lane16(a, b, func(x, y uint16) uint16 {
		if int16(x) < int16(y) {
			return x
		}
		return y
	})
}
func I16x8MinU(a, b [16]byte) [16]byte {
	return lane16(a, b, func(x, y uint16) uint16 {
		if x < y {
			return x
		}
		return y
	})
}
func I16x8MaxS(a, b [16]byte) [16]byte {
	return lane16(a, b, func(x, y uint16) uint16 {
		if int16(x) > int16(y) {
			return x
		}
		return y
	})
}
func I16x8MaxU(a, b [16]byte) [16]byte {
	return lane16(a, b, func(x, y uint16) uint16 {
		if x > y {
			return x
		}
		return y
	})
}

func I32x4MinS(a, b [16]byte) [16]byte {
	return lane32(a, b, func(x, y uint32) uint32 {
		if int32(x) < int32(y) {
			return x
		}
		return y
	})
}
func I32x4MinU(a, b [16]byte) [16]byte {
	return lane32(a, b, func(x, y uint32) uint32 {
		if x < y {
			return x
		}
		return y
	})
}
func I32x4MaxS(a, b [16]byte) [16]byte {
	return lane32(a, b, func(x, y uint32) uint32 {
		if int32(x) > int32(y) {
			return x
		}
		return y
	})
}
func I32x4MaxU(a, b [16]byte) [16]byte {
	return lane32(a, b, func(x, y uint32) uint32 {
		if x > y {
			return x
		}
		return y
	})
}

// Float unary/rounding and pseudo-min/max.

func F32x4Ceil(a [16]byte) [16]byte {
	return laneF32Unary(a, func(x float32) float32 { return float32(math.Ceil(float64(x))) })
}
func F32x4Floor(a [16]byte) [16]byte {
	return laneF32Unary(a, func(x float32) float32 { return float32(math.Floor(float64(x))) })
}
func F32x4Trunc(a [16]byte) [16]byte {
	return laneF32Unary(a, func(x float32) float32 { return float32(math.Trunc(float64(x))) })
}
func F32x4Nearest(a [16]byte) [16]byte { return laneF32Unary(a, F32Nearest) }
func F32x4Abs(a [16]byte) [16]byte {
	return laneF32Unary(a, func(x float32) float32 { return float32(math.Abs(float64(x))) })
}
func F32x4Neg(a [16]byte) [16]byte  { return laneF32Unary(a, func(x float32) float32 { return -x }) }
func F32x4Sqrt(a [16]byte) [16]byte {
	return laneF32Unary(a, func(x float32) float32 { return float32(math.Sqrt(float64(x))) })
}
func F32x4Min(a, b [16]byte) [16]byte { return laneF32(a, b, F32Min) }
func F32x4Max(a, b [16]byte) [16]byte { return laneF32(a, b, F32Max) }
func F32x4Pmin(a, b [16]byte) [16]byte {
	return laneF32(a, b, func(x, y float32) float32 {
		if y < x {
			return y
		}
		return x
	})
}
func F32x4Pmax(a, b [16]byte) [16]byte {
	return laneF32(a, b, func(x, y float32) float32 {
		if x < y {
			return y
		}
		return x
	})
}

func F64x2Ceil(a [16]byte) [16]byte   { return laneF64Unary(a, math.Ceil) }
func F64x2Floor(a [16]byte) [16]byte  { return laneF64Unary(a, math.Floor) }
func F64x2Trunc(a [16]byte) [16]byte  { return laneF64Unary(a, math.Trunc) }
func F64x2Nearest(a [16]byte) [16]byte { return laneF64Unary(a, F64Nearest) }
func F64x2Abs(a [16]byte) [16]byte     { return laneF64Unary(a, math.Abs) }
func F64x2Neg(a [16]byte) [16]byte     { return laneF64Unary(a, func(x float64) float64 { return -x }) }
func F64x2Sqrt(a [16]byte) [16]byte    { return laneF64Unary(a, math.Sqrt) }
func F64x2Min(a, b [16]byte) [16]byte  { return laneF64(a, b, F64Min) }
func F64x2Max(a, b [16]byte) [16]byte  { return laneF64(a, b, F64Max) }
func F64x2Pmin(a, b [16]byte) [16]byte {
	return laneF64(a, b, func(x, y float64) float64 {
		if y < x {
			return y
		}
		return x
	})
}
func F64x2Pmax(a, b [16]byte) [16]byte {
	return laneF64(a, b, func(x, y float64) float64 {
		if x < y {
			return y
		}
		return x
	})
}

// v128 <-> i32x4/f32x4/f64x2 conversions.

func I32x4TruncSatF32x4S(a [16]byte) (out [16]byte) {
	for i := 0; i < 4; i++ {
		f := math.Float32frombits(getU32(a[i*4:]))
		putU32(out[i*4:], uint32(I32TruncSatF32S(f)))
	}
	return out
}
func I32x4TruncSatF32x4U(a [16]byte) (out [16]byte) {
	for i := 0; i < 4; i++ {
		f := math.Float32frombits(getU32(a[i*4:]))
		putU32(out[i*4:], I32TruncSatF32U(f))
	}
	return out
}
func F32x4ConvertI32x4S(a [16]byte) (out [16]byte) {
	for i := 0; i < 4; i++ {
		v := int32(getU32(a[i*4:]))
		putU32(out[i*4:], math.Float32bits(float32(v)))
	}
	return out
}
func F32x4ConvertI32x4U(a [16]byte) (out [16]byte) {
	for i := 0; i < 4; i++ {
		v := getU32(a[i*4:])
		putU32(out[i*4:], math.Float32bits(float32(v)))
	}
	return out
}

// F32x4DemoteF64x2Zero demotes the two f64 lanes to f32, leaving lanes 2-3 zero.
func F32x4DemoteF64x2Zero(a [16]byte) (out [16]byte) {
	for i := 0; i < 2; i++ {
		d := math.Float64frombits(getU64(a[i*8:]))
		putU32(out[i*4:], math.Float32bits(float32(d)))
	}
	return out
}

// F64x2PromoteLowF32x4 promotes the low two f32 lanes to f64.
func F64x2PromoteLowF32x4(a [16]byte) (out [16]byte) {
	for i := 0; i < 2; i++ {
		f := math.Float32frombits(getU32(a[i*4:]))
		putU64(out[i*8:], math.Float64bits(float64(f)))
	}
	return out
}

// I32x4TruncSatF64x2SZero/UZero trunc_sat the two f64 lanes into the low two
// i32 lanes, leaving lanes 2-3 zero.
func I32x4TruncSatF64x2SZero(a [16]byte) (out [16]byte) {
	for i := 0; i < 2; i++ {
		d := math.Float64frombits(getU64(a[i*8:]))
		putU32(out[i*4:], uint32(I32TruncSatF64S(d)))
	}
	return out
}
func I32x4TruncSatF64x2UZero(a [16]byte) (out [16]byte) {
	for i := 0; i < 2; i++ {
		d := math.Float64frombits(getU64(a[i*8:]))
		putU32(out[i*4:], I32TruncSatF64U(d))
	}
	return out
}

func F64x2ConvertLowI32x4S(a [16]byte) (out [16]byte) {
	for i := 0; i < 2; i++ {
		v := int32(getU32(a[i*4:]))
		putU64(out[i*8:], math.Float64bits(float64(v)))
	}
	return out
}
func F64x2ConvertLowI32x4U(a [16]byte) (out [16]byte) {
	for i := 0; i < 2; i++ {
		v := getU32(a[i*4:])
		putU64(out[i*8:], math.Float64bits(float64(v)))
	}
	return out
}
