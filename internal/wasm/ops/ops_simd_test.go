package ops

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLaneExtractReplaceRoundTrip(t *testing.T) {
	var v [16]byte
	v = I8x16ReplaceLane(v, 3, -5)
	require.Equal(t, int32(-5), I8x16ExtractLaneS(v, 3))
	require.Equal(t, int32(251), I8x16ExtractLaneU(v, 3))

	v = I16x8ReplaceLane(v, 1, 1000)
	require.Equal(t, int32(1000), I16x8ExtractLaneS(v, 1))

	v = I32x4ReplaceLane(v, 2, -7)
	require.Equal(t, int32(-7), I32x4ExtractLane(v, 2))

	v = I64x2ReplaceLane(v, 0, 123456789)
	require.Equal(t, int64(123456789), I64x2ExtractLane(v, 0))

	v = F32x4ReplaceLane(v, 1, 3.5)
	require.Equal(t, float32(3.5), F32x4ExtractLane(v, 1))

	v = F64x2ReplaceLane(v, 1, -2.25)
	require.Equal(t, -2.25, F64x2ExtractLane(v, 1))
}

func TestI8x16Shuffle(t *testing.T) {
	var a, b [16]byte
	for i := range a {
		a[i] = byte(i)
		b[i] = byte(i + 16)
	}
	// identity on a, then reach into b for the last lane.
	sel := a
	sel[15] = 16 // first byte of b
	out := I8x16Shuffle(a, b, sel)
	require.Equal(t, a[:15], out[:15])
	require.Equal(t, byte(16), out[15])
}

func TestI8x16Swizzle(t *testing.T) {
	var a [16]byte
	for i := range a {
		a[i] = byte(i * 2)
	}
	idx := [16]byte{15: 255} // out of range -> zero lane
	idx[0] = 1
	out := I8x16Swizzle(a, idx)
	require.Equal(t, byte(2), out[0])
	require.Equal(t, byte(0), out[15])
}

func TestSaturatingArithmetic(t *testing.T) {
	a := I8x16Splat(120)
	b := I8x16Splat(100)
	sum := I8x16AddSatS(a, b)
	require.Equal(t, int32(127), I8x16ExtractLaneS(sum, 0), "signed i8 add saturates at 127")

	ua := I8x16Splat(-1) // all lanes 0xff when read unsigned
	ub := I8x16Splat(10)
	usum := I8x16AddSatU(ua, ub)
	require.Equal(t, int32(255), I8x16ExtractLaneU(usum, 0), "unsigned i8 add saturates at 255")
}

func TestLaneComparisonsAndBitmask(t *testing.T) {
	a := I32x4Splat(5)
	b := I32x4Splat(7)
	lt := I32x4LtS(a, b)
	require.Equal(t, int32(-1), I32x4ExtractLane(lt, 0), "true lane is all-ones")

	allTrue := I32x4Splat(1)
	require.True(t, I32x4AllTrue(allTrue))
	require.False(t, I32x4AllTrue(I32x4Splat(0)))
}

func TestI32x4DotI16x8S(t *testing.T) {
	a := I16x8Splat(3)
	b := I16x8Splat(4)
	dot := I32x4DotI16x8S(a, b)
	// each output lane sums two adjacent 3*4 products: 12+12=24
	require.Equal(t, int32(24), I32x4ExtractLane(dot, 0))
}

func TestF32x4PminPmax(t *testing.T) {
	a := F32x4Splat(1.0)
	b := F32x4Splat(2.0)
	require.Equal(t, float32(1.0), F32x4ExtractLane(F32x4Pmin(a, b), 0))
	require.Equal(t, float32(2.0), F32x4ExtractLane(F32x4Pmax(a, b), 0))
}

func TestV128AndNot(t *testing.T) {
	a := [16]byte{0: 0xff}
	b := [16]byte{0: 0x0f}
	out := V128AndNot(a, b)
	require.Equal(t, byte(0xf0), out[0])
}
