// Package moremath adds the floating-point helpers the Wasm numeric
// instructions need that the standard math package doesn't provide exactly:
// NaN-propagating min/max and round-half-to-even rounding.
package moremath

import "math"

// WasmCompatMin resolves f32.min/f64.min: math.Min doesn't comply with the
// Wasm spec, so this is borrowed from the Go original with a change that
// either operand being NaN results in NaN even if the other is -Inf.
// https://github.com/golang/go/blob/1d20a362d0ca4898d77865e314ef6f73582daef0/src/math/dim.go#L74-L91
func WasmCompatMin(x, y float64) float64 {
	switch {
	case math.IsNaN(x) || math.IsNaN(y):
		return math.NaN()
	case math.IsInf(x, -1) || math.IsInf(y, -1):
		return math.Inf(-1)
	case x == 0 && x == y:
		if math.Signbit(x) {
			return x
		}
		return y
	}
	if x < y {
		return x
	}
	return y
}

// WasmCompatMax resolves f32.max/f64.max, mirroring WasmCompatMin.
// https://github.com/golang/go/blob/1d20a362d0ca4898d77865e314ef6f73582daef0/src/math/dim.go#L42-L59
func WasmCompatMax(x, y float64) float64 {
	switch {
	case math.IsNaN(x) || math.IsNaN(y):
		return math.NaN()
	case math.IsInf(x, 1) || math.IsInf(y, 1):
		return math.Inf(1)
	case x == 0 && x == y:
		if math.Signbit(x) {
			return y
		}
		return x
	}
	if x > y {
		return x
	}
	return y
}

// WasmCompatNearestF32 resolves f32.nearest: round to the nearest integer,
// ties to even, unlike math.Round which rounds ties away from zero.
func WasmCompatNearestF32(f float32) float32 {
	if f != f { // NaN
		return f
	}
	ceil := float32(math.Ceil(float64(f)))
	floor := float32(math.Floor(float64(f)))
	distToCeil := ceil - f
	distToFloor := f - floor
	switch {
	case distToCeil < distToFloor:
		return ceil
	case distToCeil > distToFloor:
		return floor
	case int64(ceil)%2 == 0:
		return ceil
	default:
		return floor
	}
}

// WasmCompatNearestF64 is the float64 counterpart of WasmCompatNearestF32.
func WasmCompatNearestF64(f float64) float64 {
	if f != f { // NaN
		return f
	}
	ceil := math.Ceil(f)
	floor := math.Floor(f)
	distToCeil := ceil - f
	distToFloor := f - floor
	switch {
	case distToCeil < distToFloor:
		return ceil
	case distToCeil > distToFloor:
		return floor
	case int64(ceil)%2 == 0:
		return ceil
	default:
		return floor
	}
}
