package corewasm

import (
	"context"
	"fmt"
	"reflect"

	"github.com/corewasm/corewasm/api"
)

// reflectGoFunc adapts an arbitrary Go func passed to
// HostFunctionBuilder.WithFunc into an api.GoModuleFunction, the shape
// internal/engine/interpreter already knows how to call. Grounded on the
// reflect.Value-based parameter/result walk the retrieved makefunc package
// used for the same job against an older calling convention: this version
// targets the stack-based convention instead of that package's per-call
// reflect.MakeFunc indirection, but keeps its rules for recognizing a
// leading context.Context/api.Module and a trailing error result.
type reflectGoFunc struct {
	fn          reflect.Value
	paramOffset int // 0, 1 (ctx only) or 2 (ctx + api.Module)
	takesMod    bool
	hasError    bool
	paramTypes  []api.ValueType
	resultTypes []api.ValueType
}

var (
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	ctxType     = reflect.TypeOf((*context.Context)(nil)).Elem()
	moduleType  = reflect.TypeOf((*api.Module)(nil)).Elem()
)

// newReflectGoFunc inspects fn's signature and builds an adapter, or
// returns an error describing the first parameter/result that can't map to
// a WebAssembly numeric value type.
func newReflectGoFunc(fn interface{}) (*reflectGoFunc, error) {
	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, fmt.Errorf("WithFunc requires a func, got %s", t.Kind())
	}

	r := &reflectGoFunc{fn: v}
	offset := 0
	if t.NumIn() > 0 && t.In(0) == ctxType {
		offset = 1
	}
	if offset == 1 && t.NumIn() > 1 && t.In(1) == moduleType {
		r.takesMod = true
		offset++
	}
	r.paramOffset = offset

	for i := offset; i < t.NumIn(); i++ {
		vt, err := goKindToValueType(t.In(i).Kind())
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i, err)
		}
		r.paramTypes = append(r.paramTypes, vt)
	}

	numOut := t.NumOut()
	if numOut > 0 && t.Out(numOut-1) == errorType {
		r.hasError = true
		numOut--
	}
	for i := 0; i < numOut; i++ {
		vt, err := goKindToValueType(t.Out(i).Kind())
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}
		r.resultTypes = append(r.resultTypes, vt)
	}
	return r, nil
}

func goKindToValueType(k reflect.Kind) (api.ValueType, error) {
	switch k {
	case reflect.Int32, reflect.Uint32:
		return api.ValueTypeI32, nil
	case reflect.Int64, reflect.Uint64:
		return api.ValueTypeI64, nil
	case reflect.Float32:
		return api.ValueTypeF32, nil
	case reflect.Float64:
		return api.ValueTypeF64, nil
	default:
		return 0, fmt.Errorf("unsupported Go type kind %s: only {u,}int{32,64} and float{32,64} map to Wasm value types", k)
	}
}

// call implements api.GoModuleFunction: it decodes stack's leading
// len(paramTypes) slots into reflect.Values matching fn's declared
// parameter types, invokes fn, and encodes its results into stack. A
// trailing error result is never written to stack: a non-nil error becomes
// a Go panic, since Wasm has no error type of its own.
func (r *reflectGoFunc) call(ctx context.Context, mod api.Module, stack []uint64) {
	args := make([]reflect.Value, 0, r.paramOffset+len(r.paramTypes))
	if r.paramOffset >= 1 {
		args = append(args, reflect.ValueOf(ctx))
	}
	if r.takesMod {
		args = append(args, reflect.ValueOf(mod))
	}
	ft := r.fn.Type()
	for i, vt := range r.paramTypes {
		in := ft.In(r.paramOffset + i)
		args = append(args, decodeValueTypeAs(vt, stack[i], in.Kind()))
	}

	out := r.fn.Call(args)
	if r.hasError {
		if errv := out[len(out)-1]; !errv.IsNil() {
			panic(errv.Interface().(error))
		}
		out = out[:len(out)-1]
	}
	for i, rv := range out {
		stack[i] = encodeValueTypeFrom(r.resultTypes[i], rv)
	}
}

func decodeValueTypeAs(vt api.ValueType, raw uint64, kind reflect.Kind) reflect.Value {
	switch vt {
	case api.ValueTypeI32:
		if kind == reflect.Uint32 {
			return reflect.ValueOf(uint32(raw))
		}
		return reflect.ValueOf(int32(uint32(raw)))
	case api.ValueTypeI64:
		if kind == reflect.Uint64 {
			return reflect.ValueOf(raw)
		}
		return reflect.ValueOf(int64(raw))
	case api.ValueTypeF32:
		return reflect.ValueOf(api.DecodeF32(raw))
	case api.ValueTypeF64:
		return reflect.ValueOf(api.DecodeF64(raw))
	default:
		panic(fmt.Sprintf("unreachable value type 0x%x", vt))
	}
}

func encodeValueTypeFrom(vt api.ValueType, rv reflect.Value) uint64 {
	switch vt {
	case api.ValueTypeI32:
		if rv.Kind() == reflect.Uint32 {
			return api.EncodeI32(int32(uint32(rv.Uint())))
		}
		return api.EncodeI32(int32(rv.Int()))
	case api.ValueTypeI64:
		if rv.Kind() == reflect.Uint64 {
			return rv.Uint()
		}
		return api.EncodeI64(rv.Int())
	case api.ValueTypeF32:
		return api.EncodeF32(float32(rv.Float()))
	case api.ValueTypeF64:
		return api.EncodeF64(rv.Float())
	default:
		panic(fmt.Sprintf("unreachable value type 0x%x", vt))
	}
}
