package wasm

import "github.com/corewasm/corewasm/api"

// ValueType aliases api.ValueType so the internal package and the public
// surface agree on the same byte encoding without an import cycle.
type ValueType = api.ValueType

const (
	ValueTypeI32     = api.ValueTypeI32
	ValueTypeI64     = api.ValueTypeI64
	ValueTypeF32     = api.ValueTypeF32
	ValueTypeF64     = api.ValueTypeF64
	ValueTypeV128    = api.ValueTypeV128
	ValueTypeFuncref = api.ValueTypeFuncref
	ValueTypeExternref = api.ValueTypeExternref
)

// FunctionType is a function signature: zero or more parameter types
// mapping to zero or more result types. Equality is by value: two
// FunctionTypes with identical Params/Results are the same type, matching
// the Wasm spec's structural (not nominal) typing of funcs.
type FunctionType struct {
	Params  []ValueType
	Results []ValueType

	// cachedKey is a cached, comparable key of the form "i32i64_i32", lazily
	// computed by Key and reused by NewHostModule's function-type
	// interning.
	cachedKey string
}

// Key returns a string uniquely identifying this signature, suitable for use
// as a map key when interning identical function types.
func (t *FunctionType) Key() string {
	if t.cachedKey != "" {
		return t.cachedKey
	}
	b := make([]byte, 0, len(t.Params)+len(t.Results)+1)
	for _, p := range t.Params {
		b = append(b, byte(p))
	}
	b = append(b, '_')
	for _, r := range t.Results {
		b = append(b, byte(r))
	}
	t.cachedKey = string(b)
	return t.cachedKey
}

// EqualsSignature reports whether t has the same params/results as other.
func (t *FunctionType) EqualsSignature(params, results []ValueType) bool {
	return t.Key() == (&FunctionType{Params: params, Results: results}).Key()
}
