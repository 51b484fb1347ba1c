package wasm

import "github.com/corewasm/corewasm/api"

// MemoryPageSize is the number of bytes in one unit of memory.Min/Max, per
// https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#page-size
const MemoryPageSize = 65536

// MemoryLimitPages is the maximum number of pages a memory can ever reach:
// Wasm 1.0 caps linear memory at 4GiB addressable via i32, which is
// 65536 pages.
const MemoryLimitPages = 65536

// MemoryType describes the Min/Max page counts declared (or imported) for a
// memory; instantiation turns this into a concrete Memory with a backing
// byte slice sized Min*MemoryPageSize.
type MemoryType struct {
	Min uint32
	Max uint32
	// IsMaxEncoded records whether Max came from the binary (true) or was
	// absent (false, Max left 0), since the encoding has to round-trip the
	// absence of an explicit maximum. Runtime.CompileModule later fills an
	// absent Max with the configured page cap and sets this to true.
	IsMaxEncoded bool
}

// Validate checks Min <= Max <= limitPages.
func (m *MemoryType) Validate(limitPages uint32) error {
	if m.Min > limitPages {
		return NewInvalidModuleError("memory min %d pages exceeds limit %d", m.Min, limitPages)
	}
	if m.IsMaxEncoded {
		if m.Max < m.Min {
			return NewInvalidModuleError("memory max %d pages is less than min %d", m.Max, m.Min)
		}
		if m.Max > limitPages {
			return NewInvalidModuleError("memory max %d pages exceeds limit %d", m.Max, limitPages)
		}
	}
	return nil
}

// Cap returns the effective maximum page count, defaulting to limitPages
// when no explicit maximum was declared.
func (m *MemoryType) Cap(limitPages uint32) uint32 {
	if m.IsMaxEncoded {
		return m.Max
	}
	return limitPages
}

// TableType describes a table's element type and size limits.
type TableType struct {
	ElemType api.ValueType // ValueTypeFuncref or ValueTypeExternref
	Min      uint32
	Max      uint32
	IsMaxEncoded bool
}

// AddressType reports whether this table is indexed with i64 (64-bit
// address space) or i32 (32-bit, the only kind Wasm 1.0/2.0 define). This
// field exists so call_indirect's index operand type can be resolved per
// the table it targets.
func (t *TableType) AddressType() api.ValueType {
	return api.ValueTypeI32
}

// GlobalType describes a global's value type and mutability.
type GlobalType struct {
	ValType api.ValueType
	Mutable bool
}
