package wasm

import "github.com/corewasm/corewasm/api"

// Memory is an alias of MemoryType. builder.go builds a host module's
// memory declaration as a MemoryType.
type Memory = MemoryType

// Import declares a single imported func/table/memory/global, identified by
// its (Module, Name) pair and resolved against the Store's namespace
// registry at instantiation time, in declaration order.
type Import struct {
	Type       api.ExternType
	Module     string
	Name       string
	DescFunc   uint32 // index into the owning module's Types, when Type == ExternTypeFunc
	DescTable  *TableType
	DescMem    *MemoryType
	DescGlobal *GlobalType
}

// Export makes a func/table/memory/global defined or imported by this
// module visible under Name to whoever instantiates against it.
type Export struct {
	Type  api.ExternType
	Name  string
	Index uint32
}

// GlobalInit is a module-defined global: its type plus the constant
// expression used to initialize it (either a numeric/ref literal or a read
// of an imported global, the only two forms Wasm constant expressions
// allow).
type GlobalInit struct {
	Type GlobalType
	Init ConstExpr
}

// ConstExpr is a restricted expression valid only in global initializers
// and element/data segment offsets: a single const/ref instruction or a
// global.get of an imported global.
type ConstExpr struct {
	Opcode   Opcode
	ImmI32   int32
	ImmI64   int64
	ImmF32   uint32
	ImmF64   uint64
	// GlobalIndex carries global.get's operand index, or ref.func's function
	// index — the two opcodes that need a single index immediate.
	GlobalIndex uint32
	// RefType carries ref.null's declared reference type, so the validator
	// can reject e.g. a funcref global initialized from (ref.null extern).
	RefType api.ValueType
}

// Code is a decoded, validated function body: its locals (beyond the
// parameters already implied by the owning Type) and the linearized
// instruction stream.
type Code struct {
	NumLocals    uint32
	LocalTypes   []api.ValueType
	Instructions []Instruction
	// BodySize is the function body's declared byte length (locals plus
	// code), stored by the decoder after it has checked that the body
	// consumed exactly that many bytes.
	BodySize uint64

	// GoFunc is set instead of Instructions for a host-defined function.
	GoFunc interface{}
}

// HostFunc describes a single function contributed by a host module,
// carrying enough metadata (names, signature) to synthesize a
// FunctionDefinition without re-deriving it via reflection at call time.
type HostFunc struct {
	ExportName  string
	Name        string
	ParamTypes  []api.ValueType
	ParamNames  []string
	ResultTypes []api.ValueType
	ResultNames []string
	Code        Code
}

// DataSegment initializes a byte range of a memory at instantiation.
type DataSegment struct {
	MemoryIndex uint32
	OffsetExpr  ConstExpr
	Init        []byte
	// Passive segments (introduced by bulk-memory) have no OffsetExpr and
	// are only copied in by memory.init; IsPassive distinguishes them from
	// an active segment with an offset of zero.
	IsPassive bool
}

// ElementSegment initializes a range of a table with function (or null)
// references at instantiation, or stays passive for table.init.
type ElementSegment struct {
	TableIndex uint32
	OffsetExpr ConstExpr
	Type       api.ValueType
	Init       []uint32 // function indices, or ^uint32(0) for ref.null
	IsPassive  bool
	// IsDeclarative segments are never instantiated into a table; they
	// only make a function index a legal ref.func target (a Wasm 2.0
	// oddity carried so validation of ref.func against declared elements
	// matches the spec).
	IsDeclarative bool
}

// NameSection holds the optional human-readable debug names decoded from a
// custom section literally named "name". Never consulted by validation,
// only by trap message formatting.
type NameSection struct {
	ModuleName    string
	FunctionNames map[uint32]string
	LocalNames    map[uint32]map[uint32]string
}

// Module is the fully decoded (and, once Validate succeeds, fully
// validated) representation of one Wasm binary: every section's contents,
// normalized into Go slices indexed exactly as the spec indexes them
// (imports first, then module-defined, for each of func/table/mem/global).
type Module struct {
	Types   []FunctionType
	Imports []Import

	// FunctionSection gives each module-defined function's type index, in
	// order; CodeSection gives the matching bodies, same length and order.
	FunctionSection []uint32
	CodeSection     []Code

	TableSection  []TableType
	MemorySection []MemoryType
	GlobalSection []GlobalInit

	ExportSection []Export
	StartSection  *uint32

	ElementSection []ElementSegment
	DataSection    []DataSegment
	// DataCountSection, if present, must equal len(DataSection); its
	// presence also makes memory.init/data.drop valid even when
	// DataSection is empty.
	DataCountSection *uint32

	NameSection *NameSection

	// importCounts are memoized by SetImportCounts for fast "is this index
	// an import" checks used throughout validation and instantiation.
	importFuncCount   uint32
	importTableCount  uint32
	importMemoryCount uint32
	importGlobalCount uint32
}

// NewHostModule synthesizes a Module wrapping host-defined functions and an
// optional host memory, in the shape Validate/instantiation already know
// how to consume, so a HostModuleBuilder never needs its own instantiation
// path.
func NewHostModule(moduleName string, exportNames []string, nameToHostFunc map[string]*HostFunc, nameToMemory map[string]*MemoryType, enabledFeatures api.CoreFeatures) (*Module, error) {
	m := &Module{}
	typeKeys := map[string]uint32{}

	internType := func(ft FunctionType) uint32 {
		key := ft.Key()
		if idx, ok := typeKeys[key]; ok {
			return idx
		}
		idx := uint32(len(m.Types))
		m.Types = append(m.Types, ft)
		typeKeys[key] = idx
		return idx
	}

	for _, name := range exportNames {
		if hf, ok := nameToHostFunc[name]; ok {
			typeIdx := internType(FunctionType{Params: hf.ParamTypes, Results: hf.ResultTypes})
			funcIdx := uint32(len(m.FunctionSection))
			m.FunctionSection = append(m.FunctionSection, typeIdx)
			m.CodeSection = append(m.CodeSection, hf.Code)
			m.ExportSection = append(m.ExportSection, Export{Type: api.ExternTypeFunc, Name: hf.ExportName, Index: funcIdx})
			continue
		}
		if mem, ok := nameToMemory[name]; ok {
			memIdx := uint32(len(m.MemorySection))
			m.MemorySection = append(m.MemorySection, *mem)
			m.ExportSection = append(m.ExportSection, Export{Type: api.ExternTypeMemory, Name: name, Index: memIdx})
			continue
		}
		return nil, NewInvalidModuleError("host module %q: export %q matches neither a function nor a memory", moduleName, name)
	}
	return m, nil
}

// SetImportCounts tallies m.Imports by extern type and memoizes the result,
// so ImportFuncCount and friends are O(1) afterward. Called once by the
// decoder after every section has been read, before DecodeModule returns.
func SetImportCounts(m *Module) {
	var funcs, tables, mems, globals uint32
	for i := range m.Imports {
		switch m.Imports[i].Type {
		case api.ExternTypeFunc:
			funcs++
		case api.ExternTypeTable:
			tables++
		case api.ExternTypeMemory:
			mems++
		case api.ExternTypeGlobal:
			globals++
		}
	}
	m.importFuncCount = funcs
	m.importTableCount = tables
	m.importMemoryCount = mems
	m.importGlobalCount = globals
}

// ImportFuncCount returns how many of this module's functions are imported
// (as opposed to defined by FunctionSection/CodeSection).
func (m *Module) ImportFuncCount() uint32 { return m.importFuncCount }

// ImportTableCount returns how many of this module's tables are imported.
func (m *Module) ImportTableCount() uint32 { return m.importTableCount }

// ImportMemoryCount returns how many of this module's memories are imported.
func (m *Module) ImportMemoryCount() uint32 { return m.importMemoryCount }

// ImportGlobalCount returns how many of this module's globals are imported.
func (m *Module) ImportGlobalCount() uint32 { return m.importGlobalCount }

// BuildMemoryDefinitions computes the combined import+defined memory list,
// used by the root package to answer Module.Memory()/ExportedMemory()
// without re-walking sections on every call.
func (m *Module) BuildMemoryDefinitions() []*MemoryType {
	defs := make([]*MemoryType, 0, int(m.importMemoryCount)+len(m.MemorySection))
	for i := range m.Imports {
		if m.Imports[i].Type == api.ExternTypeMemory {
			defs = append(defs, m.Imports[i].DescMem)
		}
	}
	for i := range m.MemorySection {
		defs = append(defs, &m.MemorySection[i])
	}
	return defs
}

// TypeOfFunction resolves a module-wide function index (imports first, then
// module-defined) to its FunctionType.
func (m *Module) TypeOfFunction(funcIdx uint32) *FunctionType {
	if funcIdx < m.importFuncCount {
		var seen uint32
		for i := range m.Imports {
			if m.Imports[i].Type != api.ExternTypeFunc {
				continue
			}
			if seen == funcIdx {
				return &m.Types[m.Imports[i].DescFunc]
			}
			seen++
		}
		return nil
	}
	localIdx := funcIdx - m.importFuncCount
	if int(localIdx) >= len(m.FunctionSection) {
		return nil
	}
	return &m.Types[m.FunctionSection[localIdx]]
}
