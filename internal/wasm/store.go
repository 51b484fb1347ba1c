package wasm

import (
	"fmt"
	"sync"

	"github.com/corewasm/corewasm/api"
)

// namespace is the registry of named, instantiated modules a Store maintains
// so later instantiations can resolve imports against earlier ones. Ordered
// iteration (moduleNames) keeps "module X not found, known modules: ..."
// error messages deterministic across runs.
type namespace struct {
	mu          sync.RWMutex
	modules     map[string]*ModuleInstance
	moduleNames []string
}

func newNamespace() *namespace {
	return &namespace{modules: map[string]*ModuleInstance{}}
}

func (n *namespace) register(name string, inst *ModuleInstance) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.modules[name]; ok {
		return fmt.Errorf("module %q already registered", name)
	}
	n.modules[name] = inst
	n.moduleNames = append(n.moduleNames, name)
	return nil
}

func (n *namespace) unregister(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.modules, name)
	for i, nm := range n.moduleNames {
		if nm == name {
			n.moduleNames = append(n.moduleNames[:i], n.moduleNames[i+1:]...)
			break
		}
	}
}

func (n *namespace) lookup(name string) (*ModuleInstance, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if inst, ok := n.modules[name]; ok {
		return inst, nil
	}
	return nil, fmt.Errorf("module %q not found, known modules: %v", name, n.moduleNames)
}

// Store owns every instantiated module's shared namespace, so host modules
// and wasm-defined modules can import from one another by name exactly as
// spec.md §4.6 requires.
type Store struct {
	ns              *namespace
	EnabledFeatures api.CoreFeatures

	// Call invokes a decoded function body; set once by the embedder (the
	// root package) to the engine it constructed for this Store, so
	// internal/wasm never imports internal/engine/interpreter directly and
	// two Stores backed by two engines never share execution state.
	Call func(fn *FunctionInstance, params []uint64) ([]uint64, error)
}

// NewStore creates an empty Store with the given feature set enabled for
// every module it instantiates.
func NewStore(enabledFeatures api.CoreFeatures) *Store {
	return &Store{ns: newNamespace(), EnabledFeatures: enabledFeatures}
}

// FunctionInstance is a callable function, either interpreted from a decoded
// Code body or backed by a Go closure (for host modules).
type FunctionInstance struct {
	Type       *FunctionType
	Module     *ModuleInstance // the module that defines this function
	Code       *Code
	Name       string
	Idx        uint32
}

// TableInstance is an instantiated table: the live slice of element
// references (each a *FunctionInstance pointer, nil for null) plus the
// declared type.
type TableInstance struct {
	Type  TableType
	Elems []TableElement
}

// TableElement is one slot of a TableInstance: a reference to a function
// owned by some module instance, or a nil Function for null.
type TableElement struct {
	Function *FunctionInstance
}

// MemoryInstance is an instantiated linear memory: Go-backed, grown by
// reallocation, bounded by the module's declared (or config-capped) max.
type MemoryInstance struct {
	Type   MemoryType
	Buffer []byte
	Max    uint32 // effective cap in pages, after RuntimeConfig's WithMemoryMaxPages clamp
}

func NewMemoryInstance(mt MemoryType, capPages uint32) *MemoryInstance {
	max := capPages
	if mt.IsMaxEncoded && mt.Max < max {
		max = mt.Max
	}
	return &MemoryInstance{Type: mt, Buffer: make([]byte, uint64(mt.Min)*MemoryPageSize), Max: max}
}

func (m *MemoryInstance) PageSize() uint32 { return uint32(len(m.Buffer) / MemoryPageSize) }

// Grow implements memory.grow: on success the buffer is reallocated larger
// and zero-filled; on failure (exceeding Max) the buffer is untouched and
// ok is false, never a trap, per spec.md §4.6. The interpreter's memory.grow
// turns ok=false into the sentinel 0xffffffff.
func (m *MemoryInstance) Grow(deltaPages uint32) (previousPages uint32, ok bool) {
	cur := m.PageSize()
	if deltaPages == 0 {
		return cur, true
	}
	newPages := uint64(cur) + uint64(deltaPages)
	if newPages > uint64(m.Max) || newPages > MemoryLimitPages {
		return 0, false
	}
	buf := make([]byte, newPages*MemoryPageSize)
	copy(buf, m.Buffer)
	m.Buffer = buf
	return cur, true
}

// GlobalInstance is an instantiated global: its declared type and current
// value, carried as a raw uint64 bit pattern per the Value model in
// spec.md §4.4 (reinterpreted at the API boundary via api.DecodeF32 etc).
type GlobalInstance struct {
	Type  GlobalType
	Value uint64
}

// ModuleInstance is one instantiation of a Module: resolved imports,
// module-defined functions/tables/memories/globals, and the export map used
// to answer ExportedFunction/ExportedMemory/etc.
type ModuleInstance struct {
	Name    string
	Module  *Module
	Store   *Store
	closed  bool

	Functions []*FunctionInstance
	Tables    []*TableInstance
	Memories  []*MemoryInstance
	Globals   []*GlobalInstance

	// DataDropped and ElemDropped track which passive data/element segments
	// this instance has retired via data.drop/elem.drop. A dropped segment
	// behaves as length-0 for every later memory.init/table.init.
	DataDropped []bool
	ElemDropped []bool

	ExportedFunctions map[string]*FunctionInstance
	ExportedTables    map[string]*TableInstance
	ExportedMemories  map[string]*MemoryInstance
	ExportedGlobals   map[string]*GlobalInstance
}

// FailIfClosed reports an error if this instance was already closed, so a
// stale api.Module handle can't keep calling into freed state. Grounded on
// the same "check before every call" pattern production Wasm runtimes use
// to keep Close idempotent and safe from concurrent callers.
func (m *ModuleInstance) FailIfClosed() error {
	if m.closed {
		return fmt.Errorf("module %q is closed", m.Name)
	}
	return nil
}

// Close releases this instance's namespace registration, making its name
// available to a later Register/Instantiate call.
func (m *ModuleInstance) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	if m.Store != nil {
		m.Store.ns.unregister(m.Name)
	}
	return nil
}

// Register makes this instance's exports resolvable by name to subsequent
// imports, per spec.md §6.2's Register surface.
func (s *Store) Register(name string, inst *ModuleInstance) error {
	inst.Name = name
	inst.Store = s
	return s.ns.register(name, inst)
}

func (s *Store) lookupModule(name string) (*ModuleInstance, error) { return s.ns.lookup(name) }
