package wasm

import (
	"fmt"

	"github.com/corewasm/corewasm/api"
)

// Instantiate resolves m's imports against s's namespace, allocates its
// tables/memories/globals/functions, copies in element and data segments,
// and (if declared) invokes the start function, per spec.md §4.6's
// instantiation order: imports, then tables+memories, then globals (which
// may read an already-resolved imported global), then functions, then
// element/data segments, then start.
func (s *Store) Instantiate(m *Module, name string, capMemoryPages uint32) (*ModuleInstance, error) {
	inst := &ModuleInstance{Name: name, Module: m, Store: s}
	inst.DataDropped = make([]bool, len(m.DataSection))
	inst.ElemDropped = make([]bool, len(m.ElementSection))

	if err := resolveImports(s, m, inst); err != nil {
		return nil, err
	}

	for i := range m.TableSection {
		inst.Tables = append(inst.Tables, &TableInstance{
			Type:  m.TableSection[i],
			Elems: make([]TableElement, m.TableSection[i].Min),
		})
	}
	for i := range m.MemorySection {
		inst.Memories = append(inst.Memories, NewMemoryInstance(m.MemorySection[i], capMemoryPages))
	}

	for i := range m.GlobalSection {
		g := &m.GlobalSection[i]
		v, err := evalConstExpr(inst, g.Init)
		if err != nil {
			return nil, err
		}
		inst.Globals = append(inst.Globals, &GlobalInstance{Type: g.Type, Value: v})
	}

	for i := range m.CodeSection {
		funcIdx := m.ImportFuncCount() + uint32(i)
		fi := &FunctionInstance{
			Type:   m.TypeOfFunction(funcIdx),
			Module: inst,
			Code:   &m.CodeSection[i],
			Idx:    funcIdx,
		}
		if m.NameSection != nil {
			fi.Name = m.NameSection.FunctionNames[funcIdx]
		}
		inst.Functions = append(inst.Functions, fi)
	}

	if err := instantiateElements(inst, m); err != nil {
		return nil, err
	}
	if err := instantiateData(inst, m); err != nil {
		return nil, err
	}

	if err := bindExports(inst, m); err != nil {
		return nil, err
	}

	if m.StartSection != nil {
		start := inst.Functions[*m.StartSection]
		if _, err := inst.callInternal(start, nil); err != nil {
			return nil, fmt.Errorf("start function: %w", err)
		}
	}
	return inst, nil
}

// resolveImports walks m.Imports in declaration order, looks up each
// (module, name) pair against s's namespace, and prepends the resolved
// function/table/memory/global into inst's module-wide index space ahead of
// its own locally-defined entries, matching the Wasm index-space convention
// imports-first that TypeOfFunction and friends already assume.
func resolveImports(s *Store, m *Module, inst *ModuleInstance) error {
	for i := range m.Imports {
		imp := &m.Imports[i]
		src, err := s.lookupModule(imp.Module)
		if err != nil {
			return fmt.Errorf("resolving import %s.%s: %w", imp.Module, imp.Name, err)
		}
		switch imp.Type {
		case api.ExternTypeFunc:
			fi, ok := src.ExportedFunctions[imp.Name]
			if !ok {
				return fmt.Errorf("import %s.%s: function not exported", imp.Module, imp.Name)
			}
			if !fi.Type.EqualsSignature(m.Types[imp.DescFunc].Params, m.Types[imp.DescFunc].Results) {
				return fmt.Errorf("import %s.%s: signature mismatch", imp.Module, imp.Name)
			}
			inst.Functions = append(inst.Functions, fi)
		case api.ExternTypeTable:
			ti, ok := src.ExportedTables[imp.Name]
			if !ok {
				return fmt.Errorf("import %s.%s: table not exported", imp.Module, imp.Name)
			}
			inst.Tables = append(inst.Tables, ti)
		case api.ExternTypeMemory:
			mi, ok := src.ExportedMemories[imp.Name]
			if !ok {
				return fmt.Errorf("import %s.%s: memory not exported", imp.Module, imp.Name)
			}
			inst.Memories = append(inst.Memories, mi)
		case api.ExternTypeGlobal:
			gi, ok := src.ExportedGlobals[imp.Name]
			if !ok {
				return fmt.Errorf("import %s.%s: global not exported", imp.Module, imp.Name)
			}
			inst.Globals = append(inst.Globals, gi)
		}
	}
	return nil
}

// evalConstExpr computes a global/segment-offset initializer's value against
// an instance whose imported globals are already resolved (module-defined
// globals are not yet visible, matching the restriction that const
// expressions may only read imported globals).
func evalConstExpr(inst *ModuleInstance, ce ConstExpr) (uint64, error) {
	switch ce.Opcode {
	case OpcodeI32Const:
		return uint64(uint32(ce.ImmI32)), nil
	case OpcodeI64Const:
		return uint64(ce.ImmI64), nil
	case OpcodeF32Const:
		return uint64(ce.ImmF32), nil
	case OpcodeF64Const:
		return ce.ImmF64, nil
	case OpcodeGlobalGet:
		if int(ce.GlobalIndex) >= len(inst.Globals) {
			return 0, fmt.Errorf("const expr: global index %d out of range", ce.GlobalIndex)
		}
		return inst.Globals[ce.GlobalIndex].Value, nil
	case OpcodeRefNull:
		return 0, nil
	case OpcodeRefFunc:
		return uint64(ce.GlobalIndex), nil
	default:
		return 0, fmt.Errorf("const expr: unsupported opcode 0x%x", uint32(ce.Opcode))
	}
}

func instantiateElements(inst *ModuleInstance, m *Module) error {
	for i := range m.ElementSection {
		seg := &m.ElementSection[i]
		if seg.IsPassive || seg.IsDeclarative {
			continue
		}
		offsetVal, err := evalConstExpr(inst, seg.OffsetExpr)
		if err != nil {
			return err
		}
		offset := uint32(offsetVal)
		table := inst.Tables[seg.TableIndex]
		if int(offset)+len(seg.Init) > len(table.Elems) {
			return fmt.Errorf("element segment %d: out of bounds table access", i)
		}
		for j, funcIdx := range seg.Init {
			if funcIdx == ^uint32(0) {
				continue
			}
			table.Elems[offset+uint32(j)] = TableElement{Function: inst.Functions[funcIdx]}
		}
	}
	return nil
}

func instantiateData(inst *ModuleInstance, m *Module) error {
	for i := range m.DataSection {
		seg := &m.DataSection[i]
		if seg.IsPassive {
			continue
		}
		offsetVal, err := evalConstExpr(inst, seg.OffsetExpr)
		if err != nil {
			return err
		}
		offset := uint32(offsetVal)
		mem := inst.Memories[seg.MemoryIndex]
		if int(offset)+len(seg.Init) > len(mem.Buffer) {
			return fmt.Errorf("data segment %d: out of bounds memory access", i)
		}
		copy(mem.Buffer[offset:], seg.Init)
	}
	return nil
}

func bindExports(inst *ModuleInstance, m *Module) error {
	inst.ExportedFunctions = map[string]*FunctionInstance{}
	inst.ExportedTables = map[string]*TableInstance{}
	inst.ExportedMemories = map[string]*MemoryInstance{}
	inst.ExportedGlobals = map[string]*GlobalInstance{}
	for i := range m.ExportSection {
		e := &m.ExportSection[i]
		switch e.Type {
		case api.ExternTypeFunc:
			inst.ExportedFunctions[e.Name] = inst.Functions[e.Index]
		case api.ExternTypeTable:
			inst.ExportedTables[e.Name] = inst.Tables[e.Index]
		case api.ExternTypeMemory:
			inst.ExportedMemories[e.Name] = inst.Memories[e.Index]
		case api.ExternTypeGlobal:
			inst.ExportedGlobals[e.Name] = inst.Globals[e.Index]
		}
	}
	return nil
}

// callInternal invokes fn through this instance's Store.Call hook;
// ModuleInstance itself has no execution logic, only instantiation
// bookkeeping, keeping internal/wasm free of a dependency on
// internal/engine/interpreter.
func (inst *ModuleInstance) callInternal(fn *FunctionInstance, params []uint64) ([]uint64, error) {
	if inst.Store == nil || inst.Store.Call == nil {
		return nil, fmt.Errorf("no engine registered to invoke function calls")
	}
	return inst.Store.Call(fn, params)
}
