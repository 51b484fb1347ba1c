package wasm

import "github.com/corewasm/corewasm/api"

// OperandStackCeiling bounds the validator's tracked type-stack height per
// function. Exceeding it is an InvalidModule failure, independent of the
// interpreter's own call-depth ceiling which guards runtime recursion
// instead of a single function's static operand stack.
const OperandStackCeiling = 8192

// valueTypeUnknown is the validator's polymorphic stack entry, used below a
// control frame's entry height once that frame is marked unreachable. It
// compares equal to every concrete type and is never mistaken for one since
// no real ValueType encoding uses 0xFF.
const valueTypeUnknown api.ValueType = 0xFF

// ValidateModule performs the single structural pass described by the
// validator: every section is checked for well-typedness and in-range
// indices, every function body is type-checked instruction by instruction,
// and every branch argument is rewritten in place from a raw relative depth
// into a resolved *Label. A non-nil error is always an *InvalidModuleError.
func ValidateModule(m *Module) error {
	if err := validateImports(m); err != nil {
		return err
	}
	if err := validateTables(m); err != nil {
		return err
	}
	if err := validateMemories(m); err != nil {
		return err
	}
	if err := validateGlobals(m); err != nil {
		return err
	}

	declared := declaredFuncIndices(m)
	for i := range m.CodeSection {
		funcIdx := m.ImportFuncCount() + uint32(i)
		if err := validateFunctionBody(m, funcIdx, &m.CodeSection[i], declared); err != nil {
			return err
		}
	}

	if err := validateElementSection(m); err != nil {
		return err
	}
	if err := validateDataSection(m); err != nil {
		return err
	}
	if err := validateExports(m); err != nil {
		return err
	}
	if err := validateStart(m); err != nil {
		return err
	}
	return nil
}

func funcCount(m *Module) uint32   { return m.ImportFuncCount() + uint32(len(m.FunctionSection)) }
func tableCount(m *Module) uint32  { return m.ImportTableCount() + uint32(len(m.TableSection)) }
func memoryCount(m *Module) uint32 { return m.ImportMemoryCount() + uint32(len(m.MemorySection)) }
func globalCount(m *Module) uint32 { return m.ImportGlobalCount() + uint32(len(m.GlobalSection)) }

func tableTypeAt(m *Module, idx uint32) *TableType {
	if idx < m.ImportTableCount() {
		var seen uint32
		for i := range m.Imports {
			if m.Imports[i].Type != api.ExternTypeTable {
				continue
			}
			if seen == idx {
				return m.Imports[i].DescTable
			}
			seen++
		}
		return nil
	}
	local := idx - m.ImportTableCount()
	if int(local) >= len(m.TableSection) {
		return nil
	}
	return &m.TableSection[local]
}

func memoryTypeAt(m *Module, idx uint32) *MemoryType {
	if idx < m.ImportMemoryCount() {
		var seen uint32
		for i := range m.Imports {
			if m.Imports[i].Type != api.ExternTypeMemory {
				continue
			}
			if seen == idx {
				return m.Imports[i].DescMem
			}
			seen++
		}
		return nil
	}
	local := idx - m.ImportMemoryCount()
	if int(local) >= len(m.MemorySection) {
		return nil
	}
	return &m.MemorySection[local]
}

func globalTypeAt(m *Module, idx uint32) *GlobalType {
	if idx < m.ImportGlobalCount() {
		var seen uint32
		for i := range m.Imports {
			if m.Imports[i].Type != api.ExternTypeGlobal {
				continue
			}
			if seen == idx {
				return m.Imports[i].DescGlobal
			}
			seen++
		}
		return nil
	}
	local := idx - m.ImportGlobalCount()
	if int(local) >= len(m.GlobalSection) {
		return nil
	}
	return &m.GlobalSection[local].Type
}

func validateImports(m *Module) error {
	for i := range m.Imports {
		imp := &m.Imports[i]
		switch imp.Type {
		case api.ExternTypeFunc:
			if imp.DescFunc >= uint32(len(m.Types)) {
				return NewInvalidModuleError("import %d (%s.%s): type index %d out of range", i, imp.Module, imp.Name, imp.DescFunc)
			}
		case api.ExternTypeTable:
			if imp.DescTable.IsMaxEncoded && imp.DescTable.Max < imp.DescTable.Min {
				return NewInvalidModuleError("import %d (%s.%s): table max less than min", i, imp.Module, imp.Name)
			}
		case api.ExternTypeMemory:
			if err := imp.DescMem.Validate(MemoryLimitPages); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateTables(m *Module) error {
	if tableCount(m) == 0 {
		return nil
	}
	for i := range m.TableSection {
		tt := &m.TableSection[i]
		if tt.IsMaxEncoded && tt.Max < tt.Min {
			return NewInvalidModuleError("table %d: max %d less than min %d", i, tt.Max, tt.Min)
		}
	}
	return nil
}

func validateMemories(m *Module) error {
	if memoryCount(m) > 1 {
		return NewInvalidModuleError("at most one memory is allowed, found %d", memoryCount(m))
	}
	for i := range m.MemorySection {
		if err := m.MemorySection[i].Validate(MemoryLimitPages); err != nil {
			return err
		}
	}
	return nil
}

func validateGlobals(m *Module) error {
	for i := range m.GlobalSection {
		g := &m.GlobalSection[i]
		if err := validateConstExpr(m, g.Init, g.Type.ValType); err != nil {
			return NewInvalidModuleError("global %d: %v", i, err)
		}
	}
	return nil
}

// validateConstExpr checks one of the restricted constant-expression forms
// legal in global initializers and segment offsets: a literal of the
// expected type, ref.null/ref.func, or global.get of an already-defined,
// immutable imported global.
func validateConstExpr(m *Module, ce ConstExpr, expected api.ValueType) error {
	var actual api.ValueType
	switch ce.Opcode {
	case OpcodeI32Const:
		actual = ValueTypeI32
	case OpcodeI64Const:
		actual = ValueTypeI64
	case OpcodeF32Const:
		actual = ValueTypeF32
	case OpcodeF64Const:
		actual = ValueTypeF64
	case OpcodeGlobalGet:
		idx := ce.GlobalIndex
		if idx >= m.ImportGlobalCount() {
			return NewInvalidModuleError("global.get %d: constant expressions may only reference imported globals", idx)
		}
		gt := globalTypeAt(m, idx)
		if gt.Mutable {
			return NewInvalidModuleError("global.get %d: constant expressions may not reference a mutable global", idx)
		}
		actual = gt.ValType
	case OpcodeRefNull:
		actual = ce.RefType
	case OpcodeRefFunc:
		idx := ce.GlobalIndex
		if idx >= funcCount(m) {
			return NewInvalidModuleError("ref.func %d: function index out of range", idx)
		}
		actual = ValueTypeFuncref
	default:
		return NewInvalidModuleError("opcode 0x%x is not a valid constant expression", uint32(ce.Opcode))
	}
	if actual != expected {
		return NewInvalidModuleError("constant expression type mismatch: expected 0x%x, got 0x%x", expected, actual)
	}
	return nil
}

// declaredFuncIndices collects every function index the module makes
// reachable other than by a plain `call`: element segment entries, exports,
// and the start function. ref.func may only target one of these, preventing
// a function from escaping as a first-class reference without being
// otherwise declared reachable.
func declaredFuncIndices(m *Module) map[uint32]bool {
	out := map[uint32]bool{}
	for i := range m.ElementSection {
		for _, idx := range m.ElementSection[i].Init {
			if idx == ^uint32(0) {
				continue // ref.null entry, not a function index
			}
			out[idx] = true
		}
	}
	for i := range m.ExportSection {
		if m.ExportSection[i].Type == api.ExternTypeFunc {
			out[m.ExportSection[i].Index] = true
		}
	}
	if m.StartSection != nil {
		out[*m.StartSection] = true
	}
	return out
}

func validateElementSection(m *Module) error {
	for i := range m.ElementSection {
		seg := &m.ElementSection[i]
		if !seg.IsPassive && !seg.IsDeclarative {
			tt := tableTypeAt(m, seg.TableIndex)
			if tt == nil {
				return NewInvalidModuleError("element %d: table index %d out of range", i, seg.TableIndex)
			}
			if tt.ElemType != seg.Type {
				return NewInvalidModuleError("element %d: segment type does not match table %d element type", i, seg.TableIndex)
			}
			if err := validateConstExpr(m, seg.OffsetExpr, tt.AddressType()); err != nil {
				return NewInvalidModuleError("element %d: offset expression: %v", i, err)
			}
		}
		for _, idx := range seg.Init {
			if idx == ^uint32(0) {
				continue
			}
			if idx >= funcCount(m) {
				return NewInvalidModuleError("element %d: function index %d out of range", i, idx)
			}
		}
	}
	return nil
}

func validateDataSection(m *Module) error {
	for i := range m.DataSection {
		seg := &m.DataSection[i]
		if seg.IsPassive {
			continue
		}
		mt := memoryTypeAt(m, seg.MemoryIndex)
		if mt == nil {
			return NewInvalidModuleError("data %d: memory index %d out of range", i, seg.MemoryIndex)
		}
		if err := validateConstExpr(m, seg.OffsetExpr, ValueTypeI32); err != nil {
			return NewInvalidModuleError("data %d: offset expression: %v", i, err)
		}
	}
	return nil
}

func validateExports(m *Module) error {
	seen := make(map[string]bool, len(m.ExportSection))
	for i := range m.ExportSection {
		e := &m.ExportSection[i]
		if seen[e.Name] {
			return NewInvalidModuleError("export %q: duplicate name", e.Name)
		}
		seen[e.Name] = true
		switch e.Type {
		case api.ExternTypeFunc:
			if e.Index >= funcCount(m) {
				return NewInvalidModuleError("export %q: function index %d out of range", e.Name, e.Index)
			}
		case api.ExternTypeTable:
			if e.Index >= tableCount(m) {
				return NewInvalidModuleError("export %q: table index %d out of range", e.Name, e.Index)
			}
		case api.ExternTypeMemory:
			if e.Index >= memoryCount(m) {
				return NewInvalidModuleError("export %q: memory index %d out of range", e.Name, e.Index)
			}
		case api.ExternTypeGlobal:
			if e.Index >= globalCount(m) {
				return NewInvalidModuleError("export %q: global index %d out of range", e.Name, e.Index)
			}
		default:
			return NewInvalidModuleError("export %q: unknown kind 0x%x", e.Name, e.Type)
		}
	}
	return nil
}

func validateStart(m *Module) error {
	if m.StartSection == nil {
		return nil
	}
	idx := *m.StartSection
	if idx >= funcCount(m) {
		return NewInvalidModuleError("start function index %d out of range", idx)
	}
	ft := m.TypeOfFunction(idx)
	if len(ft.Params) != 0 || len(ft.Results) != 0 {
		return NewInvalidModuleError("start function %d must have type () -> ()", idx)
	}
	return nil
}

// frameKind distinguishes the five control-frame shapes the validator's
// canonical push_ctrl/pop_ctrl algorithm needs to tell apart, matching the
// kinds spec.md §4.3 enumerates.
type frameKind int

const (
	frameKindFunc frameKind = iota
	frameKindBlock
	frameKindLoop
	frameKindIf
	frameKindElse
)

// ctrlFrame is one entry of the validator's control-frame stack: the
// operand types a structured instruction's body starts and ends with, the
// operand-stack height when it was entered, and the (possibly still
// unresolved) Label its own branches and any nested branches targeting it
// will use.
type ctrlFrame struct {
	kind                   frameKind
	startTypes, endTypes   []api.ValueType
	height                 int
	unreachable            bool
	label                  *Label
	beginPC                int // index of the Block/Loop/If/Else instruction that opened this frame
}

// funcValidator carries one function body's type-stack-machine state across
// its single linear pass, mutating instrs in place as branch arguments
// resolve.
type funcValidator struct {
	m       *Module
	locals  []api.ValueType
	instrs  []Instruction
	stack   []api.ValueType
	frames  []ctrlFrame
}

func (v *funcValidator) push(t api.ValueType) error {
	if len(v.stack) >= OperandStackCeiling {
		return NewInvalidModuleError("operand stack exceeds limit of %d", OperandStackCeiling)
	}
	v.stack = append(v.stack, t)
	return nil
}

func (v *funcValidator) pop() (api.ValueType, error) {
	top := &v.frames[len(v.frames)-1]
	if len(v.stack) == top.height {
		if top.unreachable {
			return valueTypeUnknown, nil
		}
		return 0, NewInvalidModuleError("operand stack underflow")
	}
	t := v.stack[len(v.stack)-1]
	v.stack = v.stack[:len(v.stack)-1]
	return t, nil
}

func (v *funcValidator) popExpect(want api.ValueType) error {
	got, err := v.pop()
	if err != nil {
		return err
	}
	if got != valueTypeUnknown && want != valueTypeUnknown && got != want {
		return NewInvalidModuleError("type mismatch: expected 0x%x, got 0x%x", want, got)
	}
	return nil
}

func (v *funcValidator) popOperands(types []api.ValueType) error {
	for i := len(types) - 1; i >= 0; i-- {
		if err := v.popExpect(types[i]); err != nil {
			return err
		}
	}
	return nil
}

func (v *funcValidator) pushOperands(types []api.ValueType) error {
	for _, t := range types {
		if err := v.push(t); err != nil {
			return err
		}
	}
	return nil
}

func (v *funcValidator) pushCtrl(kind frameKind, in, out []api.ValueType, label *Label, beginPC int) error {
	v.frames = append(v.frames, ctrlFrame{kind: kind, startTypes: in, endTypes: out, height: len(v.stack), label: label, beginPC: beginPC})
	return v.pushOperands(in)
}

func (v *funcValidator) popCtrl() (ctrlFrame, error) {
	top := v.frames[len(v.frames)-1]
	if err := v.popOperands(top.endTypes); err != nil {
		return ctrlFrame{}, err
	}
	if len(v.stack) != top.height {
		return ctrlFrame{}, NewInvalidModuleError("stack height mismatch at block end: want %d, have %d", top.height, len(v.stack))
	}
	v.frames = v.frames[:len(v.frames)-1]
	return top, nil
}

func (v *funcValidator) markUnreachable() {
	top := &v.frames[len(v.frames)-1]
	v.stack = v.stack[:top.height]
	top.unreachable = true
}

func labelTypes(f ctrlFrame) []api.ValueType {
	if f.kind == frameKindLoop {
		return f.startTypes
	}
	return f.endTypes
}

func unify(a, b api.ValueType) (api.ValueType, error) {
	if a == valueTypeUnknown {
		return b, nil
	}
	if b == valueTypeUnknown {
		return a, nil
	}
	if a != b {
		return 0, NewInvalidModuleError("type mismatch: 0x%x vs 0x%x", a, b)
	}
	return a, nil
}

func typesEqual(a, b []api.ValueType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func validateFunctionBody(m *Module, funcIdx uint32, code *Code, declared map[uint32]bool) error {
	ft := m.TypeOfFunction(funcIdx)
	if ft == nil {
		return NewInvalidModuleError("function %d: type not found", funcIdx)
	}
	if len(code.Instructions) == 0 {
		return NewInvalidModuleError("function %d: empty body", funcIdx)
	}

	locals := make([]api.ValueType, 0, len(ft.Params)+len(code.LocalTypes))
	locals = append(locals, ft.Params...)
	locals = append(locals, code.LocalTypes...)

	v := &funcValidator{m: m, locals: locals, instrs: code.Instructions}
	fnLabel := &Label{Position: len(v.instrs), Arity: len(ft.Results), StackHeight: 0}
	v.frames = append(v.frames, ctrlFrame{kind: frameKindFunc, startTypes: ft.Params, endTypes: ft.Results, height: 0, label: fnLabel, beginPC: -1})

	for pc := 0; pc < len(v.instrs); pc++ {
		if err := v.step(pc, declared); err != nil {
			return NewInvalidModuleError("function %d, instruction %d (opcode 0x%x): %v", funcIdx, pc, uint32(v.instrs[pc].Opcode), err)
		}
	}
	if len(v.frames) != 0 {
		return NewInvalidModuleError("function %d: unterminated control structure", funcIdx)
	}
	return nil
}

// step type-checks the instruction at pc, mutating v.instrs[pc] (and, for
// control instructions, earlier instructions it closes) with resolved
// Label/ImmElsePC values as it goes.
func (v *funcValidator) step(pc int, declared map[uint32]bool) error {
	inst := &v.instrs[pc]
	switch inst.Opcode {
	case OpcodeUnreachable:
		v.markUnreachable()
		return nil
	case OpcodeNop:
		return nil

	case OpcodeBlock, OpcodeLoop, OpcodeIf:
		bt := inst.ImmBlockType
		if inst.Opcode == OpcodeIf {
			if err := v.popExpect(ValueTypeI32); err != nil {
				return err
			}
		}
		if err := v.popOperands(bt.Params); err != nil {
			return err
		}
		height := len(v.stack)
		label := &Label{StackHeight: height, Arity: len(bt.Results)}
		kind := frameKindBlock
		if inst.Opcode == OpcodeLoop {
			kind = frameKindLoop
			label.Position = pc
			label.Arity = len(bt.Params)
			label.IsLoopHeader = true
		} else if inst.Opcode == OpcodeIf {
			kind = frameKindIf
		}
		if err := v.pushCtrl(kind, bt.Params, bt.Results, label, pc); err != nil {
			return err
		}
		inst.ImmLabel = label
		return nil

	case OpcodeElse:
		frame, err := v.popCtrl()
		if err != nil {
			return err
		}
		if frame.kind != frameKindIf {
			return NewInvalidModuleError("else without matching if")
		}
		v.instrs[frame.beginPC].ImmElsePC = pc + 1
		return v.pushCtrl(frameKindElse, frame.startTypes, frame.endTypes, frame.label, pc)

	case OpcodeEnd:
		frame, err := v.popCtrl()
		if err != nil {
			return err
		}
		switch frame.kind {
		case frameKindIf:
			if !typesEqual(frame.startTypes, frame.endTypes) {
				return NewInvalidModuleError("if without else must have equal param and result types")
			}
			frame.label.Position = pc + 1
		case frameKindElse:
			v.instrs[frame.beginPC].ImmElsePC = pc + 1
			frame.label.Position = pc + 1
		case frameKindBlock:
			frame.label.Position = pc + 1
		case frameKindLoop, frameKindFunc:
			// loop's label.Position was fixed at push time; the function
			// frame's label.Position was fixed to len(instrs) up front.
		}
		return v.pushOperands(frame.endTypes)

	case OpcodeBr:
		k := inst.ImmIndex
		if int(k) >= len(v.frames) {
			return NewInvalidModuleError("br: depth %d out of range", k)
		}
		target := v.frames[len(v.frames)-1-int(k)]
		if err := v.popOperands(labelTypes(target)); err != nil {
			return err
		}
		v.markUnreachable()
		inst.ImmLabel = target.label
		return nil

	case OpcodeBrIf:
		k := inst.ImmIndex
		if int(k) >= len(v.frames) {
			return NewInvalidModuleError("br_if: depth %d out of range", k)
		}
		target := v.frames[len(v.frames)-1-int(k)]
		if err := v.popExpect(ValueTypeI32); err != nil {
			return err
		}
		types := labelTypes(target)
		if err := v.popOperands(types); err != nil {
			return err
		}
		if err := v.pushOperands(types); err != nil {
			return err
		}
		inst.ImmLabel = target.label
		return nil

	case OpcodeBrTable:
		def := inst.ImmIndex
		if int(def) >= len(v.frames) {
			return NewInvalidModuleError("br_table: default depth %d out of range", def)
		}
		defFrame := v.frames[len(v.frames)-1-int(def)]
		defTypes := labelTypes(defFrame)
		resolved := make([]*Label, len(inst.ImmBrTableTargets)+1)
		for i, k := range inst.ImmBrTableTargets {
			if int(k) >= len(v.frames) {
				return NewInvalidModuleError("br_table: depth %d out of range", k)
			}
			f := v.frames[len(v.frames)-1-int(k)]
			if len(labelTypes(f)) != len(defTypes) {
				return NewInvalidModuleError("br_table: target %d arity disagrees with default", i)
			}
			resolved[i] = f.label
		}
		resolved[len(inst.ImmBrTableTargets)] = defFrame.label
		if err := v.popExpect(ValueTypeI32); err != nil {
			return err
		}
		if err := v.popOperands(defTypes); err != nil {
			return err
		}
		v.markUnreachable()
		inst.ImmLabels = resolved
		return nil

	case OpcodeReturn:
		target := v.frames[0]
		if err := v.popOperands(target.endTypes); err != nil {
			return err
		}
		v.markUnreachable()
		return nil

	case OpcodeCall:
		fidx := inst.ImmIndex
		if fidx >= funcCount(v.m) {
			return NewInvalidModuleError("call: function index %d out of range", fidx)
		}
		ft := v.m.TypeOfFunction(fidx)
		if err := v.popOperands(ft.Params); err != nil {
			return err
		}
		return v.pushOperands(ft.Results)

	case OpcodeCallIndirect:
		typeIdx, tableIdx := inst.ImmIndex, inst.ImmIndex2
		if tableIdx >= tableCount(v.m) {
			return NewInvalidModuleError("call_indirect: table index %d out of range", tableIdx)
		}
		tt := tableTypeAt(v.m, tableIdx)
		if tt.ElemType != ValueTypeFuncref {
			return NewInvalidModuleError("call_indirect: table %d is not funcref", tableIdx)
		}
		if typeIdx >= uint32(len(v.m.Types)) {
			return NewInvalidModuleError("call_indirect: type index %d out of range", typeIdx)
		}
		ft := &v.m.Types[typeIdx]
		if err := v.popExpect(tt.AddressType()); err != nil {
			return err
		}
		if err := v.popOperands(ft.Params); err != nil {
			return err
		}
		return v.pushOperands(ft.Results)

	case OpcodeDrop:
		_, err := v.pop()
		return err

	case OpcodeSelect:
		if err := v.popExpect(ValueTypeI32); err != nil {
			return err
		}
		t1, err := v.pop()
		if err != nil {
			return err
		}
		t2, err := v.pop()
		if err != nil {
			return err
		}
		t, err := unify(t1, t2)
		if err != nil {
			return err
		}
		if t != valueTypeUnknown && (t == ValueTypeFuncref || t == ValueTypeExternref) {
			return NewInvalidModuleError("select: operands must not be reference types")
		}
		inst.ImmValueType = t
		return v.push(t)

	case OpcodeSelectT:
		if len(inst.ImmBlockType.Results) != 1 {
			return NewInvalidModuleError("select with explicit type must declare exactly one type")
		}
		t := inst.ImmBlockType.Results[0]
		if err := v.popExpect(ValueTypeI32); err != nil {
			return err
		}
		if err := v.popExpect(t); err != nil {
			return err
		}
		if err := v.popExpect(t); err != nil {
			return err
		}
		inst.ImmValueType = t
		return v.push(t)

	case OpcodeLocalGet:
		if inst.ImmIndex >= uint32(len(v.locals)) {
			return NewInvalidModuleError("local.get: index %d out of range", inst.ImmIndex)
		}
		return v.push(v.locals[inst.ImmIndex])
	case OpcodeLocalSet:
		if inst.ImmIndex >= uint32(len(v.locals)) {
			return NewInvalidModuleError("local.set: index %d out of range", inst.ImmIndex)
		}
		return v.popExpect(v.locals[inst.ImmIndex])
	case OpcodeLocalTee:
		if inst.ImmIndex >= uint32(len(v.locals)) {
			return NewInvalidModuleError("local.tee: index %d out of range", inst.ImmIndex)
		}
		if err := v.popExpect(v.locals[inst.ImmIndex]); err != nil {
			return err
		}
		return v.push(v.locals[inst.ImmIndex])

	case OpcodeGlobalGet:
		if inst.ImmIndex >= globalCount(v.m) {
			return NewInvalidModuleError("global.get: index %d out of range", inst.ImmIndex)
		}
		return v.push(globalTypeAt(v.m, inst.ImmIndex).ValType)
	case OpcodeGlobalSet:
		if inst.ImmIndex >= globalCount(v.m) {
			return NewInvalidModuleError("global.set: index %d out of range", inst.ImmIndex)
		}
		gt := globalTypeAt(v.m, inst.ImmIndex)
		if !gt.Mutable {
			return NewInvalidModuleError("global.set: global %d is immutable", inst.ImmIndex)
		}
		return v.popExpect(gt.ValType)

	case OpcodeTableGet:
		if inst.ImmIndex >= tableCount(v.m) {
			return NewInvalidModuleError("table.get: index %d out of range", inst.ImmIndex)
		}
		tt := tableTypeAt(v.m, inst.ImmIndex)
		if err := v.popExpect(tt.AddressType()); err != nil {
			return err
		}
		return v.push(tt.ElemType)
	case OpcodeTableSet:
		if inst.ImmIndex >= tableCount(v.m) {
			return NewInvalidModuleError("table.set: index %d out of range", inst.ImmIndex)
		}
		tt := tableTypeAt(v.m, inst.ImmIndex)
		if err := v.popExpect(tt.ElemType); err != nil {
			return err
		}
		return v.popExpect(tt.AddressType())

	case OpcodeMemorySize:
		if memoryCount(v.m) == 0 {
			return NewInvalidModuleError("memory.size: no memory defined")
		}
		return v.push(ValueTypeI32)
	case OpcodeMemoryGrow:
		if memoryCount(v.m) == 0 {
			return NewInvalidModuleError("memory.grow: no memory defined")
		}
		if err := v.popExpect(ValueTypeI32); err != nil {
			return err
		}
		return v.push(ValueTypeI32)

	case OpcodeI32Const:
		return v.push(ValueTypeI32)
	case OpcodeI64Const:
		return v.push(ValueTypeI64)
	case OpcodeF32Const:
		return v.push(ValueTypeF32)
	case OpcodeF64Const:
		return v.push(ValueTypeF64)

	case OpcodeRefNull:
		if len(inst.ImmBlockType.Results) != 1 {
			return NewInvalidModuleError("ref.null: missing reference type")
		}
		return v.push(inst.ImmBlockType.Results[0])
	case OpcodeRefFunc:
		if inst.ImmIndex >= funcCount(v.m) {
			return NewInvalidModuleError("ref.func: index %d out of range", inst.ImmIndex)
		}
		if !declared[inst.ImmIndex] {
			return NewInvalidModuleError("ref.func: function %d is not declared (not exported, started, or in an element segment)", inst.ImmIndex)
		}
		return v.push(ValueTypeFuncref)
	case OpcodeRefIsNull:
		t, err := v.pop()
		if err != nil {
			return err
		}
		if t != valueTypeUnknown && t != ValueTypeFuncref && t != ValueTypeExternref {
			return NewInvalidModuleError("ref.is_null: operand is not a reference type")
		}
		return v.push(ValueTypeI32)

	default:
		if loadSig, ok := loadSigs[inst.Opcode]; ok {
			if memoryCount(v.m) == 0 {
				return NewInvalidModuleError("memory access with no memory defined")
			}
			if (uint32(1) << inst.ImmAlign) > loadSig.width {
				return NewInvalidModuleError("alignment 2^%d exceeds access width %d", inst.ImmAlign, loadSig.width)
			}
			if err := v.popExpect(ValueTypeI32); err != nil {
				return err
			}
			return v.push(loadSig.result)
		}
		if storeSig, ok := storeSigs[inst.Opcode]; ok {
			if memoryCount(v.m) == 0 {
				return NewInvalidModuleError("memory access with no memory defined")
			}
			if (uint32(1) << inst.ImmAlign) > storeSig.width {
				return NewInvalidModuleError("alignment 2^%d exceeds access width %d", inst.ImmAlign, storeSig.width)
			}
			if err := v.popExpect(storeSig.value); err != nil {
				return err
			}
			return v.popExpect(ValueTypeI32)
		}
		if sig, ok := opSigs[inst.Opcode]; ok {
			if err := v.popOperands(sig.ins); err != nil {
				return err
			}
			return v.pushOperands(sig.outs)
		}
		return v.stepMiscOrSIMD(inst, declared)
	}
}

// stepMiscOrSIMD handles the 0xFC bulk-memory/table family and the 0xFD SIMD
// family members that need index operands or memarg handling beyond a plain
// opSigs lookup (splat/arithmetic/bitwise SIMD opcodes are in opSigs).
func (v *funcValidator) stepMiscOrSIMD(inst *Instruction, declared map[uint32]bool) error {
	switch inst.Opcode {
	case OpcodeMiscMemoryInit:
		if v.m.DataCountSection == nil {
			return NewInvalidModuleError("memory.init requires a data count section")
		}
		if inst.ImmIndex >= *v.m.DataCountSection {
			return NewInvalidModuleError("memory.init: data index %d out of range", inst.ImmIndex)
		}
		if memoryCount(v.m) == 0 {
			return NewInvalidModuleError("memory.init: no memory defined")
		}
		if err := v.popExpect(ValueTypeI32); err != nil {
			return err
		}
		if err := v.popExpect(ValueTypeI32); err != nil {
			return err
		}
		return v.popExpect(ValueTypeI32)
	case OpcodeMiscDataDrop:
		if v.m.DataCountSection == nil {
			return NewInvalidModuleError("data.drop requires a data count section")
		}
		if inst.ImmIndex >= *v.m.DataCountSection {
			return NewInvalidModuleError("data.drop: data index %d out of range", inst.ImmIndex)
		}
		return nil
	case OpcodeMiscMemoryCopy:
		if memoryCount(v.m) == 0 {
			return NewInvalidModuleError("memory.copy: no memory defined")
		}
		for i := 0; i < 3; i++ {
			if err := v.popExpect(ValueTypeI32); err != nil {
				return err
			}
		}
		return nil
	case OpcodeMiscMemoryFill:
		if memoryCount(v.m) == 0 {
			return NewInvalidModuleError("memory.fill: no memory defined")
		}
		for i := 0; i < 3; i++ {
			if err := v.popExpect(ValueTypeI32); err != nil {
				return err
			}
		}
		return nil
	case OpcodeMiscTableInit:
		elemIdx, tableIdx := inst.ImmIndex, inst.ImmIndex2
		if int(elemIdx) >= len(v.m.ElementSection) {
			return NewInvalidModuleError("table.init: element index %d out of range", elemIdx)
		}
		if tableIdx >= tableCount(v.m) {
			return NewInvalidModuleError("table.init: table index %d out of range", tableIdx)
		}
		if v.m.ElementSection[elemIdx].Type != tableTypeAt(v.m, tableIdx).ElemType {
			return NewInvalidModuleError("table.init: element type does not match table %d", tableIdx)
		}
		for i := 0; i < 3; i++ {
			if err := v.popExpect(ValueTypeI32); err != nil {
				return err
			}
		}
		return nil
	case OpcodeMiscElemDrop:
		if int(inst.ImmIndex) >= len(v.m.ElementSection) {
			return NewInvalidModuleError("elem.drop: element index %d out of range", inst.ImmIndex)
		}
		return nil
	case OpcodeMiscTableCopy:
		dst, src := inst.ImmIndex, inst.ImmIndex2
		if dst >= tableCount(v.m) || src >= tableCount(v.m) {
			return NewInvalidModuleError("table.copy: table index out of range")
		}
		if tableTypeAt(v.m, dst).ElemType != tableTypeAt(v.m, src).ElemType {
			return NewInvalidModuleError("table.copy: element type mismatch between tables %d and %d", dst, src)
		}
		for i := 0; i < 3; i++ {
			if err := v.popExpect(ValueTypeI32); err != nil {
				return err
			}
		}
		return nil
	case OpcodeMiscTableGrow:
		if inst.ImmIndex >= tableCount(v.m) {
			return NewInvalidModuleError("table.grow: index %d out of range", inst.ImmIndex)
		}
		tt := tableTypeAt(v.m, inst.ImmIndex)
		if err := v.popExpect(ValueTypeI32); err != nil {
			return err
		}
		if err := v.popExpect(tt.ElemType); err != nil {
			return err
		}
		return v.push(ValueTypeI32)
	case OpcodeMiscTableSize:
		if inst.ImmIndex >= tableCount(v.m) {
			return NewInvalidModuleError("table.size: index %d out of range", inst.ImmIndex)
		}
		return v.push(ValueTypeI32)
	case OpcodeMiscTableFill:
		if inst.ImmIndex >= tableCount(v.m) {
			return NewInvalidModuleError("table.fill: index %d out of range", inst.ImmIndex)
		}
		tt := tableTypeAt(v.m, inst.ImmIndex)
		if err := v.popExpect(ValueTypeI32); err != nil {
			return err
		}
		if err := v.popExpect(tt.ElemType); err != nil {
			return err
		}
		return v.popExpect(ValueTypeI32)
	case OpcodeMiscI32TruncSatF32S, OpcodeMiscI32TruncSatF32U, OpcodeMiscI32TruncSatF64S, OpcodeMiscI32TruncSatF64U,
		OpcodeMiscI64TruncSatF32S, OpcodeMiscI64TruncSatF32U, OpcodeMiscI64TruncSatF64S, OpcodeMiscI64TruncSatF64U:
		sig := opSigs[inst.Opcode]
		if err := v.popOperands(sig.ins); err != nil {
			return err
		}
		return v.pushOperands(sig.outs)

	case OpcodeSIMDV128Load:
		if memoryCount(v.m) == 0 {
			return NewInvalidModuleError("v128.load: no memory defined")
		}
		if (uint32(1) << inst.ImmAlign) > 16 {
			return NewInvalidModuleError("v128.load: alignment 2^%d exceeds access width 16", inst.ImmAlign)
		}
		if err := v.popExpect(ValueTypeI32); err != nil {
			return err
		}
		return v.push(ValueTypeV128)
	case OpcodeSIMDV128Store:
		if memoryCount(v.m) == 0 {
			return NewInvalidModuleError("v128.store: no memory defined")
		}
		if (uint32(1) << inst.ImmAlign) > 16 {
			return NewInvalidModuleError("v128.store: alignment 2^%d exceeds access width 16", inst.ImmAlign)
		}
		if err := v.popExpect(ValueTypeV128); err != nil {
			return err
		}
		return v.popExpect(ValueTypeI32)
	case OpcodeSIMDV128Const:
		return v.push(ValueTypeV128)

	case OpcodeSIMDI8x16ExtractLaneS, OpcodeSIMDI8x16ExtractLaneU, OpcodeSIMDI8x16ReplaceLane:
		return v.stepLaneOp(inst, 16)
	case OpcodeSIMDI16x8ExtractLaneS, OpcodeSIMDI16x8ExtractLaneU, OpcodeSIMDI16x8ReplaceLane:
		return v.stepLaneOp(inst, 8)
	case OpcodeSIMDI32x4ExtractLane, OpcodeSIMDI32x4ReplaceLane,
		OpcodeSIMDF32x4ExtractLane, OpcodeSIMDF32x4ReplaceLane:
		return v.stepLaneOp(inst, 4)
	case OpcodeSIMDI64x2ExtractLane, OpcodeSIMDI64x2ReplaceLane,
		OpcodeSIMDF64x2ExtractLane, OpcodeSIMDF64x2ReplaceLane:
		return v.stepLaneOp(inst, 2)

	case OpcodeSIMDI8x16Shuffle:
		for i, b := range inst.ImmV128 {
			if b >= 32 {
				return NewInvalidModuleError("i8x16.shuffle: lane index %d at position %d exceeds 31", b, i)
			}
		}
		if err := v.popExpect(ValueTypeV128); err != nil {
			return err
		}
		if err := v.popExpect(ValueTypeV128); err != nil {
			return err
		}
		return v.push(ValueTypeV128)

	default:
		return NewInvalidModuleError("unsupported opcode 0x%x", uint32(inst.Opcode))
	}
}

// stepLaneOp validates the lane-index immediate shared by every
// extract_lane/replace_lane opcode against laneCount for that shape, then
// applies the opSigs entry already registered for inst.Opcode.
func (v *funcValidator) stepLaneOp(inst *Instruction, laneCount byte) error {
	if inst.ImmV128[0] >= laneCount {
		return NewInvalidModuleError("lane index %d out of range for %d lanes", inst.ImmV128[0], laneCount)
	}
	sig := opSigs[inst.Opcode]
	if err := v.popOperands(sig.ins); err != nil {
		return err
	}
	return v.pushOperands(sig.outs)
}

type memSig struct {
	result api.ValueType
	width  uint32
}

type memStoreSig struct {
	value api.ValueType
	width uint32
}

var loadSigs = map[Opcode]memSig{
	OpcodeI32Load:    {ValueTypeI32, 4},
	OpcodeI64Load:    {ValueTypeI64, 8},
	OpcodeF32Load:    {ValueTypeF32, 4},
	OpcodeF64Load:    {ValueTypeF64, 8},
	OpcodeI32Load8S:  {ValueTypeI32, 1},
	OpcodeI32Load8U:  {ValueTypeI32, 1},
	OpcodeI32Load16S: {ValueTypeI32, 2},
	OpcodeI32Load16U: {ValueTypeI32, 2},
	OpcodeI64Load8S:  {ValueTypeI64, 1},
	OpcodeI64Load8U:  {ValueTypeI64, 1},
	OpcodeI64Load16S: {ValueTypeI64, 2},
	OpcodeI64Load16U: {ValueTypeI64, 2},
	OpcodeI64Load32S: {ValueTypeI64, 4},
	OpcodeI64Load32U: {ValueTypeI64, 4},
}

var storeSigs = map[Opcode]memStoreSig{
	OpcodeI32Store:   {ValueTypeI32, 4},
	OpcodeI64Store:   {ValueTypeI64, 8},
	OpcodeF32Store:   {ValueTypeF32, 4},
	OpcodeF64Store:   {ValueTypeF64, 8},
	OpcodeI32Store8:  {ValueTypeI32, 1},
	OpcodeI32Store16: {ValueTypeI32, 2},
	OpcodeI64Store8:  {ValueTypeI64, 1},
	OpcodeI64Store16: {ValueTypeI64, 2},
	OpcodeI64Store32: {ValueTypeI64, 4},
}

type opSig struct{ ins, outs []api.ValueType }

func sig(ins, outs []api.ValueType) opSig { return opSig{ins: ins, outs: outs} }

var (
	i32_ = []api.ValueType{ValueTypeI32}
	i64_ = []api.ValueType{ValueTypeI64}
	f32_ = []api.ValueType{ValueTypeF32}
	f64_ = []api.ValueType{ValueTypeF64}
	v128_ = []api.ValueType{ValueTypeV128}

	i32i32 = []api.ValueType{ValueTypeI32, ValueTypeI32}
	i64i64 = []api.ValueType{ValueTypeI64, ValueTypeI64}
	f32f32 = []api.ValueType{ValueTypeF32, ValueTypeF32}
	f64f64 = []api.ValueType{ValueTypeF64, ValueTypeF64}
	v128v128 = []api.ValueType{ValueTypeV128, ValueTypeV128}
	v128v128v128 = []api.ValueType{ValueTypeV128, ValueTypeV128, ValueTypeV128}

	v128i32 = []api.ValueType{ValueTypeV128, ValueTypeI32}
	v128i64 = []api.ValueType{ValueTypeV128, ValueTypeI64}
	v128f32 = []api.ValueType{ValueTypeV128, ValueTypeF32}
	v128f64 = []api.ValueType{ValueTypeV128, ValueTypeF64}
)

// opSigs enumerates every instruction whose type rule is a fixed
// (ins) -> (outs) shape with no side conditions: comparisons, arithmetic,
// conversions, sign-extension, the trunc_sat family, and the SIMD subset
// enumerated in instruction.go.
var opSigs = map[Opcode]opSig{
	OpcodeI32Eqz: sig(i32_, i32_),
	OpcodeI32Eq: sig(i32i32, i32_), OpcodeI32Ne: sig(i32i32, i32_),
	OpcodeI32LtS: sig(i32i32, i32_), OpcodeI32LtU: sig(i32i32, i32_),
	OpcodeI32GtS: sig(i32i32, i32_), OpcodeI32GtU: sig(i32i32, i32_),
	OpcodeI32LeS: sig(i32i32, i32_), OpcodeI32LeU: sig(i32i32, i32_),
	OpcodeI32GeS: sig(i32i32, i32_), OpcodeI32GeU: sig(i32i32, i32_),

	OpcodeI64Eqz: sig(i64_, i32_),
	OpcodeI64Eq: sig(i64i64, i32_), OpcodeI64Ne: sig(i64i64, i32_),
	OpcodeI64LtS: sig(i64i64, i32_), OpcodeI64LtU: sig(i64i64, i32_),
	OpcodeI64GtS: sig(i64i64, i32_), OpcodeI64GtU: sig(i64i64, i32_),
	OpcodeI64LeS: sig(i64i64, i32_), OpcodeI64LeU: sig(i64i64, i32_),
	OpcodeI64GeS: sig(i64i64, i32_), OpcodeI64GeU: sig(i64i64, i32_),

	OpcodeF32Eq: sig(f32f32, i32_), OpcodeF32Ne: sig(f32f32, i32_),
	OpcodeF32Lt: sig(f32f32, i32_), OpcodeF32Gt: sig(f32f32, i32_),
	OpcodeF32Le: sig(f32f32, i32_), OpcodeF32Ge: sig(f32f32, i32_),

	OpcodeF64Eq: sig(f64f64, i32_), OpcodeF64Ne: sig(f64f64, i32_),
	OpcodeF64Lt: sig(f64f64, i32_), OpcodeF64Gt: sig(f64f64, i32_),
	OpcodeF64Le: sig(f64f64, i32_), OpcodeF64Ge: sig(f64f64, i32_),

	OpcodeI32Clz: sig(i32_, i32_), OpcodeI32Ctz: sig(i32_, i32_), OpcodeI32Popcnt: sig(i32_, i32_),
	OpcodeI32Add: sig(i32i32, i32_), OpcodeI32Sub: sig(i32i32, i32_), OpcodeI32Mul: sig(i32i32, i32_),
	OpcodeI32DivS: sig(i32i32, i32_), OpcodeI32DivU: sig(i32i32, i32_),
	OpcodeI32RemS: sig(i32i32, i32_), OpcodeI32RemU: sig(i32i32, i32_),
	OpcodeI32And: sig(i32i32, i32_), OpcodeI32Or: sig(i32i32, i32_), OpcodeI32Xor: sig(i32i32, i32_),
	OpcodeI32Shl: sig(i32i32, i32_), OpcodeI32ShrS: sig(i32i32, i32_), OpcodeI32ShrU: sig(i32i32, i32_),
	OpcodeI32Rotl: sig(i32i32, i32_), OpcodeI32Rotr: sig(i32i32, i32_),

	OpcodeI64Clz: sig(i64_, i64_), OpcodeI64Ctz: sig(i64_, i64_), OpcodeI64Popcnt: sig(i64_, i64_),
	OpcodeI64Add: sig(i64i64, i64_), OpcodeI64Sub: sig(i64i64, i64_), OpcodeI64Mul: sig(i64i64, i64_),
	OpcodeI64DivS: sig(i64i64, i64_), OpcodeI64DivU: sig(i64i64, i64_),
	OpcodeI64RemS: sig(i64i64, i64_), OpcodeI64RemU: sig(i64i64, i64_),
	OpcodeI64And: sig(i64i64, i64_), OpcodeI64Or: sig(i64i64, i64_), OpcodeI64Xor: sig(i64i64, i64_),
	OpcodeI64Shl: sig(i64i64, i64_), OpcodeI64ShrS: sig(i64i64, i64_), OpcodeI64ShrU: sig(i64i64, i64_),
	OpcodeI64Rotl: sig(i64i64, i64_), OpcodeI64Rotr: sig(i64i64, i64_),

	OpcodeF32Abs: sig(f32_, f32_), OpcodeF32Neg: sig(f32_, f32_), OpcodeF32Ceil: sig(f32_, f32_),
	OpcodeF32Floor: sig(f32_, f32_), OpcodeF32Trunc: sig(f32_, f32_), OpcodeF32Nearest: sig(f32_, f32_), OpcodeF32Sqrt: sig(f32_, f32_),
	OpcodeF32Add: sig(f32f32, f32_), OpcodeF32Sub: sig(f32f32, f32_), OpcodeF32Mul: sig(f32f32, f32_), OpcodeF32Div: sig(f32f32, f32_),
	OpcodeF32Min: sig(f32f32, f32_), OpcodeF32Max: sig(f32f32, f32_), OpcodeF32Copysign: sig(f32f32, f32_),

	OpcodeF64Abs: sig(f64_, f64_), OpcodeF64Neg: sig(f64_, f64_), OpcodeF64Ceil: sig(f64_, f64_),
	OpcodeF64Floor: sig(f64_, f64_), OpcodeF64Trunc: sig(f64_, f64_), OpcodeF64Nearest: sig(f64_, f64_), OpcodeF64Sqrt: sig(f64_, f64_),
	OpcodeF64Add: sig(f64f64, f64_), OpcodeF64Sub: sig(f64f64, f64_), OpcodeF64Mul: sig(f64f64, f64_), OpcodeF64Div: sig(f64f64, f64_),
	OpcodeF64Min: sig(f64f64, f64_), OpcodeF64Max: sig(f64f64, f64_), OpcodeF64Copysign: sig(f64f64, f64_),

	OpcodeI32WrapI64: sig(i64_, i32_),
	OpcodeI32TruncF32S: sig(f32_, i32_), OpcodeI32TruncF32U: sig(f32_, i32_),
	OpcodeI32TruncF64S: sig(f64_, i32_), OpcodeI32TruncF64U: sig(f64_, i32_),
	OpcodeI64ExtendI32S: sig(i32_, i64_), OpcodeI64ExtendI32U: sig(i32_, i64_),
	OpcodeI64TruncF32S: sig(f32_, i64_), OpcodeI64TruncF32U: sig(f32_, i64_),
	OpcodeI64TruncF64S: sig(f64_, i64_), OpcodeI64TruncF64U: sig(f64_, i64_),
	OpcodeF32ConvertI32S: sig(i32_, f32_), OpcodeF32ConvertI32U: sig(i32_, f32_),
	OpcodeF32ConvertI64S: sig(i64_, f32_), OpcodeF32ConvertI64U: sig(i64_, f32_),
	OpcodeF32DemoteF64: sig(f64_, f32_),
	OpcodeF64ConvertI32S: sig(i32_, f64_), OpcodeF64ConvertI32U: sig(i32_, f64_),
	OpcodeF64ConvertI64S: sig(i64_, f64_), OpcodeF64ConvertI64U: sig(i64_, f64_),
	OpcodeF64PromoteF32: sig(f32_, f64_),
	OpcodeI32ReinterpretF32: sig(f32_, i32_), OpcodeI64ReinterpretF64: sig(f64_, i64_),
	OpcodeF32ReinterpretI32: sig(i32_, f32_), OpcodeF64ReinterpretI64: sig(i64_, f64_),

	OpcodeI32Extend8S: sig(i32_, i32_), OpcodeI32Extend16S: sig(i32_, i32_),
	OpcodeI64Extend8S: sig(i64_, i64_), OpcodeI64Extend16S: sig(i64_, i64_), OpcodeI64Extend32S: sig(i64_, i64_),

	OpcodeMiscI32TruncSatF32S: sig(f32_, i32_), OpcodeMiscI32TruncSatF32U: sig(f32_, i32_),
	OpcodeMiscI32TruncSatF64S: sig(f64_, i32_), OpcodeMiscI32TruncSatF64U: sig(f64_, i32_),
	OpcodeMiscI64TruncSatF32S: sig(f32_, i64_), OpcodeMiscI64TruncSatF32U: sig(f32_, i64_),
	OpcodeMiscI64TruncSatF64S: sig(f64_, i64_), OpcodeMiscI64TruncSatF64U: sig(f64_, i64_),

	OpcodeSIMDI8x16Splat: sig(i32_, v128_), OpcodeSIMDI16x8Splat: sig(i32_, v128_), OpcodeSIMDI32x4Splat: sig(i32_, v128_),
	OpcodeSIMDI64x2Splat: sig(i64_, v128_), OpcodeSIMDF32x4Splat: sig(f32_, v128_), OpcodeSIMDF64x2Splat: sig(f64_, v128_),

	OpcodeSIMDI8x16Eq: sig(v128v128, v128_), OpcodeSIMDI16x8Eq: sig(v128v128, v128_), OpcodeSIMDI32x4Eq: sig(v128v128, v128_),

	OpcodeSIMDV128Not: sig(v128_, v128_), OpcodeSIMDV128And: sig(v128v128, v128_), OpcodeSIMDV128Or: sig(v128v128, v128_),
	OpcodeSIMDV128Xor: sig(v128v128, v128_), OpcodeSIMDV128Bitselect: sig(v128v128v128, v128_), OpcodeSIMDV128AnyTrue: sig(v128_, i32_),

	OpcodeSIMDI8x16Add: sig(v128v128, v128_), OpcodeSIMDI8x16Sub: sig(v128v128, v128_),
	OpcodeSIMDI16x8Add: sig(v128v128, v128_), OpcodeSIMDI16x8Sub: sig(v128v128, v128_), OpcodeSIMDI16x8Mul: sig(v128v128, v128_),
	OpcodeSIMDI32x4Add: sig(v128v128, v128_), OpcodeSIMDI32x4Sub: sig(v128v128, v128_), OpcodeSIMDI32x4Mul: sig(v128v128, v128_),
	OpcodeSIMDI64x2Add: sig(v128v128, v128_), OpcodeSIMDI64x2Sub: sig(v128v128, v128_), OpcodeSIMDI64x2Mul: sig(v128v128, v128_),
	OpcodeSIMDF32x4Add: sig(v128v128, v128_), OpcodeSIMDF32x4Sub: sig(v128v128, v128_),
	OpcodeSIMDF32x4Mul: sig(v128v128, v128_), OpcodeSIMDF32x4Div: sig(v128v128, v128_),
	OpcodeSIMDF64x2Add: sig(v128v128, v128_), OpcodeSIMDF64x2Sub: sig(v128v128, v128_),
	OpcodeSIMDF64x2Mul: sig(v128v128, v128_), OpcodeSIMDF64x2Div: sig(v128v128, v128_),

	OpcodeSIMDI8x16Swizzle: sig(v128v128, v128_),

	OpcodeSIMDI8x16ExtractLaneS: sig(v128_, i32_), OpcodeSIMDI8x16ExtractLaneU: sig(v128_, i32_),
	OpcodeSIMDI16x8ExtractLaneS: sig(v128_, i32_), OpcodeSIMDI16x8ExtractLaneU: sig(v128_, i32_),
	OpcodeSIMDI32x4ExtractLane: sig(v128_, i32_), OpcodeSIMDI64x2ExtractLane: sig(v128_, i64_),
	OpcodeSIMDF32x4ExtractLane: sig(v128_, f32_), OpcodeSIMDF64x2ExtractLane: sig(v128_, f64_),

	OpcodeSIMDI8x16ReplaceLane: sig(v128i32, v128_), OpcodeSIMDI16x8ReplaceLane: sig(v128i32, v128_),
	OpcodeSIMDI32x4ReplaceLane: sig(v128i32, v128_), OpcodeSIMDI64x2ReplaceLane: sig(v128i64, v128_),
	OpcodeSIMDF32x4ReplaceLane: sig(v128f32, v128_), OpcodeSIMDF64x2ReplaceLane: sig(v128f64, v128_),

	OpcodeSIMDI8x16Ne: sig(v128v128, v128_), OpcodeSIMDI8x16LtS: sig(v128v128, v128_), OpcodeSIMDI8x16LtU: sig(v128v128, v128_),
	OpcodeSIMDI8x16GtS: sig(v128v128, v128_), OpcodeSIMDI8x16GtU: sig(v128v128, v128_),
	OpcodeSIMDI8x16LeS: sig(v128v128, v128_), OpcodeSIMDI8x16LeU: sig(v128v128, v128_),
	OpcodeSIMDI8x16GeS: sig(v128v128, v128_), OpcodeSIMDI8x16GeU: sig(v128v128, v128_),

	OpcodeSIMDI16x8Ne: sig(v128v128, v128_), OpcodeSIMDI16x8LtS: sig(v128v128, v128_), OpcodeSIMDI16x8LtU: sig(v128v128, v128_),
	OpcodeSIMDI16x8GtS: sig(v128v128, v128_), OpcodeSIMDI16x8GtU: sig(v128v128, v128_),
	OpcodeSIMDI16x8LeS: sig(v128v128, v128_), OpcodeSIMDI16x8LeU: sig(v128v128, v128_),
	OpcodeSIMDI16x8GeS: sig(v128v128, v128_), OpcodeSIMDI16x8GeU: sig(v128v128, v128_),

	OpcodeSIMDI32x4Ne: sig(v128v128, v128_), OpcodeSIMDI32x4LtS: sig(v128v128, v128_), OpcodeSIMDI32x4LtU: sig(v128v128, v128_),
	OpcodeSIMDI32x4GtS: sig(v128v128, v128_), OpcodeSIMDI32x4GtU: sig(v128v128, v128_),
	OpcodeSIMDI32x4LeS: sig(v128v128, v128_), OpcodeSIMDI32x4LeU: sig(v128v128, v128_),
	OpcodeSIMDI32x4GeS: sig(v128v128, v128_), OpcodeSIMDI32x4GeU: sig(v128v128, v128_),

	OpcodeSIMDI64x2Eq: sig(v128v128, v128_), OpcodeSIMDI64x2Ne: sig(v128v128, v128_), OpcodeSIMDI64x2LtS: sig(v128v128, v128_),
	OpcodeSIMDI64x2GtS: sig(v128v128, v128_), OpcodeSIMDI64x2LeS: sig(v128v128, v128_), OpcodeSIMDI64x2GeS: sig(v128v128, v128_),

	OpcodeSIMDF32x4Eq: sig(v128v128, v128_), OpcodeSIMDF32x4Ne: sig(v128v128, v128_),
	OpcodeSIMDF32x4Lt: sig(v128v128, v128_), OpcodeSIMDF32x4Gt: sig(v128v128, v128_),
	OpcodeSIMDF32x4Le: sig(v128v128, v128_), OpcodeSIMDF32x4Ge: sig(v128v128, v128_),

	OpcodeSIMDF64x2Eq: sig(v128v128, v128_), OpcodeSIMDF64x2Ne: sig(v128v128, v128_),
	OpcodeSIMDF64x2Lt: sig(v128v128, v128_), OpcodeSIMDF64x2Gt: sig(v128v128, v128_),
	OpcodeSIMDF64x2Le: sig(v128v128, v128_), OpcodeSIMDF64x2Ge: sig(v128v128, v128_),

	OpcodeSIMDV128AndNot: sig(v128v128, v128_),

	OpcodeSIMDF32x4Ceil: sig(v128_, v128_), OpcodeSIMDF32x4Floor: sig(v128_, v128_),
	OpcodeSIMDF32x4Trunc: sig(v128_, v128_), OpcodeSIMDF32x4Nearest: sig(v128_, v128_),
	OpcodeSIMDF64x2Ceil: sig(v128_, v128_), OpcodeSIMDF64x2Floor: sig(v128_, v128_),
	OpcodeSIMDF64x2Trunc: sig(v128_, v128_), OpcodeSIMDF64x2Nearest: sig(v128_, v128_),
	OpcodeSIMDF32x4Abs: sig(v128_, v128_), OpcodeSIMDF32x4Neg: sig(v128_, v128_), OpcodeSIMDF32x4Sqrt: sig(v128_, v128_),
	OpcodeSIMDF64x2Abs: sig(v128_, v128_), OpcodeSIMDF64x2Neg: sig(v128_, v128_), OpcodeSIMDF64x2Sqrt: sig(v128_, v128_),
	OpcodeSIMDF32x4Min: sig(v128v128, v128_), OpcodeSIMDF32x4Max: sig(v128v128, v128_),
	OpcodeSIMDF32x4Pmin: sig(v128v128, v128_), OpcodeSIMDF32x4Pmax: sig(v128v128, v128_),
	OpcodeSIMDF64x2Min: sig(v128v128, v128_), OpcodeSIMDF64x2Max: sig(v128v128, v128_),
	OpcodeSIMDF64x2Pmin: sig(v128v128, v128_), OpcodeSIMDF64x2Pmax: sig(v128v128, v128_),

	OpcodeSIMDI8x16Abs: sig(v128_, v128_), OpcodeSIMDI8x16Neg: sig(v128_, v128_), OpcodeSIMDI8x16Popcnt: sig(v128_, v128_),
	OpcodeSIMDI8x16AllTrue: sig(v128_, i32_), OpcodeSIMDI8x16Bitmask: sig(v128_, i32_),
	OpcodeSIMDI8x16NarrowI16x8S: sig(v128v128, v128_), OpcodeSIMDI8x16NarrowI16x8U: sig(v128v128, v128_),
	OpcodeSIMDI8x16Shl: sig(v128i32, v128_), OpcodeSIMDI8x16ShrS: sig(v128i32, v128_), OpcodeSIMDI8x16ShrU: sig(v128i32, v128_),
	OpcodeSIMDI8x16AddSatS: sig(v128v128, v128_), OpcodeSIMDI8x16AddSatU: sig(v128v128, v128_),
	OpcodeSIMDI8x16SubSatS: sig(v128v128, v128_), OpcodeSIMDI8x16SubSatU: sig(v128v128, v128_),
	OpcodeSIMDI8x16MinS: sig(v128v128, v128_), OpcodeSIMDI8x16MinU: sig(v128v128, v128_),
	OpcodeSIMDI8x16MaxS: sig(v128v128, v128_), OpcodeSIMDI8x16MaxU: sig(v128v128, v128_), OpcodeSIMDI8x16AvgrU: sig(v128v128, v128_),

	OpcodeSIMDI16x8ExtaddPairwiseI8x16S: sig(v128_, v128_), OpcodeSIMDI16x8ExtaddPairwiseI8x16U: sig(v128_, v128_),
	OpcodeSIMDI32x4ExtaddPairwiseI16x8S: sig(v128_, v128_), OpcodeSIMDI32x4ExtaddPairwiseI16x8U: sig(v128_, v128_),

	OpcodeSIMDI16x8Abs: sig(v128_, v128_), OpcodeSIMDI16x8Neg: sig(v128_, v128_), OpcodeSIMDI16x8Q15mulrSatS: sig(v128v128, v128_),
	OpcodeSIMDI16x8AllTrue: sig(v128_, i32_), OpcodeSIMDI16x8Bitmask: sig(v128_, i32_),
	OpcodeSIMDI16x8NarrowI32x4S: sig(v128v128, v128_), OpcodeSIMDI16x8NarrowI32x4U: sig(v128v128, v128_),
	OpcodeSIMDI16x8ExtendLowI8x16S: sig(v128_, v128_), OpcodeSIMDI16x8ExtendHighI8x16S: sig(v128_, v128_),
	OpcodeSIMDI16x8ExtendLowI8x16U: sig(v128_, v128_), OpcodeSIMDI16x8ExtendHighI8x16U: sig(v128_, v128_),
	OpcodeSIMDI16x8Shl: sig(v128i32, v128_), OpcodeSIMDI16x8ShrS: sig(v128i32, v128_), OpcodeSIMDI16x8ShrU: sig(v128i32, v128_),
	OpcodeSIMDI16x8AddSatS: sig(v128v128, v128_), OpcodeSIMDI16x8AddSatU: sig(v128v128, v128_),
	OpcodeSIMDI16x8SubSatS: sig(v128v128, v128_), OpcodeSIMDI16x8SubSatU: sig(v128v128, v128_),
	OpcodeSIMDI16x8MinS: sig(v128v128, v128_), OpcodeSIMDI16x8MinU: sig(v128v128, v128_),
	OpcodeSIMDI16x8MaxS: sig(v128v128, v128_), OpcodeSIMDI16x8MaxU: sig(v128v128, v128_), OpcodeSIMDI16x8AvgrU: sig(v128v128, v128_),
	OpcodeSIMDI16x8ExtmulLowI8x16S: sig(v128v128, v128_), OpcodeSIMDI16x8ExtmulHighI8x16S: sig(v128v128, v128_),
	OpcodeSIMDI16x8ExtmulLowI8x16U: sig(v128v128, v128_), OpcodeSIMDI16x8ExtmulHighI8x16U: sig(v128v128, v128_),

	OpcodeSIMDI32x4Abs: sig(v128_, v128_), OpcodeSIMDI32x4Neg: sig(v128_, v128_),
	OpcodeSIMDI32x4AllTrue: sig(v128_, i32_), OpcodeSIMDI32x4Bitmask: sig(v128_, i32_),
	OpcodeSIMDI32x4ExtendLowI16x8S: sig(v128_, v128_), OpcodeSIMDI32x4ExtendHighI16x8S: sig(v128_, v128_),
	OpcodeSIMDI32x4ExtendLowI16x8U: sig(v128_, v128_), OpcodeSIMDI32x4ExtendHighI16x8U: sig(v128_, v128_),
	OpcodeSIMDI32x4Shl: sig(v128i32, v128_), OpcodeSIMDI32x4ShrS: sig(v128i32, v128_), OpcodeSIMDI32x4ShrU: sig(v128i32, v128_),
	OpcodeSIMDI32x4MinS: sig(v128v128, v128_), OpcodeSIMDI32x4MinU: sig(v128v128, v128_),
	OpcodeSIMDI32x4MaxS: sig(v128v128, v128_), OpcodeSIMDI32x4MaxU: sig(v128v128, v128_), OpcodeSIMDI32x4DotI16x8S: sig(v128v128, v128_),
	OpcodeSIMDI32x4ExtmulLowI16x8S: sig(v128v128, v128_), OpcodeSIMDI32x4ExtmulHighI16x8S: sig(v128v128, v128_),
	OpcodeSIMDI32x4ExtmulLowI16x8U: sig(v128v128, v128_), OpcodeSIMDI32x4ExtmulHighI16x8U: sig(v128v128, v128_),

	OpcodeSIMDI64x2Abs: sig(v128_, v128_), OpcodeSIMDI64x2Neg: sig(v128_, v128_),
	OpcodeSIMDI64x2AllTrue: sig(v128_, i32_), OpcodeSIMDI64x2Bitmask: sig(v128_, i32_),
	OpcodeSIMDI64x2ExtendLowI32x4S: sig(v128_, v128_), OpcodeSIMDI64x2ExtendHighI32x4S: sig(v128_, v128_),
	OpcodeSIMDI64x2ExtendLowI32x4U: sig(v128_, v128_), OpcodeSIMDI64x2ExtendHighI32x4U: sig(v128_, v128_),
	OpcodeSIMDI64x2Shl: sig(v128i32, v128_), OpcodeSIMDI64x2ShrS: sig(v128i32, v128_), OpcodeSIMDI64x2ShrU: sig(v128i32, v128_),
	OpcodeSIMDI64x2ExtmulLowI32x4S: sig(v128v128, v128_), OpcodeSIMDI64x2ExtmulHighI32x4S: sig(v128v128, v128_),
	OpcodeSIMDI64x2ExtmulLowI32x4U: sig(v128v128, v128_), OpcodeSIMDI64x2ExtmulHighI32x4U: sig(v128v128, v128_),

	OpcodeSIMDI32x4TruncSatF32x4S: sig(v128_, v128_), OpcodeSIMDI32x4TruncSatF32x4U: sig(v128_, v128_),
	OpcodeSIMDF32x4ConvertI32x4S: sig(v128_, v128_), OpcodeSIMDF32x4ConvertI32x4U: sig(v128_, v128_),
	OpcodeSIMDF32x4DemoteF64x2Zero: sig(v128_, v128_), OpcodeSIMDF64x2PromoteLowF32x4: sig(v128_, v128_),
	OpcodeSIMDI32x4TruncSatF64x2SZero: sig(v128_, v128_), OpcodeSIMDI32x4TruncSatF64x2UZero: sig(v128_, v128_),
	OpcodeSIMDF64x2ConvertLowI32x4S: sig(v128_, v128_), OpcodeSIMDF64x2ConvertLowI32x4U: sig(v128_, v128_),
}
