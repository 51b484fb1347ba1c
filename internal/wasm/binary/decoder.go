package binary

import (
	"bytes"
	"io"

	"github.com/corewasm/corewasm/api"
	"github.com/corewasm/corewasm/internal/wasm"
)

var magic = [4]byte{0x00, 0x61, 0x73, 0x6d}

const version1 = uint32(1)

// Section ids, per https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#sections%E2%91%A0
const (
	sectionCustom = iota
	sectionType
	sectionImport
	sectionFunction
	sectionTable
	sectionMemory
	sectionGlobal
	sectionExport
	sectionStart
	sectionElement
	sectionCode
	sectionData
	sectionDataCount
)

// DecodeModule parses a raw Wasm binary into a Module. Only decode-time
// failures (malformed bytes) are reported here; type/index validity is the
// validator's job.
func DecodeModule(b []byte) (*wasm.Module, error) {
	r := NewReader(b)

	magicBytes, err := r.ReadBytes(4)
	if err != nil || !bytes.Equal(magicBytes, magic[:]) {
		return nil, malformed("invalid magic number")
	}
	verBytes, err := r.ReadBytes(4)
	if err != nil {
		return nil, malformed("invalid version: %v", err)
	}
	if verBytes[0] != 1 || verBytes[1] != 0 || verBytes[2] != 0 || verBytes[3] != 0 {
		return nil, malformed("invalid version")
	}

	m := &wasm.Module{}
	seen := map[byte]bool{}
	var dataCount *uint32

	for r.Remaining() > 0 {
		id, err := r.ReadByte()
		if err != nil {
			return nil, malformed("error decoding section id: %v", err)
		}
		size, err := r.U32()
		if err != nil {
			return nil, malformed("error decoding section size: %v", err)
		}
		payload, err := r.ReadBytes(int(size))
		if err != nil {
			return nil, malformed("section %d: %v", id, err)
		}

		if id != sectionCustom {
			if seen[id] {
				return nil, malformed("section %d duplicated", id)
			}
			seen[id] = true
		}

		sr := NewReader(payload)
		switch id {
		case sectionCustom:
			if err := decodeCustomSection(sr, m); err != nil {
				return nil, err
			}
		case sectionType:
			if err := decodeTypeSection(sr, m); err != nil {
				return nil, err
			}
		case sectionImport:
			if err := decodeImportSection(sr, m); err != nil {
				return nil, err
			}
		case sectionFunction:
			if err := decodeFunctionSection(sr, m); err != nil {
				return nil, err
			}
		case sectionTable:
			if err := decodeTableSection(sr, m); err != nil {
				return nil, err
			}
		case sectionMemory:
			if err := decodeMemorySection(sr, m); err != nil {
				return nil, err
			}
		case sectionGlobal:
			if err := decodeGlobalSection(sr, m); err != nil {
				return nil, err
			}
		case sectionExport:
			if err := decodeExportSection(sr, m); err != nil {
				return nil, err
			}
		case sectionStart:
			idx, err := sr.U32()
			if err != nil {
				return nil, malformed("start section: %v", err)
			}
			m.StartSection = &idx
		case sectionElement:
			if err := decodeElementSection(sr, m); err != nil {
				return nil, err
			}
		case sectionCode:
			if err := decodeCodeSection(sr, m); err != nil {
				return nil, err
			}
		case sectionData:
			if err := decodeDataSection(sr, m); err != nil {
				return nil, err
			}
		case sectionDataCount:
			n, err := sr.U32()
			if err != nil {
				return nil, malformed("data count section: %v", err)
			}
			dataCount = &n
		default:
			return nil, malformed("unknown section id %d", id)
		}
		if sr.Remaining() != 0 {
			return nil, malformed("section %d: %d bytes left after parsing", id, sr.Remaining())
		}
	}

	if len(m.FunctionSection) != len(m.CodeSection) {
		return nil, malformed("function and code section counts disagree: %d != %d", len(m.FunctionSection), len(m.CodeSection))
	}
	if dataCount != nil && int(*dataCount) != len(m.DataSection) {
		return nil, malformed("data count section (%d) does not match data section count (%d)", *dataCount, len(m.DataSection))
	}
	m.DataCountSection = dataCount

	wasm.SetImportCounts(m)

	return m, nil
}

func decodeVec32(r *Reader) (uint32, error) { return r.U32() }

func decodeLimits(r *Reader) (min, max uint32, hasMax bool, err error) {
	flag, err := r.ReadByte()
	if err != nil {
		return 0, 0, false, malformed("limits flag: %v", err)
	}
	min, err = r.U32()
	if err != nil {
		return 0, 0, false, malformed("limits min: %v", err)
	}
	if flag == 1 {
		max, err = r.U32()
		if err != nil {
			return 0, 0, false, malformed("limits max: %v", err)
		}
		hasMax = true
	}
	return min, max, hasMax, nil
}

func decodeValueType(r *Reader) (api.ValueType, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, malformed("value type: %v", err)
	}
	switch b {
	case api.ValueTypeI32, api.ValueTypeI64, api.ValueTypeF32, api.ValueTypeF64,
		api.ValueTypeV128, api.ValueTypeFuncref, api.ValueTypeExternref:
		return b, nil
	default:
		return 0, malformed("invalid value type: 0x%x", b)
	}
}

func decodeTypeSection(r *Reader, m *wasm.Module) error {
	count, err := r.U32()
	if err != nil {
		return malformed("type count: %v", err)
	}
	m.Types = make([]wasm.FunctionType, count)
	for i := range m.Types {
		form, err := r.ReadByte()
		if err != nil || form != 0x60 {
			return malformed("type %d: expected func form 0x60", i)
		}
		nParams, err := r.U32()
		if err != nil {
			return malformed("type %d: param count: %v", i, err)
		}
		params := make([]api.ValueType, nParams)
		for j := range params {
			if params[j], err = decodeValueType(r); err != nil {
				return err
			}
		}
		nResults, err := r.U32()
		if err != nil {
			return malformed("type %d: result count: %v", i, err)
		}
		results := make([]api.ValueType, nResults)
		for j := range results {
			if results[j], err = decodeValueType(r); err != nil {
				return err
			}
		}
		m.Types[i] = wasm.FunctionType{Params: params, Results: results}
	}
	return nil
}

func decodeImportSection(r *Reader, m *wasm.Module) error {
	count, err := r.U32()
	if err != nil {
		return malformed("import count: %v", err)
	}
	for i := uint32(0); i < count; i++ {
		modName, err := r.Name()
		if err != nil {
			return malformed("import %d module name: %v", i, err)
		}
		name, err := r.Name()
		if err != nil {
			return malformed("import %d name: %v", i, err)
		}
		kind, err := r.ReadByte()
		if err != nil {
			return malformed("import %d kind: %v", i, err)
		}
		imp := wasm.Import{Type: kind, Module: modName, Name: name}
		switch kind {
		case api.ExternTypeFunc:
			idx, err := r.U32()
			if err != nil {
				return malformed("import %d func type index: %v", i, err)
			}
			imp.DescFunc = idx
		case api.ExternTypeTable:
			tt, err := decodeTableType(r)
			if err != nil {
				return err
			}
			imp.DescTable = tt
		case api.ExternTypeMemory:
			mt, err := decodeMemoryType(r)
			if err != nil {
				return err
			}
			imp.DescMem = mt
		case api.ExternTypeGlobal:
			gt, err := decodeGlobalType(r)
			if err != nil {
				return err
			}
			imp.DescGlobal = gt
		default:
			return malformed("import %d: unknown kind 0x%x", i, kind)
		}
		m.Imports = append(m.Imports, imp)
	}
	return nil
}

func decodeTableType(r *Reader) (*wasm.TableType, error) {
	elem, err := decodeValueType(r)
	if err != nil {
		return nil, err
	}
	if elem != api.ValueTypeFuncref && elem != api.ValueTypeExternref {
		return nil, malformed("invalid table element type: 0x%x", elem)
	}
	min, max, hasMax, err := decodeLimits(r)
	if err != nil {
		return nil, err
	}
	return &wasm.TableType{ElemType: elem, Min: min, Max: max, IsMaxEncoded: hasMax}, nil
}

func decodeMemoryType(r *Reader) (*wasm.MemoryType, error) {
	min, max, hasMax, err := decodeLimits(r)
	if err != nil {
		return nil, err
	}
	return &wasm.MemoryType{Min: min, Max: max, IsMaxEncoded: hasMax}, nil
}

func decodeGlobalType(r *Reader) (*wasm.GlobalType, error) {
	vt, err := decodeValueType(r)
	if err != nil {
		return nil, err
	}
	mutFlag, err := r.ReadByte()
	if err != nil {
		return nil, malformed("global mutability: %v", err)
	}
	if mutFlag > 1 {
		return nil, malformed("invalid global mutability: 0x%x", mutFlag)
	}
	return &wasm.GlobalType{ValType: vt, Mutable: mutFlag == 1}, nil
}

func decodeFunctionSection(r *Reader, m *wasm.Module) error {
	count, err := r.U32()
	if err != nil {
		return malformed("function count: %v", err)
	}
	m.FunctionSection = make([]uint32, count)
	for i := range m.FunctionSection {
		if m.FunctionSection[i], err = r.U32(); err != nil {
			return malformed("function %d type index: %v", i, err)
		}
	}
	return nil
}

func decodeTableSection(r *Reader, m *wasm.Module) error {
	count, err := r.U32()
	if err != nil {
		return malformed("table count: %v", err)
	}
	for i := uint32(0); i < count; i++ {
		tt, err := decodeTableType(r)
		if err != nil {
			return err
		}
		m.TableSection = append(m.TableSection, *tt)
	}
	return nil
}

func decodeMemorySection(r *Reader, m *wasm.Module) error {
	count, err := r.U32()
	if err != nil {
		return malformed("memory count: %v", err)
	}
	for i := uint32(0); i < count; i++ {
		mt, err := decodeMemoryType(r)
		if err != nil {
			return err
		}
		m.MemorySection = append(m.MemorySection, *mt)
	}
	return nil
}

func decodeConstExpr(r *Reader) (wasm.ConstExpr, error) {
	op, err := r.ReadByte()
	if err != nil {
		return wasm.ConstExpr{}, malformed("const expr opcode: %v", err)
	}
	var ce wasm.ConstExpr
	ce.Opcode = wasm.Opcode(op)
	switch wasm.Opcode(op) {
	case wasm.OpcodeI32Const:
		if ce.ImmI32, err = r.I32(); err != nil {
			return ce, malformed("const expr i32: %v", err)
		}
	case wasm.OpcodeI64Const:
		if ce.ImmI64, err = r.I64(); err != nil {
			return ce, malformed("const expr i64: %v", err)
		}
	case wasm.OpcodeF32Const:
		if ce.ImmF32, err = r.F32(); err != nil {
			return ce, malformed("const expr f32: %v", err)
		}
	case wasm.OpcodeF64Const:
		if ce.ImmF64, err = r.F64(); err != nil {
			return ce, malformed("const expr f64: %v", err)
		}
	case wasm.OpcodeGlobalGet:
		if ce.GlobalIndex, err = r.U32(); err != nil {
			return ce, malformed("const expr global.get index: %v", err)
		}
	case wasm.OpcodeRefNull:
		if ce.RefType, err = decodeValueType(r); err != nil {
			return ce, err
		}
		if ce.RefType != api.ValueTypeFuncref && ce.RefType != api.ValueTypeExternref {
			return ce, malformed("const expr ref.null: invalid reference type 0x%x", ce.RefType)
		}
	case wasm.OpcodeRefFunc:
		if ce.GlobalIndex, err = r.U32(); err != nil {
			return ce, malformed("const expr ref.func index: %v", err)
		}
	default:
		return ce, malformed("invalid constant expression opcode 0x%x", op)
	}
	end, err := r.ReadByte()
	if err != nil || wasm.Opcode(end) != wasm.OpcodeEnd {
		return ce, malformed("constant expression not terminated by end")
	}
	return ce, nil
}

func decodeGlobalSection(r *Reader, m *wasm.Module) error {
	count, err := r.U32()
	if err != nil {
		return malformed("global count: %v", err)
	}
	for i := uint32(0); i < count; i++ {
		gt, err := decodeGlobalType(r)
		if err != nil {
			return err
		}
		init, err := decodeConstExpr(r)
		if err != nil {
			return err
		}
		m.GlobalSection = append(m.GlobalSection, wasm.GlobalInit{Type: *gt, Init: init})
	}
	return nil
}

func decodeExportSection(r *Reader, m *wasm.Module) error {
	count, err := r.U32()
	if err != nil {
		return malformed("export count: %v", err)
	}
	for i := uint32(0); i < count; i++ {
		name, err := r.Name()
		if err != nil {
			return malformed("export %d name: %v", i, err)
		}
		kind, err := r.ReadByte()
		if err != nil {
			return malformed("export %d kind: %v", i, err)
		}
		idx, err := r.U32()
		if err != nil {
			return malformed("export %d index: %v", i, err)
		}
		m.ExportSection = append(m.ExportSection, wasm.Export{Type: kind, Name: name, Index: idx})
	}
	return nil
}

func decodeElementSection(r *Reader, m *wasm.Module) error {
	count, err := r.U32()
	if err != nil {
		return malformed("element count: %v", err)
	}
	for i := uint32(0); i < count; i++ {
		flag, err := r.U32()
		if err != nil {
			return malformed("element %d flag: %v", i, err)
		}
		seg := wasm.ElementSegment{Type: api.ValueTypeFuncref}
		switch flag {
		case 0:
			if seg.OffsetExpr, err = decodeConstExpr(r); err != nil {
				return err
			}
			if seg.Init, err = decodeFuncIndexVec(r); err != nil {
				return err
			}
		case 1:
			if _, err := r.ReadByte(); err != nil { // elemkind, always 0x00 (funcref)
				return malformed("element %d elemkind: %v", i, err)
			}
			seg.IsPassive = true
			if seg.Init, err = decodeFuncIndexVec(r); err != nil {
				return err
			}
		case 2:
			if seg.TableIndex, err = r.U32(); err != nil {
				return malformed("element %d table index: %v", i, err)
			}
			if seg.OffsetExpr, err = decodeConstExpr(r); err != nil {
				return err
			}
			if _, err := r.ReadByte(); err != nil {
				return malformed("element %d elemkind: %v", i, err)
			}
			if seg.Init, err = decodeFuncIndexVec(r); err != nil {
				return err
			}
		case 3:
			if _, err := r.ReadByte(); err != nil {
				return malformed("element %d elemkind: %v", i, err)
			}
			seg.IsDeclarative = true
			if seg.Init, err = decodeFuncIndexVec(r); err != nil {
				return err
			}
		case 4, 5, 6, 7:
			return malformed("element %d: expression-form element segments not supported", i)
		default:
			return malformed("element %d: invalid flag %d", i, flag)
		}
		m.ElementSection = append(m.ElementSection, seg)
	}
	return nil
}

func decodeFuncIndexVec(r *Reader) ([]uint32, error) {
	n, err := r.U32()
	if err != nil {
		return nil, malformed("element init count: %v", err)
	}
	out := make([]uint32, n)
	for i := range out {
		if out[i], err = r.U32(); err != nil {
			return nil, malformed("element init %d: %v", i, err)
		}
	}
	return out, nil
}

func decodeDataSection(r *Reader, m *wasm.Module) error {
	count, err := r.U32()
	if err != nil {
		return malformed("data count: %v", err)
	}
	for i := uint32(0); i < count; i++ {
		flag, err := r.U32()
		if err != nil {
			return malformed("data %d flag: %v", i, err)
		}
		seg := wasm.DataSegment{}
		switch flag {
		case 0:
			if seg.OffsetExpr, err = decodeConstExpr(r); err != nil {
				return err
			}
		case 1:
			seg.IsPassive = true
		case 2:
			if seg.MemoryIndex, err = r.U32(); err != nil {
				return malformed("data %d memory index: %v", i, err)
			}
			if seg.OffsetExpr, err = decodeConstExpr(r); err != nil {
				return err
			}
		default:
			return malformed("data %d: invalid flag %d", i, flag)
		}
		n, err := r.U32()
		if err != nil {
			return malformed("data %d length: %v", i, err)
		}
		b, err := r.ReadBytes(int(n))
		if err != nil {
			return malformed("data %d bytes: %v", i, err)
		}
		seg.Init = append([]byte(nil), b...)
		m.DataSection = append(m.DataSection, seg)
	}
	return nil
}

func decodeCustomSection(r *Reader, m *wasm.Module) error {
	name, err := r.Name()
	if err != nil {
		return malformed("custom section name: %v", err)
	}
	if name != "name" {
		return nil // skip unknown custom sections entirely
	}
	ns := &wasm.NameSection{FunctionNames: map[uint32]string{}, LocalNames: map[uint32]map[uint32]string{}}
	for r.Remaining() > 0 {
		subID, err := r.ReadByte()
		if err != nil {
			return malformed("name subsection id: %v", err)
		}
		size, err := r.U32()
		if err != nil {
			return malformed("name subsection size: %v", err)
		}
		payload, err := r.ReadBytes(int(size))
		if err != nil {
			return malformed("name subsection payload: %v", err)
		}
		sr := NewReader(payload)
		switch subID {
		case 0:
			if ns.ModuleName, err = sr.Name(); err != nil {
				return malformed("module name: %v", err)
			}
		case 1:
			n, err := sr.U32()
			if err != nil {
				return malformed("function names count: %v", err)
			}
			for i := uint32(0); i < n; i++ {
				idx, err := sr.U32()
				if err != nil {
					return malformed("function name index: %v", err)
				}
				name, err := sr.Name()
				if err != nil {
					return malformed("function name: %v", err)
				}
				ns.FunctionNames[idx] = name
			}
		case 2:
			n, err := sr.U32()
			if err != nil {
				return malformed("local names count: %v", err)
			}
			for i := uint32(0); i < n; i++ {
				fidx, err := sr.U32()
				if err != nil {
					return malformed("local names func index: %v", err)
				}
				m, err := sr.U32()
				if err != nil {
					return malformed("local names count: %v", err)
				}
				locals := map[uint32]string{}
				for j := uint32(0); j < m; j++ {
					lidx, err := sr.U32()
					if err != nil {
						return malformed("local name index: %v", err)
					}
					lname, err := sr.Name()
					if err != nil {
						return malformed("local name: %v", err)
					}
					locals[lidx] = lname
				}
				ns.LocalNames[fidx] = locals
			}
		}
	}
	m.NameSection = ns
	return nil
}

func decodeCodeSection(r *Reader, m *wasm.Module) error {
	count, err := r.U32()
	if err != nil {
		return malformed("code count: %v", err)
	}
	m.CodeSection = make([]wasm.Code, count)
	for i := range m.CodeSection {
		size, err := r.U32()
		if err != nil {
			return malformed("code %d size: %v", i, err)
		}
		body, err := r.ReadBytes(int(size))
		if err != nil {
			return malformed("code %d body: %v", i, err)
		}
		code, err := decodeFunctionBody(body, m.Types)
		if err != nil {
			return err
		}
		code.BodySize = uint64(size)
		m.CodeSection[i] = code
	}
	return nil
}

// decodeFunctionBody decodes one function's locals declaration and
// instruction stream into a flat Instruction slice. Structured control flow
// (block/loop/if/else/end) is kept as ordinary instructions in this slice;
// the validator resolves each one's branch Labels in the same pass it
// type-checks the function, since only it tracks the control-frame stack
// deeply enough to know a branch's target and arity.
func decodeFunctionBody(body []byte, types []wasm.FunctionType) (wasm.Code, error) {
	r := NewReader(body)
	localDeclCount, err := r.U32()
	if err != nil {
		return wasm.Code{}, malformed("local decl count: %v", err)
	}
	var locals []api.ValueType
	var total uint64
	for i := uint32(0); i < localDeclCount; i++ {
		n, err := r.U32()
		if err != nil {
			return wasm.Code{}, malformed("local decl %d count: %v", i, err)
		}
		total += uint64(n)
		if total > 1<<32 {
			return wasm.Code{}, malformed("too many locals")
		}
		vt, err := decodeValueType(r)
		if err != nil {
			return wasm.Code{}, err
		}
		for j := uint32(0); j < n; j++ {
			locals = append(locals, vt)
		}
	}

	instrs, err := decodeInstructions(r, types)
	if err != nil {
		return wasm.Code{}, err
	}
	if r.Remaining() != 0 {
		return wasm.Code{}, malformed("%d bytes left after function body", r.Remaining())
	}
	return wasm.Code{NumLocals: uint32(len(locals)), LocalTypes: locals, Instructions: instrs}, nil
}

// decodeInstructions linearizes one function body's structured control flow
// into a flat slice, per spec.md §4.2: block/loop/if/else/end stay as
// ordinary instructions in this slice (rather than nesting), and a running
// depth counter is all the decoder needs to recognize the function's
// outermost "end" and stop. Branch target resolution (the continuation,
// arity and entry-height every Label needs) is left entirely to the
// validator, which walks this same flat slice once more with the
// control-frame stack it already has to build for type-checking — see
// DESIGN.md for why that single combined pass, not a second decoder-side
// pass, owns label resolution here.
func decodeInstructions(r *Reader, types []wasm.FunctionType) ([]wasm.Instruction, error) {
	var out []wasm.Instruction
	depth := 0
	for {
		op, err := r.ReadByte()
		if err == io.EOF {
			return nil, malformed("function body not terminated by end")
		} else if err != nil {
			return nil, malformed("opcode: %v", err)
		}
		inst := wasm.Instruction{Opcode: wasm.Opcode(op)}

		switch wasm.Opcode(op) {
		case wasm.OpcodeBlock, wasm.OpcodeLoop, wasm.OpcodeIf:
			raw, err := r.I33AsI64()
			if err != nil {
				return nil, malformed("block type: %v", err)
			}
			bt, err := wasm.ResolveBlockType(raw, types)
			if err != nil {
				return nil, err
			}
			inst.ImmBlockType = bt
			inst.ImmElsePC = -1
			depth++
			out = append(out, inst)
			continue
		case wasm.OpcodeEnd:
			if depth == 0 {
				out = append(out, inst)
				return out, nil
			}
			depth--
			out = append(out, inst)
			continue
		case wasm.OpcodeElse:
			out = append(out, inst)
			continue
		}

		if err := decodeImmediates(r, &inst); err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
}

// decodeImmediates fills in inst's operands for every opcode except
// block/loop/if/else/end, which decodeInstructions itself handles since
// they drive its nesting-depth counter.
func decodeImmediates(r *Reader, inst *wasm.Instruction) (err error) {
	switch inst.Opcode {
	case wasm.OpcodeBr, wasm.OpcodeBrIf:
		if inst.ImmIndex, err = r.U32(); err != nil {
			return malformed("branch depth: %v", err)
		}
	case wasm.OpcodeBrTable:
		n, err := r.U32()
		if err != nil {
			return malformed("br_table count: %v", err)
		}
		targets := make([]uint32, n)
		for i := range targets {
			if targets[i], err = r.U32(); err != nil {
				return malformed("br_table target %d: %v", i, err)
			}
		}
		def, err := r.U32()
		if err != nil {
			return malformed("br_table default: %v", err)
		}
		inst.ImmBrTableTargets = targets
		inst.ImmIndex = def
	case wasm.OpcodeCall:
		if inst.ImmIndex, err = r.U32(); err != nil {
			return malformed("call func index: %v", err)
		}
	case wasm.OpcodeCallIndirect:
		if inst.ImmIndex, err = r.U32(); err != nil {
			return malformed("call_indirect type index: %v", err)
		}
		if inst.ImmIndex2, err = r.U32(); err != nil {
			return malformed("call_indirect table index: %v", err)
		}
	case wasm.OpcodeLocalGet, wasm.OpcodeLocalSet, wasm.OpcodeLocalTee,
		wasm.OpcodeGlobalGet, wasm.OpcodeGlobalSet,
		wasm.OpcodeTableGet, wasm.OpcodeTableSet:
		if inst.ImmIndex, err = r.U32(); err != nil {
			return malformed("index operand: %v", err)
		}
	case wasm.OpcodeSelectT:
		n, err := r.U32()
		if err != nil {
			return malformed("select type count: %v", err)
		}
		types := make([]api.ValueType, n)
		for i := range types {
			if types[i], err = decodeValueType(r); err != nil {
				return err
			}
		}
		inst.ImmBlockType = wasm.BlockType{Results: types}
	case wasm.OpcodeI32Load, wasm.OpcodeI64Load, wasm.OpcodeF32Load, wasm.OpcodeF64Load,
		wasm.OpcodeI32Load8S, wasm.OpcodeI32Load8U, wasm.OpcodeI32Load16S, wasm.OpcodeI32Load16U,
		wasm.OpcodeI64Load8S, wasm.OpcodeI64Load8U, wasm.OpcodeI64Load16S, wasm.OpcodeI64Load16U,
		wasm.OpcodeI64Load32S, wasm.OpcodeI64Load32U,
		wasm.OpcodeI32Store, wasm.OpcodeI64Store, wasm.OpcodeF32Store, wasm.OpcodeF64Store,
		wasm.OpcodeI32Store8, wasm.OpcodeI32Store16, wasm.OpcodeI64Store8, wasm.OpcodeI64Store16, wasm.OpcodeI64Store32:
		if inst.ImmAlign, err = r.U32(); err != nil {
			return malformed("memarg align: %v", err)
		}
		if inst.ImmOffset, err = r.U32(); err != nil {
			return malformed("memarg offset: %v", err)
		}
	case wasm.OpcodeMemorySize, wasm.OpcodeMemoryGrow:
		if _, err := r.ReadByte(); err != nil { // reserved memory index byte
			return malformed("memory index byte: %v", err)
		}
	case wasm.OpcodeI32Const:
		if inst.ImmI32, err = r.I32(); err != nil {
			return malformed("i32.const: %v", err)
		}
	case wasm.OpcodeI64Const:
		if inst.ImmI64, err = r.I64(); err != nil {
			return malformed("i64.const: %v", err)
		}
	case wasm.OpcodeF32Const:
		if inst.ImmF32, err = r.F32(); err != nil {
			return malformed("f32.const: %v", err)
		}
	case wasm.OpcodeF64Const:
		if inst.ImmF64, err = r.F64(); err != nil {
			return malformed("f64.const: %v", err)
		}
	case wasm.OpcodeRefNull:
		vt, err := decodeValueType(r)
		if err != nil {
			return err
		}
		inst.ImmBlockType = wasm.BlockType{Results: []api.ValueType{vt}}
	case wasm.OpcodeRefFunc:
		if inst.ImmIndex, err = r.U32(); err != nil {
			return malformed("ref.func index: %v", err)
		}
	case 0xFC:
		return decodeMiscImmediates(r, inst)
	case 0xFD:
		return decodeSIMDImmediates(r, inst)
	case wasm.OpcodeUnreachable, wasm.OpcodeNop,
		wasm.OpcodeReturn, wasm.OpcodeDrop, wasm.OpcodeSelect,
		wasm.OpcodeI32Eqz, wasm.OpcodeI64Eqz, wasm.OpcodeRefIsNull:
		// no immediates
	default:
		if isComparisonOrArithmeticOpcode(inst.Opcode) {
			// no immediates
		} else {
			return malformed("unsupported opcode 0x%x", byte(inst.Opcode))
		}
	}
	return nil
}

func isComparisonOrArithmeticOpcode(op wasm.Opcode) bool {
	return op >= wasm.OpcodeI32Eq && op <= wasm.OpcodeI64Extend32S
}

// decodeMiscImmediates decodes the 0xFC-prefixed ("misc") family: saturating
// truncation (no immediates beyond the two-byte opcode) and bulk memory/
// table operations (segment and table indices are LEB128 u32 immediates;
// memory indices are single reserved bytes that are read and discarded).
func decodeMiscImmediates(r *Reader, inst *wasm.Instruction) error {
	sub, err := r.U32()
	if err != nil {
		return malformed("misc opcode: %v", err)
	}
	inst.Opcode = wasm.Opcode(0xFC<<16) | wasm.Opcode(sub)
	switch inst.Opcode {
	case wasm.OpcodeMiscI32TruncSatF32S, wasm.OpcodeMiscI32TruncSatF32U,
		wasm.OpcodeMiscI32TruncSatF64S, wasm.OpcodeMiscI32TruncSatF64U,
		wasm.OpcodeMiscI64TruncSatF32S, wasm.OpcodeMiscI64TruncSatF32U,
		wasm.OpcodeMiscI64TruncSatF64S, wasm.OpcodeMiscI64TruncSatF64U:
		// no further immediates
	case wasm.OpcodeMiscMemoryInit:
		if inst.ImmIndex, err = r.U32(); err != nil { // data segment index
			return malformed("memory.init data index: %v", err)
		}
		if _, err := r.ReadByte(); err != nil { // reserved memory index byte
			return malformed("memory.init memory index: %v", err)
		}
	case wasm.OpcodeMiscDataDrop:
		if inst.ImmIndex, err = r.U32(); err != nil {
			return malformed("data.drop index: %v", err)
		}
	case wasm.OpcodeMiscMemoryCopy:
		if _, err := r.ReadByte(); err != nil { // dst memory index
			return malformed("memory.copy dst index: %v", err)
		}
		if _, err := r.ReadByte(); err != nil { // src memory index
			return malformed("memory.copy src index: %v", err)
		}
	case wasm.OpcodeMiscMemoryFill:
		if _, err := r.ReadByte(); err != nil {
			return malformed("memory.fill memory index: %v", err)
		}
	case wasm.OpcodeMiscTableInit:
		if inst.ImmIndex, err = r.U32(); err != nil { // elem segment index
			return malformed("table.init elem index: %v", err)
		}
		if inst.ImmIndex2, err = r.U32(); err != nil { // table index
			return malformed("table.init table index: %v", err)
		}
	case wasm.OpcodeMiscElemDrop:
		if inst.ImmIndex, err = r.U32(); err != nil {
			return malformed("elem.drop index: %v", err)
		}
	case wasm.OpcodeMiscTableCopy:
		if inst.ImmIndex, err = r.U32(); err != nil { // dst table index
			return malformed("table.copy dst index: %v", err)
		}
		if inst.ImmIndex2, err = r.U32(); err != nil { // src table index
			return malformed("table.copy src index: %v", err)
		}
	case wasm.OpcodeMiscTableGrow, wasm.OpcodeMiscTableSize, wasm.OpcodeMiscTableFill:
		if inst.ImmIndex, err = r.U32(); err != nil {
			return malformed("table index: %v", err)
		}
	default:
		return malformed("unknown misc (0xFC) opcode %d", sub)
	}
	return nil
}

// simdLaneOpcodes recognizes every 0xFD opcode that carries no immediate of
// its own beyond the two-byte opcode (its operands, including any lane
// vector, arrive via the stack): the comparison, bitwise, shift, saturating
// arithmetic, narrow/extend/extmul/extadd_pairwise, min/max, float unary, and
// v128<->i32x4 conversion families.
var simdLaneOpcodes = map[wasm.Opcode]bool{
	wasm.OpcodeSIMDI8x16Swizzle: true,
	wasm.OpcodeSIMDI8x16Splat: true, wasm.OpcodeSIMDI16x8Splat: true, wasm.OpcodeSIMDI32x4Splat: true,
	wasm.OpcodeSIMDI64x2Splat: true, wasm.OpcodeSIMDF32x4Splat: true, wasm.OpcodeSIMDF64x2Splat: true,

	wasm.OpcodeSIMDI8x16Eq: true, wasm.OpcodeSIMDI8x16Ne: true, wasm.OpcodeSIMDI8x16LtS: true, wasm.OpcodeSIMDI8x16LtU: true,
	wasm.OpcodeSIMDI8x16GtS: true, wasm.OpcodeSIMDI8x16GtU: true, wasm.OpcodeSIMDI8x16LeS: true, wasm.OpcodeSIMDI8x16LeU: true,
	wasm.OpcodeSIMDI8x16GeS: true, wasm.OpcodeSIMDI8x16GeU: true,
	wasm.OpcodeSIMDI16x8Eq: true, wasm.OpcodeSIMDI16x8Ne: true, wasm.OpcodeSIMDI16x8LtS: true, wasm.OpcodeSIMDI16x8LtU: true,
	wasm.OpcodeSIMDI16x8GtS: true, wasm.OpcodeSIMDI16x8GtU: true, wasm.OpcodeSIMDI16x8LeS: true, wasm.OpcodeSIMDI16x8LeU: true,
	wasm.OpcodeSIMDI16x8GeS: true, wasm.OpcodeSIMDI16x8GeU: true,
	wasm.OpcodeSIMDI32x4Eq: true, wasm.OpcodeSIMDI32x4Ne: true, wasm.OpcodeSIMDI32x4LtS: true, wasm.OpcodeSIMDI32x4LtU: true,
	wasm.OpcodeSIMDI32x4GtS: true, wasm.OpcodeSIMDI32x4GtU: true, wasm.OpcodeSIMDI32x4LeS: true, wasm.OpcodeSIMDI32x4LeU: true,
	wasm.OpcodeSIMDI32x4GeS: true, wasm.OpcodeSIMDI32x4GeU: true,
	wasm.OpcodeSIMDI64x2Eq: true, wasm.OpcodeSIMDI64x2Ne: true, wasm.OpcodeSIMDI64x2LtS: true,
	wasm.OpcodeSIMDI64x2GtS: true, wasm.OpcodeSIMDI64x2LeS: true, wasm.OpcodeSIMDI64x2GeS: true,
	wasm.OpcodeSIMDF32x4Eq: true, wasm.OpcodeSIMDF32x4Ne: true, wasm.OpcodeSIMDF32x4Lt: true,
	wasm.OpcodeSIMDF32x4Gt: true, wasm.OpcodeSIMDF32x4Le: true, wasm.OpcodeSIMDF32x4Ge: true,
	wasm.OpcodeSIMDF64x2Eq: true, wasm.OpcodeSIMDF64x2Ne: true, wasm.OpcodeSIMDF64x2Lt: true,
	wasm.OpcodeSIMDF64x2Gt: true, wasm.OpcodeSIMDF64x2Le: true, wasm.OpcodeSIMDF64x2Ge: true,

	wasm.OpcodeSIMDV128Not: true, wasm.OpcodeSIMDV128And: true, wasm.OpcodeSIMDV128AndNot: true,
	wasm.OpcodeSIMDV128Or: true, wasm.OpcodeSIMDV128Xor: true, wasm.OpcodeSIMDV128Bitselect: true,
	wasm.OpcodeSIMDV128AnyTrue: true,

	wasm.OpcodeSIMDF32x4Ceil: true, wasm.OpcodeSIMDF32x4Floor: true, wasm.OpcodeSIMDF32x4Trunc: true, wasm.OpcodeSIMDF32x4Nearest: true,
	wasm.OpcodeSIMDF64x2Ceil: true, wasm.OpcodeSIMDF64x2Floor: true, wasm.OpcodeSIMDF64x2Trunc: true, wasm.OpcodeSIMDF64x2Nearest: true,
	wasm.OpcodeSIMDF32x4Abs: true, wasm.OpcodeSIMDF32x4Neg: true, wasm.OpcodeSIMDF32x4Sqrt: true,
	wasm.OpcodeSIMDF64x2Abs: true, wasm.OpcodeSIMDF64x2Neg: true, wasm.OpcodeSIMDF64x2Sqrt: true,
	wasm.OpcodeSIMDF32x4Min: true, wasm.OpcodeSIMDF32x4Max: true, wasm.OpcodeSIMDF32x4Pmin: true, wasm.OpcodeSIMDF32x4Pmax: true,
	wasm.OpcodeSIMDF64x2Min: true, wasm.OpcodeSIMDF64x2Max: true, wasm.OpcodeSIMDF64x2Pmin: true, wasm.OpcodeSIMDF64x2Pmax: true,

	wasm.OpcodeSIMDI8x16Abs: true, wasm.OpcodeSIMDI8x16Neg: true, wasm.OpcodeSIMDI8x16Popcnt: true,
	wasm.OpcodeSIMDI8x16AllTrue: true, wasm.OpcodeSIMDI8x16Bitmask: true,
	wasm.OpcodeSIMDI8x16NarrowI16x8S: true, wasm.OpcodeSIMDI8x16NarrowI16x8U: true,
	wasm.OpcodeSIMDI8x16Shl: true, wasm.OpcodeSIMDI8x16ShrS: true, wasm.OpcodeSIMDI8x16ShrU: true,
	wasm.OpcodeSIMDI8x16Add: true, wasm.OpcodeSIMDI8x16AddSatS: true, wasm.OpcodeSIMDI8x16AddSatU: true,
	wasm.OpcodeSIMDI8x16Sub: true, wasm.OpcodeSIMDI8x16SubSatS: true, wasm.OpcodeSIMDI8x16SubSatU: true,
	wasm.OpcodeSIMDI8x16MinS: true, wasm.OpcodeSIMDI8x16MinU: true,
	wasm.OpcodeSIMDI8x16MaxS: true, wasm.OpcodeSIMDI8x16MaxU: true, wasm.OpcodeSIMDI8x16AvgrU: true,

	wasm.OpcodeSIMDI16x8ExtaddPairwiseI8x16S: true, wasm.OpcodeSIMDI16x8ExtaddPairwiseI8x16U: true,
	wasm.OpcodeSIMDI32x4ExtaddPairwiseI16x8S: true, wasm.OpcodeSIMDI32x4ExtaddPairwiseI16x8U: true,

	wasm.OpcodeSIMDI16x8Abs: true, wasm.OpcodeSIMDI16x8Neg: true, wasm.OpcodeSIMDI16x8Q15mulrSatS: true,
	wasm.OpcodeSIMDI16x8AllTrue: true, wasm.OpcodeSIMDI16x8Bitmask: true,
	wasm.OpcodeSIMDI16x8NarrowI32x4S: true, wasm.OpcodeSIMDI16x8NarrowI32x4U: true,
	wasm.OpcodeSIMDI16x8ExtendLowI8x16S: true, wasm.OpcodeSIMDI16x8ExtendHighI8x16S: true,
	wasm.OpcodeSIMDI16x8ExtendLowI8x16U: true, wasm.OpcodeSIMDI16x8ExtendHighI8x16U: true,
	wasm.OpcodeSIMDI16x8Shl: true, wasm.OpcodeSIMDI16x8ShrS: true, wasm.OpcodeSIMDI16x8ShrU: true,
	wasm.OpcodeSIMDI16x8Add: true, wasm.OpcodeSIMDI16x8AddSatS: true, wasm.OpcodeSIMDI16x8AddSatU: true,
	wasm.OpcodeSIMDI16x8Sub: true, wasm.OpcodeSIMDI16x8SubSatS: true, wasm.OpcodeSIMDI16x8SubSatU: true,
	wasm.OpcodeSIMDI16x8Mul: true, wasm.OpcodeSIMDI16x8MinS: true, wasm.OpcodeSIMDI16x8MinU: true,
	wasm.OpcodeSIMDI16x8MaxS: true, wasm.OpcodeSIMDI16x8MaxU: true, wasm.OpcodeSIMDI16x8AvgrU: true,
	wasm.OpcodeSIMDI16x8ExtmulLowI8x16S: true, wasm.OpcodeSIMDI16x8ExtmulHighI8x16S: true,
	wasm.OpcodeSIMDI16x8ExtmulLowI8x16U: true, wasm.OpcodeSIMDI16x8ExtmulHighI8x16U: true,

	wasm.OpcodeSIMDI32x4Abs: true, wasm.OpcodeSIMDI32x4Neg: true,
	wasm.OpcodeSIMDI32x4AllTrue: true, wasm.OpcodeSIMDI32x4Bitmask: true,
	wasm.OpcodeSIMDI32x4ExtendLowI16x8S: true, wasm.OpcodeSIMDI32x4ExtendHighI16x8S: true,
	wasm.OpcodeSIMDI32x4ExtendLowI16x8U: true, wasm.OpcodeSIMDI32x4ExtendHighI16x8U: true,
	wasm.OpcodeSIMDI32x4Shl: true, wasm.OpcodeSIMDI32x4ShrS: true, wasm.OpcodeSIMDI32x4ShrU: true,
	wasm.OpcodeSIMDI32x4Add: true, wasm.OpcodeSIMDI32x4Sub: true, wasm.OpcodeSIMDI32x4Mul: true,
	wasm.OpcodeSIMDI32x4MinS: true, wasm.OpcodeSIMDI32x4MinU: true,
	wasm.OpcodeSIMDI32x4MaxS: true, wasm.OpcodeSIMDI32x4MaxU: true, wasm.OpcodeSIMDI32x4DotI16x8S: true,
	wasm.OpcodeSIMDI32x4ExtmulLowI16x8S: true, wasm.OpcodeSIMDI32x4ExtmulHighI16x8S: true,
	wasm.OpcodeSIMDI32x4ExtmulLowI16x8U: true, wasm.OpcodeSIMDI32x4ExtmulHighI16x8U: true,

	wasm.OpcodeSIMDI64x2Abs: true, wasm.OpcodeSIMDI64x2Neg: true,
	wasm.OpcodeSIMDI64x2AllTrue: true, wasm.OpcodeSIMDI64x2Bitmask: true,
	wasm.OpcodeSIMDI64x2ExtendLowI32x4S: true, wasm.OpcodeSIMDI64x2ExtendHighI32x4S: true,
	wasm.OpcodeSIMDI64x2ExtendLowI32x4U: true, wasm.OpcodeSIMDI64x2ExtendHighI32x4U: true,
	wasm.OpcodeSIMDI64x2Shl: true, wasm.OpcodeSIMDI64x2ShrS: true, wasm.OpcodeSIMDI64x2ShrU: true,
	wasm.OpcodeSIMDI64x2Add: true, wasm.OpcodeSIMDI64x2Sub: true, wasm.OpcodeSIMDI64x2Mul: true,
	wasm.OpcodeSIMDI64x2ExtmulLowI32x4S: true, wasm.OpcodeSIMDI64x2ExtmulHighI32x4S: true,
	wasm.OpcodeSIMDI64x2ExtmulLowI32x4U: true, wasm.OpcodeSIMDI64x2ExtmulHighI32x4U: true,

	wasm.OpcodeSIMDF32x4Add: true, wasm.OpcodeSIMDF32x4Sub: true, wasm.OpcodeSIMDF32x4Mul: true, wasm.OpcodeSIMDF32x4Div: true,
	wasm.OpcodeSIMDF64x2Add: true, wasm.OpcodeSIMDF64x2Sub: true, wasm.OpcodeSIMDF64x2Mul: true, wasm.OpcodeSIMDF64x2Div: true,

	wasm.OpcodeSIMDI32x4TruncSatF32x4S: true, wasm.OpcodeSIMDI32x4TruncSatF32x4U: true,
	wasm.OpcodeSIMDF32x4ConvertI32x4S: true, wasm.OpcodeSIMDF32x4ConvertI32x4U: true,
	wasm.OpcodeSIMDF32x4DemoteF64x2Zero: true, wasm.OpcodeSIMDF64x2PromoteLowF32x4: true,
	wasm.OpcodeSIMDI32x4TruncSatF64x2SZero: true, wasm.OpcodeSIMDI32x4TruncSatF64x2UZero: true,
	wasm.OpcodeSIMDF64x2ConvertLowI32x4S: true, wasm.OpcodeSIMDF64x2ConvertLowI32x4U: true,
}

// decodeSIMDImmediates decodes the 0xFD-prefixed SIMD family. Every
// recognized secondary opcode is one of: memory access (a memarg), a 128-bit
// constant, a lane index (extract_lane/replace_lane), the 16-byte lane
// selector (i8x16.shuffle), or no immediate at all (simdLaneOpcodes). An
// unrecognized secondary opcode is malformed per spec.md §4.2.
func decodeSIMDImmediates(r *Reader, inst *wasm.Instruction) error {
	sub, err := r.U32()
	if err != nil {
		return malformed("SIMD opcode: %v", err)
	}
	inst.Opcode = wasm.Opcode(0xFD<<16) | wasm.Opcode(sub)
	switch inst.Opcode {
	case wasm.OpcodeSIMDV128Load, wasm.OpcodeSIMDV128Store:
		if inst.ImmAlign, err = r.U32(); err != nil {
			return malformed("v128 memarg align: %v", err)
		}
		if inst.ImmOffset, err = r.U32(); err != nil {
			return malformed("v128 memarg offset: %v", err)
		}
	case wasm.OpcodeSIMDV128Const:
		if inst.ImmV128, err = r.V128(); err != nil {
			return malformed("v128.const: %v", err)
		}
	case wasm.OpcodeSIMDI8x16Shuffle:
		for i := range inst.ImmV128 {
			b, err := r.ReadByte()
			if err != nil {
				return malformed("i8x16.shuffle lane selector: %v", err)
			}
			inst.ImmV128[i] = b
		}
	case wasm.OpcodeSIMDI8x16ExtractLaneS, wasm.OpcodeSIMDI8x16ExtractLaneU, wasm.OpcodeSIMDI8x16ReplaceLane,
		wasm.OpcodeSIMDI16x8ExtractLaneS, wasm.OpcodeSIMDI16x8ExtractLaneU, wasm.OpcodeSIMDI16x8ReplaceLane,
		wasm.OpcodeSIMDI32x4ExtractLane, wasm.OpcodeSIMDI32x4ReplaceLane,
		wasm.OpcodeSIMDI64x2ExtractLane, wasm.OpcodeSIMDI64x2ReplaceLane,
		wasm.OpcodeSIMDF32x4ExtractLane, wasm.OpcodeSIMDF32x4ReplaceLane,
		wasm.OpcodeSIMDF64x2ExtractLane, wasm.OpcodeSIMDF64x2ReplaceLane:
		b, err := r.ReadByte()
		if err != nil {
			return malformed("lane index: %v", err)
		}
		inst.ImmV128[0] = b
	default:
		if simdLaneOpcodes[inst.Opcode] {
			return nil
		}
		return malformed("unknown SIMD (0xFD) opcode %d", sub)
	}
	return nil
}
