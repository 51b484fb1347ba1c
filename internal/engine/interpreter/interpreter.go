// Package interpreter executes a validated module's flat instruction stream
// directly, without compiling to native code: a simple switch-per-opcode
// loop over a program counter, using the Label values the validator already
// resolved for every branch. Structured control flow never recurses through
// nested blocks here — block/loop/if are already linearized jumps by the
// time a function body reaches this package.
package interpreter

import (
	"context"
	"fmt"
	"unsafe"

	"go.uber.org/zap"

	"github.com/corewasm/corewasm/api"
	"github.com/corewasm/corewasm/internal/buildoptions"
	"github.com/corewasm/corewasm/internal/obslog"
	"github.com/corewasm/corewasm/internal/wasm"
	"github.com/corewasm/corewasm/internal/wasmdebug"
	"github.com/corewasm/corewasm/internal/wasmruntime"
)

// DefaultCallDepthCeiling bounds the depth of nested Call/CallIndirect
// invocations the interpreter will follow before trapping with
// ErrRuntimeCallStackOverflow, guarding the Go call stack the interpreter's
// own recursive Engine.callDepth uses to execute Wasm calls.
const DefaultCallDepthCeiling = buildoptions.CallStackCeiling

// FunctionListener is notified before and after every function invocation
// (both Wasm-defined and host), letting an embedder observe calls. No
// listener is installed by default; call and trap logging goes through
// Engine.Logger instead.
type FunctionListener interface {
	Before(ctx context.Context, moduleName, funcName string, funcIdx uint32, params []uint64)
	After(ctx context.Context, moduleName, funcName string, funcIdx uint32, results []uint64, err error)
}

// Engine is the interpreter's entry point: one Engine per Store, matching
// spec.md §5's "multiple engine instances share nothing" requirement (two
// Engines never share a call-depth counter or listener).
type Engine struct {
	Logger           *zap.Logger
	Listener         FunctionListener
	CallDepthCeiling int
}

// NewEngine constructs an Engine, defaulting a nil logger to obslog's
// process-wide logger (a no-op unless obslog.SetLogger replaced it) so
// callers that don't care about structured logs never need a nil check.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = obslog.L()
	}
	return &Engine{Logger: logger, CallDepthCeiling: DefaultCallDepthCeiling}
}

// Bind wires this Engine into s as its function-call hook, the inversion
// point that lets internal/wasm's instantiation code run a module's start
// function without importing this package.
func (e *Engine) Bind(s *wasm.Store) { s.Call = e.call }

// call is the Store.Call hook, used by Store.Instantiate to run a module's
// start function. It starts at depth 0 with context.Background; exported
// api.Function calls go through CallExported, and call/call_indirect
// instructions recurse through callDepth directly.
func (e *Engine) call(fn *wasm.FunctionInstance, params []uint64) (results []uint64, err error) {
	return e.callDepth(context.Background(), fn, params, 0)
}

// CallExported is the embedder-facing entry point (api.Function.Call),
// threading the caller's context through for host functions and listener
// hooks to observe.
func (e *Engine) CallExported(ctx context.Context, fn *wasm.FunctionInstance, params []uint64) ([]uint64, error) {
	return e.callDepth(ctx, fn, params, 0)
}

func (e *Engine) callDepth(ctx context.Context, fn *wasm.FunctionInstance, params []uint64, depth int) (results []uint64, err error) {
	if depth >= e.CallDepthCeiling {
		panic(wasmruntime.ErrRuntimeCallStackOverflow)
	}

	moduleName := ""
	if fn.Module != nil {
		moduleName = fn.Module.Name
	}
	if e.Listener != nil {
		e.Listener.Before(ctx, moduleName, fn.Name, fn.Idx, params)
	}
	e.Logger.Debug("call", zap.String("module", moduleName), zap.String("func", fn.Name), zap.Uint32("index", fn.Idx))

	defer func() {
		if r := recover(); r != nil {
			eb := wasmdebug.NewErrorBuilder()
			eb.AddFrame(wasmdebug.FuncName(moduleName, fn.Name, fn.Idx), fn.Type.Params, fn.Type.Results)
			err = eb.FromRecovered(r)
			e.Logger.Warn("trap", zap.String("module", moduleName), zap.String("func", fn.Name), zap.Error(err))
		}
		if e.Listener != nil {
			e.Listener.After(ctx, moduleName, fn.Name, fn.Idx, results, err)
		}
	}()

	if fn.Code.GoFunc != nil {
		return callGoFunc(ctx, fn, params)
	}
	return e.callInterpreted(ctx, fn, params, depth)
}

func callGoFunc(ctx context.Context, fn *wasm.FunctionInstance, params []uint64) ([]uint64, error) {
	stack := make([]uint64, len(params))
	copy(stack, params)
	nResults := len(fn.Type.Results)
	if nResults > len(stack) {
		stack = append(stack, make([]uint64, nResults-len(stack))...)
	}
	switch f := fn.Code.GoFunc.(type) {
	case api.GoFunction:
		f(ctx, stack)
	case api.GoModuleFunction:
		f(ctx, nil, stack)
	default:
		return nil, fmt.Errorf("unsupported host function type %T", fn.Code.GoFunc)
	}
	return stack[:nResults], nil
}

// callFrame is one activation of a Wasm-defined function: its local
// variables (parameters first, then declared locals) and a private operand
// stack. v128 values occupy two consecutive uint64 slots (low 8 bytes, then
// high 8 bytes) on both the operand stack and locals, per spec.md §4.4.
type callFrame struct {
	locals []uint64
	stack  []uint64
	inst   *wasm.ModuleInstance
}

func (f *callFrame) push(v uint64)  { f.stack = append(f.stack, v) }
func (f *callFrame) pop() uint64 {
	v := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	return v
}
func (f *callFrame) pushV128(lo, hi uint64) { f.stack = append(f.stack, lo, hi) }
func (f *callFrame) popV128() (lo, hi uint64) {
	hi = f.pop()
	lo = f.pop()
	return
}

func v128ToBytes(lo, hi uint64) (out [16]byte) {
	for i := 0; i < 8; i++ {
		out[i] = byte(lo >> (8 * i))
		out[8+i] = byte(hi >> (8 * i))
	}
	return out
}

func bytesToV128(b [16]byte) (lo, hi uint64) {
	for i := 0; i < 8; i++ {
		lo |= uint64(b[i]) << (8 * i)
		hi |= uint64(b[8+i]) << (8 * i)
	}
	return
}

func (e *Engine) callInterpreted(ctx context.Context, fn *wasm.FunctionInstance, params []uint64, depth int) ([]uint64, error) {
	code := fn.Code
	locals := make([]uint64, len(fn.Type.Params)+len(code.LocalTypes))
	copy(locals, params)
	f := &callFrame{locals: locals, inst: fn.Module}

	pc := 0
	instrs := code.Instructions
	for pc < len(instrs) {
		inst := &instrs[pc]
		if inst.Opcode == wasm.OpcodeReturn {
			break
		}
		next, err := e.step(ctx, f, inst, pc, depth)
		if err != nil {
			return nil, err
		}
		pc = next
	}

	nResults := len(fn.Type.Results)
	results := make([]uint64, nResults)
	// the validator guarantees exactly nResults values remain on a well-typed
	// function's stack at its implicit end.
	copy(results, f.stack[len(f.stack)-nResults:])
	return results, nil
}

// step executes the instruction at pc and returns the next program counter.
// Most opcodes simply return pc+1; control-flow opcodes branch by returning
// a Label's resolved Position instead.
func (e *Engine) step(ctx context.Context, f *callFrame, inst *wasm.Instruction, pc, depth int) (int, error) {
	switch inst.Opcode {
	case wasm.OpcodeUnreachable:
		panic(wasmruntime.ErrRuntimeUnreachable)
	case wasm.OpcodeNop, wasm.OpcodeBlock:
		return pc + 1, nil
	case wasm.OpcodeLoop:
		return pc + 1, nil
	case wasm.OpcodeIf:
		cond := uint32(f.pop())
		if cond != 0 {
			return pc + 1, nil
		}
		if inst.ImmElsePC < 0 {
			return inst.ImmLabel.Position, nil
		}
		return inst.ImmElsePC, nil
	case wasm.OpcodeElse:
		return inst.ImmElsePC, nil
	case wasm.OpcodeEnd:
		return pc + 1, nil

	case wasm.OpcodeBr:
		branchTo(f, inst.ImmLabel)
		return inst.ImmLabel.Position, nil
	case wasm.OpcodeBrIf:
		cond := uint32(f.pop())
		if cond == 0 {
			return pc + 1, nil
		}
		branchTo(f, inst.ImmLabel)
		return inst.ImmLabel.Position, nil
	case wasm.OpcodeBrTable:
		idx := uint32(f.pop())
		var lbl *wasm.Label
		if int(idx) < len(inst.ImmLabels)-1 {
			lbl = inst.ImmLabels[idx]
		} else {
			lbl = inst.ImmLabels[len(inst.ImmLabels)-1]
		}
		branchTo(f, lbl)
		return lbl.Position, nil
	case wasm.OpcodeCall:
		callee := f.inst.Functions[inst.ImmIndex]
		params := popN(f, len(callee.Type.Params))
		res, err := e.callDepth(ctx, callee, params, depth+1)
		if err != nil {
			return 0, err
		}
		pushAll(f, res)
		return pc + 1, nil

	case wasm.OpcodeCallIndirect:
		tableIdx := inst.ImmIndex2
		typeIdx := inst.ImmIndex
		elemIdx := uint32(f.pop())
		table := f.inst.Tables[tableIdx]
		if elemIdx >= uint32(len(table.Elems)) {
			panic(wasmruntime.ErrRuntimeInvalidTableAccess)
		}
		elem := table.Elems[elemIdx]
		if elem.Function == nil {
			panic(wasmruntime.ErrRuntimeUninitializedElement)
		}
		wantType := &f.inst.Module.Types[typeIdx]
		if !elem.Function.Type.EqualsSignature(wantType.Params, wantType.Results) {
			panic(wasmruntime.ErrRuntimeIndirectCallTypeMismatch)
		}
		params := popN(f, len(elem.Function.Type.Params))
		res, err := e.callDepth(ctx, elem.Function, params, depth+1)
		if err != nil {
			return 0, err
		}
		pushAll(f, res)
		return pc + 1, nil

	case wasm.OpcodeDrop:
		f.pop()
		return pc + 1, nil
	case wasm.OpcodeSelect, wasm.OpcodeSelectT:
		cond := uint32(f.pop())
		if inst.ImmValueType == wasm.ValueTypeV128 {
			bLo, bHi := f.popV128()
			aLo, aHi := f.popV128()
			if cond != 0 {
				f.pushV128(aLo, aHi)
			} else {
				f.pushV128(bLo, bHi)
			}
			return pc + 1, nil
		}
		b := f.pop()
		a := f.pop()
		if cond != 0 {
			f.push(a)
		} else {
			f.push(b)
		}
		return pc + 1, nil

	case wasm.OpcodeLocalGet:
		f.push(f.locals[inst.ImmIndex])
		return pc + 1, nil
	case wasm.OpcodeLocalSet:
		f.locals[inst.ImmIndex] = f.pop()
		return pc + 1, nil
	case wasm.OpcodeLocalTee:
		f.locals[inst.ImmIndex] = f.stack[len(f.stack)-1]
		return pc + 1, nil

	case wasm.OpcodeGlobalGet:
		f.push(f.inst.Globals[inst.ImmIndex].Value)
		return pc + 1, nil
	case wasm.OpcodeGlobalSet:
		f.inst.Globals[inst.ImmIndex].Value = f.pop()
		return pc + 1, nil

	case wasm.OpcodeTableGet:
		idx := uint32(f.pop())
		table := f.inst.Tables[inst.ImmIndex]
		if idx >= uint32(len(table.Elems)) {
			panic(wasmruntime.ErrRuntimeInvalidTableAccess)
		}
		f.push(funcRefToU64(table.Elems[idx].Function))
		return pc + 1, nil
	case wasm.OpcodeTableSet:
		ref := f.pop()
		idx := uint32(f.pop())
		table := f.inst.Tables[inst.ImmIndex]
		if idx >= uint32(len(table.Elems)) {
			panic(wasmruntime.ErrRuntimeInvalidTableAccess)
		}
		table.Elems[idx] = TableElementFromU64(f.inst, ref)
		return pc + 1, nil

	case wasm.OpcodeI32Const:
		f.push(uint64(uint32(inst.ImmI32)))
		return pc + 1, nil
	case wasm.OpcodeI64Const:
		f.push(uint64(inst.ImmI64))
		return pc + 1, nil
	case wasm.OpcodeF32Const:
		f.push(uint64(inst.ImmF32))
		return pc + 1, nil
	case wasm.OpcodeF64Const:
		f.push(inst.ImmF64)
		return pc + 1, nil

	case wasm.OpcodeRefNull:
		f.push(0)
		return pc + 1, nil
	case wasm.OpcodeRefFunc:
		f.push(funcRefToU64(f.inst.Functions[inst.ImmIndex]))
		return pc + 1, nil
	case wasm.OpcodeRefIsNull:
		v := f.pop()
		if v == 0 {
			f.push(1)
		} else {
			f.push(0)
		}
		return pc + 1, nil

	case wasm.OpcodeMemorySize:
		f.push(uint64(f.inst.Memories[0].PageSize()))
		return pc + 1, nil
	case wasm.OpcodeMemoryGrow:
		delta := uint32(f.pop())
		prev, ok := f.inst.Memories[0].Grow(delta)
		if !ok {
			f.push(uint64(uint32(0xffffffff)))
		} else {
			f.push(uint64(prev))
		}
		return pc + 1, nil

	default:
		if handled, next, err := e.stepMemoryOrArith(f, inst, pc); handled {
			return next, err
		}
		// Every opcode the decoder emits and the validator accepts has a case
		// above or in stepMemoryOrArith. Reaching here means the engine is
		// missing an opcode the rest of the pipeline already considers legal,
		// which is an engine bug, not something a Wasm module can trigger.
		panic(fmt.Sprintf("interpreter: unhandled opcode 0x%x", uint32(inst.Opcode)))
	}
}

// branchTo truncates f's operand stack back down to the target label's
// entry height, keeping only the Arity values the branch carries, per
// spec.md §4.7's branch semantics.
func branchTo(f *callFrame, lbl *wasm.Label) {
	carried := f.stack[len(f.stack)-lbl.Arity:]
	kept := make([]uint64, lbl.Arity)
	copy(kept, carried)
	f.stack = append(f.stack[:lbl.StackHeight], kept...)
}

func popN(f *callFrame, n int) []uint64 {
	params := make([]uint64, n)
	copy(params, f.stack[len(f.stack)-n:])
	f.stack = f.stack[:len(f.stack)-n]
	return params
}

func pushAll(f *callFrame, vs []uint64) {
	f.stack = append(f.stack, vs...)
}

// funcRefToU64 and TableElementFromU64 round-trip a *wasm.FunctionInstance
// through the operand stack's uint64 slots as a raw pointer value. A
// module-local function index isn't enough here: table.get can hand back a
// reference to a function owned by an entirely different module (imported
// tables, cross-module element segments), so the only identity that's valid
// everywhere is the pointer itself. The referenced FunctionInstance stays
// reachable via its owning ModuleInstance for as long as that module is
// instantiated, so this never outlives its target.
func funcRefToU64(fn *wasm.FunctionInstance) uint64 {
	if fn == nil {
		return 0
	}
	return uint64(uintptr(unsafe.Pointer(fn)))
}

// TableElementFromU64 decodes table.set's operand back into a TableElement.
// Exported for the root package's table-growth fill path, which writes the
// same encoding when materializing a grow's init value.
func TableElementFromU64(_ *wasm.ModuleInstance, v uint64) wasm.TableElement {
	if v == 0 {
		return wasm.TableElement{}
	}
	return wasm.TableElement{Function: (*wasm.FunctionInstance)(unsafe.Pointer(uintptr(v)))}
}
