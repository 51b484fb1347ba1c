package corewasm

import (
	"context"
	"fmt"
	"reflect"

	"github.com/corewasm/corewasm/api"
	closenotify "github.com/corewasm/corewasm/internal/close"
	"github.com/corewasm/corewasm/internal/engine/interpreter"
	"github.com/corewasm/corewasm/internal/wasm"
)

// moduleWrapper adapts an instantiated *wasm.ModuleInstance to api.Module,
// the only boundary where internal/wasm's uint64-bit-pattern value model is
// translated into the typed Memory/Table/Global/Function accessors an
// embedder calls.
type moduleWrapper struct {
	inst   *wasm.ModuleInstance
	engine *interpreter.Engine
}

func (m *moduleWrapper) String() string { return fmt.Sprintf("Module[%s]", m.inst.Name) }

func (m *moduleWrapper) Name() string { return m.inst.Name }

func (m *moduleWrapper) Memory() api.Memory {
	if len(m.inst.Memories) == 0 {
		return nil
	}
	return &memoryWrapper{mem: m.inst.Memories[0]}
}

func (m *moduleWrapper) ExportedFunction(name string) api.Function {
	fn, ok := m.inst.ExportedFunctions[name]
	if !ok {
		return nil
	}
	return &functionWrapper{fn: fn, engine: m.engine, mod: m}
}

func (m *moduleWrapper) ExportedTable(name string) api.Table {
	t, ok := m.inst.ExportedTables[name]
	if !ok {
		return nil
	}
	return &tableWrapper{table: t}
}

func (m *moduleWrapper) ExportedMemory(name string) api.Memory {
	mem, ok := m.inst.ExportedMemories[name]
	if !ok {
		return nil
	}
	return &memoryWrapper{mem: mem}
}

func (m *moduleWrapper) ExportedGlobal(name string) api.Global {
	g, ok := m.inst.ExportedGlobals[name]
	if !ok {
		return nil
	}
	if g.Type.Mutable {
		return &mutableGlobalWrapper{globalWrapper{global: g}}
	}
	return &globalWrapper{global: g}
}

// CloseWithExitCode releases this instance's namespace registration and, if
// ctx carries a close.Notification (e.g. one a host function stashed there
// to learn when its importing module shuts down), notifies it with the
// given exit code before returning.
func (m *moduleWrapper) CloseWithExitCode(ctx context.Context, exitCode uint32) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if n, ok := ctx.Value(closenotify.NotificationKey{}).(closenotify.Notification); ok {
		n.OnClose(ctx, exitCode)
	}
	return m.inst.Close()
}

func (m *moduleWrapper) Close(ctx context.Context) error {
	return m.CloseWithExitCode(ctx, 0)
}

// functionWrapper adapts a *wasm.FunctionInstance to api.Function.
type functionWrapper struct {
	fn     *wasm.FunctionInstance
	engine *interpreter.Engine
	mod    *moduleWrapper
}

func (f *functionWrapper) Definition() api.FunctionDefinition { return &functionDefinition{fn: f.fn} }

func (f *functionWrapper) Call(ctx context.Context, params ...uint64) ([]uint64, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := f.mod.inst.FailIfClosed(); err != nil {
		return nil, err
	}
	return f.engine.CallExported(ctx, f.fn, params)
}

type functionDefinition struct {
	fn *wasm.FunctionInstance
}

func (d *functionDefinition) ModuleName() string { return d.fn.Module.Name }
func (d *functionDefinition) Index() uint32      { return d.fn.Idx }
func (d *functionDefinition) Name() string       { return d.fn.Name }

func (d *functionDefinition) DebugName() string {
	if d.fn.Name != "" {
		return fmt.Sprintf("%s.%s", d.fn.Module.Name, d.fn.Name)
	}
	return fmt.Sprintf("%s.$%d", d.fn.Module.Name, d.fn.Idx)
}

func (d *functionDefinition) Import() (moduleName, name string, isImport bool) {
	return "", "", false
}

func (d *functionDefinition) ExportNames() []string {
	var names []string
	for name, fn := range d.fn.Module.ExportedFunctions {
		if fn == d.fn {
			names = append(names, name)
		}
	}
	return names
}

func (d *functionDefinition) GoFunc() *reflect.Value {
	if d.fn.Code == nil || d.fn.Code.GoFunc == nil {
		return nil
	}
	v := reflect.ValueOf(d.fn.Code.GoFunc)
	return &v
}

func (d *functionDefinition) ParamTypes() []api.ValueType  { return d.fn.Type.Params }
func (d *functionDefinition) ParamNames() []string         { return nil }
func (d *functionDefinition) ResultTypes() []api.ValueType { return d.fn.Type.Results }

// tableWrapper adapts a *wasm.TableInstance to api.Table.
type tableWrapper struct {
	table *wasm.TableInstance
}

func (t *tableWrapper) Type() api.ValueType { return t.table.Type.ElemType }
func (t *tableWrapper) Size() uint32        { return uint32(len(t.table.Elems)) }

func (t *tableWrapper) Grow(delta uint32, init uintptr) (previousSize uint32) {
	cur := uint32(len(t.table.Elems))
	if delta == 0 {
		return cur
	}
	newSize := uint64(cur) + uint64(delta)
	if t.table.Type.IsMaxEncoded && newSize > uint64(t.table.Type.Max) {
		return 0xffffffff
	}
	grown := make([]wasm.TableElement, newSize)
	copy(grown, t.table.Elems)
	for i := cur; i < uint32(newSize); i++ {
		grown[i] = interpreter.TableElementFromU64(nil, uint64(init))
	}
	t.table.Elems = grown
	return cur
}

// memoryWrapper adapts a *wasm.MemoryInstance to api.Memory.
type memoryWrapper struct {
	mem *wasm.MemoryInstance
}

func (m *memoryWrapper) Size(context.Context) uint32 { return uint32(len(m.mem.Buffer)) }

func (m *memoryWrapper) Grow(ctx context.Context, deltaPages uint32) (previousPages uint32, ok bool) {
	return m.mem.Grow(deltaPages)
}

func (m *memoryWrapper) inBounds(offset uint32, size uint32) bool {
	return uint64(offset)+uint64(size) <= uint64(len(m.mem.Buffer))
}

func (m *memoryWrapper) ReadByte(ctx context.Context, offset uint32) (byte, bool) {
	if !m.inBounds(offset, 1) {
		return 0, false
	}
	return m.mem.Buffer[offset], true
}

func (m *memoryWrapper) ReadUint16Le(ctx context.Context, offset uint32) (uint16, bool) {
	if !m.inBounds(offset, 2) {
		return 0, false
	}
	return uint16(m.mem.Buffer[offset]) | uint16(m.mem.Buffer[offset+1])<<8, true
}

func (m *memoryWrapper) ReadUint32Le(ctx context.Context, offset uint32) (uint32, bool) {
	if !m.inBounds(offset, 4) {
		return 0, false
	}
	b := m.mem.Buffer[offset : offset+4]
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, true
}

func (m *memoryWrapper) ReadFloat32Le(ctx context.Context, offset uint32) (float32, bool) {
	v, ok := m.ReadUint32Le(ctx, offset)
	if !ok {
		return 0, false
	}
	return api.DecodeF32(uint64(v)), true
}

func (m *memoryWrapper) ReadUint64Le(ctx context.Context, offset uint32) (uint64, bool) {
	if !m.inBounds(offset, 8) {
		return 0, false
	}
	b := m.mem.Buffer[offset : offset+8]
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v, true
}

func (m *memoryWrapper) ReadFloat64Le(ctx context.Context, offset uint32) (float64, bool) {
	v, ok := m.ReadUint64Le(ctx, offset)
	if !ok {
		return 0, false
	}
	return api.DecodeF64(v), true
}

func (m *memoryWrapper) Read(ctx context.Context, offset, byteCount uint32) ([]byte, bool) {
	if !m.inBounds(offset, byteCount) {
		return nil, false
	}
	return m.mem.Buffer[offset : offset+byteCount], true
}

func (m *memoryWrapper) WriteByte(ctx context.Context, offset uint32, v byte) bool {
	if !m.inBounds(offset, 1) {
		return false
	}
	m.mem.Buffer[offset] = v
	return true
}

func (m *memoryWrapper) WriteUint16Le(ctx context.Context, offset uint32, v uint16) bool {
	if !m.inBounds(offset, 2) {
		return false
	}
	m.mem.Buffer[offset] = byte(v)
	m.mem.Buffer[offset+1] = byte(v >> 8)
	return true
}

func (m *memoryWrapper) WriteUint32Le(ctx context.Context, offset, v uint32) bool {
	if !m.inBounds(offset, 4) {
		return false
	}
	b := m.mem.Buffer[offset : offset+4]
	b[0], b[1], b[2], b[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
	return true
}

func (m *memoryWrapper) WriteFloat32Le(ctx context.Context, offset uint32, v float32) bool {
	return m.WriteUint32Le(ctx, offset, uint32(api.EncodeF32(v)))
}

func (m *memoryWrapper) WriteUint64Le(ctx context.Context, offset uint32, v uint64) bool {
	if !m.inBounds(offset, 8) {
		return false
	}
	b := m.mem.Buffer[offset : offset+8]
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	return true
}

func (m *memoryWrapper) WriteFloat64Le(ctx context.Context, offset uint32, v float64) bool {
	return m.WriteUint64Le(ctx, offset, api.EncodeF64(v))
}

func (m *memoryWrapper) Write(ctx context.Context, offset uint32, v []byte) bool {
	if !m.inBounds(offset, uint32(len(v))) {
		return false
	}
	copy(m.mem.Buffer[offset:], v)
	return true
}

// globalWrapper adapts a *wasm.GlobalInstance to api.Global/api.MutableGlobal.
type globalWrapper struct {
	global *wasm.GlobalInstance
}

func (g *globalWrapper) String() string {
	return fmt.Sprintf("Global(%s,%v)", api.ValueTypeName(g.global.Type.ValType), g.global.Value)
}
func (g *globalWrapper) Type() api.ValueType        { return g.global.Type.ValType }
func (g *globalWrapper) Get(context.Context) uint64 { return g.global.Value }

// mutableGlobalWrapper additionally exposes Set, returned from
// ExportedGlobal only when the underlying global was declared mutable, so
// a type assertion to api.MutableGlobal faithfully reflects immutability.
type mutableGlobalWrapper struct {
	globalWrapper
}

func (g *mutableGlobalWrapper) Set(ctx context.Context, v uint64) {
	g.global.Value = v
}

var (
	_ api.Global        = (*globalWrapper)(nil)
	_ api.MutableGlobal = (*mutableGlobalWrapper)(nil)
)
