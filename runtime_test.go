package corewasm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// addModuleWasm is the minimal binary encoding of:
//
//	(module
//	  (memory (export "memory") 1)
//	  (func (export "add") (param i32 i32) (result i32)
//	    local.get 0
//	    local.get 1
//	    i32.add))
//
// Hand-assembled the same way upstream Wasm test suites build fixture
// binaries: magic+version, then type/function/memory/export/code sections,
// each a byte-length-prefixed payload of LEB128-encoded fields.
var addModuleWasm = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version

	// type section: one type, (i32, i32) -> i32
	0x01, 0x07,
	0x01, 0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f,

	// function section: one function, type index 0
	0x03, 0x02,
	0x01, 0x00,

	// memory section: one memory, min 1, no max
	0x05, 0x03,
	0x01, 0x00, 0x01,

	// export section: "memory" -> memory 0, "add" -> func 0
	0x07, 0x10,
	0x02,
	0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
	0x03, 'a', 'd', 'd', 0x00, 0x00,

	// code section: one function body, no locals, local.get 0; local.get 1; i32.add; end
	0x0a, 0x09,
	0x01,
	0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6a, 0x0b,
}

func TestRuntime_CompileInstantiateCall(t *testing.T) {
	ctx := context.Background()
	r := NewRuntime(ctx, NewRuntimeConfig())

	compiled, err := r.CompileModule(ctx, addModuleWasm)
	require.NoError(t, err)

	mod, err := r.InstantiateModule(ctx, compiled, NewModuleConfig().WithStartFunctions())
	require.NoError(t, err)
	require.NotNil(t, mod.Memory())

	add := mod.ExportedFunction("add")
	require.NotNil(t, add)

	results, err := add.Call(ctx, 3, 4)
	require.NoError(t, err)
	require.Equal(t, []uint64{7}, results)

	require.NoError(t, r.Close(ctx))
}

func TestRuntime_InstantiateModuleRegistersByName(t *testing.T) {
	ctx := context.Background()
	r := NewRuntime(ctx, NewRuntimeConfig())

	compiled, err := r.CompileModule(ctx, addModuleWasm)
	require.NoError(t, err)

	_, err = r.InstantiateModule(ctx, compiled, NewModuleConfig().WithName("math").WithStartFunctions())
	require.NoError(t, err)

	// A second instantiation under another name registers a second module
	// in the shared Store namespace via internal/wasm.Store.Register.
	_, err = r.InstantiateModule(ctx, compiled, NewModuleConfig().WithName("math2").WithStartFunctions())
	require.NoError(t, err)
}

func TestRuntime_CompileModuleCapsUndeclaredMemoryMax(t *testing.T) {
	ctx := context.Background()
	r := NewRuntime(ctx, NewRuntimeConfig().WithMemoryMaxPages(0))

	_, err := r.CompileModule(ctx, addModuleWasm)
	require.NoError(t, err, "memory section declares no max, so it is capped rather than rejected")
}
