package corewasm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// bulkMemoryModuleWasm is the minimal binary encoding of:
//
//	(module
//	  (memory (export "memory") 1)
//	  (data $d passive "\11\22\33\44")
//	  (func (export "initLoad") (result i32)
//	    i32.const 0
//	    i32.const 0
//	    i32.const 4
//	    memory.init $d
//	    i32.const 0
//	    i32.load)
//	  (func (export "dropReinit") (result i32)
//	    data.drop $d
//	    i32.const 0
//	    i32.const 0
//	    i32.const 1
//	    memory.init $d
//	    i32.const 0))
//
// Hand-assembled the same way addModuleWasm is, with a data-count section
// (required whenever memory.init/data.drop reference a data index) and the
// bulk-memory 0xFC-prefixed misc opcodes for memory.init (sub-opcode 8,
// trailed by a reserved memory-index byte) and data.drop (sub-opcode 9).
var bulkMemoryModuleWasm = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version

	// type section: one type, () -> i32
	0x01, 0x05,
	0x01, 0x60, 0x00, 0x01, 0x7f,

	// function section: two functions, both type index 0
	0x03, 0x03,
	0x02, 0x00, 0x00,

	// memory section: one memory, min 1, no max
	0x05, 0x03,
	0x01, 0x00, 0x01,

	// export section: "initLoad" -> func 0, "dropReinit" -> func 1
	0x07, 0x19,
	0x02,
	0x08, 'i', 'n', 'i', 't', 'L', 'o', 'a', 'd', 0x00, 0x00,
	0x0a, 'd', 'r', 'o', 'p', 'R', 'e', 'i', 'n', 'i', 't', 0x00, 0x01,

	// data count section: 1 segment
	0x0c, 0x01,
	0x01,

	// code section: two function bodies
	0x0a, 0x25,
	0x02,
	// initLoad: no locals; dst=0, src=0, len=4, memory.init 0; i32.load 0
	0x11,
	0x00,
	0x41, 0x00, 0x41, 0x00, 0x41, 0x04, 0xfc, 0x08, 0x00, 0x00,
	0x41, 0x00, 0x28, 0x00, 0x00,
	0x0b,
	// dropReinit: no locals; data.drop 0; dst=0, src=0, len=1, memory.init 0
	0x11,
	0x00,
	0xfc, 0x09, 0x00,
	0x41, 0x00, 0x41, 0x00, 0x41, 0x01, 0xfc, 0x08, 0x00, 0x00,
	0x41, 0x00,
	0x0b,

	// data section: one passive segment, 4 bytes
	0x0b, 0x07,
	0x01,
	0x01, 0x04, 0x11, 0x22, 0x33, 0x44,
}

func TestRuntime_MemoryInitCopiesPassiveSegment(t *testing.T) {
	ctx := context.Background()
	r := NewRuntime(ctx, NewRuntimeConfig())

	compiled, err := r.CompileModule(ctx, bulkMemoryModuleWasm)
	require.NoError(t, err)

	mod, err := r.InstantiateModule(ctx, compiled, NewModuleConfig().WithStartFunctions())
	require.NoError(t, err)

	initLoad := mod.ExportedFunction("initLoad")
	require.NotNil(t, initLoad)

	results, err := initLoad.Call(ctx)
	require.NoError(t, err)
	require.Equal(t, []uint64{0x44332211}, results, "memory.init copies the passive segment little-endian")

	require.NoError(t, r.Close(ctx))
}

func TestRuntime_DataDropMakesLaterMemoryInitActAsLengthZero(t *testing.T) {
	ctx := context.Background()
	r := NewRuntime(ctx, NewRuntimeConfig())

	compiled, err := r.CompileModule(ctx, bulkMemoryModuleWasm)
	require.NoError(t, err)

	mod, err := r.InstantiateModule(ctx, compiled, NewModuleConfig().WithStartFunctions())
	require.NoError(t, err)

	dropReinit := mod.ExportedFunction("dropReinit")
	require.NotNil(t, dropReinit)

	// data.drop retires the segment, so the following memory.init with a
	// nonzero length reads past its now-zero-length bound and traps.
	_, err = dropReinit.Call(ctx)
	require.Error(t, err)

	require.NoError(t, r.Close(ctx))
}
