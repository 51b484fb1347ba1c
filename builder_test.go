package corewasm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corewasm/corewasm/api"
)

func TestHostModuleBuilder_Compile(t *testing.T) {
	r := &runtime{config: NewRuntimeConfig()}
	b := r.NewHostModuleBuilder("env")

	b.NewFunctionBuilder().
		WithFunc(func(x, y uint32) uint32 { return x + y }).
		WithName("add").
		Export("add")
	b.ExportMemory("memory", 1)

	compiled, err := b.Compile(context.Background())
	require.NoError(t, err)

	cm := compiled.(*compiledModule)
	require.Len(t, cm.module.ExportSection, 2)
	require.Equal(t, "add", cm.module.ExportSection[0].Name)
	require.Equal(t, api.ExternTypeFunc, cm.module.ExportSection[0].Type)
	require.Equal(t, "memory", cm.module.ExportSection[1].Name)
	require.Equal(t, api.ExternTypeMemory, cm.module.ExportSection[1].Type)
}

func TestHostModuleBuilder_ExportMemoryWithMaxExceedingLimitFails(t *testing.T) {
	r := &runtime{config: NewRuntimeConfig().WithMemoryMaxPages(1)}
	b := r.NewHostModuleBuilder("env")
	b.ExportMemoryWithMax("memory", 1, 2)

	_, err := b.Compile(context.Background())
	require.Error(t, err)
}

func TestHostFunctionBuilder_WithGoFunctionSkipsReflection(t *testing.T) {
	r := &runtime{config: NewRuntimeConfig()}
	b := r.NewHostModuleBuilder("env")

	called := false
	b.NewFunctionBuilder().
		WithGoFunction(func(ctx context.Context, stack []uint64) { called = true }, nil, nil).
		Export("noop")

	compiled, err := b.Compile(context.Background())
	require.NoError(t, err)
	cm := compiled.(*compiledModule)
	hf := cm.module.CodeSection[0].GoFunc.(api.GoFunction)
	hf(context.Background(), nil)
	require.True(t, called)
}

func TestHostFunctionBuilder_ExportPanicsOnBadSignature(t *testing.T) {
	r := &runtime{config: NewRuntimeConfig()}
	b := r.NewHostModuleBuilder("env")

	require.Panics(t, func() {
		b.NewFunctionBuilder().WithFunc("not a func").Export("oops")
	})
}
