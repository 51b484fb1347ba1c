package corewasm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corewasm/corewasm/api"
	"github.com/corewasm/corewasm/internal/wasm"
)

func TestRuntimeConfig_Defaults(t *testing.T) {
	c := NewRuntimeConfig()
	require.Equal(t, api.CoreFeaturesV1, c.enabledFeatures)
	require.Equal(t, uint32(wasm.MemoryLimitPages), c.memoryMaxPages)
}

func TestRuntimeConfig_ImmutableChaining(t *testing.T) {
	base := NewRuntimeConfig()
	withSIMD := base.WithFeatureSIMD(true)

	require.False(t, base.enabledFeatures.IsEnabled(api.CoreFeatureSIMD))
	require.True(t, withSIMD.enabledFeatures.IsEnabled(api.CoreFeatureSIMD))
}

func TestRuntimeConfig_WithMemoryMaxPages(t *testing.T) {
	c := NewRuntimeConfig().WithMemoryMaxPages(10)
	require.Equal(t, uint32(10), c.memoryMaxPages)
}

func TestModuleConfig_WithImport(t *testing.T) {
	module := &wasm.Module{
		Imports: []wasm.Import{
			{Type: api.ExternTypeFunc, Module: "env", Name: "log"},
			{Type: api.ExternTypeFunc, Module: "env", Name: "abort"},
		},
	}

	cfg := NewModuleConfig().WithImport("env", "log", "host", "write_log")
	replaced := cfg.replaceImports(module)

	require.Equal(t, "host", replaced.Imports[0].Module)
	require.Equal(t, "write_log", replaced.Imports[0].Name)
	require.Equal(t, "env", replaced.Imports[1].Module, "unreplaced import is untouched")
	require.NotSame(t, module, replaced, "replaceImports must not mutate the original")
	require.Equal(t, "env", module.Imports[0].Module, "original module's imports are untouched")
}

func TestModuleConfig_WithImportModule(t *testing.T) {
	module := &wasm.Module{
		Imports: []wasm.Import{
			{Type: api.ExternTypeFunc, Module: "wasi_unstable", Name: "fd_write"},
		},
	}

	replaced := NewModuleConfig().WithImportModule("wasi_unstable", "wasi_snapshot_preview1").replaceImports(module)
	require.Equal(t, "wasi_snapshot_preview1", replaced.Imports[0].Module)
}

func TestModuleConfig_NoReplacementsReturnsSameModule(t *testing.T) {
	module := &wasm.Module{}
	require.Same(t, module, NewModuleConfig().replaceImports(module))
}
