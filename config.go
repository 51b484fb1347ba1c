package corewasm

import (
	"context"
	"strings"

	"github.com/corewasm/corewasm/api"
	"github.com/corewasm/corewasm/internal/wasm"
)

// RuntimeConfig controls behavior shared by every module a Runtime compiles
// and instantiates: which Core spec features are recorded as enabled and how
// large a memory.grow is allowed to reach. The feature set is stored but not
// checked: decoding and validation accept every supported feature whatever
// it says. There is only one execution strategy, the interpreter of
// internal/engine/interpreter, since native code generation is out of scope
// here.
type RuntimeConfig struct {
	enabledFeatures api.CoreFeatures
	ctx             context.Context
	memoryMaxPages  uint32
}

// NewRuntimeConfig returns the default config: WebAssembly Core 1.0
// features plus mutable globals, and the spec-maximum memory ceiling.
func NewRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		enabledFeatures: api.CoreFeaturesV1,
		ctx:             context.Background(),
		memoryMaxPages:  wasm.MemoryLimitPages,
	}
}

func (c *RuntimeConfig) clone() *RuntimeConfig {
	ret := *c
	return &ret
}

// WithContext records ctx on the config. The recorded context is not used
// by the Runtime: start functions run with the context passed to
// InstantiateModule, and api.Function calls given a nil context use
// context.Background.
func (c *RuntimeConfig) WithContext(ctx context.Context) *RuntimeConfig {
	if ctx == nil {
		ctx = context.Background()
	}
	ret := c.clone()
	ret.ctx = ctx
	return ret
}

// WithMemoryMaxPages caps memory.grow below the Core spec's 65536-page
// (4GiB) ceiling. A module that declares a larger max fails to compile.
func (c *RuntimeConfig) WithMemoryMaxPages(memoryMaxPages uint32) *RuntimeConfig {
	ret := c.clone()
	ret.memoryMaxPages = memoryMaxPages
	return ret
}

// WithCoreFeatures replaces the enabled feature set wholesale. Use
// api.CoreFeaturesV1 or api.CoreFeaturesV2, optionally adjusted with
// CoreFeatures.SetEnabled. The set is recorded only; no module is rejected
// for using a feature it leaves disabled.
func (c *RuntimeConfig) WithCoreFeatures(features api.CoreFeatures) *RuntimeConfig {
	ret := c.clone()
	ret.enabledFeatures = features
	return ret
}

// WithFeatureMutableGlobal toggles the mutable-global feature, unconditionally
// enabled in CoreFeaturesV1.
func (c *RuntimeConfig) WithFeatureMutableGlobal(enabled bool) *RuntimeConfig {
	ret := c.clone()
	ret.enabledFeatures = ret.enabledFeatures.SetEnabled(api.CoreFeatureMutableGlobal, enabled)
	return ret
}

// WithFeatureSignExtensionOps toggles i32.extend8_s and friends.
func (c *RuntimeConfig) WithFeatureSignExtensionOps(enabled bool) *RuntimeConfig {
	ret := c.clone()
	ret.enabledFeatures = ret.enabledFeatures.SetEnabled(api.CoreFeatureSignExtensionOps, enabled)
	return ret
}

// WithFeatureMultiValue toggles functions and blocks returning more than
// one value.
func (c *RuntimeConfig) WithFeatureMultiValue(enabled bool) *RuntimeConfig {
	ret := c.clone()
	ret.enabledFeatures = ret.enabledFeatures.SetEnabled(api.CoreFeatureMultiValue, enabled)
	return ret
}

// WithFeatureSIMD toggles the v128 value type and its instructions.
func (c *RuntimeConfig) WithFeatureSIMD(enabled bool) *RuntimeConfig {
	ret := c.clone()
	ret.enabledFeatures = ret.enabledFeatures.SetEnabled(api.CoreFeatureSIMD, enabled)
	return ret
}

// CompiledModule is a decoded and validated Wasm binary, ready to be
// instantiated one or more times via Runtime.InstantiateModule. Named
// distinctly from "Module" to avoid conflating the pre- and
// post-instantiation phases, matching the Core spec's own semantic phases.
type CompiledModule interface {
	// Close releases resources owned by this CompiledModule. A Runtime
	// closes every CompiledModule it created when it is itself closed.
	Close() error
}

type compiledModule struct {
	module *wasm.Module
}

func (c *compiledModule) Close() error { return nil }

// ModuleConfig configures one instantiation of a CompiledModule: its
// instance name, the start functions to invoke, and any import rewiring
// needed to satisfy a module compiled against a different host ABI than
// the one this embedder provides.
//
// Host process interaction (stdio, environment, filesystem preopens) is
// deliberately absent: this runtime has no WASI layer, so there is nothing
// for such a config surface to wire up.
type ModuleConfig struct {
	name           string
	startFunctions []string

	// replacedImports holds the latest state of WithImport, keyed on a
	// NUL-delimited "module\x00name" since either half may contain any
	// UTF-8 byte sequence.
	replacedImports map[string][2]string
	// replacedImportModules holds the latest state of WithImportModule.
	replacedImportModules map[string]string
}

// NewModuleConfig returns a ModuleConfig that invokes "_start" after
// instantiation, matching the Core spec's start-function convention.
func NewModuleConfig() *ModuleConfig {
	return &ModuleConfig{startFunctions: []string{"_start"}}
}

func (c *ModuleConfig) clone() *ModuleConfig {
	ret := *c
	return &ret
}

// WithName overrides the instance name, otherwise taken from the module's
// custom name section.
func (c *ModuleConfig) WithName(name string) *ModuleConfig {
	ret := c.clone()
	ret.name = name
	return ret
}

// WithStartFunctions replaces which exported functions run, in order,
// immediately after instantiation. A name that doesn't exist is skipped
// rather than erroring, so the same config works across compatible module
// versions that only sometimes export a given hook.
func (c *ModuleConfig) WithStartFunctions(startFunctions ...string) *ModuleConfig {
	ret := c.clone()
	ret.startFunctions = startFunctions
	return ret
}

// WithImport rewrites a specific (module, name) import pair to resolve
// against a different (module, name) pair instead, letting a guest module
// compiled against one host ABI name be satisfied by a host module
// registered under another. WithImport entries are applied after any
// WithImportModule entries.
func (c *ModuleConfig) WithImport(oldModule, oldName, newModule, newName string) *ModuleConfig {
	ret := c.clone()
	ret.replacedImports = cloneImportMap(c.replacedImports)
	if ret.replacedImports == nil {
		ret.replacedImports = map[string][2]string{}
	}
	var b strings.Builder
	b.WriteString(oldModule)
	b.WriteByte(0)
	b.WriteString(oldName)
	ret.replacedImports[b.String()] = [2]string{newModule, newName}
	return ret
}

// WithImportModule rewrites every import from oldModule to resolve against
// newModule instead, for bulk-renaming a whole ABI module (e.g. an older
// unstable name transitioning to a stabilized one).
func (c *ModuleConfig) WithImportModule(oldModule, newModule string) *ModuleConfig {
	ret := c.clone()
	ret.replacedImportModules = cloneModuleMap(c.replacedImportModules)
	if ret.replacedImportModules == nil {
		ret.replacedImportModules = map[string]string{}
	}
	ret.replacedImportModules[oldModule] = newModule
	return ret
}

func cloneImportMap(m map[string][2]string) map[string][2]string {
	if m == nil {
		return nil
	}
	ret := make(map[string][2]string, len(m))
	for k, v := range m {
		ret[k] = v
	}
	return ret
}

func cloneModuleMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	ret := make(map[string]string, len(m))
	for k, v := range m {
		ret[k] = v
	}
	return ret
}

// replaceImports applies WithImportModule then WithImport to a copy of
// module's Imports, leaving module itself untouched so the same
// CompiledModule can be instantiated multiple times with different
// ModuleConfigs.
func (c *ModuleConfig) replaceImports(module *wasm.Module) *wasm.Module {
	if c.replacedImportModules == nil && c.replacedImports == nil {
		return module
	}

	ret := *module
	imports := make([]wasm.Import, len(module.Imports))
	copy(imports, module.Imports)

	for oldModule, newModule := range c.replacedImportModules {
		for i := range imports {
			if imports[i].Module == oldModule {
				imports[i].Module = newModule
			}
		}
	}
	for key, newImport := range c.replacedImports {
		nulIdx := strings.IndexByte(key, 0)
		oldModule, oldName := key[:nulIdx], key[nulIdx+1:]
		for i := range imports {
			if imports[i].Module == oldModule && imports[i].Name == oldName {
				imports[i].Module, imports[i].Name = newImport[0], newImport[1]
			}
		}
	}
	ret.Imports = imports
	return &ret
}
