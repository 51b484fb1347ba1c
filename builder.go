package corewasm

import (
	"context"
	"fmt"

	"github.com/corewasm/corewasm/api"
	"github.com/corewasm/corewasm/internal/wasm"
)

// HostFunctionBuilder defines a single host function, in Go, that an
// instantiated Wasm module can import and call.
//
//	env.NewFunctionBuilder().
//		WithFunc(func(ctx context.Context, x, y uint32) uint32 { return x + y }).
//		Export("add")
//
// WithGoFunction/WithGoModuleFunction skip the reflection WithFunc does,
// trading a little ergonomics for a function that runs with no per-call
// allocation.
type HostFunctionBuilder interface {
	// WithGoFunction registers fn directly against the given signature,
	// bypassing reflection entirely.
	WithGoFunction(fn api.GoFunction, params, results []api.ValueType) HostFunctionBuilder

	// WithGoModuleFunction is WithGoFunction for a function that also
	// needs the calling api.Module, e.g. to read its exported memory.
	WithGoModuleFunction(fn api.GoModuleFunction, params, results []api.ValueType) HostFunctionBuilder

	// WithFunc uses reflection to adapt an arbitrary Go func into a host
	// function. Aside from an optional leading context.Context and an
	// optional (after context.Context) api.Module parameter, every
	// parameter and result must be one of uint32, int32, uint64, int64,
	// float32 or float64. A trailing error result is allowed: returning a
	// non-nil error traps the call instead of producing a value.
	WithFunc(fn interface{}) HostFunctionBuilder

	// WithName sets this function's module-local debug name.
	WithName(name string) HostFunctionBuilder

	// WithParameterNames sets debug names for every parameter, in order.
	WithParameterNames(names ...string) HostFunctionBuilder

	// WithResultNames sets debug names for every result, in order.
	WithResultNames(names ...string) HostFunctionBuilder

	// Export finishes this function's definition under exportName and
	// returns the owning HostModuleBuilder for further chaining.
	Export(exportName string) HostModuleBuilder
}

// HostModuleBuilder accumulates host functions (and an optional exported
// memory) into a module other Wasm modules can import by name.
type HostModuleBuilder interface {
	// ExportMemory adds a linear memory export with the given minimum size
	// in pages, growable up to the Runtime's configured ceiling.
	ExportMemory(name string, minPages uint32) HostModuleBuilder

	// ExportMemoryWithMax is ExportMemory with an explicit, lower maximum.
	ExportMemoryWithMax(name string, minPages, maxPages uint32) HostModuleBuilder

	// NewFunctionBuilder begins defining one more host function.
	NewFunctionBuilder() HostFunctionBuilder

	// Compile validates the accumulated definitions into a CompiledModule,
	// without instantiating it.
	Compile(ctx context.Context) (CompiledModule, error)

	// Instantiate compiles then instantiates in one step, using
	// NewModuleConfig() defaults.
	Instantiate(ctx context.Context) (api.Module, error)
}

type hostModuleBuilder struct {
	r              *runtime
	moduleName     string
	exportNames    []string
	nameToHostFunc map[string]*wasm.HostFunc
	nameToMemory   map[string]*wasm.MemoryType
}

func (r *runtime) NewHostModuleBuilder(moduleName string) HostModuleBuilder {
	return &hostModuleBuilder{
		r:              r,
		moduleName:     moduleName,
		nameToHostFunc: map[string]*wasm.HostFunc{},
		nameToMemory:   map[string]*wasm.MemoryType{},
	}
}

type hostFunctionBuilder struct {
	b           *hostModuleBuilder
	fn          interface{}
	params      []api.ValueType
	results     []api.ValueType
	name        string
	paramNames  []string
	resultNames []string
}

func (h *hostFunctionBuilder) WithGoFunction(fn api.GoFunction, params, results []api.ValueType) HostFunctionBuilder {
	h.fn, h.params, h.results = fn, params, results
	return h
}

func (h *hostFunctionBuilder) WithGoModuleFunction(fn api.GoModuleFunction, params, results []api.ValueType) HostFunctionBuilder {
	h.fn, h.params, h.results = fn, params, results
	return h
}

func (h *hostFunctionBuilder) WithFunc(fn interface{}) HostFunctionBuilder {
	h.fn = fn
	return h
}

func (h *hostFunctionBuilder) WithName(name string) HostFunctionBuilder {
	h.name = name
	return h
}

func (h *hostFunctionBuilder) WithParameterNames(names ...string) HostFunctionBuilder {
	h.paramNames = names
	return h
}

func (h *hostFunctionBuilder) WithResultNames(names ...string) HostFunctionBuilder {
	h.resultNames = names
	return h
}

// Export resolves h.fn (already api.GoFunction/api.GoModuleFunction, or an
// arbitrary func needing reflectGoFunc) into a *wasm.HostFunc and registers
// it with the owning module builder. A reflection error surfaces here as a
// panic rather than a deferred Compile-time error, since a bad WithFunc
// signature is a programming mistake the caller should see immediately at
// the call site, not after an unrelated chain of builder calls.
func (h *hostFunctionBuilder) Export(exportName string) HostModuleBuilder {
	var code wasm.Code
	params, results := h.params, h.results

	switch fn := h.fn.(type) {
	case api.GoFunction:
		code = wasm.Code{GoFunc: fn}
	case api.GoModuleFunction:
		code = wasm.Code{GoFunc: fn}
	default:
		adapted, err := newReflectGoFunc(h.fn)
		if err != nil {
			panic(fmt.Errorf("corewasm: WithFunc for export %q: %w", exportName, err))
		}
		params, results = adapted.paramTypes, adapted.resultTypes
		code = wasm.Code{GoFunc: api.GoModuleFunction(adapted.call)}
	}

	hostFn := &wasm.HostFunc{
		ExportName:  exportName,
		Name:        h.name,
		ParamTypes:  params,
		ParamNames:  h.paramNames,
		ResultTypes: results,
		ResultNames: h.resultNames,
		Code:        code,
	}
	h.b.exportHostFunc(hostFn)
	return h.b
}

func (b *hostModuleBuilder) exportHostFunc(fn *wasm.HostFunc) {
	if _, ok := b.nameToHostFunc[fn.ExportName]; !ok {
		b.exportNames = append(b.exportNames, fn.ExportName)
	}
	b.nameToHostFunc[fn.ExportName] = fn
}

func (b *hostModuleBuilder) ExportMemory(name string, minPages uint32) HostModuleBuilder {
	if _, ok := b.nameToMemory[name]; !ok {
		b.exportNames = append(b.exportNames, name)
	}
	b.nameToMemory[name] = &wasm.MemoryType{Min: minPages}
	return b
}

func (b *hostModuleBuilder) ExportMemoryWithMax(name string, minPages, maxPages uint32) HostModuleBuilder {
	if _, ok := b.nameToMemory[name]; !ok {
		b.exportNames = append(b.exportNames, name)
	}
	b.nameToMemory[name] = &wasm.MemoryType{Min: minPages, Max: maxPages, IsMaxEncoded: true}
	return b
}

func (b *hostModuleBuilder) NewFunctionBuilder() HostFunctionBuilder {
	return &hostFunctionBuilder{b: b}
}

func (b *hostModuleBuilder) Compile(ctx context.Context) (CompiledModule, error) {
	for name, mt := range b.nameToMemory {
		if err := mt.Validate(b.r.config.memoryMaxPages); err != nil {
			return nil, fmt.Errorf("memory[%s]: %w", name, err)
		}
	}

	module, err := wasm.NewHostModule(b.moduleName, b.exportNames, b.nameToHostFunc, b.nameToMemory, b.r.config.enabledFeatures)
	if err != nil {
		return nil, err
	}
	if err := wasm.ValidateModule(module); err != nil {
		return nil, err
	}
	return &compiledModule{module: module}, nil
}

func (b *hostModuleBuilder) Instantiate(ctx context.Context) (api.Module, error) {
	compiled, err := b.Compile(ctx)
	if err != nil {
		return nil, err
	}
	return b.r.InstantiateModule(ctx, compiled, NewModuleConfig().WithName(b.moduleName))
}
