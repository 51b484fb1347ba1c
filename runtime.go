// Package corewasm is the embedder-facing surface of the runtime: compile a
// decoded and validated module once, then instantiate it as many times as
// needed, each instantiation isolated behind its own api.Module.
package corewasm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/corewasm/corewasm/api"
	"github.com/corewasm/corewasm/internal/engine/interpreter"
	"github.com/corewasm/corewasm/internal/obslog"
	"github.com/corewasm/corewasm/internal/wasm"
	"github.com/corewasm/corewasm/internal/wasm/binary"
)

// Runtime compiles and instantiates WebAssembly modules sharing one Store,
// so modules instantiated against it can import each other's exports by
// name (see Store.Register in internal/wasm).
type Runtime interface {
	// CompileModule decodes and validates a Wasm binary, ready for
	// InstantiateModule. A *wasm.MalformedModuleError or
	// *wasm.InvalidModuleError is returned for, respectively, a
	// structurally broken binary or one that fails type/index checking.
	CompileModule(ctx context.Context, binary []byte) (CompiledModule, error)

	// InstantiateModule instantiates compiled against this Runtime's
	// shared namespace, resolving its imports, running its start
	// functions, and registering its exports under ModuleConfig's name so
	// later InstantiateModule calls can import from it in turn.
	InstantiateModule(ctx context.Context, compiled CompiledModule, config *ModuleConfig) (api.Module, error)

	// NewHostModuleBuilder begins defining a module of Go-implemented
	// functions importable by name moduleName.
	NewHostModuleBuilder(moduleName string) HostModuleBuilder

	// Close closes every api.Module this Runtime instantiated.
	Close(ctx context.Context) error
}

type runtime struct {
	config  *RuntimeConfig
	store   *wasm.Store
	engine  *interpreter.Engine
	modules []*wasm.ModuleInstance
}

// NewRuntime constructs a Runtime backed by a fresh Store and an
// interpreter bound to it, logging through obslog's process-wide zap
// logger unless config carries its own context-scoped logger.
func NewRuntime(ctx context.Context, config *RuntimeConfig) Runtime {
	if config == nil {
		config = NewRuntimeConfig()
	}
	store := wasm.NewStore(config.enabledFeatures)
	logger := obslog.L()
	if l, ok := ctx.Value(loggerContextKey{}).(*zap.Logger); ok && l != nil {
		logger = l
	}
	engine := interpreter.NewEngine(logger)
	engine.Bind(store)
	return &runtime{config: config, store: store, engine: engine}
}

type loggerContextKey struct{}

// WithLogger returns a context carrying a zap.Logger that NewRuntime uses
// in place of obslog's process-wide default, letting an embedder scope
// verbose trap/call logging to one Runtime without a global side effect.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, logger)
}

func (r *runtime) CompileModule(ctx context.Context, b []byte) (CompiledModule, error) {
	m, err := binary.DecodeModule(b)
	if err != nil {
		return nil, err
	}
	if err := wasm.ValidateModule(m); err != nil {
		return nil, err
	}
	for i := range m.MemorySection {
		mt := &m.MemorySection[i]
		if !mt.IsMaxEncoded {
			mt.Max = r.config.memoryMaxPages
			mt.IsMaxEncoded = true
		} else if mt.Max > r.config.memoryMaxPages {
			return nil, wasm.NewInvalidModuleError("memory max %d pages exceeds configured limit %d", mt.Max, r.config.memoryMaxPages)
		}
	}
	return &compiledModule{module: m}, nil
}

func (r *runtime) InstantiateModule(ctx context.Context, compiled CompiledModule, config *ModuleConfig) (api.Module, error) {
	cm, ok := compiled.(*compiledModule)
	if !ok {
		return nil, fmt.Errorf("corewasm: CompiledModule not created by this package")
	}
	if config == nil {
		config = NewModuleConfig()
	}

	m := config.replaceImports(cm.module)
	name := config.name
	if name == "" && m.NameSection != nil {
		name = m.NameSection.ModuleName
	}

	inst, err := r.store.Instantiate(m, name, r.config.memoryMaxPages)
	if err != nil {
		return nil, err
	}
	if name != "" {
		if err := r.store.Register(name, inst); err != nil {
			return nil, err
		}
	}
	r.modules = append(r.modules, inst)

	mod := &moduleWrapper{inst: inst, engine: r.engine}
	for _, fnName := range config.startFunctions {
		fn := mod.ExportedFunction(fnName)
		if fn == nil {
			continue
		}
		if _, err := fn.Call(ctx); err != nil {
			return nil, fmt.Errorf("start function %q: %w", fnName, err)
		}
	}
	return mod, nil
}

func (r *runtime) Close(ctx context.Context) error {
	var firstErr error
	for _, inst := range r.modules {
		if err := inst.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.modules = nil
	return firstErr
}
