// Package wazero adapts a wazero WebAssembly runtime to the engine's foreign
// environment interface. Each registered wasm module is exposed as one
// foreign class: exported functions are its static methods, exported globals
// its static fields. Strings and arrays are materialized in guest linear
// memory through the guest's "allocate" export, using the packed ptr/len
// word convention. Wasm modules have no object instances, so instance
// members and constructors do not resolve.
package wazero

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// AdapterConfig holds configuration for the adapter.
type AdapterConfig struct {
	// WithWASI instantiates wasi_snapshot_preview1 so TinyGo/wasip1 guests
	// can run. Default true.
	WithWASI bool
}

// AdapterOption configures the adapter.
type AdapterOption func(*AdapterConfig)

// WithoutWASI skips WASI instantiation for freestanding guests.
func WithoutWASI() AdapterOption {
	return func(c *AdapterConfig) {
		c.WithWASI = false
	}
}

func defaultAdapterConfig() AdapterConfig {
	return AdapterConfig{WithWASI: true}
}

// Adapter owns a wazero runtime and the set of instantiated modules visible
// as foreign classes.
type Adapter struct {
	runtime wazero.Runtime
	modules map[string]api.Module
	alloc   api.Module
}

// SetAllocator designates which module's memory backs string and array
// allocations. Unnecessary when exactly one module is loaded.
func (a *Adapter) SetAllocator(classPath string) error {
	mod, ok := a.modules[classPath]
	if !ok {
		return fmt.Errorf("module %q not loaded", classPath)
	}
	a.alloc = mod
	return nil
}

// NewAdapter creates an adapter with a fresh wazero runtime.
func NewAdapter(ctx context.Context, opts ...AdapterOption) (*Adapter, error) {
	cfg := defaultAdapterConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	rt := wazero.NewRuntime(ctx)
	if cfg.WithWASI {
		wasi_snapshot_preview1.MustInstantiate(ctx, rt)
	}

	return &Adapter{
		runtime: rt,
		modules: make(map[string]api.Module),
	}, nil
}

// LoadModule instantiates wasm bytes and registers the module under the
// given class path.
func (a *Adapter) LoadModule(ctx context.Context, classPath string, wasmBytes []byte) error {
	if _, exists := a.modules[classPath]; exists {
		return fmt.Errorf("module %q already loaded", classPath)
	}

	mod, err := a.runtime.InstantiateWithConfig(ctx, wasmBytes,
		wazero.NewModuleConfig().WithName(classPath))
	if err != nil {
		return fmt.Errorf("failed to instantiate module %q: %w", classPath, err)
	}

	if init := mod.ExportedFunction("_initialize"); init != nil {
		if _, err := init.Call(ctx); err != nil {
			return fmt.Errorf("failed to call _initialize on %q: %w", classPath, err)
		}
	}

	a.modules[classPath] = mod
	return nil
}

// Close releases the underlying wazero runtime and all modules.
func (a *Adapter) Close(ctx context.Context) error {
	return a.runtime.Close(ctx)
}

// moduleClass is the Raw() payload of a class handle.
type moduleClass struct {
	name string
	mod  api.Module
}

// wasmMethod is the Raw() payload of a method handle.
type wasmMethod struct {
	name string
	fn   api.Function
}

// wasmField is the Raw() payload of a field handle.
type wasmField struct {
	name   string
	global api.Global
}
