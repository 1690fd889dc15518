package backend

import (
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/gogpu/gfxbuf/gpucore"
)

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for backend selection (first that opens wins).
	// Rust > Cogent > Native > Software (Software is the fallback).
	backendPriority = []string{BackendRust, BackendCogent, BackendNative, BackendSoftware}
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it will be replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the registered backend names in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

func lookup(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := backends[name]
	return f, ok
}

// Open opens an executor on the named backend.
func Open(name string) (gpucore.Executor, error) {
	factory, ok := lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	exec, err := factory()
	if err != nil {
		return nil, fmt.Errorf("backend: open %q: %w", name, err)
	}
	if exec == nil {
		return nil, fmt.Errorf("%w: %q returned no executor", ErrBackendNotAvailable, name)
	}
	return exec, nil
}

// Default opens the best available backend.
//
// If the GFXBUF_BACKEND environment variable is set, only that backend is
// tried. Otherwise backends are tried in priority order (rust, cogent,
// native, software) followed by any other registered backend, and the
// first one that opens wins.
func Default() (gpucore.Executor, error) {
	if name := os.Getenv(EnvBackend); name != "" {
		return Open(name)
	}

	tried := make(map[string]bool, len(backendPriority))
	for _, name := range backendPriority {
		tried[name] = true
		if !IsRegistered(name) {
			continue
		}
		exec, err := Open(name)
		if err == nil {
			Logger().Debug("backend: selected", "backend", name)
			return exec, nil
		}
		Logger().Debug("backend: skipped", "backend", name, "err", err)
	}

	// Fallback: first other backend that opens
	for _, name := range Available() {
		if tried[name] {
			continue
		}
		if exec, err := Open(name); err == nil {
			Logger().Debug("backend: selected", "backend", name)
			return exec, nil
		}
	}

	return nil, ErrBackendNotAvailable
}

// MustDefault returns the default backend or panics.
func MustDefault() gpucore.Executor {
	exec, err := Default()
	if err != nil {
		panic(err)
	}
	return exec
}
