// backend.go - Backend-Interface und Registrierung
// Dieses Modul definiert das Backend-Interface und die Backend-Factory-Funktionen.
package ml

import (
	"fmt"
	"maps"
	"slices"
)

// Backend executes computation graphs.
type Backend interface {
	// Close frees all memory associated with this backend
	Close()

	Params() BackendParams
	NewContext() Context
}

// BackendParams controls how the backend executes graphs
type BackendParams struct {
	// Seed is the graph level seed. Zero picks a random seed.
	Seed uint64

	// NumThreads bounds the parallelism of batched operations
	NumThreads int
}

var backends = make(map[string]func(BackendParams) (Backend, error))

// RegisterBackend registers a backend factory function.
func RegisterBackend(name string, f func(BackendParams) (Backend, error)) {
	if _, ok := backends[name]; ok {
		panic("backend: backend already registered")
	}

	backends[name] = f
}

// Backends lists the registered backend names.
func Backends() []string {
	return slices.Sorted(maps.Keys(backends))
}

// NewBackend creates a backend by name. An empty name selects the only
// registered backend.
func NewBackend(name string, params BackendParams) (Backend, error) {
	if name == "" && len(backends) == 1 {
		for _, backend := range backends {
			return backend(params)
		}
	}

	if backend, ok := backends[name]; ok {
		return backend(params)
	}

	return nil, fmt.Errorf("unsupported backend %q", name)
}
