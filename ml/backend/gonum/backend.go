// backend.go - Backend-Struktur und Registrierung
// Enthaelt: Backend struct, New, NewContext, Params, Close

package gonum

import (
	"log/slog"
	"math/rand/v2"
	"runtime"
	"sync"

	"github.com/tensorx/tensorx/ml"
)

func init() {
	ml.RegisterBackend("gonum", New)
}

// Backend fuehrt Graphen in reinem Go auf Basis von gonum aus
type Backend struct {
	params ml.BackendParams

	// schedMu serialisiert Compute-Aufrufe, Zufallsstroeme sind nicht threadsicher
	schedMu sync.Mutex
}

// New erzeugt ein neues gonum-Backend
func New(params ml.BackendParams) (ml.Backend, error) {
	if params.NumThreads <= 0 {
		params.NumThreads = runtime.NumCPU()
	}

	if params.Seed == 0 {
		params.Seed = rand.Uint64()
	}

	slog.Debug("gonum backend", "seed", params.Seed, "threads", params.NumThreads)
	return &Backend{params: params}, nil
}

// Params gibt die effektiven Parameter zurueck, inklusive gewaehltem Seed
func (b *Backend) Params() ml.BackendParams {
	return b.params
}

// NewContext erzeugt einen neuen Kontext mit leerem Graphen
func (b *Backend) NewContext() ml.Context {
	return &Context{
		b: b,
		g: &graph{
			names: make(map[string]int),
			vars:  make(map[string]*Tensor),
		},
	}
}

// Close gibt die Ressourcen des Backends frei
func (b *Backend) Close() {}
