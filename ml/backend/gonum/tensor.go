// tensor.go - Tensor-Struktur und Basis-Methoden
// Enthaelt: Tensor struct, Shape, Floats, Ints, DType, Cast, Feeds

package gonum

import (
	"log/slog"
	"slices"

	"github.com/tensorx/tensorx/ml"
)

type kind int

const (
	kindOp kind = iota
	kindInput
	kindConst
	kindVariable
)

// Tensor repraesentiert einen Knoten im Berechnungsgraphen
type Tensor struct {
	g     *graph
	id    int
	scope string
	name  string
	kind  kind

	dtype ml.DType
	// shape ist die statische Shape, -1 fuer unbekannte Dimensionen
	shape []int

	inputs []*Tensor
	eval   func([]*value) (*value, error)
	err    error

	// fed ueberschreibt die Operation, state haelt Konstanten und Variablen
	fed    *value
	state  *value
	result *value
}

// LogValue gibt den Tensor als slog-Wert zurueck
func (t *Tensor) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", t.name),
		slog.String("type", t.dtype.String()),
		slog.Any("shape", t.shape),
	)
}

// Name gibt den vollen Namen des Knotens zurueck
func (t *Tensor) Name() string {
	return t.name
}

// SetName setzt den Namen relativ zum Scope, in dem der Knoten erzeugt wurde.
// Bereits vergebene Namen bekommen wie bei uniqueName einen Zaehler.
func (t *Tensor) SetName(name string) ml.Tensor {
	t.name = t.g.unique(join(t.scope, name))
	return t
}

// Dim gibt die statische Groesse einer Dimension zurueck
func (t *Tensor) Dim(n int) int {
	return t.shape[n]
}

// Shape gibt die statische Form des Tensors zurueck
func (t *Tensor) Shape() []int {
	return slices.Clone(t.shape)
}

// DType gibt den Datentyp des Tensors zurueck
func (t *Tensor) DType() ml.DType {
	return t.dtype
}

// Floats gibt die berechneten Daten als Float32 zurueck
func (t *Tensor) Floats() []float32 {
	if t.result == nil {
		return nil
	}

	return toFloat32(t.result.data)
}

// Ints gibt die berechneten Daten als Int64 zurueck
func (t *Tensor) Ints() []int64 {
	if t.result == nil {
		return nil
	}

	return toInt64(t.result.data)
}

// FromFloats fuettert den Tensor mit Float32-Daten
func (t *Tensor) FromFloats(s []float32) {
	v := &value{shape: feedShape(t.shape, len(s)), data: make([]float64, len(s))}
	for i, f := range s {
		v.data[i] = float64(f)
	}

	round(t.dtype, v.data)
	t.fed = v
}

// FromInts fuettert den Tensor mit Int64-Daten
func (t *Tensor) FromInts(s []int64) {
	v := &value{shape: feedShape(t.shape, len(s)), data: make([]float64, len(s))}
	for i, n := range s {
		v.data[i] = float64(n)
	}

	round(t.dtype, v.data)
	t.fed = v
}

// Cast konvertiert den Tensor zu einem anderen Datentyp
func (t *Tensor) Cast(ctx ml.Context, dtype ml.DType) ml.Tensor {
	if t.err != nil {
		return t
	}

	return ctx.(*Context).op("cast", dtype, t.Shape(), func(in []*value) (*value, error) {
		return in[0].clone(), nil
	}, t)
}

// Duplicate gibt den Tensor unveraendert als neuen Knoten zurueck
func (t *Tensor) Duplicate(ctx ml.Context) ml.Tensor {
	if t.err != nil {
		return t
	}

	return ctx.(*Context).op("identity", t.dtype, t.Shape(), func(in []*value) (*value, error) {
		return in[0], nil
	}, t)
}

// firstErr gibt den ersten fehlerhaften Tensor zurueck
func firstErr(ts ...*Tensor) *Tensor {
	for _, t := range ts {
		if t.err != nil {
			return t
		}
	}

	return nil
}
