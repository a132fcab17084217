// value.go - Konkrete Tensor-Werte und Shape-Hilfsfunktionen
// Enthaelt: value struct, round, Shape-Vergleich und -Aufloesung

package gonum

import (
	"fmt"
	"math"
	"slices"

	"github.com/x448/float16"

	"github.com/tensorx/tensorx/ml"
)

// value haelt die berechneten Daten eines Knotens in Row-Major-Ordnung
type value struct {
	shape []int
	data  []float64
}

func newValue(shape []int) *value {
	return &value{shape: shape, data: make([]float64, numElements(shape))}
}

func (v *value) clone() *value {
	return &value{shape: slices.Clone(v.shape), data: slices.Clone(v.data)}
}

func numElements(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}

	return n
}

// round bringt die Werte auf die Genauigkeit des Datentyps
func round(dtype ml.DType, data []float64) {
	switch dtype {
	case ml.DTypeF32:
		for i, f := range data {
			data[i] = float64(float32(f))
		}
	case ml.DTypeF16:
		for i, f := range data {
			data[i] = float64(float16.Fromfloat32(float32(f)).Float32())
		}
	case ml.DTypeI32:
		for i, f := range data {
			data[i] = float64(int32(math.Trunc(f)))
		}
	case ml.DTypeI64:
		for i, f := range data {
			data[i] = math.Trunc(f)
		}
	}
}

// compatible prueft eine Laufzeit-Shape gegen eine statische Shape mit -1
func compatible(static, actual []int) bool {
	if static == nil {
		return true
	}

	if len(static) != len(actual) {
		return false
	}

	for i, d := range static {
		if d >= 0 && d != actual[i] {
			return false
		}
	}

	return true
}

// known meldet, ob alle Dimensionen bekannt sind
func known(shape []int) bool {
	return !slices.ContainsFunc(shape, func(d int) bool { return d < 0 })
}

// mergeDim vereint zwei statische Dimensionen
func mergeDim(a, b int) (int, bool) {
	switch {
	case a < 0:
		return b, true
	case b < 0:
		return a, true
	default:
		return a, a == b
	}
}

// axis normalisiert negative Achsen
func axis(rank, a int) (int, error) {
	if a < 0 {
		a += rank
	}

	if a < 0 || a >= rank {
		return 0, fmt.Errorf("axis %d out of range for rank %d", a, rank)
	}

	return a, nil
}

// split zerlegt eine Shape in aeussere, Achsen- und innere Groesse
func split(shape []int, a int) (outer, dim, inner int) {
	outer, inner = 1, 1
	for _, d := range shape[:a] {
		outer *= d
	}

	for _, d := range shape[a+1:] {
		inner *= d
	}

	return outer, shape[a], inner
}

// feedShape loest die statische Shape fuer n gefuetterte Elemente auf
func feedShape(static []int, n int) []int {
	unknown, product := -1, 1
	for i, d := range static {
		if d < 0 {
			if unknown >= 0 {
				panic("more than one unknown dimension in fed tensor")
			}
			unknown = i
		} else {
			product *= d
		}
	}

	shape := slices.Clone(static)
	switch {
	case unknown < 0 && product != n:
		panic("data size does not match tensor size")
	case unknown >= 0 && product == 0:
		if n != 0 {
			panic("data size does not match tensor size")
		}
		shape[unknown] = 0
	case unknown >= 0:
		if n%product != 0 {
			panic("data size does not match tensor size")
		}
		shape[unknown] = n / product
	}

	return shape
}

// reshape loest eine Ziel-Shape mit hoechstens einer -1 gegen n Elemente auf
func reshape(target []int, n int) ([]int, error) {
	unknown, product := -1, 1
	for i, d := range target {
		switch {
		case d == -1 && unknown < 0:
			unknown = i
		case d < 0:
			return nil, fmt.Errorf("invalid reshape target %v", target)
		default:
			product *= d
		}
	}

	shape := slices.Clone(target)
	if unknown >= 0 {
		if product == 0 || n%product != 0 {
			return nil, fmt.Errorf("cannot reshape %d elements into %v", n, target)
		}
		shape[unknown] = n / product
	} else if product != n {
		return nil, fmt.Errorf("cannot reshape %d elements into %v", n, target)
	}

	return shape, nil
}

func tile(s []float64, n int) []float64 {
	if len(s) == 0 {
		return make([]float64, n)
	}

	out := make([]float64, 0, n)
	for len(out) < n {
		out = append(out, s...)
	}

	return out[:n]
}

func toFloat32(s []float64) []float32 {
	out := make([]float32, len(s))
	for i, f := range s {
		out[i] = float32(f)
	}

	return out
}

func toInt64(s []float64) []int64 {
	out := make([]int64, len(s))
	for i, f := range s {
		out[i] = int64(f)
	}

	return out
}
