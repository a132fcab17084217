// sparse.go - Sparse-Tensoren und ihre konkreten Werte
// Dieses Modul definiert SparseTensor (symbolisch) und SparseValue (berechnet).
package ml

import (
	"errors"
	"fmt"
)

// SparseTensor is a symbolic (indices, values, dense shape) triple.
// Indices is an int64 [n, 2] tensor, Values has n elements and DenseShape
// holds the two dimensions of the dense matrix.
type SparseTensor struct {
	Indices    Tensor
	Values     Tensor
	DenseShape Tensor
}

// Tensors returns the component tensors, e.g. for Forward or Compute.
func (s SparseTensor) Tensors() []Tensor {
	return []Tensor{s.Indices, s.Values, s.DenseShape}
}

// Feed sets all three components from v.
func (s SparseTensor) Feed(v SparseValue) {
	indices := make([]int64, 0, 2*len(v.Indices))
	for _, idx := range v.Indices {
		indices = append(indices, idx[0], idx[1])
	}

	s.Indices.FromInts(indices)
	if s.Values.DType().IsInteger() {
		ints := make([]int64, len(v.Values))
		for i, f := range v.Values {
			ints[i] = int64(f)
		}
		s.Values.FromInts(ints)
	} else {
		floats := make([]float32, len(v.Values))
		for i, f := range v.Values {
			floats[i] = float32(f)
		}
		s.Values.FromFloats(floats)
	}
	s.DenseShape.FromInts(v.DenseShape[:])
}

// Value reads the computed components of s.
func (s SparseTensor) Value() (SparseValue, error) {
	indices, shape := s.Indices.Ints(), s.DenseShape.Ints()
	if indices == nil || shape == nil {
		return SparseValue{}, errors.New("sparse tensor has not been computed")
	}

	if len(shape) != 2 {
		return SparseValue{}, fmt.Errorf("sparse tensor has rank %d, expected 2", len(shape))
	}

	var values []float64
	if s.Values.DType().IsInteger() {
		for _, i := range s.Values.Ints() {
			values = append(values, float64(i))
		}
	} else {
		for _, f := range s.Values.Floats() {
			values = append(values, float64(f))
		}
	}

	if len(indices) != 2*len(values) {
		return SparseValue{}, fmt.Errorf("sparse tensor has %d indices for %d values", len(indices)/2, len(values))
	}

	v := SparseValue{
		Indices:    make([][2]int64, len(values)),
		Values:     values,
		DenseShape: [2]int64{shape[0], shape[1]},
	}
	for i := range v.Indices {
		v.Indices[i] = [2]int64{indices[2*i], indices[2*i+1]}
	}

	return v, nil
}

// SparseValue is the concrete content of a SparseTensor.
type SparseValue struct {
	Indices    [][2]int64
	Values     []float64
	DenseShape [2]int64
}

// Len returns the number of stored entries.
func (v SparseValue) Len() int {
	return len(v.Values)
}

// Dense expands v into a row-major matrix.
func (v SparseValue) Dense() [][]float64 {
	dense := make([][]float64, v.DenseShape[0])
	for i := range dense {
		dense[i] = make([]float64, v.DenseShape[1])
	}

	for i, idx := range v.Indices {
		dense[idx[0]][idx[1]] = v.Values[i]
	}

	return dense
}

// Row returns the column indices and values stored for row r.
func (v SparseValue) Row(r int64) (cols []int64, values []float64) {
	for i, idx := range v.Indices {
		if idx[0] == r {
			cols = append(cols, idx[1])
			values = append(values, v.Values[i])
		}
	}

	return cols, values
}
