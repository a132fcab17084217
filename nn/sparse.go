// sparse.go - Umwandlung dichter Layer in Sparse-Layer

package nn

import (
	"fmt"

	"github.com/tensorx/tensorx/ml"
	"github.com/tensorx/tensorx/transform"
)

// ToSparse exposes the nonzero entries of a dense layer as a SparseLayer.
// Tensor still returns the dense output of the wrapped layer.
type ToSparse struct {
	Base
	indices ml.SparseTensor
	values  ml.SparseTensor
}

// NewToSparse wraps layer, which must be dense and not sparse already.
func NewToSparse(ctx ml.Context, layer Layer) (*ToSparse, error) {
	if _, ok := layer.(SparseLayer); ok {
		return nil, fmt.Errorf("%w: %s is already sparse", ErrInvalidArgument, layer.Name())
	}

	if !dense(layer) {
		return nil, fmt.Errorf("%w: %s is an index layer, not a dense one", ErrInvalidArgument, layer.Name())
	}

	base, err := newBase(layer.Name()+"_sparse", layer.NUnits(), layer.Shape(), layer.DenseShape(), layer.DType())
	if err != nil {
		return nil, err
	}

	indices, values, err := transform.ToSparse(ctx.Scope(base.name), layer.Tensor())
	if err != nil {
		return nil, err
	}

	base.y = layer.Tensor()
	return &ToSparse{Base: base, indices: indices, values: values}, nil
}

func (l *ToSparse) SparseIndices() ml.SparseTensor {
	return l.indices
}

func (l *ToSparse) SparseValues() *ml.SparseTensor {
	return &l.values
}
