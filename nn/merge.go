// merge.go - Zusammenfuehren mehrerer Layer

package nn

import (
	"fmt"

	"github.com/tensorx/tensorx/ml"
)

// MergeFunc combines the outputs of several layers into one tensor.
type MergeFunc func(ctx ml.Context, ts []ml.Tensor) ml.Tensor

// AddN sums all tensors element-wise.
func AddN(ctx ml.Context, ts []ml.Tensor) ml.Tensor {
	return ctx.AddN(ts...)
}

// Merge combines two or more layers with the same number of units and dtype.
type Merge struct {
	Base
	layers  []Layer
	weights []float64
}

// NewMerge scales the output of layers[i] by weights[i], if weights is not
// nil, and merges the results with fn. fn defaults to AddN and name to "merge".
func NewMerge(ctx ml.Context, layers []Layer, weights []float64, fn MergeFunc, name string) (*Merge, error) {
	if len(layers) < 2 {
		return nil, fmt.Errorf("%w: expecting at least 2 layers, got %d", ErrInvalidArgument, len(layers))
	}

	if weights != nil && len(weights) != len(layers) {
		return nil, fmt.Errorf("%w: got %d weights for %d layers", ErrInvalidArgument, len(weights), len(layers))
	}

	first := layers[0]
	for _, l := range layers[1:] {
		if l.NUnits() != first.NUnits() {
			return nil, fmt.Errorf("%w: %s has %d units, %s has %d", ErrShapeMismatch, l.Name(), l.NUnits(), first.Name(), first.NUnits())
		}

		if l.DType() != first.DType() {
			return nil, fmt.Errorf("%w: %s has dtype %v, %s has %v", ErrInvalidArgument, l.Name(), l.DType(), first.Name(), first.DType())
		}
	}

	if fn == nil {
		fn = AddN
	}

	if name == "" {
		name = "merge"
	}

	base, err := newBase(name, first.NUnits(), first.Shape(), first.DenseShape(), first.DType())
	if err != nil {
		return nil, err
	}

	scope := ctx.Scope(name)
	ts := make([]ml.Tensor, len(layers))
	for i, l := range layers {
		ts[i] = l.Tensor()
		if weights != nil {
			ts[i] = ts[i].Scale(scope, weights[i])
		}
	}

	base.y = fn(scope, ts)
	return &Merge{Base: base, layers: append([]Layer(nil), layers...), weights: weights}, nil
}
