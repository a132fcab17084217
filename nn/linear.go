// linear.go - Lineare Layer und Initialisierer
// Enthaelt: Linear, Bias, Initializer, RandomUniform, Zeros

package nn

import (
	"fmt"
	"math"

	"github.com/tensorx/tensorx/ml"
)

// Initializer creates the initial value of a variable.
type Initializer func(ctx ml.Context, dtype ml.DType, shape []int, opts ...func(*ml.RandomOptions)) ml.Tensor

// RandomUniform draws from U(-limit, limit) with the Glorot limit
// sqrt(6 / (fanIn + fanOut)) of a [fanIn, fanOut] matrix.
func RandomUniform(ctx ml.Context, dtype ml.DType, shape []int, opts ...func(*ml.RandomOptions)) ml.Tensor {
	fanIn, fanOut := 1, 1
	switch len(shape) {
	case 0:
	case 1:
		fanIn, fanOut = shape[0], shape[0]
	default:
		fanIn, fanOut = shape[0], shape[1]
	}

	limit := math.Sqrt(6 / float64(fanIn+fanOut))
	return ctx.RandomUniform(dtype, -limit, limit, shape, opts...)
}

// Zeros initializes with zeros.
func Zeros(ctx ml.Context, dtype ml.DType, shape []int, _ ...func(*ml.RandomOptions)) ml.Tensor {
	return ctx.Zeros(dtype, shape...)
}

// Linear computes x·w (+ b). Sparse layers are multiplied through a sparse
// embedding lookup, index inputs through a lookup of their rows of w summed
// over the active units.
type Linear struct {
	Base
	weights ml.Tensor
	bias    ml.Tensor
}

// NewLinear connects layer to nUnits outputs. Options: WithName, WithDType,
// WithInit, WithWeights, WithBias, WithSeed.
func NewLinear(ctx ml.Context, layer Layer, nUnits int, opts ...Option) (*Linear, error) {
	o := collect(options{name: "linear", dtype: ml.DTypeF32, init: RandomUniform}, opts)

	base, err := newBase(o.name, nUnits, []int{layer.DenseShape()[0], nUnits}, nil, o.dtype)
	if err != nil {
		return nil, err
	}

	scope := ctx.Scope(o.name)
	l := &Linear{Base: base}
	if o.weights != nil {
		shape := o.weights.Shape()
		if len(shape) != 2 || shape[1] != nUnits {
			return nil, fmt.Errorf("%w: layer expects weights with %d columns, got shape %v", ErrShapeMismatch, nUnits, shape)
		}

		if shape[0] >= 0 && shape[0] != layer.NUnits() {
			return nil, fmt.Errorf("%w: weights of shape %v do not take %d inputs", ErrShapeMismatch, shape, layer.NUnits())
		}

		l.weights = o.weights
	} else {
		l.weights = scope.Variable("w", o.init(scope, o.dtype, []int{layer.NUnits(), nUnits}, o.random()...))
	}

	if sp, ok := layer.(SparseLayer); ok {
		l.y = scope.EmbeddingLookupSparse(l.weights, sp.SparseIndices(), sp.SparseValues(), ml.CombinerSum)
	} else if dense(layer) {
		l.y = layer.Tensor().Matmul(scope, l.weights)
	} else {
		l.y = l.weights.Rows(scope, layer.Tensor()).Sum(scope, 1)
	}

	if o.bias {
		l.bias = scope.Variable("b", scope.Zeros(o.dtype, nUnits))
		l.y = l.y.Add(scope, l.bias)
	}

	return l, nil
}

func (l *Linear) Weights() ml.Tensor {
	return l.weights
}

// Bias returns the bias variable, nil without WithBias.
func (l *Linear) Bias() ml.Tensor {
	return l.bias
}

// Bias adds a zero-initialized bias vector to a dense layer.
type Bias struct {
	Base
	bias ml.Tensor
}

// NewBias adds a bias named "<layer>_<name>" to layer. An empty name means "bias".
func NewBias(ctx ml.Context, layer Layer, name string) (*Bias, error) {
	if name == "" {
		name = "bias"
	}

	if !dense(layer) {
		return nil, fmt.Errorf("%w: bias needs a dense layer, %s has shape %v and dense shape %v", ErrInvalidArgument, layer.Name(), layer.Shape(), layer.DenseShape())
	}

	base, err := newBase(layer.Name()+"_"+name, layer.NUnits(), layer.Shape(), layer.DenseShape(), layer.DType())
	if err != nil {
		return nil, err
	}

	scope := ctx.Scope(base.name)
	l := &Bias{Base: base}
	l.bias = scope.Variable("b", scope.Zeros(layer.DType(), layer.NUnits()))
	l.y = layer.Tensor().Add(scope, l.bias)
	return l, nil
}

func (l *Bias) Bias() ml.Tensor {
	return l.bias
}
