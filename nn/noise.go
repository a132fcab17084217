// noise.go - Rausch-Layer
// Enthaelt: GaussianNoise, SaltPepperNoise

package nn

import (
	"fmt"

	"github.com/tensorx/tensorx/ml"
	"github.com/tensorx/tensorx/random"
	"github.com/tensorx/tensorx/transform"
)

// GaussianNoise adds N(0, stddev) noise to every unit of a float layer.
type GaussianNoise struct {
	Base
	amount float64
	stddev float64
}

// NewGaussianNoise wraps layer. With amount 0 the layer is passed through
// unchanged. Options: WithSeed.
func NewGaussianNoise(ctx ml.Context, layer Layer, amount, stddev float64, opts ...Option) (*GaussianNoise, error) {
	o := collect(options{}, opts)
	if amount < 0 || stddev < 0 {
		return nil, fmt.Errorf("%w: noise amount and stddev must not be negative, got %v and %v", ErrInvalidArgument, amount, stddev)
	}

	if layer.DType().IsInteger() {
		return nil, fmt.Errorf("%w: gaussian noise needs a float layer, %s has dtype %v", ErrInvalidArgument, layer.Name(), layer.DType())
	}

	base, err := newBase(layer.Name()+"_noise", layer.NUnits(), layer.Shape(), layer.DenseShape(), layer.DType())
	if err != nil {
		return nil, err
	}

	l := &GaussianNoise{Base: base, amount: amount, stddev: stddev}
	if amount == 0 {
		l.y = layer.Tensor()
		return l, nil
	}

	scope := ctx.Scope(base.name)
	noise := scope.RandomNormalLike(layer.Tensor(), 0, stddev, o.random()...)
	l.y = layer.Tensor().Add(scope, noise)
	return l, nil
}

// SaltPepperNoise overwrites int(nUnits*amount) units per row, rounded down
// to an even count, with maxValue (salt) and minValue (pepper) in equal parts.
type SaltPepperNoise struct {
	Base
	amount   float64
	maxValue float64
	minValue float64
}

// SparseSaltPepperNoise is the SaltPepperNoise of a sparse layer. The
// corrupted output is sparse again.
type SparseSaltPepperNoise struct {
	SaltPepperNoise
	indices ml.SparseTensor
	values  *ml.SparseTensor
}

func (l *SparseSaltPepperNoise) SparseIndices() ml.SparseTensor {
	return l.indices
}

func (l *SparseSaltPepperNoise) SparseValues() *ml.SparseTensor {
	return l.values
}

// NewSaltPepperNoise wraps layer. The result is a *SparseSaltPepperNoise for
// sparse layers and a *SaltPepperNoise otherwise. Index inputs are expanded to
// their dense binary form first. The batch size of layer must be known unless
// no unit is corrupted. Options: WithSeed.
func NewSaltPepperNoise(ctx ml.Context, layer Layer, amount, maxValue, minValue float64, opts ...Option) (Layer, error) {
	o := collect(options{}, opts)
	if amount < 0 || amount > 1 {
		return nil, fmt.Errorf("%w: noise amount must be in [0, 1], got %v", ErrInvalidArgument, amount)
	}

	dtype := layer.DType()
	if dtype.IsInteger() {
		dtype = ml.DTypeF32
	}

	name := layer.Name() + "_noise"
	sparse, isSparse := layer.(SparseLayer)

	numNoise := int(float64(layer.NUnits()) * amount)
	if numNoise < 2 {
		base, err := newBase(name, layer.NUnits(), layer.Shape(), layer.DenseShape(), layer.DType())
		if err != nil {
			return nil, err
		}

		base.y = layer.Tensor()
		l := SaltPepperNoise{Base: base, amount: amount, maxValue: maxValue, minValue: minValue}
		if isSparse {
			return &SparseSaltPepperNoise{SaltPepperNoise: l, indices: sparse.SparseIndices(), values: sparse.SparseValues()}, nil
		}
		return &l, nil
	}

	batch := layer.DenseShape()[0]
	if batch < 0 {
		return nil, fmt.Errorf("%w: salt and pepper noise on %s needs a known batch size", ErrInvalidArgument, layer.Name())
	}

	base, err := newBase(name, layer.NUnits(), layer.DenseShape(), nil, dtype)
	if err != nil {
		return nil, err
	}

	scope := ctx.Scope(name)
	x := layer.Tensor()
	if !isSparse && !dense(layer) {
		coords, err := transform.EnumRow(scope, x)
		if err != nil {
			return nil, err
		}

		x = scope.SparseToDense(ml.SparseTensor{
			Indices:    coords,
			Values:     scope.FillLike(x, 1).Reshape(scope, -1).Cast(scope, dtype),
			DenseShape: scope.FromInts([]int64{int64(batch), int64(layer.NUnits())}, 2),
		}, 0)
	}

	if x.DType() != dtype {
		x = x.Cast(scope, dtype)
	}

	noise, err := random.SaltPepperNoise(scope, [2]int{batch, layer.NUnits()}, amount, maxValue, minValue, dtype, o.random()...)
	if err != nil {
		return nil, err
	}

	keep := scope.SparseToDense(ml.SparseTensor{
		Indices:    noise.Indices,
		Values:     scope.FillLike(noise.Values, 0),
		DenseShape: noise.DenseShape,
	}, 1)

	base.y = x.Mul(scope, keep).Add(scope, scope.SparseToDense(*noise, 0))
	l := SaltPepperNoise{Base: base, amount: amount, maxValue: maxValue, minValue: minValue}
	if !isSparse {
		return &l, nil
	}

	indices, values, err := transform.ToSparse(scope, base.y)
	if err != nil {
		return nil, err
	}

	return &SparseSaltPepperNoise{SaltPepperNoise: l, indices: indices, values: &values}, nil
}
