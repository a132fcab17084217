// activation.go - Aktivierungs-Layer und Aktivierungsfunktionen

package nn

import (
	"github.com/tensorx/tensorx/ml"
)

// ActivationFunc maps a tensor element-wise (Softmax row-wise).
type ActivationFunc func(ctx ml.Context, t ml.Tensor) ml.Tensor

func Identity(ctx ml.Context, t ml.Tensor) ml.Tensor {
	return t.Duplicate(ctx)
}

func RELU(ctx ml.Context, t ml.Tensor) ml.Tensor {
	return t.RELU(ctx)
}

func Sigmoid(ctx ml.Context, t ml.Tensor) ml.Tensor {
	return t.Sigmoid(ctx)
}

func Tanh(ctx ml.Context, t ml.Tensor) ml.Tensor {
	return t.Tanh(ctx)
}

// Softmax normalizes along the last dimension.
func Softmax(ctx ml.Context, t ml.Tensor) ml.Tensor {
	return t.Softmax(ctx)
}

type Activation struct {
	Base
	fn ActivationFunc
}

// NewActivation applies fn to the output of layer. A nil fn is Identity.
func NewActivation(ctx ml.Context, layer Layer, fn ActivationFunc) (*Activation, error) {
	if fn == nil {
		fn = Identity
	}

	base, err := newBase(layer.Name()+"_activation", layer.NUnits(), layer.Shape(), layer.DenseShape(), layer.DType())
	if err != nil {
		return nil, err
	}

	base.y = fn(ctx.Scope(base.name), layer.Tensor())
	return &Activation{Base: base, fn: fn}, nil
}
