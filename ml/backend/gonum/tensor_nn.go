// tensor_nn.go - Aktivierungsfunktionen
// Enthaelt: RELU, Sigmoid, Tanh, Softmax

package gonum

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/tensorx/tensorx/ml"
)

// unary wendet fn elementweise an
func (t *Tensor) unary(ctx ml.Context, op string, fn func(float64) float64) ml.Tensor {
	if t.err != nil {
		return t
	}

	return ctx.(*Context).op(op, t.dtype, t.Shape(), func(in []*value) (*value, error) {
		out := in[0].clone()
		for i, f := range out.data {
			out.data[i] = fn(f)
		}
		return out, nil
	}, t)
}

// RELU berechnet max(0, x)
func (t *Tensor) RELU(ctx ml.Context) ml.Tensor {
	return t.unary(ctx, "relu", func(f float64) float64 {
		return max(f, 0)
	})
}

// Sigmoid berechnet 1 / (1 + exp(-x))
func (t *Tensor) Sigmoid(ctx ml.Context) ml.Tensor {
	return t.unary(ctx, "sigmoid", func(f float64) float64 {
		return 1 / (1 + math.Exp(-f))
	})
}

// Tanh berechnet den Tangens hyperbolicus
func (t *Tensor) Tanh(ctx ml.Context) ml.Tensor {
	return t.unary(ctx, "tanh", math.Tanh)
}

// Softmax normalisiert entlang der letzten Dimension
func (t *Tensor) Softmax(ctx ml.Context) ml.Tensor {
	if t.err != nil {
		return t
	}

	return ctx.(*Context).op("softmax", t.dtype, t.Shape(), func(in []*value) (*value, error) {
		out := in[0].clone()
		if len(out.shape) == 0 {
			out.data[0] = 1
			return out, nil
		}

		n := out.shape[len(out.shape)-1]
		if n == 0 {
			return out, nil
		}

		for start := 0; start < len(out.data); start += n {
			row := out.data[start : start+n]
			m := floats.Max(row)
			for i, f := range row {
				row[i] = math.Exp(f - m)
			}
			floats.Scale(1/floats.Sum(row), row)
		}
		return out, nil
	}, t)
}
