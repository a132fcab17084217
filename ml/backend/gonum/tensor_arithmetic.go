// tensor_arithmetic.go - Elementweise Arithmetik mit Broadcasting
// Enthaelt: Add, Sub, Mul, Scale

package gonum

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/tensorx/tensorx/ml"
)

// Add addiert zwei Tensoren elementweise
func (t *Tensor) Add(ctx ml.Context, t2 ml.Tensor) ml.Tensor {
	return t.binary(ctx, "add", t2.(*Tensor), floats.AddTo)
}

// Sub subtrahiert zwei Tensoren elementweise
func (t *Tensor) Sub(ctx ml.Context, t2 ml.Tensor) ml.Tensor {
	return t.binary(ctx, "sub", t2.(*Tensor), floats.SubTo)
}

// Mul multipliziert zwei Tensoren elementweise
func (t *Tensor) Mul(ctx ml.Context, t2 ml.Tensor) ml.Tensor {
	return t.binary(ctx, "mul", t2.(*Tensor), floats.MulTo)
}

// Scale multipliziert den Tensor mit einem Skalar
func (t *Tensor) Scale(ctx ml.Context, s float64) ml.Tensor {
	if t.err != nil {
		return t
	}

	return ctx.(*Context).op("scale", t.dtype, t.Shape(), func(in []*value) (*value, error) {
		out := in[0].clone()
		floats.Scale(s, out.data)
		return out, nil
	}, t)
}

func (t *Tensor) binary(ctx ml.Context, op string, t2 *Tensor, fn func(dst, s, t []float64) []float64) ml.Tensor {
	c := ctx.(*Context)
	if bad := firstErr(t, t2); bad != nil {
		return bad
	}

	shape, err := broadcastShape(t.shape, t2.shape)
	if err != nil {
		return c.fail(op, err)
	}

	return c.op(op, t.dtype, shape, func(in []*value) (*value, error) {
		return broadcast(in[0], in[1], fn)
	}, t, t2)
}

// ones meldet, ob eine statische Shape genau ein Element beschreibt
func ones(shape []int) bool {
	return !slices.ContainsFunc(shape, func(d int) bool { return d != 1 })
}

// broadcastShape bestimmt die statische Ergebnis-Shape zweier Operanden.
// Erlaubt sind gleiche Shapes, ein Ein-Element-Operand oder ein 1-D Operand
// passend zur letzten Dimension.
func broadcastShape(a, b []int) ([]int, error) {
	if len(a) == len(b) {
		shape := make([]int, len(a))
		ok := true
		for i := range a {
			var same bool
			shape[i], same = mergeDim(a[i], b[i])
			ok = ok && same
		}

		if ok {
			return shape, nil
		}
	}

	switch {
	case ones(b):
		return slices.Clone(a), nil
	case ones(a):
		return slices.Clone(b), nil
	case len(b) == 1 && len(a) > 0:
		if _, ok := mergeDim(a[len(a)-1], b[0]); ok {
			return slices.Clone(a), nil
		}
	}

	return nil, fmt.Errorf("shapes %v and %v cannot be broadcast", a, b)
}

func broadcast(a, b *value, fn func(dst, s, t []float64) []float64) (*value, error) {
	switch {
	case slices.Equal(a.shape, b.shape):
		out := newValue(slices.Clone(a.shape))
		fn(out.data, a.data, b.data)
		return out, nil
	case len(b.data) == 1:
		out := newValue(slices.Clone(a.shape))
		fn(out.data, a.data, tile(b.data, len(a.data)))
		return out, nil
	case len(a.data) == 1:
		out := newValue(slices.Clone(b.shape))
		fn(out.data, tile(a.data, len(b.data)), b.data)
		return out, nil
	case len(b.shape) == 1 && len(a.shape) > 0 && a.shape[len(a.shape)-1] == b.shape[0]:
		out := newValue(slices.Clone(a.shape))
		fn(out.data, a.data, tile(b.data, len(a.data)))
		return out, nil
	}

	return nil, fmt.Errorf("shapes %v and %v cannot be broadcast", a.shape, b.shape)
}
