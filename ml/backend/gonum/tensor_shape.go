// tensor_shape.go - Shape-Operationen
// Enthaelt: Reshape, Slice, Concat, Stack, Repeat

package gonum

import (
	"fmt"
	"slices"

	"github.com/tensorx/tensorx/ml"
)

// Reshape aendert die Form des Tensors; eine Dimension darf -1 sein
func (t *Tensor) Reshape(ctx ml.Context, shape ...int) ml.Tensor {
	c := ctx.(*Context)
	if t.err != nil {
		return t
	}

	static := slices.Clone(shape)
	if known(t.shape) {
		var err error
		if static, err = reshape(shape, numElements(t.shape)); err != nil {
			return c.fail("reshape", err)
		}
	} else if slices.ContainsFunc(shape, func(d int) bool { return d < -1 }) {
		return c.fail("reshape", fmt.Errorf("invalid reshape target %v", shape))
	}

	return c.op("reshape", t.dtype, static, func(in []*value) (*value, error) {
		resolved, err := reshape(shape, len(in[0].data))
		if err != nil {
			return nil, err
		}

		return &value{shape: resolved, data: in[0].data}, nil
	}, t)
}

// Slice schneidet [low, high) mit Schrittweite step aus einer Dimension
func (t *Tensor) Slice(ctx ml.Context, dim, low, high, step int) ml.Tensor {
	c := ctx.(*Context)
	if t.err != nil {
		return t
	}

	dim, err := axis(len(t.shape), dim)
	if err != nil {
		return c.fail("slice", err)
	}

	if step <= 0 || low < 0 || high < low || (t.shape[dim] >= 0 && high > t.shape[dim]) {
		return c.fail("slice", fmt.Errorf("invalid slice [%d:%d:%d] of dimension %d with size %d", low, high, step, dim, t.shape[dim]))
	}

	size := (high - low + step - 1) / step
	shape := t.Shape()
	shape[dim] = size
	return c.op("slice", t.dtype, shape, func(in []*value) (*value, error) {
		src := in[0]
		if high > src.shape[dim] {
			return nil, fmt.Errorf("slice end %d exceeds dimension size %d", high, src.shape[dim])
		}

		outer, d, inner := split(src.shape, dim)
		outShape := slices.Clone(src.shape)
		outShape[dim] = size
		out := newValue(outShape)
		for o := range outer {
			for j := range size {
				from := (o*d + low + j*step) * inner
				to := (o*size + j) * inner
				copy(out.data[to:to+inner], src.data[from:from+inner])
			}
		}
		return out, nil
	}, t)
}

// Concat verbindet zwei Tensoren entlang einer Dimension
func (t *Tensor) Concat(ctx ml.Context, t2 ml.Tensor, dim int) ml.Tensor {
	c, b := ctx.(*Context), t2.(*Tensor)
	if bad := firstErr(t, b); bad != nil {
		return bad
	}

	if len(t.shape) != len(b.shape) {
		return c.fail("concat", fmt.Errorf("cannot concat ranks %d and %d", len(t.shape), len(b.shape)))
	}

	dim, err := axis(len(t.shape), dim)
	if err != nil {
		return c.fail("concat", err)
	}

	shape := make([]int, len(t.shape))
	for i := range shape {
		if i == dim {
			if t.shape[i] < 0 || b.shape[i] < 0 {
				shape[i] = -1
			} else {
				shape[i] = t.shape[i] + b.shape[i]
			}
			continue
		}

		var ok bool
		if shape[i], ok = mergeDim(t.shape[i], b.shape[i]); !ok {
			return c.fail("concat", fmt.Errorf("shapes %v and %v differ outside dimension %d", t.shape, b.shape, dim))
		}
	}

	return c.op("concat", t.dtype, shape, func(in []*value) (*value, error) {
		x, y := in[0], in[1]
		for i := range x.shape {
			if i != dim && x.shape[i] != y.shape[i] {
				return nil, fmt.Errorf("shapes %v and %v differ outside dimension %d", x.shape, y.shape, dim)
			}
		}

		outer, dx, inner := split(x.shape, dim)
		dy := y.shape[dim]
		outShape := slices.Clone(x.shape)
		outShape[dim] = dx + dy
		out := newValue(outShape)
		for o := range outer {
			dst := out.data[o*(dx+dy)*inner:]
			copy(dst[:dx*inner], x.data[o*dx*inner:(o+1)*dx*inner])
			copy(dst[dx*inner:(dx+dy)*inner], y.data[o*dy*inner:(o+1)*dy*inner])
		}
		return out, nil
	}, t, b)
}

// Stack stapelt gleich geformte Tensoren entlang einer neuen Dimension
func (t *Tensor) Stack(ctx ml.Context, dim int, s ...ml.Tensor) ml.Tensor {
	c := ctx.(*Context)
	inputs := []*Tensor{t}
	for _, x := range s {
		inputs = append(inputs, x.(*Tensor))
	}

	if bad := firstErr(inputs...); bad != nil {
		return bad
	}

	if dim < 0 {
		dim += len(t.shape) + 1
	}

	if dim < 0 || dim > len(t.shape) {
		return c.fail("stack", fmt.Errorf("dimension %d out of range for rank %d", dim, len(t.shape)))
	}

	shape := t.Shape()
	for _, x := range inputs[1:] {
		if len(x.shape) != len(shape) {
			return c.fail("stack", fmt.Errorf("cannot stack shapes %v and %v", t.shape, x.shape))
		}

		for i := range shape {
			var ok bool
			if shape[i], ok = mergeDim(shape[i], x.shape[i]); !ok {
				return c.fail("stack", fmt.Errorf("cannot stack shapes %v and %v", t.shape, x.shape))
			}
		}
	}

	k := len(inputs)
	shape = slices.Insert(shape, dim, k)
	return c.op("stack", t.dtype, shape, func(in []*value) (*value, error) {
		base := in[0].shape
		for _, x := range in[1:] {
			if !slices.Equal(x.shape, base) {
				return nil, fmt.Errorf("cannot stack shapes %v and %v", base, x.shape)
			}
		}

		outer := numElements(base[:dim])
		inner := numElements(base[dim:])
		out := newValue(slices.Insert(slices.Clone(base), dim, k))
		for o := range outer {
			for j, x := range in {
				to := (o*k + j) * inner
				copy(out.data[to:to+inner], x.data[o*inner:(o+1)*inner])
			}
		}
		return out, nil
	}, inputs...)
}

// Repeat wiederholt den Tensor n-mal entlang einer Dimension
func (t *Tensor) Repeat(ctx ml.Context, dim, n int) ml.Tensor {
	c := ctx.(*Context)
	if t.err != nil {
		return t
	}

	dim, err := axis(len(t.shape), dim)
	if err != nil {
		return c.fail("repeat", err)
	}

	if n < 0 {
		return c.fail("repeat", fmt.Errorf("invalid repeat count %d", n))
	}

	shape := t.Shape()
	if shape[dim] >= 0 {
		shape[dim] *= n
	}

	return c.op("repeat", t.dtype, shape, func(in []*value) (*value, error) {
		src := in[0]
		outer, d, inner := split(src.shape, dim)
		outShape := slices.Clone(src.shape)
		outShape[dim] = d * n
		out := newValue(outShape)
		block := d * inner
		for o := range outer {
			for r := range n {
				to := (o*n + r) * block
				copy(out.data[to:to+block], src.data[o*block:(o+1)*block])
			}
		}
		return out, nil
	}, t)
}
