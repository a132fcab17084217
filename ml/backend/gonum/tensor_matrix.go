// tensor_matrix.go - Matrix-Operationen und Indexzugriffe
// Enthaelt: Matmul, Sum, Rows, GatherND, NonZero

package gonum

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/tensorx/tensorx/ml"
)

// Matmul multipliziert zwei Matrizen [m, k] x [k, n]
func (t *Tensor) Matmul(ctx ml.Context, t2 ml.Tensor) ml.Tensor {
	c, b := ctx.(*Context), t2.(*Tensor)
	if bad := firstErr(t, b); bad != nil {
		return bad
	}

	if len(t.shape) != 2 || len(b.shape) != 2 {
		return c.fail("matmul", fmt.Errorf("matmul expects rank 2 operands, got %v and %v", t.shape, b.shape))
	}

	if _, ok := mergeDim(t.shape[1], b.shape[0]); !ok {
		return c.fail("matmul", fmt.Errorf("inner dimensions of %v and %v do not match", t.shape, b.shape))
	}

	return c.op("matmul", t.dtype, []int{t.shape[0], b.shape[1]}, func(in []*value) (*value, error) {
		m, k, n := in[0].shape[0], in[0].shape[1], in[1].shape[1]
		if in[1].shape[0] != k {
			return nil, fmt.Errorf("inner dimensions of %v and %v do not match", in[0].shape, in[1].shape)
		}

		out := newValue([]int{m, n})
		if m == 0 || n == 0 || k == 0 {
			return out, nil
		}

		dst := mat.NewDense(m, n, out.data)
		dst.Mul(mat.NewDense(m, k, in[0].data), mat.NewDense(k, n, in[1].data))
		return out, nil
	}, t, b)
}

// Sum summiert entlang einer Achse und entfernt sie
func (t *Tensor) Sum(ctx ml.Context, a int) ml.Tensor {
	c := ctx.(*Context)
	if t.err != nil {
		return t
	}

	a, err := axis(len(t.shape), a)
	if err != nil {
		return c.fail("sum", err)
	}

	shape := append(t.Shape()[:a], t.shape[a+1:]...)
	return c.op("sum", t.dtype, shape, func(in []*value) (*value, error) {
		outer, dim, inner := split(in[0].shape, a)
		out := newValue(append(append([]int{}, in[0].shape[:a]...), in[0].shape[a+1:]...))
		if inner == 1 {
			for o := range outer {
				out.data[o] = floats.Sum(in[0].data[o*dim : (o+1)*dim])
			}
			return out, nil
		}

		for o := range outer {
			dst := out.data[o*inner : (o+1)*inner]
			for j := range dim {
				floats.Add(dst, in[0].data[(o*dim+j)*inner:(o*dim+j+1)*inner])
			}
		}
		return out, nil
	}, t)
}

// Rows sammelt Slices entlang der ersten Dimension (Embedding-Lookup)
func (t *Tensor) Rows(ctx ml.Context, ids ml.Tensor) ml.Tensor {
	c, idx := ctx.(*Context), ids.(*Tensor)
	if bad := firstErr(t, idx); bad != nil {
		return bad
	}

	if len(t.shape) == 0 {
		return c.fail("rows", errors.New("rows expects a tensor of rank >= 1"))
	}

	if !idx.dtype.IsInteger() {
		return c.fail("rows", fmt.Errorf("ids must be integers, got %v", idx.dtype))
	}

	shape := append(idx.Shape(), t.shape[1:]...)
	return c.op("rows", t.dtype, shape, func(in []*value) (*value, error) {
		params, ids := in[0], in[1]
		size := numElements(params.shape[1:])
		out := newValue(append(append([]int{}, ids.shape...), params.shape[1:]...))
		for i, id := range ids.data {
			r := int(id)
			if r < 0 || r >= params.shape[0] {
				return nil, fmt.Errorf("id %d out of range [0, %d)", r, params.shape[0])
			}

			copy(out.data[i*size:(i+1)*size], params.data[r*size:(r+1)*size])
		}
		return out, nil
	}, t, idx)
}

// GatherND liest einzelne Elemente an [n, rank] Koordinaten
func (t *Tensor) GatherND(ctx ml.Context, indices ml.Tensor) ml.Tensor {
	c, idx := ctx.(*Context), indices.(*Tensor)
	if bad := firstErr(t, idx); bad != nil {
		return bad
	}

	if len(idx.shape) != 2 {
		return c.fail("gather_nd", fmt.Errorf("indices must have rank 2, got %v", idx.shape))
	}

	if _, ok := mergeDim(idx.shape[1], len(t.shape)); !ok {
		return c.fail("gather_nd", fmt.Errorf("indices of width %d do not address rank %d", idx.shape[1], len(t.shape)))
	}

	return c.op("gather_nd", t.dtype, []int{idx.shape[0]}, func(in []*value) (*value, error) {
		src, coords := in[0], in[1]
		rank := len(src.shape)
		n := coords.shape[0]
		out := newValue([]int{n})
		for i := range n {
			offset := 0
			for d := range rank {
				x := int(coords.data[i*rank+d])
				if x < 0 || x >= src.shape[d] {
					return nil, fmt.Errorf("index %d out of range [0, %d) in dimension %d", x, src.shape[d], d)
				}
				offset = offset*src.shape[d] + x
			}
			out.data[i] = src.data[offset]
		}
		return out, nil
	}, t, idx)
}

// NonZero gibt die Koordinaten aller Elemente ungleich null zurueck
func (t *Tensor) NonZero(ctx ml.Context) ml.Tensor {
	if t.err != nil {
		return t
	}

	return ctx.(*Context).op("nonzero", ml.DTypeI64, []int{-1, len(t.shape)}, func(in []*value) (*value, error) {
		src := in[0]
		rank := len(src.shape)
		var coords []float64
		for i, f := range src.data {
			if f == 0 {
				continue
			}

			coord := make([]float64, rank)
			for d, rest := rank-1, i; d >= 0; d-- {
				coord[d] = float64(rest % src.shape[d])
				rest /= src.shape[d]
			}
			coords = append(coords, coord...)
		}

		return &value{shape: []int{len(coords) / max(rank, 1), rank}, data: append([]float64{}, coords...)}, nil
	}, t)
}
