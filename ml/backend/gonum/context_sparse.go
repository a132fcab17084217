// context_sparse.go - Sparse-Operationen und Reduktionen im Context
// Enthaelt: AddN, SparseReorder, SparseToDense, EmbeddingLookupSparse

package gonum

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/tensorx/tensorx/ml"
)

// AddN summiert beliebig viele gleich geformte Tensoren
func (c *Context) AddN(ts ...ml.Tensor) ml.Tensor {
	if len(ts) == 0 {
		return c.fail("add_n", errors.New("add_n needs at least one tensor"))
	}

	inputs := make([]*Tensor, len(ts))
	for i, t := range ts {
		inputs[i] = t.(*Tensor)
	}

	if bad := firstErr(inputs...); bad != nil {
		return bad
	}

	shape := inputs[0].Shape()
	for _, t := range inputs[1:] {
		if len(t.shape) != len(shape) {
			return c.fail("add_n", fmt.Errorf("cannot add shapes %v and %v", shape, t.shape))
		}

		for i := range shape {
			var ok bool
			if shape[i], ok = mergeDim(shape[i], t.shape[i]); !ok {
				return c.fail("add_n", fmt.Errorf("cannot add shapes %v and %v", inputs[0].shape, t.shape))
			}
		}
	}

	return c.op("add_n", inputs[0].dtype, shape, func(in []*value) (*value, error) {
		out := in[0].clone()
		for _, x := range in[1:] {
			if !slices.Equal(x.shape, out.shape) {
				return nil, fmt.Errorf("cannot add shapes %v and %v", out.shape, x.shape)
			}
			floats.Add(out.data, x.data)
		}
		return out, nil
	}, inputs...)
}

// sparseOrder berechnet die Permutation in Row-Major-Reihenfolge
func (c *Context) sparseOrder(indices *Tensor) *Tensor {
	return c.op("sparse_order", ml.DTypeI64, []int{indices.shape[0]}, func(in []*value) (*value, error) {
		idx := in[0]
		n := idx.shape[0]
		perm := make([]int, n)
		for i := range perm {
			perm[i] = i
		}

		slices.SortStableFunc(perm, func(a, b int) int {
			if r := cmp.Compare(idx.data[2*a], idx.data[2*b]); r != 0 {
				return r
			}
			return cmp.Compare(idx.data[2*a+1], idx.data[2*b+1])
		})

		out := newValue([]int{n})
		for i, p := range perm {
			out.data[i] = float64(p)
		}
		return out, nil
	}, indices)
}

// SparseReorder sortiert die Eintraege eines Sparse-Tensors in Row-Major-Reihenfolge
func (c *Context) SparseReorder(sp ml.SparseTensor) ml.SparseTensor {
	indices, values := sp.Indices.(*Tensor), sp.Values.(*Tensor)
	if bad := firstErr(indices, values); bad != nil {
		return ml.SparseTensor{Indices: bad, Values: bad, DenseShape: bad}
	}

	if len(indices.shape) != 2 || indices.shape[1] != 2 {
		bad := c.fail("sparse_reorder", fmt.Errorf("sparse indices must have shape [n, 2], got %v", indices.shape))
		return ml.SparseTensor{Indices: bad, Values: bad, DenseShape: bad}
	}

	scope := c.Scope("sparse_reorder")
	order := scope.(*Context).sparseOrder(indices)
	return ml.SparseTensor{
		Indices:    indices.Rows(scope, order),
		Values:     values.Rows(scope, order),
		DenseShape: sp.DenseShape,
	}
}

// SparseToDense schreibt die Eintraege in eine dichte Matrix
func (c *Context) SparseToDense(sp ml.SparseTensor, defaultValue float64) ml.Tensor {
	indices, values, dense := sp.Indices.(*Tensor), sp.Values.(*Tensor), sp.DenseShape.(*Tensor)
	if bad := firstErr(indices, values, dense); bad != nil {
		return bad
	}

	return c.op("sparse_to_dense", values.dtype, staticShape(dense), func(in []*value) (*value, error) {
		idx, vals, shape := in[0], in[1], in[2]
		if len(shape.data) != 2 {
			return nil, fmt.Errorf("dense shape must have two dimensions, got %v", shape.data)
		}

		rows, cols := int(shape.data[0]), int(shape.data[1])
		if rows < 0 || cols < 0 {
			return nil, fmt.Errorf("invalid dense shape [%d %d]", rows, cols)
		}

		if len(idx.data) != 2*len(vals.data) {
			return nil, fmt.Errorf("%d indices for %d values", len(idx.data)/2, len(vals.data))
		}

		out := newValue([]int{rows, cols})
		for i := range out.data {
			out.data[i] = defaultValue
		}

		for i, v := range vals.data {
			r, col := int(idx.data[2*i]), int(idx.data[2*i+1])
			if r < 0 || r >= rows || col < 0 || col >= cols {
				return nil, fmt.Errorf("index [%d %d] out of bounds for dense shape [%d %d]", r, col, rows, cols)
			}
			out.data[r*cols+col] = v
		}
		return out, nil
	}, indices, values, dense)
}

// EmbeddingLookupSparse summiert pro Zeile die per ids adressierten Zeilen von params.
// weights gewichtet jeden Eintrag, nil bedeutet Gewicht 1.
func (c *Context) EmbeddingLookupSparse(params ml.Tensor, ids ml.SparseTensor, weights *ml.SparseTensor, combiner ml.Combiner) ml.Tensor {
	p := params.(*Tensor)
	inputs := []*Tensor{p, ids.Indices.(*Tensor), ids.Values.(*Tensor), ids.DenseShape.(*Tensor)}
	if weights != nil {
		inputs = append(inputs, weights.Values.(*Tensor))
	}

	if bad := firstErr(inputs...); bad != nil {
		return bad
	}

	if len(p.shape) != 2 {
		return c.fail("embedding_lookup_sparse", fmt.Errorf("params must have rank 2, got %v", p.shape))
	}

	if !inputs[2].dtype.IsInteger() {
		return c.fail("embedding_lookup_sparse", fmt.Errorf("ids must be integers, got %v", inputs[2].dtype))
	}

	shape := []int{staticShape(inputs[3])[0], p.shape[1]}
	return c.op("embedding_lookup_sparse", p.dtype, shape, func(in []*value) (*value, error) {
		params, idx, vals, dense := in[0], in[1], in[2], in[3]
		var w []float64
		if len(in) > 4 {
			w = in[4].data
			if len(w) != len(vals.data) {
				return nil, fmt.Errorf("%d weights for %d ids", len(w), len(vals.data))
			}
		}

		if len(idx.data) != 2*len(vals.data) {
			return nil, fmt.Errorf("%d indices for %d ids", len(idx.data)/2, len(vals.data))
		}

		if len(dense.data) != 2 {
			return nil, fmt.Errorf("dense shape must have two dimensions, got %v", dense.data)
		}

		rows, dim := int(dense.data[0]), params.shape[1]
		out := newValue([]int{rows, dim})
		norm := make([]float64, rows)
		for i, id := range vals.data {
			r, k := int(idx.data[2*i]), int(id)
			if r < 0 || r >= rows {
				return nil, fmt.Errorf("row %d out of range [0, %d)", r, rows)
			}

			if k < 0 || k >= params.shape[0] {
				return nil, fmt.Errorf("id %d out of range [0, %d)", k, params.shape[0])
			}

			weight := 1.0
			if w != nil {
				weight = w[i]
			}

			floats.AddScaled(out.data[r*dim:(r+1)*dim], weight, params.data[k*dim:(k+1)*dim])
			switch combiner {
			case ml.CombinerMean:
				norm[r] += weight
			case ml.CombinerSqrtN:
				norm[r] += weight * weight
			}
		}

		if combiner != ml.CombinerSum {
			for r, n := range norm {
				if n == 0 {
					continue
				}

				if combiner == ml.CombinerSqrtN {
					n = math.Sqrt(n)
				}
				floats.Scale(1/n, out.data[r*dim:(r+1)*dim])
			}
		}
		return out, nil
	}, inputs...)
}
