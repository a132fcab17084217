// transform.go - Tensor-Transformationen fuer Sparse-Darstellungen
// Enthaelt: EnumRow, ToSparse, IndexListToSparse, ValueListToSparse

package transform

import (
	"fmt"

	"github.com/tensorx/tensorx/ml"
)

// EnumRow pairs every element of a [b, k] tensor with its row number. The
// result is an int64 [b*k, 2] tensor of (row, t[row][j]) pairs, the index
// layout sparse tensors use.
func EnumRow(ctx ml.Context, t ml.Tensor) (ml.Tensor, error) {
	shape := t.Shape()
	if len(shape) != 2 {
		return nil, fmt.Errorf("enum_row: expected rank 2, got shape %v", shape)
	}

	b, k := shape[0], shape[1]
	if b < 0 || k < 0 {
		return nil, fmt.Errorf("enum_row: shape %v must be known", shape)
	}

	ctx = ctx.Scope("enum_row")
	rows := ctx.Arange(0, float32(b), 1, ml.DTypeI64).
		Reshape(ctx, b, 1).
		Repeat(ctx, 1, k).
		Reshape(ctx, b*k)
	cols := t.Cast(ctx, ml.DTypeI64).Reshape(ctx, b*k)

	return rows.Stack(ctx, 1, cols), nil
}

// ToSparse converts a dense 2-D tensor into its sparse form. indices carries
// the column ids of the nonzero entries, values the entries themselves; both
// share the same coordinates and dense shape.
func ToSparse(ctx ml.Context, t ml.Tensor) (indices, values ml.SparseTensor, err error) {
	if rank := len(t.Shape()); rank != 2 {
		return indices, values, fmt.Errorf("to_sparse: expected rank 2, got shape %v", t.Shape())
	}

	ctx = ctx.Scope("to_sparse")
	coords := t.NonZero(ctx)
	cols := coords.Slice(ctx, 1, 1, 2, 1).Reshape(ctx, -1)
	entries := t.GatherND(ctx, coords)
	shape := ctx.ShapeOf(t)

	indices = ml.SparseTensor{Indices: coords, Values: cols, DenseShape: shape}
	values = ml.SparseTensor{Indices: coords, Values: entries, DenseShape: shape}
	return indices, values, nil
}

// IndexListToSparse builds the sparse value of a batch of index lists. Row r
// of rows lists the active columns of row r; the stored value of each entry is
// its column id.
func IndexListToSparse(rows [][]int64, nUnits int) (ml.SparseValue, error) {
	v := ml.SparseValue{DenseShape: [2]int64{int64(len(rows)), int64(nUnits)}}
	for r, ids := range rows {
		for _, id := range ids {
			if id < 0 || id >= int64(nUnits) {
				return ml.SparseValue{}, fmt.Errorf("index %d in row %d out of range [0, %d)", id, r, nUnits)
			}

			v.Indices = append(v.Indices, [2]int64{int64(r), id})
			v.Values = append(v.Values, float64(id))
		}
	}

	return v, nil
}

// ValueListToSparse is IndexListToSparse with explicit values, one per index.
func ValueListToSparse(rows [][]int64, values [][]float32, nUnits int) (ml.SparseValue, error) {
	if len(rows) != len(values) {
		return ml.SparseValue{}, fmt.Errorf("got %d index rows but %d value rows", len(rows), len(values))
	}

	v, err := IndexListToSparse(rows, nUnits)
	if err != nil {
		return ml.SparseValue{}, err
	}

	v.Values = v.Values[:0]
	for r := range rows {
		if len(rows[r]) != len(values[r]) {
			return ml.SparseValue{}, fmt.Errorf("row %d has %d indices but %d values", r, len(rows[r]), len(values[r]))
		}

		for _, f := range values[r] {
			v.Values = append(v.Values, float64(f))
		}
	}

	return v, nil
}
