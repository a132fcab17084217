package transform_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tensorx/tensorx/ml"
	_ "github.com/tensorx/tensorx/ml/backend"
	"github.com/tensorx/tensorx/transform"
)

func setup(t *testing.T) ml.Context {
	t.Helper()
	b, err := ml.NewBackend("gonum", ml.BackendParams{Seed: 7, NumThreads: 2})
	require.NoError(t, err)

	ctx := b.NewContext()
	t.Cleanup(ctx.Close)
	return ctx
}

func TestEnumRow(t *testing.T) {
	ctx := setup(t)

	x := ctx.FromInts([]int64{4, 1, 0, 3}, 2, 2)
	enum, err := transform.EnumRow(ctx, x)
	require.NoError(t, err)
	require.NoError(t, ctx.Forward(enum).Compute(enum))

	assert.Equal(t, []int{4, 2}, enum.Shape())
	if diff := cmp.Diff([]int64{0, 4, 0, 1, 1, 0, 1, 3}, enum.Ints()); diff != "" {
		t.Errorf("enum_row mismatch (-want +got):\n%s", diff)
	}
}

func TestEnumRowUnknownBatch(t *testing.T) {
	ctx := setup(t)

	_, err := transform.EnumRow(ctx, ctx.Empty(ml.DTypeI64, -1, 3))
	require.Error(t, err)

	_, err = transform.EnumRow(ctx, ctx.Zeros(ml.DTypeI64, 3))
	require.Error(t, err)
}

func TestToSparse(t *testing.T) {
	ctx := setup(t)

	x := ctx.Empty(ml.DTypeF32, -1, 3)
	indices, values, err := transform.ToSparse(ctx, x)
	require.NoError(t, err)

	x.FromFloats([]float32{0, 2, 0, 1.5, 0, -1})
	all := append(indices.Tensors(), values.Values)
	require.NoError(t, ctx.Forward(all...).Compute(all...))

	iv, err := indices.Value()
	require.NoError(t, err)
	vv, err := values.Value()
	require.NoError(t, err)

	want := [][2]int64{{0, 1}, {1, 0}, {1, 2}}
	if diff := cmp.Diff(want, iv.Indices); diff != "" {
		t.Errorf("indices mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []float64{1, 0, 2}, iv.Values)
	assert.Equal(t, []float64{2, 1.5, -1}, vv.Values)
	assert.Equal(t, [2]int64{2, 3}, vv.DenseShape)
	assert.Equal(t, [][]float64{{0, 2, 0}, {1.5, 0, -1}}, vv.Dense())
}

func TestToSparseRank(t *testing.T) {
	ctx := setup(t)

	_, _, err := transform.ToSparse(ctx, ctx.Zeros(ml.DTypeF32, 4))
	require.Error(t, err)
}

func TestIndexListToSparse(t *testing.T) {
	v, err := transform.IndexListToSparse([][]int64{{0}, {2, 5}}, 6)
	require.NoError(t, err)

	want := ml.SparseValue{
		Indices:    [][2]int64{{0, 0}, {1, 2}, {1, 5}},
		Values:     []float64{0, 2, 5},
		DenseShape: [2]int64{2, 6},
	}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Errorf("sparse value mismatch (-want +got):\n%s", diff)
	}

	_, err = transform.IndexListToSparse([][]int64{{6}}, 6)
	require.Error(t, err)
}

func TestValueListToSparse(t *testing.T) {
	v, err := transform.ValueListToSparse([][]int64{{1}, {0, 3}}, [][]float32{{0.5}, {2, -1}}, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 2, -1}, v.Values)
	assert.Equal(t, [][]float64{{0, 0.5, 0, 0}, {2, 0, 0, -1}}, v.Dense())

	_, err = transform.ValueListToSparse([][]int64{{1}, {0, 3}}, [][]float32{{0.5}, {2}}, 4)
	require.Error(t, err)

	_, err = transform.ValueListToSparse([][]int64{{1}}, nil, 4)
	require.Error(t, err)
}

func TestFeedIndexList(t *testing.T) {
	ctx := setup(t)

	sp := ctx.SparsePlaceholder(ml.DTypeI64, -1, 4)
	v, err := transform.IndexListToSparse([][]int64{{3}, {1, 2}}, 4)
	require.NoError(t, err)

	sp.Feed(v)
	dense := ctx.SparseToDense(ml.SparseTensor{
		Indices:    sp.Indices,
		Values:     ctx.FillLike(sp.Values, 1),
		DenseShape: sp.DenseShape,
	}, 0)
	require.NoError(t, ctx.Forward(dense).Compute(dense))
	assert.Equal(t, []int64{0, 0, 0, 1, 0, 1, 1, 0}, dense.Ints())
}
