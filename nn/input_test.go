package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tensorx/tensorx/ml"
)

func TestInput(t *testing.T) {
	ctx := setup(t)

	in, err := NewInput(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "input", in.Name())
	assert.Equal(t, "input", in.Tensor().Name())
	assert.Equal(t, []int{-1, 3}, in.Shape())
	assert.Equal(t, in.Shape(), in.DenseShape())
	assert.Equal(t, ml.DTypeF32, in.DType())
	assert.Zero(t, in.NActive())

	in.Tensor().FromFloats([]float32{1, 2, 3, 4, 5, 6})
	compute(t, ctx, in.Tensor())
	assert.Equal(t, []int{-1, 3}, in.Tensor().Shape(), "statische Shape bleibt unbekannt")
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, in.Tensor().Floats())
}

func TestIndexInput(t *testing.T) {
	ctx := setup(t)

	in, err := NewInput(ctx, 5, WithActive(2), WithDType(ml.DTypeI64), WithBatchSize(4), WithName("ids"))
	require.NoError(t, err)
	assert.Equal(t, "ids", in.Name())
	assert.Equal(t, 2, in.NActive())
	assert.Equal(t, []int{4, 2}, in.Shape())
	assert.Equal(t, []int{4, 5}, in.DenseShape())
}

func TestInputInvalid(t *testing.T) {
	ctx := setup(t)

	cases := map[string][]Option{
		"active too large": {WithActive(5), WithDType(ml.DTypeI64)},
		"active negative":  {WithActive(-1)},
		"float indices":    {WithActive(2)},
		"zero batch":       {WithBatchSize(0)},
	}

	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewInput(ctx, 5, opts...)
			require.ErrorIs(t, err, ErrInvalidArgument)
		})
	}

	_, err := NewInput(ctx, 0)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSparseInput(t *testing.T) {
	ctx := setup(t)

	in, err := NewSparseInput(ctx, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{-1, 2}, in.Shape())
	assert.Equal(t, []int{-1, 4}, in.DenseShape())
	assert.Nil(t, in.SparseValues())

	require.NoError(t, in.Feed([][]int64{{0}, {1, 3}}, nil))
	compute(t, ctx, in.Tensor())
	assert.Equal(t, []float32{1, 0, 0, 0, 0, 1, 0, 1}, in.Tensor().Floats())
}

func TestSparseInputValues(t *testing.T) {
	ctx := setup(t)

	in, err := NewSparseInput(ctx, 3, 2, WithValues(), WithBatchSize(2))
	require.NoError(t, err)
	require.NotNil(t, in.SparseValues())

	require.NoError(t, in.Feed([][]int64{{2}, {0, 1}}, [][]float32{{0.5}, {2, -1}}))
	compute(t, ctx, in.Tensor())
	assert.Equal(t, []float32{0, 0, 0.5, 2, -1, 0}, in.Tensor().Floats())
}

func TestSparseInputFeedErrors(t *testing.T) {
	ctx := setup(t)

	in, err := NewSparseInput(ctx, 3, 1, WithBatchSize(2))
	require.NoError(t, err)

	require.ErrorIs(t, in.Feed([][]int64{{0}}, nil), ErrShapeMismatch)
	require.ErrorIs(t, in.Feed([][]int64{{0}, {0, 1}}, nil), ErrInvalidArgument)
	require.ErrorIs(t, in.Feed([][]int64{{0}, {3}}, nil), ErrInvalidArgument)
	require.ErrorIs(t, in.Feed([][]int64{{0}, {1}}, [][]float32{{1}, {1}}), ErrInvalidArgument)

	_, err = NewSparseInput(ctx, 3, 4)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewSparseInput(ctx, 3, 2, WithDType(ml.DTypeI64))
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestInputNamesUnique(t *testing.T) {
	ctx := setup(t)

	a, err := NewInput(ctx, 2)
	require.NoError(t, err)
	b, err := NewInput(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, "input", a.Tensor().Name())
	assert.Equal(t, "input_1", b.Tensor().Name())

	a.Tensor().FromFloats([]float32{1, 2})
	err = ctx.Forward(a.Tensor(), b.Tensor()).Compute(a.Tensor(), b.Tensor())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `placeholder "input_1" was not fed`)
}
