package nn

import (
	"runtime"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tensorx/tensorx/ml"
)

func count(s []float32, v float32) int {
	n := 0
	for _, f := range s {
		if f == v {
			n++
		}
	}
	return n
}

func TestGaussianNoise(t *testing.T) {
	ctx := setup(t)

	in, err := NewInput(ctx, 4)
	require.NoError(t, err)

	same, err := NewGaussianNoise(ctx, in, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, "input_noise", same.Name())
	assert.Same(t, in.Tensor(), same.Tensor())

	flat, err := NewGaussianNoise(ctx, in, 1, 0)
	require.NoError(t, err)
	noisy, err := NewGaussianNoise(ctx, in, 1, 1, WithSeed(4))
	require.NoError(t, err)
	assert.Equal(t, in.Shape(), noisy.Shape())

	x := []float32{1, 2, 3, 4, 5, 6, 7, 8}
	in.Tensor().FromFloats(x)
	compute(t, ctx, flat.Tensor(), noisy.Tensor())

	approx(t, x, flat.Tensor().Floats())
	assert.Len(t, noisy.Tensor().Floats(), 8)
	assert.NotEqual(t, x, noisy.Tensor().Floats())
}

func TestGaussianNoiseInvalid(t *testing.T) {
	ctx := setup(t)

	ids, err := NewInput(ctx, 4, WithActive(1), WithDType(ml.DTypeI64))
	require.NoError(t, err)
	_, err = NewGaussianNoise(ctx, ids, 1, 1)
	require.ErrorIs(t, err, ErrInvalidArgument)

	in, err := NewInput(ctx, 4)
	require.NoError(t, err)
	_, err = NewGaussianNoise(ctx, in, 1, -1)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSaltPepperNoiseDense(t *testing.T) {
	ctx := setup(t)

	in, err := NewInput(ctx, 10, WithBatchSize(2))
	require.NoError(t, err)

	layer, err := NewSaltPepperNoise(ctx, in, 0.4, 1, 0)
	require.NoError(t, err)
	require.IsType(t, &SaltPepperNoise{}, layer)
	assert.Equal(t, []int{2, 10}, layer.Shape())

	x := make([]float32, 20)
	for i := range x {
		x[i] = 0.5
	}
	in.Tensor().FromFloats(x)
	compute(t, ctx, layer.Tensor())

	out := layer.Tensor().Floats()
	for r := range 2 {
		row := out[r*10 : (r+1)*10]
		assert.Equal(t, 2, count(row, 1), "Zeile %d: Salz", r)
		assert.Equal(t, 2, count(row, 0), "Zeile %d: Pfeffer", r)
		assert.Equal(t, 6, count(row, 0.5), "Zeile %d: unveraendert", r)
	}
}

func TestSaltPepperNoisePassthrough(t *testing.T) {
	ctx := setup(t)

	in, err := NewInput(ctx, 10)
	require.NoError(t, err)

	for _, amount := range []float64{0, 0.1} {
		layer, err := NewSaltPepperNoise(ctx, in, amount, 1, 0)
		require.NoError(t, err)
		assert.Same(t, in.Tensor(), layer.Tensor())
	}

	_, err = NewSaltPepperNoise(ctx, in, 0.5, 1, 0)
	require.ErrorIs(t, err, ErrInvalidArgument, "unbekannte Batchgroesse")

	_, err = NewSaltPepperNoise(ctx, in, 1.5, 1, 0)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSaltPepperNoiseIndexInput(t *testing.T) {
	ctx := setup(t)

	ids, err := NewInput(ctx, 6, WithActive(2), WithDType(ml.DTypeI64), WithBatchSize(2))
	require.NoError(t, err)

	layer, err := NewSaltPepperNoise(ctx, ids, 0.5, 2, -1)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 6}, layer.Shape())
	assert.Equal(t, ml.DTypeF32, layer.DType())

	ids.Tensor().FromInts([]int64{0, 1, 4, 5})
	compute(t, ctx, layer.Tensor())

	out := layer.Tensor().Floats()
	for r := range 2 {
		row := out[r*6 : (r+1)*6]
		assert.Equal(t, 1, count(row, 2), "Zeile %d: Salz", r)
		assert.Equal(t, 1, count(row, -1), "Zeile %d: Pfeffer", r)
		assert.False(t, slices.ContainsFunc(row, func(f float32) bool {
			return f != 0 && f != 1 && f != 2 && f != -1
		}))
	}
}

func TestSaltPepperNoiseIndexInputLargeVocabulary(t *testing.T) {
	ctx := setup(t)

	const nUnits = 100000
	ids, err := NewInput(ctx, nUnits, WithActive(3), WithDType(ml.DTypeI64), WithBatchSize(2))
	require.NoError(t, err)

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)

	layer, err := NewSaltPepperNoise(ctx, ids, 5.0/nUnits, 2, -1)
	require.NoError(t, err)

	ids.Tensor().FromInts([]int64{7, 500, 99999, 0, 1, 2})
	compute(t, ctx, layer.Tensor())

	runtime.ReadMemStats(&after)
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(256<<20), "Speicher waechst linear mit n_units")

	out := layer.Tensor().Floats()
	require.Len(t, out, 2*nUnits)
	for r, active := range [][]int{{7, 500, 99999}, {0, 1, 2}} {
		row := out[r*nUnits : (r+1)*nUnits]
		assert.Equal(t, 2, count(row, 2), "Zeile %d: Salz", r)
		assert.Equal(t, 2, count(row, -1), "Zeile %d: Pfeffer", r)
		assert.Equal(t, nUnits-4-count(row, 1), count(row, 0), "Zeile %d: nur 0 und 1 ausserhalb des Rauschens", r)
		for _, id := range active {
			assert.Contains(t, []float32{1, 2, -1}, row[id], "Zeile %d: id %d", r, id)
		}
	}
}

func TestSaltPepperNoiseSparse(t *testing.T) {
	ctx := setup(t)

	in, err := NewSparseInput(ctx, 10, 3, WithBatchSize(2))
	require.NoError(t, err)

	layer, err := NewSaltPepperNoise(ctx, in, 0.4, 1, 0)
	require.NoError(t, err)

	sp, ok := layer.(SparseLayer)
	require.True(t, ok, "erwartet SparseLayer, erhalten %T", layer)

	l, err := NewLinear(ctx, sp, 3, WithInit(Zeros))
	require.NoError(t, err)

	require.NoError(t, in.Feed([][]int64{{0, 1, 2}, {7}}, nil))
	tensors := append(sp.SparseIndices().Tensors(), sp.SparseValues().Values, l.Tensor())
	compute(t, ctx, tensors...)

	v, err := sp.SparseValues().Value()
	require.NoError(t, err)
	assert.Equal(t, [2]int64{2, 10}, v.DenseShape)
	for r := range int64(2) {
		cols, values := v.Row(r)
		assert.GreaterOrEqual(t, len(cols), 2, "Zeile %d: mindestens das Salz", r)
		for _, f := range values {
			assert.InDelta(t, 1, f, 0)
		}
	}

	assert.Equal(t, []int{-1, 3}, l.Tensor().Shape())
	assert.Equal(t, make([]float32, 6), l.Tensor().Floats())
}

func TestSaltPepperNoiseSparsePassthrough(t *testing.T) {
	ctx := setup(t)

	in, err := NewSparseInput(ctx, 10, 3)
	require.NoError(t, err)

	layer, err := NewSaltPepperNoise(ctx, in, 0, 1, 0)
	require.NoError(t, err)

	sp, ok := layer.(SparseLayer)
	require.True(t, ok)
	assert.Equal(t, in.SparseIndices(), sp.SparseIndices())
}
