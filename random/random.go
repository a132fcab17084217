// random.go - Zufaellige Sparse-Tensoren
// Enthaelt: Sample, SparseRandomNormal, SaltPepperNoise, SparseRandomMask
//
// Alle Funktionen bauen nur Graph-Knoten; gezogen wird erst bei Compute.

package random

import (
	"errors"
	"fmt"

	"github.com/tensorx/tensorx/ml"
	"github.com/tensorx/tensorx/transform"
)

var (
	// ErrInvalidDensity is returned when a density lies outside [0, 1].
	ErrInvalidDensity = errors.New("density must be in [0, 1]")

	// ErrInvalidShape is returned when a dense shape has a non-positive dimension.
	ErrInvalidShape = errors.New("invalid dense shape")
)

// Sample draws numSampled int64 values from [0, rangeMax). With batchSize 0
// the result has shape [numSampled], otherwise [batchSize, numSampled] with an
// independent draw for every row. unique samples without replacement.
func Sample(ctx ml.Context, rangeMax, numSampled, batchSize int, unique bool, opts ...func(*ml.RandomOptions)) (ml.Tensor, error) {
	switch {
	case numSampled < 0:
		return nil, fmt.Errorf("number of samples must be non-negative, got %d", numSampled)
	case rangeMax <= 0:
		return nil, fmt.Errorf("range must be positive, got %d", rangeMax)
	case batchSize < 0:
		return nil, fmt.Errorf("batch size must be non-negative, got %d", batchSize)
	case unique && numSampled > rangeMax:
		return nil, fmt.Errorf("cannot sample %d unique values from range %d", numSampled, rangeMax)
	}

	ctx = ctx.Scope("sample")
	if batchSize == 0 {
		return ctx.UniformCandidateSampler(numSampled, rangeMax, unique, opts...), nil
	}

	return ctx.BatchCandidateSampler(batchSize, numSampled, rangeMax, unique, opts...), nil
}

// SparseRandomNormal builds a [rows, cols] sparse tensor with
// max(int(density*cols), 1) entries per row at unique random columns. The
// values are drawn from N(mean, stddev).
func SparseRandomNormal(ctx ml.Context, denseShape [2]int, density, mean, stddev float64, dtype ml.DType, opts ...func(*ml.RandomOptions)) (ml.SparseTensor, error) {
	if err := validate(denseShape, density); err != nil {
		return ml.SparseTensor{}, err
	}

	rows, cols := denseShape[0], denseShape[1]
	numNoise := max(int(density*float64(cols)), 1)

	ctx = ctx.Scope("sparse_random_normal")
	indices, err := sampleIndices(ctx, rows, cols, numNoise, opts)
	if err != nil {
		return ml.SparseTensor{}, err
	}

	values := ctx.RandomNormal(dtype, mean, stddev, []int{rows * numNoise}, derive(opts, 1)...)
	return ctx.SparseReorder(ml.SparseTensor{
		Indices:    indices,
		Values:     values,
		DenseShape: ctx.FromInts([]int64{int64(rows), int64(cols)}, 2),
	}), nil
}

// SaltPepperNoise builds a [rows, cols] sparse tensor holding int(density*cols)
// corrupted entries per row, rounded down to an even number. Half of them are
// set to maxValue (salt), the other half to minValue (pepper). It returns nil
// when fewer than two entries per row would be corrupted.
func SaltPepperNoise(ctx ml.Context, denseShape [2]int, density, maxValue, minValue float64, dtype ml.DType, opts ...func(*ml.RandomOptions)) (*ml.SparseTensor, error) {
	if err := validate(denseShape, density); err != nil {
		return nil, err
	}

	rows, cols := denseShape[0], denseShape[1]
	numNoise := int(density * float64(cols))
	if numNoise < 2 {
		return nil, nil
	}

	numSalt := numNoise / 2

	ctx = ctx.Scope("salt_pepper_noise")
	indices, err := sampleIndices(ctx, rows, cols, 2*numSalt, opts)
	if err != nil {
		return nil, err
	}

	salt := ctx.Fill(dtype, maxValue, rows, numSalt)
	pepper := ctx.Fill(dtype, minValue, rows, numSalt)
	values := salt.Concat(ctx, pepper, 1).Reshape(ctx, -1)

	sp := ctx.SparseReorder(ml.SparseTensor{
		Indices:    indices,
		Values:     values,
		DenseShape: ctx.FromInts([]int64{int64(rows), int64(cols)}, 2),
	})
	return &sp, nil
}

// SparseRandomMask builds a [rows, cols] sparse tensor with int(density*cols)
// entries per row at unique random columns. The mask values are shuffled and
// split evenly over the entries of a row; the last value takes the remainder.
func SparseRandomMask(ctx ml.Context, denseShape [2]int, density float64, maskValues []float64, dtype ml.DType, opts ...func(*ml.RandomOptions)) (ml.SparseTensor, error) {
	if err := validate(denseShape, density); err != nil {
		return ml.SparseTensor{}, err
	}

	if len(maskValues) == 0 {
		return ml.SparseTensor{}, errors.New("mask values must not be empty")
	}

	rows, cols := denseShape[0], denseShape[1]
	total := int(density * float64(cols))

	ctx = ctx.Scope("sparse_random_mask")
	indices, err := sampleIndices(ctx, rows, cols, total, opts)
	if err != nil {
		return ml.SparseTensor{}, err
	}

	mask := make([]float32, len(maskValues))
	for i, v := range maskValues {
		mask[i] = float32(v)
	}

	shuffled := ctx.Shuffle(ctx.FromFloats(mask, len(mask)), derive(opts, 1)...)

	per := total / len(mask)
	var values ml.Tensor
	for i := range mask {
		n := per
		if i == len(mask)-1 {
			n = total - per*(len(mask)-1)
		}

		part := ctx.Fill(ml.DTypeF32, 1, rows, n).Mul(ctx, shuffled.Slice(ctx, 0, i, i+1, 1))
		if values == nil {
			values = part
		} else {
			values = values.Concat(ctx, part, 1)
		}
	}

	values = values.Reshape(ctx, -1)
	if dtype != ml.DTypeF32 {
		values = values.Cast(ctx, dtype)
	}

	return ctx.SparseReorder(ml.SparseTensor{
		Indices:    indices,
		Values:     values,
		DenseShape: ctx.FromInts([]int64{int64(rows), int64(cols)}, 2),
	}), nil
}

func validate(denseShape [2]int, density float64) error {
	if denseShape[0] <= 0 || denseShape[1] <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidShape, denseShape)
	}

	if density < 0 || density > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidDensity, density)
	}

	return nil
}

// sampleIndices draws k unique columns per row and enumerates them into
// [rows*k, 2] sparse coordinates
func sampleIndices(ctx ml.Context, rows, cols, k int, opts []func(*ml.RandomOptions)) (ml.Tensor, error) {
	samples, err := Sample(ctx, cols, k, rows, true, opts...)
	if err != nil {
		return nil, err
	}

	return transform.EnumRow(ctx, samples)
}

// derive offsets an explicit operation seed so that several random ops built
// from the same options draw from different streams
func derive(opts []func(*ml.RandomOptions), offset uint64) []func(*ml.RandomOptions) {
	var o ml.RandomOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.Seed == nil {
		return nil
	}

	return []func(*ml.RandomOptions){ml.WithSeed(*o.Seed + offset)}
}
