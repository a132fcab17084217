// input.go - Eingabe-Layer
// Enthaelt: Input (dicht oder Index-Liste), SparseInput

package nn

import (
	"fmt"

	"github.com/tensorx/tensorx/ml"
	"github.com/tensorx/tensorx/transform"
)

// Input is a placeholder layer. With WithActive it is an index input: every
// row lists the ids of its nActive active units instead of nUnits values.
type Input struct {
	Base
	nActive int
}

// NewInput creates an input layer with nUnits units. Options: WithName,
// WithBatchSize, WithActive, WithDType.
func NewInput(ctx ml.Context, nUnits int, opts ...Option) (*Input, error) {
	o := collect(options{name: "input", batchSize: -1, dtype: ml.DTypeF32}, opts)
	if err := validBatch(o.batchSize); err != nil {
		return nil, err
	}

	denseShape := []int{o.batchSize, nUnits}
	shape := denseShape
	switch {
	case o.nActive < 0:
		return nil, fmt.Errorf("%w: n_active must not be negative, got %d", ErrInvalidArgument, o.nActive)
	case o.nActive > 0:
		if o.nActive >= nUnits {
			return nil, fmt.Errorf("%w: n_active (%d) must be lower than n_units (%d)", ErrInvalidArgument, o.nActive, nUnits)
		}

		if o.dtype != ml.DTypeI64 {
			return nil, fmt.Errorf("%w: index inputs need dtype %v, got %v", ErrInvalidArgument, ml.DTypeI64, o.dtype)
		}

		shape = []int{o.batchSize, o.nActive}
	}

	base, err := newBase(o.name, nUnits, shape, denseShape, o.dtype)
	if err != nil {
		return nil, err
	}

	base.y = ctx.Empty(o.dtype, shape...).SetName(o.name)
	return &Input{Base: base, nActive: o.nActive}, nil
}

// NActive returns the number of active units per row of an index input, 0
// for dense inputs.
func (l *Input) NActive() int {
	return l.nActive
}

// SparseInput feeds sparse batches. Its indices hold (row, id) coordinates
// with the id as value; WithValues adds a second sparse tensor with a value
// for every coordinate.
type SparseInput struct {
	Base
	nActive int
	indices ml.SparseTensor
	values  *ml.SparseTensor
}

// NewSparseInput creates a sparse input with nUnits units and up to nActive
// active units per row. Options: WithName, WithBatchSize, WithDType (of the
// values), WithValues.
func NewSparseInput(ctx ml.Context, nUnits, nActive int, opts ...Option) (*SparseInput, error) {
	o := collect(options{name: "sparse_input", batchSize: -1, dtype: ml.DTypeF32}, opts)
	if err := validBatch(o.batchSize); err != nil {
		return nil, err
	}

	if nActive <= 0 || nActive > nUnits {
		return nil, fmt.Errorf("%w: n_active must be in [1, %d], got %d", ErrInvalidArgument, nUnits, nActive)
	}

	if o.dtype.IsInteger() {
		return nil, fmt.Errorf("%w: sparse input values need a float dtype, got %v", ErrInvalidArgument, o.dtype)
	}

	base, err := newBase(o.name, nUnits, []int{o.batchSize, nActive}, []int{o.batchSize, nUnits}, o.dtype)
	if err != nil {
		return nil, err
	}

	scope := ctx.Scope(o.name)
	l := &SparseInput{Base: base, nActive: nActive}
	l.indices = scope.SparsePlaceholder(ml.DTypeI64, o.batchSize, nUnits)
	if o.values {
		values := scope.Scope("values").SparsePlaceholder(o.dtype, o.batchSize, nUnits)
		l.values = &values
	}

	l.y = densify(scope, l.indices, l.values, o.dtype)
	return l, nil
}

func (l *SparseInput) NActive() int {
	return l.nActive
}

func (l *SparseInput) SparseIndices() ml.SparseTensor {
	return l.indices
}

func (l *SparseInput) SparseValues() *ml.SparseTensor {
	return l.values
}

// Feed sets the indices and, for inputs created WithValues, the values of the
// next batch. Every row lists the ids of its active units.
func (l *SparseInput) Feed(ids [][]int64, values [][]float32) error {
	if b := l.denseShape[0]; b >= 0 && len(ids) != b {
		return fmt.Errorf("%w: batch of %d rows fed into %s with batch size %d", ErrShapeMismatch, len(ids), l.name, b)
	}

	for r, row := range ids {
		if len(row) > l.nActive {
			return fmt.Errorf("%w: row %d has %d active units, at most %d allowed", ErrInvalidArgument, r, len(row), l.nActive)
		}
	}

	iv, err := transform.IndexListToSparse(ids, l.nUnits)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	switch {
	case l.values == nil && values != nil:
		return fmt.Errorf("%w: %s has no values", ErrInvalidArgument, l.name)
	case l.values != nil:
		vv, err := transform.ValueListToSparse(ids, values, l.nUnits)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}

		l.values.Feed(vv)
	}

	l.indices.Feed(iv)
	return nil
}

// densify expandiert Sparse-Indizes zur dichten Matrix; ohne Werte binaer
func densify(ctx ml.Context, indices ml.SparseTensor, values *ml.SparseTensor, dtype ml.DType) ml.Tensor {
	if values != nil {
		return ctx.SparseToDense(*values, 0)
	}

	ones := ml.SparseTensor{
		Indices:    indices.Indices,
		Values:     ctx.FillLike(indices.Values, 1).Cast(ctx, dtype),
		DenseShape: indices.DenseShape,
	}
	return ctx.SparseToDense(ones, 0)
}

func validBatch(n int) error {
	if n == 0 || n < -1 {
		return fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidArgument, n)
	}

	return nil
}
