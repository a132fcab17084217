// layer.go - Gemeinsame Layer-Schnittstellen und Optionen
// Enthaelt: Layer, SparseLayer, Base, Option, Fehlerwerte
//
// Ein Layer kapselt den Aufbau eines kleinen Teilgraphen und haelt dessen
// Ausgabe-Tensor zusammen mit den Shape-Metadaten.

package nn

import (
	"errors"
	"fmt"
	"slices"

	"github.com/tensorx/tensorx/ml"
)

var (
	// ErrShapeMismatch is returned when layer shapes or weights do not fit together.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrInvalidArgument is returned for option values a layer cannot be built with.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Layer is a node of a network. Shape is the shape of Tensor; DenseShape is
// the shape of the dense representation, which differs from Shape for index
// and sparse layers. A dimension of -1 is unknown until compute time.
type Layer interface {
	Name() string
	NUnits() int
	Shape() []int
	DenseShape() []int
	DType() ml.DType

	// Tensor returns the dense output of the layer.
	Tensor() ml.Tensor
}

// SparseLayer is a layer whose output is also available in sparse form.
type SparseLayer interface {
	Layer

	// SparseIndices holds the active column ids of every row.
	SparseIndices() ml.SparseTensor
	// SparseValues holds the values for SparseIndices, nil for binary layers.
	SparseValues() *ml.SparseTensor
}

// Base holds the bookkeeping shared by all layers
type Base struct {
	name       string
	nUnits     int
	shape      []int
	denseShape []int
	dtype      ml.DType
	y          ml.Tensor
}

// newBase validiert die Shapes; shape und denseShape duerfen nil sein
func newBase(name string, nUnits int, shape, denseShape []int, dtype ml.DType) (Base, error) {
	if nUnits <= 0 {
		return Base{}, fmt.Errorf("%w: n_units must be positive, got %d", ErrInvalidArgument, nUnits)
	}

	if shape == nil {
		shape = []int{-1, nUnits}
	}

	if denseShape == nil {
		denseShape = shape
	}

	if len(shape) != 2 || len(denseShape) != 2 {
		return Base{}, fmt.Errorf("%w: expected rank 2 shapes, got %v and dense %v", ErrShapeMismatch, shape, denseShape)
	}

	if denseShape[1] < nUnits {
		return Base{}, fmt.Errorf("%w: dense shape %v cannot hold %d units", ErrShapeMismatch, denseShape, nUnits)
	}

	if denseShape[0] != shape[0] {
		return Base{}, fmt.Errorf("%w: dense shape %v and shape %v differ in batch size", ErrShapeMismatch, denseShape, shape)
	}

	return Base{
		name:       name,
		nUnits:     nUnits,
		shape:      slices.Clone(shape),
		denseShape: slices.Clone(denseShape),
		dtype:      dtype,
	}, nil
}

func (b *Base) Name() string {
	return b.name
}

func (b *Base) NUnits() int {
	return b.nUnits
}

func (b *Base) Shape() []int {
	return slices.Clone(b.shape)
}

func (b *Base) DenseShape() []int {
	return slices.Clone(b.denseShape)
}

func (b *Base) DType() ml.DType {
	return b.dtype
}

func (b *Base) Tensor() ml.Tensor {
	return b.y
}

func (b *Base) String() string {
	return fmt.Sprintf("%s(units=%d, shape=%v, dtype=%v)", b.name, b.nUnits, b.shape, b.dtype)
}

// dense meldet, ob die Ausgabe bereits dicht ist
func dense(l Layer) bool {
	return slices.Equal(l.Shape(), l.DenseShape())
}

// Option configures layer constructors. Each constructor reads the options
// that apply to it and ignores the rest.
type Option func(*options)

type options struct {
	name      string
	batchSize int
	nActive   int
	dtype     ml.DType
	values    bool
	init      Initializer
	weights   ml.Tensor
	bias      bool
	seed      *uint64
}

func collect(defaults options, opts []Option) options {
	for _, opt := range opts {
		opt(&defaults)
	}

	return defaults
}

// random gibt die Seed-Option fuer Zufallsknoten zurueck
func (o options) random() []func(*ml.RandomOptions) {
	if o.seed == nil {
		return nil
	}

	return []func(*ml.RandomOptions){ml.WithSeed(*o.seed)}
}

// WithName overrides the default layer name.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithBatchSize fixes the batch dimension, which is unknown otherwise.
func WithBatchSize(n int) Option {
	return func(o *options) { o.batchSize = n }
}

// WithActive makes an Input an index input with n active units per row.
func WithActive(n int) Option {
	return func(o *options) { o.nActive = n }
}

func WithDType(dtype ml.DType) Option {
	return func(o *options) { o.dtype = dtype }
}

// WithValues adds a value placeholder to a SparseInput.
func WithValues() Option {
	return func(o *options) { o.values = true }
}

func WithInit(init Initializer) Option {
	return func(o *options) { o.init = init }
}

// WithWeights makes Linear use w instead of creating a weight variable.
func WithWeights(w ml.Tensor) Option {
	return func(o *options) { o.weights = w }
}

// WithBias adds a zero-initialized bias to Linear.
func WithBias() Option {
	return func(o *options) { o.bias = true }
}

// WithSeed fixes the operation seed of the random nodes a layer creates.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = &seed }
}
