// context.go - Context und Tensor Interfaces fuer Graph-Operationen
// Dieses Modul definiert die Schnittstellen zum Aufbau und Ausfuehren von Berechnungsgraphen.
package ml

// Context builds a computation graph. Tensors created through a context are
// symbolic until Compute evaluates them.
type Context interface {
	// Empty creates a placeholder. A dimension of -1 is unknown until the
	// placeholder is fed through FromFloats or FromInts.
	Empty(dtype DType, shape ...int) Tensor
	Zeros(dtype DType, shape ...int) Tensor
	Fill(dtype DType, value float64, shape ...int) Tensor
	FromFloats(s []float32, shape ...int) Tensor
	FromInts(s []int64, shape ...int) Tensor

	// Arange creates a 1D tensor with values within an interval [start, stop) increased by step.
	Arange(start, stop, step float32, dtype DType) Tensor

	// FillLike creates a tensor with the runtime shape and dtype of t filled with value.
	FillLike(t Tensor, value float64) Tensor
	// ShapeOf returns the runtime shape of t as an int64 vector.
	ShapeOf(t Tensor) Tensor

	// SparsePlaceholder creates a sparse tensor whose indices, values and
	// dense shape are all fed at compute time.
	SparsePlaceholder(dtype DType, shape ...int) SparseTensor

	// Variable creates a named tensor that is initialized from init on the
	// first Compute and keeps its value afterwards.
	Variable(name string, init Tensor) Tensor

	RandomNormal(dtype DType, mean, stddev float64, shape []int, opts ...func(*RandomOptions)) Tensor
	// RandomNormalLike draws normal noise with the runtime shape of t.
	RandomNormalLike(t Tensor, mean, stddev float64, opts ...func(*RandomOptions)) Tensor
	RandomUniform(dtype DType, min, max float64, shape []int, opts ...func(*RandomOptions)) Tensor

	// UniformCandidateSampler draws numSampled int64 values from [0, rangeMax).
	UniformCandidateSampler(numSampled, rangeMax int, unique bool, opts ...func(*RandomOptions)) Tensor
	// BatchCandidateSampler performs one independent sampler draw per row.
	BatchCandidateSampler(batchSize, numSampled, rangeMax int, unique bool, opts ...func(*RandomOptions)) Tensor
	// Shuffle randomly permutes t along its first dimension.
	Shuffle(t Tensor, opts ...func(*RandomOptions)) Tensor

	AddN(ts ...Tensor) Tensor

	// SparseReorder sorts the entries of sp into row-major order.
	SparseReorder(sp SparseTensor) SparseTensor
	SparseToDense(sp SparseTensor, defaultValue float64) Tensor
	// EmbeddingLookupSparse looks up the rows of params named by the values
	// of ids and reduces them per row with combiner. weights may be nil.
	EmbeddingLookupSparse(params Tensor, ids SparseTensor, weights *SparseTensor, combiner Combiner) Tensor

	// Scope returns a context whose tensor and variable names are prefixed with name.
	Scope(name string) Context
	// Name returns the scope path of this context.
	Name() string

	Forward(...Tensor) Context
	Compute(...Tensor) error
	Close()
}

// Tensor represents a node of the computation graph.
type Tensor interface {
	Name() string
	SetName(name string) Tensor

	// Dim returns the static size of dimension n, -1 when unknown.
	Dim(n int) int
	Shape() []int
	DType() DType

	// Floats and Ints return the computed values, nil before Compute.
	Floats() []float32
	Ints() []int64

	// FromFloats and FromInts feed values into the tensor. Fed values take
	// precedence over the operation that produces the tensor.
	FromFloats([]float32)
	FromInts([]int64)

	Cast(ctx Context, dtype DType) Tensor
	Duplicate(ctx Context) Tensor

	Add(ctx Context, t2 Tensor) Tensor
	Sub(ctx Context, t2 Tensor) Tensor
	Mul(ctx Context, t2 Tensor) Tensor
	Scale(ctx Context, s float64) Tensor

	Matmul(ctx Context, t2 Tensor) Tensor
	Sum(ctx Context, axis int) Tensor

	// Rows gathers slices along the first dimension, e.g. embedding rows.
	Rows(ctx Context, ids Tensor) Tensor
	GatherND(ctx Context, indices Tensor) Tensor
	// NonZero returns the coordinates of all nonzero elements as an int64 [n, rank] tensor.
	NonZero(ctx Context) Tensor

	Reshape(ctx Context, shape ...int) Tensor
	Slice(ctx Context, dim, low, high, step int) Tensor
	Concat(ctx Context, t2 Tensor, dim int) Tensor
	Stack(ctx Context, dim int, s ...Tensor) Tensor

	// Repeat repeats the tensor n times along dimension dim
	Repeat(ctx Context, dim, n int) Tensor

	RELU(ctx Context) Tensor
	Sigmoid(ctx Context) Tensor
	Tanh(ctx Context) Tensor
	Softmax(ctx Context) Tensor
}

// RandomOptions configures random operations.
type RandomOptions struct {
	Seed *uint64
}

// WithSeed fixes the operation seed. Combined with the backend seed it makes
// the sequence of samples reproducible.
func WithSeed(seed uint64) func(*RandomOptions) {
	return func(opts *RandomOptions) {
		opts.Seed = &seed
	}
}
