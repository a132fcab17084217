package gonum

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tensorx/tensorx/ml"
)

func setup(t *testing.T) ml.Context {
	t.Helper()
	b, err := New(ml.BackendParams{Seed: 42, NumThreads: 2})
	require.NoError(t, err)

	ctx := b.NewContext()
	t.Cleanup(ctx.Close)
	return ctx
}

func TestRegistered(t *testing.T) {
	assert.Contains(t, ml.Backends(), "gonum")

	b, err := ml.NewBackend("gonum", ml.BackendParams{})
	require.NoError(t, err)
	assert.NotZero(t, b.Params().Seed)
	assert.Positive(t, b.Params().NumThreads)
}

func TestMatmul(t *testing.T) {
	ctx := setup(t)

	a := ctx.FromFloats([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
	b := ctx.FromFloats([]float32{1, 2, 3, 4, 5, 6}, 3, 2)
	c := a.Matmul(ctx, b)
	require.NoError(t, ctx.Forward(c).Compute(c))

	assert.Equal(t, []int{2, 2}, c.Shape())
	if diff := cmp.Diff([]float32{22, 28, 49, 64}, c.Floats()); diff != "" {
		t.Errorf("matmul mismatch (-want +got):\n%s", diff)
	}
}

func TestMatmulShapeMismatch(t *testing.T) {
	ctx := setup(t)

	a := ctx.Zeros(ml.DTypeF32, 2, 3)
	b := ctx.Zeros(ml.DTypeF32, 2, 2)
	c := a.Matmul(ctx, b).Add(ctx, b)

	err := ctx.Compute(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inner dimensions")
}

func TestPlaceholderFeed(t *testing.T) {
	ctx := setup(t)

	x := ctx.Empty(ml.DTypeF32, -1, 2)
	bias := ctx.FromFloats([]float32{10, 20})
	y := x.Add(ctx, bias)
	assert.Equal(t, []int{-1, 2}, y.Shape())

	x.FromFloats([]float32{1, 2, 3, 4, 5, 6})
	require.NoError(t, ctx.Compute(y))
	assert.Equal(t, []float32{11, 22, 13, 24, 15, 26}, y.Floats())

	// Neue Eingabe, gleicher Graph
	x.FromFloats([]float32{0, 0})
	require.NoError(t, ctx.Compute(y))
	assert.Equal(t, []float32{10, 20}, y.Floats())
}

func TestPlaceholderNotFed(t *testing.T) {
	ctx := setup(t)

	x := ctx.Scope("input").Empty(ml.DTypeF32, -1, 4)
	y := x.Scale(ctx, 2)

	err := ctx.Compute(y)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `placeholder "input/placeholder" was not fed`)
}

func TestFeedSizeMismatch(t *testing.T) {
	ctx := setup(t)

	x := ctx.Empty(ml.DTypeF32, -1, 4)
	assert.PanicsWithValue(t, "data size does not match tensor size", func() {
		x.FromFloats([]float32{1, 2, 3})
	})

	y := ctx.Empty(ml.DTypeF32, 2, 2)
	assert.Panics(t, func() { y.FromFloats([]float32{1}) })
}

func TestFeedOverridesOperation(t *testing.T) {
	ctx := setup(t)

	a := ctx.FromFloats([]float32{1, 2})
	b := a.Scale(ctx, 3)
	c := b.Add(ctx, a)

	b.FromFloats([]float32{0, 0})
	require.NoError(t, ctx.Compute(c))
	assert.Equal(t, []float32{1, 2}, c.Floats())
}

func TestVariable(t *testing.T) {
	ctx := setup(t)

	scope := ctx.Scope("linear")
	w := scope.Variable("w", scope.RandomUniform(ml.DTypeF32, -1, 1, []int{3, 2}))
	assert.Equal(t, "linear/w", w.Name())

	require.NoError(t, ctx.Compute(w))
	first := w.Floats()
	require.Len(t, first, 6)
	for _, f := range first {
		assert.GreaterOrEqual(t, f, float32(-1))
		assert.Less(t, f, float32(1))
	}

	require.NoError(t, ctx.Compute(w))
	assert.Equal(t, first, w.Floats(), "variables keep their value")
}

func TestVariableRedeclared(t *testing.T) {
	ctx := setup(t)

	scope := ctx.Scope("bias")
	scope.Variable("b", scope.Zeros(ml.DTypeF32, 3))
	scope.Variable("b", scope.Zeros(ml.DTypeF32, 3))

	// Gleicher Name in anderem Scope ist erlaubt
	ctx.Scope("other").Variable("b", ctx.Zeros(ml.DTypeF32, 3))

	err := ctx.Compute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `variable "bias/b" already exists`)
}

func TestUniqueNames(t *testing.T) {
	ctx := setup(t)

	scope := ctx.Scope("a")
	x := scope.Zeros(ml.DTypeF32, 1)
	assert.Equal(t, "a/fill", x.Name())
	assert.Equal(t, "a/add", x.Add(scope, x).Name())
	assert.Equal(t, "a/add_1", x.Add(scope, x).Name())
	assert.Equal(t, "a/b/add", x.Add(scope.Scope("b"), x).Name())
	assert.Equal(t, "a/x", x.SetName("x").Name())
	assert.Equal(t, "a/b", scope.Scope("b").Name())
}

func TestRowsAndSum(t *testing.T) {
	ctx := setup(t)

	params := ctx.FromFloats([]float32{
		1, 1,
		2, 2,
		3, 3,
		4, 4,
	}, 4, 2)
	ids := ctx.FromInts([]int64{0, 3, 1, 2}, 2, 2)

	lookup := params.Rows(ctx, ids)
	assert.Equal(t, []int{2, 2, 2}, lookup.Shape())

	sum := lookup.Sum(ctx, 1)
	require.NoError(t, ctx.Forward(lookup).Compute(sum))

	assert.Equal(t, []float32{1, 1, 4, 4, 2, 2, 3, 3}, lookup.Floats())
	assert.Equal(t, []int{2, 2}, sum.Shape())
	assert.Equal(t, []float32{5, 5, 5, 5}, sum.Floats())
}

func TestRowsOutOfRange(t *testing.T) {
	ctx := setup(t)

	params := ctx.Zeros(ml.DTypeF32, 2, 2)
	y := params.Rows(ctx, ctx.FromInts([]int64{2}))
	assert.ErrorContains(t, ctx.Compute(y), "out of range")

	z := params.Rows(ctx, ctx.FromFloats([]float32{0}))
	assert.ErrorContains(t, ctx.Compute(z), "ids must be integers")
}

func TestSumAxes(t *testing.T) {
	ctx := setup(t)

	x := ctx.FromFloats([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
	rows, cols := x.Sum(ctx, 1), x.Sum(ctx, 0)
	require.NoError(t, ctx.Forward(rows).Compute(cols))

	assert.Equal(t, []float32{6, 15}, rows.Floats())
	assert.Equal(t, []float32{5, 7, 9}, cols.Floats())
}

func TestShapeOps(t *testing.T) {
	ctx := setup(t)

	x := ctx.FromInts([]int64{0, 1, 2, 3, 4, 5}, 2, 3)

	reshaped := x.Reshape(ctx, -1)
	sliced := x.Slice(ctx, 1, 0, 3, 2)
	concat := x.Concat(ctx, x, 0)
	stacked := reshaped.Stack(ctx, 1, reshaped)
	repeated := ctx.FromInts([]int64{7, 8}, 2, 1).Repeat(ctx, 1, 3)

	require.NoError(t, ctx.Forward(reshaped, sliced, concat, stacked).Compute(repeated))

	assert.Equal(t, []int{6}, reshaped.Shape())
	assert.Equal(t, []int64{0, 2, 3, 5}, sliced.Ints())
	assert.Equal(t, []int{4, 3}, concat.Shape())
	assert.Equal(t, []int64{0, 1, 2, 3, 4, 5, 0, 1, 2, 3, 4, 5}, concat.Ints())
	assert.Equal(t, []int{6, 2}, stacked.Shape())
	assert.Equal(t, []int64{0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5}, stacked.Ints())
	assert.Equal(t, []int64{7, 7, 7, 8, 8, 8}, repeated.Ints())
}

func TestReshapeInvalid(t *testing.T) {
	ctx := setup(t)

	y := ctx.Zeros(ml.DTypeF32, 2, 3).Reshape(ctx, 4, -1)
	assert.ErrorContains(t, ctx.Compute(y), "cannot reshape")
}

func TestNonZeroGatherND(t *testing.T) {
	ctx := setup(t)

	x := ctx.FromFloats([]float32{
		0, 2, 0,
		3, 0, 4,
	}, 2, 3)
	coords := x.NonZero(ctx)
	vals := x.GatherND(ctx, coords)
	require.NoError(t, ctx.Forward(coords).Compute(vals))

	assert.Equal(t, []int64{0, 1, 1, 0, 1, 2}, coords.Ints())
	assert.Equal(t, []float32{2, 3, 4}, vals.Floats())
}

func TestActivations(t *testing.T) {
	ctx := setup(t)

	x := ctx.FromFloats([]float32{-1, 0, 1, 2}, 2, 2)
	relu, sigmoid, tanh, softmax := x.RELU(ctx), x.Sigmoid(ctx), x.Tanh(ctx), x.Softmax(ctx)
	require.NoError(t, ctx.Forward(relu, sigmoid, tanh).Compute(softmax))

	approx := cmpopts.EquateApprox(0, 1e-5)
	assert.Equal(t, []float32{0, 0, 1, 2}, relu.Floats())
	if diff := cmp.Diff([]float32{0.26894142, 0.5, 0.7310586, 0.8807971}, sigmoid.Floats(), approx); diff != "" {
		t.Errorf("sigmoid mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float32{-0.7615942, 0, 0.7615942, 0.9640276}, tanh.Floats(), approx); diff != "" {
		t.Errorf("tanh mismatch (-want +got):\n%s", diff)
	}

	sm := softmax.Floats()
	assert.InDelta(t, 1, sm[0]+sm[1], 1e-6)
	assert.InDelta(t, 1, sm[2]+sm[3], 1e-6)
	assert.Greater(t, sm[1], sm[0])
}

func TestCast(t *testing.T) {
	ctx := setup(t)

	x := ctx.FromFloats([]float32{0.1, 1.7, -2.5})
	half := x.Cast(ctx, ml.DTypeF16)
	ints := x.Cast(ctx, ml.DTypeI32)
	require.NoError(t, ctx.Forward(half).Compute(ints))

	assert.Equal(t, ml.DTypeF16, half.DType())
	assert.Equal(t, float32(0.099975586), half.Floats()[0])
	assert.Equal(t, []int64{0, 1, -2}, ints.Ints())
}

func TestArangeFill(t *testing.T) {
	ctx := setup(t)

	r := ctx.Arange(0, 5, 2, ml.DTypeI64)
	f := ctx.Fill(ml.DTypeF32, 3, 2, 2)
	require.NoError(t, ctx.Forward(r).Compute(f))

	assert.Equal(t, []int64{0, 2, 4}, r.Ints())
	assert.Equal(t, []float32{3, 3, 3, 3}, f.Floats())

	bad := ctx.Fill(ml.DTypeF32, 1, -1, 2)
	assert.ErrorContains(t, ctx.Compute(bad), "known shape")
}

func TestAddN(t *testing.T) {
	ctx := setup(t)

	a := ctx.FromFloats([]float32{1, 2})
	b := ctx.FromFloats([]float32{3, 4})
	sum := ctx.AddN(a, b, a)
	require.NoError(t, ctx.Compute(sum))
	assert.Equal(t, []float32{5, 8}, sum.Floats())

	ctx2 := setup(t)
	assert.Error(t, ctx2.Compute(ctx2.AddN()))
}

func TestCandidateSampler(t *testing.T) {
	ctx := setup(t)

	s := ctx.UniformCandidateSampler(10, 10, true)
	require.NoError(t, ctx.Compute(s))

	got := s.Ints()
	slices.Sort(got)
	assert.Equal(t, []int64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)

	err := ctx.Compute(ctx.UniformCandidateSampler(11, 10, true))
	assert.ErrorContains(t, err, "cannot sample 11 unique values")
}

func TestBatchCandidateSampler(t *testing.T) {
	ctx := setup(t)

	s := ctx.BatchCandidateSampler(8, 5, 20, true)
	require.NoError(t, ctx.Compute(s))
	assert.Equal(t, []int{8, 5}, s.Shape())

	samples := s.Ints()
	for r := range 8 {
		row := slices.Clone(samples[r*5 : (r+1)*5])
		for _, x := range row {
			assert.GreaterOrEqual(t, x, int64(0))
			assert.Less(t, x, int64(20))
		}

		slices.Sort(row)
		assert.Len(t, slices.Compact(row), 5, "row %d has duplicates", r)
	}
}

func TestRandomDeterminism(t *testing.T) {
	draw := func() ([]int64, []float32) {
		ctx := setup(t)
		s := ctx.BatchCandidateSampler(4, 3, 100, true, ml.WithSeed(7))
		n := ctx.RandomNormal(ml.DTypeF32, 0, 1, []int{5})
		require.NoError(t, ctx.Forward(s).Compute(n))
		return s.Ints(), n.Floats()
	}

	s1, n1 := draw()
	s2, n2 := draw()
	assert.Equal(t, s1, s2)
	assert.Equal(t, n1, n2)

	// Jeder Compute zieht neue Werte
	ctx := setup(t)
	n := ctx.RandomNormal(ml.DTypeF32, 0, 1, []int{5})
	require.NoError(t, ctx.Compute(n))
	first := n.Floats()
	require.NoError(t, ctx.Compute(n))
	assert.NotEqual(t, first, n.Floats())
}

func TestRandomNormalLike(t *testing.T) {
	ctx := setup(t)

	x := ctx.Empty(ml.DTypeF32, -1, 3)
	noise := ctx.RandomNormalLike(x, 0, 0.5)
	x.FromFloats(make([]float32, 12))
	require.NoError(t, ctx.Compute(noise))
	assert.Len(t, noise.Floats(), 12)
}

func TestShuffle(t *testing.T) {
	ctx := setup(t)

	x := ctx.FromInts([]int64{1, 2, 3, 4, 5, 6}, 3, 2)
	s := ctx.Shuffle(x)
	require.NoError(t, ctx.Compute(s))

	got := s.Ints()
	var rows [][]int64
	for i := range 3 {
		rows = append(rows, got[2*i:2*i+2])
	}

	assert.ElementsMatch(t, [][]int64{{1, 2}, {3, 4}, {5, 6}}, rows)
}

func TestSparseReorderToDense(t *testing.T) {
	ctx := setup(t)

	sp := ml.SparseTensor{
		Indices:    ctx.FromInts([]int64{1, 0, 0, 2, 0, 1}, 3, 2),
		Values:     ctx.FromFloats([]float32{3, 2, 1}),
		DenseShape: ctx.FromInts([]int64{2, 3}),
	}

	ordered := ctx.SparseReorder(sp)
	dense := ctx.SparseToDense(ordered, 0)
	assert.Equal(t, []int{2, 3}, dense.Shape())

	require.NoError(t, ctx.Forward(ordered.Tensors()...).Compute(dense))
	assert.Equal(t, []int64{0, 1, 0, 2, 1, 0}, ordered.Indices.Ints())
	assert.Equal(t, []float32{1, 2, 3}, ordered.Values.Floats())
	assert.Equal(t, []float32{0, 1, 2, 3, 0, 0}, dense.Floats())
}

func TestSparseToDenseOutOfBounds(t *testing.T) {
	ctx := setup(t)

	sp := ml.SparseTensor{
		Indices:    ctx.FromInts([]int64{2, 0}, 1, 2),
		Values:     ctx.FromFloats([]float32{1}),
		DenseShape: ctx.FromInts([]int64{2, 2}),
	}

	assert.ErrorContains(t, ctx.Compute(ctx.SparseToDense(sp, 0)), "out of bounds")
}

func TestSparsePlaceholder(t *testing.T) {
	ctx := setup(t)

	sp := ctx.SparsePlaceholder(ml.DTypeF32, -1, 4)
	dense := ctx.SparseToDense(sp, 0)

	sp.Feed(ml.SparseValue{
		Indices:    [][2]int64{{0, 1}, {1, 3}},
		Values:     []float64{0.5, 2},
		DenseShape: [2]int64{2, 4},
	})
	require.NoError(t, ctx.Compute(dense))
	assert.Equal(t, []float32{0, 0.5, 0, 0, 0, 0, 0, 2}, dense.Floats())
}

func TestEmbeddingLookupSparse(t *testing.T) {
	params := []float32{
		1, 0,
		0, 1,
		2, 2,
	}

	ids := ml.SparseValue{
		Indices:    [][2]int64{{0, 0}, {0, 2}, {2, 1}},
		Values:     []float64{0, 2, 1},
		DenseShape: [2]int64{3, 3},
	}

	weights := ml.SparseValue{
		Indices:    ids.Indices,
		Values:     []float64{1, 3, 2},
		DenseShape: ids.DenseShape,
	}

	cases := []struct {
		name     string
		weights  bool
		combiner ml.Combiner
		want     []float32
	}{
		{"sum", false, ml.CombinerSum, []float32{3, 2, 0, 0, 0, 1}},
		{"weighted sum", true, ml.CombinerSum, []float32{7, 6, 0, 0, 0, 2}},
		{"mean", true, ml.CombinerMean, []float32{7.0 / 4, 6.0 / 4, 0, 0, 0, 1}},
		{"sqrtn", false, ml.CombinerSqrtN, []float32{3 / 1.4142135, 2 / 1.4142135, 0, 0, 0, 1}},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			ctx := setup(t)

			spIDs := ctx.SparsePlaceholder(ml.DTypeI64, -1, 3)
			spIDs.Feed(ids)

			var spWeights *ml.SparseTensor
			if tt.weights {
				w := ctx.SparsePlaceholder(ml.DTypeF32, -1, 3)
				w.Feed(weights)
				spWeights = &w
			}

			y := ctx.EmbeddingLookupSparse(ctx.FromFloats(params, 3, 2), spIDs, spWeights, tt.combiner)
			require.NoError(t, ctx.Compute(y))

			if diff := cmp.Diff(tt.want, y.Floats(), cmpopts.EquateApprox(0, 1e-5)); diff != "" {
				t.Errorf("lookup mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLogValue(t *testing.T) {
	ctx := setup(t)

	x := ctx.Scope("input").Empty(ml.DTypeF32, -1, 2).(*Tensor)
	v := x.LogValue()
	assert.Contains(t, v.String(), "input/placeholder")
	assert.Contains(t, v.String(), "f32")
}

func TestFillLikeShapeOf(t *testing.T) {
	ctx := setup(t)

	x := ctx.Empty(ml.DTypeI64, -1, 3)
	ones := ctx.FillLike(x, 1)
	shape := ctx.ShapeOf(x)

	x.FromInts([]int64{4, 5, 6, 7, 8, 9})
	require.NoError(t, ctx.Forward(ones).Compute(shape))

	assert.Equal(t, ml.DTypeI64, ones.DType())
	assert.Equal(t, []int64{1, 1, 1, 1, 1, 1}, ones.Ints())
	assert.Equal(t, []int64{2, 3}, shape.Ints())
}

func TestSetNameUnique(t *testing.T) {
	ctx := setup(t)

	first := ctx.SparsePlaceholder(ml.DTypeF32, -1, 4)
	second := ctx.SparsePlaceholder(ml.DTypeF32, -1, 4)
	assert.Equal(t, "indices", first.Indices.Name())
	assert.Equal(t, "indices_1", second.Indices.Name())
	assert.Equal(t, "values_1", second.Values.Name())

	x := ctx.Zeros(ml.DTypeF32, 1)
	assert.Equal(t, "fill_1", ctx.FromFloats([]float32{1}, 1).SetName("fill").Name(), "kollidiert mit dem vergebenen Namen")
	assert.Equal(t, "fill", x.Name())
}
