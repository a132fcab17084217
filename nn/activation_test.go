package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivation(t *testing.T) {
	ctx := setup(t)

	in, err := NewInput(ctx, 3)
	require.NoError(t, err)

	cases := []struct {
		fn   ActivationFunc
		want []float32
	}{
		{nil, []float32{-1, 0, 2}},
		{RELU, []float32{0, 0, 2}},
		{Sigmoid, []float32{0.26894142, 0.5, 0.8807971}},
		{Tanh, []float32{-0.7615942, 0, 0.9640276}},
		{Softmax, []float32{0.04201007, 0.1141952, 0.8437947}},
	}

	var layers []*Activation
	for _, tt := range cases {
		a, err := NewActivation(ctx, in, tt.fn)
		require.NoError(t, err)
		assert.Equal(t, "input_activation", a.Name())
		layers = append(layers, a)
	}

	in.Tensor().FromFloats([]float32{-1, 0, 2})
	for i, tt := range cases {
		compute(t, ctx, layers[i].Tensor())
		approx(t, tt.want, layers[i].Tensor().Floats())
	}
}

func TestNetwork(t *testing.T) {
	ctx := setup(t)

	in, err := NewInput(ctx, 4, WithBatchSize(2))
	require.NoError(t, err)
	h, err := NewLinear(ctx, in, 3)
	require.NoError(t, err)
	b, err := NewBias(ctx, h, "")
	require.NoError(t, err)
	a, err := NewActivation(ctx, b, Softmax)
	require.NoError(t, err)

	assert.Equal(t, "linear_bias_activation", a.Name())
	assert.Equal(t, []int{2, 3}, a.Shape())

	in.Tensor().FromFloats([]float32{1, 2, 3, 4, 5, 6, 7, 8})
	compute(t, ctx, a.Tensor())

	out := a.Tensor().Floats()
	require.Len(t, out, 6)
	for r := range 2 {
		assert.InDelta(t, 1, out[r*3]+out[r*3+1]+out[r*3+2], 1e-5)
	}
}
