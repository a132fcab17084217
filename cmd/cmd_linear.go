// cmd_linear.go - Linear-Command
// Hauptfunktionen: LinearHandler
package cmd

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tensorx/tensorx/ml"
	"github.com/tensorx/tensorx/nn"
)

var activations = map[string]nn.ActivationFunc{
	"identity": nn.Identity,
	"relu":     nn.RELU,
	"sigmoid":  nn.Sigmoid,
	"tanh":     nn.Tanh,
	"softmax":  nn.Softmax,
}

// LinearHandler - Baut Input -> [Noise] -> [ToSparse] -> Linear -> Bias -> Activation
// und fuehrt das Netz auf zufaelliger Eingabe aus
func LinearHandler(cmd *cobra.Command, _ []string) error {
	inputs, _ := cmd.Flags().GetInt("inputs")
	units, _ := cmd.Flags().GetInt("units")
	batch, _ := cmd.Flags().GetInt("batch")
	stddev, _ := cmd.Flags().GetFloat64("noise")
	amount, _ := cmd.Flags().GetFloat64("saltpepper")
	sparse, _ := cmd.Flags().GetBool("sparse")
	name, _ := cmd.Flags().GetString("activation")

	fn, ok := activations[strings.ToLower(name)]
	if !ok {
		names := make([]string, 0, len(activations))
		for k := range activations {
			names = append(names, k)
		}
		slices.Sort(names)
		return fmt.Errorf("unknown activation %q, expected one of %s", name, strings.Join(names, ", "))
	}

	ctx, err := newContext(cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	in, err := nn.NewInput(ctx, inputs, nn.WithBatchSize(batch))
	if err != nil {
		return err
	}

	var layer nn.Layer = in
	if stddev > 0 {
		if layer, err = nn.NewGaussianNoise(ctx, layer, 1, stddev); err != nil {
			return err
		}
	}

	if amount > 0 {
		if layer, err = nn.NewSaltPepperNoise(ctx, layer, amount, 1, -1); err != nil {
			return err
		}
	}

	if sparse {
		if layer, err = nn.NewToSparse(ctx, layer); err != nil {
			return err
		}
	}

	linear, err := nn.NewLinear(ctx, layer, units)
	if err != nil {
		return err
	}

	bias, err := nn.NewBias(ctx, linear, "")
	if err != nil {
		return err
	}

	out, err := nn.NewActivation(ctx, bias, fn)
	if err != nil {
		return err
	}

	x := ctx.RandomUniform(ml.DTypeF32, -1, 1, []int{batch, inputs})
	if err := ctx.Forward(x).Compute(x); err != nil {
		return err
	}
	in.Tensor().FromFloats(x.Floats())

	if err := ctx.Forward(out.Tensor(), linear.Weights()).Compute(out.Tensor(), linear.Weights()); err != nil {
		return err
	}

	slog.Debug("network computed", "layers", layer.Name()+" -> "+out.Name(), "shape", out.Shape())

	w := cmd.OutOrStdout()
	for _, t := range []struct {
		title  string
		tensor ml.Tensor
	}{
		{"input", x},
		{linear.Weights().Name(), linear.Weights()},
		{out.Name(), out.Tensor()},
	} {
		fmt.Fprintf(w, "%s:\n", t.title)
		if err := printTensor(w, ctx, t.tensor); err != nil {
			return err
		}
	}

	return nil
}
