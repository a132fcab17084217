// cmd_noise.go - Sample- und Noise-Commands
// Hauptfunktionen: SampleHandler, NormalNoiseHandler, SaltPepperNoiseHandler, MaskNoiseHandler
package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tensorx/tensorx/ml"
	"github.com/tensorx/tensorx/random"
)

// SampleHandler - Zieht Zufallsindizes und gibt sie aus
func SampleHandler(cmd *cobra.Command, args []string) error {
	dims, err := parseInts(args, "RANGE", "NUM")
	if err != nil {
		return err
	}

	batch, _ := cmd.Flags().GetInt("batch")
	unique, _ := cmd.Flags().GetBool("unique")

	ctx, err := newContext(cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	samples, err := random.Sample(ctx, dims[0], dims[1], batch, unique)
	if err != nil {
		return err
	}

	return printTensor(cmd.OutOrStdout(), ctx, samples)
}

// NormalNoiseHandler - Sparse-Tensor mit normalverteilten Werten
func NormalNoiseHandler(cmd *cobra.Command, args []string) error {
	shape, density, err := noiseArgs(cmd, args)
	if err != nil {
		return err
	}

	mean, _ := cmd.Flags().GetFloat64("mean")
	stddev, _ := cmd.Flags().GetFloat64("stddev")

	ctx, err := newContext(cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	sp, err := random.SparseRandomNormal(ctx, shape, density, mean, stddev, ml.DTypeF32)
	if err != nil {
		return err
	}

	return printSparse(cmd.OutOrStdout(), ctx, sp)
}

// SaltPepperNoiseHandler - Salz-und-Pfeffer-Rauschen
func SaltPepperNoiseHandler(cmd *cobra.Command, args []string) error {
	shape, density, err := noiseArgs(cmd, args)
	if err != nil {
		return err
	}

	maxValue, _ := cmd.Flags().GetFloat64("max")
	minValue, _ := cmd.Flags().GetFloat64("min")

	ctx, err := newContext(cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	sp, err := random.SaltPepperNoise(ctx, shape, density, maxValue, minValue, ml.DTypeF32)
	if err != nil {
		return err
	}

	if sp == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "no noise: density %v corrupts fewer than 2 of %d columns\n", density, shape[1])
		return nil
	}

	return printSparse(cmd.OutOrStdout(), ctx, *sp)
}

// MaskNoiseHandler - Zufaellige Maske mit gegebenen Werten
func MaskNoiseHandler(cmd *cobra.Command, args []string) error {
	shape, density, err := noiseArgs(cmd, args)
	if err != nil {
		return err
	}

	values, _ := cmd.Flags().GetFloat64Slice("values")

	ctx, err := newContext(cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	sp, err := random.SparseRandomMask(ctx, shape, density, values, ml.DTypeF32)
	if err != nil {
		return err
	}

	return printSparse(cmd.OutOrStdout(), ctx, sp)
}

// noiseArgs - Liest ROWS, COLS und --density
func noiseArgs(cmd *cobra.Command, args []string) ([2]int, float64, error) {
	dims, err := parseInts(args, "ROWS", "COLS")
	if err != nil {
		return [2]int{}, 0, err
	}

	density, _ := cmd.Flags().GetFloat64("density")
	return [2]int{dims[0], dims[1]}, density, nil
}

// parseInts - Wandelt Positionsargumente in Ganzzahlen um
func parseInts(args []string, names ...string) ([]int, error) {
	out := make([]int, len(args))
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: expected an integer", names[i], arg)
		}
		out[i] = n
	}

	return out, nil
}
