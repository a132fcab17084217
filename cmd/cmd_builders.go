// cmd_builders.go - Command-Builder Funktionen
// Hauptfunktionen: newSampleCmd, newNoiseCmd, newLinearCmd, newEnvCmd
package cmd

import (
	"github.com/spf13/cobra"
)

// newSampleCmd - Erstellt den sample Command
func newSampleCmd() *cobra.Command {
	sampleCmd := &cobra.Command{
		Use:   "sample RANGE NUM",
		Short: "Draw NUM integers from [0, RANGE)",
		Args:  cobra.ExactArgs(2),
		RunE:  SampleHandler,
	}

	sampleCmd.Flags().Int("batch", 0, "Draw one independent sample per row (0 for a single draw)")
	sampleCmd.Flags().Bool("unique", false, "Sample without replacement")

	return sampleCmd
}

// newNoiseCmd - Erstellt den noise Command mit seinen Unterbefehlen
func newNoiseCmd() *cobra.Command {
	noiseCmd := &cobra.Command{
		Use:   "noise",
		Short: "Build sparse random noise tensors",
		Args:  cobra.ExactArgs(0),
	}

	normalCmd := &cobra.Command{
		Use:   "normal ROWS COLS",
		Short: "Sparse tensor with normally distributed values",
		Args:  cobra.ExactArgs(2),
		RunE:  NormalNoiseHandler,
	}
	normalCmd.Flags().Float64("mean", 0, "Mean of the values")
	normalCmd.Flags().Float64("stddev", 1, "Standard deviation of the values")

	saltPepperCmd := &cobra.Command{
		Use:     "saltpepper ROWS COLS",
		Aliases: []string{"salt-pepper"},
		Short:   "Sparse salt and pepper noise",
		Args:    cobra.ExactArgs(2),
		RunE:    SaltPepperNoiseHandler,
	}
	saltPepperCmd.Flags().Float64("max", 1, "Salt value")
	saltPepperCmd.Flags().Float64("min", 0, "Pepper value")

	maskCmd := &cobra.Command{
		Use:   "mask ROWS COLS",
		Short: "Sparse random mask",
		Args:  cobra.ExactArgs(2),
		RunE:  MaskNoiseHandler,
	}
	maskCmd.Flags().Float64Slice("values", []float64{1}, "Mask values, split evenly over each row")

	for _, cmd := range []*cobra.Command{normalCmd, saltPepperCmd, maskCmd} {
		cmd.Flags().Float64("density", 0.1, "Fraction of each row to fill")
		noiseCmd.AddCommand(cmd)
	}

	return noiseCmd
}

// newLinearCmd - Erstellt den linear Command
func newLinearCmd() *cobra.Command {
	linearCmd := &cobra.Command{
		Use:   "linear",
		Short: "Run input, linear, bias and activation layers on random input",
		Args:  cobra.ExactArgs(0),
		RunE:  LinearHandler,
	}

	linearCmd.Flags().Int("inputs", 4, "Number of input units")
	linearCmd.Flags().Int("units", 2, "Number of output units")
	linearCmd.Flags().Int("batch", 2, "Batch size")
	linearCmd.Flags().String("activation", "identity", "Activation: identity, relu, sigmoid, tanh or softmax")
	linearCmd.Flags().Float64("noise", 0, "Standard deviation of gaussian input noise")
	linearCmd.Flags().Float64("saltpepper", 0, "Fraction of input units replaced by salt and pepper noise")
	linearCmd.Flags().Bool("sparse", false, "Feed the input through its sparse representation")

	return linearCmd
}

// newEnvCmd - Erstellt den env Command
func newEnvCmd() *cobra.Command {
	envCmd := &cobra.Command{
		Use:   "env",
		Short: "Show the environment configuration",
		Args:  cobra.ExactArgs(0),
		RunE:  EnvHandler,
	}

	envCmd.Flags().String("format", "table", "Output format (table, shell)")
	return envCmd
}
