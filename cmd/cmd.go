// cmd.go - Haupt-CLI Setup und Root Command
// Hauptfunktionen: NewCLI, appendEnvDocs
package cmd

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/containerd/console"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tensorx/tensorx/envconfig"
	"github.com/tensorx/tensorx/logutil"
	_ "github.com/tensorx/tensorx/ml/backend"
)

// appendEnvDocs - Fuegt Umgebungsvariablen-Dokumentation zum Command hinzu
func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-24s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

// NewCLI - Erstellt das Haupt-CLI mit allen Commands
func NewCLI() *cobra.Command {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	cobra.EnableCommandSorting = false

	if runtime.GOOS == "windows" && term.IsTerminal(int(os.Stdout.Fd())) {
		console.ConsoleFromFile(os.Stdin) //nolint:errcheck
	}

	rootCmd := &cobra.Command{
		Use:           "tensorx",
		Short:         "Sparse noise and layer graphs on a pure Go backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			slog.SetDefault(logutil.NewLogger(cmd.ErrOrStderr(), envconfig.LogLevel()))
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Print(cmd.UsageString())
		},
	}

	rootCmd.PersistentFlags().String("backend", envconfig.Backend(), "Graph backend")
	rootCmd.PersistentFlags().Uint64("seed", envconfig.Seed(), "Graph level random seed, 0 picks a random seed")
	rootCmd.PersistentFlags().Int("threads", envconfig.NumThreads(), "Maximum parallelism of batched operations")

	// Commands erstellen
	sampleCmd := newSampleCmd()
	noiseCmd := newNoiseCmd()
	linearCmd := newLinearCmd()
	envCmd := newEnvCmd()

	// Environment-Dokumentation hinzufuegen
	envVars := envconfig.AsMap()
	envs := []envconfig.EnvVar{
		envVars["TENSORX_DEBUG"],
		envVars["TENSORX_SEED"],
		envVars["TENSORX_NUM_THREADS"],
		envVars["TENSORX_BACKEND"],
	}

	for _, cmd := range []*cobra.Command{sampleCmd, noiseCmd, linearCmd} {
		switch cmd {
		case noiseCmd:
			appendEnvDocs(cmd, append(envs, envVars["TENSORX_NO_TABLE"], envVars["TENSORX_DUMP_PRECISION"]))
		default:
			appendEnvDocs(cmd, append(envs, envVars["TENSORX_DUMP_THRESHOLD"], envVars["TENSORX_DUMP_PRECISION"]))
		}
	}

	rootCmd.AddCommand(
		sampleCmd,
		noiseCmd,
		linearCmd,
		envCmd,
	)

	return rootCmd
}
