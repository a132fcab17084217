// cmd_utils.go - Gemeinsame Hilfsfunktionen
// Hauptfunktionen: newContext, EnvHandler
package cmd

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/tensorx/tensorx/envconfig"
	"github.com/tensorx/tensorx/ml"
)

// newContext - Erstellt Backend und Graph-Context aus den globalen Flags
func newContext(cmd *cobra.Command) (ml.Context, error) {
	name, _ := cmd.Flags().GetString("backend")
	seed, _ := cmd.Flags().GetUint64("seed")
	threads, _ := cmd.Flags().GetInt("threads")

	b, err := ml.NewBackend(name, ml.BackendParams{Seed: seed, NumThreads: threads})
	if err != nil {
		return nil, fmt.Errorf("%w (available: %v)", err, ml.Backends())
	}

	params := b.Params()
	slog.Debug("backend ready", "backend", name, "seed", params.Seed, "threads", params.NumThreads)
	return b.NewContext(), nil
}

// EnvHandler - Zeigt alle Umgebungsvariablen mit aktuellem Wert
func EnvHandler(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "table":
	case "shell":
		vals := envconfig.Values()
		for _, k := range slices.Sorted(maps.Keys(vals)) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s=%q\n", k, vals[k])
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (table, shell)", format)
	}

	envs := envconfig.AsMap()

	var data [][]string
	for _, k := range slices.Sorted(maps.Keys(envs)) {
		e := envs[k]
		data = append(data, []string{e.Name, fmt.Sprintf("%v", e.Value), e.Description})
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"NAME", "VALUE", "DESCRIPTION"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	return nil
}
