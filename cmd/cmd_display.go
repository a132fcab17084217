// cmd_display.go - Ausgabe von Tensoren
// Hauptfunktionen: printTensor, printSparse
package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"

	"github.com/tensorx/tensorx/envconfig"
	"github.com/tensorx/tensorx/ml"
)

func dumpOptions() []ml.DumpOptions {
	return []ml.DumpOptions{
		ml.DumpWithPrecision(int(envconfig.DumpPrecision())),
		ml.DumpWithThreshold(int(envconfig.DumpThreshold())),
	}
}

// terminalWidth - Breite des Terminals hinter w, 0 wenn w kein Terminal ist
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}

	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}

	return width
}

// widest - Breiteste Zeile in Terminal-Spalten
func widest(s string) int {
	n := 0
	for line := range strings.SplitSeq(s, "\n") {
		n = max(n, runewidth.StringWidth(line))
	}
	return n
}

// printTensor - Gibt einen dichten Tensor aus; zu breite Ausgaben werden gekuerzt
func printTensor(w io.Writer, ctx ml.Context, t ml.Tensor) error {
	if t.Floats() == nil {
		if err := ctx.Forward(t).Compute(t); err != nil {
			return err
		}
	}

	s := ml.Dump(ctx, t, dumpOptions()...)
	if width := terminalWidth(w); width > 0 && widest(s) > width {
		s = ml.Dump(ctx, t, append(dumpOptions(), ml.DumpWithThreshold(0))...)
	}

	_, err := fmt.Fprintln(w, s)
	return err
}

// printSparse - Gibt einen Sparse-Tensor als Tabelle oder als dichte Matrix aus
func printSparse(w io.Writer, ctx ml.Context, sp ml.SparseTensor) error {
	if err := ctx.Forward(sp.Tensors()...).Compute(sp.Tensors()...); err != nil {
		return err
	}

	v, err := sp.Value()
	if err != nil {
		return err
	}

	if envconfig.NoTable() {
		_, err := fmt.Fprintln(w, ml.DumpSparse(ctx, sp, dumpOptions()...))
		return err
	}

	precision := int(envconfig.DumpPrecision())
	data := make([][]string, 0, v.Len())
	for i, idx := range v.Indices {
		data = append(data, []string{
			strconv.FormatInt(idx[0], 10),
			strconv.FormatInt(idx[1], 10),
			strconv.FormatFloat(v.Values[i], 'f', precision, 64),
		})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ROW", "COL", "VALUE"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	_, err = fmt.Fprintf(w, "%d entries, dense shape %dx%d\n", v.Len(), v.DenseShape[0], v.DenseShape[1])
	return err
}
