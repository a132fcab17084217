// dump.go - Dump-Funktionen fuer Tensor-Debugging und Visualisierung
// Dieses Modul stellt Hilfsfunktionen zum Ausgeben von Tensor-Inhalten bereit.
package ml

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

func mul[T number](s ...T) T {
	p := T(1)
	for _, v := range s {
		p *= v
	}

	return p
}

// DumpOptions configures tensor dump output format.
type DumpOptions func(*dumpOptions)

// DumpWithPrecision sets the number of decimal places to print. Applies to float types.
func DumpWithPrecision(n int) DumpOptions {
	return func(opts *dumpOptions) {
		opts.Precision = n
	}
}

// DumpWithThreshold sets the threshold for printing the entire tensor. If the number of elements
// is less than or equal to this value, the entire tensor will be printed. Otherwise, only the
// beginning and end of each dimension will be printed.
func DumpWithThreshold(n int) DumpOptions {
	return func(opts *dumpOptions) {
		opts.Threshold = n
	}
}

// DumpWithEdgeItems sets the number of elements to print at the beginning and end of each dimension.
func DumpWithEdgeItems(n int) DumpOptions {
	return func(opts *dumpOptions) {
		opts.EdgeItems = n
	}
}

type dumpOptions struct {
	Precision, Threshold, EdgeItems int
}

// Dump converts a tensor to a human-readable string representation,
// computing it first if needed.
func Dump(ctx Context, t Tensor, optsFuncs ...DumpOptions) string {
	opts := dumpOptions{Precision: 4, Threshold: 1000, EdgeItems: 3}
	for _, optsFunc := range optsFuncs {
		optsFunc(&opts)
	}

	if t.Floats() == nil {
		if err := ctx.Forward(t).Compute(t); err != nil {
			return fmt.Sprintf("<error: %v>", err)
		}
	}

	// Laufzeit-Shape aus den Daten ableiten, statische Shape kann -1 enthalten
	shape := t.Shape()
	if n := len(t.Floats()); mul(shape...) != n {
		shape = resolveShape(shape, n)
	}

	if mul(shape...) <= opts.Threshold {
		opts.EdgeItems = math.MaxInt
	}

	switch t.DType() {
	case DTypeF32, DTypeF16:
		return dump(t.Floats(), shape, opts.EdgeItems, func(f float32) string {
			return strconv.FormatFloat(float64(f), 'f', opts.Precision, 32)
		})
	case DTypeI32, DTypeI64:
		return dump(t.Ints(), shape, opts.EdgeItems, func(i int64) string {
			return strconv.FormatInt(i, 10)
		})
	default:
		return "<unsupported>"
	}
}

// DumpSparse prints the dense expansion of a computed sparse tensor.
func DumpSparse(ctx Context, sp SparseTensor, optsFuncs ...DumpOptions) string {
	if sp.Indices.Ints() == nil {
		if err := ctx.Forward(sp.Tensors()...).Compute(sp.Tensors()...); err != nil {
			return fmt.Sprintf("<error: %v>", err)
		}
	}

	v, err := sp.Value()
	if err != nil {
		return fmt.Sprintf("<error: %v>", err)
	}

	opts := dumpOptions{Precision: 4, Threshold: 1000, EdgeItems: 3}
	for _, optsFunc := range optsFuncs {
		optsFunc(&opts)
	}

	shape := []int{int(v.DenseShape[0]), int(v.DenseShape[1])}
	if mul(shape...) <= opts.Threshold {
		opts.EdgeItems = math.MaxInt
	}

	flat := make([]float64, 0, mul(shape...))
	for _, row := range v.Dense() {
		flat = append(flat, row...)
	}

	return dump(flat, shape, opts.EdgeItems, func(f float64) string {
		return strconv.FormatFloat(f, 'f', opts.Precision, 64)
	})
}

// resolveShape ersetzt unbekannte Dimensionen anhand der Elementanzahl
func resolveShape(shape []int, n int) []int {
	known, unknown := 1, -1
	for i, d := range shape {
		if d < 0 {
			unknown = i
		} else {
			known *= d
		}
	}

	resolved := append([]int(nil), shape...)
	if unknown >= 0 && known > 0 {
		resolved[unknown] = n / known
	} else if unknown >= 0 {
		resolved[unknown] = 0
	}

	return resolved
}

func dump[S ~[]E, E number](s S, shape []int, items int, fn func(E) string) string {
	if len(shape) == 0 || len(s) == 0 {
		return "[]"
	}

	var sb strings.Builder
	var f func([]int, int)
	f = func(dims []int, stride int) {
		prefix := strings.Repeat(" ", len(shape)-len(dims)+1)
		sb.WriteString("[")
		defer func() { sb.WriteString("]") }()
		for i := 0; i < dims[0]; i++ {
			if i >= items && i < dims[0]-items {
				sb.WriteString("..., ")
				// skip to next printable element
				skip := dims[0] - 2*items
				if len(dims) > 1 {
					stride += mul(append(dims[1:], skip)...)
					fmt.Fprint(&sb, strings.Repeat("\n", len(dims)-1), prefix)
				}
				i += skip - 1
			} else if len(dims) > 1 {
				f(dims[1:], stride)
				stride += mul(dims[1:]...)
				if i < dims[0]-1 {
					fmt.Fprint(&sb, ",", strings.Repeat("\n", len(dims)-1), prefix)
				}
			} else {
				text := fn(s[stride+i])
				if len(text) > 0 && text[0] != '-' {
					sb.WriteString(" ")
				}

				sb.WriteString(text)
				if i < dims[0]-1 {
					sb.WriteString(", ")
				}
			}
		}
	}
	f(shape, 0)

	return sb.String()
}
