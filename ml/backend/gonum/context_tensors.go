// context_tensors.go - Tensor-Erstellung im Context
// Enthaelt: Empty, Zeros, Fill, FromFloats, FromInts, Arange, SparsePlaceholder, Variable, FillLike, ShapeOf

package gonum

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/tensorx/tensorx/ml"
)

// Empty erzeugt einen Platzhalter, der vor Compute gefuettert werden muss
func (c *Context) Empty(dtype ml.DType, shape ...int) ml.Tensor {
	if slices.ContainsFunc(shape, func(d int) bool { return d < -1 }) {
		return c.fail("placeholder", fmt.Errorf("invalid placeholder shape %v", shape))
	}

	return c.newTensor("placeholder", kindInput, dtype, slices.Clone(shape))
}

// Zeros erzeugt einen mit Nullen gefuellten konstanten Tensor
func (c *Context) Zeros(dtype ml.DType, shape ...int) ml.Tensor {
	return c.Fill(dtype, 0, shape...)
}

// Fill erzeugt einen konstanten Tensor mit einem einzigen Wert
func (c *Context) Fill(dtype ml.DType, v float64, shape ...int) ml.Tensor {
	if !known(shape) {
		return c.fail("fill", fmt.Errorf("fill needs a known shape, got %v", shape))
	}

	return c.constant("fill", dtype, &value{shape: slices.Clone(shape), data: tile([]float64{v}, numElements(shape))})
}

// FromFloats erzeugt einen konstanten Tensor aus Float32-Daten
func (c *Context) FromFloats(s []float32, shape ...int) ml.Tensor {
	data := make([]float64, len(s))
	for i, f := range s {
		data[i] = float64(f)
	}

	return c.fromData("const", ml.DTypeF32, data, shape)
}

// FromInts erzeugt einen konstanten Int64-Tensor
func (c *Context) FromInts(s []int64, shape ...int) ml.Tensor {
	data := make([]float64, len(s))
	for i, n := range s {
		data[i] = float64(n)
	}

	return c.fromData("const", ml.DTypeI64, data, shape)
}

func (c *Context) fromData(op string, dtype ml.DType, data []float64, shape []int) ml.Tensor {
	if len(shape) == 0 {
		shape = []int{len(data)}
	}

	if !known(shape) || numElements(shape) != len(data) {
		return c.fail(op, fmt.Errorf("%d values do not fit shape %v", len(data), shape))
	}

	return c.constant(op, dtype, &value{shape: slices.Clone(shape), data: data})
}

func (c *Context) constant(op string, dtype ml.DType, v *value) *Tensor {
	round(dtype, v.data)
	t := c.newTensor(op, kindConst, dtype, slices.Clone(v.shape))
	t.state = v
	return t
}

// Arange erzeugt einen 1D Tensor mit Werten in [start, stop) im Abstand step
func (c *Context) Arange(start, stop, step float32, dtype ml.DType) ml.Tensor {
	if step == 0 {
		return c.fail("arange", errors.New("arange step must not be zero"))
	}

	n := max(int(math.Ceil(float64((stop-start)/step))), 0)
	data := make([]float64, n)
	for i := range data {
		data[i] = float64(start) + float64(i)*float64(step)
	}

	return c.constant("arange", dtype, &value{shape: []int{n}, data: data})
}

// SparsePlaceholder erzeugt Platzhalter fuer Indizes, Werte und Dense-Shape
func (c *Context) SparsePlaceholder(dtype ml.DType, shape ...int) ml.SparseTensor {
	if len(shape) != 2 {
		bad := c.fail("sparse_placeholder", fmt.Errorf("sparse tensors must have rank 2, got %v", shape))
		return ml.SparseTensor{Indices: bad, Values: bad, DenseShape: bad}
	}

	return ml.SparseTensor{
		Indices:    c.Empty(ml.DTypeI64, -1, 2).SetName("indices"),
		Values:     c.Empty(dtype, -1).SetName("values"),
		DenseShape: c.Empty(ml.DTypeI64, 2).SetName("dense_shape"),
	}
}

// Variable erzeugt eine benannte Variable, die beim ersten Compute aus init belegt wird
func (c *Context) Variable(name string, init ml.Tensor) ml.Tensor {
	full := join(c.scope, name)
	if _, ok := c.g.vars[full]; ok {
		return c.fail(name, fmt.Errorf("variable %q already exists", full))
	}

	src := init.(*Tensor)
	if src.err != nil {
		return src
	}

	t := c.newTensor(name, kindVariable, src.dtype, src.Shape(), src)
	t.name = full
	c.g.vars[full] = t
	return t
}

// staticShape liest eine konstante Dense-Shape, sonst unbekannt
func staticShape(t *Tensor) []int {
	if t.kind == kindConst && t.state != nil && len(t.state.data) == 2 {
		return []int{int(t.state.data[0]), int(t.state.data[1])}
	}

	return []int{-1, -1}
}

// FillLike erzeugt einen Tensor mit Laufzeit-Shape und Datentyp von t
func (c *Context) FillLike(t ml.Tensor, v float64) ml.Tensor {
	like := t.(*Tensor)
	if like.err != nil {
		return like
	}

	return c.op("fill_like", like.dtype, like.Shape(), func(in []*value) (*value, error) {
		return &value{shape: slices.Clone(in[0].shape), data: tile([]float64{v}, len(in[0].data))}, nil
	}, like)
}

// ShapeOf gibt die Laufzeit-Shape von t als Int64-Vektor zurueck
func (c *Context) ShapeOf(t ml.Tensor) ml.Tensor {
	like := t.(*Tensor)
	if like.err != nil {
		return like
	}

	return c.op("shape", ml.DTypeI64, []int{len(like.shape)}, func(in []*value) (*value, error) {
		out := newValue([]int{len(in[0].shape)})
		for i, d := range in[0].shape {
			out.data[i] = float64(d)
		}
		return out, nil
	}, like)
}
