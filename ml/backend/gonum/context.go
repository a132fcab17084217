// context.go - Context-Struktur und Kern-Methoden
// Enthaelt: Context struct, Scope(), Forward(), Compute(), Close() und Graph-Auswertung

package gonum

import (
	"fmt"
	"log/slog"

	"github.com/tensorx/tensorx/logutil"
	"github.com/tensorx/tensorx/ml"
)

// graph sammelt alle Knoten eines Kontexts und seiner Scopes
type graph struct {
	nodes []*Tensor

	// names zaehlt vergebene Namen fuer eindeutige Suffixe
	names map[string]int

	// vars sind die Variablen nach vollem Namen
	vars map[string]*Tensor

	// forward sind die fuer den naechsten Compute vorgemerkten Tensoren
	forward []*Tensor

	// err ist der erste Fehler beim Graph-Aufbau
	err error
}

// Context repraesentiert einen Berechnungskontext mit Namens-Scope
type Context struct {
	b     *Backend
	g     *graph
	scope string
}

func join(scope, name string) string {
	if scope == "" {
		return name
	}

	return scope + "/" + name
}

// Scope gibt einen Kontext mit verschachteltem Namens-Scope zurueck
func (c *Context) Scope(name string) ml.Context {
	return &Context{b: c.b, g: c.g, scope: join(c.scope, name)}
}

// Name gibt den Scope-Pfad zurueck
func (c *Context) Name() string {
	return c.scope
}

// uniqueName vergibt Namen wie "scope/op", "scope/op_1", ...
func (c *Context) uniqueName(op string) string {
	return c.g.unique(join(c.scope, op))
}

// unique haengt bei wiederholt vergebenen Namen einen Zaehler an
func (g *graph) unique(name string) string {
	n := g.names[name]
	g.names[name]++
	if n > 0 {
		name = fmt.Sprintf("%s_%d", name, n)
	}

	return name
}

// newTensor legt einen neuen Knoten im Graphen an
func (c *Context) newTensor(op string, k kind, dtype ml.DType, shape []int, inputs ...*Tensor) *Tensor {
	t := &Tensor{
		g:      c.g,
		id:     len(c.g.nodes),
		scope:  c.scope,
		name:   c.uniqueName(op),
		kind:   k,
		dtype:  dtype,
		shape:  shape,
		inputs: inputs,
	}
	c.g.nodes = append(c.g.nodes, t)
	return t
}

// op legt einen Operations-Knoten an
func (c *Context) op(op string, dtype ml.DType, shape []int, eval func([]*value) (*value, error), inputs ...*Tensor) *Tensor {
	t := c.newTensor(op, kindOp, dtype, shape, inputs...)
	t.eval = eval
	return t
}

// fail legt einen fehlerhaften Knoten an und merkt sich den ersten Fehler im Graphen
func (c *Context) fail(op string, err error) *Tensor {
	t := c.newTensor(op, kindOp, ml.DTypeOther, nil)
	t.err = fmt.Errorf("%s: %w", t.name, err)
	if c.g.err == nil {
		c.g.err = t.err
	}

	return t
}

// Forward merkt Tensoren fuer den naechsten Compute vor
func (c *Context) Forward(tensors ...ml.Tensor) ml.Context {
	for _, t := range tensors {
		c.g.forward = append(c.g.forward, t.(*Tensor))
	}

	return c
}

// Compute wertet die vorgemerkten und die uebergebenen Tensoren aus
func (c *Context) Compute(tensors ...ml.Tensor) error {
	c.b.schedMu.Lock()
	defer c.b.schedMu.Unlock()

	targets := c.g.forward
	c.g.forward = nil
	for _, t := range tensors {
		targets = append(targets, t.(*Tensor))
	}

	if c.g.err != nil {
		return c.g.err
	}

	memo := make(map[*Tensor]*value)
	for _, t := range targets {
		v, err := c.g.evaluate(t, memo)
		if err != nil {
			return err
		}

		t.result = v
	}

	logutil.Trace("compute graph", "nodes", len(memo), "outputs", len(targets))
	return nil
}

// evaluate berechnet einen Knoten rekursiv; memo gilt fuer einen Compute-Aufruf
func (g *graph) evaluate(t *Tensor, memo map[*Tensor]*value) (*value, error) {
	if v, ok := memo[t]; ok {
		return v, nil
	}

	if t.err != nil {
		return nil, t.err
	}

	var v *value
	switch {
	case t.fed != nil:
		v = t.fed
	case t.kind == kindInput:
		return nil, fmt.Errorf("placeholder %q was not fed", t.name)
	case t.kind == kindConst:
		v = t.state
	case t.kind == kindVariable:
		if t.state == nil {
			init, err := g.evaluate(t.inputs[0], memo)
			if err != nil {
				return nil, err
			}

			t.state = init.clone()
			round(t.dtype, t.state.data)
			slog.Debug("variable initialized", "tensor", t)
		}
		v = t.state
	default:
		in := make([]*value, len(t.inputs))
		for i, input := range t.inputs {
			var err error
			if in[i], err = g.evaluate(input, memo); err != nil {
				return nil, err
			}
		}

		var err error
		if v, err = t.eval(in); err != nil {
			return nil, fmt.Errorf("%s: %w", t.name, err)
		}
		round(t.dtype, v.data)
	}

	if !compatible(t.shape, v.shape) {
		return nil, fmt.Errorf("%s: computed shape %v does not match %v", t.name, v.shape, t.shape)
	}

	memo[t] = v
	return v, nil
}

// Close gibt die Werte aller Knoten frei; Variablen behalten ihren Zustand nicht
func (c *Context) Close() {
	if c != nil {
		for _, t := range c.g.nodes {
			t.result, t.fed = nil, nil
			if t.kind == kindVariable {
				t.state = nil
			}
		}
		c.g.forward = nil
	}
}
