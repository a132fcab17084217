// context_random.go - Zufallsoperationen im Context
// Enthaelt: RandomNormal, RandomUniform, UniformCandidateSampler, BatchCandidateSampler, Shuffle
//
// Jede Operation besitzt einen eigenen PCG-Strom aus (Backend-Seed, Op-Seed).
// Ohne WithSeed ist der Op-Seed die Knotennummer.

package gonum

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/tensorx/tensorx/ml"
)

// source erzeugt den Zufallsstrom fuer den naechsten Knoten
func (c *Context) source(opts []func(*ml.RandomOptions)) (*rand.PCG, uint64) {
	var o ml.RandomOptions
	for _, opt := range opts {
		opt(&o)
	}

	seed := uint64(len(c.g.nodes))
	if o.Seed != nil {
		seed = *o.Seed
	}

	return rand.NewPCG(c.b.params.Seed, seed), seed
}

// RandomNormal zieht normalverteilte Werte mit fester Shape
func (c *Context) RandomNormal(dtype ml.DType, mean, stddev float64, shape []int, opts ...func(*ml.RandomOptions)) ml.Tensor {
	if !known(shape) {
		return c.fail("random_normal", fmt.Errorf("random normal needs a known shape, got %v", shape))
	}

	src, _ := c.source(opts)
	dist := distuv.Normal{Mu: mean, Sigma: stddev, Src: src}
	shape = slices.Clone(shape)
	return c.op("random_normal", dtype, shape, func([]*value) (*value, error) {
		out := newValue(slices.Clone(shape))
		for i := range out.data {
			out.data[i] = dist.Rand()
		}
		return out, nil
	})
}

// RandomNormalLike zieht normalverteilte Werte mit der Laufzeit-Shape von t
func (c *Context) RandomNormalLike(t ml.Tensor, mean, stddev float64, opts ...func(*ml.RandomOptions)) ml.Tensor {
	like := t.(*Tensor)
	if like.err != nil {
		return like
	}

	src, _ := c.source(opts)
	dist := distuv.Normal{Mu: mean, Sigma: stddev, Src: src}
	return c.op("random_normal", like.dtype, like.Shape(), func(in []*value) (*value, error) {
		out := newValue(slices.Clone(in[0].shape))
		for i := range out.data {
			out.data[i] = dist.Rand()
		}
		return out, nil
	}, like)
}

// RandomUniform zieht gleichverteilte Werte aus [min, max)
func (c *Context) RandomUniform(dtype ml.DType, min, max float64, shape []int, opts ...func(*ml.RandomOptions)) ml.Tensor {
	if !known(shape) {
		return c.fail("random_uniform", fmt.Errorf("random uniform needs a known shape, got %v", shape))
	}

	if max < min {
		return c.fail("random_uniform", fmt.Errorf("invalid range [%v, %v)", min, max))
	}

	src, _ := c.source(opts)
	dist := distuv.Uniform{Min: min, Max: max, Src: src}
	shape = slices.Clone(shape)
	return c.op("random_uniform", dtype, shape, func([]*value) (*value, error) {
		out := newValue(slices.Clone(shape))
		for i := range out.data {
			out.data[i] = dist.Rand()
		}
		return out, nil
	})
}

func validateSampler(numSampled, rangeMax int, unique bool) error {
	switch {
	case numSampled < 0:
		return fmt.Errorf("num_sampled must be >= 0, got %d", numSampled)
	case rangeMax <= 0:
		return fmt.Errorf("range_max must be > 0, got %d", rangeMax)
	case unique && numSampled > rangeMax:
		return fmt.Errorf("cannot sample %d unique values from range %d", numSampled, rangeMax)
	}

	return nil
}

// sampleRow fuellt dst mit Ganzzahlen aus [0, rangeMax)
func sampleRow(dst []float64, rangeMax int, unique bool, src rand.Source) {
	if len(dst) == 0 {
		return
	}

	if unique {
		idxs := make([]int, len(dst))
		sampleuv.WithoutReplacement(idxs, rangeMax, src)
		for i, x := range idxs {
			dst[i] = float64(x)
		}
		return
	}

	rng := rand.New(src)
	for i := range dst {
		dst[i] = float64(rng.IntN(rangeMax))
	}
}

// UniformCandidateSampler zieht numSampled Werte aus [0, rangeMax)
func (c *Context) UniformCandidateSampler(numSampled, rangeMax int, unique bool, opts ...func(*ml.RandomOptions)) ml.Tensor {
	if err := validateSampler(numSampled, rangeMax, unique); err != nil {
		return c.fail("candidate_sampler", err)
	}

	src, _ := c.source(opts)
	return c.op("candidate_sampler", ml.DTypeI64, []int{numSampled}, func([]*value) (*value, error) {
		out := newValue([]int{numSampled})
		sampleRow(out.data, rangeMax, unique, src)
		return out, nil
	})
}

// BatchCandidateSampler zieht pro Zeile unabhaengig numSampled Werte.
// Die Zeilen-Seeds werden sequentiell gezogen, die Zeilen parallel berechnet.
func (c *Context) BatchCandidateSampler(batchSize, numSampled, rangeMax int, unique bool, opts ...func(*ml.RandomOptions)) ml.Tensor {
	if batchSize < 0 {
		return c.fail("batch_candidate_sampler", fmt.Errorf("batch size must be >= 0, got %d", batchSize))
	}

	if err := validateSampler(numSampled, rangeMax, unique); err != nil {
		return c.fail("batch_candidate_sampler", err)
	}

	src, opSeed := c.source(opts)
	rng := rand.New(src)
	threads := c.b.params.NumThreads
	return c.op("batch_candidate_sampler", ml.DTypeI64, []int{batchSize, numSampled}, func([]*value) (*value, error) {
		out := newValue([]int{batchSize, numSampled})
		seeds := make([]uint64, batchSize)
		for i := range seeds {
			seeds[i] = rng.Uint64()
		}

		var g errgroup.Group
		g.SetLimit(threads)
		for r := range batchSize {
			g.Go(func() error {
				sampleRow(out.data[r*numSampled:(r+1)*numSampled], rangeMax, unique, rand.NewPCG(seeds[r], opSeed))
				return nil
			})
		}

		return out, g.Wait()
	})
}

// Shuffle permutiert den Tensor zufaellig entlang der ersten Dimension
func (c *Context) Shuffle(t ml.Tensor, opts ...func(*ml.RandomOptions)) ml.Tensor {
	src := t.(*Tensor)
	if src.err != nil {
		return src
	}

	if len(src.shape) == 0 {
		return c.fail("shuffle", fmt.Errorf("shuffle expects rank >= 1"))
	}

	pcg, _ := c.source(opts)
	rng := rand.New(pcg)
	return c.op("shuffle", src.dtype, src.Shape(), func(in []*value) (*value, error) {
		x := in[0]
		rows := x.shape[0]
		size := numElements(x.shape[1:])
		out := newValue(slices.Clone(x.shape))
		for i, p := range rng.Perm(rows) {
			copy(out.data[i*size:(i+1)*size], x.data[p*size:(p+1)*size])
		}
		return out, nil
	}, src)
}
