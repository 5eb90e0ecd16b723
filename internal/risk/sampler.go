package risk

import (
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler produces i.i.d. draws from a normal distribution
type Sampler interface {
	Sample(mean, std float64, n int) []float64
}

// GaussianSampler draws from Normal(mean, std). RNG state is created per
// Sample call, so concurrent computations never share a source.
type GaussianSampler struct {
	seed uint64
}

// NewGaussianSampler creates a sampler. A non-zero seed makes every
// Sample call reproducible; seed 0 picks a fresh seed per call.
func NewGaussianSampler(seed uint64) *GaussianSampler {
	return &GaussianSampler{seed: seed}
}

// Sample returns n independent draws from Normal(mean, std)
func (g *GaussianSampler) Sample(mean, std float64, n int) []float64 {
	out := make([]float64, n)
	if std == 0 {
		// Degenerate distribution, every draw is the mean
		for i := range out {
			out[i] = mean
		}
		return out
	}

	seed := g.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	dist := distuv.Normal{Mu: mean, Sigma: std, Src: rand.NewSource(seed)}
	for i := range out {
		out[i] = dist.Rand()
	}
	return out
}
