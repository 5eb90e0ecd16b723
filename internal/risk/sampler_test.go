package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestGaussianSampler(t *testing.T) {
	t.Run("returns requested count", func(t *testing.T) {
		samples := NewGaussianSampler(1).Sample(0, 0.02, 500)
		assert.Len(t, samples, 500)
	})

	t.Run("same seed reproduces the draw", func(t *testing.T) {
		a := NewGaussianSampler(99).Sample(0.001, 0.02, 1000)
		b := NewGaussianSampler(99).Sample(0.001, 0.02, 1000)
		assert.Equal(t, a, b)
	})

	t.Run("different seeds diverge", func(t *testing.T) {
		a := NewGaussianSampler(1).Sample(0, 0.02, 100)
		b := NewGaussianSampler(2).Sample(0, 0.02, 100)
		assert.NotEqual(t, a, b)
	})

	t.Run("sample moments match the distribution", func(t *testing.T) {
		samples := NewGaussianSampler(42).Sample(0.001, 0.02, 200000)
		require.Len(t, samples, 200000)

		assert.InDelta(t, 0.001, stat.Mean(samples, nil), 5e-4)
		assert.InEpsilon(t, 0.02, stat.StdDev(samples, nil), 0.02)
	})

	t.Run("zero std yields constant draws", func(t *testing.T) {
		samples := NewGaussianSampler(1).Sample(0.01, 0, 10)
		for _, s := range samples {
			assert.Equal(t, 0.01, s)
		}
	})
}
