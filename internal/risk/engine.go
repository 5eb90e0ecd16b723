package risk

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Method selects the VaR estimation algorithm
type Method string

// Supported estimation methods
const (
	MethodHistorical Method = "historical"
	MethodParametric Method = "parametric"
	MethodMonteCarlo Method = "montecarlo"
)

// Validation errors returned by Compute
var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrInvalidMethod    = errors.New("invalid method")
)

const monteCarloSims = 10000

// Engine computes Value-at-Risk estimates for a daily return series
type Engine struct {
	sampler Sampler
}

// NewEngine creates an Engine. A nil sampler falls back to an unseeded
// GaussianSampler.
func NewEngine(sampler Sampler) *Engine {
	if sampler == nil {
		sampler = NewGaussianSampler(0)
	}
	return &Engine{sampler: sampler}
}

// Compute returns the VaR estimate for the given return series and
// confidence level. The result is the negative of the estimated tail
// return, so a positive value is an expected loss.
func (e *Engine) Compute(method Method, returns []float64, confidence float64) (float64, error) {
	if len(returns) == 0 {
		return 0, fmt.Errorf("%w: returns must not be empty", ErrInvalidParameter)
	}
	if confidence <= 0 || confidence >= 1 {
		return 0, fmt.Errorf("%w: confidence %v outside (0, 1)", ErrInvalidParameter, confidence)
	}

	switch method {
	case MethodHistorical:
		return quantileVar(returns, confidence), nil
	case MethodParametric:
		mean, std := returnStatistics(returns)
		z := distuv.UnitNormal.Quantile(confidence)
		return -(mean - z*std), nil
	case MethodMonteCarlo:
		mean, std := returnStatistics(returns)
		sims := e.sampler.Sample(mean, std, monteCarloSims)
		return quantileVar(sims, confidence), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}
}

// quantileVar picks the empirical tail return at index
// floor((1-confidence)*n) of the sorted series. The input is left
// untouched.
func quantileVar(returns []float64, confidence float64) float64 {
	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	idx := int(math.Floor((1 - confidence) * float64(len(sorted))))
	if idx < 0 {
		idx = 0
	}
	if idx > len(sorted)-1 {
		idx = len(sorted) - 1
	}
	return -sorted[idx]
}

// returnStatistics computes the arithmetic mean and the population
// standard deviation (divisor n) of a return series.
func returnStatistics(returns []float64) (mean, std float64) {
	mean = stat.Mean(returns, nil)

	var sumSq float64
	for _, r := range returns {
		d := r - mean
		sumSq += d * d
	}
	std = math.Sqrt(sumSq / float64(len(returns)))
	return mean, std
}
