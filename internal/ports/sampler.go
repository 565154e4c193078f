package ports

import (
	"context"

	"github.com/squisty/bayesian-CO2/internal/domain"
)

// LogDensity is an unnormalized log probability density over (a, b, c).
type LogDensity interface {
	LogProb(x []float64) float64
}

// SampleRequest describes one sampler run.
type SampleRequest struct {
	Phase  domain.Phase
	Target LogDensity

	// Center is where chains are started (before jitter); Cov is the scale
	// covariance used to shape the proposal, row-major and symmetric.
	Center []float64
	Cov    [][]float64

	Settings domain.SamplerSettings

	// Progress is optional; called with kept draws done across all chains.
	Progress func(done, total int)
}

// Sampler draws from a target density.
type Sampler interface {
	Sample(ctx context.Context, req SampleRequest) (domain.SampleSet, error)
}
