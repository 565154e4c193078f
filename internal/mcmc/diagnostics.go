package mcmc

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/squisty/bayesian-CO2/internal/domain"
)

// SplitRHat is the potential scale reduction factor computed on chains
// split in half. It returns NaN when any half-chain has fewer than two
// draws or the within-chain variance is zero.
func SplitRHat(chains [][]float64) float64 {
	halves := split(chains)
	if len(halves) < 2 {
		return math.NaN()
	}
	n := len(halves[0])
	if n < 2 {
		return math.NaN()
	}

	means := make([]float64, len(halves))
	vars := make([]float64, len(halves))
	for i, h := range halves {
		means[i], vars[i] = stat.MeanVariance(h, nil)
	}

	w := stat.Mean(vars, nil)
	if w == 0 {
		return math.NaN()
	}
	b := float64(n) * stat.Variance(means, nil)
	varPlus := float64(n-1)/float64(n)*w + b/float64(n)
	return math.Sqrt(varPlus / w)
}

// ESS estimates the effective sample size of multiple chains using
// Geyer's initial positive sequence on the combined autocorrelation.
// Chains are truncated to the shortest one. NaN when undefined.
func ESS(chains [][]float64) float64 {
	m := len(chains)
	if m == 0 {
		return math.NaN()
	}
	n := len(chains[0])
	for _, c := range chains[1:] {
		n = min(n, len(c))
	}
	if n < 4 {
		return math.NaN()
	}

	means := make([]float64, m)
	vars := make([]float64, m)
	acov := make([][]float64, m)
	for i, c := range chains {
		c = c[:n]
		means[i], vars[i] = stat.MeanVariance(c, nil)
		acov[i] = autocovariance(c, means[i])
	}

	w := stat.Mean(vars, nil)
	varPlus := float64(n-1) / float64(n) * w
	if m > 1 {
		varPlus += stat.Variance(means, nil)
	}
	if varPlus == 0 {
		return math.NaN()
	}

	rho := func(t int) float64 {
		var s float64
		for i := range acov {
			s += acov[i][t]
		}
		return 1 - (w-s/float64(m))/varPlus
	}

	// tau = -1 + 2 * sum of positive pair sums P_k = rho(2k) + rho(2k+1).
	tau := -1.0
	prev := math.Inf(1)
	for k := 0; 2*k+1 < n; k++ {
		p := rho(2*k) + rho(2*k+1)
		if p <= 0 {
			break
		}
		// Monotone sequence estimator.
		p = math.Min(p, prev)
		prev = p
		tau += 2 * p
	}
	if tau <= 0 {
		return math.NaN()
	}

	ess := float64(m*n) / tau
	return math.Min(ess, float64(m*n)*math.Log10(float64(m*n)))
}

// Diagnose computes acceptance, split R-hat and ESS for every parameter.
func Diagnose(set domain.SampleSet) domain.Diagnostics {
	d := domain.Diagnostics{
		Acceptance: make([]float64, len(set.Chains)),
		RHat:       make(map[domain.Param]float64, len(domain.Params)),
		ESS:        make(map[domain.Param]float64, len(domain.Params)),
	}
	for i, c := range set.Chains {
		d.Acceptance[i] = c.Acceptance
	}
	for _, p := range domain.Params {
		cols := set.ChainColumns(p)
		d.RHat[p] = SplitRHat(cols)
		d.ESS[p] = ESS(cols)
	}
	return d
}

func split(chains [][]float64) [][]float64 {
	n := math.MaxInt
	for _, c := range chains {
		n = min(n, len(c))
	}
	half := n / 2
	if half == 0 {
		return nil
	}
	out := make([][]float64, 0, 2*len(chains))
	for _, c := range chains {
		out = append(out, c[:half], c[n-half:n])
	}
	return out
}

// autocovariance returns the biased autocovariance at every lag.
func autocovariance(x []float64, mean float64) []float64 {
	n := len(x)
	out := make([]float64, n)
	for lag := 0; lag < n; lag++ {
		var s float64
		for i := 0; i+lag < n; i++ {
			s += (x[i] - mean) * (x[i+lag] - mean)
		}
		out[lag] = s / float64(n)
	}
	return out
}
