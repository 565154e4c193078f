package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/squisty/bayesian-CO2/internal/domain"
)

// Gaussian is a multivariate normal over (a, b, c).
type Gaussian struct {
	Mean []float64
	Cov  *mat.SymDense
}

// Conjugate computes the exact posterior of the linear-Gaussian model:
//
//	precision = XᵀX/σ² + diag(1/τ²)
//	mean      = precision⁻¹ (Xᵀy/σ² + μ₀/τ²)
func Conjugate(spec domain.ModelSpec, ds domain.Dataset) (Gaussian, error) {
	if err := spec.Validate(); err != nil {
		return Gaussian{}, err
	}

	const d = 3
	prec := mat.NewSymDense(d, nil)
	rhs := mat.NewVecDense(d, nil)

	for i, name := range domain.Params {
		np := spec.Priors.Get(name)
		v := np.Sigma * np.Sigma
		prec.SetSym(i, i, 1/v)
		rhs.SetVec(i, np.Mu/v)
	}

	w := 1 / (spec.NoiseSD * spec.NoiseSD)
	for _, o := range ds.Observations {
		row := Design(o.X, spec.CenterYear)
		for i := 0; i < d; i++ {
			rhs.SetVec(i, rhs.AtVec(i)+w*row[i]*o.Y)
			for j := i; j < d; j++ {
				prec.SetSym(i, j, prec.At(i, j)+w*row[i]*row[j])
			}
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(prec); !ok {
		return Gaussian{}, fmt.Errorf("posterior precision is not positive definite: %w", domain.ErrExecution)
	}

	var mean mat.VecDense
	if err := chol.SolveVecTo(&mean, rhs); err != nil {
		return Gaussian{}, fmt.Errorf("solve posterior mean: %w", err)
	}
	cov := mat.NewSymDense(d, nil)
	if err := chol.InverseTo(cov); err != nil {
		return Gaussian{}, fmt.Errorf("invert posterior precision: %w", err)
	}

	return Gaussian{
		Mean: []float64{mean.AtVec(0), mean.AtVec(1), mean.AtVec(2)},
		Cov:  cov,
	}, nil
}

// PriorGaussian returns the prior as a Gaussian.
func PriorGaussian(ps domain.PriorSet) Gaussian {
	p := NewPrior(ps)
	cov := mat.NewSymDense(3, nil)
	for i, row := range p.Cov() {
		cov.SetSym(i, i, row[i])
	}
	return Gaussian{Mean: p.Mean(), Cov: cov}
}

// CovRows returns the covariance as row slices.
func (g Gaussian) CovRows() [][]float64 {
	n := g.Cov.SymmetricDim()
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
		for j := range out[i] {
			out[i][j] = g.Cov.At(i, j)
		}
	}
	return out
}

// Summary returns exact marginal summaries with central 90% intervals.
func (g Gaussian) Summary() map[domain.Param]domain.ParamSummary {
	out := make(map[domain.Param]domain.ParamSummary, len(domain.Params))
	for i, name := range domain.Params {
		sd := math.Sqrt(g.Cov.At(i, i))
		n := distuv.Normal{Mu: g.Mean[i], Sigma: sd}
		lo, hi := n.Quantile(0.05), n.Quantile(0.95)
		s := domain.ParamSummary{
			Mean:   g.Mean[i],
			Median: g.Mean[i],
			SD:     sd,
			Lo:     lo,
			Hi:     hi,
			Width:  hi - lo,
		}
		if s.Mean != 0 {
			s.RelWidth = s.Width / math.Abs(s.Mean)
		}
		out[name] = s
	}
	return out
}
