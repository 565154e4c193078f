package model

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/squisty/bayesian-CO2/internal/domain"
)

// Mean evaluates the quadratic trend at decimal year x.
func Mean(p domain.ParamVector, x, center float64) float64 {
	t := x - center
	return p.A*t + p.B + p.C*t*t
}

// Design returns the regression row (t, 1, t^2) for x.
func Design(x, center float64) [3]float64 {
	t := x - center
	return [3]float64{t, 1, t * t}
}

// Prior is the joint density of three independent normals.
type Prior struct {
	dists [3]distuv.Normal
}

func NewPrior(ps domain.PriorSet) Prior {
	var p Prior
	for i, name := range domain.Params {
		np := ps.Get(name)
		p.dists[i] = distuv.Normal{Mu: np.Mu, Sigma: np.Sigma}
	}
	return p
}

// LogProb returns the prior log density of x = (a, b, c).
func (p Prior) LogProb(x []float64) float64 {
	var lp float64
	for i := range p.dists {
		lp += p.dists[i].LogProb(x[i])
	}
	return lp
}

// Mean returns the prior mean vector.
func (p Prior) Mean() []float64 {
	return []float64{p.dists[0].Mu, p.dists[1].Mu, p.dists[2].Mu}
}

// Cov returns the diagonal prior covariance as rows.
func (p Prior) Cov() [][]float64 {
	out := make([][]float64, 3)
	for i := range out {
		out[i] = make([]float64, 3)
		s := p.dists[i].Sigma
		out[i][i] = s * s
	}
	return out
}

// Posterior is the unnormalized posterior density given a dataset.
type Posterior struct {
	prior  Prior
	center float64
	noise  float64
	logZ   float64 // per-observation normalizing term
	xs, ys []float64
}

func NewPosterior(spec domain.ModelSpec, ds domain.Dataset) Posterior {
	return Posterior{
		prior:  NewPrior(spec.Priors),
		center: spec.CenterYear,
		noise:  spec.NoiseSD,
		logZ:   -math.Log(spec.NoiseSD),
		xs:     ds.Xs(),
		ys:     ds.Ys(),
	}
}

// LogProb returns log prior + log likelihood of x = (a, b, c).
func (p Posterior) LogProb(x []float64) float64 {
	lp := p.prior.LogProb(x)
	if math.IsInf(lp, -1) {
		return lp
	}
	return lp + p.LogLikelihood(x)
}

// LogLikelihood sums Normal(mean(x_i), noise) log densities over observations.
func (p Posterior) LogLikelihood(x []float64) float64 {
	a, b, c := x[0], x[1], x[2]
	var ll float64
	for i, xi := range p.xs {
		t := xi - p.center
		z := (p.ys[i] - (a*t + b + c*t*t)) / p.noise
		ll += distuv.UnitNormal.LogProb(z) + p.logZ
	}
	return ll
}
