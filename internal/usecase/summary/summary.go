// Package summary computes descriptive statistics of sampler output.
package summary

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/squisty/bayesian-CO2/internal/domain"
	"github.com/squisty/bayesian-CO2/internal/model"
)

// Interval tail probabilities for domain.CredibleMass.
const (
	LowerQ = (1 - domain.CredibleMass) / 2
	UpperQ = 1 - LowerQ
)

// Summarize returns the mean, median, sample sd and central credible
// interval of values. Quantiles use linear interpolation between order
// statistics. The interval always contains the median.
func Summarize(values []float64) (domain.ParamSummary, error) {
	if len(values) == 0 {
		return domain.ParamSummary{}, fmt.Errorf("summarize: %w", domain.ErrEmptySample)
	}

	data := stats.Float64Data(values)
	mean, err := data.Mean()
	if err != nil {
		return domain.ParamSummary{}, wrap(err)
	}
	median, err := data.Median()
	if err != nil {
		return domain.ParamSummary{}, wrap(err)
	}

	var sd float64
	if len(values) > 1 {
		if sd, err = data.StandardDeviationSample(); err != nil {
			return domain.ParamSummary{}, wrap(err)
		}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	lo := stat.Quantile(LowerQ, stat.LinInterp, sorted, nil)
	hi := stat.Quantile(UpperQ, stat.LinInterp, sorted, nil)
	lo = math.Min(lo, median)
	hi = math.Max(hi, median)

	s := domain.ParamSummary{
		Mean:   mean,
		Median: median,
		SD:     sd,
		Lo:     lo,
		Hi:     hi,
		Width:  hi - lo,
	}
	if mean != 0 {
		s.RelWidth = s.Width / math.Abs(mean)
	}
	return s, nil
}

func wrap(err error) error {
	if errors.Is(err, stats.EmptyInputErr) {
		return fmt.Errorf("summarize: %w", domain.ErrEmptySample)
	}
	return fmt.Errorf("summarize: %w", err)
}

// Phase summarizes every parameter of a sample set and the MSE of its mean
// curve against ds.
func Phase(set domain.SampleSet, ds domain.Dataset, center float64) (domain.PhaseResult, error) {
	res := domain.PhaseResult{
		Draws:  set.Len(),
		Params: make(map[domain.Param]domain.ParamSummary, len(domain.Params)),
	}
	means := make([]float64, len(domain.Params))
	for i, p := range domain.Params {
		s, err := Summarize(set.Column(p))
		if err != nil {
			return domain.PhaseResult{}, fmt.Errorf("%s %s: %w", set.Phase, p, err)
		}
		res.Params[p] = s
		means[i] = s.Mean
	}
	res.Mean = domain.VectorOf(means)
	res.MeanMSE = MSE(ds, res.Mean, center)
	return res, nil
}

// MSE is the mean squared residual of the curve p over ds. Zero for an
// empty dataset.
func MSE(ds domain.Dataset, p domain.ParamVector, center float64) float64 {
	if ds.Len() == 0 {
		return 0
	}
	var sum float64
	for _, o := range ds.Observations {
		r := o.Y - model.Mean(p, o.X, center)
		sum += r * r
	}
	return sum / float64(ds.Len())
}

// CurveBand evaluates every draw's mean curve at xs and returns the
// pointwise mean and central credible interval.
func CurveBand(draws []domain.ParamVector, xs []float64, center float64) ([]domain.CurvePoint, error) {
	if len(draws) == 0 {
		return nil, fmt.Errorf("curve band: %w", domain.ErrEmptySample)
	}
	out := make([]domain.CurvePoint, len(xs))
	ys := make([]float64, len(draws))
	for i, x := range xs {
		for j, d := range draws {
			ys[j] = model.Mean(d, x, center)
		}
		sort.Float64s(ys)
		out[i] = domain.CurvePoint{
			X:    x,
			Mean: stat.Mean(ys, nil),
			Lo:   stat.Quantile(LowerQ, stat.LinInterp, ys, nil),
			Hi:   stat.Quantile(UpperQ, stat.LinInterp, ys, nil),
		}
	}
	return out, nil
}

// Grid returns n evenly spaced points from lo to hi inclusive.
func Grid(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	out[n-1] = hi
	return out
}

// Thin picks at most n draws evenly spaced across draws.
func Thin(draws []domain.ParamVector, n int) []domain.ParamVector {
	if n <= 0 || len(draws) <= n {
		return draws
	}
	out := make([]domain.ParamVector, n)
	stride := float64(len(draws)) / float64(n)
	for i := range out {
		out[i] = draws[int(float64(i)*stride)]
	}
	return out
}
