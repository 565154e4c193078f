package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/squisty/bayesian-CO2/internal/domain"
	"github.com/squisty/bayesian-CO2/internal/mcmc"
	"github.com/squisty/bayesian-CO2/internal/model"
	"github.com/squisty/bayesian-CO2/internal/ports"
	"github.com/squisty/bayesian-CO2/internal/usecase/summary"
)

const (
	// bandDraws caps the draws used for the posterior curve band.
	bandDraws  = 500
	bandPoints = 120

	// conjugateTolerance is the largest accepted distance between the
	// sampled and exact posterior means, in exact posterior sds.
	conjugateTolerance = 0.5
)

// FitInput selects the data, priors and sampler settings of one fit.
type FitInput struct {
	Title   string
	Dataset string // path to the measurement table
	Priors  string // profile name or path

	CenterYear float64
	NoiseSD    float64
	Sampler    domain.SamplerSettings

	Plots     bool
	Curves    int // prior curves drawn on the prior fit plot
	SaveDraws bool

	// Progress is optional; called per completed block of draws.
	Progress func(phase domain.Phase, done, total int)
}

// FitModel runs the full pipeline: load data, sample the prior, sample the
// posterior, summarize, check and persist.
type FitModel struct {
	data    ports.DatasetLoader
	priors  ports.PriorLoader
	sampler ports.Sampler
	store   ports.ReportStore
	plots   ports.PlotRenderer
	log     *slog.Logger
	now     func() time.Time
	newID   func() string
}

type FitOption func(*FitModel)

// WithStore persists reports; without it Execute only returns them.
func WithStore(s ports.ReportStore) FitOption {
	return func(uc *FitModel) { uc.store = s }
}

// WithPlots renders figures into the report directory. Needs a store.
func WithPlots(p ports.PlotRenderer) FitOption {
	return func(uc *FitModel) { uc.plots = p }
}

func WithLogger(l *slog.Logger) FitOption {
	return func(uc *FitModel) {
		if l != nil {
			uc.log = l
		}
	}
}

// WithClock is useful for tests.
func WithClock(now func() time.Time) FitOption {
	return func(uc *FitModel) { uc.now = now }
}

func WithIDGenerator(fn func() string) FitOption {
	return func(uc *FitModel) { uc.newID = fn }
}

func NewFitModel(dl ports.DatasetLoader, pl ports.PriorLoader, s ports.Sampler, opts ...FitOption) *FitModel {
	uc := &FitModel{
		data:    dl,
		priors:  pl,
		sampler: s,
		log:     discardLogger(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// Execute returns the report of one fit. When a store is configured the
// report is saved and its ID is set.
func (uc *FitModel) Execute(ctx context.Context, in FitInput) (domain.Report, error) {
	if err := ctx.Err(); err != nil {
		return domain.Report{}, err
	}

	started := uc.now().UTC()
	log := uc.log.With("dataset", in.Dataset, "priors", in.Priors)
	log.Info("fit.start", "draws", in.Sampler.Draws, "chains", in.Sampler.Chains, "seed", in.Sampler.Seed)

	ds, err := uc.data.LoadDataset(in.Dataset)
	if err != nil {
		return domain.Report{}, err
	}
	ps, err := uc.priors.LoadPriors(in.Priors)
	if err != nil {
		return domain.Report{}, err
	}

	spec := domain.ModelSpec{Priors: ps, CenterYear: in.CenterYear, NoiseSD: in.NoiseSD}
	if err := spec.Validate(); err != nil {
		return domain.Report{}, &domain.OpError{Op: "fit.model", Kind: domain.KindInvalidConfig, Err: err}
	}
	log.Info("fit.data", "kept", ds.Len(), "dropped", ds.Dropped)

	exact, err := model.Conjugate(spec, ds)
	if err != nil {
		return domain.Report{}, &domain.OpError{Op: "fit.conjugate", Kind: domain.KindExecution, Err: err}
	}

	prior := model.NewPrior(ps)
	priorSet, err := uc.sampler.Sample(ctx, ports.SampleRequest{
		Phase:    domain.PhasePrior,
		Target:   prior,
		Center:   prior.Mean(),
		Cov:      prior.Cov(),
		Settings: in.Sampler,
		Progress: phaseProgress(in.Progress, domain.PhasePrior),
	})
	if err != nil {
		return domain.Report{}, err
	}

	postSettings := in.Sampler
	// Keep posterior chain seeds disjoint from the prior's.
	postSettings.Seed += uint64(in.Sampler.Chains)
	postSet, err := uc.sampler.Sample(ctx, ports.SampleRequest{
		Phase:    domain.PhasePosterior,
		Target:   model.NewPosterior(spec, ds),
		Center:   exact.Mean,
		Cov:      exact.CovRows(),
		Settings: postSettings,
		Progress: phaseProgress(in.Progress, domain.PhasePosterior),
	})
	if err != nil {
		return domain.Report{}, err
	}

	priorRes, err := uc.summarize(priorSet, ds, spec.CenterYear)
	if err != nil {
		return domain.Report{}, err
	}
	postRes, err := uc.summarize(postSet, ds, spec.CenterYear)
	if err != nil {
		return domain.Report{}, err
	}
	exactSummary := exact.Summary()

	r := domain.Report{
		UUID:      uc.newID(),
		Title:     in.Title,
		StartedAt: started,
		Dataset:   ds.Summary(),
		Model:     spec,
		Sampler:   in.Sampler,
		Prior:     priorRes,
		Posterior: postRes,
		Conjugate: exactSummary,
	}
	r.Checks = PropertyChecks(ds, priorRes, postRes, exactSummary)

	for _, p := range domain.Params {
		if rh := postRes.Diagnostics.RHat[p]; rh > 1.05 {
			log.Warn("fit.rhat.high", "param", string(p), "rhat", rh)
		}
	}

	if uc.store != nil {
		if err := uc.attach(ctx, &r, in, ds, priorSet, postSet, priorRes); err != nil {
			return r, err
		}
	}

	r.EndedAt = uc.now().UTC()

	if uc.store != nil {
		id, err := uc.store.SaveReport(r)
		if err != nil {
			return r, err
		}
		r.ID = id
	}

	log.Info("fit.done",
		"id", r.ID,
		"failed_checks", r.FailedChecks(),
		"duration_ms", r.EndedAt.Sub(started).Milliseconds(),
	)
	return r, nil
}

func (uc *FitModel) summarize(set domain.SampleSet, ds domain.Dataset, center float64) (domain.PhaseResult, error) {
	res, err := summary.Phase(set, ds, center)
	if err != nil {
		return domain.PhaseResult{}, &domain.OpError{Op: "fit.summarize", Kind: domain.KindExecution, Err: err}
	}
	res.Diagnostics = sanitize(mcmc.Diagnose(set))
	return res, nil
}

// attach writes plots and draws next to the report and records their names.
func (uc *FitModel) attach(
	ctx context.Context,
	r *domain.Report,
	in FitInput,
	ds domain.Dataset,
	priorSet, postSet domain.SampleSet,
	priorRes domain.PhaseResult,
) error {
	r.ID = uc.store.IDFor(*r)

	if in.SaveDraws {
		for _, set := range []domain.SampleSet{priorSet, postSet} {
			name, err := uc.store.SaveDraws(r.ID, set)
			if err != nil {
				return err
			}
			r.Draws = append(r.Draws, name)
		}
	}

	if !in.Plots || uc.plots == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	xmin, xmax, _, _ := ds.Bounds()
	band, err := summary.CurveBand(
		summary.Thin(postSet.Pooled(), bandDraws),
		summary.Grid(xmin, xmax, bandPoints),
		r.Model.CenterYear,
	)
	if err != nil {
		return &domain.OpError{Op: "fit.band", Kind: domain.KindExecution, Err: err}
	}

	files, err := uc.plots.Render(ports.PlotInput{
		Dir:           uc.store.Dir(r.ID),
		CenterYear:    r.Model.CenterYear,
		Dataset:       ds,
		Prior:         priorSet,
		Posterior:     postSet,
		PriorCurves:   summary.Thin(priorSet.Pooled(), in.Curves),
		PriorMean:     priorRes.Mean,
		PosteriorBand: band,
	})
	if err != nil {
		return err
	}
	r.Plots = files
	return nil
}

// PropertyChecks evaluates the built-in properties every fit should have.
func PropertyChecks(
	ds domain.Dataset,
	prior, post domain.PhaseResult,
	exact map[domain.Param]domain.ParamSummary,
) []domain.CheckResult {
	var out []domain.CheckResult

	negative := 0
	for _, o := range ds.Observations {
		if o.Y < 0 {
			negative++
		}
	}
	out = append(out, domain.CheckResult{
		Name:    "data.nonnegative",
		Passed:  negative == 0,
		Message: fmt.Sprintf("%d of %d observations below 0 ppm", negative, ds.Len()),
	})

	for _, p := range domain.Params {
		pw, qw := prior.Params[p].Width, post.Params[p].Width
		out = append(out, domain.CheckResult{
			Name:    "interval.narrower." + string(p),
			Passed:  qw < pw,
			Message: fmt.Sprintf("posterior width %.6g vs prior width %.6g", qw, pw),
		})
	}

	out = append(out, domain.CheckResult{
		Name:    "fit.mse",
		Passed:  post.MeanMSE < prior.MeanMSE,
		Message: fmt.Sprintf("posterior mean curve mse %.6g vs prior %.6g", post.MeanMSE, prior.MeanMSE),
	})

	for _, p := range domain.Params {
		a, b := prior.Params[p], post.Params[p]
		ok := ordered(a) && ordered(b)
		out = append(out, domain.CheckResult{
			Name:   "interval.order." + string(p),
			Passed: ok,
			Message: fmt.Sprintf("prior [%.6g, %.6g, %.6g] posterior [%.6g, %.6g, %.6g]",
				a.Lo, a.Median, a.Hi, b.Lo, b.Median, b.Hi),
		})
	}

	for _, p := range domain.Params {
		e, ok := exact[p]
		if !ok || e.SD == 0 {
			continue
		}
		z := math.Abs(post.Params[p].Mean-e.Mean) / e.SD
		out = append(out, domain.CheckResult{
			Name:    "conjugate.mean." + string(p),
			Passed:  z <= conjugateTolerance,
			Message: fmt.Sprintf("sampled mean %.6g vs exact %.6g (%.2f sd)", post.Params[p].Mean, e.Mean, z),
		})
	}

	return out
}

func ordered(s domain.ParamSummary) bool {
	return s.Lo <= s.Median && s.Median <= s.Hi
}

func phaseProgress(fn func(domain.Phase, int, int), phase domain.Phase) func(int, int) {
	if fn == nil {
		return nil
	}
	return func(done, total int) { fn(phase, done, total) }
}

// sanitize replaces undefined statistics with zero so the report stays
// valid JSON.
func sanitize(d domain.Diagnostics) domain.Diagnostics {
	for _, m := range []map[domain.Param]float64{d.RHat, d.ESS} {
		for k, v := range m {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				m[k] = 0
			}
		}
	}
	return d
}
