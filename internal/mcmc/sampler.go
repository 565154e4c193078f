// Package mcmc runs Metropolis-Hastings chains on top of gonum's samplemv
// and reports per-chain acceptance and cross-chain convergence diagnostics.
package mcmc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/samplemv"

	"github.com/squisty/bayesian-CO2/internal/domain"
	"github.com/squisty/bayesian-CO2/internal/ports"
)

// optimalScale is the random-walk Metropolis scaling 2.38² for a Gaussian
// target; it is divided by the dimension.
const optimalScale = 2.38 * 2.38

const defaultBlockSize = 100

// Sampler implements ports.Sampler with independent concurrent chains.
type Sampler struct {
	log       *slog.Logger
	blockSize int
	jitter    float64
}

type Option func(*Sampler)

func WithLogger(l *slog.Logger) Option {
	return func(s *Sampler) {
		if l != nil {
			s.log = l
		}
	}
}

// WithBlockSize sets how many kept draws are produced between progress
// reports and cancellation checks.
func WithBlockSize(n int) Option {
	return func(s *Sampler) {
		if n > 0 {
			s.blockSize = n
		}
	}
}

// WithJitter scales the covariance of the random chain starting points.
// Zero starts every chain exactly at the center.
func WithJitter(f float64) Option {
	return func(s *Sampler) {
		if f >= 0 {
			s.jitter = f
		}
	}
}

func New(opts ...Option) *Sampler {
	s := &Sampler{
		log:       slog.New(slog.NewJSONHandler(io.Discard, nil)),
		blockSize: defaultBlockSize,
		jitter:    1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.Sampler = (*Sampler)(nil)

func (s *Sampler) Sample(ctx context.Context, req ports.SampleRequest) (domain.SampleSet, error) {
	d := len(req.Center)
	cov, err := validate(req)
	if err != nil {
		return domain.SampleSet{}, &domain.OpError{
			Op:   "mcmc.sample",
			Kind: domain.KindInvalidConfig,
			Err:  err,
		}
	}

	proposalCov := mat.NewSymDense(d, nil)
	proposalCov.ScaleSym(optimalScale/float64(d), cov)

	set := req.Settings
	total := set.Draws * set.Chains
	progress := newProgress(req.Progress, total)

	s.log.Info("sampler.start",
		"phase", string(req.Phase),
		"chains", set.Chains,
		"draws", set.Draws,
		"warmup", set.Warmup,
		"thin", set.Thin,
		"seed", set.Seed,
	)

	chains := make([]domain.Chain, set.Chains)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < set.Chains; i++ {
		i := i
		g.Go(func() error {
			c, err := s.runChain(gctx, req, i, cov, proposalCov, progress)
			if err != nil {
				return err
			}
			chains[i] = c
			s.log.Debug("sampler.chain.done",
				"phase", string(req.Phase),
				"chain", i,
				"acceptance", c.Acceptance,
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Warn("sampler.failed", "phase", string(req.Phase), "err", err)
		return domain.SampleSet{}, err
	}

	s.log.Info("sampler.done", "phase", string(req.Phase), "draws", total)
	return domain.SampleSet{Phase: req.Phase, Chains: chains}, nil
}

func (s *Sampler) runChain(
	ctx context.Context,
	req ports.SampleRequest,
	chain int,
	cov, proposalCov *mat.SymDense,
	progress *progress,
) (domain.Chain, error) {
	d := len(req.Center)
	seeds := rand.New(rand.NewSource(req.Settings.Seed + uint64(chain)))

	initial, err := s.start(req.Center, cov, rand.NewSource(seeds.Uint64()))
	if err != nil {
		return domain.Chain{}, err
	}

	proposal, ok := samplemv.NewProposalNormal(proposalCov, rand.NewSource(seeds.Uint64()))
	if !ok {
		return domain.Chain{}, &domain.OpError{
			Op:   "mcmc.proposal",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("proposal covariance is not positive definite: %w", domain.ErrInvalidConfig),
		}
	}

	// Rate stays at 1: every transition lands in the batch so thinning and
	// acceptance are both computed here.
	mh := samplemv.MetropolisHastingser{
		Initial:  initial,
		Target:   req.Target,
		Proposal: proposal,
		Src:      rand.NewSource(seeds.Uint64()),
		BurnIn:   req.Settings.Warmup,
		Rate:     1,
	}

	thin := req.Settings.Thin
	draws := make([]domain.ParamVector, 0, req.Settings.Draws)
	moved, steps := 0, 0
	prev := append([]float64(nil), initial...)
	for len(draws) < req.Settings.Draws {
		if err := ctx.Err(); err != nil {
			return domain.Chain{}, err
		}

		n := min(s.blockSize, req.Settings.Draws-len(draws))
		batch := mat.NewDense(n*thin, d, nil)
		mh.Sample(batch)

		for r := 0; r < n*thin; r++ {
			row := batch.RawRowView(r)
			if !equal(row, prev) {
				moved++
			}
			steps++
			copy(prev, row)
			if (r+1)%thin == 0 {
				draws = append(draws, domain.VectorOf(row))
			}
		}

		// Sample does not advance Initial; continue from the last transition.
		mh.Initial = append([]float64(nil), prev...)
		mh.BurnIn = 0
		progress.add(n)
	}

	return domain.Chain{
		Draws:      draws,
		Acceptance: float64(moved) / float64(steps),
	}, nil
}

// start draws a chain's initial point from Normal(center, jitter*cov).
func (s *Sampler) start(center []float64, cov *mat.SymDense, src rand.Source) ([]float64, error) {
	if s.jitter == 0 {
		return append([]float64(nil), center...), nil
	}
	d := len(center)
	scaled := mat.NewSymDense(d, nil)
	scaled.ScaleSym(s.jitter, cov)
	n, ok := distmv.NewNormal(center, scaled, src)
	if !ok {
		return nil, &domain.OpError{
			Op:   "mcmc.start",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("scale covariance is not positive definite: %w", domain.ErrInvalidConfig),
		}
	}
	return n.Rand(nil), nil
}

func validate(req ports.SampleRequest) (*mat.SymDense, error) {
	d := len(req.Center)
	switch {
	case req.Target == nil:
		return nil, fmt.Errorf("target density is required: %w", domain.ErrInvalidConfig)
	case d == 0:
		return nil, fmt.Errorf("center is required: %w", domain.ErrInvalidConfig)
	case len(req.Cov) != d:
		return nil, fmt.Errorf("covariance has %d rows, want %d: %w", len(req.Cov), d, domain.ErrInvalidConfig)
	case req.Settings.Draws < 1:
		return nil, fmt.Errorf("draws must be >= 1: %w", domain.ErrInvalidConfig)
	case req.Settings.Chains < 1:
		return nil, fmt.Errorf("chains must be >= 1: %w", domain.ErrInvalidConfig)
	case req.Settings.Thin < 1:
		return nil, fmt.Errorf("thin must be >= 1: %w", domain.ErrInvalidConfig)
	case req.Settings.Warmup < 0:
		return nil, fmt.Errorf("warmup must be >= 0: %w", domain.ErrInvalidConfig)
	}

	cov := mat.NewSymDense(d, nil)
	for i, row := range req.Cov {
		if len(row) != d {
			return nil, fmt.Errorf("covariance row %d has %d columns, want %d: %w", i, len(row), d, domain.ErrInvalidConfig)
		}
		for j := i; j < d; j++ {
			if row[j] != req.Cov[j][i] {
				return nil, fmt.Errorf("covariance is not symmetric at (%d,%d): %w", i, j, domain.ErrInvalidConfig)
			}
			cov.SetSym(i, j, row[j])
		}
	}
	return cov, nil
}

func equal(a, b []float64) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// progress serializes callbacks from concurrent chains.
type progress struct {
	mu    sync.Mutex
	fn    func(done, total int)
	done  int
	total int
}

func newProgress(fn func(done, total int), total int) *progress {
	return &progress{fn: fn, total: total}
}

func (p *progress) add(n int) {
	if p.fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done += n
	p.fn(p.done, p.total)
}
