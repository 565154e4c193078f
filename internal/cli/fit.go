package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/squisty/bayesian-CO2/internal/domain"
	"github.com/squisty/bayesian-CO2/internal/infra/logger"
	"github.com/squisty/bayesian-CO2/internal/infra/plotrender"
	"github.com/squisty/bayesian-CO2/internal/infra/reportstore"
	"github.com/squisty/bayesian-CO2/internal/mcmc"
	"github.com/squisty/bayesian-CO2/internal/usecase"
)

type fitFlags struct {
	data   string
	priors string
	title  string

	draws  int
	warmup int
	chains int
	thin   int
	seed   uint64

	noise  float64
	center float64

	plots     bool
	curves    int
	saveDraws bool
	noSave    bool

	strict bool
	quiet  bool
	format string
}

func fitCmd(root *rootFlags) *cobra.Command {
	var f fitFlags

	c := &cobra.Command{
		Use:   "fit",
		Short: "Sample prior and posterior, summarize them and save a report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(f.format); err != nil {
				return err
			}

			ws, err := loadWorkspace(root.workspace)
			if err != nil {
				return err
			}

			cleanup := setupLogging(ws.root, root.debug, "fit")
			defer cleanup()

			in, err := fitInputFromFlags(cmd, ws, f)
			if err != nil {
				return err
			}
			if !f.quiet {
				in.Progress = newPhaseBars(os.Stderr).update
			}

			opts := []usecase.FitOption{usecase.WithLogger(logger.L())}
			if !f.noSave {
				opts = append(opts,
					usecase.WithStore(reportstore.NewJSONStore(ws.root, ws.cfg, reportstore.WithLogger(logger.L()))),
					usecase.WithPlots(plotrender.New(ws.cfg.Plots)),
				)
			}

			uc := usecase.NewFitModel(ws.datasets, ws.priors, mcmc.New(mcmc.WithLogger(logger.L())), opts...)

			r, err := uc.Execute(cmd.Context(), in)
			if err != nil {
				// A report that failed to save is still worth printing.
				if len(r.Checks) > 0 {
					_ = printReport(os.Stdout, r, f.format)
				}
				return err
			}

			if err := printReport(os.Stdout, r, f.format); err != nil {
				return err
			}

			if n := r.FailedChecks(); n > 0 && f.strict {
				return fmt.Errorf("fit failed (%d failed check(s))", n)
			}
			return nil
		},
	}

	fl := c.Flags()
	fl.StringVarP(&f.data, "data", "d", "", "Dataset name or path (defaults to data.default)")
	fl.StringVarP(&f.priors, "priors", "p", "", "Prior profile name or path (defaults to model.priors)")
	fl.StringVar(&f.title, "title", "", "Report title, used in the report id")
	fl.IntVar(&f.draws, "draws", 0, "Kept draws per chain")
	fl.IntVar(&f.warmup, "warmup", 0, "Discarded draws per chain")
	fl.IntVar(&f.chains, "chains", 0, "Number of chains")
	fl.IntVar(&f.thin, "thin", 0, "Keep every n-th draw")
	fl.Uint64Var(&f.seed, "seed", 0, "Random seed")
	fl.Float64Var(&f.noise, "noise", 0, "Observation noise sd in ppm")
	fl.Float64Var(&f.center, "center", 0, "Center year of the quadratic")
	fl.BoolVar(&f.plots, "plots", true, "Render PNG plots next to the report")
	fl.IntVar(&f.curves, "curves", 0, "Prior curves drawn on the prior fit plot")
	fl.BoolVar(&f.saveDraws, "save-draws", false, "Write raw draws as CSV next to the report")
	fl.BoolVar(&f.noSave, "no-save", false, "Do not save a report under reports/")
	fl.BoolVar(&f.strict, "strict", false, "Exit non-zero when a built-in check fails")
	fl.BoolVarP(&f.quiet, "quiet", "q", false, "Hide progress bars")
	fl.StringVar(&f.format, "format", "pretty", "Output format: pretty|json")

	return c
}

// fitInputFromFlags overlays flags that were set on the workspace config.
func fitInputFromFlags(cmd *cobra.Command, ws *workspaceCtx, f fitFlags) (usecase.FitInput, error) {
	path, err := resolveDatasetPath(ws, f.data)
	if err != nil {
		return usecase.FitInput{}, err
	}

	cfg := ws.cfg
	changed := cmd.Flags().Changed

	in := usecase.FitInput{
		Title:      f.title,
		Dataset:    path,
		Priors:     cfg.Model.Priors,
		CenterYear: cfg.Model.CenterYear,
		NoiseSD:    cfg.Model.NoiseSD,
		Sampler:    cfg.Sampler,
		Plots:      cfg.Plots.Enabled,
		Curves:     cfg.Plots.Curves,
		SaveDraws:  f.saveDraws,
	}

	if f.priors != "" {
		in.Priors = f.priors
	}
	if changed("draws") {
		in.Sampler.Draws = f.draws
	}
	if changed("warmup") {
		in.Sampler.Warmup = f.warmup
	}
	if changed("chains") {
		in.Sampler.Chains = f.chains
	}
	if changed("thin") {
		in.Sampler.Thin = f.thin
	}
	if changed("seed") {
		in.Sampler.Seed = f.seed
	}
	if changed("noise") {
		in.NoiseSD = f.noise
	}
	if changed("center") {
		in.CenterYear = f.center
	}
	if changed("plots") {
		in.Plots = f.plots
	}
	if changed("curves") {
		in.Curves = f.curves
	}
	return in, nil
}

// phaseBars shows one progress bar per sampling phase.
type phaseBars struct {
	mu   sync.Mutex
	w    io.Writer
	bars map[domain.Phase]*progressbar.ProgressBar
}

func newPhaseBars(w io.Writer) *phaseBars {
	return &phaseBars{w: w, bars: map[domain.Phase]*progressbar.ProgressBar{}}
}

func (p *phaseBars) update(phase domain.Phase, done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	bar, ok := p.bars[phase]
	if !ok {
		bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.w),
			progressbar.OptionSetDescription(fmt.Sprintf("%-9s", phase)),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionOnCompletion(func() { fmt.Fprint(p.w, "\n") }),
		)
		p.bars[phase] = bar
	}
	_ = bar.Set(done)
}
