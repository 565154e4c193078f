// Package plotrender draws report figures with gonum/plot.
package plotrender

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/squisty/bayesian-CO2/internal/app/template"
	"github.com/squisty/bayesian-CO2/internal/domain"
	"github.com/squisty/bayesian-CO2/internal/model"
	"github.com/squisty/bayesian-CO2/internal/ports"
)

const (
	defaultBins = 40

	KindFit = "fit"
)

var (
	priorColor     = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	posteriorColor = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	dataColor      = color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
	curveColor     = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0x30}
)

// Renderer implements ports.PlotRenderer.
type Renderer struct {
	width, height vg.Length
	pattern       string
	bins          int
}

type Option func(*Renderer)

// WithBins sets the number of histogram bins.
func WithBins(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.bins = n
		}
	}
}

func New(cfg domain.PlotsConfig, opts ...Option) *Renderer {
	r := &Renderer{
		width:   vg.Length(cfg.Width) * vg.Inch,
		height:  vg.Length(cfg.Height) * vg.Inch,
		pattern: cfg.Pattern,
		bins:    defaultBins,
	}
	if r.pattern == "" {
		r.pattern = domain.DefaultConfig().Plots.Pattern
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ ports.PlotRenderer = (*Renderer)(nil)

// Render writes one histogram per parameter and phase, the prior curve fit
// and the posterior curve fit. Returned names are relative to in.Dir.
func (r *Renderer) Render(in ports.PlotInput) ([]string, error) {
	if err := os.MkdirAll(in.Dir, 0o755); err != nil {
		return nil, &domain.OpError{
			Op:   "plotrender.mkdir",
			Kind: domain.KindExecution,
			Path: in.Dir,
			Err:  err,
		}
	}

	var files []string
	for _, set := range []domain.SampleSet{in.Prior, in.Posterior} {
		if set.Len() == 0 {
			continue
		}
		for _, param := range domain.Params {
			p, err := r.histogram(set, param)
			if err != nil {
				return files, err
			}
			name, err := r.save(p, in.Dir, string(set.Phase), string(param))
			if err != nil {
				return files, err
			}
			files = append(files, name)
		}
	}

	if len(in.PriorCurves) > 0 {
		p, err := r.priorFit(in)
		if err != nil {
			return files, err
		}
		name, err := r.save(p, in.Dir, KindFit, string(domain.PhasePrior))
		if err != nil {
			return files, err
		}
		files = append(files, name)
	}

	if len(in.PosteriorBand) > 0 {
		p, err := r.posteriorFit(in)
		if err != nil {
			return files, err
		}
		name, err := r.save(p, in.Dir, KindFit, string(domain.PhasePosterior))
		if err != nil {
			return files, err
		}
		files = append(files, name)
	}

	return files, nil
}

func (r *Renderer) histogram(set domain.SampleSet, param domain.Param) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s of %s", set.Phase, param)
	p.X.Label.Text = string(param)
	p.Y.Label.Text = "density"

	h, err := plotter.NewHist(plotter.Values(set.Column(param)), r.bins)
	if err != nil {
		return nil, plotErr("plotrender.hist", err)
	}
	h.Normalize(1)
	h.FillColor = priorColor
	if set.Phase == domain.PhasePosterior {
		h.FillColor = posteriorColor
	}
	p.Add(h)
	return p, nil
}

func (r *Renderer) priorFit(in ports.PlotInput) (*plot.Plot, error) {
	p := fitPlot("prior curve fit")
	if err := addData(p, in.Dataset); err != nil {
		return nil, err
	}

	xs := grid(in.Dataset)
	for _, d := range in.PriorCurves {
		l, err := plotter.NewLine(curve(d, xs, in.CenterYear))
		if err != nil {
			return nil, plotErr("plotrender.curve", err)
		}
		l.LineStyle.Color = curveColor
		p.Add(l)
	}

	mean, err := plotter.NewLine(curve(in.PriorMean, xs, in.CenterYear))
	if err != nil {
		return nil, plotErr("plotrender.curve", err)
	}
	mean.LineStyle.Color = priorColor
	mean.LineStyle.Width = vg.Points(2)
	p.Add(mean)
	p.Legend.Add("prior mean", mean)
	return p, nil
}

func (r *Renderer) posteriorFit(in ports.PlotInput) (*plot.Plot, error) {
	p := fitPlot("posterior curve fit")
	if err := addData(p, in.Dataset); err != nil {
		return nil, err
	}

	mean := make(plotter.XYs, len(in.PosteriorBand))
	lo := make(plotter.XYs, len(in.PosteriorBand))
	hi := make(plotter.XYs, len(in.PosteriorBand))
	for i, pt := range in.PosteriorBand {
		mean[i] = plotter.XY{X: pt.X, Y: pt.Mean}
		lo[i] = plotter.XY{X: pt.X, Y: pt.Lo}
		hi[i] = plotter.XY{X: pt.X, Y: pt.Hi}
	}

	dashes := []vg.Length{vg.Points(4), vg.Points(2)}
	for i, xys := range []plotter.XYs{lo, hi} {
		l, err := plotter.NewLine(xys)
		if err != nil {
			return nil, plotErr("plotrender.band", err)
		}
		l.LineStyle.Color = posteriorColor
		l.LineStyle.Dashes = dashes
		p.Add(l)
		if i == 0 {
			p.Legend.Add(fmt.Sprintf("%.0f%% interval", domain.CredibleMass*100), l)
		}
	}

	m, err := plotter.NewLine(mean)
	if err != nil {
		return nil, plotErr("plotrender.curve", err)
	}
	m.LineStyle.Color = posteriorColor
	m.LineStyle.Width = vg.Points(2)
	p.Add(m)
	p.Legend.Add("posterior mean", m)
	return p, nil
}

func fitPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "year"
	p.Y.Label.Text = "CO2 (ppm)"
	p.Legend.Top = true
	p.Legend.Left = true
	return p
}

func addData(p *plot.Plot, ds domain.Dataset) error {
	xys := make(plotter.XYs, ds.Len())
	for i, o := range ds.Observations {
		xys[i] = plotter.XY{X: o.X, Y: o.Y}
	}
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return plotErr("plotrender.scatter", err)
	}
	s.GlyphStyle.Color = dataColor
	s.GlyphStyle.Radius = vg.Points(0.8)
	p.Add(s)
	p.Legend.Add("observed", s)
	return nil
}

func grid(ds domain.Dataset) []float64 {
	xmin, xmax, _, _ := ds.Bounds()
	const n = 100
	out := make([]float64, n)
	for i := range out {
		out[i] = xmin + (xmax-xmin)*float64(i)/float64(n-1)
	}
	return out
}

func curve(d domain.ParamVector, xs []float64, center float64) plotter.XYs {
	out := make(plotter.XYs, len(xs))
	for i, x := range xs {
		out[i] = plotter.XY{X: x, Y: model.Mean(d, x, center)}
	}
	return out
}

func (r *Renderer) save(p *plot.Plot, dir, kind, param string) (string, error) {
	name, err := template.RenderString(r.pattern, map[string]string{
		"kind":  kind,
		"param": param,
	})
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := p.Save(r.width, r.height, path); err != nil {
		return "", &domain.OpError{
			Op:   "plotrender.save",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}
	return name, nil
}

func plotErr(op string, err error) error {
	return &domain.OpError{Op: op, Kind: domain.KindExecution, Err: err}
}
