package ports

import "github.com/squisty/bayesian-CO2/internal/domain"

// PlotInput carries everything needed to draw the report figures.
type PlotInput struct {
	Dir        string
	CenterYear float64
	Dataset    domain.Dataset

	Prior     domain.SampleSet
	Posterior domain.SampleSet

	PriorCurves   []domain.ParamVector
	PriorMean     domain.ParamVector
	PosteriorBand []domain.CurvePoint
}

// PlotRenderer writes figures and returns the written file names.
type PlotRenderer interface {
	Render(in PlotInput) ([]string, error)
}
