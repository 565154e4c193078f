package domain

import (
	"fmt"
	"math"
)

// Param names one of the three quadratic coefficients.
type Param string

const (
	ParamA Param = "a" // slope at the center year (ppm/yr)
	ParamB Param = "b" // level at the center year (ppm)
	ParamC Param = "c" // curvature (ppm/yr^2)
)

// Params lists the parameters in vector order.
var Params = []Param{ParamA, ParamB, ParamC}

// ParamVector is one draw of (a, b, c).
type ParamVector struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
}

func VectorOf(x []float64) ParamVector {
	return ParamVector{A: x[0], B: x[1], C: x[2]}
}

func (p ParamVector) Slice() []float64 {
	return []float64{p.A, p.B, p.C}
}

func (p ParamVector) Get(name Param) float64 {
	switch name {
	case ParamA:
		return p.A
	case ParamB:
		return p.B
	case ParamC:
		return p.C
	default:
		return math.NaN()
	}
}

// NormalPrior is an independent normal prior on one parameter.
type NormalPrior struct {
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
}

// PriorSet is a named prior profile.
type PriorSet struct {
	Name string      `json:"name"`
	A    NormalPrior `json:"a"`
	B    NormalPrior `json:"b"`
	C    NormalPrior `json:"c"`
}

// PriorRef points at a prior profile file.
type PriorRef struct {
	Name string
	Path string
}

func (ps PriorSet) Get(name Param) NormalPrior {
	switch name {
	case ParamA:
		return ps.A
	case ParamB:
		return ps.B
	default:
		return ps.C
	}
}

// Validate reports the first non-positive or non-finite prior.
func (ps PriorSet) Validate() error {
	for _, p := range Params {
		np := ps.Get(p)
		if math.IsNaN(np.Mu) || math.IsInf(np.Mu, 0) {
			return fmt.Errorf("prior %s: mu must be finite: %w", p, ErrInvalidConfig)
		}
		if !(np.Sigma > 0) || math.IsInf(np.Sigma, 0) {
			return fmt.Errorf("prior %s: sigma must be positive and finite, got %v: %w", p, np.Sigma, ErrInvalidConfig)
		}
	}
	return nil
}

// DefaultPriors is the built-in "default" profile: weakly informative around
// the 1974 Mauna Loa level with no curvature assumed.
func DefaultPriors() PriorSet {
	return PriorSet{
		Name: "default",
		A:    NormalPrior{Mu: 1.5, Sigma: 1.0},
		B:    NormalPrior{Mu: 330, Sigma: 10},
		C:    NormalPrior{Mu: 0, Sigma: 0.05},
	}
}

// ModelSpec fully determines the posterior: y ~ Normal(mean(x), NoiseSD).
type ModelSpec struct {
	Priors     PriorSet `json:"priors"`
	CenterYear float64  `json:"center_year"`
	NoiseSD    float64  `json:"noise_sd"`
}

func (m ModelSpec) Validate() error {
	if err := m.Priors.Validate(); err != nil {
		return err
	}
	if !(m.NoiseSD > 0) || math.IsInf(m.NoiseSD, 0) {
		return fmt.Errorf("noise_sd must be positive and finite, got %v: %w", m.NoiseSD, ErrInvalidConfig)
	}
	if math.IsNaN(m.CenterYear) || math.IsInf(m.CenterYear, 0) {
		return fmt.Errorf("center_year must be finite: %w", ErrInvalidConfig)
	}
	return nil
}
