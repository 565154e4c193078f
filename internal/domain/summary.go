package domain

// CredibleMass is the probability mass of reported intervals.
const CredibleMass = 0.90

// ParamSummary describes the marginal distribution of one parameter.
type ParamSummary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	SD     float64 `json:"sd"`
	Lo     float64 `json:"lo"`
	Hi     float64 `json:"hi"`
	Width  float64 `json:"width"`

	// RelWidth is Width / |Mean|, zero when Mean is zero.
	RelWidth float64 `json:"rel_width"`
}

// Diagnostics are convergence statistics of a multi-chain run.
type Diagnostics struct {
	Acceptance []float64         `json:"acceptance"`
	RHat       map[Param]float64 `json:"rhat"`
	ESS        map[Param]float64 `json:"ess"`
}

// PhaseResult is the summarized output of one sampler run.
type PhaseResult struct {
	Draws       int                    `json:"draws"`
	Params      map[Param]ParamSummary `json:"params"`
	Mean        ParamVector            `json:"mean"`
	MeanMSE     float64                `json:"mean_curve_mse"`
	Diagnostics Diagnostics            `json:"diagnostics"`
}

// CurvePoint is the distribution of the mean curve at one x.
type CurvePoint struct {
	X    float64
	Mean float64
	Lo   float64
	Hi   float64
}
