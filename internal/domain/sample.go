package domain

// Phase identifies which distribution a sample set was drawn from.
type Phase string

const (
	PhasePrior     Phase = "prior"
	PhasePosterior Phase = "posterior"
)

// SamplerSettings controls every chain of a sampler run.
type SamplerSettings struct {
	Draws  int    `json:"draws"`  // kept draws per chain
	Warmup int    `json:"warmup"` // discarded draws per chain
	Chains int    `json:"chains"`
	Thin   int    `json:"thin"`
	Seed   uint64 `json:"seed"`
}

// Chain is the kept output of one Markov chain.
type Chain struct {
	Draws      []ParamVector
	Acceptance float64
}

// SampleSet holds the draws of a sampler run in chain order. It is not
// modified after the sampler returns it.
type SampleSet struct {
	Phase  Phase
	Chains []Chain
}

// Len returns the total number of pooled draws.
func (s SampleSet) Len() int {
	n := 0
	for _, c := range s.Chains {
		n += len(c.Draws)
	}
	return n
}

// Pooled returns every draw, chain after chain.
func (s SampleSet) Pooled() []ParamVector {
	out := make([]ParamVector, 0, s.Len())
	for _, c := range s.Chains {
		out = append(out, c.Draws...)
	}
	return out
}

// Column returns the pooled values of one parameter.
func (s SampleSet) Column(p Param) []float64 {
	out := make([]float64, 0, s.Len())
	for _, c := range s.Chains {
		for _, d := range c.Draws {
			out = append(out, d.Get(p))
		}
	}
	return out
}

// ChainColumns returns one parameter's values split by chain.
func (s SampleSet) ChainColumns(p Param) [][]float64 {
	out := make([][]float64, len(s.Chains))
	for i, c := range s.Chains {
		col := make([]float64, len(c.Draws))
		for j, d := range c.Draws {
			col[j] = d.Get(p)
		}
		out[i] = col
	}
	return out
}
