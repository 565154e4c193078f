package domain

import "time"

// CheckResult is the output of a single property or expectation check.
type CheckResult struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// Report is a persisted fit for reproducibility. ID is the artifact file
// stem; UUID identifies the fit independently of where it is stored.
type Report struct {
	ID    string `json:"id"`
	UUID  string `json:"uuid"`
	Title string `json:"title"`

	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`

	Dataset DatasetSummary  `json:"dataset"`
	Model   ModelSpec       `json:"model"`
	Sampler SamplerSettings `json:"sampler"`

	Prior     PhaseResult            `json:"prior"`
	Posterior PhaseResult            `json:"posterior"`
	Conjugate map[Param]ParamSummary `json:"conjugate"`

	Checks []CheckResult `json:"checks"`
	Plots  []string      `json:"plots,omitempty"`
	Draws  []string      `json:"draws,omitempty"`
}

// FailedChecks counts checks that did not pass.
func (r Report) FailedChecks() int {
	n := 0
	for _, c := range r.Checks {
		if !c.Passed {
			n++
		}
	}
	return n
}

// ReportRef is one line of the report index.
type ReportRef struct {
	ID        string    `json:"id"`
	UUID      string    `json:"uuid"`
	File      string    `json:"file"`
	Title     string    `json:"title"`
	Dataset   string    `json:"dataset"`
	Priors    string    `json:"priors"`
	StartedAt time.Time `json:"started_at"`
	Failed    int       `json:"failed_checks"`
}
