package ports

import "github.com/squisty/bayesian-CO2/internal/domain"

// ReportStore persists fit reports for reproducibility.
type ReportStore interface {
	// IDFor returns the id SaveReport will use for r.
	IDFor(r domain.Report) string
	SaveReport(r domain.Report) (id string, err error)
	SaveDraws(id string, set domain.SampleSet) (file string, err error)
	ListReports() ([]domain.ReportRef, error)
	// LoadReport returns the decoded report and its raw JSON. The id
	// "latest" selects the newest indexed report.
	LoadReport(id string) (domain.Report, []byte, error)
	// Dir returns the directory holding files attached to a report.
	Dir(id string) string
}
