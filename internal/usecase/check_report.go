package usecase

import (
	"github.com/squisty/bayesian-CO2/internal/domain"
	"github.com/squisty/bayesian-CO2/internal/ports"
	ucassert "github.com/squisty/bayesian-CO2/internal/usecase/assert"
	ucextract "github.com/squisty/bayesian-CO2/internal/usecase/extract"
)

// CheckResult is the outcome of evaluating an expectation set on a report.
type CheckResult struct {
	ReportID    string
	Expectation string
	Results     []domain.CheckResult
	Failed      int
}

// CheckReport evaluates expectation files against saved reports.
type CheckReport struct {
	store        ports.ReportStore
	expectations ports.ExpectationLoader
}

func NewCheckReport(store ports.ReportStore, el ports.ExpectationLoader) *CheckReport {
	return &CheckReport{store: store, expectations: el}
}

func (uc *CheckReport) Execute(reportID, expectation string) (CheckResult, error) {
	set, err := uc.expectations.LoadExpectations(expectation)
	if err != nil {
		return CheckResult{}, err
	}
	r, raw, err := uc.store.LoadReport(reportID)
	if err != nil {
		return CheckResult{}, err
	}

	results := ucassert.Evaluate(set, raw)
	return CheckResult{
		ReportID:    r.ID,
		Expectation: set.Name,
		Results:     results,
		Failed:      ucassert.Failed(results),
	}, nil
}

// QueryReport runs named JSONPath queries against a saved report.
type QueryReport struct {
	store ports.ReportStore
}

func NewQueryReport(store ports.ReportStore) *QueryReport {
	return &QueryReport{store: store}
}

func (uc *QueryReport) Execute(reportID string, spec domain.QuerySpec) ([]domain.QueryResult, error) {
	_, raw, err := uc.store.LoadReport(reportID)
	if err != nil {
		return nil, err
	}
	return ucextract.Query(raw, spec), nil
}
