package ports

import "github.com/squisty/bayesian-CO2/internal/domain"

// ExpectationLoader reads a set of JSONPath expectations from a file.
type ExpectationLoader interface {
	LoadExpectations(path string) (domain.ExpectationSet, error)
}
