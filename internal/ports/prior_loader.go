package ports

import "github.com/squisty/bayesian-CO2/internal/domain"

// PriorLoader loads a prior profile by name or path.
type PriorLoader interface {
	LoadPriors(nameOrPath string) (domain.PriorSet, error)
}

type PriorCatalog interface {
	ListPriors(root string) ([]domain.PriorRef, error)
}
