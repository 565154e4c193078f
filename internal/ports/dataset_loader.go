package ports

import "github.com/squisty/bayesian-CO2/internal/domain"

// DatasetLoader loads measurement tables from a source (e.g., filesystem).
type DatasetLoader interface {
	LoadDataset(path string) (domain.Dataset, error)
	ListDatasets(root string) ([]domain.DatasetRef, error)
}
