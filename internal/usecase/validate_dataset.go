package usecase

import (
	"context"

	"github.com/squisty/bayesian-CO2/internal/domain"
	"github.com/squisty/bayesian-CO2/internal/model"
	"github.com/squisty/bayesian-CO2/internal/ports"
)

// ValidateResult describes inputs that passed validation.
type ValidateResult struct {
	Dataset domain.DatasetSummary
	Model   domain.ModelSpec

	// Prior and Conjugate are exact marginals; computing the posterior
	// proves the model is well posed for this dataset.
	Prior     map[domain.Param]domain.ParamSummary
	Conjugate map[domain.Param]domain.ParamSummary
}

type ValidateDataset struct {
	data   ports.DatasetLoader
	priors ports.PriorLoader
}

func NewValidateDataset(dl ports.DatasetLoader, pl ports.PriorLoader) *ValidateDataset {
	return &ValidateDataset{data: dl, priors: pl}
}

// Execute loads the dataset and prior profile without sampling.
func (uc *ValidateDataset) Execute(ctx context.Context, in FitInput) (ValidateResult, error) {
	if err := ctx.Err(); err != nil {
		return ValidateResult{}, err
	}

	ds, err := uc.data.LoadDataset(in.Dataset)
	if err != nil {
		return ValidateResult{}, err
	}
	ps, err := uc.priors.LoadPriors(in.Priors)
	if err != nil {
		return ValidateResult{}, err
	}

	spec := domain.ModelSpec{Priors: ps, CenterYear: in.CenterYear, NoiseSD: in.NoiseSD}
	if err := spec.Validate(); err != nil {
		return ValidateResult{}, &domain.OpError{Op: "validate.model", Kind: domain.KindInvalidConfig, Err: err}
	}

	exact, err := model.Conjugate(spec, ds)
	if err != nil {
		return ValidateResult{}, &domain.OpError{Op: "validate.conjugate", Kind: domain.KindExecution, Err: err}
	}

	return ValidateResult{
		Dataset:   ds.Summary(),
		Model:     spec,
		Prior:     model.PriorGaussian(ps).Summary(),
		Conjugate: exact.Summary(),
	}, nil
}
