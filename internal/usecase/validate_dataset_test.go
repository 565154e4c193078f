package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/squisty/bayesian-CO2/internal/domain"
)

func TestValidateDataset_Execute(t *testing.T) {
	uc := NewValidateDataset(fakeDatasetLoader{ds: mauna()}, fakePriorLoader{ps: domain.DefaultPriors()})

	res, err := uc.Execute(context.Background(), fitInput())
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if res.Dataset.Kept != 600 || res.Dataset.Path != "data/synthetic.txt" {
		t.Fatalf("unexpected dataset summary %+v", res.Dataset)
	}
	if got := res.Conjugate[domain.ParamB].Mean; got < 328 || got > 331 {
		t.Fatalf("conjugate b mean = %v", got)
	}
	for _, p := range domain.Params {
		if res.Conjugate[p].Width >= res.Prior[p].Width {
			t.Errorf("%s: exact posterior width %v not below prior width %v", p, res.Conjugate[p].Width, res.Prior[p].Width)
		}
	}
	if res.Model.NoiseSD != 2 || res.Model.CenterYear != 1974 {
		t.Fatalf("unexpected model %+v", res.Model)
	}
}

func TestValidateDataset_Errors(t *testing.T) {
	t.Run("dataset", func(t *testing.T) {
		uc := NewValidateDataset(fakeDatasetLoader{err: errBoom}, fakePriorLoader{ps: domain.DefaultPriors()})
		if _, err := uc.Execute(context.Background(), fitInput()); !errors.Is(err, errBoom) {
			t.Fatalf("expected errBoom, got %v", err)
		}
	})

	t.Run("noise", func(t *testing.T) {
		uc := NewValidateDataset(fakeDatasetLoader{ds: mauna()}, fakePriorLoader{ps: domain.DefaultPriors()})
		in := fitInput()
		in.NoiseSD = -1
		_, err := uc.Execute(context.Background(), in)
		if !domain.IsKind(err, domain.KindInvalidConfig) || !errors.Is(err, domain.ErrInvalidConfig) {
			t.Fatalf("expected invalid_config, got %v", err)
		}
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		uc := NewValidateDataset(fakeDatasetLoader{ds: mauna()}, fakePriorLoader{ps: domain.DefaultPriors()})
		if _, err := uc.Execute(ctx, fitInput()); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}
