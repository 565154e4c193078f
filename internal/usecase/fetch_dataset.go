package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/squisty/bayesian-CO2/internal/domain"
	"github.com/squisty/bayesian-CO2/internal/ports"
)

// FetchResult reports a completed download.
type FetchResult struct {
	Path    string
	Bytes   int64
	Dataset domain.DatasetSummary
}

type FetchDataset struct {
	fetcher ports.DatasetFetcher
	data    ports.DatasetLoader
	log     *slog.Logger
}

func NewFetchDataset(f ports.DatasetFetcher, dl ports.DatasetLoader, l *slog.Logger) *FetchDataset {
	if l == nil {
		l = discardLogger()
	}
	return &FetchDataset{fetcher: f, data: dl, log: l}
}

// Execute downloads url to dst and parses the result so that a page that
// is not a measurement table is reported right away. An existing dst is
// only replaced when force is set.
func (uc *FetchDataset) Execute(ctx context.Context, url, dst string, force bool) (FetchResult, error) {
	if !force {
		if _, err := os.Stat(dst); err == nil {
			return FetchResult{}, &domain.OpError{
				Op:   "fetch.exists",
				Kind: domain.KindInvalidConfig,
				Path: dst,
				Err:  fmt.Errorf("file exists (use --force to replace): %w", domain.ErrInvalidConfig),
			}
		}
	}

	n, err := uc.fetcher.Fetch(ctx, url, dst)
	if err != nil {
		return FetchResult{}, err
	}

	ds, err := uc.data.LoadDataset(dst)
	if err != nil {
		uc.log.Warn("fetch.unparsable", "path", dst, "err", err)
		return FetchResult{Path: dst, Bytes: n}, err
	}

	return FetchResult{Path: dst, Bytes: n, Dataset: ds.Summary()}, nil
}
