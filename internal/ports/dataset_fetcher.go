package ports

import "context"

// DatasetFetcher downloads a published dataset to a local file.
type DatasetFetcher interface {
	Fetch(ctx context.Context, url string, dst string) (written int64, err error)
}
