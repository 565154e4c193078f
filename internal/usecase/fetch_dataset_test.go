package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/squisty/bayesian-CO2/internal/domain"
)

func TestFetchDataset_Execute(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "co2.txt")
	f := &fakeFetcher{n: 1234}
	uc := NewFetchDataset(f, fakeDatasetLoader{ds: mauna()}, nil)

	res, err := uc.Execute(context.Background(), "http://example.invalid/co2.txt", dst, false)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if res.Path != dst || res.Bytes != 1234 || res.Dataset.Kept != 600 {
		t.Fatalf("unexpected result %+v", res)
	}
	if f.calls != 1 {
		t.Fatalf("expected one fetch, got %d", f.calls)
	}
}

func TestFetchDataset_ExistingFile(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "co2.txt")
	if err := os.WriteFile(dst, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	f := &fakeFetcher{n: 10}
	uc := NewFetchDataset(f, fakeDatasetLoader{ds: mauna()}, nil)

	_, err := uc.Execute(context.Background(), "http://example.invalid/co2.txt", dst, false)
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}
	if f.calls != 0 {
		t.Fatalf("expected no fetch without force")
	}

	if _, err := uc.Execute(context.Background(), "http://example.invalid/co2.txt", dst, true); err != nil {
		t.Fatalf("forced Execute error: %v", err)
	}
	if f.calls != 1 {
		t.Fatalf("expected one fetch with force, got %d", f.calls)
	}
}

func TestFetchDataset_Errors(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "co2.txt")

	uc := NewFetchDataset(&fakeFetcher{err: errBoom}, fakeDatasetLoader{ds: mauna()}, nil)
	if _, err := uc.Execute(context.Background(), "http://x", dst, false); !errors.Is(err, errBoom) {
		t.Fatalf("expected fetch error, got %v", err)
	}

	parseErr := &domain.OpError{Op: "textdata.load", Kind: domain.KindInvalidData, Err: domain.ErrInvalidData}
	uc = NewFetchDataset(&fakeFetcher{n: 5}, fakeDatasetLoader{err: parseErr}, nil)
	res, err := uc.Execute(context.Background(), "http://x", dst, false)
	if !domain.IsKind(err, domain.KindInvalidData) {
		t.Fatalf("expected invalid_data, got %v", err)
	}
	if res.Bytes != 5 || res.Path != dst {
		t.Fatalf("expected download details alongside the parse error, got %+v", res)
	}
}
