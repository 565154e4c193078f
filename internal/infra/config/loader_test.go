package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/squisty/bayesian-CO2/internal/domain"
)

func TestLoadExpectations(t *testing.T) {
	path := filepath.Join("testdata", "expect.yaml")
	set, err := LoadExpectations(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Name != "Sample" {
		t.Fatalf("expected name Sample, got %q", set.Name)
	}
	if len(set.Checks) != 4 {
		t.Fatalf("expected 4 checks, got %d", len(set.Checks))
	}
	approx := set.Checks["$.posterior.params.b.mean"].Approx
	if approx == nil || approx.Value != 331.0 || approx.Rel != 0.01 {
		t.Fatalf("expected approx with default rel, got %+v", approx)
	}
}

func TestLoadExpectationsInvalid(t *testing.T) {
	path := filepath.Join("testdata", "expect_invalid.yaml")
	_, err := LoadExpectations(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "approx.value") {
		t.Fatalf("expected field in error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected path in error, got %v", err)
	}
}

func TestLoadExpectationsMissingFile(t *testing.T) {
	_, err := LoadExpectations(filepath.Join("testdata", "nope.yaml"))
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLoader_ResolvesNames(t *testing.T) {
	l := Loader{Dir: "testdata"}

	byName, err := l.LoadExpectations("expect")
	if err != nil {
		t.Fatalf("load by name: %v", err)
	}
	byPath, err := l.LoadExpectations(filepath.Join("testdata", "expect.yaml"))
	if err != nil {
		t.Fatalf("load by path: %v", err)
	}
	if byName.Name != byPath.Name || len(byName.Checks) != len(byPath.Checks) {
		t.Fatalf("name and path resolved to different files")
	}

	if _, err := l.LoadExpectations("missing"); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}
