package extract

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/squisty/bayesian-CO2/internal/domain"
)

const report = `{
  "id": "20260101T000000Z_weekly",
  "dataset": {"kept": 2364, "path": "data/co2_weekly_mlo.txt"},
  "posterior": {"params": {"a": {"mean": 1.31}, "c": {"mean": 0.0123}}},
  "plots": ["hist_a.png"],
  "checks": [{"name": "fit.mse", "passed": true}],
  "conjugate": null
}`

func TestQuery_Empty(t *testing.T) {
	if got := Query([]byte(report), nil); len(got) != 0 {
		t.Fatalf("expected no results, got %v", got)
	}
}

func TestQuery_Values(t *testing.T) {
	got := Query([]byte(report), domain.QuerySpec{
		"kept":   "$.dataset.kept",
		"a":      "$.posterior.params.a.mean",
		"c":      " $.posterior.params.c.mean ",
		"plot":   "$.plots",
		"passed": "$.checks[0].passed",
		"params": "$.posterior.params.a",
	})

	want := []domain.QueryResult{
		{Name: "a", Value: "1.31", Success: true},
		{Name: "c", Value: "0.0123", Success: true},
		{Name: "kept", Value: "2364", Success: true},
		{Name: "params", Value: `{"mean":1.31}`, Success: true},
		{Name: "passed", Value: "true", Success: true},
		{Name: "plot", Value: "hist_a.png", Success: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestQuery_Failures(t *testing.T) {
	got := Query([]byte(report), domain.QuerySpec{
		"missing": "$.dataset.url",
		"null":    "$.conjugate",
		"blank":   "  ",
		"bad":     "$.plots[",
	})
	if len(got) != 4 {
		t.Fatalf("expected 4 results, got %d", len(got))
	}
	for _, r := range got {
		if r.Success || r.Message == "" || r.Value != "" {
			t.Errorf("expected failure with message for %q, got %+v", r.Name, r)
		}
	}
}

func TestQuery_NonJSON(t *testing.T) {
	got := Query([]byte("nope"), domain.QuerySpec{"a": "$.a", "b": "$.b"})
	if len(got) != 2 || got[0].Success || got[1].Success {
		t.Fatalf("expected two failures, got %+v", got)
	}
}

func TestParse(t *testing.T) {
	got, err := Parse([]string{"width=$.posterior.params.a.width", "$.id", " kept = $.dataset.kept ", `$.checks[?(@.name=="fit.mse")].passed`})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := domain.QuerySpec{
		"width": "$.posterior.params.a.width",
		"$.id":  "$.id",
		"kept":  "$.dataset.kept",

		`$.checks[?(@.name=="fit.mse")].passed`: `$.checks[?(@.name=="fit.mse")].passed`,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("spec mismatch (-want +got):\n%s", diff)
	}

	if _, err := Parse([]string{"x=posterior"}); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
