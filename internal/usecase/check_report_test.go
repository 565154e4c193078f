package usecase

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/squisty/bayesian-CO2/internal/domain"
)

const reportJSON = `{
  "id": "r1",
  "dataset": {"kept": 2500},
  "posterior": {"params": {"b": {"mean": 329.8, "rel_width": 0.004}}}
}`

func f64(v float64) *float64 { return &v }

func TestCheckReport_Execute(t *testing.T) {
	store := newMemStore()
	store.raw["r1"] = []byte(reportJSON)

	set := domain.ExpectationSet{
		Name: "mauna-loa",
		Checks: map[string]domain.Expectation{
			"$.dataset.kept":                      {Gt: f64(2000)},
			"$.posterior.params.b.mean":           {Approx: &domain.Approx{Value: 330, Rel: 0.01}},
			"$.posterior.params.b.rel_width":      {Lt: f64(0.001)},
			"$.posterior.params.missing.anything": {Exists: true},
		},
	}

	res, err := NewCheckReport(store, fakeExpectations{set: set}).Execute("r1", "mauna-loa")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if res.ReportID != "r1" || res.Expectation != "mauna-loa" {
		t.Fatalf("unexpected result header %+v", res)
	}
	if len(res.Results) != 4 {
		t.Fatalf("expected 4 results, got %+v", res.Results)
	}
	if res.Failed != 2 {
		t.Fatalf("expected 2 failures, got %d: %+v", res.Failed, res.Results)
	}
}

func TestCheckReport_Errors(t *testing.T) {
	store := newMemStore()

	_, err := NewCheckReport(store, fakeExpectations{err: errBoom}).Execute("r1", "x")
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected expectation error, got %v", err)
	}

	_, err = NewCheckReport(store, fakeExpectations{}).Execute("missing", "x")
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestQueryReport_Execute(t *testing.T) {
	store := newMemStore()
	store.raw["r1"] = []byte(reportJSON)

	got, err := NewQueryReport(store).Execute("r1", domain.QuerySpec{
		"kept": "$.dataset.kept",
		"b":    "$.posterior.params.b.mean",
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	want := []domain.QueryResult{
		{Name: "b", Value: "329.8", Success: true},
		{Name: "kept", Value: "2500", Success: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("query results mismatch (-want +got):\n%s", diff)
	}

	if _, err := NewQueryReport(store).Execute("nope", domain.QuerySpec{"x": "$.id"}); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}
