package assert

import (
	"testing"

	"github.com/squisty/bayesian-CO2/internal/domain"
)

const report = `{
  "title": "mauna loa weekly",
  "dataset": {"name": "co2_weekly_mlo.txt", "kept": 2364},
  "posterior": {
    "params": {
      "a": {"mean": 1.31, "width": 0.012},
      "b": {"mean": 327.9, "width": 0.2}
    }
  },
  "checks": []
}`

func strp(s string) *string   { return &s }
func fltp(f float64) *float64 { return &f }

func set(checks map[string]domain.Expectation) domain.ExpectationSet {
	return domain.ExpectationSet{Name: "test", Checks: checks}
}

func TestEvaluate_NoExpectations(t *testing.T) {
	if out := Evaluate(set(nil), []byte(report)); len(out) != 0 {
		t.Fatalf("expected 0 results, got %d", len(out))
	}
}

func TestEvaluate_Checks(t *testing.T) {
	tests := []struct {
		name   string
		expr   string
		e      domain.Expectation
		kind   string
		passed bool
	}{
		{"exists", "$.dataset.name", domain.Expectation{Exists: true}, "jsonpath.exists", true},
		{"exists missing", "$.dataset.url", domain.Expectation{Exists: true}, "jsonpath.exists", false},
		{"exists empty array", "$.checks", domain.Expectation{Exists: true}, "jsonpath.exists", false},
		{"eq number", "$.dataset.kept", domain.Expectation{Eq: strp("2364")}, "jsonpath.eq", true},
		{"eq mismatch", "$.dataset.name", domain.Expectation{Eq: strp("other")}, "jsonpath.eq", false},
		{"contains", "$.title", domain.Expectation{Contains: strp("mauna")}, "jsonpath.contains", true},
		{"matches", "$.dataset.name", domain.Expectation{Matches: strp(`^co2_.*\.txt$`)}, "jsonpath.matches", true},
		{"bad regex", "$.dataset.name", domain.Expectation{Matches: strp(`(`)}, "jsonpath.matches", false},
		{"gt", "$.dataset.kept", domain.Expectation{Gt: fltp(2000)}, "jsonpath.gt", true},
		{"gt fails", "$.dataset.kept", domain.Expectation{Gt: fltp(3000)}, "jsonpath.gt", false},
		{"lt", "$.posterior.params.a.width", domain.Expectation{Lt: fltp(0.02)}, "jsonpath.lt", true},
		{"lt not numeric", "$.title", domain.Expectation{Lt: fltp(1)}, "jsonpath.lt", false},
		{"approx", "$.posterior.params.b.mean", domain.Expectation{Approx: &domain.Approx{Value: 328, Rel: 0.01}}, "jsonpath.approx", true},
		{"approx outside", "$.posterior.params.a.mean", domain.Expectation{Approx: &domain.Approx{Value: 1.5, Rel: 0.05}}, "jsonpath.approx", false},
		{"invalid expr", "$.posterior[", domain.Expectation{Exists: true}, "jsonpath.exists", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Evaluate(set(map[string]domain.Expectation{tt.expr: tt.e}), []byte(report))
			if len(out) != 1 {
				t.Fatalf("expected 1 result, got %d", len(out))
			}
			if out[0].Name != tt.kind {
				t.Fatalf("name = %q, want %q", out[0].Name, tt.kind)
			}
			if out[0].Passed != tt.passed {
				t.Fatalf("passed = %v, want %v: %s", out[0].Passed, tt.passed, out[0].Message)
			}
		})
	}
}

func TestEvaluate_ApproxMessage(t *testing.T) {
	out := Evaluate(set(map[string]domain.Expectation{
		"$.posterior.params.a.mean": {Approx: &domain.Approx{Value: 1.5, Rel: 0.05}},
	}), []byte(report))
	want := `jsonpath "$.posterior.params.a.mean": expected 1.5 ± 5%, got 1.31`
	if out[0].Message != want {
		t.Fatalf("message = %q, want %q", out[0].Message, want)
	}
}

func TestEvaluate_InvalidBodyFailsEveryCheck(t *testing.T) {
	out := Evaluate(set(map[string]domain.Expectation{
		"$.a": {Exists: true, Gt: fltp(0)},
		"$.b": {Exists: true},
	}), []byte("not json"))
	if len(out) != 3 {
		t.Fatalf("expected 3 results, got %d", len(out))
	}
	if Failed(out) != 3 {
		t.Fatalf("expected every check to fail, got %+v", out)
	}
}

func TestEvaluate_StableOrder(t *testing.T) {
	out := Evaluate(set(map[string]domain.Expectation{
		"$.title":        {Exists: true},
		"$.dataset.kept": {Exists: true, Gt: fltp(1), Lt: fltp(1e6)},
	}), []byte(report))

	names := []string{"jsonpath.exists", "jsonpath.gt", "jsonpath.lt", "jsonpath.exists"}
	if len(out) != len(names) {
		t.Fatalf("expected %d results, got %d", len(names), len(out))
	}
	for i, n := range names {
		if out[i].Name != n {
			t.Fatalf("result %d = %q, want %q", i, out[i].Name, n)
		}
	}
	if Failed(out) != 0 {
		t.Fatalf("unexpected failures: %+v", out)
	}
}
