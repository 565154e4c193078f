package template

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/squisty/bayesian-CO2/internal/domain"
)

func TestRenderStringSingleVar(t *testing.T) {
	out, err := RenderString("hist_{{param}}.png", map[string]string{"param": "a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hist_a.png" {
		t.Fatalf("expected replaced string, got %q", out)
	}
}

func TestRenderStringMultipleVars(t *testing.T) {
	out, err := RenderString("{{ kind }}_{{param}}.png", map[string]string{
		"kind":  "posterior",
		"param": "c",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "posterior_c.png" {
		t.Fatalf("expected replaced string, got %q", out)
	}
}

func TestRenderStringErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing var", "{{kind}}.png"},
		{"unclosed", "{{kind.png"},
		{"empty", "{{ }}.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RenderString(tt.input, map[string]string{})
			if !domain.IsKind(err, domain.KindInvalidConfig) {
				t.Fatalf("expected invalid_config error, got %v", err)
			}
		})
	}
}

func TestRenderStringEmpty(t *testing.T) {
	out, err := RenderString("", nil)
	if err != nil || out != "" {
		t.Fatalf("expected empty output, got %q, %v", out, err)
	}
}

func TestPlaceholders(t *testing.T) {
	keys, err := Placeholders("{{kind}}/{{ param }}_{{kind}}.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"kind", "param", "kind"}, keys); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}

	if _, err := Placeholders("{{kind"); err == nil {
		t.Fatalf("expected error for unclosed placeholder")
	}
}
