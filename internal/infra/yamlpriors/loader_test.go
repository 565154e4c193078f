package yamlpriors

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/squisty/bayesian-CO2/internal/domain"
)

func writeProfile(t *testing.T, root, name, content string) string {
	t.Helper()
	dir := filepath.Join(root, "priors")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoadPriors_ByName(t *testing.T) {
	root := t.TempDir()
	writeProfile(t, root, "vague.yaml", "name: vague\na: {mu: 1, sigma: 5}\nb: {mu: 300, sigma: 100}\nc: {mu: 0, sigma: 1}\n")

	ps, err := NewLoader(root).LoadPriors("vague")
	if err != nil {
		t.Fatalf("LoadPriors error: %v", err)
	}
	if ps.Name != "vague" || ps.B.Mu != 300 || ps.C.Sigma != 1 {
		t.Fatalf("unexpected priors %+v", ps)
	}
}

func TestLoadPriors_ByPathUsesFileNameWhenUnnamed(t *testing.T) {
	root := t.TempDir()
	p := writeProfile(t, root, "tight.yml", "a: {mu: 1.3, sigma: 0.1}\nb: {mu: 331, sigma: 1}\nc: {mu: 0.01, sigma: 0.001}\n")

	ps, err := NewLoader(root).LoadPriors(p)
	if err != nil {
		t.Fatalf("LoadPriors error: %v", err)
	}
	if ps.Name != "tight" {
		t.Fatalf("expected name from file, got %q", ps.Name)
	}
}

func TestLoadPriors_DefaultFallsBackToBuiltin(t *testing.T) {
	ps, err := NewLoader(t.TempDir()).LoadPriors("default")
	if err != nil {
		t.Fatalf("LoadPriors error: %v", err)
	}
	if ps != domain.DefaultPriors() {
		t.Fatalf("expected built-in defaults, got %+v", ps)
	}
}

func TestLoadPriors_Invalid(t *testing.T) {
	cases := []struct {
		name, content, wantField string
	}{
		{"missing_c.yaml", "a: {mu: 1, sigma: 1}\nb: {mu: 1, sigma: 1}\n", "field c"},
		{"missing_sigma.yaml", "a: {mu: 1}\nb: {mu: 1, sigma: 1}\nc: {mu: 1, sigma: 1}\n", "field a.sigma"},
		{"negative.yaml", "a: {mu: 1, sigma: 1}\nb: {mu: 1, sigma: -2}\nc: {mu: 1, sigma: 1}\n", "prior b"},
		{"broken.yaml", "a: [\n", "yaml"},
	}
	for _, c := range cases {
		root := t.TempDir()
		p := writeProfile(t, root, c.name, c.content)
		_, err := NewLoader(root).LoadPriors(p)
		if err == nil {
			t.Errorf("%s: expected error", c.name)
			continue
		}
		if !domain.IsKind(err, domain.KindInvalidConfig) {
			t.Errorf("%s: expected invalid config, got %v", c.name, err)
		}
		if !strings.Contains(err.Error(), c.wantField) {
			t.Errorf("%s: expected %q in %v", c.name, c.wantField, err)
		}
	}
}

func TestLoadPriors_UnknownName(t *testing.T) {
	_, err := NewLoader(t.TempDir()).LoadPriors("informative")
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListPriors(t *testing.T) {
	root := t.TempDir()
	writeProfile(t, root, "vague.yaml", "")
	writeProfile(t, root, "default.yaml", "")
	writeProfile(t, root, "README.md", "")

	refs, err := NewLoader(root).ListPriors(root)
	if err != nil {
		t.Fatalf("ListPriors error: %v", err)
	}
	if len(refs) != 2 || refs[0].Name != "default" || refs[1].Name != "vague" {
		t.Fatalf("unexpected refs %+v", refs)
	}
}
