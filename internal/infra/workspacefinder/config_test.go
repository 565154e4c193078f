package workspacefinder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/squisty/bayesian-CO2/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "co2fit.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return root
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	// Partial config (sampler only)
	root := writeConfig(t, "co2fit:\n  sampler:\n    draws: 250\n    seed: 7\n")

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Sampler.Draws != 250 || cfg.Sampler.Seed != 7 {
		t.Fatalf("expected overrides applied, got %+v", cfg.Sampler)
	}
	def := domain.DefaultConfig()
	if cfg.Sampler.Chains != def.Sampler.Chains || cfg.Sampler.Warmup != def.Sampler.Warmup {
		t.Fatalf("expected default chains/warmup, got %+v", cfg.Sampler)
	}
	if cfg.Model.CenterYear != 1974 || cfg.Model.NoiseSD != 2.0 || cfg.Model.Priors != "default" {
		t.Fatalf("expected default model, got %+v", cfg.Model)
	}
	if cfg.Data.XColumn != 3 || cfg.Data.YColumn != 4 {
		t.Fatalf("expected NOAA columns, got %+v", cfg.Data)
	}
	if cfg.Paths.ReportsDir != "reports" {
		t.Fatalf("expected reports dir=reports, got=%s", cfg.Paths.ReportsDir)
	}
}

func TestLoadConfig_ExplicitZeroAndFalse(t *testing.T) {
	root := writeConfig(t, "co2fit:\n  sampler:\n    warmup: 0\n  plots:\n    enabled: false\n  data:\n    x_column: 0\n    y_column: 1\n")

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Sampler.Warmup != 0 {
		t.Fatalf("expected warmup=0, got %d", cfg.Sampler.Warmup)
	}
	if cfg.Plots.Enabled {
		t.Fatalf("expected plots disabled")
	}
	if cfg.Data.XColumn != 0 || cfg.Data.YColumn != 1 {
		t.Fatalf("expected columns 0/1, got %+v", cfg.Data)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad yaml":    "co2fit: [\n",
		"zero chains": "co2fit:\n  sampler:\n    chains: 0\n",
		"zero noise":  "co2fit:\n  model:\n    noise_sd: 0\n",
		"neg column":  "co2fit:\n  data:\n    y_column: -1\n",
		"pattern var": "co2fit:\n  plots:\n    pattern: \"{{phase}}_{{param}}.png\"\n",
		"no param":    "co2fit:\n  plots:\n    pattern: \"{{kind}}.png\"\n",
		"unclosed":    "co2fit:\n  plots:\n    pattern: \"{{kind}_{{param}}.png\"\n",
	}
	for name, content := range cases {
		root := writeConfig(t, content)
		_, err := LoadConfig(root)
		if !domain.IsKind(err, domain.KindInvalidConfig) {
			t.Errorf("%s: expected KindInvalidConfig, got %v", name, err)
		}
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
	if cfg.Sampler.Draws != domain.DefaultConfig().Sampler.Draws {
		t.Fatalf("expected defaults returned alongside error")
	}
}
