package workspacefinder

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/squisty/bayesian-CO2/internal/app/template"
	"github.com/squisty/bayesian-CO2/internal/domain"
)

// LoadConfig loads co2fit.yaml from the workspace root and applies defaults.
func LoadConfig(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(root, "co2fit.yaml")
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	// Apply parsed values on top of defaults.
	c := y.CO2Fit
	setString(&cfg.Data.Default, c.Data.Default)
	setString(&cfg.Data.URL, c.Data.URL)
	setInt(&cfg.Data.XColumn, c.Data.XColumn)
	setInt(&cfg.Data.YColumn, c.Data.YColumn)

	setString(&cfg.Model.Priors, c.Model.Priors)
	setFloat(&cfg.Model.CenterYear, c.Model.CenterYear)
	setFloat(&cfg.Model.NoiseSD, c.Model.NoiseSD)

	setInt(&cfg.Sampler.Draws, c.Sampler.Draws)
	setInt(&cfg.Sampler.Warmup, c.Sampler.Warmup)
	setInt(&cfg.Sampler.Chains, c.Sampler.Chains)
	setInt(&cfg.Sampler.Thin, c.Sampler.Thin)
	if c.Sampler.Seed != nil {
		cfg.Sampler.Seed = *c.Sampler.Seed
	}

	if c.Plots.Enabled != nil {
		cfg.Plots.Enabled = *c.Plots.Enabled
	}
	setFloat(&cfg.Plots.Width, c.Plots.Width)
	setFloat(&cfg.Plots.Height, c.Plots.Height)
	setString(&cfg.Plots.Pattern, c.Plots.Pattern)
	setInt(&cfg.Plots.Curves, c.Plots.Curves)

	setString(&cfg.Paths.DataDir, c.Paths.DataDir)
	setString(&cfg.Paths.PriorsDir, c.Paths.PriorsDir)
	setString(&cfg.Paths.ReportsDir, c.Paths.ReportsDir)
	setString(&cfg.Paths.ExpectationsDir, c.Paths.ExpectationsDir)

	if err := ValidateConfig(cfg); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return cfg, nil
}

// ValidateConfig checks values that would make a fit meaningless.
func ValidateConfig(cfg domain.Config) error {
	switch {
	case cfg.Sampler.Draws < 1:
		return fmt.Errorf("sampler.draws must be >= 1: %w", domain.ErrInvalidConfig)
	case cfg.Sampler.Warmup < 0:
		return fmt.Errorf("sampler.warmup must be >= 0: %w", domain.ErrInvalidConfig)
	case cfg.Sampler.Chains < 1:
		return fmt.Errorf("sampler.chains must be >= 1: %w", domain.ErrInvalidConfig)
	case cfg.Sampler.Thin < 1:
		return fmt.Errorf("sampler.thin must be >= 1: %w", domain.ErrInvalidConfig)
	case !(cfg.Model.NoiseSD > 0):
		return fmt.Errorf("model.noise_sd must be > 0: %w", domain.ErrInvalidConfig)
	case cfg.Data.XColumn < 0 || cfg.Data.YColumn < 0:
		return fmt.Errorf("data columns must be >= 0: %w", domain.ErrInvalidConfig)
	case cfg.Plots.Enabled && (cfg.Plots.Width <= 0 || cfg.Plots.Height <= 0):
		return fmt.Errorf("plots.width and plots.height must be > 0: %w", domain.ErrInvalidConfig)
	case cfg.Plots.Curves < 0:
		return fmt.Errorf("plots.curves must be >= 0: %w", domain.ErrInvalidConfig)
	}
	return validatePattern(cfg.Plots.Pattern)
}

// validatePattern requires both {{kind}} and {{param}} so that every figure
// gets its own file.
func validatePattern(pattern string) error {
	keys, err := template.Placeholders(pattern)
	if err != nil {
		return fmt.Errorf("plots.pattern: %w", err)
	}
	seen := map[string]bool{}
	for _, k := range keys {
		if k != "kind" && k != "param" {
			return fmt.Errorf("plots.pattern: unknown placeholder %q: %w", k, domain.ErrInvalidConfig)
		}
		seen[k] = true
	}
	if !seen["kind"] || !seen["param"] {
		return fmt.Errorf("plots.pattern must use {{kind}} and {{param}}: %w", domain.ErrInvalidConfig)
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

type yamlConfig struct {
	CO2Fit struct {
		Data struct {
			Default string `yaml:"default"`
			URL     string `yaml:"url"`
			XColumn *int   `yaml:"x_column"`
			YColumn *int   `yaml:"y_column"`
		} `yaml:"data"`

		Model struct {
			Priors     string   `yaml:"priors"`
			CenterYear *float64 `yaml:"center_year"`
			NoiseSD    *float64 `yaml:"noise_sd"`
		} `yaml:"model"`

		Sampler struct {
			Draws  *int    `yaml:"draws"`
			Warmup *int    `yaml:"warmup"`
			Chains *int    `yaml:"chains"`
			Thin   *int    `yaml:"thin"`
			Seed   *uint64 `yaml:"seed"`
		} `yaml:"sampler"`

		Plots struct {
			Enabled *bool    `yaml:"enabled"`
			Width   *float64 `yaml:"width"`
			Height  *float64 `yaml:"height"`
			Pattern string   `yaml:"pattern"`
			Curves  *int     `yaml:"curves"`
		} `yaml:"plots"`

		Paths struct {
			DataDir         string `yaml:"data_dir"`
			PriorsDir       string `yaml:"priors_dir"`
			ReportsDir      string `yaml:"reports_dir"`
			ExpectationsDir string `yaml:"expectations_dir"`
		} `yaml:"paths"`
	} `yaml:"co2fit"`
}
