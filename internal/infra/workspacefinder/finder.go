package workspacefinder

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/squisty/bayesian-CO2/internal/domain"
	"github.com/squisty/bayesian-CO2/internal/ports"
)

const (
	ConfigFile = "co2fit.yaml"

	// EnvWorkspace names a workspace root that wins over the upward search.
	EnvWorkspace = "CO2FIT_WORKSPACE"
)

// Finder locates a co2fit workspace root by searching for co2fit.yaml upward.
type Finder struct {
	ConfigFile string
	Getenv     func(string) string
}

func NewFinder() *Finder {
	return &Finder{ConfigFile: ConfigFile, Getenv: os.Getenv}
}

var _ ports.WorkspaceLocator = (*Finder)(nil)

func (f *Finder) FindRoot(startDir string) (string, error) {
	if f.Getenv != nil {
		if env := f.Getenv(EnvWorkspace); env != "" {
			return f.fromEnv(env)
		}
	}

	if startDir == "" {
		return "", &domain.OpError{
			Op:   "workspacefinder.findroot",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("startDir is empty: %w", domain.ErrInvalidConfig),
		}
	}

	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", &domain.OpError{
			Op:   "workspacefinder.findroot",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}

	// If user passes a file path, use its directory.
	info, statErr := os.Stat(abs)
	if statErr == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	cur := filepath.Clean(abs)
	for {
		cfgPath := filepath.Join(cur, f.ConfigFile)
		if _, err := os.Stat(cfgPath); err == nil {
			return cur, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			// Reached filesystem root.
			return "", &domain.OpError{
				Op:   "workspacefinder.findroot",
				Kind: domain.KindNotFound,
				Path: abs,
				Err:  fmt.Errorf("no %s in %s or any parent: %w", f.ConfigFile, abs, domain.ErrNotFound),
			}
		}
		cur = parent
	}
}

func (f *Finder) fromEnv(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", &domain.OpError{
			Op:   "workspacefinder.findroot",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}
	if _, err := os.Stat(filepath.Join(abs, f.ConfigFile)); err != nil {
		return "", &domain.OpError{
			Op:   "workspacefinder.findroot",
			Kind: domain.KindNotFound,
			Path: abs,
			Err:  fmt.Errorf("%s=%s has no %s: %w", EnvWorkspace, dir, f.ConfigFile, domain.ErrNotFound),
		}
	}
	return abs, nil
}
