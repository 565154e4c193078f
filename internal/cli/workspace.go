package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/squisty/bayesian-CO2/internal/domain"
	"github.com/squisty/bayesian-CO2/internal/infra/config"
	"github.com/squisty/bayesian-CO2/internal/infra/reportstore"
	"github.com/squisty/bayesian-CO2/internal/infra/textdata"
	"github.com/squisty/bayesian-CO2/internal/infra/workspacefinder"
	"github.com/squisty/bayesian-CO2/internal/infra/yamlpriors"
	"github.com/squisty/bayesian-CO2/internal/ports"
)

type workspaceCtx struct {
	root string
	cfg  domain.Config

	datasets ports.DatasetLoader

	priors       ports.PriorLoader
	priorCatalog ports.PriorCatalog

	expectations ports.ExpectationLoader
	store        ports.ReportStore
}

func loadWorkspace(workspaceFlag string) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(workspaceFlag)
	if err != nil {
		return nil, err
	}

	cfg, err := workspacefinder.LoadConfig(root)
	if err != nil {
		return nil, err
	}

	dataLoader := textdata.NewLoader(
		textdata.WithDataDir(cfg.Paths.DataDir),
		textdata.WithColumns(cfg.Data.XColumn, cfg.Data.YColumn),
	)

	priorLoader := yamlpriors.NewLoader(
		root,
		yamlpriors.WithPriorsDir(cfg.Paths.PriorsDir),
	)

	return &workspaceCtx{
		root:         root,
		cfg:          cfg,
		datasets:     dataLoader,
		priors:       priorLoader,
		priorCatalog: priorLoader,
		expectations: config.Loader{Dir: filepath.Join(root, cfg.Paths.ExpectationsDir)},
		store:        reportstore.NewJSONStore(root, cfg, reportstore.WithIndex(true)),
	}, nil
}

// openReportStore is handed to the TUI so it can reload a workspace.
func openReportStore(root string) (ports.ReportStore, error) {
	cfg, err := workspacefinder.LoadConfig(root)
	if err != nil {
		return nil, err
	}
	return reportstore.NewJSONStore(root, cfg), nil
}

func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	locator := workspacefinder.NewFinder()
	root, err := locator.FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("workspace not found from %q (tip: run `co2fit init`): %w", wd, err)
	}
	return root, nil
}

// resolveDatasetPath maps --data to a file. Empty selects the configured
// default; a bare name is looked up in the data directory, with or without
// extension; anything path-like is taken relative to the workspace root.
func resolveDatasetPath(ws *workspaceCtx, arg string) (string, error) {
	in := strings.TrimSpace(arg)
	if in == "" {
		in = ws.cfg.Data.Default
	}
	if in == "" {
		return "", fmt.Errorf("dataset is required (use --data or set data.default): %w", domain.ErrInvalidConfig)
	}

	if looksLikePath(in) {
		p := in
		if !filepath.IsAbs(p) {
			p = filepath.Join(ws.root, p)
		}
		return filepath.Clean(p), nil
	}

	dataDir := filepath.Join(ws.root, ws.cfg.Paths.DataDir)

	if textdata.HasDataExt(in) {
		return filepath.Join(dataDir, in), nil
	}

	for _, ext := range []string{".txt", ".dat", ".csv"} {
		p := filepath.Join(dataDir, in+ext)
		if fileExists(p) {
			return p, nil
		}
	}

	return "", &domain.OpError{
		Op:   "cli.dataset",
		Kind: domain.KindNotFound,
		Path: dataDir,
		Err:  fmt.Errorf("dataset %q not found: %w", in, domain.ErrNotFound),
	}
}

func looksLikePath(s string) bool {
	return strings.Contains(s, "/") || strings.Contains(s, string(filepath.Separator))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
