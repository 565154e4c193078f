package tui

import (
	"log/slog"

	"github.com/squisty/bayesian-CO2/internal/ports"
)

type Deps struct {
	WorkspaceLocator ports.WorkspaceLocator

	// Reports opens the report store of a workspace root.
	Reports func(root string) (ports.ReportStore, error)

	// Root is the workspace to browse; empty means locate it from the
	// working directory.
	Root string

	Logger *slog.Logger
	Debug  bool
}
