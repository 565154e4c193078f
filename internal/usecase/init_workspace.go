package usecase

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/squisty/bayesian-CO2/internal/domain"
	"github.com/squisty/bayesian-CO2/internal/ports"
)

// InitWorkspace creates the co2fit.yaml, priors and expectation templates.
type InitWorkspace struct {
	initializer ports.WorkspaceInitializer
}

func NewInitWorkspace(initializer ports.WorkspaceInitializer) *InitWorkspace {
	return &InitWorkspace{initializer: initializer}
}

// Execute initializes root, which is made absolute first. Existing template
// files are only overwritten when force is set.
func (uc *InitWorkspace) Execute(root string, force bool) error {
	root = strings.TrimSpace(root)
	if root == "" {
		return &domain.OpError{
			Op:   "init.workspace",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("workspace root is empty: %w", domain.ErrInvalidConfig),
		}
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return &domain.OpError{Op: "init.workspace", Kind: domain.KindInvalidConfig, Path: root, Err: err}
	}
	return uc.initializer.Init(domain.WorkspaceSpec{Root: abs}, force)
}
