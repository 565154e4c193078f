package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/squisty/bayesian-CO2/internal/infra/fsworkspace"
	"github.com/squisty/bayesian-CO2/internal/usecase"
)

func initCmd(root *rootFlags) *cobra.Command {
	var path string
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Create a co2fit workspace with config, priors and expectations",
		RunE: func(_ *cobra.Command, _ []string) error {
			target := path
			if target == "" {
				target = root.workspace
			}
			if target == "" {
				target = "."
			}
			abs, err := filepath.Abs(target)
			if err != nil {
				return fmt.Errorf("invalid path: %w", err)
			}

			uc := usecase.NewInitWorkspace(fsworkspace.NewInitializer())
			if err := uc.Execute(abs, force); err != nil {
				return err
			}

			fmt.Printf("Workspace initialized at %s\n", abs)
			fmt.Println("Next: co2fit fetch && co2fit fit")
			return nil
		},
	}

	c.Flags().StringVar(&path, "path", "", "Directory to initialize (defaults to --workspace or the current directory)")
	c.Flags().BoolVar(&force, "force", false, "Overwrite existing template files")
	return c
}
