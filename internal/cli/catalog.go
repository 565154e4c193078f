package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func datasetsCmd(root *rootFlags) *cobra.Command {
	c := &cobra.Command{
		Use:   "datasets",
		Short: "Manage datasets in a workspace",
	}

	c.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List datasets",
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(root.workspace)
			if err != nil {
				return err
			}

			refs, err := ws.datasets.ListDatasets(ws.root)
			if err != nil {
				return err
			}

			if len(refs) == 0 {
				fmt.Println("(no datasets found; tip: run `co2fit fetch`)")
				return nil
			}

			fmt.Printf("Workspace: %s\n", ws.root)
			fmt.Printf("Default:   %s\n\n", ws.cfg.Data.Default)
			for _, r := range refs {
				rel, _ := filepath.Rel(ws.root, r.Path)
				fmt.Printf("- %s  (%s)\n", r.Name, rel)
			}
			return nil
		},
	})
	return c
}

func priorsCmd(root *rootFlags) *cobra.Command {
	c := &cobra.Command{
		Use:   "priors",
		Short: "Manage prior profiles in a workspace",
	}

	c.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List prior profiles",
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(root.workspace)
			if err != nil {
				return err
			}

			refs, err := ws.priorCatalog.ListPriors(ws.root)
			if err != nil {
				return err
			}

			if len(refs) == 0 {
				fmt.Println("(no prior profiles found)")
				return nil
			}

			fmt.Printf("Workspace: %s\n", ws.root)
			fmt.Printf("Default:   %s\n\n", ws.cfg.Model.Priors)
			for _, r := range refs {
				rel, _ := filepath.Rel(ws.root, r.Path)
				ps, err := ws.priors.LoadPriors(r.Path)
				if err != nil {
					fmt.Printf("- %s  (%s)  invalid: %v\n", r.Name, rel, err)
					continue
				}
				fmt.Printf("- %s  (%s)  a~N(%g,%g) b~N(%g,%g) c~N(%g,%g)\n", r.Name, rel,
					ps.A.Mu, ps.A.Sigma, ps.B.Mu, ps.B.Sigma, ps.C.Mu, ps.C.Sigma)
			}
			return nil
		},
	})
	return c
}
