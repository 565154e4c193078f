package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/squisty/bayesian-CO2/internal/domain"
	"github.com/squisty/bayesian-CO2/internal/usecase"
)

func validateCmd(root *rootFlags) *cobra.Command {
	var data string
	var priors string

	c := &cobra.Command{
		Use:   "validate",
		Short: "Load the dataset and prior profile without sampling",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(root.workspace)
			if err != nil {
				return err
			}

			path, err := resolveDatasetPath(ws, data)
			if err != nil {
				return err
			}
			in := usecase.FitInput{
				Dataset:    path,
				Priors:     ws.cfg.Model.Priors,
				CenterYear: ws.cfg.Model.CenterYear,
				NoiseSD:    ws.cfg.Model.NoiseSD,
			}
			if priors != "" {
				in.Priors = priors
			}

			uc := usecase.NewValidateDataset(ws.datasets, ws.priors)
			res, err := uc.Execute(cmd.Context(), in)
			if err != nil {
				return err
			}

			w := os.Stdout
			fmt.Fprintf(w, "Dataset: %s\n", res.Dataset.Path)
			fmt.Fprintf(w, "  rows %d, kept %d, dropped %d\n", res.Dataset.Rows, res.Dataset.Kept, res.Dataset.Dropped)
			fmt.Fprintf(w, "  x %.3f..%.3f, y %.2f..%.2f ppm\n",
				res.Dataset.XMin, res.Dataset.XMax, res.Dataset.YMin, res.Dataset.YMax)
			fmt.Fprintf(w, "Priors:  %s\n", res.Model.Priors.Name)
			for _, p := range domain.Params {
				np := res.Model.Priors.Get(p)
				fmt.Fprintf(w, "  %s ~ N(%g, %g)\n", p, np.Mu, np.Sigma)
			}
			fmt.Fprintln(w)
			printPhase(w, "Prior", res.Prior)
			printPhase(w, "Exact posterior", res.Conjugate)
			fmt.Fprintln(w, "OK")
			return nil
		},
	}

	c.Flags().StringVarP(&data, "data", "d", "", "Dataset name or path (defaults to data.default)")
	c.Flags().StringVarP(&priors, "priors", "p", "", "Prior profile name or path (defaults to model.priors)")
	return c
}
