package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/squisty/bayesian-CO2/internal/infra/reportstore"
	"github.com/squisty/bayesian-CO2/internal/usecase"
	"github.com/squisty/bayesian-CO2/internal/usecase/extract"
)

func reportsCmd(root *rootFlags) *cobra.Command {
	c := &cobra.Command{
		Use:   "reports",
		Short: "Inspect saved fit reports",
	}

	c.AddCommand(reportsListCmd(root), reportsShowCmd(root), reportsGetCmd(root))
	return c
}

func reportsListCmd(root *rootFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reports, newest first",
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(root.workspace)
			if err != nil {
				return err
			}

			refs, err := ws.store.ListReports()
			if err != nil {
				return err
			}
			if len(refs) == 0 {
				fmt.Println("(no reports found; tip: run `co2fit fit`)")
				return nil
			}
			if limit > 0 && len(refs) > limit {
				refs = refs[:limit]
			}

			for _, r := range refs {
				status := "OK"
				if r.Failed > 0 {
					status = fmt.Sprintf("%d FAIL", r.Failed)
				}
				fmt.Printf("- %s  %s  %s/%s  [%s]\n",
					r.ID, r.StartedAt.Local().Format(time.DateTime), r.Dataset, r.Priors, status)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Show at most n reports (0 for all)")
	return cmd
}

func reportsShowCmd(root *rootFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show [id|latest]",
		Short: "Print a saved report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			ws, err := loadWorkspace(root.workspace)
			if err != nil {
				return err
			}

			r, _, err := ws.store.LoadReport(reportArg(args))
			if err != nil {
				return err
			}
			return printReport(os.Stdout, r, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return cmd
}

func reportsGetCmd(root *rootFlags) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "get <name=$.path | $.path>...",
		Short: "Query values of a saved report with JSONPath",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			spec, err := extract.Parse(args)
			if err != nil {
				return err
			}
			ws, err := loadWorkspace(root.workspace)
			if err != nil {
				return err
			}

			results, err := usecase.NewQueryReport(ws.store).Execute(id, spec)
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.Success {
					fmt.Printf("%s = %s\n", r.Name, r.Value)
					continue
				}
				failed++
				fmt.Fprintf(os.Stderr, "%s: %s\n", r.Name, r.Message)
			}
			if failed > 0 {
				return fmt.Errorf("%d quer(ies) failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "report", reportstore.Latest, "Report id or latest")
	return cmd
}

func checkCmd(root *rootFlags) *cobra.Command {
	var id string
	var format string

	cmd := &cobra.Command{
		Use:   "check <expectation name or path>",
		Short: "Evaluate an expectation file against a saved report",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			ws, err := loadWorkspace(root.workspace)
			if err != nil {
				return err
			}

			res, err := usecase.NewCheckReport(ws.store, ws.expectations).Execute(id, args[0])
			if err != nil {
				return err
			}

			if format == "json" {
				if err := writeJSON(os.Stdout, res); err != nil {
					return err
				}
			} else {
				fmt.Printf("Report:      %s\n", res.ReportID)
				fmt.Printf("Expectation: %s\n\n", res.Expectation)
				printChecks(os.Stdout, "expectations", res.Results)
			}

			if res.Failed > 0 {
				return fmt.Errorf("check failed (%d failed expectation(s))", res.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "report", reportstore.Latest, "Report id or latest")
	cmd.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return cmd
}

func reportArg(args []string) string {
	if len(args) == 0 || args[0] == "" {
		return reportstore.Latest
	}
	return args[0]
}
