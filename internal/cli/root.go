package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/squisty/bayesian-CO2/internal/infra/logger"
	"github.com/squisty/bayesian-CO2/internal/infra/workspacefinder"
	"github.com/squisty/bayesian-CO2/internal/ui/tui"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// rootFlags are shared by every subcommand.
type rootFlags struct {
	debug     bool
	workspace string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:          "co2fit",
		Short:        "co2fit: Bayesian quadratic fit of atmospheric CO2",
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			root, found := browseRoot(flags.workspace)

			cleanup := setupLogging(root, flags.debug, "tui")
			defer cleanup()

			deps := tui.Deps{
				WorkspaceLocator: workspacefinder.NewFinder(),
				Reports:          openReportStore,
				Logger:           logger.L(),
				Debug:            flags.debug,
			}
			if found {
				deps.Root = root
			}
			return tui.Run(deps)
		},
	}

	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable verbose logging to .co2fit/logs/co2fit.log")
	cmd.PersistentFlags().StringVarP(&flags.workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")

	cmd.AddCommand(
		initCmd(flags),
		fitCmd(flags),
		validateCmd(flags),
		datasetsCmd(flags),
		priorsCmd(flags),
		reportsCmd(flags),
		checkCmd(flags),
		fetchCmd(flags),
		versionCmd(),
	)
	return cmd
}

// browseRoot returns the workspace to browse, or the working directory when
// none is found.
func browseRoot(workspaceFlag string) (string, bool) {
	if root, err := resolveWorkspaceRoot(workspaceFlag); err == nil {
		return root, true
	}
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	wd, _ = filepath.Abs(wd)
	return wd, false
}

// setupLogging points the global logger at the workspace log file. Failures
// leave logging discarded; the command still runs.
func setupLogging(root string, debug bool, command string) func() {
	cleanup, err := logger.Setup(logger.Config{
		Root:    root,
		Debug:   debug,
		Command: command,
	})
	if err != nil || cleanup == nil {
		return func() {}
	}
	return func() { _ = cleanup() }
}
