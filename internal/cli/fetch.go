package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/squisty/bayesian-CO2/internal/infra/httpclient"
	"github.com/squisty/bayesian-CO2/internal/infra/httpfetch"
	"github.com/squisty/bayesian-CO2/internal/infra/logger"
	"github.com/squisty/bayesian-CO2/internal/usecase"
)

func fetchCmd(root *rootFlags) *cobra.Command {
	var url string
	var output string
	var force bool
	var quiet bool

	c := &cobra.Command{
		Use:   "fetch",
		Short: "Download the published Mauna Loa weekly dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(root.workspace)
			if err != nil {
				return err
			}

			cleanup := setupLogging(ws.root, root.debug, "fetch")
			defer cleanup()

			if url == "" {
				url = ws.cfg.Data.URL
			}
			dst := output
			if dst == "" {
				dst = filepath.Join(ws.root, ws.cfg.Paths.DataDir, ws.cfg.Data.Default)
			} else if !filepath.IsAbs(dst) {
				dst = filepath.Join(ws.root, dst)
			}

			opts := []httpfetch.Option{httpfetch.WithLogger(logger.L())}
			if !quiet {
				opts = append(opts, httpfetch.WithProgress(func(size int64) io.Writer {
					return progressbar.DefaultBytes(size, "downloading")
				}))
			}
			fetcher := httpfetch.New(httpclient.New(httpclient.DefaultConfig()), opts...)

			uc := usecase.NewFetchDataset(fetcher, ws.datasets, logger.L())
			res, err := uc.Execute(cmd.Context(), url, dst, force)
			if err != nil {
				return err
			}

			rel, _ := filepath.Rel(ws.root, res.Path)
			fmt.Fprintf(os.Stdout, "Saved %s (%d bytes)\n", rel, res.Bytes)
			fmt.Fprintf(os.Stdout, "  %d observations kept, %d dropped, %.2f-%.2f\n",
				res.Dataset.Kept, res.Dataset.Dropped, res.Dataset.XMin, res.Dataset.XMax)
			return nil
		},
	}

	c.Flags().StringVar(&url, "url", "", "Source URL (defaults to data.url)")
	c.Flags().StringVarP(&output, "output", "o", "", "Destination file (defaults to <data dir>/<data.default>)")
	c.Flags().BoolVar(&force, "force", false, "Replace an existing file")
	c.Flags().BoolVarP(&quiet, "quiet", "q", false, "Hide the progress bar")
	return c
}
