package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runSkipExtract bool
	runSkipClean   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: extract, clean and match",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		applyMatchFlags(cmd)

		if !runSkipExtract {
			if err := cfg.Validate("extract"); err != nil {
				return err
			}
			if err := extractSheet(cmd, cfg.Extract.SheetURL, cfg.Paths.RawSource, false); err != nil {
				return err
			}
			if err := extractRAWG(cmd, cfg.Paths.RawRatings); err != nil {
				return err
			}
			if cfg.Extract.SalesURL != "" {
				if err := extractSales(cmd, cfg.Extract.SalesURL, cfg.Extract.SalesFile, cfg.Paths.Sales); err != nil {
					return err
				}
			} else {
				zap.L().Info("no sales url configured, using existing sales file", zap.String("path", cfg.Paths.Sales))
			}
		}

		if !runSkipClean {
			if _, err := cleanAll(ctx); err != nil {
				return eris.Wrap(err, "pipeline run")
			}
		}

		run, err := runMatch(ctx)
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}
		return printJSON(run)
	},
}

func init() {
	runCmd.Flags().BoolVar(&runSkipExtract, "skip-extract", false, "reuse previously extracted files")
	runCmd.Flags().BoolVar(&runSkipClean, "skip-clean", false, "reuse previously cleaned files")
	addMatchFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}
