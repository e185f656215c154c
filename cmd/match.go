package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/gamejoin/internal/linkage"
	"github.com/sells-group/gamejoin/internal/model"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Fuzzy-join the cleaned tables into the combined table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		applyMatchFlags(cmd)

		run, err := runMatch(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(run)
	},
}

// applyMatchFlags copies explicitly set flags over the match config.
func applyMatchFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("threshold") {
		cfg.Match.Threshold, _ = flags.GetFloat64("threshold")
	}
	if flags.Changed("min-score") {
		cfg.Match.MinScore, _ = flags.GetFloat64("min-score")
	}
	if flags.Changed("scorer") {
		cfg.Match.Scorer, _ = flags.GetString("scorer")
	}
	if flags.Changed("workers") {
		cfg.Match.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("output") {
		cfg.Paths.Output, _ = flags.GetString("output")
	}
}

// runMatch joins the configured tables, writes the output and records the
// run when a store is configured.
func runMatch(ctx context.Context) (*model.Run, error) {
	if err := cfg.Validate("match"); err != nil {
		return nil, err
	}

	m, err := initMatcher()
	if err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	var saver linkage.RunSaver
	if st != nil {
		defer st.Close() //nolint:errcheck
		saver = st
	}

	run, err := linkage.NewDriver(m, saver).Run(ctx, linkageInputs())
	if err != nil {
		return run, eris.Wrap(err, "match")
	}

	zap.L().Info("join complete",
		zap.String("run_id", run.ID),
		zap.Int("rows", run.Rows),
		zap.Int("sales_matches", run.SalesMatches),
		zap.Int("ratings_matches", run.RatingsMatches),
		zap.String("output", run.Output),
	)
	return run, nil
}

func addMatchFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("threshold", 80, "acceptance floor on the 0..100 scale (default from config)")
	cmd.Flags().Float64("min-score", 60, "finder floor on the 0..100 scale (default from config)")
	cmd.Flags().String("scorer", "ratio", "similarity scorer: ratio or jaro_winkler (default from config)")
	cmd.Flags().Int("workers", 0, "per-row workers, 0 = NumCPU (default from config)")
	cmd.Flags().String("output", "", "combined CSV path (default paths.output)")
}

func init() {
	addMatchFlags(matchCmd)
	rootCmd.AddCommand(matchCmd)
}
