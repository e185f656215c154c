package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/gamejoin/internal/clean"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean the extracted curated and ratings tables",
	Long: "Renames headers, drops banner rows and index columns, repairs mojibake and removes duplicate rows.\n" +
		"Without --in, cleans paths.raw_source into paths.source and paths.raw_ratings into paths.ratings.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		in, _ := cmd.Flags().GetString("in")
		out, _ := cmd.Flags().GetString("out")
		profile, _ := cmd.Flags().GetString("profile")

		if in == "" {
			reports, err := cleanAll(ctx)
			if err != nil {
				return err
			}
			return printJSON(reports)
		}

		if out == "" || profile == "" {
			return eris.New("--out and --profile are required with --in")
		}
		report, err := cleanOne(ctx, in, out, profile)
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

// cleanAll cleans the curated and ratings tables at their configured paths.
func cleanAll(ctx context.Context) ([]*clean.Report, error) {
	steps := []struct{ in, out, profile string }{
		{cfg.Paths.RawSource, cfg.Paths.Source, clean.ProfileCurated},
		{cfg.Paths.RawRatings, cfg.Paths.Ratings, clean.ProfileRatings},
	}
	reports := make([]*clean.Report, 0, len(steps))
	for _, s := range steps {
		r, err := cleanOne(ctx, s.in, s.out, s.profile)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

func cleanOne(ctx context.Context, in, out, profileName string) (*clean.Report, error) {
	p, err := loadProfile(profileName)
	if err != nil {
		return nil, err
	}

	report, err := clean.CleanFile(ctx, in, out, p)
	if err != nil {
		return nil, eris.Wrapf(err, "clean %s", in)
	}

	zap.L().Info("table cleaned",
		zap.String("profile", profileName),
		zap.String("in", in),
		zap.String("out", out),
		zap.Int("rows_in", report.RowsIn),
		zap.Int("rows_out", report.RowsOut),
		zap.Int("duplicates", report.Duplicates),
		zap.Int("repaired_cells", report.RepairedCells),
	)
	return report, nil
}

func init() {
	cleanCmd.Flags().String("in", "", "input CSV path (default: clean both configured tables)")
	cleanCmd.Flags().String("out", "", "output CSV path")
	cleanCmd.Flags().String("profile", "", "cleaning profile (curated, ratings or one from clean.profile)")
	rootCmd.AddCommand(cleanCmd)
}
