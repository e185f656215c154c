package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/gamejoin/internal/model"
	"github.com/sells-group/gamejoin/internal/store"
	"github.com/sells-group/gamejoin/internal/table"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect join run history",
	Long:  "Commands for listing, viewing, and exporting recorded join runs. Requires store.driver.",
}

// -- runs list --

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List join runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := requireStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")

		runs, err := st.ListRuns(ctx, store.RunFilter{
			Status: model.RunStatus(status),
			Limit:  limit,
		})
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(os.Stdout, runs)
		return nil
	},
}

// -- runs show --

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show full details of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := requireStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err := st.GetRun(cmd.Context(), args[0])
		if err != nil {
			return eris.Wrap(err, "runs show")
		}
		return printJSON(run)
	},
}

// -- runs export --

var runsExportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Write the combined rows of a stored run to CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := requireStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		out, _ := cmd.Flags().GetString("out")
		n, err := exportRun(cmd.Context(), st, args[0], out)
		if err != nil {
			return err
		}
		zap.L().Info("run exported", zap.String("run_id", args[0]), zap.String("out", out), zap.Int("rows", n))
		return nil
	},
}

func exportRun(ctx context.Context, st store.Store, runID, out string) (int, error) {
	records, err := st.Records(ctx, runID)
	if err != nil {
		return 0, eris.Wrap(err, "runs export")
	}
	if err := table.WriteCombined(out, records); err != nil {
		return 0, eris.Wrap(err, "runs export")
	}
	return len(records), nil
}

// requireStore opens the configured store, failing when none is configured.
func requireStore(cmd *cobra.Command) (store.Store, error) {
	if err := cfg.Validate("store"); err != nil {
		return nil, err
	}
	return initStore(cmd.Context())
}

func init() {
	runsListCmd.Flags().String("status", "", "filter by run status (running, complete, failed)")
	runsListCmd.Flags().Int("limit", 50, "max number of runs to display")

	runsExportCmd.Flags().String("out", "combined_export.csv", "output CSV path")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsExportCmd)
	rootCmd.AddCommand(runsCmd)
}

// formatRunsList writes a tabular list of runs to w.
func formatRunsList(out io.Writer, runs []model.Run) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSTATUS\tROWS\tSALES\tRATINGS\tTHRESHOLD\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t------\t----\t-----\t-------\t---------\t-------")

	for _, r := range runs {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%g\t%s\n",
			truncateID(r.ID),
			r.Status,
			r.Rows,
			matchRate(r.SalesMatches, r.Rows),
			matchRate(r.RatingsMatches, r.Rows),
			r.Threshold,
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

// matchRate renders n of total with its percentage.
func matchRate(n, total int) string {
	if total == 0 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%d (%.0f%%)", n, 100*float64(n)/float64(total))
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
