//go:build !integration

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/gamejoin/internal/model"
)

func TestFormatRunsList(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	runs := []model.Run{
		{
			ID:             "abc12345-6789-0000-0000-000000000000",
			Status:         model.RunStatusComplete,
			Rows:           200,
			SalesMatches:   150,
			RatingsMatches: 50,
			Threshold:      80,
			CreatedAt:      now,
		},
		{
			ID:        "def12345-6789-0000-0000-000000000000",
			Status:    model.RunStatusFailed,
			Threshold: 85,
			CreatedAt: now.Add(-1 * time.Hour),
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	output := buf.String()
	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "STATUS")
	assert.Contains(t, output, "SALES")
	assert.Contains(t, output, "abc12345")
	assert.NotContains(t, output, "abc12345-6789")
	assert.Contains(t, output, "complete")
	assert.Contains(t, output, "150 (75%)")
	assert.Contains(t, output, "50 (25%)")
	assert.Contains(t, output, "failed")
	assert.Contains(t, output, "85")
	assert.Contains(t, output, "2025-06-15 10:30")
}

func TestMatchRate(t *testing.T) {
	assert.Equal(t, "0", matchRate(0, 0))
	assert.Equal(t, "1 (50%)", matchRate(1, 2))
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abc12345", truncateID("abc12345-6789"))
	assert.Equal(t, "short", truncateID("short"))
}

func TestExportRun(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()
	records := []model.CombinedRecord{
		{Name: "Halo", ReleaseYear: "2001", GlobalSales: model.Some(5)},
		{Name: "Myst", ReleaseYear: model.NotAvailable},
	}
	require.NoError(t, st.SaveRun(ctx, model.Run{ID: "run-1", Status: model.RunStatusComplete, CreatedAt: time.Now().UTC()}, records))

	out := filepath.Join(t.TempDir(), "export.csv")
	n, err := exportRun(ctx, st, "run-1", out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows := readCSVFile(t, out)
	require.Len(t, rows, 3)
	assert.Equal(t, model.CombinedColumns, rows[0])
	assert.Equal(t, "Halo", rows[1][0])
	assert.Equal(t, "", rows[2][len(rows[2])-1])

	_, err = exportRun(ctx, st, "missing", out)
	require.Error(t, err)
}

func TestRequireStore_NotConfigured(t *testing.T) {
	setTestConfig(t)

	err := runsListCmd.RunE(runsListCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver is required")
}

func TestRunsListCmd_SQLite(t *testing.T) {
	c, dir := setTestConfig(t)
	useSQLiteStore(c, dir)

	runsListCmd.SetContext(context.Background())
	defer runsListCmd.SetContext(context.TODO())

	assert.NoError(t, runsListCmd.RunE(runsListCmd, nil))
}

