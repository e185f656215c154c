// Package store persists linkage runs and their combined rows.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/gamejoin/internal/model"
)

// ErrRunNotFound is returned when a run id is unknown.
var ErrRunNotFound = eris.New("store: run not found")

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for linkage runs.
type Store interface {
	// SaveRun stores the run and its combined rows in one transaction.
	SaveRun(ctx context.Context, run model.Run, records []model.CombinedRecord) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)
	// Records returns the combined rows of a run in source order.
	Records(ctx context.Context, runID string) ([]model.CombinedRecord, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Drivers accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the configured store and applies migrations. poolCfg only
// applies to Postgres and may be nil.
func Open(ctx context.Context, driver, dsn string, poolCfg *PoolConfig) (Store, error) {
	var (
		st  Store
		err error
	)
	switch driver {
	case DriverSQLite:
		st, err = NewSQLite(dsn)
	case DriverPostgres:
		st, err = NewPostgres(ctx, dsn, poolCfg)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

// runColumns are the runs columns in scanRun order.
const runColumns = `id, status, row_count, sales_matches, ratings_matches, threshold, min_score, output, created_at`

// combinedColumns are the combined_games columns after run_id and row_index.
var combinedColumns = []string{
	"name",
	"release_year",
	"developer",
	"publisher",
	"wcd_rating",
	"wcd_review",
	"rawg_rating",
	"metacritic_rating",
	"na_sales",
	"eu_sales",
	"jp_sales",
	"other_sales",
	"global_sales",
}

func limitOrDefault(n int) int {
	if n <= 0 {
		return 100
	}
	return n
}
