package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/gamejoin/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id              TEXT PRIMARY KEY,
	status          TEXT NOT NULL,
	row_count       INTEGER NOT NULL,
	sales_matches   INTEGER NOT NULL,
	ratings_matches INTEGER NOT NULL,
	threshold       REAL NOT NULL,
	min_score       REAL NOT NULL,
	output          TEXT NOT NULL,
	created_at      DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS combined_games (
	run_id            TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	row_index         INTEGER NOT NULL,
	name              TEXT NOT NULL,
	release_year      TEXT NOT NULL,
	developer         TEXT NOT NULL,
	publisher         TEXT NOT NULL,
	wcd_rating        TEXT NOT NULL,
	wcd_review        TEXT NOT NULL,
	rawg_rating       REAL,
	metacritic_rating REAL,
	na_sales          REAL,
	eu_sales          REAL,
	jp_sales          REAL,
	other_sales       REAL,
	global_sales      REAL,
	PRIMARY KEY (run_id, row_index)
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
CREATE INDEX IF NOT EXISTS idx_combined_games_name ON combined_games(name);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run model.Run, records []model.CombinedRecord) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin save run")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, status, row_count, sales_matches, ratings_matches, threshold, min_score, output, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, string(run.Status), run.Rows, run.SalesMatches, run.RatingsMatches,
		run.Threshold, run.MinScore, run.Output, run.CreatedAt.UTC(),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert run %s", run.ID)
	}

	placeholders := strings.Repeat("?, ", len(combinedColumns)+1) + "?"
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO combined_games (run_id, row_index, `+strings.Join(combinedColumns, ", ")+`) VALUES (`+placeholders+`)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert combined")
	}
	defer stmt.Close() //nolint:errcheck

	for i, rec := range records {
		args := append([]any{run.ID, i}, recordArgs(rec)...)
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			return eris.Wrapf(err, "sqlite: insert combined row %d", i)
		}
	}

	if err = tx.Commit(); err != nil {
		return eris.Wrap(err, "sqlite: commit save run")
	}
	return nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrRunNotFound, "sqlite: get run %s", runID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get run %s", runID)
	}
	return r, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limitOrDefault(filter.Limit))

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close() //nolint:errcheck

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

func (s *SQLiteStore) Records(ctx context.Context, runID string) ([]model.CombinedRecord, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+strings.Join(combinedColumns, ", ")+` FROM combined_games WHERE run_id = ? ORDER BY row_index`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list records for run %s", runID)
	}
	defer rows.Close() //nolint:errcheck

	var out []model.CombinedRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan record")
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list records iterate")
}
