// Package table loads the cleaned input tables into typed records and writes
// the combined output table.
package table

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/gamejoin/internal/fetcher"
)

// Resource names used in errors and logs.
const (
	ResourceSource  = "curated"
	ResourceSales   = "sales"
	ResourceRatings = "ratings"
)

// raw is a fully materialized CSV with its header indexed by trimmed name.
type raw struct {
	resource string
	path     string
	colIdx   map[string]int
	rows     [][]string
}

// readRaw reads the whole file at path. Missing files, header-only files and
// zero-byte files are reported as ErrMissingResource and ErrEmptyResource.
func readRaw(ctx context.Context, resource, path string) (*raw, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, eris.Wrapf(ErrMissingResource, "%s: %s", resource, path)
		}
		return nil, eris.Wrapf(err, "table: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	headerCh := make(chan []string, 1)
	rowCh, errCh := fetcher.StreamCSV(ctx, fetcher.SkipBOM(f), fetcher.CSVOptions{
		HasHeader:  true,
		HeaderCh:   headerCh,
		LazyQuotes: true,
	})

	var rows [][]string
	for row := range rowCh {
		rows = append(rows, row)
	}
	for err := range errCh {
		if err != nil {
			return nil, eris.Wrapf(err, "table: read %s", path)
		}
	}

	var header []string
	select {
	case header = <-headerCh:
	default:
	}
	if header == nil || len(rows) == 0 {
		return nil, eris.Wrapf(ErrEmptyResource, "%s: %s", resource, path)
	}

	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		name := strings.TrimSpace(col)
		if _, dup := colIdx[name]; !dup {
			colIdx[name] = i
		}
	}

	return &raw{resource: resource, path: path, colIdx: colIdx, rows: rows}, nil
}

func (r *raw) has(col string) bool {
	_, ok := r.colIdx[col]
	return ok
}

func (r *raw) require(cols ...string) error {
	for _, col := range cols {
		if !r.has(col) {
			return &MalformedColumnError{Resource: r.resource, Path: r.path, Column: col}
		}
	}
	return nil
}

// cell returns the value of col in row, or "" when the row is short or the
// column does not exist.
func (r *raw) cell(row []string, col string) string {
	i, ok := r.colIdx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
