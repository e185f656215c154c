package clean

import (
	"context"
	"encoding/csv"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/gamejoin/internal/fetcher"
	"github.com/sells-group/gamejoin/internal/table"
)

// Report summarizes one CleanFile call.
type Report struct {
	Input         string   `json:"input"`
	Output        string   `json:"output"`
	Columns       []string `json:"columns"`
	RowsIn        int      `json:"rows_in"`
	RowsOut       int      `json:"rows_out"`
	Skipped       int      `json:"skipped"`
	Duplicates    int      `json:"duplicates"`
	RepairedCells int      `json:"repaired_cells"`
}

// CleanFile applies p to the CSV at in and writes the result to out. The
// output is written atomically and never carries an index column.
func CleanFile(ctx context.Context, in, out string, p Profile) (*Report, error) {
	f, err := os.Open(in)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, eris.Wrapf(table.ErrMissingResource, "clean: %s", in)
		}
		return nil, eris.Wrapf(err, "clean: open %s", in)
	}
	defer f.Close() //nolint:errcheck

	headerCh := make(chan []string, 1)
	rowCh, errCh := fetcher.StreamCSV(ctx, fetcher.SkipBOM(f), fetcher.CSVOptions{
		HasHeader:  true,
		HeaderCh:   headerCh,
		LazyQuotes: true,
	})

	report := &Report{Input: in, Output: out}
	c := &cleaner{profile: p, report: report, seen: make(map[string]struct{})}

	werr := table.WriteAtomic(out, func(w *csv.Writer) error {
		wroteHeader := false
		writeHeader := func(raw []string) error {
			wroteHeader = true
			header, err := c.header(raw)
			if err != nil {
				return err
			}
			report.Columns = header
			return eris.Wrap(w.Write(header), "clean: write header")
		}

		for row := range rowCh {
			if !wroteHeader {
				if err := writeHeader(<-headerCh); err != nil {
					drain(rowCh)
					return err
				}
			}
			cleaned, keep := c.row(row)
			if !keep {
				continue
			}
			if err := w.Write(cleaned); err != nil {
				drain(rowCh)
				return eris.Wrap(err, "clean: write row")
			}
			report.RowsOut++
		}
		for err := range errCh {
			if err != nil {
				return eris.Wrapf(err, "clean: read %s", in)
			}
		}

		if !wroteHeader {
			select {
			case raw := <-headerCh:
				return writeHeader(raw)
			default:
				return eris.Wrapf(table.ErrEmptyResource, "clean: %s", in)
			}
		}
		return nil
	})
	if werr != nil {
		return nil, werr
	}

	zap.L().Info("clean: table written",
		zap.String("input", in),
		zap.String("output", out),
		zap.Int("rows_in", report.RowsIn),
		zap.Int("rows_out", report.RowsOut),
		zap.Int("duplicates", report.Duplicates),
		zap.Int("repaired_cells", report.RepairedCells),
	)
	return report, nil
}

// drain empties rowCh so the streaming goroutine can exit.
func drain(rowCh <-chan []string) {
	for range rowCh {
	}
}

type cleaner struct {
	profile  Profile
	report   *Report
	seen     map[string]struct{}
	dropHead bool
}

func (c *cleaner) header(raw []string) ([]string, error) {
	if c.profile.DropIndex && len(raw) > 0 && isIndexHeader(raw[0]) {
		c.dropHead = true
		raw = raw[1:]
	}
	if c.profile.ExpectColumns > 0 && len(raw) != c.profile.ExpectColumns {
		return nil, eris.Errorf("clean: expected %d columns, got %d", c.profile.ExpectColumns, len(raw))
	}
	out := make([]string, len(raw))
	for i, h := range raw {
		out[i] = c.profile.header(strings.TrimSpace(h))
	}
	return out, nil
}

// row cleans one data row and reports whether it should be written.
func (c *cleaner) row(row []string) ([]string, bool) {
	c.report.RowsIn++
	if c.report.RowsIn <= c.profile.SkipRows {
		c.report.Skipped++
		return nil, false
	}
	if c.dropHead && len(row) > 0 {
		row = row[1:]
	}
	if c.profile.Repair {
		for i, cell := range row {
			if fixed := RepairText(cell); fixed != cell {
				row[i] = fixed
				c.report.RepairedCells++
			}
		}
	}
	if c.profile.Dedupe {
		key := strings.Join(row, "\x1f")
		if _, dup := c.seen[key]; dup {
			c.report.Duplicates++
			return nil, false
		}
		c.seen[key] = struct{}{}
	}
	return row, true
}

func isIndexHeader(h string) bool {
	h = strings.TrimSpace(h)
	return h == "" || strings.HasPrefix(h, "Unnamed: ")
}
