package table

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/sells-group/gamejoin/internal/model"
)

// WriteCombined writes records to path as CSV with the model.CombinedColumns
// header. The file is written to a temporary sibling and renamed into place,
// so a failed write never leaves a partial table behind.
func WriteCombined(path string, records []model.CombinedRecord) error {
	return WriteAtomic(path, func(w *csv.Writer) error {
		if err := w.Write(model.CombinedColumns); err != nil {
			return eris.Wrap(err, "table: write header")
		}
		enc := csvutil.NewEncoder(w)
		enc.AutoHeader = false
		if len(records) == 0 {
			return nil
		}
		if err := enc.Encode(records); err != nil {
			return eris.Wrap(err, "table: encode rows")
		}
		return nil
	})
}

// WriteAtomic creates path via a temporary file in the same directory. fill
// writes the CSV content; the writer is flushed before the rename.
func WriteAtomic(path string, fill func(w *csv.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return eris.Wrapf(err, "table: create temp file for %s", path)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	w := csv.NewWriter(tmp)
	if err = fill(w); err != nil {
		return err
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return eris.Wrapf(err, "table: flush %s", path)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return eris.Wrapf(err, "table: chmod %s", tmpName)
	}
	if err = tmp.Close(); err != nil {
		return eris.Wrapf(err, "table: close %s", tmpName)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return eris.Wrapf(err, "table: rename into %s", path)
	}
	return nil
}
