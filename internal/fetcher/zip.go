package fetcher

import (
	"archive/zip"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// ExtractZIPFile extracts one file from a ZIP archive. name matches either the
// full entry path or, failing that, the entry's base name, so "vgsales.csv"
// finds "data/vgsales.csv". Returns the path to the extracted file.
func ExtractZIPFile(zipPath, name, destDir string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", eris.Wrap(err, "zip: open archive")
	}
	defer r.Close() //nolint:errcheck

	var byBase *zip.File
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if f.Name == name {
			return extractZIPEntry(f, destDir)
		}
		if byBase == nil && path.Base(f.Name) == name {
			byBase = f
		}
	}
	if byBase != nil {
		return extractZIPEntry(byBase, destDir)
	}

	return "", eris.Errorf("zip: file %q not found in archive", name)
}

// ExtractZIPSingle extracts the single file from a ZIP that contains exactly one file.
func ExtractZIPSingle(zipPath, destDir string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", eris.Wrap(err, "zip: open archive")
	}
	defer r.Close() //nolint:errcheck

	var files []*zip.File
	for _, f := range r.File {
		if !f.FileInfo().IsDir() {
			files = append(files, f)
		}
	}

	if len(files) != 1 {
		return "", eris.Errorf("zip: expected exactly 1 file, got %d", len(files))
	}

	return extractZIPEntry(files[0], destDir)
}

// IsZIP reports whether the file at p starts with the ZIP local file header.
func IsZIP(p string) (bool, error) {
	f, err := os.Open(p)
	if err != nil {
		return false, eris.Wrap(err, "zip: open")
	}
	defer f.Close() //nolint:errcheck

	magic := make([]byte, 4)
	if _, err := io.ReadFull(f, magic); err != nil {
		return false, nil
	}
	return string(magic) == "PK\x03\x04", nil
}

// extractZIPEntry writes f under destDir, rejecting entries that would escape it.
func extractZIPEntry(f *zip.File, destDir string) (string, error) {
	destPath := filepath.Join(destDir, f.Name)
	if !strings.HasPrefix(filepath.Clean(destPath), filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", eris.Errorf("zip: illegal path %q (zip slip attempt)", f.Name)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return "", eris.Wrap(err, "zip: create parent directory")
	}

	rc, err := f.Open()
	if err != nil {
		return "", eris.Wrap(err, "zip: open entry")
	}
	defer rc.Close() //nolint:errcheck

	if _, err := writeFile(destPath, rc); err != nil {
		return "", eris.Wrapf(err, "zip: extract %s", f.Name)
	}
	return destPath, nil
}
