package extract

import (
	"context"
	"encoding/csv"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/gamejoin/internal/fetcher"
	"github.com/sells-group/gamejoin/internal/table"
)

// Sales dataset formats.
const (
	FormatCSV  = "csv"
	FormatZIP  = "zip"
	FormatXLSX = "xlsx"
)

// SalesResult describes one sales download.
type SalesResult struct {
	Path    string
	Format  string
	ETag    string
	Changed bool
}

// SalesDownloader fetches the sales dataset, which upstream publishes as a
// CSV, an XLSX workbook or a ZIP archive holding either.
type SalesDownloader struct {
	fetcher fetcher.Fetcher
	// File is the entry to extract from a ZIP archive.
	File string
}

// NewSalesDownloader creates a SalesDownloader extracting file from archives.
func NewSalesDownloader(f fetcher.Fetcher, file string) *SalesDownloader {
	if file == "" {
		file = "vgsales.csv"
	}
	return &SalesDownloader{fetcher: f, File: file}
}

func etagPath(out string) string { return out + ".etag" }

// Fetch downloads rawURL and leaves a CSV at out. The response ETag is kept
// next to out; when the server reports the content unchanged and out exists,
// nothing is downloaded.
func (s *SalesDownloader) Fetch(ctx context.Context, rawURL, out string) (*SalesResult, error) {
	log := zap.L().With(zap.String("source", "sales"), zap.String("url", rawURL))

	etag := ""
	if _, err := os.Stat(out); err == nil {
		if b, err := os.ReadFile(etagPath(out)); err == nil {
			etag = strings.TrimSpace(string(b))
		}
	}

	body, newETag, changed, err := s.fetcher.DownloadIfChanged(ctx, rawURL, etag)
	if err != nil {
		return nil, eris.Wrap(err, "extract: download sales")
	}
	if !changed {
		log.Info("extract: sales dataset unchanged", zap.String("etag", etag))
		return &SalesResult{Path: out, ETag: etag}, nil
	}
	defer body.Close() //nolint:errcheck

	workDir, err := os.MkdirTemp(filepath.Dir(out), ".sales-*")
	if err != nil {
		return nil, eris.Wrap(err, "extract: create work dir")
	}
	defer os.RemoveAll(workDir) //nolint:errcheck

	download := filepath.Join(workDir, "download")
	f, err := os.Create(download)
	if err != nil {
		return nil, eris.Wrap(err, "extract: create download file")
	}
	_, err = f.ReadFrom(body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, eris.Wrap(err, "extract: save download")
	}

	format, err := s.convert(download, workDir, rawURL, out)
	if err != nil {
		return nil, err
	}

	if newETag != "" {
		if err := os.WriteFile(etagPath(out), []byte(newETag), 0o644); err != nil {
			log.Warn("extract: could not save etag", zap.Error(err))
		}
	} else if err := os.Remove(etagPath(out)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("extract: could not remove stale etag", zap.Error(err))
	}

	log.Info("extract: sales dataset written", zap.String("format", format), zap.String("out", out))
	return &SalesResult{Path: out, Format: format, ETag: newETag, Changed: true}, nil
}

// convert turns the downloaded file into a CSV at out and returns the format
// it arrived in.
func (s *SalesDownloader) convert(download, workDir, rawURL, out string) (string, error) {
	if isXLSXName(urlPath(rawURL)) {
		return FormatXLSX, xlsxToCSV(download, out)
	}

	isZip, err := fetcher.IsZIP(download)
	if err != nil {
		return "", err
	}
	if !isZip {
		return FormatCSV, eris.Wrap(os.Rename(download, out), "extract: move sales csv")
	}

	entry, err := fetcher.ExtractZIPFile(download, s.File, workDir)
	if err != nil {
		single, serr := fetcher.ExtractZIPSingle(download, workDir)
		if serr != nil {
			return "", eris.Wrap(err, "extract: unpack sales archive")
		}
		zap.L().Warn("extract: sales entry not in archive, using its only file",
			zap.String("want", s.File), zap.String("using", filepath.Base(single)))
		entry = single
	}
	if isXLSXName(entry) {
		return FormatZIP, xlsxToCSV(entry, out)
	}
	return FormatZIP, eris.Wrap(os.Rename(entry, out), "extract: move sales csv")
}

func urlPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}

func isXLSXName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".xlsx")
}

// xlsxToCSV writes the first worksheet of the workbook at src to out.
func xlsxToCSV(src, out string) error {
	rows, err := fetcher.ReadXLSX(src, fetcher.XLSXOptions{})
	if err != nil {
		return eris.Wrap(err, "extract: read sales workbook")
	}
	if len(rows) == 0 {
		return eris.Wrapf(table.ErrEmptyResource, "extract: %s", src)
	}
	return table.WriteAtomic(out, func(w *csv.Writer) error {
		return eris.Wrap(w.WriteAll(rows), "extract: write sales csv")
	})
}
