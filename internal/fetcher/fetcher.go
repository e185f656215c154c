// Package fetcher downloads upstream datasets and reads the CSV, ZIP, JSON and
// XLSX formats they arrive in.
package fetcher

import (
	"context"
	"fmt"
	"io"
)

// Fetcher defines the interface for downloading remote data.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// DownloadToFile fetches the URL and writes it to the given path. Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)

	// DownloadIfChanged fetches the URL only if its ETag differs from etag.
	// Returns (body, newETag, changed, error). When unchanged, body is nil.
	DownloadIfChanged(ctx context.Context, url string, etag string) (io.ReadCloser, string, bool, error)
}

// StatusError reports an HTTP response the fetcher could not use.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.URL)
}

// StatusCode returns the HTTP status of the response.
func (e *StatusError) StatusCode() int { return e.Code }
