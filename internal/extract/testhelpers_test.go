package extract

import (
	"context"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/gamejoin/internal/fetcher"
)

func newTestFetcher() *fetcher.HTTPFetcher {
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		Timeout:    5 * time.Second,
		MaxRetries: 1,
	})
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// statusFetcher fails every download with a fixed HTTP status.
type statusFetcher struct {
	mu    sync.Mutex
	code  int
	calls int
}

func (f *statusFetcher) Download(_ context.Context, url string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return nil, &fetcher.StatusError{Code: f.code, URL: url}
}

func (f *statusFetcher) DownloadToFile(ctx context.Context, url, _ string) (int64, error) {
	_, err := f.Download(ctx, url)
	return 0, err
}

func (f *statusFetcher) DownloadIfChanged(ctx context.Context, url, _ string) (io.ReadCloser, string, bool, error) {
	_, err := f.Download(ctx, url)
	return nil, "", false, err
}
