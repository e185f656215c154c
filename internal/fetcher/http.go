package fetcher

import (
	"context"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	UserAgent    string
	Timeout      time.Duration
	MaxRetries   int
	RateLimiters map[string]*rate.Limiter
}

// AdaptiveLimiter wraps a rate.Limiter whose rate grows 20% per success (up to
// 2x the initial rate) and halves on every 429 (down to a quarter of it).
type AdaptiveLimiter struct {
	mu          sync.Mutex
	limiter     *rate.Limiter
	maxRate     rate.Limit
	minRate     rate.Limit
	currentRate rate.Limit
}

// NewAdaptiveLimiter creates an adaptive limiter starting at initialRate.
func NewAdaptiveLimiter(initialRate rate.Limit, burst int) *AdaptiveLimiter {
	return &AdaptiveLimiter{
		limiter:     rate.NewLimiter(initialRate, burst),
		maxRate:     initialRate * 2,
		minRate:     initialRate / 4,
		currentRate: initialRate,
	}
}

// Wait blocks until the limiter allows an event.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

// OnSuccess raises the rate.
func (a *AdaptiveLimiter) OnSuccess() {
	a.scale(1.2)
}

// OnRateLimit lowers the rate after a 429.
func (a *AdaptiveLimiter) OnRateLimit() {
	r := a.scale(0.5)
	zap.L().Warn("fetcher: reducing request rate after 429", zap.Float64("new_rate", float64(r)))
}

// Limit returns the current rate limit.
func (a *AdaptiveLimiter) Limit() rate.Limit {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentRate
}

func (a *AdaptiveLimiter) scale(factor float64) rate.Limit {
	a.mu.Lock()
	defer a.mu.Unlock()
	r := min(max(a.currentRate*rate.Limit(factor), a.minRate), a.maxRate)
	a.currentRate = r
	a.limiter.SetLimit(r)
	return r
}

// HTTPFetcher implements Fetcher using net/http with retry and rate limiting.
type HTTPFetcher struct {
	client   *http.Client
	opts     HTTPOptions
	limiters map[string]*rate.Limiter
	adaptive map[string]*AdaptiveLimiter
}

// Upstream hosts the pipeline talks to.
const (
	HostRAWG   = "api.rawg.io"
	HostSheets = "docs.google.com"
)

// DefaultRateLimiters returns fixed per-host limiters for upstream hosts that
// do not need adaptive tuning.
func DefaultRateLimiters() map[string]*rate.Limiter {
	return map[string]*rate.Limiter{
		HostSheets: rate.NewLimiter(2, 2),
	}
}

// DefaultAdaptiveLimiters returns adaptive limiters for hosts that answer 429.
func DefaultAdaptiveLimiters() map[string]*AdaptiveLimiter {
	return map[string]*AdaptiveLimiter{
		HostRAWG: NewAdaptiveLimiter(4, 4),
	}
}

// NewHTTPFetcher creates a new HTTPFetcher with the given options.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "gamejoin/1.0"
	}
	limiters := DefaultRateLimiters()
	for k, v := range opts.RateLimiters {
		limiters[k] = v
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		opts:     opts,
		limiters: limiters,
		adaptive: DefaultAdaptiveLimiters(),
	}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// wait blocks on the limiter for the URL's host. Unknown hosts share a
// generous default.
func (f *HTTPFetcher) wait(ctx context.Context, rawURL string) (*AdaptiveLimiter, error) {
	host := hostOf(rawURL)
	if a, ok := f.adaptive[host]; ok {
		return a, eris.Wrap(a.Wait(ctx), "rate limiter wait")
	}
	lim, ok := f.limiters[host]
	if !ok {
		lim = rate.NewLimiter(20, 20)
	}
	return nil, eris.Wrap(lim.Wait(ctx), "rate limiter wait")
}

func (f *HTTPFetcher) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	target := req.URL.String()

	var lastErr error
	for attempt := range f.opts.MaxRetries {
		adaptive, err := f.wait(ctx, target)
		if err != nil {
			return nil, err
		}

		resp, err := f.client.Do(req.Clone(ctx))
		switch {
		case err != nil:
			lastErr = err
			zap.L().Warn("fetcher: request failed, retrying",
				zap.String("url", target),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
		case resp.StatusCode == http.StatusTooManyRequests:
			_ = resp.Body.Close()
			lastErr = &StatusError{Code: resp.StatusCode, URL: target}
			if adaptive != nil {
				adaptive.OnRateLimit()
			}
		case resp.StatusCode >= 500:
			_ = resp.Body.Close()
			lastErr = &StatusError{Code: resp.StatusCode, URL: target}
			zap.L().Warn("fetcher: server error, retrying",
				zap.String("url", target),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1),
			)
		default:
			if adaptive != nil {
				adaptive.OnSuccess()
			}
			return resp, nil
		}

		f.backoff(ctx, attempt)
	}

	return nil, eris.Wrap(lastErr, "all retries exhausted")
}

// backoff sleeps 2^attempt seconds (capped at 30s) plus up to 50% jitter.
func (f *HTTPFetcher) backoff(ctx context.Context, attempt int) {
	d := min(time.Duration(float64(time.Second)*math.Pow(2, float64(attempt))), 30*time.Second)
	d += time.Duration(rand.Int64N(int64(d) / 2))

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (f *HTTPFetcher) newRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	return req, nil
}

// Download fetches the URL and returns the response body.
func (f *HTTPFetcher) Download(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := f.newRequest(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	resp, err := f.doWithRetry(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "download")
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, eris.Wrap(&StatusError{Code: resp.StatusCode, URL: rawURL}, "download")
	}

	return resp.Body, nil
}

// DownloadToFile fetches the URL and writes it to the given path.
func (f *HTTPFetcher) DownloadToFile(ctx context.Context, rawURL string, path string) (int64, error) {
	body, err := f.Download(ctx, rawURL)
	if err != nil {
		return 0, err
	}
	defer body.Close() //nolint:errcheck

	return writeFile(path, body)
}

// DownloadIfChanged sends If-None-Match and reports a 304 as unchanged.
func (f *HTTPFetcher) DownloadIfChanged(ctx context.Context, rawURL string, etag string) (io.ReadCloser, string, bool, error) {
	req, err := f.newRequest(ctx, rawURL)
	if err != nil {
		return nil, "", false, err
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := f.doWithRetry(ctx, req)
	if err != nil {
		return nil, "", false, eris.Wrap(err, "download if changed")
	}

	switch resp.StatusCode {
	case http.StatusNotModified:
		_ = resp.Body.Close()
		return nil, etag, false, nil
	case http.StatusOK:
		return resp.Body, resp.Header.Get("ETag"), true, nil
	default:
		_ = resp.Body.Close()
		return nil, "", false, eris.Wrap(&StatusError{Code: resp.StatusCode, URL: rawURL}, "download if changed")
	}
}

func writeFile(path string, r io.Reader) (int64, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, eris.Wrap(err, "create file")
	}
	defer file.Close() //nolint:errcheck

	n, err := io.Copy(file, r)
	if err != nil {
		return n, eris.Wrap(err, "write file")
	}
	return n, nil
}
