package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pfrederiksen/du-scrape/internal/config"
	"github.com/pfrederiksen/du-scrape/internal/logger"
)

// Fetcher retrieves the body of a page as text
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetchError reports a page that could not be retrieved
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// BrowserHeaders returns the desktop browser headers sent to the DU sites
func BrowserHeaders() http.Header {
	h := http.Header{}
	h.Set("User-Agent", config.BrowserUserAgent)
	h.Set("Accept-Language", config.AcceptLanguage)
	return h
}

// HTTPFetcher fetches pages over HTTP with a fixed header set. It never
// retries.
type HTTPFetcher struct {
	client  *http.Client
	header  http.Header
	log     *logger.Logger
	metrics *logger.Metrics
}

// NewHTTPFetcher creates a fetcher sending header with every request.
// A zero timeout leaves the client without one. A nil header sends Go's
// defaults.
func NewHTTPFetcher(timeout time.Duration, header http.Header, log *logger.Logger) *HTTPFetcher {
	if log == nil {
		log = logger.Default()
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		header:  header,
		log:     log,
		metrics: logger.DefaultMetrics(),
	}
}

// Fetch performs a GET and returns the body. Transport errors and non-2xx
// responses are logged and returned as a *FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.log.Info("fetching", logger.Fields{"url": url})

	start := time.Now()
	body, err := f.get(ctx, url)
	f.metrics.RecordTiming("fetch", time.Since(start))

	if err != nil {
		f.metrics.IncrCounter("fetch.failed")
		f.log.Error("unable to fetch url", logger.Fields{"url": url}, err)
		return "", &FetchError{URL: url, Err: err}
	}

	f.metrics.IncrCounter("fetch.ok")
	return body, nil
}

func (f *HTTPFetcher) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	for key, values := range f.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}

	return string(data), nil
}
