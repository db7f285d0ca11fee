package scraper

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/pfrederiksen/du-scrape/internal/config"
	"github.com/pfrederiksen/du-scrape/internal/logger"
)

var errConnRefused = errors.New("connection refused")

// fakeFetcher serves fixed pages and fails every URL it does not know
type fakeFetcher struct {
	mu          sync.Mutex
	pages       map[string]string
	requests    []string
	inFlight    int
	maxInFlight int
	delay       time.Duration
}

func newFakeFetcher(pages map[string]string) *fakeFetcher {
	return &fakeFetcher{pages: pages}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, url)
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	body, ok := f.pages[url]
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	if !ok {
		return "", &FetchError{URL: url, Err: errConnRefused}
	}
	return body, nil
}

func (f *fakeFetcher) requested() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func quietLogger() *logger.Logger {
	return logger.New(logger.LevelError, io.Discard)
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Bulletin.URL = "https://bulletin.test/cs"
	cfg.Calendar.BaseURL = "https://cal.test/calendar"
	cfg.Athletics.URL = "https://athletics.test/"
	return cfg
}
