package scraper

import (
	"context"
	"sync"
)

// parMap applies f to each item with at most limit calls in flight,
// preserving order. A limit of zero or less runs every item at once.
// Every call runs to completion; one result never cancels its siblings.
func parMap[T, U any](ctx context.Context, items []T, limit int, f func(context.Context, T) U) []U {
	out := make([]U, len(items))
	if len(items) == 0 {
		return out
	}

	if limit <= 0 || limit > len(items) {
		limit = len(items)
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, limit)
	for i, item := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, item T) {
			defer func() { <-sem; wg.Done() }()
			out[i] = f(ctx, item)
		}(i, item)
	}
	wg.Wait()

	return out
}
