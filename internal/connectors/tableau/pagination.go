package tableau

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultPageSize is the default listing page size.
	DefaultPageSize = 100

	// DefaultPageDelay is the pause between consecutive page requests.
	DefaultPageDelay = 100 * time.Millisecond
)

// PageFetch returns one page of items, pages numbered from 1.
type PageFetch[T any] func(ctx context.Context, page, pageSize int) ([]T, error)

// Collector drives a paged listing until exhaustion or a page cap.
//
// Collection stops when a page returns fewer than PageSize items. When
// the total happens to be an exact multiple of PageSize this means one
// extra request that returns an empty page; an empty collection issues
// exactly one request. Fetch errors abort and propagate; retries are
// the transport's job. Collect always restarts from page 1, so a
// failed run can simply be rerun.
type Collector[T any] struct {
	// PageSize is the number of items per page request.
	PageSize int

	// MaxPages caps the number of page requests. Zero means unlimited.
	MaxPages int

	// pacer spaces consecutive page requests. Its single burst token
	// means the first page is never delayed.
	pacer *rate.Limiter
}

// NewCollector creates a Collector with the given page size and cap.
func NewCollector[T any](pageSize, maxPages int) *Collector[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Collector[T]{
		PageSize: pageSize,
		MaxPages: maxPages,
		pacer:    rate.NewLimiter(rate.Every(DefaultPageDelay), 1),
	}
}

// Collect accumulates every page of items.
func (c *Collector[T]) Collect(ctx context.Context, fetch PageFetch[T]) ([]T, error) {
	var items []T

	for page := 1; c.MaxPages == 0 || page <= c.MaxPages; page++ {
		if err := c.pacer.Wait(ctx); err != nil {
			return items, err
		}

		pageItems, err := fetch(ctx, page, c.PageSize)
		if err != nil {
			return items, fmt.Errorf("page %d: %w", page, err)
		}

		items = append(items, pageItems...)
		if len(pageItems) < c.PageSize {
			break
		}
	}

	return items, nil
}
