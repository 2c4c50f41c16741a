package tableau

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedFetch serves total items in pageSize slices and counts requests.
func pagedFetch(total int) (PageFetch[int], *int) {
	requests := new(int)
	fetch := func(_ context.Context, page, pageSize int) ([]int, error) {
		*requests++
		start := (page - 1) * pageSize
		if start >= total {
			return nil, nil
		}
		end := start + pageSize
		if end > total {
			end = total
		}
		items := make([]int, 0, end-start)
		for i := start; i < end; i++ {
			items = append(items, i)
		}
		return items, nil
	}
	return fetch, requests
}

func TestCollector_Collect(t *testing.T) {
	tests := []struct {
		name         string
		total        int
		pageSize     int
		maxPages     int
		wantItems    int
		wantRequests int
	}{
		{name: "empty collection issues one request", total: 0, pageSize: 10, wantItems: 0, wantRequests: 1},
		{name: "single short page", total: 7, pageSize: 10, wantItems: 7, wantRequests: 1},
		{name: "two pages", total: 15, pageSize: 10, wantItems: 15, wantRequests: 2},
		// Exact multiples cost one extra request that returns an empty
		// page; the driver cannot know the total up front.
		{name: "exact multiple issues one extra request", total: 10, pageSize: 10, wantItems: 10, wantRequests: 2},
		{name: "double exact multiple", total: 20, pageSize: 10, wantItems: 20, wantRequests: 3},
		{name: "remainder after full pages", total: 23, pageSize: 10, wantItems: 23, wantRequests: 3},
		{name: "max pages caps collection", total: 100, pageSize: 10, maxPages: 3, wantItems: 30, wantRequests: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetch, requests := pagedFetch(tt.total)
			collector := NewCollector[int](tt.pageSize, tt.maxPages)

			items, err := collector.Collect(context.Background(), fetch)

			require.NoError(t, err)
			assert.Len(t, items, tt.wantItems)
			assert.Equal(t, tt.wantRequests, *requests)
		})
	}

	t.Run("items arrive in order", func(t *testing.T) {
		fetch, _ := pagedFetch(25)
		collector := NewCollector[int](10, 0)

		items, err := collector.Collect(context.Background(), fetch)

		require.NoError(t, err)
		for i, item := range items {
			assert.Equal(t, i, item)
		}
	})

	t.Run("fetch error aborts and propagates", func(t *testing.T) {
		boom := errors.New("boom")
		calls := 0
		fetch := func(_ context.Context, page, pageSize int) ([]int, error) {
			calls++
			if page == 2 {
				return nil, boom
			}
			return make([]int, pageSize), nil
		}
		collector := NewCollector[int](10, 0)

		items, err := collector.Collect(context.Background(), fetch)

		require.ErrorIs(t, err, boom)
		assert.Len(t, items, 10)
		assert.Equal(t, 2, calls)
	})

	t.Run("defaults page size", func(t *testing.T) {
		collector := NewCollector[int](0, 0)
		assert.Equal(t, DefaultPageSize, collector.PageSize)
	})

	t.Run("cancelled context stops collection", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		fetch := func(context.Context, int, int) ([]int, error) {
			cancel()
			return make([]int, 10), nil
		}
		collector := NewCollector[int](10, 0)

		_, err := collector.Collect(ctx, fetch)

		assert.ErrorIs(t, err, context.Canceled)
	})
}
