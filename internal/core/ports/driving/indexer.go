package driving

import (
	"context"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
)

// IndexerService runs the crawl-normalize-gate-upsert pipeline.
type IndexerService interface {
	// IndexSite indexes the configured site end to end: sign in, fetch
	// comprehensive metadata, normalize, run the quality gate, upsert.
	// The returned run summary is always non-nil, also on failure, so
	// callers can render what happened. The error reports the failure
	// that aborted the run, nil when it completed.
	IndexSite(ctx context.Context, opts domain.IndexOptions) (*domain.IndexingRun, error)
}
