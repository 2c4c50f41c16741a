package driving

import (
	"context"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
)

// EmbedderService backfills embeddings for records that lack one.
type EmbedderService interface {
	// Drain embeds pending records, most recently updated first, in
	// batches of batchSize. limit caps how many records this pass
	// selects (zero means all); batchSize zero defers to settings.
	// Failed batches are logged, counted and skipped; re-running
	// converges because processed rows are no longer pending.
	Drain(ctx context.Context, limit, batchSize int) (domain.DrainStats, error)
}
