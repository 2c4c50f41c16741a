package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
	"github.com/custodia-labs/vizier-cli/internal/core/ports/driven"
	"github.com/custodia-labs/vizier-cli/internal/core/ports/driving"
	"github.com/custodia-labs/vizier-cli/internal/logger"
)

// Ensure EmbedderService implements the interface.
var _ driving.EmbedderService = (*EmbedderService)(nil)

// DefaultEmbedBatchSize is the records per provider call when neither
// the caller nor the settings specify one.
const DefaultEmbedBatchSize = 10

// EmbedderService backfills embeddings for records that lack one.
type EmbedderService struct {
	store     driven.MetadataStore
	embedding driven.EmbeddingService
	settings  driving.SettingsService
}

// NewEmbedderService creates a new embedder service.
func NewEmbedderService(
	store driven.MetadataStore,
	embedding driven.EmbeddingService,
	settings driving.SettingsService,
) *EmbedderService {
	return &EmbedderService{
		store:     store,
		embedding: embedding,
		settings:  settings,
	}
}

// Drain embeds pending records in batches. A batch failure is logged,
// counted and skipped; later batches continue. Re-running converges
// because processed rows are no longer pending.
func (s *EmbedderService) Drain(ctx context.Context, limit, batchSize int) (domain.DrainStats, error) {
	stats := domain.DrainStats{}

	if s.embedding == nil {
		return stats, fmt.Errorf("%w: configure a provider with 'vizier settings wizard'",
			domain.ErrEmbeddingUnavailable)
	}

	if batchSize <= 0 {
		batchSize = s.defaultBatchSize()
	}

	pending, err := s.store.UnembeddedRecords(ctx, limit)
	if err != nil {
		return stats, fmt.Errorf("list pending records: %w", err)
	}
	stats.TotalRecords = len(pending)

	if len(pending) == 0 {
		logger.Info("No records pending embedding")
		return stats, nil
	}

	logger.Section("Embedding Backfill")
	logger.Info("Embedding %d records with %s (batch size %d)",
		len(pending), s.embedding.ModelName(), batchSize)

	for start := 0; start < len(pending); start += batchSize {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		end := start + batchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]

		processed, err := s.embedBatch(ctx, batch)
		stats.ProcessedRecords += processed
		if err != nil {
			stats.FailedBatches++
			logger.Warn("Batch %d-%d failed, skipping: %v", start, end-1, err)
			continue
		}
		logger.Debug("Embedded records %d-%d", start, end-1)
	}

	logger.Info("Drain complete: %d/%d embedded, %d failed batches",
		stats.ProcessedRecords, stats.TotalRecords, stats.FailedBatches)
	return stats, nil
}

// embedBatch embeds one batch and writes the vectors back. Returns how
// many records were written before any failure.
func (s *EmbedderService) embedBatch(ctx context.Context, batch []domain.CanonicalRecord) (int, error) {
	texts := make([]string, len(batch))
	for i, rec := range batch {
		texts[i] = rec.TextBlob
	}

	vectors, err := s.embedding.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed batch: %w", err)
	}
	if len(vectors) != len(batch) {
		return 0, fmt.Errorf("provider returned %d vectors for %d texts", len(vectors), len(batch))
	}

	written := 0
	for i, vec := range vectors {
		if len(vec) != domain.EmbeddingDimensions {
			return written, fmt.Errorf("vector %d has %d dimensions, expected %d",
				i, len(vec), domain.EmbeddingDimensions)
		}
		vec = domain.NormalizeVector(vec)
		if err := s.store.UpdateEmbedding(ctx, batch[i].Key(), vec); err != nil {
			return written, fmt.Errorf("store embedding for %s: %w", batch[i].ObjectID, err)
		}
		written++
	}
	return written, nil
}

func (s *EmbedderService) defaultBatchSize() int {
	if s.settings != nil {
		if cfg, err := s.settings.Get(); err == nil && cfg.Index.EmbedBatchSize > 0 {
			return cfg.Index.EmbedBatchSize
		}
	}
	return DefaultEmbedBatchSize
}
