package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vizier-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/vizier-cli/internal/core/domain"
)

// constEmbedder returns the same un-normalized vector for every text.
func constEmbedder() *mockEmbeddingService {
	return &mockEmbeddingService{
		embedFn: func(string) []float32 {
			vec := make([]float32, domain.EmbeddingDimensions)
			vec[0] = 3
			vec[1] = 4
			return vec
		},
	}
}

func seedUnembedded(t *testing.T, store *memory.MetadataStore, n int) []domain.CanonicalRecord {
	t.Helper()
	records := make([]domain.CanonicalRecord, n)
	for i := range records {
		records[i] = searchRecord(
			fmt.Sprintf("obj-%d", i),
			fmt.Sprintf("Record %d", i),
			fmt.Sprintf("text blob %d", i),
			domain.ObjectTypeWorkbook,
		)
	}
	_, err := store.UpsertBatch(context.Background(), records, 50)
	require.NoError(t, err)
	return records
}

func TestEmbedderService_Drain_NoProvider(t *testing.T) {
	store := memory.NewMetadataStore()
	svc := NewEmbedderService(store, nil, nil)

	_, err := svc.Drain(context.Background(), 0, 0)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestEmbedderService_Drain_NothingPending(t *testing.T) {
	store := memory.NewMetadataStore()
	svc := NewEmbedderService(store, constEmbedder(), nil)

	stats, err := svc.Drain(context.Background(), 0, 0)

	require.NoError(t, err)
	assert.Zero(t, stats.TotalRecords)
	assert.Zero(t, stats.ProcessedRecords)
	assert.Zero(t, stats.FailedBatches)
}

func TestEmbedderService_Drain_EmbedsAllInBatches(t *testing.T) {
	store := memory.NewMetadataStore()
	embed := constEmbedder()
	svc := NewEmbedderService(store, embed, nil)

	records := seedUnembedded(t, store, 5)

	stats, err := svc.Drain(context.Background(), 0, 2)

	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalRecords)
	assert.Equal(t, 5, stats.ProcessedRecords)
	assert.Zero(t, stats.FailedBatches)
	assert.Equal(t, 3, embed.batchCalls)

	for _, rec := range records {
		got, err := store.GetRecord(context.Background(), rec.Key())
		require.NoError(t, err)
		assert.True(t, got.HasEmbedding())
	}
}

func TestEmbedderService_Drain_NormalizesVectors(t *testing.T) {
	store := memory.NewMetadataStore()
	svc := NewEmbedderService(store, constEmbedder(), nil)

	records := seedUnembedded(t, store, 1)

	_, err := svc.Drain(context.Background(), 0, 10)
	require.NoError(t, err)

	got, err := store.GetRecord(context.Background(), records[0].Key())
	require.NoError(t, err)

	var norm float64
	for _, x := range got.Embedding {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)
}

func TestEmbedderService_Drain_FailedBatchIsSkipped(t *testing.T) {
	store := memory.NewMetadataStore()
	embed := constEmbedder()
	embed.batchErr = errors.New("provider hiccup")
	embed.batchErrOn = 2
	svc := NewEmbedderService(store, embed, nil)

	seedUnembedded(t, store, 6)

	stats, err := svc.Drain(context.Background(), 0, 2)

	require.NoError(t, err)
	assert.Equal(t, 6, stats.TotalRecords)
	assert.Equal(t, 4, stats.ProcessedRecords)
	assert.Equal(t, 1, stats.FailedBatches)

	// The failed batch's rows are still pending; a second drain
	// converges.
	embed.batchErr = nil
	stats, err = svc.Drain(context.Background(), 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalRecords)
	assert.Equal(t, 2, stats.ProcessedRecords)

	pending, err := store.UnembeddedRecords(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestEmbedderService_Drain_LimitCapsSelection(t *testing.T) {
	store := memory.NewMetadataStore()
	svc := NewEmbedderService(store, constEmbedder(), nil)

	seedUnembedded(t, store, 5)

	stats, err := svc.Drain(context.Background(), 3, 10)

	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalRecords)
	assert.Equal(t, 3, stats.ProcessedRecords)

	pending, err := store.UnembeddedRecords(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestEmbedderService_Drain_WrongDimensionsFailsBatch(t *testing.T) {
	store := memory.NewMetadataStore()
	embed := &mockEmbeddingService{
		embedFn: func(string) []float32 { return []float32{1, 2, 3} },
	}
	svc := NewEmbedderService(store, embed, nil)

	seedUnembedded(t, store, 2)

	stats, err := svc.Drain(context.Background(), 0, 10)

	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalRecords)
	assert.Zero(t, stats.ProcessedRecords)
	assert.Equal(t, 1, stats.FailedBatches)
}

func TestEmbedderService_Drain_BatchSizeFromSettings(t *testing.T) {
	store := memory.NewMetadataStore()
	configStore := memory.NewConfigStore()
	settings := NewSettingsService(configStore, nil)
	app := domain.DefaultAppSettings()
	app.Index.EmbedBatchSize = 2
	require.NoError(t, settings.Save(&app))

	embed := constEmbedder()
	svc := NewEmbedderService(store, embed, settings)

	seedUnembedded(t, store, 4)

	stats, err := svc.Drain(context.Background(), 0, 0)

	require.NoError(t, err)
	assert.Equal(t, 4, stats.ProcessedRecords)
	assert.Equal(t, 2, embed.batchCalls)
}
