package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
)

func record(siteID, objectID, title string) domain.CanonicalRecord {
	return domain.CanonicalRecord{
		SiteID:     siteID,
		ObjectType: domain.ObjectTypeWorkbook,
		ObjectID:   objectID,
		Title:      title,
		TextBlob:   "blob for " + title,
	}
}

func TestMetadataStore_Upsert(t *testing.T) {
	ctx := context.Background()

	t.Run("last write wins", func(t *testing.T) {
		store := NewMetadataStore()

		_, err := store.UpsertBatch(ctx, []domain.CanonicalRecord{
			record("S1", "wb-1", "Original"),
		}, 10)
		require.NoError(t, err)

		_, err = store.UpsertBatch(ctx, []domain.CanonicalRecord{
			record("S1", "wb-1", "Changed"),
		}, 10)
		require.NoError(t, err)

		count, err := store.CountRecords(ctx, "S1", "")
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		lookup := record("S1", "wb-1", "")
		stored, err := store.GetRecord(ctx, lookup.Key())
		require.NoError(t, err)
		assert.Equal(t, "Changed", stored.Title)
	})

	t.Run("changed blob clears embedding, unchanged keeps it", func(t *testing.T) {
		store := NewMetadataStore()

		rec := record("S1", "wb-1", "Sales")
		_, err := store.UpsertBatch(ctx, []domain.CanonicalRecord{rec}, 10)
		require.NoError(t, err)
		require.NoError(t, store.UpdateEmbedding(ctx, rec.Key(), []float32{1, 0}))

		rec.Owner = "new-owner"
		_, err = store.UpsertBatch(ctx, []domain.CanonicalRecord{rec}, 10)
		require.NoError(t, err)
		stored, err := store.GetRecord(ctx, rec.Key())
		require.NoError(t, err)
		assert.True(t, stored.HasEmbedding())

		rec.TextBlob = "something else"
		_, err = store.UpsertBatch(ctx, []domain.CanonicalRecord{rec}, 10)
		require.NoError(t, err)
		stored, err = store.GetRecord(ctx, rec.Key())
		require.NoError(t, err)
		assert.False(t, stored.HasEmbedding())
	})
}

func TestMetadataStore_EmbeddingSurfaces(t *testing.T) {
	ctx := context.Background()
	store := NewMetadataStore()

	records := []domain.CanonicalRecord{
		record("S1", "wb-1", "A"),
		record("S1", "wb-2", "B"),
	}
	_, err := store.UpsertBatch(ctx, records, 10)
	require.NoError(t, err)
	require.NoError(t, store.UpdateEmbedding(ctx, records[0].Key(), []float32{1}))

	stats, err := store.EmbeddingStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalRecords)
	assert.Equal(t, 1, stats.WithEmbeddings)

	pending, err := store.UnembeddedRecords(ctx, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "wb-2", pending[0].ObjectID)

	embedded, err := store.EmbeddedRecords(ctx)
	require.NoError(t, err)
	require.Len(t, embedded, 1)
	assert.Equal(t, "wb-1", embedded[0].ObjectID)
}

func TestMetadataStore_LexicalCandidates(t *testing.T) {
	ctx := context.Background()
	store := NewMetadataStore()

	// Under a tight limit the whole-phrase match must survive even with
	// the lowest search priority.
	weak := record("S1", "wb-1", "Stock")
	weak.TextBlob = "pharmacy stock levels"
	weak.SearchPriority = 5
	strong := record("S1", "v-1", "Reports")
	strong.ObjectType = domain.ObjectTypeView
	strong.TextBlob = "weekly pharmacy reports by clinic"
	strong.SearchPriority = 1
	miss := record("S1", "wb-2", "Budget")
	miss.TextBlob = "budget allocations"
	_, err := store.UpsertBatch(ctx, []domain.CanonicalRecord{weak, strong, miss}, 10)
	require.NoError(t, err)

	hits, err := store.LexicalCandidates(ctx, "pharmacy reports", 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "v-1", hits[0].ObjectID)
}

func TestMetadataStore_Suggestions(t *testing.T) {
	ctx := context.Background()
	store := NewMetadataStore()

	view := record("S1", "v-1", "Sales Dashboard")
	view.ObjectType = domain.ObjectTypeView
	view.SearchPriority = 3
	wb := record("S1", "wb-1", "Sales Overview")
	wb.SearchPriority = 2
	_, err := store.UpsertBatch(ctx, []domain.CanonicalRecord{view, wb, record("S1", "wb-2", "Budget")}, 10)
	require.NoError(t, err)

	titles, err := store.SuggestTitles(ctx, "SALES", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sales Dashboard", "Sales Overview"}, titles)
}

func TestMetadataStore_News(t *testing.T) {
	ctx := context.Background()
	store := NewMetadataStore()

	a := &domain.NewsArticle{Title: "First", Active: true,
		PublishedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	b := &domain.NewsArticle{Title: "Second", Active: true,
		PublishedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, store.InsertNewsArticle(ctx, a))
	require.NoError(t, store.InsertNewsArticle(ctx, b))

	articles, err := store.LatestNewsArticles(ctx, 10)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "Second", articles[0].Title)
}
