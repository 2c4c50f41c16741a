package sqlite

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "vizier-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

func testRecord(siteID, objectID, title string) domain.CanonicalRecord {
	return domain.CanonicalRecord{
		SiteID:      siteID,
		ObjectType:  domain.ObjectTypeWorkbook,
		ObjectID:    objectID,
		Title:       title,
		Description: "description of " + title,
		Tags:        []string{"finance", "weekly"},
		ProjectName: "Finance",
		Owner:       "Dana",
		SourceURL:   "workbooks/" + objectID,
		TextBlob:    "blob for " + title,
	}
}

func TestStore_Migrations(t *testing.T) {
	t.Run("reopening an existing database is idempotent", func(t *testing.T) {
		tempDir, err := os.MkdirTemp("", "vizier-test-*")
		require.NoError(t, err)
		defer func() { assert.NoError(t, os.RemoveAll(tempDir)) }()

		store, err := NewStore(tempDir)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		store, err = NewStore(tempDir)
		require.NoError(t, err)
		assert.NoError(t, store.Close())
	})
}

func TestStore_UpsertBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts new records", func(t *testing.T) {
		store, cleanup := setupTestStore(t)
		defer cleanup()

		records := []domain.CanonicalRecord{
			testRecord("S1", "wb-1", "Sales"),
			testRecord("S1", "wb-2", "Finance"),
		}

		count, err := store.UpsertBatch(ctx, records, 10)

		require.NoError(t, err)
		assert.Equal(t, 2, count)

		total, err := store.CountRecords(ctx, "S1", "")
		require.NoError(t, err)
		assert.Equal(t, 2, total)
	})

	t.Run("upsert is idempotent and last write wins", func(t *testing.T) {
		store, cleanup := setupTestStore(t)
		defer cleanup()

		rec := testRecord("S1", "wb-1", "Original Title")
		_, err := store.UpsertBatch(ctx, []domain.CanonicalRecord{rec}, 10)
		require.NoError(t, err)

		rec.Title = "Changed Title"
		_, err = store.UpsertBatch(ctx, []domain.CanonicalRecord{rec}, 10)
		require.NoError(t, err)

		total, err := store.CountRecords(ctx, "S1", "")
		require.NoError(t, err)
		assert.Equal(t, 1, total)

		stored, err := store.GetRecord(ctx, rec.Key())
		require.NoError(t, err)
		assert.Equal(t, "Changed Title", stored.Title)
	})

	t.Run("three payloads with one duplicate end as two rows", func(t *testing.T) {
		store, cleanup := setupTestStore(t)
		defer cleanup()

		first := testRecord("S1", "wb-1", "Weekly Sales")
		second := testRecord("S1", "wb-2", "Inventory")
		duplicate := testRecord("S1", "wb-1", "Weekly Sales v2")

		count, err := store.UpsertBatch(ctx,
			[]domain.CanonicalRecord{first, second, duplicate}, 10)

		require.NoError(t, err)
		assert.Equal(t, 3, count)

		total, err := store.CountRecords(ctx, "S1", "")
		require.NoError(t, err)
		assert.Equal(t, 2, total)

		stored, err := store.GetRecord(ctx, first.Key())
		require.NoError(t, err)
		assert.Equal(t, "Weekly Sales v2", stored.Title)
	})

	t.Run("same id under different sites or types stays distinct", func(t *testing.T) {
		store, cleanup := setupTestStore(t)
		defer cleanup()

		a := testRecord("S1", "obj-1", "A")
		b := testRecord("S2", "obj-1", "B")
		c := testRecord("S1", "obj-1", "C")
		c.ObjectType = domain.ObjectTypeView

		_, err := store.UpsertBatch(ctx, []domain.CanonicalRecord{a, b, c}, 10)
		require.NoError(t, err)

		total, err := store.CountRecords(ctx, "", "")
		require.NoError(t, err)
		assert.Equal(t, 3, total)
	})

	t.Run("splits into multiple batches", func(t *testing.T) {
		store, cleanup := setupTestStore(t)
		defer cleanup()

		records := make([]domain.CanonicalRecord, 7)
		for i := range records {
			records[i] = testRecord("S1", string(rune('a'+i)), "Title")
		}

		count, err := store.UpsertBatch(ctx, records, 3)

		require.NoError(t, err)
		assert.Equal(t, 7, count)
	})

	t.Run("round-trips slices and field details", func(t *testing.T) {
		store, cleanup := setupTestStore(t)
		defer cleanup()

		rec := testRecord("S1", "ds-1", "Warehouse")
		rec.ObjectType = domain.ObjectTypeDatasource
		rec.Fields = []string{"revenue", "region"}
		rec.FieldDetails = []domain.FieldDetail{
			{Name: "revenue", DataType: "REAL", Nullable: true},
		}
		rec.Datasources = []domain.DatasourceRef{
			{Name: "Warehouse", Fields: []string{"revenue"}},
		}

		_, err := store.UpsertBatch(ctx, []domain.CanonicalRecord{rec}, 10)
		require.NoError(t, err)

		stored, err := store.GetRecord(ctx, rec.Key())
		require.NoError(t, err)
		assert.Equal(t, rec.Tags, stored.Tags)
		assert.Equal(t, rec.Fields, stored.Fields)
		assert.Equal(t, rec.FieldDetails, stored.FieldDetails)
		assert.Equal(t, rec.Datasources, stored.Datasources)
	})
}

func TestStore_EmbeddingInvalidation(t *testing.T) {
	ctx := context.Background()

	t.Run("changed text blob clears the embedding", func(t *testing.T) {
		store, cleanup := setupTestStore(t)
		defer cleanup()

		rec := testRecord("S1", "wb-1", "Sales")
		_, err := store.UpsertBatch(ctx, []domain.CanonicalRecord{rec}, 10)
		require.NoError(t, err)
		require.NoError(t, store.UpdateEmbedding(ctx, rec.Key(), []float32{0.1, 0.2, 0.3}))

		rec.TextBlob = "a different blob"
		_, err = store.UpsertBatch(ctx, []domain.CanonicalRecord{rec}, 10)
		require.NoError(t, err)

		stored, err := store.GetRecord(ctx, rec.Key())
		require.NoError(t, err)
		assert.False(t, stored.HasEmbedding())
	})

	t.Run("unchanged text blob preserves the embedding", func(t *testing.T) {
		store, cleanup := setupTestStore(t)
		defer cleanup()

		rec := testRecord("S1", "wb-1", "Sales")
		_, err := store.UpsertBatch(ctx, []domain.CanonicalRecord{rec}, 10)
		require.NoError(t, err)
		require.NoError(t, store.UpdateEmbedding(ctx, rec.Key(), []float32{0.1, 0.2, 0.3}))

		rec.Owner = "Someone Else" // metadata change, blob unchanged
		_, err = store.UpsertBatch(ctx, []domain.CanonicalRecord{rec}, 10)
		require.NoError(t, err)

		stored, err := store.GetRecord(ctx, rec.Key())
		require.NoError(t, err)
		require.True(t, stored.HasEmbedding())
		assert.InDelta(t, 0.2, stored.Embedding[1], 1e-6)
		assert.Equal(t, "Someone Else", stored.Owner)
	})
}

func TestStore_EmbeddingWorkflow(t *testing.T) {
	ctx := context.Background()

	t.Run("stats and unembedded selection", func(t *testing.T) {
		store, cleanup := setupTestStore(t)
		defer cleanup()

		records := []domain.CanonicalRecord{
			testRecord("S1", "wb-1", "A"),
			testRecord("S1", "wb-2", "B"),
			testRecord("S1", "wb-3", "C"),
		}
		_, err := store.UpsertBatch(ctx, records, 10)
		require.NoError(t, err)
		require.NoError(t, store.UpdateEmbedding(ctx, records[0].Key(), []float32{1, 0}))

		stats, err := store.EmbeddingStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, stats.TotalRecords)
		assert.Equal(t, 1, stats.WithEmbeddings)
		assert.Equal(t, 2, stats.WithoutEmbeddings)
		assert.InDelta(t, 33.3, stats.Percentage, 0.1)

		pending, err := store.UnembeddedRecords(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, pending, 2)

		limited, err := store.UnembeddedRecords(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})

	t.Run("update embedding for missing record", func(t *testing.T) {
		store, cleanup := setupTestStore(t)
		defer cleanup()

		err := store.UpdateEmbedding(ctx,
			domain.RecordKey{SiteID: "S1", ObjectType: domain.ObjectTypeView, ObjectID: "nope"},
			[]float32{1})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("embedded records round-trip vectors", func(t *testing.T) {
		store, cleanup := setupTestStore(t)
		defer cleanup()

		rec := testRecord("S1", "wb-1", "A")
		_, err := store.UpsertBatch(ctx, []domain.CanonicalRecord{rec}, 10)
		require.NoError(t, err)
		vec := []float32{0.5, -0.25, 0.125}
		require.NoError(t, store.UpdateEmbedding(ctx, rec.Key(), vec))

		embedded, err := store.EmbeddedRecords(ctx)
		require.NoError(t, err)
		require.Len(t, embedded, 1)
		assert.Equal(t, vec, embedded[0].Embedding)
	})
}

func TestStore_Reads(t *testing.T) {
	ctx := context.Background()

	t.Run("get missing record", func(t *testing.T) {
		store, cleanup := setupTestStore(t)
		defer cleanup()

		_, err := store.GetRecord(ctx,
			domain.RecordKey{SiteID: "S1", ObjectType: domain.ObjectTypeWorkbook, ObjectID: "nope"})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("find by object id alone", func(t *testing.T) {
		store, cleanup := setupTestStore(t)
		defer cleanup()

		rec := testRecord("S1", "wb-1", "Sales")
		_, err := store.UpsertBatch(ctx, []domain.CanonicalRecord{rec}, 10)
		require.NoError(t, err)

		found, err := store.FindByObjectID(ctx, "wb-1")
		require.NoError(t, err)
		assert.Equal(t, "Sales", found.Title)

		_, err = store.FindByObjectID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("count with filters", func(t *testing.T) {
		store, cleanup := setupTestStore(t)
		defer cleanup()

		view := testRecord("S1", "v-1", "Overview")
		view.ObjectType = domain.ObjectTypeView
		records := []domain.CanonicalRecord{
			testRecord("S1", "wb-1", "A"),
			testRecord("S2", "wb-2", "B"),
			view,
		}
		_, err := store.UpsertBatch(ctx, records, 10)
		require.NoError(t, err)

		all, err := store.CountRecords(ctx, "", "")
		require.NoError(t, err)
		assert.Equal(t, 3, all)

		s1, err := store.CountRecords(ctx, "S1", "")
		require.NoError(t, err)
		assert.Equal(t, 2, s1)

		views, err := store.CountRecords(ctx, "S1", domain.ObjectTypeView)
		require.NoError(t, err)
		assert.Equal(t, 1, views)
	})

	t.Run("delete records is site scoped", func(t *testing.T) {
		store, cleanup := setupTestStore(t)
		defer cleanup()

		view := testRecord("S1", "v-1", "Overview")
		view.ObjectType = domain.ObjectTypeView
		_, err := store.UpsertBatch(ctx, []domain.CanonicalRecord{
			testRecord("S1", "wb-1", "A"),
			view,
			testRecord("S2", "wb-2", "B"),
		}, 10)
		require.NoError(t, err)

		deleted, err := store.DeleteRecords(ctx, "S1", domain.ObjectTypeView)
		require.NoError(t, err)
		assert.EqualValues(t, 1, deleted)

		deleted, err = store.DeleteRecords(ctx, "S1", "")
		require.NoError(t, err)
		assert.EqualValues(t, 1, deleted)

		remaining, err := store.CountRecords(ctx, "", "")
		require.NoError(t, err)
		assert.Equal(t, 1, remaining)
	})
}

func TestStore_SearchSurfaces(t *testing.T) {
	ctx := context.Background()

	t.Run("lexical candidates match phrase and terms", func(t *testing.T) {
		store, cleanup := setupTestStore(t)
		defer cleanup()

		target := testRecord("S1", "v-1", "Weekly Services")
		target.TextBlob = "13.05 weekly services report pharmacy reports clinical"
		other := testRecord("S1", "wb-2", "Budget")
		other.TextBlob = "14.20 budget allocations by department"
		_, err := store.UpsertBatch(ctx, []domain.CanonicalRecord{target, other}, 10)
		require.NoError(t, err)

		hits, err := store.LexicalCandidates(ctx, "13.05", 10)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "v-1", hits[0].ObjectID)
	})

	t.Run("lexical candidates keep strongest match under tight limit", func(t *testing.T) {
		store, cleanup := setupTestStore(t)
		defer cleanup()

		// The view carries the whole phrase; the workbooks only hit one
		// term each. A limit of 1 must surface the view even though the
		// workbooks outrank it on search priority.
		weakA := testRecord("S1", "wb-1", "Pharmacy One")
		weakA.TextBlob = "pharmacy stock levels"
		weakA.SearchPriority = domain.ObjectTypeWorkbook.SearchPriority()
		weakB := testRecord("S1", "wb-2", "Pharmacy Two")
		weakB.TextBlob = "pharmacy orders pending"
		weakB.SearchPriority = domain.ObjectTypeWorkbook.SearchPriority()
		strong := testRecord("S1", "v-1", "Pharmacy Reports")
		strong.ObjectType = domain.ObjectTypeView
		strong.TextBlob = "weekly pharmacy reports by clinic"
		strong.SearchPriority = domain.ObjectTypeView.SearchPriority()
		_, err := store.UpsertBatch(ctx, []domain.CanonicalRecord{weakA, weakB, strong}, 10)
		require.NoError(t, err)

		hits, err := store.LexicalCandidates(ctx, "pharmacy reports", 1)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "v-1", hits[0].ObjectID)
	})

	t.Run("suggestions order by priority then title", func(t *testing.T) {
		store, cleanup := setupTestStore(t)
		defer cleanup()

		wb := testRecord("S1", "wb-1", "Sales Overview")
		view := testRecord("S1", "v-1", "Sales Dashboard")
		view.ObjectType = domain.ObjectTypeView
		view.SearchPriority = domain.ObjectTypeView.SearchPriority()
		wb.SearchPriority = domain.ObjectTypeWorkbook.SearchPriority()
		other := testRecord("S1", "wb-2", "Budget")
		_, err := store.UpsertBatch(ctx, []domain.CanonicalRecord{wb, view, other}, 10)
		require.NoError(t, err)

		titles, err := store.SuggestTitles(ctx, "sales", 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"Sales Dashboard", "Sales Overview"}, titles)
	})

	t.Run("empty prefix yields nothing", func(t *testing.T) {
		store, cleanup := setupTestStore(t)
		defer cleanup()

		titles, err := store.SuggestTitles(ctx, "  ", 10)
		require.NoError(t, err)
		assert.Empty(t, titles)
	})

	t.Run("search stats", func(t *testing.T) {
		store, cleanup := setupTestStore(t)
		defer cleanup()

		view := testRecord("S1", "v-1", "Overview")
		view.ObjectType = domain.ObjectTypeView
		view.ProjectName = "Operations"
		_, err := store.UpsertBatch(ctx, []domain.CanonicalRecord{
			testRecord("S1", "wb-1", "A"),
			view,
		}, 10)
		require.NoError(t, err)
		require.NoError(t, store.UpdateEmbedding(ctx, view.Key(), []float32{1, 0}))

		stats, err := store.SearchStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.TotalObjects)
		assert.Equal(t, 1, stats.ObjectsWithEmbeddings)
		assert.InDelta(t, 50.0, stats.EmbeddingCoverage, 0.01)
		assert.Equal(t, 2, stats.ObjectTypes)
		assert.Equal(t, 2, stats.Projects)
		assert.Greater(t, stats.AvgTextLength, 0.0)
	})
}

func TestStore_News(t *testing.T) {
	ctx := context.Background()

	t.Run("insert assigns id and latest orders by published date", func(t *testing.T) {
		store, cleanup := setupTestStore(t)
		defer cleanup()

		older := &domain.NewsArticle{
			Title:       "Old platform update",
			PublishedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			Active:      true,
		}
		newer := &domain.NewsArticle{
			Title:       "New dashboard features",
			PublishedAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
			Active:      true,
		}
		inactive := &domain.NewsArticle{
			Title:       "Retracted",
			PublishedAt: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		}

		require.NoError(t, store.InsertNewsArticle(ctx, older))
		require.NoError(t, store.InsertNewsArticle(ctx, newer))
		require.NoError(t, store.InsertNewsArticle(ctx, inactive))
		assert.NotEmpty(t, older.ID)

		articles, err := store.LatestNewsArticles(ctx, 10)
		require.NoError(t, err)
		require.Len(t, articles, 2)
		assert.Equal(t, "New dashboard features", articles[0].Title)
		assert.Equal(t, "Old platform update", articles[1].Title)
	})
}

func TestFloat32Codec(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		vec := []float32{0.1, -2.5, 1e-7, 42}
		assert.Equal(t, vec, bytesToFloat32Slice(float32SliceToBytes(vec)))
	})

	t.Run("empty slices map to nil", func(t *testing.T) {
		assert.Nil(t, float32SliceToBytes(nil))
		assert.Nil(t, bytesToFloat32Slice(nil))
	})
}
