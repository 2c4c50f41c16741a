package driven

import (
	"context"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
)

// MetadataStore persists canonical records and serves search candidates.
// Backed by SQLite.
type MetadataStore interface {
	// UpsertBatch writes records in transactional batches of batchSize,
	// keyed by (site_id, object_type, object_id). Existing rows are
	// fully overwritten (last write wins) and updated_at is refreshed.
	// A changed text_blob clears the stored embedding. A failed batch
	// is logged and skipped; later batches still run. Returns the
	// number of records written.
	UpsertBatch(ctx context.Context, records []domain.CanonicalRecord, batchSize int) (int, error)

	// GetRecord retrieves one record by its composite key.
	// Returns domain.ErrNotFound when absent.
	GetRecord(ctx context.Context, key domain.RecordKey) (*domain.CanonicalRecord, error)

	// FindByObjectID retrieves a record by object ID alone, any site
	// or type. Returns domain.ErrNotFound when absent.
	FindByObjectID(ctx context.Context, objectID string) (*domain.CanonicalRecord, error)

	// CountRecords counts records, optionally scoped by site and type
	// (empty values mean no filter).
	CountRecords(ctx context.Context, siteID string, objectType domain.ObjectType) (int, error)

	// RecordsByType lists a site's records of one type, most recently
	// updated first.
	RecordsByType(ctx context.Context, siteID string, objectType domain.ObjectType) ([]domain.CanonicalRecord, error)

	// DeleteRecords removes a site's records, optionally restricted to
	// one type. Returns the number of rows removed.
	DeleteRecords(ctx context.Context, siteID string, objectType domain.ObjectType) (int64, error)

	// EmbeddingStats reports embedding coverage across the store.
	EmbeddingStats(ctx context.Context) (domain.EmbeddingStats, error)

	// UnembeddedRecords lists records without an embedding, most
	// recently updated first. Zero limit means all.
	UnembeddedRecords(ctx context.Context, limit int) ([]domain.CanonicalRecord, error)

	// UpdateEmbedding writes a record's embedding vector by key.
	UpdateEmbedding(ctx context.Context, key domain.RecordKey, embedding []float32) error

	// EmbeddedRecords lists all records that have an embedding.
	EmbeddedRecords(ctx context.Context) ([]domain.CanonicalRecord, error)

	// LexicalCandidates lists records whose text blob matches the
	// lowered query terms, for the lexical fallback path.
	LexicalCandidates(ctx context.Context, query string, limit int) ([]domain.CanonicalRecord, error)

	// SuggestTitles returns distinct titles with the given prefix
	// (case-insensitive), ordered by search priority then title.
	SuggestTitles(ctx context.Context, prefix string, limit int) ([]string, error)

	// SearchStats summarizes the searchable corpus.
	SearchStats(ctx context.Context) (domain.SearchStats, error)

	// InsertNewsArticle appends an article from the conversational
	// collaborator's ingest workflow. Assigns an ID when empty.
	InsertNewsArticle(ctx context.Context, article *domain.NewsArticle) error

	// LatestNewsArticles lists active articles, most recent first.
	LatestNewsArticles(ctx context.Context, limit int) ([]domain.NewsArticle, error)

	// Close releases the underlying database handle.
	Close() error
}
