package driving

import (
	"context"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
)

// SearchService provides hybrid search over indexed records.
type SearchService interface {
	// Search ranks records against the query by embedding cosine
	// similarity, keeping hits at or above threshold, up to limit.
	// With no embedded records it falls back to lexical relevance over
	// text blobs (no threshold). Empty queries return empty results.
	// limit <= 0 and threshold < 0 defer to settings.
	Search(ctx context.Context, query string, limit int, threshold float64) ([]domain.SearchResult, error)

	// SearchByType searches, then keeps only results of the given type.
	SearchByType(ctx context.Context, query string, objectType domain.ObjectType, limit int) ([]domain.SearchResult, error)

	// SearchByProject searches, then keeps only results whose project
	// name contains the given name (case-insensitive).
	SearchByProject(ctx context.Context, query, projectName string, limit int) ([]domain.SearchResult, error)

	// SimilarObjects ranks other embedded records by similarity to the
	// given object's embedding. Unknown or unembedded anchors return
	// empty results.
	SimilarObjects(ctx context.Context, objectID string, limit int) ([]domain.SearchResult, error)

	// Suggestions returns distinct titles starting with prefix,
	// ordered by search priority then title.
	Suggestions(ctx context.Context, prefix string, limit int) ([]string, error)

	// Stats summarizes the searchable corpus.
	Stats(ctx context.Context) (domain.SearchStats, error)
}
