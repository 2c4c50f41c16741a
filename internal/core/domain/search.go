package domain

// SearchResult represents a single search hit.
type SearchResult struct {
	// Record is the matched record.
	Record CanonicalRecord

	// SimilarityScore is the cosine similarity against the query for
	// vector hits, or the lexical relevance score for fallback hits.
	SimilarityScore float64

	// Lexical marks results produced by the lexical fallback path.
	Lexical bool
}

// SearchStats summarizes the searchable corpus.
type SearchStats struct {
	// TotalObjects is the number of stored records.
	TotalObjects int

	// ObjectsWithEmbeddings is the number of records with a vector.
	ObjectsWithEmbeddings int

	// EmbeddingCoverage is ObjectsWithEmbeddings over TotalObjects as
	// a percentage.
	EmbeddingCoverage float64

	// ObjectTypes is the count of distinct object types present.
	ObjectTypes int

	// Projects is the count of distinct project names present.
	Projects int

	// AvgTextLength is the mean text blob length in characters.
	AvgTextLength float64
}

// EmbeddingStats summarizes embedding coverage in the store.
type EmbeddingStats struct {
	// TotalRecords is the number of stored records.
	TotalRecords int

	// WithEmbeddings is the number of records with a vector.
	WithEmbeddings int

	// WithoutEmbeddings is the number of records still pending.
	WithoutEmbeddings int

	// Percentage is WithEmbeddings over TotalRecords as a percentage.
	Percentage float64
}

// DrainStats summarizes one embedding backfill pass.
type DrainStats struct {
	// TotalRecords is the number of pending records selected.
	TotalRecords int

	// ProcessedRecords is the number of records that received a vector.
	ProcessedRecords int

	// FailedBatches counts batches that were skipped after a failure.
	FailedBatches int
}
