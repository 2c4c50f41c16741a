// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import (
	"context"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
)

// EmbeddingService generates vector embeddings from text.
// This is an optional service - when nil, vector search is disabled and
// the search service stays on its lexical fallback.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small with a dimensions override)
//   - Ollama (all-minilm)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// This is more efficient than calling Embed in a loop for large batches.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size. Every provider is
	// configured to produce domain.EmbeddingDimensions.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	// This is used at startup to verify connectivity before committing to embedding work.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// EmbeddingFactory creates embedding services from settings.
type EmbeddingFactory interface {
	// CreateEmbeddingService creates a service for the configured provider.
	// Returns domain.ErrEmbeddingUnavailable when the provider is unknown
	// or misconfigured.
	CreateEmbeddingService(config *domain.EmbeddingSettings) (EmbeddingService, error)

	// CreateAndValidateEmbeddingService creates a service and pings it,
	// closing it again on failure.
	CreateAndValidateEmbeddingService(ctx context.Context, config *domain.EmbeddingSettings) (EmbeddingService, error)
}

// AIConfigValidator validates embedding provider configurations.
// Implementations verify that configurations are valid by testing
// connectivity to the underlying services.
type AIConfigValidator interface {
	// ValidateEmbedding validates an embedding configuration by pinging
	// the provider. Returns nil if configuration is valid or not configured.
	ValidateEmbedding(config *domain.EmbeddingSettings) error
}
