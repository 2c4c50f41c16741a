package domain

const unknownDescription = "Unknown"

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
// Both defaults produce EmbeddingDimensions-sized vectors (OpenAI v3 models
// accept a dimensions parameter).
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "all-minilm",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// PlatformSettings holds the target site connection configuration.
type PlatformSettings struct {
	// ServerURL is the platform server base URL.
	ServerURL string

	// PATName is the Personal Access Token name.
	PATName string

	// PATSecret is the Personal Access Token secret.
	PATSecret string

	// SiteName is the site content URL to sign in to.
	SiteName string

	// ProjectFilter restricts listing to these project names.
	// Empty means all projects.
	ProjectFilter []string
}

// IsConfigured returns true if the platform connection is set up.
// SiteName may legitimately be empty (the server's default site).
func (p PlatformSettings) IsConfigured() bool {
	return p.ServerURL != "" && p.PATName != "" && p.PATSecret != ""
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// SearchSettings holds search behaviour configuration.
type SearchSettings struct {
	// DefaultLimit is the result count when the caller passes none.
	DefaultLimit int

	// SimilarityThreshold is the minimum cosine similarity for vector
	// hits when the caller passes none.
	SimilarityThreshold float64
}

// IndexSettings holds crawl and write configuration.
type IndexSettings struct {
	// RateLimitPerMinute is the platform request budget per rolling
	// minute.
	RateLimitPerMinute int

	// PageSize is the platform listing page size.
	PageSize int

	// MaxObjects caps the records indexed per run. Zero means no cap.
	MaxObjects int

	// UpsertBatchSize is the records per store transaction.
	UpsertBatchSize int

	// EmbedBatchSize is the records per embedding provider call.
	EmbedBatchSize int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Platform holds the target site connection settings.
	Platform PlatformSettings

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// Search holds search behaviour settings.
	Search SearchSettings

	// Index holds crawl and write settings.
	Index IndexSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The platform connection and embedding provider are left unconfigured;
// users must set them up via the settings wizard.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Platform:  PlatformSettings{},
		Embedding: EmbeddingSettings{},
		Search: SearchSettings{
			DefaultLimit:        10,
			SimilarityThreshold: 0.3,
		},
		Index: IndexSettings{
			RateLimitPerMinute: 60,
			PageSize:           100,
			MaxObjects:         0,
			UpsertBatchSize:    50,
			EmbedBatchSize:     100,
		},
	}
}
