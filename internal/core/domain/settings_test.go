package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestAIProvider_Validation tests provider checks
func TestAIProvider_Validation(t *testing.T) {
	assert.True(t, AIProviderOllama.IsValid())
	assert.True(t, AIProviderOpenAI.IsValid())
	assert.False(t, AIProvider("anthropic").IsValid())

	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderOllama.IsLocal())
}

// TestPlatformSettings_IsConfigured tests connection validation
func TestPlatformSettings_IsConfigured(t *testing.T) {
	assert.False(t, PlatformSettings{}.IsConfigured())

	settings := PlatformSettings{
		ServerURL: "https://reports.example.com",
		PATName:   "indexer",
		PATSecret: "secret",
	}
	assert.True(t, settings.IsConfigured())

	// Empty site name means the server default site, still configured.
	settings.SiteName = ""
	assert.True(t, settings.IsConfigured())

	settings.PATSecret = ""
	assert.False(t, settings.IsConfigured())
}

// TestEmbeddingSettings_IsConfigured tests provider validation
func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	assert.False(t, EmbeddingSettings{}.IsConfigured())

	ollama := EmbeddingSettings{Provider: AIProviderOllama, Model: "all-minilm"}
	assert.True(t, ollama.IsConfigured())

	openai := EmbeddingSettings{Provider: AIProviderOpenAI, Model: "text-embedding-3-small"}
	assert.False(t, openai.IsConfigured())
	openai.APIKey = "sk-test"
	assert.True(t, openai.IsConfigured())
}

// TestDefaultAppSettings tests the defaults
func TestDefaultAppSettings(t *testing.T) {
	settings := DefaultAppSettings()

	assert.Equal(t, 10, settings.Search.DefaultLimit)
	assert.InDelta(t, 0.3, settings.Search.SimilarityThreshold, 1e-9)
	assert.Equal(t, 60, settings.Index.RateLimitPerMinute)
	assert.Equal(t, 100, settings.Index.PageSize)
	assert.Equal(t, 50, settings.Index.UpsertBatchSize)
	assert.Equal(t, 100, settings.Index.EmbedBatchSize)
	assert.Zero(t, settings.Index.MaxObjects)
	assert.False(t, settings.Platform.IsConfigured())
	assert.False(t, settings.Embedding.IsConfigured())
}
