package services

import (
	"fmt"
	"os"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
	"github.com/custodia-labs/vizier-cli/internal/core/ports/driven"
	"github.com/custodia-labs/vizier-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// EnvPATSecret overrides the stored PAT secret so it can stay out of
// the config file.
const EnvPATSecret = "VIZIER_PAT_SECRET"

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyPlatformServerURL     = "platform.server_url"
	keyPlatformPATName       = "platform.pat_name"
	keyPlatformPATSecret     = "platform.pat_secret"
	keyPlatformSiteName      = "platform.site_name"
	keyPlatformProjectFilter = "platform.project_filter"
	keyEmbedProvider         = "embedding.provider"
	keyEmbedModel            = "embedding.model"
	keyEmbedBaseURL          = "embedding.base_url"
	keyEmbedAPIKey           = "embedding.api_key"
	keySearchLimit           = "search.default_limit"
	keySearchThreshold       = "search.similarity_threshold"
	keyIndexRateLimit        = "index.rate_limit_per_minute"
	keyIndexPageSize         = "index.page_size"
	keyIndexMaxObjects       = "index.max_objects"
	keyIndexUpsertBatch      = "index.upsert_batch_size"
	keyIndexEmbedBatch       = "index.embed_batch_size"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Platform: domain.PlatformSettings{
			ServerURL:     s.configStore.GetString(keyPlatformServerURL),
			PATName:       s.configStore.GetString(keyPlatformPATName),
			PATSecret:     s.patSecret(),
			SiteName:      s.configStore.GetString(keyPlatformSiteName),
			ProjectFilter: s.configStore.GetStringSlice(keyPlatformProjectFilter),
		},
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		Search: domain.SearchSettings{
			DefaultLimit:        s.getInt(keySearchLimit, defaults.Search.DefaultLimit),
			SimilarityThreshold: s.getFloat(keySearchThreshold, defaults.Search.SimilarityThreshold),
		},
		Index: domain.IndexSettings{
			RateLimitPerMinute: s.getInt(keyIndexRateLimit, defaults.Index.RateLimitPerMinute),
			PageSize:           s.getInt(keyIndexPageSize, defaults.Index.PageSize),
			MaxObjects:         s.configStore.GetInt(keyIndexMaxObjects), // Zero means no cap
			UpsertBatchSize:    s.getInt(keyIndexUpsertBatch, defaults.Index.UpsertBatchSize),
			EmbedBatchSize:     s.getInt(keyIndexEmbedBatch, defaults.Index.EmbedBatchSize),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	// Save platform settings
	if err := s.configStore.Set(keyPlatformServerURL, settings.Platform.ServerURL); err != nil {
		return fmt.Errorf("save platform server_url: %w", err)
	}
	if err := s.configStore.Set(keyPlatformPATName, settings.Platform.PATName); err != nil {
		return fmt.Errorf("save platform pat_name: %w", err)
	}
	if settings.Platform.PATSecret != "" {
		if err := s.configStore.Set(keyPlatformPATSecret, settings.Platform.PATSecret); err != nil {
			return fmt.Errorf("save platform pat_secret: %w", err)
		}
	}
	if err := s.configStore.Set(keyPlatformSiteName, settings.Platform.SiteName); err != nil {
		return fmt.Errorf("save platform site_name: %w", err)
	}
	if err := s.configStore.Set(keyPlatformProjectFilter, settings.Platform.ProjectFilter); err != nil {
		return fmt.Errorf("save platform project_filter: %w", err)
	}

	// Save embedding settings
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}

	// Save search settings
	if err := s.configStore.Set(keySearchLimit, settings.Search.DefaultLimit); err != nil {
		return fmt.Errorf("save search default_limit: %w", err)
	}
	if err := s.configStore.Set(keySearchThreshold, settings.Search.SimilarityThreshold); err != nil {
		return fmt.Errorf("save search similarity_threshold: %w", err)
	}

	// Save index settings
	if err := s.configStore.Set(keyIndexRateLimit, settings.Index.RateLimitPerMinute); err != nil {
		return fmt.Errorf("save index rate_limit_per_minute: %w", err)
	}
	if err := s.configStore.Set(keyIndexPageSize, settings.Index.PageSize); err != nil {
		return fmt.Errorf("save index page_size: %w", err)
	}
	if err := s.configStore.Set(keyIndexMaxObjects, settings.Index.MaxObjects); err != nil {
		return fmt.Errorf("save index max_objects: %w", err)
	}
	if err := s.configStore.Set(keyIndexUpsertBatch, settings.Index.UpsertBatchSize); err != nil {
		return fmt.Errorf("save index upsert_batch_size: %w", err)
	}
	if err := s.configStore.Set(keyIndexEmbedBatch, settings.Index.EmbedBatchSize); err != nil {
		return fmt.Errorf("save index embed_batch_size: %w", err)
	}

	return nil
}

// SetPlatform configures the target site connection.
func (s *SettingsService) SetPlatform(platform domain.PlatformSettings) error {
	if platform.ServerURL == "" {
		return fmt.Errorf("%w: server URL is required", domain.ErrInvalidInput)
	}
	if platform.PATName == "" {
		return fmt.Errorf("%w: personal access token name is required", domain.ErrInvalidInput)
	}
	if platform.PATSecret == "" && os.Getenv(EnvPATSecret) == "" {
		return fmt.Errorf("%w: personal access token secret is required (or set %s)",
			domain.ErrInvalidInput, EnvPATSecret)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Platform = platform
	return s.Save(settings)
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		defaults := domain.DefaultEmbeddingModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.Embedding.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		// Local providers need a base URL
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.Embedding.BaseURL = ""
	}

	// Set API key
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks that the settings can support an indexing run.
// The embedding provider is optional; indexing and lexical search work
// without one.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Platform.IsConfigured() {
		return fmt.Errorf(
			"platform connection not configured, run 'vizier settings wizard' first")
	}

	if settings.Index.RateLimitPerMinute <= 0 {
		return fmt.Errorf("%w: rate limit must be positive", domain.ErrInvalidInput)
	}
	if settings.Index.PageSize <= 0 {
		return fmt.Errorf("%w: page size must be positive", domain.ErrInvalidInput)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// patSecret resolves the PAT secret, preferring the environment over
// the config file.
func (s *SettingsService) patSecret() string {
	if env := os.Getenv(EnvPATSecret); env != "" {
		return env
	}
	return s.configStore.GetString(keyPlatformPATSecret)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
