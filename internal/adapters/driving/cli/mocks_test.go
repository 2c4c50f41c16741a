package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
)

// executeCommand runs the root command with the given args, capturing
// combined output. Flag variables persist between invocations, so every
// test sets the flags it relies on explicitly.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(bytes.NewReader(nil))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

// withServices injects test services and restores the previous wiring
// (and flag defaults) when the test finishes.
func withServices(t *testing.T, s *Services) {
	t.Helper()

	prev := &Services{
		Settings:  settingsService,
		Search:    searchService,
		Embedder:  embedderService,
		Indexer:   indexerService,
		Store:     metadataStore,
		Embedding: embeddingService,
	}
	SetServices(s)

	t.Cleanup(func() {
		settingsService = prev.Settings
		searchService = prev.Search
		embedderService = prev.Embedder
		indexerService = prev.Indexer
		metadataStore = prev.Store
		embeddingService = prev.Embedding
		resetFlags()
	})
}

func resetFlags() {
	searchLimit = 0
	searchThreshold = -1
	searchType = ""
	searchProject = ""
	searchJSON = false
	indexTypes = nil
	indexProjects = nil
	indexMaxObjects = 0
	indexBatchSize = 0
	indexSkipGate = false
	embedLimit = 0
	embedBatchSize = 0
	similarLimit = 0
	similarJSON = false
	suggestLimit = 10
	statsJSON = false
	getType = ""
	purgeSite = ""
	purgeType = ""
	purgeYes = false
	newsLimit = 5
	newsJSON = false
}

// mockSettingsService implements driving.SettingsService for tests.
type mockSettingsService struct {
	settings *domain.AppSettings
	err      error
}

func newMockSettingsService() *mockSettingsService {
	settings := domain.DefaultAppSettings()
	return &mockSettingsService{settings: &settings}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = settings
	return m.err
}

func (m *mockSettingsService) SetPlatform(platform domain.PlatformSettings) error {
	m.settings.Platform = platform
	return m.err
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.Embedding.Provider = provider
	m.settings.Embedding.Model = model
	m.settings.Embedding.APIKey = apiKey
	return m.err
}

func (m *mockSettingsService) Validate() error {
	return m.err
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateEmbeddingConfig() error {
	return m.err
}

// mockCLISearchService implements driving.SearchService for tests.
type mockCLISearchService struct {
	results []domain.SearchResult
	titles  []string
	stats   domain.SearchStats
	err     error

	lastQuery     string
	lastLimit     int
	lastThreshold float64
	lastType      domain.ObjectType
	lastProject   string
	lastObjectID  string
}

func (m *mockCLISearchService) Search(_ context.Context, query string, limit int, threshold float64) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastLimit = limit
	m.lastThreshold = threshold
	return m.results, m.err
}

func (m *mockCLISearchService) SearchByType(_ context.Context, query string, objectType domain.ObjectType, limit int) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastType = objectType
	m.lastLimit = limit
	return m.results, m.err
}

func (m *mockCLISearchService) SearchByProject(_ context.Context, query, projectName string, limit int) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastProject = projectName
	m.lastLimit = limit
	return m.results, m.err
}

func (m *mockCLISearchService) SimilarObjects(_ context.Context, objectID string, limit int) ([]domain.SearchResult, error) {
	m.lastObjectID = objectID
	m.lastLimit = limit
	return m.results, m.err
}

func (m *mockCLISearchService) Suggestions(_ context.Context, prefix string, limit int) ([]string, error) {
	m.lastQuery = prefix
	m.lastLimit = limit
	return m.titles, m.err
}

func (m *mockCLISearchService) Stats(_ context.Context) (domain.SearchStats, error) {
	return m.stats, m.err
}

// mockIndexerService implements driving.IndexerService for tests.
type mockIndexerService struct {
	run      *domain.IndexingRun
	err      error
	lastOpts domain.IndexOptions
}

func (m *mockIndexerService) IndexSite(_ context.Context, opts domain.IndexOptions) (*domain.IndexingRun, error) {
	m.lastOpts = opts
	return m.run, m.err
}

// mockEmbedderService implements driving.EmbedderService for tests.
type mockEmbedderService struct {
	stats domain.DrainStats
	err   error

	lastLimit     int
	lastBatchSize int
}

func (m *mockEmbedderService) Drain(_ context.Context, limit, batchSize int) (domain.DrainStats, error) {
	m.lastLimit = limit
	m.lastBatchSize = batchSize
	return m.stats, m.err
}

func cliSampleResults() []domain.SearchResult {
	return []domain.SearchResult{
		{
			Record: domain.CanonicalRecord{
				SiteID:      "site-1",
				ObjectType:  domain.ObjectTypeWorkbook,
				ObjectID:    "wb-1",
				Title:       "Sales Dashboard",
				ProjectName: "Finance",
				Owner:       "ana",
				DeepLinkURL: "https://tableau.example.com/#/workbooks/1",
			},
			SimilarityScore: 0.91,
		},
		{
			Record: domain.CanonicalRecord{
				SiteID:     "site-1",
				ObjectType: domain.ObjectTypeView,
				ObjectID:   "vw-1",
				Title:      "Revenue by Region",
			},
			SimilarityScore: 12,
			Lexical:         true,
		},
	}
}
