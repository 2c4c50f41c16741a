// Package cli implements the command-line interface using cobra.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vizier-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/vizier-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/vizier-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/vizier-cli/internal/connectors/tableau"
	"github.com/custodia-labs/vizier-cli/internal/core/ports/driven"
	"github.com/custodia-labs/vizier-cli/internal/core/ports/driving"
	"github.com/custodia-labs/vizier-cli/internal/core/services"
	"github.com/custodia-labs/vizier-cli/internal/logger"
	"github.com/custodia-labs/vizier-cli/internal/quality"
)

// version is set by the build via -ldflags.
var version = "dev"

var (
	verbose   bool
	configDir string
)

// Services wired during initialization. Tests inject their own through
// SetServices; production wiring happens in initServices.
var (
	settingsService  driving.SettingsService
	searchService    driving.SearchService
	embedderService  driving.EmbedderService
	indexerService   driving.IndexerService
	metadataStore    driven.MetadataStore
	embeddingService driven.EmbeddingService
)

// Services bundles the dependencies the commands run against.
type Services struct {
	Settings  driving.SettingsService
	Search    driving.SearchService
	Embedder  driving.EmbedderService
	Indexer   driving.IndexerService
	Store     driven.MetadataStore
	Embedding driven.EmbeddingService
}

// SetServices replaces the wired services. Passing a nil field leaves
// the corresponding command unconfigured.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	settingsService = s.Settings
	searchService = s.Search
	embedderService = s.Embedder
	indexerService = s.Indexer
	metadataStore = s.Store
	embeddingService = s.Embedding
}

var rootCmd = &cobra.Command{
	Use:   "vizier",
	Short: "Index and search BI platform metadata",
	Long: `Vizier crawls a BI platform site, normalizes workbook, datasource and
view metadata into a local SQLite store, and answers natural-language
questions about it with hybrid vector and keyword search.

Get started:
  vizier settings wizard    Configure the platform connection
  vizier index              Crawl and index the configured site
  vizier search "revenue"   Search the indexed metadata`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "Config directory (default ~/.vizier)")
}

// lightweightCommands run without the store or platform wiring.
func isLightweight(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", "classify":
		return true
	}
	return false
}

func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if isLightweight(cmd) {
		return nil
	}

	// Tests wire their own services through SetServices.
	if settingsService != nil {
		return nil
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}
	settingsService = services.NewSettingsService(configStore, ai.NewConfigValidator())

	store, err := sqlite.NewStore(configStore.GetString("storage.data_dir"))
	if err != nil {
		return fmt.Errorf("opening metadata store: %w", err)
	}
	metadataStore = store

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	// A broken embedding provider degrades search to the lexical path
	// rather than blocking the whole CLI.
	embedding, err := ai.CreateAndValidateEmbeddingService(cmd.Context(), &settings.Embedding)
	if err != nil {
		logger.Warn("Embedding provider unavailable, falling back to keyword search: %v", err)
		embedding = nil
	}
	embeddingService = embedding

	searchService = services.NewSearchService(metadataStore, embeddingService, settingsService)
	embedderService = services.NewEmbedderService(metadataStore, embeddingService, settingsService)

	platform := tableau.NewClient(tableau.ConfigFromSettings(*settings))
	indexerService = services.NewIndexerService(platform, metadataStore, quality.NewGate(), settingsService)

	return nil
}

// newIndexerWithProjects rebuilds the indexer with a project filter
// merged into the platform client, which holds the filter it lists with.
func newIndexerWithProjects(projects []string) (driving.IndexerService, error) {
	if settingsService == nil {
		return nil, fmt.Errorf("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	cfg := tableau.ConfigFromSettings(*settings)
	cfg.ProjectFilter = projects
	platform := tableau.NewClient(cfg)
	return services.NewIndexerService(platform, metadataStore, quality.NewGate(), settingsService), nil
}

func closeServices() {
	if embeddingService != nil {
		_ = embeddingService.Close()
	}
	if metadataStore != nil {
		_ = metadataStore.Close()
	}
}
