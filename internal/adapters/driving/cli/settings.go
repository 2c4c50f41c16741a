package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
	"github.com/custodia-labs/vizier-cli/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the platform connection, embedding provider and
other options.

Use subcommands to change specific settings or run the interactive
wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a single setting",
	Long: `Set one setting by its dot-notation key.

Keys:
  platform.server_url       Platform server base URL
  platform.pat_name         Personal Access Token name
  platform.pat_secret       Personal Access Token secret
  platform.site_name        Site content URL (empty = default site)
  platform.project_filter   Comma-separated project names
  embedding.provider        ollama or openai
  embedding.model           Embedding model name
  embedding.base_url        Embedding API endpoint (Ollama)
  embedding.api_key         Embedding API key (OpenAI)
  search.default_limit      Default result count
  search.similarity_threshold  Minimum similarity score
  index.rate_limit_per_minute  Platform request budget
  index.page_size           Listing page size
  index.max_objects         Per-run record cap (0 = none)
  index.upsert_batch_size   Records per store transaction
  index.embed_batch_size    Records per embedding call`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Platform]")
	cmd.Printf("  Server URL: %s\n", orUnset(settings.Platform.ServerURL))
	cmd.Printf("  PAT Name:   %s\n", orUnset(settings.Platform.PATName))
	if settings.Platform.PATSecret != "" {
		if os.Getenv(services.EnvPATSecret) != "" {
			cmd.Printf("  PAT Secret: (from %s)\n", services.EnvPATSecret)
		} else {
			cmd.Printf("  PAT Secret: %s\n", maskAPIKey(settings.Platform.PATSecret))
		}
	} else {
		cmd.Printf("  PAT Secret: (not set)\n")
	}
	if settings.Platform.SiteName != "" {
		cmd.Printf("  Site:       %s\n", settings.Platform.SiteName)
	} else {
		cmd.Printf("  Site:       (default site)\n")
	}
	if len(settings.Platform.ProjectFilter) > 0 {
		cmd.Printf("  Projects:   %s\n", strings.Join(settings.Platform.ProjectFilter, ", "))
	}
	status := "configured"
	if !settings.Platform.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status:     %s\n", status)
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model:    %s\n", settings.Embedding.Model)
	if settings.Embedding.Provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		if settings.Embedding.APIKey != "" {
			cmd.Printf("  API Key:  %s\n", maskAPIKey(settings.Embedding.APIKey))
		} else {
			cmd.Printf("  API Key:  (not set)\n")
		}
	}
	status = "configured"
	if !settings.Embedding.IsConfigured() {
		status = "not configured (keyword search only)"
	}
	cmd.Printf("  Status:   %s\n", status)
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Default limit:        %d\n", settings.Search.DefaultLimit)
	cmd.Printf("  Similarity threshold: %.2f\n", settings.Search.SimilarityThreshold)
	cmd.Println()

	cmd.Println("[Index]")
	cmd.Printf("  Rate limit:        %d requests/minute\n", settings.Index.RateLimitPerMinute)
	cmd.Printf("  Page size:         %d\n", settings.Index.PageSize)
	if settings.Index.MaxObjects > 0 {
		cmd.Printf("  Max objects:       %d\n", settings.Index.MaxObjects)
	} else {
		cmd.Printf("  Max objects:       (no cap)\n")
	}
	cmd.Printf("  Upsert batch size: %d\n", settings.Index.UpsertBatchSize)
	cmd.Printf("  Embed batch size:  %d\n", settings.Index.EmbedBatchSize)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

//nolint:gocyclo // One case per settable key.
func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	switch key {
	case "platform.server_url":
		settings.Platform.ServerURL = value
	case "platform.pat_name":
		settings.Platform.PATName = value
	case "platform.pat_secret":
		settings.Platform.PATSecret = value
	case "platform.site_name":
		settings.Platform.SiteName = value
	case "platform.project_filter":
		settings.Platform.ProjectFilter = splitList(value)
	case "embedding.provider":
		provider := domain.AIProvider(value)
		if !provider.IsValid() {
			return fmt.Errorf("unknown provider %q (want ollama or openai)", value)
		}
		settings.Embedding.Provider = provider
	case "embedding.model":
		settings.Embedding.Model = value
	case "embedding.base_url":
		settings.Embedding.BaseURL = value
	case "embedding.api_key":
		settings.Embedding.APIKey = value
	case "search.default_limit":
		if settings.Search.DefaultLimit, err = strconv.Atoi(value); err != nil {
			return fmt.Errorf("%s wants an integer: %w", key, err)
		}
	case "search.similarity_threshold":
		if settings.Search.SimilarityThreshold, err = strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("%s wants a number: %w", key, err)
		}
	case "index.rate_limit_per_minute":
		if settings.Index.RateLimitPerMinute, err = strconv.Atoi(value); err != nil {
			return fmt.Errorf("%s wants an integer: %w", key, err)
		}
	case "index.page_size":
		if settings.Index.PageSize, err = strconv.Atoi(value); err != nil {
			return fmt.Errorf("%s wants an integer: %w", key, err)
		}
	case "index.max_objects":
		if settings.Index.MaxObjects, err = strconv.Atoi(value); err != nil {
			return fmt.Errorf("%s wants an integer: %w", key, err)
		}
	case "index.upsert_batch_size":
		if settings.Index.UpsertBatchSize, err = strconv.Atoi(value); err != nil {
			return fmt.Errorf("%s wants an integer: %w", key, err)
		}
	case "index.embed_batch_size":
		if settings.Index.EmbedBatchSize, err = strconv.Atoi(value); err != nil {
			return fmt.Errorf("%s wants an integer: %w", key, err)
		}
	default:
		return fmt.Errorf("unknown setting %q, see 'vizier settings set --help'", key)
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Set %s.\n", key)
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("Vizier Settings Wizard")
	cmd.Println("======================")
	cmd.Println()

	reader := bufio.NewReader(os.Stdin)

	// Step 1: Platform connection
	cmd.Println("Step 1: Platform Connection")
	cmd.Println("---------------------------")
	if err := configurePlatform(cmd, reader); err != nil {
		return err
	}

	// Step 2: Embedding provider
	cmd.Println("Step 2: Embedding Provider")
	cmd.Println("--------------------------")
	cmd.Println("Semantic search needs an embedding provider. Leave it")
	cmd.Println("unconfigured to search by keywords only.")
	cmd.Print("\nConfigure one now? [Y/n]: ")
	if answer := readLine(reader); answer == "" || strings.EqualFold(answer, "y") {
		if err := configureEmbeddingProvider(cmd, reader); err != nil {
			return err
		}
	} else {
		cmd.Println("Skipped; searches will use the keyword path.")
		cmd.Println()
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved. Run 'vizier index' to start.")
	}

	return nil
}

func configurePlatform(cmd *cobra.Command, reader *bufio.Reader) error {
	current, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	platform := current.Platform

	cmd.Printf("Server URL [%s]: ", platform.ServerURL)
	if input := readLine(reader); input != "" {
		platform.ServerURL = input
	}

	cmd.Printf("PAT name [%s]: ", platform.PATName)
	if input := readLine(reader); input != "" {
		platform.PATName = input
	}

	if os.Getenv(services.EnvPATSecret) != "" {
		cmd.Printf("PAT secret: using %s from the environment\n", services.EnvPATSecret)
	} else {
		prompt := "PAT secret: "
		if platform.PATSecret != "" {
			prompt = "PAT secret (empty keeps current): "
		}
		cmd.Print(prompt)
		if secret := readPassword(); secret != "" {
			platform.PATSecret = secret
		}
		cmd.Println()
	}

	cmd.Printf("Site content URL (empty = default site) [%s]: ", platform.SiteName)
	if input := readLine(reader); input != "" {
		platform.SiteName = input
	}

	cmd.Printf("Project filter, comma-separated (empty = all) [%s]: ", strings.Join(platform.ProjectFilter, ","))
	if input := readLine(reader); input != "" {
		platform.ProjectFilter = splitList(input)
	}

	if err := settingsService.SetPlatform(platform); err != nil {
		return fmt.Errorf("failed to configure platform: %w", err)
	}
	cmd.Printf("Platform connection saved: %s\n\n", platform.ServerURL)
	return nil
}

func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	defaults := domain.DefaultEmbeddingModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetEmbeddingProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func orUnset(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}
