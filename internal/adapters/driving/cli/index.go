package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
)

var (
	indexTypes      []string
	indexProjects   []string
	indexMaxObjects int
	indexBatchSize  int
	indexSkipGate   bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Crawl and index the configured site",
	Long: `Signs in to the configured platform site, fetches workbook, datasource
and view metadata under the configured rate limit, normalizes it, runs
the quality gate and writes the records to the local store.

Examples:
  vizier index
  vizier index --types workbooks,views
  vizier index --projects Finance,Sales --max-objects 500`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringSliceVar(&indexTypes, "types", nil,
		"object types to index (workbooks,datasources,views; default all)")
	indexCmd.Flags().StringSliceVar(&indexProjects, "projects", nil,
		"restrict the crawl to these project names")
	indexCmd.Flags().IntVar(&indexMaxObjects, "max-objects", 0,
		"cap the records indexed this run (0 = configured default)")
	indexCmd.Flags().IntVar(&indexBatchSize, "batch-size", 0,
		"records per store transaction (0 = configured default)")
	indexCmd.Flags().BoolVar(&indexSkipGate, "skip-quality-checks", false,
		"bypass the quality gate (operator override)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	objectTypes, err := parseObjectTypes(indexTypes)
	if err != nil {
		return err
	}

	indexer := indexerService
	if len(indexProjects) > 0 {
		// The platform client carries the project filter it lists
		// with, so a filtered run needs its own client.
		indexer, err = newIndexerWithProjects(indexProjects)
		if err != nil {
			return err
		}
	}

	opts := domain.IndexOptions{
		ObjectTypes:       objectTypes,
		ProjectFilter:     indexProjects,
		MaxObjects:        indexMaxObjects,
		BatchSize:         indexBatchSize,
		SkipQualityChecks: indexSkipGate,
	}

	cmd.Println("Indexing site...")
	run, runErr := indexer.IndexSite(cmd.Context(), opts)
	if run != nil {
		outputRunSummary(cmd, run)
	}
	if runErr != nil {
		return fmt.Errorf("indexing failed: %w", runErr)
	}
	return nil
}

// parseObjectTypes maps the plural flag spellings to domain types.
func parseObjectTypes(names []string) ([]domain.ObjectType, error) {
	if len(names) == 0 {
		return nil, nil
	}
	types := make([]domain.ObjectType, 0, len(names))
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "workbook", "workbooks":
			types = append(types, domain.ObjectTypeWorkbook)
		case "datasource", "datasources":
			types = append(types, domain.ObjectTypeDatasource)
		case "view", "views":
			types = append(types, domain.ObjectTypeView)
		default:
			return nil, fmt.Errorf("unknown object type %q (want workbooks, datasources or views)", name)
		}
	}
	return types, nil
}

func outputRunSummary(cmd *cobra.Command, run *domain.IndexingRun) {
	cmd.Println()
	cmd.Println("Indexing Run Summary")
	cmd.Println("====================")
	cmd.Printf("  Run ID:      %s\n", run.ID)
	if run.SiteID != "" {
		cmd.Printf("  Site:        %s\n", run.SiteID)
	}
	cmd.Printf("  Duration:    %s\n", run.Duration().Round(time.Millisecond))
	cmd.Println()
	cmd.Printf("  Workbooks:   %d\n", run.Workbooks)
	cmd.Printf("  Datasources: %d\n", run.Datasources)
	cmd.Printf("  Views:       %d\n", run.Views)
	cmd.Printf("  Upserted:    %d (store: %d -> %d)\n", run.Upserted, run.InitialCount, run.FinalCount)
	if run.SkippedRecords > 0 {
		cmd.Printf("  Skipped:     %d\n", run.SkippedRecords)
	}

	if run.ErrorCount() > 0 {
		cmd.Println()
		cmd.Println("  Errors:")
		for class, count := range run.Errors {
			cmd.Printf("    %-10s %d\n", class, count)
		}
	}

	if run.Quality != nil {
		cmd.Println()
		status := "PASSED"
		if !run.Quality.OverallQuality {
			status = "FAILED"
		}
		cmd.Printf("  Quality gate: %s (%d issues)\n", status, len(run.Quality.Issues))
		for _, issue := range run.Quality.Issues {
			cmd.Printf("    - %s\n", issue)
		}
	}
	for _, rec := range run.Recommendations {
		cmd.Printf("  Hint: %s\n", rec)
	}

	if run.EmbeddingStats.TotalRecords > 0 {
		cmd.Println()
		cmd.Printf("  Embeddings:  %d/%d (%.1f%%)\n",
			run.EmbeddingStats.WithEmbeddings,
			run.EmbeddingStats.TotalRecords,
			run.EmbeddingStats.Percentage)
		if run.EmbeddingStats.WithoutEmbeddings > 0 {
			cmd.Println("  Run 'vizier embed' to backfill missing embeddings.")
		}
	}
}
