package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
)

var (
	searchLimit     int
	searchThreshold float64
	searchType      string
	searchProject   string
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed metadata",
	Long: `Ranks indexed workbooks, datasources and views against the query by
embedding similarity, falling back to keyword relevance when no
embeddings are available.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 = configured default)")
	searchCmd.Flags().Float64Var(&searchThreshold, "threshold", -1, "minimum similarity score (-1 = configured default)")
	searchCmd.Flags().StringVarP(&searchType, "type", "t", "", "keep only results of this object type")
	searchCmd.Flags().StringVarP(&searchProject, "project", "p", "", "keep only results from projects containing this name")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	ctx := cmd.Context()

	var results []domain.SearchResult
	var err error
	switch {
	case searchType != "":
		objectType := domain.ObjectType(searchType)
		if !objectType.IsValid() {
			return fmt.Errorf("unknown object type %q (want workbook, datasource or view)", searchType)
		}
		results, err = searchService.SearchByType(ctx, query, objectType, searchLimit)
	case searchProject != "":
		results, err = searchService.SearchByProject(ctx, query, searchProject, searchLimit)
	default:
		results, err = searchService.Search(ctx, query, searchLimit, searchThreshold)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Printf("Found %d results:\n\n", len(results))
	for i, result := range results {
		rec := result.Record
		score := fmt.Sprintf("%.2f", result.SimilarityScore)
		if result.Lexical {
			score = fmt.Sprintf("kw %.0f", result.SimilarityScore)
		}
		cmd.Printf("  [%d] %s (%s, %s)\n", i+1, rec.Title, rec.ObjectType, score)
		if rec.ProjectName != "" {
			cmd.Printf("      Project: %s", rec.ProjectName)
			if rec.Owner != "" {
				cmd.Printf("  Owner: %s", rec.Owner)
			}
			cmd.Println()
		}
		if rec.DeepLinkURL != "" {
			cmd.Printf("      %s\n", rec.DeepLinkURL)
		}
	}
	return nil
}
