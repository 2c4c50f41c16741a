package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show search corpus statistics",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	stats, err := searchService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to collect statistics: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal statistics: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println("Search Corpus")
	cmd.Println("=============")
	cmd.Printf("  Objects:            %d\n", stats.TotalObjects)
	cmd.Printf("  With embeddings:    %d (%.1f%%)\n", stats.ObjectsWithEmbeddings, stats.EmbeddingCoverage)
	cmd.Printf("  Object types:       %d\n", stats.ObjectTypes)
	cmd.Printf("  Projects:           %d\n", stats.Projects)
	cmd.Printf("  Avg text length:    %.0f chars\n", stats.AvgTextLength)
	return nil
}
