package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	similarLimit int
	similarJSON  bool
)

var similarCmd = &cobra.Command{
	Use:   "similar [object-id]",
	Short: "Find objects similar to a given one",
	Long: `Ranks other embedded records by similarity to the given object's
embedding. Objects without an embedding yet return no results.`,
	Args: cobra.ExactArgs(1),
	RunE: runSimilar,
}

func init() {
	similarCmd.Flags().IntVarP(&similarLimit, "limit", "n", 0, "maximum number of results (0 = configured default)")
	similarCmd.Flags().BoolVar(&similarJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(similarCmd)
}

func runSimilar(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	results, err := searchService.SimilarObjects(cmd.Context(), args[0], similarLimit)
	if err != nil {
		return fmt.Errorf("similarity search failed: %w", err)
	}

	if similarJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}
