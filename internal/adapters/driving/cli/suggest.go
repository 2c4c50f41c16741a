package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var suggestLimit int

var suggestCmd = &cobra.Command{
	Use:   "suggest [prefix]",
	Short: "Suggest titles for a partial query",
	Args:  cobra.ExactArgs(1),
	RunE:  runSuggest,
}

func init() {
	suggestCmd.Flags().IntVarP(&suggestLimit, "limit", "n", 10, "maximum number of suggestions")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	titles, err := searchService.Suggestions(cmd.Context(), args[0], suggestLimit)
	if err != nil {
		return fmt.Errorf("suggestions failed: %w", err)
	}

	if len(titles) == 0 {
		cmd.Println("No suggestions.")
		return nil
	}
	for _, title := range titles {
		cmd.Println(title)
	}
	return nil
}
