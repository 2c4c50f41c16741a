package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	newsLimit int
	newsJSON  bool
)

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "List the latest data team news",
	RunE:  runNews,
}

func init() {
	newsCmd.Flags().IntVarP(&newsLimit, "limit", "n", 5, "maximum number of articles")
	newsCmd.Flags().BoolVar(&newsJSON, "json", false, "output articles as JSON")
	rootCmd.AddCommand(newsCmd)
}

func runNews(cmd *cobra.Command, _ []string) error {
	if metadataStore == nil {
		return errors.New("metadata store not configured")
	}

	articles, err := metadataStore.LatestNewsArticles(cmd.Context(), newsLimit)
	if err != nil {
		return fmt.Errorf("failed to load news: %w", err)
	}

	if newsJSON {
		data, err := json.MarshalIndent(articles, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal news: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(articles) == 0 {
		cmd.Println("No news articles.")
		return nil
	}

	for _, article := range articles {
		cmd.Printf("%s  %s\n", article.PublishedAt.Format("2006-01-02"), article.Title)
		if article.Summary != "" {
			cmd.Printf("  %s\n", article.Summary)
		}
		if article.URL != "" {
			cmd.Printf("  %s\n", article.URL)
		}
		cmd.Println()
	}
	return nil
}
