package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [query]",
	Short: "Classify a query's intent",
	Long: `Shows how a query would be classified before searching. Useful for
debugging why a collaborator treated a question as a greeting, a help
request or a search.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(domain.ClassifyIntent(args[0]))
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
