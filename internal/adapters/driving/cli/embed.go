package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	embedLimit     int
	embedBatchSize int
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Backfill embeddings for indexed records",
	Long: `Generates embeddings for records that do not have one yet, most
recently updated first. Failed batches are skipped and picked up by the
next run, so re-running converges.`,
	RunE: runEmbed,
}

func init() {
	embedCmd.Flags().IntVarP(&embedLimit, "limit", "n", 0,
		"maximum records to embed this run (0 = all pending)")
	embedCmd.Flags().IntVar(&embedBatchSize, "batch-size", 0,
		"records per provider call (0 = configured default)")
	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, _ []string) error {
	if embedderService == nil {
		return errors.New("embedder service not configured")
	}

	cmd.Println("Backfilling embeddings...")
	stats, err := embedderService.Drain(cmd.Context(), embedLimit, embedBatchSize)
	if err != nil {
		return fmt.Errorf("embedding backfill failed: %w", err)
	}

	if stats.TotalRecords == 0 {
		cmd.Println("Nothing to embed; every record has a vector.")
		return nil
	}

	cmd.Printf("Embedded %d of %d pending records.\n", stats.ProcessedRecords, stats.TotalRecords)
	if stats.FailedBatches > 0 {
		cmd.Printf("%d batches failed; run 'vizier embed' again to retry.\n", stats.FailedBatches)
	}
	return nil
}
