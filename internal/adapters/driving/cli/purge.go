package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
)

var (
	purgeSite string
	purgeType string
	purgeYes  bool
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete indexed records for a site",
	Long: `Deletes every indexed record for a site, optionally restricted to one
object type. The site is re-indexable with 'vizier index' afterwards.`,
	RunE: runPurge,
}

func init() {
	purgeCmd.Flags().StringVar(&purgeSite, "site", "", "site ID to purge (required)")
	purgeCmd.Flags().StringVarP(&purgeType, "type", "t", "", "only purge this object type")
	purgeCmd.Flags().BoolVarP(&purgeYes, "yes", "y", false, "skip the confirmation prompt")
	_ = purgeCmd.MarkFlagRequired("site")
	rootCmd.AddCommand(purgeCmd)
}

func runPurge(cmd *cobra.Command, _ []string) error {
	if metadataStore == nil {
		return errors.New("metadata store not configured")
	}

	objectType := domain.ObjectType(purgeType)
	if purgeType != "" && !objectType.IsValid() {
		return fmt.Errorf("unknown object type %q (want workbook, datasource or view)", purgeType)
	}

	if !purgeYes {
		scope := "all records"
		if purgeType != "" {
			scope = purgeType + " records"
		}
		cmd.Printf("Delete %s for site %s? [y/N]: ", scope, purgeSite)
		var answer string
		_, _ = fmt.Fscanln(cmd.InOrStdin(), &answer)
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			cmd.Println("Aborted.")
			return nil
		}
	}

	deleted, err := metadataStore.DeleteRecords(cmd.Context(), purgeSite, objectType)
	if err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	cmd.Printf("Deleted %d records for site %s.\n", deleted, purgeSite)
	return nil
}
