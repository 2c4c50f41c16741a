package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
)

var getType string

var getCmd = &cobra.Command{
	Use:   "get [object-id]",
	Short: "Show one record in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	getCmd.Flags().StringVarP(&getType, "type", "t", "", "expected object type (errors when it differs)")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	if metadataStore == nil {
		return errors.New("metadata store not configured")
	}

	record, err := metadataStore.FindByObjectID(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no record with object ID %q", args[0])
		}
		return fmt.Errorf("failed to load record: %w", err)
	}

	if getType != "" && record.ObjectType != domain.ObjectType(getType) {
		return fmt.Errorf("object %q is a %s, not a %s", args[0], record.ObjectType, getType)
	}

	outputRecordDetail(cmd, record)
	return nil
}

func outputRecordDetail(cmd *cobra.Command, rec *domain.CanonicalRecord) {
	cmd.Printf("%s (%s)\n", rec.Title, rec.ObjectType)
	cmd.Printf("  Object ID:  %s\n", rec.ObjectID)
	cmd.Printf("  Site:       %s\n", rec.SiteID)
	if rec.ProjectName != "" {
		cmd.Printf("  Project:    %s\n", rec.ProjectName)
	}
	if rec.Owner != "" {
		cmd.Printf("  Owner:      %s\n", rec.Owner)
	}
	if rec.WorkbookName != "" {
		cmd.Printf("  Workbook:   %s\n", rec.WorkbookName)
	}
	if rec.SheetType != "" {
		cmd.Printf("  Sheet type: %s\n", rec.SheetType)
	}
	if len(rec.Tags) > 0 {
		cmd.Printf("  Tags:       %s\n", strings.Join(rec.Tags, ", "))
	}
	if rec.DeepLinkURL != "" {
		cmd.Printf("  URL:        %s\n", rec.DeepLinkURL)
	}
	embedded := "no"
	if rec.HasEmbedding() {
		embedded = "yes"
	}
	cmd.Printf("  Embedded:   %s\n", embedded)

	outputDescription(cmd, rec.Description)

	if len(rec.Fields) > 0 {
		cmd.Println()
		cmd.Printf("  Fields (%d):\n", len(rec.Fields))
		for _, detail := range rec.FieldDetails {
			line := "    " + detail.Name
			if detail.DataType != "" {
				line += " (" + detail.DataType + ")"
			}
			if detail.Description != "" {
				line += " - " + detail.Description
			}
			cmd.Println(line)
		}
		if len(rec.FieldDetails) == 0 {
			cmd.Printf("    %s\n", strings.Join(rec.Fields, ", "))
		}
	}

	if len(rec.Datasources) > 0 {
		cmd.Println()
		cmd.Println("  Datasources:")
		for _, ds := range rec.Datasources {
			if len(ds.Fields) > 0 {
				cmd.Printf("    %s (%s)\n", ds.Name, strings.Join(ds.Fields, ", "))
			} else {
				cmd.Printf("    %s\n", ds.Name)
			}
		}
	}
}

func outputDescription(cmd *cobra.Command, raw string) {
	desc := domain.ParseDescription(raw)
	if !desc.IsStructured() {
		if strings.TrimSpace(desc.PlainText) != "" {
			cmd.Println()
			cmd.Printf("  Description: %s\n", desc.PlainText)
		}
		return
	}

	s := desc.Structured
	cmd.Println()
	cmd.Printf("  Description: %s\n", s.DetailedDescription)
	if s.Purpose != "" {
		cmd.Printf("  Purpose:     %s\n", s.Purpose)
	}
	if len(s.KeyMetrics) > 0 {
		cmd.Printf("  Key metrics: %s\n", strings.Join(s.KeyMetrics, ", "))
	}
	if s.UsageNotes != "" {
		cmd.Printf("  Usage:       %s\n", s.UsageNotes)
	}
	if s.TargetAudience != "" {
		cmd.Printf("  Audience:    %s\n", s.TargetAudience)
	}
}
