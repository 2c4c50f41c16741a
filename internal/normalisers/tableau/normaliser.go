package tableau

import (
	"github.com/custodia-labs/vizier-cli/internal/core/domain"
	"github.com/custodia-labs/vizier-cli/internal/logger"
)

// Normaliser converts raw platform payloads into canonical records for
// one site. Deep links are stamped from the server URL and site name it
// was created with.
type Normaliser struct {
	siteID    string
	serverURL string
	siteName  string
}

// New creates a Normaliser scoped to a single site.
func New(siteID, serverURL, siteName string) *Normaliser {
	return &Normaliser{siteID: siteID, serverURL: serverURL, siteName: siteName}
}

// NormalizeMetadata converts every payload in metadata into a canonical
// record, in workbook, datasource, view order. Payloads without an ID
// cannot be addressed in the store; they are logged and skipped rather
// than failing the whole batch.
func (n *Normaliser) NormalizeMetadata(metadata *domain.PlatformMetadata) []domain.CanonicalRecord {
	if metadata == nil {
		return nil
	}

	records := make([]domain.CanonicalRecord, 0, metadata.Total())
	for _, wb := range metadata.Workbooks {
		if wb.ID == "" {
			logger.Warn("Skipping workbook %q: no object ID", wb.Name)
			continue
		}
		records = append(records, n.WorkbookRecord(wb))
	}
	for _, ds := range metadata.Datasources {
		if ds.ID == "" {
			logger.Warn("Skipping datasource %q: no object ID", ds.Name)
			continue
		}
		records = append(records, n.DatasourceRecord(ds))
	}
	for _, v := range metadata.Views {
		if v.ID == "" {
			logger.Warn("Skipping view %q: no object ID", v.Name)
			continue
		}
		records = append(records, n.ViewRecord(v))
	}

	logger.Info("Normalized %d records for site %s", len(records), n.siteID)
	return records
}

func ownerName(o *domain.RawOwner) string {
	if o == nil {
		return ""
	}
	return o.Name
}

func projectName(p *domain.RawProject) string {
	if p == nil {
		return ""
	}
	return p.Name
}
