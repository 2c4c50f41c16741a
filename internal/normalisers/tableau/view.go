package tableau

import (
	"fmt"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
)

// ViewRecord builds the canonical record for a view payload. Views
// inherit their project from the parent workbook context stamped on
// during the comprehensive fetch; a view without that context keeps an
// empty project and workbook name.
func (n *Normaliser) ViewRecord(raw domain.RawView) domain.CanonicalRecord {
	desc := domain.ParseDescription(raw.Description)
	tags := raw.Tags.Names()

	var workbookName, project string
	if raw.Workbook != nil {
		workbookName = raw.Workbook.Name
		project = raw.Workbook.ProjectName
	}

	fields, datasources := viewFields(raw.Datasources)

	rec := domain.CanonicalRecord{
		SiteID:       n.siteID,
		ObjectType:   domain.ObjectTypeView,
		ObjectID:     raw.ID,
		Title:        raw.Name,
		Description:  raw.Description,
		Tags:         tags,
		Fields:       fields,
		ProjectName:  project,
		Owner:        ownerName(raw.Owner),
		SourceURL:    raw.ContentURL,
		DeepLinkURL:  DeepLinkURL(n.serverURL, n.siteName, domain.ObjectTypeView, raw.ContentURL),
		WorkbookName: workbookName,
		SheetType:    raw.SheetType,
		Datasources:  datasources,
	}
	rec.SearchPriority = rec.ObjectType.SearchPriority()
	context := fmt.Sprintf("view %s in workbook %s type %s", raw.Name, workbookName, raw.SheetType)
	rec.TextBlob = TextBlob(rec.Title, desc.SearchText(), tags, fields,
		rec.ProjectName, rec.Owner, context)
	return rec
}

// viewFields flattens the per-datasource field groups of a view into a
// single field name list, and keeps the per-datasource grouping for
// display. Unnamed groups contribute fields but no datasource ref.
func viewFields(groups []domain.RawViewDatasource) ([]string, []domain.DatasourceRef) {
	if len(groups) == 0 {
		return nil, nil
	}

	var fields []string
	refs := make([]domain.DatasourceRef, 0, len(groups))
	for _, g := range groups {
		names := fieldNames(g.Fields)
		fields = append(fields, names...)
		if g.Name != "" {
			refs = append(refs, domain.DatasourceRef{Name: g.Name, Fields: names})
		}
	}
	if len(refs) == 0 {
		refs = nil
	}
	return fields, refs
}
