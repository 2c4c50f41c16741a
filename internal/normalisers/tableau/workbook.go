package tableau

import "github.com/custodia-labs/vizier-cli/internal/core/domain"

// WorkbookRecord builds the canonical record for a workbook payload.
// Workbooks carry no fields of their own; the context sentence keeps
// the word "workbook" searchable next to the title.
func (n *Normaliser) WorkbookRecord(raw domain.RawWorkbook) domain.CanonicalRecord {
	desc := domain.ParseDescription(raw.Description)
	tags := raw.Tags.Names()

	rec := domain.CanonicalRecord{
		SiteID:      n.siteID,
		ObjectType:  domain.ObjectTypeWorkbook,
		ObjectID:    raw.ID,
		Title:       raw.Name,
		Description: raw.Description,
		Tags:        tags,
		ProjectName: projectName(raw.Project),
		Owner:       ownerName(raw.Owner),
		SourceURL:   raw.ContentURL,
		DeepLinkURL: DeepLinkURL(n.serverURL, n.siteName, domain.ObjectTypeWorkbook, raw.ContentURL),
	}
	rec.SearchPriority = rec.ObjectType.SearchPriority()
	rec.TextBlob = TextBlob(rec.Title, desc.SearchText(), tags, nil,
		rec.ProjectName, rec.Owner, "workbook "+raw.Name)
	return rec
}
