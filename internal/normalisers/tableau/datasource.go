package tableau

import (
	"fmt"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
)

// DatasourceRecord builds the canonical record for a datasource payload.
// Field names are flattened into the search text so column-level terms
// match the datasource that carries them.
func (n *Normaliser) DatasourceRecord(raw domain.RawDatasource) domain.CanonicalRecord {
	desc := domain.ParseDescription(raw.Description)
	tags := raw.Tags.Names()
	fields := fieldNames(raw.Fields)

	rec := domain.CanonicalRecord{
		SiteID:       n.siteID,
		ObjectType:   domain.ObjectTypeDatasource,
		ObjectID:     raw.ID,
		Title:        raw.Name,
		Description:  raw.Description,
		Tags:         tags,
		Fields:       fields,
		FieldDetails: fieldDetails(raw.Fields),
		ProjectName:  projectName(raw.Project),
		Owner:        ownerName(raw.Owner),
		SourceURL:    raw.ContentURL,
		DeepLinkURL:  DeepLinkURL(n.serverURL, n.siteName, domain.ObjectTypeDatasource, raw.ContentURL),
	}
	rec.SearchPriority = rec.ObjectType.SearchPriority()
	context := fmt.Sprintf("datasource %s with %d fields", raw.Name, len(fields))
	rec.TextBlob = TextBlob(rec.Title, desc.SearchText(), tags, fields,
		rec.ProjectName, rec.Owner, context)
	return rec
}

// fieldNames flattens a field list to its non-empty names, in order.
func fieldNames(fields []domain.RawField) []string {
	if len(fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.Name != "" {
			names = append(names, f.Name)
		}
	}
	return names
}

func fieldDetails(fields []domain.RawField) []domain.FieldDetail {
	if len(fields) == 0 {
		return nil
	}
	details := make([]domain.FieldDetail, 0, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			continue
		}
		details = append(details, domain.FieldDetail{
			Name:        f.Name,
			Description: f.Description,
			DataType:    f.DataType,
			Nullable:    f.IsNullable,
		})
	}
	return details
}
