package domain

// RawOwner is the owner fragment of a platform payload.
type RawOwner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RawProject is the project fragment of a platform payload.
type RawProject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RawTag is a single tag entry.
type RawTag struct {
	Label string `json:"label"`
}

// RawTags wraps the platform's tag list envelope.
type RawTags struct {
	Tags []RawTag `json:"tag"`
}

// Names returns the non-empty tag labels in order.
func (t RawTags) Names() []string {
	names := make([]string, 0, len(t.Tags))
	for _, tag := range t.Tags {
		if tag.Label != "" {
			names = append(names, tag.Label)
		}
	}
	return names
}

// RawField is a datasource field as the platform reports it.
type RawField struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	DataType    string `json:"dataType"`
	IsNullable  bool   `json:"isNullable"`
}

// RawWorkbook is a workbook payload from the platform client.
type RawWorkbook struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	ContentURL  string      `json:"contentUrl"`
	Tags        RawTags     `json:"tags"`
	Project     *RawProject `json:"project"`
	Owner       *RawOwner   `json:"owner"`
	UpdatedAt   string      `json:"updatedAt"`
}

// RawDatasource is a published datasource payload from the platform client.
type RawDatasource struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	ContentURL  string      `json:"contentUrl"`
	Tags        RawTags     `json:"tags"`
	Project     *RawProject `json:"project"`
	Owner       *RawOwner   `json:"owner"`
	Fields      []RawField  `json:"fields"`
	UpdatedAt   string      `json:"updatedAt"`
}

// RawViewWorkbook is the parent workbook context stamped onto each view
// during the comprehensive fetch.
type RawViewWorkbook struct {
	Name        string `json:"name"`
	ProjectName string `json:"projectName"`
}

// RawViewDatasource groups the fields one datasource contributes to a view.
type RawViewDatasource struct {
	Name   string     `json:"name"`
	Fields []RawField `json:"fields"`
}

// RawView is a view payload from the platform client. Workbook is nil
// until the comprehensive fetch stamps the parent context onto it.
type RawView struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	ContentURL  string              `json:"contentUrl"`
	SheetType   string              `json:"sheetType"`
	Tags        RawTags             `json:"tags"`
	Owner       *RawOwner           `json:"owner"`
	Workbook    *RawViewWorkbook    `json:"workbook"`
	Datasources []RawViewDatasource `json:"datasourceFields"`
	UpdatedAt   string              `json:"updatedAt"`
}

// RawProjectInfo is a site project as returned by the project listing.
type RawProjectInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// PlatformMetadata bundles one comprehensive metadata fetch.
type PlatformMetadata struct {
	Workbooks   []RawWorkbook
	Datasources []RawDatasource
	Views       []RawView
}

// Total returns the number of payloads across all types.
func (m *PlatformMetadata) Total() int {
	return len(m.Workbooks) + len(m.Datasources) + len(m.Views)
}
