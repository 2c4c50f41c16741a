package domain

import "time"

// ObjectType identifies the kind of platform object a record describes.
type ObjectType string

const (
	// ObjectTypeWorkbook is a workbook (a collection of views).
	ObjectTypeWorkbook ObjectType = "workbook"
	// ObjectTypeDatasource is a published datasource.
	ObjectTypeDatasource ObjectType = "datasource"
	// ObjectTypeView is a single sheet or dashboard within a workbook.
	ObjectTypeView ObjectType = "view"
)

// AllObjectTypes returns every supported object type.
func AllObjectTypes() []ObjectType {
	return []ObjectType{ObjectTypeWorkbook, ObjectTypeDatasource, ObjectTypeView}
}

// IsValid returns true if the object type is one of the supported kinds.
func (t ObjectType) IsValid() bool {
	switch t {
	case ObjectTypeWorkbook, ObjectTypeDatasource, ObjectTypeView:
		return true
	}
	return false
}

// String returns the string representation.
func (t ObjectType) String() string {
	return string(t)
}

// SearchPriority returns the ranking weight for an object type.
// Views answer "where do I find X" queries most directly, so they
// rank above workbooks, which rank above datasources.
func (t ObjectType) SearchPriority() int {
	switch t {
	case ObjectTypeView:
		return 3
	case ObjectTypeWorkbook:
		return 2
	case ObjectTypeDatasource:
		return 1
	default:
		return 0
	}
}

// FieldDetail carries structured information about a single datasource
// field. It is stored alongside the flattened field name list and is
// never used for ranking.
type FieldDetail struct {
	// Name is the field name.
	Name string `json:"name"`

	// Description is the field description, empty when the platform
	// has none.
	Description string `json:"description"`

	// DataType is the platform data type (e.g. "INTEGER", "STRING").
	DataType string `json:"data_type"`

	// Nullable reports whether the field admits nulls.
	Nullable bool `json:"is_nullable"`
}

// DatasourceRef names a datasource attached to a view together with the
// field names it contributes.
type DatasourceRef struct {
	// Name is the datasource name.
	Name string `json:"name"`

	// Fields are the field names the datasource contributes to the view.
	Fields []string `json:"fields"`
}

// CanonicalRecord is the normalized representation of a platform object.
// It is the unit of storage, embedding and search.
//
// Missing inbound metadata always normalizes to the empty string or an
// empty slice, never to a null sentinel.
type CanonicalRecord struct {
	// SiteID is the platform site the record belongs to. Every query
	// and write is scoped by it.
	SiteID string

	// ObjectType is the kind of platform object.
	ObjectType ObjectType

	// ObjectID is the platform's unique identifier for the object.
	ObjectID string

	// Title is the object's display name.
	Title string

	// Description is plain text or a JSON-encoded structured
	// description. Use ParseDescription to interpret it.
	Description string

	// Tags are the object's tag names. Order is not significant.
	Tags []string

	// Fields are flattened field names. Ordered; always empty for
	// workbooks.
	Fields []string

	// FieldDetails carries structured per-field information for
	// datasources. Informational only.
	FieldDetails []FieldDetail

	// ProjectName is the containing project's name.
	ProjectName string

	// Owner is the owning user's display name.
	Owner string

	// SourceURL is the content URL relative to the platform server
	// (e.g. "views/Sales/Overview").
	SourceURL string

	// DeepLinkURL is the browser-openable deep link built from
	// SourceURL. Empty when SourceURL is empty; a plain server URL
	// join when SourceURL has an unrecognized shape.
	DeepLinkURL string

	// WorkbookName is the parent workbook's name. Views only.
	WorkbookName string

	// SheetType is the view's sheet type (e.g. "dashboard"). Views only.
	SheetType string

	// Datasources lists the datasources attached to a view. Views only.
	Datasources []DatasourceRef

	// TextBlob is the derived search document. Lowercase, whitespace
	// collapsed. See the tableau normaliser for the assembly rules.
	TextBlob string

	// SearchPriority is the type-derived ranking weight.
	SearchPriority int

	// Embedding is the unit-normalized vector for TextBlob. Nil until
	// generated; EmbeddingDimensions entries when present.
	Embedding []float32

	// UpdatedAt is when the record was last written.
	UpdatedAt time.Time
}

// EmbeddingDimensions is the expected embedding vector size
// (all-MiniLM class models).
const EmbeddingDimensions = 384

// Key returns the record's unique identity within the store.
func (r *CanonicalRecord) Key() RecordKey {
	return RecordKey{SiteID: r.SiteID, ObjectType: r.ObjectType, ObjectID: r.ObjectID}
}

// HasEmbedding returns true when an embedding vector is present.
func (r *CanonicalRecord) HasEmbedding() bool {
	return len(r.Embedding) > 0
}

// RecordKey is the composite primary key of a CanonicalRecord.
type RecordKey struct {
	SiteID     string
	ObjectType ObjectType
	ObjectID   string
}
