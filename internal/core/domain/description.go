package domain

import (
	"encoding/json"
	"strings"
)

// StructuredDescription is the rich description form curated by report
// authors. It is stored JSON-encoded in a record's Description column.
type StructuredDescription struct {
	// DetailedDescription is the full paragraph description.
	DetailedDescription string `json:"detailed_description"`

	// Purpose states what the object is used for.
	Purpose string `json:"purpose"`

	// KeyMetrics lists the headline measures the object exposes.
	KeyMetrics []string `json:"key_metrics"`

	// UsageNotes explains how to use the object effectively.
	UsageNotes string `json:"usage_notes"`

	// TargetAudience names who the object is intended for.
	TargetAudience string `json:"target_audience"`
}

// RichDescription is the parsed form of a record's Description column.
// Exactly one of the two variants is populated: Structured when the
// column held a valid structured JSON document, otherwise PlainText.
type RichDescription struct {
	// PlainText is the raw description for the plain variant.
	PlainText string

	// Structured is the parsed document for the structured variant.
	Structured *StructuredDescription
}

// IsStructured returns true for the structured variant.
func (d RichDescription) IsStructured() bool {
	return d.Structured != nil
}

// SearchText returns the description text that participates in blobs
// and quality statistics. The structured variant flattens every
// populated section; the plain variant returns the string unchanged.
func (d RichDescription) SearchText() string {
	if d.Structured == nil {
		return d.PlainText
	}

	parts := make([]string, 0, 5)
	if s := strings.TrimSpace(d.Structured.DetailedDescription); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(d.Structured.Purpose); s != "" {
		parts = append(parts, s)
	}
	if len(d.Structured.KeyMetrics) > 0 {
		parts = append(parts, strings.Join(d.Structured.KeyMetrics, " "))
	}
	if s := strings.TrimSpace(d.Structured.UsageNotes); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(d.Structured.TargetAudience); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// ParseDescription interprets a Description column value. Values that
// decode to a JSON object with a non-empty detailed_description become
// the structured variant; everything else, including malformed JSON,
// falls back to the plain variant with the input unchanged.
func ParseDescription(raw string) RichDescription {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return RichDescription{PlainText: raw}
	}

	var structured StructuredDescription
	if err := json.Unmarshal([]byte(trimmed), &structured); err != nil {
		return RichDescription{PlainText: raw}
	}
	if strings.TrimSpace(structured.DetailedDescription) == "" {
		return RichDescription{PlainText: raw}
	}

	return RichDescription{Structured: &structured}
}
