package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseDescription_PlainText tests the plain variant fallback
func TestParseDescription_PlainText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"simple text", "Tracks weekly dispensing volumes."},
		{"empty", ""},
		{"malformed json", `{"detailed_description": "broken`},
		{"json array", `["not", "an", "object"]`},
		{"object without detailed_description", `{"purpose": "tracking"}`},
		{"object with empty detailed_description", `{"detailed_description": "  "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := ParseDescription(tt.raw)
			assert.False(t, desc.IsStructured())
			assert.Equal(t, tt.raw, desc.PlainText)
			assert.Equal(t, tt.raw, desc.SearchText())
		})
	}
}

// TestParseDescription_Structured tests the structured variant
func TestParseDescription_Structured(t *testing.T) {
	raw := `{
		"detailed_description": "Consolidates clinical service delivery data.",
		"purpose": "Monitor weekly performance of clinical services.",
		"key_metrics": ["Total services delivered", "Completion rates"],
		"usage_notes": "Review weekly against targets.",
		"target_audience": "Pharmacy managers"
	}`

	desc := ParseDescription(raw)
	require.True(t, desc.IsStructured())
	assert.Equal(t, "Consolidates clinical service delivery data.", desc.Structured.DetailedDescription)
	assert.Equal(t, "Monitor weekly performance of clinical services.", desc.Structured.Purpose)
	assert.Equal(t, []string{"Total services delivered", "Completion rates"}, desc.Structured.KeyMetrics)

	text := desc.SearchText()
	assert.Contains(t, text, "Consolidates clinical service delivery data.")
	assert.Contains(t, text, "Monitor weekly performance of clinical services.")
	assert.Contains(t, text, "Total services delivered Completion rates")
	assert.Contains(t, text, "Review weekly against targets.")
	assert.Contains(t, text, "Pharmacy managers")
}

// TestParseDescription_StructuredMinimal tests a sparse structured document
func TestParseDescription_StructuredMinimal(t *testing.T) {
	desc := ParseDescription(`{"detailed_description": "Just the overview."}`)
	require.True(t, desc.IsStructured())
	assert.Equal(t, "Just the overview.", desc.SearchText())
}

// TestRichDescription_SearchTextDeterminism tests repeated flattening
func TestRichDescription_SearchTextDeterminism(t *testing.T) {
	raw := `{"detailed_description": "Overview.", "key_metrics": ["a", "b"]}`
	first := ParseDescription(raw).SearchText()
	second := ParseDescription(raw).SearchText()
	assert.Equal(t, first, second)
}
