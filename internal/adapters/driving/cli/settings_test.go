package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
)

func TestSettingsShowCommand(t *testing.T) {
	settings := newMockSettingsService()
	settings.settings.Platform = domain.PlatformSettings{
		ServerURL: "https://tableau.example.com",
		PATName:   "vizier",
		PATSecret: "secret-token-1234",
		SiteName:  "analytics",
	}
	withServices(t, &Services{Settings: settings})

	output, err := executeCommand(t, "settings", "show")
	require.NoError(t, err)

	assert.Contains(t, output, "Server URL: https://tableau.example.com")
	assert.Contains(t, output, "Site:       analytics")
	// Secrets are masked, never echoed.
	assert.NotContains(t, output, "secret-token-1234")
	assert.Contains(t, output, "Configuration is valid.")
}

func TestSettingsSetCommand(t *testing.T) {
	t.Run("sets string key", func(t *testing.T) {
		settings := newMockSettingsService()
		withServices(t, &Services{Settings: settings})

		output, err := executeCommand(t, "settings", "set", "platform.server_url", "https://t.example.com")
		require.NoError(t, err)
		assert.Contains(t, output, "Set platform.server_url.")
		assert.Equal(t, "https://t.example.com", settings.settings.Platform.ServerURL)
	})

	t.Run("sets integer key", func(t *testing.T) {
		settings := newMockSettingsService()
		withServices(t, &Services{Settings: settings})

		_, err := executeCommand(t, "settings", "set", "index.rate_limit_per_minute", "120")
		require.NoError(t, err)
		assert.Equal(t, 120, settings.settings.Index.RateLimitPerMinute)
	})

	t.Run("sets project filter list", func(t *testing.T) {
		settings := newMockSettingsService()
		withServices(t, &Services{Settings: settings})

		_, err := executeCommand(t, "settings", "set", "platform.project_filter", "Finance, Sales")
		require.NoError(t, err)
		assert.Equal(t, []string{"Finance", "Sales"}, settings.settings.Platform.ProjectFilter)
	})

	t.Run("rejects non-integer value", func(t *testing.T) {
		withServices(t, &Services{Settings: newMockSettingsService()})

		_, err := executeCommand(t, "settings", "set", "search.default_limit", "lots")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "wants an integer")
	})

	t.Run("rejects unknown provider", func(t *testing.T) {
		withServices(t, &Services{Settings: newMockSettingsService()})

		_, err := executeCommand(t, "settings", "set", "embedding.provider", "cohere")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown provider "cohere"`)
	})

	t.Run("rejects unknown key", func(t *testing.T) {
		withServices(t, &Services{Settings: newMockSettingsService()})

		_, err := executeCommand(t, "settings", "set", "platform.password", "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown setting "platform.password"`)
	})
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Finance", "Sales"}, splitList("Finance, Sales"))
	assert.Equal(t, []string{"Finance"}, splitList("Finance,"))
	assert.Empty(t, splitList(" , "))
}

// Test helper functions in settings.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}
