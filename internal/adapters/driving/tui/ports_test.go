package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vizier-cli/internal/adapters/driven/storage/memory"
)

func TestPorts_Validate(t *testing.T) {
	t.Run("missing search service", func(t *testing.T) {
		ports := &Ports{}
		err := ports.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingSearchService)
	})

	t.Run("search service alone is enough", func(t *testing.T) {
		ports := &Ports{Search: &mockSearchService{}}
		assert.NoError(t, ports.Validate())
	})

	t.Run("store is optional", func(t *testing.T) {
		ports := &Ports{Search: &mockSearchService{}, Store: memory.NewMetadataStore()}
		assert.NoError(t, ports.Validate())
	})
}
