package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vizier-cli/internal/adapters/driving/tui/styles"
)

func newTestInput(t *testing.T) *SearchInput {
	t.Helper()
	return NewSearchInput(styles.DefaultStyles())
}

func TestSearchInput_TypeAndValue(t *testing.T) {
	si := newTestInput(t)
	require.True(t, si.Focused())

	for _, r := range []rune("sales") {
		si, _ = si.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	assert.Equal(t, "sales", si.Value())

	si.Reset()
	assert.Empty(t, si.Value())
}

func TestSearchInput_FocusBlur(t *testing.T) {
	si := newTestInput(t)

	si.Blur()
	assert.False(t, si.Focused())

	cmd := si.Focus()
	assert.NotNil(t, cmd)
	assert.True(t, si.Focused())
}

func TestSearchInput_SetWidth(t *testing.T) {
	si := newTestInput(t)

	si.SetWidth(120)
	assert.Equal(t, 120, si.Width())
}
