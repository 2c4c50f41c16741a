// Package styles provides the colour theme and lipgloss styles for the
// search TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the colour palette the styles are built from.
type Theme struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Background lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Border     lipgloss.Color
}

// DefaultTheme returns the vizier palette.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#2563EB"), // Blue
		Secondary:  lipgloss.Color("#0D9488"), // Teal
		Background: lipgloss.Color("#1E1E2E"),
		Foreground: lipgloss.Color("#CDD6F4"),
		Muted:      lipgloss.Color("#6C7086"),
		Success:    lipgloss.Color("#A6E3A1"),
		Warning:    lipgloss.Color("#F9E2AF"),
		Error:      lipgloss.Color("#F38BA8"),
		Border:     lipgloss.Color("#45475A"),
	}
}

// Styles holds the pre-built lipgloss styles the components render with.
// Title/Subtitle mark result titles and object kinds, Selected highlights
// the focused result row, and StatusBar/Help style the bottom chrome.
type Styles struct {
	theme *Theme

	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Normal     lipgloss.Style
	Muted      lipgloss.Style
	Selected   lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Help       lipgloss.Style
	Border     lipgloss.Style
}

// NewStyles builds styles from a theme. A nil theme gets the default.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	base := lipgloss.NewStyle()
	border := base.BorderStyle(lipgloss.RoundedBorder()).BorderForeground(theme.Border)

	return &Styles{
		theme: theme,

		Title:      base.Bold(true).Foreground(theme.Primary),
		Subtitle:   base.Bold(true).Foreground(theme.Secondary),
		Normal:     base.Foreground(theme.Foreground),
		Muted:      base.Foreground(theme.Muted),
		Selected:   base.Bold(true).Foreground(theme.Foreground).Background(theme.Primary),
		Error:      base.Foreground(theme.Error),
		Success:    base.Foreground(theme.Success),
		Warning:    base.Foreground(theme.Warning),
		InputField: border.Padding(0, 1),
		StatusBar:  base.Foreground(theme.Muted).Background(lipgloss.Color("#181825")).Padding(0, 1),
		Help:       base.Foreground(theme.Muted),
		Border:     border,
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme these styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}
