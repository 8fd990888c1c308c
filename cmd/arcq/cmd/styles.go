package cmd

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	// Diagnostic origins
	originStyles = map[string]lipgloss.Style{
		"lexical":  lipgloss.NewStyle().Foreground(colorWarning),
		"syntax":   lipgloss.NewStyle().Foreground(colorError),
		"semantic": lipgloss.NewStyle().Foreground(colorPrimary),
		"internal": lipgloss.NewStyle().Foreground(colorError).Underline(true),
	}

	// Token table columns
	lexemeStyle = lipgloss.NewStyle().Bold(true)
	descStyle   = lipgloss.NewStyle().Foreground(colorSuccess)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)

func originStyle(origin string) lipgloss.Style {
	if s, ok := originStyles[origin]; ok {
		return s
	}
	return mutedStyle
}
