package tui

import "github.com/charmbracelet/lipgloss"

// Colour palette (ANSI 256).
//
//nolint:gochecknoglobals // Shared, read-only styles.
var (
	ColorHeader    = lipgloss.Color("39")
	ColorLabel     = lipgloss.Color("245")
	ColorValue     = lipgloss.Color("252")
	ColorMuted     = lipgloss.Color("241")
	ColorHighlight = lipgloss.Color("57")
	ColorBorder    = lipgloss.Color("240")
	ColorSpinner   = lipgloss.Color("205")
	ColorCritical  = lipgloss.Color("196")
	ColorOK        = lipgloss.Color("42")
)

//nolint:gochecknoglobals // Shared, read-only styles.
var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorHeader)
	LabelStyle  = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle  = lipgloss.NewStyle().Foreground(ColorValue)
	SubtleStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	InfoStyle   = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)

	// CriticalStyle is used for error text and the alert box border.
	CriticalStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorCritical)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	AlertBoxStyle = BoxStyle.BorderForeground(ColorCritical)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorHeader).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(ColorBorder)
	TableSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(ColorHighlight)

	// Page buttons.
	ButtonStyle        = lipgloss.NewStyle().Foreground(ColorValue).Padding(0, 1)
	ActiveButtonStyle  = ButtonStyle.Bold(true).Foreground(ColorOK).Underline(true)
	FocusedButtonStyle = ButtonStyle.Reverse(true)
)
