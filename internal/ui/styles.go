package ui

import "github.com/charmbracelet/lipgloss"

const (
	accent      = lipgloss.Color("#FF8C42")
	accentLight = lipgloss.Color("#FFB84D")
	muted       = lipgloss.Color("#6B7280")
	white       = lipgloss.Color("#FFFFFF")
	danger      = lipgloss.Color("#FF4757")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			MarginTop(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(muted).
			MarginBottom(1)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true)

	UnselectedStyle = lipgloss.NewStyle().
			Foreground(white)

	CheckedStyle = lipgloss.NewStyle().
			Foreground(accentLight).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(danger).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(accentLight).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(muted).
			MarginTop(1)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2)

	TabStyle = lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true).
			Underline(true).
			Padding(0, 1)

	StatusStyle = lipgloss.NewStyle().
			Foreground(muted)

	TypeStyles = map[string]lipgloss.Style{
		"numeric":     lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90")),
		"categorical": lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		"date":        lipgloss.NewStyle().Foreground(lipgloss.Color("#DDA0DD")),
		"unknown":     lipgloss.NewStyle().Foreground(muted),
	}
)
