package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the board.
type Theme struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Column      lipgloss.Style
	ColumnTitle lipgloss.Style
	Card        lipgloss.Style
	CardName    lipgloss.Style
	CardMeta    lipgloss.Style
	Help        lipgloss.Style
	Primary     lipgloss.Color
	Muted       lipgloss.Color
	Border      lipgloss.Color
}

// Default is the default theme.
var Default = Theme{
	Primary: lipgloss.Color("#7aa2f7"),
	Muted:   lipgloss.Color("#565f89"),
	Border:  lipgloss.Color("#404040"),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")).
		MarginBottom(1),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Column: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(0, 1),
	ColumnTitle: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7aa2f7")),
	Card: lipgloss.NewStyle().
		PaddingLeft(1),
	CardName: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#c0caf5")),
	CardMeta: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#565f89")),
	Help: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#565f89")).
		MarginTop(1),
}
