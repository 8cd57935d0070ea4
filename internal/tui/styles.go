package tui

import "github.com/charmbracelet/lipgloss"

// Styles groups all lipgloss styles used by the screens.
type Styles struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Header    lipgloss.Style
	Selected  lipgloss.Style
	Dim       lipgloss.Style
	Good      lipgloss.Style
	Warn      lipgloss.Style
	Help      lipgloss.Style
	Modal     lipgloss.Style
	ErrModal  lipgloss.Style
	Overlay   lipgloss.Style
	FieldName lipgloss.Style
}

// DefaultStyles returns the default color scheme.
func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")),
		Subtitle:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).Underline(true),
		Selected:  lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Good:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Warn:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Modal:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(1, 2),
		ErrModal:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("196")).Padding(1, 2),
		Overlay:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("214")).Padding(1, 3),
		FieldName: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}
