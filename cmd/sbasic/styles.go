package main

import "github.com/charmbracelet/lipgloss"

var (
	colorError   = lipgloss.Color("#EF4444")
	colorWarning = lipgloss.Color("#F59E0B")
	colorAccent  = lipgloss.Color("#8B5CF6")
	colorSuccess = lipgloss.Color("#10B981")
	colorMuted   = lipgloss.Color("#6B7280")
	colorText    = lipgloss.Color("#F8FAFC")
	colorCurrent = lipgloss.Color("#334155")
)

var styles = struct {
	Error     lipgloss.Style
	Code      lipgloss.Style
	Location  lipgloss.Style
	Source    lipgloss.Style
	Caret     lipgloss.Style
	Success   lipgloss.Style
	Title     lipgloss.Style
	Panel     lipgloss.Style
	Current   lipgloss.Style
	LineNo    lipgloss.Style
	Paused    lipgloss.Style
	Help      lipgloss.Style
	Highlight lipgloss.Style
}{
	Error:    lipgloss.NewStyle().Foreground(colorError).Bold(true),
	Code:     lipgloss.NewStyle().Foreground(colorWarning),
	Location: lipgloss.NewStyle().Bold(true),
	Source:   lipgloss.NewStyle().Foreground(colorMuted),
	Caret:    lipgloss.NewStyle().Foreground(colorError),
	Success:  lipgloss.NewStyle().Foreground(colorSuccess),
	Title:    lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
	Panel: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		Padding(0, 1),
	Current:   lipgloss.NewStyle().Background(colorCurrent).Foreground(colorText),
	LineNo:    lipgloss.NewStyle().Foreground(colorMuted),
	Paused:    lipgloss.NewStyle().Foreground(colorWarning).Bold(true),
	Help:      lipgloss.NewStyle().Foreground(colorMuted).Italic(true),
	Highlight: lipgloss.NewStyle().Foreground(colorAccent),
}
