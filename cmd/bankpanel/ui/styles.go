// Package ui renders terminal output for the pipeline commands.
package ui

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles used by the terminal output.
type Styles struct {
	Title lipgloss.Style
	Bold  lipgloss.Style
	Body  lipgloss.Style
	Muted lipgloss.Style
	Warn  lipgloss.Style
}

// DefaultStyles returns the standard color scheme.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Bold:  lipgloss.NewStyle().Bold(true),
		Body:  lipgloss.NewStyle(),
		Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
}
