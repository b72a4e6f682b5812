package history

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	header    lipgloss.Style
	party     lipgloss.Style
	detail    lipgloss.Style
	label     lipgloss.Style
	meta      lipgloss.Style
	cancelled lipgloss.Style
	gain      lipgloss.Style
	loss      lipgloss.Style
	hq        lipgloss.Style
	section   lipgloss.Style
	empty     lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true),
		header:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		party:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		label:     lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		meta:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		cancelled: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		gain:      lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		loss:      lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		hq:        lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		section:   lipgloss.NewStyle().MarginTop(1),
		empty:     lipgloss.NewStyle().Faint(true),
	}
}
