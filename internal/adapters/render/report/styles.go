package report

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	profile lipgloss.Style
	detail  lipgloss.Style
	section lipgloss.Style
	empty   lipgloss.Style
	add     lipgloss.Style
	remove  lipgloss.Style
	update  lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		header:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		profile: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		section: lipgloss.NewStyle().MarginTop(1),
		empty:   lipgloss.NewStyle().Faint(true),
		add:     lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		remove:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		update:  lipgloss.NewStyle().Foreground(lipgloss.Color("221")),
		success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("114")),
		warning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("221")),
		failure: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
	}
}

func (s styles) outcome(outcome string) lipgloss.Style {
	switch outcome {
	case "success":
		return s.success
	case "partial", "dry_run":
		return s.warning
	default:
		return s.failure
	}
}
