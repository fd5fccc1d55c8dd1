package cli

import "github.com/charmbracelet/lipgloss"

type styles struct {
	header lipgloss.Style
	path   lipgloss.Style
	label  lipgloss.Style
	warn   lipgloss.Style
	err    lipgloss.Style
	ok     lipgloss.Style
	hint   lipgloss.Style
}

func newStyles() styles {
	return styles{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		path: lipgloss.NewStyle().
			Bold(true),
		label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),
		warn: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),
		err: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		ok: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")),
		hint: lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")).
			Italic(true),
	}
}
