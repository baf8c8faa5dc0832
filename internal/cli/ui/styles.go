package ui

import "github.com/charmbracelet/lipgloss"

var (
	baseStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Bold(true).
			Padding(0, 1).
			Align(lipgloss.Center)

	subHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)

	descStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	footerStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	offlineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("160")).
			Bold(true).
			Padding(0, 1)

	levelStyles = map[string]lipgloss.Style{
		"INFO":  lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		"WARN":  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		"ERROR": lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		"DEBUG": lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		"FATAL": lipgloss.NewStyle().Foreground(lipgloss.Color("201")),
	}

	timeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func helpLine(pairs ...[2]string) string {
	out := ""
	for i, p := range pairs {
		out += keyStyle.Render(p[0]) + descStyle.Render(": "+p[1])
		if i < len(pairs)-1 {
			out += descStyle.Render(" • ")
		}
	}
	return out
}
