package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yesilw0rks/airnote/pkg/view"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	headingStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	frameStyle   = lipgloss.NewStyle().Padding(1, 2)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(9)

	statusStyles = map[view.Status]lipgloss.Style{
		view.StatusSynced:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		view.StatusOffline: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		view.StatusPending: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	}
)

// renderBody draws note markup for the terminal: headings are styled and
// list items get a bullet. Inline markers are left as typed.
func renderBody(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "## "):
			lines[i] = headingStyle.Render(strings.TrimPrefix(line, "## "))
		case strings.HasPrefix(line, "- "):
			lines[i] = "  • " + strings.TrimPrefix(line, "- ")
		}
	}
	return strings.Join(lines, "\n")
}

func statusBadge(s view.Status) string {
	style, ok := statusStyles[s]
	if !ok {
		return string(s)
	}
	return style.Render("● " + string(s))
}
