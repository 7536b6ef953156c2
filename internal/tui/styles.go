package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Zachkp/portfolio/internal/contact"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})

	labelStyle = lipgloss.NewStyle().
			Width(9).
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"})

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})

	disabledButtonStyle = buttonStyle.
				Background(lipgloss.AdaptiveColor{Light: "250", Dark: "240"})

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "2", Dark: "10"})
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "1", Dark: "9"})
)

// statusLine renders the status text under the form.
func statusLine(st contact.Status) string {
	switch st.State {
	case contact.Succeeded:
		return successStyle.Render("✓ " + st.Message)
	case contact.Failed:
		return failureStyle.Render("✗ " + st.Message)
	default:
		return ""
	}
}
