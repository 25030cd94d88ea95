package components

import (
	"github.com/charmbracelet/lipgloss"
)

// Panel frames the table with a border and an optional title
type Panel struct {
	Title   string
	Content string
	Width   int
	Height  int
	Focused bool
	Style   lipgloss.Style

	BorderColor        lipgloss.Color
	FocusedBorderColor lipgloss.Color
}

// View renders the panel
func (p *Panel) View() string {
	if p.Width <= 0 || p.Height <= 0 {
		return ""
	}

	border := p.BorderColor
	if p.Focused && p.FocusedBorderColor != "" {
		border = p.FocusedBorderColor
	}

	style := p.Style.
		Width(p.Width).
		Height(p.Height).
		MaxHeight(p.Height + 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border)

	content := p.Content
	if p.Title != "" {
		titleStyle := lipgloss.NewStyle().Bold(true).Foreground(border).Padding(0, 1)
		content = titleStyle.Render(p.Title) + "\n" + content
	}

	return style.Render(content)
}
