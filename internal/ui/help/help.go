package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/cotable/internal/ui/theme"
)

// Section groups related key bindings under a title
type Section struct {
	Title    string
	Bindings []key.Binding
}

// Render creates the help view
func Render(width, height int, th theme.Theme, title, footer string, sections []Section) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.BorderFocused).
		Padding(1, 0)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.Info).
		Padding(0, 0, 0, 2)

	keyStyle := lipgloss.NewStyle().
		Foreground(th.Warning).
		Width(20)

	descStyle := lipgloss.NewStyle().
		Foreground(th.Foreground)

	var b strings.Builder

	b.WriteString(titleStyle.Render("cotable - " + title))
	b.WriteString("\n\n")

	for _, section := range sections {
		b.WriteString(sectionStyle.Render(section.Title))
		b.WriteString("\n")
		for _, kb := range section.Bindings {
			if !kb.Enabled() {
				continue
			}
			h := kb.Help()
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(h.Key))
			b.WriteString(descStyle.Render(h.Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if footer != "" {
		b.WriteString(lipgloss.NewStyle().Faint(true).Render(footer))
	}

	boxWidth := width - 4
	if boxWidth < 20 {
		boxWidth = 20
	}
	boxHeight := height - 4
	if boxHeight < 5 {
		boxHeight = 5
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.BorderFocused).
		Padding(1, 2).
		Width(boxWidth).
		Height(boxHeight)

	return boxStyle.Render(b.String())
}
