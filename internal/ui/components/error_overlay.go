package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rebeliceyang/cotable/internal/i18n"
	"github.com/rebeliceyang/cotable/internal/ui/theme"
)

// ErrorOverlay shows an edge error (config, source, export) over the table
type ErrorOverlay struct {
	Title   string
	Message string
	Theme   theme.Theme
	Strings *i18n.Strings
}

// NewErrorOverlay creates an error overlay
func NewErrorOverlay(th theme.Theme, strs *i18n.Strings, title, message string) *ErrorOverlay {
	if title == "" {
		title = strs.T("error.title")
	}
	return &ErrorOverlay{Title: title, Message: message, Theme: th, Strings: strs}
}

// View renders the overlay centered in width x height
func (e *ErrorOverlay) View(width, height int) string {
	boxWidth := width / 2
	if boxWidth < 40 {
		boxWidth = 40
	}
	if msgWidth := runewidth.StringWidth(e.Message) + 4; msgWidth < boxWidth {
		boxWidth = msgWidth
		if boxWidth < 30 {
			boxWidth = 30
		}
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(e.Theme.Error).Render("✗ " + e.Title)
	body := lipgloss.NewStyle().Foreground(e.Theme.Foreground).Width(boxWidth - 4).Render(e.Message)
	hint := lipgloss.NewStyle().Faint(true).Render(e.Strings.T("error.dismiss"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(e.Theme.Error).
		Padding(1, 2).
		Width(boxWidth).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", hint))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
