package components

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/cotable/internal/i18n"
	"github.com/rebeliceyang/cotable/internal/search"
	"github.com/rebeliceyang/cotable/internal/ui/theme"
)

// GlobalSearchMsg is sent when the search term should be applied
type GlobalSearchMsg struct {
	Query string
}

// CloseSearchMsg is sent when the search input loses focus
type CloseSearchMsg struct{}

// SearchInput is the global search box. Typing is debounced; Enter applies
// the term immediately.
type SearchInput struct {
	Input     textinput.Model
	Theme     theme.Theme
	Strings   *i18n.Strings
	Width     int
	debouncer *search.Debouncer
	applied   string
}

// NewSearchInput creates a new search input
func NewSearchInput(th theme.Theme, strs *i18n.Strings, debounce time.Duration) *SearchInput {
	ti := textinput.New()
	ti.Placeholder = strs.T("search.placeholder")
	ti.Prompt = "⌕ "
	ti.CharLimit = 256
	ti.Width = 40

	return &SearchInput{
		Input:     ti,
		Theme:     th,
		Strings:   strs,
		debouncer: search.NewDebouncer(debounce),
	}
}

// Focus gives the input keyboard focus
func (s *SearchInput) Focus() tea.Cmd {
	return s.Input.Focus()
}

// Blur removes keyboard focus
func (s *SearchInput) Blur() {
	s.Input.Blur()
}

// Focused reports whether the input has focus
func (s *SearchInput) Focused() bool {
	return s.Input.Focused()
}

// Value returns the current text
func (s *SearchInput) Value() string {
	return s.Input.Value()
}

// Reset clears the input and cancels any pending search
func (s *SearchInput) Reset() tea.Cmd {
	s.Input.SetValue("")
	s.debouncer.Cancel()
	return s.apply("")
}

func (s *SearchInput) apply(query string) tea.Cmd {
	if query == s.applied {
		return nil
	}
	s.applied = query
	return func() tea.Msg {
		return GlobalSearchMsg{Query: query}
	}
}

// Update handles messages
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	switch msg := msg.(type) {
	case search.DebounceMsg:
		if !s.debouncer.IsLatest(msg) {
			return s, nil
		}
		return s, s.apply(msg.Query)

	case tea.KeyMsg:
		if !s.Input.Focused() {
			return s, nil
		}
		switch msg.String() {
		case "enter":
			s.debouncer.Cancel()
			s.Blur()
			return s, tea.Batch(s.apply(s.Input.Value()), closeSearch)
		case "esc":
			s.Blur()
			return s, closeSearch
		}

		before := s.Input.Value()
		var cmd tea.Cmd
		s.Input, cmd = s.Input.Update(msg)
		if after := s.Input.Value(); after != before {
			return s, tea.Batch(cmd, s.debouncer.Trigger(after))
		}
		return s, cmd
	}

	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	return s, cmd
}

func closeSearch() tea.Msg {
	return CloseSearchMsg{}
}

// View renders the search input
func (s *SearchInput) View() string {
	inputWidth := s.Width - 6
	if inputWidth < 20 {
		inputWidth = 20
	}
	s.Input.Width = inputWidth

	border := s.Theme.Border
	if s.Input.Focused() {
		border = s.Theme.BorderFocused
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)

	return boxStyle.Render(s.Input.View())
}
