package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/rebeliceyang/cotable/internal/filter"
	"github.com/rebeliceyang/cotable/internal/i18n"
	"github.com/rebeliceyang/cotable/internal/models"
	"github.com/rebeliceyang/cotable/internal/search"
	"github.com/rebeliceyang/cotable/internal/ui/theme"
)

// ApplyFilterMsg is sent when the edited criterion changes
type ApplyFilterMsg struct {
	Criterion models.FilterCriterion
}

// ClearFilterMsg is sent when a column filter is cleared
type ClearFilterMsg struct {
	ColumnID string
}

// CloseFilterEditorMsg is sent when the filter editor should close
type CloseFilterEditorMsg struct{}

const (
	zoneFilterOptionPrefix = "cotable-filter-opt-"
	zoneFilterSelectAll    = "cotable-filter-all"
	zoneFilterSelectNone   = "cotable-filter-none"
	zoneFilterClear        = "cotable-filter-clear"
)

type editorFocus int

const (
	focusList editorFocus = iota
	focusListSearch
	focusMin
	focusMax
	focusText
)

// FilterEditor edits the criterion of one column. Changes are applied as
// they are made; Enter or Esc closes the editor.
type FilterEditor struct {
	Column  models.Column
	Kind    models.FilterKind
	Popover bool
	Width   int
	Height  int
	Theme   theme.Theme
	Strings *i18n.Strings

	options  []string
	selected map[string]bool
	cursor   int
	offset   int
	focus    editorFocus

	listSearch textinput.Model
	minInput   textinput.Model
	maxInput   textinput.Model
	textInput  textinput.Model

	// Numeric bounds of the column, shown as a hint
	hint string
}

// NewFilterEditor creates a new filter editor
func NewFilterEditor(th theme.Theme, strs *i18n.Strings) *FilterEditor {
	newInput := func(placeholder string, width int) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 128
		ti.Width = width
		ti.Prompt = ""
		return ti
	}

	return &FilterEditor{
		Width:      40,
		Height:     16,
		Theme:      th,
		Strings:    strs,
		selected:   map[string]bool{},
		listSearch: newInput(strs.T("filter.search_values"), 30),
		minInput:   newInput(strs.T("filter.min"), 12),
		maxInput:   newInput(strs.T("filter.max"), 12),
		textInput:  newInput(strs.T("filter.placeholder"), 30),
	}
}

// Open prepares the editor for a column, seeded from the current criterion
func (fe *FilterEditor) Open(col models.Column, rows []models.Row, current models.FilterCriterion) tea.Cmd {
	fe.Column = col
	fe.Kind = col.FilterKindOrDefault()
	fe.selected = map[string]bool{}
	fe.cursor, fe.offset = 0, 0
	fe.hint = ""
	fe.listSearch.SetValue("")
	fe.minInput.SetValue("")
	fe.maxInput.SetValue("")
	fe.textInput.SetValue("")

	switch fe.Kind {
	case models.FilterMultiSelect:
		fe.options = filter.UniqueValues(rows, col)
	case models.FilterMultiChoice:
		fe.options = filter.ChoiceOptions(rows, col)
	default:
		fe.options = nil
	}

	if current.ColumnID == col.Key() {
		for _, s := range current.Selected {
			fe.selected[s] = true
		}
		fe.minInput.SetValue(filter.FormatBound(current.Range.Min))
		fe.maxInput.SetValue(filter.FormatBound(current.Range.Max))
		fe.textInput.SetValue(current.Text)
	}

	if fe.Kind == models.FilterNumberRange {
		if lo, hi, ok := filter.NumericBounds(rows, col); ok {
			fe.hint = strconv.FormatFloat(lo, 'f', -1, 64) + " – " + strconv.FormatFloat(hi, 'f', -1, 64)
		}
	}

	switch fe.Kind {
	case models.FilterNumberRange:
		return fe.setFocus(focusMin)
	case models.FilterSearch:
		return fe.setFocus(focusText)
	default:
		return fe.setFocus(focusList)
	}
}

func (fe *FilterEditor) setFocus(f editorFocus) tea.Cmd {
	fe.focus = f
	fe.listSearch.Blur()
	fe.minInput.Blur()
	fe.maxInput.Blur()
	fe.textInput.Blur()

	switch f {
	case focusListSearch:
		return fe.listSearch.Focus()
	case focusMin:
		return fe.minInput.Focus()
	case focusMax:
		return fe.maxInput.Focus()
	case focusText:
		return fe.textInput.Focus()
	}
	return nil
}

// Criterion returns the criterion being edited
func (fe *FilterEditor) Criterion() models.FilterCriterion {
	c := models.FilterCriterion{ColumnID: fe.Column.Key(), Kind: fe.Kind}
	switch fe.Kind {
	case models.FilterNumberRange:
		c.Range = models.NumberRange{
			Min: filter.ParseBound(fe.minInput.Value()),
			Max: filter.ParseBound(fe.maxInput.Value()),
		}
	case models.FilterSearch:
		c.Text = fe.textInput.Value()
	default:
		// keep option order so the criterion is deterministic
		for _, opt := range fe.options {
			if fe.selected[opt] {
				c.Selected = append(c.Selected, opt)
			}
		}
	}
	return c
}

// Options returns every option of a list editor
func (fe *FilterEditor) Options() []string {
	return fe.options
}

// VisibleOptions returns the options matching the in-list search
func (fe *FilterEditor) VisibleOptions() []string {
	query := strings.TrimSpace(fe.listSearch.Value())
	if query == "" {
		return fe.options
	}
	var out []string
	for _, opt := range fe.options {
		if search.Contains(opt, query) {
			out = append(out, opt)
		}
	}
	return out
}

// IsSelected reports whether an option is checked
func (fe *FilterEditor) IsSelected(option string) bool {
	return fe.selected[option]
}

// Toggle flips one option
func (fe *FilterEditor) Toggle(option string) tea.Cmd {
	if fe.selected[option] {
		delete(fe.selected, option)
	} else {
		fe.selected[option] = true
	}
	return fe.applyCmd()
}

// SelectAll checks every visible option
func (fe *FilterEditor) SelectAll() tea.Cmd {
	for _, opt := range fe.VisibleOptions() {
		fe.selected[opt] = true
	}
	return fe.applyCmd()
}

// SelectNone unchecks every option
func (fe *FilterEditor) SelectNone() tea.Cmd {
	fe.selected = map[string]bool{}
	return fe.applyCmd()
}

// Clear resets the editor and removes the column filter
func (fe *FilterEditor) Clear() tea.Cmd {
	fe.selected = map[string]bool{}
	fe.minInput.SetValue("")
	fe.maxInput.SetValue("")
	fe.textInput.SetValue("")
	fe.listSearch.SetValue("")
	fe.cursor, fe.offset = 0, 0
	columnID := fe.Column.Key()
	return func() tea.Msg {
		return ClearFilterMsg{ColumnID: columnID}
	}
}

func (fe *FilterEditor) applyCmd() tea.Cmd {
	c := fe.Criterion()
	if !filter.IsActive(c) {
		columnID := c.ColumnID
		return func() tea.Msg {
			return ClearFilterMsg{ColumnID: columnID}
		}
	}
	return func() tea.Msg {
		return ApplyFilterMsg{Criterion: c}
	}
}

func closeFilterEditor() tea.Msg {
	return CloseFilterEditorMsg{}
}

func (fe *FilterEditor) isList() bool {
	return fe.Kind == models.FilterMultiSelect || fe.Kind == models.FilterMultiChoice
}

// Update handles keyboard input
func (fe *FilterEditor) Update(msg tea.Msg) (*FilterEditor, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return fe, nil
	}

	if keyMsg.String() == "ctrl+r" {
		return fe, fe.Clear()
	}

	switch fe.focus {
	case focusList:
		return fe.handleListKeys(keyMsg)
	case focusListSearch:
		return fe.handleListSearchKeys(keyMsg)
	case focusMin, focusMax:
		return fe.handleRangeKeys(keyMsg)
	case focusText:
		return fe.handleTextKeys(keyMsg)
	}
	return fe, nil
}

func (fe *FilterEditor) handleListKeys(msg tea.KeyMsg) (*FilterEditor, tea.Cmd) {
	visible := fe.VisibleOptions()
	switch msg.String() {
	case "esc", "enter", "q":
		return fe, closeFilterEditor
	case "up", "k":
		fe.moveCursor(-1, len(visible))
	case "down", "j":
		fe.moveCursor(1, len(visible))
	case " ", "x":
		if fe.cursor < len(visible) {
			return fe, fe.Toggle(visible[fe.cursor])
		}
	case "a":
		return fe, fe.SelectAll()
	case "n":
		return fe, fe.SelectNone()
	case "/", "tab":
		return fe, fe.setFocus(focusListSearch)
	}
	return fe, nil
}

func (fe *FilterEditor) handleListSearchKeys(msg tea.KeyMsg) (*FilterEditor, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "tab", "down":
		return fe, fe.setFocus(focusList)
	}
	var cmd tea.Cmd
	fe.listSearch, cmd = fe.listSearch.Update(msg)
	fe.cursor, fe.offset = 0, 0
	return fe, cmd
}

func (fe *FilterEditor) handleRangeKeys(msg tea.KeyMsg) (*FilterEditor, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		return fe, closeFilterEditor
	case "tab", "shift+tab", "up", "down":
		if fe.focus == focusMin {
			return fe, fe.setFocus(focusMax)
		}
		return fe, fe.setFocus(focusMin)
	}

	var cmd tea.Cmd
	if fe.focus == focusMin {
		before := fe.minInput.Value()
		fe.minInput, cmd = fe.minInput.Update(msg)
		if fe.minInput.Value() != before {
			return fe, tea.Batch(cmd, fe.applyCmd())
		}
		return fe, cmd
	}
	before := fe.maxInput.Value()
	fe.maxInput, cmd = fe.maxInput.Update(msg)
	if fe.maxInput.Value() != before {
		return fe, tea.Batch(cmd, fe.applyCmd())
	}
	return fe, cmd
}

func (fe *FilterEditor) handleTextKeys(msg tea.KeyMsg) (*FilterEditor, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		return fe, closeFilterEditor
	}
	before := fe.textInput.Value()
	var cmd tea.Cmd
	fe.textInput, cmd = fe.textInput.Update(msg)
	if fe.textInput.Value() != before {
		return fe, tea.Batch(cmd, fe.applyCmd())
	}
	return fe, cmd
}

func (fe *FilterEditor) listHeight() int {
	// title, hint, search, actions, borders
	h := fe.Height - 8
	if h < 3 {
		h = 3
	}
	return h
}

func (fe *FilterEditor) moveCursor(delta, n int) {
	if n == 0 {
		fe.cursor = 0
		return
	}
	fe.cursor += delta
	if fe.cursor < 0 {
		fe.cursor = 0
	}
	if fe.cursor >= n {
		fe.cursor = n - 1
	}
	h := fe.listHeight()
	if fe.cursor < fe.offset {
		fe.offset = fe.cursor
	}
	if fe.cursor >= fe.offset+h {
		fe.offset = fe.cursor - h + 1
	}
}

// HandleMouseClick toggles a clicked option or triggers a clicked action
func (fe *FilterEditor) HandleMouseClick(msg tea.MouseMsg) (bool, tea.Cmd) {
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress {
		return false, nil
	}

	switch {
	case zone.Get(zoneFilterClear).InBounds(msg):
		return true, fe.Clear()
	case fe.isList() && zone.Get(zoneFilterSelectAll).InBounds(msg):
		return true, fe.SelectAll()
	case fe.isList() && zone.Get(zoneFilterSelectNone).InBounds(msg):
		return true, fe.SelectNone()
	}

	if fe.isList() {
		visible := fe.VisibleOptions()
		end := fe.offset + fe.listHeight()
		for i := fe.offset; i < len(visible) && i < end; i++ {
			if zone.Get(zoneFilterOptionPrefix + strconv.Itoa(i)).InBounds(msg) {
				fe.cursor = i
				return true, fe.Toggle(visible[i])
			}
		}
	}
	return false, nil
}

// View renders the filter editor
func (fe *FilterEditor) View() string {
	innerWidth := fe.Width - 4
	if innerWidth < 20 {
		innerWidth = 20
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(fe.Theme.Background).
		Background(fe.Theme.Info).
		Padding(0, 1).
		Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(fe.Theme.Muted)
	buttonStyle := lipgloss.NewStyle().Foreground(fe.Theme.PagerButton).Bold(true)

	var sections []string
	sections = append(sections, titleStyle.Render(fe.Strings.F("filter.title", fe.Column.Label())))
	sections = append(sections, mutedStyle.Render(fe.Strings.T("filter.kind."+string(fe.Kind))))

	switch fe.Kind {
	case models.FilterNumberRange:
		sections = append(sections, fe.renderRange())
		if fe.hint != "" {
			sections = append(sections, mutedStyle.Render(fe.hint))
		}
	case models.FilterSearch:
		sections = append(sections, fe.renderInput(fe.textInput, fe.focus == focusText, innerWidth))
	default:
		sections = append(sections, fe.renderInput(fe.listSearch, fe.focus == focusListSearch, innerWidth))
		sections = append(sections, fe.renderOptions(innerWidth))
		actions := zone.Mark(zoneFilterSelectAll, buttonStyle.Render(fe.Strings.T("filter.select_all"))) +
			"  " + zone.Mark(zoneFilterSelectNone, buttonStyle.Render(fe.Strings.T("filter.select_none")))
		sections = append(sections, actions)
	}

	clearLabel := lipgloss.NewStyle().Foreground(fe.Theme.Error).Bold(true).Render(fe.Strings.T("filter.clear"))
	sections = append(sections, zone.Mark(zoneFilterClear, clearLabel))

	content := strings.Join(sections, "\n")

	border := fe.Theme.Border
	if fe.Popover {
		border = fe.Theme.BorderFocused
	}
	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Foreground(fe.Theme.Foreground).
		Width(innerWidth).
		Padding(0, 1)

	return containerStyle.Render(content)
}

func (fe *FilterEditor) renderInput(ti textinput.Model, focused bool, width int) string {
	border := fe.Theme.Border
	if focused {
		border = fe.Theme.BorderFocused
	}
	ti.Width = width - 4
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(border).
		Render(ti.View())
}

func (fe *FilterEditor) renderRange() string {
	label := lipgloss.NewStyle().Foreground(fe.Theme.Muted).Width(6)
	minBox := fe.renderInput(fe.minInput, fe.focus == focusMin, 18)
	maxBox := fe.renderInput(fe.maxInput, fe.focus == focusMax, 18)
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Bottom, label.Render(fe.Strings.T("filter.min")), minBox),
		lipgloss.JoinHorizontal(lipgloss.Bottom, label.Render(fe.Strings.T("filter.max")), maxBox),
	)
}

func (fe *FilterEditor) renderOptions(width int) string {
	visible := fe.VisibleOptions()
	if len(visible) == 0 {
		return lipgloss.NewStyle().Foreground(fe.Theme.Muted).Italic(true).Render(fe.Strings.T("table.empty"))
	}

	checkStyle := lipgloss.NewStyle().Foreground(fe.Theme.Checkbox)
	cursorStyle := lipgloss.NewStyle().Background(fe.Theme.Selection).Foreground(fe.Theme.Foreground)

	end := fe.offset + fe.listHeight()
	if end > len(visible) {
		end = len(visible)
	}

	var lines []string
	for i := fe.offset; i < end; i++ {
		opt := visible[i]
		box := "[ ]"
		if fe.selected[opt] {
			box = "[x]"
		}
		label := runewidth.Truncate(opt, width-5, "…")
		line := checkStyle.Render(box) + " " + label
		if i == fe.cursor && fe.focus == focusList {
			line = cursorStyle.Render(box + " " + label)
		}
		lines = append(lines, zone.Mark(zoneFilterOptionPrefix+strconv.Itoa(i), line))
	}

	if len(visible) > end-fe.offset {
		lines = append(lines, lipgloss.NewStyle().Foreground(fe.Theme.Muted).
			Render(fmt.Sprintf("%d-%d / %d", fe.offset+1, end, len(visible))))
	}
	return strings.Join(lines, "\n")
}
