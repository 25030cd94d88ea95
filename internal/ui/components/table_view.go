package components

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/rebeliceyang/cotable/internal/filter"
	"github.com/rebeliceyang/cotable/internal/i18n"
	"github.com/rebeliceyang/cotable/internal/models"
	"github.com/rebeliceyang/cotable/internal/ui/theme"
)

// Zone ID prefixes for clickable table regions
const (
	ZoneHeaderPrefix = "cotable-header-"
	ZoneFilterPrefix = "cotable-filter-"
	ZoneRowPrefix    = "cotable-row-"
)

// TableClickKind identifies the region hit by a mouse click
type TableClickKind int

const (
	ClickNone TableClickKind = iota
	ClickHeader
	ClickFilter
	ClickRow
)

// TableView displays one page of rows with sort indicators and an optional
// inline filter row
type TableView struct {
	Columns []models.Column
	Rows    []models.KeyedRow
	Sort    []models.SortCriterion
	Filters []models.FilterCriterion

	ShowFilterRow  bool
	MaxColumnWidth int
	Width          int
	Height         int
	Theme          theme.Theme
	Strings        *i18n.Strings

	// Scrolling state within the page
	TopRow         int
	VisibleRows    int
	SelectedRow    int
	SelectedColumn int

	// Column widths (calculated)
	ColumnWidths []int
}

// NewTableView creates a new table view
func NewTableView(th theme.Theme, strs *i18n.Strings) *TableView {
	return &TableView{
		Theme:          th,
		Strings:        strs,
		MaxColumnWidth: 40,
		ShowFilterRow:  true,
	}
}

// SetData replaces the page being shown
func (tv *TableView) SetData(columns []models.Column, rows []models.KeyedRow, st models.State) {
	tv.Columns = columns
	tv.Rows = rows
	tv.Sort = st.Sort
	tv.Filters = st.Filters
	tv.calculateColumnWidths()

	if tv.SelectedRow >= len(rows) {
		tv.SelectedRow = len(rows) - 1
	}
	if tv.SelectedRow < 0 {
		tv.SelectedRow = 0
	}
	if tv.SelectedColumn >= len(columns) {
		tv.SelectedColumn = len(columns) - 1
	}
	if tv.SelectedColumn < 0 {
		tv.SelectedColumn = 0
	}
	tv.ensureVisible()
}

// SelectedKeyedRow returns the row under the cursor
func (tv *TableView) SelectedKeyedRow() (models.KeyedRow, bool) {
	if tv.SelectedRow < 0 || tv.SelectedRow >= len(tv.Rows) {
		return models.KeyedRow{}, false
	}
	return tv.Rows[tv.SelectedRow], true
}

// CurrentColumn returns the column under the header cursor
func (tv *TableView) CurrentColumn() (models.Column, bool) {
	if tv.SelectedColumn < 0 || tv.SelectedColumn >= len(tv.Columns) {
		return models.Column{}, false
	}
	return tv.Columns[tv.SelectedColumn], true
}

func (tv *TableView) calculateColumnWidths() {
	tv.ColumnWidths = make([]int, len(tv.Columns))
	maxWidth := tv.MaxColumnWidth
	if maxWidth <= 0 {
		maxWidth = 40
	}

	for i, col := range tv.Columns {
		if col.Width > 0 {
			tv.ColumnWidths[i] = col.Width
			continue
		}

		// Header plus room for the sort indicator
		w := runewidth.StringWidth(col.Label()) + 2
		if tv.ShowFilterRow {
			if s := runewidth.StringWidth(tv.filterSummary(col)); s > w {
				w = s
			}
		}
		for _, kr := range tv.Rows {
			if cw := runewidth.StringWidth(cellLine(col.DisplayText(kr.Row))); cw > w {
				w = cw
			}
		}

		if w > maxWidth {
			w = maxWidth
		}
		if w < 6 {
			w = 6
		}
		tv.ColumnWidths[i] = w
	}
}

// View renders the table
func (tv *TableView) View() string {
	if len(tv.Columns) == 0 {
		return lipgloss.NewStyle().Foreground(tv.Theme.Muted).Render(tv.Strings.T("table.empty"))
	}

	var lines []string
	lines = append(lines, tv.renderHeader())
	if tv.ShowFilterRow {
		lines = append(lines, tv.renderFilterRow())
	}
	lines = append(lines, tv.renderSeparator())

	tv.VisibleRows = tv.bodyHeight()
	tv.ensureVisible()

	if len(tv.Rows) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(tv.Theme.Muted).
			Italic(true).
			Width(tv.tableWidth()).
			Align(lipgloss.Center).
			Render(tv.Strings.T("table.empty"))
		lines = append(lines, empty)
		return strings.Join(lines, "\n")
	}

	endRow := tv.TopRow + tv.VisibleRows
	if endRow > len(tv.Rows) {
		endRow = len(tv.Rows)
	}
	for i := tv.TopRow; i < endRow; i++ {
		lines = append(lines, zone.Mark(ZoneRowPrefix+strconv.Itoa(i), tv.renderRow(i)))
	}

	return strings.Join(lines, "\n")
}

func (tv *TableView) bodyHeight() int {
	chrome := 2
	if tv.ShowFilterRow {
		chrome++
	}
	h := tv.Height - chrome
	if tv.Height <= 0 || h > len(tv.Rows) {
		h = len(tv.Rows)
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (tv *TableView) tableWidth() int {
	w := 1
	for _, cw := range tv.ColumnWidths {
		w += cw + 3
	}
	return w
}

// SortIndicator returns the arrow shown next to a sorted header, with the
// priority appended when more than one column is sorted
func SortIndicator(sorts []models.SortCriterion, columnID string) string {
	for i, s := range sorts {
		if s.ColumnID != columnID {
			continue
		}
		arrow := "▲"
		if s.Desc {
			arrow = "▼"
		}
		if len(sorts) > 1 {
			return arrow + strconv.Itoa(i+1)
		}
		return arrow
	}
	return ""
}

func (tv *TableView) renderHeader() string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tv.Theme.TableHeader)
	arrowStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tv.Theme.SortIndicator)
	cursorStyle := headerStyle.Underline(true)

	parts := make([]string, len(tv.Columns))
	for i, col := range tv.Columns {
		width := tv.ColumnWidths[i]
		indicator := SortIndicator(tv.Sort, col.Key())
		labelWidth := width
		if indicator != "" {
			labelWidth -= runewidth.StringWidth(indicator) + 1
		}

		label := col.Label()
		if runewidth.StringWidth(label) > labelWidth {
			label = runewidth.Truncate(label, labelWidth, "…")
		}
		used := runewidth.StringWidth(label)

		style := headerStyle
		if i == tv.SelectedColumn {
			style = cursorStyle
		}
		cell := style.Render(label)
		if indicator != "" {
			cell += " " + arrowStyle.Render(indicator)
			used += runewidth.StringWidth(indicator) + 1
		}
		if used < width {
			cell += strings.Repeat(" ", width-used)
		}
		parts[i] = zone.Mark(ZoneHeaderPrefix+strconv.Itoa(i), cell)
	}
	return " " + strings.Join(parts, " │ ") + " "
}

func (tv *TableView) filterSummary(col models.Column) string {
	if !col.Filterable() {
		return ""
	}
	for _, f := range tv.Filters {
		if f.ColumnID == col.Key() {
			return FilterSummary(f, tv.Strings)
		}
	}
	return tv.Strings.T("filter.placeholder")
}

func (tv *TableView) renderFilterRow() string {
	activeStyle := lipgloss.NewStyle().Foreground(tv.Theme.FilterActive)
	inactiveStyle := lipgloss.NewStyle().Foreground(tv.Theme.FilterInactive).Italic(true)

	parts := make([]string, len(tv.Columns))
	for i, col := range tv.Columns {
		text := tv.pad(tv.filterSummary(col), tv.ColumnWidths[i])
		style := inactiveStyle
		for _, f := range tv.Filters {
			if f.ColumnID == col.Key() && filter.IsActive(f) {
				style = activeStyle
				break
			}
		}
		parts[i] = zone.Mark(ZoneFilterPrefix+strconv.Itoa(i), style.Render(text))
	}
	return " " + strings.Join(parts, " │ ") + " "
}

func (tv *TableView) renderSeparator() string {
	var parts []string
	for _, width := range tv.ColumnWidths {
		parts = append(parts, strings.Repeat("─", width))
	}
	separatorStyle := lipgloss.NewStyle().Foreground(tv.Theme.Border)
	return separatorStyle.Render("─" + strings.Join(parts, "─┼─") + "─")
}

func (tv *TableView) renderRow(index int) string {
	row := tv.Rows[index].Row
	parts := make([]string, len(tv.Columns))
	for i, col := range tv.Columns {
		parts[i] = tv.pad(cellLine(col.DisplayText(row)), tv.ColumnWidths[i])
	}
	line := " " + strings.Join(parts, " │ ") + " "

	if index == tv.SelectedRow {
		return lipgloss.NewStyle().
			Background(tv.Theme.TableRowSelected).
			Foreground(lipgloss.Color("15")).
			Bold(true).
			Render(line)
	}
	bg := tv.Theme.TableRowEven
	if index%2 == 1 {
		bg = tv.Theme.TableRowOdd
	}
	return lipgloss.NewStyle().Background(bg).Foreground(tv.Theme.Foreground).Render(line)
}

// cellLine keeps a cell on one line
func cellLine(s string) string {
	if !strings.ContainsAny(s, "\n\r\t") {
		return s
	}
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(s)
}

func (tv *TableView) pad(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) > width {
		return runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}

// MoveSelection moves the selection up or down
func (tv *TableView) MoveSelection(delta int) {
	tv.SelectedRow += delta

	if tv.SelectedRow >= len(tv.Rows) {
		tv.SelectedRow = len(tv.Rows) - 1
	}
	if tv.SelectedRow < 0 {
		tv.SelectedRow = 0
	}
	tv.ensureVisible()
}

// MoveColumn moves the header cursor left or right
func (tv *TableView) MoveColumn(delta int) {
	tv.SelectedColumn += delta
	if tv.SelectedColumn >= len(tv.Columns) {
		tv.SelectedColumn = len(tv.Columns) - 1
	}
	if tv.SelectedColumn < 0 {
		tv.SelectedColumn = 0
	}
}

// SelectFirst moves the selection to the first row of the page
func (tv *TableView) SelectFirst() {
	tv.SelectedRow = 0
	tv.TopRow = 0
}

func (tv *TableView) ensureVisible() {
	if tv.VisibleRows <= 0 {
		return
	}
	if tv.SelectedRow < tv.TopRow {
		tv.TopRow = tv.SelectedRow
	}
	if tv.SelectedRow >= tv.TopRow+tv.VisibleRows {
		tv.TopRow = tv.SelectedRow - tv.VisibleRows + 1
	}
	if tv.TopRow < 0 {
		tv.TopRow = 0
	}
}

// HandleMouseClick reports which header, filter cell or row a click hit
func (tv *TableView) HandleMouseClick(msg tea.MouseMsg) (TableClickKind, int) {
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress {
		return ClickNone, -1
	}

	for i := range tv.Columns {
		if zone.Get(ZoneHeaderPrefix + strconv.Itoa(i)).InBounds(msg) {
			tv.SelectedColumn = i
			return ClickHeader, i
		}
		if tv.ShowFilterRow && zone.Get(ZoneFilterPrefix+strconv.Itoa(i)).InBounds(msg) {
			tv.SelectedColumn = i
			return ClickFilter, i
		}
	}
	for i := tv.TopRow; i < len(tv.Rows) && i < tv.TopRow+tv.VisibleRows; i++ {
		if zone.Get(ZoneRowPrefix + strconv.Itoa(i)).InBounds(msg) {
			tv.SelectedRow = i
			return ClickRow, i
		}
	}
	return ClickNone, -1
}
