package components

import (
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rebeliceyang/cotable/internal/i18n"
	"github.com/rebeliceyang/cotable/internal/models"
	"github.com/rebeliceyang/cotable/internal/rowpath"
	"github.com/rebeliceyang/cotable/internal/ui/theme"
)

// DetailField is one flattened field of the row shown in the detail pane
type DetailField struct {
	Path  string
	Label string
	Value any
	Text  string
}

// RowDetail displays every field of the selected row, including nested ones
type RowDetail struct {
	Width     int
	MaxHeight int
	Theme     theme.Theme
	Strings   *i18n.Strings
	Visible   bool

	Row    models.KeyedRow
	Fields []DetailField

	cursor  int
	scrollY int
	style   lipgloss.Style

	// copy writes to the system clipboard; replaced in tests
	copy func(string) error
}

// NewRowDetail creates a new row detail pane
func NewRowDetail(th theme.Theme, strs *i18n.Strings) *RowDetail {
	return &RowDetail{
		Width:     80,
		MaxHeight: 12,
		Theme:     th,
		Strings:   strs,
		copy:      clipboard.WriteAll,
		style: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(th.Border).
			Padding(0, 1),
	}
}

// SetRow loads a row. Column fields come first in column order, followed by
// the remaining flattened fields sorted by path.
func (d *RowDetail) SetRow(kr models.KeyedRow, columns []models.Column) {
	if d.Row.Key == kr.Key && len(d.Fields) > 0 {
		return
	}
	d.Row = kr
	d.cursor = 0
	d.scrollY = 0
	d.Fields = d.Fields[:0]

	seen := make(map[string]bool)
	for _, col := range columns {
		v, _ := col.Value(kr.Row)
		d.Fields = append(d.Fields, DetailField{
			Path:  col.Accessor,
			Label: col.Label(),
			Value: v,
			Text:  col.DisplayText(kr.Row),
		})
		seen[col.Accessor] = true
	}

	flat := rowpath.Flatten(kr.Row)
	paths := make([]string, 0, len(flat))
	for p := range flat {
		if !seen[p] {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	for _, p := range paths {
		d.Fields = append(d.Fields, DetailField{
			Path:  p,
			Label: p,
			Value: flat[p],
			Text:  rowpath.Stringify(flat[p]),
		})
	}
}

// Toggle toggles the pane visibility
func (d *RowDetail) Toggle() {
	d.Visible = !d.Visible
}

// Height returns the rendered height including borders
func (d *RowDetail) Height() int {
	if !d.Visible {
		return 0
	}
	return d.MaxHeight
}

func (d *RowDetail) bodyHeight() int {
	h := d.MaxHeight - d.style.GetVerticalFrameSize() - 2 // header and footer
	if h < 1 {
		h = 1
	}
	return h
}

// MoveCursor moves the field cursor
func (d *RowDetail) MoveCursor(delta int) {
	d.cursor += delta
	if d.cursor >= len(d.Fields) {
		d.cursor = len(d.Fields) - 1
	}
	if d.cursor < 0 {
		d.cursor = 0
	}
	h := d.bodyHeight()
	if d.cursor < d.scrollY {
		d.scrollY = d.cursor
	}
	if d.cursor >= d.scrollY+h {
		d.scrollY = d.cursor - h + 1
	}
}

// CurrentField returns the field under the cursor
func (d *RowDetail) CurrentField() (DetailField, bool) {
	if d.cursor < 0 || d.cursor >= len(d.Fields) {
		return DetailField{}, false
	}
	return d.Fields[d.cursor], true
}

// RowJSON returns the row as indented JSON
func (d *RowDetail) RowJSON() (string, error) {
	return rowpath.Format(map[string]any(d.Row.Row))
}

// CopyRow copies the whole row as JSON to the clipboard
func (d *RowDetail) CopyRow() error {
	text, err := d.RowJSON()
	if err != nil {
		return err
	}
	return d.copy(text)
}

// CopyField copies the text of the field under the cursor
func (d *RowDetail) CopyField() error {
	f, ok := d.CurrentField()
	if !ok {
		return nil
	}
	return d.copy(f.Text)
}

func (d *RowDetail) valueStyle(v any) lipgloss.Style {
	s := lipgloss.NewStyle()
	switch rowpath.KindOf(v) {
	case rowpath.KindNull:
		return s.Foreground(d.Theme.ValueNull).Italic(true)
	case rowpath.KindNumber:
		return s.Foreground(d.Theme.ValueNumber)
	case rowpath.KindBool:
		return s.Foreground(d.Theme.ValueBoolean)
	default:
		return s.Foreground(d.Theme.ValueString)
	}
}

// View renders the row detail pane
func (d *RowDetail) View() string {
	if !d.Visible {
		return ""
	}

	contentWidth := d.Width - d.style.GetHorizontalFrameSize()
	if contentWidth < 20 {
		contentWidth = 20
	}

	titleStyle := lipgloss.NewStyle().Foreground(d.Theme.Info).Bold(true)
	header := titleStyle.Render(runewidth.Truncate(d.Strings.T("detail.title")+": "+d.Row.Key, contentWidth, "…"))

	labelWidth := 0
	for _, f := range d.Fields {
		if w := runewidth.StringWidth(f.Label); w > labelWidth {
			labelWidth = w
		}
	}
	if labelWidth > contentWidth/3 {
		labelWidth = contentWidth / 3
	}

	keyStyle := lipgloss.NewStyle().Foreground(d.Theme.ValueKey)
	cursorStyle := lipgloss.NewStyle().Background(d.Theme.Selection)

	lines := []string{header}
	end := d.scrollY + d.bodyHeight()
	if end > len(d.Fields) {
		end = len(d.Fields)
	}
	for i := d.scrollY; i < end; i++ {
		f := d.Fields[i]
		label := runewidth.FillRight(runewidth.Truncate(f.Label, labelWidth, "…"), labelWidth)
		text := f.Text
		if f.Value == nil {
			text = "null"
		}
		text = runewidth.Truncate(cellLine(text), contentWidth-labelWidth-3, "…")
		line := keyStyle.Render(label) + " : " + d.valueStyle(f.Value).Render(text)
		if i == d.cursor {
			line = cursorStyle.Render(line)
		}
		lines = append(lines, line)
	}

	helpStyle := lipgloss.NewStyle().Foreground(d.Theme.Muted).Italic(true)
	helpText := "↑↓: Field │ y: Copy field │ Y: Copy row │ Esc: Close"
	pad := contentWidth - runewidth.StringWidth(helpText)
	if pad < 0 {
		pad = 0
	}
	lines = append(lines, strings.Repeat(" ", pad)+helpStyle.Render(helpText))

	innerHeight := d.MaxHeight - d.style.GetVerticalFrameSize()
	if innerHeight < 3 {
		innerHeight = 3
	}
	return d.style.
		Width(contentWidth).
		Height(innerHeight).
		MaxHeight(d.MaxHeight).
		Render(strings.Join(lines, "\n"))
}
