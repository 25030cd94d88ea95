package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/rebeliceyang/cotable/internal/i18n"
	"github.com/rebeliceyang/cotable/internal/pipeline"
	"github.com/rebeliceyang/cotable/internal/ui/theme"
)

// PagerAction is a pagination control
type PagerAction int

const (
	PagerNone PagerAction = iota
	PagerFirst
	PagerPrev
	PagerNext
	PagerLast
	PagerSizeNext
	PagerSizePrev
)

var pagerZones = map[PagerAction]string{
	PagerFirst:    "cotable-pager-first",
	PagerPrev:     "cotable-pager-prev",
	PagerNext:     "cotable-pager-next",
	PagerLast:     "cotable-pager-last",
	PagerSizeNext: "cotable-pager-size",
}

// Pager renders first/prev/next/last controls, the page indicator, the
// page-size selector and the range summary
type Pager struct {
	PageIndex  int
	PageCount  int
	PageSize   int
	PageSizes  []int
	RangeStart int
	RangeEnd   int
	Filtered   int

	Width   int
	Theme   theme.Theme
	Strings *i18n.Strings
}

// NewPager creates a pager
func NewPager(th theme.Theme, strs *i18n.Strings) *Pager {
	return &Pager{Theme: th, Strings: strs, PageCount: 1}
}

// SetResult copies the page bookkeeping of a computation
func (p *Pager) SetResult(res pipeline.Result, pageSizes []int) {
	p.PageIndex = res.PageIndex
	p.PageCount = res.PageCount
	p.PageSize = res.PageSize
	p.RangeStart = res.RangeStart
	p.RangeEnd = res.RangeEnd
	p.Filtered = res.Filtered
	p.PageSizes = pageSizes
}

// CanPrev reports whether a previous page exists
func (p *Pager) CanPrev() bool {
	return p.PageIndex > 0
}

// CanNext reports whether a next page exists
func (p *Pager) CanNext() bool {
	return p.PageIndex < p.PageCount-1
}

// Summary returns the range text, e.g. "11-20 / 47 kayıt"
func (p *Pager) Summary() string {
	return fmt.Sprintf("%d-%d / %d %s", p.RangeStart, p.RangeEnd, p.Filtered, p.Strings.T("pager.records"))
}

// PageIndicator returns the page text, e.g. "Sayfa 2 / 5"
func (p *Pager) PageIndicator() string {
	return fmt.Sprintf("%s %d %s %d", p.Strings.T("pager.page"), p.PageIndex+1, p.Strings.T("pager.of"), p.PageCount)
}

func (p *Pager) button(action PagerAction, label string, enabled bool) string {
	style := lipgloss.NewStyle().
		Foreground(p.Theme.PagerButton).
		Bold(true).
		Padding(0, 1)
	if !enabled {
		style = style.Foreground(p.Theme.PagerButtonDisabled).Bold(false)
	}
	return zone.Mark(pagerZones[action], style.Render(label))
}

// View renders the pager on one line
func (p *Pager) View() string {
	muted := lipgloss.NewStyle().Foreground(p.Theme.Muted)
	text := lipgloss.NewStyle().Foreground(p.Theme.Foreground)

	controls := strings.Join([]string{
		p.button(PagerFirst, "«", p.CanPrev()),
		p.button(PagerPrev, "‹", p.CanPrev()),
		text.Render(p.PageIndicator()),
		p.button(PagerNext, "›", p.CanNext()),
		p.button(PagerLast, "»", p.CanNext()),
	}, " ")

	sizeLabel := fmt.Sprintf("[%d] %s", p.PageSize, p.Strings.T("pager.rows_per_page"))
	size := zone.Mark(pagerZones[PagerSizeNext], text.Render(sizeLabel))

	left := controls + "   " + size
	right := muted.Render(p.Summary())

	gap := p.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 3 {
		gap = 3
	}
	return left + strings.Repeat(" ", gap) + right
}

// HandleMouseClick reports which control a click hit
func (p *Pager) HandleMouseClick(msg tea.MouseMsg) PagerAction {
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress {
		return PagerNone
	}
	for _, action := range []PagerAction{PagerFirst, PagerPrev, PagerNext, PagerLast, PagerSizeNext} {
		if zone.Get(pagerZones[action]).InBounds(msg) {
			return action
		}
	}
	return PagerNone
}
