package search

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultDebounce is the idle time before a search is applied
const DefaultDebounce = 300 * time.Millisecond

// DebounceMsg fires after the idle delay. Only the message whose ID matches
// the latest keystroke is applied.
type DebounceMsg struct {
	ID    int
	Query string
}

// Debouncer tags each keystroke so stale ticks can be dropped
type Debouncer struct {
	Delay  time.Duration
	latest int
}

// NewDebouncer creates a debouncer; a non-positive delay uses DefaultDebounce
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{Delay: delay}
}

// Trigger records a keystroke and returns the command that fires after the delay
func (d *Debouncer) Trigger(query string) tea.Cmd {
	d.latest++
	id := d.latest
	return tea.Tick(d.Delay, func(time.Time) tea.Msg {
		return DebounceMsg{ID: id, Query: query}
	})
}

// IsLatest reports whether msg belongs to the most recent keystroke
func (d *Debouncer) IsLatest(msg DebounceMsg) bool {
	return msg.ID == d.latest
}

// Cancel invalidates any pending tick
func (d *Debouncer) Cancel() {
	d.latest++
}
