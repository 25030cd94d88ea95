package table

import (
	"context"
	"time"

	"github.com/rebeliceyang/cotable/internal/models"
)

// EventType names a kind of state change
type EventType string

const (
	FilterChanged EventType = "filter.changed"
	SearchChanged EventType = "search.changed"
	SortChanged   EventType = "sort.changed"
	PageChanged   EventType = "page.changed"
	RowsChanged   EventType = "rows.changed"
)

// Event describes one state change
type Event struct {
	Type      EventType
	ColumnID  string
	State     models.State
	Timestamp time.Time
}

// EventCallback receives state change notifications.
// Callbacks must not mutate the table directly.
type EventCallback func(ctx context.Context, event Event) error
