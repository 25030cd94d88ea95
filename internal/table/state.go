package table

import (
	"fmt"
	"time"

	"github.com/asaidimu/go-events"
	"go.uber.org/zap"

	"github.com/rebeliceyang/cotable/internal/models"
	"github.com/rebeliceyang/cotable/internal/pipeline"
)

// Options configures a Table
type Options struct {
	PageSize        int
	PageSizeOptions []int
	Pipeline        *pipeline.Pipeline
	Logger          *zap.Logger
}

// Table owns the sort, filter, search and page state of one grid and
// recomputes the visible rows on demand
type Table struct {
	columns []models.Column
	rows    []models.Row
	state   models.State

	pageSizes []int
	pipe      *pipeline.Pipeline
	logger    *zap.Logger
	bus       *events.TypedEventBus[Event]

	dirty  bool
	result pipeline.Result
}

// New creates a table with mount-time defaults: no sort, no filters, first page
func New(columns []models.Column, rows []models.Row, opts Options) (*Table, error) {
	bus, err := events.NewTypedEventBus[Event](events.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("could not initialize event bus: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	pipe := opts.Pipeline
	if pipe == nil {
		pipe = pipeline.New(pipeline.WithLogger(logger))
	}
	sizes := opts.PageSizeOptions
	if len(sizes) == 0 {
		sizes = models.DefaultPageSizeOptions
	}

	return &Table{
		columns:   columns,
		rows:      rows,
		state:     models.NewState(opts.PageSize),
		pageSizes: append([]int(nil), sizes...),
		pipe:      pipe,
		logger:    logger,
		bus:       bus,
		dirty:     true,
	}, nil
}

// Subscribe registers a callback for one event type and returns its unsubscribe func
func (t *Table) Subscribe(event EventType, callback EventCallback) func() {
	return t.bus.Subscribe(string(event), callback)
}

func (t *Table) emit(eventType EventType, columnID string) {
	t.dirty = true
	t.logger.Debug("table state changed",
		zap.String("event", string(eventType)),
		zap.String("column", columnID),
	)
	t.bus.Emit(string(eventType), Event{
		Type:      eventType,
		ColumnID:  columnID,
		State:     t.state.Clone(),
		Timestamp: time.Now(),
	})
}

// Columns returns the column descriptors
func (t *Table) Columns() []models.Column {
	return t.columns
}

// Rows returns the raw rows
func (t *Table) Rows() []models.Row {
	return t.rows
}

// State returns a copy of the current state
func (t *Table) State() models.State {
	return t.state.Clone()
}

// PageSizeOptions returns the sizes offered by the page-size selector
func (t *Table) PageSizeOptions() []int {
	return t.pageSizes
}

// View returns the visible rows, recomputing only after a change
func (t *Table) View() pipeline.Result {
	if t.dirty {
		t.result = t.pipe.Compute(t.rows, t.columns, t.state)
		t.dirty = false
	}
	return t.result
}

// SetRows replaces the raw rows and returns to the first page
func (t *Table) SetRows(rows []models.Row) {
	t.rows = rows
	t.state.Pagination.PageIndex = 0
	t.emit(RowsChanged, "")
}

// SetColumns replaces the column descriptors. State referring to removed
// columns is dropped.
func (t *Table) SetColumns(columns []models.Column) {
	t.columns = columns

	filters := t.state.Filters[:0:0]
	for _, f := range t.state.Filters {
		if _, ok := models.FindColumn(columns, f.ColumnID); ok {
			filters = append(filters, f)
		}
	}
	t.state.Filters = filters

	sorts := t.state.Sort[:0:0]
	for _, s := range t.state.Sort {
		if _, ok := models.FindColumn(columns, s.ColumnID); ok {
			sorts = append(sorts, s)
		}
	}
	t.state.Sort = sorts
	t.state.Pagination.PageIndex = 0
	t.emit(RowsChanged, "")
}

// Filter returns the criterion set on a column
func (t *Table) Filter(columnID string) (models.FilterCriterion, bool) {
	return t.state.Filter(columnID)
}

// SetFilter sets or replaces the criterion of a column and returns to the first page.
// The kind defaults to the column's declared kind.
func (t *Table) SetFilter(c models.FilterCriterion) {
	if c.Kind == "" {
		if col, ok := models.FindColumn(t.columns, c.ColumnID); ok {
			c.Kind = col.FilterKindOrDefault()
		} else {
			c.Kind = models.FilterMultiSelect
		}
	}

	replaced := false
	for i, f := range t.state.Filters {
		if f.ColumnID == c.ColumnID {
			t.state.Filters[i] = c
			replaced = true
			break
		}
	}
	if !replaced {
		t.state.Filters = append(t.state.Filters, c)
	}

	t.state.Pagination.PageIndex = 0
	t.emit(FilterChanged, c.ColumnID)
}

// ClearFilter removes the criterion of a column
func (t *Table) ClearFilter(columnID string) {
	for i, f := range t.state.Filters {
		if f.ColumnID == columnID {
			t.state.Filters = append(t.state.Filters[:i:i], t.state.Filters[i+1:]...)
			break
		}
	}
	t.state.Pagination.PageIndex = 0
	t.emit(FilterChanged, columnID)
}

// ClearFilters removes every column criterion
func (t *Table) ClearFilters() {
	t.state.Filters = nil
	t.state.Pagination.PageIndex = 0
	t.emit(FilterChanged, "")
}

// GlobalSearch returns the global search term
func (t *Table) GlobalSearch() string {
	return t.state.GlobalSearch
}

// SetGlobalSearch sets the global search term and returns to the first page
func (t *Table) SetGlobalSearch(query string) {
	t.state.GlobalSearch = query
	t.state.Pagination.PageIndex = 0
	t.emit(SearchChanged, "")
}

// ToggleSort cycles a column through ascending, descending and unsorted.
// Without multi the column replaces any other sort; with multi it is
// appended as a lower priority key.
func (t *Table) ToggleSort(columnID string, multi bool) {
	col, ok := models.FindColumn(t.columns, columnID)
	if !ok || !col.Sortable() {
		return
	}

	current, idx, found := t.state.SortOf(columnID)
	var next []models.SortCriterion
	if multi {
		next = append([]models.SortCriterion(nil), t.state.Sort...)
	}

	switch {
	case !found:
		next = append(removeSort(next, columnID), models.SortCriterion{ColumnID: columnID})
	case !current.Desc:
		if multi {
			next[idx].Desc = true
		} else {
			next = []models.SortCriterion{{ColumnID: columnID, Desc: true}}
		}
	case !multi && len(t.state.Sort) > 1:
		next = []models.SortCriterion{{ColumnID: columnID}}
	default:
		next = removeSort(next, columnID)
	}

	t.state.Sort = next
	t.emit(SortChanged, columnID)
}

func removeSort(sorts []models.SortCriterion, columnID string) []models.SortCriterion {
	out := sorts[:0:0]
	for _, s := range sorts {
		if s.ColumnID != columnID {
			out = append(out, s)
		}
	}
	return out
}

// SetSort replaces the sort criteria
func (t *Table) SetSort(criteria []models.SortCriterion) {
	t.state.Sort = append([]models.SortCriterion(nil), criteria...)
	t.emit(SortChanged, "")
}

// PageCount returns the number of pages of the visible set
func (t *Table) PageCount() int {
	return t.View().PageCount
}

// SetPageIndex moves to a page, clamped to the available pages
func (t *Table) SetPageIndex(index int) {
	index = pipeline.ClampPage(index, t.PageCount())
	if index == t.state.Pagination.PageIndex {
		return
	}
	t.state.Pagination.PageIndex = index
	t.emit(PageChanged, "")
}

// NextPage moves forward one page
func (t *Table) NextPage() {
	t.SetPageIndex(t.state.Pagination.PageIndex + 1)
}

// PrevPage moves back one page
func (t *Table) PrevPage() {
	t.SetPageIndex(t.state.Pagination.PageIndex - 1)
}

// FirstPage moves to the first page
func (t *Table) FirstPage() {
	t.SetPageIndex(0)
}

// LastPage moves to the last page
func (t *Table) LastPage() {
	t.SetPageIndex(t.PageCount() - 1)
}

// CanPrevPage reports whether a previous page exists
func (t *Table) CanPrevPage() bool {
	return t.state.Pagination.PageIndex > 0
}

// CanNextPage reports whether a next page exists
func (t *Table) CanNextPage() bool {
	return t.state.Pagination.PageIndex < t.PageCount()-1
}

// SetPageSize changes the page size and returns to the first page
func (t *Table) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	t.state.Pagination.PageSize = size
	t.state.Pagination.PageIndex = 0
	t.emit(PageChanged, "")
}

// CyclePageSize moves to the next (or previous) page-size option
func (t *Table) CyclePageSize(forward bool) {
	if len(t.pageSizes) == 0 {
		return
	}
	idx := -1
	for i, s := range t.pageSizes {
		if s == t.state.Pagination.PageSize {
			idx = i
			break
		}
	}
	switch {
	case idx < 0:
		idx = 0
	case forward:
		idx = (idx + 1) % len(t.pageSizes)
	default:
		idx = (idx - 1 + len(t.pageSizes)) % len(t.pageSizes)
	}
	t.SetPageSize(t.pageSizes[idx])
}
