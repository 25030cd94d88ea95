package pipeline

import (
	"time"

	"go.uber.org/zap"

	"github.com/rebeliceyang/cotable/internal/filter"
	"github.com/rebeliceyang/cotable/internal/models"
	"github.com/rebeliceyang/cotable/internal/search"
	"github.com/rebeliceyang/cotable/internal/sorting"
)

// Result is the visible row set of one computation
type Result struct {
	// Rows of the requested page
	Rows []models.KeyedRow
	// Sorted holds every row that passed search and filters, in display order
	Sorted []models.KeyedRow

	Total     int
	Filtered  int
	PageIndex int
	PageSize  int
	PageCount int

	// RangeStart and RangeEnd are the 1-based bounds of the page, zero when empty
	RangeStart int
	RangeEnd   int
}

// Empty reports whether no row passed search and filters
func (r Result) Empty() bool {
	return r.Filtered == 0
}

// Pipeline computes visible rows from raw rows and table state
type Pipeline struct {
	comparator *sorting.Comparator
	logger     *zap.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithLocale sets the collation locale used for sorting
func WithLocale(locale string) Option {
	return func(p *Pipeline) {
		p.comparator = sorting.NewComparator(locale)
	}
}

// WithComparator sets the comparator used for sorting
func WithComparator(c *sorting.Comparator) Option {
	return func(p *Pipeline) {
		if c != nil {
			p.comparator = c
		}
	}
}

// New creates a pipeline; the defaults are Turkish collation and a no-op logger
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		comparator: sorting.NewComparator("tr"),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Comparator returns the comparator used for sorting
func (p *Pipeline) Comparator() *sorting.Comparator {
	return p.comparator
}

// Compute applies global search, column filters, sort and pagination in that order.
// Neither rows nor the row maps are modified.
func (p *Pipeline) Compute(rows []models.Row, columns []models.Column, st models.State) Result {
	start := time.Now()

	keyed := make([]models.KeyedRow, len(rows))
	for i, row := range rows {
		keyed[i] = models.KeyedRow{Key: models.RowKey(row, i), Index: i, Row: row}
	}

	visible := search.Filter(keyed, st.GlobalSearch, columns)
	visible = filter.Apply(visible, columns, st.Filters, p.logger)
	visible = sorting.Sort(visible, columns, st.Sort, p.comparator)

	size := st.Pagination.PageSize
	if size <= 0 {
		size = models.DefaultPageSize
	}
	page := Paginate(visible, models.Pagination{PageIndex: st.Pagination.PageIndex, PageSize: size})

	res := Result{
		Rows:      page,
		Sorted:    visible,
		Total:     len(rows),
		Filtered:  len(visible),
		PageIndex: st.Pagination.PageIndex,
		PageSize:  size,
		PageCount: PageCount(len(visible), size),
	}
	if len(page) > 0 {
		res.RangeStart = st.Pagination.PageIndex*size + 1
		res.RangeEnd = res.RangeStart + len(page) - 1
	}

	p.logger.Debug("computed visible rows",
		zap.Int("total", res.Total),
		zap.Int("filtered", res.Filtered),
		zap.Int("page", res.PageIndex),
		zap.Int("page_rows", len(page)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res
}
