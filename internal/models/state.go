package models

// DefaultPageSize is the page size used when none is configured
const DefaultPageSize = 10

// DefaultPageSizeOptions are the sizes offered by the page-size selector
var DefaultPageSizeOptions = []int{10, 20, 30, 40, 50}

// SortCriterion orders rows by one column
type SortCriterion struct {
	ColumnID string
	Desc     bool
}

// Pagination selects one page of the visible set
type Pagination struct {
	PageIndex int
	PageSize  int
}

// State is everything the pipeline needs besides rows and columns
type State struct {
	GlobalSearch string
	Filters      []FilterCriterion
	Sort         []SortCriterion
	Pagination   Pagination
}

// NewState returns the mount-time defaults: no sort, no filters, first page
func NewState(pageSize int) State {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return State{
		Pagination: Pagination{PageIndex: 0, PageSize: pageSize},
	}
}

// Filter returns the criterion of a column, if one is set
func (s State) Filter(columnID string) (FilterCriterion, bool) {
	for _, f := range s.Filters {
		if f.ColumnID == columnID {
			return f, true
		}
	}
	return FilterCriterion{}, false
}

// SortOf returns the sort criterion and its priority for a column
func (s State) SortOf(columnID string) (SortCriterion, int, bool) {
	for i, c := range s.Sort {
		if c.ColumnID == columnID {
			return c, i, true
		}
	}
	return SortCriterion{}, -1, false
}

// Clone copies the slices so mutations do not leak between states
func (s State) Clone() State {
	out := s
	if s.Filters != nil {
		out.Filters = make([]FilterCriterion, len(s.Filters))
		for i, f := range s.Filters {
			f.Selected = append([]string(nil), f.Selected...)
			out.Filters[i] = f
		}
	}
	if s.Sort != nil {
		out.Sort = append([]SortCriterion(nil), s.Sort...)
	}
	return out
}
