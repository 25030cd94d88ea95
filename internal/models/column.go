package models

import "github.com/rebeliceyang/cotable/internal/rowpath"

// Column describes one table column
type Column struct {
	// Accessor is a dotted path into the row, e.g. address.city
	Accessor string
	// ID identifies the column in filter and sort state; defaults to Accessor
	ID     string
	Header string
	// Text extracts the display text of a cell. Rendering, filtering and
	// search all read through it when set.
	Text   func(Row) string
	Filter FilterKind
	// Width fixes the rendered width; zero means computed from content
	Width int

	DisableSort   bool
	DisableFilter bool
}

// Key returns the identifier used in filter and sort state
func (c Column) Key() string {
	if c.ID != "" {
		return c.ID
	}
	return c.Accessor
}

// Label returns the header label, falling back to the accessor
func (c Column) Label() string {
	if c.Header != "" {
		return c.Header
	}
	return c.Accessor
}

// Sortable reports whether the column can be sorted
func (c Column) Sortable() bool {
	return !c.DisableSort
}

// Filterable reports whether the column can be filtered
func (c Column) Filterable() bool {
	return !c.DisableFilter
}

// FilterKindOrDefault returns the declared kind, or multiSelect when none is declared
func (c Column) FilterKindOrDefault() FilterKind {
	if c.Filter == "" {
		return FilterMultiSelect
	}
	return c.Filter
}

// HasExtractor reports whether the column declares a display-text extractor
func (c Column) HasExtractor() bool {
	return c.Text != nil
}

// Value resolves the raw cell value
func (c Column) Value(row Row) (any, bool) {
	return rowpath.Resolve(row, c.Accessor)
}

// DisplayText returns the text shown in the cell
func (c Column) DisplayText(row Row) string {
	if c.Text != nil {
		return c.Text(row)
	}
	v, _ := c.Value(row)
	return rowpath.Stringify(v)
}

// FindColumn returns the column with the given key
func FindColumn(columns []Column, key string) (Column, bool) {
	for _, col := range columns {
		if col.Key() == key {
			return col, true
		}
	}
	return Column{}, false
}
