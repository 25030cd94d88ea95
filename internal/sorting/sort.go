package sorting

import (
	"sort"

	"github.com/rebeliceyang/cotable/internal/models"
)

// Sort returns a copy of rows ordered by the criteria. Earlier criteria take
// precedence; ties keep input order. Criteria on unknown or unsortable
// columns are skipped.
func Sort(rows []models.KeyedRow, columns []models.Column, criteria []models.SortCriterion, cmp *Comparator) []models.KeyedRow {
	type key struct {
		column models.Column
		desc   bool
	}
	keys := make([]key, 0, len(criteria))
	for _, c := range criteria {
		col, ok := models.FindColumn(columns, c.ColumnID)
		if !ok || !col.Sortable() {
			continue
		}
		keys = append(keys, key{column: col, desc: c.Desc})
	}
	if len(keys) == 0 {
		return rows
	}
	if cmp == nil {
		cmp = NewComparator("")
	}

	// Resolve sort values once per row
	values := make([][]any, len(rows))
	for i, kr := range rows {
		vals := make([]any, len(keys))
		for j, k := range keys {
			vals[j] = sortValue(k.column, kr.Row)
		}
		values[i] = vals
	}

	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := values[order[i]], values[order[j]]
		for k := range keys {
			if c := cmp.CompareDirected(a[k], b[k], keys[k].desc); c != 0 {
				return c < 0
			}
		}
		return false
	})

	out := make([]models.KeyedRow, len(rows))
	for i, idx := range order {
		out[i] = rows[idx]
	}
	return out
}

// sortValue is the value a column sorts by. Raw values are used so numbers
// stay numeric; the display text is used when the raw value is absent.
func sortValue(col models.Column, row models.Row) any {
	v, ok := col.Value(row)
	if ok && v != nil {
		if s, isString := v.(string); !isString || s != "" {
			return v
		}
	}
	if col.HasExtractor() {
		if text := col.Text(row); text != "" {
			return text
		}
	}
	return nil
}
