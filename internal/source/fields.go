package source

import (
	"sort"

	"github.com/rebeliceyang/cotable/internal/filter"
	"github.com/rebeliceyang/cotable/internal/models"
	"github.com/rebeliceyang/cotable/internal/rowpath"
)

// mergeFields appends the keys of rows not yet in fields, sorted per row
func mergeFields(fields []string, rows []models.Row) []string {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		seen[f] = struct{}{}
	}
	for _, row := range rows {
		var extra []string
		for k := range row {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				extra = append(extra, k)
			}
		}
		sort.Strings(extra)
		fields = append(fields, extra...)
	}
	return fields
}

// InferColumns derives column descriptors from a dataset. Nested records
// expand into one column per leaf path; the filter kind follows the first
// present value of each column.
func InferColumns(ds *Dataset) []models.Column {
	var columns []models.Column
	for _, field := range ds.Fields {
		sample := firstValue(ds.Rows, field)
		if rowpath.KindOf(sample) == rowpath.KindObject {
			columns = append(columns, nestedColumns(ds.Rows, field)...)
			continue
		}
		columns = append(columns, models.Column{
			Accessor: field,
			Header:   field,
			Filter:   filter.DefaultKind(sample),
		})
	}
	return columns
}

func nestedColumns(rows []models.Row, field string) []models.Column {
	seen := make(map[string]struct{})
	var paths []string
	for _, row := range rows {
		v, ok := row[field]
		if !ok || rowpath.KindOf(v) != rowpath.KindObject {
			continue
		}
		flat := rowpath.Flatten(map[string]any{field: v})
		for p := range flat {
			if _, dup := seen[p]; !dup {
				seen[p] = struct{}{}
				paths = append(paths, p)
			}
		}
	}
	sort.Strings(paths)

	columns := make([]models.Column, 0, len(paths))
	for _, p := range paths {
		columns = append(columns, models.Column{
			Accessor: p,
			Header:   p,
			Filter:   filter.DefaultKind(firstValue(rows, p)),
		})
	}
	return columns
}

func firstValue(rows []models.Row, accessor string) any {
	for _, row := range rows {
		if v, ok := rowpath.Resolve(row, accessor); ok && v != nil {
			return v
		}
	}
	return nil
}
