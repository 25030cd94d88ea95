package search

import (
	"strings"

	"github.com/rebeliceyang/cotable/internal/models"
	"github.com/rebeliceyang/cotable/internal/rowpath"
)

// IsBlank reports whether a query matches every row
func IsBlank(query string) bool {
	return strings.TrimSpace(query) == ""
}

// MatchRow reports whether any flattened leaf of row contains query.
// Columns with a display-text extractor add their text as an extra leaf.
func MatchRow(row models.Row, query string, columns []models.Column) bool {
	if IsBlank(query) {
		return true
	}
	return matchNormalized(row, Normalize(strings.TrimSpace(query)), columns)
}

func matchNormalized(row models.Row, needle string, columns []models.Column) bool {
	for _, leaf := range rowpath.Flatten(row) {
		if strings.Contains(Normalize(rowpath.Stringify(leaf)), needle) {
			return true
		}
	}
	for _, col := range columns {
		if !col.HasExtractor() {
			continue
		}
		if strings.Contains(Normalize(col.Text(row)), needle) {
			return true
		}
	}
	return false
}

// Filter returns the rows matching query, in input order.
// The input slice is never modified.
func Filter(rows []models.KeyedRow, query string, columns []models.Column) []models.KeyedRow {
	if IsBlank(query) {
		return rows
	}

	needle := Normalize(strings.TrimSpace(query))
	out := make([]models.KeyedRow, 0, len(rows))
	for _, kr := range rows {
		if matchNormalized(kr.Row, needle, columns) {
			out = append(out, kr)
		}
	}
	return out
}
