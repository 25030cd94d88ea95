package filter

import (
	"reflect"
	"sort"
	"strings"

	"github.com/rebeliceyang/cotable/internal/models"
	"github.com/rebeliceyang/cotable/internal/rowpath"
)

// cellText is the text a filter of col reads from row
func cellText(col models.Column, row models.Row) string {
	if col.HasExtractor() {
		return col.Text(row)
	}
	v, _ := col.Value(row)
	return valueText(v)
}

// valueText stringifies a raw value; lists become comma separated tokens
func valueText(v any) string {
	if rowpath.KindOf(v) != rowpath.KindArray {
		return rowpath.Stringify(v)
	}
	rv := reflect.Indirect(reflect.ValueOf(v))
	parts := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		parts = append(parts, rowpath.Stringify(rv.Index(i).Interface()))
	}
	return strings.Join(parts, ", ")
}

// UniqueValues returns the sorted distinct non-empty values of a column,
// the options of a multiSelect editor
func UniqueValues(rows []models.Row, col models.Column) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		if text := cellText(col, row); text != "" {
			seen[text] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// ChoiceOptions returns the sorted distinct comma tokens of a column,
// the options of a multiChoice editor
func ChoiceOptions(rows []models.Row, col models.Column) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		text := cellText(col, row)
		if col.HasExtractor() {
			if text != "" {
				seen[text] = struct{}{}
			}
			continue
		}
		for _, tok := range SplitTokens(text) {
			seen[tok] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// NumericBounds returns the smallest and largest numeric value of a column
func NumericBounds(rows []models.Row, col models.Column) (lo, hi float64, ok bool) {
	for _, row := range rows {
		v, found := col.Value(row)
		if !found {
			continue
		}
		f, numeric := rowpath.ToFloat64(v)
		if !numeric {
			continue
		}
		if !ok || f < lo {
			lo = f
		}
		if !ok || f > hi {
			hi = f
		}
		ok = true
	}
	return lo, hi, ok
}

// DefaultKind suggests a filter kind from a sample value
func DefaultKind(sample any) models.FilterKind {
	switch rowpath.KindOf(sample) {
	case rowpath.KindNumber:
		return models.FilterNumberRange
	case rowpath.KindArray:
		return models.FilterMultiChoice
	default:
		return models.FilterMultiSelect
	}
}

// KindsFor returns the filter kinds that make sense for a column sample,
// the preferred kind first
func KindsFor(sample any) []models.FilterKind {
	switch rowpath.KindOf(sample) {
	case rowpath.KindNumber:
		return []models.FilterKind{models.FilterNumberRange, models.FilterMultiSelect}
	case rowpath.KindString:
		return []models.FilterKind{models.FilterMultiSelect, models.FilterSearch, models.FilterMultiChoice}
	case rowpath.KindArray:
		return []models.FilterKind{models.FilterMultiChoice, models.FilterSearch}
	default:
		return []models.FilterKind{models.FilterMultiSelect, models.FilterSearch}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
