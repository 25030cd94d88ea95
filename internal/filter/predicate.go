package filter

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/rebeliceyang/cotable/internal/models"
	"github.com/rebeliceyang/cotable/internal/rowpath"
	"github.com/rebeliceyang/cotable/internal/search"
)

// IsActive reports whether a criterion restricts anything.
// Inactive criteria match every row, including rows with missing values.
func IsActive(c models.FilterCriterion) bool {
	switch c.Kind {
	case models.FilterMultiSelect, models.FilterMultiChoice, "":
		return len(c.Selected) > 0
	case models.FilterNumberRange:
		return c.Range.Min != nil || c.Range.Max != nil
	case models.FilterSearch:
		return strings.TrimSpace(c.Text) != ""
	default:
		return false
	}
}

// Matches applies one criterion to a cell. value is the raw cell value and
// text is the text the predicate reads (display text for columns with an extractor).
func Matches(c models.FilterCriterion, value any, text string) bool {
	if !IsActive(c) {
		return true
	}
	if value == nil || text == "" {
		return false
	}

	switch c.Kind {
	case models.FilterMultiSelect, "":
		return matchSelected(c.Selected, text)
	case models.FilterNumberRange:
		return matchRange(c.Range, value)
	case models.FilterSearch:
		return search.Contains(text, strings.TrimSpace(c.Text))
	case models.FilterMultiChoice:
		return matchChoice(c.Selected, SplitTokens(text))
	}
	return true
}

// MatchesRow applies a criterion to the column cell of a row
func MatchesRow(c models.FilterCriterion, col models.Column, row models.Row) bool {
	value, _ := col.Value(row)
	if col.HasExtractor() {
		text := col.Text(row)
		if c.Kind == models.FilterMultiChoice {
			// whole-value match against the rendered text
			return matchExtracted(c, text)
		}
		if text != "" && value == nil {
			value = text
		}
		return Matches(c, value, text)
	}
	return Matches(c, value, valueText(value))
}

func matchExtracted(c models.FilterCriterion, text string) bool {
	if !IsActive(c) {
		return true
	}
	if text == "" {
		return false
	}
	return matchChoice(c.Selected, []string{text})
}

func matchSelected(selected []string, text string) bool {
	for _, s := range selected {
		if s == text {
			return true
		}
	}
	return false
}

func matchRange(r models.NumberRange, value any) bool {
	v, ok := rowpath.ToFloat64(value)
	if !ok {
		return false
	}
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

func matchChoice(selected, tokens []string) bool {
	for _, s := range selected {
		needle := search.Normalize(strings.TrimSpace(s))
		if needle == "" {
			continue
		}
		for _, tok := range tokens {
			if strings.Contains(search.Normalize(tok), needle) {
				return true
			}
		}
	}
	return false
}

// SplitTokens splits a comma separated value into trimmed, non-empty tokens
func SplitTokens(text string) []string {
	parts := strings.Split(text, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// ParseBound parses range input; blank or malformed text is an absent bound
func ParseBound(text string) *float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	// Turkish input uses the comma as decimal separator
	if !strings.Contains(text, ".") {
		text = strings.Replace(text, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil
	}
	return &v
}

// FormatBound renders a bound for an input field; nil is blank
func FormatBound(b *float64) string {
	if b == nil {
		return ""
	}
	return strconv.FormatFloat(*b, 'f', -1, 64)
}

// Apply keeps rows that satisfy every active criterion, in input order.
// Criteria naming unknown columns are ignored.
func Apply(rows []models.KeyedRow, columns []models.Column, criteria []models.FilterCriterion, logger *zap.Logger) []models.KeyedRow {
	if logger == nil {
		logger = zap.NewNop()
	}

	type bound struct {
		criterion models.FilterCriterion
		column    models.Column
	}
	active := make([]bound, 0, len(criteria))
	for _, c := range criteria {
		if !IsActive(c) {
			continue
		}
		col, ok := models.FindColumn(columns, c.ColumnID)
		if !ok {
			logger.Debug("ignoring filter on unknown column", zap.String("column", c.ColumnID))
			continue
		}
		active = append(active, bound{criterion: c, column: col})
	}
	if len(active) == 0 {
		return rows
	}

	out := make([]models.KeyedRow, 0, len(rows))
	for _, kr := range rows {
		keep := true
		for _, b := range active {
			if !MatchesRow(b.criterion, b.column, kr.Row) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, kr)
		}
	}
	return out
}
