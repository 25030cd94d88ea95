package components

import (
	"strconv"
	"strings"

	"github.com/rebeliceyang/cotable/internal/filter"
	"github.com/rebeliceyang/cotable/internal/i18n"
	"github.com/rebeliceyang/cotable/internal/models"
)

// FilterSummary describes an active criterion in a few characters for the
// inline filter row. Inactive criteria return the placeholder.
func FilterSummary(c models.FilterCriterion, strs *i18n.Strings) string {
	if !filter.IsActive(c) {
		return strs.T("filter.placeholder")
	}

	switch c.Kind {
	case models.FilterNumberRange:
		lo, hi := filter.FormatBound(c.Range.Min), filter.FormatBound(c.Range.Max)
		switch {
		case lo != "" && hi != "" && lo == hi:
			return "= " + lo
		case lo != "" && hi != "":
			return lo + "–" + hi
		case lo != "":
			return "≥ " + lo
		default:
			return "≤ " + hi
		}
	case models.FilterSearch:
		return "~ " + strings.TrimSpace(c.Text)
	default:
		if len(c.Selected) == 1 {
			return c.Selected[0]
		}
		return c.Selected[0] + " +" + strconv.Itoa(len(c.Selected)-1)
	}
}
