package models

// FilterKind tags the predicate a column filter applies
type FilterKind string

const (
	// FilterMultiSelect keeps rows whose value is one of the selected values
	FilterMultiSelect FilterKind = "multiSelect"
	// FilterNumberRange keeps rows whose numeric value lies within the bounds
	FilterNumberRange FilterKind = "numberRange"
	// FilterSearch keeps rows whose value contains the search text
	FilterSearch FilterKind = "search"
	// FilterMultiChoice keeps rows where any selected token occurs in the comma separated value
	FilterMultiChoice FilterKind = "multiChoice"
)

// FilterKinds lists every supported kind in display order
var FilterKinds = []FilterKind{
	FilterMultiSelect,
	FilterNumberRange,
	FilterSearch,
	FilterMultiChoice,
}

// Valid reports whether k is a known kind
func (k FilterKind) Valid() bool {
	for _, known := range FilterKinds {
		if k == known {
			return true
		}
	}
	return false
}

// NumberRange holds optional inclusive bounds
type NumberRange struct {
	Min *float64
	Max *float64
}

// FilterCriterion is the active filter of one column.
// Only the field matching Kind is read.
type FilterCriterion struct {
	ColumnID string
	Kind     FilterKind
	Selected []string
	Range    NumberRange
	Text     string
}

// Float returns a pointer to v, for building range bounds
func Float(v float64) *float64 {
	return &v
}
