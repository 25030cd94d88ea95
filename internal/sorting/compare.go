package sorting

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/rebeliceyang/cotable/internal/rowpath"
)

// Comparator orders cell values using the collation rules of a locale
type Comparator struct {
	tag      language.Tag
	collator *collate.Collator
}

// NewComparator creates a comparator for a BCP 47 locale such as "tr" or "en".
// Unknown locales fall back to Turkish.
func NewComparator(locale string) *Comparator {
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = language.Turkish
	}
	return &Comparator{
		tag:      tag,
		collator: collate.New(tag),
	}
}

// Locale returns the collation locale
func (c *Comparator) Locale() language.Tag {
	return c.tag
}

// Compare returns a negative number when a sorts before b, zero when they tie
// and a positive number otherwise. Absent values sort last.
func (c *Comparator) Compare(a, b any) int {
	aNull, bNull := isNull(a), isNull(b)
	switch {
	case aNull && bNull:
		return 0
	case aNull:
		return 1
	case bNull:
		return -1
	}

	return c.compareValues(a, b)
}

// CompareDirected is Compare with the non-null ordering inverted when desc is set.
// Absent values stay last in both directions.
func (c *Comparator) CompareDirected(a, b any, desc bool) int {
	aNull, bNull := isNull(a), isNull(b)
	if aNull || bNull {
		return c.Compare(a, b)
	}
	cmp := c.compareValues(a, b)
	if desc {
		return -cmp
	}
	return cmp
}

func (c *Comparator) compareValues(a, b any) int {
	ka, kb := rowpath.KindOf(a), rowpath.KindOf(b)

	if ka == rowpath.KindNumber && kb == rowpath.KindNumber {
		fa, _ := rowpath.ToFloat64(a)
		fb, _ := rowpath.ToFloat64(b)
		return sign(fa - fb)
	}
	if ka == rowpath.KindBool && kb == rowpath.KindBool {
		return boolOrder(a.(bool)) - boolOrder(b.(bool))
	}
	if ka == rowpath.KindString && kb == rowpath.KindString {
		return c.CompareStrings(rowpath.Stringify(a), rowpath.Stringify(b))
	}

	// Mixed types fall back to collation over the text form
	return c.CompareStrings(rowpath.Stringify(a), rowpath.Stringify(b))
}

// CompareStrings compares two strings with the locale collation
func (c *Comparator) CompareStrings(a, b string) int {
	return c.collator.CompareString(a, b)
}

func isNull(v any) bool {
	if v == nil {
		return true
	}
	return rowpath.KindOf(v) == rowpath.KindNull
}

func boolOrder(b bool) int {
	if b {
		return 1
	}
	return 0
}

func sign(f float64) int {
	switch {
	case f < 0:
		return -1
	case f > 0:
		return 1
	default:
		return 0
	}
}
