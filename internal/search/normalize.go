package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// turkishFold maps letters that do not decompose into an ASCII base
var turkishFold = strings.NewReplacer(
	"ı", "i", "İ", "i",
	"ş", "s", "Ş", "s",
	"ğ", "g", "Ğ", "g",
	"ü", "u", "Ü", "u",
	"ö", "o", "Ö", "o",
	"ç", "c", "Ç", "c",
)

// Normalize folds s for accent and case insensitive matching.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = turkishFold.Replace(s)
	s = strings.ToLower(s)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Contains reports whether the normalized haystack contains the normalized needle
func Contains(haystack, needle string) bool {
	return strings.Contains(Normalize(haystack), Normalize(needle))
}
