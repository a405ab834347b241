package field

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Upper normalises s to NFC and upper-cases it. Relational literals are
// always folded this way.
func Upper(s string) string {
	return cases.Upper(language.Und).String(norm.NFC.String(s))
}

// Lower normalises s to NFC and lower-cases it. Graph literals and
// object-tree values are folded this way.
func Lower(s string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(s))
}

// UpperAll folds every value with Upper.
func UpperAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = Upper(v)
	}
	return out
}

// LowerAll folds every value with Lower.
func LowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = Lower(v)
	}
	return out
}
