// Package textmatch implements the client-side search used by list pages.
package textmatch

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold returns the case-folded form of s.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// AnyContains reports whether the folded term is a substring of any field.
// An empty term matches everything.
func AnyContains(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	needle := Fold(term)
	for _, field := range fields {
		if strings.Contains(Fold(field), needle) {
			return true
		}
	}
	return false
}

// Deref returns the string behind an optional field.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
