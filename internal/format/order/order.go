// Package order sorts display names the way list panels present them:
// case-insensitive and accent-insensitive, stable for names that compare equal.
package order

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// newCollator returns a collator comparing at base strength. Collators are
// not safe for concurrent use, so each call builds its own.
func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.IgnoreCase, collate.IgnoreDiacritics, collate.IgnoreWidth)
}

// Compare orders a and b ignoring case and diacritics. It returns -1, 0 or 1.
func Compare(a, b string) int {
	return newCollator().CompareString(a, b)
}

// Strings sorts values in place.
func Strings(values []string) {
	c := newCollator()
	slices.SortStableFunc(values, c.CompareString)
}

// By sorts items in place using the name returned by key.
func By[T any](items []T, key func(T) string) {
	c := newCollator()
	slices.SortStableFunc(items, func(a, b T) int {
		return c.CompareString(key(a), key(b))
	})
}
