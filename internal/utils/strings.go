package utils

import "strings"

// NormalizeSpace collapses repeated whitespace into a single space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeKey lowercases and strips spaces, dashes, dots and underscores so
// "Larnaca Airport", "larnaca-airport" and "LARNACA_AIRPORT" compare equal.
func NormalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "-", "", ".", "", "_", "").Replace(s)
}
