package domain

import "strings"

// forbiddenNameCharacters may not appear anywhere in a subscriber name.
const forbiddenNameCharacters = `/()"<>\{}`

// containsForbidden reports whether s contains any rune from forbiddenNameCharacters.
func containsForbidden(s string) bool {
	return strings.ContainsAny(s, forbiddenNameCharacters)
}

// isBlank reports whether s is empty once Unicode whitespace is trimmed.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
