// Package textutils provides text normalization and matching utilities.
package textutils

import (
	"strings"
	"unicode"
)

// NormalizedKeyLength is the maximum rune length of a normalized key
const NormalizedKeyLength = 30

// Normalize turns a transaction description into a grouping key.
// It lower-cases the text, drops digits and punctuation, trims it and keeps
// the first NormalizedKeyLength runes, so "NETFLIX 4521" and "Netflix 7788"
// share the key "netflix".
func Normalize(description string) string {
	var b strings.Builder
	b.Grow(len(description))
	for _, r := range strings.ToLower(description) {
		switch {
		case unicode.IsDigit(r):
			continue
		case unicode.IsLetter(r), unicode.IsSpace(r):
			b.WriteRune(r)
		}
	}

	key := strings.TrimSpace(b.String())
	runes := []rune(key)
	if len(runes) > NormalizedKeyLength {
		key = string(runes[:NormalizedKeyLength])
	}
	return key
}

// ContainsFold reports whether substr occurs in s, ignoring case
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ContainsAnyFold reports whether any of the keywords occurs in s, ignoring case
func ContainsAnyFold(s string, keywords []string) bool {
	lower := strings.ToLower(s)
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
