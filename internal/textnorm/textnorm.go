// Package textnorm folds user text into the canonical form used for matching.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases text and drops everything that is not a letter, a
// digit or whitespace, then trims. It is total and idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	folded := norm.NFC.String(strings.ToLower(norm.NFC.String(text)))

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// Tokens splits normalized text on whitespace.
func Tokens(normalized string) []string {
	return strings.Fields(normalized)
}

// TokenSet returns the distinct tokens of normalized text.
func TokenSet(normalized string) map[string]struct{} {
	fields := strings.Fields(normalized)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// HasToken reports whether tok appears as a whole token of normalized text.
func HasToken(normalized, tok string) bool {
	for _, f := range strings.Fields(normalized) {
		if f == tok {
			return true
		}
	}
	return false
}
