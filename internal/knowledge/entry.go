// Package knowledge holds the curated topic -> replies table and the scorer
// that matches normalized utterances against it.
package knowledge

import (
	"strings"

	"futurechat/internal/textnorm"
)

// KeySeparator joins synonymous trigger phrases inside one key.
const KeySeparator = "|"

// Entry is one knowledge record: a set of trigger variants and the replies
// any of them may produce.
type Entry struct {
	Key      string
	Variants []string
	Replies  []string

	normalized []string // Normalize(variant), same order as Variants
}

// ParseKey splits a pattern key into lower-cased, trimmed, non-empty variants.
func ParseKey(key string) []string {
	parts := strings.Split(key, KeySeparator)
	variants := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		v := strings.ToLower(strings.TrimSpace(p))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		variants = append(variants, v)
	}
	return variants
}

func newEntry(key string, replies []string) *Entry {
	variants := ParseKey(key)
	if len(variants) == 0 {
		return nil
	}
	e := &Entry{Key: key, Variants: variants}
	e.normalized = make([]string, len(variants))
	for i, v := range variants {
		e.normalized[i] = textnorm.Normalize(v)
	}
	for _, r := range replies {
		e.addReply(r)
	}
	return e
}

// addReply appends r unless it is blank or already present.
func (e *Entry) addReply(r string) bool {
	r = strings.TrimSpace(r)
	if r == "" {
		return false
	}
	for _, existing := range e.Replies {
		if existing == r {
			return false
		}
	}
	e.Replies = append(e.Replies, r)
	return true
}

func (e *Entry) hasVariant(normalized string) bool {
	for _, v := range e.normalized {
		if v == normalized {
			return true
		}
	}
	return false
}
