package search

import (
	"strings"
	"unicode"
)

// Normalize lowercases and trims text, then drops every rune that is not an
// ASCII letter, digit, underscore or whitespace.
func Normalize(text string) string {
	text = strings.TrimSpace(strings.ToLower(text))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		case unicode.IsSpace(r):
			return r
		}
		return -1
	}, text)
}

// Trigrams returns the distinct 3-rune windows of Normalize(text), in order of
// first appearance. Texts shorter than three runes have none.
func Trigrams(text string) []string {
	runes := []rune(Normalize(text))
	if len(runes) < 3 {
		return nil
	}
	seen := make(map[string]struct{}, len(runes)-2)
	out := make([]string, 0, len(runes)-2)
	for i := 0; i+3 <= len(runes); i++ {
		tri := string(runes[i : i+3])
		if _, ok := seen[tri]; ok {
			continue
		}
		seen[tri] = struct{}{}
		out = append(out, tri)
	}
	return out
}
