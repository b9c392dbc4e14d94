package util

import (
	"strings"
	"unicode"
)

// DisplaySnippet returns a single-line, printable rendering of s cut to maxRunes.
func DisplaySnippet(s string, maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = 420
	}
	s = NormalizeWhitespace(SanitizeText(s))
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsPrint(r) {
			out = append(out, r)
		}
	}
	trimmed := strings.TrimSpace(string(out))
	runes := []rune(trimmed)
	if len(runes) > maxRunes {
		return strings.TrimSpace(string(runes[:maxRunes])) + "..."
	}
	return trimmed
}

// JoinAuthors renders an author list the way the paper cards show it.
func JoinAuthors(authors []string) string {
	return strings.Join(authors, ", ")
}
