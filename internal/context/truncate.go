// Package context is the context assembler (component C6): it composes the
// PostToolUse additionalContext string from eight fixed, ordered sections
// and the smaller UserPromptSubmit project snapshot.
package context

import "unicode/utf8"

// TruncateUTF8 clips s to at most maxChars runes, always stopping at a rune
// boundary (never splitting a multi-byte UTF-8 sequence), appending "…"
// when truncation actually occurred.
func TruncateUTF8(s string, maxChars int) string {
	if maxChars <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxChars]) + "…"
}
