package policy

import "strings"

// normalizeForComparison strips // and /* */ and # line comments, then all
// whitespace, so two texts that differ only in formatting or commentary
// compare equal. Grounded on the teacher pack's normalize_code_for_signal
// heuristic (original_source/src/bin/pretooluse.rs).
func normalizeForComparison(code string) string {
	var b strings.Builder
	r := []rune(code)
	i := 0
	for i < len(r) {
		if i+1 < len(r) && r[i] == '/' && r[i+1] == '*' {
			i += 2
			for i+1 < len(r) && !(r[i] == '*' && r[i+1] == '/') {
				i++
			}
			if i+1 < len(r) {
				i += 2
			}
			continue
		}
		if i+1 < len(r) && r[i] == '/' && r[i+1] == '/' {
			for i < len(r) && r[i] != '\n' {
				i++
			}
			continue
		}
		if r[i] == '#' {
			for i < len(r) && r[i] != '\n' {
				i++
			}
			continue
		}
		b.WriteRune(r[i])
		i++
	}
	return strings.Join(strings.Fields(b.String()), "")
}

// IsSemanticallyEmpty reports whether newText changes nothing but
// whitespace and comments relative to oldText — spec.md §4.C7 rule 3.
func IsSemanticallyEmpty(oldText, newText string) bool {
	if oldText == newText {
		return true
	}
	return normalizeForComparison(oldText) == normalizeForComparison(newText)
}
