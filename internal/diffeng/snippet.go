package diffeng

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/iMAGRAY/ASTSentinel/internal/astlang"
)

// Snippet is one rendered change-context excerpt: either an entity body or a
// flat window around changed lines, 1-based-numbered with a `>` marker on
// lines bearing an issue.
type Snippet struct {
	Header    string // e.g. "function Divide (lines 5-9)"
	LineStart int
	Body      string
}

// SnippetCaps bounds the snippet section, per spec.md §4.C5.
type SnippetCaps struct {
	MaxSnippets      int // default 3
	SnippetCharCap   int // default 1500, per-snippet truncation
	SectionCharCap   int // default 1500, total section truncation
	DiffContextLines int // default 3, flat-window radius
}

// DefaultSnippetCaps returns spec.md's documented defaults.
func DefaultSnippetCaps() SnippetCaps {
	return SnippetCaps{MaxSnippets: 3, SnippetCharCap: 1500, SectionCharCap: 1500, DiffContextLines: 3}
}

// BuildSnippets produces the `=== CHANGE CONTEXT ===` body: entity-scoped
// snippets when root is parseable, ordered by LineStart, capped at
// MaxSnippets and SectionCharCap; falls back to a flat window per changed
// line run when root is nil or no entity contains a changed line.
func BuildSnippets(root *sitter.Node, lang astlang.Language, source []byte, changedLines []int, issueLines map[int]bool, caps SnippetCaps) string {
	lines := strings.Split(string(source), "\n")

	var snippets []Snippet
	mapped := map[int]bool{}
	if root != nil {
		entities := MapLinesToEntities(root, lang, source, changedLines)
		sort.Slice(entities, func(i, j int) bool { return entities[i].LineStart < entities[j].LineStart })
		for _, e := range entities {
			snippets = append(snippets, Snippet{
				Header:    e.Kind + " " + e.Name + " (lines " + strconv.Itoa(e.LineStart) + "-" + strconv.Itoa(e.LineEnd) + ")",
				LineStart: e.LineStart,
				Body:      renderLines(lines, e.LineStart, e.LineEnd, issueLines, caps.SnippetCharCap),
			})
			for l := e.LineStart; l <= e.LineEnd; l++ {
				mapped[l] = true
			}
		}
	}

	var unmapped []int
	for _, l := range changedLines {
		if !mapped[l] {
			unmapped = append(unmapped, l)
		}
	}
	for _, window := range groupIntoWindows(unmapped, caps.DiffContextLines) {
		start := window[0] - caps.DiffContextLines
		if start < 1 {
			start = 1
		}
		end := window[len(window)-1] + caps.DiffContextLines
		if end > len(lines) {
			end = len(lines)
		}
		snippets = append(snippets, Snippet{
			Header:    "changed lines " + strconv.Itoa(window[0]) + "-" + strconv.Itoa(window[len(window)-1]),
			LineStart: start,
			Body:      renderLines(lines, start, end, issueLines, caps.SnippetCharCap),
		})
	}

	sort.SliceStable(snippets, func(i, j int) bool { return snippets[i].LineStart < snippets[j].LineStart })

	if caps.MaxSnippets > 0 && len(snippets) > caps.MaxSnippets {
		snippets = snippets[:caps.MaxSnippets]
	}

	var b strings.Builder
	for i, s := range snippets {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(s.Header)
		b.WriteByte('\n')
		b.WriteString(s.Body)
	}
	return truncateUTF8(b.String(), caps.SectionCharCap)
}

// groupIntoWindows collapses a sorted-or-not set of line numbers into runs
// where consecutive members are within 2*radius of each other, so adjacent
// changed lines share one flat window instead of emitting one per line.
func groupIntoWindows(linesIn []int, radius int) [][]int {
	if len(linesIn) == 0 {
		return nil
	}
	sorted := append([]int(nil), linesIn...)
	sort.Ints(sorted)
	var windows [][]int
	cur := []int{sorted[0]}
	for _, l := range sorted[1:] {
		if l-cur[len(cur)-1] <= 2*radius {
			cur = append(cur, l)
			continue
		}
		windows = append(windows, cur)
		cur = []int{l}
	}
	windows = append(windows, cur)
	return windows
}

func renderLines(lines []string, start, end int, issueLines map[int]bool, charCap int) string {
	var b strings.Builder
	for ln := start; ln <= end && ln <= len(lines); ln++ {
		if ln < 1 {
			continue
		}
		marker := " "
		if issueLines[ln] {
			marker = ">"
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(marker)
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(ln))
		b.WriteString("  ")
		b.WriteString(lines[ln-1])
	}
	return truncateUTF8(b.String(), charCap)
}

// truncateUTF8 clips s to at most max characters (bytes are not a safe
// proxy for multi-byte text), appending "…" when truncation occurred,
// always stopping at a rune boundary.
func truncateUTF8(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	if max > len(runes) {
		max = len(runes)
	}
	return string(runes[:max]) + "…"
}
