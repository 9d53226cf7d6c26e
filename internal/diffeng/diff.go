// Package diffeng is the diff engine (component C5): unified diffs,
// changed-line sets, and their mapping onto AST entities for entity-scoped
// snippets.
package diffeng

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineOp is one line-mode diff operation: Equal, Insert (present only in
// new), or Delete (present only in old).
type LineOp struct {
	Type diffmatchpatch.Operation
	Text string // single line, no trailing newline
}

// LineDiff is the result of diffing old against new at line granularity —
// the line-mode Myers diff the unified-diff renderer and entity mapper
// both build on.
type LineDiff struct {
	Ops []LineOp
}

// ComputeLineDiff runs diffmatchpatch's line-mode diff: each line is mapped
// to a single rune so the byte-level Myers algorithm operates on whole
// lines, then the result is expanded back to line text. This is the
// standard technique diffmatchpatch's own docs recommend for line diffs and
// keeps diff quality good on large files (no O(n^2) character comparison).
func ComputeLineDiff(oldText, newText string) LineDiff {
	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(oldText, newText)
	charDiffs := dmp.DiffMain(a, b, false)
	lineDiffs := dmp.DiffCharsToLines(charDiffs, lineArray)

	var ops []LineOp
	for _, d := range lineDiffs {
		text := strings.TrimSuffix(d.Text, "\n")
		lines := strings.Split(text, "\n")
		for _, l := range lines {
			ops = append(ops, LineOp{Type: d.Type, Text: l})
		}
	}
	return LineDiff{Ops: ops}
}

// ChangedLines returns the 1-based line numbers in the new file that were
// inserted or are adjacent to a deletion (the line immediately before a
// pure deletion is considered changed too, matching how most AST-entity
// mappings want to attribute a deleted trailing statement to the enclosing
// function it was removed from).
func (ld LineDiff) ChangedLines() []int {
	var out []int
	newLine := 0
	pendingDeleteAnchor := 0
	for _, op := range ld.Ops {
		switch op.Type {
		case diffmatchpatch.DiffEqual:
			newLine++
			pendingDeleteAnchor = newLine
		case diffmatchpatch.DiffInsert:
			newLine++
			out = append(out, newLine)
		case diffmatchpatch.DiffDelete:
			if pendingDeleteAnchor > 0 {
				out = append(out, pendingDeleteAnchor)
			}
		}
	}
	return dedupInts(out)
}

func dedupInts(in []int) []int {
	seen := map[int]struct{}{}
	var out []int
	for _, n := range in {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Reconstruct rebuilds the new text from a LineDiff — used by the
// round-trip property test (spec's "applying the diff to old_text
// reconstructs new_text exactly").
func (ld LineDiff) Reconstruct() string {
	var lines []string
	for _, op := range ld.Ops {
		if op.Type == diffmatchpatch.DiffDelete {
			continue
		}
		lines = append(lines, op.Text)
	}
	return strings.Join(lines, "\n")
}
