package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/iMAGRAY/ASTSentinel/internal/astlang"
)

// computeMetrics walks the tree once, pre-order, to derive the basic
// metrics vector (spec.md §4.C2): approximate function count, max nesting
// depth of control structures, and a cyclomatic complexity estimate
// (1 + one per decision point, summed across the whole file).
func computeMetrics(root *sitter.Node, lang astlang.Language, lineCount int) Metrics {
	kinds := astlang.Kinds(lang)
	m := Metrics{Lines: lineCount, CyclomaticEstimate: 1}
	if kinds == nil || root == nil {
		return m
	}

	var walk func(n *sitter.Node, depth int)
	maxDepth := 0
	walk = func(n *sitter.Node, depth int) {
		if n == nil {
			return
		}
		kind := n.Type()
		nextDepth := depth

		if kinds.IsFunctionLike(kind) {
			m.ApproxFunctions++
		}
		if kinds.IsConditional(kind) || kinds.IsLoopHeader(kind) || kinds.IsTry(kind) {
			nextDepth = depth + 1
			if nextDepth > maxDepth {
				maxDepth = nextDepth
			}
			m.CyclomaticEstimate++
		}

		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i), nextDepth)
		}
	}
	walk(root, 0)
	m.MaxNesting = maxDepth
	return m
}
