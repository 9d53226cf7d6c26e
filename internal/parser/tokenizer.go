package parser

import (
	"bytes"

	"github.com/iMAGRAY/ASTSentinel/internal/astlang"
)

// tokenizeFallback builds a Result with no tree for unknown languages or
// files tree-sitter failed to parse. Only text rules (long line, credential
// heuristics on raw lines) can run against it, per spec.md §4.C1/§4.C2.
func tokenizeFallback(source []byte, lang astlang.Language) *Result {
	return &Result{
		Lang:   lang,
		Source: source,
		Metrics: Metrics{
			Lines:              bytes.Count(source, []byte("\n")) + 1,
			ApproxFunctions:    0,
			MaxNesting:         0,
			CyclomaticEstimate: 1,
		},
	}
}
