package rules

import (
	"github.com/iMAGRAY/ASTSentinel/internal/parser"
)

// Mode selects which engine implementation Analyze runs.
type Mode int

const (
	// FastPath is the default: RunSinglePass's one-DFS engine.
	FastPath Mode = iota
	// Legacy forces RunMultiPass, the per-rule oracle engine. Used by the
	// parity test and by the ASTSentinel CLI's --legacy-engine debug flag.
	Legacy
)

// Analyze runs the selected engine against res and applies the severity
// cap, returning a fully sorted, capped issue list ready for a report. When
// maxMajor or maxMinor is <= 0 no cap is applied for that severity.
func Analyze(res *parser.Result, mode Mode, ctx EngineContext, maxMajor, maxMinor int) []Issue {
	var raw []Issue
	switch mode {
	case Legacy:
		raw = RunMultiPass(res, ctx)
	default:
		raw = RunSinglePass(res, ctx)
	}
	deduped := Dedup(raw)
	if maxMajor <= 0 {
		maxMajor = len(deduped)
	}
	if maxMinor <= 0 {
		maxMinor = len(deduped)
	}
	return CapBySeverity(deduped, maxMajor, maxMinor)
}
