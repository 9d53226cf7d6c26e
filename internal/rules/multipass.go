package rules

import (
	"github.com/iMAGRAY/ASTSentinel/internal/parser"
)

// EngineContext carries the per-file knobs both engines need: the style
// thresholds for this run's sensitivity level, whether the file is a test
// file (gates the generic credential patterns), and the pre-edit signature
// baseline the contract rule compares against (nil when no diff baseline
// is available, e.g. a fresh scan with no prior revision).
type EngineContext struct {
	Thresholds Thresholds
	IsTestFile bool
	Baseline   Baseline
}

// RunMultiPass is the legacy engine: one independent tree walk per
// tree-based rule, in Catalogue's declared MultiPassOrder. It is slower
// than RunSinglePass but serves as the oracle RunSinglePass's output is
// checked against (spec's two-implementation parity requirement).
func RunMultiPass(res *parser.Result, ctx EngineContext) []Issue {
	var out []Issue
	out = append(out, scanCredentials(res.Source, ctx.IsTestFile)...)
	out = append(out, scanSQLInjection(res.Source)...)
	out = append(out, scanCmdInjection(res.Source)...)
	out = append(out, scanPathTraversal(res.Source)...)

	if res.Tree == nil {
		out = append(out, scanLongLines(res.Source, ctx.Thresholds.MaxLineLen)...)
		Sort(out)
		return out
	}
	root := res.Tree.RootNode()
	lang := res.Lang

	out = append(out, detectUnreachable(root, lang, res.Source)...)
	out = append(out, detectEmptyCatch(root, lang, res.Source)...)

	funcs := extractFunctions(root, lang)
	out = append(out, detectFakeImplementations(funcs, lang, res.Source)...)
	out = append(out, detectContractDrift(funcs, res.Source, ctx.Baseline)...)
	out = append(out, detectStyle(funcs, lang, res.Source, ctx.Thresholds)...)
	out = append(out, scanLongLines(res.Source, ctx.Thresholds.MaxLineLen)...)

	Sort(out)
	return out
}
