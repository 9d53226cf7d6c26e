package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/iMAGRAY/ASTSentinel/internal/astlang"
	"github.com/iMAGRAY/ASTSentinel/internal/parser"
)

// RunSinglePass is the fast-path engine: exactly one DFS over the tree
// collects function boundaries and runs the block/catch checks inline,
// instead of RunMultiPass's N independent walks. Per-function checks
// (fake-implementation shapes, style thresholds, contract drift) still run
// once per discovered function afterward — that work is bounded by each
// function's own subtree, not a second sweep of the whole file, so the
// "single pass" property (one full-file traversal) holds.
func RunSinglePass(res *parser.Result, ctx EngineContext) []Issue {
	var out []Issue
	out = append(out, scanCredentials(res.Source, ctx.IsTestFile)...)
	out = append(out, scanSQLInjection(res.Source)...)
	out = append(out, scanCmdInjection(res.Source)...)
	out = append(out, scanPathTraversal(res.Source)...)
	out = append(out, scanLongLines(res.Source, ctx.Thresholds.MaxLineLen)...)

	if res.Tree == nil {
		Sort(out)
		return out
	}
	root := res.Tree.RootNode()
	lang := res.Lang
	kinds := astlang.Kinds(lang)
	if kinds == nil {
		Sort(out)
		return out
	}

	var funcs []FuncInfo
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		kind := n.Type()
		switch {
		case isBlockLike(kind, lang):
			out = append(out, scanBlockUnreachable(n, kinds, lang, res.Source)...)
		case kinds.IsCatch(kind):
			out = append(out, checkEmptyCatch(n)...)
		case kinds.IsFunctionLike(kind):
			funcs = append(funcs, FuncInfo{
				Node:       n,
				ParamCount: countParams(n, kinds),
				StartLine:  int(n.StartPoint().Row) + 1,
				EndLine:    int(n.EndPoint().Row) + 1,
			})
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)

	out = append(out, detectFakeImplementations(funcs, lang, res.Source)...)
	out = append(out, detectStyle(funcs, lang, res.Source, ctx.Thresholds)...)
	out = append(out, detectContractDrift(funcs, res.Source, ctx.Baseline)...)

	Sort(out)
	return out
}

func checkEmptyCatch(n *sitter.Node) []Issue {
	b := body(n)
	if b == nil {
		b = n
	}
	if len(statements(b)) == 0 {
		return []Issue{NewIssue(LogicEmptyCatch, Major, int(n.StartPoint().Row)+1,
			"caught error is not logged, rethrown, or handled")}
	}
	return nil
}
