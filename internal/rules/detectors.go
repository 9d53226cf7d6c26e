package rules

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/iMAGRAY/ASTSentinel/internal/astlang"
)

// stubCallNames are call/macro identifiers whose presence as a function's
// entire body marks it as a not-implemented placeholder rather than real
// logic — grounded on original_source's is_panic_like_stmt, which treats a
// bare panic!/todo!/unimplemented! statement as the whole of a fake body.
var stubCallNames = map[string]struct{}{
	"todo": {}, "unimplemented": {}, "panic": {}, "NotImplementedError": {},
	"NotImplemented": {}, "UnsupportedOperationException": {}, "notImplemented": {},
}

var printCallNames = map[string]struct{}{
	"print": {}, "println": {}, "Println": {}, "Printf": {}, "fmt.Println": {}, "fmt.Printf": {},
	"console.log": {}, "console.error": {}, "System.out.println": {}, "Console.WriteLine": {},
	"puts": {}, "echo": {}, "log.Println": {}, "log.Printf": {},
}

// detectUnreachable flags statements that follow a terminator within the
// same block. The Go `case`/`default` clause is excluded: execution falls
// through to the next case label, not past the switch, so a terminator
// inside one clause does not make a sibling clause's statements unreachable.
func detectUnreachable(root *sitter.Node, lang astlang.Language, source []byte) []Issue {
	kinds := astlang.Kinds(lang)
	if kinds == nil || root == nil {
		return nil
	}
	var out []Issue
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if isBlockLike(n.Type(), lang) {
			out = append(out, scanBlockUnreachable(n, kinds, lang, source)...)
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return out
}

func isBlockLike(kind string, lang astlang.Language) bool {
	switch kind {
	case "block", "statement_block", "compound_statement", "suite", "do_block":
		return true
	}
	return false
}

func scanBlockUnreachable(block *sitter.Node, kinds *astlang.KindSet, lang astlang.Language, source []byte) []Issue {
	stmts := statements(block)
	var out []Issue
	terminated := false
	for _, s := range stmts {
		kind := s.Type()
		// Go's case/default clause bodies are scanned independently; a
		// terminator inside one never reaches past the enclosing switch.
		if kind == "expression_case" || kind == "default_case" || kind == "case_clause" {
			terminated = false
			continue
		}
		if terminated {
			out = append(out, NewIssue(LogicUnreachable, Major, int(s.StartPoint().Row)+1,
				"unreachable code after a terminating statement"))
			// Only report once per run of dead statements.
			continue
		}
		if kinds.IsTerminator(kind) || isPanicLikeStatement(s, source) {
			terminated = true
		}
	}
	return out
}

func isPanicLikeStatement(n *sitter.Node, source []byte) bool {
	// A bare call/macro-invocation statement whose callee is a stub name
	// (panic, todo!, unimplemented!) terminates the block the same way a
	// language's native throw/return does.
	if n.Type() != "expression_statement" && n.Type() != "call_expression" && n.Type() != "macro_invocation" {
		return false
	}
	name := calleeName(n, source)
	_, ok := stubCallNames[name]
	return ok
}

// calleeName extracts the leftmost identifier of a call-like node's callee,
// covering the handful of grammar shapes (call_expression -> function field,
// macro_invocation -> macro field) the rule engine needs to recognize.
func calleeName(n *sitter.Node, source []byte) string {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "identifier", "simple_identifier":
			return c.Content(source)
		}
	}
	return ""
}

// detectEmptyCatch flags a catch/except/rescue clause whose body has no
// statements at all (only comments, or nothing), i.e. an error silently
// swallowed.
func detectEmptyCatch(root *sitter.Node, lang astlang.Language, source []byte) []Issue {
	kinds := astlang.Kinds(lang)
	if kinds == nil || root == nil {
		return nil
	}
	var out []Issue
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if kinds.IsCatch(n.Type()) {
			b := body(n)
			if b == nil {
				b = n
			}
			if len(statements(b)) == 0 {
				out = append(out, NewIssue(LogicEmptyCatch, Major, int(n.StartPoint().Row)+1,
					"caught error is not logged, rethrown, or handled"))
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return out
}

// detectFakeImplementations flags three shapes of placeholder function body:
// a bare constant return, a body that only prints/logs, and a body that is a
// not-implemented stub.
func detectFakeImplementations(funcs []FuncInfo, lang astlang.Language, source []byte) []Issue {
	var out []Issue
	for _, fi := range funcs {
		b := body(fi.Node)
		stmts := statements(b)
		if len(stmts) == 0 {
			continue
		}
		switch {
		case len(stmts) == 1 && isConstantReturn(stmts[0], lang):
			out = append(out, NewIssue(FakeReturnConst, Critical, fi.StartLine,
				"function body is only a constant return"))
		case allPrintOnly(stmts, source):
			out = append(out, NewIssue(FakePrintOnly, Critical, fi.StartLine,
				"function body only logs or prints, performing no real work"))
		case anyStub(stmts, source):
			out = append(out, NewIssue(FakeNotImpl, Critical, fi.StartLine,
				"function body is a not-implemented stub"))
		}
	}
	return out
}

func isConstantReturn(stmt *sitter.Node, lang astlang.Language) bool {
	kinds := astlang.Kinds(lang)
	if kinds == nil || !kinds.IsReturn(stmt.Type()) {
		return false
	}
	if int(stmt.ChildCount()) == 0 {
		return true // bare `return` / `return nil`-shaped
	}
	for i := 0; i < int(stmt.ChildCount()); i++ {
		c := stmt.Child(i)
		switch c.Type() {
		case "return", ";":
			continue
		case "int_literal", "number", "integer", "float", "string_literal", "interpreted_string_literal",
			"string", "true", "false", "nil", "null", "none", "raw_string_literal":
			continue
		default:
			return false
		}
	}
	return true
}

func allPrintOnly(stmts []*sitter.Node, source []byte) bool {
	for _, s := range stmts {
		name := callChainName(s, source)
		if name == "" {
			return false
		}
		if _, ok := printCallNames[name]; !ok && !strings.Contains(strings.ToLower(name), "log") &&
			!strings.Contains(strings.ToLower(name), "print") {
			return false
		}
	}
	return true
}

func anyStub(stmts []*sitter.Node, source []byte) bool {
	for _, s := range stmts {
		if isPanicLikeStatement(s, source) {
			return true
		}
		name := callChainName(s, source)
		if _, ok := stubCallNames[name]; ok {
			return true
		}
	}
	return false
}

// callChainName returns a dotted call name ("fmt.Println") for an
// expression-statement wrapping a single call, or "" when the statement
// isn't a bare call.
func callChainName(stmt *sitter.Node, source []byte) string {
	n := stmt
	if n.Type() == "expression_statement" && n.ChildCount() > 0 {
		n = n.Child(0)
	}
	if n.Type() != "call_expression" && n.Type() != "call" && n.Type() != "method_invocation" {
		return ""
	}
	fn := n.ChildByFieldName("function")
	if fn == nil && n.ChildCount() > 0 {
		fn = n.Child(0)
	}
	if fn == nil {
		return ""
	}
	return fn.Content(source)
}

// detectStyle runs the three per-function size rules (too many params, deep
// nesting, high complexity) plus the language-specific complexity threshold
// the original scorer used (Go/Python held to a tighter bar than Java/C++).
func detectStyle(funcs []FuncInfo, lang astlang.Language, source []byte, th Thresholds) []Issue {
	kinds := astlang.Kinds(lang)
	var out []Issue
	complexityLimit := complexityThresholdFor(lang, th.MaxComplexity)
	for _, fi := range funcs {
		if fi.ParamCount > th.MaxParams {
			out = append(out, NewIssue(StyleTooManyArgs, Minor, fi.StartLine,
				"function takes "+strconv.Itoa(fi.ParamCount)+" parameters (limit "+strconv.Itoa(th.MaxParams)+")"))
		}
		nesting, complexity := nestingAndComplexity(fi.Node, kinds)
		if nesting > th.MaxNesting {
			out = append(out, NewIssue(StyleDeepNest, Minor, fi.StartLine,
				"nesting depth "+strconv.Itoa(nesting)+" exceeds limit "+strconv.Itoa(th.MaxNesting)))
		}
		if complexity > complexityLimit {
			out = append(out, NewIssue(StyleHighCompl, Minor, fi.StartLine,
				"cyclomatic complexity "+strconv.Itoa(complexity)+" exceeds limit "+strconv.Itoa(complexityLimit)))
		}
	}
	return out
}

func complexityThresholdFor(lang astlang.Language, configured int) int {
	switch lang {
	case astlang.Python, astlang.Go:
		if configured > 8 {
			return 8
		}
	case astlang.Java, astlang.CSharp:
		if configured < 12 {
			return 12
		}
	case astlang.C, astlang.CPP:
		if configured < 15 {
			return 15
		}
	}
	return configured
}

func nestingAndComplexity(fn *sitter.Node, kinds *astlang.KindSet) (int, int) {
	if kinds == nil {
		return 0, 1
	}
	maxDepth := 0
	complexity := 1
	var walk func(n *sitter.Node, depth int)
	walk = func(n *sitter.Node, depth int) {
		if n == nil {
			return
		}
		kind := n.Type()
		nextDepth := depth
		if kinds.IsConditional(kind) || kinds.IsLoopHeader(kind) || kinds.IsTry(kind) {
			nextDepth = depth + 1
			if nextDepth > maxDepth {
				maxDepth = nextDepth
			}
			complexity++
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i), nextDepth)
		}
	}
	walk(body(fn), 0)
	return maxDepth, complexity
}

// Baseline carries the pre-edit signature of every known function, keyed by
// name, so detectContractDrift can flag a reduced arity across a diff.
type Baseline map[string]int

// detectContractDrift compares each current function's parameter count
// against its pre-edit baseline (when known) and flags a reduction — an
// increase or an unknown function is never flagged, matching the "contract
// shrank" framing of the rule.
func detectContractDrift(funcs []FuncInfo, source []byte, baseline Baseline) []Issue {
	if len(baseline) == 0 {
		return nil
	}
	var out []Issue
	for _, fi := range funcs {
		name := nameOf(fi.Node, source)
		if name == "" {
			continue
		}
		prev, ok := baseline[name]
		if !ok || fi.ParamCount >= prev {
			continue
		}
		out = append(out, NewIssue(ContractArity, Major, fi.StartLine,
			name+" lost parameters: "+strconv.Itoa(prev)+" -> "+strconv.Itoa(fi.ParamCount)))
	}
	return out
}
