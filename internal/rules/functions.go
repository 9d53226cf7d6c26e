package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/iMAGRAY/ASTSentinel/internal/astlang"
)

// FuncInfo is one extracted function/method, enough to run the contract,
// style, and anti-cheat rules against.
type FuncInfo struct {
	Node       *sitter.Node
	Name       string
	ParamCount int
	StartLine  int
	EndLine    int
}

// extractFunctions walks the tree once and returns every function/method
// definition it finds, in source order.
func extractFunctions(root *sitter.Node, lang astlang.Language) []FuncInfo {
	kinds := astlang.Kinds(lang)
	if kinds == nil || root == nil {
		return nil
	}
	var out []FuncInfo
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if kinds.IsFunctionLike(n.Type()) {
			fi := FuncInfo{
				Node:      n,
				StartLine: int(n.StartPoint().Row) + 1,
				EndLine:   int(n.EndPoint().Row) + 1,
			}
			fi.ParamCount = countParams(n, kinds)
			out = append(out, fi)
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return out
}

func countParams(fn *sitter.Node, kinds *astlang.KindSet) int {
	var list *sitter.Node
	for i := 0; i < int(fn.ChildCount()); i++ {
		c := fn.Child(i)
		if kinds.IsParamList(c.Type()) {
			list = c
			break
		}
	}
	if list == nil {
		return 0
	}
	count := 0
	for i := 0; i < int(list.ChildCount()); i++ {
		c := list.Child(i)
		t := c.Type()
		// Only count named parameter nodes — skip the punctuation tokens
		// tree-sitter also yields as children of a parameter list.
		if t == "(" || t == ")" || t == "," {
			continue
		}
		if t == "parameter_declaration" {
			// Go allows a grouped name list sharing one type ("a, b int"):
			// count each identifier, not the single declaration node.
			count += namesInDeclaration(c)
			continue
		}
		count++
	}
	return count
}

func namesInDeclaration(decl *sitter.Node) int {
	names := 0
	for i := 0; i < int(decl.ChildCount()); i++ {
		if decl.Child(i).Type() == "identifier" {
			names++
		}
	}
	if names == 0 {
		return 1
	}
	return names
}

func nameOf(fn *sitter.Node, source []byte) string {
	if id := fn.ChildByFieldName("name"); id != nil {
		return id.Content(source)
	}
	return ""
}

// body returns the statement block of a function node, when the grammar
// exposes one as a direct "body" field (true of every grammar in
// astlang.AllLanguages except Ruby, which nests statements directly under
// the method node).
func body(fn *sitter.Node) *sitter.Node {
	if b := fn.ChildByFieldName("body"); b != nil {
		return b
	}
	return fn
}

// statements returns the direct statement-level children of a block node,
// skipping braces/markers that carry no semantic weight.
func statements(block *sitter.Node) []*sitter.Node {
	if block == nil {
		return nil
	}
	var out []*sitter.Node
	for i := 0; i < int(block.ChildCount()); i++ {
		c := block.Child(i)
		switch c.Type() {
		case "{", "}", "comment", ":", "indent", "dedent", "newline":
			continue
		}
		out = append(out, c)
	}
	return out
}
