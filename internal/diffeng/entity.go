package diffeng

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/iMAGRAY/ASTSentinel/internal/astlang"
)

// Entity is a function/method/class-equivalent slice of source, per
// spec.md's AST-entity definition.
type Entity struct {
	Kind      string // "function", "method", "class"
	Name      string
	LineStart int
	LineEnd   int
	node      *sitter.Node
}

// entityCandidates walks root once and collects every function/method/
// class-equivalent node as an Entity, in source order.
func entityCandidates(root *sitter.Node, lang astlang.Language, source []byte) []Entity {
	kinds := astlang.Kinds(lang)
	if kinds == nil || root == nil {
		return nil
	}
	var out []Entity
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		kind := n.Type()
		switch {
		case kinds.IsMethod(kind):
			out = append(out, newEntity("method", n, source))
		case kinds.IsFunction(kind):
			out = append(out, newEntity("function", n, source))
		case kinds.IsClassLike(kind):
			out = append(out, newEntity("class", n, source))
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return out
}

func newEntity(kind string, n *sitter.Node, source []byte) Entity {
	name := "<anonymous>"
	if id := n.ChildByFieldName("name"); id != nil {
		name = id.Content(source)
	}
	return Entity{
		Kind:      kind,
		Name:      name,
		LineStart: int(n.StartPoint().Row) + 1,
		LineEnd:   int(n.EndPoint().Row) + 1,
		node:      n,
	}
}

// MapLinesToEntities finds, for each changed line, the innermost entity
// (smallest line span) that contains it. Lines outside every entity are
// omitted from the result — callers fall back to a flat window for those.
func MapLinesToEntities(root *sitter.Node, lang astlang.Language, source []byte, changedLines []int) []Entity {
	candidates := entityCandidates(root, lang, source)
	seen := map[*sitter.Node]Entity{}
	var order []*sitter.Node
	for _, line := range changedLines {
		best := innermostFor(candidates, line)
		if best == nil {
			continue
		}
		if _, ok := seen[best.node]; !ok {
			seen[best.node] = *best
			order = append(order, best.node)
		}
	}
	out := make([]Entity, 0, len(order))
	for _, n := range order {
		out = append(out, seen[n])
	}
	return out
}

func innermostFor(candidates []Entity, line int) *Entity {
	var best *Entity
	bestSpan := -1
	for i := range candidates {
		e := &candidates[i]
		if line < e.LineStart || line > e.LineEnd {
			continue
		}
		span := e.LineEnd - e.LineStart
		if best == nil || span < bestSpan {
			best = e
			bestSpan = span
		}
	}
	return best
}
