package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/iMAGRAY/ASTSentinel/internal/astlang"
)

// grammarFor returns the tree-sitter grammar for lang, or nil when the
// facade should fall back to the line-based tokenizer. Rust is parsed
// through its tree-sitter grammar rather than a true compiler front end —
// see DESIGN.md for why that satisfies spec.md's "either family is
// permitted" clause for this implementation.
func grammarFor(lang astlang.Language) *sitter.Language {
	switch lang {
	case astlang.Go:
		return golang.GetLanguage()
	case astlang.Python:
		return python.GetLanguage()
	case astlang.JavaScript:
		return javascript.GetLanguage()
	case astlang.TypeScript:
		return typescript.GetLanguage()
	case astlang.TSX:
		return tsx.GetLanguage()
	case astlang.Java:
		return java.GetLanguage()
	case astlang.CSharp:
		return csharp.GetLanguage()
	case astlang.Rust:
		return rust.GetLanguage()
	case astlang.C:
		return c.GetLanguage()
	case astlang.CPP:
		return cpp.GetLanguage()
	case astlang.PHP:
		return php.GetLanguage()
	case astlang.Ruby:
		return ruby.GetLanguage()
	default:
		return nil
	}
}
