package collab

import "github.com/iMAGRAY/ASTSentinel/internal/astlang"

// Formatter is metadata only — a name and an invocation hint the QUICK
// TIPS section can surface. The core never shells out to run one
// (spec.md's formatter non-goal): running an external formatter is a
// side-effecting action a hook must not take on the caller's behalf.
type Formatter struct {
	Name    string
	Command string
}

var formatterRegistry = map[astlang.Language]Formatter{
	astlang.Go:         {Name: "gofmt", Command: "gofmt -w"},
	astlang.Python:     {Name: "black", Command: "black"},
	astlang.JavaScript: {Name: "prettier", Command: "prettier --write"},
	astlang.TypeScript: {Name: "prettier", Command: "prettier --write"},
	astlang.TSX:        {Name: "prettier", Command: "prettier --write"},
	astlang.Java:       {Name: "google-java-format", Command: "google-java-format -i"},
	astlang.CSharp:     {Name: "dotnet-format", Command: "dotnet format"},
	astlang.Rust:       {Name: "rustfmt", Command: "rustfmt"},
	astlang.C:          {Name: "clang-format", Command: "clang-format -i"},
	astlang.CPP:        {Name: "clang-format", Command: "clang-format -i"},
	astlang.PHP:        {Name: "php-cs-fixer", Command: "php-cs-fixer fix"},
	astlang.Ruby:       {Name: "rubocop", Command: "rubocop -A"},
}

// FormatterFor looks up the registered formatter for lang, if any.
func FormatterFor(lang astlang.Language) (Formatter, bool) {
	f, ok := formatterRegistry[lang]
	return f, ok
}
