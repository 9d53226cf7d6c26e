package policy

import "github.com/iMAGRAY/ASTSentinel/internal/config"

// Offline reports whether s carries no usable AI provider credentials —
// the core then runs entirely on the AST-derived, deterministic path
// (spec.md's "offline mode").
func Offline(s config.Settings) bool {
	return s.OpenAIAPIKey == "" && s.AnthropicAPIKey == "" &&
		s.GoogleAPIKey == "" && s.XAIAPIKey == ""
}
