package hooks

import (
	"strings"

	"github.com/iMAGRAY/ASTSentinel/internal/rules"
)

// SecretScanner is a preToolUse hook that scans the file contents about to
// be written for credentials before the expensive AST pipeline ever runs. It shares its
// regex battery with rules.Analyze's SEC_CREDS detector (rules.DetectCredentialPattern)
// instead of keeping its own copy, so "what looks like a secret" has one
// definition across the write-time guard and the AST-aware report; this
// hook just stops at the first line that matches instead of collecting
// every one.
func SecretScanner(input HookInput) (HookResult, int) {
	if input.ToolName != "Write" {
		return Allow(), 0
	}

	contents := input.Contents()
	path := input.Path()
	if contents == "" {
		return Allow(), 0
	}

	// Skip example/template files
	lower := strings.ToLower(path)
	if strings.Contains(lower, "example") || strings.Contains(lower, "template") || strings.Contains(lower, "sample") {
		return Allow(), 0
	}

	// Skip generic patterns in test files (but still catch real tokens)
	isTest := strings.Contains(lower, "_test.") || strings.Contains(lower, "test_") || strings.HasSuffix(lower, ".test.go")

	for _, line := range strings.Split(contents, "\n") {
		if name, ok := rules.DetectCredentialPattern(line, isTest); ok {
			return Deny("Blocked: potential " + name + " (" + string(rules.SecCreds) + ") detected in " + path), 2
		}
	}

	return Allow(), 0
}
