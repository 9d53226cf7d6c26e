// Package policy is the admission layer (component C7): it turns the AST
// engine's issues and the diff engine's change classification into the
// PreToolUse allow/ask/deny verdict, and wraps the C6 bundle into the
// PostToolUse verdict (which never gates, only reports).
package policy

import (
	"path/filepath"
	"strings"
)

// testDirMarkers are path segments that mark everything beneath them as
// test context, per spec.md §4.C7.
var testDirMarkers = []string{
	"tests/", "__tests__/", "fixtures/", "snapshots/", "examples/", "benches/",
}

// IsTestPath reports whether relPath should be treated as test context:
// it sits under one of the marker directories, or its base name matches
// the "*_test.<ext>" convention.
func IsTestPath(relPath string) bool {
	slashed := filepath.ToSlash(relPath)
	for _, marker := range testDirMarkers {
		if strings.Contains(slashed, "/"+marker) || strings.HasPrefix(slashed, marker) {
			return true
		}
	}
	base := filepath.Base(slashed)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return strings.HasSuffix(stem, "_test")
}
