package context_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	astcontext "github.com/iMAGRAY/ASTSentinel/internal/context"
	"github.com/iMAGRAY/ASTSentinel/internal/parser"
	"github.com/iMAGRAY/ASTSentinel/internal/rules"
)

func TestAssembleOrdersSectionsAndTruncates(t *testing.T) {
	bundle := astcontext.Bundle{
		UnifiedDiff: "@@ -1,1 +1,1 @@\n-old\n+new",
		RelPath:     "main.go",
		Issues: []rules.Issue{
			rules.NewIssue(rules.LogicUnreachable, rules.Major, 10, "dead code"),
			rules.NewIssue(rules.StyleLongLine, rules.Minor, 20, "too long"),
		},
		Snippets:    "func Foo (lines 1-3)\n 1  func Foo() {}",
		FileMetrics: parser.Metrics{Lines: 10, ApproxFunctions: 1, MaxNesting: 1, CyclomaticEstimate: 2},
	}
	out := astcontext.Assemble(bundle, astcontext.DefaultCaps())

	idxSummary := indexOf(out, "=== CHANGE SUMMARY ===")
	idxRisk := indexOf(out, "=== RISK REPORT ===")
	idxContext := indexOf(out, "=== CHANGE CONTEXT ===")
	idxHealth := indexOf(out, "=== CODE HEALTH ===")
	idxContract := indexOf(out, "=== API CONTRACT ===")
	idxTips := indexOf(out, "=== QUICK TIPS ===")
	idxNext := indexOf(out, "=== NEXT STEPS ===")

	require.True(t, idxSummary < idxRisk)
	require.True(t, idxRisk < idxContext)
	require.True(t, idxContext < idxHealth)
	require.True(t, idxHealth < idxContract)
	require.True(t, idxContract < idxTips)
	require.True(t, idxTips < idxNext)
	require.Contains(t, out, "Remove dead/unreachable code.")
	require.Contains(t, out, "Wrap lines >120 characters.")
}

func TestAssembleSnapshotCapsLength(t *testing.T) {
	snap := astcontext.SnapshotBundle{ProjectName: "demo", FileCount: 42, CriticalCount: 1}
	out := astcontext.AssembleSnapshot(snap, 1000)
	require.LessOrEqual(t, len([]rune(out)), 1000)
	require.Contains(t, out, "COMPREHENSIVE PROJECT CONTEXT")
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
