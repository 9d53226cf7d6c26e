package rules_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iMAGRAY/ASTSentinel/internal/astlang"
	"github.com/iMAGRAY/ASTSentinel/internal/parser"
	"github.com/iMAGRAY/ASTSentinel/internal/rules"
)

const sampleGo = `package sample

import "fmt"

func Divide(a, b int) int {
	if b == 0 {
		return 0
	}
	return a / b
}

func Placeholder() error {
	return nil
}

func LoudNoop(name string) {
	fmt.Println(name)
}

func TooManyArgs(a, b, c, d, e, f, g int) int {
	return a + b + c + d + e + f + g
}

func DeadCode() int {
	return 1
	x := 2
	return x
}
`

func parseSample(t *testing.T) *parser.Result {
	t.Helper()
	f := parser.New(parser.Budgets{SoftBudgetBytes: 1 << 20, SoftBudgetLines: 10000, TimeoutSecs: 5}, 0)
	t.Cleanup(f.Close)
	res, err := f.Parse(context.Background(), []byte(sampleGo), astlang.Go, "")
	require.NoError(t, err)
	require.NotNil(t, res.Tree)
	return res
}

func TestSinglePassMultiPassParity(t *testing.T) {
	res := parseSample(t)
	defer res.Close()

	ctx := rules.EngineContext{Thresholds: rules.ThresholdsFor("medium")}

	fast := rules.RunSinglePass(res, ctx)
	legacy := rules.RunMultiPass(res, ctx)

	require.Equal(t, legacy, fast, "single-pass and multi-pass engines must agree byte-for-byte")
	require.NotEmpty(t, fast, "sample should trigger at least one rule")
}

func TestSortTotalOrder(t *testing.T) {
	issues := []rules.Issue{
		rules.NewIssue(rules.StyleLongLine, rules.Minor, 5, "x"),
		rules.NewIssue(rules.SecCreds, rules.Critical, 10, "y"),
		rules.NewIssue(rules.StyleTooManyArgs, rules.Minor, 5, "z"),
	}
	rules.Sort(issues)
	require.Equal(t, rules.SecCreds, issues[0].RuleID)
	require.Equal(t, rules.Severity(rules.Minor), issues[1].Severity)
	require.Equal(t, rules.StyleLongLine, issues[1].RuleID) // STYLE_LONG_LINE < STYLE_TOO_MANY_PARAMS lexicographically
}

func TestCapBySeverityKeepsAllCritical(t *testing.T) {
	var issues []rules.Issue
	for i := 0; i < 10; i++ {
		issues = append(issues, rules.NewIssue(rules.SecCreds, rules.Critical, i, "c"))
	}
	for i := 0; i < 10; i++ {
		issues = append(issues, rules.NewIssue(rules.StyleLongLine, rules.Minor, i, "m"))
	}
	rules.Sort(issues)
	capped := rules.CapBySeverity(issues, 5, 3)
	criticalCount, minorCount := 0, 0
	for _, is := range capped {
		switch is.Severity {
		case rules.Critical:
			criticalCount++
		case rules.Minor:
			minorCount++
		}
	}
	require.Equal(t, 10, criticalCount)
	require.Equal(t, 3, minorCount)
}
