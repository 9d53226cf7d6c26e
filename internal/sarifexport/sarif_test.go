package sarifexport_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iMAGRAY/ASTSentinel/internal/rules"
	"github.com/iMAGRAY/ASTSentinel/internal/sarifexport"
)

func TestExportGroupsRulesByDistinctID(t *testing.T) {
	issues := []rules.Issue{
		rules.NewIssue(rules.SecCreds, rules.Critical, 10, "hardcoded API key"),
		rules.NewIssue(rules.SecCreds, rules.Critical, 20, "hardcoded password"),
		rules.NewIssue(rules.StyleLongLine, rules.Minor, 5, "line too long"),
	}
	for i := range issues {
		issues[i].File = "main.go"
	}

	report := sarifexport.Export(issues, "0.1.0")
	require.Len(t, report.Runs, 1)
	run := report.Runs[0]
	require.Len(t, run.Tool.Driver.Rules, 2, "one descriptor per distinct rule ID")
	require.Len(t, run.Results, 3)
}

func TestExportOrdersResultsBySharedTotalOrder(t *testing.T) {
	issues := []rules.Issue{
		rules.NewIssue(rules.StyleLongLine, rules.Minor, 1, "minor at line 1"),
		rules.NewIssue(rules.SecCreds, rules.Critical, 99, "critical at line 99"),
	}
	for i := range issues {
		issues[i].File = "a.go"
	}

	report := sarifexport.Export(issues, "0.1.0")
	results := report.Runs[0].Results
	require.Equal(t, "SEC_CREDS", *results[0].RuleID, "critical severity sorts first regardless of line")
	require.Equal(t, "error", *results[0].Level)
	require.Equal(t, "STYLE_LONG_LINE", *results[1].RuleID)
}

func TestExportMapsSeverityToSarifLevel(t *testing.T) {
	issues := []rules.Issue{
		rules.NewIssue(rules.SecCreds, rules.Critical, 1, "x"),
		rules.NewIssue(rules.PathTraversal, rules.Major, 2, "y"),
		rules.NewIssue(rules.StyleLongLine, rules.Minor, 3, "z"),
	}
	for i := range issues {
		issues[i].File = "f.go"
	}

	report := sarifexport.Export(issues, "0.1.0")
	levels := make([]string, len(report.Runs[0].Results))
	for i, r := range report.Runs[0].Results {
		levels[i] = *r.Level
	}
	require.Equal(t, []string{"error", "warning", "note"}, levels)
}

func TestExportLocationUsesIssueFileAndLine(t *testing.T) {
	issue := rules.NewIssue(rules.SecSQL, rules.Critical, 42, "concatenated SQL")
	issue.File = "db/query.go"
	issue.EndLine = 44

	report := sarifexport.Export([]rules.Issue{issue}, "0.1.0")
	loc := report.Runs[0].Results[0].Locations[0].PhysicalLocation
	require.Equal(t, "db/query.go", *loc.ArtifactLocation.URI)
	require.Equal(t, 42, *loc.Region.StartLine)
	require.Equal(t, 44, *loc.Region.EndLine)
}

func TestExportDefaultsEndLineToStartLineWhenUnset(t *testing.T) {
	issue := rules.NewIssue(rules.LogicUnreachable, rules.Major, 7, "unreachable code")
	issue.File = "x.go"

	report := sarifexport.Export([]rules.Issue{issue}, "0.1.0")
	region := report.Runs[0].Results[0].Locations[0].PhysicalLocation.Region
	require.Equal(t, 7, *region.StartLine)
	require.Equal(t, 7, *region.EndLine)
}

func TestWriteToEmitsValidJSON(t *testing.T) {
	issue := rules.NewIssue(rules.SecCreds, rules.Critical, 1, "secret")
	issue.File = "a.go"
	report := sarifexport.Export([]rules.Issue{issue}, "0.1.0")

	var buf bytes.Buffer
	require.NoError(t, sarifexport.WriteTo(&buf, report))
	require.Contains(t, buf.String(), `"version": "2.1.0"`)
	require.Contains(t, buf.String(), "SEC_CREDS")
}
