// Package sarifexport converts an issue list (component C3's output) into a
// SARIF 2.1.0 document, for the astsentinel-sarif debug binary. It only
// builds the document; callers decide where it goes (stdout, a file).
package sarifexport

import (
	"encoding/json"
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/iMAGRAY/ASTSentinel/internal/rules"
)

const toolName = "astsentinel"

// Export builds a single-run SARIF report from issues, sorted by the same
// total order the hooks themselves use (spec.md §3), so a SARIF viewer and a
// PreToolUse denial reason agree on which finding comes first.
func Export(issues []rules.Issue, toolVersion string) *sarif.Report {
	sorted := make([]rules.Issue, len(issues))
	copy(sorted, issues)
	rules.Sort(sorted)

	return &sarif.Report{
		Version: string(sarif.Version210),
		Runs: []*sarif.Run{
			{
				Tool: sarif.Tool{
					Driver: &sarif.ToolComponent{
						Name:            toolName,
						SemanticVersion: &toolVersion,
						Rules:           buildRules(sorted),
					},
				},
				Results: buildResults(sorted),
			},
		},
	}
}

// WriteTo marshals report as indented JSON, the shape every SARIF consumer
// (GitHub code scanning, VS Code's SARIF viewer) expects on disk.
func WriteTo(w io.Writer, report *sarif.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// buildRules emits one ReportingDescriptor per distinct rule referenced by
// issues, in first-seen order, drawing title/fix-hint/severity from the
// shared catalogue rather than duplicating them per finding.
func buildRules(sorted []rules.Issue) []*sarif.ReportingDescriptor {
	seen := make(map[rules.RuleID]bool, len(sorted))
	var out []*sarif.ReportingDescriptor
	for _, is := range sorted {
		if seen[is.RuleID] {
			continue
		}
		seen[is.RuleID] = true
		out = append(out, buildRule(is.RuleID))
	}
	return out
}

func buildRule(id rules.RuleID) *sarif.ReportingDescriptor {
	meta := rules.Catalogue[id]
	title := meta.Title
	fixHint := meta.FixHint

	rule := sarif.NewRule(string(id))
	rule.ShortDescription = &sarif.MultiformatMessageString{Text: &title}
	rule.FullDescription = &sarif.MultiformatMessageString{Text: &fixHint}
	rule.DefaultConfiguration = sarif.NewReportingConfiguration().WithLevel(levelFor(meta.DefaultSev))
	rule.Properties = sarif.Properties{"category": string(meta.Category)}
	return rule
}

func buildResults(sorted []rules.Issue) []*sarif.Result {
	out := make([]*sarif.Result, 0, len(sorted))
	for _, is := range sorted {
		out = append(out, buildResult(is))
	}
	return out
}

func buildResult(is rules.Issue) *sarif.Result {
	ruleID := string(is.RuleID)
	level := levelFor(is.Severity)
	text := is.Message
	uri := is.File

	startLine := is.Line
	endLine := is.EndLine
	if endLine == 0 {
		endLine = startLine
	}

	return &sarif.Result{
		PropertyBag: sarif.PropertyBag{Properties: sarif.Properties{"fixHint": is.FixHint}},
		RuleID:      &ruleID,
		Level:       &level,
		Message:     sarif.Message{Text: &text},
		Locations: []*sarif.Location{
			{
				PhysicalLocation: &sarif.PhysicalLocation{
					ArtifactLocation: &sarif.ArtifactLocation{URI: &uri},
					Region: &sarif.Region{
						StartLine: &startLine,
						EndLine:   &endLine,
					},
				},
			},
		},
	}
}

// levelFor maps a normalized Severity to SARIF's level enum, the same
// Critical/error, Major/warning, Minor/note split the example pack's own
// SARIF severity counter uses.
func levelFor(sev rules.Severity) string {
	switch sev {
	case rules.Critical:
		return "error"
	case rules.Major:
		return "warning"
	default:
		return "note"
	}
}
