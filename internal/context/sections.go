package context

import (
	"sort"
	"strconv"
	"strings"

	"github.com/iMAGRAY/ASTSentinel/internal/parser"
	"github.com/iMAGRAY/ASTSentinel/internal/rules"
	"github.com/iMAGRAY/ASTSentinel/internal/timings"
)

// ProjectHealth is the aggregate the CODE HEALTH section reports alongside
// one file's own metrics.
type ProjectHealth struct {
	TestSharePct            float64
	DocsSharePct            float64
	AvgCyclomatic           float64
	AvgCognitive            float64
	HighComplexityFileCount int
}

// ContractChange is one removed/renamed symbol or parameter-count
// reduction the API CONTRACT section reports.
type ContractChange struct {
	Symbol string
	Detail string
}

// Bundle carries everything Assemble needs to render one PostToolUse
// additionalContext string. Fields a caller has nothing for (e.g. no prior
// baseline, so no ContractChanges) are left at their zero value and the
// corresponding section renders its empty form.
type Bundle struct {
	UnifiedDiff     string
	RelPath         string
	Issues          []rules.Issue // already capped/sorted by rules.Analyze
	MaxMajor        int
	MaxMinor        int
	Snippets        string
	FileMetrics     parser.Metrics
	ProjectHealth   ProjectHealth
	ContractChanges []ContractChange
	APIContractOn   bool
	Timings         *timings.Collector
	IncludeTimings  bool
}

func changeSummary(b Bundle) string {
	if b.UnifiedDiff == "" {
		return "[no textual change]"
	}
	return b.UnifiedDiff
}

func riskReport(b Bundle) string {
	if len(b.Issues) == 0 {
		return "No issues detected."
	}
	var lines []string
	for _, is := range b.Issues {
		lines = append(lines, "["+is.Severity.String()+"] "+is.File+":"+strconv.Itoa(is.Line)+
			"  "+string(is.RuleID)+"  "+is.Message)
	}
	return strings.Join(lines, "\n")
}

func changeContext(b Bundle) string {
	if b.Snippets == "" {
		return "[no entity or line context available]"
	}
	return b.Snippets
}

func codeHealth(b Bundle) string {
	m := b.FileMetrics
	ph := b.ProjectHealth
	var lines []string
	lines = append(lines, "file: lines="+strconv.Itoa(m.Lines)+
		" functions="+strconv.Itoa(m.ApproxFunctions)+
		" max_nesting="+strconv.Itoa(m.MaxNesting)+
		" cyclomatic="+strconv.Itoa(m.CyclomaticEstimate))
	lines = append(lines, "project: test_share="+formatPct(ph.TestSharePct)+
		" docs_share="+formatPct(ph.DocsSharePct)+
		" avg_cyclomatic="+formatFloat(ph.AvgCyclomatic)+
		" avg_cognitive="+formatFloat(ph.AvgCognitive)+
		" high_complexity_files="+strconv.Itoa(ph.HighComplexityFileCount))
	return strings.Join(lines, "\n")
}

func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func apiContract(b Bundle) string {
	if !b.APIContractOn {
		return "[disabled]"
	}
	if len(b.ContractChanges) == 0 {
		return "No contract changes detected."
	}
	var lines []string
	for _, c := range b.ContractChanges {
		lines = append(lines, c.Symbol+": "+c.Detail)
	}
	return strings.Join(lines, "\n")
}

// quickTipsMax is spec.md's documented default for §4.C6 step 6.
const quickTipsMax = 6

func quickTips(b Bundle) string {
	seen := map[string]struct{}{}
	var tips []string
	for _, is := range b.Issues {
		hint := rules.Catalogue[is.RuleID].FixHint
		if hint == "" {
			continue
		}
		if _, ok := seen[hint]; ok {
			continue
		}
		seen[hint] = struct{}{}
		tips = append(tips, hint)
		if len(tips) >= quickTipsMax {
			break
		}
	}
	if len(tips) == 0 {
		return "No tips — nothing flagged."
	}
	return strings.Join(tips, "\n")
}

// nextStepRule pairs a rule predicate with the deterministic keyword
// spec.md requires that action to contain.
var nextStepTriggers = []struct {
	match func(rules.Issue) bool
	text  string
}{
	{func(i rules.Issue) bool { return i.RuleID == rules.LogicUnreachable }, "Remove dead/unreachable code."},
	{func(i rules.Issue) bool { return i.RuleID == rules.StyleLongLine }, "Wrap lines >120 characters."},
	{func(i rules.Issue) bool { return i.RuleID == rules.LogicEmptyCatch }, "Tighten catch/except blocks that swallow errors."},
	{func(i rules.Issue) bool {
		return i.RuleID == rules.FakeReturnConst || i.RuleID == rules.FakePrintOnly || i.RuleID == rules.FakeNotImpl
	}, "Add/Update unit tests once the implementation is real."},
}

func nextSteps(b Bundle) string {
	seen := map[string]struct{}{}
	var steps []string
	for _, is := range b.Issues {
		for _, trig := range nextStepTriggers {
			if !trig.match(is) {
				continue
			}
			if _, ok := seen[trig.text]; ok {
				continue
			}
			seen[trig.text] = struct{}{}
			steps = append(steps, trig.text)
		}
	}
	// unused imports has no dedicated rule in the catalogue; surfaced only
	// when a future lint pass tags it via the Message text, so it is
	// intentionally absent here rather than guessed at.
	if len(steps) == 0 {
		return "No action required."
	}
	sort.Strings(steps)
	return strings.Join(steps, "\n")
}

func timingsSection(b Bundle) string {
	if !b.IncludeTimings || b.Timings == nil {
		return ""
	}
	rows := b.Timings.Snapshot()
	if len(rows) == 0 {
		return ""
	}
	var lines []string
	lines = append(lines, "label  count  p50  p95  p99  avg")
	for _, r := range rows {
		lines = append(lines, r.Label+"  "+strconv.Itoa(r.Count)+"  "+
			formatFloat(r.P50)+"  "+formatFloat(r.P95)+"  "+formatFloat(r.P99)+"  "+formatFloat(r.Mean))
	}
	return strings.Join(lines, "\n")
}
