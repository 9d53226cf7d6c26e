package context

import "strings"

// Caps bounds each section of the assembled additionalContext string.
// Zero values fall back to spec.md's documented defaults via DefaultCaps.
type Caps struct {
	TotalByteCap   int // additional_context_limit_chars, default 100000
	SectionCharCap int // per-section truncation, default 4000
}

// DefaultCaps returns spec.md §6's documented defaults.
func DefaultCaps() Caps {
	return Caps{TotalByteCap: 100000, SectionCharCap: 4000}
}

type section struct {
	title string
	body  string
}

// Assemble composes the eight PostToolUse sections in spec.md §4.C6's fixed
// order, each independently truncated, then truncates the whole string to
// TotalByteCap if still over budget after all sections are emitted —
// "truncated ... and the next section is still emitted if any budget
// remains" per spec.md §4.C6.
func Assemble(b Bundle, caps Caps) string {
	if caps.SectionCharCap <= 0 {
		caps = DefaultCaps()
	}

	sections := []section{
		{"CHANGE SUMMARY", changeSummary(b)},
		{"RISK REPORT", riskReport(b)},
		{"CHANGE CONTEXT", changeContext(b)},
		{"CODE HEALTH", codeHealth(b)},
		{"API CONTRACT", apiContract(b)},
		{"QUICK TIPS", quickTips(b)},
		{"NEXT STEPS", nextSteps(b)},
	}
	if b.IncludeTimings {
		if t := timingsSection(b); t != "" {
			sections = append(sections, section{"TIMINGS (ms)", t})
		}
	}

	var out strings.Builder
	remaining := caps.TotalByteCap
	for i, s := range sections {
		if remaining <= 0 {
			break
		}
		body := TruncateUTF8(s.body, caps.SectionCharCap)
		if len(body) > remaining {
			body = TruncateUTF8(body, remaining)
		}
		if i > 0 {
			out.WriteString("\n\n")
		}
		out.WriteString("=== ")
		out.WriteString(s.title)
		out.WriteString(" ===\n")
		out.WriteString(body)
		remaining -= len(body)
	}
	return out.String()
}

// SnapshotBundle carries the project-wide figures the UserPromptSubmit
// snapshot reports — a much smaller surface than the per-file PostToolUse
// bundle.
type SnapshotBundle struct {
	ProjectName   string
	FileCount     int
	CriticalCount int
	MajorCount    int
	MinorCount    int
	ProjectHealth ProjectHealth
}

// AssembleSnapshot composes the three-section UserPromptSubmit context,
// capped at userPromptLimit (spec.md's default 4000, clamped [1000, 8000]
// by the config layer before this is called).
func AssembleSnapshot(b SnapshotBundle, userPromptLimit int) string {
	var out strings.Builder
	out.WriteString("# COMPREHENSIVE PROJECT CONTEXT\n\n")
	out.WriteString("=== PROJECT SUMMARY ===\n")
	out.WriteString("project: " + b.ProjectName + "\nfiles_scanned: " + itoa(b.FileCount))
	out.WriteString("\n\n=== RISK/HEALTH SNAPSHOT ===\n")
	out.WriteString("critical: " + itoa(b.CriticalCount) +
		"  major: " + itoa(b.MajorCount) +
		"  minor: " + itoa(b.MinorCount))
	out.WriteString("\ntest_share: " + formatPct(b.ProjectHealth.TestSharePct) +
		"  docs_share: " + formatPct(b.ProjectHealth.DocsSharePct) +
		"  avg_cyclomatic: " + formatFloat(b.ProjectHealth.AvgCyclomatic) +
		"  high_complexity_files: " + itoa(b.ProjectHealth.HighComplexityFileCount))

	return TruncateUTF8(out.String(), userPromptLimit)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
