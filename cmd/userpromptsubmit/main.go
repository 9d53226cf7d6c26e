// Command userpromptsubmit is the UserPromptSubmit hook entrypoint: it
// scans the whole project once per prompt and writes a small
// three-section snapshot to stdout — no permission decision involved,
// this event only ever adds context.
package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	astcontext "github.com/iMAGRAY/ASTSentinel/internal/context"
	"github.com/iMAGRAY/ASTSentinel/internal/config"
	"github.com/iMAGRAY/ASTSentinel/internal/hookio"
	"github.com/iMAGRAY/ASTSentinel/internal/logging"
	"github.com/iMAGRAY/ASTSentinel/internal/policy"
	"github.com/iMAGRAY/ASTSentinel/internal/rules"
	"github.com/iMAGRAY/ASTSentinel/internal/scan"
)

func main() {
	settings, err := config.Load(os.Getenv("AST_SENTINEL_ENV") == "production")
	logging.Init(settings.LogJSON || logging.JSONRequested(), settings.DebugHooks)
	defer logging.Sync()
	if err != nil {
		logging.L().Sugar().Warnw("config load degraded to defaults+env", "err", err)
	}

	os.Exit(run(os.Stdin, os.Stdout, settings))
}

func run(stdin io.Reader, stdout io.Writer, settings config.Settings) int {
	input := hookio.ReadInput(stdin)
	root := input.Cwd
	if root == "" {
		root = "."
	}

	var bundle astcontext.SnapshotBundle
	bundle.ProjectName = filepath.Base(abs(root))

	report, err := scan.Scan(context.Background(), scan.Options{
		Root:       root,
		Settings:   settings,
		Mode:       rules.FastPath,
		Thresholds: rules.ThresholdsFor(string(settings.Sensitivity)),
	})
	if err != nil {
		logging.L().Sugar().Warnw("project scan failed, emitting thin snapshot", "err", err)
	} else {
		bundle = summarize(report, bundle.ProjectName)
	}

	limit := settings.UserPromptLimit
	if limit <= 0 {
		limit = 4000
	}
	snapshot := astcontext.AssembleSnapshot(bundle, limit)

	if _, err := io.WriteString(stdout, snapshot+"\n"); err != nil {
		logging.L().Sugar().Errorw("write snapshot", "err", err)
		return 1
	}
	return 0
}

// summarize turns a whole-project scan.Report into the three aggregate
// figures AssembleSnapshot renders. The average-complexity figures are
// always left at zero: scan.FileReport carries no per-file metrics to
// average them from.
func summarize(report *scan.Report, projectName string) astcontext.SnapshotBundle {
	b := astcontext.SnapshotBundle{ProjectName: projectName, FileCount: report.TotalFiles}

	var testFiles, docFiles, highComplexity int
	for _, f := range report.Files {
		if policy.IsTestPath(f.Path) {
			testFiles++
		}
		if ext := filepath.Ext(f.Path); ext == ".md" || ext == ".mdx" || ext == ".rst" {
			docFiles++
		}
		fileHighComplexity := false
		for _, is := range f.Issues {
			switch is.Severity {
			case rules.Critical:
				b.CriticalCount++
			case rules.Major:
				b.MajorCount++
			default:
				b.MinorCount++
			}
			if is.RuleID == rules.StyleHighCompl {
				fileHighComplexity = true
			}
		}
		if fileHighComplexity {
			highComplexity++
		}
	}
	if report.TotalFiles > 0 {
		b.ProjectHealth.TestSharePct = 100 * float64(testFiles) / float64(report.TotalFiles)
		b.ProjectHealth.DocsSharePct = 100 * float64(docFiles) / float64(report.TotalFiles)
	}
	b.ProjectHealth.HighComplexityFileCount = highComplexity
	return b
}

func abs(path string) string {
	if a, err := filepath.Abs(path); err == nil {
		return a
	}
	return path
}
