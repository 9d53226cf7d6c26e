// Command posttooluse is the PostToolUse hook entrypoint: it reads one
// Input from stdin, rebuilds the eight-section additionalContext string of
// spec.md §4.C6 around the edit just applied, and writes it wrapped in an
// Envelope to stdout. Unlike PreToolUse it never blocks anything — a
// parse/analysis failure degrades to a thinner context, never a
// nonzero exit.
package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/iMAGRAY/ASTSentinel/internal/astlang"
	astcontext "github.com/iMAGRAY/ASTSentinel/internal/context"
	"github.com/iMAGRAY/ASTSentinel/internal/config"
	"github.com/iMAGRAY/ASTSentinel/internal/diffeng"
	"github.com/iMAGRAY/ASTSentinel/internal/hookio"
	"github.com/iMAGRAY/ASTSentinel/internal/logging"
	"github.com/iMAGRAY/ASTSentinel/internal/parser"
	"github.com/iMAGRAY/ASTSentinel/internal/policy"
	"github.com/iMAGRAY/ASTSentinel/internal/rules"
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

	relPath := input.ToolInput.FilePath
	if rel, err := filepath.Rel(input.Cwd, relPath); err == nil {
		relPath = rel
	}

	newText := input.ToolInput.NewString + input.ToolInput.Content
	oldText := input.ToolInput.OldString

	bundle := astcontext.Bundle{
		RelPath:       relPath,
		MaxMajor:      settings.MaxMajor,
		MaxMinor:      settings.MaxMinor,
		APIContractOn: settings.APIContractEnabled,
	}

	ld := diffeng.ComputeLineDiff(oldText, newText)
	bundle.UnifiedDiff = diffeng.Unified(ld, settings.DiffContextLines)

	if lang := astlang.LanguageOf(relPath); lang.IsTreeBased() && newText != "" {
		populateASTSections(&bundle, newText, lang, settings, ld.ChangedLines())
	}

	caps := astcontext.Caps{TotalByteCap: settings.ContextByteCap, SectionCharCap: settings.SnippetsCharCap}
	if caps.TotalByteCap <= 0 {
		caps = astcontext.DefaultCaps()
	}
	additionalContext := astcontext.Assemble(bundle, caps)

	env := policy.DecidePostToolUse(additionalContext)
	if err := hookio.WriteEnvelope(stdout, env); err != nil {
		logging.L().Sugar().Errorw("write envelope", "err", err)
		return 1
	}
	return 0
}

// populateASTSections fills in the issue list, file metrics, and
// entity-scoped snippets that need a parsed tree. Left at zero value on
// any parse failure, which Bundle's own section renderers already handle
// gracefully ("[no entity or line context available]", "No issues
// detected.").
func populateASTSections(b *astcontext.Bundle, newText string, lang astlang.Language, settings config.Settings, changedLines []int) {
	facade := parser.New(parser.Budgets{
		SoftBudgetBytes: settings.SoftBudgetBytes,
		SoftBudgetLines: settings.SoftBudgetLines,
		TimeoutSecs:     settings.ASTAnalysisTimeoutSecs,
	}, 0)
	defer facade.Close()

	res, _ := facade.Parse(context.Background(), []byte(newText), lang, "")
	defer res.Close()
	if res == nil || res.Skipped || res.Tree == nil {
		return
	}
	b.FileMetrics = res.Metrics

	engineCtx := rules.EngineContext{
		Thresholds: rules.ThresholdsFor(string(settings.Sensitivity)),
		IsTestFile: policy.IsTestPath(b.RelPath),
	}
	issues := rules.Analyze(res, rules.FastPath, engineCtx, settings.MaxMajor, settings.MaxMinor)
	for i := range issues {
		issues[i].File = b.RelPath
	}
	b.Issues = issues

	issueLines := make(map[int]bool, len(issues))
	for _, is := range issues {
		issueLines[is.Line] = true
	}
	caps := diffeng.DefaultSnippetCaps()
	if settings.MaxSnippets > 0 {
		caps.MaxSnippets = settings.MaxSnippets
	}
	if settings.SnippetsCharCap > 0 {
		caps.SnippetCharCap = settings.SnippetsCharCap
		caps.SectionCharCap = settings.SnippetsCharCap
	}
	if settings.DiffContextLines > 0 {
		caps.DiffContextLines = settings.DiffContextLines
	}
	b.Snippets = diffeng.BuildSnippets(res.Tree.RootNode(), lang, []byte(newText), changedLines, issueLines, caps)
}
