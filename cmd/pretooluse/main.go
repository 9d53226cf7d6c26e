// Command pretooluse is the PreToolUse hook entrypoint: it reads one Input
// from stdin, runs the admission pipeline of spec.md §4.C7, and writes one
// Envelope to stdout. It never exits nonzero on a deny/ask — the JSON
// envelope carries the verdict, matching the corpus's "exit 0, let the
// JSON decide" convention for these hooks.
package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/iMAGRAY/ASTSentinel/internal/astlang"
	"github.com/iMAGRAY/ASTSentinel/internal/config"
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

// run contains all the testable logic: parse stdin, decide, write stdout.
// Always returns 0 — PreToolUse communicates its verdict through the JSON
// envelope, not the process exit code.
func run(stdin io.Reader, stdout io.Writer, settings config.Settings) int {
	input := hookio.ReadInput(stdin)

	relPath := input.ToolInput.FilePath
	if rel, err := filepath.Rel(input.Cwd, relPath); err == nil {
		relPath = rel
	}

	guardDeny, guardReason := policy.RunGuardHooks(policy.GuardInput{
		ToolName: input.ToolName,
		Command:  input.ToolInput.Command,
		Path:     input.ToolInput.FilePath,
		Contents: input.ToolInput.NewString + input.ToolInput.Content,
	}, input.Cwd, filepath.Join(input.Cwd, ".cursor"), 0)

	ctx := policy.PreToolUseContext{
		Settings: settings,
		RelPath:  relPath,
		OldText:  input.ToolInput.OldString,
		NewText:  input.ToolInput.NewString + input.ToolInput.Content,
		Offline:  policy.Offline(settings),
	}
	if guardDeny {
		ctx.GuardDeny = guardReason
	} else if lang := astlang.LanguageOf(relPath); lang.IsTreeBased() {
		ctx.Issues = analyzeNewText(ctx.NewText, relPath, lang, settings, policy.IsTestPath(relPath))
	}

	env := policy.DecidePreToolUse(ctx)
	if err := hookio.WriteEnvelope(stdout, env); err != nil {
		logging.L().Sugar().Errorw("write envelope", "err", err)
		return 1
	}
	return 0
}

// analyzeNewText parses the post-edit text and runs the rule engine over
// it. Parse/analysis failures degrade to an empty issue list rather than
// blocking the hook — a PreToolUse call that can't see the AST still must
// answer within its turn, per spec.md §5's latency budget.
func analyzeNewText(text, relPath string, lang astlang.Language, settings config.Settings, isTestFile bool) []rules.Issue {
	if text == "" {
		return nil
	}
	facade := parser.New(parser.Budgets{
		SoftBudgetBytes: settings.SoftBudgetBytes,
		SoftBudgetLines: settings.SoftBudgetLines,
		TimeoutSecs:     settings.ASTAnalysisTimeoutSecs,
	}, 0)
	defer facade.Close()

	res, _ := facade.Parse(context.Background(), []byte(text), lang, "")
	defer res.Close()
	if res == nil || res.Skipped {
		return nil
	}

	engineCtx := rules.EngineContext{
		Thresholds: rules.ThresholdsFor(string(settings.Sensitivity)),
		IsTestFile: isTestFile,
	}
	issues := rules.Analyze(res, rules.FastPath, engineCtx, settings.MaxMajor, settings.MaxMinor)
	for i := range issues {
		issues[i].File = relPath
	}
	return issues
}
