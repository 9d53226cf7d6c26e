// Package scan is the project scanner (component C4): it walks a directory
// tree honoring the ignore stack, parses and rules-checks every surviving
// file across a bounded worker pool, and returns a deterministic,
// path-sorted report.
package scan

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/iMAGRAY/ASTSentinel/internal/astlang"
	"github.com/iMAGRAY/ASTSentinel/internal/config"
	"github.com/iMAGRAY/ASTSentinel/internal/parser"
	"github.com/iMAGRAY/ASTSentinel/internal/rules"
	"github.com/iMAGRAY/ASTSentinel/internal/timings"
)

// maxWorkers caps concurrency regardless of core count — spec.md's worker
// pool ceiling.
const maxWorkers = 8

// FileReport is one scanned file's outcome.
type FileReport struct {
	Path     string
	Lang     astlang.Language
	Issues   []rules.Issue
	Skipped  bool
	SkipNote string
	Err      error
}

// Report is a whole-project scan result, path-sorted for determinism.
type Report struct {
	Files      []FileReport
	TotalFiles int
}

// Options configures one Scan call.
type Options struct {
	Root       string
	Settings   config.Settings
	Cache      *Cache
	Mode       rules.Mode
	Thresholds rules.Thresholds
	Timings    *timings.Collector
}

// Scan walks Options.Root, parses and rule-checks every non-ignored file,
// and returns a Report with one FileReport per file, sorted by path.
func Scan(ctx context.Context, opts Options) (*Report, error) {
	ignorer := config.NewIgnorer(opts.Root, opts.Settings.IgnoreGlobs, false)

	paths, err := collectPaths(opts.Root, ignorer)
	if err != nil {
		return nil, err
	}

	facade := parser.New(parser.Budgets{
		SoftBudgetBytes: opts.Settings.SoftBudgetBytes,
		SoftBudgetLines: opts.Settings.SoftBudgetLines,
		TimeoutSecs:     opts.Settings.ASTAnalysisTimeoutSecs,
	}, 4096)
	defer facade.Close()

	workers := runtime.NumCPU()
	if workers > maxWorkers {
		workers = maxWorkers
	}
	if workers < 1 {
		workers = 1
	}

	reports := make([]FileReport, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, workers)

	for i, p := range paths {
		i, p := i, p
		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()
			reports[i] = scanOne(gctx, facade, opts, p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].Path < reports[j].Path })
	return &Report{Files: reports, TotalFiles: len(reports)}, nil
}

func scanOne(ctx context.Context, facade *parser.Facade, opts Options, relPath string) FileReport {
	fullPath := filepath.Join(opts.Root, relPath)
	content, err := os.ReadFile(fullPath)
	if err != nil {
		return FileReport{Path: relPath, Err: err}
	}

	lang := astlang.LanguageOf(relPath)
	hash := ContentHash(content)

	if opts.Cache != nil {
		if cached, ok := opts.Cache.Get(hash); ok {
			return FileReport{Path: relPath, Lang: lang, Issues: cached}
		}
	}

	var res *parser.Result
	if opts.Timings != nil {
		res = timings.Timed(opts.Timings, "parse:"+lang.String(), func() *parser.Result {
			r, _ := facade.Parse(ctx, content, lang, hash)
			return r
		})
	} else {
		r, _ := facade.Parse(ctx, content, lang, hash)
		res = r
	}
	if res == nil {
		return FileReport{Path: relPath, Lang: lang, Err: context.Canceled}
	}
	defer res.Close()

	if res.Skipped {
		return FileReport{Path: relPath, Lang: lang, Skipped: true, SkipNote: res.SkipNote}
	}

	engineCtx := rules.EngineContext{
		Thresholds: opts.Thresholds,
		IsTestFile: isTestPath(relPath),
	}

	var issues []rules.Issue
	if opts.Timings != nil {
		issues = timings.Timed(opts.Timings, "rules:"+lang.String(), func() []rules.Issue {
			return rules.Analyze(res, opts.Mode, engineCtx, opts.Settings.MaxMajor, opts.Settings.MaxMinor)
		})
	} else {
		issues = rules.Analyze(res, opts.Mode, engineCtx, opts.Settings.MaxMajor, opts.Settings.MaxMinor)
	}
	for i := range issues {
		issues[i].File = relPath
	}

	if opts.Cache != nil {
		opts.Cache.Put(hash, issues)
	}

	return FileReport{Path: relPath, Lang: lang, Issues: issues}
}

func isTestPath(p string) bool {
	base := filepath.Base(p)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]
	for _, suffix := range []string{"_test", ".test", "_spec", ".spec"} {
		if len(name) >= len(suffix) && name[len(name)-len(suffix):] == suffix {
			return true
		}
	}
	return false
}

// collectPaths walks root and returns every non-ignored regular file,
// relative to root, in directory-walk (not yet sorted) order — Scan sorts
// the final report, so callers never see walk-order nondeterminism.
func collectPaths(root string, ignorer *config.Ignorer) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}
		if ignorer.ShouldIgnore(rel, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		out = append(out, rel)
		return nil
	})
	return out, err
}
