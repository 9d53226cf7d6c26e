// Package parser is the parser facade (component C2): given source text and
// a Language, it returns a parsed tree (or a token-stream fallback) plus a
// basic metrics vector, honoring a soft time/size budget per file.
package parser

import (
	"context"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/iMAGRAY/ASTSentinel/internal/astlang"
	"github.com/iMAGRAY/ASTSentinel/internal/core"
)

// Metrics is the basic per-file metrics vector spec.md §4.C2 requires.
type Metrics struct {
	Lines              int
	ApproxFunctions    int
	MaxNesting         int
	CyclomaticEstimate int
}

// Result is what the facade hands back for one file.
type Result struct {
	Lang     astlang.Language
	Source   []byte
	Tree     *sitter.Tree // nil when Skipped, or when the tokenizer fallback was used
	Metrics  Metrics
	Skipped  bool
	SkipNote string
}

// Close releases the tree-sitter tree, if any. Safe to call on a nil Result
// or a Result with no Tree.
func (r *Result) Close() {
	if r != nil && r.Tree != nil {
		r.Tree.Close()
	}
}

// Budgets bounds how much work the facade will do on a single file.
type Budgets struct {
	SoftBudgetBytes int
	SoftBudgetLines int
	TimeoutSecs     int
}

// Facade parses source files, reusing tree-sitter parser instances across
// calls (one set of parsers per Facade — callers share a Facade per worker
// goroutine, per spec.md §5's "parser instances are per-thread").
type Facade struct {
	budgets Budgets
	parsers map[astlang.Language]*sitter.Parser
	cache   *lru.Cache[string, *Result]
}

// New builds a Facade. cacheSize bounds the content-hash-keyed parse cache
// (0 disables caching).
func New(budgets Budgets, cacheSize int) *Facade {
	f := &Facade{
		budgets: budgets,
		parsers: map[astlang.Language]*sitter.Parser{},
	}
	if cacheSize > 0 {
		c, err := lru.New[string, *Result](cacheSize)
		if err == nil {
			f.cache = c
		}
	}
	return f
}

func (f *Facade) parserFor(lang astlang.Language) *sitter.Parser {
	if p, ok := f.parsers[lang]; ok {
		return p
	}
	grammar := grammarFor(lang)
	if grammar == nil {
		return nil
	}
	p := sitter.NewParser()
	p.SetLanguage(grammar)
	f.parsers[lang] = p
	return p
}

// Close releases every pooled tree-sitter parser. Call once per Facade at
// worker shutdown.
func (f *Facade) Close() {
	for _, p := range f.parsers {
		p.Close()
	}
}

// Parse returns a Result for source. contentHash, when non-empty, is used
// as the parse cache key so re-parsing an unchanged file in the same
// process is a cache hit.
func (f *Facade) Parse(ctx context.Context, source []byte, lang astlang.Language, contentHash string) (*Result, error) {
	if contentHash != "" && f.cache != nil {
		if cached, ok := f.cache.Get(contentHash); ok {
			return cached, nil
		}
	}

	lineCount := countLines(source)
	if f.budgets.SoftBudgetBytes > 0 && len(source) > f.budgets.SoftBudgetBytes {
		res := &Result{Lang: lang, Source: source, Skipped: true,
			SkipNote: budgetNote("size", len(source), f.budgets.SoftBudgetBytes)}
		return res, &core.BudgetSkip{Reason: res.SkipNote}
	}
	if f.budgets.SoftBudgetLines > 0 && lineCount > f.budgets.SoftBudgetLines {
		res := &Result{Lang: lang, Source: source, Skipped: true,
			SkipNote: budgetNote("lines", lineCount, f.budgets.SoftBudgetLines)}
		return res, &core.BudgetSkip{Reason: res.SkipNote}
	}

	if !lang.IsTreeBased() {
		res := tokenizeFallback(source, lang)
		f.store(contentHash, res)
		return res, nil
	}

	parser := f.parserFor(lang)
	if parser == nil {
		res := tokenizeFallback(source, lang)
		f.store(contentHash, res)
		return res, nil
	}

	timeout := time.Duration(f.budgets.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tree, err := parser.ParseCtx(pctx, nil, source)
	if err != nil || tree == nil {
		// Parse errors do not abort analysis; fall back to text-only rules.
		res := tokenizeFallback(source, lang)
		f.store(contentHash, res)
		return res, &core.ParseError{Err: err}
	}

	res := &Result{
		Lang:    lang,
		Source:  source,
		Tree:    tree,
		Metrics: computeMetrics(tree.RootNode(), lang, lineCount),
	}
	f.store(contentHash, res)
	return res, nil
}

func (f *Facade) store(contentHash string, res *Result) {
	if contentHash != "" && f.cache != nil && res != nil {
		f.cache.Add(contentHash, res)
	}
}

func countLines(source []byte) int {
	if len(source) == 0 {
		return 0
	}
	n := 1
	for _, b := range source {
		if b == '\n' {
			n++
		}
	}
	return n
}

func budgetNote(kind string, actual, limit int) string {
	if kind == "size" {
		return "size " + itoa(actual) + " > " + itoa(limit)
	}
	return "lines " + itoa(actual) + " > " + itoa(limit)
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
