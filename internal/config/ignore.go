package config

import (
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// builtinIgnorePatterns are checked before the project's .gitignore or the
// config's ignore_globs (spec.md §4.C4 precedence: built-ins first).
var builtinIgnorePatterns = []string{
	"target/", "node_modules/", "dist/", "build/", ".git/", "vendor/",
	"*.bak", "*.pyc", "*.pyo", "*.o", "*.obj", "*.class", "*.so", "*.dll",
	"__pycache__/", ".venv/", "venv/",
}

// Ignorer implements the should_ignore(path, root) predicate of spec.md
// §4.C8, combining built-ins, the project's .gitignore (parsed with
// go-git's gitignore matcher), and config-supplied ignore_globs. Both the
// glob pattern and the candidate path are normalized to "/" before
// comparison.
type Ignorer struct {
	root         string
	builtins     []string
	gitignore    gitignore.Matcher
	extraGlobs   []string
	includeHidden bool
}

// NewIgnorer builds an Ignorer rooted at root, loading root/.gitignore if
// present and appending extraGlobs (the config's ignore_globs).
func NewIgnorer(root string, extraGlobs []string, includeHidden bool) *Ignorer {
	ign := &Ignorer{
		root:          root,
		builtins:      builtinIgnorePatterns,
		extraGlobs:    normalizeGlobs(extraGlobs),
		includeHidden: includeHidden,
	}
	if patterns := loadGitignorePatterns(root); len(patterns) > 0 {
		ign.gitignore = gitignore.NewMatcher(patterns)
	}
	return ign
}

func normalizeGlobs(globs []string) []string {
	out := make([]string, 0, len(globs))
	for _, g := range globs {
		out = append(out, filepath.ToSlash(g))
	}
	return out
}

func loadGitignorePatterns(root string) []gitignore.Pattern {
	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	var patterns []gitignore.Pattern
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return patterns
}

// ShouldIgnore reports whether relPath (slash-normalized, relative to root)
// should be excluded from the project view. isDir indicates whether the
// entry is a directory, which gitignore matching needs to know.
func (ign *Ignorer) ShouldIgnore(relPath string, isDir bool) bool {
	relPath = filepath.ToSlash(relPath)
	base := filepath.Base(relPath)

	if !ign.includeHidden && strings.HasPrefix(base, ".") && relPath != "." {
		return true
	}

	for _, pat := range ign.builtins {
		if matchGlob(pat, relPath, base, isDir) {
			return true
		}
	}

	if ign.gitignore != nil {
		parts := strings.Split(relPath, "/")
		if ign.gitignore.Match(parts, isDir) {
			return true
		}
	}

	for _, pat := range ign.extraGlobs {
		if matchGlob(pat, relPath, base, isDir) {
			return true
		}
	}

	return false
}

func matchGlob(pattern, relPath, base string, isDir bool) bool {
	pattern = filepath.ToSlash(pattern)
	if strings.HasSuffix(pattern, "/") {
		if !isDir {
			return false
		}
		dirPat := strings.TrimSuffix(pattern, "/")
		if matched, _ := filepath.Match(dirPat, base); matched {
			return true
		}
		return strings.Contains(relPath, "/"+dirPat+"/") || strings.HasPrefix(relPath, dirPat+"/")
	}
	if matched, _ := filepath.Match(pattern, base); matched {
		return true
	}
	if matched, _ := filepath.Match(pattern, relPath); matched {
		return true
	}
	return false
}
