// Package collab hosts the sibling collaborators named in spec.md §1/§9
// that sit alongside the AST engine rather than inside its data flow: a
// duplicate-file detector, a dependency-manifest summarizer, and a
// formatter-plugin registry. None of these gate a PreToolUse decision —
// they only enrich the PostToolUse/UserPromptSubmit context.
package collab

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"sort"
	"strings"
)

// File is the minimal per-file input collab needs: a repo-relative path
// and its content, decoupled from internal/scan's richer FileReport so
// this package has no dependency on the AST pipeline at all.
type File struct {
	Path    string
	Content []byte
}

// ConflictType classifies why a group of similarly-named files was
// flagged, mirroring original_source's duplicate_detector.rs categories.
type ConflictType string

const (
	ExactDuplicate  ConflictType = "exact_duplicate"
	BackupFile      ConflictType = "backup_file"
	TempFile        ConflictType = "temp_file"
	VersionConflict ConflictType = "version_conflict"
	SimilarName     ConflictType = "similar_name"
)

// DuplicateGroup is one cluster of files that appear to be duplicates,
// backups, or version forks of each other.
type DuplicateGroup struct {
	Pattern      string
	Files        []string
	ConflictType ConflictType
}

// DuplicateReport is the capped, render-ready result of Detect.
type DuplicateReport struct {
	Groups    []DuplicateGroup
	Total     int // total groups found before capping
	Truncated bool
}

// DefaultMaxGroups/DefaultMaxFiles mirror spec.md §6's
// DUP_REPORT_MAX_GROUPS / DUP_REPORT_MAX_FILES defaults.
const (
	DefaultMaxGroups = 20
	DefaultMaxFiles  = 10
)

// Detect groups files by exact content hash (ExactDuplicate) and by
// cleaned filename stem within the same directory (backup/temp/version
// conflicts), then caps the result to maxGroups groups of at most
// maxFiles files each. Grounded on
// original_source/src/analysis/duplicate_detector.rs's find_duplicates.
func Detect(files []File, maxGroups, maxFiles int) DuplicateReport {
	if maxGroups <= 0 {
		maxGroups = DefaultMaxGroups
	}
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}

	var groups []DuplicateGroup
	groups = append(groups, exactDuplicateGroups(files)...)
	groups = append(groups, nameConflictGroups(files)...)

	sort.Slice(groups, func(i, j int) bool { return groups[i].Pattern < groups[j].Pattern })

	total := len(groups)
	truncated := false
	if len(groups) > maxGroups {
		groups = groups[:maxGroups]
		truncated = true
	}
	for i := range groups {
		if len(groups[i].Files) > maxFiles {
			groups[i].Files = groups[i].Files[:maxFiles]
			truncated = true
		}
		sort.Strings(groups[i].Files)
	}

	return DuplicateReport{Groups: groups, Total: total, Truncated: truncated}
}

func exactDuplicateGroups(files []File) []DuplicateGroup {
	byHash := map[string][]string{}
	for _, f := range files {
		sum := sha256.Sum256(f.Content)
		hash := hex.EncodeToString(sum[:])
		byHash[hash] = append(byHash[hash], f.Path)
	}
	var groups []DuplicateGroup
	for hash, paths := range byHash {
		if len(paths) < 2 {
			continue
		}
		groups = append(groups, DuplicateGroup{
			Pattern:      "content hash " + hash[:8],
			Files:        paths,
			ConflictType: ExactDuplicate,
		})
	}
	return groups
}

var standardStems = map[string]bool{
	"mod": true, "lib": true, "main": true, "index": true, "readme": true,
	"__init__": true, "makefile": true, "dockerfile": true, "package": true,
	"cargo": true, "pyproject": true, "setup": true, "config": true,
	"test": true, "tests": true, "spec": true,
}

var stemStrip = []string{"_old", "_new", "_backup", "_copy", "_temp", "_tmp", ".backup", ".old", ".bak", "~"}

func cleanStem(stem string) string {
	c := stem
	for _, s := range stemStrip {
		c = strings.ReplaceAll(c, s, "")
	}
	return strings.Trim(c, "_-")
}

func nameConflictGroups(files []File) []DuplicateGroup {
	type entry struct {
		path string
		hash string
	}
	byKey := map[string][]entry{}
	for _, f := range files {
		base := filepath.Base(f.Path)
		ext := filepath.Ext(base)
		stem := strings.ToLower(strings.TrimSuffix(base, ext))
		switch strings.ToLower(ext) {
		case ".bak", ".old", ".backup", ".orig", ".tmp", ".temp", ".swp":
			stem = strings.TrimSuffix(stem, filepath.Ext(stem))
		}
		if standardStems[stem] {
			continue
		}
		clean := cleanStem(stem)
		dir := strings.ToLower(filepath.Base(filepath.Dir(f.Path)))
		key := dir + "::" + clean
		sum := sha256.Sum256(f.Content)
		byKey[key] = append(byKey[key], entry{path: f.Path, hash: hex.EncodeToString(sum[:])})
	}

	var groups []DuplicateGroup
	for key, entries := range byKey {
		if len(entries) < 2 {
			continue
		}
		hashes := map[string]bool{}
		var paths []string
		for _, e := range entries {
			hashes[e.hash] = true
			paths = append(paths, e.path)
		}
		if len(hashes) < 2 {
			continue // identical content already reported as ExactDuplicate
		}
		groups = append(groups, DuplicateGroup{
			Pattern:      key,
			Files:        paths,
			ConflictType: detectConflictType(paths),
		})
	}
	return groups
}

func detectConflictType(paths []string) ConflictType {
	for _, p := range paths {
		lower := strings.ToLower(p)
		if strings.Contains(lower, ".bak") || strings.Contains(lower, ".old") ||
			strings.Contains(lower, "backup") || strings.HasSuffix(lower, "~") {
			return BackupFile
		}
	}
	for _, p := range paths {
		lower := strings.ToLower(p)
		if strings.Contains(lower, ".tmp") || strings.Contains(lower, ".temp") || strings.Contains(lower, ".swp") {
			return TempFile
		}
	}
	for _, p := range paths {
		lower := strings.ToLower(p)
		if strings.Contains(lower, "_v") || strings.Contains(lower, "_new") ||
			strings.Contains(lower, "_old") || strings.Contains(lower, "copy") {
			return VersionConflict
		}
	}
	return SimilarName
}

// Summary renders the report as the plain-text block spec.md §6 documents:
// one line per group up to the cap, a trailing summary line, and an
// optional "Top directories" line naming the directories with the most
// flagged files.
func Summary(r DuplicateReport, topDirs int) string {
	if len(r.Groups) == 0 {
		return "No duplicate or conflicting files detected."
	}
	var lines []string
	for _, g := range r.Groups {
		lines = append(lines, string(g.ConflictType)+" ("+g.Pattern+"): "+strings.Join(g.Files, ", "))
	}
	lines = append(lines, groupCountLine(r))
	if topDirs > 0 {
		if td := topDirectories(r, topDirs); td != "" {
			lines = append(lines, td)
		}
	}
	return strings.Join(lines, "\n")
}

func groupCountLine(r DuplicateReport) string {
	if r.Truncated {
		return "shown " + itoa(len(r.Groups)) + " of " + itoa(r.Total) + " groups (truncated to fit the report cap)"
	}
	return "total groups: " + itoa(r.Total)
}

func topDirectories(r DuplicateReport, n int) string {
	counts := map[string]int{}
	for _, g := range r.Groups {
		for _, f := range g.Files {
			counts[filepath.Dir(f)]++
		}
	}
	type kv struct {
		dir   string
		count int
	}
	var kvs []kv
	for d, c := range counts {
		kvs = append(kvs, kv{d, c})
	}
	sort.Slice(kvs, func(i, j int) bool {
		if kvs[i].count != kvs[j].count {
			return kvs[i].count > kvs[j].count
		}
		return kvs[i].dir < kvs[j].dir
	})
	if len(kvs) > n {
		kvs = kvs[:n]
	}
	if len(kvs) == 0 {
		return ""
	}
	var parts []string
	for _, e := range kvs {
		parts = append(parts, e.dir+" ("+itoa(e.count)+")")
	}
	return "Top directories: " + strings.Join(parts, ", ")
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
