package collab

import (
	"encoding/json"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestKind identifies which dependency manifest a Dependency came from.
type ManifestKind string

const (
	ManifestNPM   ManifestKind = "package.json"
	ManifestPip   ManifestKind = "requirements.txt"
	ManifestCargo ManifestKind = "Cargo.toml"
	ManifestPy    ManifestKind = "pyproject.toml"
	ManifestGo    ManifestKind = "go.mod"
)

// Dependency is one declared dependency, before typosquat classification.
type Dependency struct {
	Name    string
	Version string
	Kind    ManifestKind
}

// DependencySummary is Summarize's result: the flat list of declared
// dependencies grouped by manifest, plus any typosquat-adjacent names
// found among them.
type DependencySummary struct {
	Counts     map[ManifestKind]int
	Suspicious []SuspiciousDependency
}

// SuspiciousDependency names a dependency whose name closely matches a
// known typosquat pattern, and what it was likely meant to be.
type SuspiciousDependency struct {
	Dependency
	LikelyIntended string
}

// Summarize reads whichever dependency manifests readFile returns without
// error and reports per-manifest counts plus typosquat-adjacent findings.
// Grounded on spec.md §6's dependency-manifest summarizer contract; the
// typosquat table is generalized from the teacher's
// internal/hooks/dependency_typosquat.go install-command allowlist into a
// static manifest-name check (no shell command to parse here).
func Summarize(readFile func(name string) ([]byte, error)) DependencySummary {
	summary := DependencySummary{Counts: map[ManifestKind]int{}}

	if data, err := readFile("package.json"); err == nil {
		deps := parseNPM(data)
		summary.Counts[ManifestNPM] = len(deps)
		summary.Suspicious = append(summary.Suspicious, flagTyposquats(deps, npmTyposquats)...)
	}
	if data, err := readFile("requirements.txt"); err == nil {
		deps := parsePip(data)
		summary.Counts[ManifestPip] = len(deps)
		summary.Suspicious = append(summary.Suspicious, flagTyposquats(deps, pipTyposquats)...)
	}
	if data, err := readFile("Cargo.toml"); err == nil {
		deps := parseCargo(data)
		summary.Counts[ManifestCargo] = len(deps)
	}
	if data, err := readFile("pyproject.toml"); err == nil {
		deps := parsePyproject(data)
		summary.Counts[ManifestPy] = len(deps)
		summary.Suspicious = append(summary.Suspicious, flagTyposquats(deps, pipTyposquats)...)
	}
	if data, err := readFile("go.mod"); err == nil {
		summary.Counts[ManifestGo] = countGoModRequires(data)
	}

	sort.Slice(summary.Suspicious, func(i, j int) bool { return summary.Suspicious[i].Name < summary.Suspicious[j].Name })
	return summary
}

func parseNPM(data []byte) []Dependency {
	var doc struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}
	var deps []Dependency
	for name, v := range doc.Dependencies {
		deps = append(deps, Dependency{Name: name, Version: v, Kind: ManifestNPM})
	}
	for name, v := range doc.DevDependencies {
		deps = append(deps, Dependency{Name: name, Version: v, Kind: ManifestNPM})
	}
	return deps
}

var pipLineRe = regexp.MustCompile(`^\s*([A-Za-z0-9_.\-]+)\s*(?:[=<>~!]=?\s*([A-Za-z0-9_.\-]+))?`)

func parsePip(data []byte) []Dependency {
	var deps []Dependency
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		m := pipLineRe.FindStringSubmatch(line)
		if m == nil || m[1] == "" {
			continue
		}
		deps = append(deps, Dependency{Name: m[1], Version: m[2], Kind: ManifestPip})
	}
	return deps
}

func parseCargo(data []byte) []Dependency {
	var doc struct {
		Dependencies map[string]any `toml:"dependencies"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil
	}
	var deps []Dependency
	for name := range doc.Dependencies {
		deps = append(deps, Dependency{Name: name, Kind: ManifestCargo})
	}
	return deps
}

func parsePyproject(data []byte) []Dependency {
	var doc struct {
		Project struct {
			Dependencies []string `toml:"dependencies"`
		} `toml:"project"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil
	}
	var deps []Dependency
	for _, spec := range doc.Project.Dependencies {
		name := strings.FieldsFunc(spec, func(r rune) bool {
			return strings.ContainsRune("=<>~! ", r)
		})
		if len(name) == 0 {
			continue
		}
		deps = append(deps, Dependency{Name: name[0], Kind: ManifestPy})
	}
	return deps
}

var goRequireRe = regexp.MustCompile(`(?m)^\s*[A-Za-z0-9./_\-]+\s+v[0-9]`)

func countGoModRequires(data []byte) int {
	return len(goRequireRe.FindAll(data, -1))
}

func flagTyposquats(deps []Dependency, table map[string]string) []SuspiciousDependency {
	var out []SuspiciousDependency
	for _, d := range deps {
		if real, ok := table[strings.ToLower(d.Name)]; ok {
			out = append(out, SuspiciousDependency{Dependency: d, LikelyIntended: real})
		}
	}
	return out
}

// ManifestPath joins root and a manifest's canonical filename.
func ManifestPath(root string, kind ManifestKind) string {
	return filepath.Join(root, string(kind))
}
