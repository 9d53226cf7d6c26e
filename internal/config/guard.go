package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// HookEntry names one guard hook in a GuardConfig event list. GuardConfig is
// the teacher's original hooks/config.yaml shape: which always-on guard
// hooks (internal/hooks) run for which lifecycle event, plus their
// allowlists. It is distinct from Settings (the AST pipeline's merged
// configuration); internal/policy's cheap admission pass runs its guard
// hooks without reading it.
type HookEntry struct {
	Name    string `yaml:"name"`
	Matcher string `yaml:"matcher,omitempty"`
	Enabled *bool  `yaml:"enabled,omitempty"`
}

func (h *HookEntry) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err == nil {
		h.Name = s
		return nil
	}
	var m struct {
		Name    string `yaml:"name"`
		Matcher string `yaml:"matcher"`
		Enabled *bool  `yaml:"enabled"`
	}
	if err := unmarshal(&m); err != nil {
		return err
	}
	h.Name = m.Name
	h.Matcher = m.Matcher
	h.Enabled = m.Enabled
	return nil
}

func (h HookEntry) Included() bool {
	return h.Enabled == nil || *h.Enabled
}

type Allowlists struct {
	NetworkFence *struct {
		AllowedDomains []string `yaml:"allowedDomains"`
	} `yaml:"networkFence,omitempty"`
	DependencyTyposquat *struct {
		AllowedPackages []string `yaml:"allowedPackages"`
	} `yaml:"dependencyTyposquat,omitempty"`
	ImportGuard *struct {
		AllowedPatterns map[string][]string `yaml:"allowedPatterns"`
	} `yaml:"importGuard,omitempty"`
}

// GuardConfig lists which guard hooks run for which lifecycle event.
type GuardConfig struct {
	Version            int               `yaml:"version"`
	Env                map[string]string `yaml:"env,omitempty"`
	Allowlists         *Allowlists       `yaml:"allowlists,omitempty"`
	SessionStart       []HookEntry       `yaml:"sessionStart"`
	BeforeSubmitPrompt []HookEntry       `yaml:"beforeSubmitPrompt"`
	PreToolUse         []HookEntry       `yaml:"preToolUse"`
	PostToolUse        []HookEntry       `yaml:"postToolUse"`
	Stop               []HookEntry       `yaml:"stop"`
	PreCompact         []HookEntry       `yaml:"preCompact"`
	SessionEnd         []HookEntry       `yaml:"sessionEnd"`
}

// EventEntries names an event and the slice of guard-hook entries for it.
type EventEntries struct {
	Event   string
	Entries *[]HookEntry
}

func (c *GuardConfig) Events() []EventEntries {
	return []EventEntries{
		{"sessionStart", &c.SessionStart},
		{"beforeSubmitPrompt", &c.BeforeSubmitPrompt},
		{"preToolUse", &c.PreToolUse},
		{"postToolUse", &c.PostToolUse},
		{"stop", &c.Stop},
		{"preCompact", &c.PreCompact},
		{"sessionEnd", &c.SessionEnd},
	}
}

// FindGuardConfigPath searches upward from the current working directory
// for hooks/config.yaml or config.yaml.
func FindGuardConfigPath() (configPath, workDir string, err error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", "", err
	}
	startDir := dir
	for {
		p := filepath.Join(dir, "hooks", "config.yaml")
		if _, err := os.Stat(p); err == nil {
			return p, dir, nil
		}
		p = filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(p); err == nil {
			return p, dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", fmt.Errorf("no hooks/config.yaml or config.yaml found (searched up from %s)", startDir)
		}
		dir = parent
	}
}

// GlobalHooksPath returns the path to the global hooks configuration file (~/.cursor/hooks.json).
func GlobalHooksPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cursor", "hooks.json")
}

// LoadGuardConfig reads and parses a GuardConfig YAML file.
func LoadGuardConfig(path string) (*GuardConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg GuardConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveGuardConfig marshals cfg to YAML and writes it to path.
func SaveGuardConfig(path string, cfg *GuardConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
