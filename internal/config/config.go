// Package config merges defaults, a config file, and environment variables
// into a single immutable Settings value (component C8), and hosts the
// gitignore-style ignore predicate shared by the project scanner and the
// teacher's path-based guard hooks. GuardConfig (guard.go) is the separate,
// legacy hooks/config.yaml enablement list the teacher used; Settings is
// the AST pipeline's own configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/iMAGRAY/ASTSentinel/internal/core"
)

// Sensitivity is the policy dial tightening PreToolUse rejection criteria.
type Sensitivity string

const (
	SensitivityLow    Sensitivity = "low"
	SensitivityMedium Sensitivity = "medium"
	SensitivityHigh   Sensitivity = "high"
)

// Settings is the merged, immutable configuration consulted by every
// component. Field names track spec.md §6's environment variable and
// config-file-key names.
type Settings struct {
	PretoolProvider  string `yaml:"pretool_provider" toml:"pretool_provider" json:"pretool_provider"`
	PosttoolProvider string `yaml:"posttool_provider" toml:"posttool_provider" json:"posttool_provider"`
	PretoolModel     string `yaml:"pretool_model" toml:"pretool_model" json:"pretool_model"`
	PosttoolModel    string `yaml:"posttool_model" toml:"posttool_model" json:"posttool_model"`

	OpenAIAPIKey    string `yaml:"openai_api_key" toml:"openai_api_key" json:"openai_api_key"`
	AnthropicAPIKey string `yaml:"anthropic_api_key" toml:"anthropic_api_key" json:"anthropic_api_key"`
	GoogleAPIKey    string `yaml:"google_api_key" toml:"google_api_key" json:"google_api_key"`
	XAIAPIKey       string `yaml:"xai_api_key" toml:"xai_api_key" json:"xai_api_key"`

	OpenAIBaseURL    string `yaml:"-" toml:"-" json:"-"`
	AnthropicBaseURL string `yaml:"-" toml:"-" json:"-"`
	GoogleBaseURL    string `yaml:"-" toml:"-" json:"-"`
	XAIBaseURL       string `yaml:"-" toml:"-" json:"-"`

	RequestTimeoutSecs int     `yaml:"request_timeout_secs" toml:"request_timeout_secs" json:"request_timeout_secs"`
	ConnectTimeoutSecs int     `yaml:"connect_timeout_secs" toml:"connect_timeout_secs" json:"connect_timeout_secs"`
	MaxTokens          int     `yaml:"max_tokens" toml:"max_tokens" json:"max_tokens"`
	Temperature        float64 `yaml:"temperature" toml:"temperature" json:"temperature"`

	Sensitivity Sensitivity `yaml:"sensitivity" toml:"sensitivity" json:"sensitivity"`

	ContextByteCap  int `yaml:"additional_context_limit_chars" toml:"additional_context_limit_chars" json:"additional_context_limit_chars"`
	UserPromptLimit int `yaml:"userprompt_context_limit" toml:"userprompt_context_limit" json:"userprompt_context_limit"`
	MaxIssues       int `yaml:"ast_max_issues" toml:"ast_max_issues" json:"ast_max_issues"`
	MaxMajor        int `yaml:"-" toml:"-" json:"-"`
	MaxMinor        int `yaml:"-" toml:"-" json:"-"`

	DupReportMaxGroups int `yaml:"-" toml:"-" json:"-"`
	DupReportMaxFiles  int `yaml:"-" toml:"-" json:"-"`
	DupReportTopDirs   int `yaml:"-" toml:"-" json:"-"`

	IgnoreGlobs   []string          `yaml:"ignore_globs" toml:"ignore_globs" json:"ignore_globs"`
	AllowlistVars []string          `yaml:"allowlist_vars" toml:"allowlist_vars" json:"allowlist_vars"`
	Environment   map[string]string `yaml:"environment" toml:"environment" json:"environment"`

	LogJSON bool `yaml:"-" toml:"-" json:"-"`

	// Debug/test-only fields (spec.md §6): ignored entirely when Production
	// is true, regardless of which source set them.
	Production             bool `yaml:"-" toml:"-" json:"-"`
	ASTTimings             bool `yaml:"-" toml:"-" json:"-"`
	DebugHooks             bool `yaml:"-" toml:"-" json:"-"`
	PostToolASTOnly        bool `yaml:"-" toml:"-" json:"-"`
	PostToolDryRun         bool `yaml:"-" toml:"-" json:"-"`
	PreToolASTOnly         bool `yaml:"-" toml:"-" json:"-"`
	DiffOnly               bool `yaml:"-" toml:"-" json:"-"`
	DiffContextLines       int  `yaml:"-" toml:"-" json:"-"`
	MaxSnippets            int  `yaml:"-" toml:"-" json:"-"`
	SnippetsCharCap        int  `yaml:"-" toml:"-" json:"-"`
	SoftBudgetBytes        int  `yaml:"-" toml:"-" json:"-"`
	SoftBudgetLines        int  `yaml:"-" toml:"-" json:"-"`
	ASTAnalysisTimeoutSecs int  `yaml:"-" toml:"-" json:"-"`
	FileReadTimeoutSecs    int  `yaml:"-" toml:"-" json:"-"`
	APIContractEnabled     bool `yaml:"-" toml:"-" json:"-"`
}

// Defaults returns the built-in default Settings, matching spec.md §6.
func Defaults() Settings {
	return Settings{
		Sensitivity:            SensitivityMedium,
		RequestTimeoutSecs:     30,
		ConnectTimeoutSecs:     10,
		MaxTokens:              2048,
		Temperature:            0.2,
		ContextByteCap:         100000,
		UserPromptLimit:        4000,
		MaxIssues:              100,
		DupReportMaxGroups:     20,
		DupReportMaxFiles:      10,
		DupReportTopDirs:       3,
		DiffContextLines:       3,
		MaxSnippets:            3,
		SnippetsCharCap:        1500,
		SoftBudgetBytes:        500000,
		SoftBudgetLines:        10000,
		ASTAnalysisTimeoutSecs: 8,
		FileReadTimeoutSecs:    10,
		APIContractEnabled:     true,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalize clamps every ranged field into its documented bounds (spec.md
// §6). Clamping is silent; only a malformed document is ever surfaced as a
// ConfigError.
func (s *Settings) normalize() {
	s.ContextByteCap = clamp(s.ContextByteCap, 10000, 1000000)
	s.UserPromptLimit = clamp(s.UserPromptLimit, 1000, 8000)
	s.MaxIssues = clamp(s.MaxIssues, 10, 500)
	if s.MaxMajor > 0 {
		s.MaxMajor = clamp(s.MaxMajor, 10, 500)
	}
	if s.MaxMinor > 0 {
		s.MaxMinor = clamp(s.MaxMinor, 10, 500)
	}
	s.SoftBudgetBytes = clamp(s.SoftBudgetBytes, 1, 5000000)
	s.SoftBudgetLines = clamp(s.SoftBudgetLines, 1, 200000)
	s.ASTAnalysisTimeoutSecs = clamp(s.ASTAnalysisTimeoutSecs, 1, 30)
	if s.Sensitivity == "" {
		s.Sensitivity = SensitivityMedium
	}
}

// ResolveCaps returns the effective Major/Minor issue caps: explicit values
// when set, otherwise both default to MaxIssues (spec.md: "both caps
// default to the overall cap when unset").
func (s Settings) ResolveCaps() (maxMajor, maxMinor int) {
	maxMajor, maxMinor = s.MaxMajor, s.MaxMinor
	if maxMajor == 0 {
		maxMajor = s.MaxIssues
	}
	if maxMinor == 0 {
		maxMinor = s.MaxIssues
	}
	return clamp(maxMajor, 10, 500), clamp(maxMinor, 10, 500)
}

// FindSettingsPath searches upward from the current directory for
// .hooks-config.{json,yaml,yml,toml}, honoring $HOOKS_CONFIG_FILE first.
func FindSettingsPath() (path string, found bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	return FindSettingsPathFrom(dir)
}

// FindSettingsPathFrom is FindSettingsPath parameterized on the starting
// directory, for callers (e.g. the sessionStart guard) that already know
// which working tree they're inspecting rather than trusting os.Getwd.
func FindSettingsPathFrom(startDir string) (path string, found bool) {
	if p := os.Getenv("HOOKS_CONFIG_FILE"); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
		return "", false
	}
	dir := startDir
	names := []string{".hooks-config.json", ".hooks-config.yaml", ".hooks-config.yml", ".hooks-config.toml"}
	for {
		for _, n := range names {
			p := filepath.Join(dir, n)
			if _, err := os.Stat(p); err == nil {
				return p, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// LoadSettingsFile reads and decodes a config file, dispatching on
// extension. encoding/json handles .json (no ecosystem library in the
// retrieved corpus improves on the standard decoder for a flat struct like
// this — see DESIGN.md); yaml.v3 handles .yaml/.yml; BurntSushi/toml
// handles .toml.
func LoadSettingsFile(path string) (Settings, error) {
	var s Settings
	data, err := os.ReadFile(path)
	if err != nil {
		return s, &core.ConfigError{Path: path, Err: err}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &s); err != nil {
			return s, &core.ConfigError{Path: path, Err: err}
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return s, &core.ConfigError{Path: path, Err: err}
		}
	case ".toml":
		if err := toml.Unmarshal(data, &s); err != nil {
			return s, &core.ConfigError{Path: path, Err: err}
		}
	default:
		return s, &core.ConfigError{Path: path, Err: fmt.Errorf("unrecognized config extension")}
	}
	return expandStrings(s), nil
}

// expandStrings applies ${VAR} expansion (missing -> empty string) to every
// string field that plausibly carries one, per spec.md §6/§4.C8.
func expandStrings(s Settings) Settings {
	expand := func(v string) string {
		return os.Expand(v, func(name string) string { return os.Getenv(name) })
	}
	s.PretoolProvider = expand(s.PretoolProvider)
	s.PosttoolProvider = expand(s.PosttoolProvider)
	s.PretoolModel = expand(s.PretoolModel)
	s.PosttoolModel = expand(s.PosttoolModel)
	s.OpenAIAPIKey = expand(s.OpenAIAPIKey)
	s.AnthropicAPIKey = expand(s.AnthropicAPIKey)
	s.GoogleAPIKey = expand(s.GoogleAPIKey)
	s.XAIAPIKey = expand(s.XAIAPIKey)
	for k, v := range s.Environment {
		s.Environment[k] = expand(v)
	}
	return s
}

// FromEnvironment reads the production env vars of spec.md §6 into a
// Settings value. Debug/test-only vars are read only when !production.
func FromEnvironment(production bool) Settings {
	var s Settings
	s.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	s.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	s.GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")
	s.XAIAPIKey = os.Getenv("XAI_API_KEY")
	s.OpenAIBaseURL = os.Getenv("OPENAI_BASE_URL")
	s.AnthropicBaseURL = os.Getenv("ANTHROPIC_BASE_URL")
	s.GoogleBaseURL = os.Getenv("GOOGLE_BASE_URL")
	s.XAIBaseURL = os.Getenv("XAI_BASE_URL")
	s.PretoolProvider = os.Getenv("PRETOOL_PROVIDER")
	s.PosttoolProvider = os.Getenv("POSTTOOL_PROVIDER")
	s.PretoolModel = os.Getenv("PRETOOL_MODEL")
	s.PosttoolModel = os.Getenv("POSTTOOL_MODEL")
	s.Sensitivity = Sensitivity(os.Getenv("SENSITIVITY"))
	s.LogJSON = envBool("LOG_JSON") || envBool("HOOK_LOG_JSON")

	s.MaxTokens = envInt("MAX_TOKENS", 0)
	s.Temperature = envFloat("TEMPERATURE", 0)
	s.RequestTimeoutSecs = envInt("REQUEST_TIMEOUT_SECS", 0)
	s.ConnectTimeoutSecs = envInt("CONNECT_TIMEOUT_SECS", 0)
	s.ContextByteCap = envInt("ADDITIONAL_CONTEXT_LIMIT_CHARS", 0)
	s.UserPromptLimit = envInt("USERPROMPT_CONTEXT_LIMIT", 0)
	s.MaxIssues = envInt("AST_MAX_ISSUES", 0)
	s.MaxMajor = envInt("AST_MAX_MAJOR", 0)
	s.MaxMinor = envInt("AST_MAX_MINOR", 0)
	s.DupReportMaxGroups = envInt("DUP_REPORT_MAX_GROUPS", 0)
	s.DupReportMaxFiles = envInt("DUP_REPORT_MAX_FILES", 0)
	s.DupReportTopDirs = envInt("DUP_REPORT_TOP_DIRS", 0)
	s.Production = production

	if !production {
		s.ASTTimings = envBool("AST_TIMINGS")
		s.DebugHooks = envBool("DEBUG_HOOKS")
		s.PostToolASTOnly = envBool("POSTTOOL_AST_ONLY")
		s.PostToolDryRun = envBool("POSTTOOL_DRY_RUN")
		s.PreToolASTOnly = envBool("PRETOOL_AST_ONLY")
		s.DiffOnly = envBool("AST_DIFF_ONLY")
		s.DiffContextLines = envInt("AST_DIFF_CONTEXT", 0)
		s.MaxSnippets = envInt("AST_MAX_SNIPPETS", 0)
		s.SnippetsCharCap = envInt("AST_SNIPPETS_MAX_CHARS", 0)
		s.SoftBudgetBytes = envInt("AST_SOFT_BUDGET_BYTES", 0)
		s.SoftBudgetLines = envInt("AST_SOFT_BUDGET_LINES", 0)
		s.ASTAnalysisTimeoutSecs = envInt("AST_ANALYSIS_TIMEOUT_SECS", 0)
		s.FileReadTimeoutSecs = envInt("FILE_READ_TIMEOUT", 0)
		if v := os.Getenv("AST_IGNORE_GLOBS"); v != "" {
			s.IgnoreGlobs = strings.Split(v, ",")
		}
		if v := os.Getenv("AST_ALLOWLIST_VARS"); v != "" {
			s.AllowlistVars = strings.Split(v, ",")
		}
		if v := os.Getenv("API_CONTRACT"); v != "" {
			s.APIContractEnabled = envBool("API_CONTRACT")
		}
	} else {
		// production builds always emit the API contract section.
		s.APIContractEnabled = true
	}

	return expandStrings(s)
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

// Merge overlays file and env on top of defaults, in increasing precedence
// (env wins over file wins over defaults), per spec.md §4.C8. Zero-valued
// fields in file/env do not override a non-zero default.
func Merge(defaults, file, env Settings) Settings {
	merged := defaults
	mergeInto(&merged, file)
	mergeInto(&merged, env)
	merged.Production = env.Production
	merged.normalize()
	return merged
}

func mergeInto(dst *Settings, src Settings) {
	if src.PretoolProvider != "" {
		dst.PretoolProvider = src.PretoolProvider
	}
	if src.PosttoolProvider != "" {
		dst.PosttoolProvider = src.PosttoolProvider
	}
	if src.PretoolModel != "" {
		dst.PretoolModel = src.PretoolModel
	}
	if src.PosttoolModel != "" {
		dst.PosttoolModel = src.PosttoolModel
	}
	if src.OpenAIAPIKey != "" {
		dst.OpenAIAPIKey = src.OpenAIAPIKey
	}
	if src.AnthropicAPIKey != "" {
		dst.AnthropicAPIKey = src.AnthropicAPIKey
	}
	if src.GoogleAPIKey != "" {
		dst.GoogleAPIKey = src.GoogleAPIKey
	}
	if src.XAIAPIKey != "" {
		dst.XAIAPIKey = src.XAIAPIKey
	}
	if src.OpenAIBaseURL != "" {
		dst.OpenAIBaseURL = src.OpenAIBaseURL
	}
	if src.AnthropicBaseURL != "" {
		dst.AnthropicBaseURL = src.AnthropicBaseURL
	}
	if src.GoogleBaseURL != "" {
		dst.GoogleBaseURL = src.GoogleBaseURL
	}
	if src.XAIBaseURL != "" {
		dst.XAIBaseURL = src.XAIBaseURL
	}
	if src.RequestTimeoutSecs != 0 {
		dst.RequestTimeoutSecs = src.RequestTimeoutSecs
	}
	if src.ConnectTimeoutSecs != 0 {
		dst.ConnectTimeoutSecs = src.ConnectTimeoutSecs
	}
	if src.MaxTokens != 0 {
		dst.MaxTokens = src.MaxTokens
	}
	if src.Temperature != 0 {
		dst.Temperature = src.Temperature
	}
	if src.Sensitivity != "" {
		dst.Sensitivity = src.Sensitivity
	}
	if src.ContextByteCap != 0 {
		dst.ContextByteCap = src.ContextByteCap
	}
	if src.UserPromptLimit != 0 {
		dst.UserPromptLimit = src.UserPromptLimit
	}
	if src.MaxIssues != 0 {
		dst.MaxIssues = src.MaxIssues
	}
	if src.MaxMajor != 0 {
		dst.MaxMajor = src.MaxMajor
	}
	if src.MaxMinor != 0 {
		dst.MaxMinor = src.MaxMinor
	}
	if src.DupReportMaxGroups != 0 {
		dst.DupReportMaxGroups = src.DupReportMaxGroups
	}
	if src.DupReportMaxFiles != 0 {
		dst.DupReportMaxFiles = src.DupReportMaxFiles
	}
	if src.DupReportTopDirs != 0 {
		dst.DupReportTopDirs = src.DupReportTopDirs
	}
	if len(src.IgnoreGlobs) > 0 {
		dst.IgnoreGlobs = src.IgnoreGlobs
	}
	if len(src.AllowlistVars) > 0 {
		dst.AllowlistVars = src.AllowlistVars
	}
	if len(src.Environment) > 0 {
		if dst.Environment == nil {
			dst.Environment = map[string]string{}
		}
		for k, v := range src.Environment {
			dst.Environment[k] = v
		}
	}
	if src.LogJSON {
		dst.LogJSON = true
	}
	if src.ASTTimings {
		dst.ASTTimings = true
	}
	if src.DebugHooks {
		dst.DebugHooks = true
	}
	if src.PostToolASTOnly {
		dst.PostToolASTOnly = true
	}
	if src.PostToolDryRun {
		dst.PostToolDryRun = true
	}
	if src.PreToolASTOnly {
		dst.PreToolASTOnly = true
	}
	if src.DiffOnly {
		dst.DiffOnly = true
	}
	if src.DiffContextLines != 0 {
		dst.DiffContextLines = src.DiffContextLines
	}
	if src.MaxSnippets != 0 {
		dst.MaxSnippets = src.MaxSnippets
	}
	if src.SnippetsCharCap != 0 {
		dst.SnippetsCharCap = src.SnippetsCharCap
	}
	if src.SoftBudgetBytes != 0 {
		dst.SoftBudgetBytes = src.SoftBudgetBytes
	}
	if src.SoftBudgetLines != 0 {
		dst.SoftBudgetLines = src.SoftBudgetLines
	}
	if src.ASTAnalysisTimeoutSecs != 0 {
		dst.ASTAnalysisTimeoutSecs = src.ASTAnalysisTimeoutSecs
	}
	if src.FileReadTimeoutSecs != 0 {
		dst.FileReadTimeoutSecs = src.FileReadTimeoutSecs
	}
}

// Load resolves the full Settings for a process: defaults merged with an
// optional config file merged with the environment. Corrupt config files
// are reported as a ConfigError but never abort the run — callers fall
// back to defaults+env.
func Load(production bool) (Settings, error) {
	defaults := Defaults()
	env := FromEnvironment(production)

	var file Settings
	var loadErr error
	if path, ok := FindSettingsPath(); ok {
		file, loadErr = LoadSettingsFile(path)
	}
	merged := Merge(defaults, file, env)
	return merged, loadErr
}
