// Package providers is the optional AI client (component boundary named in
// spec.md §1/§9): a single-await-point REST client over the four supported
// providers, consulted only when online. It is deliberately at arm's
// length from internal/policy and internal/context — a ProviderError never
// blocks a decision, it only means the caller falls back to the offline,
// AST-derived context (spec.md's "the offline path is the source of truth
// for tests").
package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Name identifies one of the four supported AI providers.
type Name string

const (
	OpenAI    Name = "openai"
	Anthropic Name = "anthropic"
	Google    Name = "google"
	XAI       Name = "xai"
)

// ParseName maps a config string to a Name, case-insensitively.
func ParseName(s string) (Name, error) {
	switch strings.ToLower(s) {
	case string(OpenAI):
		return OpenAI, nil
	case string(Anthropic):
		return Anthropic, nil
	case string(Google):
		return Google, nil
	case string(XAI):
		return XAI, nil
	default:
		return "", fmt.Errorf("invalid provider %q: supported openai, anthropic, google, xai", s)
	}
}

// DefaultBaseURL returns the provider's public API root.
func (n Name) DefaultBaseURL() string {
	switch n {
	case OpenAI:
		return "https://api.openai.com/v1"
	case Anthropic:
		return "https://api.anthropic.com"
	case Google:
		return "https://generativelanguage.googleapis.com/v1"
	case XAI:
		return "https://api.x.ai/v1"
	default:
		return ""
	}
}

// ErrNoProvider is returned when no API key is configured for the
// requested provider — the caller's policy is to fall back to the offline
// context bundle, never to block on it.
var ErrNoProvider = errors.New("providers: no API key configured for provider")

// SecurityOpinion is the pretool provider's structured verdict: an
// independent, best-effort second opinion layered on top of (never a
// substitute for) the deterministic AST engine's PreToolUse decision.
type SecurityOpinion struct {
	IsSafe     bool     `json:"is_safe"`
	Risk       string   `json:"risk"` // "none"|"low"|"medium"|"high"|"critical"
	Findings   []string `json:"findings"`
	Reasoning  string   `json:"reasoning"`
}

// CodeOpinion is the posttool provider's free-form narrative augmenting
// the deterministic CHANGE SUMMARY/RISK REPORT sections.
type CodeOpinion struct {
	Summary         string   `json:"summary"`
	Suggestions     []string `json:"suggestions"`
	QualityScore    float64  `json:"quality_score"`
}

// Client is the single interface every hook binary depends on; the AST
// pipeline never imports a concrete provider package directly.
type Client interface {
	ValidateSecurity(ctx context.Context, code, systemPrompt string) (SecurityOpinion, error)
	AnalyzeCode(ctx context.Context, code, systemPrompt string) (CodeOpinion, error)
}
