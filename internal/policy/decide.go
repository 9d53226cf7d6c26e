package policy

import (
	"strconv"
	"strings"

	"github.com/iMAGRAY/ASTSentinel/internal/config"
	"github.com/iMAGRAY/ASTSentinel/internal/hookio"
	"github.com/iMAGRAY/ASTSentinel/internal/hooks"
	"github.com/iMAGRAY/ASTSentinel/internal/rules"
)

// GuardInput bundles the fields the teacher's always-on guard hooks need,
// translated from hookio.Input into the teacher's flatter hooks.HookInput.
type GuardInput struct {
	ToolName string
	Command  string
	Path     string
	Contents string
}

// toHookInput builds a hooks.HookInput carrying just enough tool_input JSON
// for NetworkFence/PathValidation/SecretScanner to read via their own
// Command()/Path()/Contents() accessors.
func (g GuardInput) toHookInput() hooks.HookInput {
	var b strings.Builder
	b.WriteString("{")
	b.WriteString(`"command":` + strconv.Quote(g.Command) + ",")
	b.WriteString(`"path":` + strconv.Quote(g.Path) + ",")
	b.WriteString(`"contents":` + strconv.Quote(g.Contents))
	b.WriteString("}")
	return hooks.HookInput{ToolName: g.ToolName, ToolInput: []byte(b.String())}
}

// RunGuardHooks runs the teacher's cheap, always-on admission checks —
// network fence, path validation, regex secret scan, and the rate limiter —
// before the expensive AST pipeline runs at all. The first one to deny
// short-circuits; an empty reason means none fired.
func RunGuardHooks(g GuardInput, workDir, rateLimitStateDir string, maxCallsPerMinute int) (deny bool, reason string) {
	input := g.toHookInput()

	if res, _ := hooks.NetworkFence(input); res.Decision == "deny" {
		return true, res.Reason
	}
	if res, _ := hooks.PathValidation(input, workDir); res.Decision == "deny" {
		return true, res.Reason
	}
	if res, _ := hooks.SecretScanner(input); res.Decision == "deny" {
		return true, res.Reason
	}
	if maxCallsPerMinute > 0 {
		if res, _ := hooks.RateLimiter(input, maxCallsPerMinute, rateLimitStateDir); res.Decision == "deny" {
			return true, res.Reason
		}
	}
	return false, ""
}

// PreToolUseContext carries everything DecidePreToolUse needs for one
// proposed edit/write, after the AST pipeline (C2/C3) and diff engine (C5)
// have already run on the new content.
type PreToolUseContext struct {
	Settings config.Settings
	RelPath  string
	OldText  string
	NewText  string
	Issues   []rules.Issue // rules.Analyze output over NewText
	Offline  bool
	// GuardDeny, when non-empty, is the reason a cheap guard hook already
	// produced; DecidePreToolUse short-circuits to deny without consulting
	// the AST pipeline at all.
	GuardDeny string
}

// DecidePreToolUse implements spec.md §4.C7's five first-match-wins rules.
func DecidePreToolUse(ctx PreToolUseContext) hookio.Envelope {
	if ctx.GuardDeny != "" {
		return hookio.NewPreToolUseEnvelope(hookio.Deny, ctx.GuardDeny)
	}

	// Rule 1: offline mode + Critical Security/AntiCheat issue -> deny.
	if ctx.Offline {
		if is, ok := firstMatch(ctx.Issues, func(i rules.Issue) bool {
			return i.Severity == rules.Critical &&
				(i.Category == rules.CategorySecurity || i.Category == rules.CategoryAntiCheat)
		}); ok {
			return hookio.NewPreToolUseEnvelope(hookio.Deny,
				"offline mode: Critical "+string(is.Category)+" issue "+string(is.RuleID)+" blocks this change")
		}
	}

	// Rule 2: CONTRACT_REDUCED_ARITY with sensitivity gating.
	if is, ok := firstMatch(ctx.Issues, func(i rules.Issue) bool { return i.RuleID == rules.ContractArity }); ok {
		sensitivity := ctx.Settings.Sensitivity
		hasSecurity := anyMatch(ctx.Issues, func(i rules.Issue) bool { return i.Category == rules.CategorySecurity })
		if sensitivity == config.SensitivityHigh || (isMediumOrHigh(sensitivity) && hasSecurity) {
			return hookio.NewPreToolUseEnvelope(hookio.Deny,
				"CONTRACT_REDUCED_ARITY: "+is.Message)
		}
	}

	// Rule 3: semantically empty change -> ask.
	if IsSemanticallyEmpty(ctx.OldText, ctx.NewText) {
		return hookio.NewPreToolUseEnvelope(hookio.Ask, "empty change")
	}

	// Rule 4: any FAKE_* rule.
	if is, ok := firstMatch(ctx.Issues, isFakeRule); ok {
		if IsTestPath(ctx.RelPath) {
			if ctx.Settings.Sensitivity == config.SensitivityHigh {
				return hookio.NewPreToolUseEnvelope(hookio.Deny, string(is.RuleID)+": "+is.Message)
			}
			return hookio.NewPreToolUseEnvelope(hookio.Ask, string(is.RuleID)+": "+is.Message)
		}
		return hookio.NewPreToolUseEnvelope(hookio.Deny, string(is.RuleID)+": "+is.Message)
	}

	// Rule 5: otherwise allow.
	return hookio.NewPreToolUseEnvelope(hookio.Allow, "")
}

// DecidePostToolUse is a pure wrap of the already-assembled additionalContext
// string — it never gates the action, only reports.
func DecidePostToolUse(additionalContext string) hookio.Envelope {
	return hookio.NewPostToolUseEnvelope(additionalContext)
}

func isMediumOrHigh(s config.Sensitivity) bool {
	return s == config.SensitivityMedium || s == config.SensitivityHigh
}

func isFakeRule(i rules.Issue) bool {
	switch i.RuleID {
	case rules.FakeReturnConst, rules.FakePrintOnly, rules.FakeNotImpl:
		return true
	default:
		return false
	}
}

func firstMatch(issues []rules.Issue, pred func(rules.Issue) bool) (rules.Issue, bool) {
	for _, is := range issues {
		if pred(is) {
			return is, true
		}
	}
	return rules.Issue{}, false
}

func anyMatch(issues []rules.Issue, pred func(rules.Issue) bool) bool {
	_, ok := firstMatch(issues, pred)
	return ok
}
