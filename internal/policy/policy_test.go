package policy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iMAGRAY/ASTSentinel/internal/config"
	"github.com/iMAGRAY/ASTSentinel/internal/hookio"
	"github.com/iMAGRAY/ASTSentinel/internal/policy"
	"github.com/iMAGRAY/ASTSentinel/internal/rules"
)

func TestIsTestPath(t *testing.T) {
	require.True(t, policy.IsTestPath("src/tests/helpers.go"))
	require.True(t, policy.IsTestPath("pkg/foo_test.go"))
	require.True(t, policy.IsTestPath("fixtures/sample.json"))
	require.False(t, policy.IsTestPath("internal/rules/text.go"))
}

func TestIsSemanticallyEmpty(t *testing.T) {
	old := "func Foo() int {\n    return 1\n}\n"
	new := "func Foo() int {\n\n    // comment\n    return 1\n}\n"
	require.True(t, policy.IsSemanticallyEmpty(old, new))

	changed := "func Foo() int {\n    return 2\n}\n"
	require.False(t, policy.IsSemanticallyEmpty(old, changed))
}

func TestDecidePreToolUseGuardDenyShortCircuits(t *testing.T) {
	ctx := policy.PreToolUseContext{
		Settings:  config.Defaults(),
		GuardDeny: "Blocked: potential AWS Access Key detected in config.go",
	}
	env := policy.DecidePreToolUse(ctx)
	require.Equal(t, hookio.Deny, env.HookSpecificOutput.PermissionDecision)
	require.Contains(t, env.HookSpecificOutput.PermissionDecisionReason, "AWS Access Key")
}

func TestDecidePreToolUseOfflineCriticalSecurityDenies(t *testing.T) {
	ctx := policy.PreToolUseContext{
		Settings: config.Defaults(),
		OldText:  "a",
		NewText:  "b",
		Offline:  true,
		Issues: []rules.Issue{
			rules.NewIssue(rules.SecCreds, rules.Critical, 3, "hardcoded AWS key"),
		},
	}
	env := policy.DecidePreToolUse(ctx)
	require.Equal(t, hookio.Deny, env.HookSpecificOutput.PermissionDecision)
}

func TestDecidePreToolUseContractDriftHighSensitivityDenies(t *testing.T) {
	settings := config.Defaults()
	settings.Sensitivity = config.SensitivityHigh
	ctx := policy.PreToolUseContext{
		Settings: settings,
		OldText:  "a",
		NewText:  "b",
		Issues: []rules.Issue{
			rules.NewIssue(rules.ContractArity, rules.Critical, 5, "Process lost 2 params"),
		},
	}
	env := policy.DecidePreToolUse(ctx)
	require.Equal(t, hookio.Deny, env.HookSpecificOutput.PermissionDecision)
}

func TestDecidePreToolUseContractDriftLowSensitivityAllows(t *testing.T) {
	settings := config.Defaults()
	settings.Sensitivity = config.SensitivityLow
	ctx := policy.PreToolUseContext{
		Settings: settings,
		OldText:  "a",
		NewText:  "b",
		Issues: []rules.Issue{
			rules.NewIssue(rules.ContractArity, rules.Critical, 5, "Process lost 2 params"),
		},
	}
	env := policy.DecidePreToolUse(ctx)
	require.Equal(t, hookio.Allow, env.HookSpecificOutput.PermissionDecision)
}

func TestDecidePreToolUseEmptyChangeAsks(t *testing.T) {
	ctx := policy.PreToolUseContext{
		Settings: config.Defaults(),
		OldText:  "x := 1",
		NewText:  "x := 1 // noop",
	}
	env := policy.DecidePreToolUse(ctx)
	require.Equal(t, hookio.Ask, env.HookSpecificOutput.PermissionDecision)
	require.Equal(t, "empty change", env.HookSpecificOutput.PermissionDecisionReason)
}

func TestDecidePreToolUseFakeRuleNonTestDenies(t *testing.T) {
	ctx := policy.PreToolUseContext{
		Settings: config.Defaults(),
		RelPath:  "internal/billing/invoice.go",
		OldText:  "a",
		NewText:  "b",
		Issues: []rules.Issue{
			rules.NewIssue(rules.FakeReturnConst, rules.Major, 8, "getTotal always returns 0"),
		},
	}
	env := policy.DecidePreToolUse(ctx)
	require.Equal(t, hookio.Deny, env.HookSpecificOutput.PermissionDecision)
}

func TestDecidePreToolUseFakeRuleTestPathAsksUnlessHigh(t *testing.T) {
	ctx := policy.PreToolUseContext{
		Settings: config.Defaults(),
		RelPath:  "tests/invoice_test.go",
		OldText:  "a",
		NewText:  "b",
		Issues: []rules.Issue{
			rules.NewIssue(rules.FakePrintOnly, rules.Major, 8, "test stub only prints"),
		},
	}
	env := policy.DecidePreToolUse(ctx)
	require.Equal(t, hookio.Ask, env.HookSpecificOutput.PermissionDecision)

	ctx.Settings.Sensitivity = config.SensitivityHigh
	env = policy.DecidePreToolUse(ctx)
	require.Equal(t, hookio.Deny, env.HookSpecificOutput.PermissionDecision)
}

func TestDecidePreToolUseCleanChangeAllows(t *testing.T) {
	ctx := policy.PreToolUseContext{
		Settings: config.Defaults(),
		RelPath:  "internal/billing/invoice.go",
		OldText:  "a",
		NewText:  "b",
	}
	env := policy.DecidePreToolUse(ctx)
	require.Equal(t, hookio.Allow, env.HookSpecificOutput.PermissionDecision)
}

func TestDecidePostToolUseWrapsWithoutGating(t *testing.T) {
	env := policy.DecidePostToolUse("=== CHANGE SUMMARY ===\nfoo")
	require.Empty(t, env.HookSpecificOutput.PermissionDecisionReason)
	require.Equal(t, "=== CHANGE SUMMARY ===\nfoo", env.HookSpecificOutput.AdditionalContext)
}

func TestOfflineDetection(t *testing.T) {
	s := config.Defaults()
	require.True(t, policy.Offline(s))
	s.OpenAIAPIKey = "sk-test"
	require.False(t, policy.Offline(s))
}
