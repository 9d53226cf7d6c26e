package rules

// RuleID identifies one rule in the fixed catalogue (spec.md §4.C3). Values
// are stable strings — they are compared lexicographically as part of the
// total order and are never renumbered.
type RuleID string

const (
	SecCreds         RuleID = "SEC_CREDS"
	SecSQL           RuleID = "SEC_SQL"
	SecCmdInjection  RuleID = "SEC_CMD_INJECTION"
	PathTraversal    RuleID = "PATH_TRAVERSAL"
	LogicUnreachable RuleID = "LOGIC_UNREACHABLE"
	LogicEmptyCatch  RuleID = "LOGIC_EMPTY_CATCH"
	FakeReturnConst  RuleID = "FAKE_RETURN_CONSTANT"
	FakePrintOnly    RuleID = "FAKE_PRINT_ONLY"
	FakeNotImpl      RuleID = "FAKE_NOT_IMPLEMENTED"
	ContractArity    RuleID = "CONTRACT_REDUCED_ARITY"
	StyleTooManyArgs RuleID = "STYLE_TOO_MANY_PARAMS"
	StyleDeepNest    RuleID = "STYLE_DEEP_NESTING"
	StyleHighCompl   RuleID = "STYLE_HIGH_COMPLEXITY"
	StyleLongLine    RuleID = "STYLE_LONG_LINE"
)

// RuleMeta is the static metadata the catalogue carries for a rule,
// independent of any one finding.
type RuleMeta struct {
	ID             RuleID
	Category       Category
	DefaultSev     Severity
	Title          string
	FixHint        string
	RequiresTree   bool // false: can run against tokenizer-fallback (text-only) input too
	MultiPassOrder int  // position in the legacy per-rule walk order, for deterministic scheduling
}

// Catalogue is the fixed rule table. Order of MultiPassOrder values mirrors
// the order rules are declared here; it is part of the contract the
// multi-pass engine's scheduling relies on, not an implementation detail.
var Catalogue = map[RuleID]RuleMeta{
	SecCreds: {
		ID: SecCreds, Category: CategorySecurity, DefaultSev: Critical,
		Title:   "Hardcoded credential",
		FixHint: "Load secrets from environment or a secret manager, never inline.",
		RequiresTree: false, MultiPassOrder: 0,
	},
	SecSQL: {
		ID: SecSQL, Category: CategorySecurity, DefaultSev: Critical,
		Title:   "SQL built by string concatenation",
		FixHint: "Use parameterized queries or a prepared statement.",
		RequiresTree: false, MultiPassOrder: 1,
	},
	SecCmdInjection: {
		ID: SecCmdInjection, Category: CategorySecurity, DefaultSev: Critical,
		Title:   "Shell command built from unsanitized input",
		FixHint: "Pass arguments as a vector, never through a shell interpreter.",
		RequiresTree: false, MultiPassOrder: 2,
	},
	PathTraversal: {
		ID: PathTraversal, Category: CategorySecurity, DefaultSev: Major,
		Title:   "Unvalidated path segment used for file access",
		FixHint: "Reject or clean \"..\" segments before touching the filesystem.",
		RequiresTree: false, MultiPassOrder: 3,
	},
	LogicUnreachable: {
		ID: LogicUnreachable, Category: CategoryCorrectness, DefaultSev: Major,
		Title:   "Unreachable code after a terminating statement",
		FixHint: "Remove the dead statement or move the terminator.",
		RequiresTree: true, MultiPassOrder: 4,
	},
	LogicEmptyCatch: {
		ID: LogicEmptyCatch, Category: CategoryCorrectness, DefaultSev: Major,
		Title:   "Exception swallowed silently",
		FixHint: "Log, rethrow, or handle the error explicitly.",
		RequiresTree: true, MultiPassOrder: 5,
	},
	FakeReturnConst: {
		ID: FakeReturnConst, Category: CategoryAntiCheat, DefaultSev: Critical,
		Title:   "Function body is a bare constant return",
		FixHint: "Implement the function instead of returning a placeholder.",
		RequiresTree: true, MultiPassOrder: 6,
	},
	FakePrintOnly: {
		ID: FakePrintOnly, Category: CategoryAntiCheat, DefaultSev: Critical,
		Title:   "Function body only logs/prints",
		FixHint: "Implement the function instead of only logging.",
		RequiresTree: true, MultiPassOrder: 7,
	},
	FakeNotImpl: {
		ID: FakeNotImpl, Category: CategoryAntiCheat, DefaultSev: Critical,
		Title:   "Function body is a not-implemented stub",
		FixHint: "Implement the function or remove it from the public surface.",
		RequiresTree: true, MultiPassOrder: 8,
	},
	ContractArity: {
		ID: ContractArity, Category: CategoryContract, DefaultSev: Major,
		Title:   "Function signature lost parameters versus the diff baseline",
		FixHint: "Restore the original parameter list or update every call site deliberately.",
		RequiresTree: true, MultiPassOrder: 9,
	},
	StyleTooManyArgs: {
		ID: StyleTooManyArgs, Category: CategoryStyle, DefaultSev: Minor,
		Title:   "Too many parameters",
		FixHint: "Group related parameters into a struct/options type.",
		RequiresTree: true, MultiPassOrder: 10,
	},
	StyleDeepNest: {
		ID: StyleDeepNest, Category: CategoryStyle, DefaultSev: Minor,
		Title:   "Deeply nested control flow",
		FixHint: "Extract a helper or invert the condition to reduce nesting.",
		RequiresTree: true, MultiPassOrder: 11,
	},
	StyleHighCompl: {
		ID: StyleHighCompl, Category: CategoryStyle, DefaultSev: Minor,
		Title:   "High cyclomatic complexity",
		FixHint: "Split the function along its decision points.",
		RequiresTree: true, MultiPassOrder: 12,
	},
	StyleLongLine: {
		ID: StyleLongLine, Category: CategoryStyle, DefaultSev: Minor,
		Title:   "Line exceeds the configured length",
		FixHint: "Wrap or reflow the line.",
		RequiresTree: false, MultiPassOrder: 13,
	},
}

// OrderedRuleIDs returns every RuleID in MultiPassOrder order, the schedule
// the multi-pass engine walks the tree in.
func OrderedRuleIDs() []RuleID {
	ids := make([]RuleID, len(Catalogue))
	for id, meta := range Catalogue {
		ids[meta.MultiPassOrder] = id
	}
	return ids
}

// Thresholds are the tunable knobs the style rules compare against. Callers
// derive these from config.Settings.Sensitivity.
type Thresholds struct {
	MaxParams     int
	MaxNesting    int
	MaxComplexity int
	MaxLineLen    int
}

// ThresholdsFor maps a sensitivity level to concrete limits. "high"
// sensitivity means the engine complains more readily, so its limits are
// the tightest.
func ThresholdsFor(sensitivity string) Thresholds {
	switch sensitivity {
	case "high":
		return Thresholds{MaxParams: 4, MaxNesting: 3, MaxComplexity: 8, MaxLineLen: 100}
	case "low":
		return Thresholds{MaxParams: 7, MaxNesting: 5, MaxComplexity: 15, MaxLineLen: 140}
	default: // medium
		return Thresholds{MaxParams: 5, MaxNesting: 4, MaxComplexity: 10, MaxLineLen: 120}
	}
}
