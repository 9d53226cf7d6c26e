package rules

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// credentialPatterns mirrors the hook system's write-time secret scanner,
// generalized from a single-match blocker into a line-numbered finding list.
var credentialPatterns = []struct {
	re   *regexp.Regexp
	name string
}{
	{regexp.MustCompile(`AKIA[0-9A-Z]{16}`), "AWS access key"},
	{regexp.MustCompile(`(?i)aws_secret_access_key\s*[=:]\s*"[A-Za-z0-9/+=]{40}"`), "AWS secret key"},
	{regexp.MustCompile(`ghp_[A-Za-z0-9]{20,}`), "GitHub personal access token"},
	{regexp.MustCompile(`github_pat_[A-Za-z0-9_]{20,}`), "GitHub fine-grained token"},
	{regexp.MustCompile(`xox[bpors]-[A-Za-z0-9\-]{10,}`), "Slack token"},
	{regexp.MustCompile(`sk_(?:live|test)_[A-Za-z0-9]{20,}`), "Stripe secret key"},
	{regexp.MustCompile(`SG\.[A-Za-z0-9_\-]{10,}\.[A-Za-z0-9_\-]{10,}`), "SendGrid API key"},
	{regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA |OPENSSH )?PRIVATE KEY-----`), "private key"},
	{regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_\-]{10,}`), "JWT token"},
	{regexp.MustCompile(`(?i)(?:api_key|apikey|api_secret)\s*(?::=|[=:])\s*"[A-Za-z0-9\-_]{20,}"`), "API key assignment"},
	{regexp.MustCompile(`(?i)(?:password|passwd)\s*(?::=|[=:])\s*"[^"$]{6,}"`), "hardcoded password"},
	{regexp.MustCompile(`(?i)(?:secret)\s*(?::=|[=:])\s*"[A-Za-z0-9\-_]{10,}"`), "hardcoded secret"},
}

func isGenericCredentialName(name string) bool {
	return name == "API key assignment" || name == "hardcoded password" || name == "hardcoded secret"
}

// DetectCredentialPattern checks a single line against the same regex
// battery scanCredentials runs during a full analysis pass, letting
// internal/hooks's write-time guard reuse one definition of "looks like a
// secret" instead of keeping its own copy. skipGeneric drops the
// high-false-positive generic patterns, the way test files are treated.
func DetectCredentialPattern(line string, skipGeneric bool) (name string, ok bool) {
	for _, cp := range credentialPatterns {
		if !cp.re.MatchString(line) {
			continue
		}
		if skipGeneric && isGenericCredentialName(cp.name) {
			continue
		}
		return cp.name, true
	}
	return "", false
}

// scanCredentials runs the regex battery line by line so findings carry a
// line number, skipping generic (high-false-positive) patterns inside test
// files the same way the write-time guard does.
func scanCredentials(source []byte, isTestFile bool) []Issue {
	var out []Issue
	lines := strings.Split(string(source), "\n")
	for i, line := range lines {
		if name, ok := DetectCredentialPattern(line, isTestFile); ok {
			out = append(out, NewIssue(SecCreds, Critical, i+1,
				"potential "+name+" detected"))
		}
	}
	return out
}

// scanLongLines flags any line (by rune count, not byte count, so multi-byte
// UTF-8 text is not penalized twice) past the sensitivity threshold.
func scanLongLines(source []byte, maxLen int) []Issue {
	var out []Issue
	lines := strings.Split(string(source), "\n")
	for i, line := range lines {
		n := utf8.RuneCountInString(line)
		if n > maxLen {
			out = append(out, NewIssue(StyleLongLine, Minor, i+1,
				"line too long ("+itoa(n)+" > "+itoa(maxLen)+" chars)"))
		}
	}
	return out
}

// sqlKeywordPairs is the same coarse SELECT/WHERE-style pairing the original
// scorer's SecurityPatternRule used for flagging interpolated SQL text.
var sqlKeywordPairs = [][2]string{
	{"SELECT", "WHERE"},
	{"INSERT", "VALUES"},
	{"UPDATE", "SET"},
	{"DELETE", "FROM"},
}

func looksLikeSQL(text string) bool {
	upper := strings.ToUpper(text)
	for _, pair := range sqlKeywordPairs {
		if strings.Contains(upper, pair[0]) && strings.Contains(upper, pair[1]) {
			return true
		}
	}
	return false
}

// interpolationMarkers are the per-language tells that a string literal is
// built from live data rather than being a fixed constant: f-strings,
// template literals, string concatenation operators, and format verbs.
var interpolationMarkers = []string{"${", "{}", "%s", "%d", "+ ", " +", "f\"", "f'", "#{"}

func looksInterpolated(text string) bool {
	for _, m := range interpolationMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

var cmdSinkNames = []string{
	"exec.Command", "os.system", "subprocess.call", "subprocess.run", "subprocess.Popen",
	"Runtime.exec", "ProcessBuilder", "shell_exec", "popen", "os.popen", "child_process.exec",
}

var pathSinkNames = []string{
	"os.Open", "os.ReadFile", "os.Create", "ioutil.ReadFile", "open(", "File.Read",
	"readFile", "createReadStream", "File.open", "fs.readFileSync",
}

func lineContainsAny(line string, names []string) string {
	for _, n := range names {
		if strings.Contains(line, n) {
			return n
		}
	}
	return ""
}

// scanSQLInjection flags lines that both look like SQL text and look built
// from live data (interpolation markers), the same pairing the original
// scorer used for f-string SQL (quality_scorer.rs's SecurityPatternRule).
func scanSQLInjection(source []byte) []Issue {
	var out []Issue
	lines := strings.Split(string(source), "\n")
	for i, line := range lines {
		if looksLikeSQL(line) && looksInterpolated(line) {
			out = append(out, NewIssue(SecSQL, Critical, i+1,
				"SQL statement appears to be built from interpolated input"))
		}
	}
	return out
}

// scanCmdInjection flags lines invoking a process-spawning sink whose
// argument is built through concatenation or interpolation rather than
// passed as a fixed literal/argument vector.
func scanCmdInjection(source []byte) []Issue {
	var out []Issue
	lines := strings.Split(string(source), "\n")
	for i, line := range lines {
		sink := lineContainsAny(line, cmdSinkNames)
		if sink == "" {
			continue
		}
		if looksInterpolated(line) || strings.Contains(line, "sh -c") || strings.Contains(line, "/bin/sh") {
			out = append(out, NewIssue(SecCmdInjection, Critical, i+1,
				"shell command via "+sink+" built from unsanitized input"))
		}
	}
	return out
}

// scanPathTraversal flags filesystem-sink calls whose argument contains a
// literal ".." segment or is visibly concatenated from a variable instead of
// a fixed path.
func scanPathTraversal(source []byte) []Issue {
	var out []Issue
	lines := strings.Split(string(source), "\n")
	for i, line := range lines {
		sink := lineContainsAny(line, pathSinkNames)
		if sink == "" {
			continue
		}
		if strings.Contains(line, "..") || looksInterpolated(line) {
			out = append(out, NewIssue(PathTraversal, Major, i+1,
				"path passed to "+sink+" is not validated against traversal"))
		}
	}
	return out
}
