package hooks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RateLimiter is a preToolUse hook that blocks excessive tool calls. It
// buckets state per ToolName so a burst of Shell invocations can't exhaust
// the budget the Edit/Write/MultiEdit calls the AST pipeline actually
// reviews depend on, and vice versa.
func RateLimiter(input HookInput, maxPerMinute int, stateDir string) (HookResult, int) {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return Allow(), 0
	}

	stateFile := filepath.Join(stateDir, "rate-limiter."+toolBucket(input.ToolName)+".state")
	now := time.Now()
	cutoff := now.Add(-1 * time.Minute)

	// Read existing timestamps
	var recent []time.Time
	if data, err := os.ReadFile(stateFile); err == nil {
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		for _, line := range lines {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			ts, err := time.Parse(time.RFC3339Nano, line)
			if err == nil && ts.After(cutoff) {
				recent = append(recent, ts)
			}
		}
	}

	// Check rate
	if len(recent) >= maxPerMinute {
		return Deny(fmt.Sprintf("Blocked: rate limit exceeded for %s (%d calls in last minute, limit: %d). Possible runaway loop.", input.ToolName, len(recent), maxPerMinute)), 2
	}

	// Record this call
	recent = append(recent, now)
	var sb strings.Builder
	for _, ts := range recent {
		sb.WriteString(ts.Format(time.RFC3339Nano))
		sb.WriteString("\n")
	}
	os.WriteFile(stateFile, []byte(sb.String()), 0644)

	return Allow(), 0
}

// toolBucket maps a tool name to a filesystem-safe state file suffix.
func toolBucket(toolName string) string {
	if toolName == "" {
		return "default"
	}
	var b strings.Builder
	for _, r := range toolName {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "default"
	}
	return b.String()
}
