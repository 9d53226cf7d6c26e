package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iMAGRAY/ASTSentinel/internal/config"
	"github.com/iMAGRAY/ASTSentinel/internal/hookio"
)

func decodeEnvelope(t *testing.T, out *bytes.Buffer) hookio.Envelope {
	t.Helper()
	var env hookio.Envelope
	require.NoError(t, json.Unmarshal(out.Bytes(), &env))
	return env
}

func TestRunAllowsCleanEdit(t *testing.T) {
	input := `{"tool_name":"Edit","cwd":".","tool_input":{"file_path":"main.go","old_string":"x","new_string":"func add(a, b int) int { return a + b }"}}`
	var out bytes.Buffer
	code := run(strings.NewReader(input), &out, config.Defaults())
	require.Equal(t, 0, code)
	env := decodeEnvelope(t, &out)
	require.Equal(t, hookio.Allow, env.HookSpecificOutput.PermissionDecision)
}

func TestRunAsksOnEmptyChange(t *testing.T) {
	input := `{"tool_name":"Edit","cwd":".","tool_input":{"file_path":"main.go","old_string":"x := 1","new_string":"x  :=  1  // same"}}`
	var out bytes.Buffer
	code := run(strings.NewReader(input), &out, config.Defaults())
	require.Equal(t, 0, code)
	env := decodeEnvelope(t, &out)
	require.Equal(t, hookio.Ask, env.HookSpecificOutput.PermissionDecision)
}

func TestRunDeniesCredentialInsertion(t *testing.T) {
	input := `{"tool_name":"Write","cwd":".","tool_input":{"file_path":"main.go","old_string":"","new_string":"apiKey := \"sk-proj-1234567890abcdef1234567890abcdef\""}}`
	var out bytes.Buffer
	code := run(strings.NewReader(input), &out, config.Defaults())
	require.Equal(t, 0, code)
	env := decodeEnvelope(t, &out)
	require.NotEqual(t, hookio.Allow, env.HookSpecificOutput.PermissionDecision)
}

func TestRunWritesValidJSONOnMalformedInput(t *testing.T) {
	var out bytes.Buffer
	code := run(strings.NewReader("not json"), &out, config.Defaults())
	require.Equal(t, 0, code)
	env := decodeEnvelope(t, &out)
	require.NotNil(t, env.HookSpecificOutput)
}
