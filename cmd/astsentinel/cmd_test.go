package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitWritesDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { require.NoError(t, os.Chdir(wd)) }()

	var out bytes.Buffer
	initCmd.SetOut(&out)
	initForce = false
	require.NoError(t, runInit(initCmd, nil))
	require.Contains(t, out.String(), ".hooks-config.yaml")

	data, err := os.ReadFile(filepath.Join(dir, ".hooks-config.yaml"))
	require.NoError(t, err)
	require.Contains(t, string(data), "sensitivity: medium")
}

func TestInitRefusesToOverwriteWithoutForce(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { require.NoError(t, os.Chdir(wd)) }()

	require.NoError(t, os.WriteFile(configFileName, []byte("existing: true\n"), 0o644))

	initForce = false
	err = runInit(initCmd, nil)
	require.Error(t, err)
}

func TestRulesListPrintsEveryRule(t *testing.T) {
	var out bytes.Buffer
	rulesListCmd.SetOut(&out)
	require.NoError(t, runRulesList(rulesListCmd, nil))
	require.Contains(t, out.String(), "SEC_CREDS")
	require.Contains(t, out.String(), "STYLE_LONG_LINE")
}

func TestScanReportsIssuesAndSummary(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"),
		[]byte("package main\n\nfunc main() {\n\tpassword := \"hunter2\"\n\t_ = password\n}\n"), 0o644))

	var out bytes.Buffer
	scanCmd.SetOut(&out)
	scanCmd.SetErr(&out)
	require.NoError(t, runScan(scanCmd, []string{dir}))
	require.Contains(t, out.String(), "files scanned")
}

func TestConfigShowPrintsResolvedSettings(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { require.NoError(t, os.Chdir(wd)) }()

	var out bytes.Buffer
	configShowCmd.SetOut(&out)
	configShowCmd.SetErr(&out)
	require.NoError(t, runConfigShow(configShowCmd, nil))
	require.Contains(t, out.String(), "source: defaults + environment")
	require.Contains(t, out.String(), "sensitivity: medium")
}
