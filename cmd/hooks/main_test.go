package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/iMAGRAY/ASTSentinel/internal/config"
)

func TestEmbeddedDefaultConfigParsesAsGuardConfig(t *testing.T) {
	var cfg config.GuardConfig
	require.NoError(t, yaml.Unmarshal(defaultConfigYAML, &cfg))
	require.Equal(t, 1, cfg.Version)
	require.NotEmpty(t, cfg.SessionStart)
	require.Equal(t, "session-guard", cfg.SessionStart[0].Name)
	require.NotEmpty(t, cfg.PreToolUse)
	require.Equal(t, "pretooluse", cfg.PreToolUse[0].Name)
	require.NotNil(t, cfg.Allowlists)
	require.NotNil(t, cfg.Allowlists.NetworkFence)
	require.Contains(t, cfg.Allowlists.NetworkFence.AllowedDomains, "github.com")
}

func TestSavedConfigResolvesFromHooksDirNotDotHooks(t *testing.T) {
	dir := t.TempDir()

	var cfg config.GuardConfig
	require.NoError(t, yaml.Unmarshal(defaultConfigYAML, &cfg))

	hooksDir := filepath.Join(dir, "hooks")
	require.NoError(t, os.MkdirAll(hooksDir, 0755))
	configPath := filepath.Join(hooksDir, "config.yaml")
	require.NoError(t, config.SaveGuardConfig(configPath, &cfg))

	origWd, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(origWd)
	require.NoError(t, os.Chdir(dir))

	found, workDir, err := config.FindGuardConfigPath()
	require.NoError(t, err)
	require.Equal(t, dir, workDir)
	require.Equal(t, configPath, found)
}
