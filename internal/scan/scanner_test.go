package scan_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iMAGRAY/ASTSentinel/internal/config"
	"github.com/iMAGRAY/ASTSentinel/internal/rules"
	"github.com/iMAGRAY/ASTSentinel/internal/scan"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestScanFindsIssuesAndSkipsIgnored(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", `package main

func Stub() error {
	return nil
}
`)
	writeFile(t, root, "vendor/skip.go", `package vendor

func Stub() error {
	return nil
}
`)

	settings := config.Defaults()
	cache, err := scan.NewCache("")
	require.NoError(t, err)

	report, err := scan.Scan(context.Background(), scan.Options{
		Root:       root,
		Settings:   settings,
		Cache:      cache,
		Mode:       rules.FastPath,
		Thresholds: rules.ThresholdsFor(string(settings.Sensitivity)),
	})
	require.NoError(t, err)
	require.Equal(t, 1, report.TotalFiles, "vendor/ is a built-in ignore")
	require.Equal(t, "main.go", report.Files[0].Path)
	require.NotEmpty(t, report.Files[0].Issues)
}

func TestContentHashCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cache, err := scan.NewCache(filepath.Join(dir, "cache"))
	require.NoError(t, err)
	defer cache.Close()

	hash := scan.ContentHash([]byte("package main"))
	_, ok := cache.Get(hash)
	require.False(t, ok)

	issues := []rules.Issue{rules.NewIssue(rules.SecCreds, rules.Critical, 1, "test")}
	cache.Put(hash, issues)

	got, ok := cache.Get(hash)
	require.True(t, ok)
	require.Equal(t, issues, got)
}
