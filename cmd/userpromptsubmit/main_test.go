package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iMAGRAY/ASTSentinel/internal/config"
)

func TestRunEmitsProjectSnapshot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"),
		[]byte("package main\n\nfunc main() {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"),
		[]byte("# hi\n"), 0o644))

	input := `{"cwd":"` + dir + `"}`
	var out bytes.Buffer
	code := run(strings.NewReader(input), &out, config.Defaults())
	require.Equal(t, 0, code)

	got := out.String()
	require.Contains(t, got, "=== PROJECT SUMMARY ===")
	require.Contains(t, got, "=== RISK/HEALTH SNAPSHOT ===")
	require.Contains(t, got, "files_scanned: 2")
}
