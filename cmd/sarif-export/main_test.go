package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunEmitsSarifReportForFindings(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"),
		[]byte("package main\n\nfunc main() {\n\tpassword := \"hunter2\"\n\t_ = password\n}\n"), 0o644))

	var out, errOut bytes.Buffer
	code := run(&out, &errOut, dir)
	require.Equal(t, 0, code)

	got := out.String()
	require.Contains(t, got, `"version": "2.1.0"`)
	require.Contains(t, got, "SEC_CREDS")
}

func TestRunReportsScanErrorOnMissingRoot(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run(&out, &errOut, filepath.Join(t.TempDir(), "does-not-exist"))
	require.Equal(t, 1, code)
	require.Contains(t, errOut.String(), "scan")
}
