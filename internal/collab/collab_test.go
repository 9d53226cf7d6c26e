package collab_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iMAGRAY/ASTSentinel/internal/astlang"
	"github.com/iMAGRAY/ASTSentinel/internal/collab"
)

func TestDetectExactDuplicate(t *testing.T) {
	files := []collab.File{
		{Path: "src/a.go", Content: []byte("package a\n")},
		{Path: "src/b.go", Content: []byte("package a\n")},
		{Path: "src/c.go", Content: []byte("package c\n")},
	}
	report := collab.Detect(files, 0, 0)
	require.Len(t, report.Groups, 1)
	require.Equal(t, collab.ExactDuplicate, report.Groups[0].ConflictType)
	require.ElementsMatch(t, []string{"src/a.go", "src/b.go"}, report.Groups[0].Files)
}

func TestDetectBackupFileConflict(t *testing.T) {
	files := []collab.File{
		{Path: "src/handler.go", Content: []byte("v2")},
		{Path: "src/handler.go.bak", Content: []byte("v1")},
	}
	report := collab.Detect(files, 0, 0)
	require.Len(t, report.Groups, 1)
	require.Equal(t, collab.BackupFile, report.Groups[0].ConflictType)
}

func TestDetectSkipsStandardStems(t *testing.T) {
	files := []collab.File{
		{Path: "pkg/foo/mod.go", Content: []byte("a")},
		{Path: "pkg/bar/mod.go", Content: []byte("b")},
	}
	report := collab.Detect(files, 0, 0)
	require.Empty(t, report.Groups)
}

func TestDetectCapsGroupsAndFiles(t *testing.T) {
	var files []collab.File
	for i := 0; i < 5; i++ {
		files = append(files, collab.File{Path: "dup" + itoaTest(i) + ".txt", Content: []byte("same")})
	}
	report := collab.Detect(files, 10, 2)
	require.Len(t, report.Groups, 1)
	require.Len(t, report.Groups[0].Files, 2)
	require.True(t, report.Truncated)
}

func TestSummaryNoDuplicates(t *testing.T) {
	report := collab.Detect(nil, 0, 0)
	require.Equal(t, "No duplicate or conflicting files detected.", collab.Summary(report, 3))
}

func TestSummarizeReadsPresentManifests(t *testing.T) {
	files := map[string][]byte{
		"package.json": []byte(`{"dependencies":{"lodahs":"1.0.0","react":"18.0.0"}}`),
		"go.mod":       []byte("module example.com/x\n\ngo 1.23\n\nrequire (\n\tgithub.com/foo/bar v1.2.3\n)\n"),
	}
	summary := collab.Summarize(func(name string) ([]byte, error) {
		if data, ok := files[name]; ok {
			return data, nil
		}
		return nil, errors.New("not found")
	})
	require.Equal(t, 2, summary.Counts[collab.ManifestNPM])
	require.Equal(t, 1, summary.Counts[collab.ManifestGo])
	require.Len(t, summary.Suspicious, 1)
	require.Equal(t, "lodahs", summary.Suspicious[0].Name)
	require.Equal(t, "lodash", summary.Suspicious[0].LikelyIntended)
}

func TestFormatterForKnownAndUnknown(t *testing.T) {
	f, ok := collab.FormatterFor(astlang.Go)
	require.True(t, ok)
	require.Equal(t, "gofmt", f.Name)

	_, ok = collab.FormatterFor(astlang.Unknown)
	require.False(t, ok)
}

func itoaTest(n int) string {
	return string(rune('0' + n))
}
