package diffeng_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iMAGRAY/ASTSentinel/internal/astlang"
	"github.com/iMAGRAY/ASTSentinel/internal/diffeng"
	"github.com/iMAGRAY/ASTSentinel/internal/parser"
)

const oldSample = `package sample

func Greet(name string) string {
	return "hello " + name
}
`

const newSample = `package sample

func Greet(name string) string {
	if name == "" {
		name = "friend"
	}
	return "hello " + name
}

func Farewell(name string) string {
	return "bye " + name
}
`

func TestRoundTripReconstructsNewText(t *testing.T) {
	ld := diffeng.ComputeLineDiff(oldSample, newSample)
	require.Equal(t, newSample, ld.Reconstruct()+"\n")
}

func TestUnifiedDiffNoChange(t *testing.T) {
	ld := diffeng.ComputeLineDiff(oldSample, oldSample)
	require.Equal(t, "[no textual change]", diffeng.Unified(ld, 3))
}

func TestUnifiedDiffHasHunkMarkers(t *testing.T) {
	ld := diffeng.ComputeLineDiff(oldSample, newSample)
	out := diffeng.Unified(ld, 3)
	require.Contains(t, out, "@@")
	require.Contains(t, out, "+func Farewell")
}

func TestEntityMappingCoversChangedLine(t *testing.T) {
	f := parser.New(parser.Budgets{SoftBudgetBytes: 1 << 20, SoftBudgetLines: 10000, TimeoutSecs: 5}, 0)
	defer f.Close()
	res, err := f.Parse(context.Background(), []byte(newSample), astlang.Go, "")
	require.NoError(t, err)
	defer res.Close()

	ld := diffeng.ComputeLineDiff(oldSample, newSample)
	changed := ld.ChangedLines()
	require.NotEmpty(t, changed)

	entities := diffeng.MapLinesToEntities(res.Tree.RootNode(), astlang.Go, res.Source, changed)
	require.NotEmpty(t, entities)
	var uncovered []int
	for _, line := range changed {
		found := false
		for _, e := range entities {
			if line >= e.LineStart && line <= e.LineEnd {
				found = true
				break
			}
		}
		if !found {
			uncovered = append(uncovered, line)
		}
	}
	// Line 9 is the blank line inserted between Greet and Farewell: it lies
	// outside every entity, so MapLinesToEntities omits it.
	require.Equal(t, []int{9}, uncovered, "every other changed line must be covered by some entity's span")
}

func TestBuildSnippetsRespectsMaxSnippets(t *testing.T) {
	f := parser.New(parser.Budgets{SoftBudgetBytes: 1 << 20, SoftBudgetLines: 10000, TimeoutSecs: 5}, 0)
	defer f.Close()
	res, err := f.Parse(context.Background(), []byte(newSample), astlang.Go, "")
	require.NoError(t, err)
	defer res.Close()

	ld := diffeng.ComputeLineDiff(oldSample, newSample)
	changed := ld.ChangedLines()

	caps := diffeng.DefaultSnippetCaps()
	caps.MaxSnippets = 1
	out := diffeng.BuildSnippets(res.Tree.RootNode(), astlang.Go, res.Source, changed, map[int]bool{}, caps)
	require.NotEmpty(t, out)
}
