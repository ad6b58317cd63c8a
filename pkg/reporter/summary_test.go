package reporter

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/luaufmt/pkg/analysis"
)

func sampleReport() *analysis.Report {
	return &analysis.Report{
		ByRule: []analysis.RuleAnalysis{
			{RuleID: "LF001", RuleName: "service-accessors", Findings: 5, Files: []string{"a.luau", "b.luau"}},
			{RuleID: "LF002", RuleName: "fontface-collapse", Findings: 1, Files: []string{"a.luau"}},
		},
		ByFile: []analysis.FileAnalysis{
			{Path: "src/a.luau", Findings: 4},
			{Path: "src/b.luau", Findings: 2, Conflicted: true},
		},
		Totals: analysis.Totals{Files: 3, FilesWithIssues: 2, Findings: 6, FilesConflicted: 1},
	}
}

func TestSummaryRenderer_Clean(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderer := NewSummaryRenderer(Options{Writer: &buf, Color: "never"})

	require.NoError(t, renderer.Render(context.Background(), &analysis.Report{Totals: analysis.Totals{Files: 4}}))
	assert.Equal(t, "All files formatted\n", buf.String())
}

func TestSummaryRenderer_ShowsTables(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderer := NewSummaryRenderer(Options{Writer: &buf, Color: "never", SummaryOrder: SummaryOrderRules})

	require.NoError(t, renderer.Render(context.Background(), sampleReport()))

	output := buf.String()
	assert.Contains(t, output, "Rules Summary")
	assert.Contains(t, output, padRight("service-accessors", ruleColWidth)+" "+padLeft("5", numColWidth)+" "+padLeft("2", numColWidth))
	assert.Contains(t, output, "Files Summary")
	assert.Contains(t, output, "src/b.luau")
	assert.Contains(t, output, "Total: 6 changes in 2 files (1 conflicted)")
	assert.Less(t, strings.Index(output, "Rules Summary"), strings.Index(output, "Files Summary"))
}

func TestSummaryRenderer_FilesFirstOrder(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderer := NewSummaryRenderer(Options{Writer: &buf, Color: "never", SummaryOrder: SummaryOrderFiles})

	require.NoError(t, renderer.Render(context.Background(), sampleReport()))

	output := buf.String()
	assert.Greater(t, strings.Index(output, "Rules Summary"), strings.Index(output, "Files Summary"))
}

func TestSummaryRenderer_TruncatesLongPaths(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("d/", 40) + "Module.luau"
	report := &analysis.Report{
		ByFile: []analysis.FileAnalysis{{Path: long, Findings: 1}},
		Totals: analysis.Totals{Findings: 1, FilesWithIssues: 1},
	}

	var buf bytes.Buffer
	renderer := NewSummaryRenderer(Options{Writer: &buf, Color: "never"})
	require.NoError(t, renderer.Render(context.Background(), report))

	output := buf.String()
	assert.NotContains(t, output, long)
	assert.Contains(t, output, "…")
	assert.Contains(t, output, "Module.luau")
}

func TestPadding(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ab  ", padRight("ab", 4))
	assert.Equal(t, "abcd", padRight("abcd", 2))
	assert.Equal(t, "  ab", padLeft("ab", 4))
}
