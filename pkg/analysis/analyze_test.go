package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/luaufmt/pkg/format"
	"github.com/yaklabco/luaufmt/pkg/runner"
)

func accessorFinding(path string, line int) format.Finding {
	return format.Finding{RuleID: "LF001", RuleName: "service-accessors", Path: path, Line: line, Message: "normalize service accessor Players"}
}

func fontFinding(path string, line int) format.Finding {
	return format.Finding{RuleID: "LF002", RuleName: "fontface-collapse", Path: path, Line: line, Message: "collapse Font.new call onto one line"}
}

func outcome(path string, findings ...format.Finding) runner.FileOutcome {
	return runner.FileOutcome{
		Path: path,
		Result: &format.PipelineResult{
			Result:   &format.Result{Findings: findings},
			Path:     path,
			Modified: len(findings) > 0,
		},
	}
}

func TestAnalyze_NilAndEmpty(t *testing.T) {
	t.Parallel()

	report := Analyze(nil, DefaultOptions())
	require.NotNil(t, report)
	assert.Equal(t, ReportVersion, report.Version)

	report = Analyze(&runner.Result{}, DefaultOptions())
	assert.Equal(t, 0, report.Totals.Findings)
	assert.Empty(t, report.Findings)
	assert.Empty(t, report.ByFile)
	assert.Empty(t, report.ByRule)
}

func TestAnalyze_CountsTotals(t *testing.T) {
	t.Parallel()

	conflicted := outcome("c.luau")
	conflicted.Result.Conflict = errors.New("overlap")

	result := &runner.Result{
		Files: []runner.FileOutcome{
			outcome("a.luau", accessorFinding("a.luau", 1), accessorFinding("a.luau", 4), fontFinding("a.luau", 9)),
			outcome("b.luau"),
			conflicted,
			{Path: "d.luau", Error: errors.New("permission denied")},
		},
	}

	report := Analyze(result, DefaultOptions())

	assert.Equal(t, 4, report.Totals.Files)
	assert.Equal(t, 3, report.Totals.Findings)
	assert.Equal(t, 1, report.Totals.FilesWithIssues)
	assert.Equal(t, 1, report.Totals.FilesConflicted)
	assert.Equal(t, 1, report.Totals.FilesErrored)
	assert.True(t, report.Totals.HasIssues())
	assert.True(t, report.Totals.HasErrors())
	assert.Len(t, report.Findings, 3)
}

func TestAnalyze_GroupsByRule(t *testing.T) {
	t.Parallel()

	result := &runner.Result{
		Files: []runner.FileOutcome{
			outcome("a.luau", accessorFinding("a.luau", 1), fontFinding("a.luau", 5)),
			outcome("b.luau", accessorFinding("b.luau", 2)),
		},
	}

	report := Analyze(result, DefaultOptions())

	require.Len(t, report.ByRule, 2)
	assert.Equal(t, "LF001", report.ByRule[0].RuleID)
	assert.Equal(t, 2, report.ByRule[0].Findings)
	assert.Equal(t, []string{"a.luau", "b.luau"}, report.ByRule[0].Files)
	assert.Equal(t, "LF002", report.ByRule[1].RuleID)
}

func TestAnalyze_GroupsByFile(t *testing.T) {
	t.Parallel()

	result := &runner.Result{
		Files: []runner.FileOutcome{
			outcome("/work/src/a.luau", accessorFinding("a", 1)),
			outcome("/work/src/b.luau", accessorFinding("b", 1), fontFinding("b", 3)),
			outcome("/work/src/clean.luau"),
		},
	}

	opts := DefaultOptions()
	opts.WorkingDir = "/work"
	report := Analyze(result, opts)

	require.Len(t, report.ByFile, 2)
	assert.Equal(t, "src/b.luau", report.ByFile[0].Path)
	assert.Equal(t, []string{"LF001", "LF002"}, report.ByFile[0].Rules)
	assert.Equal(t, "src/a.luau", report.ByFile[1].Path)
}

func TestAnalyze_SortByAlpha(t *testing.T) {
	t.Parallel()

	result := &runner.Result{
		Files: []runner.FileOutcome{
			outcome("z.luau", accessorFinding("z", 1), accessorFinding("z", 2)),
			outcome("a.luau", accessorFinding("a", 1)),
		},
	}

	opts := DefaultOptions()
	opts.SortBy = SortByAlpha
	report := Analyze(result, opts)

	require.Len(t, report.ByFile, 2)
	assert.Equal(t, "a.luau", report.ByFile[0].Path)
	assert.Equal(t, "z.luau", report.ByFile[1].Path)
}

func TestAnalyze_ExcludeViews(t *testing.T) {
	t.Parallel()

	result := &runner.Result{
		Files: []runner.FileOutcome{outcome("a.luau", accessorFinding("a", 1))},
	}

	report := Analyze(result, Options{})

	assert.Equal(t, 1, report.Totals.Findings)
	assert.Empty(t, report.Findings)
	assert.Empty(t, report.ByFile)
	assert.Empty(t, report.ByRule)
}
