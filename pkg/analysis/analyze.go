// Package analysis aggregates runner results into per-rule and per-file views.
package analysis

import (
	"cmp"
	"path/filepath"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/yaklabco/luaufmt/pkg/runner"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// makeRelativePath converts an absolute path to a relative path from workDir.
// If workDir is empty or conversion fails, returns the original path.
func makeRelativePath(absPath, workDir string) string {
	if workDir == "" {
		return absPath
	}
	relPath, err := filepath.Rel(workDir, absPath)
	if err != nil {
		return absPath
	}
	return relPath
}

type analysisContext struct {
	ruleMap   map[string]*RuleAnalysis
	fileMap   map[string]*FileAnalysis
	ruleFiles map[string]map[string]bool
	fileRules map[string]map[string]bool
}

func newAnalysisContext() *analysisContext {
	return &analysisContext{
		ruleMap:   make(map[string]*RuleAnalysis),
		fileMap:   make(map[string]*FileAnalysis),
		ruleFiles: make(map[string]map[string]bool),
		fileRules: make(map[string]map[string]bool),
	}
}

func (ctx *analysisContext) getOrCreateFileAnalysis(path string) *FileAnalysis {
	if _, ok := ctx.fileMap[path]; !ok {
		ctx.fileMap[path] = &FileAnalysis{Path: path}
		ctx.fileRules[path] = make(map[string]bool)
	}
	return ctx.fileMap[path]
}

func (ctx *analysisContext) getOrCreateRuleAnalysis(ruleID, ruleName string) *RuleAnalysis {
	if _, ok := ctx.ruleMap[ruleID]; !ok {
		ctx.ruleMap[ruleID] = &RuleAnalysis{
			RuleID:   ruleID,
			RuleName: ruleName,
		}
		ctx.ruleFiles[ruleID] = make(map[string]bool)
	}
	return ctx.ruleMap[ruleID]
}

func (ctx *analysisContext) buildByRule(opts Options) []RuleAnalysis {
	result := make([]RuleAnalysis, 0, len(ctx.ruleMap))
	for ruleID, ra := range ctx.ruleMap {
		ra.Files = lo.Keys(ctx.ruleFiles[ruleID])
		slices.Sort(ra.Files)
		result = append(result, *ra)
	}
	slices.SortFunc(result, func(left, right RuleAnalysis) int {
		return compareEntries(opts, left.RuleID, right.RuleID, left.Findings, right.Findings)
	})
	return result
}

func (ctx *analysisContext) buildByFile(opts Options) []FileAnalysis {
	files := lo.Filter(lo.Values(ctx.fileMap), func(fa *FileAnalysis, _ int) bool {
		return fa.Findings > 0 || fa.Conflicted
	})

	result := make([]FileAnalysis, 0, len(files))
	for _, fa := range files {
		fa.Rules = lo.Keys(ctx.fileRules[fa.Path])
		slices.Sort(fa.Rules)
		result = append(result, *fa)
	}
	slices.SortFunc(result, func(left, right FileAnalysis) int {
		return compareEntries(opts, left.Path, right.Path, left.Findings, right.Findings)
	})
	return result
}

// compareEntries orders by count, breaking ties by name so output is stable.
func compareEntries(opts Options, leftName, rightName string, leftCount, rightCount int) int {
	if opts.SortBy == SortByAlpha {
		return cmp.Compare(leftName, rightName)
	}
	result := cmp.Compare(leftCount, rightCount)
	if opts.SortDesc {
		result = -result
	}
	if result == 0 {
		result = cmp.Compare(leftName, rightName)
	}
	return result
}

// Analyze transforms a runner.Result into a Report.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{
		Version:   ReportVersion,
		Timestamp: time.Now(),
	}

	if result == nil {
		return report
	}

	ctx := newAnalysisContext()

	for _, file := range result.Files {
		report.Totals.Files++
		if file.Error != nil {
			report.Totals.FilesErrored++
			continue
		}
		pr := file.Result
		if pr == nil {
			continue
		}

		displayPath := makeRelativePath(file.Path, opts.WorkingDir)
		fa := ctx.getOrCreateFileAnalysis(displayPath)
		fa.Modified = pr.Written
		report.Totals.EditsApplied += pr.EditsApplied
		if pr.Written {
			report.Totals.FilesModified++
		}
		if pr.Modified {
			report.Totals.FilesWithIssues++
		}

		if pr.Result == nil {
			continue
		}
		if pr.Conflict != nil {
			fa.Conflicted = true
			report.Totals.FilesConflicted++
		}

		for _, finding := range pr.Findings {
			report.Totals.Findings++
			fa.Findings++
			ctx.fileRules[displayPath][finding.RuleID] = true

			ra := ctx.getOrCreateRuleAnalysis(finding.RuleID, finding.RuleName)
			ra.Findings++
			ctx.ruleFiles[finding.RuleID][displayPath] = true

			if opts.IncludeFindings {
				report.Findings = append(report.Findings, FindingEntry{
					FilePath: displayPath,
					RuleID:   finding.RuleID,
					RuleName: finding.RuleName,
					Line:     finding.Line,
					Message:  finding.Message,
				})
			}
		}
	}

	if opts.IncludeByRule {
		report.ByRule = ctx.buildByRule(opts)
	}
	if opts.IncludeByFile {
		report.ByFile = ctx.buildByFile(opts)
	}

	return report
}
