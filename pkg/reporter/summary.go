package reporter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yaklabco/luaufmt/internal/ui/pretty"
	"github.com/yaklabco/luaufmt/pkg/analysis"
)

// Table layout constants for summary output.
const (
	tableWidth        = 80
	ruleColWidth      = 30
	fileColWidth      = 60
	numColWidth       = 9
	maxRuleNameLength = 28
	maxFilePathLength = 58
)

// padRight pads a string to the given width with spaces on the right.
// This must be called before applying styles.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads a string to the given width with spaces on the left.
// This must be called before applying styles.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// SummaryRenderer formats results as aggregated summary tables.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryRenderer creates a new summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryRenderer{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) error {
	if !report.Totals.HasIssues() && !report.Totals.HasErrors() {
		fmt.Fprintln(r.out, r.styles.Success.Render("All files formatted"))
		return nil
	}

	if r.opts.SummaryOrder == SummaryOrderFiles {
		r.renderFileTable(report.ByFile)
		fmt.Fprintln(r.out)
		r.renderRuleTable(report.ByRule)
	} else {
		r.renderRuleTable(report.ByRule)
		fmt.Fprintln(r.out)
		r.renderFileTable(report.ByFile)
	}

	fmt.Fprintln(r.out)
	r.renderTotals(report.Totals)

	return nil
}

func (r *SummaryRenderer) separator() {
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))
}

func (r *SummaryRenderer) renderRuleTable(rules []analysis.RuleAnalysis) {
	if len(rules) == 0 {
		return
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Rules Summary"))
	r.separator()
	fmt.Fprintf(r.out, "%s %s %s\n",
		r.styles.TableHeader.Render(padRight("Rule", ruleColWidth)),
		r.styles.TableHeader.Render(padLeft("Changes", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Files", numColWidth)),
	)
	r.separator()

	for _, rule := range rules {
		ruleName := rule.RuleName
		if ruleName == "" {
			ruleName = rule.RuleID
		}
		if len(ruleName) > maxRuleNameLength {
			ruleName = ruleName[:maxRuleNameLength] + "…"
		}

		fmt.Fprintf(r.out, "%s %s %s\n",
			padRight(ruleName, ruleColWidth),
			padLeft(strconv.Itoa(rule.Findings), numColWidth),
			padLeft(strconv.Itoa(len(rule.Files)), numColWidth),
		)
	}
}

func (r *SummaryRenderer) renderFileTable(files []analysis.FileAnalysis) {
	if len(files) == 0 {
		return
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Files Summary"))
	r.separator()
	fmt.Fprintf(r.out, "%s %s\n",
		r.styles.TableHeader.Render(padRight("File", fileColWidth)),
		r.styles.TableHeader.Render(padLeft("Changes", numColWidth)),
	)
	r.separator()

	for _, file := range files {
		path := file.Path
		if len(path) > maxFilePathLength {
			path = "…" + path[len(path)-(maxFilePathLength-1):]
		}

		paddedPath := padRight(path, fileColWidth)
		if file.Conflicted {
			paddedPath = r.styles.TableWarnRow.Render(paddedPath)
		}

		fmt.Fprintf(r.out, "%s %s\n",
			paddedPath,
			padLeft(strconv.Itoa(file.Findings), numColWidth),
		)
	}
}

func (r *SummaryRenderer) renderTotals(totals analysis.Totals) {
	changeWord := "changes"
	if totals.Findings == 1 {
		changeWord = "change"
	}
	fileWord := "files"
	if totals.FilesWithIssues == 1 {
		fileWord = "file"
	}

	line := fmt.Sprintf("%d %s in %d %s", totals.Findings, changeWord, totals.FilesWithIssues, fileWord)

	var extra []string
	if totals.FilesModified > 0 {
		extra = append(extra, r.styles.Success.Render(fmt.Sprintf("%d formatted", totals.FilesModified)))
	}
	if totals.FilesConflicted > 0 {
		extra = append(extra, r.styles.Warning.Render(fmt.Sprintf("%d conflicted", totals.FilesConflicted)))
	}
	if totals.FilesErrored > 0 {
		extra = append(extra, r.styles.Error.Render(fmt.Sprintf("%d failed", totals.FilesErrored)))
	}
	if len(extra) > 0 {
		line += " (" + strings.Join(extra, ", ") + ")"
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Total: ")+line)
}
