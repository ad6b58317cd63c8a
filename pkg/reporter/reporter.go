// Package reporter writes formatting results as text, JSON, diffs or summary tables.
package reporter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yaklabco/luaufmt/internal/ui/pretty"
	"github.com/yaklabco/luaufmt/pkg/analysis"
	"github.com/yaklabco/luaufmt/pkg/config"
	"github.com/yaklabco/luaufmt/pkg/runner"
)

// Format selects a reporter. Its values are those of the format setting.
type Format = config.OutputFormat

// Output formats.
const (
	FormatText    = config.FormatText
	FormatJSON    = config.FormatJSON
	FormatDiff    = config.FormatDiff
	FormatSummary = config.FormatSummary
)

// ParseFormat parses a --format value. Empty means text.
func ParseFormat(value string) (Format, error) {
	if value == "" {
		return FormatText, nil
	}
	if f := Format(value); f.IsValid() {
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q; valid formats: text, json, diff, summary", value)
}

// SummaryOrder controls which table the summary format prints first.
type SummaryOrder string

// Summary table orders.
const (
	SummaryOrderRules SummaryOrder = "rules"
	SummaryOrderFiles SummaryOrder = "files"
)

const bufWriterSize = 64 * 1024

// Options configures a reporter.
type Options struct {
	// Writer receives the report. Nil means stdout.
	Writer io.Writer

	Format Format

	// Color is a --color mode: auto, always or never.
	Color string

	// ShowContext prints the source line under each finding.
	ShowContext bool

	// ShowSummary appends run totals.
	ShowSummary bool

	// Compact minifies JSON output.
	Compact bool

	SummaryOrder SummaryOrder

	// WorkingDir makes reported paths relative. Empty keeps them as given.
	WorkingDir string
}

// Reporter writes the outcome of a run.
type Reporter interface {
	// Report writes result and returns the number of changes it reported.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// Renderer presents an aggregated analysis.Report.
type Renderer interface {
	Render(ctx context.Context, report *analysis.Report) error
}

// New returns the Reporter for opts.Format.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Color == "" {
		opts.Color = pretty.ColorAuto
	}

	switch opts.Format {
	case FormatText, "":
		return NewTextReporter(opts), nil
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	case FormatSummary:
		return &analyzed{
			renderer: NewSummaryRenderer(opts),
			opts: analysis.Options{
				IncludeByFile: true,
				IncludeByRule: true,
				SortBy:        analysis.SortByCount,
				SortDesc:      true,
				WorkingDir:    opts.WorkingDir,
			},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}
}

// analyzed aggregates a result before handing it to a Renderer.
type analyzed struct {
	renderer Renderer
	opts     analysis.Options
}

func (a *analyzed) Report(ctx context.Context, result *runner.Result) (int, error) {
	report := analysis.Analyze(result, a.opts)
	if err := a.renderer.Render(ctx, report); err != nil {
		return 0, fmt.Errorf("render: %w", err)
	}
	return report.Totals.Findings, nil
}

// displayPath makes path relative to workDir when possible.
func displayPath(path, workDir string) string {
	if workDir == "" {
		return path
	}
	if rel, err := filepath.Rel(workDir, path); err == nil {
		return rel
	}
	return path
}
