package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/luaufmt/internal/ui/pretty"
	"github.com/yaklabco/luaufmt/pkg/document"
	"github.com/yaklabco/luaufmt/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to format."))
		}
		return 0, nil
	}

	var total int

	for _, file := range result.Files {
		path := displayPath(file.Path, r.opts.WorkingDir)

		if file.Error != nil {
			fmt.Fprint(r.bw, r.styles.FormatFileError(path, file.Error))
			continue
		}

		pr := file.Result
		if pr == nil || pr.Result == nil {
			continue
		}
		if pr.Conflict != nil {
			fmt.Fprint(r.bw, r.styles.FormatConflict(path, pr.Conflict))
			continue
		}
		if pr.Skipped {
			fmt.Fprintf(r.bw, "%s: %s\n", r.styles.FilePath.Render(path), r.styles.Warning.Render(pr.Summary()))
			continue
		}
		if len(pr.Findings) == 0 {
			continue
		}

		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(pr.Findings)))
		for idx := range pr.Findings {
			finding := &pr.Findings[idx]
			var sourceLine string
			if r.opts.ShowContext {
				sourceLine = sourceLineOf(pr.Document, finding.Line)
			}
			fmt.Fprint(r.bw, r.styles.FormatFinding(finding, path, sourceLine))
			total++
		}
		fmt.Fprintln(r.bw)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}

// sourceLineOf returns the 1-based line of doc, or "" when out of range.
func sourceLineOf(doc *document.Document, lineNum int) string {
	if doc == nil {
		return ""
	}
	line, ok := doc.Line(lineNum - 1)
	if !ok {
		return ""
	}
	return line.Content()
}
