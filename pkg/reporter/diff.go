package reporter

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/luaufmt/internal/ui/pretty"
	"github.com/yaklabco/luaufmt/pkg/fix"
	"github.com/yaklabco/luaufmt/pkg/runner"
)

// DiffReporter prints the change formatting would make to each file as a
// git-style unified diff.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
}

// NewDiffReporter creates a diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
	}
}

// Report implements Reporter. It returns the number of files with a diff.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	if result == nil {
		return 0, nil
	}

	out := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := out.Flush(); err == nil {
			err = flushErr
		}
	}()

	var files, additions, deletions int
	for _, file := range result.Files {
		path := displayPath(file.Path, r.opts.WorkingDir)
		switch {
		case file.Error != nil:
			fmt.Fprint(out, r.styles.FormatFileError(path, file.Error))
		case file.Result == nil:
		case file.Result.Result != nil && file.Result.Conflict != nil:
			fmt.Fprint(out, r.styles.FormatConflict(path, file.Result.Conflict))
		case file.Result.Diff.HasChanges():
			files++
			additions += file.Result.Diff.Additions
			deletions += file.Result.Diff.Deletions
			r.writeDiff(out, file.Result.Diff)
		}
	}

	if files > 0 && r.opts.ShowSummary {
		r.writeTotals(out, files, additions, deletions)
	}
	return files, nil
}

func (r *DiffReporter) writeDiff(out *bufio.Writer, diff *fix.Diff) {
	shown := filepath.ToSlash(displayPath(diff.Path, r.opts.WorkingDir))

	fmt.Fprintln(out, r.styles.DiffHeader.Render(fmt.Sprintf("diff --git a/%s b/%s", shown, shown)))
	fmt.Fprintln(out, r.styles.DiffRemove.Render("--- a/"+shown))
	fmt.Fprintln(out, r.styles.DiffAdd.Render("+++ b/"+shown))

	for _, hunk := range diff.Hunks {
		fmt.Fprintln(out, r.styles.DiffHunk.Render(fmt.Sprintf("@@ -%d,%d +%d,%d @@",
			hunk.OriginalStart, hunk.OriginalCount, hunk.ModifiedStart, hunk.ModifiedCount)))
		for _, line := range hunk.Lines {
			fmt.Fprintln(out, r.lineStyle(line.Kind).Render(line.Kind.Prefix()+line.Content))
		}
	}
	fmt.Fprintln(out)
}

func (r *DiffReporter) lineStyle(kind fix.DiffLineKind) lipgloss.Style {
	switch kind {
	case fix.DiffLineAdd:
		return r.styles.DiffAdd
	case fix.DiffLineRemove:
		return r.styles.DiffRemove
	default:
		return r.styles.DiffContext
	}
}

func (r *DiffReporter) writeTotals(out *bufio.Writer, files, additions, deletions int) {
	parts := []string{fmt.Sprintf("%d %s changed", files, plural(files, "file", "files"))}
	if additions > 0 {
		parts = append(parts, r.styles.DiffAdd.Render(
			fmt.Sprintf("%d %s(+)", additions, plural(additions, "insertion", "insertions"))))
	}
	if deletions > 0 {
		parts = append(parts, r.styles.DiffRemove.Render(
			fmt.Sprintf("%d %s(-)", deletions, plural(deletions, "deletion", "deletions"))))
	}
	fmt.Fprintln(out, strings.Join(parts, ", "))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
