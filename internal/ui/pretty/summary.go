package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/luaufmt/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(count int, singular, many string) string {
	if count == 1 {
		return singular
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 changes in 2 files, 2 files formatted".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	var parts []string

	if stats.FilesWithChanges == 0 {
		parts = append(parts, s.Success.Render("All files formatted")+
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles))))
	} else {
		parts = append(parts, fmt.Sprintf("%d %s in %d %s",
			stats.FindingsTotal, plural(stats.FindingsTotal, "change", "changes"),
			stats.FilesWithChanges, plural(stats.FilesWithChanges, wordFile, wordFiles)))
	}

	if stats.FilesModified > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d %s formatted",
			stats.FilesModified, plural(stats.FilesModified, wordFile, wordFiles))))
	}
	if stats.FilesConflicted > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d %s with conflicting edits",
			stats.FilesConflicted, plural(stats.FilesConflicted, wordFile, wordFiles))))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d %s failed",
			stats.FilesErrored, plural(stats.FilesErrored, wordFile, wordFiles))))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files checked:     " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")

	if stats.FilesWithChanges > 0 {
		builder.WriteString("  Files to format:   " +
			s.Warning.Render(strconv.Itoa(stats.FilesWithChanges)) + "\n")
	}
	if stats.FilesModified > 0 {
		builder.WriteString("  Files formatted:   " +
			s.Success.Render(strconv.Itoa(stats.FilesModified)) + "\n")
	}
	if stats.FilesConflicted > 0 {
		builder.WriteString("  Conflicts:         " +
			s.Failure.Render(strconv.Itoa(stats.FilesConflicted)) + "\n")
	}
	if stats.FilesErrored > 0 {
		builder.WriteString("  Errors:            " +
			s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	builder.WriteString("\n")
	builder.WriteString("  Total changes:     " +
		s.SummaryValue.Render(strconv.Itoa(stats.FindingsTotal)) + "\n")
	builder.WriteString("\n")

	switch {
	case stats.FilesErrored > 0 || stats.FilesConflicted > 0:
		builder.WriteString(s.Failure.Render("Formatting incomplete"))
	case stats.FilesWithChanges > stats.FilesModified:
		builder.WriteString(s.Warning.Render("Some files need formatting"))
	default:
		builder.WriteString(s.Success.Render("All files formatted"))
	}
	builder.WriteString("\n")

	return builder.String()
}
