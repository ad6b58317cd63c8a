package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/luaufmt/pkg/format"
)

// FormatFinding formats a single finding for terminal output:
//
//	path:line  message  (rule-name)
func (s *Styles) FormatFinding(finding *format.Finding, path string, sourceLine string) string {
	var builder strings.Builder

	location := s.FilePath.Render(path) + s.Location.Render(fmt.Sprintf(":%d", finding.Line))
	ruleDisplay := s.RuleID.Render("(" + finding.RuleName + ")")

	fmt.Fprintf(&builder, "  %s  %s  %s\n", location, s.Message.Render(finding.Message), ruleDisplay)

	if sourceLine != "" {
		builder.WriteString("        " + s.SourceLine.Render(strings.TrimRight(sourceLine, "\r")) + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, findingCount int) string {
	header := s.FilePath.Render(path)
	switch {
	case findingCount == 1:
		header += s.Dim.Render(" (1 change)")
	case findingCount > 1:
		header += s.Dim.Render(fmt.Sprintf(" (%d changes)", findingCount))
	}
	return header
}

// FormatConflict formats the line reported for a file whose edits overlap.
func (s *Styles) FormatConflict(path string, conflict error) string {
	return fmt.Sprintf("%s: %s\n", s.FilePath.Render(path), s.Warning.Render("not formatted: "+conflict.Error()))
}

// FormatFileError formats the line reported for a file that could not be processed.
func (s *Styles) FormatFileError(path string, err error) string {
	return fmt.Sprintf("%s: %s\n", s.FilePath.Render(path), s.Error.Render(fmt.Sprintf("error: %v", err)))
}
