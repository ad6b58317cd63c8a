// Package pretty renders findings, module tables and summaries for the terminal.
package pretty

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color modes accepted by --color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ParseColorMode checks a --color value. Empty means auto.
func ParseColorMode(mode string) (string, error) {
	switch mode {
	case "", ColorAuto:
		return ColorAuto, nil
	case ColorAlways, ColorNever:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid color mode %q: must be auto, always or never", mode)
	}
}

// IsColorEnabled reports whether output to writer should be colored. In auto
// mode that requires a terminal and an unset NO_COLOR.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := writer.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// Styles holds every style the reporters and tables use.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style

	// Findings
	FilePath   lipgloss.Style
	Location   lipgloss.Style
	RuleID     lipgloss.Style
	Message    lipgloss.Style
	SourceLine lipgloss.Style

	// Diffs
	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	// Summaries
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	// Module tables
	TableHeader    lipgloss.Style
	TableSeparator lipgloss.Style
	TableWarnRow   lipgloss.Style
	KnitKind       lipgloss.Style
	WallyKind      lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// ANSI palette indexes.
const (
	red     = "9"
	green   = "10"
	yellow  = "11"
	blue    = "12"
	magenta = "13"
	cyan    = "14"
	grey    = "8"
	silver  = "7"
)

// NewStyles builds the style set. Without color every style renders text
// unchanged.
func NewStyles(colorEnabled bool) *Styles {
	plain := lipgloss.NewStyle()
	bold := plain
	fg := func(string) lipgloss.Style { return plain }
	if colorEnabled {
		bold = plain.Bold(true)
		fg = func(color string) lipgloss.Style {
			return plain.Foreground(lipgloss.Color(color))
		}
	}
	loud := func(color string) lipgloss.Style {
		if !colorEnabled {
			return plain
		}
		return fg(color).Bold(true)
	}

	return &Styles{
		Error:   loud(red),
		Warning: loud(yellow),

		FilePath:   bold,
		Location:   fg(grey),
		RuleID:     fg(grey),
		Message:    plain,
		SourceLine: fg(silver),

		DiffHeader:  bold,
		DiffHunk:    fg(cyan),
		DiffAdd:     fg(green),
		DiffRemove:  fg(red),
		DiffContext: fg(grey),

		SummaryTitle: bold,
		SummaryValue: plain,
		Success:      loud(green),
		Failure:      loud(red),

		TableHeader:    loud(silver),
		TableSeparator: fg(grey),
		TableWarnRow:   fg(yellow),
		KnitKind:       fg(blue),
		WallyKind:      fg(magenta),

		Dim:  fg(grey),
		Bold: bold,
	}
}
