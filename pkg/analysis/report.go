package analysis

import "time"

// Report contains pre-computed views of a formatting run.
// Computed once by Analyze and shared by the summary and JSON renderers.
type Report struct {
	// Findings is the flat list for detailed output.
	Findings []FindingEntry `json:"findings,omitempty"`

	// ByFile groups findings by file path.
	ByFile []FileAnalysis `json:"byFile,omitempty"`

	// ByRule groups findings by rule.
	ByRule []RuleAnalysis `json:"byRule,omitempty"`

	// Totals contains aggregate statistics.
	Totals Totals `json:"summary"`

	// Version is the report format version.
	Version string `json:"version"`

	// Timestamp is when the analysis was performed.
	Timestamp time.Time `json:"timestamp"`
}

// FindingEntry is a single planned change in the report.
type FindingEntry struct {
	FilePath string `json:"filePath"`
	RuleID   string `json:"ruleId"`
	RuleName string `json:"ruleName"`
	Line     int    `json:"line"`
	Message  string `json:"message"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Files           int `json:"filesChecked"`
	FilesWithIssues int `json:"filesWithChanges"`
	FilesModified   int `json:"filesModified"`
	FilesConflicted int `json:"filesConflicted"`
	FilesErrored    int `json:"filesErrored"`
	Findings        int `json:"totalFindings"`
	EditsApplied    int `json:"editsApplied"`
}

// HasIssues returns true if any file is not formatted.
func (t Totals) HasIssues() bool {
	return t.Findings > 0 || t.FilesWithIssues > 0
}

// HasErrors returns true if any file failed or had conflicting edits.
func (t Totals) HasErrors() bool {
	return t.FilesErrored > 0 || t.FilesConflicted > 0
}

// FileAnalysis contains aggregated data for a single file.
type FileAnalysis struct {
	Path       string   `json:"path"`
	Findings   int      `json:"findings"`
	Modified   bool     `json:"modified"`
	Conflicted bool     `json:"conflicted"`
	Rules      []string `json:"rules,omitempty"`
}

// RuleAnalysis contains aggregated data for a single rule.
type RuleAnalysis struct {
	RuleID   string   `json:"ruleId"`
	RuleName string   `json:"ruleName"`
	Findings int      `json:"findings"`
	Files    []string `json:"files,omitempty"`
}

// SortField orders ByFile and ByRule.
type SortField string

// Sort orders.
const (
	SortByCount SortField = "count"
	SortByAlpha SortField = "alpha"
)

// Options selects the views Analyze builds.
type Options struct {
	IncludeFindings bool
	IncludeByFile   bool
	IncludeByRule   bool

	SortBy SortField

	// SortDesc puts the highest counts first.
	SortDesc bool

	// WorkingDir makes paths relative. Empty keeps them as given.
	WorkingDir string
}

// DefaultOptions builds every view, busiest first.
func DefaultOptions() Options {
	return Options{
		IncludeFindings: true,
		IncludeByFile:   true,
		IncludeByRule:   true,
		SortBy:          SortByCount,
		SortDesc:        true,
	}
}
