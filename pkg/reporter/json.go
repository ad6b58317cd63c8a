package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/luaufmt/pkg/runner"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path     string        `json:"path"`
	Findings []JSONFinding `json:"findings"`
	Changed  bool          `json:"changed"`
	Modified bool          `json:"modified,omitempty"`
	Conflict string        `json:"conflict,omitempty"`
	Skipped  string        `json:"skipped,omitempty"`
	Error    string        `json:"error,omitempty"`
	Edits    []JSONEdit    `json:"edits,omitempty"`
}

// JSONFinding represents a single planned change.
type JSONFinding struct {
	RuleID   string `json:"ruleId"`
	RuleName string `json:"ruleName"`
	Line     int    `json:"line"`
	Message  string `json:"message"`
}

// JSONEdit is one byte-offset edit of the first formatting pass.
type JSONEdit struct {
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
	NewText     string `json:"newText"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked     int            `json:"filesChecked"`
	FilesWithChanges int            `json:"filesWithChanges"`
	FilesModified    int            `json:"filesModified"`
	FilesConflicted  int            `json:"filesConflicted"`
	FilesErrored     int            `json:"filesErrored"`
	TotalFindings    int            `json:"totalFindings"`
	ByRule           map[string]int `json:"byRule"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalFindings, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: "1.0.0",
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{
			ByRule: make(map[string]int),
		},
	}

	if result == nil {
		return output
	}

	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:     displayPath(file.Path, r.opts.WorkingDir),
			Findings: make([]JSONFinding, 0),
		}
		output.Summary.FilesChecked++

		if file.Error != nil {
			fileResult.Error = file.Error.Error()
			output.Summary.FilesErrored++
		}

		if pr := file.Result; pr != nil {
			fileResult.Changed = pr.Modified
			fileResult.Modified = pr.Written
			if pr.Skipped {
				fileResult.Skipped = pr.SkipReason
			}

			if pr.Result != nil {
				if pr.Conflict != nil {
					fileResult.Conflict = pr.Conflict.Error()
					output.Summary.FilesConflicted++
				}
				for _, finding := range pr.Findings {
					fileResult.Findings = append(fileResult.Findings, JSONFinding{
						RuleID:   finding.RuleID,
						RuleName: finding.RuleName,
						Line:     finding.Line,
						Message:  finding.Message,
					})
					output.Summary.TotalFindings++
					output.Summary.ByRule[finding.RuleName]++
				}
				for _, edit := range pr.Edits {
					fileResult.Edits = append(fileResult.Edits, JSONEdit{
						StartOffset: edit.StartOffset,
						EndOffset:   edit.EndOffset,
						NewText:     edit.NewText,
					})
				}
			}
		}

		if fileResult.Changed {
			output.Summary.FilesWithChanges++
		}
		if fileResult.Modified {
			output.Summary.FilesModified++
		}

		output.Files = append(output.Files, fileResult)
	}

	return output
}
