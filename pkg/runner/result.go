package runner

import "github.com/yaklabco/luaufmt/pkg/format"

// FileOutcome wraps PipelineResult with resolved path metadata.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Result contains the pipeline result for this file.
	// Nil if the file could not be processed.
	Result *format.PipelineResult

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesProcessed is the number of files the pipeline ran on.
	FilesProcessed int

	// FilesSkipped is the number of files left alone, e.g. after a concurrent modification.
	FilesSkipped int

	// FilesErrored is the number of files that could not be processed.
	FilesErrored int

	// FilesConflicted is the number of files whose combined edits overlapped.
	FilesConflicted int

	// FilesWithChanges is the number of files that are not formatted.
	FilesWithChanges int

	// FilesModified is the number of files written to disk.
	FilesModified int

	// FindingsTotal is the number of planned changes across all files.
	FindingsTotal int

	// FindingsByRule maps rule names to finding counts.
	FindingsByRule map[string]int

	// EditsApplied is the number of byte edits applied across all passes.
	EditsApplied int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file, ordered by path.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasChanges reports whether any file is not formatted.
func (r *Result) HasChanges() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesWithChanges > 0
}

// HasErrors reports whether any file failed or could not be formatted safely.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0 || r.Stats.FilesConflicted > 0
}

func newStats() Stats {
	return Stats{
		FindingsByRule: make(map[string]int),
	}
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	pr := outcome.Result
	if pr == nil {
		return
	}

	r.Stats.FilesProcessed++

	if pr.Skipped {
		r.Stats.FilesSkipped++
	}
	if pr.Written {
		r.Stats.FilesModified++
	}
	if pr.Modified {
		r.Stats.FilesWithChanges++
	}
	r.Stats.EditsApplied += pr.EditsApplied

	if pr.Result == nil {
		return
	}
	if pr.Conflict != nil {
		r.Stats.FilesConflicted++
	}
	r.Stats.FindingsTotal += len(pr.Findings)
	for _, finding := range pr.Findings {
		r.Stats.FindingsByRule[finding.RuleName]++
	}
}
