package format

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/luaufmt/pkg/config"
	"github.com/yaklabco/luaufmt/pkg/fix"
	"github.com/yaklabco/luaufmt/pkg/fsutil"
)

// DefaultMaxPasses bounds the format loop. Formatting is idempotent, so a
// second pass normally finds nothing.
const DefaultMaxPasses = 10

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")
)

// PipelineResult contains the result of processing a single file.
type PipelineResult struct {
	// Result is the engine output from the first pass, which describes every
	// change relative to the original content.
	*Result

	// Path is the file path that was processed.
	Path string

	// OriginalInfo is the file state before processing (nil for in-memory content).
	OriginalInfo *fsutil.FileInfo

	// Modified is true if the content changed.
	Modified bool

	// ModifiedContent is the new content (nil if not modified).
	ModifiedContent []byte

	// Diff is the unified diff of the change when requested.
	Diff *fix.Diff

	// Skipped is true if the file was left alone, e.g. after a concurrent modification.
	Skipped bool

	// SkipReason explains why the file was skipped.
	SkipReason string

	// BackupCreated is true if a backup was created for this file.
	BackupCreated bool

	// Written is true if the file was written to disk.
	Written bool

	// Passes is the number of passes that applied edits.
	Passes int

	// EditsApplied is the total number of edits applied across all passes.
	EditsApplied int
}

// Summary returns a short human-readable outcome.
func (pr *PipelineResult) Summary() string {
	switch {
	case pr.Skipped:
		return "skipped: " + pr.SkipReason
	case pr.Result != nil && pr.Conflict != nil:
		return "conflicting edits"
	case pr.Written && pr.BackupCreated:
		return "formatted (backup created)"
	case pr.Written:
		return "formatted"
	case pr.Modified:
		return "changes pending"
	default:
		return "ok"
	}
}

// PipelineOptions controls safety pipeline behavior.
type PipelineOptions struct {
	// Write writes formatted content back to disk.
	Write bool

	// Diff generates a unified diff of the change.
	Diff bool

	// Backup configures backup behavior.
	Backup fsutil.BackupConfig

	// StrictRaceDetection uses hash comparison for modification detection.
	// When false, only mod time and size are checked.
	StrictRaceDetection bool

	// MaxPasses limits the number of format passes.
	// Set to 0 to use DefaultMaxPasses.
	MaxPasses int
}

// DefaultPipelineOptions returns options that report without writing.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Backup:              fsutil.DefaultBackupConfig(),
		StrictRaceDetection: true,
	}
}

// PipelineOptionsFromConfig creates PipelineOptions from config.Config.
func PipelineOptionsFromConfig(cfg *config.Config, write bool) PipelineOptions {
	opts := DefaultPipelineOptions()
	opts.Write = write
	if cfg == nil {
		return opts
	}

	opts.Backup = fsutil.BackupConfig{
		Enabled: cfg.Backups.Enabled && !cfg.NoBackups,
		Mode:    fsutil.BackupMode(cfg.Backups.Mode),
	}
	if cfg.DryRun {
		opts.Write = false
		opts.Diff = true
	}
	if cfg.Format == config.FormatDiff {
		opts.Diff = true
	}
	return opts
}

// Pipeline orchestrates the safe processing of a single file.
type Pipeline struct {
	// Engine runs the rules.
	Engine *Engine
}

// NewPipeline creates a new safety pipeline with the given engine.
func NewPipeline(engine *Engine) *Pipeline {
	return &Pipeline{Engine: engine}
}

// ProcessFile runs the full safety pipeline for a single file.
//
// The pipeline performs the following steps:
//  1. Read and hash the original file.
//  2. Format until stable or MaxPasses is reached.
//  3. Generate a diff if requested.
//  4. Stop here unless writing is enabled.
//  5. Check for concurrent modifications.
//  6. Create backup (if enabled).
//  7. Write the modified content atomically.
func (p *Pipeline) ProcessFile(
	ctx context.Context,
	path string,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	original, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := p.ProcessContent(ctx, path, original, cfg, opts)
	if err != nil {
		return nil, err
	}
	result.OriginalInfo = info

	if !result.Modified || !opts.Write {
		return result, nil
	}

	modified, err := p.checkModified(ctx, info, opts.StrictRaceDetection)
	if err != nil {
		return nil, err
	}
	if modified {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return result, nil
	}

	if opts.Backup.Enabled {
		created, err := fsutil.CreateBackup(ctx, path, opts.Backup)
		if err != nil {
			return nil, fmt.Errorf("create backup: %w", err)
		}
		result.BackupCreated = created
	}

	if err := fsutil.WriteAtomic(ctx, path, result.ModifiedContent, info.Mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true

	return result, nil
}

// ProcessContent formats in-memory content without file I/O.
func (p *Pipeline) ProcessContent(
	ctx context.Context,
	path string,
	original []byte,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	result := &PipelineResult{Path: path}

	maxPasses := opts.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}

	content := original
	for range maxPasses {
		pass, err := p.Engine.FormatContent(ctx, path, content, cfg)
		if err != nil {
			return nil, err
		}
		if result.Result == nil {
			result.Result = pass
		}
		if !pass.HasChanges() {
			break
		}

		content = pass.Apply()
		result.Passes++
		result.EditsApplied += len(pass.Edits)
		result.Modified = true
	}

	if !result.Modified {
		return result, nil
	}
	result.ModifiedContent = content

	if opts.Diff {
		result.Diff = fix.GenerateDiff(path, original, content)
	}

	return result, nil
}

// checkModified checks if a file has been modified since it was read.
func (p *Pipeline) checkModified(ctx context.Context, info *fsutil.FileInfo, strict bool) (bool, error) {
	var modified bool
	var err error

	if strict {
		modified, err = fsutil.CheckModified(ctx, info)
	} else {
		modified, err = fsutil.CheckModifiedQuick(ctx, info)
	}

	if err != nil {
		return false, fmt.Errorf("check modified: %w", err)
	}
	return modified, nil
}

// categorizeError wraps an error with the appropriate pipeline error type.
func categorizeError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}
	if errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}

	return err
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrWriteFailure)
}
