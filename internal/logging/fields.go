// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldRoot       = "root"

	// Configuration fields.
	FieldWrite  = "write"
	FieldDryRun = "dry_run"
	FieldJobs   = "jobs"
	FieldConfig = "config"

	// Statistics fields.
	FieldFilesDiscovered  = "files_discovered"
	FieldFilesProcessed   = "files_processed"
	FieldFilesWithChanges = "files_with_changes"
	FieldFindingsTotal    = "findings_total"
	FieldFilesModified    = "files_modified"
	FieldFilesConflicted  = "files_conflicted"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Rule fields.
	FieldRule        = "rule"
	FieldName        = "name"
	FieldDescription = "description"

	// Module registry fields.
	FieldModule  = "module"
	FieldKind    = "kind"
	FieldModules = "modules"
	FieldEvent   = "event"

	// Language server fields.
	FieldURI     = "uri"
	FieldCommand = "command"
	FieldEdits   = "edits"
)
