// Package runner provides multi-file formatting orchestration.
package runner

import "github.com/yaklabco/luaufmt/pkg/config"

// Options controls multi-file formatting behavior.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// ExcludeGlobs are glob patterns used to skip files or directories,
	// relative to WorkingDir. These merge ignore rules from config and CLI.
	ExcludeGlobs []string

	// NoDefaultExcludes disables DefaultExcludes.
	NoDefaultExcludes bool

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// Write formats files in place. Without it the run only reports.
	Write bool

	// Config is the resolved configuration for this run.
	Config *config.Config
}

// DefaultExcludes returns the patterns skipped unless NoDefaultExcludes is set:
// the package indexes Wally installs third-party code into.
func DefaultExcludes() []string {
	return []string{
		"**/Packages/_Index/**",
		"**/DevPackages/_Index/**",
		"**/ServerPackages/_Index/**",
	}
}

// effectivePaths returns the paths to process, defaulting to "." if empty.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

// effectiveExcludes returns the configured excludes plus the defaults.
func (o Options) effectiveExcludes() []string {
	excludes := append([]string(nil), o.ExcludeGlobs...)
	if o.Config != nil {
		excludes = append(excludes, o.Config.Ignore...)
	}
	if !o.NoDefaultExcludes {
		excludes = append(excludes, DefaultExcludes()...)
	}
	return excludes
}
