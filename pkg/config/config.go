// Package config defines core configuration types for luaufmt.
// These types are plain data; loading and merging live in internal/configloader.
package config

// RuleConfig holds per-rule configuration options.
type RuleConfig struct {
	Enabled *bool          `yaml:"enabled,omitempty" toml:"enabled,omitempty"`
	Options map[string]any `yaml:"options,omitempty" toml:"options,omitempty"`
}

// BackupsConfig controls backup behavior when formatting files in place.
type BackupsConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Mode    string `yaml:"mode" toml:"mode"` // "sidecar" or "none"
}

// KnitWorkspace controls whether the Knit helpers are active.
type KnitWorkspace string

const (
	// KnitAuto enables Knit helpers when a KnitServer module exists in the workspace.
	KnitAuto KnitWorkspace = "auto"

	// KnitAlways treats every workspace as a Knit workspace.
	KnitAlways KnitWorkspace = "always"

	// KnitNever disables the Knit helpers.
	KnitNever KnitWorkspace = "never"
)

// IsValid returns true if the mode is known.
func (k KnitWorkspace) IsValid() bool {
	switch k {
	case KnitAuto, KnitAlways, KnitNever:
		return true
	default:
		return false
	}
}

// KnitConfig configures the Knit and Wally insertion helpers.
type KnitConfig struct {
	// Workspace is "auto", "always" or "never".
	Workspace KnitWorkspace `yaml:"workspace" toml:"workspace"`

	// PackagesRoot is the instance Wally packages are required from.
	PackagesRoot string `yaml:"packages_root" toml:"packages_root"`

	// PackagesDir is the workspace folder Wally installs packages into.
	PackagesDir string `yaml:"packages_dir" toml:"packages_dir"`
}

// WatchConfig configures `luaufmt watch`.
type WatchConfig struct {
	// FormatOnWrite formats a script every time it is written.
	FormatOnWrite bool `yaml:"format_on_write" toml:"format_on_write"`

	// DebounceMS is how long a burst of writes to one file is coalesced.
	DebounceMS int `yaml:"debounce_ms" toml:"debounce_ms"`
}

// OutputFormat specifies the output format for results.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatDiff    OutputFormat = "diff"
	FormatSummary OutputFormat = "summary"
)

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatDiff, FormatSummary:
		return true
	default:
		return false
	}
}

// Config is the root configuration structure for luaufmt.
type Config struct {
	// Rules contains per-rule configuration keyed by rule ID.
	Rules map[string]RuleConfig `yaml:"rules" toml:"rules"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore" toml:"ignore"`

	// Backups configures backup behavior when formatting in place.
	Backups BackupsConfig `yaml:"backups" toml:"backups"`

	// Knit configures the module insertion helpers.
	Knit KnitConfig `yaml:"knit" toml:"knit"`

	// Watch configures the watcher.
	Watch WatchConfig `yaml:"watch" toml:"watch"`

	// CLI-level options (not persisted to config files).

	// DryRun shows what would change without writing files.
	DryRun bool `yaml:"-" toml:"-"`

	// Format specifies the output format.
	Format OutputFormat `yaml:"-" toml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-" toml:"-"`

	// EnableRules contains rule IDs to explicitly enable.
	EnableRules []string `yaml:"-" toml:"-"`

	// DisableRules contains rule IDs to explicitly disable.
	DisableRules []string `yaml:"-" toml:"-"`

	// NoBackups disables backup creation.
	NoBackups bool `yaml:"-" toml:"-"`
}

// Default values shared by NewConfig and the configuration template.
const (
	DefaultPackagesRoot = "ReplicatedStorage"
	DefaultPackagesDir  = "Packages"
	DefaultDebounceMS   = 150
)

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Rules: make(map[string]RuleConfig),
		Backups: BackupsConfig{
			Enabled: false,
			Mode:    "sidecar",
		},
		Knit: KnitConfig{
			Workspace:    KnitAuto,
			PackagesRoot: DefaultPackagesRoot,
			PackagesDir:  DefaultPackagesDir,
		},
		Watch: WatchConfig{
			DebounceMS: DefaultDebounceMS,
		},
		Format: FormatText,
		Jobs:   0, // 0 means use GOMAXPROCS
	}
}
