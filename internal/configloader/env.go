package configloader

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/yaklabco/luaufmt/pkg/config"
)

// envVarPrefix is the prefix for all luaufmt environment variables.
const envVarPrefix = "LUAUFMT_"

// LookupFunc resolves an environment variable.
type LookupFunc func(key string) (string, bool)

type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

type envMapping struct {
	field string
	typ   envFieldType
	help  string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"DRY_RUN":               {field: "dry_run", typ: envTypeBool, help: "Show changes without writing: true or false"},
	"JOBS":                  {field: "jobs", typ: envTypeInt, help: "Number of parallel workers (0 = auto)"},
	"FORMAT":                {field: "format", typ: envTypeString, help: "Output format: text, json, diff, or summary"},
	"BACKUPS_ENABLED":       {field: "backups.enabled", typ: envTypeBool, help: "Create backups when writing: true or false"},
	"BACKUPS_MODE":          {field: "backups.mode", typ: envTypeString, help: "Backup mode: sidecar or none"},
	"IGNORE":                {field: "ignore", typ: envTypeSlice, help: "Comma-separated list of ignore patterns"},
	"NO_BACKUPS":            {field: "no_backups", typ: envTypeBool, help: "Disable backups: true or false"},
	"KNIT_WORKSPACE":        {field: "knit.workspace", typ: envTypeString, help: "Knit helpers: auto, always, or never"},
	"KNIT_PACKAGES_ROOT":    {field: "knit.packages_root", typ: envTypeString, help: "Instance Wally packages are required from"},
	"KNIT_PACKAGES_DIR":     {field: "knit.packages_dir", typ: envTypeString, help: "Folder Wally installs packages into"},
	"WATCH_FORMAT_ON_WRITE": {field: "watch.format_on_write", typ: envTypeBool, help: "Format scripts when they are written: true or false"},
	"WATCH_DEBOUNCE_MS":     {field: "watch.debounce_ms", typ: envTypeInt, help: "Milliseconds to coalesce writes to one file"},
}

// OSLookup reads the process environment.
func OSLookup() LookupFunc {
	return os.LookupEnv
}

// DotEnvLookup layers the process environment over the variables of a .env
// file. The process environment wins, so a shell export overrides the file.
// An empty path yields OSLookup.
func DotEnvLookup(path string) (LookupFunc, error) {
	if path == "" {
		return OSLookup(), nil
	}

	fileVars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return func(key string) (string, bool) {
		if value, ok := os.LookupEnv(key); ok {
			return value, true
		}
		value, ok := fileVars[key]
		return value, ok
	}, nil
}

// LoadFromEnv applies LUAUFMT_* overrides from the process environment.
func LoadFromEnv(cfg *config.Config) error {
	return LoadFromLookup(cfg, OSLookup())
}

// LoadFromLookup applies LUAUFMT_* overrides resolved through lookup.
func LoadFromLookup(cfg *config.Config, lookup LookupFunc) error {
	if cfg == nil {
		return nil
	}

	for _, envSuffix := range slices.Sorted(maps.Keys(envMappings)) {
		envVar := envVarPrefix + envSuffix
		value, ok := lookup(envVar)
		if !ok || value == "" {
			continue
		}

		if err := applyEnvValue(cfg, envMappings[envSuffix], value, envVar); err != nil {
			return err
		}
	}

	return nil
}

func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a trimmed slice.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "format":
		cfg.Format = config.OutputFormat(value)
	case "backups.mode":
		cfg.Backups.Mode = value
	case "knit.workspace":
		cfg.Knit.Workspace = config.KnitWorkspace(value)
	case "knit.packages_root":
		cfg.Knit.PackagesRoot = value
	case "knit.packages_dir":
		cfg.Knit.PackagesDir = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "dry_run":
		cfg.DryRun = value
	case "backups.enabled":
		cfg.Backups.Enabled = value
	case "no_backups":
		cfg.NoBackups = value
	case "watch.format_on_write":
		cfg.Watch.FormatOnWrite = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "jobs":
		cfg.Jobs = value
	case "watch.debounce_ms":
		cfg.Watch.DebounceMS = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "ignore":
		cfg.Ignore = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns every supported environment variable with its description.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.help
	}
	return vars
}
