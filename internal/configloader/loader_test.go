package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaklabco/luaufmt/pkg/config"
	"github.com/yaklabco/luaufmt/pkg/format"
	"github.com/yaklabco/luaufmt/pkg/format/rules"
)

func testRegistry() *format.Registry {
	registry := format.NewRegistry()
	rules.RegisterAll(registry)
	return registry
}

// newProject creates an isolated project root; the .git marker stops the upward search.
func newProject(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func isolatedOptions(workDir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         workDir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
		Registry:           testRegistry(),
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	root := newProject(t, nil)

	result, err := Load(context.Background(), isolatedOptions(root))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.Knit.Workspace != config.KnitAuto {
		t.Errorf("Knit.Workspace = %q, want %q", cfg.Knit.Workspace, config.KnitAuto)
	}
	if cfg.Knit.PackagesRoot != config.DefaultPackagesRoot {
		t.Errorf("Knit.PackagesRoot = %q, want %q", cfg.Knit.PackagesRoot, config.DefaultPackagesRoot)
	}
	if cfg.Watch.DebounceMS != config.DefaultDebounceMS {
		t.Errorf("Watch.DebounceMS = %d, want %d", cfg.Watch.DebounceMS, config.DefaultDebounceMS)
	}
	if cfg.Format != config.FormatText {
		t.Errorf("Format = %q, want %q", cfg.Format, config.FormatText)
	}
	if len(result.LoadedFrom) != 0 {
		t.Errorf("LoadedFrom = %v, want none", result.LoadedFrom)
	}
}

func TestLoad_ProjectYAML(t *testing.T) {
	t.Parallel()

	root := newProject(t, map[string]string{
		".luaufmt.yml": `
knit:
  workspace: always
  packages_root: Shared
rules:
  service-accessors:
    options:
      dedupe: true
ignore:
  - "**/Generated/**"
`,
	})

	result, err := Load(context.Background(), isolatedOptions(root))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.Knit.Workspace != config.KnitAlways {
		t.Errorf("Knit.Workspace = %q, want always", cfg.Knit.Workspace)
	}
	if cfg.Knit.PackagesRoot != "Shared" {
		t.Errorf("Knit.PackagesRoot = %q, want Shared", cfg.Knit.PackagesRoot)
	}
	if cfg.Knit.PackagesDir != config.DefaultPackagesDir {
		t.Errorf("Knit.PackagesDir = %q, want default kept", cfg.Knit.PackagesDir)
	}

	ruleCfg, ok := cfg.Rules["LF001"]
	if !ok {
		t.Fatalf("rule name was not normalized to LF001: %v", cfg.Rules)
	}
	if ruleCfg.Options["dedupe"] != true {
		t.Errorf("dedupe option = %v, want true", ruleCfg.Options["dedupe"])
	}
	if len(cfg.Ignore) != 1 || cfg.Ignore[0] != "**/Generated/**" {
		t.Errorf("Ignore = %v", cfg.Ignore)
	}
	if len(result.LoadedFrom) != 1 || filepath.Base(result.LoadedFrom[0]) != ".luaufmt.yml" {
		t.Errorf("LoadedFrom = %v", result.LoadedFrom)
	}
}

func TestLoad_ProjectTOML(t *testing.T) {
	t.Parallel()

	root := newProject(t, map[string]string{
		"luaufmt.toml": `
[knit]
workspace = "never"
colour = "blue"

[watch]
format_on_write = true
debounce_ms = 400

[rules.LF002]
enabled = false
`,
	})

	result, err := Load(context.Background(), isolatedOptions(root))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.Knit.Workspace != config.KnitNever {
		t.Errorf("Knit.Workspace = %q, want never", cfg.Knit.Workspace)
	}
	if !cfg.Watch.FormatOnWrite || cfg.Watch.DebounceMS != 400 {
		t.Errorf("Watch = %+v", cfg.Watch)
	}
	enabled := cfg.Rules["LF002"].Enabled
	if enabled == nil || *enabled {
		t.Errorf("LF002 enabled = %v, want false", enabled)
	}

	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "colour") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a warning for the unknown key, got %v", result.Warnings)
	}
}

func TestLoad_UpwardSearch(t *testing.T) {
	t.Parallel()

	root := newProject(t, map[string]string{
		".luaufmt.yaml":              "knit:\n  packages_dir: DevPackages\n",
		"src/server/Init.server.lua": "",
	})

	result, err := Load(context.Background(), isolatedOptions(filepath.Join(root, "src", "server")))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.Knit.PackagesDir != "DevPackages" {
		t.Errorf("PackagesDir = %q, want DevPackages", result.Config.Knit.PackagesDir)
	}
}

func TestLoad_Precedence(t *testing.T) {
	t.Parallel()

	root := newProject(t, map[string]string{
		".luaufmt.yml": "knit:\n  packages_root: FromProject\n  packages_dir: FromProject\n",
		"explicit.yml": "knit:\n  packages_root: FromExplicit\n",
	})

	opts := isolatedOptions(root)
	opts.ExplicitPath = filepath.Join(root, "explicit.yml")
	opts.CLIConfig = &config.Config{Format: config.FormatJSON, DryRun: true}

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.Knit.PackagesRoot != "FromExplicit" {
		t.Errorf("PackagesRoot = %q, want explicit config to win", cfg.Knit.PackagesRoot)
	}
	if cfg.Knit.PackagesDir != "FromProject" {
		t.Errorf("PackagesDir = %q, want project value kept", cfg.Knit.PackagesDir)
	}
	if cfg.Format != config.FormatJSON || !cfg.DryRun {
		t.Errorf("CLI values not applied: format=%q dryRun=%v", cfg.Format, cfg.DryRun)
	}
	if len(result.LoadedFrom) != 2 {
		t.Errorf("LoadedFrom = %v, want project then explicit", result.LoadedFrom)
	}
}

func TestLoad_IgnoreProjectConfig(t *testing.T) {
	t.Parallel()

	root := newProject(t, map[string]string{
		".luaufmt.yml": "knit:\n  workspace: never\n",
	})

	opts := isolatedOptions(root)
	opts.IgnoreProjectConfig = true

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.Knit.Workspace != config.KnitAuto {
		t.Errorf("Workspace = %q, want default when project config is ignored", result.Config.Knit.Workspace)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	t.Parallel()

	root := newProject(t, map[string]string{
		".luaufmt.yml": "knit:\n  workspace: always\n",
		".env":         "LUAUFMT_KNIT_PACKAGES_DIR=ServerPackages\nLUAUFMT_WATCH_DEBOUNCE_MS=75\n",
	})

	opts := isolatedOptions(root)
	opts.IgnoreEnv = false

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Paths.DotEnv == "" {
		t.Fatal("expected .env to be discovered")
	}
	if result.Config.Knit.PackagesDir != "ServerPackages" {
		t.Errorf("PackagesDir = %q, want value from .env", result.Config.Knit.PackagesDir)
	}
	if result.Config.Watch.DebounceMS != 75 {
		t.Errorf("DebounceMS = %d, want 75", result.Config.Watch.DebounceMS)
	}

	opts.IgnoreDotEnv = true
	result, err = Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.Knit.PackagesDir != config.DefaultPackagesDir {
		t.Errorf("PackagesDir = %q, want default with .env ignored", result.Config.Knit.PackagesDir)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{name: "knit workspace", content: "knit:\n  workspace: sometimes\n", field: "knit.workspace"},
		{name: "backup mode", content: "backups:\n  mode: cloud\n", field: "backups.mode"},
		{name: "negative debounce", content: "watch:\n  debounce_ms: -5\n", field: "watch.debounce_ms"},
		{name: "bad ignore glob", content: "ignore:\n  - \"[unclosed\"\n", field: "ignore[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := newProject(t, map[string]string{".luaufmt.yml": tt.content})

			_, err := Load(context.Background(), isolatedOptions(root))
			if err == nil {
				t.Fatal("expected an error")
			}

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("error %v is not a *ValidationError", err)
			}
			if validationErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", validationErr.Field, tt.field)
			}
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Parallel()

	root := newProject(t, map[string]string{".luaufmt.yml": "knit: [unterminated\n"})

	_, err := Load(context.Background(), isolatedOptions(root))
	if err == nil || !strings.Contains(err.Error(), "load project config") {
		t.Fatalf("expected project config error, got %v", err)
	}
}

func TestLoad_RuleWarnings(t *testing.T) {
	t.Parallel()

	root := newProject(t, map[string]string{
		".luaufmt.yml": `
rules:
  LF001:
    options:
      dedupe: true
  service-accessors:
    options:
      sort: true
  LF999:
    enabled: false
`,
	})

	result, err := Load(context.Background(), isolatedOptions(root))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	joined := strings.Join(result.Warnings, "\n")
	for _, want := range []string{"duplicate rule configuration", `unknown rule "LF999"`, `unknown option "sort"`} {
		if !strings.Contains(joined, want) {
			t.Errorf("warnings missing %q:\n%s", want, joined)
		}
	}
}

func TestLoad_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Load(ctx, isolatedOptions(t.TempDir())); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	enabled := true
	disabled := false

	base := config.NewConfig()
	base.Ignore = []string{"a/**"}
	base.Rules["LF001"] = config.RuleConfig{Enabled: &enabled, Options: map[string]any{"dedupe": false}}

	override := &config.Config{
		Knit:  config.KnitConfig{PackagesDir: "DevPackages"},
		Watch: config.WatchConfig{FormatOnWrite: true},
		Rules: map[string]config.RuleConfig{
			"LF001": {Options: map[string]any{"dedupe": true}},
			"LF002": {Enabled: &disabled},
		},
	}

	merged := merge(base, override)

	if merged.Knit.PackagesRoot != config.DefaultPackagesRoot {
		t.Errorf("PackagesRoot = %q, want base kept", merged.Knit.PackagesRoot)
	}
	if merged.Knit.PackagesDir != "DevPackages" {
		t.Errorf("PackagesDir = %q, want override", merged.Knit.PackagesDir)
	}
	if !merged.Watch.FormatOnWrite {
		t.Error("FormatOnWrite should be true")
	}
	if merged.Watch.DebounceMS != config.DefaultDebounceMS {
		t.Errorf("DebounceMS = %d, want base kept", merged.Watch.DebounceMS)
	}
	if len(merged.Ignore) != 1 {
		t.Errorf("Ignore = %v, want base kept when override is nil", merged.Ignore)
	}

	lf001 := merged.Rules["LF001"]
	if lf001.Enabled == nil || !*lf001.Enabled {
		t.Error("LF001 Enabled should survive an options-only override")
	}
	if lf001.Options["dedupe"] != true {
		t.Errorf("LF001 dedupe = %v, want true", lf001.Options["dedupe"])
	}
	if base.Rules["LF001"].Options["dedupe"] != false {
		t.Error("merge mutated the base rule options")
	}
	if merged.Rules["LF002"].Enabled == nil || *merged.Rules["LF002"].Enabled {
		t.Error("LF002 should be disabled")
	}
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	if MergeAll() != nil {
		t.Error("MergeAll() with no configs should be nil")
	}

	got := MergeAll(
		config.NewConfig(),
		&config.Config{Jobs: 2},
		&config.Config{Jobs: 4},
		&config.Config{Format: config.FormatDiff},
	)
	if got.Jobs != 4 || got.Format != config.FormatDiff {
		t.Errorf("MergeAll = jobs %d format %q", got.Jobs, got.Format)
	}
}

func mapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestLoadFromLookup(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	err := LoadFromLookup(cfg, mapLookup(map[string]string{
		"LUAUFMT_JOBS":                  "3",
		"LUAUFMT_IGNORE":                " a/** , ,b/** ",
		"LUAUFMT_KNIT_WORKSPACE":        "never",
		"LUAUFMT_WATCH_FORMAT_ON_WRITE": "1",
		"LUAUFMT_FORMAT":                "",
	}))
	if err != nil {
		t.Fatalf("LoadFromLookup() error = %v", err)
	}

	if cfg.Jobs != 3 {
		t.Errorf("Jobs = %d, want 3", cfg.Jobs)
	}
	if len(cfg.Ignore) != 2 || cfg.Ignore[0] != "a/**" || cfg.Ignore[1] != "b/**" {
		t.Errorf("Ignore = %q", cfg.Ignore)
	}
	if cfg.Knit.Workspace != config.KnitNever {
		t.Errorf("Workspace = %q", cfg.Knit.Workspace)
	}
	if !cfg.Watch.FormatOnWrite {
		t.Error("FormatOnWrite should be true")
	}
	if cfg.Format != config.FormatText {
		t.Errorf("empty value should not override format, got %q", cfg.Format)
	}
}

func TestLoadFromLookup_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"LUAUFMT_DRY_RUN":           "maybe",
		"LUAUFMT_WATCH_DEBOUNCE_MS": "soon",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Parallel()

			err := LoadFromLookup(config.NewConfig(), mapLookup(map[string]string{key: value}))
			if err == nil || !strings.Contains(err.Error(), key) {
				t.Errorf("expected error naming %s, got %v", key, err)
			}
		})
	}
}

func TestDotEnvLookup(t *testing.T) {
	t.Parallel()

	lookup, err := DotEnvLookup("")
	if err != nil || lookup == nil {
		t.Fatalf("DotEnvLookup(\"\") = %v, %v", lookup, err)
	}

	if _, err := DotEnvLookup(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("expected error for missing .env file")
	}
}

func TestEnvVarNames(t *testing.T) {
	t.Parallel()

	if got := GetEnvVarName("knit.packages_root"); got != "LUAUFMT_KNIT_PACKAGES_ROOT" {
		t.Errorf("GetEnvVarName = %q", got)
	}
	if got := GetEnvVarName("nope"); got != "" {
		t.Errorf("GetEnvVarName(unknown) = %q, want empty", got)
	}

	vars := ListEnvVars()
	if _, ok := vars["LUAUFMT_WATCH_DEBOUNCE_MS"]; !ok {
		t.Error("ListEnvVars missing LUAUFMT_WATCH_DEBOUNCE_MS")
	}
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	err := &ValidationError{Field: "knit.workspace", Message: "bad", FilePath: ".luaufmt.yml"}
	if got := err.Error(); got != ".luaufmt.yml: knit.workspace: bad" {
		t.Errorf("Error() = %q", got)
	}
}

func TestValidateWithFile(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Jobs = -1
	cfg.Format = "xml"

	result := ValidateWithFile(cfg, testRegistry(), "cfg.yml")
	if result.Valid() {
		t.Fatal("expected validation errors")
	}
	if len(result.Errors) != 2 {
		t.Fatalf("Errors = %v, want 2", result.Errors)
	}
	for _, e := range result.Errors {
		if e.FilePath != "cfg.yml" {
			t.Errorf("FilePath = %q", e.FilePath)
		}
	}
	if len(result.AllMessages()) != 2 {
		t.Errorf("AllMessages = %v", result.AllMessages())
	}
}
