package runner_test

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
	"github.com/yaklabco/luaufmt/pkg/runner"
)

const unformatted = "local Players = game:GetService(\"Players\")\nprint(Players)\n"

const formatted = "local Players = game:GetService('Players');\nprint(Players)\n"

func newRunner() *runner.Runner {
	registry := format.NewRegistry()
	rules.RegisterAll(registry)
	return runner.New(format.NewPipeline(format.NewEngine(registry)))
}

func TestNew(t *testing.T) {
	t.Parallel()

	pipeline := format.NewPipeline(format.NewEngine(format.NewRegistry()))
	r := runner.New(pipeline)

	if r.Pipeline != pipeline {
		t.Error("Pipeline not set correctly")
	}
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	result, err := newRunner().Run(context.Background(), runner.Options{
		WorkingDir: t.TempDir(),
		Config:     config.NewConfig(),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stats.FilesDiscovered != 0 || len(result.Files) != 0 {
		t.Errorf("expected empty result, got %+v", result.Stats)
	}
	if result.HasChanges() || result.HasErrors() {
		t.Error("empty run should report neither changes nor errors")
	}
}

func TestRunner_Run_CheckOnly(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"src/Client.luau": unformatted,
		"src/Clean.luau":  formatted,
	})

	result, err := newRunner().Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Config:     config.NewConfig(),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	stats := result.Stats
	if stats.FilesDiscovered != 2 || stats.FilesProcessed != 2 {
		t.Errorf("discovered/processed = %d/%d, want 2/2", stats.FilesDiscovered, stats.FilesProcessed)
	}
	if stats.FilesWithChanges != 1 {
		t.Errorf("FilesWithChanges = %d, want 1", stats.FilesWithChanges)
	}
	if stats.FilesModified != 0 {
		t.Errorf("FilesModified = %d, want 0 without write", stats.FilesModified)
	}
	if stats.FindingsByRule["service-accessors"] != 1 {
		t.Errorf("FindingsByRule = %v", stats.FindingsByRule)
	}
	if !result.HasChanges() {
		t.Error("HasChanges() = false, want true")
	}

	content, err := os.ReadFile(filepath.Join(dir, "src", "Client.luau"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(content) != unformatted {
		t.Error("check-only run must not touch files")
	}
}

func TestRunner_Run_Write(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"Client.luau": unformatted})

	result, err := newRunner().Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Write:      true,
		Jobs:       1,
		Config:     config.NewConfig(),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stats.FilesModified != 1 {
		t.Errorf("FilesModified = %d, want 1", result.Stats.FilesModified)
	}
	if result.Stats.EditsApplied == 0 {
		t.Error("EditsApplied = 0, want edits")
	}

	content, err := os.ReadFile(filepath.Join(dir, "Client.luau"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(content) != formatted {
		t.Errorf("content = %q, want %q", content, formatted)
	}
}

func TestRunner_Run_DryRunDoesNotWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"Client.luau": unformatted})

	cfg := config.NewConfig()
	cfg.DryRun = true

	result, err := newRunner().Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Write:      true,
		Config:     cfg,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	outcome := result.Files[0]
	if outcome.Result == nil || outcome.Result.Diff == nil {
		t.Fatal("dry run should produce a diff")
	}
	if !strings.Contains(outcome.Result.Diff.String(), "+local Players = game:GetService('Players');") {
		t.Errorf("diff missing formatted line:\n%s", outcome.Result.Diff.String())
	}

	content, _ := os.ReadFile(filepath.Join(dir, "Client.luau"))
	if string(content) != unformatted {
		t.Error("dry run must not write")
	}
}

func TestRunner_Run_SerialVsParallelConsistency(t *testing.T) {
	t.Parallel()

	files := make(map[string]string)
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		files["src/"+name+".luau"] = unformatted
	}

	run := func(jobs int) *runner.Result {
		dir := t.TempDir()
		writeTree(t, dir, files)
		result, err := newRunner().Run(context.Background(), runner.Options{
			WorkingDir: dir,
			Jobs:       jobs,
			Config:     config.NewConfig(),
		})
		if err != nil {
			t.Fatalf("Run(jobs=%d) error = %v", jobs, err)
		}
		return result
	}

	serial := run(1)
	parallel := run(4)

	if serial.Stats.FindingsTotal != parallel.Stats.FindingsTotal {
		t.Errorf("findings serial=%d parallel=%d", serial.Stats.FindingsTotal, parallel.Stats.FindingsTotal)
	}
	if len(serial.Files) != len(parallel.Files) {
		t.Fatalf("outcomes serial=%d parallel=%d", len(serial.Files), len(parallel.Files))
	}
	for idx := range serial.Files {
		if filepath.Base(serial.Files[idx].Path) != filepath.Base(parallel.Files[idx].Path) {
			t.Errorf("order differs at %d: %s vs %s", idx, serial.Files[idx].Path, parallel.Files[idx].Path)
		}
	}
}

func TestRunner_Run_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.luau": unformatted})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner().Run(ctx, runner.Options{WorkingDir: dir, Config: config.NewConfig()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestResult_NilSafe(t *testing.T) {
	t.Parallel()

	var result *runner.Result
	if result.HasChanges() || result.HasErrors() {
		t.Error("nil result should report nothing")
	}
}

func TestResult_HasErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stats runner.Stats
		want  bool
	}{
		{name: "clean", stats: runner.Stats{FilesProcessed: 3}, want: false},
		{name: "errored", stats: runner.Stats{FilesErrored: 1}, want: true},
		{name: "conflicted", stats: runner.Stats{FilesConflicted: 1}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := &runner.Result{Stats: tt.stats}
			if got := result.HasErrors(); got != tt.want {
				t.Errorf("HasErrors() = %v, want %v", got, tt.want)
			}
		})
	}
}
