package fix_test

import (
	"errors"
	"testing"

	"github.com/yaklabco/luaufmt/pkg/document"
	"github.com/yaklabco/luaufmt/pkg/fix"
)

func TestPlan_OrderedStacksInserts(t *testing.T) {
	t.Parallel()

	var plan fix.Plan
	plan.Delete(fix.Range{Start: fix.Pos(4, 0), End: fix.Pos(5, 0)})
	plan.Insert(fix.Pos(1, 0), "third")
	plan.Insert(fix.Pos(1, 0), "second")
	plan.Replace(fix.Range{Start: fix.Pos(1, 0), End: fix.Pos(1, 3)}, "R")
	plan.Insert(fix.Pos(1, 0), "first")

	got := plan.Ordered()
	want := []string{"first", "second", "third", "R", ""}
	if len(got) != len(want) {
		t.Fatalf("Ordered() returned %d edits, want %d", len(got), len(want))
	}
	for i, edit := range got {
		if edit.NewText != want[i] {
			t.Errorf("Ordered()[%d] = %q, want %q", i, edit.NewText, want[i])
		}
	}
}

func TestApply_DescendingInsertsLandInSourceOrder(t *testing.T) {
	t.Parallel()

	doc := document.FromString("x.lua", "top\nmid\n")

	var plan fix.Plan
	plan.Insert(fix.Pos(1, 0), "c\n")
	plan.Insert(fix.Pos(1, 0), "b\n")
	plan.Insert(fix.Pos(1, 0), "a\n")

	got, err := fix.Apply(doc, plan)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if want := "top\na\nb\nc\nmid\n"; string(got) != want {
		t.Errorf("Apply() = %q, want %q", got, want)
	}
}

func TestApply_PositionPastLastLineIsDocumentEnd(t *testing.T) {
	t.Parallel()

	doc := document.FromString("x.lua", "a\nb\nc")

	var plan fix.Plan
	plan.Delete(fix.Range{Start: fix.Pos(1, 0), End: fix.Pos(4, 0)})

	got, err := fix.Apply(doc, plan)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if string(got) != "a\n" {
		t.Errorf("Apply() = %q, want %q", got, "a\n")
	}
}

func TestApply_ConflictAppliesNothing(t *testing.T) {
	t.Parallel()

	doc := document.FromString("x.lua", "abcdef\n")

	var plan fix.Plan
	plan.Delete(fix.Range{Start: fix.Pos(0, 0), End: fix.Pos(0, 4)})
	plan.Replace(fix.Range{Start: fix.Pos(0, 2), End: fix.Pos(0, 6)}, "x")

	got, err := fix.Apply(doc, plan)
	var conflictErr *fix.ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("Apply() error = %v, want ConflictError", err)
	}
	if got != nil {
		t.Errorf("Apply() returned content on conflict: %q", got)
	}
}

func TestResolve_BadColumn(t *testing.T) {
	t.Parallel()

	doc := document.FromString("x.lua", "ab\n")

	var plan fix.Plan
	plan.Insert(fix.Pos(0, 9), "x")

	_, err := fix.Resolve(doc, plan)
	var posErr *fix.PositionError
	if !errors.As(err, &posErr) {
		t.Fatalf("Resolve() error = %v, want PositionError", err)
	}
}
