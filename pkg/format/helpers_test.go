package format_test

import (
	"errors"
	"strings"

	"github.com/yaklabco/luaufmt/pkg/fix"
	"github.com/yaklabco/luaufmt/pkg/format"
)

const (
	testRuleID1 = "LF901"
	testRuleID2 = "LF902"

	headerLine = "--!strict"
)

// testRule is a rule that plans nothing.
type testRule struct {
	format.BaseRule
}

func newTestRule(id string) *testRule {
	return &testRule{BaseRule: format.NewBaseRule(id, id+"-name", "", nil)}
}

func (r *testRule) Apply(*format.RuleContext) ([]format.Finding, error) {
	return nil, nil
}

// headerRule inserts a --!strict line at the top of documents that lack one.
type headerRule struct {
	format.BaseRule
}

func newHeaderRule() *headerRule {
	return &headerRule{BaseRule: format.NewBaseRule(testRuleID1, "strict-header", "Adds --!strict", nil)}
}

func (r *headerRule) Apply(ctx *format.RuleContext) ([]format.Finding, error) {
	if strings.HasPrefix(ctx.Doc.Lines[0].Text, headerLine) {
		return nil, nil
	}
	ctx.Plan.Insert(fix.Pos(0, 0), headerLine+ctx.Doc.EOL)
	return []format.Finding{r.Finding(ctx, 0, "add strict header")}, nil
}

// clearRule deletes the whole document, which overlaps any other edit.
type clearRule struct {
	format.BaseRule
}

func newClearRule() *clearRule {
	return &clearRule{BaseRule: format.NewBaseRule(testRuleID2, "clear", "", nil)}
}

func (r *clearRule) Apply(ctx *format.RuleContext) ([]format.Finding, error) {
	line, col := ctx.Doc.EndPosition()
	if line == 0 && col == 0 {
		return nil, nil
	}
	ctx.Plan.Delete(fix.Range{Start: fix.Pos(0, 0), End: fix.Pos(line, col)})
	ctx.Plan.Insert(fix.Pos(0, 1), "x")
	return []format.Finding{r.Finding(ctx, 0, "clear")}, nil
}

var errBroken = errors.New("broken rule")

// brokenRule always fails.
type brokenRule struct {
	format.BaseRule
}

func newBrokenRule() *brokenRule {
	return &brokenRule{BaseRule: format.NewBaseRule(testRuleID2, "broken", "", nil)}
}

func (r *brokenRule) Apply(*format.RuleContext) ([]format.Finding, error) {
	return nil, errBroken
}
