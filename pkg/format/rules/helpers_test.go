package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/luaufmt/pkg/config"
	"github.com/yaklabco/luaufmt/pkg/document"
	"github.com/yaklabco/luaufmt/pkg/fix"
	"github.com/yaklabco/luaufmt/pkg/format"
)

// applyPlan applies a plan to its document and returns the new text.
func applyPlan(t *testing.T, doc *document.Document, plan fix.Plan) string {
	t.Helper()

	out, err := fix.Apply(doc, plan)
	require.NoError(t, err)
	return string(out)
}

// runRule runs one rule against input with optional rule options.
func runRule(t *testing.T, rule format.Rule, input string, options map[string]any) ([]format.Finding, string) {
	t.Helper()

	doc := document.FromString("test.lua", input)
	var ruleCfg *config.RuleConfig
	if options != nil {
		ruleCfg = &config.RuleConfig{Options: options}
	}
	ruleCtx := format.NewRuleContext(context.Background(), doc, config.NewConfig(), ruleCfg)

	findings, err := rule.Apply(ruleCtx)
	require.NoError(t, err)
	return findings, applyPlan(t, doc, *ruleCtx.Plan)
}

func newTestEngine() *format.Engine {
	registry := format.NewRegistry()
	RegisterAll(registry)
	return format.NewEngine(registry)
}
