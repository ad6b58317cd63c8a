package format

import (
	"context"
	"fmt"

	"github.com/yaklabco/luaufmt/pkg/config"
	"github.com/yaklabco/luaufmt/pkg/document"
	"github.com/yaklabco/luaufmt/pkg/fix"
)

// Result contains the outcome of running every enabled rule on one document.
type Result struct {
	// Document is the snapshot the rules ran against.
	Document *document.Document

	// Findings describes each planned change.
	Findings []Finding

	// Plan is the combined plan of all rules, in rule order.
	Plan fix.Plan

	// Edits contains the validated, sorted byte edits for Plan.
	// Empty when nothing changes or when the plan conflicts.
	Edits []fix.TextEdit

	// Conflict is set when the combined plan cannot be applied as one
	// transaction. No edit is applied in that case.
	Conflict error

	// RuleErrors contains any errors from rule execution.
	RuleErrors map[string]error
}

// HasChanges returns true if applying the result changes the document.
func (r *Result) HasChanges() bool {
	return len(r.Edits) > 0
}

// Apply returns the document content with every edit applied.
func (r *Result) Apply() []byte {
	return fix.ApplyEdits(r.Document.Content, r.Edits)
}

// Engine runs formatting rules and combines their plans.
type Engine struct {
	// Registry holds all available rules.
	Registry *Registry
}

// NewEngine creates a new Engine with the given registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{Registry: registry}
}

// FormatContent builds a document from content and formats it.
func (e *Engine) FormatContent(
	ctx context.Context,
	path string,
	content []byte,
	cfg *config.Config,
) (*Result, error) {
	return e.Format(ctx, document.New(path, content), cfg)
}

// Format runs every enabled rule against doc and prepares the combined plan.
func (e *Engine) Format(ctx context.Context, doc *document.Document, cfg *config.Config) (*Result, error) {
	result := &Result{
		Document:   doc,
		RuleErrors: make(map[string]error),
	}

	for _, rr := range ResolveRules(e.Registry, cfg) {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("formatting cancelled: %w", ctx.Err())
		default:
		}

		ruleCtx := NewRuleContext(ctx, doc, cfg, rr.Config)

		findings, err := rr.Rule.Apply(ruleCtx)
		if err != nil {
			result.RuleErrors[rr.Rule.ID()] = err
			continue
		}

		for idx := range findings {
			if findings[idx].Path == "" {
				findings[idx].Path = doc.Path
			}
			if findings[idx].RuleName == "" {
				findings[idx].RuleName = rr.Rule.Name()
			}
		}

		result.Findings = append(result.Findings, findings...)
		result.Plan.Append(*ruleCtx.Plan)
	}

	if result.Plan.IsEmpty() {
		return result, nil
	}

	edits, err := fix.Resolve(doc, result.Plan)
	if err == nil {
		edits, err = fix.PrepareEdits(edits, len(doc.Content))
	}
	if err != nil {
		result.Conflict = err
		return result, nil
	}
	result.Edits = edits

	return result, nil
}
