// Package format provides the rule engine, findings, and registry for luaufmt.
package format

import "fmt"

// Finding describes one change a rule plans to make.
type Finding struct {
	// RuleID is the identifier of the rule that produced this finding.
	RuleID string `json:"rule_id"`

	// RuleName is the human-readable name of the rule.
	RuleName string `json:"rule_name"`

	// Path is the file the finding belongs to.
	Path string `json:"path"`

	// Line is the 1-based line number the change starts on.
	Line int `json:"line"`

	// Message is the human-readable description of the change.
	Message string `json:"message"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s:%d: %s (%s)", f.Path, f.Line, f.Message, f.RuleName)
}

// Rule defines the interface that all formatting rules implement.
type Rule interface {
	// ID returns the unique identifier for this rule (e.g., "LF001").
	ID() string

	// Name returns the human-readable name of the rule.
	Name() string

	// Description returns a detailed description of what the rule rewrites.
	Description() string

	// DefaultEnabled returns whether the rule runs without configuration.
	DefaultEnabled() bool

	// DefaultOptions returns the options the rule reads and their defaults.
	DefaultOptions() map[string]any

	// Apply adds the rule's edits to ctx.Plan and returns a finding per change.
	//
	// Rules must:
	//   - Express edits in original-document coordinates.
	//   - Skip any span they cannot interpret instead of failing.
	//   - Return error only for internal failures.
	Apply(ctx *RuleContext) ([]Finding, error)
}

// BaseRule provides the metadata half of the Rule interface.
// Embed it in rule implementations and add Apply.
type BaseRule struct {
	id      string
	name    string
	desc    string
	options map[string]any
}

// NewBaseRule creates a BaseRule with the given properties.
func NewBaseRule(id, name, desc string, options map[string]any) BaseRule {
	return BaseRule{id: id, name: name, desc: desc, options: options}
}

// ID returns the unique identifier for this rule.
func (r *BaseRule) ID() string { return r.id }

// Name returns the human-readable name of the rule.
func (r *BaseRule) Name() string { return r.name }

// Description returns a detailed description of what the rule rewrites.
func (r *BaseRule) Description() string { return r.desc }

// DefaultEnabled returns true; override to ship a rule disabled.
func (r *BaseRule) DefaultEnabled() bool { return true }

// DefaultOptions returns the documented rule options.
func (r *BaseRule) DefaultOptions() map[string]any { return r.options }

// Finding builds a finding attributed to this rule.
func (r *BaseRule) Finding(ctx *RuleContext, lineIndex int, message string) Finding {
	return Finding{
		RuleID:   r.id,
		RuleName: r.name,
		Path:     ctx.Doc.Path,
		Line:     lineIndex + 1,
		Message:  message,
	}
}
