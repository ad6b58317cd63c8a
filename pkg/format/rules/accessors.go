package rules

import (
	"fmt"
	"strings"

	"github.com/yaklabco/luaufmt/pkg/document"
	"github.com/yaklabco/luaufmt/pkg/fix"
	"github.com/yaklabco/luaufmt/pkg/format"
	"github.com/yaklabco/luaufmt/pkg/luau"
)

// OptionDedupe drops detached accessors that repeat an earlier declaration.
const OptionDedupe = "dedupe"

// ServiceAccessorRule keeps every service accessor in one block directly
// below the first one.
type ServiceAccessorRule struct {
	format.BaseRule
}

// NewServiceAccessorRule creates the LF001 rule.
func NewServiceAccessorRule() *ServiceAccessorRule {
	return &ServiceAccessorRule{
		BaseRule: format.NewBaseRule(
			"LF001",
			"service-accessors",
			"Service accessors are grouped directly below the first one, use single quotes and end with a semicolon",
			map[string]any{OptionDedupe: false},
		),
	}
}

// Apply plans the accessor edits for the document.
func (r *ServiceAccessorRule) Apply(ctx *format.RuleContext) ([]format.Finding, error) {
	plan, notes := NormalizeAccessors(ctx.Doc, ctx.OptionBool(OptionDedupe, false))
	ctx.Plan.Append(plan)

	findings := make([]format.Finding, 0, len(notes))
	for _, note := range notes {
		findings = append(findings, r.Finding(ctx, note.Line, note.Message))
	}
	return findings, nil
}

type accessorLine struct {
	luau.Accessor

	index    int
	text     string
	attached bool
	dropped  bool
}

func (a accessorLine) key() string {
	return a.Variable + "\x00" + a.Service
}

// NormalizeAccessors plans the edits that move every service accessor into
// the unbroken run below the first one. Lines in that run that are not
// formatted are rewritten in place; the others are deleted and reinserted
// directly below the first accessor in their original order. With dedupe,
// a moved accessor that repeats an existing variable and service is only
// deleted.
func NormalizeAccessors(doc *document.Document, dedupe bool) (fix.Plan, []Note) {
	var plan fix.Plan
	var notes []Note

	texts := doc.Texts()

	canonical, found := 0, false
	var others []accessorLine
	seen := make(map[string]bool)

	for idx, text := range texts {
		acc, ok := luau.MatchServiceAccessor(text)
		if !ok {
			continue
		}
		line := accessorLine{Accessor: acc, index: idx, text: text}
		if !found {
			canonical, found = idx, true
			seen[line.key()] = true
			continue
		}
		line.attached = luau.IsAttachedTo(texts, idx, canonical)
		if line.attached {
			seen[line.key()] = true
		}
		others = append(others, line)
	}
	if !found {
		return plan, nil
	}

	if dedupe {
		for i := range others {
			if others[i].attached {
				continue
			}
			if seen[others[i].key()] {
				others[i].dropped = true
				continue
			}
			seen[others[i].key()] = true
		}
	}

	if text := texts[canonical]; !luau.IsFormatted(text) {
		plan.Replace(contentRange(doc, canonical), normalizedContent(text))
		notes = append(notes, Note{Line: canonical, Message: "normalize service accessor " + describe(doc, canonical)})
	}

	for _, line := range others {
		if line.attached {
			continue
		}
		plan.Delete(wholeLineRange(doc, line.index))
		message := fmt.Sprintf("move service accessor %s below line %d", line.Variable, canonical+1)
		if line.dropped {
			message = fmt.Sprintf("remove duplicate service accessor %s", line.Variable)
		}
		notes = append(notes, Note{Line: line.index, Message: message})
	}

	anchor := fix.Pos(canonical+1, 0)
	for i := len(others) - 1; i >= 0; i-- {
		line := others[i]
		switch {
		case line.attached && !luau.IsFormatted(line.text):
			plan.Replace(contentRange(doc, line.index), normalizedContent(line.text))
			notes = append(notes, Note{Line: line.index, Message: "normalize service accessor " + line.Variable})
		case !line.attached && !line.dropped:
			plan.Insert(anchor, normalizedContent(line.text)+doc.EOL)
		}
	}

	return plan, notes
}

// contentRange covers a line without its terminator.
func contentRange(doc *document.Document, index int) fix.Range {
	line := doc.Lines[index]
	return fix.Range{
		Start: fix.Pos(index, 0),
		End:   fix.Pos(index, len(line.Content())),
	}
}

// wholeLineRange covers a line and its terminator, or the line text alone
// when it is the last line.
func wholeLineRange(doc *document.Document, index int) fix.Range {
	if index == doc.LineCount()-1 {
		return fix.Range{Start: fix.Pos(index, 0), End: fix.Pos(index, len(doc.Lines[index].Text))}
	}
	return fix.Range{Start: fix.Pos(index, 0), End: fix.Pos(index+1, 0)}
}

// normalizedContent is the normalized accessor text without its '\r'.
// Replacements keep the line's own terminator and inserts add the document's.
func normalizedContent(text string) string {
	return strings.TrimSuffix(luau.NormalizeAccessorText(text), "\r")
}

func describe(doc *document.Document, index int) string {
	if acc, ok := luau.MatchServiceAccessor(doc.Lines[index].Text); ok {
		return acc.Variable
	}
	return ""
}
