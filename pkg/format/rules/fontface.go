package rules

import (
	"strings"

	"github.com/yaklabco/luaufmt/pkg/document"
	"github.com/yaklabco/luaufmt/pkg/fix"
	"github.com/yaklabco/luaufmt/pkg/format"
	"github.com/yaklabco/luaufmt/pkg/luau"
)

// fontFaceWindow is how many lines after the marker may hold the closing paren.
const fontFaceWindow = 4

// FontFaceRule joins multi-line Font.new calls assigned to FontFace.
type FontFaceRule struct {
	format.BaseRule
}

// NewFontFaceRule creates the LF002 rule.
func NewFontFaceRule() *FontFaceRule {
	return &FontFaceRule{
		BaseRule: format.NewBaseRule(
			"LF002",
			"fontface-collapse",
			"A FontFace = Font.new( call spread over up to four lines is joined onto its opening line",
			nil,
		),
	}
}

// Apply plans the collapse edits for the document.
func (r *FontFaceRule) Apply(ctx *format.RuleContext) ([]format.Finding, error) {
	plan, notes := CollapseFontFace(ctx.Doc)
	ctx.Plan.Append(plan)

	findings := make([]format.Finding, 0, len(notes))
	for _, note := range notes {
		findings = append(findings, r.Finding(ctx, note.Line, note.Message))
	}
	return findings, nil
}

// CollapseFontFace plans one delete and one insert per marker line whose
// closing paren appears within the window. The parameter lines and the
// closing line are removed, and the trimmed parameters are appended to the
// marker line followed by "),".
func CollapseFontFace(doc *document.Document) (fix.Plan, []Note) {
	var plan fix.Plan
	var notes []Note

	texts := doc.Texts()

	for idx := 0; idx < len(texts); idx++ {
		if !luau.IsFontFaceMarker(texts[idx]) {
			continue
		}

		params, closing := collectParams(texts, idx)
		if closing < 0 || len(params) == 0 {
			continue
		}

		first, last := params[0], params[len(params)-1]
		plan.Delete(fix.Range{Start: fix.Pos(first, 0), End: fix.Pos(last+2, 0)})

		parts := make([]string, len(params))
		for i, param := range params {
			parts[i] = strings.TrimSpace(texts[param])
		}
		marker := doc.Lines[idx]
		plan.Insert(fix.Pos(idx, len(marker.Content())), strings.Join(parts, " ")+"),")

		notes = append(notes, Note{Line: idx, Message: "collapse Font.new call onto one line"})
		idx = closing
	}

	return plan, notes
}

// collectParams returns the parameter lines after the marker at idx and the
// index of the closing line, or -1 when the window holds no closing paren.
func collectParams(texts []string, idx int) ([]int, int) {
	var params []int
	for line := idx + 1; line <= idx+fontFaceWindow && line < len(texts); line++ {
		if luau.HasClosingParen(texts[line]) {
			return params, line
		}
		params = append(params, line)
	}
	return nil, -1
}
