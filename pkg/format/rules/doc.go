// Package rules implements the built-in luaufmt formatting rules.
//
// Rules:
//   - LF001 service-accessors: hoists, normalizes and optionally dedupes
//     `local X = game:GetService('Y')` declarations.
//   - LF002 fontface-collapse: joins a multi-line `FontFace = Font.new(`
//     call onto the line that opens it.
package rules

// Note is one planned change, reported as a finding by the rule wrapper.
type Note struct {
	// Line is the zero-based line the change applies to.
	Line int

	// Message describes the change.
	Message string
}
