// Package fix describes source edits and applies them as one transaction.
//
// Rules express their output as a Plan of line/column edits against the
// original document. Resolve turns a Plan into byte-range TextEdits, and
// Apply writes them in a single pass so no edit observes another.
package fix

import "fmt"

// Position is a zero-based line and byte column in the original document.
type Position struct {
	Line   int
	Column int
}

// Pos is shorthand for building a Position.
func Pos(line, column int) Position {
	return Position{Line: line, Column: column}
}

// Before reports whether p sorts strictly before other.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Range is a half-open span [Start, End) of the original document.
type Range struct {
	Start Position
	End   Position
}

// IsEmpty reports whether the range covers no text.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

func (r Range) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// EditKind identifies what an Edit does.
type EditKind int

const (
	// EditReplace swaps the text of a range.
	EditReplace EditKind = iota

	// EditDelete removes the text of a range.
	EditDelete

	// EditInsert adds text at a position.
	EditInsert
)

func (k EditKind) String() string {
	switch k {
	case EditReplace:
		return "replace"
	case EditDelete:
		return "delete"
	case EditInsert:
		return "insert"
	default:
		return "unknown"
	}
}

// Edit is a single operation in original-document coordinates.
type Edit struct {
	Kind    EditKind
	Range   Range
	NewText string
}

// TextEdit represents a single text replacement in a file.
type TextEdit struct {
	// StartOffset is the byte index where the edit begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the edit ends (exclusive).
	EndOffset int

	// NewText is the replacement text.
	NewText string
}

// IsInsert reports whether the edit covers no original bytes.
func (e TextEdit) IsInsert() bool {
	return e.StartOffset == e.EndOffset
}
