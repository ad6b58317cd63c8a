package fix

import (
	"fmt"

	"github.com/yaklabco/luaufmt/pkg/document"
)

// PositionError describes an edit position the document cannot address.
type PositionError struct {
	Position Position
	Message  string
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("invalid position %s: %s", e.Position, e.Message)
}

// Resolve converts a Plan into byte-range edits against doc, in the order
// their text appears in the result. A position on the line past the last one
// addresses the end of the document.
func Resolve(doc *document.Document, plan Plan) ([]TextEdit, error) {
	if plan.IsEmpty() {
		return nil, nil
	}

	edits := make([]TextEdit, 0, plan.Len())
	for _, edit := range plan.Ordered() {
		start, err := offsetOf(doc, edit.Range.Start)
		if err != nil {
			return nil, err
		}
		end, err := offsetOf(doc, edit.Range.End)
		if err != nil {
			return nil, err
		}

		text := edit.NewText
		if edit.Kind == EditDelete {
			text = ""
		}
		edits = append(edits, TextEdit{StartOffset: start, EndOffset: end, NewText: text})
	}

	return edits, nil
}

func offsetOf(doc *document.Document, pos Position) (int, error) {
	if pos.Line < 0 || pos.Column < 0 {
		return 0, &PositionError{Position: pos, Message: "negative coordinate"}
	}
	if pos.Line >= doc.LineCount() {
		return len(doc.Content), nil
	}

	offset, ok := doc.Offset(pos.Line, pos.Column)
	if !ok {
		return 0, &PositionError{Position: pos, Message: "column is past the end of the line"}
	}
	return offset, nil
}

// Apply resolves, validates and applies a plan to doc as one transaction.
// Either every edit applies or none does.
func Apply(doc *document.Document, plan Plan) ([]byte, error) {
	edits, err := Resolve(doc, plan)
	if err != nil {
		return nil, err
	}

	prepared, err := PrepareEdits(edits, len(doc.Content))
	if err != nil {
		return nil, err
	}

	return ApplyEdits(doc.Content, prepared), nil
}
