package fix

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// ValidationError reports an edit whose byte range the content cannot hold.
type ValidationError struct {
	Edit    TextEdit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.StartOffset, e.Edit.EndOffset, e.Message)
}

// ConflictError reports two edits that rewrite the same bytes. A formatter
// pass that produces one leaves the file untouched.
type ConflictError struct {
	Edit1 TextEdit
	Edit2 TextEdit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.Edit1.StartOffset, e.Edit1.EndOffset,
		e.Edit2.StartOffset, e.Edit2.EndOffset)
}

// ValidateEdits returns the first edit that does not fit inside content of
// length contentLen.
func ValidateEdits(edits []TextEdit, contentLen int) error {
	for _, edit := range edits {
		var msg string
		switch {
		case edit.StartOffset < 0:
			msg = "start offset is negative"
		case edit.EndOffset < edit.StartOffset:
			msg = "end offset is before start offset"
		case edit.EndOffset > contentLen:
			msg = fmt.Sprintf("end offset %d exceeds content length %d", edit.EndOffset, contentLen)
		default:
			continue
		}
		return &ValidationError{Edit: edit, Message: msg}
	}
	return nil
}

// SortEdits orders edits by start then end offset. Inserts sharing an offset
// keep the order they were planned in.
func SortEdits(edits []TextEdit) {
	slices.SortStableFunc(edits, func(a, b TextEdit) int {
		return cmp.Or(cmp.Compare(a.StartOffset, b.StartOffset), cmp.Compare(a.EndOffset, b.EndOffset))
	})
}

// DetectConflicts returns the first overlap in sorted edits. Touching ranges
// do not overlap, so an insert at either end of a replacement is allowed.
func DetectConflicts(edits []TextEdit) error {
	for i := 1; i < len(edits); i++ {
		if edits[i].StartOffset < edits[i-1].EndOffset {
			return &ConflictError{Edit1: edits[i-1], Edit2: edits[i]}
		}
	}
	return nil
}

// PrepareEdits returns a sorted copy of edits after checking that every
// range is valid and no two overlap.
func PrepareEdits(edits []TextEdit, contentLen int) ([]TextEdit, error) {
	if len(edits) == 0 {
		return edits, nil
	}
	if err := ValidateEdits(edits, contentLen); err != nil {
		return nil, err
	}

	sorted := slices.Clone(edits)
	SortEdits(sorted)
	if err := DetectConflicts(sorted); err != nil {
		return nil, err
	}
	return sorted, nil
}

// ApplyEdits writes prepared edits into content in one pass. Offsets always
// refer to the original content.
func ApplyEdits(content []byte, edits []TextEdit) []byte {
	if len(edits) == 0 {
		return content
	}

	size := len(content)
	for _, edit := range edits {
		size += len(edit.NewText) - (edit.EndOffset - edit.StartOffset)
	}

	var out strings.Builder
	out.Grow(size)
	last := 0
	for _, edit := range edits {
		out.Write(content[last:edit.StartOffset])
		out.WriteString(edit.NewText)
		last = edit.EndOffset
	}
	out.Write(content[last:])

	return []byte(out.String())
}
