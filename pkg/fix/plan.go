package fix

import "slices"

// Plan is an ordered batch of edits computed from one document snapshot.
//
// Inserts that share a position stack: an insert added later lands ahead of
// the inserts already placed at that position. Emitting inserts for lines in
// descending order therefore leaves them in ascending order in the result.
type Plan struct {
	Edits []Edit
}

// Replace adds an edit that swaps the text of r for text.
func (p *Plan) Replace(r Range, text string) {
	p.Edits = append(p.Edits, Edit{Kind: EditReplace, Range: r, NewText: text})
}

// Delete adds an edit that removes the text of r.
func (p *Plan) Delete(r Range) {
	p.Edits = append(p.Edits, Edit{Kind: EditDelete, Range: r})
}

// Insert adds an edit that places text at pos.
func (p *Plan) Insert(pos Position, text string) {
	p.Edits = append(p.Edits, Edit{Kind: EditInsert, Range: Range{Start: pos, End: pos}, NewText: text})
}

// Append adds every edit of other after the edits of p.
func (p *Plan) Append(other Plan) {
	p.Edits = append(p.Edits, other.Edits...)
}

// Len returns the number of edits.
func (p Plan) Len() int {
	return len(p.Edits)
}

// IsEmpty reports whether the plan has no edits.
func (p Plan) IsEmpty() bool {
	return len(p.Edits) == 0
}

// Ordered returns the edits sorted into the order their text appears in the
// result. Edits at the same start keep inserts ahead of ranged edits, and
// same-position inserts are reversed so the latest one comes first.
func (p Plan) Ordered() []Edit {
	type indexed struct {
		edit  Edit
		index int
	}

	items := make([]indexed, len(p.Edits))
	for i, edit := range p.Edits {
		items[i] = indexed{edit: edit, index: i}
	}

	slices.SortStableFunc(items, func(a, b indexed) int {
		if a.edit.Range.Start != b.edit.Range.Start {
			if a.edit.Range.Start.Before(b.edit.Range.Start) {
				return -1
			}
			return 1
		}

		aInsert, bInsert := a.edit.Range.IsEmpty(), b.edit.Range.IsEmpty()
		switch {
		case aInsert && bInsert:
			return b.index - a.index
		case aInsert:
			return -1
		case bInsert:
			return 1
		}

		if a.edit.Range.End.Before(b.edit.Range.End) {
			return -1
		}
		if b.edit.Range.End.Before(a.edit.Range.End) {
			return 1
		}
		return 0
	})

	ordered := make([]Edit, len(items))
	for i, item := range items {
		ordered[i] = item.edit
	}
	return ordered
}
