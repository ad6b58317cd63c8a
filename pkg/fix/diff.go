package fix

import (
	"fmt"
	"strings"
)

// contextLines is the number of unchanged lines shown around a change.
const contextLines = 3

// DiffLineKind indicates the type of diff line.
type DiffLineKind int

const (
	// DiffLineContext is an unchanged line.
	DiffLineContext DiffLineKind = iota

	// DiffLineAdd is a line only present after formatting.
	DiffLineAdd

	// DiffLineRemove is a line only present before formatting.
	DiffLineRemove
)

// Prefix returns the unified-diff marker for the kind.
func (k DiffLineKind) Prefix() string {
	switch k {
	case DiffLineAdd:
		return "+"
	case DiffLineRemove:
		return "-"
	default:
		return " "
	}
}

// DiffLine is a single line of a hunk.
type DiffLine struct {
	Kind    DiffLineKind
	Content string
}

// DiffHunk is one "@@" section of a unified diff. Starts are 1-based.
type DiffHunk struct {
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int
	Lines         []DiffLine
}

// Diff is a unified diff of a file before and after formatting.
type Diff struct {
	Path      string
	Hunks     []DiffHunk
	Additions int
	Deletions int
}

// GenerateDiff compares two versions of a file line by line.
// A trailing '\r' is not part of the compared text, so a file that only
// differs in line terminators yields no diff.
// Returns nil when nothing changed.
func GenerateDiff(path string, original, modified []byte) *Diff {
	before := diffLines(original)
	after := diffLines(modified)

	ops := lineOps(before, after)

	diff := &Diff{Path: path}
	for _, op := range ops {
		switch op.kind {
		case DiffLineAdd:
			diff.Additions++
		case DiffLineRemove:
			diff.Deletions++
		}
	}
	if diff.Additions == 0 && diff.Deletions == 0 {
		return nil
	}

	diff.Hunks = groupHunks(ops)
	return diff
}

// HasChanges returns true if the diff contains any changes.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// String renders the diff in unified format.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var builder strings.Builder
	fmt.Fprintf(&builder, "--- a/%s\n+++ b/%s\n", path, path)
	for _, hunk := range d.Hunks {
		fmt.Fprintf(&builder, "@@ -%d,%d +%d,%d @@\n",
			hunk.OriginalStart, hunk.OriginalCount, hunk.ModifiedStart, hunk.ModifiedCount)
		for _, line := range hunk.Lines {
			builder.WriteString(line.Kind.Prefix())
			builder.WriteString(line.Content)
			builder.WriteByte('\n')
		}
	}
	return builder.String()
}

func diffLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

type lineOp struct {
	kind    DiffLineKind
	content string
	before  int
	after   int
}

// lineOps walks a longest-common-subsequence table from the front and emits
// removals ahead of additions at each divergence.
func lineOps(before, after []string) []lineOp {
	rows, cols := len(before), len(after)

	// suffix[i][j] is the LCS length of before[i:] and after[j:].
	suffix := make([][]int, rows+1)
	for i := range suffix {
		suffix[i] = make([]int, cols+1)
	}
	for i := rows - 1; i >= 0; i-- {
		for j := cols - 1; j >= 0; j-- {
			if before[i] == after[j] {
				suffix[i][j] = suffix[i+1][j+1] + 1
			} else {
				suffix[i][j] = max(suffix[i+1][j], suffix[i][j+1])
			}
		}
	}

	ops := make([]lineOp, 0, rows+cols)
	i, j := 0, 0
	for i < rows || j < cols {
		switch {
		case i < rows && j < cols && before[i] == after[j]:
			ops = append(ops, lineOp{kind: DiffLineContext, content: before[i], before: i, after: j})
			i++
			j++
		case j == cols || (i < rows && suffix[i+1][j] >= suffix[i][j+1]):
			ops = append(ops, lineOp{kind: DiffLineRemove, content: before[i], before: i, after: j})
			i++
		default:
			ops = append(ops, lineOp{kind: DiffLineAdd, content: after[j], before: i, after: j})
			j++
		}
	}
	return ops
}

func groupHunks(ops []lineOp) []DiffHunk {
	var hunks []DiffHunk

	idx := 0
	for idx < len(ops) {
		if ops[idx].kind == DiffLineContext {
			idx++
			continue
		}

		start := max(idx-contextLines, 0)
		end := idx
		for end < len(ops) {
			if ops[end].kind != DiffLineContext {
				end++
				continue
			}
			run := end
			for run < len(ops) && ops[run].kind == DiffLineContext {
				run++
			}
			if run == len(ops) || run-end > 2*contextLines {
				end = min(end+contextLines, len(ops))
				break
			}
			end = run
		}

		hunks = append(hunks, buildHunk(ops[start:end]))
		idx = end
	}

	return hunks
}

func buildHunk(ops []lineOp) DiffHunk {
	hunk := DiffHunk{
		OriginalStart: ops[0].before + 1,
		ModifiedStart: ops[0].after + 1,
		Lines:         make([]DiffLine, 0, len(ops)),
	}
	for _, op := range ops {
		hunk.Lines = append(hunk.Lines, DiffLine{Kind: op.kind, Content: op.content})
		if op.kind != DiffLineAdd {
			hunk.OriginalCount++
		}
		if op.kind != DiffLineRemove {
			hunk.ModifiedCount++
		}
	}
	return hunk
}
