// Package document holds the line model that every rule and helper reads.
//
// A Document is split on '\n' the same way an editor exposes its lines: a
// trailing '\r' stays on the line text, and content that ends with '\n' has a
// final empty line.
package document

import (
	"strings"
	"unicode/utf8"
)

const (
	// LF is the Unix line terminator.
	LF = "\n"

	// CRLF is the Windows line terminator used by most Roblox Studio exports.
	CRLF = "\r\n"
)

// Line is a single line of a Document.
type Line struct {
	// Index is the zero-based line number.
	Index int

	// Text is the raw line text without the '\n' separator.
	// It keeps a trailing '\r' when the line ended in CRLF.
	Text string

	// Start is the byte offset of the first byte of the line.
	Start int

	// ContentEnd is the byte offset just past the content, before any trailing '\r'.
	ContentEnd int

	// End is the byte offset of the next line's start,
	// or the end of the content for the last line.
	End int
}

// Content returns the line text without a trailing '\r'.
func (l Line) Content() string {
	return strings.TrimSuffix(l.Text, "\r")
}

// HasCR reports whether the line text keeps a trailing '\r'.
func (l Line) HasCR() bool {
	return strings.HasSuffix(l.Text, "\r")
}

// Document is an immutable snapshot of a script file.
type Document struct {
	// Path is the file path or URI the content came from. May be empty.
	Path string

	// Content is the raw file content.
	Content []byte

	// Lines are the lines of Content. There is always at least one.
	Lines []Line

	// EOL is the line terminator new lines should use.
	EOL string
}

// New builds a Document from raw content.
func New(path string, content []byte) *Document {
	doc := &Document{
		Path:    path,
		Content: content,
		Lines:   splitLines(content),
	}
	doc.EOL = detectEOL(doc.Lines)
	return doc
}

// FromString builds a Document from a string.
func FromString(path, text string) *Document {
	return New(path, []byte(text))
}

func splitLines(content []byte) []Line {
	lines := make([]Line, 0, 1+countNewlines(content))
	start := 0

	for idx, char := range content {
		if char != '\n' {
			continue
		}
		lines = append(lines, newLine(len(lines), content, start, idx, idx+1))
		start = idx + 1
	}

	return append(lines, newLine(len(lines), content, start, len(content), len(content)))
}

func newLine(index int, content []byte, start, textEnd, end int) Line {
	contentEnd := textEnd
	if contentEnd > start && content[contentEnd-1] == '\r' {
		contentEnd--
	}
	return Line{
		Index:      index,
		Text:       string(content[start:textEnd]),
		Start:      start,
		ContentEnd: contentEnd,
		End:        end,
	}
}

func countNewlines(content []byte) int {
	count := 0
	for _, char := range content {
		if char == '\n' {
			count++
		}
	}
	return count
}

// detectEOL picks CRLF when the first terminated line ends in "\r\n".
func detectEOL(lines []Line) string {
	if len(lines) > 1 && lines[0].HasCR() {
		return CRLF
	}
	return LF
}

// Text returns the content as a string.
func (d *Document) Text() string {
	return string(d.Content)
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	return len(d.Lines)
}

// Line returns the line at a zero-based index.
func (d *Document) Line(index int) (Line, bool) {
	if index < 0 || index >= len(d.Lines) {
		return Line{}, false
	}
	return d.Lines[index], true
}

// Texts returns the raw text of every line.
func (d *Document) Texts() []string {
	texts := make([]string, len(d.Lines))
	for i, line := range d.Lines {
		texts[i] = line.Text
	}
	return texts
}

// Offset converts a zero-based line and byte column to a byte offset.
// The column may point at most one byte past the raw line text.
func (d *Document) Offset(line, col int) (int, bool) {
	info, ok := d.Line(line)
	if !ok || col < 0 || col > len(info.Text) {
		return 0, false
	}
	return info.Start + col, true
}

// PositionAt converts a byte offset to a zero-based line and byte column.
// Offsets past the end clamp to the end of the last line.
func (d *Document) PositionAt(offset int) (int, int) {
	if offset <= 0 {
		return 0, 0
	}
	for _, info := range d.Lines {
		if offset < info.End || info.Index == len(d.Lines)-1 {
			return info.Index, min(offset-info.Start, len(info.Text))
		}
	}
	return 0, 0
}

// EndPosition returns the line and column just past the last byte.
func (d *Document) EndPosition() (int, int) {
	last := d.Lines[len(d.Lines)-1]
	return last.Index, len(last.Text)
}

// UTF16Column converts a byte column on a line to a UTF-16 code unit column.
func (d *Document) UTF16Column(line, byteCol int) int {
	info, ok := d.Line(line)
	if !ok {
		return 0
	}
	text := info.Text[:min(max(byteCol, 0), len(info.Text))]

	units := 0
	for _, r := range text {
		units += utf16Len(r)
	}
	return units
}

// ByteColumn converts a UTF-16 code unit column on a line to a byte column.
func (d *Document) ByteColumn(line, utf16Col int) int {
	info, ok := d.Line(line)
	if !ok {
		return 0
	}

	units := 0
	for idx, r := range info.Text {
		if units >= utf16Col {
			return idx
		}
		units += utf16Len(r)
	}
	return len(info.Text)
}

func utf16Len(r rune) int {
	if r == utf8.RuneError || r < 0x10000 {
		return 1
	}
	return 2
}
