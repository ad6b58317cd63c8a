package lsp

import (
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/yaklabco/luaufmt/pkg/document"
)

// openDocument is the editor's view of a file.
type openDocument struct {
	uri     string
	version protocol.Integer
	doc     *document.Document
}

// documentStore holds the documents the client has opened.
type documentStore struct {
	mu   sync.RWMutex
	docs map[string]*openDocument
}

func newDocumentStore() *documentStore {
	return &documentStore{docs: make(map[string]*openDocument)}
}

func (s *documentStore) open(uri string, version protocol.Integer, text string) *openDocument {
	od := &openDocument{
		uri:     uri,
		version: version,
		doc:     document.FromString(uriToPath(uri), text),
	}

	s.mu.Lock()
	s.docs[uri] = od
	s.mu.Unlock()

	return od
}

// change applies content changes in order. Ranged changes use UTF-16 columns.
func (s *documentStore) change(uri string, version protocol.Integer, changes []any) (*openDocument, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	od, ok := s.docs[uri]
	if !ok {
		return nil, false
	}

	text := od.doc.Text()
	for _, change := range changes {
		switch event := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = event.Text
		case *protocol.TextDocumentContentChangeEventWhole:
			text = event.Text
		case protocol.TextDocumentContentChangeEvent:
			text = applyRangeChange(text, event.Range, event.Text)
		case *protocol.TextDocumentContentChangeEvent:
			text = applyRangeChange(text, event.Range, event.Text)
		}
	}

	od.version = version
	od.doc = document.FromString(od.doc.Path, text)
	return od, true
}

func (s *documentStore) close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

func (s *documentStore) get(uri string) (*openDocument, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	od, ok := s.docs[uri]
	return od, ok
}

func applyRangeChange(text string, rng *protocol.Range, newText string) string {
	if rng == nil {
		return newText
	}

	doc := document.FromString("", text)
	start := offsetOf(doc, rng.Start)
	end := max(offsetOf(doc, rng.End), start)

	return text[:start] + newText + text[end:]
}

// offsetOf converts an LSP position to a byte offset, clamping positions
// past the end of a line or of the document.
func offsetOf(doc *document.Document, pos protocol.Position) int {
	line := int(pos.Line)
	if line >= doc.LineCount() {
		return len(doc.Content)
	}

	col := doc.ByteColumn(line, int(pos.Character))
	offset, ok := doc.Offset(line, col)
	if !ok {
		return len(doc.Content)
	}
	return offset
}

// toProtocolPosition converts a byte offset to an LSP position.
func toProtocolPosition(doc *document.Document, offset int) protocol.Position {
	line, col := doc.PositionAt(offset)
	return protocol.Position{
		Line:      protocol.UInteger(line),
		Character: protocol.UInteger(doc.UTF16Column(line, col)),
	}
}
