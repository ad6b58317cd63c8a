package lsp

import (
	"context"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/yaklabco/luaufmt/internal/logging"
	"github.com/yaklabco/luaufmt/pkg/document"
	"github.com/yaklabco/luaufmt/pkg/fix"
	"github.com/yaklabco/luaufmt/pkg/modules"
)

// textDocumentWillSaveWaitUntil returns the formatting edits for a script
// about to be saved. Files that are not scripts, unknown documents and
// conflicting plans produce no edits.
//
// The edits are one engine pass over the open document. Unlike fmt and watch,
// which repeat passes until the text settles, a save applies a single
// transaction; text one pass leaves unsettled is picked up by the next save.
func (s *Server) textDocumentWillSaveWaitUntil(
	_ *glsp.Context,
	params *protocol.WillSaveTextDocumentParams,
) ([]protocol.TextEdit, error) {
	uri := params.TextDocument.URI
	path := uriToPath(uri)
	if !modules.IsScriptPath(path) {
		return nil, nil
	}

	od, ok := s.docs.get(uri)
	if !ok {
		return nil, nil
	}

	result, err := s.engine.Format(context.Background(), od.doc, s.cfg)
	if err != nil {
		s.logger.Error("format failed", logging.FieldURI, uri, logging.FieldError, err)
		return nil, nil
	}
	for ruleID, ruleErr := range result.RuleErrors {
		s.logger.Warn("rule failed", logging.FieldURI, uri, logging.FieldRule, ruleID, logging.FieldError, ruleErr)
	}
	if result.Conflict != nil {
		s.logger.Warn("edits conflict; document left unformatted", logging.FieldURI, uri, logging.FieldError, result.Conflict)
		return nil, nil
	}

	edits := toProtocolEdits(od.doc, result.Edits)
	s.logger.Debug("formatted on save", logging.FieldURI, uri, logging.FieldEdits, len(edits))
	return edits, nil
}

// toProtocolEdits converts sorted byte edits to LSP edits against doc.
func toProtocolEdits(doc *document.Document, edits []fix.TextEdit) []protocol.TextEdit {
	out := make([]protocol.TextEdit, 0, len(edits))
	for _, edit := range edits {
		out = append(out, protocol.TextEdit{
			Range: protocol.Range{
				Start: toProtocolPosition(doc, edit.StartOffset),
				End:   toProtocolPosition(doc, edit.EndOffset),
			},
			NewText: edit.NewText,
		})
	}
	return out
}
