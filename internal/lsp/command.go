package lsp

import (
	"errors"
	"fmt"
	"os"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/yaklabco/luaufmt/internal/logging"
	"github.com/yaklabco/luaufmt/pkg/completion"
	"github.com/yaklabco/luaufmt/pkg/document"
	"github.com/yaklabco/luaufmt/pkg/fix"
	"github.com/yaklabco/luaufmt/pkg/inject"
	"github.com/yaklabco/luaufmt/pkg/modules"
)

// ErrInvalidArguments is returned when a command is not called with a
// module name and a document URI.
var ErrInvalidArguments = errors.New("expected [moduleName, documentURI] arguments")

// workspaceExecuteCommand inserts a module into a document. The edit is sent
// to the client as a workspace/applyEdit request once the command returns.
func (s *Server) workspaceExecuteCommand(ctx *glsp.Context, params *protocol.ExecuteCommandParams) (any, error) {
	kind, err := completion.KindForCommand(params.Command)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", params.Command, err)
	}
	if kind == modules.KindKnit && !s.knit.Load() {
		return nil, fmt.Errorf("%s: %w", params.Command, completion.ErrNotKnitWorkspace)
	}

	name, uri, err := commandArguments(params.Arguments)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", params.Command, err)
	}

	doc, err := s.documentFor(uri)
	if err != nil {
		return nil, err
	}

	edits, err := fix.Resolve(doc, s.insertionPlan(kind, doc, name))
	if err == nil {
		edits, err = fix.PrepareEdits(edits, len(doc.Content))
	}
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", name, err)
	}

	log := s.logger.With(logging.FieldCommand, params.Command, logging.FieldModule, name, logging.FieldURI, uri)
	if len(edits) == 0 {
		log.Info("no insertion point found")
		return nil, nil
	}

	label := fmt.Sprintf("Insert %s module %s", kind, name)
	workspaceEdit := protocol.WorkspaceEdit{
		Changes: map[protocol.DocumentUri][]protocol.TextEdit{
			uri: toProtocolEdits(doc, edits),
		},
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		var response protocol.ApplyWorkspaceEditResponse
		ctx.Call(protocol.ServerWorkspaceApplyEdit, &protocol.ApplyWorkspaceEditParams{
			Label: &label,
			Edit:  workspaceEdit,
		}, &response)

		if !response.Applied {
			reason := "unknown"
			if response.FailureReason != nil {
				reason = *response.FailureReason
			}
			log.Warn("client rejected edit", "reason", reason)
			return
		}
		log.Debug("module inserted", logging.FieldEdits, len(edits))
	}()

	return nil, nil
}

func (s *Server) insertionPlan(kind modules.Kind, doc *document.Document, name string) fix.Plan {
	if kind == modules.KindKnit {
		return inject.KnitModule(doc, name)
	}
	return inject.WallyModule(doc, name, inject.WallyOptions{
		PackagesRoot: s.cfg.Knit.PackagesRoot,
		Knit:         s.knit.Load(),
	})
}

// documentFor returns the open document for uri, or reads it from disk.
func (s *Server) documentFor(uri string) (*document.Document, error) {
	if od, ok := s.docs.get(uri); ok {
		return od.doc, nil
	}

	path := uriToPath(uri)
	if path == "" {
		return nil, fmt.Errorf("unsupported document uri %q", uri)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return document.New(path, content), nil
}

func commandArguments(args []any) (string, string, error) {
	if len(args) != 2 {
		return "", "", ErrInvalidArguments
	}
	name, nameOK := args[0].(string)
	uri, uriOK := args[1].(string)
	if !nameOK || !uriOK || name == "" || uri == "" {
		return "", "", ErrInvalidArguments
	}
	return name, uri, nil
}
