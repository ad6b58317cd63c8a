package lsp

import (
	"errors"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/yaklabco/luaufmt/internal/logging"
	"github.com/yaklabco/luaufmt/pkg/completion"
	"github.com/yaklabco/luaufmt/pkg/modules"
)

// textDocumentCompletion offers Knit modules and Wally packages. A provider
// that cannot answer is logged and contributes no items.
func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	uri := params.TextDocument.URI
	items := []protocol.CompletionItem{}
	if !modules.IsScriptPath(uriToPath(uri)) {
		return items, nil
	}

	knit := s.knit.Load()
	providers := []*completion.Provider{
		completion.NewKnitProvider(s.catalog.Knit, knit),
		completion.NewWallyProvider(s.catalog.Wally, knit),
	}

	for _, provider := range providers {
		result := provider.Complete(uri)
		if !result.OK() {
			level := s.logger.Warn
			if errors.Is(result.Err, completion.ErrNotKnitWorkspace) {
				level = s.logger.Debug
			}
			level("completion unavailable", logging.FieldURI, uri, logging.FieldError, result.Err)
			continue
		}

		for _, item := range result.Items {
			items = append(items, toCompletionItem(item))
		}
	}

	return items, nil
}

func toCompletionItem(item completion.Item) protocol.CompletionItem {
	kind := protocol.CompletionItemKindModule
	detail := string(item.Kind) + " " + item.Detail

	args := make([]any, 0, len(item.Command.Arguments))
	for _, arg := range item.Command.Arguments {
		args = append(args, arg)
	}

	return protocol.CompletionItem{
		Label:  item.Label,
		Kind:   &kind,
		Detail: &detail,
		Command: &protocol.Command{
			Title:     item.Command.Title,
			Command:   item.Command.Name,
			Arguments: args,
		},
	}
}
