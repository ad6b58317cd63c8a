// Package lsp implements the luaufmt language server: format-on-save through
// willSaveWaitUntil, module-name completion, and the commands that insert
// the chosen module into a script.
package lsp

import (
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/yaklabco/luaufmt/internal/logging"
	"github.com/yaklabco/luaufmt/pkg/completion"
	"github.com/yaklabco/luaufmt/pkg/config"
	"github.com/yaklabco/luaufmt/pkg/format"
	"github.com/yaklabco/luaufmt/pkg/modules"
)

// ServerName is reported to the client during initialize.
const ServerName = "luaufmt"

// Server answers LSP requests from one client.
type Server struct {
	version string
	cfg     *config.Config
	engine  *format.Engine
	catalog *modules.Catalog
	logger  *log.Logger

	knit     atomic.Bool
	rootPath string

	docs    *documentStore
	pending sync.WaitGroup
	handler protocol.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithVersion sets the version reported to the client.
func WithVersion(version string) Option {
	return func(s *Server) { s.version = version }
}

// WithConfig sets the configuration rules and insertions are resolved with.
func WithConfig(cfg *config.Config) Option {
	return func(s *Server) { s.cfg = cfg }
}

// WithEngine sets the format engine used on save.
func WithEngine(engine *format.Engine) Option {
	return func(s *Server) { s.engine = engine }
}

// WithCatalog sets the module registries completion reads from.
func WithCatalog(catalog *modules.Catalog) Option {
	return func(s *Server) { s.catalog = catalog }
}

// WithKnitWorkspace records whether the workspace uses Knit.
func WithKnitWorkspace(knit bool) Option {
	return func(s *Server) { s.knit.Store(knit) }
}

// WithLogger sets the logger. It must not write to stdout.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New creates a Server.
func New(opts ...Option) *Server {
	s := &Server{
		version: "dev",
		docs:    newDocumentStore(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.cfg == nil {
		s.cfg = config.NewConfig()
	}
	if s.engine == nil {
		s.engine = format.NewEngine(format.DefaultRegistry)
	}
	if s.catalog == nil {
		s.catalog = modules.NewCatalog()
	}
	if s.logger == nil {
		s.logger = logging.Default()
	}

	s.handler = protocol.Handler{
		Initialize:                    s.initialize,
		Initialized:                   s.initialized,
		Shutdown:                      s.shutdown,
		SetTrace:                      s.setTrace,
		TextDocumentDidOpen:           s.textDocumentDidOpen,
		TextDocumentDidChange:         s.textDocumentDidChange,
		TextDocumentDidClose:          s.textDocumentDidClose,
		TextDocumentWillSaveWaitUntil: s.textDocumentWillSaveWaitUntil,
		TextDocumentCompletion:        s.textDocumentCompletion,
		WorkspaceExecuteCommand:       s.workspaceExecuteCommand,
	}

	return s
}

// SetKnitWorkspace updates whether Knit completion and insertion are offered.
// It is safe to call while the server runs.
func (s *Server) SetKnitWorkspace(knit bool) {
	s.knit.Store(knit)
}

// RunStdio serves the protocol on stdin and stdout until the client exits.
func (s *Server) RunStdio() error {
	return server.NewServer(&s.handler, ServerName, false).RunStdio()
}

// Wait blocks until every workspace edit the server sent has been answered.
func (s *Server) Wait() {
	s.pending.Wait()
}

func (s *Server) initialize(_ *glsp.Context, params *protocol.InitializeParams) (any, error) {
	if params.RootURI != nil {
		s.rootPath = uriToPath(*params.RootURI)
	}

	capabilities := s.handler.CreateServerCapabilities()

	openClose := true
	willSaveWaitUntil := true
	change := protocol.TextDocumentSyncKindIncremental
	capabilities.TextDocumentSync = protocol.TextDocumentSyncOptions{
		OpenClose:         &openClose,
		Change:            &change,
		WillSaveWaitUntil: &willSaveWaitUntil,
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{}
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: completion.Commands(),
	}

	s.logger.Info("client initialized", logging.FieldRoot, s.rootPath, logging.FieldVersion, s.version)

	version := s.version
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    ServerName,
			Version: &version,
		},
	}, nil
}

func (s *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	s.pending.Wait()
	return nil
}

func (s *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(_ *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.docs.open(params.TextDocument.URI, params.TextDocument.Version, params.TextDocument.Text)
	s.logger.Debug("document opened", logging.FieldURI, params.TextDocument.URI)
	return nil
}

func (s *Server) textDocumentDidChange(_ *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if _, ok := s.docs.change(params.TextDocument.URI, params.TextDocument.Version, params.ContentChanges); !ok {
		s.logger.Warn("change for unopened document", logging.FieldURI, params.TextDocument.URI)
	}
	return nil
}

func (s *Server) textDocumentDidClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.docs.close(params.TextDocument.URI)
	return nil
}
