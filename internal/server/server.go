// Package server wires the core engine (ecosystem registry, document
// store, cold-start loader, progress reporter) to go.lsp.dev's JSON-RPC
// transport and protocol types. Per spec §1, the wire framing itself is
// an external collaborator; this package is intentionally thin - its
// methods do argument conversion and delegate to internal/document or
// internal/lspgen for the actual work, except that Completion also runs
// the registry lookup its completion context calls for.
package server

import (
	"context"
	"sync"
	"time"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/persubmyorujt831/deps-lsp-sub001/internal/coldstart"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/config"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/document"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/ecosystem"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/lockfile"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/lspgen"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/progress"
	"github.com/persubmyorujt831/deps-lsp-sub001/internal/registry/httpcache"
)

func newHTTPCache() *httpcache.Cache { return httpcache.New() }

// Server implements the subset of protocol.Server spec §6 requires.
// Embedding the interface promotes every other method as an unimplemented
// stub satisfying go.lsp.dev/protocol's full Server contract without this
// package having to write out the rest of the LSP surface by hand.
type Server struct {
	protocol.Server

	client protocol.Client
	logger *zap.Logger

	ecosystems *ecosystem.Registry
	docs       *document.Store
	cold       *coldstart.Loader
	sender     *clientSender

	mu  sync.RWMutex
	cfg config.Config

	activeMu sync.Mutex
	active   map[*progress.Reporter]struct{}
}

// New builds a Server. client is the outbound notification/request sender
// the transport layer hands back after dispatch registration.
func New(client protocol.Client, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	cache := newHTTPCache()
	ecosystems := ecosystem.New(cache)

	s := &Server{
		client:     client,
		logger:     logger,
		ecosystems: ecosystems,
		cfg:        config.Default(),
		active:     make(map[*progress.Reporter]struct{}),
	}
	s.sender = newClientSender(client, logger)
	s.docs = document.New(ecosystems, s, logger, s.config, s.newReporter)
	s.cold = coldstart.New(logger, 100*time.Millisecond)
	return s
}

func (s *Server) config() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *Server) newReporter(ctx context.Context, title string, total int) *progress.Reporter {
	r := progress.New(ctx, s.sender, s.logger, title, total)
	s.activeMu.Lock()
	s.active[r] = struct{}{}
	s.activeMu.Unlock()
	return r
}

// Initialize handles the initialize request (spec §6).
func (s *Server) Initialize(_ context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	s.logger.Info("initialize")

	if params != nil {
		s.mu.Lock()
		s.cfg = config.Parse(params.InitializationOptions)
		s.mu.Unlock()
	}

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
			HoverProvider: true,
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: []string{`"`, `.`, `,`, `=`},
			},
			InlayHintProvider: true,
			CodeActionProvider: &protocol.CodeActionOptions{
				CodeActionKinds: []protocol.CodeActionKind{protocol.QuickFix},
			},
			DiagnosticProvider: &protocol.DiagnosticOptions{
				Identifier:            "deps-lsp",
				InterFileDependencies: false,
				WorkspaceDiagnostics:  false,
			},
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "deps-lsp",
			Version: "0.1.0",
		},
	}, nil
}

// Initialized handles the initialized notification, registering the
// dynamic file-watcher capability for every ecosystem's lock-file
// patterns (spec §6).
func (s *Server) Initialized(ctx context.Context, _ *protocol.InitializedParams) error {
	s.logger.Info("initialized")
	return s.registerFileWatchers(ctx)
}

func (s *Server) registerFileWatchers(ctx context.Context) error {
	kind := protocol.WatchCreate | protocol.WatchChange | protocol.WatchDelete
	var watchers []protocol.FileSystemWatcher
	for _, resolver := range lockfile.All() {
		for _, name := range resolver.LockfileNames() {
			watchers = append(watchers, protocol.FileSystemWatcher{
				GlobPattern: "**/" + name,
				Kind:        &kind,
			})
		}
	}
	if s.client == nil || len(watchers) == 0 {
		return nil
	}
	return s.client.RegisterCapability(ctx, &protocol.RegistrationParams{
		Registrations: []protocol.Registration{{
			ID:     "deps-lsp-watch-lockfiles",
			Method: "workspace/didChangeWatchedFiles",
			RegisterOptions: protocol.DidChangeWatchedFilesRegistrationOptions{
				Watchers: watchers,
			},
		}},
	})
}

// Shutdown handles the shutdown request. Per spec §9's recommended
// resolution of the progress-on-shutdown open question, this is where
// any token the finalizer hasn't already closed gets an explicit End.
func (s *Server) Shutdown(context.Context) error {
	s.logger.Info("shutdown")
	s.activeMu.Lock()
	defer s.activeMu.Unlock()
	for r := range s.active {
		r.End("")
	}
	return nil
}

// Exit handles the exit notification.
func (s *Server) Exit(context.Context) error {
	s.logger.Info("exit")
	return nil
}

// DidOpen handles textDocument/didOpen.
func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.docs.OnOpen(ctx, string(params.TextDocument.URI), params.TextDocument.Text)
	return nil
}

// DidChange handles textDocument/didChange. Full sync only (spec §6):
// the last content change is the entire document.
func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	text := params.ContentChanges[len(params.ContentChanges)-1].Text
	s.docs.OnChange(ctx, string(params.TextDocument.URI), text)
	return nil
}

// DidClose handles textDocument/didClose.
func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.docs.OnClose(string(params.TextDocument.URI))
	if s.client != nil {
		_ = s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
			URI:         params.TextDocument.URI,
			Diagnostics: []protocol.Diagnostic{},
		})
	}
	return nil
}

// DidChangeWatchedFiles handles workspace/didChangeWatchedFiles: a
// changed lock file invalidates the resolved map of every open document
// under the same directory and triggers a re-read (spec §6).
func (s *Server) DidChangeWatchedFiles(_ context.Context, params *protocol.DidChangeWatchedFilesParams) error {
	for _, change := range params.Changes {
		s.docs.InvalidateResolved(string(change.URI))
	}
	return nil
}

// Hover handles textDocument/hover.
func (s *Server) Hover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	docURI := string(params.TextDocument.URI)
	if err := s.cold.EnsureLoaded(ctx, s.docs, docURI); err != nil {
		s.logger.Debug("cold start failed", zap.Error(err))
		return nil, nil
	}
	st, ok := s.docs.Get(docURI)
	if !ok || st.Ecosystem == nil {
		return nil, nil
	}
	pos := fromProtocolPosition(params.Position)
	hover := st.Ecosystem.GenerateHover(st.Parse, pos, st.Latest, st.Resolved, st.Metadata, st.Versions)
	return toProtocolHover(hover), nil
}

// Completion handles textDocument/completion (spec §4.9's three
// contexts). Name-completion issues a registry search and version
// completion asks the registry for the version list; feature completion
// reads the features of the version record the fetch task already stored.
func (s *Server) Completion(ctx context.Context, params *protocol.CompletionParams) (*protocol.CompletionList, error) {
	docURI := string(params.TextDocument.URI)
	if err := s.cold.EnsureLoaded(ctx, s.docs, docURI); err != nil {
		return nil, nil
	}
	st, ok := s.docs.Get(docURI)
	if !ok || st.Ecosystem == nil {
		return nil, nil
	}
	pos := fromProtocolPosition(params.Position)
	cc := st.Ecosystem.GenerateCompletions(st.Parse, pos, st.Content)

	var items []protocolCompletionSource
	switch cc.Kind {
	case lspgen.CompletionPackageName:
		metas, err := st.Ecosystem.Registry().Search(ctx, cc.Prefix, 20)
		if err == nil {
			for _, m := range metas {
				items = append(items, protocolCompletionSource{label: m.Name, detail: m.Description})
			}
		}
	case lspgen.CompletionVersion:
		versions, err := st.Ecosystem.Registry().Versions(ctx, cc.DependencyName)
		if err == nil {
			for _, v := range versions {
				if v.Yanked {
					continue
				}
				items = append(items, protocolCompletionSource{label: v.Number})
			}
		}
	case lspgen.CompletionFeature:
		if v, ok := st.Versions[st.Ecosystem.MatcherKey(cc.DependencyName)]; ok {
			for feat := range v.Features {
				items = append(items, protocolCompletionSource{label: feat})
			}
		}
	}

	out := make([]protocol.CompletionItem, 0, len(items))
	for _, it := range items {
		out = append(out, protocol.CompletionItem{Label: it.label, Detail: it.detail, InsertText: it.label})
	}
	return &protocol.CompletionList{IsIncomplete: false, Items: out}, nil
}

type protocolCompletionSource struct {
	label  string
	detail string
}

// InlayHint handles textDocument/inlayHint.
func (s *Server) InlayHint(ctx context.Context, params *protocol.InlayHintParams) ([]protocol.InlayHint, error) {
	docURI := string(params.TextDocument.URI)
	if err := s.cold.EnsureLoaded(ctx, s.docs, docURI); err != nil {
		return nil, nil
	}
	st, ok := s.docs.Get(docURI)
	if !ok || st.Ecosystem == nil {
		return nil, nil
	}
	cfg := s.config()
	hints := st.Ecosystem.GenerateInlayHints(st.Parse, st.Latest, st.Loading, cfg.HintConfig())
	return toProtocolInlayHints(hints), nil
}

// CodeAction handles textDocument/codeAction.
func (s *Server) CodeAction(ctx context.Context, params *protocol.CodeActionParams) ([]protocol.CodeAction, error) {
	docURI := string(params.TextDocument.URI)
	if err := s.cold.EnsureLoaded(ctx, s.docs, docURI); err != nil {
		return nil, nil
	}
	st, ok := s.docs.Get(docURI)
	if !ok || st.Ecosystem == nil {
		return nil, nil
	}
	pos := fromProtocolPosition(params.Range.Start)
	actions := st.Ecosystem.GenerateCodeActions(st.Parse, pos, st.Latest)
	return toProtocolCodeActions(actions, params.TextDocument.URI), nil
}

// Diagnostic handles the textDocument/diagnostic pull request, for
// clients that prefer pull diagnostics over the publishDiagnostics push
// this server also sends from the fetch task.
func (s *Server) Diagnostic(ctx context.Context, params *protocol.DocumentDiagnosticParams) (*protocol.DocumentDiagnosticReport, error) {
	docURI := string(params.TextDocument.URI)
	if err := s.cold.EnsureLoaded(ctx, s.docs, docURI); err != nil {
		return nil, nil
	}
	st, ok := s.docs.Get(docURI)
	if !ok || st.Ecosystem == nil {
		return &protocol.DocumentDiagnosticReport{}, nil
	}
	cfg := s.config()
	diags := st.Ecosystem.GenerateDiagnostics(st.Parse, st.Latest, st.Versions, st.KnownNames, cfg.DiagnosticConfig())
	return &protocol.DocumentDiagnosticReport{
		Kind:  "full",
		Items: toProtocolDiagnostics(diags),
	}, nil
}

// PublishDiagnostics implements document.Notifier.
func (s *Server) PublishDiagnostics(docURI string, diags []lspgen.Diagnostic) {
	if s.client == nil {
		return
	}
	_ = s.client.PublishDiagnostics(context.Background(), &protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(docURI),
		Diagnostics: toProtocolDiagnostics(diags),
	})
}

// RefreshInlayHints implements document.Notifier: spec §4.7/§5 require
// this to fire strictly after PublishDiagnostics for the same generation,
// which document.Store's fetch task already guarantees by call order.
func (s *Server) RefreshInlayHints() {
	if s.client == nil {
		return
	}
	_ = s.client.InlayHintRefresh(context.Background())
}
