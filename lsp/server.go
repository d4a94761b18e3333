// Package lsp serves RangeLinks in open documents as textDocument/documentLink
// results over stdio.
package lsp

import (
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
	"go.uber.org/zap"

	"github.com/teranos/rangelink/config"
	"github.com/teranos/rangelink/link"
	"github.com/teranos/rangelink/logger"
	"github.com/teranos/rangelink/version"
)

const serverName = "rangelink"

// Server is the rangelink language server. The detector and root are swapped
// as a unit when configuration reloads.
type Server struct {
	mu       sync.RWMutex
	detector *link.Detector
	root     string

	docs    *documentStore
	handler protocol.Handler
	log     *zap.SugaredLogger
}

// NewServer creates a server for cfg. root is used for relative link paths
// until the client announces its own workspace root.
func NewServer(cfg *config.Config, root string) *Server {
	s := &Server{
		detector: link.DetectorFor(cfg.Delimiters),
		root:     root,
		docs:     newDocumentStore(cfg.LSP.MaxDocuments),
		log:      logger.ComponentLogger("lsp"),
	}

	s.handler = protocol.Handler{
		Initialize:               s.initialize,
		Initialized:              s.initialized,
		Shutdown:                 s.shutdown,
		SetTrace:                 s.setTrace,
		TextDocumentDidOpen:      s.textDocumentDidOpen,
		TextDocumentDidChange:    s.textDocumentDidChange,
		TextDocumentDidClose:     s.textDocumentDidClose,
		TextDocumentDocumentLink: s.textDocumentDocumentLink,
	}
	return s
}

// ApplyConfig swaps in the delimiters and document limit of cfg.
// It has the signature of a config.ReloadCallback.
func (s *Server) ApplyConfig(cfg *config.Config) error {
	s.mu.Lock()
	s.detector = link.DetectorFor(cfg.Delimiters)
	s.mu.Unlock()

	for _, uri := range s.docs.resize(cfg.LSP.MaxDocuments) {
		s.log.Debugw("Document evicted on resize", logger.FieldURI, uri)
	}
	s.log.Infow("Delimiters applied",
		logger.FieldDelimiter, cfg.Delimiters,
		logger.FieldCount, cfg.LSP.MaxDocuments)
	return nil
}

// RunStdio serves LSP on stdin and stdout until the client disconnects
func (s *Server) RunStdio() error {
	return server.NewServer(&s.handler, serverName, false).RunStdio()
}

func (s *Server) state() (*link.Detector, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.detector, s.root
}

func (s *Server) initialize(context *glsp.Context, params *protocol.InitializeParams) (any, error) {
	if root, ok := clientRoot(params); ok {
		s.mu.Lock()
		s.root = root
		s.mu.Unlock()
	}

	capabilities := s.handler.CreateServerCapabilities()
	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
	}
	capabilities.DocumentLinkProvider = &protocol.DocumentLinkOptions{
		ResolveProvider: &protocol.False,
	}

	v := version.Get().Version
	_, root := s.state()
	s.log.Infow("Client initializing", logger.FieldPath, root)

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &v,
		},
	}, nil
}

// clientRoot prefers rootUri, then the first workspace folder
func clientRoot(params *protocol.InitializeParams) (string, bool) {
	if params.RootURI != nil {
		if p, ok := uriToPath(*params.RootURI); ok && p != "" {
			return p, true
		}
	}
	for _, folder := range params.WorkspaceFolders {
		if p, ok := uriToPath(folder.URI); ok && p != "" {
			return p, true
		}
	}
	return "", false
}

func (s *Server) initialized(context *glsp.Context, params *protocol.InitializedParams) error {
	s.log.Debug("Client initialized")
	return nil
}

func (s *Server) shutdown(context *glsp.Context) error {
	s.log.Info("Server shutting down")
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(context *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	doc := params.TextDocument
	if evicted := s.docs.put(doc.URI, int32(doc.Version), doc.Text); evicted != "" {
		s.log.Debugw("Document evicted", logger.FieldURI, evicted)
	}
	s.log.Debugw("Document opened",
		logger.FieldURI, doc.URI,
		logger.FieldSize, len(doc.Text))
	return nil
}

func (s *Server) textDocumentDidChange(context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	// Sync is full, so the last whole-document change is the current text
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			s.docs.put(params.TextDocument.URI, int32(params.TextDocument.Version), c.Text)
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				s.docs.put(params.TextDocument.URI, int32(params.TextDocument.Version), c.Text)
				continue
			}
			s.log.Warnw("Ignoring incremental change under full sync",
				logger.FieldURI, params.TextDocument.URI)
		}
	}
	return nil
}

func (s *Server) textDocumentDidClose(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.docs.remove(params.TextDocument.URI)
	return nil
}

func (s *Server) textDocumentDocumentLink(context *glsp.Context, params *protocol.DocumentLinkParams) ([]protocol.DocumentLink, error) {
	doc, ok := s.docs.get(params.TextDocument.URI)
	if !ok {
		return []protocol.DocumentLink{}, nil
	}

	detector, root := s.state()
	links := documentLinks(doc.text, detector, root)
	s.log.Debugw("Document links computed",
		logger.FieldURI, doc.uri,
		logger.FieldCount, len(links))
	return links, nil
}
