package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/teranos/rangelink/config"
	"github.com/teranos/rangelink/link"
)

func testConfig(max int, delimiters link.DelimiterConfig) *config.Config {
	return &config.Config{
		Delimiters: delimiters,
		LSP:        config.LSPConfig{MaxDocuments: max},
	}
}

func open(t *testing.T, s *Server, uri, text string) {
	t.Helper()
	require.NoError(t, s.textDocumentDidOpen(nil, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "markdown", Version: 1, Text: text},
	}))
}

func linksFor(t *testing.T, s *Server, uri string) []protocol.DocumentLink {
	t.Helper()
	links, err := s.textDocumentDocumentLink(nil, &protocol.DocumentLinkParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	return links
}

func TestServer_Initialize(t *testing.T) {
	s := NewServer(testConfig(10, link.DefaultDelimiters()), "/fallback")
	rootURI := "file:///client/root"

	result, err := s.initialize(nil, &protocol.InitializeParams{RootURI: &rootURI})
	require.NoError(t, err)

	init, ok := result.(protocol.InitializeResult)
	require.True(t, ok)
	assert.NotNil(t, init.Capabilities.DocumentLinkProvider)
	require.NotNil(t, init.ServerInfo)
	assert.Equal(t, "rangelink", init.ServerInfo.Name)

	_, root := s.state()
	assert.Equal(t, "/client/root", root)
}

func TestServer_InitializeWorkspaceFolder(t *testing.T) {
	s := NewServer(testConfig(10, link.DefaultDelimiters()), "/fallback")
	_, err := s.initialize(nil, &protocol.InitializeParams{
		WorkspaceFolders: []protocol.WorkspaceFolder{{URI: "file:///folder", Name: "folder"}},
	})
	require.NoError(t, err)

	_, root := s.state()
	assert.Equal(t, "/folder", root)
}

func TestServer_InitializeKeepsFallback(t *testing.T) {
	s := NewServer(testConfig(10, link.DefaultDelimiters()), "/fallback")
	_, err := s.initialize(nil, &protocol.InitializeParams{})
	require.NoError(t, err)

	_, root := s.state()
	assert.Equal(t, "/fallback", root)
}

func TestServer_DocumentLifecycle(t *testing.T) {
	s := NewServer(testConfig(10, link.DefaultDelimiters()), "/work")
	uri := "file:///work/README.md"

	open(t, s, uri, "see main.go#L3")
	links := linksFor(t, s, uri)
	require.Len(t, links, 1)
	assert.Equal(t, "file:///work/main.go#L3", *links[0].Target)

	require.NoError(t, s.textDocumentDidChange(nil, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEventWhole{Text: "a.go#L1 b.go#L2"},
		},
	}))
	assert.Len(t, linksFor(t, s, uri), 2)

	require.NoError(t, s.textDocumentDidClose(nil, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
	assert.Empty(t, linksFor(t, s, uri))
}

func TestServer_ApplyConfig(t *testing.T) {
	s := NewServer(testConfig(10, link.DefaultDelimiters()), "/work")
	uri := "file:///work/notes.txt"
	open(t, s, uri, "main.go#line3 main.go#L4")

	links := linksFor(t, s, uri)
	require.Len(t, links, 1)
	assert.Equal(t, "file:///work/main.go#L4", *links[0].Target)

	custom := link.DelimiterConfig{Line: "line", Position: "col", Hash: "#", Range: "-"}
	require.NoError(t, s.ApplyConfig(testConfig(10, custom)))

	links = linksFor(t, s, uri)
	require.Len(t, links, 1)
	assert.Equal(t, "file:///work/main.go#L3", *links[0].Target)
}

func TestServer_ApplyConfigShrinksStore(t *testing.T) {
	s := NewServer(testConfig(3, link.DefaultDelimiters()), "/work")
	open(t, s, "file:///a", "a")
	open(t, s, "file:///b", "b")
	open(t, s, "file:///c", "c")

	require.NoError(t, s.ApplyConfig(testConfig(1, link.DefaultDelimiters())))
	assert.Equal(t, 1, s.docs.len())
}
