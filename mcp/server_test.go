package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/rangelink/config"
	"github.com/teranos/rangelink/link"
)

func testServer(t *testing.T) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "app.go"), []byte("package app\n\nfunc main() {\n}\n"), 0644))

	cfg := &config.Config{
		Delimiters: link.DefaultDelimiters(),
		Format:     config.FormatConfig{Notation: "auto", PathFormat: "relative", Quote: "none"},
		LSP:        config.LSPConfig{MaxDocuments: 10},
	}
	return NewServer(cfg, root), root
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, result.IsError
}

func TestFormatLink(t *testing.T) {
	s, root := testServer(t)

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"full lines", map[string]any{"path": "src/app.go", "selection": "1-3"}, "src/app.go#L1-L3"},
		{"single line", map[string]any{"path": "src/app.go", "selection": "3"}, "src/app.go#L3"},
		{"positions", map[string]any{"path": "src/app.go", "selection": "3:1-3:5"}, "src/app.go#L3C1-L3C5"},
		{"forced positions", map[string]any{"path": "src/app.go", "selection": "1-3", "notation": "positions"}, "src/app.go#L1C1-L3C14"},
		{"several selections", map[string]any{"path": "src/app.go", "selection": "1, 3"}, "src/app.go#L1-L3"},
		{"rectangular", map[string]any{"path": "src/app.go", "selection": "1:2-3:4", "rectangular": true}, "src/app.go##L1C2-L3C4"},
		{"portable", map[string]any{"path": "src/app.go", "selection": "2", "portable": true}, "src/app.go#L2~#~L~-~C~"},
		{"absolute", map[string]any{"path": "src/app.go", "selection": "2", "absolute": true},
			filepath.ToSlash(filepath.Join(root, "src", "app.go")) + "#L2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isErr := call(t, s.handleFormatLink, tt.args)
			assert.False(t, isErr, text)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestFormatLink_Errors(t *testing.T) {
	s, _ := testServer(t)

	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing path", map[string]any{"selection": "1"}},
		{"missing selection", map[string]any{"path": "src/app.go"}},
		{"bad selection", map[string]any{"path": "src/app.go", "selection": "zero"}},
		{"empty selection list", map[string]any{"path": "src/app.go", "selection": " , "}},
		{"bad notation", map[string]any{"path": "src/app.go", "selection": "1", "notation": "sometimes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, isErr := call(t, s.handleFormatLink, tt.args)
			assert.True(t, isErr)
		})
	}
}

func TestParseLink(t *testing.T) {
	s, _ := testServer(t)

	text, isErr := call(t, s.handleParseLink, map[string]any{"link": "data.csv##L10C5-L20C10"})
	require.False(t, isErr, text)

	var parsed link.ParsedLink
	require.NoError(t, json.Unmarshal([]byte(text), &parsed))
	assert.Equal(t, "data.csv", parsed.Path)
	assert.Equal(t, link.LinkPosition{Line: 10, Character: 5}, parsed.Start)
	assert.Equal(t, link.LinkPosition{Line: 20, Character: 10}, parsed.End)
	assert.True(t, parsed.IsRectangular())
}

func TestParseLink_Invalid(t *testing.T) {
	s, _ := testServer(t)

	text, isErr := call(t, s.handleParseLink, map[string]any{"link": "file.ts#L0"})
	assert.True(t, isErr)
	assert.NotEmpty(t, text)
}

func TestDetectLinks(t *testing.T) {
	s, _ := testServer(t)

	text, isErr := call(t, s.handleDetectLinks, map[string]any{"text": "see file1.ts#L10 and file2.ts#L20"})
	require.False(t, isErr)

	var detected []link.DetectedLink
	require.NoError(t, json.Unmarshal([]byte(text), &detected))
	require.Len(t, detected, 2)
	assert.Equal(t, "file1.ts#L10", detected[0].Text)
	assert.Equal(t, "file2.ts", detected[1].Link.Path)

	text, isErr = call(t, s.handleDetectLinks, map[string]any{"text": "nothing here"})
	assert.False(t, isErr)
	assert.Equal(t, "No links found", text)
}

func TestDetectLinks_AfterApplyConfig(t *testing.T) {
	s, _ := testServer(t)
	cfg := &config.Config{Delimiters: link.DelimiterConfig{Line: "line", Position: "col", Hash: "#", Range: ".."}}
	require.NoError(t, s.ApplyConfig(cfg))

	text, isErr := call(t, s.handleDetectLinks, map[string]any{"text": "main.go#line3..line5"})
	require.False(t, isErr)
	assert.Contains(t, text, `"path": "main.go"`)
}

func TestQuotePath(t *testing.T) {
	s, _ := testServer(t)

	text, isErr := call(t, s.handleQuotePath, map[string]any{"path": "it's.ts"})
	assert.False(t, isErr)
	assert.Equal(t, `'it'\''s.ts'`, text)

	text, _ = call(t, s.handleQuotePath, map[string]any{"path": "my file.ts", "style": "shell"})
	assert.Equal(t, `"my file.ts"`, text)

	_, isErr = call(t, s.handleQuotePath, map[string]any{"path": "a b", "style": "none"})
	assert.True(t, isErr)
}
