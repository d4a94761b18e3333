// Package mcp exposes link formatting, parsing, detection and path quoting as
// Model Context Protocol tools.
package mcp

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/teranos/rangelink/config"
	"github.com/teranos/rangelink/display"
	"github.com/teranos/rangelink/internal/selection"
	"github.com/teranos/rangelink/internal/util"
	"github.com/teranos/rangelink/internal/workspace"
	"github.com/teranos/rangelink/link"
	"github.com/teranos/rangelink/logger"
	"github.com/teranos/rangelink/version"
)

// Server serves the rangelink tools over stdio
type Server struct {
	mu   sync.RWMutex
	cfg  *config.Config
	root string

	server *server.MCPServer
	log    *zap.SugaredLogger
}

// NewServer creates an MCP server for cfg. Relative paths resolve against root.
func NewServer(cfg *config.Config, root string) *Server {
	s := &Server{
		cfg:  cfg,
		root: root,
		log:  logger.ComponentLogger("mcp"),
	}

	s.server = server.NewMCPServer(
		"rangelink",
		version.Get().Version,
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

// ApplyConfig swaps the configuration used by later tool calls.
// It has the signature of a config.ReloadCallback.
func (s *Server) ApplyConfig(cfg *config.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	return nil
}

// Serve runs the server on stdin and stdout
func (s *Server) Serve() error {
	return server.ServeStdio(s.server)
}

func (s *Server) config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *Server) registerTools() {
	formatTool := mcp.NewTool("format_link",
		mcp.WithDescription("Build a RangeLink such as src/app.ts#L10C5-L12C3 for a file and selection"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File path, relative to the workspace root or absolute"),
		),
		mcp.WithString("selection",
			mcp.Required(),
			mcp.Description("1-based selection: LINE, LINE-LINE, LINE:COL or LINE:COL-LINE:COL. Separate several with commas"),
		),
		mcp.WithString("notation",
			mcp.Description("auto, full-line or positions (default from config)"),
		),
		mcp.WithBoolean("rectangular",
			mcp.Description("Emit a rectangular (column) link with a doubled hash"),
		),
		mcp.WithBoolean("portable",
			mcp.Description("Append the delimiters so other configurations can parse the link"),
		),
		mcp.WithBoolean("absolute",
			mcp.Description("Embed the absolute path instead of the workspace-relative one"),
		),
	)
	s.server.AddTool(formatTool, s.handleFormatLink)

	parseTool := mcp.NewTool("parse_link",
		mcp.WithDescription("Parse a RangeLink into path, start, end and selection type"),
		mcp.WithString("link",
			mcp.Required(),
			mcp.Description("Link text, for example src/app.ts#L10-L20"),
		),
	)
	s.server.AddTool(parseTool, s.handleParseLink)

	detectTool := mcp.NewTool("detect_links",
		mcp.WithDescription("Find every RangeLink in a block of text"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text to scan"),
		),
	)
	s.server.AddTool(detectTool, s.handleDetectLinks)

	quoteTool := mcp.NewTool("quote_path",
		mcp.WithDescription("Quote a path for embedding in a link or for a POSIX shell"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to quote"),
		),
		mcp.WithString("style",
			mcp.Description("link or shell (default: link)"),
		),
	)
	s.server.AddTool(quoteTool, s.handleQuotePath)
}

func (s *Server) handleFormatLink(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	specs, err := request.RequireString("selection")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cfg := s.config()
	opts := cfg.FormatOptions()
	if raw := request.GetString("notation", ""); raw != "" {
		notation, ok := link.ParseRangeNotation(raw)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown notation %q: use auto, full-line or positions", raw)), nil
		}
		opts.Notation = notation
	}
	opts.Rectangular = request.GetBool("rectangular", false)
	opts.Portable = request.GetBool("portable", false)
	// Link quoting keeps whitespace paths a single detectable token
	if opts.Quote == link.QuoteNone {
		opts.Quote = link.QuoteLink
	}

	format := cfg.PathFormat()
	if request.GetBool("absolute", false) {
		format = link.PathAbsolute
	}

	abs := workspace.Resolve(path, s.root)
	lineLength := selection.LineLengths(abs)

	var selections []link.Selection
	for _, spec := range strings.Split(specs, ",") {
		if util.IsBlank(spec) {
			continue
		}
		sel, err := selection.Parse(spec, lineLength)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		selections = append(selections, sel)
	}
	if len(selections) == 0 {
		return mcp.NewToolResultError("selection must name at least one line"), nil
	}

	linkPath, err := workspace.LinkPath(abs, s.root, format)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := link.Format(linkPath, selections, cfg.Delimiters, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.log.Debugw("Formatted link", logger.FieldLink, text)
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleParseLink(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("link")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := link.Parse(text, s.config().Delimiters)
	if !result.OK() {
		return mcp.NewToolResultError(result.Err.FormatError(link.ErrorContextPlain)), nil
	}
	return jsonResult(result.Link)
}

func (s *Server) handleDetectLinks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	detected := link.DetectorFor(s.config().Delimiters).Detect(text)
	if len(detected) == 0 {
		return mcp.NewToolResultText("No links found"), nil
	}
	return jsonResult(detected)
}

func (s *Server) handleQuotePath(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	style, ok := link.ParseQuoteStyle(request.GetString("style", string(link.QuoteLink)))
	if !ok || style == link.QuoteNone {
		return mcp.NewToolResultError("style must be link or shell"), nil
	}
	return mcp.NewToolResultText(link.QuotePath(path, style)), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := display.MarshalJSON(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
