package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/rangelink/config"
	"github.com/teranos/rangelink/logger"
	"github.com/teranos/rangelink/lsp"
	"github.com/teranos/rangelink/mcp"
)

// LspCmd runs the language server on stdio
var LspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run the RangeLink language server on stdio",
	Long: `Run a language server that answers textDocument/documentLink with the
RangeLinks in open documents. Configuration changes are picked up while the
server runs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		d, err := currentDirs()
		if err != nil {
			return err
		}

		s := lsp.NewServer(cfg, d.root)
		stop := watchConfig(s.ApplyConfig)
		defer stop()
		return s.RunStdio()
	},
}

// McpCmd runs the Model Context Protocol server on stdio
var McpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the RangeLink MCP server on stdio",
	Long: `Run a Model Context Protocol server exposing the format_link, parse_link,
detect_links and quote_path tools.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		d, err := currentDirs()
		if err != nil {
			return err
		}

		s := mcp.NewServer(cfg, d.root)
		stop := watchConfig(s.ApplyConfig)
		defer stop()
		return s.Serve()
	},
}

// watchConfig reloads the layered configuration into apply until stop is
// called. An explicit --config file is not watched.
func watchConfig(apply config.ReloadCallback) (stop func()) {
	if ConfigFile != "" {
		return func() {}
	}

	w, err := config.NewWatcher(config.Options{})
	if err != nil {
		logger.Warnw("Config changes will not be picked up",
			logger.FieldError, err)
		return func() {}
	}
	w.OnReload(apply)
	config.SetGlobalWatcher(w)
	w.Start()

	return func() {
		config.SetGlobalWatcher(nil)
		if err := w.Stop(); err != nil {
			logger.Debugw("Config watcher stop failed", logger.FieldError, err)
		}
	}
}
