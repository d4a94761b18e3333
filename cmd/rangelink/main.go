package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/rangelink/cmd/rangelink/commands"
	"github.com/teranos/rangelink/errors"
	"github.com/teranos/rangelink/link"
	"github.com/teranos/rangelink/logger"
)

var rootCmd = &cobra.Command{
	Use:   "rangelink",
	Short: "RangeLink - portable links to file ranges",
	Long: `RangeLink - build, parse and find links to code ranges.

A RangeLink names a file and a range: src/app.ts#L10C5-L12C3.
Delimiters are configurable; portable links carry their own.

Available commands:
  format - Build a link for a file selection
  parse  - Parse a link into its parts
  detect - Find links in a file or stdin
  quote  - Quote a path for a link or shell
  config - Manage configuration
  lsp    - Run the documentLink language server
  mcp    - Run the MCP tool server

Examples:
  rangelink format src/app.ts 10-20    # src/app.ts#L10-L20
  rangelink parse 'src/app.ts#L10C5'
  rangelink detect notes.md
  rangelink config where`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs to stderr as JSON")
	rootCmd.PersistentFlags().StringVar(&commands.ConfigFile, "config", "", "Read configuration from this file only")

	rootCmd.AddCommand(commands.FormatCmd)
	rootCmd.AddCommand(commands.ParseCmd)
	rootCmd.AddCommand(commands.DetectCmd)
	rootCmd.AddCommand(commands.QuoteCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.LspCmd)
	rootCmd.AddCommand(commands.McpCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// printError renders parse errors with context and other errors with their hints
func printError(err error) {
	var perr *link.ParseError
	if errors.As(err, &perr) {
		fmt.Fprintln(os.Stderr, perr.FormatError(link.ErrorContextTerminal))
		return
	}

	fmt.Fprintf(os.Stderr, "%s %v\n", pterm.Red("Error:"), err)
	if hint := errors.FlattenHints(err); hint != "" {
		fmt.Fprintf(os.Stderr, "%s %s\n", pterm.Yellow("Hint:"), hint)
	}
}
