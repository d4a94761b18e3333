package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teranos/rangelink/link"
)

// QuoteCmd quotes a path the way links embed it
var QuoteCmd = &cobra.Command{
	Use:   "quote PATH",
	Short: "Quote a path for a link or a shell",
	Long: `Quote PATH with POSIX single quotes (the link style) or, with --shell,
double quotes. Paths made only of letters, digits and _-./: are printed as-is.

Examples:
  rangelink quote "it's.ts"          # 'it'\''s.ts'
  rangelink quote "my file.ts" --shell  # "my file.ts"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuote(cmd.OutOrStdout(), args[0], quoteShell)
	},
}

var quoteShell bool

func init() {
	QuoteCmd.Flags().BoolVar(&quoteShell, "shell", false, "Use double quotes for shell destinations")
}

func runQuote(w io.Writer, path string, shell bool) error {
	style := link.QuoteLink
	if shell {
		style = link.QuoteShell
	}
	fmt.Fprintln(w, link.QuotePath(path, style))
	return nil
}
