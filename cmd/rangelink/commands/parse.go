package commands

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/rangelink/display"
	"github.com/teranos/rangelink/link"
)

// ParseCmd prints the structured form of a link
var ParseCmd = &cobra.Command{
	Use:   "parse LINK",
	Short: "Parse a RangeLink",
	Long: `Parse LINK with the configured delimiters and print its parts.

Portable links carry their own delimiters and parse under any configuration.

Examples:
  rangelink parse 'src/app.ts#L10C5-L12C3'
  rangelink parse 'data.csv##L10C5-L20C10' --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runParse(cmd.OutOrStdout(), cfg.Delimiters, args[0], display.ShouldOutputJSON(cmd))
	},
}

func init() {
	ParseCmd.Flags().BoolP("json", "j", false, "Output as JSON")
}

func runParse(w io.Writer, delimiters link.DelimiterConfig, text string, jsonOutput bool) error {
	result := link.Parse(text, delimiters)
	if !result.OK() {
		return result.Err
	}
	l := result.Link

	if jsonOutput {
		return display.WriteJSON(w, l)
	}

	fmt.Fprintf(w, "%s %s\n", pterm.Gray("path: "), l.Path)
	fmt.Fprintf(w, "%s %s\n", pterm.Gray("start:"), l.Start)
	fmt.Fprintf(w, "%s %s\n", pterm.Gray("end:  "), l.End)
	fmt.Fprintf(w, "%s %s\n", pterm.Gray("type: "), l.SelectionType)
	if l.Portable && l.Delimiters != nil {
		fmt.Fprintf(w, "%s hash=%s line=%s position=%s range=%s\n", pterm.Gray("delimiters:"),
			l.Delimiters.Hash, l.Delimiters.Line, l.Delimiters.Position, l.Delimiters.Range)
	}
	return nil
}
