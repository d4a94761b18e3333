package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teranos/rangelink/config"
	"github.com/teranos/rangelink/errors"
	"github.com/teranos/rangelink/internal/selection"
	"github.com/teranos/rangelink/internal/workspace"
	"github.com/teranos/rangelink/link"
	"github.com/teranos/rangelink/logger"
)

// FormatCmd builds a link for a file and one or more selections
var FormatCmd = &cobra.Command{
	Use:   "format PATH SEL...",
	Short: "Build a RangeLink for a file selection",
	Long: `Build a RangeLink for PATH and one or more selections.

SEL is 1-based: LINE, LINE-LINE, LINE:COL or LINE:COL-LINE:COL.
Several selections produce one link spanning all of them.

Examples:
  rangelink format src/app.ts 10              # src/app.ts#L10
  rangelink format src/app.ts 10-20           # src/app.ts#L10-L20
  rangelink format src/app.ts 10:5-12:3       # src/app.ts#L10C5-L12C3
  rangelink format data.csv 10:5-20:10 --rectangular
  rangelink format src/app.ts 10 --portable   # src/app.ts#L10~#~L~-~C~`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		d, err := currentDirs()
		if err != nil {
			return err
		}
		return runFormat(cmd.OutOrStdout(), cfg, d, args[0], args[1:], formatFlags)
	},
}

type formatOptions struct {
	notation    string
	rectangular bool
	portable    bool
	absolute    bool
	quote       string
}

var formatFlags formatOptions

func init() {
	FormatCmd.Flags().StringVar(&formatFlags.notation, "notation", "", "Range notation: auto, full-line or positions (default from config)")
	FormatCmd.Flags().BoolVar(&formatFlags.rectangular, "rectangular", false, "Emit a rectangular (column) link")
	FormatCmd.Flags().BoolVar(&formatFlags.portable, "portable", false, "Append the delimiters so any configuration can parse the link")
	FormatCmd.Flags().BoolVar(&formatFlags.absolute, "absolute", false, "Embed the absolute path")
	FormatCmd.Flags().StringVar(&formatFlags.quote, "quote", "", "Path quoting: none, link or shell (default from config)")
}

func runFormat(w io.Writer, cfg *config.Config, d dirs, path string, specs []string, o formatOptions) error {
	opts := cfg.FormatOptions()
	if o.notation != "" {
		notation, ok := link.ParseRangeNotation(o.notation)
		if !ok {
			return errors.WithHint(
				errors.Newf("unknown notation %q", o.notation),
				"use auto, full-line or positions")
		}
		opts.Notation = notation
	}
	if o.quote != "" {
		quote, ok := link.ParseQuoteStyle(o.quote)
		if !ok {
			return errors.WithHint(
				errors.Newf("unknown quote style %q", o.quote),
				"use none, link or shell")
		}
		opts.Quote = quote
	}
	opts.Rectangular = o.rectangular
	opts.Portable = o.portable

	format := cfg.PathFormat()
	if o.absolute {
		format = link.PathAbsolute
	}

	abs := workspace.Resolve(path, d.cwd)
	lineLength := selection.LineLengths(abs)

	selections := make([]link.Selection, 0, len(specs))
	for _, spec := range specs {
		sel, err := selection.Parse(spec, lineLength)
		if err != nil {
			return errors.WithHint(err, "selections look like 10, 10-20, 10:5 or 10:5-12:3")
		}
		selections = append(selections, sel)
	}

	linkPath, err := workspace.LinkPath(abs, d.root, format)
	if err != nil {
		return err
	}
	text, err := link.Format(linkPath, selections, cfg.Delimiters, opts)
	if err != nil {
		return errors.Wrap(err, "failed to format link")
	}

	logger.Debugw("Formatted link",
		logger.FieldPath, linkPath,
		logger.FieldLink, text,
		logger.FieldNotation, opts.Notation)
	fmt.Fprintln(w, text)
	return nil
}
