package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/rangelink/display"
	"github.com/teranos/rangelink/link"
	"github.com/teranos/rangelink/logger"
)

// DetectCmd lists the links found in a file or stdin
var DetectCmd = &cobra.Command{
	Use:   "detect [FILE|-]",
	Short: "Find RangeLinks in text",
	Long: `Scan FILE, or stdin when FILE is - or absent, and list every link.

URLs such as https://example.com/page#L10 are not reported.

Examples:
  rangelink detect notes.md
  git log -p | rangelink detect --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		name := "-"
		if len(args) == 1 {
			name = args[0]
		}
		text, err := readInput(cmd.InOrStdin(), name)
		if err != nil {
			return err
		}
		return runDetect(cmd.OutOrStdout(), cfg.Delimiters, name, text, display.ShouldOutputJSON(cmd))
	},
}

func init() {
	DetectCmd.Flags().BoolP("json", "j", false, "Output as JSON")
}

// detectedEntry is the JSON shape of one detected link
type detectedEntry struct {
	Line   int             `json:"line"`
	Column int             `json:"column"`
	Text   string          `json:"text"`
	Link   link.ParsedLink `json:"link"`
}

func runDetect(w io.Writer, delimiters link.DelimiterConfig, name, text string, jsonOutput bool) error {
	detected := link.DetectorFor(delimiters).Detect(text)
	logger.Debugw("Detected links",
		logger.FieldFile, name,
		logger.FieldCount, len(detected))

	entries := make([]detectedEntry, 0, len(detected))
	for _, d := range detected {
		line, col := lineColumn(text, d.Start)
		entries = append(entries, detectedEntry{Line: line, Column: col, Text: d.Text, Link: d.Link})
	}

	if jsonOutput {
		return display.WriteJSON(w, entries)
	}

	for _, e := range entries {
		fmt.Fprintf(w, "%s %s %s\n",
			pterm.Gray(fmt.Sprintf("%s:%d:%d", name, e.Line, e.Column)),
			pterm.LightCyan(e.Text),
			pterm.Gray("→ "+describe(e.Link)))
	}
	return nil
}

// lineColumn returns the 1-based line and rune column of byte offset off
func lineColumn(text string, off int) (int, int) {
	before := text[:off]
	line := strings.Count(before, "\n") + 1
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return line, len([]rune(before[lineStart:])) + 1
}

func describe(l link.ParsedLink) string {
	s := l.Path + " " + l.Start.String()
	if !l.IsSinglePoint() {
		s += "-" + l.End.String()
	}
	if l.IsRectangular() {
		s += " rectangular"
	}
	if l.Portable {
		s += " portable"
	}
	return s
}
