package link

import (
	"sort"
	"strconv"
	"strings"

	"github.com/teranos/rangelink/errors"
	"github.com/teranos/rangelink/internal/util"
)

// FormatOptions controls how Format renders a link
type FormatOptions struct {
	Notation    RangeNotation `json:"notation"`
	Rectangular bool          `json:"rectangular,omitempty"`
	Portable    bool          `json:"portable,omitempty"`
	Quote       QuoteStyle    `json:"quote,omitempty"`
}

// Format renders path and selections into a link string.
//
// Selections carry 0-based editor coordinates; the rendered link is 1-based.
// The path is treated as opaque apart from the quoting requested in opts.
// Calling Format without selections is a programming error and returns an
// assertion failure marked with ErrNoSelections.
func Format(path string, selections []Selection, cfg DelimiterConfig, opts FormatOptions) (string, error) {
	if len(selections) == 0 {
		err := errors.AssertionFailedf("link.Format called with zero selections for %q", path)
		return "", errors.Mark(err, errors.ErrNoSelections)
	}
	for i, sel := range selections {
		if err := checkSelection(sel); err != nil {
			return "", errors.Wrapf(err, "selection %d", i)
		}
	}

	var start, end LinkPosition
	if opts.Rectangular {
		start, end = rectangularSpan(selections)
	} else {
		positions := includePositions(selections, opts.Notation)
		start, end = span(selections, positions)
	}

	hash := cfg.Hash
	if opts.Rectangular {
		hash += cfg.Hash
	}

	var b strings.Builder
	b.WriteString(QuotePath(path, opts.Quote))
	b.WriteString(hash)
	b.WriteString(formatRange(start, end, cfg))
	if opts.Portable {
		b.WriteString(PortableSuffix(cfg))
	}
	return b.String(), nil
}

// FormatPosition renders a single endpoint: L10 or L10C5
func FormatPosition(p LinkPosition, cfg DelimiterConfig) string {
	s := cfg.Line + strconv.Itoa(p.Line)
	if p.HasCharacter() {
		s += cfg.Position + strconv.Itoa(p.Character)
	}
	return s
}

// FormatParsed renders a parsed link back into text. Parsing the result with
// the same delimiters yields l again. Portable links are rendered with their
// embedded delimiters and keep their suffix. Paths containing whitespace are
// single-quoted so the link stays one token.
func FormatParsed(l ParsedLink, cfg DelimiterConfig) string {
	if l.Portable && l.Delimiters != nil {
		cfg = *l.Delimiters
	}

	path := l.Path
	if util.ContainsWhitespace(path) {
		path = QuoteLinkPath(path)
	}

	hash := cfg.Hash
	if l.IsRectangular() {
		hash += cfg.Hash
	}

	s := path + hash + formatRange(l.Start, l.End, cfg)
	if l.Portable {
		s += PortableSuffix(cfg)
	}
	return s
}

// formatRange renders start and, unless it adds nothing, the end of a range
func formatRange(start, end LinkPosition, cfg DelimiterConfig) string {
	s := FormatPosition(start, cfg)
	if start == end {
		return s
	}
	return s + cfg.Range + FormatPosition(end, cfg)
}

func checkSelection(sel Selection) error {
	if sel.Start.Line < 0 || sel.Start.Character < 0 || sel.End.Line < 0 || sel.End.Character < 0 {
		return errors.Wrapf(errors.ErrInvalidSelection, "negative coordinate in %d:%d-%d:%d",
			sel.Start.Line, sel.Start.Character, sel.End.Line, sel.End.Character)
	}
	if sel.End.Before(sel.Start) {
		return errors.Wrapf(errors.ErrInvalidSelection, "end %d:%d before start %d:%d",
			sel.End.Line, sel.End.Character, sel.Start.Line, sel.Start.Character)
	}
	return nil
}

// includePositions applies the notation policy to a batch of selections
func includePositions(selections []Selection, notation RangeNotation) bool {
	switch notation {
	case NotationEnforceFullLine:
		return false
	case NotationEnforcePositions:
		return true
	default:
		for _, sel := range selections {
			if sel.Coverage != FullLine {
				return true
			}
		}
		return false
	}
}

// span returns the 1-based range from the earliest start to the latest end.
// Without positions a selection ending at character 0 of a later line stops
// at the line before.
func span(selections []Selection, positions bool) (LinkPosition, LinkPosition) {
	sorted := make([]Selection, len(selections))
	copy(sorted, selections)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	first := sorted[0].Start
	last := sorted[0].End
	lastStart := sorted[0].Start
	for _, sel := range sorted[1:] {
		if last.Before(sel.End) {
			last = sel.End
			lastStart = sel.Start
		}
	}

	if !positions {
		endLine := last.Line
		if last.Character == 0 && last.Line > lastStart.Line {
			endLine--
		}
		return LinkPosition{Line: first.Line + 1}, LinkPosition{Line: endLine + 1}
	}

	return LinkPosition{Line: first.Line + 1, Character: first.Character + 1},
		LinkPosition{Line: last.Line + 1, Character: last.Character + 1}
}

// rectangularSpan synthesizes one pair from the first to the last line using
// the column offsets of the first selection
func rectangularSpan(selections []Selection) (LinkPosition, LinkPosition) {
	firstLine, lastLine := selections[0].Start.Line, selections[0].End.Line
	for _, sel := range selections[1:] {
		if sel.Start.Line < firstLine {
			firstLine = sel.Start.Line
		}
		if sel.End.Line > lastLine {
			lastLine = sel.End.Line
		}
	}
	startChar := selections[0].Start.Character
	endChar := selections[0].End.Character
	return LinkPosition{Line: firstLine + 1, Character: startChar + 1},
		LinkPosition{Line: lastLine + 1, Character: endChar + 1}
}
