// Package selection converts 1-based LINE[:COL][-LINE[:COL]] specs into
// 0-based editor selections.
package selection

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/teranos/rangelink/errors"
	"github.com/teranos/rangelink/link"
)

// Point is a 1-based line with an optional 1-based column (0 when absent)
type Point struct {
	Line   int
	Column int
}

// Parse reads one selection spec such as 10, 10-12, 10:5 or 10:5-12:3.
// lineLength gives the length of a 0-based line and may be nil.
func Parse(spec string, lineLength func(line int) int) (link.Selection, error) {
	spec = strings.TrimSpace(spec)
	startSpec, endSpec, ranged := strings.Cut(spec, "-")

	start, err := parsePoint(startSpec)
	if err != nil {
		return link.Selection{}, errors.Wrapf(err, "selection %q", spec)
	}
	end := start
	if ranged {
		if end, err = parsePoint(endSpec); err != nil {
			return link.Selection{}, errors.Wrapf(err, "selection %q", spec)
		}
	}
	return FromPoints(start, end, lineLength)
}

// FromPoints builds a selection from 1-based points. A start without a column
// begins at the start of its line; an end without a column covers the whole
// line.
func FromPoints(start, end Point, lineLength func(line int) int) (link.Selection, error) {
	if start.Line < 1 || end.Line < 1 {
		return link.Selection{}, errors.WithHint(
			errors.Wrapf(errors.ErrInvalidSelection, "line must be >= 1"),
			"lines and columns are 1-based")
	}
	if start.Column < 0 || end.Column < 0 {
		return link.Selection{}, errors.Wrapf(errors.ErrInvalidSelection, "column must be >= 1")
	}

	s := link.EditorPosition{Line: start.Line - 1}
	if start.Column > 0 {
		s.Character = start.Column - 1
	}

	var e link.EditorPosition
	switch {
	case end.Column > 0:
		e = link.EditorPosition{Line: end.Line - 1, Character: end.Column - 1}
	case lineLength != nil:
		e = link.EditorPosition{Line: end.Line - 1, Character: lineLength(end.Line - 1)}
	default:
		// Start of the following line covers the whole line
		e = link.EditorPosition{Line: end.Line}
	}

	if e.Before(s) {
		return link.Selection{}, errors.Wrapf(errors.ErrInvalidSelection,
			"end %d before start %d", end.Line, start.Line)
	}
	return link.NewSelection(s, e, lineLength), nil
}

func parsePoint(s string) (Point, error) {
	lineSpec, colSpec, hasCol := strings.Cut(strings.TrimSpace(s), ":")

	line, err := strconv.Atoi(lineSpec)
	if err != nil {
		return Point{}, errors.Wrapf(errors.ErrInvalidSelection, "line %q is not a number", lineSpec)
	}
	p := Point{Line: line}
	if hasCol {
		col, err := strconv.Atoi(colSpec)
		if err != nil || col < 1 {
			return Point{}, errors.Wrapf(errors.ErrInvalidSelection, "column %q must be a number >= 1", colSpec)
		}
		p.Column = col
	}
	return p, nil
}

// LineLengths reads path and returns a lookup of rune counts per 0-based
// line. It returns nil when the file cannot be read.
func LineLengths(path string) func(line int) int {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var lengths []int
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lengths = append(lengths, utf8.RuneCount(scanner.Bytes()))
	}
	if scanner.Err() != nil {
		return nil
	}
	return FromLengths(lengths)
}

// FromLengths adapts a slice of line lengths; lines past the end have length 0
func FromLengths(lengths []int) func(line int) int {
	return func(line int) int {
		if line < 0 || line >= len(lengths) {
			return 0
		}
		return lengths[line]
	}
}
