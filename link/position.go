package link

import "fmt"

// LinkPosition is one endpoint of a link range.
// Line and Character are 1-based; Character 0 means the whole line.
type LinkPosition struct {
	Line      int `json:"line"`
	Character int `json:"character,omitempty"`
}

// HasCharacter reports whether a character position is present
func (p LinkPosition) HasCharacter() bool {
	return p.Character > 0
}

// Before reports whether p sorts strictly before other.
// A missing character sorts before any character on the same line.
func (p LinkPosition) Before(other LinkPosition) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Character < other.Character
}

func (p LinkPosition) String() string {
	if p.HasCharacter() {
		return fmt.Sprintf("%d:%d", p.Line, p.Character)
	}
	return fmt.Sprintf("%d", p.Line)
}

// LinkType distinguishes regular links from rectangular (column) links
type LinkType string

const (
	LinkTypeRegular     LinkType = "regular"
	LinkTypeRectangular LinkType = "rectangular"
)

// SelectionType records the kind of editor selection a link describes
type SelectionType string

const (
	SelectionNormal      SelectionType = "normal"
	SelectionRectangular SelectionType = "rectangular"
)

// ParsedLink is the structured form of a link string
type ParsedLink struct {
	Path          string        `json:"path"`
	Start         LinkPosition  `json:"start"`
	End           LinkPosition  `json:"end"`
	LinkType      LinkType      `json:"link_type"`
	SelectionType SelectionType `json:"selection_type"`

	// Portable is set when the link carried its own delimiters; Delimiters
	// then holds them.
	Portable   bool             `json:"portable,omitempty"`
	Delimiters *DelimiterConfig `json:"delimiters,omitempty"`
}

// IsRectangular reports whether the link was written with a doubled hash
func (l ParsedLink) IsRectangular() bool {
	return l.SelectionType == SelectionRectangular
}

// IsSinglePoint reports whether end equals start
func (l ParsedLink) IsSinglePoint() bool {
	return l.Start == l.End
}

// SelectionCoverage says whether a selection spans whole lines
type SelectionCoverage string

const (
	FullLine    SelectionCoverage = "full_line"
	PartialLine SelectionCoverage = "partial_line"
)

// RangeNotation controls whether character positions are rendered
type RangeNotation string

const (
	NotationAuto             RangeNotation = "auto"
	NotationEnforceFullLine  RangeNotation = "full-line"
	NotationEnforcePositions RangeNotation = "positions"
)

// ParseRangeNotation maps a config or flag value to a RangeNotation
func ParseRangeNotation(s string) (RangeNotation, bool) {
	switch RangeNotation(s) {
	case NotationAuto, "":
		return NotationAuto, true
	case NotationEnforceFullLine:
		return NotationEnforceFullLine, true
	case NotationEnforcePositions:
		return NotationEnforcePositions, true
	default:
		return NotationAuto, false
	}
}

// PathFormat selects which path string the caller embeds
type PathFormat string

const (
	PathWorkspaceRelative PathFormat = "relative"
	PathAbsolute          PathFormat = "absolute"
)

// ParsePathFormat maps a config or flag value to a PathFormat
func ParsePathFormat(s string) (PathFormat, bool) {
	switch PathFormat(s) {
	case PathWorkspaceRelative, "":
		return PathWorkspaceRelative, true
	case PathAbsolute:
		return PathAbsolute, true
	default:
		return PathWorkspaceRelative, false
	}
}

// EditorPosition is a 0-based line/character pair as editors report them
type EditorPosition struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Before reports whether p sorts strictly before other
func (p EditorPosition) Before(other EditorPosition) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Character < other.Character
}

// Selection is one editor selection with its coverage
type Selection struct {
	Start    EditorPosition    `json:"start"`
	End      EditorPosition    `json:"end"`
	Coverage SelectionCoverage `json:"coverage"`
}

// NewSelection builds a selection and computes its coverage.
// lineLength reports the length of a 0-based line; nil means unknown.
func NewSelection(start, end EditorPosition, lineLength func(line int) int) Selection {
	return Selection{
		Start:    start,
		End:      end,
		Coverage: CoverageOf(start, end, lineLength),
	}
}

// CoverageOf returns FullLine when the selection starts at character 0 and
// ends at or beyond the end of its last line. A selection ending at
// character 0 of a later line covers the previous lines fully.
func CoverageOf(start, end EditorPosition, lineLength func(line int) int) SelectionCoverage {
	if start.Character != 0 {
		return PartialLine
	}
	if end.Character == 0 && end.Line > start.Line {
		return FullLine
	}
	if lineLength == nil {
		return PartialLine
	}
	if end.Character >= lineLength(end.Line) {
		return FullLine
	}
	return PartialLine
}
