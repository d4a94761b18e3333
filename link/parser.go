package link

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"
)

// ParseResult is either a parsed link or the reason the text is not one
type ParseResult struct {
	Link *ParsedLink `json:"link,omitempty"`
	Err  *ParseError `json:"error,omitempty"`
}

// OK reports whether parsing succeeded
func (r ParseResult) OK() bool {
	return r.Err == nil && r.Link != nil
}

// Parser parses single link occurrences for one delimiter configuration.
// A Parser is immutable and safe for concurrent use.
type Parser struct {
	cfg    DelimiterConfig
	strict *regexp.Regexp // full structure, numbers may be negative
	loose  *regexp.Regexp // path and hash present, numbers unreadable
}

// NewParser compiles the anchored expressions for cfg
func NewParser(cfg DelimiterConfig) *Parser {
	h := EscapeRegex(cfg.Hash)
	l := EscapeRegex(cfg.Line)
	p := EscapeRegex(cfg.Position)
	r := EscapeRegex(cfg.Range)

	path := `('[^']*'|"[^"]*"|.+?)`
	hash := `((?:` + h + `){1,2})`
	num := `(-?\d+)`

	strict := `^` + path + hash + l + num +
		`(?:` + p + num + `)?` +
		`(?:` + r + l + num + `(?:` + p + num + `)?)?$`

	return &Parser{
		cfg:    cfg,
		strict: regexp.MustCompile(strict),
		loose:  regexp.MustCompile(`^` + path + hash + l + `(.*)$`),
	}
}

// Config returns the delimiters the parser was built for
func (p *Parser) Config() DelimiterConfig {
	return p.cfg
}

var parserCache sync.Map // DelimiterConfig -> *Parser

// Parse parses text with cfg. Compiled parsers are cached per configuration.
func Parse(text string, cfg DelimiterConfig) ParseResult {
	return parserFor(cfg).Parse(text)
}

func parserFor(cfg DelimiterConfig) *Parser {
	if cached, ok := parserCache.Load(cfg); ok {
		return cached.(*Parser)
	}
	actual, _ := parserCache.LoadOrStore(cfg, NewParser(cfg))
	return actual.(*Parser)
}

// Parse extracts path and range from one link occurrence. Text ending in a
// portable suffix is parsed with the delimiters it carries.
func (p *Parser) Parse(text string) ParseResult {
	input := strings.TrimSpace(text)

	if body, raw, ok := splitPortable(input); ok {
		result := ValidateDelimiters(raw)
		if !result.Valid() {
			codes := make([]string, len(result.Errors))
			for i, code := range result.Codes() {
				codes[i] = string(code)
			}
			return failure(NewParseError(ErrorKindPortableMetadata,
				fmt.Sprintf("portable link carries invalid delimiters: %s", strings.Join(codes, ", "))).
				WithInput(input).
				WithSuggestion("the suffix must be ~hash~line~range~position~ with valid delimiters"))
		}

		embedded := result.Config
		parser := p
		if embedded != p.cfg {
			parser = parserFor(embedded)
		}
		res := parser.parseBody(body, input)
		if res.OK() {
			res.Link.Portable = true
			res.Link.Delimiters = &embedded
		}
		return res
	}

	return p.parseBody(input, input)
}

func (p *Parser) parseBody(body, input string) ParseResult {
	m := p.strict.FindStringSubmatch(body)
	if m == nil {
		if lm := p.loose.FindStringSubmatch(body); lm != nil {
			if path := UnquotePath(lm[1]); strings.Contains(path, "://") {
				return failure(NewParseError(ErrorKindURLPath, fmt.Sprintf("path %q is a URL", path)).WithInput(input))
			}
			return failure(p.diagnose(lm[3]).
				WithInput(input).
				WithSuggestion(fmt.Sprintf("write the range as %s10 or %s10%s5%s%s20%s15",
					p.cfg.Line, p.cfg.Line, p.cfg.Position, p.cfg.Range, p.cfg.Line, p.cfg.Position)))
		}
		return failure(NewParseError(ErrorKindMalformed, "text is not a link").
			WithInput(input).
			WithSuggestion(fmt.Sprintf("expected PATH%s%sLINE", p.cfg.Hash, p.cfg.Line)))
	}

	rawPath := m[1]
	path := UnquotePath(rawPath)
	if path == "" {
		return failure(NewParseError(ErrorKindMalformed, "link has an empty path").WithInput(input))
	}
	if strings.Contains(path, "://") {
		return failure(NewParseError(ErrorKindURLPath, fmt.Sprintf("path %q is a URL", path)).WithInput(input))
	}
	if utf8.RuneCountInString(p.cfg.Hash) > 1 && strings.Contains(rawPath, p.cfg.Hash) {
		return failure(NewParseError(ErrorKindMalformed,
			fmt.Sprintf("path %q contains the hash delimiter %q", path, p.cfg.Hash)).WithInput(input))
	}

	startLine, perr := parseLine(m[3], input)
	if perr != nil {
		return failure(perr)
	}
	startChar, perr := parseCharacter(m[4], input)
	if perr != nil {
		return failure(perr)
	}
	start := LinkPosition{Line: startLine, Character: startChar}
	end := start

	if m[5] != "" {
		endLine, perr := parseLine(m[5], input)
		if perr != nil {
			return failure(perr)
		}
		endChar, perr := parseCharacter(m[6], input)
		if perr != nil {
			return failure(perr)
		}
		end = LinkPosition{Line: endLine, Character: endChar}
	}

	if inverted(start, end) {
		return failure(NewParseError(ErrorKindInvertedRange,
			fmt.Sprintf("range ends at %s before it starts at %s", end, start)).
			WithInput(input).
			WithSuggestion("swap the start and end positions"))
	}

	l := &ParsedLink{
		Path:          path,
		Start:         start,
		End:           end,
		LinkType:      LinkTypeRegular,
		SelectionType: SelectionNormal,
	}
	if m[2] == p.cfg.Hash+p.cfg.Hash {
		l.LinkType = LinkTypeRectangular
		l.SelectionType = SelectionRectangular
	}
	return ParseResult{Link: l}
}

// diagnose walks the range text after the first line delimiter and names the
// first part the strict expression could not read
func (p *Parser) diagnose(rest string) *ParseError {
	digits, rest := leadingNumber(rest)
	if digits == "" {
		return NewParseError(ErrorKindInvalidLine, "line number is missing or not a positive integer")
	}
	if perr := p.diagnoseCharacter(&rest); perr != nil {
		return perr
	}

	if after, ok := strings.CutPrefix(rest, p.cfg.Range); ok {
		after, ok = strings.CutPrefix(after, p.cfg.Line)
		if !ok {
			return NewParseError(ErrorKindMalformed,
				fmt.Sprintf("range delimiter %q is not followed by %s and an end line", p.cfg.Range, p.cfg.Line))
		}
		if digits, after = leadingNumber(after); digits == "" {
			return NewParseError(ErrorKindInvalidLine, "end line number is missing or not a positive integer")
		}
		if perr := p.diagnoseCharacter(&after); perr != nil {
			return perr
		}
		rest = after
	}

	if rest != "" {
		return NewParseError(ErrorKindMalformed, fmt.Sprintf("unexpected text %q after the range", rest))
	}
	return NewParseError(ErrorKindMalformed, "text is not a link")
}

// diagnoseCharacter consumes an optional position delimiter and its number
func (p *Parser) diagnoseCharacter(rest *string) *ParseError {
	after, ok := strings.CutPrefix(*rest, p.cfg.Position)
	if !ok {
		return nil
	}
	digits, after := leadingNumber(after)
	if digits == "" {
		return NewParseError(ErrorKindInvalidCharacter,
			fmt.Sprintf("position delimiter %q is not followed by a character number", p.cfg.Position))
	}
	*rest = after
	return nil
}

// leadingNumber splits an optionally signed run of ASCII digits off s
func leadingNumber(s string) (string, string) {
	i := 0
	if strings.HasPrefix(s, "-") {
		i = 1
	}
	j := i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == i {
		return "", s
	}
	return s[:j], s[j:]
}

func parseLine(s, input string) (int, *ParseError) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, NewParseError(ErrorKindInvalidLine, fmt.Sprintf("line number %s is too large", s)).WithInput(input)
	}
	if n < 1 {
		return 0, NewParseError(ErrorKindInvalidLine, fmt.Sprintf("line number %d must be at least 1", n)).WithInput(input)
	}
	return n, nil
}

// parseCharacter returns 0 for an absent group
func parseCharacter(s, input string) (int, *ParseError) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, NewParseError(ErrorKindInvalidCharacter, fmt.Sprintf("character number %s is too large", s)).WithInput(input)
	}
	if n < 1 {
		return 0, NewParseError(ErrorKindInvalidCharacter, fmt.Sprintf("character number %d must be at least 1", n)).WithInput(input)
	}
	return n, nil
}

// inverted compares characters only when both ends carry one
func inverted(start, end LinkPosition) bool {
	if end.Line != start.Line {
		return end.Line < start.Line
	}
	return start.HasCharacter() && end.HasCharacter() && end.Character < start.Character
}

func failure(err *ParseError) ParseResult {
	return ParseResult{Err: err}
}
