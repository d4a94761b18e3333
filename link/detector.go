package link

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

// Capture groups of the detector expression
const (
	GroupPath = iota + 1
	GroupHash
	GroupStartLine
	GroupStartChar
	GroupEndLine
	GroupEndChar
	GroupPortable
)

// urlSchemes can never start a link path
var urlSchemes = []string{"http://", "https://", "ftp://"}

// foreignPortablePattern finds portable links written with any delimiters
var foreignPortablePattern = regexp.MustCompile(`\S+?~[^~\s]+~[^~\s]+~[^~\s]+~[^~\s]+~`)

// Match is one link-shaped occurrence in a text
type Match struct {
	Text   string   `json:"text"`
	Start  int      `json:"start"` // Byte offset of the first character
	End    int      `json:"end"`   // Byte offset one past the last character
	Groups []string `json:"groups"`
}

// Group returns capture group i, or "" when it did not participate
func (m Match) Group(i int) string {
	if i < 0 || i >= len(m.Groups) {
		return ""
	}
	return m.Groups[i]
}

// Path returns the raw path capture, quotes included
func (m Match) Path() string { return m.Group(GroupPath) }

// Hash returns the hash capture; doubled for rectangular links
func (m Match) Hash() string { return m.Group(GroupHash) }

// DetectedLink is a match that parsed into a navigable link
type DetectedLink struct {
	Match
	Link ParsedLink `json:"link"`
}

// Detector finds links in free text for one delimiter configuration.
// A Detector is immutable and safe for concurrent use.
type Detector struct {
	cfg       DelimiterConfig
	pattern   *regexp.Regexp
	parser    *Parser
	multiHash bool
}

// NewDetector builds the detection expression for cfg
func NewDetector(cfg DelimiterConfig) *Detector {
	h := EscapeRegex(cfg.Hash)
	l := EscapeRegex(cfg.Line)
	p := EscapeRegex(cfg.Position)
	r := EscapeRegex(cfg.Range)

	expr := `('[^']*'|"[^"]*"|\S+?)` +
		`((?:` + h + `){1,2})` +
		l + `(\d+)` +
		`(?:` + p + `(\d+))?` +
		`(?:` + r + l + `(\d+)(?:` + p + `(\d+))?)?` +
		portableGroup

	return &Detector{
		cfg:       cfg,
		pattern:   regexp.MustCompile(expr),
		parser:    NewParser(cfg),
		multiHash: utf8.RuneCountInString(cfg.Hash) > 1,
	}
}

// Config returns the delimiters the detector was built for
func (d *Detector) Config() DelimiterConfig {
	return d.cfg
}

// Pattern returns the compiled expression. Used on its own it does not apply
// the URL and hash filters FindAll enforces.
func (d *Detector) Pattern() *regexp.Regexp {
	return d.pattern
}

// Parser returns the parser for the detector's delimiters
func (d *Detector) Parser() *Parser {
	return d.parser
}

// FindAllIndex returns submatch index pairs for every accepted candidate,
// in the layout of regexp.FindAllStringSubmatchIndex
func (d *Detector) FindAllIndex(text string) [][]int {
	var out [][]int
	pos := 0
	for pos <= len(text) {
		loc := d.pattern.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += pos
			}
		}

		if d.accept(text, loc) {
			out = append(out, loc)
			pos = loc[1]
			continue
		}

		// Retry one rune after the rejected start
		_, size := utf8.DecodeRuneInString(text[loc[0]:])
		if size == 0 {
			size = 1
		}
		pos = loc[0] + size
	}
	return out
}

// accept applies the rules a look-around expression would carry
func (d *Detector) accept(text string, loc []int) bool {
	start := loc[0]
	if start > 0 {
		prev, _ := utf8.DecodeLastRuneInString(text[:start])
		if isURLBodyRune(prev) {
			return false
		}
	}

	path := strings.ToLower(text[loc[2]:loc[3]])
	for _, scheme := range urlSchemes {
		if strings.HasPrefix(path, scheme) {
			return false
		}
	}

	if d.multiHash && start+strings.Index(text[start:], d.cfg.Hash) != loc[4] {
		return false
	}
	return true
}

// FindAll returns every accepted candidate in order of appearance
func (d *Detector) FindAll(text string) []Match {
	locs := d.FindAllIndex(text)
	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		matches = append(matches, newMatch(text, loc))
	}
	return matches
}

// Detect finds and parses every link in text. Candidates that do not parse
// are plain text and are skipped. Portable links are found even when their
// embedded delimiters differ from the detector's.
func (d *Detector) Detect(text string) []DetectedLink {
	var links []DetectedLink
	for _, m := range d.FindAll(text) {
		if res := d.parser.Parse(m.Text); res.OK() {
			links = append(links, DetectedLink{Match: m, Link: *res.Link})
		}
	}

	for _, m := range d.findForeignPortable(text) {
		if overlapsAny(m, links) {
			continue
		}
		if res := d.parser.Parse(m.Text); res.OK() {
			links = append(links, DetectedLink{Match: m, Link: *res.Link})
		}
	}

	sort.SliceStable(links, func(i, j int) bool {
		return links[i].Start < links[j].Start
	})
	return links
}

func (d *Detector) findForeignPortable(text string) []Match {
	if !strings.Contains(text, PortableSeparator) {
		return nil
	}
	var matches []Match
	for _, loc := range foreignPortablePattern.FindAllStringIndex(text, -1) {
		if loc[0] > 0 {
			prev, _ := utf8.DecodeLastRuneInString(text[:loc[0]])
			if isURLBodyRune(prev) {
				continue
			}
		}
		matches = append(matches, Match{
			Text:   text[loc[0]:loc[1]],
			Start:  loc[0],
			End:    loc[1],
			Groups: []string{text[loc[0]:loc[1]]},
		})
	}
	return matches
}

func overlapsAny(m Match, links []DetectedLink) bool {
	for _, l := range links {
		if m.Start < l.End && l.Start < m.End {
			return true
		}
	}
	return false
}

func newMatch(text string, loc []int) Match {
	groups := make([]string, len(loc)/2)
	for i := range groups {
		if s, e := loc[2*i], loc[2*i+1]; s >= 0 {
			groups[i] = text[s:e]
		}
	}
	return Match{
		Text:   groups[0],
		Start:  loc[0],
		End:    loc[1],
		Groups: groups,
	}
}

// isURLBodyRune reports characters that may appear inside a URL
func isURLBodyRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("-._~:/?#[]@!$&*+,;=%", r)
}

var detectorCache sync.Map // DelimiterConfig -> *Detector

// DetectorFor returns a cached detector for cfg
func DetectorFor(cfg DelimiterConfig) *Detector {
	if cached, ok := detectorCache.Load(cfg); ok {
		return cached.(*Detector)
	}
	d := NewDetector(cfg)
	actual, _ := detectorCache.LoadOrStore(cfg, d)
	return actual.(*Detector)
}
