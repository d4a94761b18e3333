package link

import (
	"regexp"
	"strings"

	"github.com/kballard/go-shellquote"
)

// safePathPattern matches paths that never need quoting
var safePathPattern = regexp.MustCompile(`^[A-Za-z0-9_\-./:]+$`)

// QuoteStyle selects how a path is protected before it is embedded in a link
type QuoteStyle string

const (
	QuoteNone  QuoteStyle = "none"  // Path embedded as-is
	QuoteLink  QuoteStyle = "link"  // Generic POSIX single quoting
	QuoteShell QuoteStyle = "shell" // Double quoting for shell/terminal destinations
)

// ParseQuoteStyle maps a config or flag value to a QuoteStyle
func ParseQuoteStyle(s string) (QuoteStyle, bool) {
	switch QuoteStyle(strings.ToLower(strings.TrimSpace(s))) {
	case QuoteNone, "":
		return QuoteNone, true
	case QuoteLink:
		return QuoteLink, true
	case QuoteShell:
		return QuoteShell, true
	default:
		return QuoteNone, false
	}
}

// IsSafePath reports whether p only contains A-Z a-z 0-9 _ - . / :
func IsSafePath(p string) bool {
	return safePathPattern.MatchString(p)
}

// QuoteLinkPath applies POSIX single quoting: embedded ' becomes '\''.
// Safe paths and paths that are already correctly single-quoted are returned unchanged.
func QuoteLinkPath(p string) string {
	if IsSafePath(p) {
		return p
	}
	if isQuotedWith(p, '\'') {
		if word, ok := unquoteWord(p); ok && singleQuote(word) == p {
			return p
		}
	}
	return singleQuote(p)
}

// QuoteShellPath wraps p in double quotes with embedded " escaped as \".
// Safe paths and paths that are already correctly double-quoted are returned unchanged.
func QuoteShellPath(p string) string {
	if IsSafePath(p) {
		return p
	}
	if isQuotedWith(p, '"') {
		if word, ok := unquoteWord(p); ok && doubleQuote(word) == p {
			return p
		}
	}
	return doubleQuote(p)
}

// QuotePath dispatches on style
func QuotePath(p string, style QuoteStyle) string {
	switch style {
	case QuoteLink:
		return QuoteLinkPath(p)
	case QuoteShell:
		return QuoteShellPath(p)
	default:
		return p
	}
}

// UnquotePath reverses QuoteLinkPath and QuoteShellPath. Paths that are not
// a single quoted word are returned unchanged.
func UnquotePath(p string) string {
	if !isQuotedWith(p, '\'') && !isQuotedWith(p, '"') {
		return p
	}
	if word, ok := unquoteWord(p); ok {
		return word
	}
	return p
}

func singleQuote(p string) string {
	return "'" + strings.ReplaceAll(p, "'", `'\''`) + "'"
}

func doubleQuote(p string) string {
	return `"` + strings.ReplaceAll(p, `"`, `\"`) + `"`
}

func isQuotedWith(p string, q byte) bool {
	return len(p) >= 2 && p[0] == q && p[len(p)-1] == q
}

// unquoteWord splits p with shell rules and succeeds only for exactly one word
func unquoteWord(p string) (string, bool) {
	words, err := shellquote.Split(p)
	if err != nil || len(words) != 1 {
		return "", false
	}
	return words[0], true
}
