package link

import (
	"regexp"
	"strings"

	"github.com/teranos/rangelink/internal/util"
)

// PortableSeparator frames the delimiter metadata of a portable link.
// It is reserved, so it never collides with a configured delimiter.
const PortableSeparator = "~"

// portableSuffixPattern captures body, hash, line, range and position
var portableSuffixPattern = regexp.MustCompile(`^(.*)~([^~\s]+)~([^~\s]+)~([^~\s]+)~([^~\s]+)~$`)

// portableGroup is appended to the detector expression
const portableGroup = `(~[^~\s]+~[^~\s]+~[^~\s]+~[^~\s]+~)?`

// PortableSuffix returns the metadata suffix ~hash~line~range~position~ that
// lets a reader with different delimiters parse the link
func PortableSuffix(cfg DelimiterConfig) string {
	return PortableSeparator + strings.Join([]string{cfg.Hash, cfg.Line, cfg.Range, cfg.Position}, PortableSeparator) + PortableSeparator
}

// splitPortable separates a trailing metadata suffix from the link body.
// ok is false when text carries no suffix.
func splitPortable(text string) (body string, raw RawDelimiters, ok bool) {
	m := portableSuffixPattern.FindStringSubmatch(text)
	if m == nil {
		return text, RawDelimiters{}, false
	}
	return m[1], RawDelimiters{
		Line:     util.Ptr(m[3]),
		Position: util.Ptr(m[5]),
		Hash:     util.Ptr(m[2]),
		Range:    util.Ptr(m[4]),
	}, true
}

// IsPortable reports whether text ends with a portable metadata suffix
func IsPortable(text string) bool {
	return portableSuffixPattern.MatchString(strings.TrimSpace(text))
}
