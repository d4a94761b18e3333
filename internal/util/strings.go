package util

import (
	"strings"
	"unicode"
)

// ContainsDigit reports whether s contains any Unicode decimal digit.
func ContainsDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

// ContainsWhitespace reports whether s contains any Unicode whitespace.
func ContainsWhitespace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}

// IsBlank reports whether s is empty after trimming whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
