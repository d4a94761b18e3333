package link

import "regexp"

// EscapeRegex escapes . * + ? ^ $ { } ( ) | [ ] \ so a delimiter can be
// embedded literally in a pattern.
func EscapeRegex(s string) string {
	return regexp.QuoteMeta(s)
}
