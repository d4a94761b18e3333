// Package link implements the RangeLink text format: rendering a path plus a
// selection into a string such as src/auth.ts#L42C10-L58C25, finding such
// strings inside arbitrary text, and parsing them back into positions.
//
// Everything in this package is pure. Callers own the active DelimiterConfig
// and pass it to every call; there is no package-level configuration.
package link

import "github.com/teranos/rangelink/internal/util"

// Default delimiter values
const (
	DefaultLineDelimiter     = "L"
	DefaultPositionDelimiter = "C"
	DefaultHashDelimiter     = "#"
	DefaultRangeDelimiter    = "-"
)

// DelimiterField names one of the four delimiters
type DelimiterField string

const (
	FieldLine     DelimiterField = "line"
	FieldPosition DelimiterField = "position"
	FieldHash     DelimiterField = "hash"
	FieldRange    DelimiterField = "range"
)

// DelimiterFields lists the fields in validation order
var DelimiterFields = []DelimiterField{FieldLine, FieldPosition, FieldHash, FieldRange}

// DelimiterConfig holds the four marker strings that structure a link.
// A value must come out of ValidateDelimiters (or DefaultDelimiters) before use.
type DelimiterConfig struct {
	Line     string `json:"line" mapstructure:"line" toml:"line" yaml:"line"`
	Position string `json:"position" mapstructure:"position" toml:"position" yaml:"position"`
	Hash     string `json:"hash" mapstructure:"hash" toml:"hash" yaml:"hash"`
	Range    string `json:"range" mapstructure:"range" toml:"range" yaml:"range"`
}

// DefaultDelimiters returns L, C, # and -
func DefaultDelimiters() DelimiterConfig {
	return DelimiterConfig{
		Line:     DefaultLineDelimiter,
		Position: DefaultPositionDelimiter,
		Hash:     DefaultHashDelimiter,
		Range:    DefaultRangeDelimiter,
	}
}

// Get returns the value of a single field
func (c DelimiterConfig) Get(field DelimiterField) string {
	switch field {
	case FieldLine:
		return c.Line
	case FieldPosition:
		return c.Position
	case FieldHash:
		return c.Hash
	case FieldRange:
		return c.Range
	default:
		return ""
	}
}

// IsDefault reports whether c equals the default delimiters
func (c DelimiterConfig) IsDefault() bool {
	return c == DefaultDelimiters()
}

// RawDelimiters carries unvalidated delimiter candidates.
// A nil field means "not configured".
type RawDelimiters struct {
	Line     *string
	Position *string
	Hash     *string
	Range    *string
}

// IsEmpty reports whether no field is configured
func (r RawDelimiters) IsEmpty() bool {
	return r.Line == nil && r.Position == nil && r.Hash == nil && r.Range == nil
}

// Get returns the candidate for a field, or nil when it is not configured
func (r RawDelimiters) Get(field DelimiterField) *string {
	switch field {
	case FieldLine:
		return r.Line
	case FieldPosition:
		return r.Position
	case FieldHash:
		return r.Hash
	case FieldRange:
		return r.Range
	default:
		return nil
	}
}

// RawFromConfig converts a config into fully configured raw candidates
func RawFromConfig(c DelimiterConfig) RawDelimiters {
	return RawDelimiters{
		Line:     util.Ptr(c.Line),
		Position: util.Ptr(c.Position),
		Hash:     util.Ptr(c.Hash),
		Range:    util.Ptr(c.Range),
	}
}
