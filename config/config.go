// Package config loads the rangelink configuration from layered TOML files
// and the environment, tracks where each value came from, and watches the
// files for changes.
package config

import (
	"fmt"
	"strconv"

	"github.com/teranos/rangelink/errors"
	"github.com/teranos/rangelink/link"
)

// Config is the effective rangelink configuration.
// Delimiters always holds a validated set; when the configured set was
// rejected it holds the defaults and DelimiterErrors says why.
type Config struct {
	Format FormatConfig `mapstructure:"format" json:"format" toml:"format" yaml:"format"`
	LSP    LSPConfig    `mapstructure:"lsp" json:"lsp" toml:"lsp" yaml:"lsp"`

	Delimiters      link.DelimiterConfig   `mapstructure:"-" json:"delimiters" toml:"delimiters" yaml:"delimiters"`
	DelimiterErrors []*link.DelimiterError `mapstructure:"-" json:"delimiter_errors,omitempty" toml:"-" yaml:"-"`
	RawDelimiters   link.RawDelimiters     `mapstructure:"-" json:"-" toml:"-" yaml:"-"`

	// Sources maps dotted keys to the layer that supplied them; keys absent
	// here came from the built-in defaults.
	Sources map[string]SourceInfo `mapstructure:"-" json:"-" toml:"-" yaml:"-"`
	// Files lists the config files that were read, lowest precedence first
	Files []string `mapstructure:"-" json:"-" toml:"-" yaml:"-"`
}

// FormatConfig configures how links are rendered
type FormatConfig struct {
	Notation   string `mapstructure:"notation" json:"notation" toml:"notation" yaml:"notation"`          // auto | full-line | positions
	PathFormat string `mapstructure:"path_format" json:"path_format" toml:"path_format" yaml:"path_format"` // relative | absolute
	Quote      string `mapstructure:"quote" json:"quote" toml:"quote" yaml:"quote"`                    // none | link | shell
}

// LSPConfig configures the language server
type LSPConfig struct {
	MaxDocuments int `mapstructure:"max_documents" json:"max_documents" toml:"max_documents" yaml:"max_documents"` // Open documents kept in memory
}

// Configuration keys
const (
	KeyDelimiterLine     = "delimiters.line"
	KeyDelimiterPosition = "delimiters.position"
	KeyDelimiterHash     = "delimiters.hash"
	KeyDelimiterRange    = "delimiters.range"
	KeyFormatNotation    = "format.notation"
	KeyFormatPathFormat  = "format.path_format"
	KeyFormatQuote       = "format.quote"
	KeyLSPMaxDocuments   = "lsp.max_documents"
)

// Keys lists every supported key in display order
var Keys = []string{
	KeyDelimiterLine,
	KeyDelimiterPosition,
	KeyDelimiterHash,
	KeyDelimiterRange,
	KeyFormatNotation,
	KeyFormatPathFormat,
	KeyFormatQuote,
	KeyLSPMaxDocuments,
}

// delimiterKeys maps delimiter fields to their keys
var delimiterKeys = map[link.DelimiterField]string{
	link.FieldLine:     KeyDelimiterLine,
	link.FieldPosition: KeyDelimiterPosition,
	link.FieldHash:     KeyDelimiterHash,
	link.FieldRange:    KeyDelimiterRange,
}

// DelimiterKey returns the config key of a delimiter field
func DelimiterKey(field link.DelimiterField) string {
	return delimiterKeys[field]
}

// IsKnownKey reports whether key is a supported configuration key
func IsKnownKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// Get returns the effective value of a key
func (c *Config) Get(key string) (interface{}, error) {
	switch key {
	case KeyDelimiterLine:
		return c.Delimiters.Line, nil
	case KeyDelimiterPosition:
		return c.Delimiters.Position, nil
	case KeyDelimiterHash:
		return c.Delimiters.Hash, nil
	case KeyDelimiterRange:
		return c.Delimiters.Range, nil
	case KeyFormatNotation:
		return c.Format.Notation, nil
	case KeyFormatPathFormat:
		return c.Format.PathFormat, nil
	case KeyFormatQuote:
		return c.Format.Quote, nil
	case KeyLSPMaxDocuments:
		return c.LSP.MaxDocuments, nil
	default:
		return nil, errors.WithHintf(errors.NewNotFoundError("config key %q", key),
			"known keys: %v", Keys)
	}
}

// GetString returns the effective value of a key as a string
func (c *Config) GetString(key string) (string, error) {
	v, err := c.Get(key)
	if err != nil {
		return "", err
	}
	switch val := v.(type) {
	case string:
		return val, nil
	case int:
		return strconv.Itoa(val), nil
	default:
		return fmt.Sprint(val), nil
	}
}

// Source returns where a key's effective value came from.
// Rejected delimiters report the default source.
func (c *Config) Source(key string) SourceInfo {
	if len(c.DelimiterErrors) > 0 && isDelimiterKey(key) {
		return defaultSource
	}
	if si, ok := c.Sources[key]; ok {
		return si
	}
	return defaultSource
}

// RangeNotation returns the configured notation, auto when unset or unknown
func (c *Config) RangeNotation() link.RangeNotation {
	n, _ := link.ParseRangeNotation(c.Format.Notation)
	return n
}

// PathFormat returns the configured path format
func (c *Config) PathFormat() link.PathFormat {
	f, _ := link.ParsePathFormat(c.Format.PathFormat)
	return f
}

// QuoteStyle returns the configured quote style
func (c *Config) QuoteStyle() link.QuoteStyle {
	q, _ := link.ParseQuoteStyle(c.Format.Quote)
	return q
}

// FormatOptions returns formatter options built from the format section
func (c *Config) FormatOptions() link.FormatOptions {
	return link.FormatOptions{
		Notation: c.RangeNotation(),
		Quote:    c.QuoteStyle(),
	}
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Delimiters: %s%s%s%s, Format: {Notation: %s, PathFormat: %s, Quote: %s}, LSP: {MaxDocuments: %d}}",
		c.Delimiters.Hash, c.Delimiters.Line, c.Delimiters.Position, c.Delimiters.Range,
		c.Format.Notation, c.Format.PathFormat, c.Format.Quote, c.LSP.MaxDocuments)
}

func isDelimiterKey(key string) bool {
	_, ok := fieldForKey(key)
	return ok
}

func fieldForKey(key string) (link.DelimiterField, bool) {
	for field, k := range delimiterKeys {
		if k == key {
			return field, true
		}
	}
	return "", false
}
