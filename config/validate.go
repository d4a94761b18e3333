package config

import (
	"github.com/teranos/rangelink/errors"
	"github.com/teranos/rangelink/link"
)

// Validate checks the enum and numeric settings. Delimiters are validated
// during Load and never make a config invalid.
func (c *Config) Validate() error {
	if _, ok := link.ParseRangeNotation(c.Format.Notation); !ok {
		return errors.WithHint(
			errors.Newf("format.notation must be auto, full-line or positions, got %q", c.Format.Notation),
			"omit the key for auto")
	}
	if _, ok := link.ParsePathFormat(c.Format.PathFormat); !ok {
		return errors.Newf("format.path_format must be relative or absolute, got %q", c.Format.PathFormat)
	}
	if _, ok := link.ParseQuoteStyle(c.Format.Quote); !ok {
		return errors.Newf("format.quote must be none, link or shell, got %q", c.Format.Quote)
	}

	// 0 is invalid (omit for default), negative is invalid
	if c.LSP.MaxDocuments <= 0 {
		return errors.Newf("lsp.max_documents must be > 0, got %d (omit for default %d)", c.LSP.MaxDocuments, DefaultMaxDocuments)
	}

	return nil
}

// ValidateValue checks a single key/value pair before it is persisted.
// Delimiters are checked field by field here; SetValue checks the set.
func ValidateValue(key, value string) error {
	if !IsKnownKey(key) {
		return errors.WithHintf(errors.NewNotFoundError("config key %q", key), "known keys: %v", Keys)
	}

	if field, ok := fieldForKey(key); ok {
		if derr := link.ValidateField(field, value); derr != nil {
			return errors.Wrap(errors.ErrInvalidDelimiters, derr.Error())
		}
		return nil
	}

	c := Config{
		Format: FormatConfig{Notation: DefaultNotation, PathFormat: DefaultPathFormat, Quote: DefaultQuote},
		LSP:    LSPConfig{MaxDocuments: DefaultMaxDocuments},
	}
	switch key {
	case KeyFormatNotation:
		c.Format.Notation = value
	case KeyFormatPathFormat:
		c.Format.PathFormat = value
	case KeyFormatQuote:
		c.Format.Quote = value
	case KeyLSPMaxDocuments:
		n, err := parseInt(value)
		if err != nil {
			return errors.Wrapf(err, "lsp.max_documents must be an integer")
		}
		c.LSP.MaxDocuments = n
	}
	return c.Validate()
}
