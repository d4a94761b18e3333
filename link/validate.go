package link

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/teranos/rangelink/errors"
	"github.com/teranos/rangelink/internal/util"
)

// DelimiterErrorCode is a stable identifier for a delimiter validation failure
type DelimiterErrorCode string

const (
	CodeDelimiterEmpty             DelimiterErrorCode = "DELIMITER_EMPTY"
	CodeDelimiterDigits            DelimiterErrorCode = "DELIMITER_DIGITS"
	CodeDelimiterWhitespace        DelimiterErrorCode = "DELIMITER_WHITESPACE"
	CodeDelimiterReserved          DelimiterErrorCode = "DELIMITER_RESERVED"
	CodeHashNotSingleChar          DelimiterErrorCode = "HASH_NOT_SINGLE_CHAR"
	CodeDelimiterNotUnique         DelimiterErrorCode = "DELIMITER_NOT_UNIQUE"
	CodeDelimiterSubstringConflict DelimiterErrorCode = "DELIMITER_SUBSTRING_CONFLICT"
)

// ReservedDelimiters can never be used as a delimiter.
// ~ separates portable link metadata; the rest collide with paths and URLs.
var ReservedDelimiters = []string{"~", "|", "/", `\`, ":", ",", "@"}

// DelimiterError describes one rejected field or one rejected pair of fields
type DelimiterError struct {
	Code       DelimiterErrorCode `json:"code"`
	Field      DelimiterField     `json:"field"`
	Value      string             `json:"value"`
	Other      DelimiterField     `json:"other,omitempty"`
	OtherValue string             `json:"other_value,omitempty"`
	Message    string             `json:"message"`
}

// Error implements error interface
func (e *DelimiterError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ValidationResult is the outcome of ValidateDelimiters.
// Config is either the fully valid user config or the defaults, never a mix.
type ValidationResult struct {
	Config       DelimiterConfig   `json:"config"`
	Errors       []*DelimiterError `json:"errors,omitempty"`
	UsedDefaults bool              `json:"used_defaults"`
}

// Valid reports whether no errors were found
func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Codes returns the error codes in the order they were found
func (r ValidationResult) Codes() []DelimiterErrorCode {
	codes := make([]DelimiterErrorCode, len(r.Errors))
	for i, e := range r.Errors {
		codes[i] = e.Code
	}
	return codes
}

// Err folds the errors into a single error marked with ErrInvalidDelimiters,
// or nil when the result is valid
func (r ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Error()
	}
	err := errors.Wrap(errors.ErrInvalidDelimiters, strings.Join(msgs, "; "))
	return errors.WithHint(err, "falling back to the default delimiters L, C, # and -")
}

// ValidateDelimiters checks raw candidates and never fails.
//
// All fields unset yields the defaults silently. A field left unset while
// others are configured takes its default value. Field errors are reported
// alone; relationship checks only run once every field passes on its own.
func ValidateDelimiters(raw RawDelimiters) ValidationResult {
	if raw.IsEmpty() {
		return ValidationResult{Config: DefaultDelimiters(), UsedDefaults: true}
	}

	defaults := DefaultDelimiters()
	values := make(map[DelimiterField]string, len(DelimiterFields))
	var errs []*DelimiterError

	for _, field := range DelimiterFields {
		value := defaults.Get(field)
		if v := raw.Get(field); v != nil {
			value = strings.TrimSpace(*v)
		}
		values[field] = value
		if err := validateField(field, value); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return ValidationResult{Config: defaults, Errors: errs, UsedDefaults: true}
	}

	errs = validateRelationships(values)
	if len(errs) > 0 {
		return ValidationResult{Config: defaults, Errors: errs, UsedDefaults: true}
	}

	return ValidationResult{Config: DelimiterConfig{
		Line:     values[FieldLine],
		Position: values[FieldPosition],
		Hash:     values[FieldHash],
		Range:    values[FieldRange],
	}}
}

// ValidateField checks one candidate on its own, without the relationship
// rules that need the other three fields
func ValidateField(field DelimiterField, value string) *DelimiterError {
	return validateField(field, strings.TrimSpace(value))
}

// validateField applies the per-field rules in priority order
func validateField(field DelimiterField, value string) *DelimiterError {
	newErr := func(code DelimiterErrorCode, format string, args ...interface{}) *DelimiterError {
		return &DelimiterError{
			Code:    code,
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf("%s delimiter ", field) + fmt.Sprintf(format, args...),
		}
	}

	switch {
	case value == "":
		return newErr(CodeDelimiterEmpty, "must not be empty")
	case util.ContainsDigit(value):
		return newErr(CodeDelimiterDigits, "%q must not contain digits", value)
	case util.ContainsWhitespace(value):
		return newErr(CodeDelimiterWhitespace, "%q must not contain whitespace", value)
	case isReserved(value):
		return newErr(CodeDelimiterReserved, "%q is a reserved character", value)
	case field == FieldHash && utf8.RuneCountInString(value) != 1:
		return newErr(CodeHashNotSingleChar, "%q must be exactly one character", value)
	}
	return nil
}

func isReserved(value string) bool {
	for _, r := range ReservedDelimiters {
		if value == r {
			return true
		}
	}
	return false
}

// validateRelationships checks every pair once. Identical pairs report
// DELIMITER_NOT_UNIQUE only; substring conflicts are for different strings.
func validateRelationships(values map[DelimiterField]string) []*DelimiterError {
	var errs []*DelimiterError

	for i := 0; i < len(DelimiterFields); i++ {
		for j := i + 1; j < len(DelimiterFields); j++ {
			a, b := DelimiterFields[i], DelimiterFields[j]
			va, vb := values[a], values[b]
			la, lb := strings.ToLower(va), strings.ToLower(vb)

			switch {
			case la == lb:
				errs = append(errs, &DelimiterError{
					Code:       CodeDelimiterNotUnique,
					Field:      a,
					Value:      va,
					Other:      b,
					OtherValue: vb,
					Message:    fmt.Sprintf("%s delimiter %q equals %s delimiter %q (case-insensitive)", a, va, b, vb),
				})
			case strings.Contains(la, lb) || strings.Contains(lb, la):
				errs = append(errs, &DelimiterError{
					Code:       CodeDelimiterSubstringConflict,
					Field:      a,
					Value:      va,
					Other:      b,
					OtherValue: vb,
					Message:    fmt.Sprintf("%s delimiter %q and %s delimiter %q overlap (case-insensitive)", a, va, b, vb),
				})
			}
		}
	}

	return errs
}
