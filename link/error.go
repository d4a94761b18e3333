package link

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/teranos/rangelink/errors"
)

// ErrorSeverity indicates the severity level of a parse error
type ErrorSeverity string

const (
	SeverityError   ErrorSeverity = "error"   // Text cannot be navigated
	SeverityWarning ErrorSeverity = "warning" // Navigable, but suspicious
)

// ErrorKind categorizes parse errors for programmatic handling
type ErrorKind string

const (
	ErrorKindMalformed        ErrorKind = "malformed"         // No link structure found
	ErrorKindInvalidLine      ErrorKind = "invalid_line"      // Line number missing, < 1 or too large
	ErrorKindInvalidCharacter ErrorKind = "invalid_character" // Character number < 1 or too large
	ErrorKindURLPath          ErrorKind = "url_path"          // Path looks like a URL
	ErrorKindInvertedRange    ErrorKind = "inverted_range"    // End before start
	ErrorKindPortableMetadata ErrorKind = "portable_metadata" // Embedded delimiters are invalid
)

// ErrorContext selects how an error is rendered
type ErrorContext int

const (
	ErrorContextPlain    ErrorContext = iota // Logs, LSP, MCP
	ErrorContextTerminal                     // Colored CLI output
)

// ParseError represents a structured parse failure
type ParseError struct {
	Err         error         // Underlying error, ErrInvalidLink unless replaced
	Kind        ErrorKind     // Error category
	Severity    ErrorSeverity // Error severity
	Message     string        // Human-readable message
	Input       string        // Text handed to the parser
	Suggestions []string      // Possible fixes
}

// Error implements error interface
func (e *ParseError) Error() string {
	return e.FormatError(ErrorContextPlain)
}

// FormatError generates context-appropriate error message
func (e *ParseError) FormatError(ctx ErrorContext) string {
	if ctx == ErrorContextTerminal {
		return e.formatTerminalError()
	}
	return e.formatPlainError()
}

// formatPlainError creates concise error for logs and protocol responses
func (e *ParseError) formatPlainError() string {
	msg := e.Message
	if e.Input != "" {
		msg += fmt.Sprintf(" (in %q)", e.Input)
	}
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(". Suggestions: %s", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// formatTerminalError creates rich colored error for terminal
func (e *ParseError) formatTerminalError() string {
	var baseMsg string
	switch e.Severity {
	case SeverityWarning:
		baseMsg = pterm.Yellow(e.Message)
	default:
		baseMsg = pterm.Red(e.Message)
	}

	context := ""
	if e.Input != "" {
		context = fmt.Sprintf("\n\n%s\n  %s %s", pterm.LightCyan("Context:"), pterm.Yellow("Input:"), e.Input)
		context += fmt.Sprintf("\n  %s %s", pterm.Yellow("Kind:"), e.Kind)
	}

	if len(e.Suggestions) > 0 {
		context += fmt.Sprintf("\n\n%s", pterm.Green("Suggestions:"))
		for _, suggestion := range e.Suggestions {
			context += fmt.Sprintf("\n  • %s", suggestion)
		}
	}

	return baseMsg + context
}

// Unwrap for errors.Is/As compatibility
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError with the given kind and message
func NewParseError(kind ErrorKind, message string) *ParseError {
	return &ParseError{
		Err:      errors.ErrInvalidLink,
		Kind:     kind,
		Severity: SeverityError,
		Message:  message,
	}
}

// WithInput records the text that failed to parse
func (e *ParseError) WithInput(input string) *ParseError {
	e.Input = input
	return e
}

// WithSuggestion adds a suggestion for fixing the error
func (e *ParseError) WithSuggestion(suggestion string) *ParseError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithUnderlying sets the underlying error
func (e *ParseError) WithUnderlying(err error) *ParseError {
	e.Err = err
	return e
}
