package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across rangelink.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"
	FieldOperation = "operation"

	// Links and delimiters
	FieldLink      = "link"
	FieldPath      = "path"
	FieldDelimiter = "delimiter"
	FieldSource    = "source"
	FieldNotation  = "notation"

	// Documents
	FieldURI   = "uri"
	FieldFile  = "file"
	FieldCount = "count"
	FieldSize  = "size"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError     = "error"
	FieldErrorCode = "error_code"
	FieldErrorKind = "error_kind"
)

// Context keys for propagating logging context
type contextKey string

const (
	componentKey contextKey = "logger_component"
	documentKey  contextKey = "logger_document"
)

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// WithDocument adds a document URI to the context for logging
func WithDocument(ctx context.Context, uri string) context.Context {
	return context.WithValue(ctx, documentKey, uri)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}
	if uri, ok := ctx.Value(documentKey).(string); ok && uri != "" {
		fields = append(fields, FieldURI, uri)
	}

	return fields
}

// LoggerFromContext returns a logger with fields extracted from context.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return Logger
	}
	return Logger.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Server struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func NewServer() *Server {
//	    return &Server{
//	        logger: logger.ComponentLogger("lsp.server"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
