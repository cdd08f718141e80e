package model

import "fmt"

// ParseError represents a failure to read the raw input before any
// structural binding happens (malformed XML, unreadable content).
type ParseError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NewParseError creates a new parse error
func NewParseError(field, message string, cause error) *ParseError {
	return &ParseError{
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// UnknownVersionError is returned when the root version attribute is
// absent, unreadable, or not one of the supported schema versions. It is
// deliberately distinct from ValidationError so callers can skip the
// document instead of failing hard.
type UnknownVersionError struct {
	Raw string
}

func (e *UnknownVersionError) Error() string {
	if e.Raw == "" {
		return "no CFDI version determined"
	}
	return fmt.Sprintf("unsupported CFDI version %q", e.Raw)
}

// ValidationError represents a structural validation failure: a missing
// required field, a malformed value, a precision violation, or a
// catalog-membership miss. Path identifies the offending attribute from
// the document root, e.g. "Comprobante/Conceptos/Concepto[2]/Importe".
type ValidationError struct {
	Path    string
	Value   interface{}
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation failed on %s: %s (value=%v, rule=%s)", e.Path, e.Message, e.Value, e.Rule)
	}
	return fmt.Sprintf("validation failed on %s: %s (rule=%s)", e.Path, e.Message, e.Rule)
}

// NewValidationError creates a new validation error
func NewValidationError(path string, value interface{}, rule, message string) *ValidationError {
	return &ValidationError{
		Path:    path,
		Value:   value,
		Rule:    rule,
		Message: message,
	}
}
