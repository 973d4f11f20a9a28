// Package errors holds the typed errors of KanjiLens. Each type unwraps
// onto a sentinel so callers can test the kind with Is.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is the sentinel of malformed dictionaries, rejected
	// values and unparsable files.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidConfig is the sentinel of rejected configuration.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// DictionaryFormatError reports a ranked dictionary that is not a sequence
// of character groups. Group is the 0-based group index, or -1 when the
// dictionary as a whole is malformed.
type DictionaryFormatError struct {
	Source  string // Dictionary name or path, if known
	Group   int
	Message string
	Err     error
}

func (e *DictionaryFormatError) Error() string {
	msg := "malformed dictionary"
	if e.Source != "" {
		msg += " " + e.Source
	}
	if e.Group >= 0 {
		msg += fmt.Sprintf(" (group %d)", e.Group)
	}
	return msg + ": " + e.Message
}

func (e *DictionaryFormatError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// ConfigurationError reports configuration that is rejected before any
// per-character work begins.
type ConfigurationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid configuration for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid configuration: %s", e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidConfig
}

// ValidationError reports a rejected user-supplied value, such as a
// setting, an info page template or an annotation request.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// IOError wraps a failed file or database operation.
type IOError struct {
	Operation string // "read", "write", "open"
	Path      string
	Err       error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError reports a configuration or document that could not be
// decoded.
type ParseError struct {
	Format  string // "yaml", "xhtml"
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// NewDictionaryFormat creates a DictionaryFormatError for the given group.
func NewDictionaryFormat(source string, group int, message string) *DictionaryFormatError {
	return &DictionaryFormatError{
		Source:  source,
		Group:   group,
		Message: message,
	}
}

// NewConfiguration reports a rejected configuration field.
func NewConfiguration(field, message string) *ConfigurationError {
	return &ConfigurationError{
		Field:   field,
		Message: message,
	}
}

// NewValidation reports a rejected value.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewIO wraps err from operation on path.
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewParse reports an undecodable file.
func NewParse(format, path, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Path:    path,
		Message: message,
	}
}

// Is is errors.Is, re-exported so callers need a single import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
