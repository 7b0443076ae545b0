// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrEmptyLedger      = errors.New("ledger contains no trades")
	ErrMissingColumn    = errors.New("required column missing")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrDataNotFound     = errors.New("data not found")
	ErrDatabaseError    = errors.New("database error")
	ErrExplainerOffline = errors.New("explainer unavailable")
	ErrUnknownRisk      = errors.New("unknown risk name")
)

// ValidationError represents a validation error in an uploaded ledger row.
type ValidationError struct {
	Row     int
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: row %d field %s (%v): %s", e.Row, e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(row int, field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Row:     row,
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ConfigError represents a configuration problem found at load time.
type ConfigError struct {
	Section string
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error [%s.%s]: %s", e.Section, e.Key, e.Message)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(section, key, message string) *ConfigError {
	return &ConfigError{
		Section: section,
		Key:     key,
		Message: message,
	}
}

// DataError represents a data-related error.
type DataError struct {
	DataType string
	Source   string
	Message  string
	Err      error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.DataType, e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.DataType, e.Source, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(dataType, source, message string, err error) *DataError {
	return &DataError{
		DataType: dataType,
		Source:   source,
		Message:  message,
		Err:      err,
	}
}

// ExplainError represents a failure in the AI explainer collaborator.
// The analysis result remains valid regardless; callers substitute demo
// content rather than propagate this into the rendering path.
type ExplainError struct {
	Provider  string
	Operation string
	Err       error
}

func (e *ExplainError) Error() string {
	return fmt.Sprintf("explain error [%s] %s: %v", e.Provider, e.Operation, e.Err)
}

func (e *ExplainError) Unwrap() error {
	return e.Err
}

// NewExplainError creates a new ExplainError.
func NewExplainError(provider, operation string, err error) *ExplainError {
	return &ExplainError{
		Provider:  provider,
		Operation: operation,
		Err:       err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
