// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrDataIntegrity    = errors.New("data integrity violation")
	ErrDataNotFound     = errors.New("data not found")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrProviderFailed   = errors.New("all data providers failed")
	ErrDatabaseError    = errors.New("database error")
)

// InsufficientDataError reports a series too short to analyze. It wraps
// ErrInsufficientData so callers can match with errors.Is.
type InsufficientDataError struct {
	Got  int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: got %d bars, need at least %d", e.Got, e.Need)
}

func (e *InsufficientDataError) Unwrap() error {
	return ErrInsufficientData
}

// NewInsufficientDataError creates a new InsufficientDataError.
func NewInsufficientDataError(got, need int) *InsufficientDataError {
	return &InsufficientDataError{Got: got, Need: need}
}

// DataIntegrityError reports OHLC invariant violations beyond tolerance.
// The caller should retry against an alternate data source.
type DataIntegrityError struct {
	Violations int
	Total      int
	Reason     string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity violation: %s (%d of %d bars)", e.Reason, e.Violations, e.Total)
}

func (e *DataIntegrityError) Unwrap() error {
	return ErrDataIntegrity
}

// NewDataIntegrityError creates a new DataIntegrityError.
func NewDataIntegrityError(reason string, violations, total int) *DataIntegrityError {
	return &DataIntegrityError{Reason: reason, Violations: violations, Total: total}
}

// DataError represents an error from the data provider layer.
type DataError struct {
	Provider string
	Symbol   string
	Message  string
	Err      error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.Provider, e.Symbol, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.Provider, e.Symbol, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(provider, symbol, message string, err error) *DataError {
	return &DataError{
		Provider: provider,
		Symbol:   symbol,
		Message:  message,
		Err:      err,
	}
}

// DatabaseError represents a failure in the local cache layer. It wraps
// ErrDatabaseError so callers can match with errors.Is.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database error: %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return ErrDatabaseError
}

// NewDatabaseError creates a new DatabaseError.
func NewDatabaseError(op string, err error) *DatabaseError {
	return &DatabaseError{Op: op, Err: err}
}

// ValidationError represents a configuration or input validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
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
