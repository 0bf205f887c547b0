// Package runtime provides the error taxonomy, configuration and store access wrapper.
package runtime

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record is missing or belongs to another actor.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthenticated is returned when no current actor can be resolved.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNoResult is returned when a write produced neither a success nor a failure.
	ErrNoResult = errors.New("operation produced no result")

	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrTransport matches every *TransportError.
	ErrTransport = errors.New("record store failure")

	// ErrInvalidModel is returned when an entity type has no usable schema.
	ErrInvalidModel = errors.New("invalid model")
)

// ValidationError represents a rejected write, either by the store or by client-side checks.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// TransportError represents a store call that failed as a whole.
type TransportError struct {
	Op      string
	Table   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Table == "" {
		return msg
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Table, msg)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// QueryError represents a failed SQL statement in a database-backed store.
type QueryError struct {
	Query string
	Err   error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("query error: %v\nQuery: %s", e.Err, e.Query)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}
