// Package errs defines the error taxonomy shared by the services and
// the transport layer: validation failures, missing records and
// invariant violations. Each type carries a sentinel for errors.Is
// checks so handlers can map errors to status codes without string
// matching.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrInvariantViolation = errors.New("invariant violation")
)

// ValidationError reports malformed or missing input with per-field detail.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// Add appends another field failure and returns the error for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[field] = message
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError reports a referenced record that does not exist.
type NotFoundError struct {
	Entity string
	ID     int64
}

func NewNotFoundError(entity string, id int64) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %d", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InvariantViolationError reports a state that recomputation should
// have made impossible (diverged totals, exhausted friendly-id retries).
// It indicates a storage or concurrency bug and must never be silently
// repaired.
type InvariantViolationError struct {
	Message string
	Cause   error
}

func NewInvariantViolation(message string, cause error) *InvariantViolationError {
	return &InvariantViolationError{Message: message, Cause: cause}
}

func (e *InvariantViolationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invariant violation: %s: %v", e.Message, e.Cause)
	}
	return "invariant violation: " + e.Message
}

func (e *InvariantViolationError) Unwrap() error { return ErrInvariantViolation }
