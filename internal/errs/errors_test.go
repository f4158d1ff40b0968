package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorSentinel(t *testing.T) {
	err := NewValidationError("currency", "unknown currency")
	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrNotFound))

	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.Equal(t, "unknown currency", vErr.Fields["currency"])
}

func TestValidationErrorAdd(t *testing.T) {
	err := NewValidationError("price", "required").Add("cost", "required")
	assert.Len(t, err.Fields, 2)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestNotFoundErrorSentinel(t *testing.T) {
	err := NewNotFoundError("order", 42)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "order not found: 42", err.Error())

	// survives wrapping
	wrapped := fmt.Errorf("loading detail: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
}

func TestInvariantViolationSentinel(t *testing.T) {
	cause := errors.New("duplicate key")
	err := NewInvariantViolation("friendly id collision persists", cause)
	assert.True(t, errors.Is(err, ErrInvariantViolation))
	assert.Contains(t, err.Error(), "friendly id collision persists")
	assert.Contains(t, err.Error(), "duplicate key")

	bare := NewInvariantViolation("totals diverged", nil)
	assert.Equal(t, "invariant violation: totals diverged", bare.Error())
}
