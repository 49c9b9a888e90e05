package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrSchema indicates that a batch is structurally unusable (missing or repeated columns).
var ErrSchema = errors.New("batch schema error")

// ErrThresholdBreached indicates that a batch failed the rejection threshold in strict mode.
var ErrThresholdBreached = errors.New("rejection threshold breached")

// ErrInvariantViolation indicates a valid record that does not satisfy the validated-record invariants.
var ErrInvariantViolation = errors.New("validated record invariant violated")

// SchemaError lists the structural problems found in a batch header.
type SchemaError struct {
	Missing    []string
	Duplicated []string
}

func (e *SchemaError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing columns: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Duplicated) > 0 {
		parts = append(parts, "duplicated columns: "+strings.Join(e.Duplicated, ", "))
	}
	return fmt.Sprintf("%s: %s", ErrSchema, strings.Join(parts, "; "))
}

// Unwrap lets errors.Is match ErrSchema.
func (e *SchemaError) Unwrap() error {
	return ErrSchema
}

// AppError carries an HTTP-style status code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError builds an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}
