package errors

import (
	"errors"
	"fmt"

	"ledgerscope/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeFromError(err),
		Message: message,
		Cause:   err,
	}
}

// GetCode returns the error code if it's an AppError, otherwise classifies
// the wrapped domain sentinel.
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeFromError(err)
}

// Predefined error codes
const (
	CodeContainerOpen    = "CONTAINER_OPEN"
	CodeMissingSheet     = "MISSING_SHEET"
	CodeEmptyGrid        = "EMPTY_GRID"
	CodeColumnNotFound   = "COLUMN_NOT_FOUND"
	CodeNoEligibleColumn = "NO_ELIGIBLE_COLUMN"
	CodeEmptySample      = "EMPTY_SAMPLE"
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeInternalError    = "INTERNAL_ERROR"
)

// CodeFromError maps domain sentinels onto error codes.
func CodeFromError(err error) string {
	switch {
	case errors.Is(err, core.ErrContainerOpen):
		return CodeContainerOpen
	case errors.Is(err, core.ErrMissingSheet):
		return CodeMissingSheet
	case errors.Is(err, core.ErrEmptyGrid):
		return CodeEmptyGrid
	case errors.Is(err, core.ErrColumnNotFound):
		return CodeColumnNotFound
	case errors.Is(err, core.ErrNoEligibleColumn):
		return CodeNoEligibleColumn
	case errors.Is(err, core.ErrEmptySample):
		return CodeEmptySample
	default:
		return CodeInternalError
	}
}

// ConfigInvalid builds a configuration error.
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}
