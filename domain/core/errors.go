package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions. Every failure that aborts an
// analysis run wraps one of these sentinels so callers can classify with
// errors.Is regardless of the context attached along the way.
var (
	// Extraction errors
	ErrContainerOpen = errors.New("container open failed")
	ErrMissingSheet  = errors.New("worksheet stream not found")
	ErrEmptyGrid     = errors.New("no rows found in worksheet")

	// Selection errors
	ErrColumnNotFound   = errors.New("column not found")
	ErrNoEligibleColumn = errors.New("no column meets the minimum sample threshold")
	ErrEmptySample      = errors.New("no eligible values in sample")
)

// Error constructors with context

func NewContainerOpenError(path string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrContainerOpen, path, cause)
}

func NewMissingSheetError(sheetPath string) error {
	return fmt.Errorf("%w: %s", ErrMissingSheet, sheetPath)
}

func NewEmptyGridError(sheetPath string) error {
	return fmt.Errorf("%w: %s", ErrEmptyGrid, sheetPath)
}

func NewColumnNotFoundError(column string, headers []string) error {
	return fmt.Errorf("%w: %q not in headers %v", ErrColumnNotFound, column, headers)
}

func NewNoEligibleColumnError(minCount int) error {
	return fmt.Errorf("%w: minimum count %d", ErrNoEligibleColumn, minCount)
}

func NewEmptySampleError(column string) error {
	return fmt.Errorf("%w: column %q", ErrEmptySample, column)
}
