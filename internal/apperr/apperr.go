// Package apperr defines the error kinds the quiz core reports to its callers.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound means there is nothing to show for the request; the caller should pick another mode.
	ErrNotFound = errors.New("not found")
	// ErrValidation means imported or added content was rejected and prior state was kept.
	ErrValidation = errors.New("validation failed")
	// ErrIO is a disk read or write failure.
	ErrIO = errors.New("io failure")
	// ErrParse is a corrupt document. It is handled like ErrIO for fallback purposes.
	ErrParse = errors.New("parse failure")
)

// ValidationError carries per-field or per-row messages.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates a ValidationError from field messages
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e.Fields[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// SaveError reports a degraded save: some documents may not have reached disk.
type SaveError struct {
	Document string
	Restored bool
	Err      error
}

func (e *SaveError) Error() string {
	state := "backup restore failed"
	if e.Restored {
		state = "restored from backup"
	}
	return fmt.Sprintf("degraded save of %s (%s): %v", e.Document, state, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrIO) match.
func (e *SaveError) Is(target error) bool {
	return target == ErrIO
}
