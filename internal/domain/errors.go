package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing record.
	ErrNotFound = errors.New("not found")
	// ErrCollectionNotFound signals a collection the viewer cannot read.
	// Missing and forbidden collections are reported the same way.
	ErrCollectionNotFound = errors.New("collection not accessible")
	// ErrInvalidSelection signals a malformed search selection.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrUnauthenticated signals an unknown bearer token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrStructureServiceUnavailable signals a failing structure standardization service.
	ErrStructureServiceUnavailable = errors.New("structure service unavailable")
)

// SelectionError wraps ErrInvalidSelection with the offending field.
type SelectionError struct {
	Field  string
	Reason string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidSelection.Error(), e.Field, e.Reason)
}

func (e *SelectionError) Unwrap() error { return ErrInvalidSelection }

// NewSelectionError creates a field-level selection error.
func NewSelectionError(field, reason string) error {
	return &SelectionError{Field: field, Reason: reason}
}
