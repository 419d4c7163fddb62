package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a track identifier absent from the catalog.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate track identifier.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidArgument signals a domain constraint violation (k <= 0, bad feature data).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrEmptyCatalog signals that there are no tracks to index or recommend from.
	ErrEmptyCatalog = errors.New("empty catalog")
	// ErrIndexBuild signals degenerate input that cannot back a neighbor index.
	ErrIndexBuild = errors.New("index build failure")
)

// ConstantColumnError wraps ErrInvalidArgument for a feature column whose
// min equals its max, which makes min-max scaling undefined.
type ConstantColumnError struct {
	Column string
	Value  float64
}

func (e *ConstantColumnError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s: constant column (all values %g)", ErrInvalidArgument.Error(), e.Value)
	}
	return fmt.Sprintf("%s: column %q is constant (all values %g)", ErrInvalidArgument.Error(), e.Column, e.Value)
}

func (e *ConstantColumnError) Unwrap() error { return ErrInvalidArgument }

// ParseError wraps ErrInvalidArgument with the source location of a malformed catalog record.
type ParseError struct {
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s: line %d: %v", ErrInvalidArgument.Error(), e.Line, e.Err)
	}
	return fmt.Sprintf("%s: line %d, column %q: %v", ErrInvalidArgument.Error(), e.Line, e.Column, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *ParseError) Unwrap() []error { return []error{ErrInvalidArgument, e.Err} }
