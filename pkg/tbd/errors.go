package tbd

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrNilProvider     = errors.New("nil model provider")
	ErrInvalidOptions  = errors.New("invalid run options")
	ErrWriteBackFailed = errors.New("write back failed")
)

// Error provides structured error information for pipeline operations.
type Error struct {
	Op      string // Operation that failed (e.g., "run", "write-back")
	Entity  string // Entity type (e.g., "surface", "edge", "set")
	ID      string // Entity id (if applicable)
	Cause   error  // Underlying error
	Context string // Additional context
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.ID != "":
		return fmt.Sprintf("%s %s %q: %v", e.Op, e.Entity, e.ID, e.Cause)
	case e.Context != "":
		return fmt.Sprintf("%s %s (%s): %v", e.Op, e.Entity, e.Context, e.Cause)
	case e.Entity != "":
		return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Cause)
	}
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// ErrorBuilder provides a fluent interface for building Errors.
type ErrorBuilder struct {
	err Error
}

// NewError creates a new error builder with the given operation.
func NewError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: Error{Op: op}}
}

// Surface sets the entity to "surface" with the given id.
func (b *ErrorBuilder) Surface(id string) *ErrorBuilder {
	b.err.Entity = "surface"
	b.err.ID = id
	return b
}

// Edge sets the entity to "edge" with the given index.
func (b *ErrorBuilder) Edge(index int) *ErrorBuilder {
	b.err.Entity = "edge"
	b.err.ID = fmt.Sprint(index)
	return b
}

// Options sets the entity to "options".
func (b *ErrorBuilder) Options() *ErrorBuilder {
	b.err.Entity = "options"
	return b
}

// Context sets additional context information.
func (b *ErrorBuilder) Context(ctx string) *ErrorBuilder {
	b.err.Context = ctx
	return b
}

// Cause sets the underlying error cause.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Build returns the constructed Error.
func (b *ErrorBuilder) Build() *Error {
	return &b.err
}

// Err returns the error as an error interface.
func (b *ErrorBuilder) Err() error {
	return &b.err
}

// WriteBackError creates an error for a failed layer replacement.
func WriteBackError(surfaceID string, cause error) error {
	return NewError("write-back").Surface(surfaceID).Cause(fmt.Errorf("%w: %w", ErrWriteBackFailed, cause)).Err()
}
