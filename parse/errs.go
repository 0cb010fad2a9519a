package parse

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is wrapped by every SyntaxError.
	ErrSyntax = errors.New("syntax error")
	// ErrOutOfSync is wrapped by every OutOfSyncError.
	ErrOutOfSync = errors.New("document out of sync")
)

// SyntaxError reports malformed input with the 1-based line and column
// of the offending character.
type SyntaxError struct {
	Msg  string
	Line int
	Col  int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// OutOfSyncError reports a top-level key present in the document but
// absent from the caller's set of known fields.
type OutOfSyncError struct {
	Field string
	Line  int
	Col   int
}

func (e *OutOfSyncError) Error() string {
	return fmt.Sprintf("%d:%d: unknown field %q", e.Line, e.Col, e.Field)
}

func (e *OutOfSyncError) Unwrap() error {
	return ErrOutOfSync
}
