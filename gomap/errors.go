package gomap

import (
	"errors"
	"fmt"
)

var (
	// ErrMapping is wrapped by every MappingError.
	ErrMapping = errors.New("mapping error")
	// ErrSchema is wrapped by every SchemaError.
	ErrSchema = errors.New("schema error")
)

// MappingError reports a failure converting between a Go value and a
// document tree. FieldPath locates the failure in dotted form, such as
// "server.ports[2]".
type MappingError struct {
	FieldPath string
	Msg       string
	Err       error
}

func (e *MappingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.FieldPath, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.FieldPath, e.Msg)
}

func (e *MappingError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrMapping
}

func mapErrf(path, msg string, args ...any) *MappingError {
	return &MappingError{FieldPath: path, Msg: fmt.Sprintf(msg, args...)}
}

// SchemaError reports a Go type that cannot serve as a configuration
// schema, such as one with two fields folding to the same key.
type SchemaError struct {
	Type string
	Msg  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Msg)
}

func (e *SchemaError) Unwrap() error {
	return ErrSchema
}
