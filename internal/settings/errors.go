package settings

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField is returned when a field reference names no field.
	ErrUnknownField = errors.New("unknown field")
	// ErrInvalidValue is returned when text cannot be parsed as the field's kind.
	ErrInvalidValue = errors.New("invalid value")
)

// UnknownFieldError carries the closest known reference, if any.
type UnknownFieldError struct {
	Ref        string
	Suggestion string
}

func (e *UnknownFieldError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown field %q (did you mean %q?)", e.Ref, e.Suggestion)
	}
	return fmt.Sprintf("unknown field %q", e.Ref)
}

func (e *UnknownFieldError) Unwrap() error { return ErrUnknownField }

// ValidationError reports a value outside its field's documented domain.
// Set never returns it; Validate does.
type ValidationError struct {
	Field  FieldRef
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s = %q: %s", e.Field, e.Value, e.Reason)
}

// ExportError wraps a failure to write the export document.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("export: %v", e.Err)
	}
	return fmt.Sprintf("export %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// StorageError wraps a failure of the configured Store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage %s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }
