package hfa

import (
	"errors"
	"fmt"
)

var (
	// ErrNotHFA is returned when a container does not start with the HFA header tag.
	ErrNotHFA = errors.New("hfa: missing EHFA_HEADER_TAG")

	// ErrCorrupt is returned when an offset or length points outside the container.
	ErrCorrupt = errors.New("hfa: corrupt container")

	// ErrFieldNotFound is returned when a field path names no field, or an index is out of range.
	ErrFieldNotFound = errors.New("hfa: field not found")

	// ErrTypeMismatch is returned when a stored field cannot be read as the requested scalar.
	ErrTypeMismatch = errors.New("hfa: field type mismatch")

	// ErrUnknownType is returned when an entry's type is absent from the dictionary.
	ErrUnknownType = errors.New("hfa: type not in dictionary")
)

// FieldError records a failed field read on an entry.
type FieldError struct {
	Entry string // entry name
	Type  string // entry type
	Path  string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s (%s): field %q: %v", e.Entry, e.Type, e.Path, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// SyntaxError reports a malformed schema dictionary.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("hfa: dictionary syntax error at %d: %s", e.Offset, e.Msg)
}
