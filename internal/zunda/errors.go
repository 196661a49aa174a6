package zunda

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed is returned when the analyzer output does not follow the line format
	ErrMalformed = errors.New("malformed analyzer output")

	// ErrEncoding is returned when raw analyzer output cannot be decoded
	ErrEncoding = errors.New("cannot decode analyzer output")

	// ErrAlreadyResolved is returned when resolution is requested twice on the same tables
	ErrAlreadyResolved = errors.New("tables already resolved")
)

// MalformedError describes a record that could not be parsed or resolved.
// Line is 1-based for records rejected while reading, and 0 for failures
// detected during cross-reference resolution.
type MalformedError struct {
	Line   int
	Text   string
	Reason string
}

func (e *MalformedError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%v: line %d %q: %s", ErrMalformed, e.Line, e.Text, e.Reason)
	}
	return fmt.Sprintf("%v: %s", ErrMalformed, e.Reason)
}

func (e *MalformedError) Unwrap() error {
	return ErrMalformed
}

func malformedf(format string, args ...any) *MalformedError {
	return &MalformedError{Reason: fmt.Sprintf(format, args...)}
}
