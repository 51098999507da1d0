package ziwei

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrLookupMiss   = errors.New("table lookup out of range")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindInvalidInput ErrorKind = "invalid_input"
	KindLookupMiss   ErrorKind = "lookup_miss"
)

// Error wraps an underlying error with the failing step and a kind.
type Error struct {
	Op   string
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindInvalidInput:
		return target == ErrInvalidInput
	case KindLookupMiss:
		return target == ErrLookupMiss
	}
	return false
}

// IsKind helps callers classify errors.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func invalid(op string, format string, args ...any) error {
	return &Error{Op: op, Kind: KindInvalidInput, Err: fmt.Errorf(format, args...)}
}

func lookupMiss(op string, table string, index int) error {
	return &Error{Op: op, Kind: KindLookupMiss, Err: fmt.Errorf("%s[%d]", table, index)}
}
