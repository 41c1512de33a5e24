package repository

import (
	"fmt"

	"quill/internal/errors"
)

// Kind enumerates the persistence failures a use case can act on.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindUniqueViolation
	KindForeignKeyViolation
	KindNotNullViolation
	KindCheckViolation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindUniqueViolation:
		return "unique violation"
	case KindForeignKeyViolation:
		return "foreign key violation"
	case KindNotNullViolation:
		return "not null violation"
	case KindCheckViolation:
		return "check violation"
	default:
		return "unknown"
	}
}

// Error is returned by repository adapters. Op names the failed operation
// and Err keeps the driver error for logging.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// NewError classifies err as kind for the operation op.
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}

	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets the sentinels below match any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

var (
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrUniqueViolation     = &Error{Kind: KindUniqueViolation}
	ErrForeignKeyViolation = &Error{Kind: KindForeignKeyViolation}
)

// KindOf returns the classification carried by err, or KindUnknown.
func KindOf(err error) Kind {
	if repoErr, ok := errors.AsType[*Error](err); ok {
		return repoErr.Kind
	}

	return KindUnknown
}
