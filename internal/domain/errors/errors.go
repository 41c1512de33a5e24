// Package errors defines the application error taxonomy shared by use cases and transports.
package errors

import (
	"fmt"

	"quill/internal/errors"
)

// Kind classifies an application error. Transports map kinds to their own status codes.
type Kind int

const (
	KindInternal Kind = iota
	KindDuplicateEmail
	KindNotFound
	KindInvalidCredentials
	KindInvalidToken
	KindValidation
	KindConflict
	KindForbidden
)

var kindNames = map[Kind]string{
	KindInternal:           "InternalError",
	KindDuplicateEmail:     "DuplicateEmail",
	KindNotFound:           "NotFound",
	KindInvalidCredentials: "InvalidCredentials",
	KindInvalidToken:       "InvalidToken",
	KindValidation:         "Validation",
	KindConflict:           "Conflict",
	KindForbidden:          "Forbidden",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	Kind() Kind
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	kind      Kind
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(kind Kind, errorCode, message, details string) *BaseError {
	return &BaseError{
		kind:      kind,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

func (e *BaseError) Kind() Kind {
	return e.kind
}

func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

func (e *BaseError) Message() string {
	return e.message
}

func (e *BaseError) Details() string {
	return e.details
}

// WithDetails returns a copy carrying client-visible details.
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		kind:      e.kind,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Is matches predefined errors by code so copies from WithDetails still satisfy errors.Is.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return t.kind == e.kind && t.errorCode == e.errorCode
}

// Predefined error types
var (
	ErrDuplicateEmail = NewBaseError(
		KindDuplicateEmail,
		"DUPLICATE_EMAIL",
		"Email is already registered",
		"",
	)

	ErrInvalidCredentials = NewBaseError(
		KindInvalidCredentials,
		"INVALID_CREDENTIALS",
		"Invalid email or password",
		"",
	)

	ErrInvalidToken = NewBaseError(
		KindInvalidToken,
		"INVALID_TOKEN",
		"Invalid or expired token",
		"",
	)

	ErrPasswordStrength = NewBaseError(
		KindValidation,
		"PASSWORD_STRENGTH",
		"Password does not meet the strength policy",
		"",
	)

	ErrValidationFailed = NewBaseError(
		KindValidation,
		"VALIDATION_FAILED",
		"Input validation failed",
		"",
	)

	ErrInvalidInput = NewBaseError(
		KindValidation,
		"INVALID_INPUT",
		"Malformed request input",
		"",
	)

	ErrConflict = NewBaseError(
		KindConflict,
		"CONFLICT",
		"Resource conflict",
		"",
	)

	ErrForbidden = NewBaseError(
		KindForbidden,
		"FORBIDDEN",
		"Access denied",
		"",
	)

	ErrNotFound = NewBaseError(
		KindNotFound,
		"NOT_FOUND",
		"Resource not found",
		"",
	)

	ErrInternal = NewBaseError(
		KindInternal,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)
)

// NewNotFound reports a missing entity; the id is part of the client-visible message.
func NewNotFound(entity string, id any) *BaseError {
	return NewNotFoundBy(entity, "id", id)
}

// NewNotFoundBy reports a missing entity looked up by another unique field.
func NewNotFoundBy(entity, field string, value any) *BaseError {
	return NewBaseError(
		KindNotFound,
		"NOT_FOUND",
		fmt.Sprintf("%s with %s %v not found", entity, field, value),
		"",
	)
}

// InternalError is the opaque catch-all. The cause is kept for logs only;
// Message and Details never expose it.
type InternalError struct {
	cause error
}

// NewInternalError wraps cause as an opaque internal error.
func NewInternalError(cause error) AppError {
	return &InternalError{cause: cause}
}

func (e *InternalError) Error() string {
	if e.cause == nil {
		return ErrInternal.Message()
	}

	return errors.Wrap(e.cause, "internal error").Error()
}

func (e *InternalError) Unwrap() error {
	return e.cause
}

// Cause lets errors.Cause reach the underlying failure for logging.
func (e *InternalError) Cause() error {
	return e.cause
}

func (e *InternalError) Kind() Kind {
	return KindInternal
}

func (e *InternalError) ErrorCode() string {
	return ErrInternal.ErrorCode()
}

func (e *InternalError) Message() string {
	return ErrInternal.Message()
}

func (e *InternalError) Details() string {
	return ""
}

// KindOf returns the kind of the first AppError in err's chain, or KindInternal.
func KindOf(err error) Kind {
	if appErr, ok := errors.AsType[AppError](err); ok {
		return appErr.Kind()
	}

	return KindInternal
}
