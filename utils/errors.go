package utils

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorKind classifies failures for the handler boundary
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindInternal
)

const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeOutOfTripBounds  = "OUT_OF_TRIP_BOUNDS"
	CodeTimeConflict     = "TIME_CONFLICT"
	CodeSplitSumMismatch = "SPLIT_SUM_MISMATCH"
	CodeSlugConflict     = "SLUG_CONFLICT"
	CodeEmailTaken       = "EMAIL_TAKEN"
	CodeNotFound         = "NOT_FOUND"
	CodeForbidden        = "FORBIDDEN"
	CodeOwnerRemoval     = "OWNER_REMOVAL"
	CodeConflict         = "CONFLICT"
	CodeUnauthenticated  = "UNAUTHENTICATED"
	CodeInternal         = "INTERNAL"
)

// AppError is the error type every service returns for expected failures
type AppError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Details interface{}
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Status maps the error kind to an HTTP status code
func (e *AppError) Status() int {
	switch e.Kind {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindUnauthenticated:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// WithDetails attaches a response payload describing the failure
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// WithCode overrides the machine readable code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

func NewValidationError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NewUnauthenticatedError(message string) *AppError {
	return &AppError{Kind: KindUnauthenticated, Code: CodeUnauthenticated, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Kind: KindForbidden, Code: CodeForbidden, Message: message}
}

func NewNotFoundError(what string) *AppError {
	return &AppError{Kind: KindNotFound, Code: CodeNotFound, Message: what + " not found"}
}

func NewConflictError(code, message string) *AppError {
	return &AppError{Kind: KindConflict, Code: code, Message: message}
}

// NewInternalError wraps an unexpected store or runtime failure
func NewInternalError(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Code: CodeInternal, Message: message, Err: err}
}

// AsAppError extracts an *AppError from err, if any
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err is an *AppError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Kind == kind
}
