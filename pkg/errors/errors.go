/*
Package errors maps domain errors to transport-level codes.

Domain packages never know about HTTP. The API layer calls FromDomainError once
per failed request and renders the resulting AppError.
*/
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"campusfood/domain/order"
	"campusfood/domain/shared"
	"campusfood/domain/user"
)

type ErrorCode string

const (
	CodeInternal        ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest      ErrorCode = "BAD_REQUEST"
	CodeUnauthenticated ErrorCode = "UNAUTHENTICATED"
	CodeForbidden       ErrorCode = "FORBIDDEN"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeConflict        ErrorCode = "CONFLICT"
	CodeTooManyRequests ErrorCode = "TOO_MANY_REQUESTS"
	CodeValidation      ErrorCode = "VALIDATION_ERROR"
	CodePersistence     ErrorCode = "PERSISTENCE_FAILURE"

	CodeInvalidOrder           ErrorCode = "INVALID_ORDER"
	CodeItemUnavailable        ErrorCode = "ITEM_UNAVAILABLE"
	CodeCancellationNotAllowed ErrorCode = "CANCELLATION_NOT_ALLOWED"
	CodeInvalidStatus          ErrorCode = "INVALID_STATUS"
	CodeInvalidTransition      ErrorCode = "INVALID_TRANSITION"
)

var httpStatus = map[ErrorCode]int{
	CodeInternal:               http.StatusInternalServerError,
	CodePersistence:            http.StatusInternalServerError,
	CodeBadRequest:             http.StatusBadRequest,
	CodeValidation:             http.StatusBadRequest,
	CodeInvalidOrder:           http.StatusBadRequest,
	CodeItemUnavailable:        http.StatusBadRequest,
	CodeCancellationNotAllowed: http.StatusBadRequest,
	CodeInvalidStatus:          http.StatusBadRequest,
	CodeInvalidTransition:      http.StatusBadRequest,
	CodeUnauthenticated:        http.StatusUnauthorized,
	CodeForbidden:              http.StatusForbidden,
	CodeNotFound:               http.StatusNotFound,
	CodeConflict:               http.StatusConflict,
	CodeTooManyRequests:        http.StatusTooManyRequests,
}

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) HTTPStatusCode() int {
	if status, ok := httpStatus[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsServerError reports whether the message may leak internals.
func (e *AppError) IsServerError() bool {
	return e.HTTPStatusCode() >= http.StatusInternalServerError
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func BadRequest(message string) *AppError      { return New(CodeBadRequest, message) }
func NotFound(message string) *AppError        { return New(CodeNotFound, message) }
func Internal(message string) *AppError        { return New(CodeInternal, message) }
func Unauthenticated(message string) *AppError { return New(CodeUnauthenticated, message) }
func Forbidden(message string) *AppError       { return New(CodeForbidden, message) }
func Conflict(message string) *AppError        { return New(CodeConflict, message) }
func TooManyRequests(message string) *AppError { return New(CodeTooManyRequests, message) }
func Validation(message string) *AppError      { return New(CodeValidation, message) }

func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// FromDomainError classifies err by the sentinels it wraps.
// Order-specific sentinels are checked before the shared kinds they also match.
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	msg := err.Error()
	switch {
	case errors.Is(err, order.ErrItemUnavailable):
		return Wrap(err, CodeItemUnavailable, msg)
	case errors.Is(err, order.ErrInvalidOrder):
		return Wrap(err, CodeInvalidOrder, msg)
	case errors.Is(err, order.ErrCancellationNotAllowed):
		return Wrap(err, CodeCancellationNotAllowed, msg)
	case errors.Is(err, order.ErrInvalidStatus):
		return Wrap(err, CodeInvalidStatus, msg)
	case errors.Is(err, order.ErrInvalidTransition):
		return Wrap(err, CodeInvalidTransition, msg)
	case errors.Is(err, user.ErrInvalidCredentials):
		return Wrap(err, CodeUnauthenticated, msg)
	case errors.Is(err, shared.ErrNotFound):
		return Wrap(err, CodeNotFound, msg)
	case errors.Is(err, shared.ErrConflict):
		return Wrap(err, CodeConflict, msg)
	case errors.Is(err, shared.ErrInvalidInput):
		return Wrap(err, CodeValidation, msg)
	case errors.Is(err, shared.ErrUnauthorized):
		return Wrap(err, CodeUnauthenticated, msg)
	case errors.Is(err, shared.ErrForbidden):
		return Wrap(err, CodeForbidden, msg)
	case errors.Is(err, shared.ErrPersistence):
		return Wrap(err, CodePersistence, msg)
	default:
		return Wrap(err, CodeInternal, msg)
	}
}
