/*
Package shared holds the building blocks every subdomain uses.

Errors: subdomains declare sentinel errors for errors.Is and return *DomainError
(or their own stack-carrying type) built through constructors. The stack is
captured when the error is created and formatted only when it is logged.
Domain errors never carry transport concepts such as HTTP status codes.
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrPersistence marks failures of the backing store itself.
	ErrPersistence = errors.New("persistence failure")
)

// DomainError carries business context and the creation-point stack.
type DomainError struct {
	// Err is the sentinel used by errors.Is.
	Err error

	Entity  string
	Message string
	Field   string

	// Cause is the underlying error, if any (driver error, nested domain error).
	Cause error

	stack []uintptr
}

func (e *DomainError) Error() string {
	if e.Cause != nil && e.Err == ErrPersistence {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// Stack formats the captured frames.
func (e *DomainError) Stack() []string {
	return FormatStack(e.stack)
}

// CaptureStack records the current call stack.
// skip is usually 3: runtime.Callers, CaptureStack and the constructor.
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack renders at most ten non-runtime frames.
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(result) >= 10 {
			break
		}
	}
	return result
}

func NewNotFoundError(entity string, id int64) error {
	return &DomainError{
		Err:     ErrNotFound,
		Entity:  entity,
		Message: fmt.Sprintf("%s %d not found", entity, id),
		stack:   CaptureStack(3),
	}
}

func NewConflictError(entity, message string) error {
	return &DomainError{
		Err:     ErrConflict,
		Entity:  entity,
		Message: message,
		stack:   CaptureStack(3),
	}
}

func NewValidationError(entity, field, reason string) error {
	return &DomainError{
		Err:     ErrInvalidInput,
		Entity:  entity,
		Field:   field,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

func NewUnauthorizedError(entity, reason string) error {
	return &DomainError{
		Err:     ErrUnauthorized,
		Entity:  entity,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

func NewForbiddenError(entity, reason string) error {
	return &DomainError{
		Err:     ErrForbidden,
		Entity:  entity,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// NewPersistenceError wraps a store failure. op names the failing operation.
func NewPersistenceError(entity, op string, cause error) error {
	return &DomainError{
		Err:     ErrPersistence,
		Entity:  entity,
		Message: entity + ": " + op + " failed",
		Cause:   cause,
		stack:   CaptureStack(3),
	}
}

// Stacker is implemented by errors that carry a creation-point stack.
type Stacker interface {
	Stack() []string
}
