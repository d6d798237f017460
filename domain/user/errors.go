/*
Package user is the identity subdomain: students and admins.
*/
package user

import (
	"errors"

	"campusfood/domain/shared"
)

var (
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrWeakPassword       = errors.New("password too short")
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

func NewUserNotFoundError(userID int64) error {
	return shared.NewNotFoundError("user", userID)
}

func NewMissingFieldsError() error {
	return &userDomainError{
		sentinel: shared.ErrInvalidInput,
		message:  "name, email, password and room_number are required",
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidEmailError(email string) error {
	return &userDomainError{
		sentinel: ErrInvalidEmail,
		kind:     shared.ErrInvalidInput,
		field:    "email",
		message:  "invalid email format: " + email,
		stack:    shared.CaptureStack(3),
	}
}

func NewWeakPasswordError() error {
	return &userDomainError{
		sentinel: ErrWeakPassword,
		kind:     shared.ErrInvalidInput,
		field:    "password",
		message:  "password must be at least 6 characters",
		stack:    shared.CaptureStack(3),
	}
}

func NewEmailAlreadyExistsError(email string) error {
	return &userDomainError{
		sentinel: ErrEmailAlreadyExists,
		kind:     shared.ErrConflict,
		field:    "email",
		message:  "email already registered: " + email,
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidCredentialsError() error {
	return &userDomainError{
		sentinel: ErrInvalidCredentials,
		kind:     shared.ErrUnauthorized,
		message:  "invalid email or password",
		stack:    shared.CaptureStack(3),
	}
}

type userDomainError struct {
	sentinel error
	kind     error
	field    string
	message  string
	stack    []uintptr
}

func (e *userDomainError) Error() string { return e.message }

func (e *userDomainError) Unwrap() []error {
	if e.kind == nil {
		return []error{e.sentinel}
	}
	return []error{e.sentinel, e.kind}
}

func (e *userDomainError) Stack() []string { return shared.FormatStack(e.stack) }
