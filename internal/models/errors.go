package models

import (
	"errors"
	"fmt"
)

// ErrorCode classifies recoverable operation failures. All of them surface
// to callers as values, never as panics.
type ErrorCode string

const (
	// CodeUserNotAuthorized: no session, or the caller lacks ownership or
	// admin rights over the target.
	CodeUserNotAuthorized ErrorCode = "USER_NOT_AUTHORIZED"
	// CodeInvalidDataProvided: bad credentials, missing target, or a
	// payload violating an invariant.
	CodeInvalidDataProvided ErrorCode = "INVALID_DATA_PROVIDED"
	// CodeUserAlreadyRegistered: sign-up with an email already taken.
	CodeUserAlreadyRegistered ErrorCode = "USER_ALREADY_REGISTERED"
	// CodeNotFound: a reference that resolves to nothing on lookup.
	CodeNotFound ErrorCode = "NOT_FOUND"
)

// ErrNotImplemented is the hard fault raised by the intentionally
// unimplemented password operations. It crosses the public boundary as a
// panic, unlike every coded error.
var ErrNotImplemented = errors.New("models: operation not implemented")

// AppError is a coded application error.
type AppError struct {
	Code    ErrorCode
	Message string
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

// NewUnauthorizedError builds a CodeUserNotAuthorized error.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: CodeUserNotAuthorized, Message: message}
}

// NewInvalidDataError builds a CodeInvalidDataProvided error.
func NewInvalidDataError(message string) *AppError {
	return &AppError{Code: CodeInvalidDataProvided, Message: message}
}

// NewAlreadyRegisteredError builds a CodeUserAlreadyRegistered error.
func NewAlreadyRegisteredError(email string) *AppError {
	return &AppError{
		Code:    CodeUserAlreadyRegistered,
		Message: fmt.Sprintf("account for %s already exists", email),
	}
}

// NewNotFoundError builds a CodeNotFound error for a dangling reference.
func NewNotFoundError(ref Ref) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", ref),
	}
}

// IsCode reports whether err is an AppError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
