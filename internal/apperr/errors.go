// Package apperr defines the error taxonomy shared by services and handlers.
//
// Services return *Error values (or wrap them); handlers match them with
// errors.Is against the sentinel values or read the Code directly.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation       Code = "VALIDATION"
	CodeConflict         Code = "CONFLICT"
	CodeUnauthorized     Code = "UNAUTHORIZED"
	CodeNotFound         Code = "NOT_FOUND"
	CodeInvalidImageData Code = "INVALID_IMAGE_DATA"
	CodeMalformedToken   Code = "MALFORMED_TOKEN"
	CodeInternal         Code = "INTERNAL"
)

// HTTPStatus maps a code to the status used at the API boundary.
// Conflicts are reported as 400, matching the registration contract.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation, CodeConflict, CodeInvalidImageData:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeMalformedToken:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Code    Code
	Message string
	Fields  map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error carrying the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinels for errors.Is checks.
var (
	ErrValidation       = &Error{Code: CodeValidation}
	ErrConflict         = &Error{Code: CodeConflict}
	ErrNotFound         = &Error{Code: CodeNotFound}
	ErrInvalidImageData = &Error{Code: CodeInvalidImageData}
	ErrMalformedToken   = &Error{Code: CodeMalformedToken}
)

func Validation(message string, fields map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: message, Fields: fields}
}

func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

func InvalidImageData(message string, cause error) *Error {
	return &Error{Code: CodeInvalidImageData, Message: message, cause: cause}
}

func MalformedToken(cause error) *Error {
	return &Error{Code: CodeMalformedToken, Message: "некорректный токен", cause: cause}
}

// CodeOf returns the code of the first *Error in the chain, or CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
