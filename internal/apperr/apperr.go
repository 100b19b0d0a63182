// Package apperr defines the error kinds returned by the lifecycle managers
// and the other services. Callers match a kind with errors.Is and surface
// Message verbatim.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrStorage      = errors.New("storage failure")
)

// Error is a classified error. Kind is one of the sentinels above.
type Error struct {
	Kind    error
	Message string
	Fields  []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation names every missing or malformed field.
func Validation(fields ...string) *Error {
	return &Error{
		Kind:    ErrValidation,
		Message: "invalid or missing fields: " + strings.Join(fields, ", "),
		Fields:  fields,
	}
}

// Required is the error for a single absent field.
func Required(field string) *Error {
	return &Error{
		Kind:    ErrValidation,
		Message: field + " is required",
		Fields:  []string{field},
	}
}

func NotFound(message string) *Error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func InvalidState(message string) *Error {
	return &Error{Kind: ErrInvalidState, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: ErrConflict, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: ErrUnauthorized, Message: message}
}

// Storage wraps a persistence failure. The wrapped error is for logs only.
func Storage(op string, err error) *Error {
	return &Error{Kind: ErrStorage, Message: op, Err: err}
}

// PublicMessage is the text safe to show a caller.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Kind == ErrStorage {
			return "Internal server error"
		}
		return e.Message
	}
	return "Internal server error"
}

// FieldsOf returns the offending fields of a validation error.
func FieldsOf(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
