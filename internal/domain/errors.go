package domain

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is the parent of every "record absent" error.
	ErrNotFound = errors.New("not found")
	// ErrQuizNotFound indicates the quiz could not be loaded.
	ErrQuizNotFound = notFound("quiz not found")
	// ErrVideoNotFound indicates the video record does not exist.
	ErrVideoNotFound = notFound("video not found")
	// ErrNoteNotFound indicates the note record does not exist.
	ErrNoteNotFound = notFound("note not found")
	// ErrQuestionNotFound indicates the important question does not exist.
	ErrQuestionNotFound = notFound("question not found")
	// ErrUserNotFound indicates the identity does not exist.
	ErrUserNotFound = notFound("user not found")

	// ErrForbidden is returned when the caller does not own the record.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized is returned when no valid credential was presented.
	ErrUnauthorized = errors.New("not authorized")
	// ErrInvalidCredentials is returned by login for an unknown email or wrong password.
	ErrInvalidCredentials = wrapped{msg: "invalid credentials", parent: ErrUnauthorized}
	// ErrUserExists is returned by signup when the email is already registered.
	ErrUserExists = NewValidationError("user already exists", FieldError{Field: "email", Error: "already registered"})
)

type wrapped struct {
	msg    string
	parent error
}

func (w wrapped) Error() string { return w.msg }
func (w wrapped) Unwrap() error { return w.parent }

func notFound(msg string) error {
	return wrapped{msg: msg, parent: ErrNotFound}
}

// FieldError describes a problem with one input field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError is returned when input is missing or malformed.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func NewValidationError(msg string, fields ...FieldError) *ValidationError {
	return &ValidationError{Message: msg, Fields: fields}
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Error)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
