package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorClass is a coarse classification used by callers that map errors to
// user-facing responses without inspecting concrete types.
type ErrorClass int

const (
	// ClassInternal - unexpected failures, surfaced as 500s.
	ClassInternal ErrorClass = iota
	// ClassNotFound - lookups for editors, attachments or payloads that do not exist.
	ClassNotFound
	// ClassInvalidInput - malformed candidates, bad data URLs, unusable requests.
	ClassInvalidInput
	// ClassRead - a source file could not be read or decoded.
	ClassRead
)

// NotFoundError marks a lookup miss. Kind names the resource family
// ("editor", "attachment", "payload") and Key its identifier.
type NotFoundError struct {
	Kind string
	Key  string
	Err  error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s not found: %v", e.Kind, e.Key, e.Err)
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// InvalidInputError marks caller-supplied data that cannot be used.
type InvalidInputError struct {
	Reason string
	Err    error
}

func (e *InvalidInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid input: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	return e.Err
}

// ReadError marks a source file whose bytes could not be read or decoded.
// It is distinct from a policy rejection: the batch continues and the file
// is reported as skipped rather than categorized.
type ReadError struct {
	File string
	Op   string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %s: %v", e.File, e.Op, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// NewNotFound creates a lookup-miss error.
func NewNotFound(kind, key string) *NotFoundError {
	return &NotFoundError{Kind: kind, Key: key}
}

// NewInvalidInput creates an invalid-input error wrapping an optional cause.
func NewInvalidInput(reason string, err error) *InvalidInputError {
	return &InvalidInputError{Reason: reason, Err: err}
}

// NewRead creates a per-file read failure.
func NewRead(file, op string, err error) *ReadError {
	return &ReadError{File: file, Op: op, Err: err}
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// IsInvalidInput reports whether err is or wraps an InvalidInputError.
func IsInvalidInput(err error) bool {
	var invalid *InvalidInputError
	return errors.As(err, &invalid)
}

// IsRead reports whether err is or wraps a ReadError.
func IsRead(err error) bool {
	var read *ReadError
	return errors.As(err, &read)
}

// GetErrorClass classifies an error. Unknown errors default to internal so
// the API layer never leaks a 2xx for a failure it cannot name.
func GetErrorClass(err error) ErrorClass {
	switch {
	case err == nil:
		return ClassInternal
	case IsNotFound(err):
		return ClassNotFound
	case IsInvalidInput(err):
		return ClassInvalidInput
	case IsRead(err):
		return ClassRead
	default:
		return ClassInternal
	}
}

// HTTPStatus maps an error to the response status the API layer should use.
func HTTPStatus(err error) int {
	switch GetErrorClass(err) {
	case ClassNotFound:
		return http.StatusNotFound
	case ClassInvalidInput:
		return http.StatusBadRequest
	case ClassRead:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
