package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies domain failures so handlers can map them to
// transport statuses without string matching.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	// KindNotFound covers both "resource absent" and, on member read
	// paths, "access denied"; the two are indistinguishable so category
	// existence is not leaked.
	KindNotFound
	KindForbidden
	KindConflict
	KindValidation
	// KindInvariant is a refused structural mutation, e.g. deleting a
	// folder that still holds documents.
	KindInvariant
	// KindUnauthorized covers failed credential checks.
	KindUnauthorized
)

// DomainError is a typed failure returned by the service layer.
type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NotFound builds a not-found (or concealed access-denied) error.
func NotFound(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Forbidden builds a forbidden error; the resource's existence is already
// known to the caller.
func Forbidden(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// Conflict builds a uniqueness-violation error.
func Conflict(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Validation builds an input-validation error.
func Validation(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Invariant builds a refused structural mutation error.
func Invariant(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindInvariant, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized builds a failed-credentials error.
func Unauthorized(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from an error chain; unrecognized errors are
// internal so no store detail leaks to callers.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// CustomError is an HTTP-shaped error used by middleware, carrying the
// status code and error type for the global error handler.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}
