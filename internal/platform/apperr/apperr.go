// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error taxonomy for Userhub.

Every failure that leaves a use case is classified into one of a small set of
kinds. The kind alone decides the transport status; the message is shown to
the client for every kind except [KindInternal], whose message is replaced by
a fixed generic text.

Architecture:

  - AppError: Kind + client-safe Message + server-only Cause.
  - Mapping: [StatusOf] is the single, total mapping from any error to an HTTP
    status and a client message.
*/
package apperr

import (
	"errors"
	"net/http"
)

// InternalMessage is the only message ever returned for a 5xx response.
const InternalMessage = "internal server error"

// # Error Kinds

// Kind classifies a use-case failure.
type Kind int

const (
	// KindInternal is the zero value so that an unclassified error is never
	// reported as a client error.
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindNotFound
	KindConflict
)

// String returns the machine-readable code for the kind.
func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "BAD_REQUEST"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	default:
		return "INTERNAL_ERROR"
	}
}

// Status maps the kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// # Error Type

// AppError is the canonical error type returned by the service layer.
//
// # Security
//
// Cause is for server-side logging only and is never sent to clients.
type AppError struct {
	// Kind decides the transport status.
	Kind Kind
	// Message is a human-readable description safe to return to the client.
	Message string
	// Cause is the underlying error, used for server-side logging only.
	Cause error
	// Details holds per-field validation failures for BadRequest errors.
	Details []FieldError
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Constructors

// BadRequest creates a 400 [AppError] with optional per-field details.
func BadRequest(msg string, details ...FieldError) *AppError {
	return &AppError{Kind: KindBadRequest, Message: msg, Details: details}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: msg}
}

// NotFound creates a 404 [AppError].
//
// Example:
//
//	apperr.NotFound("User with id=7 not found")
func NotFound(msg string) *AppError {
	return &AppError{Kind: KindNotFound, Message: msg}
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string) *AppError {
	return &AppError{Kind: KindConflict, Message: msg}
}

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{Kind: KindInternal, Message: InternalMessage, Cause: cause}
}

// # Mapping

// StatusOf maps any error to the HTTP status and message sent to the client.
//
// Errors that are not an [*AppError] and every internal kind collapse to
// 500 with [InternalMessage].
func StatusOf(err error) (int, string) {
	status := KindOf(err).Status()
	if status >= http.StatusInternalServerError {
		return status, InternalMessage
	}
	return status, As(err).Message
}

// # Helpers

// KindOf returns the kind carried by err, or [KindInternal] when err holds
// no [*AppError].
func KindOf(err error) Kind {
	if appError := As(err); appError != nil {
		return appError.Kind
	}
	return KindInternal
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
