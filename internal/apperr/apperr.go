// Package apperr carries the error kinds every route boundary converts into
// an HTTP status and a client-safe message.
package apperr

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindInvalidCredentials Kind = "invalid_credentials"
	KindUnauthenticated    Kind = "unauthenticated"
	KindForbidden          Kind = "forbidden"
	KindValidation         Kind = "validation"
	KindNotFound           Kind = "not_found"
	KindConflict           Kind = "conflict"
	KindStoreFailure       Kind = "store_failure"
)

// Error pairs a kind and a message that is safe to return to clients with the
// internal cause, which is only ever logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func InvalidCredentials() *Error {
	return New(KindInvalidCredentials, "invalid credentials")
}

// Unauthenticated never says which check failed.
func Unauthenticated(cause error) *Error {
	return Wrap(KindUnauthenticated, "authentication required", cause)
}

func Forbidden(msg string) *Error { return New(KindForbidden, msg) }

func Validation(msg string) *Error { return New(KindValidation, msg) }

func NotFound(msg string) *Error { return New(KindNotFound, msg) }

func Conflict(msg string) *Error { return New(KindConflict, msg) }

func StoreFailure(err error) *Error {
	return Wrap(KindStoreFailure, "internal server error", err)
}

// From returns err as an *Error, treating anything unclassified as a store failure.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return StoreFailure(err)
}

// KindOf reports the kind of err, or "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return From(err).Kind
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps a kind to its response status.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindInvalidCredentials, KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Body is the JSON envelope every failed request returns.
type Body struct {
	Error Payload `json:"error"`
}

type Payload struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Body holds only the safe message; the cause stays server-side.
func (e *Error) Body() Body {
	return Body{Error: Payload{Kind: e.Kind, Message: e.Message}}
}
