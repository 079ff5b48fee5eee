// ABOUTME: Application error taxonomy shared by storage, insights and transports.
// ABOUTME: Kinds map to HTTP status codes and user-facing messages.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies an application error.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindDatabase   Kind = "database"
	KindExternal   Kind = "external_api"
	KindConfig     Kind = "config"
	KindInternal   Kind = "internal"
)

// Error is an application error with a kind and optional detail messages.
type Error struct {
	Kind     Kind
	Message  string
	Details  []string
	Internal error
}

func (e *Error) Error() string {
	msg := e.Message
	if len(e.Details) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(e.Details, "; "))
	}
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", msg, e.Internal)
	}
	return msg
}

// Unwrap returns the internal error.
func (e *Error) Unwrap() error {
	return e.Internal
}

// Is matches another *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind && t.Message == ""
	}
	return false
}

// Sentinels for errors.Is checks by kind.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrDatabase   = &Error{Kind: KindDatabase}
	ErrExternal   = &Error{Kind: KindExternal}
	ErrConfig     = &Error{Kind: KindConfig}
)

// Validation reports rejected input with one message per problem.
func Validation(msgs []string) *Error {
	return &Error{Kind: KindValidation, Message: "invalid health data", Details: msgs}
}

// NotFound reports a missing record.
func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("not found: %s", what)}
}

// Database wraps a storage failure for the named operation.
func Database(err error, op string) *Error {
	return &Error{Kind: KindDatabase, Message: op, Internal: err}
}

// External wraps a failure talking to a third-party API.
func External(err error, api string) *Error {
	return &Error{Kind: KindExternal, Message: fmt.Sprintf("%s API error", api), Internal: err}
}

// Config reports a fatal configuration problem.
func Config(msg string) *Error {
	return &Error{Kind: KindConfig, Message: msg}
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Details returns the detail messages carried by err, if any.
func Details(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Details
	}
	return nil
}

// HTTPStatus maps an error to a response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
