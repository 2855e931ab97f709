package common

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is against any error returned by the
// client packages.
var (
	// ErrNetworkFailure means the request could not complete at all.
	ErrNetworkFailure = errors.New("network failure")
	// ErrTimeout means the request exceeded the configured request timeout.
	ErrTimeout = errors.New("request timed out")
	// ErrAuthenticationRequired is returned for HTTP 401 responses.
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrBackend is a non-2xx response carrying a parseable error envelope.
	ErrBackend = errors.New("backend error")
	// ErrUnknownHTTP is a non-2xx response whose body could not be parsed.
	ErrUnknownHTTP = errors.New("unexpected http response")
	// ErrValidation is a client-side check that failed before any network call.
	ErrValidation = errors.New("validation error")
)

// Error is the single error type surfaced to callers of the auth and
// nutrition clients. Message is human readable and meant to be shown as is.
type Error struct {
	Kind    error
	Status  int
	Message string
	// Suggestion is an optional hint from the server, shown after Message.
	Suggestion string
	Err        error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Err)
	}
	return e.Kind.Error()
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewValidationError builds a ValidationError with the given message.
func NewValidationError(msg string) *Error {
	return &Error{Kind: ErrValidation, Message: msg}
}

// HTTPStatus returns the HTTP status attached to err, or 0.
func HTTPStatus(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}
