package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/getfit/internal/common"
	"github.com/felixgeelhaar/fortify/ferrors"
)

var (
	// ErrCircuitOpen is wrapped into NetworkFailure errors returned while the
	// breaker rejects calls after repeated transport failures.
	ErrCircuitOpen = errors.New("service temporarily unavailable")
)

// ErrorBody is the error envelope shared by the auth and nutrition services.
type ErrorBody struct {
	Error      string `json:"error"`
	Message    string `json:"message,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// transportError marks failures that happened before an HTTP status was
// received. Only these count against the circuit breaker.
type transportError struct {
	err error
}

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

func mapTransportError(ctx context.Context, err error) error {
	cause := err
	var terr *transportError
	if errors.As(err, &terr) {
		cause = terr.err
	}

	var nerr net.Error
	switch {
	case errors.Is(err, ferrors.ErrCircuitOpen):
		return &common.Error{Kind: common.ErrNetworkFailure, Message: ErrCircuitOpen.Error(), Err: errors.Join(ErrCircuitOpen, err)}
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		(errors.As(err, &nerr) && nerr.Timeout()):
		return &common.Error{Kind: common.ErrTimeout, Message: "Request timed out", Err: cause}
	case errors.Is(err, context.Canceled):
		return &common.Error{Kind: common.ErrNetworkFailure, Message: "Request cancelled", Err: cause}
	}

	return &common.Error{Kind: common.ErrNetworkFailure, Message: "Network error: unable to reach server", Err: cause}
}

// mapStatusError converts a non-2xx response. When authRequired is set, 401
// becomes AuthenticationRequired; fallback replaces the generic status text
// when the body carries no usable message.
func mapStatusError(status int, body []byte, authRequired bool, fallback string) error {
	var env ErrorBody
	parsed := json.Unmarshal(body, &env) == nil

	msg := strings.TrimSpace(env.Error)
	if msg == "" {
		msg = strings.TrimSpace(env.Message)
	}

	if authRequired && status == http.StatusUnauthorized {
		if msg == "" {
			msg = "Authentication required"
		}
		return &common.Error{Kind: common.ErrAuthenticationRequired, Status: status, Message: msg}
	}

	if parsed && msg != "" {
		return &common.Error{Kind: common.ErrBackend, Status: status, Message: msg, Suggestion: env.Suggestion}
	}

	if fallback == "" {
		fallback = fmt.Sprintf("request failed with status %d", status)
	}
	return &common.Error{Kind: common.ErrUnknownHTTP, Status: status, Message: fallback}
}
