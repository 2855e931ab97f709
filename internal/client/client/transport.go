package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/getfit/internal/common"
	"github.com/dmitrijs2005/getfit/internal/logging"
	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/google/uuid"
)

// DefaultTimeout bounds every request unless WithTimeout says otherwise.
const DefaultTimeout = 10 * time.Second

const maxBodySize = 4 << 20

// Option configures a client.
type Option func(*options)

type options struct {
	timeout    time.Duration
	httpClient *http.Client
	logger     logging.Logger
}

func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying *http.Client. Its Timeout is left
// as is; the per-request context deadline still applies.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// TokenSource yields the current access token. Implementations read it from
// secure storage on every call.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

type rawResponse struct {
	status int
	body   []byte
}

// transport performs JSON requests against one base URL.
type transport struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	breaker circuitbreaker.CircuitBreaker[*rawResponse]
	log     logging.Logger
}

func newTransport(name, baseURL string, opts ...Option) *transport {
	o := options{timeout: DefaultTimeout, logger: logging.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: o.timeout}
	}

	log := o.logger.With("component", "http", "service", name)

	t := &transport{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: o.timeout,
		http:    o.httpClient,
		log:     log,
	}

	t.breaker = circuitbreaker.New[*rawResponse](circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(from, to circuitbreaker.State) {
			log.Warn(context.Background(), "circuit breaker state change", "from", from.String(), "to", to.String())
		},
	})

	return t
}

// request describes one call. path must already be escaped.
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	token  string

	// authRequired maps 401 to AuthenticationRequired.
	authRequired bool
	// fallback is the message used when an error body cannot be parsed.
	fallback string
}

// do sends req and decodes a 2xx body into out (when non-nil). All failures
// are *common.Error.
func (t *transport) do(ctx context.Context, req request, out any) error {
	var body io.Reader
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	target := t.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(common.RequestIDHeaderName, requestID)
	if req.token != "" {
		httpReq.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+req.token)
	}

	log := t.log.With("method", req.method, "path", req.path, "request_id", requestID)
	start := time.Now()

	resp, err := t.breaker.Execute(ctx, func(ctx context.Context) (*rawResponse, error) {
		r, err := t.http.Do(httpReq)
		if err != nil {
			return nil, &transportError{err: err}
		}
		defer r.Body.Close()

		b, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
		if err != nil {
			return nil, &transportError{err: err}
		}
		return &rawResponse{status: r.StatusCode, body: b}, nil
	})
	if err != nil {
		mapped := mapTransportError(ctx, err)
		log.Warn(ctx, "request failed", "error", err, "duration", time.Since(start))
		return mapped
	}

	log.Debug(ctx, "request completed", "status", resp.status, "duration", time.Since(start))

	if resp.status < 200 || resp.status > 299 {
		return mapStatusError(resp.status, resp.body, req.authRequired, req.fallback)
	}

	if out == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return &common.Error{
			Kind:    common.ErrUnknownHTTP,
			Status:  resp.status,
			Message: "unexpected response from server",
			Err:     err,
		}
	}
	return nil
}

// bearer reads the token for an authenticated call.
func bearer(ctx context.Context, tokens TokenSource) (string, error) {
	if tokens == nil {
		return "", nil
	}
	tok, err := tokens.AccessToken(ctx)
	if err != nil {
		return "", fmt.Errorf("read access token: %w", err)
	}
	return tok, nil
}
