// Package request implements the authenticated request engine every TorBox
// endpoint call goes through: bearer header selection, retry of transient
// failures, service error decoding and typed response decoding.
package request

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/slipstream/torbox/internal/store"
	"github.com/slipstream/torbox/types"
)

// DefaultRetryDelay is the backoff unit; retry n waits n times this value.
const DefaultRetryDelay = time.Second

var (
	ErrUnsupportedMethod = errors.New("unsupported request method")
	errInvalidUTF8       = errors.New("response body is not valid UTF-8")
)

// ErrEncodeBody marks a request body that could not be encoded. It is never
// retried.
var ErrEncodeBody = errors.New("failed to encode request body")

// Request describes one logical call.
type Request struct {
	Base        store.Base
	Path        string // path and query, appended to the base URL
	Method      string
	Body        Body
	RequireAuth bool
	Header      string // response header to extract, if any
}

// Outcome is the result of a successful call. Non-2xx responses are returned
// as errors, so OK is always true on an Outcome returned by Execute.
type Outcome struct {
	Body        *string // nil for 204 No Content
	Header      string
	HeaderFound bool
	StatusCode  int
	OK          bool
}

// Text returns the body, or "" when there is none.
func (o *Outcome) Text() string {
	if o == nil || o.Body == nil {
		return ""
	}
	return *o.Body
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Engine executes requests against a Transport using the credentials of a Store.
// It keeps no per-call state, so one Engine may serve concurrent calls.
type Engine struct {
	transport  Transport
	store      *store.Store
	retryDelay time.Duration
	sleep      Sleeper
}

// Option configures an Engine.
type Option func(*Engine)

// WithRetryDelay overrides the backoff unit.
func WithRetryDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.retryDelay = d
	}
}

// WithSleeper overrides how the engine waits between attempts.
func WithSleeper(s Sleeper) Option {
	return func(e *Engine) {
		e.sleep = s
	}
}

// NewEngine creates an engine.
func NewEngine(transport Transport, s *store.Store, opts ...Option) *Engine {
	e := &Engine{
		transport:  transport,
		store:      s,
		retryDelay: DefaultRetryDelay,
		sleep:      sleep,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the credential store the engine reads from.
func (e *Engine) Store() *store.Store {
	return e.store
}

// Execute runs req. Authentication errors, an expired access token and
// service errors are returned on the first attempt. Any other failure is
// retried up to the store's retry limit, waiting attempt × retry delay
// between attempts. A cancelled context ends the call without further retries.
func (e *Engine) Execute(ctx context.Context, req Request) (*Outcome, error) {
	switch req.Method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, req.Method)
	}

	retries := 0
	for {
		out, err := e.attempt(ctx, req)
		if err == nil {
			return out, nil
		}
		if types.IsKnown(err) || errors.Is(err, ErrEncodeBody) || ctx.Err() != nil {
			return nil, err
		}
		if retries >= e.store.RetryLimit() {
			return nil, err
		}

		retries++
		if serr := e.sleep(ctx, time.Duration(retries)*e.retryDelay); serr != nil {
			return nil, serr
		}
	}
}

func (e *Engine) attempt(ctx context.Context, req Request) (*Outcome, error) {
	header := make(http.Header)
	header.Set("Accept", "application/json")
	if req.RequireAuth {
		token, err := e.store.BearerToken()
		if err != nil {
			return nil, err
		}
		header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.dispatch(ctx, req, e.store.BaseURL(req.Base)+req.Path, header)
	if err != nil {
		if errors.Is(err, ErrEncodeBody) {
			return nil, err
		}
		return nil, &types.TransportError{Cause: err}
	}

	if !utf8.Valid(resp.Body) {
		return nil, &types.TransportError{StatusCode: resp.StatusCode, Cause: errInvalidUTF8}
	}
	text := string(resp.Body)
	body := &text

	if resp.StatusCode == http.StatusUnauthorized && req.RequireAuth && e.store.Mode() == store.ModeOAuth2 {
		if serviceErr := DecodeServiceError(body); serviceErr != nil && serviceErr.Code == types.CodeBadToken {
			return nil, &types.AccessTokenExpiredError{Detail: serviceErr.Detail}
		}
	}

	if resp.StatusCode == http.StatusNoContent {
		body = nil
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode <= 299
	if !ok {
		if serviceErr := DecodeServiceError(body); serviceErr != nil {
			serviceErr.StatusCode = resp.StatusCode
			return nil, serviceErr
		}
		return nil, &types.TransportError{StatusCode: resp.StatusCode, Body: text}
	}

	out := &Outcome{Body: body, StatusCode: resp.StatusCode, OK: ok}
	if req.Header != "" {
		if values := resp.Header.Values(req.Header); len(values) > 0 {
			out.Header = values[0]
			out.HeaderFound = true
		}
	}
	return out, nil
}

func (e *Engine) dispatch(ctx context.Context, req Request, url string, header http.Header) (*Response, error) {
	switch req.Method {
	case http.MethodPost:
		return e.transport.Post(ctx, url, req.Body, header)
	case http.MethodPut:
		return e.transport.Put(ctx, url, req.Body, header)
	case http.MethodDelete:
		return e.transport.Delete(ctx, url, header)
	default:
		return e.transport.Get(ctx, url, header)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
