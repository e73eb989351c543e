package request

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Response is what a Transport returns for one HTTP exchange.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport issues verb-specific HTTP calls. The header passed in belongs to
// the call and must not be retained.
type Transport interface {
	Get(ctx context.Context, url string, header http.Header) (*Response, error)
	Post(ctx context.Context, url string, body Body, header http.Header) (*Response, error)
	Put(ctx context.Context, url string, body Body, header http.Header) (*Response, error)
	Delete(ctx context.Context, url string, header http.Header) (*Response, error)
}

// HTTPTransport implements Transport on top of an *http.Client.
type HTTPTransport struct {
	httpClient *http.Client
}

// Compile-time check that HTTPTransport implements Transport.
var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport creates a transport. A nil client gets a default one with
// the given timeout.
func NewHTTPTransport(httpClient *http.Client, timeout time.Duration) *HTTPTransport {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &HTTPTransport{httpClient: httpClient}
}

// Get issues a GET request.
func (t *HTTPTransport) Get(ctx context.Context, url string, header http.Header) (*Response, error) {
	return t.do(ctx, http.MethodGet, url, nil, header)
}

// Post issues a POST request.
func (t *HTTPTransport) Post(ctx context.Context, url string, body Body, header http.Header) (*Response, error) {
	return t.do(ctx, http.MethodPost, url, body, header)
}

// Put issues a PUT request.
func (t *HTTPTransport) Put(ctx context.Context, url string, body Body, header http.Header) (*Response, error) {
	return t.do(ctx, http.MethodPut, url, body, header)
}

// Delete issues a DELETE request.
func (t *HTTPTransport) Delete(ctx context.Context, url string, header http.Header) (*Response, error) {
	return t.do(ctx, http.MethodDelete, url, nil, header)
}

func (t *HTTPTransport) do(ctx context.Context, method, url string, body Body, header http.Header) (*Response, error) {
	var reader io.Reader
	var contentType string
	if body != nil {
		var err error
		reader, contentType, err = body.Encode()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodeBody, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}
