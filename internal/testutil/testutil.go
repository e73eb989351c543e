// Package testutil provides helpers for tests that talk to a fake TorBox API.
package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/slipstream/torbox/internal/request"
	"github.com/slipstream/torbox/internal/store"
)

// APIPath is the base path the fake server mounts the API under.
const APIPath = "/v1/api/"

// NewEngine starts an httptest server backed by handler and returns an engine
// pointed at it. configure sets up credentials on the store; it may be nil.
// The server is closed when the test finishes.
func NewEngine(t *testing.T, handler http.HandlerFunc, configure func(*store.Store)) *request.Engine {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	s := store.New(store.Config{
		APIURL:  server.URL + APIPath,
		AuthURL: server.URL + "/oauth/",
	})
	if configure != nil {
		configure(s)
	}

	return request.NewEngine(request.NewHTTPTransport(server.Client(), 0), s)
}

// WriteJSON writes body as an application/json response.
func WriteJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, body)
}

// NewTestLogger creates a test logger that outputs to t.Log.
func NewTestLogger(t *testing.T) zerolog.Logger {
	t.Helper()
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
}
