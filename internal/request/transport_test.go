package request

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipstream/torbox/internal/store"
)

func TestHTTPTransport_Form(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/api/torrents/createtorrent", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "magnet:?xt=urn:btih:abc", r.PostForm.Get("magnet"))
		assert.Equal(t, "1", r.PostForm.Get("seed"))
		w.Header().Set("X-Request-Id", "req-1")
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	s := store.New(store.Config{APIURL: server.URL + "/v1/api/"})
	s.UseAPIKey("key")
	engine := NewEngine(NewHTTPTransport(nil, 5*time.Second), s)

	out, err := engine.Execute(context.Background(), Request{
		Path:        "torrents/createtorrent",
		Method:      http.MethodPost,
		Body:        Form(url.Values{"magnet": {"magnet:?xt=urn:btih:abc"}, "seed": {"1"}}),
		RequireAuth: true,
		Header:      "X-Request-Id",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"success":true}`, out.Text())
	assert.Equal(t, "req-1", out.Header)
}

func TestHTTPTransport_Multipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Big Buck Bunny", r.FormValue("name"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "torrent.torrent", header.Filename)
		assert.Equal(t, "application/x-bittorrent", header.Header.Get("Content-Type"))
		data, _ := io.ReadAll(file)
		assert.Equal(t, "d8:announce", string(data))

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.Client(), 0)
	resp, err := transport.Post(context.Background(), server.URL, MultipartBody{
		Fields: url.Values{"name": {"Big Buck Bunny"}},
		Files: []FilePart{{
			Field:       "file",
			FileName:    "torrent.torrent",
			ContentType: "application/x-bittorrent",
			Data:        []byte("d8:announce"),
		}},
	}, http.Header{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPTransport_PutAndDelete(t *testing.T) {
	var methods []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		if r.Method == http.MethodPut {
			data, _ := io.ReadAll(r.Body)
			assert.Equal(t, "raw", string(data))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	transport := NewHTTPTransport(nil, time.Second)
	_, err := transport.Put(context.Background(), server.URL, Raw([]byte("raw"), "application/json"), nil)
	require.NoError(t, err)
	resp, err := transport.Delete(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, []string{http.MethodPut, http.MethodDelete}, methods)
}

func TestHTTPTransport_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	_, err := NewHTTPTransport(nil, time.Second).Get(context.Background(), addr, nil)
	assert.Error(t, err)
}

func TestJSONBody(t *testing.T) {
	body, err := JSON(map[string]any{"torrent_id": 5, "operation": "pause"})
	require.NoError(t, err)

	r, contentType, err := body.Encode()
	require.NoError(t, err)
	data, _ := io.ReadAll(r)
	assert.Equal(t, "application/json", contentType)
	assert.JSONEq(t, `{"torrent_id":5,"operation":"pause"}`, string(data))

	_, err = JSON(make(chan int))
	assert.Error(t, err)
}

type brokenBody struct{}

func (brokenBody) Encode() (io.Reader, string, error) {
	return nil, "", errors.New("unsupported value")
}

func TestEngine_Execute_EncodeFailureNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	s := store.New(store.Config{APIURL: server.URL + "/v1/api/", RetryLimit: 3})
	s.UseAPIKey("key")
	recorder := &sleepRecorder{}
	engine := NewEngine(NewHTTPTransport(server.Client(), 0), s, WithSleeper(recorder.sleep))

	_, err := engine.Execute(context.Background(), Request{
		Path:        "torrents/createtorrent",
		Method:      http.MethodPost,
		Body:        brokenBody{},
		RequireAuth: true,
	})

	require.ErrorIs(t, err, ErrEncodeBody)
	assert.ErrorContains(t, err, "unsupported value")
	assert.Zero(t, calls.Load())
	assert.Empty(t, recorder.delays)
}
