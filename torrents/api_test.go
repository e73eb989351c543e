package torrents

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipstream/torbox/internal/request"
	"github.com/slipstream/torbox/internal/store"
	"github.com/slipstream/torbox/internal/testutil"
	"github.com/slipstream/torbox/types"
)

const testAPIKey = "test-api-key"

const myListBody = `{"success":true,"data":[
	{"id":1,"hash":"aaa","name":"Big Buck Bunny","download_state":"downloading","progress":0.5,"created_at":"2024-05-01T10:00:00Z","updated_at":"2024-05-01T11:00:00Z","files":[]},
	{"id":2,"hash":"bbb","name":"Sintel","download_state":"cached","created_at":"2024-05-02T10:00:00Z","updated_at":"2024-05-02T10:00:00Z","files":[]}
]}`

const queuedBody = `{"success":true,"data":[
	{"id":9,"auth_id":"auth","hash":"qqq","name":"Tears of Steel","magnet":"magnet:?xt=urn:btih:qqq","created_at":"2024-05-03T10:00:00Z","torrent_file":null,"type":"torrent"}
]}`

func newTestAPI(t *testing.T, handler http.HandlerFunc) *API {
	t.Helper()
	engine := testutil.NewEngine(t, handler, func(s *store.Store) {
		s.UseAPIKey(testAPIKey)
	})
	return New(engine, testutil.NewTestLogger(t))
}

func TestAPI_List(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/api/torrents/mylist", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("bypass_cache"))
		assert.Equal(t, "Bearer "+testAPIKey, r.Header.Get("Authorization"))
		testutil.WriteJSON(w, myListBody)
	})

	list, err := api.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Big Buck Bunny", list[0].Name)
	assert.Equal(t, 0.5, list[0].Progress)
}

func TestAPI_Total(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteJSON(w, myListBody)
	})
	total, err := api.Total(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	empty := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	total, err = empty.Total(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, -1, total)
}

func TestAPI_Queued(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/api/torrents/getqueued", r.URL.Path)
		testutil.WriteJSON(w, queuedBody)
	})

	queued, err := api.Queued(context.Background())
	require.NoError(t, err)
	require.Len(t, queued, 1)

	q := queued[0]
	assert.Equal(t, 9, q.ID)
	assert.Equal(t, types.StateQueued, q.DownloadState)
	assert.False(t, q.TorrentFile)
	assert.Equal(t, q.CreatedAt, q.UpdatedAt)
	assert.Empty(t, q.Files)
	assert.Zero(t, q.Progress)
}

func TestAPI_InfoByHash(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/api/torrents/mylist":
			testutil.WriteJSON(w, myListBody)
		case "/v1/api/torrents/getqueued":
			testutil.WriteJSON(w, queuedBody)
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	})

	info, err := api.InfoByHash(context.Background(), "bbb", false)
	require.NoError(t, err)
	assert.Equal(t, 2, info.ID)

	info, err = api.InfoByHash(context.Background(), "qqq", false)
	require.NoError(t, err)
	assert.Equal(t, 9, info.ID)
	assert.Equal(t, types.StateQueued, info.DownloadState)

	_, err = api.InfoByHash(context.Background(), "missing", false)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestAPI_InfoByID(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/api/torrents/mylist":
			if r.URL.Query().Get("id") == "1" {
				testutil.WriteJSON(w, `{"success":true,"data":{"id":1,"hash":"aaa","name":"Big Buck Bunny"}}`)
				return
			}
			testutil.WriteJSON(w, `{"success":true,"data":null}`)
		case "/v1/api/torrents/getqueued":
			testutil.WriteJSON(w, queuedBody)
		}
	})

	info, err := api.InfoByID(context.Background(), 1, true)
	require.NoError(t, err)
	assert.Equal(t, "aaa", info.Hash)

	info, err = api.InfoByID(context.Background(), 9, true)
	require.NoError(t, err)
	assert.Equal(t, "qqq", info.Hash)

	_, err = api.InfoByID(context.Background(), 42, true)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestAPI_AddMagnet(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/api/torrents/createtorrent", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "magnet:?xt=urn:btih:aaa", r.PostForm.Get("magnet"))
		assert.Equal(t, "1", r.PostForm.Get("seed"))
		assert.Equal(t, "false", r.PostForm.Get("allow_zip"))
		assert.Equal(t, "Bunny", r.PostForm.Get("name"))
		testutil.WriteJSON(w, `{"success":true,"detail":"Found cached torrent.","data":{"hash":"aaa","torrent_id":77,"auth_id":"auth"}}`)
	})

	opts := DefaultAddOptions()
	opts.Name = "Bunny"
	resp, err := api.AddMagnet(context.Background(), "magnet:?xt=urn:btih:aaa", opts)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 77, resp.Data.TorrentID)
}

func TestAPI_AddFile(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "2", r.FormValue("seed"))
		assert.Equal(t, "true", r.FormValue("allow_zip"))
		assert.Empty(t, r.FormValue("name"))

		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "torrent.torrent", header.Filename)
		testutil.WriteJSON(w, `{"success":true,"data":{"hash":"ccc","torrent_id":5}}`)
	})

	resp, err := api.AddFile(context.Background(), []byte("d8:announce"), AddOptions{Seeding: 2, AllowZip: true})
	require.NoError(t, err)
	assert.Equal(t, "ccc", resp.Data.Hash)
}

func TestAPI_AddMagnet_ServiceError(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		testutil.WriteJSON(w, `{"success":false,"error":"INVALID_MAGNET","detail":"magnet link is invalid"}`)
	})

	_, err := api.AddMagnet(context.Background(), "nope", DefaultAddOptions())

	var serviceErr *types.ServiceError
	require.True(t, errors.As(err, &serviceErr))
	assert.Equal(t, "INVALID_MAGNET", serviceErr.Code)
	assert.Equal(t, "magnet link is invalid", serviceErr.Detail)
}

func TestAPI_Control(t *testing.T) {
	tests := []struct {
		name     string
		hash     string
		wantPath string
		wantID   float64
	}{
		{"active torrent", "aaa", "/v1/api/torrents/controltorrent", 1},
		{"queued torrent", "qqq", "/v1/api/torrents/controlqueued", 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			var gotBody map[string]any
			api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/v1/api/torrents/mylist":
					assert.Equal(t, "true", r.URL.Query().Get("bypass_cache"))
					testutil.WriteJSON(w, myListBody)
				case "/v1/api/torrents/getqueued":
					testutil.WriteJSON(w, queuedBody)
				default:
					gotPath = r.URL.Path
					assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
					json.NewDecoder(r.Body).Decode(&gotBody)
					testutil.WriteJSON(w, `{"success":true,"detail":"ok"}`)
				}
			})

			resp, err := api.Control(context.Background(), tt.hash, OperationPause)
			require.NoError(t, err)
			assert.True(t, resp.Success)
			assert.Equal(t, tt.wantPath, gotPath)
			assert.Equal(t, tt.wantID, gotBody["torrent_id"])
			assert.Equal(t, OperationPause, gotBody["operation"])
		})
	}
}

func TestAPI_Availability(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/api/torrents/checkcached", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "aaa", q.Get("hash"))
		assert.Equal(t, "list", q.Get("format"))
		assert.Equal(t, "true", q.Get("list_files"))
		testutil.WriteJSON(w, `{"success":true,"data":[{"name":"Big Buck Bunny","size":10,"hash":"aaa","files":[{"name":"bbb.mp4","size":10}]}]}`)
	})

	resp, err := api.Availability(context.Background(), "aaa", true)
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "bbb.mp4", resp.Data[0].Files[0].Name)
}

func TestAPI_RequestDownload(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/api/torrents/requestdl", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, testAPIKey, q.Get("token"))
		assert.Equal(t, "123", q.Get("torrent_id"))
		assert.Equal(t, "456", q.Get("file_id"))
		assert.Equal(t, "false", q.Get("zip_link"))
		testutil.WriteJSON(w, `{"success":true,"data":"https://store.torbox.app/dl/abc"}`)
	})

	fileID := 456
	resp, err := api.RequestDownload(context.Background(), 123, &fileID, false)
	require.NoError(t, err)
	assert.Equal(t, "https://store.torbox.app/dl/abc", resp.Data)
}

func TestAPI_RequestDownload_NoCredentials(t *testing.T) {
	engine := request.NewEngine(request.NewHTTPTransport(nil, 0), store.New(store.Config{}))
	api := New(engine, zerolog.Nop())

	_, err := api.RequestDownload(context.Background(), 1, nil, true)

	var authErr *types.AuthenticationError
	assert.True(t, errors.As(err, &authErr))
}

func TestAPI_NullBodyYieldsEmptyEnvelope(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteJSON(w, "null")
	})
	ctx := context.Background()

	added, err := api.AddMagnet(ctx, "magnet:?xt=urn:btih:aaa", DefaultAddOptions())
	require.NoError(t, err)
	require.NotNil(t, added)
	assert.Zero(t, added.Data.TorrentID)

	uploaded, err := api.AddFile(ctx, []byte("d4:infoe"), DefaultAddOptions())
	require.NoError(t, err)
	require.NotNil(t, uploaded)
	assert.Empty(t, uploaded.Data.Hash)

	cached, err := api.Availability(ctx, "aaa", false)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Empty(t, cached.Data)

	link, err := api.RequestDownload(ctx, 1, nil, false)
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Empty(t, link.Data)
}

func TestAPI_Control_NullBody(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/api/torrents/mylist" {
			testutil.WriteJSON(w, myListBody)
			return
		}
		testutil.WriteJSON(w, "null")
	})

	resp, err := api.Control(context.Background(), "aaa", OperationPause)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.False(t, resp.Success)
}
