// Package torrents implements the TorBox torrent endpoints.
package torrents

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/slipstream/torbox/internal/request"
	"github.com/slipstream/torbox/types"
)

// Control operations accepted by the service.
const (
	OperationReannounce = "reannounce"
	OperationDelete     = "delete"
	OperationResume     = "resume"
	OperationPause      = "pause"
)

// AddOptions controls how a torrent is created.
type AddOptions struct {
	Seeding  int // 1 auto, 2 seed, 3 don't seed
	AllowZip bool
	Name     string
}

// DefaultAddOptions mirrors the service defaults.
func DefaultAddOptions() AddOptions {
	return AddOptions{Seeding: 1}
}

// API groups the torrent endpoints.
type API struct {
	engine *request.Engine
	logger zerolog.Logger
}

// New creates the torrent API.
func New(engine *request.Engine, logger zerolog.Logger) *API {
	return &API{
		engine: engine,
		logger: logger.With().Str("component", "torrents").Logger(),
	}
}

// List returns the user's current torrents. It returns nil when the service
// sent no body.
func (a *API) List(ctx context.Context, skipCache bool) ([]types.TorrentInfo, error) {
	resp, err := request.Decode[*types.Response[[]types.TorrentInfo]](ctx, a.engine, request.Request{
		Path:        "torrents/mylist?bypass_cache=" + strconv.FormatBool(skipCache),
		Method:      http.MethodGet,
		RequireAuth: true,
	}, nil)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}

	a.logger.Debug().Int("results", len(resp.Data)).Bool("skipCache", skipCache).Msg("Listed torrents")
	return resp.Data, nil
}

// Total returns the number of current torrents, or -1 when the service sent no body.
func (a *API) Total(ctx context.Context, skipCache bool) (int, error) {
	list, err := a.List(ctx, skipCache)
	if err != nil {
		return 0, err
	}
	if list == nil {
		return -1, nil
	}
	return len(list), nil
}

// Queued returns torrents waiting for a download slot, shaped like current torrents.
func (a *API) Queued(ctx context.Context) ([]types.TorrentInfo, error) {
	resp, err := request.Decode[*types.Response[[]types.QueuedTorrent]](ctx, a.engine, request.Request{
		Path:        "torrents/getqueued",
		Method:      http.MethodGet,
		RequireAuth: true,
	}, nil)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}

	torrents := make([]types.TorrentInfo, 0, len(resp.Data))
	for _, q := range resp.Data {
		torrents = append(torrents, queuedToInfo(q))
	}

	a.logger.Debug().Int("results", len(torrents)).Msg("Listed queued torrents")
	return torrents, nil
}

func queuedToInfo(q types.QueuedTorrent) types.TorrentInfo {
	return types.TorrentInfo{
		ID:            q.ID,
		AuthID:        q.AuthID,
		Hash:          q.Hash,
		Name:          q.Name,
		Magnet:        q.Magnet,
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.CreatedAt,
		DownloadState: types.StateQueued,
		TorrentFile:   q.TorrentFile != nil,
		Files:         []types.TorrentFile{},
	}
}

// InfoByID returns a current or queued torrent by ID.
func (a *API) InfoByID(ctx context.Context, id int, skipCache bool) (*types.TorrentInfo, error) {
	resp, err := request.Decode[*types.Response[*types.TorrentInfo]](ctx, a.engine, request.Request{
		Path:        fmt.Sprintf("torrents/mylist?bypass_cache=%t&id=%d", skipCache, id),
		Method:      http.MethodGet,
		RequireAuth: true,
	}, nil)
	if err != nil {
		return nil, err
	}
	if resp != nil && resp.Data != nil {
		return resp.Data, nil
	}

	queued, err := a.Queued(ctx)
	if err != nil {
		return nil, err
	}
	for i := range queued {
		if queued[i].ID == id {
			return &queued[i], nil
		}
	}
	return nil, fmt.Errorf("torrent %d: %w", id, types.ErrNotFound)
}

// InfoByHash returns a current or queued torrent by info hash.
func (a *API) InfoByHash(ctx context.Context, hash string, skipCache bool) (*types.TorrentInfo, error) {
	current, err := a.List(ctx, skipCache)
	if err != nil {
		return nil, err
	}
	for i := range current {
		if current[i].Hash == hash {
			return &current[i], nil
		}
	}

	queued, err := a.Queued(ctx)
	if err != nil {
		return nil, err
	}
	for i := range queued {
		if queued[i].Hash == hash {
			return &queued[i], nil
		}
	}
	return nil, fmt.Errorf("torrent %s: %w", hash, types.ErrNotFound)
}

func addFields(opts AddOptions) url.Values {
	fields := url.Values{}
	fields.Set("seed", strconv.Itoa(opts.Seeding))
	fields.Set("allow_zip", strconv.FormatBool(opts.AllowZip))
	if opts.Name != "" {
		fields.Set("name", opts.Name)
	}
	return fields
}

// AddFile uploads a .torrent file.
func (a *API) AddFile(ctx context.Context, file []byte, opts AddOptions) (*types.Response[types.TorrentAddResult], error) {
	resp, err := request.Decode[*types.Response[types.TorrentAddResult]](ctx, a.engine, request.Request{
		Path:   "torrents/createtorrent",
		Method: http.MethodPost,
		Body: request.MultipartBody{
			Fields: addFields(opts),
			Files: []request.FilePart{{
				Field:       "file",
				FileName:    "torrent.torrent",
				ContentType: "application/x-bittorrent",
				Data:        file,
			}},
		},
		RequireAuth: true,
	}, types.NewResponse[types.TorrentAddResult])
	if err != nil {
		return nil, err
	}
	if resp == nil {
		resp = types.NewResponse[types.TorrentAddResult]()
	}

	a.logger.Debug().Str("hash", resp.Data.Hash).Int("torrentId", resp.Data.TorrentID).Msg("Added torrent file")
	return resp, nil
}

// AddMagnet creates a torrent from a magnet link.
func (a *API) AddMagnet(ctx context.Context, magnet string, opts AddOptions) (*types.Response[types.TorrentAddResult], error) {
	fields := addFields(opts)
	fields.Set("magnet", magnet)

	resp, err := request.Decode[*types.Response[types.TorrentAddResult]](ctx, a.engine, request.Request{
		Path:        "torrents/createtorrent",
		Method:      http.MethodPost,
		Body:        request.Form(fields),
		RequireAuth: true,
	}, types.NewResponse[types.TorrentAddResult])
	if err != nil {
		return nil, err
	}
	if resp == nil {
		resp = types.NewResponse[types.TorrentAddResult]()
	}

	a.logger.Debug().Str("hash", resp.Data.Hash).Int("torrentId", resp.Data.TorrentID).Msg("Added magnet")
	return resp, nil
}

// Control applies operation to the torrent with the given hash. Queued
// torrents go through the queue control endpoint.
func (a *API) Control(ctx context.Context, hash, operation string) (*types.Response[json.RawMessage], error) {
	info, err := a.InfoByHash(ctx, hash, true)
	if err != nil {
		return nil, err
	}

	body, err := request.JSON(map[string]any{
		"torrent_id": info.ID,
		"operation":  operation,
	})
	if err != nil {
		return nil, err
	}

	path := "torrents/controltorrent"
	if info.DownloadState == types.StateQueued {
		path = "torrents/controlqueued"
	}

	resp, err := request.Decode[*types.Response[json.RawMessage]](ctx, a.engine, request.Request{
		Path:        path,
		Method:      http.MethodPost,
		Body:        body,
		RequireAuth: true,
	}, types.NewResponse[json.RawMessage])
	if err != nil {
		return nil, err
	}
	if resp == nil {
		resp = types.NewResponse[json.RawMessage]()
	}

	a.logger.Debug().Str("hash", hash).Str("operation", operation).Int("torrentId", info.ID).Msg("Controlled torrent")
	return resp, nil
}

// Availability checks whether the torrent is cached by the service.
func (a *API) Availability(ctx context.Context, hash string, listFiles bool) (*types.Response[[]types.AvailableTorrent], error) {
	params := url.Values{}
	params.Set("hash", hash)
	params.Set("format", "list")
	params.Set("list_files", strconv.FormatBool(listFiles))

	resp, err := request.Decode[*types.Response[[]types.AvailableTorrent]](ctx, a.engine, request.Request{
		Path:        "torrents/checkcached?" + params.Encode(),
		Method:      http.MethodGet,
		RequireAuth: true,
	}, types.NewResponse[[]types.AvailableTorrent])
	if err != nil {
		return nil, err
	}
	if resp == nil {
		resp = types.NewResponse[[]types.AvailableTorrent]()
	}
	return resp, nil
}

// RequestDownload issues a download link for a torrent, or for one of its
// files when fileID is set.
func (a *API) RequestDownload(ctx context.Context, torrentID int, fileID *int, zip bool) (*types.Response[string], error) {
	token, err := a.engine.Store().BearerToken()
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("token", token)
	params.Set("torrent_id", strconv.Itoa(torrentID))
	if fileID != nil {
		params.Set("file_id", strconv.Itoa(*fileID))
	}
	params.Set("zip_link", strconv.FormatBool(zip))

	resp, err := request.Decode[*types.Response[string]](ctx, a.engine, request.Request{
		Path:        "torrents/requestdl?" + params.Encode(),
		Method:      http.MethodGet,
		RequireAuth: true,
	}, types.NewResponse[string])
	if err != nil {
		return nil, err
	}
	if resp == nil {
		resp = types.NewResponse[string]()
	}
	return resp, nil
}
