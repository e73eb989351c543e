// Package usenet implements the TorBox usenet endpoints.
package usenet

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
	OperationDelete = "delete"
	OperationResume = "resume"
	OperationPause  = "pause"
)

// AddOptions controls how a usenet download is created.
type AddOptions struct {
	PostProcessing int // -1 uses the account default
	Name           string
	Password       string
}

// DefaultAddOptions mirrors the service defaults.
func DefaultAddOptions() AddOptions {
	return AddOptions{PostProcessing: -1}
}

// API groups the usenet endpoints.
type API struct {
	engine *request.Engine
	logger zerolog.Logger
}

// New creates the usenet API.
func New(engine *request.Engine, logger zerolog.Logger) *API {
	return &API{
		engine: engine,
		logger: logger.With().Str("component", "usenet").Logger(),
	}
}

// List returns the user's usenet downloads, or nil when the service sent no body.
func (a *API) List(ctx context.Context, skipCache bool) ([]types.UsenetInfo, error) {
	resp, err := request.Decode[*types.Response[[]types.UsenetInfo]](ctx, a.engine, request.Request{
		Path:        "usenet/mylist?bypass_cache=" + strconv.FormatBool(skipCache),
		Method:      http.MethodGet,
		RequireAuth: true,
	}, nil)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}

	a.logger.Debug().Int("results", len(resp.Data)).Bool("skipCache", skipCache).Msg("Listed usenet downloads")
	return resp.Data, nil
}

// InfoByHash returns a usenet download by hash.
func (a *API) InfoByHash(ctx context.Context, hash string, skipCache bool) (*types.UsenetInfo, error) {
	list, err := a.List(ctx, skipCache)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].Hash == hash {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("usenet download %s: %w", hash, types.ErrNotFound)
}

// InfoByID returns a usenet download by ID.
func (a *API) InfoByID(ctx context.Context, id int, skipCache bool) (*types.UsenetInfo, error) {
	resp, err := request.Decode[*types.Response[*types.UsenetInfo]](ctx, a.engine, request.Request{
		Path:        fmt.Sprintf("usenet/mylist?bypass_cache=%t&id=%d", skipCache, id),
		Method:      http.MethodGet,
		RequireAuth: true,
	}, nil)
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Data == nil {
		return nil, fmt.Errorf("usenet download %d: %w", id, types.ErrNotFound)
	}
	return resp.Data, nil
}

func addFields(opts AddOptions) url.Values {
	fields := url.Values{}
	fields.Set("post_processing", strconv.Itoa(opts.PostProcessing))
	if opts.Name != "" {
		fields.Set("name", opts.Name)
	}
	if opts.Password != "" {
		fields.Set("password", opts.Password)
	}
	return fields
}

// AddFile uploads an NZB file.
func (a *API) AddFile(ctx context.Context, file []byte, opts AddOptions) (*types.Response[types.UsenetAddResult], error) {
	resp, err := request.Decode[*types.Response[types.UsenetAddResult]](ctx, a.engine, request.Request{
		Path:   "usenet/createusenetdownload",
		Method: http.MethodPost,
		Body: request.MultipartBody{
			Fields: addFields(opts),
			Files: []request.FilePart{{
				Field:       "file",
				FileName:    "nzb.nzb",
				ContentType: "application/x-nzb",
				Data:        file,
			}},
		},
		RequireAuth: true,
	}, types.NewResponse[types.UsenetAddResult])
	if err != nil {
		return nil, err
	}
	if resp == nil {
		resp = types.NewResponse[types.UsenetAddResult]()
	}

	a.logger.Debug().Str("hash", resp.Data.Hash).Int("usenetId", resp.Data.UsenetDownloadID).Msg("Added NZB file")
	return resp, nil
}

// AddLink creates a usenet download from an NZB link.
func (a *API) AddLink(ctx context.Context, link string, opts AddOptions) (*types.Response[types.UsenetAddResult], error) {
	fields := addFields(opts)
	fields.Set("link", link)

	resp, err := request.Decode[*types.Response[types.UsenetAddResult]](ctx, a.engine, request.Request{
		Path:        "usenet/createusenetdownload",
		Method:      http.MethodPost,
		Body:        request.Form(fields),
		RequireAuth: true,
	}, types.NewResponse[types.UsenetAddResult])
	if err != nil {
		return nil, err
	}
	if resp == nil {
		resp = types.NewResponse[types.UsenetAddResult]()
	}

	a.logger.Debug().Str("hash", resp.Data.Hash).Int("usenetId", resp.Data.UsenetDownloadID).Msg("Added NZB link")
	return resp, nil
}

// Control applies operation to the usenet download with the given hash, or
// to every download when all is set.
func (a *API) Control(ctx context.Context, hash, operation string, all bool) (*types.Response[json.RawMessage], error) {
	payload := map[string]any{
		"operation": operation,
		"all":       all,
	}
	if !all {
		info, err := a.InfoByHash(ctx, hash, true)
		if err != nil {
			return nil, err
		}
		payload["usenet_id"] = info.ID
	}

	body, err := request.JSON(payload)
	if err != nil {
		return nil, err
	}

	resp, err := request.Decode[*types.Response[json.RawMessage]](ctx, a.engine, request.Request{
		Path:        "usenet/controlusenetdownload",
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

	a.logger.Debug().Str("hash", hash).Str("operation", operation).Bool("all", all).Msg("Controlled usenet download")
	return resp, nil
}

// Availability checks whether the download is cached by the service.
func (a *API) Availability(ctx context.Context, hash string, listFiles bool) (*types.Response[[]types.AvailableUsenet], error) {
	params := url.Values{}
	params.Set("hash", hash)
	params.Set("format", "list")
	params.Set("list_files", strconv.FormatBool(listFiles))

	resp, err := request.Decode[*types.Response[[]types.AvailableUsenet]](ctx, a.engine, request.Request{
		Path:        "usenet/checkcached?" + params.Encode(),
		Method:      http.MethodGet,
		RequireAuth: true,
	}, types.NewResponse[[]types.AvailableUsenet])
	if err != nil {
		return nil, err
	}
	if resp == nil {
		resp = types.NewResponse[[]types.AvailableUsenet]()
	}
	return resp, nil
}

// RequestDownload issues a download link for a usenet download, or for one
// of its files when fileID is set.
func (a *API) RequestDownload(ctx context.Context, usenetID int, fileID *int, zip bool) (*types.Response[string], error) {
	token, err := a.engine.Store().BearerToken()
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("token", token)
	params.Set("usenet_id", strconv.Itoa(usenetID))
	if fileID != nil {
		params.Set("file_id", strconv.Itoa(*fileID))
	}
	params.Set("zip", strconv.FormatBool(zip))

	resp, err := request.Decode[*types.Response[string]](ctx, a.engine, request.Request{
		Path:        "usenet/requestdl?" + params.Encode(),
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
