// Package user implements the TorBox account endpoints.
package user

import (
	"context"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/slipstream/torbox/internal/request"
	"github.com/slipstream/torbox/types"
)

// API groups the user endpoints.
type API struct {
	engine *request.Engine
	logger zerolog.Logger
}

// New creates the user API.
func New(engine *request.Engine, logger zerolog.Logger) *API {
	return &API{
		engine: engine,
		logger: logger.With().Str("component", "user").Logger(),
	}
}

// Me returns the authenticated account, including its settings when requested.
func (a *API) Me(ctx context.Context, settings bool) (*types.Response[types.User], error) {
	resp, err := request.Decode[*types.Response[types.User]](ctx, a.engine, request.Request{
		Path:        "user/me?settings=" + strconv.FormatBool(settings),
		Method:      http.MethodGet,
		RequireAuth: true,
	}, types.NewResponse[types.User])
	if err != nil {
		return nil, err
	}
	if resp == nil {
		resp = types.NewResponse[types.User]()
	}

	a.logger.Debug().Int("plan", resp.Data.Plan).Bool("settings", settings).Msg("Got user")
	return resp, nil
}
