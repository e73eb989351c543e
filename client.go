// Package torbox is a client for the TorBox debrid API.
//
// To use authentication call either UseAPIAuthentication with an API key
// from https://torbox.app/settings, or UseOAuthAuthentication with the
// tokens of a previously authorized OAuth2 session. When an OAuth2 access
// token is rejected, calls fail with *types.AccessTokenExpiredError; refresh
// the token, call UseOAuthAuthentication again and resubmit.
package torbox

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/slipstream/torbox/internal/request"
	"github.com/slipstream/torbox/internal/store"
	"github.com/slipstream/torbox/torrents"
	"github.com/slipstream/torbox/types"
	"github.com/slipstream/torbox/usenet"
	"github.com/slipstream/torbox/user"
)

// DefaultRetryCount is the number of retries for transient failures.
const DefaultRetryCount = 1

// Client consumes the TorBox API.
type Client struct {
	store  *store.Store
	engine *request.Engine
	logger zerolog.Logger

	Torrents *torrents.API
	Usenet   *usenet.API
	User     *user.API
}

// New creates a client. No authentication is active until one of the
// Use*Authentication methods is called.
func New(opts ...Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := store.New(store.Config{
		AuthURL:    o.authURL,
		APIURL:     o.apiURL,
		RetryLimit: o.retryCount,
	})

	transport := o.transport
	if transport == nil {
		transport = request.NewHTTPTransport(o.httpClient, o.timeout)
	}

	engineOpts := []request.Option{request.WithRetryDelay(o.retryDelay)}
	engine := request.NewEngine(transport, s, engineOpts...)

	logger := o.logger.With().Str("component", "torbox").Logger()

	return &Client{
		store:    s,
		engine:   engine,
		logger:   logger,
		Torrents: torrents.New(engine, o.logger),
		Usenet:   usenet.New(engine, o.logger),
		User:     user.New(engine, o.logger),
	}
}

// UseAPIAuthentication authenticates every request with apiKey.
func (c *Client) UseAPIAuthentication(apiKey string) error {
	if strings.TrimSpace(apiKey) == "" {
		return types.ErrEmptyAPIKey
	}
	c.store.UseAPIKey(apiKey)
	c.logger.Debug().Msg("Using API key authentication")
	return nil
}

// OAuthCredentials are the tokens of an OAuth2 session.
type OAuthCredentials = store.OAuthCredentials

// UseOAuthAuthentication authenticates every request with the OAuth2 access
// token in creds. The same call is used after a token refresh.
func (c *Client) UseOAuthAuthentication(creds OAuthCredentials) {
	c.store.UseOAuth(creds)
	c.logger.Debug().Bool("hasRefreshToken", creds.RefreshToken != "").Msg("Using OAuth2 authentication")
}

// AuthenticationMode returns "none", "api_key" or "oauth2".
func (c *Client) AuthenticationMode() string {
	return c.store.Mode().String()
}
