// Package store holds the credentials and fixed settings shared by every
// request a client issues.
package store

import (
	"strings"
	"sync"

	"github.com/slipstream/torbox/types"
)

// Default base URLs.
const (
	DefaultAuthURL = "https://api.torbox.app/oauth/"
	DefaultAPIURL  = "https://api.torbox.app/v1/api/"
)

// AuthenticationMode selects which credential is sent as the bearer token.
type AuthenticationMode int

const (
	ModeNone AuthenticationMode = iota
	ModeAPIKey
	ModeOAuth2
)

// String returns the mode name.
func (m AuthenticationMode) String() string {
	switch m {
	case ModeAPIKey:
		return "api_key"
	case ModeOAuth2:
		return "oauth2"
	default:
		return "none"
	}
}

// Base selects one of the two service endpoints.
type Base int

const (
	BaseAPI Base = iota
	BaseAuth
)

// OAuthCredentials are the tokens of a three-legged or device OAuth2 session.
type OAuthCredentials struct {
	ClientID     string
	ClientSecret string
	AccessToken  string
	RefreshToken string
}

// Config holds the settings fixed at construction.
type Config struct {
	AuthURL    string
	APIURL     string
	RetryLimit int
}

// Store is the credential store of a single client. The mode is switched only
// through UseAPIKey and UseOAuth.
type Store struct {
	authURL    string
	apiURL     string
	retryLimit int

	mu     sync.RWMutex
	mode   AuthenticationMode
	apiKey string
	oauth  OAuthCredentials
}

// New creates a store with no active authentication mode.
func New(cfg Config) *Store {
	if cfg.AuthURL == "" {
		cfg.AuthURL = DefaultAuthURL
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.RetryLimit < 0 {
		cfg.RetryLimit = 0
	}
	return &Store{
		authURL:    cfg.AuthURL,
		apiURL:     cfg.APIURL,
		retryLimit: cfg.RetryLimit,
	}
}

// UseAPIKey switches the store to API key authentication.
func (s *Store) UseAPIKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = ModeAPIKey
	s.apiKey = key
}

// UseOAuth switches the store to OAuth2 authentication.
func (s *Store) UseOAuth(creds OAuthCredentials) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = ModeOAuth2
	s.oauth = creds
}

// Mode returns the active authentication mode.
func (s *Store) Mode() AuthenticationMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// OAuth returns the stored OAuth credentials.
func (s *Store) OAuth() OAuthCredentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.oauth
}

// RetryLimit returns the number of retries allowed for transient failures.
func (s *Store) RetryLimit() int {
	return s.retryLimit
}

// BaseURL returns the URL for the given endpoint.
func (s *Store) BaseURL(base Base) string {
	if base == BaseAuth {
		return s.authURL
	}
	return s.apiURL
}

// BearerToken resolves the token for the active mode. A missing or blank
// secret is an *types.AuthenticationError.
func (s *Store) BearerToken() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch s.mode {
	case ModeAPIKey:
		if strings.TrimSpace(s.apiKey) == "" {
			return "", &types.AuthenticationError{
				Message: "no API key set, make sure to call UseAPIAuthentication with a valid API key",
			}
		}
		return s.apiKey, nil
	case ModeOAuth2:
		if strings.TrimSpace(s.oauth.AccessToken) == "" {
			return "", &types.AuthenticationError{
				Message: "no access token set, make sure to call UseOAuthAuthentication with a valid access token",
			}
		}
		return s.oauth.AccessToken, nil
	default:
		return "", &types.AuthenticationError{Message: "no valid authentication token found"}
	}
}
