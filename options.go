package torbox

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/slipstream/torbox/internal/request"
	"github.com/slipstream/torbox/internal/store"
)

type options struct {
	authURL    string
	apiURL     string
	retryCount int
	retryDelay time.Duration
	timeout    time.Duration
	httpClient *http.Client
	transport  request.Transport
	logger     zerolog.Logger
}

func defaultOptions() options {
	return options{
		authURL:    store.DefaultAuthURL,
		apiURL:     store.DefaultAPIURL,
		retryCount: DefaultRetryCount,
		retryDelay: request.DefaultRetryDelay,
		timeout:    30 * time.Second,
		logger:     zerolog.Nop(),
	}
}

// Option configures a Client.
type Option func(*options)

// WithAPIURL overrides the API base URL. It must end with a slash.
func WithAPIURL(u string) Option {
	return func(o *options) {
		if u != "" {
			o.apiURL = u
		}
	}
}

// WithAuthURL overrides the OAuth base URL. It must end with a slash.
func WithAuthURL(u string) Option {
	return func(o *options) {
		if u != "" {
			o.authURL = u
		}
	}
}

// WithRetryCount sets how many times a transient failure is retried.
func WithRetryCount(n int) Option {
	return func(o *options) {
		o.retryCount = n
	}
}

// WithRetryDelay sets the linear backoff unit.
func WithRetryDelay(d time.Duration) Option {
	return func(o *options) {
		o.retryDelay = d
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithHTTPClient uses a custom *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithTransport replaces the HTTP transport entirely.
func WithTransport(t request.Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// WithLogger sets the logger used by the endpoint APIs.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
