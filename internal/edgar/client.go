package edgar

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rickgao/thirteenf/internal/ratelimit"
)

// Default endpoints and limits.
const (
	DefaultDataURL     = "https://data.sec.gov"
	DefaultArchivesURL = "https://www.sec.gov/Archives/edgar/data"
	DefaultTimeout     = 30 * time.Second
)

// Client provides access to the EDGAR submissions and archive endpoints.
type Client struct {
	dataURL     string
	archivesURL string
	userAgent   string
	httpClient  *http.Client
	limiter     ratelimit.Limiter
	logger      *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new EDGAR client.
func NewClient(dataURL, archivesURL, userAgent string, opts ...ClientOption) *Client {
	c := &Client{
		dataURL:     strings.TrimRight(dataURL, "/"),
		archivesURL: strings.TrimRight(archivesURL, "/"),
		userAgent:   userAgent,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: ratelimit.NewWindow(ratelimit.DefaultRequests, ratelimit.DefaultPeriod),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the fixed per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLimiter replaces the default 10 req/s window limiter. Share one
// limiter between clients that talk to SEC from the same process.
func WithLimiter(l ratelimit.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = l
	}
}

// ArchivesURL returns the archive base URL.
func (c *Client) ArchivesURL() string {
	return c.archivesURL
}
