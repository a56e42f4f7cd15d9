// Package fetch provides the HTTP tile loader behind a grid's tile
// lifecycle. It fetches single tiles and nothing more: no retries, no
// caching, no format sniffing. A failed tile is the caller's
// placeholder case.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ErrTileStatus reports a tile response outside the 2xx range.
var ErrTileStatus = errors.New("waw: unexpected tile status")

// DefaultUserAgent identifies waw to tile servers. Public servers
// commonly reject clients that send none.
const DefaultUserAgent = "waw/1.0 (+https://github.com/ElWali/waw)"

// Client loads tiles over HTTP. It satisfies grid.Loader and is safe
// for concurrent use.
type Client struct {
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

type config struct {
	HTTPClient *http.Client
	UserAgent  string
	Timeout    time.Duration
	Logger     *slog.Logger
}

type Option func(*config)

// WithHTTPClient supplies the underlying HTTP client. It overrides
// WithTimeout.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *config) { c.HTTPClient = httpClient }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *config) { c.UserAgent = ua }
}

// WithTimeout caps each request end to end. The per-call context can
// still cancel earlier.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.Timeout = d }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.Logger = logger }
}

// NewClient creates a tile loader. It applies given options over a
// 30 second timeout and the default User-Agent.
func NewClient(opts ...Option) *Client {
	config := config{
		UserAgent: DefaultUserAgent,
		Timeout:   30 * time.Second,
		Logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	return &Client{
		httpClient: httpClient,
		userAgent:  config.UserAgent,
		logger:     config.Logger,
	}
}

// Load fetches one tile and returns its bytes as-is.
func (c *Client) Load(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%w: %d for %s", ErrTileStatus, resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	c.logger.Debug("waw: tile fetched", "url", url, "bytes", len(body))
	return body, nil
}
