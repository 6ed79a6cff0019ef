package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/fightdex/fightdex/pkg/errors"
	"github.com/fightdex/fightdex/pkg/logging"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "fightdex/1.0"

	// maxBodySize caps response reads. Source pages are small; anything
	// larger indicates a misbehaving endpoint.
	maxBodySize = 10 << 20
)

// Client is an HTTP client bound to one source. Every request passes
// through the shared gate before it reaches the wire.
type Client struct {
	source    string
	gate      *Gate
	http      *http.Client
	userAgent string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHTTPClient swaps the underlying HTTP client. Tests use this to
// point at an httptest server transport.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// NewClient creates a client for one source sharing the given gate. A nil
// gate means ungated, which only tests should use.
func NewClient(source string, gate *Gate, opts ...ClientOption) *Client {
	c := &Client{
		source:    source,
		gate:      gate,
		http:      &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches a URL and returns the response body. Non-success statuses
// return a FetchError carrying the status code, so 429 and 5xx classify
// as recoverable.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	if c.gate != nil {
		if err := c.gate.Wait(ctx); err != nil {
			return nil, errors.WrapFetch(c.source, url, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapFetch(c.source, url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/html")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WrapFetch(c.source, url, err)
	}
	defer resp.Body.Close()

	logging.FromContext(ctx).Debug().
		Str("source", c.source).
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("fetch")

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewFetchError(c.source, url, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.WrapFetch(c.source, url, err)
	}
	return body, nil
}

// GetJSON fetches a URL and decodes the JSON response into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &errors.ParseError{Source: c.source, Subject: url, Message: "invalid JSON", Err: err}
	}
	return nil
}
