package registry

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"
)

// RateLimiter controls request pacing before a registry call.
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// Client is an HTTP client with retry logic. It does not cache, and
// neither httpcache.Cache nor the ecosystem registry clients use it: the
// factories passed to Register ignore their *Client argument and fetch
// through httpcache.Cache, which issues and retries its own requests.
type Client struct {
	HTTPClient  *http.Client
	UserAgent   string
	MaxRetries  int
	BaseDelay   time.Duration
	RateLimiter RateLimiter
}

// DefaultClient returns a client with sensible defaults.
func DefaultClient() *Client {
	return &Client{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		UserAgent:  "deps-lsp",
		MaxRetries: 5,
		BaseDelay:  50 * time.Millisecond,
	}
}

// GetJSON fetches a URL and decodes the JSON response into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.GetBody(ctx, url)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

// GetBody fetches a URL and returns the response body, retrying transient
// failures (429, 5xx) with exponential backoff.
func (c *Client) GetBody(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.BaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		if c.RateLimiter != nil {
			if err := c.RateLimiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		body, err := c.doRequest(ctx, url)
		if err == nil {
			return body, nil
		}

		lastErr = err

		var httpErr *HTTPError
		if ok := isHTTPError(err, &httpErr); ok {
			if httpErr.StatusCode == 404 {
				return nil, err
			}
			if httpErr.StatusCode == 429 || httpErr.StatusCode >= 500 {
				continue
			}
			return nil, err
		}
	}

	return nil, lastErr
}

func (c *Client) doRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		httpErr := &HTTPError{
			StatusCode: resp.StatusCode,
			URL:        url,
			Body:       string(body),
		}
		if resp.StatusCode == 429 {
			if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
				if seconds, err := strconv.Atoi(retryAfter); err == nil {
					return nil, &RateLimitError{RetryAfter: seconds}
				}
			}
		}
		return nil, httpErr
	}

	return body, nil
}

func isHTTPError(err error, target **HTTPError) bool {
	if httpErr, ok := err.(*HTTPError); ok {
		*target = httpErr
		return true
	}
	return false
}

// GetText fetches a URL and returns the response body as a string - used
// for the Go proxy's plain-text @v/list endpoint.
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	body, err := c.GetBody(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.HTTPClient.Timeout = d
	}
}

// WithMaxRetries sets the maximum number of retries.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.MaxRetries = n
	}
}

// WithUserAgent sets the client's User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.UserAgent = ua
	}
}

// WithTransport replaces the underlying http.Client's Transport - used to
// install the DNS-caching, circuit-breaking transport from httpcache.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.HTTPClient.Transport = rt
	}
}

// NewClient creates a new client with the given options.
func NewClient(opts ...Option) *Client {
	c := DefaultClient()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func classifyFetchErr(ecosystem, name string, err error) error {
	var httpErr *HTTPError
	if isHTTPError(err, &httpErr) && httpErr.IsNotFound() {
		return &PackageNotFoundError{Ecosystem: ecosystem, Package: name}
	}
	if _, ok := err.(*json.SyntaxError); ok {
		return &APIResponseError{Ecosystem: ecosystem, Package: name, Err: err}
	}
	return &TransportError{Ecosystem: ecosystem, Package: name, Err: err}
}
