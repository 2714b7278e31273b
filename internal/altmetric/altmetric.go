// Package altmetric fetches attention scores for DOIs from the Altmetric
// public API.
package altmetric

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Altmetric public API endpoint.
	BaseURL = "https://api.altmetric.com/v1"

	// DefaultTimeout is the HTTP client timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit caps requests per second for the free tier.
	RateLimit = 1.0
)

// Sentinel errors for Altmetric lookups.
var (
	ErrNotFound        = errors.New("doi has no altmetric record")
	ErrRateLimited     = errors.New("altmetric rate limit exceeded")
	ErrNetworkError    = errors.New("network error contacting altmetric")
	ErrInvalidResponse = errors.New("invalid response from altmetric")
)

// Client is a rate-limited Altmetric API client. It satisfies the record
// collection's attention-score interface.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithBaseURL overrides the API endpoint, used in tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithLogger sets the client logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates an Altmetric client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Score returns the attention score for a DOI. ErrNotFound means the DOI is
// simply untracked, which most are.
func (c *Client) Score(ctx context.Context, doi string) (float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}

	endpoint := c.baseURL + "/doi/" + url.PathEscape(doi)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}

	c.log.Debug().Str("doi", doi).Msg("altmetric request")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return 0, fmt.Errorf("%w: %s", ErrNotFound, doi)
	case resp.StatusCode == http.StatusTooManyRequests:
		return 0, ErrRateLimited
	case resp.StatusCode >= 400:
		return 0, fmt.Errorf("%w: status %d", ErrInvalidResponse, resp.StatusCode)
	}

	var body struct {
		Score float64 `json:"score"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return body.Score, nil
}
