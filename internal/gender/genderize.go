package gender

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Genderize API base URL.
	BaseURL = "https://api.genderize.io"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit keeps well under the Genderize free-tier daily quota.
	RateLimit = 2.0

	// ConfidentProbability is the minimum probability for a final verdict.
	ConfidentProbability = 0.95

	// LeaningProbability is the minimum probability for a mostly_* verdict.
	LeaningProbability = 0.6
)

// Common errors returned by the Genderize client.
var (
	// ErrRateLimited indicates the API quota has been exceeded.
	ErrRateLimited = errors.New("genderize rate limit exceeded")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with genderize")

	// ErrInvalidResponse indicates an unexpected API response.
	ErrInvalidResponse = errors.New("invalid response from genderize")
)

// Client is a rate-limited HTTP client for the Genderize API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
	log        zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key for quota-extended requests.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a new Genderize API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		log:        zerolog.Nop(),
	}

	if key := os.Getenv("GENDERIZE_API_KEY"); key != "" {
		c.apiKey = key
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// genderizeResponse is the Genderize API payload for a single name.
type genderizeResponse struct {
	Name        string  `json:"name"`
	Gender      string  `json:"gender"` // "male", "female", or null
	Probability float64 `json:"probability"`
	Count       int     `json:"count"`
}

// Guess classifies a first name via the Genderize API.
//
// The probability is mapped onto the verdict vocabulary: at or above
// ConfidentProbability the verdict is final, at or above LeaningProbability it
// becomes mostly_male/mostly_female, below that the name is treated as
// androgynous. Names the API has never seen come back unknown.
func (c *Client) Guess(ctx context.Context, firstName string) (Verdict, error) {
	if firstName == "" {
		return Unknown, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return Unknown, fmt.Errorf("rate limiter: %w", err)
	}

	q := url.Values{}
	q.Set("name", firstName)
	if c.apiKey != "" {
		q.Set("apikey", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Unknown, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Unknown, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return Unknown, fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return Unknown, fmt.Errorf("%w: status %d", ErrInvalidResponse, resp.StatusCode)
	}

	var payload genderizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Unknown, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	verdict := mapVerdict(payload)
	c.log.Debug().
		Str("name", firstName).
		Str("verdict", string(verdict)).
		Float64("probability", payload.Probability).
		Int("count", payload.Count).
		Msg("genderize lookup")

	return verdict, nil
}

// mapVerdict converts an API payload into the verdict vocabulary.
func mapVerdict(r genderizeResponse) Verdict {
	if r.Gender == "" || r.Count == 0 {
		return Unknown
	}

	var confident, leaning Verdict
	switch r.Gender {
	case "male":
		confident, leaning = Male, MostlyMale
	case "female":
		confident, leaning = Female, MostlyFemale
	default:
		return Unknown
	}

	switch {
	case r.Probability >= ConfidentProbability:
		return confident
	case r.Probability >= LeaningProbability:
		return leaning
	default:
		return Andy
	}
}
