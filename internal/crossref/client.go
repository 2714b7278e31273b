// Package crossref queries the CrossRef REST API for works and DOIs.
package crossref

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/bib"
)

const (
	// BaseURL is the CrossRef REST API endpoint.
	BaseURL = "https://api.crossref.org"

	// DefaultTimeout is the HTTP client timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit caps requests per second. CrossRef asks polite pool users
	// to stay around 1 rps.
	RateLimit = 1.0

	// DefaultRows is the page size for works queries.
	DefaultRows = 100
)

// Sentinel errors for CrossRef failures.
var (
	ErrRateLimited     = errors.New("crossref rate limit exceeded")
	ErrNetworkError    = errors.New("network error contacting crossref")
	ErrInvalidResponse = errors.New("invalid response from crossref")
	ErrNotFound        = errors.New("no matching work found")
)

// Client is a rate-limited CrossRef API client.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithMailto joins the polite pool by identifying the caller.
func WithMailto(mailto string) Option {
	return func(c *Client) { c.mailto = mailto }
}

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

// NewClient creates a CrossRef client.
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

type worksResponse struct {
	Message struct {
		Items []workItem `json:"items"`
	} `json:"message"`
}

type workItem struct {
	DOI            string       `json:"DOI"`
	Title          []string     `json:"title"`
	ContainerTitle []string     `json:"container-title"`
	Type           string       `json:"type"`
	Author         []workAuthor `json:"author"`
	Created        struct {
		DateParts [][]int `json:"date-parts"`
	} `json:"created"`
	CitedBy int `json:"is-referenced-by-count"`
}

type workAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

// SearchAuthor queries works by author name and keeps only items where the
// queried name actually appears in the author list, since CrossRef relevance
// search returns loose matches.
func (c *Client) SearchAuthor(ctx context.Context, authorName string) ([]bib.Hit, error) {
	q := url.Values{}
	q.Set("query.author", authorName)
	q.Set("rows", fmt.Sprint(DefaultRows))
	q.Set("select", "DOI,title,container-title,type,author,created,is-referenced-by-count")

	resp, err := c.get(ctx, "/works", q)
	if err != nil {
		return nil, err
	}

	var hits []bib.Hit
	for _, item := range resp.Message.Items {
		if item.hasAuthor(authorName) {
			hits = append(hits, item.toHit())
		}
	}
	return hits, nil
}

// hasAuthor reports whether the queried name appears in the item's author
// list, compared case-insensitively on "given family".
func (w workItem) hasAuthor(authorName string) bool {
	want := strings.ToLower(authorName)
	for _, a := range w.Author {
		full := strings.ToLower(strings.TrimSpace(a.Given + " " + a.Family))
		if full == want {
			return true
		}
	}
	return false
}

// DOIForTitle returns the DOI registered for an exact title match. Titles are
// compared case-insensitively; a trailing ellipsis from truncated search
// results is ignored on the query side.
func (c *Client) DOIForTitle(ctx context.Context, title string) (string, error) {
	query := strings.ToLower(strings.TrimSpace(strings.TrimSuffix(title, "…")))

	q := url.Values{}
	q.Set("query.title", query)
	q.Set("rows", "5")
	q.Set("select", "DOI,title")

	resp, err := c.get(ctx, "/works", q)
	if err != nil {
		return "", err
	}

	for _, item := range resp.Message.Items {
		if len(item.Title) == 0 {
			continue
		}
		if strings.ToLower(item.Title[0]) == query {
			return item.DOI, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, title)
}

func (c *Client) get(ctx context.Context, path string, q url.Values) (*worksResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	if c.mailto != "" {
		q.Set("mailto", c.mailto)
	}

	endpoint := c.baseURL + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	c.log.Debug().Str("url", endpoint).Msg("crossref request")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: status %d", ErrInvalidResponse, resp.StatusCode)
	}

	var body worksResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return &body, nil
}
