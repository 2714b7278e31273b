// Package scholar scrapes public scholar profile pages for author metadata
// and publication lists.
package scholar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/bib"
	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/org"
)

const (
	// BaseURL is the scholar profile host.
	BaseURL = "https://scholar.google.com"

	// DefaultTimeout is the HTTP client timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit caps requests per second. Profile pages throttle
	// aggressively, so stay well below one request per second.
	RateLimit = 0.5

	// PageSize is the number of publications requested per profile page.
	PageSize = 100

	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"
)

// Sentinel errors for scholar lookups.
var (
	ErrNotFound     = errors.New("no matching profile found")
	ErrBlocked      = errors.New("profile host refused the request")
	ErrNetworkError = errors.New("network error contacting profile host")
)

// Client scrapes scholar profiles.
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

// WithBaseURL overrides the profile host, used in tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithLogger sets the client logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates a scholar client.
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

// AuthorProfile finds a profile by author name. It satisfies the
// organisation's profile-source interface.
func (c *Client) AuthorProfile(ctx context.Context, fullName string) (org.AuthorProfile, error) {
	id, err := c.SearchAuthor(ctx, fullName)
	if err != nil {
		return org.AuthorProfile{}, err
	}
	return c.Profile(ctx, id)
}

// SearchAuthor returns the profile ID of the first search result for the
// given name.
func (c *Client) SearchAuthor(ctx context.Context, fullName string) (string, error) {
	q := url.Values{}
	q.Set("view_op", "search_authors")
	q.Set("mauthors", fullName)

	doc, err := c.fetch(ctx, "/citations?"+q.Encode())
	if err != nil {
		return "", err
	}

	id := parseSearchResult(doc)
	if id == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, fullName)
	}
	return id, nil
}

// Profile fetches a profile page by ID.
func (c *Client) Profile(ctx context.Context, id string) (org.AuthorProfile, error) {
	doc, err := c.profilePage(ctx, id)
	if err != nil {
		return org.AuthorProfile{}, err
	}
	p := parseProfile(doc)
	p.ID = id
	return p, nil
}

// Publications scrapes the publication list of a profile.
func (c *Client) Publications(ctx context.Context, id string) ([]bib.Hit, error) {
	doc, err := c.profilePage(ctx, id)
	if err != nil {
		return nil, err
	}
	return parsePublications(doc), nil
}

func (c *Client) profilePage(ctx context.Context, id string) (*goquery.Document, error) {
	q := url.Values{}
	q.Set("user", id)
	q.Set("pagesize", fmt.Sprint(PageSize))
	return c.fetch(ctx, "/citations?"+q.Encode())
}

func (c *Client) fetch(ctx context.Context, path string) (*goquery.Document, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	c.log.Debug().Str("path", path).Msg("scholar request")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden:
		return nil, ErrBlocked
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: status %d", ErrNetworkError, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}
	return doc, nil
}
