// Package crossref is a minimal client for the Crossref REST API works
// endpoint.
package crossref

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matsen/pdfrename/internal/csl"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Crossref REST API base URL.
	BaseURL = "https://api.crossref.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is the default requests per second. The public pool allows
	// more, but batch renames never need it.
	RateLimit = 10.0

	// maxBodySize caps how much of a response is read.
	maxBodySize = 4 << 20
)

// Client is a rate-limited HTTP client for the Crossref works API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string
	userAgent  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithMailto sets the contact address that places requests in Crossref's
// polite pool.
func WithMailto(addr string) ClientOption {
	return func(c *Client) {
		c.mailto = addr
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
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithRateLimit sets the maximum requests per second.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithUserAgent sets the User-Agent product token.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a new Crossref API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		userAgent:  "pdfrename",
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name identifies this lookup in logs and results.
func (c *Client) Name() string {
	return "crossref"
}

// Lookup fetches the record for a DOI. It is an alias of GetWork.
func (c *Client) Lookup(ctx context.Context, doi string) (*csl.Record, error) {
	return c.GetWork(ctx, doi)
}

// GetWork fetches the work registered under doi and normalizes its
// "message" object into a Record.
func (c *Client) GetWork(ctx context.Context, doi string) (*csl.Record, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := c.baseURL + "/works/" + url.PathEscape(doi)
	if c.mailto != "" {
		reqURL += "?" + url.Values{"mailto": {c.mailto}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgentHeader())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrNetworkError, err)
	}

	if err := checkHTTPErrors(resp, body, doi); err != nil {
		return nil, err
	}

	return parseWork(body)
}

func (c *Client) userAgentHeader() string {
	if c.mailto != "" {
		return fmt.Sprintf("%s (mailto:%s)", c.userAgent, c.mailto)
	}
	return c.userAgent
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response, body []byte, doi string) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, doi)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(firstLine(string(body))),
			DOI:        doi,
		}
	}
	return nil
}

// parseWork unwraps the {"status": "ok", "message": {...}} envelope.
func parseWork(body []byte) (*csl.Record, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: body is not JSON", ErrInvalidResponse)
	}
	envelope := gjson.ParseBytes(body)
	if status := envelope.Get("status").String(); status != "ok" {
		return nil, fmt.Errorf("%w: status %q", ErrInvalidResponse, status)
	}
	message := envelope.Get("message")
	if !message.IsObject() {
		return nil, fmt.Errorf("%w: missing message", ErrInvalidResponse)
	}

	rec, err := csl.Parse([]byte(message.Raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return rec, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	if len(line) > 200 {
		line = line[:200]
	}
	return line
}
