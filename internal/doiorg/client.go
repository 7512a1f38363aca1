// Package doiorg resolves DOIs through doi.org content negotiation,
// requesting CSL-JSON from whichever registration agency owns the DOI.
package doiorg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/matsen/pdfrename/internal/csl"
)

const (
	// BaseURL is the DOI resolver.
	BaseURL = "https://doi.org"

	// ContentType is the media type requested from the resolver.
	ContentType = "application/vnd.citationstyles.csl+json"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
)

var (
	// ErrNetworkError indicates the request could not be completed.
	ErrNetworkError = errors.New("network error communicating with doi.org")

	// ErrInvalidResponse indicates the body was not usable CSL-JSON.
	ErrInvalidResponse = errors.New("invalid CSL-JSON from doi.org")
)

// StatusError is returned for any response other than 200 OK.
type StatusError struct {
	StatusCode int
	DOI        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("doi.org returned status %d for %s", e.StatusCode, e.DOI)
}

// Client fetches CSL-JSON by DOI.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom resolver URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a doi.org content-negotiation client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
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
	return "doi.org"
}

// Lookup fetches the record for a DOI. It is an alias of GetCSL.
func (c *Client) Lookup(ctx context.Context, doi string) (*csl.Record, error) {
	return c.GetCSL(ctx, doi)
}

// GetCSL requests CSL-JSON for doi. Redirects to the registration agency are
// followed; anything but a final 200 is a *StatusError.
func (c *Client) GetCSL(ctx context.Context, doi string) (*csl.Record, error) {
	var buf bytes.Buffer
	err := requests.
		URL(c.baseURL + "/" + doi).
		Client(c.httpClient).
		Accept(ContentType).
		UserAgent(c.userAgent).
		CheckStatus(http.StatusOK).
		ToBytesBuffer(&buf).
		Fetch(ctx)
	if err != nil {
		var respErr *requests.ResponseError
		if errors.As(err, &respErr) {
			return nil, &StatusError{StatusCode: respErr.StatusCode, DOI: doi}
		}
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}

	rec, err := csl.Parse(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return rec, nil
}
