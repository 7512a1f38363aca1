package crossref

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const workBody = `{
	"status": "ok",
	"message-type": "work",
	"message": {
		"DOI": "10.1038/abc",
		"author": [{"given": "Jane", "family": "Smith"}],
		"title": ["A Study of X"],
		"container-title": ["Nature"],
		"issued": {"date-parts": [[2020]]}
	}
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(WithBaseURL(srv.URL), WithRateLimit(1000))
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient()

	if c.baseURL != BaseURL {
		t.Errorf("baseURL = %s, want %s", c.baseURL, BaseURL)
	}
	if c.httpClient.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", c.httpClient.Timeout, DefaultTimeout)
	}
	if c.Name() != "crossref" {
		t.Errorf("Name() = %s, want crossref", c.Name())
	}
}

func TestNewClient_WithOptions(t *testing.T) {
	hc := &http.Client{Timeout: 5 * time.Second}
	c := NewClient(WithBaseURL("http://example.test/"), WithHTTPClient(hc), WithMailto("me@example.org"))

	if c.baseURL != "http://example.test" {
		t.Errorf("baseURL = %s, want trailing slash trimmed", c.baseURL)
	}
	if c.httpClient != hc {
		t.Error("httpClient not applied")
	}
	if got := c.userAgentHeader(); got != "pdfrename (mailto:me@example.org)" {
		t.Errorf("userAgentHeader() = %q", got)
	}
}

func TestGetWork_Success(t *testing.T) {
	var gotPath, gotMailto, gotUA string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMailto = r.URL.Query().Get("mailto")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(workBody))
	})
	WithMailto("me@example.org")(c)

	rec, err := c.GetWork(context.Background(), "10.1038/abc")
	if err != nil {
		t.Fatalf("GetWork() error = %v", err)
	}

	if gotPath != "/works/10.1038/abc" {
		t.Errorf("path = %q, want /works/10.1038/abc", gotPath)
	}
	if gotMailto != "me@example.org" {
		t.Errorf("mailto = %q, want me@example.org", gotMailto)
	}
	if !strings.Contains(gotUA, "mailto:me@example.org") {
		t.Errorf("User-Agent = %q, want mailto contact", gotUA)
	}
	if rec.Authors.First() != "Smith" {
		t.Errorf("Authors.First() = %q, want Smith", rec.Authors.First())
	}
	if rec.Title.First() != "A Study of X" {
		t.Errorf("Title.First() = %q", rec.Title.First())
	}
}

func TestGetWork_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		check   func(error) bool
		checkID string
	}{
		{
			name:    "not found",
			status:  http.StatusNotFound,
			body:    "Resource not found.",
			check:   IsNotFound,
			checkID: "IsNotFound",
		},
		{
			name:    "rate limited",
			status:  http.StatusTooManyRequests,
			body:    "",
			check:   IsRateLimited,
			checkID: "IsRateLimited",
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   "boom",
			check: func(err error) bool {
				var apiErr *APIError
				return errors.As(err, &apiErr) && apiErr.StatusCode == 500 && apiErr.Message == "boom"
			},
			checkID: "APIError 500",
		},
		{
			name:    "not JSON",
			status:  http.StatusOK,
			body:    "<html></html>",
			check:   func(err error) bool { return errors.Is(err, ErrInvalidResponse) },
			checkID: "ErrInvalidResponse",
		},
		{
			name:    "failed status",
			status:  http.StatusOK,
			body:    `{"status": "failed", "message": []}`,
			check:   func(err error) bool { return errors.Is(err, ErrInvalidResponse) },
			checkID: "ErrInvalidResponse",
		},
		{
			name:    "missing message",
			status:  http.StatusOK,
			body:    `{"status": "ok"}`,
			check:   func(err error) bool { return errors.Is(err, ErrInvalidResponse) },
			checkID: "ErrInvalidResponse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			rec, err := c.GetWork(context.Background(), "10.1234/x")
			if err == nil {
				t.Fatalf("GetWork() = %+v, want error", rec)
			}
			if !tt.check(err) {
				t.Errorf("GetWork() error = %v, want %s", err, tt.checkID)
			}
		})
	}
}

func TestGetWork_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(WithBaseURL(url))
	_, err := c.Lookup(context.Background(), "10.1234/x")
	if !errors.Is(err, ErrNetworkError) {
		t.Errorf("Lookup() error = %v, want ErrNetworkError", err)
	}
}

func TestGetWork_Cancelled(t *testing.T) {
	c := NewClient(WithBaseURL("http://127.0.0.1:1"), WithRateLimit(0.001))
	// Drain the single burst token so Wait must block.
	c.limiter.Allow()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.GetWork(ctx, "10.1234/x"); err == nil {
		t.Error("GetWork() with cancelled context returned nil error")
	}
}
