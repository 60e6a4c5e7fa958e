// Package fetch provides bounded URL fetching shared by every harvester.
// All reads are time-boxed and byte-capped so a single slow or malicious
// endpoint cannot stall an evaluation job.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout is the per-request HTTP timeout.
const DefaultTimeout = 5 * time.Second

// MaxBodyBytes is the response body ceiling. Reads are streamed and truncated
// once the ceiling is reached, never buffered unbounded.
const MaxBodyBytes = 2 << 20 // 2 MB

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; CandidateEvaluator/1.0)"

// Result holds the (possibly truncated) content of a URL fetch.
type Result struct {
	URL         string
	Body        string
	ContentType string
	StatusCode  int
	Truncated   bool
}

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures a single fetch.
type Options struct {
	UserAgent string
	Headers   map[string]string
}

// Client performs bounded HTTP fetches. The zero value is not usable; call
// NewClient.
type Client struct {
	http    *http.Client
	maxBody int64
}

// NewClient returns a Client with the default timeout and body ceiling.
func NewClient() *Client {
	return &Client{
		http:    &http.Client{Timeout: DefaultTimeout},
		maxBody: MaxBodyBytes,
	}
}

// NewClientWithLimits returns a Client with explicit bounds, used by tests.
func NewClientWithLimits(timeout time.Duration, maxBody int64) *Client {
	return &Client{
		http:    &http.Client{Timeout: timeout},
		maxBody: maxBody,
	}
}

// NewClientWithHTTP returns a Client backed by a caller-supplied HTTP client,
// used by tests to stub transports.
func NewClientWithHTTP(httpClient *http.Client, maxBody int64) *Client {
	return &Client{http: httpClient, maxBody: maxBody}
}

// Get retrieves up to the body ceiling of a URL's content, following
// redirects. A non-2xx status returns both the Result and an *Error so
// callers can inspect the status code.
func (c *Client) Get(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}

	ua := DefaultUserAgent
	if opts != nil && opts.UserAgent != "" {
		ua = opts.UserAgent
	}
	req.Header.Set("User-Agent", ua)
	if opts != nil {
		for key, value := range opts.Headers {
			req.Header.Set(key, value)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	// Read one byte past the ceiling to distinguish "exactly at the limit"
	// from "truncated".
	limited := io.LimitReader(resp.Body, c.maxBody+1)
	bodyBytes, err := io.ReadAll(limited)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	truncated := false
	if int64(len(bodyBytes)) > c.maxBody {
		bodyBytes = bodyBytes[:c.maxBody]
		truncated = true
	}

	result := &Result{
		URL:         urlStr,
		Body:        string(bodyBytes),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
		Truncated:   truncated,
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, &Error{
			URL:     urlStr,
			Message: fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	return result, nil
}
