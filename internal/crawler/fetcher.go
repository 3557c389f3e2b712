package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// FetchResult is the outcome of one page fetch. A non-2xx status is
// reported through StatusCode, not as an error; transport failures
// (timeout, refused connection) are errors.
type FetchResult struct {
	// StatusCode is the HTTP response status.
	StatusCode int

	// Body is the response body, truncated at the configured limit.
	Body []byte

	// ContentType is the Content-Type response header.
	ContentType string

	// Header holds the full response headers.
	Header http.Header
}

// Fetcher retrieves a single URL. Implementations must bound both the
// request duration and the body size they read.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL, userAgent string) (*FetchResult, error)
}

// HTTPFetcher fetches pages over HTTP(S) with a bounded timeout and
// body size.
type HTTPFetcher struct {
	client      *http.Client
	timeout     time.Duration
	maxBodySize int64
}

// NewHTTPFetcher creates a fetcher using the given client. A nil
// client falls back to http.DefaultClient.
func NewHTTPFetcher(client *http.Client, timeout time.Duration, maxBodySize int64) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{
		client:      client,
		timeout:     timeout,
		maxBodySize: maxBodySize,
	}
}

// Fetch retrieves the URL with the given user agent.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL, userAgent string) (*FetchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", pageURL, err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", pageURL, err)
	}

	return &FetchResult{
		StatusCode:  resp.StatusCode,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		Header:      resp.Header,
	}, nil
}
