package cache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultFetchTimeout bounds a single upstream fetch made by HTTPFetcher.
const DefaultFetchTimeout = 30 * time.Second

// Fetcher retrieves the full response body for a URL.
// It fails with a *NetworkError on transport failure or a non-success response.
type Fetcher interface {
	FetchBody(ctx context.Context, url string) (string, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) (string, error)

// FetchBody calls f(ctx, url).
func (f FetcherFunc) FetchBody(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// NetworkError is returned when a fetch could not produce a successful body.
// StatusCode is zero for transport failures.
type NetworkError struct {
	URL        string
	StatusCode int
	Status     string
	Err        error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Status)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPFetcher fetches bodies with a plain GET.
type HTTPFetcher struct {
	Client    *http.Client
	UserAgent string
}

// NewHTTPFetcher returns a fetcher with DefaultFetchTimeout.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{
			Timeout: DefaultFetchTimeout,
		},
	}
}

// FetchBody implements Fetcher.
func (f *HTTPFetcher) FetchBody(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &NetworkError{URL: url, Err: err}
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &NetworkError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &NetworkError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Status:     StatusLine(resp),
		}
	}

	return string(body), nil
}

// StatusLine formats a response status as "<code> <text>", falling back to the
// standard status text when the server sent no reason phrase.
func StatusLine(resp *http.Response) string {
	text := http.StatusText(resp.StatusCode)
	if reason, ok := strings.CutPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "); ok && reason != "" {
		text = reason
	}
	return fmt.Sprintf("%d %s", resp.StatusCode, text)
}
