// Package client provides a small HTTP request helper that folds transport
// failures, error responses and successful bodies into one Result shape.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/fetchcache/pkg/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for client operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fetchcache_requests_total",
		Help: "Total requests by method and status",
	}, []string{"method", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fetchcache_request_duration_seconds",
		Help:    "Request duration in seconds by method",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"method"})
)

// DefaultContentType is sent with every request unless the caller overrides it.
const DefaultContentType = "application/json"

// Method is one of the supported HTTP request methods.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodDelete Method = http.MethodDelete
)

// Valid reports whether m is a supported method.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete:
		return true
	default:
		return false
	}
}

// Result is the outcome of a request. Exactly one of Error or Text is
// meaningful; Data is set alongside Text for JSON responses.
type Result[T any] struct {
	Error *Error `json:"error,omitempty"`
	Data  *T     `json:"data,omitempty"`
	Text  string `json:"text,omitempty"`
}

// OK reports whether the request succeeded.
func (r Result[T]) OK() bool {
	return r.Error == nil
}

// Client issues requests and normalizes their outcome.
type Client struct {
	httpClient *http.Client
	baseURL    string
	headers    map[string]string
	userAgent  string
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// HTTPClient performs the requests.
	HTTPClient *http.Client

	// BaseURL is prepended to relative resources (optional).
	BaseURL string

	// Headers are sent with every request, after the default Content-Type
	// and before per-request headers.
	Headers map[string]string

	// UserAgent header (optional).
	UserAgent string

	// Logger overrides the component logger derived from the global logger.
	Logger *zerolog.Logger
}

// DefaultConfig returns a configuration with a 30 second request timeout.
func DefaultConfig() Config {
	return Config{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// New creates a new client.
func New(cfg Config) (*Client, error) {
	if cfg.HTTPClient == nil {
		return nil, fmt.Errorf("http client is required")
	}

	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base url: %w", err)
		}
		if !u.IsAbs() {
			return nil, fmt.Errorf("base url must be absolute (got %q)", cfg.BaseURL)
		}
	}

	logger := log.With().Str("component", "client").Logger()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Client{
		httpClient: cfg.HTTPClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		headers:    cfg.Headers,
		userAgent:  cfg.UserAgent,
		logger:     logger,
	}, nil
}

// Request sends method to resource and folds the outcome into a Result.
//
// Headers start from Content-Type: application/json, then the client's
// headers, then headers; later keys win, compared case-insensitively. A nil
// body sends nothing, string and []byte bodies are sent as-is, anything else
// is encoded as JSON.
//
// A non-2xx response becomes {Error: {Code, Message}} when its JSON body
// carries both fields, otherwise {Error: {Message: "<status> <text>"}}. A 2xx
// JSON response yields Data and Text; any other 2xx response yields Text.
// Transport failures become {Error: {Message}}.
func Request[T any](ctx context.Context, c *Client, method Method, resource string, body any, headers map[string]string) Result[T] {
	if !method.Valid() {
		return failure[T](fmt.Sprintf("unsupported method %q", method))
	}

	resp, raw, err := c.do(ctx, method, resource, body, headers)
	if err != nil {
		c.logger.Debug().Err(err).
			Str("method", string(method)).
			Str("resource", resource).
			Msg("Request failed")
		return failure[T](err.Error())
	}

	isJSON := strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "json")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if isJSON {
			if apiErr, ok := decodeAPIError(raw); ok {
				return Result[T]{Error: apiErr}
			}
		}
		return failure[T](cache.StatusLine(resp))
	}

	text := string(raw)
	if isJSON {
		var data T
		if err := json.Unmarshal(raw, &data); err != nil {
			return failure[T](fmt.Sprintf("decode response: %v", err))
		}
		return Result[T]{Data: &data, Text: text}
	}

	return Result[T]{Text: text}
}

// Get performs a GET request.
func Get[T any](ctx context.Context, c *Client, resource string, headers map[string]string) Result[T] {
	return Request[T](ctx, c, MethodGet, resource, nil, headers)
}

// Post performs a POST request.
func Post[T any](ctx context.Context, c *Client, resource string, body any, headers map[string]string) Result[T] {
	return Request[T](ctx, c, MethodPost, resource, body, headers)
}

// Put performs a PUT request.
func Put[T any](ctx context.Context, c *Client, resource string, body any, headers map[string]string) Result[T] {
	return Request[T](ctx, c, MethodPut, resource, body, headers)
}

// Del performs a DELETE request.
func Del[T any](ctx context.Context, c *Client, resource string, headers map[string]string) Result[T] {
	return Request[T](ctx, c, MethodDelete, resource, nil, headers)
}

// FetchBody implements cache.Fetcher: a GET whose body is returned verbatim.
// Transport failures and non-2xx responses become *cache.NetworkError.
func (c *Client) FetchBody(ctx context.Context, resource string) (string, error) {
	resp, raw, err := c.do(ctx, MethodGet, resource, nil, nil)
	if err != nil {
		return "", &cache.NetworkError{URL: resource, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &cache.NetworkError{
			URL:        resource,
			StatusCode: resp.StatusCode,
			Status:     cache.StatusLine(resp),
		}
	}

	return string(raw), nil
}

// do executes the request and reads the whole response body.
func (c *Client) do(ctx context.Context, method Method, resource string, body any, headers map[string]string) (*http.Response, []byte, error) {
	startTime := time.Now()
	status := "error"
	defer func() {
		requestDuration.WithLabelValues(string(method)).Observe(time.Since(startTime).Seconds())
		requestsTotal.WithLabelValues(string(method), status).Inc()
	}()

	reader, err := encodeBody(body)
	if err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, string(method), c.resolve(resource), reader)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header = c.mergeHeaders(headers)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	status = strconv.Itoa(resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response body: %w", err)
	}

	c.logger.Debug().
		Str("method", string(method)).
		Str("url", req.URL.String()).
		Int("status_code", resp.StatusCode).
		Dur("duration", time.Since(startTime)).
		Msg("Request completed")

	return resp, raw, nil
}

// resolve prefixes relative resources with the base URL.
func (c *Client) resolve(resource string) string {
	if c.baseURL == "" {
		return resource
	}
	if u, err := url.Parse(resource); err == nil && u.IsAbs() {
		return resource
	}
	return c.baseURL + "/" + strings.TrimLeft(resource, "/")
}

// mergeHeaders layers defaults, client headers and request headers.
func (c *Client) mergeHeaders(headers map[string]string) http.Header {
	merged := make(http.Header)
	merged.Set("Content-Type", DefaultContentType)
	if c.userAgent != "" {
		merged.Set("User-Agent", c.userAgent)
	}
	for key, value := range c.headers {
		merged.Set(key, value)
	}
	for key, value := range headers {
		merged.Set(key, value)
	}
	return merged
}

// encodeBody normalizes a request body. nil means no body.
func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case string:
		return strings.NewReader(b), nil
	case []byte:
		return bytes.NewReader(b), nil
	case json.RawMessage:
		return bytes.NewReader(b), nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		return bytes.NewReader(data), nil
	}
}

func failure[T any](message string) Result[T] {
	return Result[T]{Error: &Error{Message: message}}
}
