package cache

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/Sternrassler/fetchcache/internal/testutil"
)

func TestHTTPFetcher_FetchBody(t *testing.T) {
	mock := testutil.NewMockUpstream()
	defer mock.Close()

	mock.SetResponse("/ok", testutil.NewJSONResponse(`{"id":1}`))
	mock.SetResponse("/empty", testutil.MockResponse{StatusCode: http.StatusNoContent})
	mock.SetResponse("/missing", testutil.MockResponse{StatusCode: http.StatusNotFound, Body: "nope"})
	mock.SetResponse("/broken", testutil.NewServerErrorResponse())

	tests := []struct {
		name       string
		path       string
		want       string
		wantStatus int
		wantErr    bool
	}{
		{
			name: "success returns raw body",
			path: "/ok",
			want: `{"id":1}`,
		},
		{
			name: "no content",
			path: "/empty",
			want: "",
		},
		{
			name:       "not found",
			path:       "/missing",
			wantStatus: http.StatusNotFound,
			wantErr:    true,
		},
		{
			name:       "server error",
			path:       "/broken",
			wantStatus: http.StatusInternalServerError,
			wantErr:    true,
		},
	}

	fetcher := &HTTPFetcher{Client: mock.Client(), UserAgent: "fetchcache-test/1.0"}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fetcher.FetchBody(context.Background(), mock.URL()+tt.path)

			if tt.wantErr {
				var netErr *NetworkError
				if !errors.As(err, &netErr) {
					t.Fatalf("FetchBody() error = %v, want *NetworkError", err)
				}
				if netErr.StatusCode != tt.wantStatus {
					t.Errorf("StatusCode = %d, want %d", netErr.StatusCode, tt.wantStatus)
				}
				return
			}

			if err != nil {
				t.Fatalf("FetchBody() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("FetchBody() = %q, want %q", got, tt.want)
			}
		})
	}

	if ua := mock.LastRequestHeader().Get("User-Agent"); ua != "fetchcache-test/1.0" {
		t.Errorf("User-Agent = %q, want %q", ua, "fetchcache-test/1.0")
	}
	if method := mock.LastMethod(); method != http.MethodGet {
		t.Errorf("method = %q, want GET", method)
	}
}

func TestHTTPFetcher_TransportError(t *testing.T) {
	mock := testutil.NewMockUpstream()
	url := mock.URL() + "/gone"
	mock.Close()

	_, err := NewHTTPFetcher().FetchBody(context.Background(), url)

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("FetchBody() error = %v, want *NetworkError", err)
	}
	if netErr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for transport failure", netErr.StatusCode)
	}
	if netErr.Unwrap() == nil {
		t.Error("transport failure should wrap the underlying error")
	}
}

func TestHTTPFetcher_InvalidURL(t *testing.T) {
	_, err := NewHTTPFetcher().FetchBody(context.Background(), "://bad url")

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("FetchBody() error = %v, want *NetworkError", err)
	}
}

func TestNetworkError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *NetworkError
		want string
	}{
		{
			name: "status error",
			err:  &NetworkError{URL: "https://example.com", StatusCode: 503, Status: "503 Service Unavailable"},
			want: "fetch https://example.com: 503 Service Unavailable",
		},
		{
			name: "transport error",
			err:  &NetworkError{URL: "https://example.com", Err: io.ErrUnexpectedEOF},
			want: "fetch https://example.com: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}

	wrapped := &NetworkError{URL: "https://example.com", Err: io.ErrUnexpectedEOF}
	if !errors.Is(wrapped, io.ErrUnexpectedEOF) {
		t.Error("errors.Is should see the wrapped error")
	}
}

func TestStatusLine(t *testing.T) {
	tests := []struct {
		name string
		resp *http.Response
		want string
	}{
		{
			name: "server reason phrase",
			resp: &http.Response{StatusCode: 500, Status: "500 Internal Server Error"},
			want: "500 Internal Server Error",
		},
		{
			name: "custom reason phrase",
			resp: &http.Response{StatusCode: 418, Status: "418 Short And Stout"},
			want: "418 Short And Stout",
		},
		{
			name: "missing status",
			resp: &http.Response{StatusCode: 404},
			want: "404 Not Found",
		},
		{
			name: "bare code",
			resp: &http.Response{StatusCode: 502, Status: "502"},
			want: "502 Bad Gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusLine(tt.resp); got != tt.want {
				t.Errorf("StatusLine() = %q, want %q", got, tt.want)
			}
		})
	}
}
