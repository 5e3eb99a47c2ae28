package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Sternrassler/fetchcache/pkg/cache"
	"github.com/Sternrassler/fetchcache/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// newRouter wires the proxy endpoints.
func newRouter(c *cache.Cache, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/fetch", fetchHandler(c, logger))

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

// fetchHandler serves GET /fetch?url=<url>[&ttl=<duration>] through the cache.
func fetchHandler(c *cache.Cache, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := r.URL.Query().Get("url")
		if target == "" {
			http.Error(w, "missing url parameter", http.StatusBadRequest)
			return
		}

		ttl := c.TTL()
		if raw := r.URL.Query().Get("ttl"); raw != "" {
			parsed, err := parseDuration(raw)
			if err != nil || parsed < 0 {
				http.Error(w, fmt.Sprintf("invalid ttl %q", raw), http.StatusBadRequest)
				return
			}
			ttl = parsed
		}

		body, err := c.FetchTTL(r.Context(), target, ttl)
		if err != nil {
			var netErr *cache.NetworkError
			if errors.As(err, &netErr) {
				logger.Error().Err(err).
					Str("url", target).
					Str("request_id", middleware.GetReqID(r.Context())).
					Msg("Upstream fetch failed")
				http.Error(w, fmt.Sprintf("upstream request failed: %v", err), http.StatusBadGateway)
				return
			}
			logger.Warn().Err(err).
				Str("url", target).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("Cache operation failed")
			http.Error(w, "cache error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Cache-Key", cache.Key(target))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(body)); err != nil {
			logger.Debug().Err(err).Msg("Failed to write response")
		}
	}
}
