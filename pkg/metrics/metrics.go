// Package metrics provides the Prometheus registry shared by fetchcache.
// Metrics are defined in their respective packages (cache, client) and
// registered via promauto, so this package only documents them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by fetchcache.
var Registry = prometheus.DefaultRegisterer

// Gatherer exposes the collected metrics, e.g. to promhttp.HandlerFor.
var Gatherer = prometheus.DefaultGatherer

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - fetchcache_cache_hits_total{store} (Counter): Fresh entries served, by store (fs, redis)
//   - fetchcache_cache_misses_total (Counter): Missing or stale entries
//   - fetchcache_cache_written_bytes_total (Counter): Bytes persisted to the store
//   - fetchcache_cache_errors_total{operation} (Counter): Store errors (read, mkdir, write)
//   - fetchcache_fetches_total{result} (Counter): Upstream fetches (ok, error)
//
// Request Metrics (pkg/client):
//   - fetchcache_requests_total{method, status} (Counter): Requests by method and HTTP status
//   - fetchcache_request_duration_seconds{method} (Histogram): Request duration by method
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(fetchcache_cache_hits_total[5m])) /
//   (sum(rate(fetchcache_cache_hits_total[5m])) + sum(rate(fetchcache_cache_misses_total[5m])))
//
//   # Upstream Failure Rate
//   rate(fetchcache_fetches_total{result="error"}[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(fetchcache_request_duration_seconds_bucket[5m]))
