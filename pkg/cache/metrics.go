package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks fresh entries served by store backend
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetchcache_cache_hits_total",
			Help: "Total number of fresh cache entries served",
		},
		[]string{"store"}, // "fs", "redis"
	)

	// CacheMisses tracks stale or absent entries
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fetchcache_cache_misses_total",
			Help: "Total number of stale or absent cache entries",
		},
	)

	// CacheWrittenBytes tracks bytes persisted after a fetch
	CacheWrittenBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fetchcache_cache_written_bytes_total",
			Help: "Total number of response body bytes written to the cache",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetchcache_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "read", "mkdir", "write"
	)

	// Fetches tracks fetch collaborator calls by outcome
	Fetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetchcache_fetches_total",
			Help: "Total number of upstream fetches triggered by cache misses",
		},
		[]string{"result"}, // "ok", "error"
	)
)
