// Package cache provides a disk-backed response cache keyed by URL.
//
// Every entry is a single file named by the hex SHA-256 digest of the request
// URL. The file holds the raw response body and nothing else; its modification
// time is the only metadata. Freshness is decided per call: an entry is fresh
// while modtime + ttl is still in the future, so the same entry can be fresh for
// one caller and stale for another at the same instant.
//
// # Basic Usage
//
//	body, err := cache.FetchWithCache(ctx, "https://example.com/data.json",
//		cache.DefaultDir, cache.DefaultTTL)
//
// # Configured Instance
//
//	cfg := cache.DefaultConfig()
//	cfg.Dir = "/var/cache/myapp"
//	cfg.TTL = 10 * time.Minute
//
//	c, err := cache.New(cfg)
//	if err != nil {
//		return err
//	}
//
//	body, err := c.Fetch(ctx, url)
//
// # Failure Semantics
//
// The freshness probe never fails: any error while inspecting an entry counts
// as a miss. Everything after the probe does fail loudly. A read error on a
// fresh entry, a failed fetch, a failed mkdir or a failed write is returned to
// the caller. Fetch errors are returned as-is (usually a *NetworkError).
//
// # Storage
//
// Entries go through a Store. FSStore writes to an afero filesystem (the OS
// filesystem by default) using temp file + rename. RedisStore keeps the same
// layout in Redis hashes so several hosts can share one cache.
//
// # Concurrency
//
// There is no locking. Two concurrent misses for the same URL both fetch and
// both write; the later write wins.
//
// # Metrics
//
//   - fetchcache_cache_hits_total{store} - Fresh entries served
//   - fetchcache_cache_misses_total - Stale or absent entries
//   - fetchcache_cache_written_bytes_total - Bytes persisted after a fetch
//   - fetchcache_cache_errors_total{operation} - Read, mkdir and write errors
//   - fetchcache_fetches_total{result} - Fetch collaborator calls by outcome
package cache
