package cache

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// DefaultDir is the cache directory used when the caller has no opinion.
const DefaultDir = "cache/"

// Cache resolves URLs to response bodies, serving fresh entries from its store
// and refreshing the rest through its fetcher.
type Cache struct {
	dir     string
	ttl     time.Duration
	fetcher Fetcher
	store   Store
	now     func() time.Time
	logger  zerolog.Logger
}

// Config holds the cache configuration.
type Config struct {
	// Dir groups all entries of one logical cache. Created on first write.
	Dir string

	// TTL applies to Fetch. FetchTTL overrides it per call.
	TTL time.Duration

	// Fetcher is called on a miss.
	Fetcher Fetcher

	// Store persists entries (default: FSStore on the OS filesystem).
	Store Store

	// Clock returns the current time (default: time.Now).
	Clock func() time.Time

	// Logger overrides the component logger derived from the global logger.
	Logger *zerolog.Logger
}

// DefaultConfig returns a configuration with the documented defaults.
func DefaultConfig() Config {
	return Config{
		Dir:     DefaultDir,
		TTL:     DefaultTTL,
		Fetcher: NewHTTPFetcher(),
		Store:   NewFSStore(afero.NewOsFs()),
		Clock:   time.Now,
	}
}

// New creates a cache from cfg.
func New(cfg Config) (*Cache, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("cache dir is required")
	}

	if cfg.TTL < 0 {
		return nil, fmt.Errorf("ttl must be >= 0 (got %s)", cfg.TTL)
	}

	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}

	store := cfg.Store
	if store == nil {
		store = NewFSStore(afero.NewOsFs())
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	logger := log.With().Str("component", "cache").Logger()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Cache{
		dir:     cfg.Dir,
		ttl:     cfg.TTL,
		fetcher: cfg.Fetcher,
		store:   store,
		now:     clock,
		logger:  logger,
	}, nil
}

// FetchWithCache resolves url through a cache rooted at cacheDir on the OS
// filesystem, fetching over HTTP on a miss. Every call builds its own Cache,
// so no state is shared between calls beyond the directory itself.
func FetchWithCache(ctx context.Context, url, cacheDir string, ttl time.Duration) (string, error) {
	cfg := DefaultConfig()
	cfg.Dir = cacheDir
	cfg.TTL = ttl

	c, err := New(cfg)
	if err != nil {
		return "", err
	}
	return c.Fetch(ctx, url)
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// TTL returns the TTL used by Fetch.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Path returns the entry path for url.
func (c *Cache) Path(url string) string {
	return filepath.Join(c.dir, Key(url))
}

// Fetch resolves url using the configured TTL.
func (c *Cache) Fetch(ctx context.Context, url string) (string, error) {
	return c.FetchTTL(ctx, url, c.ttl)
}

// FetchTTL resolves url, treating the entry as fresh for ttl after it was
// written. A fresh entry is returned as stored; otherwise the body is fetched,
// written in place of the old entry and returned.
//
// Only the freshness probe is forgiving. Read, mkdir and write failures are
// wrapped and returned; fetch failures are returned unchanged.
func (c *Cache) FetchTTL(ctx context.Context, url string, ttl time.Duration) (string, error) {
	filePath := c.Path(url)

	if c.FileExistsWithExpiry(ctx, filePath, ttl) {
		data, err := c.store.ReadFile(ctx, filePath)
		if err != nil {
			CacheErrors.WithLabelValues("read").Inc()
			return "", fmt.Errorf("read cache entry: %w", err)
		}

		CacheHits.WithLabelValues(c.store.Name()).Inc()
		c.logger.Debug().
			Str("url", url).
			Str("path", filePath).
			Dur("ttl", ttl).
			Bool("cache_hit", true).
			Msg("Serving cached entry")
		return string(data), nil
	}

	CacheMisses.Inc()
	c.logger.Debug().
		Str("url", url).
		Str("path", filePath).
		Bool("cache_hit", false).
		Msg("Cache miss, fetching")

	body, err := c.fetcher.FetchBody(ctx, url)
	if err != nil {
		Fetches.WithLabelValues("error").Inc()
		c.logger.Warn().Err(err).Str("url", url).Msg("Fetch failed")
		return "", err
	}
	Fetches.WithLabelValues("ok").Inc()

	if err := c.store.MkdirAll(ctx, c.dir); err != nil {
		CacheErrors.WithLabelValues("mkdir").Inc()
		return "", fmt.Errorf("create cache dir: %w", err)
	}

	if err := c.store.WriteFile(ctx, filePath, []byte(body), c.now()); err != nil {
		CacheErrors.WithLabelValues("write").Inc()
		return "", fmt.Errorf("write cache entry: %w", err)
	}
	CacheWrittenBytes.Add(float64(len(body)))

	c.logger.Debug().
		Str("url", url).
		Str("path", filePath).
		Int("bytes", len(body)).
		Msg("Cached response")

	return body, nil
}
