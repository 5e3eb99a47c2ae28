package cache

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultRedisPrefix namespaces entry keys in Redis.
	DefaultRedisPrefix = "fetchcache:"

	fieldBody    = "body"
	fieldModTime = "mtime"
)

// RedisStore keeps entries as Redis hashes holding the body and the
// modification time, so several processes can share one cache directory.
// Directories do not exist in Redis; MkdirAll always succeeds.
type RedisStore struct {
	redis  *redis.Client
	prefix string
}

// NewRedisStore creates a store on redisClient. An empty prefix selects
// DefaultRedisPrefix.
func NewRedisStore(redisClient *redis.Client, prefix string) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{
		redis:  redisClient,
		prefix: prefix,
	}
}

// Name implements Store.
func (s *RedisStore) Name() string {
	return "redis"
}

// Stat implements Store.
func (s *RedisStore) Stat(ctx context.Context, path string) (time.Time, error) {
	nanos, err := s.redis.HGet(ctx, s.key(path), fieldModTime).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, fmt.Errorf("%w: %s", ErrNotEntry, path)
		}
		return time.Time{}, fmt.Errorf("redis hget: %w", err)
	}
	return time.Unix(0, nanos), nil
}

// ReadFile implements Store.
func (s *RedisStore) ReadFile(ctx context.Context, path string) ([]byte, error) {
	data, err := s.redis.HGet(ctx, s.key(path), fieldBody).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrNotEntry, path)
		}
		return nil, fmt.Errorf("redis hget: %w", err)
	}
	return data, nil
}

// MkdirAll implements Store.
func (s *RedisStore) MkdirAll(ctx context.Context, dir string) error {
	return nil
}

// WriteFile implements Store. Body and modification time are set by a single
// HSET, which Redis applies atomically.
func (s *RedisStore) WriteFile(ctx context.Context, path string, data []byte, modTime time.Time) error {
	if err := s.redis.HSet(ctx, s.key(path),
		fieldBody, data,
		fieldModTime, modTime.UnixNano(),
	).Err(); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

func (s *RedisStore) key(path string) string {
	return s.prefix + filepath.ToSlash(filepath.Clean(path))
}
