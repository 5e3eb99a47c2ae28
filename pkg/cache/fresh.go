package cache

import (
	"context"
	"time"

	"github.com/spf13/afero"
)

// DefaultTTL is how long an entry stays fresh when the caller has no opinion.
const DefaultTTL = 1800 * time.Second

// FileExistsWithExpiry reports whether path is an entry on the OS filesystem
// whose modification time plus ttl is still ahead of the wall clock.
func FileExistsWithExpiry(path string, ttl time.Duration) bool {
	return fileExistsWithExpiry(context.Background(), NewFSStore(afero.NewOsFs()), path, ttl, time.Now())
}

// FileExistsWithExpiry reports whether path holds an entry that is fresh under
// ttl, measured against the cache's clock. Any error while probing the store
// counts as not fresh.
func (c *Cache) FileExistsWithExpiry(ctx context.Context, path string, ttl time.Duration) bool {
	return fileExistsWithExpiry(ctx, c.store, path, ttl, c.now())
}

func fileExistsWithExpiry(ctx context.Context, store Store, path string, ttl time.Duration, now time.Time) bool {
	modTime, err := store.Stat(ctx, path)
	if err != nil {
		return false
	}
	return isFresh(modTime, ttl, now)
}

// isFresh holds exactly while modTime + ttl > now.
func isFresh(modTime time.Time, ttl time.Duration, now time.Time) bool {
	return now.Before(modTime.Add(ttl))
}
