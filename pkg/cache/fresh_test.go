package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func TestIsFresh(t *testing.T) {
	written := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ttl  time.Duration
		now  time.Time
		want bool
	}{
		{
			name: "just written",
			ttl:  DefaultTTL,
			now:  written,
			want: true,
		},
		{
			name: "one second before expiry",
			ttl:  DefaultTTL,
			now:  written.Add(DefaultTTL - time.Second),
			want: true,
		},
		{
			name: "exactly at expiry",
			ttl:  DefaultTTL,
			now:  written.Add(DefaultTTL),
			want: false,
		},
		{
			name: "one second after expiry",
			ttl:  DefaultTTL,
			now:  written.Add(DefaultTTL + time.Second),
			want: false,
		},
		{
			name: "zero ttl",
			ttl:  0,
			now:  written,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isFresh(written, tt.ttl, tt.now); got != tt.want {
				t.Errorf("isFresh() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCache_FileExistsWithExpiry_Monotonic(t *testing.T) {
	clock := newFakeClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	store := NewFSStore(afero.NewMemMapFs())
	c := newTestCache(t, store, clock, countingFetcher(new(int), "unused"))
	ctx := context.Background()

	path := c.Path("https://example.com/a")
	written := clock.Now()
	if err := store.WriteFile(ctx, path, []byte("body"), written); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	ttl := 60 * time.Second
	checks := []struct {
		at   time.Time
		want bool
	}{
		{at: written, want: true},
		{at: written.Add(ttl - time.Second), want: true},
		{at: written.Add(ttl + time.Second), want: false},
		{at: written.Add(time.Hour), want: false},
	}

	for _, check := range checks {
		clock.Set(check.at)
		if got := c.FileExistsWithExpiry(ctx, path, ttl); got != check.want {
			t.Errorf("FileExistsWithExpiry() at +%v = %v, want %v", check.at.Sub(written), got, check.want)
		}
	}
}

// TestCache_FileExistsWithExpiry_PerCallTTL checks freshness belongs to the
// check: one entry, two TTLs, same instant.
func TestCache_FileExistsWithExpiry_PerCallTTL(t *testing.T) {
	clock := newFakeClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	store := NewFSStore(afero.NewMemMapFs())
	c := newTestCache(t, store, clock, countingFetcher(new(int), "unused"))
	ctx := context.Background()

	path := c.Path("https://example.com/a")
	if err := store.WriteFile(ctx, path, []byte("body"), clock.Now()); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	clock.Advance(10 * time.Minute)

	if !c.FileExistsWithExpiry(ctx, path, time.Hour) {
		t.Error("entry should be fresh under a one hour TTL")
	}
	if c.FileExistsWithExpiry(ctx, path, 5*time.Minute) {
		t.Error("entry should be stale under a five minute TTL")
	}
}

func TestCache_FileExistsWithExpiry_Missing(t *testing.T) {
	clock := newFakeClock(time.Now())
	c := newTestCache(t, NewFSStore(afero.NewMemMapFs()), clock, countingFetcher(new(int), "unused"))

	if c.FileExistsWithExpiry(context.Background(), "cache/does-not-exist", DefaultTTL) {
		t.Error("missing entry should not be fresh")
	}
}

func TestCache_FileExistsWithExpiry_Directory(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("cache/dir", 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	c := newTestCache(t, NewFSStore(fs), newFakeClock(time.Now()), countingFetcher(new(int), "unused"))

	if c.FileExistsWithExpiry(context.Background(), "cache/dir", DefaultTTL) {
		t.Error("directory should not count as a fresh entry")
	}
}

func TestCache_FileExistsWithExpiry_StatError(t *testing.T) {
	store := &faultyStore{Store: NewFSStore(afero.NewMemMapFs()), statErr: os.ErrPermission}
	c := newTestCache(t, store, newFakeClock(time.Now()), countingFetcher(new(int), "unused"))

	if c.FileExistsWithExpiry(context.Background(), "cache/anything", DefaultTTL) {
		t.Error("stat failure should be reported as not fresh")
	}
}

func TestFileExistsWithExpiry_OS(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "entry")

	if FileExistsWithExpiry(path, DefaultTTL) {
		t.Error("missing file should not be fresh")
	}

	if err := os.WriteFile(path, []byte("body"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if !FileExistsWithExpiry(path, DefaultTTL) {
		t.Error("freshly written file should be fresh")
	}

	old := time.Now().Add(-2 * DefaultTTL)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}
	if FileExistsWithExpiry(path, DefaultTTL) {
		t.Error("file older than ttl should not be fresh")
	}
}
