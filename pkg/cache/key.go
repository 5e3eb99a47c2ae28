package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// KeySize is the length of a cache key in characters.
const KeySize = sha256.Size * 2

// Key derives the cache key for a URL: the lowercase hex SHA-256 digest of its
// bytes. The URL is treated as an opaque string, so any input is accepted,
// including the empty string. Method, headers and body never take part.
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}
