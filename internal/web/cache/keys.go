package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Key hashes its parts into a fixed-length cache key. Parts are separated
// by a NUL byte so ("ab", "c") and ("a", "bc") differ.
func Key(namespace string, parts ...string) string {
	h := sha256.New()
	for _, part := range parts {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	// 16 bytes is plenty for a cache key
	return namespace + ":" + hex.EncodeToString(h.Sum(nil)[:16])
}
