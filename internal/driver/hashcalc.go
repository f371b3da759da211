package driver

import (
	"crypto/sha256"

	"disjoint/internal/sema"
)

// Digest is a SHA-256 value.
type Digest = [32]byte

// combineDigest: H(content || parts...).
func combineDigest(content Digest, parts ...[]byte) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// cacheKey covers everything a file's diagnostics depend on: its content,
// the default lint level and the cache schema.
func cacheKey(content Digest, level sema.Level) Digest {
	return combineDigest(content, []byte{byte(diskCacheSchemaVersion >> 8), byte(diskCacheSchemaVersion), byte(level)})
}
