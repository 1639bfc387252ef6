package integrity

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Package integrity holds the pure hashing primitives the document store and
// journal are built on. Nothing here touches storage, so every function is
// unit-testable in isolation.

// Digest returns the lowercase hex SHA-256 of data.
// This is the only fingerprint the system ever trusts; caller-supplied
// digests are never accepted.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// NewID allocates an identifier of the form "<prefix>_<16 hex chars>",
// e.g. "doc_3a91c0ffee12ab34". The suffix is derived from 32 random bytes,
// so identifiers are unguessable and collision-free for practical purposes.
func NewID(prefix string) string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(fmt.Sprintf("integrity: read random: %v", err))
	}
	sum := sha256.Sum256(buf)
	return prefix + "_" + hex.EncodeToString(sum[:])[:16]
}

// BlobKey maps a content digest to its object storage key.
// The two-character fan-out keeps listings manageable on backends that
// paginate by prefix.
func BlobKey(digest string) string {
	if len(digest) < 2 {
		return "blobs/" + digest
	}
	return "blobs/" + digest[:2] + "/" + digest
}
