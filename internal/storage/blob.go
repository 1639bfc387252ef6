package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"caseledger/internal/integrity"
)

// BlobStore is the content-addressed layer over an ObjectStore.
//
// Every blob is keyed by the SHA-256 of its bytes, so a key can never point
// at different content and writing the same bytes twice is a no-op. Existing
// objects are never overwritten.
type BlobStore struct {
	backend ObjectStore
}

// NewBlobStore wraps an object store with content addressing.
func NewBlobStore(backend ObjectStore) *BlobStore {
	return &BlobStore{backend: backend}
}

// Put stores data under its content digest and returns the digest.
// If a blob with this digest already exists the write is skipped; the content
// is byte-identical by construction, so concurrent writers for the same
// digest cannot meaningfully conflict.
func (b *BlobStore) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	digest := integrity.Digest(data)
	key := integrity.BlobKey(digest)

	if _, err := b.backend.Stat(ctx, key); err == nil {
		return digest, nil
	} else if !errors.Is(err, ErrObjectNotFound) {
		return "", fmt.Errorf("stat blob %s: %w", digest, err)
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := b.backend.Put(ctx, key, bytes.NewReader(data), PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put blob %s: %w", digest, err)
	}
	return digest, nil
}

// Get returns the full content of the blob with the given digest,
// or ErrObjectNotFound.
func (b *BlobStore) Get(ctx context.Context, digest string) ([]byte, error) {
	rc, _, err := b.backend.Get(ctx, integrity.BlobKey(digest))
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", digest, err)
	}
	return data, nil
}
