package storage

import (
	"context"
	"errors"
	"io"
)

// Package storage contains the object storage abstraction and the
// content-addressed blob store built on it. Implementations stream bytes to
// an S3-compatible backend; no local disk is used.

// ErrObjectNotFound is returned by Get and Stat when no object exists under
// the requested key.
var ErrObjectNotFound = errors.New("object not found")

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1
// and the implementation will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key         string
	Size        int64
	ETag        string
	ContentType string
}

// ObjectStore is a reusable S3-compatible object storage client interface.
//
// There is deliberately no Delete: blobs are immutable once written, and the
// content-addressed layer above relies on that.
type ObjectStore interface {
	// Put uploads an object under the given key using the provided reader.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Stat returns object info without fetching content, or ErrObjectNotFound.
	Stat(ctx context.Context, key string) (ObjectInfo, error)
}
