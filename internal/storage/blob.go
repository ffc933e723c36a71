// Package storage abstracts the blob store that holds document payloads.
// Metadata rows are only ever written after a Store call has returned, so
// a storage failure can never leave a dangling version row behind.
package storage

import (
	"context"
	"io"
)

// PutMetadata carries the placement hints for a stored payload.
type PutMetadata struct {
	// FolderPath is the logical "category/folder" prefix for the object.
	FolderPath string
	// FilenameHint is the client's original file name; the store may
	// decorate it to guarantee uniqueness.
	FilenameHint string
	// ContentType is the payload MIME type.
	ContentType string
}

// Object describes a durably stored payload.
type Object struct {
	// URL is the durable locator recorded in version rows.
	URL string
	// Key is the store-internal object key.
	Key string
	// Size is the stored byte count.
	Size int64
	// ContentType echoes the stored MIME type.
	ContentType string
}

// BlobStore stores document payloads. Implementations must not return
// until the payload is durable: version rows reference the returned URL
// immediately.
type BlobStore interface {
	// Store writes size bytes from r and returns the durable object.
	Store(ctx context.Context, r io.Reader, size int64, meta PutMetadata) (Object, error)
	// Fetch opens the payload at key for reading.
	Fetch(ctx context.Context, key string) (io.ReadCloser, error)
	// Healthy reports whether the backing store is reachable.
	Healthy(ctx context.Context) error
}
