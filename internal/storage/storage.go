// Package storage defines the object-store abstraction for item images.
// The MinIO implementation works with any S3-compatible provider; swap
// backends by changing the concrete type injected at startup.
package storage

import (
	"context"
	"io"
)

// ObjectStore uploads and serves publicly readable objects.
type ObjectStore interface {
	// Put streams data to the store under the given key. size must be the
	// exact byte count.
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Remove deletes the object identified by key.
	Remove(ctx context.Context, key string) error
	// URL returns the browser-accessible URL for a key.
	URL(key string) string
}
