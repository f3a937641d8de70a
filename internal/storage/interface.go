package storage

import (
	"context"
	"io"
)

// ObjectStorage is the backing store for uploaded attachments. Keys are
// the storage_key values recorded on files rows; the CRM never lists
// objects, it only round-trips keys it minted itself.
type ObjectStorage interface {
	// Upload stores an attachment under the given key.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Download streams an attachment back. The caller closes the reader.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// GetURL returns the externally reachable URL for an attachment.
	GetURL(key string) string

	// Delete removes an attachment.
	Delete(ctx context.Context, key string) error

	// Exists reports whether an attachment is still present, without
	// fetching its body.
	Exists(ctx context.Context, key string) (bool, error)

	// EnsureBucket creates the configured bucket when it is missing.
	// Called once at startup so the first upload never races bucket
	// creation.
	EnsureBucket(ctx context.Context) error
}
