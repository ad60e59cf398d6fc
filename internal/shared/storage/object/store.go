package object

import (
	"context"
	"io"
)

// ObjectStore defines the contract for persisting and retrieving binary objects
// at caller-chosen storage keys.
type ObjectStore interface {
	Put(ctx context.Context, storageKey string, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	PublicURL(storageKey string) string
}
