// Package storage keeps catalog media (product, category and banner images) in an
// S3-compatible object store. Objects are streamed, never staged on local disk.
package storage

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
)

// PutObjectOptions describe an upload. Size is the exact byte count, or -1 when unknown
// (the backend then uploads in parts).
type PutObjectOptions struct {
	Size         int64
	ContentType  string
	CacheControl string
	Metadata     map[string]string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	CacheControl string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the object store used for media.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get streams an object. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Stat returns an object's info without its content.
	Stat(ctx context.Context, key string) (ObjectInfo, error)
	// Delete removes an object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// ErrObjectNotFound is returned by Get and Stat when the key does not exist.
var ErrObjectNotFound = errors.New("object not found")
