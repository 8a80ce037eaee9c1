// Package storage abstracts the blob store holding document bytes.
// The catalog only ever references blobs by their generated storage
// path; paths are unique and immutable after creation.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrBlobNotFound is returned by Get when no blob exists at the path.
// A catalog row referencing a missing blob is the orphan case.
var ErrBlobNotFound = errors.New("blob not found")

// Object is a readable blob with its metadata.
type Object struct {
	Reader      io.ReadCloser
	Size        int64
	ContentType string
}

// BlobStore stores file bytes under generated storage paths.
type BlobStore interface {
	// Put writes the blob. size must be the exact byte count.
	Put(ctx context.Context, path string, r io.Reader, size int64, contentType string) error
	// Get opens the blob for reading. Returns ErrBlobNotFound when the
	// path has no blob.
	Get(ctx context.Context, path string) (*Object, error)
	// Remove deletes the blob. A missing blob is not an error.
	Remove(ctx context.Context, path string) error
}
