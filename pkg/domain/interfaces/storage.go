package interfaces

import (
	"context"
	"io"
)

// BlobStorage stores uploaded photos and audio files
type BlobStorage interface {
	// Put stores the content under name and returns the URL clients use to
	// fetch it.
	Put(ctx context.Context, name, contentType string, r io.Reader) (string, error)

	// Delete removes the blob referenced by url. Unknown URLs are ignored.
	Delete(ctx context.Context, url string) error
}
