package storage

import "context"

// Service stores incident attachments and returns their public URLs
type Service interface {
	// Put writes an object and returns its public URL
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)

	// Close releases the underlying client
	Close() error
}
