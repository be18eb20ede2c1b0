package store

import (
	"context"
	"time"
)

// ArtifactStore persists result artifacts and hands out download URLs.
// Implementations must be thread-safe for concurrent use.
type ArtifactStore interface {
	// Put writes an artifact under key with the given content type.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// PresignedGet returns a time-limited download URL for key. The URL
	// instructs the client to save the object under filename.
	PresignedGet(ctx context.Context, key, filename string, ttl time.Duration) (string, error)
}

// CorpusSource fetches corpus files from a backing store.
// A file is re-fetched only when the local copy is missing or older than the
// store's copy.
type CorpusSource interface {
	// FetchIfStale ensures localPath holds an up-to-date copy of the object
	// at key. It is a no-op when the local copy is current.
	FetchIfStale(ctx context.Context, key, localPath string) error
}
