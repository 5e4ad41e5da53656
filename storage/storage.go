package storage

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNoSuchObject indicates the key does not exist
	ErrNoSuchObject = errors.New("no such object")
	// ErrInvalidKey indicates a key that tries to escape the store
	ErrInvalidKey = errors.New("invalid object key")
)

// ObjectStore keeps the uploaded binary assets, slide decks, photos,
// banners and branding logos
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
