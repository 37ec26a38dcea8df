package objectstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("object not found")

// Store is the object-storage boundary: fetch, write, and delete whole
// objects by bucket and key. The pipeline reads and deletes feed files; the
// tracker writes its execution blobs through the same interface.
type Store interface {
	Get(ctx context.Context, bucket string, key string) ([]byte, error)
	Put(ctx context.Context, bucket string, key string, body []byte) error
	Delete(ctx context.Context, bucket string, key string) error
}
