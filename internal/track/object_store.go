package track

import (
	"context"
	"errors"

	"github.com/feedworks/stockpipe/internal/objectstore"
)

// ObjectBlobStore keeps execution blobs in a dedicated bucket of the object
// store, the path doubling as the object key.
type ObjectBlobStore struct {
	Objects objectstore.Store
	Bucket  string
}

func (s ObjectBlobStore) Put(ctx context.Context, path string, body []byte) error {
	return s.Objects.Put(ctx, s.Bucket, path, body)
}

func (s ObjectBlobStore) Get(ctx context.Context, path string) ([]byte, bool, error) {
	body, err := s.Objects.Get(ctx, s.Bucket, path)
	if errors.Is(err, objectstore.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

func (s ObjectBlobStore) Delete(ctx context.Context, path string) error {
	return s.Objects.Delete(ctx, s.Bucket, path)
}
