package document

import (
	"context"
	"errors"
)

var ErrObjectNotFound = errors.New("document object not found")

// Store holds opaque document bytes. Put returns the handle later passed to Get and Delete.
type Store interface {
	Put(ctx context.Context, path string, content []byte) (string, error)
	Get(ctx context.Context, handle string) ([]byte, error)
	Delete(ctx context.Context, handle string) error
}
