// Package storage provides the object-store surface used to seed and
// clean up the pipeline's raw dataset.
package storage

import (
	"context"
	"io"
)

type ObjectStore interface {
	PutObject(ctx context.Context, bucket, key string, data io.Reader) error

	GetObject(ctx context.Context, bucket, key string) ([]byte, error)

	DeleteObject(ctx context.Context, bucket, key string) error
}
