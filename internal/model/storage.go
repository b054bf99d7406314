package model

import (
	"context"
	"io"
)

// Storage keeps resume files outside the database. Applications only hold
// the object key.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Download may defer a missing-object error to the first read; check
	// Exists first when the caller needs a definite answer.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
