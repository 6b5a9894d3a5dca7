package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

var ErrNotFound = errors.New("object not found")

// Object is an open blob. Callers must close Body.
type Object struct {
	Body        io.ReadCloser
	Size        int64
	ETag        string
	ContentType string
	ModTime     time.Time
}

type Storage interface {
	Put(ctx context.Context, userID int64, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, userID int64, key string) (*Object, error)
	Delete(ctx context.Context, userID int64, key string) error
}

// ObjectKey is the bucket-relative name of a user's blob.
func ObjectKey(userID int64, key string) string {
	return fmt.Sprintf("files/%d/%s.svg", userID, key)
}
