package service

import (
	"context"
	"io"
)

// Uploader persists a profile photo and returns the value stored on the user:
// a path relative to the public base URL, or an absolute URL for remote backends.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, filename string) (string, error)
}
