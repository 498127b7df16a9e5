package media_storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/khoahotran/profile-hub/internal/application/service"
	"github.com/khoahotran/profile-hub/internal/config"
	"github.com/khoahotran/profile-hub/pkg/apperror"
)

// PublicPrefix is the URL prefix the local upload directory is served under.
const PublicPrefix = "uploads"

type localAdapter struct {
	dir      string
	maxBytes int64
}

// NewLocalAdapter stores photos under cfg.Upload.Dir, creating it if needed.
func NewLocalAdapter(cfg config.Config) (service.Uploader, error) {
	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create upload dir %q: %w", cfg.Upload.Dir, err)
	}
	return &localAdapter{dir: cfg.Upload.Dir, maxBytes: cfg.Upload.MaxBytes}, nil
}

// Upload returns the stored file's path relative to the public base URL.
// The client filename is ignored; the extension follows the sniffed type.
func (a *localAdapter) Upload(ctx context.Context, file io.Reader, _ string) (string, error) {
	data, mtype, err := readImage(file, a.maxBytes)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString() + mtype.Extension()
	if err := os.WriteFile(filepath.Join(a.dir, name), data, 0o644); err != nil {
		return "", apperror.NewInternal("failed to store photo", err)
	}
	return path.Join(PublicPrefix, name), nil
}
