package media_storage

import (
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/khoahotran/profile-hub/pkg/apperror"
)

// readImage buffers at most maxBytes from file and accepts only image content,
// judged by its leading bytes rather than the client's filename.
func readImage(file io.Reader, maxBytes int64) ([]byte, *mimetype.MIME, error) {
	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, nil, apperror.NewInternal("failed to read uploaded photo", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, nil, apperror.NewInvalidInput(fmt.Sprintf("photo exceeds %d bytes", maxBytes), nil)
	}
	if len(data) == 0 {
		return nil, nil, apperror.NewInvalidInput("photo is empty", nil)
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, nil, apperror.NewInvalidInput("photo must be an image, got "+mtype.String(), nil)
	}
	return data, mtype, nil
}
