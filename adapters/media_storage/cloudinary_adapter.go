package media_storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"github.com/khoahotran/profile-hub/internal/application/service"
	"github.com/khoahotran/profile-hub/internal/config"
	"github.com/khoahotran/profile-hub/pkg/apperror"
	"github.com/khoahotran/profile-hub/pkg/logger"
)

type cloudinaryAdapter struct {
	cld      *cloudinary.Cloudinary
	folder   string
	maxBytes int64
}

func NewCloudinaryAdapter(cfg config.Config, log logger.Logger) (service.Uploader, error) {

	if cfg.Cloudinary.CloudName == "" {
		return nil, fmt.Errorf("cloudinary cloud_name has not config")
	}

	cld, err := cloudinary.NewFromParams(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.ApiKey,
		cfg.Cloudinary.ApiSecret,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot init cloudinary: %w", err)
	}

	log.Info("connect Cloudinary successfully.")
	return &cloudinaryAdapter{cld: cld, folder: cfg.Cloudinary.Folder, maxBytes: cfg.Upload.MaxBytes}, nil
}

// Upload returns the absolute secure URL, which is stored on the user as is.
func (a *cloudinaryAdapter) Upload(ctx context.Context, file io.Reader, _ string) (string, error) {
	data, _, err := readImage(file, a.maxBytes)
	if err != nil {
		return "", err
	}

	uploadParams := uploader.UploadParams{
		PublicID: uuid.NewString(),
		Folder:   a.folder,
	}
	result, err := a.cld.Upload.Upload(ctx, bytes.NewReader(data), uploadParams)
	if err != nil {
		return "", apperror.NewInternal("failed to upload cloudinary", err)
	}
	if result.Error.Message != "" {
		return "", apperror.NewInternal("cloudinary rejected upload", fmt.Errorf("%s", result.Error.Message))
	}
	return result.SecureURL, nil
}
