package media_storage

import (
	"fmt"

	"github.com/khoahotran/profile-hub/internal/application/service"
	"github.com/khoahotran/profile-hub/internal/config"
	"github.com/khoahotran/profile-hub/pkg/logger"
)

// NewUploader picks the photo backend named by cfg.Upload.Provider.
func NewUploader(cfg config.Config, log logger.Logger) (service.Uploader, error) {
	switch cfg.Upload.Provider {
	case config.UploadProviderCloudinary:
		return NewCloudinaryAdapter(cfg, log)
	case config.UploadProviderLocal, "":
		return NewLocalAdapter(cfg)
	default:
		return nil, fmt.Errorf("unknown upload provider %q", cfg.Upload.Provider)
	}
}
