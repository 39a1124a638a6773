package services

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/samber/lo"
	"github.com/spf13/viper"

	"github.com/wavelength/sociogram/internal/models"
)

// UploadMaxSize caps attachments at 50 MB.
const UploadMaxSize = 50 * 1024 * 1024

var AllowedUploadTypes = []string{
	"image/jpeg", "image/png", "image/gif", "image/webp",
	"video/mp4", "video/webm", "video/quicktime",
}

// UploadFile validates an attachment locally and forwards it to the
// backend's file storage. The type and size checks run before a single
// byte goes over the wire.
func UploadFile(ctx context.Context, filename, contentType string, size int64, file io.Reader) (models.FileInfo, error) {
	if !lo.Contains(AllowedUploadTypes, contentType) {
		return models.FileInfo{}, fmt.Errorf("file type %s is not allowed", contentType)
	}
	if size > UploadMaxSize {
		return models.FileInfo{}, fmt.Errorf("file is larger than the %d byte limit", UploadMaxSize)
	}

	token := viper.GetString("cms.public_token")
	if len(token) == 0 {
		return models.FileInfo{}, fmt.Errorf("file storage is not configured")
	}

	var info models.FileInfo
	if err := Cx.UploadFile(ctx, token, filename, contentType, file, &info); err != nil {
		return info, err
	}
	return info, nil
}

// OpenAsset streams a stored asset for the reverse proxy surface. The
// caller owns the response and must close its body.
func OpenAsset(ctx context.Context, id string) (*http.Response, error) {
	return Cx.OpenAsset(ctx, id)
}
