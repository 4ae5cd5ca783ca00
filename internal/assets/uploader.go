// Package assets moves locally stored logos and images to a remote asset
// host and can put the original paths back.
package assets

import (
	"context"
	"errors"
	"mime"
	"path/filepath"
	"strings"

	"eventhubble-backend-go/internal/config"
)

type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Bytes    int64  `json:"bytes"`
}

// Uploader stores one local file remotely and returns its public URL.
type Uploader interface {
	Name() string
	Upload(ctx context.Context, localPath, folder, publicID string) (UploadResult, error)
}

// NewUploader picks the target named by ASSET_TARGET.
func NewUploader(cfg config.Config) (Uploader, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.AssetTarget)) {
	case "", "cloudinary":
		return NewCloudinaryUploader(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	case "s3":
		return NewS3Uploader(S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
	}
	return nil, errors.New("unknown asset target: " + cfg.AssetTarget)
}

func contentTypeOf(path string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
