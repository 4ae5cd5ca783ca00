package assets

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryUploader sends files through the signed Cloudinary upload API.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cloudName, apiKey, apiSecret string) (*CloudinaryUploader, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("missing env var: CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &CloudinaryUploader{cld: cld}, nil
}

func (c *CloudinaryUploader) Name() string {
	return "cloudinary"
}

// setUploadPrefix points uploads at another API host.
func (c *CloudinaryUploader) setUploadPrefix(prefix string) {
	c.cld.Config.API.UploadPrefix = prefix
	c.cld.Upload.Config.API.UploadPrefix = prefix
}

func (c *CloudinaryUploader) Upload(ctx context.Context, localPath, folder, publicID string) (UploadResult, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return UploadResult{}, err
	}
	defer file.Close()

	params := uploader.UploadParams{
		PublicID:  publicID,
		Folder:    folder,
		Overwrite: api.Bool(true),
	}
	resp, err := c.cld.Upload.Upload(ctx, file, params)
	if err != nil {
		return UploadResult{}, fmt.Errorf("cloudinary: %w", err)
	}
	if resp.Error.Message != "" {
		return UploadResult{}, fmt.Errorf("cloudinary: %s", resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return UploadResult{}, errors.New("cloudinary: response has no secure_url")
	}
	return UploadResult{URL: resp.SecureURL, PublicID: resp.PublicID, Bytes: int64(resp.Bytes)}, nil
}
