package assets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string
}

// S3Uploader writes public-read objects to S3 or an S3 compatible store
// such as DigitalOcean Spaces.
type S3Uploader struct {
	client    s3iface.S3API
	bucket    string
	publicURL string
}

func NewS3Uploader(cfg S3Config) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("missing env var: S3_BUCKET")
	}
	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}
	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		if cfg.Endpoint != "" {
			publicURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}
	return newS3Uploader(s3.New(sess), cfg.Bucket, publicURL), nil
}

func newS3Uploader(client s3iface.S3API, bucket, publicURL string) *S3Uploader {
	return &S3Uploader{client: client, bucket: bucket, publicURL: publicURL}
}

func (u *S3Uploader) Name() string {
	return "s3"
}

func (u *S3Uploader) Upload(ctx context.Context, localPath, folder, publicID string) (UploadResult, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return UploadResult{}, err
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return UploadResult{}, err
	}

	key := path.Join(folder, publicID+strings.ToLower(filepath.Ext(localPath)))
	_, err = u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(u.bucket),
		Key:          aws.String(key),
		Body:         file,
		ACL:          aws.String("public-read"),
		ContentType:  aws.String(contentTypeOf(localPath)),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return UploadResult{}, fmt.Errorf("failed to upload file: %w", err)
	}
	return UploadResult{URL: u.publicURL + "/" + key, PublicID: key, Bytes: info.Size()}, nil
}
