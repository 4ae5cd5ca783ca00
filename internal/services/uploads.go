package services

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"eventhubble-backend-go/internal/store"
)

var allowedImageTypes = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// Upload describes a file written under the uploads directory.
type Upload struct {
	Filename    string
	FilePath    string
	Size        int64
	Width       *int
	Height      *int
	SHA256      string
	ContentType string
}

func EnsureStoragePath(base string, bucket string) (string, error) {
	dir := filepath.Join(base, bucket)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// SaveUpload stores an image under <uploadsDir>/<category>/ and returns the
// public path ("/uploads/<category>/<file>") the images table references.
func SaveUpload(uploadsDir, category, originalName string, body io.Reader) (Upload, error) {
	category = store.Slugify(category)
	head := make([]byte, 512)
	n, err := io.ReadFull(body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return Upload{}, err
	}
	head = head[:n]
	if n == 0 {
		return Upload{}, ErrBadRequest("File is empty")
	}
	contentType := sniffImageType(originalName, head)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return Upload{}, ErrBadRequest("Unsupported image type: " + contentType)
	}

	base := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))
	filename := store.Slugify(base) + "-" + uuid.NewString()[:8] + ext
	dir, err := EnsureStoragePath(uploadsDir, category)
	if err != nil {
		return Upload{}, WrapError(err, "prepare upload dir")
	}
	targetPath := filepath.Join(dir, filename)
	file, err := os.Create(targetPath)
	if err != nil {
		return Upload{}, WrapError(err, "create upload")
	}
	hasher := sha256.New()
	writer := io.MultiWriter(file, hasher)
	size, err := io.Copy(writer, io.MultiReader(bytes.NewReader(head), body))
	_ = file.Close()
	if err != nil {
		_ = os.Remove(targetPath)
		return Upload{}, WrapError(err, "write upload")
	}

	upload := Upload{
		Filename:    filename,
		FilePath:    path.Join("/uploads", category, filename),
		Size:        size,
		SHA256:      hex.EncodeToString(hasher.Sum(nil)),
		ContentType: contentType,
	}
	if width, height, ok := ImageDimensions(targetPath); ok {
		upload.Width = &width
		upload.Height = &height
	}
	return upload, nil
}

// ImageDimensions decodes only the header of a png, jpeg or gif file.
func ImageDimensions(filePath string) (int, int, bool) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, 0, false
	}
	defer file.Close()
	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}

func sniffImageType(name string, head []byte) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".svg":
		return "image/svg+xml"
	case ".webp":
		return "image/webp"
	}
	contentType := http.DetectContentType(head)
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	return contentType
}

// RemoveUpload deletes the file behind a public "/uploads/..." path. Paths
// outside the uploads directory are ignored.
func RemoveUpload(uploadsDir, publicPath string) {
	if !strings.HasPrefix(publicPath, "/uploads/") {
		return
	}
	rel := filepath.FromSlash(strings.TrimPrefix(publicPath, "/uploads/"))
	if strings.HasPrefix(filepath.Clean(rel), "..") {
		return
	}
	_ = os.Remove(filepath.Join(uploadsDir, rel))
}
