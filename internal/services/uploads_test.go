package services

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSaveUploadWritesFileAndReadsDimensions(t *testing.T) {
	dir := t.TempDir()
	upload, err := SaveUpload(dir, "Konser Afişleri", "Yaz Festivali.png", bytes.NewReader(pngBytes(t, 40, 20)))
	require.NoError(t, err)

	assert.Equal(t, "image/png", upload.ContentType)
	assert.True(t, strings.HasPrefix(upload.FilePath, "/uploads/konser-afisleri/yaz-festivali-"))
	assert.True(t, strings.HasSuffix(upload.Filename, ".png"))
	require.NotNil(t, upload.Width)
	assert.Equal(t, 40, *upload.Width)
	assert.Equal(t, 20, *upload.Height)
	assert.Len(t, upload.SHA256, 64)

	info, err := os.Stat(filepath.Join(dir, "konser-afisleri", upload.Filename))
	require.NoError(t, err)
	assert.Equal(t, upload.Size, info.Size())

	RemoveUpload(dir, upload.FilePath)
	_, err = os.Stat(filepath.Join(dir, "konser-afisleri", upload.Filename))
	assert.True(t, os.IsNotExist(err))
}

func TestSaveUploadRejectsNonImages(t *testing.T) {
	_, err := SaveUpload(t.TempDir(), "misc", "notes.txt", strings.NewReader("just text"))
	require.Error(t, err)
	status, _ := StatusOf(err)
	assert.Equal(t, 400, status)

	_, err = SaveUpload(t.TempDir(), "misc", "empty.png", strings.NewReader(""))
	assert.Error(t, err)
}

func TestRemoveUploadIgnoresForeignPaths(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(dir, "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0644))
	RemoveUpload(filepath.Join(dir, "uploads"), "/uploads/../keep.txt")
	RemoveUpload(dir, "https://res.cloudinary.com/x.png")
	_, err := os.Stat(outside)
	assert.NoError(t, err)
}
