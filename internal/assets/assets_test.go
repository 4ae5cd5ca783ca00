package assets

import (
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhubble-backend-go/internal/models"
	"eventhubble-backend-go/internal/store"
)

type memoryAssets struct {
	logos  []models.Logo
	images []models.Image
}

func (m *memoryAssets) GetLogos(_ context.Context, activeOnly bool) store.Result[[]models.Logo] {
	out := []models.Logo{}
	for _, logo := range m.logos {
		if logo.IsActive || !activeOnly {
			out = append(out, logo)
		}
	}
	return store.Ok(out)
}

func (m *memoryAssets) GetImages(_ context.Context, _ string) store.Result[[]models.Image] {
	out := []models.Image{}
	for _, img := range m.images {
		if img.IsActive {
			out = append(out, img)
		}
	}
	return store.Ok(out)
}

func (m *memoryAssets) UpdateLogoPath(_ context.Context, id int64, filePath string) store.Result[bool] {
	for i := range m.logos {
		if m.logos[i].ID == id {
			m.logos[i].FilePath = filePath
			return store.Ok(true)
		}
	}
	return store.Fail[bool](store.KindNotFound, "Logo not found")
}

func (m *memoryAssets) UpdateImagePath(_ context.Context, id int64, filePath string) store.Result[bool] {
	for i := range m.images {
		if m.images[i].ID == id {
			m.images[i].FilePath = filePath
			return store.Ok(true)
		}
	}
	return store.Fail[bool](store.KindNotFound, "Image not found")
}

type recordingUploader struct {
	calls []string
}

func (r *recordingUploader) Name() string { return "fake" }

func (r *recordingUploader) Upload(_ context.Context, localPath, folder, publicID string) (UploadResult, error) {
	r.calls = append(r.calls, localPath)
	return UploadResult{URL: "https://res.cloudinary.com/demo/" + folder + "/" + publicID}, nil
}

func writeFile(t *testing.T, path string, body []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, body, 0o644))
}

func fixture(t *testing.T) (*memoryAssets, string) {
	t.Helper()
	publicDir := t.TempDir()
	writeFile(t, filepath.Join(publicDir, "uploads", "logos", "acme.png"), []byte("png"))
	writeFile(t, filepath.Join(publicDir, "uploads", "events", "konser.jpg"), []byte("jpg"))
	st := &memoryAssets{
		logos: []models.Logo{
			{ID: 1, LogoID: "acme", FilePath: "/uploads/logos/acme.png", IsActive: true},
			{ID: 2, LogoID: "gone", FilePath: "/uploads/logos/gone.png", IsActive: true},
			{ID: 3, LogoID: "remote", FilePath: "https://cdn.example.com/remote.png", IsActive: true},
			{ID: 4, LogoID: "hidden", FilePath: "/uploads/logos/acme.png", IsActive: false},
		},
		images: []models.Image{
			{ID: 7, Category: "events", Filename: "konser.jpg", FilePath: "/uploads/events/konser.jpg", IsActive: true},
		},
	}
	return st, publicDir
}

func TestMigratorRunUploadsAndWritesBackup(t *testing.T) {
	st, publicDir := fixture(t)
	uploader := &recordingUploader{}
	backupPath := filepath.Join(t.TempDir(), DefaultBackupFile)
	m := NewMigrator(st, uploader, publicDir, "eventhubble", backupPath)

	backup, err := m.Run(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, uploader.calls, 2)
	assert.Len(t, backup.MigratedFiles, 2)
	require.Len(t, backup.FailedMigrations, 1)
	assert.Equal(t, int64(2), backup.FailedMigrations[0].ID)

	assert.Equal(t, "https://res.cloudinary.com/demo/eventhubble/logos/acme", st.logos[0].FilePath)
	assert.Equal(t, "https://res.cloudinary.com/demo/eventhubble/images/events/konser", st.images[0].FilePath)
	assert.Equal(t, "/uploads/logos/acme.png", st.logos[3].FilePath)

	saved, err := ReadBackup(backupPath)
	require.NoError(t, err)
	assert.Equal(t, []BackupEntry{
		{Type: TypeLogo, ID: 1, OriginalFilePath: "/uploads/logos/acme.png"},
		{Type: TypeImage, ID: 7, OriginalFilePath: "/uploads/events/konser.jpg"},
	}, saved.BackupData)

	restored, err := m.Rollback(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, restored)
	assert.Equal(t, "/uploads/logos/acme.png", st.logos[0].FilePath)
	assert.Equal(t, "/uploads/events/konser.jpg", st.images[0].FilePath)
}

func TestMigratorDryRunChangesNothing(t *testing.T) {
	st, publicDir := fixture(t)
	uploader := &recordingUploader{}
	backupPath := filepath.Join(t.TempDir(), DefaultBackupFile)
	m := NewMigrator(st, uploader, publicDir, "eventhubble", backupPath)

	backup, err := m.Run(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, uploader.calls)
	assert.Len(t, backup.MigratedFiles, 2)
	assert.Empty(t, backup.BackupData)
	assert.Equal(t, "/uploads/logos/acme.png", st.logos[0].FilePath)
	_, err = os.Stat(backupPath)
	assert.True(t, os.IsNotExist(err))
}

func TestMigratorKeepsEarlierBackupEntries(t *testing.T) {
	st, publicDir := fixture(t)
	backupPath := filepath.Join(t.TempDir(), DefaultBackupFile)
	require.NoError(t, WriteBackup(backupPath, Backup{
		BackupData: []BackupEntry{{Type: TypeLogo, ID: 3, OriginalFilePath: "/uploads/logos/remote.png"}},
	}))
	m := NewMigrator(st, &recordingUploader{}, publicDir, "eventhubble", backupPath)

	_, err := m.Run(context.Background(), false)
	require.NoError(t, err)
	saved, err := ReadBackup(backupPath)
	require.NoError(t, err)
	require.Len(t, saved.BackupData, 3)
	assert.Equal(t, int64(3), saved.BackupData[0].ID)
}

func TestMigratorRerunKeepsFirstOriginalPath(t *testing.T) {
	st, publicDir := fixture(t)
	backupPath := filepath.Join(t.TempDir(), DefaultBackupFile)
	require.NoError(t, WriteBackup(backupPath, Backup{
		BackupData: []BackupEntry{{Type: TypeLogo, ID: 1, OriginalFilePath: "/old.png"}},
	}))
	m := NewMigrator(st, &recordingUploader{}, publicDir, "eventhubble", backupPath)

	_, err := m.Run(context.Background(), false)
	require.NoError(t, err)
	saved, err := ReadBackup(backupPath)
	require.NoError(t, err)
	assert.Equal(t, []BackupEntry{
		{Type: TypeLogo, ID: 1, OriginalFilePath: "/old.png"},
		{Type: TypeImage, ID: 7, OriginalFilePath: "/uploads/events/konser.jpg"},
	}, saved.BackupData)

	restored, err := m.Rollback(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, restored)
	assert.Equal(t, "/old.png", st.logos[0].FilePath)
}

func TestMergeBackupDataKeepsFirstPerAsset(t *testing.T) {
	merged := mergeBackupData(
		[]BackupEntry{{Type: TypeLogo, ID: 1, OriginalFilePath: "/a.png"}, {Type: TypeImage, ID: 1, OriginalFilePath: "/i.png"}},
		[]BackupEntry{{Type: TypeLogo, ID: 1, OriginalFilePath: "/b.png"}, {Type: TypeLogo, ID: 2, OriginalFilePath: "/c.png"}},
	)
	assert.Equal(t, []BackupEntry{
		{Type: TypeLogo, ID: 1, OriginalFilePath: "/a.png"},
		{Type: TypeImage, ID: 1, OriginalFilePath: "/i.png"},
		{Type: TypeLogo, ID: 2, OriginalFilePath: "/c.png"},
	}, merged)
}

func TestRollbackRestoresOriginalPath(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	st := store.New(sqlx.NewDb(raw, "pgx"))

	backupPath := filepath.Join(t.TempDir(), DefaultBackupFile)
	require.NoError(t, os.WriteFile(backupPath, []byte(`{
  "timestamp": "2025-03-14T09:00:00Z",
  "backupData": [{"type": "logo", "id": 1, "original_file_path": "/old.png"}],
  "migratedFiles": [],
  "failedMigrations": []
}`), 0o644))

	mock.ExpectExec(`UPDATE logos SET file_path = \$2, updated_at = \$3 WHERE id = \$1`).
		WithArgs(int64(1), "/old.png", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	m := NewMigrator(st, nil, t.TempDir(), "eventhubble", backupPath)
	restored, err := m.Rollback(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, restored)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRollbackReportsMissingRows(t *testing.T) {
	st := &memoryAssets{logos: []models.Logo{{ID: 1, FilePath: "https://res.cloudinary.com/x.png"}}}
	backupPath := filepath.Join(t.TempDir(), DefaultBackupFile)
	require.NoError(t, WriteBackup(backupPath, Backup{BackupData: []BackupEntry{
		{Type: TypeLogo, ID: 1, OriginalFilePath: "/old.png"},
		{Type: TypeLogo, ID: 9, OriginalFilePath: "/nine.png"},
	}}))
	m := NewMigrator(st, nil, t.TempDir(), "", backupPath)

	restored, err := m.Rollback(context.Background())
	assert.Equal(t, 1, restored)
	assert.ErrorContains(t, err, "Logo not found")
	assert.Equal(t, "/old.png", st.logos[0].FilePath)
}

func TestCloudinaryUpload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/demo/image/upload") || strings.HasSuffix(r.URL.Path, "/demo/auto/upload"), r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		if r.FormValue("api_key") != "key" || r.FormValue("signature") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": map[string]string{"message": "Invalid Signature"}})
			return
		}
		assert.Equal(t, "eventhubble/logos", r.FormValue("folder"))
		assert.Equal(t, "acme", r.FormValue("public_id"))
		assert.Equal(t, "true", r.FormValue("overwrite"))
		file, _, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		body, _ := io.ReadAll(file)
		assert.Equal(t, "logo-bytes", string(body))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"secure_url": "https://res.cloudinary.com/demo/image/upload/v1/" + r.FormValue("folder") + "/" + r.FormValue("public_id") + ".png",
			"public_id":  r.FormValue("folder") + "/" + r.FormValue("public_id"),
			"bytes":      len(body),
		})
	}))
	defer server.Close()

	local := filepath.Join(t.TempDir(), "acme.png")
	writeFile(t, local, []byte("logo-bytes"))

	uploader, err := NewCloudinaryUploader("demo", "key", "secret")
	require.NoError(t, err)
	uploader.setUploadPrefix(server.URL)

	res, err := uploader.Upload(context.Background(), local, "eventhubble/logos", "acme")
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/v1/eventhubble/logos/acme.png", res.URL)
	assert.Equal(t, "eventhubble/logos/acme", res.PublicID)
	assert.Equal(t, int64(10), res.Bytes)

	_, err = uploader.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.png"), "eventhubble/logos", "acme")
	assert.Error(t, err)
}

func TestCloudinaryUploadReportsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": map[string]string{"message": "Invalid Signature"}})
	}))
	defer server.Close()

	local := filepath.Join(t.TempDir(), "acme.png")
	writeFile(t, local, []byte("logo-bytes"))
	uploader, err := NewCloudinaryUploader("demo", "key", "wrong")
	require.NoError(t, err)
	uploader.setUploadPrefix(server.URL)

	_, err = uploader.Upload(context.Background(), local, "eventhubble/logos", "acme")
	assert.Error(t, err)
}

func TestNewCloudinaryUploaderRequiresCredentials(t *testing.T) {
	_, err := NewCloudinaryUploader("demo", "", "secret")
	assert.Error(t, err)
}

type fakeCatalog struct {
	existing map[string]bool
	created  []store.ImageInput
}

func (f *fakeCatalog) ImageExistsByFilename(_ context.Context, filename string) store.Result[bool] {
	return store.Ok(f.existing[filename])
}

func (f *fakeCatalog) CreateImage(_ context.Context, input store.ImageInput) store.Result[models.Image] {
	f.created = append(f.created, input)
	return store.Ok(models.Image{ID: int64(len(f.created)), Filename: input.Filename, FilePath: input.FilePath})
}

func TestScanUploadsRegistersNewImages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "events"), 0o755))
	out, err := os.Create(filepath.Join(dir, "events", "konser.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(out, image.NewRGBA(image.Rect(0, 0, 4, 3))))
	require.NoError(t, out.Close())
	writeFile(t, filepath.Join(dir, "hero.svg"), []byte("<svg/>"))
	writeFile(t, filepath.Join(dir, "notes.txt"), []byte("skip me"))

	catalog := &fakeCatalog{existing: map[string]bool{"hero.svg": true}}
	report, err := ScanUploads(context.Background(), catalog, dir, "uploads")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)
	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, report.Failed)

	require.Len(t, catalog.created, 1)
	created := catalog.created[0]
	assert.Equal(t, "events", created.Category)
	assert.Equal(t, "/uploads/events/konser.png", created.FilePath)
	assert.Equal(t, "konser", created.Title)
	require.NotNil(t, created.Width)
	assert.Equal(t, 4, *created.Width)
	assert.Equal(t, 3, *created.Height)
}

func TestIsLocal(t *testing.T) {
	assert.True(t, IsLocal("/uploads/a.png"))
	assert.False(t, IsLocal("https://res.cloudinary.com/a.png"))
	assert.False(t, IsLocal("HTTP://x"))
	assert.False(t, IsLocal(""))
}
