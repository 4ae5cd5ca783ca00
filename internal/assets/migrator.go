package assets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"eventhubble-backend-go/internal/models"
	"eventhubble-backend-go/internal/store"
)

const (
	DefaultBackupFile = "migration-backup.json"

	TypeLogo  = "logo"
	TypeImage = "image"
)

// AssetStore is the slice of the data access layer the migrator needs.
type AssetStore interface {
	GetLogos(ctx context.Context, activeOnly bool) store.Result[[]models.Logo]
	GetImages(ctx context.Context, category string) store.Result[[]models.Image]
	UpdateLogoPath(ctx context.Context, id int64, filePath string) store.Result[bool]
	UpdateImagePath(ctx context.Context, id int64, filePath string) store.Result[bool]
}

type BackupEntry struct {
	Type             string `json:"type"`
	ID               int64  `json:"id"`
	OriginalFilePath string `json:"original_file_path"`
}

type MigratedFile struct {
	Type             string `json:"type"`
	ID               int64  `json:"id"`
	OriginalFilePath string `json:"original_file_path"`
	NewURL           string `json:"new_url,omitempty"`
}

type FailedMigration struct {
	Type     string `json:"type"`
	ID       int64  `json:"id"`
	FilePath string `json:"file_path"`
	Error    string `json:"error"`
}

// Backup is the on-disk record a rollback restores from.
type Backup struct {
	Timestamp        time.Time         `json:"timestamp"`
	BackupData       []BackupEntry     `json:"backupData"`
	MigratedFiles    []MigratedFile    `json:"migratedFiles"`
	FailedMigrations []FailedMigration `json:"failedMigrations"`
}

type Migrator struct {
	Store      AssetStore
	Uploader   Uploader
	PublicDir  string
	Folder     string
	BackupPath string
	now        func() time.Time
}

func NewMigrator(st AssetStore, uploader Uploader, publicDir, folder, backupPath string) *Migrator {
	if backupPath == "" {
		backupPath = DefaultBackupFile
	}
	return &Migrator{
		Store:      st,
		Uploader:   uploader,
		PublicDir:  publicDir,
		Folder:     folder,
		BackupPath: backupPath,
		now:        time.Now,
	}
}

type asset struct {
	kind     string
	id       int64
	filePath string
	folder   string
	publicID string
}

// Run uploads every active logo and image that still points at a local
// file and rewrites its file_path to the remote URL. A missing or failing
// file is recorded and the batch continues. A dry run only reports what
// would move. Entries from an earlier backup file are kept so a rollback
// still reaches the first original paths.
func (m *Migrator) Run(ctx context.Context, dryRun bool) (Backup, error) {
	backup := Backup{
		Timestamp:        m.now().UTC(),
		BackupData:       []BackupEntry{},
		MigratedFiles:    []MigratedFile{},
		FailedMigrations: []FailedMigration{},
	}
	assets, err := m.pending(ctx)
	if err != nil {
		return backup, err
	}
	log.Printf("[MIGRATE] %d local assets to migrate (dry run: %t)", len(assets), dryRun)

	for _, a := range assets {
		if err := ctx.Err(); err != nil {
			return backup, err
		}
		local := m.localPath(a.filePath)
		if _, err := os.Stat(local); err != nil {
			backup.fail(a, "file not found: "+local)
			continue
		}
		if dryRun {
			log.Printf("[MIGRATE] would upload %s %d: %s", a.kind, a.id, a.filePath)
			backup.MigratedFiles = append(backup.MigratedFiles, MigratedFile{Type: a.kind, ID: a.id, OriginalFilePath: a.filePath})
			continue
		}
		uploaded, err := m.Uploader.Upload(ctx, local, a.folder, a.publicID)
		if err != nil {
			backup.fail(a, err.Error())
			continue
		}
		if _, err := m.updatePath(ctx, a.kind, a.id, uploaded.URL).Unwrap(); err != nil {
			backup.fail(a, "uploaded to "+uploaded.URL+" but row not updated: "+err.Error())
			continue
		}
		log.Printf("[MIGRATE] %s %d: %s -> %s", a.kind, a.id, a.filePath, uploaded.URL)
		backup.BackupData = append(backup.BackupData, BackupEntry{Type: a.kind, ID: a.id, OriginalFilePath: a.filePath})
		backup.MigratedFiles = append(backup.MigratedFiles, MigratedFile{Type: a.kind, ID: a.id, OriginalFilePath: a.filePath, NewURL: uploaded.URL})
	}

	log.Printf("[MIGRATE] migrated %d, failed %d", len(backup.MigratedFiles), len(backup.FailedMigrations))
	if dryRun {
		return backup, nil
	}
	if previous, err := ReadBackup(m.BackupPath); err == nil {
		backup.BackupData = mergeBackupData(previous.BackupData, backup.BackupData)
	} else if !errors.Is(err, os.ErrNotExist) {
		return backup, err
	}
	if err := WriteBackup(m.BackupPath, backup); err != nil {
		return backup, err
	}
	return backup, nil
}

// mergeBackupData appends the new entries to the earlier ones, keeping only
// the first entry per asset so the oldest original path wins on rollback.
func mergeBackupData(earlier, later []BackupEntry) []BackupEntry {
	type assetRef struct {
		kind string
		id   int64
	}
	seen := make(map[assetRef]bool, len(earlier)+len(later))
	merged := make([]BackupEntry, 0, len(earlier)+len(later))
	for _, entry := range append(append([]BackupEntry{}, earlier...), later...) {
		ref := assetRef{kind: entry.Type, id: entry.ID}
		if seen[ref] {
			continue
		}
		seen[ref] = true
		merged = append(merged, entry)
	}
	return merged
}

func (b *Backup) fail(a asset, message string) {
	log.Printf("[MIGRATE] %s %d failed: %s", a.kind, a.id, message)
	b.FailedMigrations = append(b.FailedMigrations, FailedMigration{Type: a.kind, ID: a.id, FilePath: a.filePath, Error: message})
}

func (m *Migrator) pending(ctx context.Context) ([]asset, error) {
	logos, err := m.Store.GetLogos(ctx, true).Unwrap()
	if err != nil {
		return nil, fmt.Errorf("load logos: %w", err)
	}
	images, err := m.Store.GetImages(ctx, "").Unwrap()
	if err != nil {
		return nil, fmt.Errorf("load images: %w", err)
	}
	var assets []asset
	for _, logo := range logos {
		if IsLocal(logo.FilePath) {
			assets = append(assets, asset{
				kind:     TypeLogo,
				id:       logo.ID,
				filePath: logo.FilePath,
				folder:   path.Join(m.Folder, "logos"),
				publicID: logo.LogoID,
			})
		}
	}
	for _, image := range images {
		if IsLocal(image.FilePath) {
			assets = append(assets, asset{
				kind:     TypeImage,
				id:       image.ID,
				filePath: image.FilePath,
				folder:   path.Join(m.Folder, "images", image.Category),
				publicID: strings.TrimSuffix(image.Filename, filepath.Ext(image.Filename)),
			})
		}
	}
	return assets, nil
}

// Rollback restores every path recorded in the backup file. It keeps going
// past individual failures and returns how many rows were restored.
func (m *Migrator) Rollback(ctx context.Context) (int, error) {
	backup, err := ReadBackup(m.BackupPath)
	if err != nil {
		return 0, fmt.Errorf("read backup: %w", err)
	}
	restored := 0
	var errs []error
	for _, entry := range backup.BackupData {
		if _, err := m.updatePath(ctx, entry.Type, entry.ID, entry.OriginalFilePath).Unwrap(); err != nil {
			errs = append(errs, fmt.Errorf("%s %d: %w", entry.Type, entry.ID, err))
			continue
		}
		restored++
		log.Printf("[MIGRATE] restored %s %d to %s", entry.Type, entry.ID, entry.OriginalFilePath)
	}
	return restored, errors.Join(errs...)
}

func (m *Migrator) updatePath(ctx context.Context, kind string, id int64, filePath string) store.Result[bool] {
	switch kind {
	case TypeLogo:
		return m.Store.UpdateLogoPath(ctx, id, filePath)
	case TypeImage:
		return m.Store.UpdateImagePath(ctx, id, filePath)
	}
	return store.Fail[bool](store.KindInvalid, "unknown asset type: "+kind)
}

func (m *Migrator) localPath(filePath string) string {
	return filepath.Join(m.PublicDir, filepath.FromSlash(strings.TrimPrefix(filePath, "/")))
}

// IsLocal reports whether a stored path still refers to a file served by
// this backend.
func IsLocal(filePath string) bool {
	value := strings.TrimSpace(filePath)
	if value == "" {
		return false
	}
	lower := strings.ToLower(value)
	return !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") && !strings.HasPrefix(lower, "data:")
}

func ReadBackup(backupPath string) (Backup, error) {
	raw, err := os.ReadFile(backupPath)
	if err != nil {
		return Backup{}, err
	}
	var backup Backup
	if err := json.Unmarshal(raw, &backup); err != nil {
		return Backup{}, fmt.Errorf("parse %s: %w", backupPath, err)
	}
	return backup, nil
}

// WriteBackup replaces the file atomically.
func WriteBackup(backupPath string, backup Backup) error {
	encoded, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return err
	}
	tmp := backupPath + ".tmp"
	if err := os.WriteFile(tmp, encoded, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, backupPath)
}
