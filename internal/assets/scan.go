package assets

import (
	"context"
	"io/fs"
	"log"
	"path"
	"path/filepath"
	"strings"

	"eventhubble-backend-go/internal/models"
	"eventhubble-backend-go/internal/services"
	"eventhubble-backend-go/internal/store"
)

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".svg": true,
}

// ImageCatalog is what ScanUploads needs from the store.
type ImageCatalog interface {
	ImageExistsByFilename(ctx context.Context, filename string) store.Result[bool]
	CreateImage(ctx context.Context, input store.ImageInput) store.Result[models.Image]
}

type ScanReport struct {
	Added   int      `json:"added"`
	Skipped int      `json:"skipped"`
	Failed  []string `json:"failed"`
}

// ScanUploads registers image files under uploadsDir that have no image
// row yet. The first directory level is the category; files at the top
// level go to "general". Paths are stored under publicPrefix.
func ScanUploads(ctx context.Context, catalog ImageCatalog, uploadsDir, publicPrefix string) (ScanReport, error) {
	report := ScanReport{Failed: []string{}}
	err := filepath.WalkDir(uploadsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}
		rel, err := filepath.Rel(uploadsDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		category := "general"
		if dir := path.Dir(rel); dir != "." {
			category = strings.SplitN(dir, "/", 2)[0]
		}

		exists, err := catalog.ImageExistsByFilename(ctx, d.Name()).Unwrap()
		if err != nil {
			report.Failed = append(report.Failed, rel+": "+err.Error())
			return nil
		}
		if exists {
			report.Skipped++
			return nil
		}
		input := store.ImageInput{
			Category: category,
			Filename: d.Name(),
			Title:    strings.TrimSuffix(d.Name(), filepath.Ext(d.Name())),
			FilePath: path.Join("/", publicPrefix, rel),
		}
		if info, err := d.Info(); err == nil {
			size := info.Size()
			input.FileSize = &size
		}
		if width, height, ok := services.ImageDimensions(p); ok {
			input.Width, input.Height = &width, &height
		}
		if _, err := catalog.CreateImage(ctx, input).Unwrap(); err != nil {
			report.Failed = append(report.Failed, rel+": "+err.Error())
			return nil
		}
		report.Added++
		log.Printf("[MIGRATE] registered %s as %s", rel, input.FilePath)
		return nil
	})
	return report, err
}
