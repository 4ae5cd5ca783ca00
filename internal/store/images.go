package store

import (
	"context"
	"strings"

	"eventhubble-backend-go/internal/models"
)

const imageColumns = `id, category, filename, title, file_path, width, height, file_size, alt_text,
  is_active, created_at, updated_at`

const imageNotFound = "Image not found"

type ImageInput struct {
	Category string  `json:"category" validate:"required,max=80"`
	Filename string  `json:"filename" validate:"required"`
	Title    string  `json:"title"`
	FilePath string  `json:"file_path" validate:"required"`
	Width    *int    `json:"width" validate:"omitempty,gt=0"`
	Height   *int    `json:"height" validate:"omitempty,gt=0"`
	FileSize *int64  `json:"file_size" validate:"omitempty,gte=0"`
	AltText  *string `json:"alt_text"`
	IsActive *bool   `json:"is_active"`
}

func (in ImageInput) check() string {
	switch {
	case strings.TrimSpace(in.Category) == "":
		return "Category is required"
	case strings.TrimSpace(in.Filename) == "":
		return "Filename is required"
	case strings.TrimSpace(in.FilePath) == "":
		return "File path is required"
	}
	return ""
}

// GetImages lists active images, optionally for one category.
func (s *Store) GetImages(ctx context.Context, category string) Result[[]models.Image] {
	w := &where{}
	w.raw("is_active = TRUE")
	if category = strings.TrimSpace(category); category != "" {
		w.add("category = $%d", category)
	}
	images := []models.Image{}
	query := `SELECT ` + imageColumns + ` FROM images` + w.sql() + ` ORDER BY category ASC, filename ASC`
	if err := s.db.SelectContext(ctx, &images, query, w.args...); err != nil {
		return failure[[]models.Image]("get images", err, "")
	}
	return Ok(images)
}

// GetAllImages includes inactive rows.
func (s *Store) GetAllImages(ctx context.Context) Result[[]models.Image] {
	images := []models.Image{}
	if err := s.db.SelectContext(ctx, &images, `SELECT `+imageColumns+` FROM images ORDER BY id ASC`); err != nil {
		return failure[[]models.Image]("get all images", err, "")
	}
	return Ok(images)
}

func (s *Store) GetImage(ctx context.Context, id int64) Result[models.Image] {
	var image models.Image
	err := s.db.GetContext(ctx, &image, `SELECT `+imageColumns+` FROM images WHERE id = $1`, id)
	if err != nil {
		return failure[models.Image]("get image", err, imageNotFound)
	}
	return Ok(image)
}

func (s *Store) CreateImage(ctx context.Context, input ImageInput) Result[models.Image] {
	if msg := input.check(); msg != "" {
		return Fail[models.Image](KindInvalid, msg)
	}
	now := s.now()
	var created models.Image
	err := s.db.GetContext(ctx, &created, `
INSERT INTO images (category, filename, title, file_path, width, height, file_size, alt_text, is_active, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$10)
RETURNING `+imageColumns,
		strings.TrimSpace(input.Category), strings.TrimSpace(input.Filename), input.Title, strings.TrimSpace(input.FilePath),
		input.Width, input.Height, input.FileSize, input.AltText, boolOr(input.IsActive, true), now)
	if err != nil {
		return failure[models.Image]("create image", err, "")
	}
	return Ok(created)
}

func (s *Store) UpdateImage(ctx context.Context, id int64, input ImageInput) Result[models.Image] {
	if msg := input.check(); msg != "" {
		return Fail[models.Image](KindInvalid, msg)
	}
	var updated models.Image
	err := s.db.GetContext(ctx, &updated, `
UPDATE images SET category = $2, filename = $3, title = $4, file_path = $5, width = $6, height = $7,
  file_size = $8, alt_text = $9, is_active = $10, updated_at = $11
WHERE id = $1
RETURNING `+imageColumns,
		id, strings.TrimSpace(input.Category), strings.TrimSpace(input.Filename), input.Title, strings.TrimSpace(input.FilePath),
		input.Width, input.Height, input.FileSize, input.AltText, boolOr(input.IsActive, true), s.now())
	if err != nil {
		return failure[models.Image]("update image", err, imageNotFound)
	}
	return Ok(updated)
}

func (s *Store) DeleteImage(ctx context.Context, id int64) Result[bool] {
	res, err := s.db.ExecContext(ctx, `DELETE FROM images WHERE id = $1`, id)
	if err != nil {
		return failure[bool]("delete image", err, "")
	}
	return affectedOne(res, true, imageNotFound)
}

func (s *Store) UpdateImagePath(ctx context.Context, id int64, filePath string) Result[bool] {
	res, err := s.db.ExecContext(ctx, `UPDATE images SET file_path = $2, updated_at = $3 WHERE id = $1`, id, filePath, s.now())
	if err != nil {
		return failure[bool]("update image path", err, "")
	}
	return affectedOne(res, true, imageNotFound)
}

func (s *Store) ImageExistsByFilename(ctx context.Context, filename string) Result[bool] {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM images WHERE filename = $1)`, filename)
	if err != nil {
		return failure[bool]("image exists", err, "")
	}
	return Ok(exists)
}
