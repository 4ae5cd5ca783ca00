package store

import (
	"context"
	"strings"

	"eventhubble-backend-go/internal/models"
)

const logoColumns = `id, logo_id, filename, title, file_path, width, height, file_size, alt_text,
  is_active, created_at, updated_at`

const logoNotFound = "Logo not found"

type LogoInput struct {
	LogoID   string  `json:"logo_id" validate:"required,max=80"`
	Filename string  `json:"filename" validate:"required"`
	Title    string  `json:"title"`
	FilePath string  `json:"file_path" validate:"required"`
	Width    *int    `json:"width" validate:"omitempty,gt=0"`
	Height   *int    `json:"height" validate:"omitempty,gt=0"`
	FileSize *int64  `json:"file_size" validate:"omitempty,gte=0"`
	AltText  *string `json:"alt_text"`
	IsActive *bool   `json:"is_active"`
}

func (in LogoInput) check() string {
	switch {
	case strings.TrimSpace(in.LogoID) == "":
		return "Logo id is required"
	case strings.TrimSpace(in.Filename) == "":
		return "Filename is required"
	case strings.TrimSpace(in.FilePath) == "":
		return "File path is required"
	}
	return ""
}

func (s *Store) GetLogos(ctx context.Context, activeOnly bool) Result[[]models.Logo] {
	query := `SELECT ` + logoColumns + ` FROM logos`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY logo_id ASC`
	logos := []models.Logo{}
	if err := s.db.SelectContext(ctx, &logos, query); err != nil {
		return failure[[]models.Logo]("get logos", err, "")
	}
	return Ok(logos)
}

// GetLogo looks a logo up by its business key.
func (s *Store) GetLogo(ctx context.Context, logoID string) Result[models.Logo] {
	var logo models.Logo
	err := s.db.GetContext(ctx, &logo, `SELECT `+logoColumns+` FROM logos WHERE logo_id = $1`, logoID)
	if err != nil {
		return failure[models.Logo]("get logo", err, logoNotFound)
	}
	return Ok(logo)
}

func (s *Store) CreateLogo(ctx context.Context, input LogoInput) Result[models.Logo] {
	if msg := input.check(); msg != "" {
		return Fail[models.Logo](KindInvalid, msg)
	}
	now := s.now()
	var created models.Logo
	err := s.db.GetContext(ctx, &created, `
INSERT INTO logos (logo_id, filename, title, file_path, width, height, file_size, alt_text, is_active, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$10)
RETURNING `+logoColumns,
		strings.TrimSpace(input.LogoID), strings.TrimSpace(input.Filename), input.Title, strings.TrimSpace(input.FilePath),
		input.Width, input.Height, input.FileSize, input.AltText, boolOr(input.IsActive, true), now)
	if err != nil {
		return failure[models.Logo]("create logo", err, "")
	}
	return Ok(created)
}

func (s *Store) UpdateLogo(ctx context.Context, logoID string, input LogoInput) Result[models.Logo] {
	input.LogoID = logoID
	if msg := input.check(); msg != "" {
		return Fail[models.Logo](KindInvalid, msg)
	}
	var updated models.Logo
	err := s.db.GetContext(ctx, &updated, `
UPDATE logos SET filename = $2, title = $3, file_path = $4, width = $5, height = $6, file_size = $7,
  alt_text = $8, is_active = $9, updated_at = $10
WHERE logo_id = $1
RETURNING `+logoColumns,
		logoID, strings.TrimSpace(input.Filename), input.Title, strings.TrimSpace(input.FilePath),
		input.Width, input.Height, input.FileSize, input.AltText, boolOr(input.IsActive, true), s.now())
	if err != nil {
		return failure[models.Logo]("update logo", err, logoNotFound)
	}
	return Ok(updated)
}

func (s *Store) DeleteLogo(ctx context.Context, logoID string) Result[bool] {
	res, err := s.db.ExecContext(ctx, `DELETE FROM logos WHERE logo_id = $1`, logoID)
	if err != nil {
		return failure[bool]("delete logo", err, "")
	}
	return affectedOne(res, true, logoNotFound)
}

// UpdateLogoPath rewrites only the stored file path, keyed by row id.
func (s *Store) UpdateLogoPath(ctx context.Context, id int64, filePath string) Result[bool] {
	res, err := s.db.ExecContext(ctx, `UPDATE logos SET file_path = $2, updated_at = $3 WHERE id = $1`, id, filePath, s.now())
	if err != nil {
		return failure[bool]("update logo path", err, "")
	}
	return affectedOne(res, true, logoNotFound)
}
