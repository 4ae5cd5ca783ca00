package store

import (
	"context"
	"strings"

	"eventhubble-backend-go/internal/models"
)

const categoryColumns = `id, name, name_tr, name_en, description, description_tr, description_en, color,
  parent_id, sort_order, is_active, created_at, updated_at`

const categoryNotFound = "Category not found"

type CategoryInput struct {
	ID            string  `json:"id"`
	Name          string  `json:"name" validate:"required,max=120"`
	NameTR        *string `json:"name_tr"`
	NameEN        *string `json:"name_en"`
	Description   string  `json:"description"`
	DescriptionTR *string `json:"description_tr"`
	DescriptionEN *string `json:"description_en"`
	Color         string  `json:"color" validate:"omitempty,hexcolor"`
	ParentID      *string `json:"parent_id"`
	SortOrder     int     `json:"sort_order"`
	IsActive      *bool   `json:"is_active"`
}

func (s *Store) GetCategories(ctx context.Context, activeOnly bool) Result[[]models.Category] {
	query := `SELECT ` + categoryColumns + ` FROM categories`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY sort_order ASC, name ASC`
	categories := []models.Category{}
	if err := s.db.SelectContext(ctx, &categories, query); err != nil {
		return failure[[]models.Category]("get categories", err, "")
	}
	return Ok(categories)
}

func (s *Store) GetCategory(ctx context.Context, id string) Result[models.Category] {
	var category models.Category
	err := s.db.GetContext(ctx, &category, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	if err != nil {
		return failure[models.Category]("get category", err, categoryNotFound)
	}
	return Ok(category)
}

// checkParent enforces a single level of nesting.
func (s *Store) checkParent(ctx context.Context, id string, parentID *string) string {
	if parentID == nil {
		return ""
	}
	if *parentID == id {
		return "Category cannot be its own parent"
	}
	var parent struct {
		ParentID *string `db:"parent_id"`
	}
	err := s.db.GetContext(ctx, &parent, `SELECT parent_id FROM categories WHERE id = $1`, *parentID)
	if err != nil {
		return "Parent category not found"
	}
	if parent.ParentID != nil {
		return "Parent category must be top level"
	}
	return ""
}

func (s *Store) CreateCategory(ctx context.Context, input CategoryInput) Result[models.Category] {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Fail[models.Category](KindInvalid, "Name is required")
	}
	id := strings.TrimSpace(input.ID)
	if id == "" {
		resolved, err := s.resolveSlug(ctx, "categories", "id", name)
		if err != nil {
			return failure[models.Category]("resolve category id", err, "")
		}
		id = resolved
	}
	parentID := trimmedPtr(input.ParentID)
	if msg := s.checkParent(ctx, id, parentID); msg != "" {
		return Fail[models.Category](KindInvalid, msg)
	}
	now := s.now()
	var created models.Category
	err := s.db.GetContext(ctx, &created, `
INSERT INTO categories (
  id, name, name_tr, name_en, description, description_tr, description_en, color,
  parent_id, sort_order, is_active, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$12)
RETURNING `+categoryColumns,
		id, name, input.NameTR, input.NameEN, input.Description, input.DescriptionTR, input.DescriptionEN,
		strings.TrimSpace(input.Color), parentID, input.SortOrder, boolOr(input.IsActive, true), now)
	if err != nil {
		return failure[models.Category]("create category", err, "")
	}
	return Ok(created)
}

func (s *Store) UpdateCategory(ctx context.Context, id string, input CategoryInput) Result[models.Category] {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Fail[models.Category](KindInvalid, "Name is required")
	}
	parentID := trimmedPtr(input.ParentID)
	if msg := s.checkParent(ctx, id, parentID); msg != "" {
		return Fail[models.Category](KindInvalid, msg)
	}
	var updated models.Category
	err := s.db.GetContext(ctx, &updated, `
UPDATE categories SET
  name = $2, name_tr = $3, name_en = $4, description = $5, description_tr = $6, description_en = $7,
  color = $8, parent_id = $9, sort_order = $10, is_active = $11, updated_at = $12
WHERE id = $1
RETURNING `+categoryColumns,
		id, name, input.NameTR, input.NameEN, input.Description, input.DescriptionTR, input.DescriptionEN,
		strings.TrimSpace(input.Color), parentID, input.SortOrder, boolOr(input.IsActive, true), s.now())
	if err != nil {
		return failure[models.Category]("update category", err, categoryNotFound)
	}
	return Ok(updated)
}

// DeleteCategory refuses while events or child categories reference it.
func (s *Store) DeleteCategory(ctx context.Context, id string) Result[bool] {
	var inUse bool
	err := s.db.GetContext(ctx, &inUse, `
SELECT EXISTS(SELECT 1 FROM events WHERE category = $1 AND is_active = TRUE)
    OR EXISTS(SELECT 1 FROM categories WHERE parent_id = $1)`, id)
	if err != nil {
		return failure[bool]("category usage", err, "")
	}
	if inUse {
		return Fail[bool](KindConflict, "Category is in use")
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return failure[bool]("delete category", err, "")
	}
	return affectedOne(res, true, categoryNotFound)
}
