package store

import (
	"context"
	"strings"

	"eventhubble-backend-go/internal/models"
)

const (
	testimonialColumns = `id, name, role, quote, quote_tr, quote_en, avatar_url, sort_order, is_active, created_at`
	partnerColumns     = `id, name, logo_url, website_url, sort_order, is_active, created_at`
)

type TestimonialInput struct {
	Name      string  `json:"name" validate:"required,max=120"`
	Role      *string `json:"role"`
	Quote     string  `json:"quote" validate:"required"`
	QuoteTR   *string `json:"quote_tr"`
	QuoteEN   *string `json:"quote_en"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
	SortOrder int     `json:"sort_order"`
	IsActive  *bool   `json:"is_active"`
}

type PartnerInput struct {
	Name       string  `json:"name" validate:"required,max=120"`
	LogoURL    *string `json:"logo_url"`
	WebsiteURL *string `json:"website_url" validate:"omitempty,url"`
	SortOrder  int     `json:"sort_order"`
	IsActive   *bool   `json:"is_active"`
}

func (s *Store) GetTestimonials(ctx context.Context, activeOnly bool) Result[[]models.Testimonial] {
	query := `SELECT ` + testimonialColumns + ` FROM testimonials`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY sort_order ASC, id ASC`
	items := []models.Testimonial{}
	if err := s.db.SelectContext(ctx, &items, query); err != nil {
		return failure[[]models.Testimonial]("get testimonials", err, "")
	}
	return Ok(items)
}

func (s *Store) CreateTestimonial(ctx context.Context, input TestimonialInput) Result[models.Testimonial] {
	name := strings.TrimSpace(input.Name)
	quote := strings.TrimSpace(input.Quote)
	if name == "" || quote == "" {
		return Fail[models.Testimonial](KindInvalid, "Name and quote are required")
	}
	var created models.Testimonial
	err := s.db.GetContext(ctx, &created, `
INSERT INTO testimonials (name, role, quote, quote_tr, quote_en, avatar_url, sort_order, is_active, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
RETURNING `+testimonialColumns,
		name, trimmedPtr(input.Role), quote, input.QuoteTR, input.QuoteEN, trimmedPtr(input.AvatarURL),
		input.SortOrder, boolOr(input.IsActive, true), s.now())
	if err != nil {
		return failure[models.Testimonial]("create testimonial", err, "")
	}
	return Ok(created)
}

func (s *Store) DeleteTestimonial(ctx context.Context, id int64) Result[bool] {
	res, err := s.db.ExecContext(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return failure[bool]("delete testimonial", err, "")
	}
	return affectedOne(res, true, "Testimonial not found")
}

func (s *Store) GetPartners(ctx context.Context, activeOnly bool) Result[[]models.Partner] {
	query := `SELECT ` + partnerColumns + ` FROM partners`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY sort_order ASC, id ASC`
	items := []models.Partner{}
	if err := s.db.SelectContext(ctx, &items, query); err != nil {
		return failure[[]models.Partner]("get partners", err, "")
	}
	return Ok(items)
}

func (s *Store) CreatePartner(ctx context.Context, input PartnerInput) Result[models.Partner] {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Fail[models.Partner](KindInvalid, "Name is required")
	}
	var created models.Partner
	err := s.db.GetContext(ctx, &created, `
INSERT INTO partners (name, logo_url, website_url, sort_order, is_active, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING `+partnerColumns,
		name, trimmedPtr(input.LogoURL), trimmedPtr(input.WebsiteURL), input.SortOrder, boolOr(input.IsActive, true), s.now())
	if err != nil {
		return failure[models.Partner]("create partner", err, "")
	}
	return Ok(created)
}

func (s *Store) DeletePartner(ctx context.Context, id int64) Result[bool] {
	res, err := s.db.ExecContext(ctx, `DELETE FROM partners WHERE id = $1`, id)
	if err != nil {
		return failure[bool]("delete partner", err, "")
	}
	return affectedOne(res, true, "Partner not found")
}
