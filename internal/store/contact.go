package store

import (
	"context"
	"strings"

	"eventhubble-backend-go/internal/models"
)

const contactColumns = `id, name, email, subject, message, status, created_at, updated_at`

var contactStatuses = map[string]bool{"new": true, "read": true, "replied": true, "archived": true}

type ContactInput struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

func (s *Store) CreateContactSubmission(ctx context.Context, input ContactInput) Result[models.ContactSubmission] {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	message := strings.TrimSpace(input.Message)
	if name == "" || email == "" || message == "" {
		return Fail[models.ContactSubmission](KindInvalid, "Name, email and message are required")
	}
	now := s.now()
	var created models.ContactSubmission
	err := s.db.GetContext(ctx, &created, `
INSERT INTO contact_submissions (name, email, subject, message, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,'new',$5,$5)
RETURNING `+contactColumns, name, email, strings.TrimSpace(input.Subject), message, now)
	if err != nil {
		return failure[models.ContactSubmission]("create contact submission", err, "")
	}
	return Ok(created)
}

func (s *Store) GetContactSubmissions(ctx context.Context, status string, limit, offset int) Result[[]models.ContactSubmission] {
	w := &where{}
	if status = strings.TrimSpace(status); status != "" {
		w.add("status = $%d", status)
	}
	query := `SELECT ` + contactColumns + ` FROM contact_submissions` + w.sql() +
		` ORDER BY created_at DESC` + w.page(limit, offset, 50, 200)
	submissions := []models.ContactSubmission{}
	if err := s.db.SelectContext(ctx, &submissions, query, w.args...); err != nil {
		return failure[[]models.ContactSubmission]("get contact submissions", err, "")
	}
	return Ok(submissions)
}

func (s *Store) UpdateContactStatus(ctx context.Context, id int64, status string) Result[bool] {
	status = strings.ToLower(strings.TrimSpace(status))
	if !contactStatuses[status] {
		return Fail[bool](KindInvalid, "Unknown status: "+status)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE contact_submissions SET status = $2, updated_at = $3 WHERE id = $1`, id, status, s.now())
	if err != nil {
		return failure[bool]("update contact status", err, "")
	}
	return affectedOne(res, true, "Submission not found")
}
