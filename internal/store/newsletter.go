package store

import (
	"context"
	"strings"

	"eventhubble-backend-go/internal/models"
)

const newsletterColumns = `id, email, language, is_active, created_at, updated_at`

// Subscribe adds the address or reactivates an earlier subscription.
func (s *Store) Subscribe(ctx context.Context, email, language string) Result[models.NewsletterSubscription] {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return Fail[models.NewsletterSubscription](KindInvalid, "A valid email is required")
	}
	language = strings.ToUpper(strings.TrimSpace(language))
	if language != "EN" {
		language = "TR"
	}
	now := s.now()
	var subscription models.NewsletterSubscription
	err := s.db.GetContext(ctx, &subscription, `
INSERT INTO newsletter_subscriptions (email, language, is_active, created_at, updated_at)
VALUES ($1, $2, TRUE, $3, $3)
ON CONFLICT (email) DO UPDATE SET language = EXCLUDED.language, is_active = TRUE, updated_at = EXCLUDED.updated_at
RETURNING `+newsletterColumns, email, language, now)
	if err != nil {
		return failure[models.NewsletterSubscription]("subscribe", err, "")
	}
	return Ok(subscription)
}

func (s *Store) Unsubscribe(ctx context.Context, email string) Result[bool] {
	res, err := s.db.ExecContext(ctx, `
UPDATE newsletter_subscriptions SET is_active = FALSE, updated_at = $2
WHERE email = $1 AND is_active = TRUE`, strings.ToLower(strings.TrimSpace(email)), s.now())
	if err != nil {
		return failure[bool]("unsubscribe", err, "")
	}
	return affectedOne(res, true, "Subscription not found")
}

func (s *Store) GetSubscribers(ctx context.Context, activeOnly bool) Result[[]models.NewsletterSubscription] {
	query := `SELECT ` + newsletterColumns + ` FROM newsletter_subscriptions`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY created_at DESC`
	subscribers := []models.NewsletterSubscription{}
	if err := s.db.SelectContext(ctx, &subscribers, query); err != nil {
		return failure[[]models.NewsletterSubscription]("get subscribers", err, "")
	}
	return Ok(subscribers)
}
