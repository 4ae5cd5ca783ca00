package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventhubble-backend-go/internal/models"
)

const eventColumns = `id, title, title_tr, title_en, description, description_tr, description_en,
  venue, venue_tr, venue_en, organizer, organizer_tr, organizer_en, category, city, country,
  start_date, end_date, price_min, price_max, currency, image_url, tags, is_active, is_featured,
  view_count, like_count, source, source_url, created_at, updated_at`

const eventNotFound = "Event not found"

type EventFilters struct {
	Category        string
	City            string
	Search          string
	Featured        *bool
	From            *time.Time
	IncludeInactive bool
	Limit           int
	Offset          int
}

func (s *Store) GetEvents(ctx context.Context, filters EventFilters) Result[[]models.Event] {
	w := &where{}
	if !filters.IncludeInactive {
		w.raw("is_active = TRUE")
	}
	if category := strings.TrimSpace(filters.Category); category != "" {
		w.add("category = $%d", category)
	}
	if city := strings.TrimSpace(filters.City); city != "" {
		w.add("lower(city) = lower($%d)", city)
	}
	if filters.Featured != nil {
		w.add("is_featured = $%d", *filters.Featured)
	}
	if filters.From != nil {
		w.add("COALESCE(end_date, start_date) >= $%d", *filters.From)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		w.add(`(lower(title) LIKE $%[1]d OR lower(COALESCE(title_tr, '')) LIKE $%[1]d
  OR lower(COALESCE(title_en, '')) LIKE $%[1]d OR lower(venue) LIKE $%[1]d OR lower(city) LIKE $%[1]d)`, likePattern(search))
	}
	query := `SELECT ` + eventColumns + ` FROM events` + w.sql() +
		` ORDER BY is_featured DESC, start_date ASC` + w.page(filters.Limit, filters.Offset, 50, 200)

	events := []models.Event{}
	if err := s.db.SelectContext(ctx, &events, query, w.args...); err != nil {
		return failure[[]models.Event]("get events", err, "")
	}
	return Ok(events)
}

func (s *Store) GetEvent(ctx context.Context, id string) Result[models.Event] {
	var event models.Event
	err := s.db.GetContext(ctx, &event, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	if err != nil {
		return failure[models.Event]("get event", err, eventNotFound)
	}
	return Ok(event)
}

func normalizeEvent(event *models.Event) string {
	event.Title = strings.TrimSpace(event.Title)
	event.Category = strings.TrimSpace(event.Category)
	event.City = strings.TrimSpace(event.City)
	event.Currency = strings.ToUpper(strings.TrimSpace(event.Currency))
	if event.Currency == "" {
		event.Currency = "TRY"
	}
	if strings.TrimSpace(event.Country) == "" {
		event.Country = "Türkiye"
	}
	event.Tags = CleanTags(event.Tags)
	event.ImageURL = trimmedPtr(event.ImageURL)
	event.SourceURL = trimmedPtr(event.SourceURL)
	switch {
	case event.Title == "":
		return "Title is required"
	case event.StartDate.IsZero():
		return "Start date is required"
	case event.EndDate != nil && event.EndDate.Before(event.StartDate):
		return "End date must not precede start date"
	case event.PriceMin != nil && event.PriceMax != nil && *event.PriceMax < *event.PriceMin:
		return "Maximum price must not be below minimum price"
	}
	return ""
}

func (s *Store) CreateEvent(ctx context.Context, event models.Event) Result[models.Event] {
	if msg := normalizeEvent(&event); msg != "" {
		return Fail[models.Event](KindInvalid, msg)
	}
	if strings.TrimSpace(event.ID) == "" {
		event.ID = uuid.NewString()
	}
	now := s.now()
	var created models.Event
	err := s.db.GetContext(ctx, &created, `
INSERT INTO events (
  id, title, title_tr, title_en, description, description_tr, description_en,
  venue, venue_tr, venue_en, organizer, organizer_tr, organizer_en, category, city, country,
  start_date, end_date, price_min, price_max, currency, image_url, tags, is_active, is_featured,
  view_count, like_count, source, source_url, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,0,0,$26,$27,$28,$28)
RETURNING `+eventColumns,
		event.ID, event.Title, event.TitleTR, event.TitleEN, event.Description, event.DescriptionTR, event.DescriptionEN,
		event.Venue, event.VenueTR, event.VenueEN, event.Organizer, event.OrganizerTR, event.OrganizerEN,
		event.Category, event.City, event.Country, event.StartDate, event.EndDate, event.PriceMin, event.PriceMax,
		event.Currency, event.ImageURL, event.Tags, event.IsActive, event.IsFeatured, event.Source, event.SourceURL, now)
	if err != nil {
		return failure[models.Event]("create event", err, "")
	}
	return Ok(created)
}

// UpdateEvent replaces every editable field. Counters and timestamps are
// kept.
func (s *Store) UpdateEvent(ctx context.Context, id string, event models.Event) Result[models.Event] {
	if msg := normalizeEvent(&event); msg != "" {
		return Fail[models.Event](KindInvalid, msg)
	}
	var updated models.Event
	err := s.db.GetContext(ctx, &updated, `
UPDATE events SET
  title = $2, title_tr = $3, title_en = $4, description = $5, description_tr = $6, description_en = $7,
  venue = $8, venue_tr = $9, venue_en = $10, organizer = $11, organizer_tr = $12, organizer_en = $13,
  category = $14, city = $15, country = $16, start_date = $17, end_date = $18, price_min = $19,
  price_max = $20, currency = $21, image_url = $22, tags = $23, is_active = $24, is_featured = $25,
  source = $26, source_url = $27, updated_at = $28
WHERE id = $1
RETURNING `+eventColumns,
		id, event.Title, event.TitleTR, event.TitleEN, event.Description, event.DescriptionTR, event.DescriptionEN,
		event.Venue, event.VenueTR, event.VenueEN, event.Organizer, event.OrganizerTR, event.OrganizerEN,
		event.Category, event.City, event.Country, event.StartDate, event.EndDate, event.PriceMin, event.PriceMax,
		event.Currency, event.ImageURL, event.Tags, event.IsActive, event.IsFeatured, event.Source, event.SourceURL, s.now())
	if err != nil {
		return failure[models.Event]("update event", err, eventNotFound)
	}
	return Ok(updated)
}

// DeleteEvent deactivates the event; rows are never removed.
func (s *Store) DeleteEvent(ctx context.Context, id string) Result[bool] {
	res, err := s.db.ExecContext(ctx, `UPDATE events SET is_active = FALSE, updated_at = $2 WHERE id = $1 AND is_active = TRUE`, id, s.now())
	if err != nil {
		return failure[bool]("delete event", err, "")
	}
	return affectedOne(res, true, eventNotFound)
}

func (s *Store) IncrementEventViews(ctx context.Context, id string) Result[int64] {
	var views int64
	err := s.db.GetContext(ctx, &views, `UPDATE events SET view_count = view_count + 1 WHERE id = $1 AND is_active = TRUE RETURNING view_count`, id)
	if err != nil {
		return failure[int64]("increment views", err, eventNotFound)
	}
	return Ok(views)
}

func (s *Store) LikeEvent(ctx context.Context, id string) Result[int64] {
	var likes int64
	err := s.db.GetContext(ctx, &likes, `UPDATE events SET like_count = like_count + 1 WHERE id = $1 AND is_active = TRUE RETURNING like_count`, id)
	if err != nil {
		return failure[int64]("like event", err, eventNotFound)
	}
	return Ok(likes)
}

type UpsertOutcome struct {
	ID      string `db:"id" json:"id"`
	Created bool   `db:"created" json:"created"`
}

// UpsertScrapedEvent inserts or refreshes an event keyed by its source URL.
// Admin-owned flags (active, featured) and counters survive a refresh.
func (s *Store) UpsertScrapedEvent(ctx context.Context, event models.Event) Result[UpsertOutcome] {
	if msg := normalizeEvent(&event); msg != "" {
		return Fail[UpsertOutcome](KindInvalid, msg)
	}
	if event.SourceURL == nil {
		return Fail[UpsertOutcome](KindInvalid, "Source URL is required")
	}
	if strings.TrimSpace(event.ID) == "" {
		event.ID = uuid.NewString()
	}
	var outcome UpsertOutcome
	err := s.db.GetContext(ctx, &outcome, `
INSERT INTO events (
  id, title, title_tr, title_en, description, description_tr, description_en,
  venue, venue_tr, venue_en, organizer, organizer_tr, organizer_en, category, city, country,
  start_date, end_date, price_min, price_max, currency, image_url, tags, is_active, is_featured,
  view_count, like_count, source, source_url, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,TRUE,FALSE,0,0,$24,$25,$26,$26)
ON CONFLICT (source_url) DO UPDATE SET
  title = EXCLUDED.title, description = EXCLUDED.description, venue = EXCLUDED.venue,
  organizer = EXCLUDED.organizer, category = EXCLUDED.category, city = EXCLUDED.city,
  start_date = EXCLUDED.start_date, end_date = EXCLUDED.end_date, price_min = EXCLUDED.price_min,
  price_max = EXCLUDED.price_max, currency = EXCLUDED.currency,
  image_url = COALESCE(EXCLUDED.image_url, events.image_url), tags = EXCLUDED.tags,
  updated_at = EXCLUDED.updated_at
RETURNING id, (xmax = 0) AS created`,
		event.ID, event.Title, event.TitleTR, event.TitleEN, event.Description, event.DescriptionTR, event.DescriptionEN,
		event.Venue, event.VenueTR, event.VenueEN, event.Organizer, event.OrganizerTR, event.OrganizerEN,
		event.Category, event.City, event.Country, event.StartDate, event.EndDate, event.PriceMin, event.PriceMax,
		event.Currency, event.ImageURL, event.Tags, event.Source, event.SourceURL, s.now())
	if err != nil {
		return failure[UpsertOutcome]("upsert scraped event", err, "")
	}
	return Ok(outcome)
}

type EventStats struct {
	TotalEvents    int64 `db:"total_events" json:"total_events"`
	ActiveEvents   int64 `db:"active_events" json:"active_events"`
	FeaturedEvents int64 `db:"featured_events" json:"featured_events"`
	UpcomingEvents int64 `db:"upcoming_events" json:"upcoming_events"`
	Cities         int64 `db:"cities" json:"cities"`
	Categories     int64 `db:"categories" json:"categories"`
	TotalViews     int64 `db:"total_views" json:"total_views"`
}

func (s *Store) EventStats(ctx context.Context) Result[EventStats] {
	var stats EventStats
	err := s.db.GetContext(ctx, &stats, `
SELECT
  COUNT(*) AS total_events,
  COUNT(*) FILTER (WHERE is_active) AS active_events,
  COUNT(*) FILTER (WHERE is_active AND is_featured) AS featured_events,
  COUNT(*) FILTER (WHERE is_active AND start_date >= $1) AS upcoming_events,
  COUNT(DISTINCT city) FILTER (WHERE is_active) AS cities,
  COUNT(DISTINCT category) FILTER (WHERE is_active) AS categories,
  COALESCE(SUM(view_count), 0) AS total_views
FROM events`, s.now())
	if err != nil {
		return failure[EventStats]("event stats", err, "")
	}
	return Ok(stats)
}
