package store

import (
	"context"
	"strings"
	"time"

	"eventhubble-backend-go/internal/models"
)

type PathCount struct {
	Path  string `db:"path" json:"path"`
	Count int64  `db:"count" json:"count"`
}

type TypeCount struct {
	EventType string `db:"event_type" json:"event_type"`
	Count     int64  `db:"count" json:"count"`
}

type AnalyticsSummary struct {
	Days       int         `json:"days"`
	Total      int64       `json:"total"`
	ByType     []TypeCount `json:"by_type"`
	TopPaths   []PathCount `json:"top_paths"`
	TopEvents  []PathCount `json:"top_events"`
	ByLanguage []PathCount `json:"by_language"`
}

func (s *Store) TrackEvent(ctx context.Context, record models.AnalyticsRecord) Result[models.AnalyticsRecord] {
	record.EventType = strings.TrimSpace(record.EventType)
	if record.EventType == "" {
		return Fail[models.AnalyticsRecord](KindInvalid, "Event type is required")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now()
	}
	err := s.db.GetContext(ctx, &record.ID, `
INSERT INTO analytics (event_type, path, event_id, language, referrer, user_agent, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING id`, record.EventType, record.Path, record.EventID, record.Language, record.Referrer, record.UserAgent, record.CreatedAt)
	if err != nil {
		return failure[models.AnalyticsRecord]("track event", err, "")
	}
	return Ok(record)
}

func (s *Store) GetAnalyticsSummary(ctx context.Context, days int) Result[AnalyticsSummary] {
	if days <= 0 {
		days = 30
	}
	if days > 365 {
		days = 365
	}
	since := s.now().Add(-time.Duration(days) * 24 * time.Hour)
	summary := AnalyticsSummary{Days: days, ByType: []TypeCount{}, TopPaths: []PathCount{}, TopEvents: []PathCount{}, ByLanguage: []PathCount{}}

	if err := s.db.GetContext(ctx, &summary.Total, `SELECT COUNT(*) FROM analytics WHERE created_at >= $1`, since); err != nil {
		return failure[AnalyticsSummary]("analytics total", err, "")
	}
	if err := s.db.SelectContext(ctx, &summary.ByType, `
SELECT event_type, COUNT(*) AS count FROM analytics WHERE created_at >= $1
GROUP BY event_type ORDER BY count DESC`, since); err != nil {
		return failure[AnalyticsSummary]("analytics by type", err, "")
	}
	if err := s.db.SelectContext(ctx, &summary.TopPaths, `
SELECT path, COUNT(*) AS count FROM analytics WHERE created_at >= $1 AND path IS NOT NULL
GROUP BY path ORDER BY count DESC LIMIT 10`, since); err != nil {
		return failure[AnalyticsSummary]("analytics top paths", err, "")
	}
	if err := s.db.SelectContext(ctx, &summary.TopEvents, `
SELECT event_id AS path, COUNT(*) AS count FROM analytics WHERE created_at >= $1 AND event_id IS NOT NULL
GROUP BY event_id ORDER BY count DESC LIMIT 10`, since); err != nil {
		return failure[AnalyticsSummary]("analytics top events", err, "")
	}
	if err := s.db.SelectContext(ctx, &summary.ByLanguage, `
SELECT COALESCE(language, 'TR') AS path, COUNT(*) AS count FROM analytics WHERE created_at >= $1
GROUP BY COALESCE(language, 'TR') ORDER BY count DESC`, since); err != nil {
		return failure[AnalyticsSummary]("analytics by language", err, "")
	}
	return Ok(summary)
}

// PurgeAnalytics deletes records older than the retention window.
func (s *Store) PurgeAnalytics(ctx context.Context, retentionDays int) Result[int64] {
	if retentionDays <= 0 {
		return Fail[int64](KindInvalid, "Retention must be positive")
	}
	cutoff := s.now().Add(-time.Duration(retentionDays) * 24 * time.Hour)
	res, err := s.db.ExecContext(ctx, `DELETE FROM analytics WHERE created_at < $1`, cutoff)
	if err != nil {
		return failure[int64]("purge analytics", err, "")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return failure[int64]("purge analytics", err, "")
	}
	return Ok(rows)
}
