package store

import (
	"context"
	"encoding/json"
	"log"

	"eventhubble-backend-go/internal/models"
)

type AuditEntry struct {
	Actor    string
	Action   string
	Entity   string
	EntityID string
	Details  interface{}
}

// RecordAudit writes an audit row. Failures are logged and reported but
// callers treat auditing as best effort.
func (s *Store) RecordAudit(ctx context.Context, entry AuditEntry) Result[int64] {
	details := json.RawMessage("{}")
	if entry.Details != nil {
		encoded, err := json.Marshal(entry.Details)
		if err != nil {
			return Fail[int64](KindInvalid, "Audit details are not encodable")
		}
		details = encoded
	}
	var entityID *string
	if entry.EntityID != "" {
		entityID = &entry.EntityID
	}
	actor := entry.Actor
	if actor == "" {
		actor = "system"
	}
	var id int64
	err := s.db.GetContext(ctx, &id, `
INSERT INTO audit_logs (actor, action, entity, entity_id, details, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id`, actor, entry.Action, entry.Entity, entityID, []byte(details), s.now())
	if err != nil {
		log.Printf("[AUDIT] %s %s %s: %v", actor, entry.Action, entry.Entity, err)
		return failure[int64]("record audit", err, "")
	}
	return Ok(id)
}

func (s *Store) GetAuditLogs(ctx context.Context, entity string, limit int) Result[[]models.AuditLog] {
	w := &where{}
	if entity != "" {
		w.add("entity = $%d", entity)
	}
	query := `SELECT id, actor, action, entity, entity_id, details, created_at FROM audit_logs` + w.sql() +
		` ORDER BY created_at DESC, id DESC` + w.page(limit, 0, 100, 500)
	logs := []models.AuditLog{}
	if err := s.db.SelectContext(ctx, &logs, query, w.args...); err != nil {
		return failure[[]models.AuditLog]("get audit logs", err, "")
	}
	return Ok(logs)
}
