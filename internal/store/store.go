// Package store maps named domain operations onto Postgres queries. Every
// operation returns a Result and never lets a backend error escape.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) DB() *sqlx.DB {
	return s.db
}

func (s *Store) Ping(ctx context.Context) Result[bool] {
	if err := s.db.PingContext(ctx); err != nil {
		return failure[bool]("ping", err, "")
	}
	return Ok(true)
}

// where accumulates positional filter clauses.
type where struct {
	clauses []string
	args    []interface{}
}

// add appends a clause; every %[1]d in clause becomes the arg's position.
func (w *where) add(clause string, value interface{}) {
	w.args = append(w.args, value)
	w.clauses = append(w.clauses, fmt.Sprintf(clause, len(w.args)))
}

func (w *where) raw(clause string) {
	w.clauses = append(w.clauses, clause)
}

func (w *where) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// page appends LIMIT/OFFSET with a default and ceiling on the limit.
func (w *where) page(limit, offset, fallback, max int) string {
	if limit <= 0 {
		limit = fallback
	}
	if limit > max {
		limit = max
	}
	if offset < 0 {
		offset = 0
	}
	w.args = append(w.args, limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(w.args)-1, len(w.args))
}

func likePattern(term string) string {
	cleaned := strings.Join(strings.Fields(strings.ToLower(term)), " ")
	cleaned = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(cleaned)
	return "%" + cleaned + "%"
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
