package store

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

type Kind string

const (
	KindNone     Kind = ""
	KindNotFound Kind = "not_found"
	KindInvalid  Kind = "invalid"
	KindConflict Kind = "conflict"
	KindBackend  Kind = "backend"
)

// Status maps a failure kind to an HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindNone:
		return http.StatusOK
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalid:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Result is the envelope every data access call returns instead of an error.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Kind    Kind   `json:"-"`
}

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func Fail[T any](kind Kind, message string) Result[T] {
	return Result[T]{Success: false, Error: message, Kind: kind}
}

// Unwrap converts the envelope into Go's value/error pair.
func (r Result[T]) Unwrap() (T, error) {
	if r.Success {
		return r.Data, nil
	}
	return r.Data, &Error{Kind: r.Kind, Message: r.Error}
}

// failure classifies a backend error. notFound is the message used when the
// query matched no row.
func failure[T any](op string, err error, notFound string) Result[T] {
	if errors.Is(err, sql.ErrNoRows) && notFound != "" {
		return Fail[T](KindNotFound, notFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return Fail[T](KindConflict, "Record already exists")
		case "23503", "23502", "22P02", "23514":
			return Fail[T](KindInvalid, pgErr.Message)
		}
	}
	log.Printf("store %s: %v", op, err)
	return Fail[T](KindBackend, err.Error())
}

func affectedOne[T any](res sql.Result, data T, notFound string) Result[T] {
	rows, err := res.RowsAffected()
	if err != nil {
		return Fail[T](KindBackend, err.Error())
	}
	if rows == 0 {
		return Fail[T](KindNotFound, notFound)
	}
	return Ok(data)
}
