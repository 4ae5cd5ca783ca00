package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

const poolerPort = 6543

// Open connects through pgx and checks the connection. Supabase's
// transaction pooler does not keep prepared statements between
// transactions, so connections through it use the simple protocol.
func Open(dsn string) (*sqlx.DB, error) {
	connConfig, err := parseConfig(dsn)
	if err != nil {
		return nil, err
	}
	db := sqlx.NewDb(stdlib.OpenDB(*connConfig), "pgx")
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func parseConfig(dsn string) (*pgx.ConnConfig, error) {
	connConfig, err := pgx.ParseConfig(strings.TrimSpace(dsn))
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if usesPooler(connConfig) {
		connConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	}
	return connConfig, nil
}

func usesPooler(cfg *pgx.ConnConfig) bool {
	return cfg.Port == poolerPort || strings.HasSuffix(cfg.Host, ".pooler.supabase.com")
}
