package db

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigPooler(t *testing.T) {
	cases := []struct {
		dsn  string
		mode pgx.QueryExecMode
	}{
		{"postgres://postgres:pw@db.abcd.supabase.co:5432/postgres", pgx.QueryExecModeCacheStatement},
		{"postgres://postgres.abcd:pw@aws-0-eu-central-1.pooler.supabase.com:5432/postgres", pgx.QueryExecModeSimpleProtocol},
		{"postgres://postgres:pw@localhost:6543/postgres", pgx.QueryExecModeSimpleProtocol},
	}
	for _, tc := range cases {
		cfg, err := parseConfig(tc.dsn)
		require.NoError(t, err, tc.dsn)
		assert.Equal(t, tc.mode, cfg.DefaultQueryExecMode, tc.dsn)
	}
}

func TestParseConfigRejectsGarbage(t *testing.T) {
	_, err := parseConfig("postgres://%zz")
	assert.Error(t, err)
}
