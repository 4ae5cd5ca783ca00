package migrations

import (
	"context"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersionNumber(t *testing.T) {
	cases := map[string]struct {
		version int
		ok      bool
	}{
		"V1__init.sql":          {1, true},
		"V12__add_partners.sql": {12, true},
		"init.sql":              {0, false},
		"Vx__broken.sql":        {0, false},
		"V3.sql":                {0, false},
	}
	for name, want := range cases {
		version, ok := parseVersionNumber(name)
		assert.Equal(t, want.ok, ok, name)
		assert.Equal(t, want.version, version, name)
	}
}

func TestListMigrationsSortsNumerically(t *testing.T) {
	fsys := fstest.MapFS{
		"V10__later.sql": {Data: []byte("SELECT 10")},
		"V2__second.sql": {Data: []byte("SELECT 2")},
		"V1__first.sql":  {Data: []byte("SELECT 1")},
		"README.md":      {Data: []byte("notes")},
	}
	migs, err := listMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, migs, 3)
	assert.Equal(t, "V1__first.sql", migs[0].Name)
	assert.Equal(t, "V2__second.sql", migs[1].Name)
	assert.Equal(t, "V10__later.sql", migs[2].Name)
}

func TestListMigrationsRejectsDuplicateVersions(t *testing.T) {
	fsys := fstest.MapFS{
		"V1__a.sql": {Data: []byte("SELECT 1")},
		"V1__b.sql": {Data: []byte("SELECT 1")},
	}
	_, err := listMigrations(fsys)
	assert.Error(t, err)
}

func TestEmbeddedFilesAreVersioned(t *testing.T) {
	migs, err := listMigrations(Files())
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	assert.Equal(t, 1, migs[0].Version)
}

func TestApplySkipsRecordedVersions(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	db := sqlx.NewDb(raw, "pgx")

	fsys := fstest.MapFS{
		"V1__first.sql":  {Data: []byte("CREATE TABLE a (id INT)")},
		"V2__second.sql": {Data: []byte("CREATE TABLE b (id INT)")},
	}

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(")).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT version FROM schema_migrations")).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("1"))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE b (id INT)")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations (version, name) VALUES ($1, $2)")).
		WithArgs("2", "V2__second.sql").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, Apply(context.Background(), db, fsys))
	assert.NoError(t, mock.ExpectationsWereMet())
}
