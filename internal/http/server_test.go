package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhubble-backend-go/internal/cache"
	"eventhubble-backend-go/internal/config"
	"eventhubble-backend-go/internal/services"
	"eventhubble-backend-go/internal/store"
)

var (
	stamp          = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	categoryFields = []string{"id", "name", "name_tr", "name_en", "description", "description_tr", "description_en", "color", "parent_id", "sort_order", "is_active", "created_at", "updated_at"}
	logoFields     = []string{"id", "logo_id", "filename", "title", "file_path", "width", "height", "file_size", "alt_text", "is_active", "created_at", "updated_at"}
	adminFields    = []string{"id", "email", "password_hash", "role", "is_active", "created_at", "last_login_at"}
)

func newTestServer(t *testing.T) (*Server, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = raw.Close()
	})
	cfg := config.Config{
		JWTSecret:         "test-secret",
		JWTIssuer:         "eventhubble",
		AccessTTLSeconds:  3600,
		RefreshTTLSeconds: 7200,
		UploadsDir:        t.TempDir(),
		MetricsDiskPath:   "/",
	}
	srv := NewServer(store.New(sqlx.NewDb(raw, "pgx")), cache.New(cache.NewMemoryStore(64)), cfg, nil)
	return srv, mock
}

func adminSession(t *testing.T, srv *Server) (string, services.Session) {
	t.Helper()
	token, session, _, err := srv.Tokens.CreateAccessToken(services.Session{AdminID: "admin-1", Email: "admin@eventhubble.com", Role: "ADMIN"})
	require.NoError(t, err)
	return token, session
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestQueryKey(t *testing.T) {
	assert.Equal(t, "all", queryKey(url.Values{}, eventQueryParams...))
	assert.Equal(t, "all", queryKey(url.Values{"lang": {"en"}}, eventQueryParams...))
	assert.Equal(t, "category=music&city=İzmir", queryKey(url.Values{
		"city":     {"İzmir"},
		"lang":     {"tr"},
		"category": {"music"},
	}, eventQueryParams...))
	assert.Equal(t, "all", queryKey(url.Values{"junk": {"1"}, "utm_source": {"mail"}}, eventQueryParams...))
	assert.Equal(t, "q=jazz", queryKey(url.Values{"q": {"jazz", "rock"}, "city": {" "}}, eventQueryParams...))
	assert.Equal(t, "all", queryKey(url.Values{"city": {"Ankara"}}, blogQueryParams...))
}

func TestUnknownEventParamsShareOneCacheEntry(t *testing.T) {
	srv, mock := newTestServer(t)
	now := stamp
	memory := cache.NewMemoryStore(8)
	srv.Cache = cache.New(memory, cache.WithClock(func() time.Time { return now }))
	mock.ExpectQuery(regexp.QuoteMeta("FROM logos")).
		WillReturnRows(sqlmock.NewRows(logoFields).
			AddRow(1, "main", "logo.png", "EventHubble", "/uploads/logo.png", nil, nil, nil, nil, true, stamp, stamp))
	mock.ExpectQuery(regexp.QuoteMeta("FROM events")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta("FROM logos")).WillReturnError(errors.New("connection refused"))

	require.Equal(t, http.StatusOK, serve(srv, httptest.NewRequest(http.MethodGet, "/api/logos", nil)).Code)
	for i := 0; i < 40; i++ {
		rec := serve(srv, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/events?junk=%d", i), nil))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	assert.LessOrEqual(t, memory.Len(), 4)

	now = now.Add(48 * time.Hour)
	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/api/logos", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"logo_id":"main"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRoutesRequireSession(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/api/admin/categories", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "Authentication failed", env.Error)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/categories", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, serve(srv, req).Code)
}

func TestAdminWritesRequireCSRF(t *testing.T) {
	srv, mock := newTestServer(t)
	token, session := adminSession(t, srv)

	req := httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader(`{"name":"Müzik"}`))
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: token})
	rec := serve(srv, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Invalid CSRF token", decodeEnvelope(t, rec).Error)

	req = httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader(`{"name":"Müzik"}`))
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: token})
	req.Header.Set(CSRFHeader, session.CSRF+"x")
	assert.Equal(t, http.StatusForbidden, serve(srv, req).Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNonAdminRoleIsRejected(t *testing.T) {
	srv, _ := newTestServer(t)
	token, _, _, err := srv.Tokens.CreateAccessToken(services.Session{AdminID: "u1", Email: "editor@eventhubble.com", Role: "EDITOR"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/logos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, serve(srv, req).Code)
}

func TestCategoryWriteInvalidatesCache(t *testing.T) {
	srv, mock := newTestServer(t)
	token, session := adminSession(t, srv)

	mock.ExpectQuery(regexp.QuoteMeta("FROM categories")).
		WillReturnRows(sqlmock.NewRows(categoryFields).
			AddRow("music", "Müzik", "Müzik", "Music", "", nil, nil, "#8b5cf6", nil, 1, true, stamp, stamp))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO categories")).
		WillReturnRows(sqlmock.NewRows(categoryFields).
			AddRow("sports", "Spor", "Spor", "Sports", "", nil, nil, "#10b981", nil, 2, true, stamp, stamp))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO audit_logs")).
		WithArgs("admin@eventhubble.com", "create", "category", "sports", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM categories")).
		WillReturnRows(sqlmock.NewRows(categoryFields).
			AddRow("music", "Müzik", "Müzik", "Music", "", nil, nil, "#8b5cf6", nil, 1, true, stamp, stamp).
			AddRow("sports", "Spor", "Spor", "Sports", "", nil, nil, "#10b981", nil, 2, true, stamp, stamp))

	first := serve(srv, httptest.NewRequest(http.MethodGet, "/api/categories?lang=en", nil))
	require.Equal(t, http.StatusOK, first.Code)
	cached := serve(srv, httptest.NewRequest(http.MethodGet, "/api/categories?lang=tr", nil))
	require.Equal(t, http.StatusOK, cached.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader(`{"id":"sports","name":"Spor","color":"#10b981","sort_order":2}`))
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: token})
	req.Header.Set(CSRFHeader, session.CSRF)
	created := serve(srv, req)
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())

	after := serve(srv, httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	require.Equal(t, http.StatusOK, after.Code)
	var body struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(after.Body.Bytes(), &body))
	assert.Len(t, body.Data, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCategoryValidation(t *testing.T) {
	srv, mock := newTestServer(t)
	token, session := adminSession(t, srv)

	req := httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader(`{"color":"purple"}`))
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: token})
	req.Header.Set(CSRFHeader, session.CSRF)
	rec := serve(srv, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Validation failed", env.Error)
	assert.Contains(t, env.Details, "name")
	assert.Contains(t, env.Details, "color")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListLogosServedFromCache(t *testing.T) {
	srv, mock := newTestServer(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM logos WHERE is_active = TRUE")).
		WillReturnRows(sqlmock.NewRows(logoFields).
			AddRow(1, "main", "logo.png", "EventHubble", "/uploads/logo.png", nil, nil, nil, nil, true, stamp, stamp))

	for i := 0; i < 3; i++ {
		rec := serve(srv, httptest.NewRequest(http.MethodGet, "/api/logos", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"logo_id":"main"`)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListLogosServesStaleWhenDatabaseFails(t *testing.T) {
	srv, mock := newTestServer(t)
	now := stamp
	srv.Cache = cache.New(cache.NewMemoryStore(8), cache.WithClock(func() time.Time { return now }))
	mock.ExpectQuery(regexp.QuoteMeta("FROM logos")).
		WillReturnRows(sqlmock.NewRows(logoFields).
			AddRow(1, "main", "logo.png", "EventHubble", "/uploads/logo.png", nil, nil, nil, nil, true, stamp, stamp))
	mock.ExpectQuery(regexp.QuoteMeta("FROM logos")).WillReturnError(errors.New("connection refused"))

	require.Equal(t, http.StatusOK, serve(srv, httptest.NewRequest(http.MethodGet, "/api/logos", nil)).Code)
	now = now.Add(48 * time.Hour)
	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/api/logos", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"logo_id":"main"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBackendErrorsAreNotExposed(t *testing.T) {
	srv, mock := newTestServer(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM logos")).WillReturnError(errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/api/logos", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "Internal server error", env.Error)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLogoNotFound(t *testing.T) {
	srv, mock := newTestServer(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM logos WHERE is_active = TRUE")).
		WillReturnRows(sqlmock.NewRows(logoFields))
	mock.ExpectQuery(regexp.QuoteMeta("FROM logos WHERE logo_id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(logoFields))

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/api/logos/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "Logo not found", env.Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealth(t *testing.T) {
	srv, mock := newTestServer(t)
	mock.ExpectPing()
	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	rec = serve(srv, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
	assert.Contains(t, rec.Body.String(), `"database":"down"`)
	assert.NotContains(t, rec.Body.String(), "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginIssuesCookies(t *testing.T) {
	srv, mock := newTestServer(t)
	hash, err := srv.Tokens.HashPassword("hunter22")
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("FROM admin_users WHERE email = $1")).
		WithArgs("admin@eventhubble.com").
		WillReturnRows(sqlmock.NewRows(adminFields).AddRow("admin-1", "admin@eventhubble.com", hash, "ADMIN", true, stamp, nil))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE admin_users SET last_login_at")).
		WithArgs("admin-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO audit_logs")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	rec := serve(srv, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"Admin@EventHubble.com","password":"hunter22"}`)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	cookies := map[string]*http.Cookie{}
	for _, cookie := range rec.Result().Cookies() {
		cookies[cookie.Name] = cookie
	}
	require.Contains(t, cookies, AccessCookie)
	require.Contains(t, cookies, RefreshCookie)
	assert.Equal(t, "/api", cookies[AccessCookie].Path)
	assert.Equal(t, "/api/auth", cookies[RefreshCookie].Path)
	assert.True(t, cookies[AccessCookie].HttpOnly)

	var body struct {
		Data SessionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	session, err := srv.Tokens.ParseAccess(cookies[AccessCookie].Value)
	require.NoError(t, err)
	assert.Equal(t, session.CSRF, body.Data.CSRFToken)
	assert.Equal(t, "ADMIN", body.Data.User.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	srv, mock := newTestServer(t)
	hash, err := srv.Tokens.HashPassword("hunter22")
	require.NoError(t, err)
	mock.ExpectQuery(regexp.QuoteMeta("FROM admin_users WHERE email = $1")).
		WillReturnRows(sqlmock.NewRows(adminFields).AddRow("admin-1", "admin@eventhubble.com", hash, "ADMIN", true, stamp, nil))

	rec := serve(srv, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"admin@eventhubble.com","password":"nope"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunIngestWithoutSources(t *testing.T) {
	srv, _ := newTestServer(t)
	token, session := adminSession(t, srv)

	req := httptest.NewRequest(http.MethodPost, "/api/ingest/run", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: token})
	req.Header.Set(CSRFHeader, session.CSRF)
	assert.Equal(t, http.StatusServiceUnavailable, serve(srv, req).Code)
}
