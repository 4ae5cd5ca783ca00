package httpapi

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"eventhubble-backend-go/internal/services"
)

type contextKey string

const ctxSession contextKey = "session"

const (
	AccessCookie  = "eh_access"
	RefreshCookie = "eh_refresh"
	CSRFHeader    = "X-CSRF-Token"
)

// WithAuth accepts the access token from the session cookie or a Bearer
// header.
func WithAuth(tokenService services.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := accessToken(r)
			if tokenStr == "" {
				WriteError(w, http.StatusUnauthorized, "Authentication failed")
				return
			}
			session, err := tokenService.ParseAccess(tokenStr)
			if err != nil {
				WriteError(w, http.StatusUnauthorized, "Authentication failed")
				return
			}
			ctx := context.WithValue(r.Context(), ctxSession, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func accessToken(r *http.Request) string {
	if cookie, err := r.Cookie(AccessCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

// RequireCSRF checks mutating requests echo the token issued at login.
func RequireCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}
		session, ok := CurrentSession(r)
		header := r.Header.Get(CSRFHeader)
		if !ok || header == "" || subtle.ConstantTimeCompare([]byte(header), []byte(session.CSRF)) != 1 {
			WriteError(w, http.StatusForbidden, "Invalid CSRF token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RequireRole(role string) func(http.Handler) http.Handler {
	role = strings.ToUpper(role)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := CurrentSession(r)
			if !ok || strings.ToUpper(session.Role) != role {
				WriteError(w, http.StatusForbidden, "Not allowed")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func CurrentSession(r *http.Request) (services.Session, bool) {
	session, ok := r.Context().Value(ctxSession).(services.Session)
	return session, ok
}

func currentActor(r *http.Request) string {
	if session, ok := CurrentSession(r); ok {
		return session.Email
	}
	return "anonymous"
}
