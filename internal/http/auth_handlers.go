package httpapi

import (
	"net/http"
	"strings"
	"time"

	"eventhubble-backend-go/internal/services"
	"eventhubble-backend-go/internal/store"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AdminDTO struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

type SessionResponse struct {
	User      AdminDTO `json:"user"`
	CSRFToken string   `json:"csrfToken"`
	ExpiresAt int64    `json:"expiresAt"`
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res := s.Store.GetAdminByEmail(r.Context(), req.Email)
	if !res.Success {
		if res.Kind != store.KindNotFound {
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	admin := res.Data
	if !admin.IsActive || !s.Tokens.VerifyPassword(req.Password, admin.PasswordHash) {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	if !s.issueSession(w, services.Session{AdminID: admin.ID, Email: admin.Email, Role: admin.Role}, admin.LastLoginAt) {
		return
	}
	s.Store.TouchAdminLogin(r.Context(), admin.ID)
	if s.Tokens.NeedsRehash(admin.PasswordHash) {
		if hash, err := s.Tokens.HashPassword(req.Password); err == nil {
			s.Store.UpdateAdminPassword(r.Context(), admin.ID, hash)
		}
	}
	s.Store.RecordAudit(r.Context(), store.AuditEntry{Actor: admin.Email, Action: "login", Entity: "admin", EntityID: admin.ID})
}

// Refresh rotates both cookies and issues a new CSRF token.
func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(RefreshCookie)
	if err != nil || cookie.Value == "" {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	adminID, err := s.Tokens.ParseRefresh(cookie.Value)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	res := s.Store.GetAdmin(r.Context(), adminID)
	if !res.Success || !res.Data.IsActive {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	admin := res.Data
	s.issueSession(w, services.Session{AdminID: admin.ID, Email: admin.Email, Role: admin.Role}, admin.LastLoginAt)
}

func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	s.setCookie(w, AccessCookie, "", -1)
	s.setCookie(w, RefreshCookie, "", -1)
	WriteData(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	session, _ := CurrentSession(r)
	res := s.Store.GetAdmin(r.Context(), session.AdminID)
	if !res.Success {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	WriteData(w, http.StatusOK, SessionResponse{
		User:      AdminDTO{ID: res.Data.ID, Email: res.Data.Email, Role: res.Data.Role, LastLoginAt: res.Data.LastLoginAt},
		CSRFToken: session.CSRF,
	})
}

func (s *Server) issueSession(w http.ResponseWriter, session services.Session, lastLogin *time.Time) bool {
	access, session, exp, err := s.Tokens.CreateAccessToken(session)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return false
	}
	refresh, err := s.Tokens.CreateRefreshToken(session.AdminID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return false
	}
	s.setCookie(w, AccessCookie, access, int(s.Tokens.AccessTTL.Seconds()))
	s.setCookie(w, RefreshCookie, refresh, int(s.Tokens.RefreshTTL.Seconds()))
	WriteData(w, http.StatusOK, SessionResponse{
		User:      AdminDTO{ID: session.AdminID, Email: session.Email, Role: strings.ToUpper(session.Role), LastLoginAt: lastLogin},
		CSRFToken: session.CSRF,
		ExpiresAt: exp,
	})
	return true
}

func (s *Server) setCookie(w http.ResponseWriter, name, value string, maxAge int) {
	path := "/api"
	if name == RefreshCookie {
		path = "/api/auth"
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.Config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
