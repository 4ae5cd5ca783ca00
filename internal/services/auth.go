package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session is what an admin access token carries.
type Session struct {
	AdminID string
	Email   string
	Role    string
	CSRF    string
}

type TokenService struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

var ErrInvalidToken = errors.New("invalid token")

// CreateAccessToken signs a session. The CSRF token is embedded in the
// claims so the server can compare the X-CSRF-Token header without storage.
func (t TokenService) CreateAccessToken(session Session) (string, Session, int64, error) {
	if session.CSRF == "" {
		session.CSRF = uuid.NewString()
	}
	now := time.Now().UTC()
	exp := now.Add(t.AccessTTL)
	claims := jwt.MapClaims{
		"iss":   t.Issuer,
		"sub":   session.AdminID,
		"typ":   "access",
		"email": session.Email,
		"role":  session.Role,
		"csrf":  session.CSRF,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.Secret)
	return signed, session, exp.Unix(), err
}

func (t TokenService) CreateRefreshToken(adminID string) (string, error) {
	now := time.Now().UTC()
	exp := now.Add(t.RefreshTTL)
	claims := jwt.MapClaims{
		"iss": t.Issuer,
		"sub": adminID,
		"typ": "refresh",
		"iat": now.Unix(),
		"exp": exp.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.Secret)
}

func (t TokenService) ParseToken(tokenStr string) (*jwt.Token, jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.Secret, nil
	}, jwt.WithIssuer(t.Issuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	return token, claims, err
}

// ParseAccess validates an access token and returns its session.
func (t TokenService) ParseAccess(tokenStr string) (Session, error) {
	token, claims, err := t.ParseToken(tokenStr)
	if err != nil || !token.Valid || claims["typ"] != "access" {
		return Session{}, ErrInvalidToken
	}
	session := Session{}
	session.AdminID, _ = claims["sub"].(string)
	session.Email, _ = claims["email"].(string)
	session.Role, _ = claims["role"].(string)
	session.CSRF, _ = claims["csrf"].(string)
	if session.AdminID == "" || session.CSRF == "" {
		return Session{}, ErrInvalidToken
	}
	return session, nil
}

// ParseRefresh returns the admin id of a valid refresh token.
func (t TokenService) ParseRefresh(tokenStr string) (string, error) {
	token, claims, err := t.ParseToken(tokenStr)
	if err != nil || !token.Valid || claims["typ"] != "refresh" {
		return "", ErrInvalidToken
	}
	adminID, _ := claims["sub"].(string)
	if adminID == "" {
		return "", ErrInvalidToken
	}
	return adminID, nil
}
