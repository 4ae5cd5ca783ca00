package store

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"eventhubble-backend-go/internal/models"
)

const adminColumns = `id, email, password_hash, role, is_active, created_at, last_login_at`

func (s *Store) GetAdminByEmail(ctx context.Context, email string) Result[models.AdminUser] {
	var admin models.AdminUser
	err := s.db.GetContext(ctx, &admin, `SELECT `+adminColumns+` FROM admin_users WHERE email = $1`, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return failure[models.AdminUser]("get admin", err, "Admin not found")
	}
	return Ok(admin)
}

func (s *Store) GetAdmin(ctx context.Context, id string) Result[models.AdminUser] {
	var admin models.AdminUser
	err := s.db.GetContext(ctx, &admin, `SELECT `+adminColumns+` FROM admin_users WHERE id = $1`, id)
	if err != nil {
		return failure[models.AdminUser]("get admin", err, "Admin not found")
	}
	return Ok(admin)
}

// EnsureAdmin creates the admin account or resets its password hash.
func (s *Store) EnsureAdmin(ctx context.Context, email, passwordHash string) Result[models.AdminUser] {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || passwordHash == "" {
		return Fail[models.AdminUser](KindInvalid, "Email and password are required")
	}
	var admin models.AdminUser
	err := s.db.GetContext(ctx, &admin, `
INSERT INTO admin_users (id, email, password_hash, role, is_active, created_at)
VALUES ($1, $2, $3, 'ADMIN', TRUE, $4)
ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash, is_active = TRUE
RETURNING `+adminColumns, uuid.NewString(), email, passwordHash, s.now())
	if err != nil {
		return failure[models.AdminUser]("ensure admin", err, "")
	}
	return Ok(admin)
}

func (s *Store) TouchAdminLogin(ctx context.Context, id string) Result[bool] {
	res, err := s.db.ExecContext(ctx, `UPDATE admin_users SET last_login_at = $2 WHERE id = $1`, id, s.now())
	if err != nil {
		return failure[bool]("touch admin login", err, "")
	}
	return affectedOne(res, true, "Admin not found")
}

func (s *Store) UpdateAdminPassword(ctx context.Context, id, passwordHash string) Result[bool] {
	if passwordHash == "" {
		return Fail[bool](KindInvalid, "Password hash is required")
	}
	res, err := s.db.ExecContext(ctx, `UPDATE admin_users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return failure[bool]("update admin password", err, "")
	}
	return affectedOne(res, true, "Admin not found")
}
