package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	intconfig "wakacjecypr/internal/config"
	"wakacjecypr/internal/domain"
)

type AdminUser struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
}

type AdminUserRepository struct {
	DB *sql.DB
}

func (r AdminUserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r AdminUserRepository) FindByUsername(ctx context.Context, username string) (AdminUser, error) {
	db := r.db()
	if db == nil {
		return AdminUser{}, domain.InternalError{Msg: "database not connected"}
	}
	var u AdminUser
	err := db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, COALESCE(role, 'admin')
		FROM admin_users
		WHERE username = ?
		LIMIT 1`, strings.TrimSpace(username)).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AdminUser{}, domain.NotFoundError{Resource: "user", Err: err}
		}
		return AdminUser{}, err
	}
	return u, nil
}
