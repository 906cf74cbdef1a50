package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wakacjecypr/internal/domain"
	"wakacjecypr/internal/repositories"
	"wakacjecypr/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for unknown users and wrong passwords alike.
var ErrInvalidCredentials = domain.DomainError{Code: "invalid_credentials"}

// Claims is what an admin token carries.
type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	Users  repositories.AdminUserRepository
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
	Lookup func(ctx context.Context, username string) (repositories.AdminUser, error)
}

func (s AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s AuthService) lookup(ctx context.Context, username string) (repositories.AdminUser, error) {
	if s.Lookup != nil {
		return s.Lookup(ctx, username)
	}
	return s.Users.FindByUsername(ctx, username)
}

// Login checks the bcrypt hash and issues an HS256 token.
func (s AuthService) Login(ctx context.Context, username, password string) (string, repositories.AdminUser, error) {
	if len(s.Secret) == 0 {
		return "", repositories.AdminUser{}, domain.InternalError{Msg: "auth is not configured"}
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", repositories.AdminUser{}, ErrInvalidCredentials
	}
	u, err := s.lookup(ctx, username)
	if err != nil {
		if domain.IsNotFound(err) {
			return "", repositories.AdminUser{}, ErrInvalidCredentials
		}
		return "", repositories.AdminUser{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", repositories.AdminUser{}, ErrInvalidCredentials
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: u.ID,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", repositories.AdminUser{}, domain.InternalError{Msg: "could not sign token", Err: err}
	}
	utils.LogEvent("", "auth", "login", fmt.Sprintf("user_id=%d", u.ID))
	u.PasswordHash = ""
	return signed, u, nil
}

// ParseToken verifies an HS256 token and returns its claims.
func (s AuthService) ParseToken(raw string) (Claims, error) {
	var c Claims
	_, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, domain.DomainError{Code: "token_expired", Err: err}
		}
		return Claims{}, domain.DomainError{Code: "invalid_token", Err: err}
	}
	return c, nil
}
