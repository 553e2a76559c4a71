package auth

import (
	"crypto/subtle"
	"errors"

	"github.com/aishop/storefront/internal/infrastructure/config"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for a wrong admin password
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrNoAdminSecret is returned when no admin credential is configured
var ErrNoAdminSecret = errors.New("admin credential not configured")

// PasswordVerifier checks the shared admin password
type PasswordVerifier struct {
	hash  []byte
	plain []byte
}

// NewPasswordVerifier builds a verifier. A bcrypt hash takes precedence
// over a plain password.
func NewPasswordVerifier(cfg config.AdminConfig) *PasswordVerifier {
	v := &PasswordVerifier{}
	if cfg.PasswordHash != "" {
		v.hash = []byte(cfg.PasswordHash)
	} else if cfg.Password != "" {
		v.plain = []byte(cfg.Password)
	}
	return v
}

// Verify returns nil if password matches the configured secret
func (v *PasswordVerifier) Verify(password string) error {
	switch {
	case v.hash != nil:
		if err := bcrypt.CompareHashAndPassword(v.hash, []byte(password)); err != nil {
			return ErrInvalidCredentials
		}
		return nil
	case v.plain != nil:
		if subtle.ConstantTimeCompare(v.plain, []byte(password)) != 1 {
			return ErrInvalidCredentials
		}
		return nil
	default:
		return ErrNoAdminSecret
	}
}

// HashPassword returns a bcrypt hash suitable for admin.password_hash
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
