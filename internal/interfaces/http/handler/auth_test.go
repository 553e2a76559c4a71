package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/aishop/storefront/internal/infrastructure/auth"
	"github.com/aishop/storefront/internal/infrastructure/config"
	"github.com/aishop/storefront/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Login(t *testing.T) {
	tokens := auth.NewJWTService(config.JWTConfig{
		Secret:     "handler-test-secret-0123456789abcdef",
		Expiration: 12 * time.Hour,
		Issuer:     "storefront",
	})

	t.Run("right password issues a token", func(t *testing.T) {
		env := newTestEnv(t)
		h := NewAuthHandler(auth.NewPasswordVerifier(config.AdminConfig{Password: "s3cret"}), tokens)
		env.router.POST("/auth/login", h.Login)

		w := env.do(http.MethodPost, "/auth/login", map[string]string{"password": "s3cret"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		session := decode[auth.Session](t, w)
		assert.NotEmpty(t, session.Token)
		assert.WithinDuration(t, time.Now().Add(12*time.Hour), session.ExpiresAt, time.Minute)

		_, err := tokens.Validate(session.Token)
		assert.NoError(t, err)
	})

	t.Run("wrong password is 401", func(t *testing.T) {
		env := newTestEnv(t)
		h := NewAuthHandler(auth.NewPasswordVerifier(config.AdminConfig{Password: "s3cret"}), tokens)
		env.router.POST("/auth/login", h.Login)

		w := env.do(http.MethodPost, "/auth/login", map[string]string{"password": "guess"})
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeUnauthorized, errorOf(t, w).Code)
	})

	t.Run("no configured secret always fails", func(t *testing.T) {
		env := newTestEnv(t)
		h := NewAuthHandler(auth.NewPasswordVerifier(config.AdminConfig{}), tokens)
		env.router.POST("/auth/login", h.Login)

		w := env.do(http.MethodPost, "/auth/login", map[string]string{"password": ""})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = env.do(http.MethodPost, "/auth/login", map[string]string{"password": "anything"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
