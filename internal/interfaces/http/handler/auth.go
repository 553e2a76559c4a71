package handler

import (
	"errors"

	"github.com/aishop/storefront/internal/infrastructure/auth"
	"github.com/aishop/storefront/internal/infrastructure/logger"
	"github.com/aishop/storefront/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// AuthHandler exchanges the admin password for a session token
type AuthHandler struct {
	BaseHandler
	verifier *auth.PasswordVerifier
	tokens   *auth.JWTService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(verifier *auth.PasswordVerifier, tokens *auth.JWTService) *AuthHandler {
	return &AuthHandler{verifier: verifier, tokens: tokens}
}

// Login returns {token, expiresAt} for the right password
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if err := h.verifier.Verify(req.Password); err != nil {
		log := logger.GetGinLogger(c)
		if errors.Is(err, auth.ErrNoAdminSecret) {
			log.Warn("admin login attempted but no admin credential is configured")
		} else {
			log.Info("admin login rejected", zap.String("client_ip", c.ClientIP()))
		}
		h.Unauthorized(c, "Invalid password")
		return
	}

	session, err := h.tokens.Issue()
	if err != nil {
		h.HandleError(c, err, "", "Failed to sign in")
		return
	}
	h.OK(c, session)
}
