// Package handler holds the gin handlers of the storefront API.
package handler

import (
	"errors"
	"net/http"

	"github.com/aishop/storefront/internal/domain/shared"
	"github.com/aishop/storefront/internal/infrastructure/logger"
	"github.com/aishop/storefront/internal/interfaces/http/dto"
	"github.com/aishop/storefront/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Created sends a 201 with the raw entity
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// OK sends a 200 with the raw entity
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Success sends {"success":true}
func (h *BaseHandler) Success(c *gin.Context) {
	c.JSON(http.StatusOK, dto.OK)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError maps err to a response. Domain errors keep their code and
// message; a not-found error uses notFoundMsg when given. Anything else is
// logged and answered with a 500 carrying failMsg.
func (h *BaseHandler) HandleError(c *gin.Context, err error, notFoundMsg, failMsg string) {
	if err == nil {
		return
	}

	if errors.Is(err, shared.ErrNotFound) && notFoundMsg != "" {
		h.NotFound(c, notFoundMsg)
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, dto.GetHTTPStatus(domainErr.Code), domainErr.Code, domainErr.Message)
		return
	}

	logger.GetGinLogger(c).Error(failMsg,
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	h.InternalError(c, failMsg)
}
