package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aishop/storefront/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type iconRequest struct {
	Name string `json:"name" binding:"required,max=5"`
	Icon string `json:"icon" binding:"omitempty,product_icon"`
	Tag  string `json:"tag" binding:"omitempty,product_tag"`
}

func newValidationRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.Use(RequestID())
	router.POST("/items", func(c *gin.Context) {
		var req iconRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, req)
	})
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSetupValidator_CustomTags(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newValidationRouter()

	t.Run("known icon and tag pass", func(t *testing.T) {
		w := postJSON(router, "/items", `{"name":"Pro","icon":"Bot","tag":"Hot"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown icon uses json field name", func(t *testing.T) {
		w := postJSON(router, "/items", `{"name":"Pro","icon":"Rocket"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		resp := decodeError(t, w)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "icon", resp.Error.Details[0].Field)
		assert.Equal(t, "Unknown icon, must be one of: Brain, Code, Github, Sparkles, Zap, Bot, Cpu, Database", resp.Error.Details[0].Message)
	})

	t.Run("unknown tag", func(t *testing.T) {
		w := postJSON(router, "/items", `{"name":"Pro","tag":"COLD"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "tag", decodeError(t, w).Error.Details[0].Field)
	})

	t.Run("required and max", func(t *testing.T) {
		w := postJSON(router, "/items", `{"name":"toolong"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Must be at most 5 characters", decodeError(t, w).Error.Details[0].Message)

		w = postJSON(router, "/items", `{}`)
		assert.Equal(t, "This field is required", decodeError(t, w).Error.Details[0].Message)
	})

	t.Run("malformed json is a bad request", func(t *testing.T) {
		w := postJSON(router, "/items", `{"name":`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		resp := decodeError(t, w)
		assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
		assert.Empty(t, resp.Error.Details)
		assert.NotEmpty(t, resp.RequestID)
	})
}

func TestSetupValidator_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		SetupValidator()
		SetupValidator()
	})
}
