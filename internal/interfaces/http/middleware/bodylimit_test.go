package middleware

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBodyLimitEngine(limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestID(), BodyLimit(limit))
	engine.POST("/upload", func(c *gin.Context) {
		if _, err := c.FormFile("file"); err != nil {
			c.String(http.StatusBadRequest, "unreadable")
			return
		}
		c.String(http.StatusOK, "stored")
	})
	engine.POST("/bills", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.String(http.StatusBadRequest, "truncated")
			return
		}
		c.String(http.StatusCreated, "created")
	})
	engine.GET("/bills", func(c *gin.Context) { c.String(http.StatusOK, "[]") })
	return engine
}

func multipartImage(t *testing.T, size int) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "bill.png")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{0x89}, size))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestBodyLimit_UploadWithinLimit(t *testing.T) {
	engine := newBodyLimitEngine(4 << 10)
	body, contentType := multipartImage(t, 1<<10)

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "stored", w.Body.String())
}

func TestBodyLimit_DeclaredLengthTooLarge(t *testing.T) {
	engine := newBodyLimitEngine(4 << 10)
	body, contentType := multipartImage(t, 8<<10)

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t, `{
		"success": false,
		"error": {"code": "REQUEST_TOO_LARGE", "message": "Request body exceeds maximum allowed size"},
		"request_id": "req-42"
	}`, w.Body.String())
}

func TestBodyLimit_StreamedBodyIsCutOff(t *testing.T) {
	engine := newBodyLimitEngine(64)

	req := httptest.NewRequest(http.MethodPost, "/bills", strings.NewReader(`{"imageUrl":"`+strings.Repeat("x", 200)+`"}`))
	req.ContentLength = -1
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "truncated", w.Body.String())
}

func TestBodyLimit_ReadsWithoutBodyPass(t *testing.T) {
	engine := newBodyLimitEngine(1)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bills", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
