package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	galleryapp "github.com/aishop/storefront/internal/application/gallery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func fastRetry() RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.RetryDelay = time.Millisecond
	cfg.MaxDelay = 5 * time.Millisecond
	return cfg
}

func TestNew_Validation(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)

	_, err = New("ftp://example.com")
	assert.Error(t, err)

	c, err := New("http://localhost:8080", WithToken("t"))
	require.NoError(t, err)
	assert.Equal(t, "t", c.Token())
}

func TestClient_LoginStoresToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "admin" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"success":false,"error":{"code":"UNAUTHORIZED","message":"Invalid password"},"request_id":"r1"}`)
			return
		}
		_, _ = io.WriteString(w, `{"token":"tok-1","expiresAt":"2030-01-01T00:00:00Z"}`)
	})
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[{"id":"p1","name":"A","pricingTiers":[],"features":[]}]`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, err := New(srv.URL, WithRetry(fastRetry()))
	require.NoError(t, err)

	_, err = c.Login(context.Background(), "nope")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", apiErr.Code)
	assert.Equal(t, "r1", apiErr.RequestID)
	assert.Empty(t, c.Token())

	session, err := c.Login(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", session.Token)
	assert.Equal(t, "tok-1", c.Token())

	products, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "A", products[0].Name)
}

func TestClient_UploadFileSniffsContentType(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", func(w http.ResponseWriter, r *http.Request) {
		f, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "bill.png", header.Filename)
		assert.Equal(t, "image/png", header.Header.Get("Content-Type"))
		_, _ = io.WriteString(w, `{"url":"/uploads/1-abc.png"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "bill.png")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o600))

	c, err := New(srv.URL, WithPathPrefix(""))
	require.NoError(t, err)

	url, err := c.UploadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1-abc.png", url)

	_, err = c.UploadFile(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"imageUrl":"/uploads/a.jpg","description":"May"}`, string(body))
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"b1","imageUrl":"/uploads/a.jpg","description":"May","createdAt":"2026-01-01T00:00:00Z"}`)
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithRetry(fastRetry()))
	require.NoError(t, err)

	bill, err := c.CreateBill(context.Background(), galleryapp.AddBillRequest{ImageURL: "/uploads/a.jpg", Description: "May"})
	require.NoError(t, err)
	assert.Equal(t, "b1", bill.ID)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"success":false,"error":{"code":"INTERNAL_ERROR","message":"Failed to fetch bills"}}`)
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithRetry(fastRetry()))
	require.NoError(t, err)

	_, err = c.ListBills(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Failed to fetch bills", apiErr.Message)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithRetry(fastRetry()))
	require.NoError(t, err)

	err = c.DeleteBill(context.Background(), "b1")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_WorksWithBulkUploader(t *testing.T) {
	var bills atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/upload", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"url":"/uploads/x.png"}`)
	})
	mux.HandleFunc("POST /api/bills", func(w http.ResponseWriter, r *http.Request) {
		bills.Add(1)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"b","imageUrl":"/uploads/x.png","createdAt":"2026-01-01T00:00:00Z"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	good := filepath.Join(dir, "a.png")
	require.NoError(t, os.WriteFile(good, pngHeader, 0o600))

	c, err := New(srv.URL, WithRetry(fastRetry()))
	require.NoError(t, err)

	items := galleryapp.NewBulkUploader(c, c).Run(context.Background(), []string{good, filepath.Join(dir, "gone.png")}, "")
	ok, failed := galleryapp.Summary(items)
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, failed)
	assert.Equal(t, int32(1), bills.Load())
}
