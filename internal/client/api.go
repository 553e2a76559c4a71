package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"

	catalogapp "github.com/aishop/storefront/internal/application/catalog"
	galleryapp "github.com/aishop/storefront/internal/application/gallery"
	"github.com/aishop/storefront/internal/infrastructure/auth"
	"github.com/aishop/storefront/internal/interfaces/http/dto"
	"github.com/gabriel-vasile/mimetype"
)

var (
	_ galleryapp.FileUploader = (*Client)(nil)
	_ galleryapp.BillCreator  = (*Client)(nil)
)

// Login exchanges the admin password for a session and keeps its token
func (c *Client) Login(ctx context.Context, password string) (*auth.Session, error) {
	var session auth.Session
	err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/login",
		contentType: "application/json",
		body:        jsonBody(map[string]string{"password": password}),
	}, &session)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	c.SetToken(session.Token)
	return &session, nil
}

// ListProducts returns every product in display order
func (c *Client) ListProducts(ctx context.Context) ([]catalogapp.ProductResponse, error) {
	var products []catalogapp.ProductResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: "/products"}, &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// ListBills returns the gallery
func (c *Client) ListBills(ctx context.Context) ([]galleryapp.BillResponse, error) {
	var bills []galleryapp.BillResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: "/bills"}, &bills); err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	return bills, nil
}

// CreateBill records a bill for an uploaded image
func (c *Client) CreateBill(ctx context.Context, req galleryapp.AddBillRequest) (*galleryapp.BillResponse, error) {
	var bill galleryapp.BillResponse
	err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/bills",
		contentType: "application/json",
		body:        jsonBody(req),
	}, &bill)
	if err != nil {
		return nil, fmt.Errorf("create bill: %w", err)
	}
	return &bill, nil
}

// DeleteBill removes a bill
func (c *Client) DeleteBill(ctx context.Context, id string) error {
	if err := c.do(ctx, request{method: http.MethodDelete, path: "/bills/" + url.PathEscape(id)}, nil); err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	return nil
}

// UploadFile sends the file at path as a multipart upload and returns the
// stored URL. The part's content type is sniffed from the file.
func (c *Client) UploadFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return c.Upload(ctx, filepath.Base(path), data)
}

// Upload sends data as a multipart upload named filename
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", mimetype.Detect(data).String())
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("build upload body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("build upload body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("build upload body: %w", err)
	}
	payload := buf.Bytes()

	var out dto.UploadResponse
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/upload",
		contentType: mw.FormDataContentType(),
		body: func() (io.Reader, error) {
			return bytes.NewReader(payload), nil
		},
	}, &out)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}
	return out.URL, nil
}
