// Package client is a typed HTTP client for the storefront API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/aishop/storefront/internal/interfaces/http/dto"
)

const defaultUserAgent = "storefront-client/1.0"

// RetryConfig configures retry behavior.
type RetryConfig struct {
	MaxRetries  int
	RetryDelay  time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
	ShouldRetry func(resp *http.Response, err error) bool
}

// DefaultRetryConfig retries network errors, 429 and 5xx twice with
// exponential backoff.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 2,
		RetryDelay: 500 * time.Millisecond,
		MaxDelay:   10 * time.Second,
		Multiplier: 2.0,
		ShouldRetry: func(resp *http.Response, err error) bool {
			if err != nil {
				return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
			}
			return resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		},
	}
}

// APIError is a non-2xx answer from the API
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.RequestID != "" {
		return fmt.Sprintf("api error %d %s: %s (request %s)", e.StatusCode, e.Code, msg, e.RequestID)
	}
	return fmt.Sprintf("api error %d %s: %s", e.StatusCode, e.Code, msg)
}

// Client calls the storefront API
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	prefix     string
	userAgent  string
	retry      RetryConfig

	mu    sync.RWMutex
	token string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetry overrides DefaultRetryConfig
func WithRetry(cfg RetryConfig) Option {
	return func(c *Client) {
		c.retry = cfg
	}
}

// WithToken starts the client with an admin token
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithPathPrefix sets the API mount, "/api" by default. Use "" for the
// root mount.
func WithPathPrefix(prefix string) Option {
	return func(c *Client) {
		c.prefix = strings.TrimRight(prefix, "/")
	}
}

// New creates a client for the API at baseURL
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    u,
		prefix:     "/api",
		userAgent:  defaultUserAgent,
		retry:      DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.retry.ShouldRetry == nil {
		c.retry.ShouldRetry = DefaultRetryConfig().ShouldRetry
	}
	return c, nil
}

// SetToken replaces the admin token used for mutating calls
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current admin token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// request is one API call. body is rebuilt for every attempt.
type request struct {
	method      string
	path        string
	contentType string
	body        func() (io.Reader, error)
}

func jsonBody(v any) func() (io.Reader, error) {
	return func() (io.Reader, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		return bytes.NewReader(b), nil
	}
}

// do executes req with retries and decodes a 2xx body into out
func (c *Client) do(ctx context.Context, req request, out any) error {
	u, err := c.baseURL.Parse(c.prefix + req.path)
	if err != nil {
		return fmt.Errorf("building URL: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff(attempt)):
			}
		}

		var body io.Reader
		if req.body != nil {
			if body, err = req.body(); err != nil {
				return err
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
		if err != nil {
			return fmt.Errorf("creating HTTP request: %w", err)
		}
		httpReq.Header.Set("Accept", "application/json")
		httpReq.Header.Set("User-Agent", c.userAgent)
		if req.contentType != "" {
			httpReq.Header.Set("Content-Type", req.contentType)
		}
		if token := c.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.httpClient.Do(httpReq)
		if attempt < c.retry.MaxRetries && c.retry.ShouldRetry(resp, err) {
			if resp != nil {
				lastErr = readAPIError(resp)
			} else {
				lastErr = err
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("%s %s: %w", req.method, req.path, err)
		}
		return decodeResponse(resp, out)
	}
	return lastErr
}

func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func readAPIError(resp *http.Response) error {
	defer resp.Body.Close()
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var envelope dto.ErrorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(data, &envelope) == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		apiErr.RequestID = envelope.RequestID
	}
	return apiErr
}

func (c *Client) backoff(attempt int) time.Duration {
	delay := float64(c.retry.RetryDelay) * math.Pow(c.retry.Multiplier, float64(attempt-1))
	if ceiling := float64(c.retry.MaxDelay); ceiling > 0 && delay > ceiling {
		delay = ceiling
	}
	// ±25% jitter
	jitter := delay * 0.25
	delay += (rand.Float64()*2 - 1) * jitter
	return time.Duration(delay)
}
