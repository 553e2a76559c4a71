// Package media stores uploaded images, preferring the remote object store
// and falling back to the local upload directory.
package media

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"

	"github.com/aishop/storefront/internal/domain/shared"
	"github.com/aishop/storefront/internal/infrastructure/logger"
	"github.com/aishop/storefront/internal/infrastructure/telemetry"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// DefaultMaxFileSize is the largest accepted image
const DefaultMaxFileSize int64 = 10 << 20

const (
	defaultKeyPrefix = "uploads"
	defaultExt       = "jpg"
	suffixAlphabet   = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffixLength     = 6
)

var (
	ErrInvalidFileType = shared.NewDomainError("INVALID_FILE_TYPE", "Invalid file type. Only JPEG, PNG, GIF, WEBP allowed.")
	ErrFileTooLarge    = shared.NewDomainError("FILE_TOO_LARGE", "File too large. Max 10MB allowed.")
)

var allowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// ObjectStore stores a named object and returns its public URL
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// FileInput is an uploaded file as received from the client
type FileInput struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// UploadService validates and stores images
type UploadService struct {
	remote    ObjectStore
	local     ObjectStore
	keyPrefix string
	maxSize   int64
	metrics   *telemetry.UploadMetrics
	logger    *zap.Logger
	now       func() time.Time
	suffix    func() string
}

// Option configures an UploadService
type Option func(*UploadService)

// WithMaxFileSize overrides DefaultMaxFileSize
func WithMaxFileSize(n int64) Option {
	return func(s *UploadService) {
		if n > 0 {
			s.maxSize = n
		}
	}
}

// WithKeyPrefix sets the remote key directory, "uploads" by default
func WithKeyPrefix(prefix string) Option {
	return func(s *UploadService) {
		if prefix = strings.Trim(prefix, "/"); prefix != "" {
			s.keyPrefix = prefix
		}
	}
}

// WithMetrics records upload outcomes
func WithMetrics(m *telemetry.UploadMetrics) Option {
	return func(s *UploadService) {
		s.metrics = m
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *UploadService) {
		s.logger = l
	}
}

// NewUploadService creates an UploadService. remote may be nil when no
// object store is configured; every upload then goes to local.
func NewUploadService(remote, local ObjectStore, opts ...Option) *UploadService {
	s := &UploadService{
		remote:    remote,
		local:     local,
		keyPrefix: defaultKeyPrefix,
		maxSize:   DefaultMaxFileSize,
		logger:    zap.NewNop(),
		now:       time.Now,
		suffix:    randomSuffix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RemoteEnabled reports whether uploads try the object store first
func (s *UploadService) RemoteEnabled() bool {
	return s.remote != nil
}

// Upload validates the file and returns the URL it was stored under.
// Validation happens before any storage call. A failed remote upload is
// logged and retried once on local disk.
//
// Remote objects are keyed "<keyPrefix>/<name>". Local files are written
// as a bare "<name>" because the local store already serves its directory
// under its public prefix (/uploads by default), so the URL has no
// duplicated prefix.
func (s *UploadService) Upload(ctx context.Context, in FileInput) (string, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "upload", "store", "upload.size", in.Size)
	defer span.End()

	if !isAllowed(in.ContentType) {
		s.metrics.Rejected(ctx, "content_type")
		return "", ErrInvalidFileType
	}
	if in.Size > s.maxSize {
		s.metrics.Rejected(ctx, "size")
		return "", ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(in.Reader, s.maxSize+1))
	if err != nil {
		telemetry.RecordError(span, err)
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		s.metrics.Rejected(ctx, "size")
		return "", ErrFileTooLarge
	}
	if detected := mimetype.Detect(data); !isDetectedAllowed(detected) {
		logger.Or(ctx, s.logger).Warn("upload content does not match an image type",
			zap.String("declared", in.ContentType),
			zap.String("detected", detected.String()),
		)
		s.metrics.Rejected(ctx, "content_sniff")
		return "", ErrInvalidFileType
	}

	name := fmt.Sprintf("%d-%s.%s", s.now().UnixMilli(), s.suffix(), extensionOf(in.Filename))

	if s.remote != nil {
		url, err := s.remote.Put(ctx, s.keyPrefix+"/"+name, data, in.ContentType)
		if err == nil {
			s.metrics.Stored(ctx, telemetry.DestinationRemote, int64(len(data)))
			return url, nil
		}
		logger.Or(ctx, s.logger).Warn("remote upload failed, falling back to local storage",
			zap.String("file", name),
			zap.Error(err),
		)
		s.metrics.FellBack(ctx)
	}

	url, err := s.local.Put(ctx, name, data, in.ContentType)
	if err != nil {
		telemetry.RecordError(span, err)
		s.metrics.Failed(ctx, telemetry.DestinationLocal)
		return "", fmt.Errorf("store upload locally: %w", err)
	}
	s.metrics.Stored(ctx, telemetry.DestinationLocal, int64(len(data)))
	return url, nil
}

func isAllowed(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	for _, t := range allowedTypes {
		if ct == t {
			return true
		}
	}
	return false
}

func isDetectedAllowed(m *mimetype.MIME) bool {
	for _, t := range allowedTypes {
		if m.Is(t) {
			return true
		}
	}
	return false
}

// extensionOf returns the lowercase extension of filename, or jpg
func extensionOf(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" || strings.IndexFunc(ext, func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	}) >= 0 {
		return defaultExt
	}
	return ext
}

func randomSuffix() string {
	var b strings.Builder
	for range suffixLength {
		b.WriteByte(suffixAlphabet[rand.IntN(len(suffixAlphabet))])
	}
	return b.String()
}
