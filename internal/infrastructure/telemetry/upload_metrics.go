package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics constructor is given a nil meter.
var ErrMeterNil = errors.New("meter cannot be nil")

// Upload destinations and outcomes used as metric attributes.
const (
	DestinationRemote = "remote"
	DestinationLocal  = "local"

	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

var (
	attrDestination = attribute.Key("upload.destination")
	attrOutcome     = attribute.Key("upload.outcome")
	attrReason      = attribute.Key("upload.reject_reason")
)

// UploadMetrics tracks image uploads.
type UploadMetrics struct {
	uploads   *Counter
	fallbacks *Counter
	bytes     *Histogram
}

// NewUploadMetrics registers the upload instruments on meter.
func NewUploadMetrics(meter metric.Meter) (*UploadMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	uploads, err := NewCounter(meter, "storefront.uploads", "Image upload attempts", "{upload}")
	if err != nil {
		return nil, err
	}
	fallbacks, err := NewCounter(meter, "storefront.uploads.fallbacks", "Uploads that fell back from remote to local storage", "{upload}")
	if err != nil {
		return nil, err
	}
	bytes, err := NewHistogram(meter, "storefront.uploads.size", "Size of stored images", "By",
		64<<10, 256<<10, 1<<20, 4<<20, 10<<20)
	if err != nil {
		return nil, err
	}
	return &UploadMetrics{uploads: uploads, fallbacks: fallbacks, bytes: bytes}, nil
}

// Stored records a successful upload.
func (m *UploadMetrics) Stored(ctx context.Context, destination string, size int64) {
	if m == nil {
		return
	}
	m.uploads.Inc(ctx, attrDestination.String(destination), attrOutcome.String(OutcomeSuccess))
	m.bytes.Record(ctx, size, attrDestination.String(destination))
}

// Rejected records an upload refused by validation.
func (m *UploadMetrics) Rejected(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.uploads.Inc(ctx, attrOutcome.String(OutcomeRejected), attrReason.String(reason))
}

// Failed records an upload that could not be stored anywhere.
func (m *UploadMetrics) Failed(ctx context.Context, destination string) {
	if m == nil {
		return
	}
	m.uploads.Inc(ctx, attrDestination.String(destination), attrOutcome.String(OutcomeFailed))
}

// FellBack records a remote failure that was retried locally.
func (m *UploadMetrics) FellBack(ctx context.Context) {
	if m == nil {
		return
	}
	m.fallbacks.Inc(ctx)
}
