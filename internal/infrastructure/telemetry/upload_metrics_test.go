package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumWhere(t *testing.T, m metricdata.Metrics, kv attribute.KeyValue) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(kv.Key); ok && v == kv.Value {
			total += dp.Value
		}
	}
	return total
}

func TestUploadMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewUploadMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.Stored(ctx, DestinationRemote, 2048)
	m.Stored(ctx, DestinationLocal, 1024)
	m.Rejected(ctx, "type")
	m.FellBack(ctx)
	m.Failed(ctx, DestinationLocal)

	metrics := collect(t, reader)

	uploads := metrics["storefront.uploads"]
	assert.Equal(t, int64(2), sumWhere(t, uploads, attrOutcome.String(OutcomeSuccess)))
	assert.Equal(t, int64(1), sumWhere(t, uploads, attrOutcome.String(OutcomeRejected)))
	assert.Equal(t, int64(1), sumWhere(t, uploads, attrOutcome.String(OutcomeFailed)))

	fallbacks, ok := metrics["storefront.uploads.fallbacks"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, fallbacks.DataPoints, 1)
	assert.Equal(t, int64(1), fallbacks.DataPoints[0].Value)

	size, ok := metrics["storefront.uploads.size"].Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	var count uint64
	for _, dp := range size.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(2), count)
}

func TestUploadMetrics_NilSafe(t *testing.T) {
	var m *UploadMetrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.Stored(ctx, DestinationLocal, 1)
		m.Rejected(ctx, "size")
		m.Failed(ctx, DestinationLocal)
		m.FellBack(ctx)
	})
}

func TestNewUploadMetrics_NilMeter(t *testing.T) {
	_, err := NewUploadMetrics(nil)
	assert.ErrorIs(t, err, ErrMeterNil)
}
