package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

// newManualMeter returns a meter whose instruments can be read back in tests.
func newManualMeter(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return reader, mp
}

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

func sumFor(t *testing.T, m metricdata.Metrics, attrs ...attribute.KeyValue) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	want := attribute.NewSet(attrs...)
	for _, dp := range sum.DataPoints {
		if dp.Attributes.Equals(&want) {
			return dp.Value
		}
	}
	return 0
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	ctx := context.Background()

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:     false,
		ServiceName: "storefront-test",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.ForceFlush(ctx))
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestNewMeterProvider_EnabledWithoutCollector(t *testing.T) {
	ctx := context.Background()

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           true,
		CollectorEndpoint: "localhost:1",
		ExportInterval:    time.Hour,
		ServiceName:       "storefront-test",
		Insecure:          true,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.True(t, mp.IsEnabled())

	shutdownCtx, cancel := context.WithCancel(ctx)
	cancel()
	_ = mp.Shutdown(shutdownCtx)
}

func TestCounterAndGauge(t *testing.T) {
	reader, mp := newManualMeter(t)
	ctx := context.Background()
	meter := mp.Meter("test")

	ins := telemetry.NewInstruments(meter)
	counter := ins.Counter("requests_total", "Requests", "{requests}")
	gauge := ins.Gauge("queue_depth", "Depth", "{items}")
	require.NoError(t, ins.Err())

	counter.Inc(ctx, attribute.String("method", "GET"))
	counter.Add(ctx, 4, attribute.String("method", "GET"))
	counter.Inc(ctx, attribute.String("method", "POST"))

	gauge.Record(ctx, 7)

	metrics := collect(t, reader)
	assert.Equal(t, int64(5), sumFor(t, metrics["requests_total"], attribute.String("method", "GET")))
	assert.Equal(t, int64(1), sumFor(t, metrics["requests_total"], attribute.String("method", "POST")))

	g, ok := metrics["queue_depth"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, g.DataPoints, 1)
	assert.Equal(t, int64(7), g.DataPoints[0].Value)
}

func TestHistogram_Boundaries(t *testing.T) {
	reader, mp := newManualMeter(t)
	ctx := context.Background()

	ins := telemetry.NewInstruments(mp.Meter("test"))
	h := ins.Histogram("op_duration_seconds", "Operation duration", "s", telemetry.DurationBuckets...)
	require.NoError(t, ins.Err())
	h.RecordDuration(ctx, 30*time.Millisecond)
	h.Record(ctx, 3)

	hist, ok := collect(t, reader)["op_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
	assert.Equal(t, telemetry.DurationBuckets, hist.DataPoints[0].Bounds)
}
