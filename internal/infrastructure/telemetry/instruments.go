package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Counter is a monotonically increasing int64 instrument.
type Counter struct {
	counter metric.Int64Counter
}

// Add increments the counter by value.
func (c *Counter) Add(ctx context.Context, value int64, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

// Inc increments the counter by one.
func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.Add(ctx, 1, attrs...)
}

// Histogram records a float64 distribution.
type Histogram struct {
	histogram metric.Float64Histogram
}

// Record adds one observation.
func (h *Histogram) Record(ctx context.Context, value float64, attrs ...attribute.KeyValue) {
	h.histogram.Record(ctx, value, metric.WithAttributes(attrs...))
}

// RecordDuration records d in seconds.
func (h *Histogram) RecordDuration(ctx context.Context, d time.Duration, attrs ...attribute.KeyValue) {
	h.Record(ctx, d.Seconds(), attrs...)
}

// Gauge records the latest int64 value per attribute set.
type Gauge struct {
	gauge metric.Int64Gauge
}

// Record sets the current value.
func (g *Gauge) Record(ctx context.Context, value int64, attrs ...attribute.KeyValue) {
	g.gauge.Record(ctx, value, metric.WithAttributes(attrs...))
}

// Instruments creates instruments on one meter and keeps the first error, so a
// constructor can declare all of its instruments and check Err once.
//
//	ins := telemetry.NewInstruments(meter)
//	placed := ins.Counter("orders_placed_total", "Orders placed", "{orders}")
//	if err := ins.Err(); err != nil { ... }
type Instruments struct {
	meter metric.Meter
	err   error
}

// NewInstruments returns a builder over meter.
func NewInstruments(meter metric.Meter) *Instruments {
	return &Instruments{meter: meter}
}

// Err returns the first instrument creation error.
func (b *Instruments) Err() error {
	return b.err
}

func (b *Instruments) fail(kind, name string, err error) {
	if b.err == nil {
		b.err = fmt.Errorf("create %s %s: %w", kind, name, err)
	}
}

// Counter creates an int64 counter.
func (b *Instruments) Counter(name, description, unit string) *Counter {
	c, err := b.meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		b.fail("counter", name, err)
		return nil
	}
	return &Counter{counter: c}
}

// Histogram creates a float64 histogram. Without boundaries the SDK defaults apply.
func (b *Instruments) Histogram(name, description, unit string, boundaries ...float64) *Histogram {
	opts := []metric.Float64HistogramOption{metric.WithDescription(description), metric.WithUnit(unit)}
	if len(boundaries) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(boundaries...))
	}
	h, err := b.meter.Float64Histogram(name, opts...)
	if err != nil {
		b.fail("histogram", name, err)
		return nil
	}
	return &Histogram{histogram: h}
}

// Gauge creates an int64 gauge.
func (b *Instruments) Gauge(name, description, unit string) *Gauge {
	g, err := b.meter.Int64Gauge(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		b.fail("gauge", name, err)
		return nil
	}
	return &Gauge{gauge: g}
}

// UpDownCounter creates an int64 up-down counter.
func (b *Instruments) UpDownCounter(name, description, unit string) metric.Int64UpDownCounter {
	c, err := b.meter.Int64UpDownCounter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		b.fail("up-down counter", name, err)
		return nil
	}
	return c
}
