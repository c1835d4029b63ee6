package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func newTracingTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRow{}))
	return db
}

func newRecorder(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, sr
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestNewDBTracingPlugin_Defaults(t *testing.T) {
	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, zap.NewNop())
	assert.Equal(t, 200*time.Millisecond, p.config.SlowQueryThresh)
	assert.Equal(t, "postgresql", p.config.DBSystem)
	assert.False(t, p.config.LogFullSQL)
}

func TestDBTracingPlugin_Register(t *testing.T) {
	t.Run("disabled is a no-op", func(t *testing.T) {
		db := newTracingTestDB(t)
		require.NoError(t, NewDBTracingPlugin(DBTracingConfig{}, zap.NewNop()).Register(db))
		assert.Nil(t, db.Callback().Query().Get("otel_timing:after_query"))
	})

	t.Run("enabled registers callbacks", func(t *testing.T) {
		db := newTracingTestDB(t)
		plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, DBSystem: "sqlite"}, zap.NewNop())
		require.NoError(t, plugin.Register(db))
		assert.NotNil(t, db.Callback().Query().Get("otel_timing:before_query"))
		assert.NotNil(t, db.Callback().Create().Get("otel_timing:after_create"))

		require.NoError(t, db.Create(&tracedRow{Name: "cart"}).Error)
		var row tracedRow
		require.NoError(t, db.First(&row).Error)
		assert.Equal(t, "cart", row.Name)
	})

	t.Run("second registration fails", func(t *testing.T) {
		db := newTracingTestDB(t)
		plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, zap.NewNop())
		require.NoError(t, plugin.Register(db))
		assert.Error(t, plugin.Register(db))
	})
}

func TestDBTracingPlugin_After(t *testing.T) {
	tp, sr := newRecorder(t)
	db := newTracingTestDB(t)

	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: 100 * time.Millisecond}, zap.NewNop())
	plugin.now = func() time.Time { return clock }

	run := func(elapsed time.Duration, rows int64, table string, err error) sdktrace.ReadOnlySpan {
		ctx, span := tp.Tracer("test").Start(context.Background(), "gorm.query")
		tx := db.WithContext(ctx)
		plugin.before(tx)
		clock = clock.Add(elapsed)
		tx.Statement.RowsAffected = rows
		tx.Statement.Table = table
		tx.Error = err
		plugin.after(tx)
		span.End()
		ended := sr.Ended()
		return ended[len(ended)-1]
	}

	fast := run(10*time.Millisecond, 2, "orders", nil)
	attrs := spanAttrs(fast)
	assert.Equal(t, int64(2), attrs["db.rows_affected"].AsInt64())
	assert.Equal(t, "orders", attrs["db.sql.table"].AsString())
	_, slow := attrs["db.slow_query"]
	assert.False(t, slow)
	assert.Equal(t, codes.Unset, fast.Status().Code)

	slowSpan := run(350*time.Millisecond, 1, "order_items", nil)
	attrs = spanAttrs(slowSpan)
	assert.True(t, attrs["db.slow_query"].AsBool())
	assert.Equal(t, int64(350), attrs["db.query_duration_ms"].AsInt64())
	require.Len(t, slowSpan.Events(), 1)
	assert.Equal(t, "slow_query_warning", slowSpan.Events()[0].Name)

	notFound := run(time.Millisecond, 0, "cart_lines", gorm.ErrRecordNotFound)
	assert.Equal(t, codes.Unset, notFound.Status().Code)

	failed := run(time.Millisecond, 0, "orders", errors.New("deadlock detected"))
	assert.Equal(t, codes.Error, failed.Status().Code)
	assert.Equal(t, "deadlock detected", failed.Status().Description)
}

func TestDBTracingPlugin_After_NoSpan(t *testing.T) {
	db := newTracingTestDB(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, zap.NewNop())

	tx := db.WithContext(context.Background())
	assert.NotPanics(t, func() { plugin.after(tx) })
}
