package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type tracedItem struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100"`
}

func openTracedDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedItem{}))
	return db
}

func findAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
}

func TestDBTracingDisabledRegistersNothing(t *testing.T) {
	recorder := installSpanRecorder(t)
	db := openTracedDB(t)

	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, plugin.RegisterOtelGorm(db))

	require.NoError(t, db.Create(&tracedItem{Name: "hoodie"}).Error)
	assert.Empty(t, recorder.Ended())
}

func TestDBTracingRecordsQuerySpans(t *testing.T) {
	recorder := installSpanRecorder(t)
	db := openTracedDB(t)

	plugin := NewDBTracingPlugin(DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: time.Second,
		DBSystem:        "sqlite",
	}, zap.NewNop())
	require.NoError(t, plugin.RegisterOtelGorm(db))

	require.NoError(t, db.Create(&tracedItem{Name: "hoodie"}).Error)

	var items []tracedItem
	require.NoError(t, db.Find(&items).Error)

	spans := recorder.Ended()
	require.NotEmpty(t, spans)

	var sawTable, sawRows bool
	for _, span := range spans {
		if v, ok := findAttr(span, "db.sql.table"); ok && v.AsString() == "traced_items" {
			sawTable = true
		}
		if _, ok := findAttr(span, "db.rows_affected"); ok {
			sawRows = true
		}
	}
	assert.True(t, sawTable, "table name lands on the span")
	assert.True(t, sawRows, "rows affected lands on the span")
}

func TestDBTracingMarksSlowQueries(t *testing.T) {
	recorder := installSpanRecorder(t)
	db := openTracedDB(t)

	// Nanosecond threshold makes everything slow
	plugin := NewDBTracingPlugin(DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: time.Nanosecond,
		DBSystem:        "sqlite",
	}, zap.NewNop())
	require.NoError(t, plugin.RegisterOtelGorm(db))

	require.NoError(t, db.Create(&tracedItem{Name: "socks"}).Error)

	spans := recorder.Ended()
	require.NotEmpty(t, spans)

	var slow sdktrace.ReadOnlySpan
	for _, span := range spans {
		if v, ok := findAttr(span, "db.slow_query"); ok && v.AsBool() {
			slow = span
			break
		}
	}
	require.NotNil(t, slow, "a slow query span exists")

	var sawWarning bool
	for _, event := range slow.Events() {
		if event.Name == "slow_query_warning" {
			sawWarning = true
		}
	}
	assert.True(t, sawWarning)
}

func TestDBTracingMarksErrors(t *testing.T) {
	recorder := installSpanRecorder(t)
	db := openTracedDB(t)

	plugin := NewDBTracingPlugin(DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: time.Second,
		DBSystem:        "sqlite",
	}, zap.NewNop())
	require.NoError(t, plugin.RegisterOtelGorm(db))

	var out []tracedItem
	require.Error(t, db.Raw("SELECT * FROM missing_table").Scan(&out).Error)

	var sawError bool
	for _, span := range recorder.Ended() {
		if span.Status().Code == codes.Error {
			sawError = true
		}
	}
	assert.True(t, sawError, "a failed query marks its span")
}

func TestDBTracingIgnoresRecordNotFound(t *testing.T) {
	recorder := installSpanRecorder(t)
	db := openTracedDB(t)

	plugin := NewDBTracingPlugin(DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: time.Second,
		DBSystem:        "sqlite",
	}, zap.NewNop())
	require.NoError(t, plugin.RegisterOtelGorm(db))

	var item tracedItem
	err := db.First(&item, 999).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	for _, span := range recorder.Ended() {
		assert.NotEqual(t, codes.Error, span.Status().Code,
			"an empty result is not an error condition")
	}
}

func TestDBTracingDoubleRegistrationFails(t *testing.T) {
	installSpanRecorder(t)
	db := openTracedDB(t)

	plugin := NewDBTracingPlugin(DBTracingConfig{
		Enabled:  true,
		DBSystem: "sqlite",
	}, zap.NewNop())
	require.NoError(t, plugin.RegisterOtelGorm(db))
	assert.Error(t, plugin.RegisterOtelGorm(db), "callback names collide on re-registration")
}

func TestMarkQueryStart(t *testing.T) {
	db := openTracedDB(t)
	db.Statement.Context = context.Background()

	markQueryStart(db)

	start, ok := db.Statement.Context.Value(queryStartTimeKey).(time.Time)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), start, time.Second)
}
