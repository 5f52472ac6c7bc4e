package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type meteredItem struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100"`
}

func TestDefaultDBMetricsConfig(t *testing.T) {
	cfg := DefaultDBMetricsConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThreshold)
	assert.Equal(t, 15*time.Second, cfg.PoolStatsInterval)
}

func TestRecordQuery(t *testing.T) {
	reader, meter := manualMeter(t)
	m, err := NewDBMetrics(meter, DefaultDBMetricsConfig(), zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordQuery(ctx, "select", "products", 10*time.Millisecond)
	m.RecordQuery(ctx, "INSERT", "orders", 5*time.Millisecond)
	m.RecordQuery(ctx, "", "orders", time.Millisecond)

	counter := collectMetric(t, reader, "db_query_total")
	require.NotNil(t, counter)

	sum, ok := counter.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	byOp := map[string]int64{}
	for _, dp := range sum.DataPoints {
		op, _ := dp.Attributes.Value("db.operation")
		byOp[op.AsString()] = dp.Value
	}
	assert.Equal(t, int64(1), byOp["SELECT"], "operation is uppercased")
	assert.Equal(t, int64(1), byOp["INSERT"])
	assert.Equal(t, int64(1), byOp["UNKNOWN"], "blank operation falls back")

	hist := collectMetric(t, reader, "db_query_duration_seconds")
	require.NotNil(t, hist)
	data, ok := hist.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Len(t, data.DataPoints, 3)
}

func TestRecordQuerySlowThreshold(t *testing.T) {
	reader, meter := manualMeter(t)
	m, err := NewDBMetrics(meter, DBMetricsConfig{
		Enabled:            true,
		SlowQueryThreshold: 50 * time.Millisecond,
	}, zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordQuery(ctx, "SELECT", "products", 10*time.Millisecond)
	m.RecordQuery(ctx, "SELECT", "products", 100*time.Millisecond)
	m.RecordQuery(ctx, "SELECT", "", 100*time.Millisecond)

	counter := collectMetric(t, reader, "db_slow_query_total")
	require.NotNil(t, counter)

	sum, ok := counter.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	byTable := map[string]int64{}
	for _, dp := range sum.DataPoints {
		table, _ := dp.Attributes.Value("db.table")
		byTable[table.AsString()] = dp.Value
	}
	assert.Equal(t, int64(1), byTable["products"], "only the query over threshold counts")
	assert.Equal(t, int64(1), byTable["unknown"], "blank table falls back")
}

func TestDBMetricsPluginRecordsOperations(t *testing.T) {
	reader, meter := manualMeter(t)
	m, err := NewDBMetrics(meter, DefaultDBMetricsConfig(), zap.NewNop())
	require.NoError(t, err)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&meteredItem{}))
	require.NoError(t, db.Use(NewDBMetricsPlugin(m, zap.NewNop())))

	require.NoError(t, db.Create(&meteredItem{Name: "hoodie"}).Error)

	var items []meteredItem
	require.NoError(t, db.Find(&items).Error)
	require.NoError(t, db.Model(&meteredItem{}).Where("id = ?", 1).Update("name", "zip hoodie").Error)
	require.NoError(t, db.Delete(&meteredItem{}, 1).Error)

	counter := collectMetric(t, reader, "db_query_total")
	require.NotNil(t, counter)

	sum, ok := counter.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	ops := map[string]bool{}
	for _, dp := range sum.DataPoints {
		op, _ := dp.Attributes.Value("db.operation")
		ops[op.AsString()] = true
	}
	for _, want := range []string{"INSERT", "SELECT", "UPDATE", "DELETE"} {
		assert.True(t, ops[want], "missing operation %s", want)
	}

	hist := collectMetric(t, reader, "db_query_duration_seconds")
	require.NotNil(t, hist)
	data, ok := hist.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	for _, dp := range data.DataPoints {
		assert.Greater(t, dp.Sum, float64(0), "before-callback timing feeds the histogram")
	}
}

func TestSQLVerb(t *testing.T) {
	cases := []struct {
		sql  string
		want string
	}{
		{"SELECT * FROM products", "SELECT"},
		{"  select 1", "SELECT"},
		{"INSERT INTO orders VALUES (1)", "INSERT"},
		{"update products set name = 'x'", "UPDATE"},
		{"DELETE FROM orders", "DELETE"},
		{"PRAGMA table_info(products)", "OTHER"},
		{"", "OTHER"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, sqlVerb(tc.sql), tc.sql)
	}
}

func TestPoolStatsCollection(t *testing.T) {
	reader, meter := manualMeter(t)
	m, err := NewDBMetrics(meter, DBMetricsConfig{
		Enabled:           true,
		PoolStatsInterval: time.Hour, // only the immediate sample matters here
	}, zap.NewNop())
	require.NoError(t, err)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	m.SetSQLDB(sqlDB)
	m.StartPoolStatsCollection(context.Background())
	defer m.Stop()

	// The goroutine samples once on start; give it a moment
	require.Eventually(t, func() bool {
		return collectMetric(t, reader, "db_pool_connections_max") != nil
	}, time.Second, 10*time.Millisecond)

	gauge := collectMetric(t, reader, "db_pool_connections")
	require.NotNil(t, gauge)
	data, ok := gauge.Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	assert.NotEmpty(t, data.DataPoints)
}

func TestPoolStatsCollectionRequiresHandle(t *testing.T) {
	_, meter := manualMeter(t)
	m, err := NewDBMetrics(meter, DefaultDBMetricsConfig(), zap.NewNop())
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		m.StartPoolStatsCollection(context.Background())
		m.Stop()
		m.Stop() // idempotent
	})
}
