package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// meteredEngine wires the metrics middleware to a manual reader so tests can
// collect what a request actually recorded.
func meteredEngine(t *testing.T) (*gin.Engine, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	engine := gin.New()
	engine.Use(HTTPMetricsWithMeter(provider.Meter("http.server"), true))
	return engine, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader, name string) *metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestHTTPMetricsCountsRequestsPerStatus(t *testing.T) {
	engine, reader := meteredEngine(t)
	engine.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	engine.GET("/missing", func(c *gin.Context) { c.String(http.StatusNotFound, "nope") })

	for _, path := range []string{"/ok", "/ok", "/ok", "/missing"} {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	counter := collect(t, reader, "http_server_request_total")
	require.NotNil(t, counter)

	sum, ok := counter.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(4), total)
	assert.Len(t, sum.DataPoints, 2, "status code splits the series")
}

func TestHTTPMetricsLabelsUseRoutePattern(t *testing.T) {
	engine, reader := meteredEngine(t)
	engine.GET("/api/v1/products/:id", func(c *gin.Context) {
		c.String(http.StatusOK, c.Param("id"))
	})

	for _, id := range []string{"1", "2", "abc"} {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/"+id, nil))
	}

	counter := collect(t, reader, "http_server_request_total")
	require.NotNil(t, counter)

	sum, ok := counter.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1, "distinct ids collapse into one route series")
	assert.Equal(t, int64(3), sum.DataPoints[0].Value)

	routeAttr, found := sum.DataPoints[0].Attributes.Value("http.route")
	require.True(t, found)
	assert.Equal(t, "/api/v1/products/:id", routeAttr.AsString())
}

func TestHTTPMetricsRecordsLatency(t *testing.T) {
	engine, reader := meteredEngine(t)
	engine.GET("/slow", func(c *gin.Context) {
		time.Sleep(30 * time.Millisecond)
		c.String(http.StatusOK, "done")
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil))

	hist := collect(t, reader, "http_server_request_duration_seconds")
	require.NotNil(t, hist)

	data, ok := hist.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, data.DataPoints, 1)
	assert.Greater(t, data.DataPoints[0].Sum, 0.03)
}

func TestHTTPMetricsRecordsPayloadSizes(t *testing.T) {
	engine, reader := meteredEngine(t)
	engine.POST("/echo", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"echoed": true})
	})

	body := strings.NewReader(`{"payload":"twenty-some bytes"}`)
	req := httptest.NewRequest(http.MethodPost, "/echo", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	for _, name := range []string{"http_server_request_size_bytes", "http_server_response_size_bytes"} {
		hist := collect(t, reader, name)
		require.NotNil(t, hist, name)

		data, ok := hist.Data.(metricdata.Histogram[float64])
		require.True(t, ok)
		require.Len(t, data.DataPoints, 1)
		assert.Greater(t, data.DataPoints[0].Sum, float64(0), name)
	}
}

func TestHTTPMetricsActiveRequestsSettleToZero(t *testing.T) {
	engine, reader := meteredEngine(t)
	engine.GET("/work", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/work", nil))

	gauge := collect(t, reader, "http_server_active_requests")
	require.NotNil(t, gauge)

	sum, ok := gauge.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	if len(sum.DataPoints) > 0 {
		assert.Equal(t, int64(0), sum.DataPoints[0].Value)
	}
}

func TestHTTPMetricsDisabledIsPassthrough(t *testing.T) {
	cases := []struct {
		name string
		mw   gin.HandlerFunc
	}{
		{"config disabled", HTTPMetrics(HTTPMetricsConfig{Enabled: false})},
		{"nil meter provider", HTTPMetrics(HTTPMetricsConfig{Enabled: true})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := gin.New()
			engine.Use(tc.mw)
			engine.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}
