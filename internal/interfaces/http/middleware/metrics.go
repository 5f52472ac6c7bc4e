package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/vclothes/backend/internal/infrastructure/telemetry"
)

// HTTPMetricsConfig configures the request metrics middleware.
type HTTPMetricsConfig struct {
	MeterProvider *telemetry.MeterProvider
	ServiceName   string
	Enabled       bool
}

// httpInstruments bundles the per-request instruments. Route labels use gin's
// route pattern, not the raw path, to keep cardinality bounded.
type httpInstruments struct {
	requests       *telemetry.Counter
	duration       *telemetry.Histogram
	requestBytes   *telemetry.Histogram
	responseBytes  *telemetry.Histogram
	activeRequests metric.Int64UpDownCounter
}

func newHTTPInstruments(meter metric.Meter) (*httpInstruments, error) {
	requests, err := telemetry.NewCounter(meter,
		"http_server_request_total",
		"Total number of HTTP requests",
		"{request}")
	if err != nil {
		return nil, err
	}

	duration, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_request_duration_seconds",
		Description: "HTTP request latency distribution in seconds",
		Unit:        "s",
		Boundaries:  telemetry.HTTPDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	sizeBuckets := []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000, 1000000}
	requestBytes, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_request_size_bytes",
		Description: "HTTP request body size distribution in bytes",
		Unit:        "By",
		Boundaries:  sizeBuckets,
	})
	if err != nil {
		return nil, err
	}

	responseBytes, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_response_size_bytes",
		Description: "HTTP response body size distribution in bytes",
		Unit:        "By",
		Boundaries:  append(sizeBuckets, 5000000),
	})
	if err != nil {
		return nil, err
	}

	active, err := meter.Int64UpDownCounter(
		"http_server_active_requests",
		metric.WithDescription("Number of currently active HTTP requests"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}

	return &httpInstruments{
		requests:       requests,
		duration:       duration,
		requestBytes:   requestBytes,
		responseBytes:  responseBytes,
		activeRequests: active,
	}, nil
}

// HTTPMetrics records request count, latency, payload sizes and in-flight
// requests. When metrics are disabled or instrument creation fails it
// degrades to a pass-through handler.
func HTTPMetrics(cfg HTTPMetricsConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.MeterProvider == nil || !cfg.MeterProvider.IsEnabled() {
		return passthrough
	}
	inst, err := newHTTPInstruments(cfg.MeterProvider.Meter("http.server"))
	if err != nil {
		return passthrough
	}
	return recordRequests(inst)
}

// HTTPMetricsWithMeter builds the middleware from a caller-supplied meter.
func HTTPMetricsWithMeter(meter metric.Meter, enabled bool) gin.HandlerFunc {
	if !enabled {
		return passthrough
	}
	inst, err := newHTTPInstruments(meter)
	if err != nil {
		return passthrough
	}
	return recordRequests(inst)
}

func passthrough(c *gin.Context) {
	c.Next()
}

func recordRequests(inst *httpInstruments) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		requestSize := c.Request.ContentLength

		inst.activeRequests.Add(ctx, 1)
		c.Next()
		inst.activeRequests.Add(ctx, -1)

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}

		// Status is only attached to the counter; latency and size keep the
		// smaller method+route label set.
		counterAttrs := []attribute.KeyValue{
			telemetry.AttrHTTPMethod.String(c.Request.Method),
			telemetry.AttrHTTPRoute.String(route),
			telemetry.AttrHTTPStatusCode.Int(c.Writer.Status()),
		}
		inst.requests.Inc(ctx, counterAttrs...)

		baseAttrs := counterAttrs[:2]
		inst.duration.RecordDuration(ctx, time.Since(start), baseAttrs...)
		if requestSize > 0 {
			inst.requestBytes.Record(ctx, float64(requestSize), baseAttrs...)
		}
		if size := c.Writer.Size(); size > 0 {
			inst.responseBytes.Record(ctx, float64(size), baseAttrs...)
		}
	}
}
