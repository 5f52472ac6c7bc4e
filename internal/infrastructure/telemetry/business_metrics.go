// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the shop backend.
// It tracks order placement, payment activity, and catalog stock health.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	orderPlacedTotal *Counter
	orderAmountTotal *Counter
	paymentTotal     *Counter

	// Gauge metrics (point-in-time values)
	stockLowCount *Gauge
	stockOutCount *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	stockProvider     StockMetricsProvider
	lowStockThreshold int64
}

// StockMetricsProvider provides catalog stock data for periodic metrics
// collection. This interface allows the telemetry layer to query stock state
// without depending on the catalog domain directly.
type StockMetricsProvider interface {
	// CountLowStock returns the number of active products at or below the threshold
	CountLowStock(ctx context.Context, threshold int64) (int64, error)

	// CountOutOfStock returns the number of active products with zero stock
	CountOutOfStock(ctx context.Context) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter             metric.Meter
	Logger            *zap.Logger
	StockProvider     StockMetricsProvider
	LowStockThreshold int64 // Default: 5
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:         cfg.Meter,
		logger:        logger,
		stopChan:      make(chan struct{}),
		stockProvider: cfg.StockProvider,
	}
	if cfg.LowStockThreshold > 0 {
		bm.lowStockThreshold = cfg.LowStockThreshold
	} else {
		bm.lowStockThreshold = 5
	}

	var err error

	bm.orderPlacedTotal, err = NewCounter(
		cfg.Meter,
		"shop_order_placed_total",
		"Total number of orders placed",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	bm.orderAmountTotal, err = NewCounter(
		cfg.Meter,
		"shop_order_amount_total",
		"Total order amount in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	bm.paymentTotal, err = NewCounter(
		cfg.Meter,
		"shop_payment_total",
		"Total number of payment transactions",
		"{payments}",
	)
	if err != nil {
		return nil, err
	}

	bm.stockLowCount, err = NewGauge(
		cfg.Meter,
		"shop_stock_low_count",
		"Number of active products at or below the low stock threshold",
		"{products}",
	)
	if err != nil {
		return nil, err
	}

	bm.stockOutCount, err = NewGauge(
		cfg.Meter,
		"shop_stock_out_count",
		"Number of active products with zero stock",
		"{products}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Order Metrics
// =============================================================================

// RecordOrderPlaced records an order placement with its amount. The amount
// converts to cents for the counter.
func (bm *BusinessMetrics) RecordOrderPlaced(ctx context.Context, paymentMethod string, amount decimal.Decimal) {
	bm.orderPlacedTotal.Inc(ctx,
		AttrPaymentMethod.String(paymentMethod),
	)
	amountCents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	bm.orderAmountTotal.Add(ctx, amountCents,
		AttrPaymentMethod.String(paymentMethod),
	)
}

// =============================================================================
// Payment Metrics
// =============================================================================

// PaymentOutcome represents the outcome of a payment for metrics labeling.
type PaymentOutcome string

const (
	PaymentOutcomeSuccess PaymentOutcome = "success"
	PaymentOutcomeFailed  PaymentOutcome = "failed"
)

// RecordPayment records a payment transaction outcome.
// This should be called when a payment webhook is processed.
func (bm *BusinessMetrics) RecordPayment(ctx context.Context, paymentMethod string, outcome PaymentOutcome) {
	bm.paymentTotal.Inc(ctx,
		AttrPaymentMethod.String(paymentMethod),
		AttrPaymentStatus.String(string(outcome)),
	)
}

// =============================================================================
// Stock Metrics
// =============================================================================

// RecordLowStockCount records the number of products at or below the threshold.
func (bm *BusinessMetrics) RecordLowStockCount(ctx context.Context, count int64) {
	bm.stockLowCount.Record(ctx, count)
}

// RecordOutOfStockCount records the number of products with zero stock.
func (bm *BusinessMetrics) RecordOutOfStockCount(ctx context.Context, count int64) {
	bm.stockOutCount.Record(ctx, count)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of the stock gauges.
// Non-blocking; use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go bm.runPeriodicCollection(ctx, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	bm.collectStockMetrics(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectStockMetrics(ctx)
		}
	}
}

// collectStockMetrics collects the stock gauge metrics.
func (bm *BusinessMetrics) collectStockMetrics(ctx context.Context) {
	if bm.stockProvider == nil {
		bm.logger.Debug("No stock provider configured, skipping stock metrics collection")
		return
	}

	lowCount, err := bm.stockProvider.CountLowStock(ctx, bm.lowStockThreshold)
	if err != nil {
		bm.logger.Warn("Failed to count low stock products", zap.Error(err))
	} else {
		bm.RecordLowStockCount(ctx, lowCount)
	}

	outCount, err := bm.stockProvider.CountOutOfStock(ctx)
	if err != nil {
		bm.logger.Warn("Failed to count out-of-stock products", zap.Error(err))
	} else {
		bm.RecordOutOfStockCount(ctx, outCount)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
