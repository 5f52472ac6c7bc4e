// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormStockMetricsProvider implements StockMetricsProvider using GORM.
// It queries the products table directly for aggregated stock counts.
type GormStockMetricsProvider struct {
	db *gorm.DB
}

// NewGormStockMetricsProvider creates a new GormStockMetricsProvider.
func NewGormStockMetricsProvider(db *gorm.DB) *GormStockMetricsProvider {
	return &GormStockMetricsProvider{db: db}
}

// CountLowStock returns the number of active products at or below the threshold.
func (p *GormStockMetricsProvider) CountLowStock(ctx context.Context, threshold int64) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("products").
		Where("status = ? AND total_stock > 0 AND total_stock <= ?", "active", threshold).
		Count(&count).Error
	return count, err
}

// CountOutOfStock returns the number of active products with zero stock.
func (p *GormStockMetricsProvider) CountOutOfStock(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("products").
		Where("status = ? AND total_stock = 0", "active").
		Count(&count).Error
	return count, err
}

// Ensure GormStockMetricsProvider implements StockMetricsProvider
var _ StockMetricsProvider = (*GormStockMetricsProvider)(nil)
