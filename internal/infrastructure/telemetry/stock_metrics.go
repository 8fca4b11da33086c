package telemetry

import (
	"context"

	"github.com/phonestore/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// GormStockMetricsProvider counts stock levels straight from the products table
type GormStockMetricsProvider struct {
	db *gorm.DB
}

// NewGormStockMetricsProvider creates a new GormStockMetricsProvider
func NewGormStockMetricsProvider(db *gorm.DB) *GormStockMetricsProvider {
	return &GormStockMetricsProvider{db: db}
}

// LowStockCount counts products with stock between 1 and the low stock threshold
func (p *GormStockMetricsProvider) LowStockCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("products").
		Where("stock > 0 AND stock <= ?", catalog.LowStockThreshold).
		Count(&count).Error
	return count, err
}

// OutOfStockCount counts products with no stock left
func (p *GormStockMetricsProvider) OutOfStockCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("products").
		Where("stock <= 0").
		Count(&count).Error
	return count, err
}

var _ StockMetricsProvider = (*GormStockMetricsProvider)(nil)
