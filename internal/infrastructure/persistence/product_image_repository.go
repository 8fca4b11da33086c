package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/catalog"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductImageRepository stores product image metadata using GORM
type GormProductImageRepository struct {
	db *gorm.DB
}

// NewGormProductImageRepository creates a new GormProductImageRepository
func NewGormProductImageRepository(db *gorm.DB) *GormProductImageRepository {
	return &GormProductImageRepository{db: db}
}

// FindByID finds an image by its ID
func (r *GormProductImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductImage, error) {
	var m models.ProductImageModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindByProduct lists a product's images in display order
func (r *GormProductImageRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.ProductImage, error) {
	return r.find(r.db.WithContext(ctx).Where("product_id = ?", productID))
}

// FindByProductAndColor lists the images shown for one color of a product
func (r *GormProductImageRepository) FindByProductAndColor(ctx context.Context, productID, colorID uuid.UUID) ([]catalog.ProductImage, error) {
	return r.find(r.db.WithContext(ctx).Where("product_id = ? AND color_id = ?", productID, colorID))
}

// NextSortOrder returns the position after the product's last image
func (r *GormProductImageRepository) NextSortOrder(ctx context.Context, productID uuid.UUID) (int, error) {
	var next int
	err := r.db.WithContext(ctx).
		Model(&models.ProductImageModel{}).
		Select("COALESCE(MAX(sort_order), -1) + 1").
		Where("product_id = ?", productID).
		Scan(&next).Error
	return next, err
}

// Save creates or updates an image record
func (r *GormProductImageRepository) Save(ctx context.Context, image *catalog.ProductImage) error {
	var m models.ProductImageModel
	m.FromDomain(image)
	return translateError(r.db.WithContext(ctx).Save(&m).Error)
}

// Delete removes an image record
func (r *GormProductImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductImageModel{}, "id = ?", id)
	if result.Error != nil {
		return translateDeleteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormProductImageRepository) find(query *gorm.DB) ([]catalog.ProductImage, error) {
	var rows []models.ProductImageModel
	if err := query.Order("sort_order ASC, created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	images := make([]catalog.ProductImage, len(rows))
	for i := range rows {
		images[i] = *rows[i].ToDomain()
	}
	return images, nil
}

// Ensure GormProductImageRepository implements ProductImageRepository
var _ catalog.ProductImageRepository = (*GormProductImageRepository)(nil)
