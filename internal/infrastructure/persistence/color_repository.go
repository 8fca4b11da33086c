package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/catalog"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormColorRepository implements ColorRepository using GORM
type GormColorRepository struct {
	db *gorm.DB
}

// NewGormColorRepository creates a new GormColorRepository
func NewGormColorRepository(db *gorm.DB) *GormColorRepository {
	return &GormColorRepository{db: db}
}

// FindByID finds a color by its ID
func (r *GormColorRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Color, error) {
	var m models.ColorModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists colors by name
func (r *GormColorRepository) FindAll(ctx context.Context) ([]catalog.Color, error) {
	var rows []models.ColorModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	colors := make([]catalog.Color, len(rows))
	for i := range rows {
		colors[i] = *rows[i].ToDomain()
	}
	return colors, nil
}

// ExistsByName checks for a color with the same name, ignoring case
func (r *GormColorRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.ColorModel{}).Where("LOWER(name) = LOWER(?)", name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	return exists(query)
}

// IsReferenced reports whether an order line or product image uses the color
func (r *GormColorRepository) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	used, err := exists(r.db.WithContext(ctx).Model(&models.OrderDetailModel{}).Where("color_id = ?", id))
	if err != nil || used {
		return used, err
	}
	return exists(r.db.WithContext(ctx).Model(&models.ProductImageModel{}).Where("color_id = ?", id))
}

// Save creates or updates a color
func (r *GormColorRepository) Save(ctx context.Context, color *catalog.Color) error {
	var m models.ColorModel
	m.FromDomain(color)
	return translateError(r.db.WithContext(ctx).Save(&m).Error)
}

// Delete deletes a color
func (r *GormColorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ColorModel{}, "id = ?", id)
	if result.Error != nil {
		return translateDeleteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormColorRepository implements ColorRepository
var _ catalog.ColorRepository = (*GormColorRepository)(nil)
