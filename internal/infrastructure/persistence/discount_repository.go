package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/catalog"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDiscountRepository implements DiscountRepository using GORM
type GormDiscountRepository struct {
	db *gorm.DB
}

// NewGormDiscountRepository creates a new GormDiscountRepository
func NewGormDiscountRepository(db *gorm.DB) *GormDiscountRepository {
	return &GormDiscountRepository{db: db}
}

// FindByID finds a discount program by its ID
func (r *GormDiscountRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.DiscountProgram, error) {
	var m models.DiscountModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists discount programs by name
func (r *GormDiscountRepository) FindAll(ctx context.Context) ([]catalog.DiscountProgram, error) {
	var rows []models.DiscountModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	discounts := make([]catalog.DiscountProgram, len(rows))
	for i := range rows {
		discounts[i] = *rows[i].ToDomain()
	}
	return discounts, nil
}

// Save creates or updates a discount program
func (r *GormDiscountRepository) Save(ctx context.Context, discount *catalog.DiscountProgram) error {
	var m models.DiscountModel
	m.FromDomain(discount)
	return translateError(r.db.WithContext(ctx).Save(&m).Error)
}

// Delete detaches the program from its products and removes it
func (r *GormDiscountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ProductModel{}).
			Where("discount_id = ?", id).
			Update("discount_id", nil).Error; err != nil {
			return translateDeleteError(err)
		}
		result := tx.Delete(&models.DiscountModel{}, "id = ?", id)
		if result.Error != nil {
			return translateDeleteError(result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormDiscountRepository implements DiscountRepository
var _ catalog.DiscountRepository = (*GormDiscountRepository)(nil)
