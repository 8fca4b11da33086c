package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/partner"
	"github.com/phonestore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAddressRepository implements AddressRepository using GORM
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new GormAddressRepository
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// FindByCustomer lists a customer's addresses, default first
func (r *GormAddressRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]partner.ShippingAddress, error) {
	var rows []models.ShippingAddressModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("is_default DESC, created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	addresses := make([]partner.ShippingAddress, len(rows))
	for i := range rows {
		addresses[i] = *rows[i].ToDomain()
	}
	return addresses, nil
}

// FindByIDForCustomer finds an address only when it belongs to the customer
func (r *GormAddressRepository) FindByIDForCustomer(ctx context.Context, customerID, id uuid.UUID) (*partner.ShippingAddress, error) {
	var m models.ShippingAddressModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND customer_id = ?", id, customerID).
		First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// Create inserts the address, clearing the customer's other default first
// when the new one is the default
func (r *GormAddressRepository) Create(ctx context.Context, address *partner.ShippingAddress) error {
	var m models.ShippingAddressModel
	m.FromDomain(address)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if m.IsDefault {
			if err := tx.Model(&models.ShippingAddressModel{}).
				Where("customer_id = ? AND is_default = ?", m.CustomerID, true).
				Update("is_default", false).Error; err != nil {
				return translateError(err)
			}
		}
		return translateError(tx.Create(&m).Error)
	})
}

// Ensure GormAddressRepository implements AddressRepository
var _ partner.AddressRepository = (*GormAddressRepository)(nil)
