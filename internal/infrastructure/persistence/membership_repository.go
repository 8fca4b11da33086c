package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/partner"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormMembershipRepository implements MembershipRepository using GORM
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewGormMembershipRepository creates a new GormMembershipRepository
func NewGormMembershipRepository(db *gorm.DB) *GormMembershipRepository {
	return &GormMembershipRepository{db: db}
}

// FindByID finds a membership by its ID
func (r *GormMembershipRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Membership, error) {
	var m models.MembershipModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists memberships by name with their customer counts
func (r *GormMembershipRepository) FindAll(ctx context.Context) ([]partner.Membership, error) {
	var rows []struct {
		models.MembershipModel
		CustomerCount int64
	}
	if err := r.db.WithContext(ctx).
		Table("memberships").
		Select("memberships.*, (SELECT COUNT(*) FROM customers c WHERE c.membership_id = memberships.id) AS customer_count").
		Order("memberships.name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	memberships := make([]partner.Membership, len(rows))
	for i := range rows {
		memberships[i] = *rows[i].ToDomain()
		memberships[i].CustomerCount = rows[i].CustomerCount
	}
	return memberships, nil
}

// ExistsByName checks for a membership with the same name, ignoring case
func (r *GormMembershipRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.MembershipModel{}).Where("LOWER(name) = LOWER(?)", name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	return exists(query)
}

// CountCustomers counts the customers holding the membership
func (r *GormMembershipRepository) CountCustomers(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CustomerModel{}).Where("membership_id = ?", id).Count(&count).Error
	return count, err
}

// Save creates or updates a membership
func (r *GormMembershipRepository) Save(ctx context.Context, membership *partner.Membership) error {
	var m models.MembershipModel
	m.FromDomain(membership)
	return translateError(r.db.WithContext(ctx).Save(&m).Error)
}

// Delete deletes a membership
func (r *GormMembershipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.MembershipModel{}, "id = ?", id)
	if result.Error != nil {
		return translateDeleteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormMembershipRepository implements MembershipRepository
var _ partner.MembershipRepository = (*GormMembershipRepository)(nil)
