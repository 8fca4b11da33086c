package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/identity"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAdminRepository implements AdminRepository using GORM
type GormAdminRepository struct {
	db *gorm.DB
}

// NewGormAdminRepository creates a new GormAdminRepository
func NewGormAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

func (r *GormAdminRepository) withRole(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Role.Permissions")
}

// FindByID finds an admin with their role and permissions
func (r *GormAdminRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Admin, error) {
	var m models.AdminModel
	if err := r.withRole(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindByUsername finds an admin by username, ignoring case
func (r *GormAdminRepository) FindByUsername(ctx context.Context, username string) (*identity.Admin, error) {
	var m models.AdminModel
	if err := r.withRole(ctx).Where("LOWER(username) = LOWER(?)", username).First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists admins matching the filter
func (r *GormAdminRepository) FindAll(ctx context.Context, filter identity.AdminFilter) ([]identity.Admin, int64, error) {
	filter.Filter = filter.Normalize()

	var total int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.AdminModel{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.AdminModel
	query := r.applyFilter(r.db.WithContext(ctx).Preload("Role"), filter).
		Order(orderClause("admins", filter.Filter, AdminSortFields, "created_at"))
	if err := paginate(query, filter.Filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	admins := make([]identity.Admin, len(rows))
	for i := range rows {
		admins[i] = *rows[i].ToDomain()
	}
	return admins, total, nil
}

// ExistsByUsername checks if a username is taken, ignoring case
func (r *GormAdminRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&models.AdminModel{}).Where("LOWER(username) = LOWER(?)", username))
}

// Save creates or updates an admin without touching the role row
func (r *GormAdminRepository) Save(ctx context.Context, admin *identity.Admin) error {
	var m models.AdminModel
	m.FromDomain(admin)
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Save(&m).Error)
}

// Delete deletes an admin
func (r *GormAdminRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AdminModel{}, "id = ?", id)
	if result.Error != nil {
		return translateDeleteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormAdminRepository) applyFilter(query *gorm.DB, filter identity.AdminFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(admins.full_name) LIKE ? ESCAPE '!' OR LOWER(admins.username) LIKE ? ESCAPE '!'", pattern, pattern)
	}
	if filter.RoleID != nil {
		query = query.Where("admins.role_id = ?", *filter.RoleID)
	}
	if filter.IsApproved != nil {
		query = query.Where("admins.is_approved = ?", *filter.IsApproved)
	}
	if filter.IsBlocked != nil {
		query = query.Where("admins.is_blocked = ?", *filter.IsBlocked)
	}
	return query
}

// Ensure GormAdminRepository implements AdminRepository
var _ identity.AdminRepository = (*GormAdminRepository)(nil)
