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

// GormRoleRepository implements RoleRepository using GORM
type GormRoleRepository struct {
	db *gorm.DB
}

// NewGormRoleRepository creates a new GormRoleRepository
func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

// FindByID finds a role with its permissions and admin count
func (r *GormRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Role, error) {
	var m models.RoleModel
	if err := r.db.WithContext(ctx).Preload("Permissions").First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	role := m.ToDomain()
	if err := r.db.WithContext(ctx).Model(&models.AdminModel{}).Where("role_id = ?", id).Count(&role.AdminCount).Error; err != nil {
		return nil, err
	}
	return role, nil
}

// FindByName finds a role by name, ignoring case
func (r *GormRoleRepository) FindByName(ctx context.Context, name string) (*identity.Role, error) {
	var m models.RoleModel
	if err := r.db.WithContext(ctx).
		Preload("Permissions").
		Where("LOWER(name) = LOWER(?)", name).
		First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists roles by name with permissions and admin counts
func (r *GormRoleRepository) FindAll(ctx context.Context) ([]identity.Role, error) {
	var rows []models.RoleModel
	if err := r.db.WithContext(ctx).Preload("Permissions").Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	var counts []struct {
		RoleID uuid.UUID
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.AdminModel{}).
		Select("role_id, COUNT(*) AS count").
		Where("role_id IS NOT NULL").
		Group("role_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	byRole := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		byRole[c.RoleID] = c.Count
	}

	roles := make([]identity.Role, len(rows))
	for i := range rows {
		roles[i] = *rows[i].ToDomain()
		roles[i].AdminCount = byRole[rows[i].ID]
	}
	return roles, nil
}

// ExistsByName checks for a role with the same name, ignoring case
func (r *GormRoleRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.RoleModel{}).Where("LOWER(name) = LOWER(?)", name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	return exists(query)
}

// Save creates or updates a role and replaces its permission links
func (r *GormRoleRepository) Save(ctx context.Context, role *identity.Role) error {
	var m models.RoleModel
	m.FromDomain(role)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(&m).Error; err != nil {
			return translateError(err)
		}
		if err := tx.Where("role_id = ?", role.ID).Delete(&models.RolePermissionModel{}).Error; err != nil {
			return translateError(err)
		}
		if len(role.Permissions) == 0 {
			return nil
		}
		links := make([]models.RolePermissionModel, len(role.Permissions))
		for i, p := range role.Permissions {
			links[i] = models.RolePermissionModel{RoleID: role.ID, PermissionID: p.ID}
		}
		return translateError(tx.Create(&links).Error)
	})
}

// Delete removes a role and its permission links
func (r *GormRoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&models.RolePermissionModel{}).Error; err != nil {
			return translateDeleteError(err)
		}
		result := tx.Delete(&models.RoleModel{}, "id = ?", id)
		if result.Error != nil {
			return translateDeleteError(result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormRoleRepository implements RoleRepository
var _ identity.RoleRepository = (*GormRoleRepository)(nil)
