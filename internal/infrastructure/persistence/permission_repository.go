package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/identity"
	"github.com/phonestore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPermissionRepository implements PermissionRepository using GORM
type GormPermissionRepository struct {
	db *gorm.DB
}

// NewGormPermissionRepository creates a new GormPermissionRepository
func NewGormPermissionRepository(db *gorm.DB) *GormPermissionRepository {
	return &GormPermissionRepository{db: db}
}

// FindAll lists permissions grouped by area
func (r *GormPermissionRepository) FindAll(ctx context.Context) ([]identity.Permission, error) {
	return r.find(r.db.WithContext(ctx))
}

// FindByIDs finds the permissions with the given IDs
func (r *GormPermissionRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]identity.Permission, error) {
	if len(ids) == 0 {
		return []identity.Permission{}, nil
	}
	return r.find(r.db.WithContext(ctx).Where("id IN ?", ids))
}

// FindByNames finds the permissions with the given names
func (r *GormPermissionRepository) FindByNames(ctx context.Context, names []string) ([]identity.Permission, error) {
	if len(names) == 0 {
		return []identity.Permission{}, nil
	}
	return r.find(r.db.WithContext(ctx).Where("name IN ?", names))
}

// FindByName finds a permission by name
func (r *GormPermissionRepository) FindByName(ctx context.Context, name string) (*identity.Permission, error) {
	var m models.PermissionModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// Save creates or updates a permission
func (r *GormPermissionRepository) Save(ctx context.Context, p *identity.Permission) error {
	var m models.PermissionModel
	m.FromDomain(p)
	return translateError(r.db.WithContext(ctx).Save(&m).Error)
}

func (r *GormPermissionRepository) find(query *gorm.DB) ([]identity.Permission, error) {
	var rows []models.PermissionModel
	if err := query.Order("area ASC, name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	permissions := make([]identity.Permission, len(rows))
	for i := range rows {
		permissions[i] = *rows[i].ToDomain()
	}
	return permissions, nil
}

// Ensure GormPermissionRepository implements PermissionRepository
var _ identity.PermissionRepository = (*GormPermissionRepository)(nil)
