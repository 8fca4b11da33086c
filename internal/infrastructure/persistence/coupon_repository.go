package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/partner"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCouponRepository implements CouponRepository using GORM
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository creates a new GormCouponRepository
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// FindByID finds a coupon by its ID
func (r *GormCouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Coupon, error) {
	var m models.CouponModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists coupons matching the filter. Status is derived at filter.Now.
func (r *GormCouponRepository) FindAll(ctx context.Context, filter partner.CouponFilter) ([]partner.Coupon, int64, error) {
	filter.Filter = filter.Normalize()
	if filter.Now.IsZero() {
		filter.Now = time.Now().UTC()
	}

	var total int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.CouponModel{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CouponModel
	query := r.applyFilter(r.db.WithContext(ctx), filter).
		Order(orderClause("coupons", filter.Filter, CouponSortFields, "created_at"))
	if err := paginate(query, filter.Filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	coupons := make([]partner.Coupon, len(rows))
	for i := range rows {
		coupons[i] = *rows[i].ToDomain()
	}
	return coupons, total, nil
}

// ExistsByCode checks if a coupon code is taken
func (r *GormCouponRepository) ExistsByCode(ctx context.Context, code string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.CouponModel{}).Where("code = ?", partner.NormalizeCouponCode(code))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	return exists(query)
}

// Save creates or updates a coupon
func (r *GormCouponRepository) Save(ctx context.Context, coupon *partner.Coupon) error {
	var m models.CouponModel
	m.FromDomain(coupon)
	return translateError(r.db.WithContext(ctx).Save(&m).Error)
}

// Delete deletes a coupon
func (r *GormCouponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CouponModel{}, "id = ?", id)
	if result.Error != nil {
		return translateDeleteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormCouponRepository) applyFilter(query *gorm.DB, filter partner.CouponFilter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("coupons.code LIKE ? ESCAPE '!'", containsPattern(partner.NormalizeCouponCode(filter.Search)))
	}
	switch filter.Status {
	case partner.CouponStatusUsed:
		query = query.Where("coupons.is_used = ?", true)
	case partner.CouponStatusExpired:
		query = query.Where("coupons.is_used = ? AND coupons.expiry_date IS NOT NULL AND coupons.expiry_date < ?", false, filter.Now)
	case partner.CouponStatusActive:
		query = query.Where("coupons.is_used = ? AND (coupons.expiry_date IS NULL OR coupons.expiry_date >= ?)", false, filter.Now)
	}
	return query
}

// Ensure GormCouponRepository implements CouponRepository
var _ partner.CouponRepository = (*GormCouponRepository)(nil)
