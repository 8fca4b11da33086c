package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/warranty"
	"github.com/phonestore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

const warrantyProjection = `warranties.*,
	order_details.order_id AS order_id,
	order_details.product_id AS product_id,
	COALESCE(products.name, '') AS product_name,
	COALESCE(colors.name, '') AS color_name,
	COALESCE(customers.name, '') AS customer_name,
	COALESCE(customers.email, '') AS customer_email,
	(SELECT COUNT(*) FROM warranty_claims wc WHERE wc.warranty_id = warranties.id) AS claim_count`

// warrantyRow is a warranty joined with its order line, product and customer
type warrantyRow struct {
	models.WarrantyModel
	OrderID       uuid.UUID
	ProductID     uuid.UUID
	ProductName   string
	ColorName     string
	CustomerName  string
	CustomerEmail string
	ClaimCount    int
}

func (r *warrantyRow) toDomain() *warranty.Warranty {
	w := r.WarrantyModel.ToDomain()
	w.OrderID = r.OrderID
	w.ProductID = r.ProductID
	w.ProductName = r.ProductName
	w.ColorName = r.ColorName
	w.CustomerName = r.CustomerName
	w.CustomerEmail = r.CustomerEmail
	w.ClaimCount = r.ClaimCount
	return w
}

// GormWarrantyRepository implements WarrantyRepository using GORM
type GormWarrantyRepository struct {
	db *gorm.DB
}

// NewGormWarrantyRepository creates a new GormWarrantyRepository
func NewGormWarrantyRepository(db *gorm.DB) *GormWarrantyRepository {
	return &GormWarrantyRepository{db: db}
}

func (r *GormWarrantyRepository) joined(query *gorm.DB) *gorm.DB {
	return query.
		Joins("LEFT JOIN order_details ON order_details.id = warranties.order_detail_id").
		Joins("LEFT JOIN products ON products.id = order_details.product_id").
		Joins("LEFT JOIN colors ON colors.id = order_details.color_id").
		Joins("LEFT JOIN customers ON customers.id = warranties.customer_id")
}

func (r *GormWarrantyRepository) projected(ctx context.Context) *gorm.DB {
	return r.joined(r.db.WithContext(ctx).Table("warranties").Select(warrantyProjection))
}

func (r *GormWarrantyRepository) findOne(query *gorm.DB) (*warranty.Warranty, error) {
	var row warrantyRow
	if err := query.Take(&row).Error; err != nil {
		return nil, translateError(err)
	}
	return row.toDomain(), nil
}

func (r *GormWarrantyRepository) findMany(query *gorm.DB) ([]warranty.Warranty, error) {
	var rows []warrantyRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	warranties := make([]warranty.Warranty, len(rows))
	for i := range rows {
		warranties[i] = *rows[i].toDomain()
	}
	return warranties, nil
}

// FindByID finds a warranty by its ID
func (r *GormWarrantyRepository) FindByID(ctx context.Context, id uuid.UUID) (*warranty.Warranty, error) {
	return r.findOne(r.projected(ctx).Where("warranties.id = ?", id))
}

// FindByIDForCustomer finds a warranty only when it belongs to the customer
func (r *GormWarrantyRepository) FindByIDForCustomer(ctx context.Context, customerID, id uuid.UUID) (*warranty.Warranty, error) {
	return r.findOne(r.projected(ctx).Where("warranties.id = ? AND warranties.customer_id = ?", id, customerID))
}

// FindByCode finds a warranty by its code
func (r *GormWarrantyRepository) FindByCode(ctx context.Context, code string) (*warranty.Warranty, error) {
	return r.findOne(r.projected(ctx).Where("warranties.warranty_code = ?", code))
}

// FindAll lists warranties matching the filter
func (r *GormWarrantyRepository) FindAll(ctx context.Context, filter warranty.Filter) ([]warranty.Warranty, int64, error) {
	filter.Filter = filter.Normalize()

	var total int64
	countQuery := r.joined(r.db.WithContext(ctx).Table("warranties"))
	if err := r.applyFilter(countQuery, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.applyFilter(r.projected(ctx), filter).
		Order(orderClause("warranties", filter.Filter, WarrantySortFields, "created_at"))
	warranties, err := r.findMany(paginate(query, filter.Filter))
	if err != nil {
		return nil, 0, err
	}
	return warranties, total, nil
}

// FindByOrder lists the warranties issued for an order's lines
func (r *GormWarrantyRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]warranty.Warranty, error) {
	return r.findMany(r.projected(ctx).
		Where("order_details.order_id = ?", orderID).
		Order("warranties.created_at ASC"))
}

// FindNeedingService lists warranties with open claims, oldest claim first
func (r *GormWarrantyRepository) FindNeedingService(ctx context.Context, limit int) ([]warranty.Warranty, error) {
	return r.findMany(r.projected(ctx).
		Where("EXISTS (SELECT 1 FROM warranty_claims oc WHERE oc.warranty_id = warranties.id AND oc.status IN ?)", openClaimStatuses()).
		Order("warranties.updated_at ASC").
		Limit(limit))
}

// ExistsByCode checks if a warranty code is taken
func (r *GormWarrantyRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&models.WarrantyModel{}).Where("warranty_code = ?", code))
}

// ExistsForOrderDetail checks if an order line already has a warranty
func (r *GormWarrantyRepository) ExistsForOrderDetail(ctx context.Context, orderDetailID uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&models.WarrantyModel{}).Where("order_detail_id = ?", orderDetailID))
}

// Stats computes warranty counters at now, optionally for one customer.
// Expiry is judged by end date as well as status.
func (r *GormWarrantyRepository) Stats(ctx context.Context, customerID *uuid.UUID, now time.Time) (*warranty.Stats, error) {
	soon := now.Add(warranty.ExpiringWindow)
	active, expired := warranty.StatusActive, warranty.StatusExpired

	var stats warranty.Stats
	query := r.db.WithContext(ctx).
		Model(&models.WarrantyModel{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status = ? AND end_date >= ? THEN 1 ELSE 0 END), 0) AS active,
			COALESCE(SUM(CASE WHEN status = ? OR (status = ? AND end_date < ?) THEN 1 ELSE 0 END), 0) AS expired,
			COALESCE(SUM(CASE WHEN status = ? AND end_date >= ? AND end_date <= ? THEN 1 ELSE 0 END), 0) AS expiring_soon,
			COALESCE(SUM(CASE WHEN EXISTS (SELECT 1 FROM warranty_claims wc WHERE wc.warranty_id = warranties.id) THEN 1 ELSE 0 END), 0) AS claimed`,
			active, now,
			expired, active, now,
			active, now, soon)
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}
	if err := query.Scan(&stats).Error; err != nil {
		return nil, err
	}

	claims := r.db.WithContext(ctx).
		Table("warranty_claims").
		Joins("JOIN warranties ON warranties.id = warranty_claims.warranty_id")
	if customerID != nil {
		claims = claims.Where("warranties.customer_id = ?", *customerID)
	}
	var claimCounts struct {
		PendingClaims    int64
		NeedingAttention int64
	}
	if err := claims.
		Select(`COALESCE(SUM(CASE WHEN warranty_claims.status = ? THEN 1 ELSE 0 END), 0) AS pending_claims,
			COALESCE(SUM(CASE WHEN warranty_claims.status IN ? THEN 1 ELSE 0 END), 0) AS needing_attention`,
			warranty.ClaimPending, openClaimStatuses()).
		Scan(&claimCounts).Error; err != nil {
		return nil, err
	}
	stats.PendingClaims = claimCounts.PendingClaims
	stats.NeedingAttention = claimCounts.NeedingAttention
	return &stats, nil
}

// Create inserts a new warranty
func (r *GormWarrantyRepository) Create(ctx context.Context, w *warranty.Warranty) error {
	var m models.WarrantyModel
	m.FromDomain(w)
	return translateError(r.db.WithContext(ctx).Create(&m).Error)
}

// Save updates a warranty
func (r *GormWarrantyRepository) Save(ctx context.Context, w *warranty.Warranty) error {
	var m models.WarrantyModel
	m.FromDomain(w)
	return translateError(r.db.WithContext(ctx).Save(&m).Error)
}

// VoidActiveByOrder voids every active warranty of the order's lines
func (r *GormWarrantyRepository) VoidActiveByOrder(ctx context.Context, orderID uuid.UUID, reason string) (int64, error) {
	updates := map[string]any{
		"status":  warranty.StatusVoid,
		"version": gorm.Expr("version + 1"),
	}
	if reason != "" {
		updates["notes"] = reason
	}
	result := r.db.WithContext(ctx).
		Model(&models.WarrantyModel{}).
		Where("status = ? AND order_detail_id IN (?)", warranty.StatusActive, r.orderDetailIDs(ctx, orderID)).
		Updates(updates)
	if result.Error != nil {
		return 0, translateError(result.Error)
	}
	return result.RowsAffected, nil
}

// ExpireOverdue marks active warranties whose end date is before now as expired
func (r *GormWarrantyRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.WarrantyModel{}).
		Where("status = ? AND end_date < ?", warranty.StatusActive, now).
		Updates(map[string]any{
			"status":     warranty.StatusExpired,
			"version":    gorm.Expr("version + 1"),
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, translateError(result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteByOrder removes the warranties of the order's lines
func (r *GormWarrantyRepository) DeleteByOrder(ctx context.Context, orderID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("order_detail_id IN (?)", r.orderDetailIDs(ctx, orderID)).
		Delete(&models.WarrantyModel{}).Error
	return translateDeleteError(err)
}

// OrderHasClaims reports whether any warranty of the order has claims
func (r *GormWarrantyRepository) OrderHasClaims(ctx context.Context, orderID uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).
		Table("warranty_claims").
		Joins("JOIN warranties ON warranties.id = warranty_claims.warranty_id").
		Joins("JOIN order_details ON order_details.id = warranties.order_detail_id").
		Where("order_details.order_id = ?", orderID))
}

func (r *GormWarrantyRepository) orderDetailIDs(ctx context.Context, orderID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.OrderDetailModel{}).Select("id").Where("order_id = ?", orderID)
}

// applyFilter applies status, customer and search filters without paging
func (r *GormWarrantyRepository) applyFilter(query *gorm.DB, filter warranty.Filter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("warranties.status = ?", filter.Status)
	}
	if filter.CustomerID != nil {
		query = query.Where("warranties.customer_id = ?", *filter.CustomerID)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			"LOWER(warranties.warranty_code) LIKE ? ESCAPE '!' OR LOWER(customers.name) LIKE ? ESCAPE '!' OR LOWER(customers.email) LIKE ? ESCAPE '!' OR LOWER(products.name) LIKE ? ESCAPE '!'",
			pattern, pattern, pattern, pattern)
	}
	return query
}

func openClaimStatuses() []warranty.ClaimStatus {
	return []warranty.ClaimStatus{warranty.ClaimPending, warranty.ClaimInProgress}
}

// Ensure GormWarrantyRepository implements WarrantyRepository
var _ warranty.WarrantyRepository = (*GormWarrantyRepository)(nil)
