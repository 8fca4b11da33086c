package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/warranty"
	"github.com/phonestore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

const claimProjection = `warranty_claims.*,
	warranties.warranty_code AS warranty_code,
	warranties.customer_id AS customer_id,
	COALESCE(customers.name, '') AS customer_name,
	COALESCE(products.name, '') AS product_name`

// claimRow is a claim joined with its warranty, customer and product
type claimRow struct {
	models.ClaimModel
	WarrantyCode string
	CustomerID   uuid.UUID
	CustomerName string
	ProductName  string
}

func (r *claimRow) toDomain() *warranty.Claim {
	c := r.ClaimModel.ToDomain()
	c.WarrantyCode = r.WarrantyCode
	c.CustomerID = r.CustomerID
	c.CustomerName = r.CustomerName
	c.ProductName = r.ProductName
	return c
}

// GormClaimRepository implements ClaimRepository using GORM
type GormClaimRepository struct {
	db *gorm.DB
}

// NewGormClaimRepository creates a new GormClaimRepository
func NewGormClaimRepository(db *gorm.DB) *GormClaimRepository {
	return &GormClaimRepository{db: db}
}

func (r *GormClaimRepository) joined(query *gorm.DB) *gorm.DB {
	return query.
		Joins("JOIN warranties ON warranties.id = warranty_claims.warranty_id").
		Joins("LEFT JOIN customers ON customers.id = warranties.customer_id").
		Joins("LEFT JOIN order_details ON order_details.id = warranties.order_detail_id").
		Joins("LEFT JOIN products ON products.id = order_details.product_id")
}

func (r *GormClaimRepository) projected(ctx context.Context) *gorm.DB {
	return r.joined(r.db.WithContext(ctx).Table("warranty_claims").Select(claimProjection))
}

func (r *GormClaimRepository) findOne(query *gorm.DB) (*warranty.Claim, error) {
	var row claimRow
	if err := query.Take(&row).Error; err != nil {
		return nil, translateError(err)
	}
	return row.toDomain(), nil
}

func (r *GormClaimRepository) findMany(query *gorm.DB) ([]warranty.Claim, error) {
	var rows []claimRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	claims := make([]warranty.Claim, len(rows))
	for i := range rows {
		claims[i] = *rows[i].toDomain()
	}
	return claims, nil
}

// FindByID finds a claim by its ID
func (r *GormClaimRepository) FindByID(ctx context.Context, id uuid.UUID) (*warranty.Claim, error) {
	return r.findOne(r.projected(ctx).Where("warranty_claims.id = ?", id))
}

// FindByIDForCustomer finds a claim only when its warranty belongs to the customer
func (r *GormClaimRepository) FindByIDForCustomer(ctx context.Context, customerID, id uuid.UUID) (*warranty.Claim, error) {
	return r.findOne(r.projected(ctx).Where("warranty_claims.id = ? AND warranties.customer_id = ?", id, customerID))
}

// FindAll lists claims matching the filter
func (r *GormClaimRepository) FindAll(ctx context.Context, filter warranty.ClaimFilter) ([]warranty.Claim, int64, error) {
	filter.Filter = filter.Normalize()

	var total int64
	countQuery := r.joined(r.db.WithContext(ctx).Table("warranty_claims"))
	if err := r.applyFilter(countQuery, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.applyFilter(r.projected(ctx), filter).
		Order(orderClause("warranty_claims", filter.Filter, ClaimSortFields, "submitted_at"))
	claims, err := r.findMany(paginate(query, filter.Filter))
	if err != nil {
		return nil, 0, err
	}
	return claims, total, nil
}

// FindByWarranty lists a warranty's claims, newest first
func (r *GormClaimRepository) FindByWarranty(ctx context.Context, warrantyID uuid.UUID) ([]warranty.Claim, error) {
	return r.findMany(r.projected(ctx).
		Where("warranty_claims.warranty_id = ?", warrantyID).
		Order("warranty_claims.submitted_at DESC"))
}

// ExistsByCode checks if a claim code is taken
func (r *GormClaimRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&models.ClaimModel{}).Where("claim_code = ?", code))
}

// CountByStatus counts claims in the given status
func (r *GormClaimRepository) CountByStatus(ctx context.Context, status warranty.ClaimStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ClaimModel{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// Create inserts a new claim
func (r *GormClaimRepository) Create(ctx context.Context, c *warranty.Claim) error {
	var m models.ClaimModel
	m.FromDomain(c)
	return translateError(r.db.WithContext(ctx).Create(&m).Error)
}

// Save updates a claim
func (r *GormClaimRepository) Save(ctx context.Context, c *warranty.Claim) error {
	var m models.ClaimModel
	m.FromDomain(c)
	return translateError(r.db.WithContext(ctx).Save(&m).Error)
}

// applyFilter applies status, customer and search filters without paging
func (r *GormClaimRepository) applyFilter(query *gorm.DB, filter warranty.ClaimFilter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("warranty_claims.status = ?", filter.Status)
	}
	if filter.CustomerID != nil {
		query = query.Where("warranties.customer_id = ?", *filter.CustomerID)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			"LOWER(warranty_claims.claim_code) LIKE ? ESCAPE '!' OR LOWER(warranties.warranty_code) LIKE ? ESCAPE '!' OR LOWER(customers.name) LIKE ? ESCAPE '!'",
			pattern, pattern, pattern)
	}
	return query
}

// Ensure GormClaimRepository implements ClaimRepository
var _ warranty.ClaimRepository = (*GormClaimRepository)(nil)
