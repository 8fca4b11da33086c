package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/partner"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// customerRow is a customer joined with the name of their membership
type customerRow struct {
	models.CustomerModel
	MembershipName string
}

func (r *customerRow) toDomain() *partner.Customer {
	c := r.CustomerModel.ToDomain()
	c.MembershipName = r.MembershipName
	return c
}

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) projected(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("customers").
		Select("customers.*, COALESCE(memberships.name, '') AS membership_name").
		Joins("LEFT JOIN memberships ON memberships.id = customers.membership_id")
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var row customerRow
	if err := r.projected(ctx).Where("customers.id = ?", id).Take(&row).Error; err != nil {
		return nil, translateError(err)
	}
	return row.toDomain(), nil
}

// FindByEmail finds a customer by email, ignoring case
func (r *GormCustomerRepository) FindByEmail(ctx context.Context, email string) (*partner.Customer, error) {
	var row customerRow
	if err := r.projected(ctx).Where("LOWER(customers.email) = LOWER(?)", email).Take(&row).Error; err != nil {
		return nil, translateError(err)
	}
	return row.toDomain(), nil
}

// FindAll lists customers matching the filter
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter partner.CustomerFilter) ([]partner.Customer, int64, error) {
	filter.Filter = filter.Normalize()

	var total int64
	if err := r.applyFilter(r.db.WithContext(ctx).Table("customers"), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []customerRow
	query := r.applyFilter(r.projected(ctx), filter).
		Order(orderClause("customers", filter.Filter, CustomerSortFields, "created_at"))
	if err := paginate(query, filter.Filter).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	customers := make([]partner.Customer, len(rows))
	for i := range rows {
		customers[i] = *rows[i].toDomain()
	}
	return customers, total, nil
}

// ExistsByEmail checks if an email is taken, ignoring case
func (r *GormCustomerRepository) ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.CustomerModel{}).Where("LOWER(email) = LOWER(?)", email)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	return exists(query)
}

// Stats summarizes the customer's orders. Spend excludes cancelled orders.
func (r *GormCustomerRepository) Stats(ctx context.Context, id uuid.UUID) (*partner.CustomerStats, error) {
	var agg struct {
		OrderCount int64
		TotalSpent decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select("COUNT(*) AS order_count, COALESCE(SUM(CASE WHEN status <> ? THEN total_amount ELSE 0 END), 0) AS total_spent", statusCancelled).
		Where("customer_id = ?", id).
		Scan(&agg).Error; err != nil {
		return nil, err
	}
	stats := &partner.CustomerStats{OrderCount: agg.OrderCount, TotalSpent: agg.TotalSpent}

	var last []time.Time
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("customer_id = ?", id).
		Order("order_date DESC").
		Limit(1).
		Pluck("order_date", &last).Error; err != nil {
		return nil, err
	}
	if len(last) == 1 {
		stats.LastOrderDate = &last[0]
	}
	return stats, nil
}

// HasOrders reports whether the customer has placed any order
func (r *GormCustomerRepository) HasOrders(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("customer_id = ?", id))
}

// SpendByMembership aggregates customers, orders and spend per membership tier
func (r *GormCustomerRepository) SpendByMembership(ctx context.Context) ([]partner.MembershipSpend, error) {
	var rows []struct {
		MembershipID   *uuid.UUID
		MembershipName string
		CustomerCount  int64
		OrderCount     int64
		TotalSpent     decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Table("customers").
		Select(`customers.membership_id AS membership_id,
			COALESCE(memberships.name, '') AS membership_name,
			COUNT(DISTINCT customers.id) AS customer_count,
			COUNT(orders.id) AS order_count,
			COALESCE(SUM(orders.total_amount), 0) AS total_spent`).
		Joins("LEFT JOIN memberships ON memberships.id = customers.membership_id").
		Joins("LEFT JOIN orders ON orders.customer_id = customers.id AND orders.status <> ?", statusCancelled).
		Group("customers.membership_id, memberships.name").
		Order("total_spent DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	spend := make([]partner.MembershipSpend, len(rows))
	for i, row := range rows {
		spend[i] = partner.MembershipSpend(row)
	}
	return spend, nil
}

// Count counts all customers
func (r *GormCustomerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CustomerModel{}).Count(&count).Error
	return count, err
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	var m models.CustomerModel
	m.FromDomain(customer)
	return translateError(r.db.WithContext(ctx).Save(&m).Error)
}

// Delete removes the customer together with their saved addresses
func (r *GormCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", id).Delete(&models.ShippingAddressModel{}).Error; err != nil {
			return translateDeleteError(err)
		}
		result := tx.Delete(&models.CustomerModel{}, "id = ?", id)
		if result.Error != nil {
			return translateDeleteError(result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// applyFilter applies search and membership filters without paging
func (r *GormCustomerRepository) applyFilter(query *gorm.DB, filter partner.CustomerFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			"LOWER(customers.name) LIKE ? ESCAPE '!' OR LOWER(customers.email) LIKE ? ESCAPE '!' OR customers.phone LIKE ? ESCAPE '!'",
			pattern, pattern, pattern)
	}
	if filter.MembershipID != nil {
		query = query.Where("customers.membership_id = ?", *filter.MembershipID)
	}
	return query
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
