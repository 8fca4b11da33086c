package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormRevenueRepository runs the revenue report queries using GORM.
// Every revenue figure leaves out cancelled orders.
type GormRevenueRepository struct {
	db *gorm.DB
}

// NewGormRevenueRepository creates a new GormRevenueRepository
func NewGormRevenueRepository(db *gorm.DB) *GormRevenueRepository {
	return &GormRevenueRepository{db: db}
}

// inRange restricts orders.order_date to [From, To)
func inRange(query *gorm.DB, f report.RangeFilter) *gorm.DB {
	if f.From != nil {
		query = query.Where("orders.order_date >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where("orders.order_date < ?", *f.To)
	}
	return query
}

func withLimit(query *gorm.DB, f report.RangeFilter) *gorm.DB {
	if f.Limit > 0 {
		return query.Limit(f.Limit)
	}
	return query
}

// revenueOrders selects non-cancelled orders in the range
func (r *GormRevenueRepository) revenueOrders(ctx context.Context, f report.RangeFilter) *gorm.DB {
	return inRange(r.db.WithContext(ctx).Table("orders").Where("orders.status <> ?", statusCancelled), f)
}

// Totals sums revenue and counts orders in the range
func (r *GormRevenueRepository) Totals(ctx context.Context, f report.RangeFilter) (*report.Totals, error) {
	var totals report.Totals
	if err := r.revenueOrders(ctx, f).
		Select("COALESCE(SUM(orders.total_amount), 0) AS revenue, COUNT(*) AS order_count").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	return &totals, nil
}

// Orders lists every order in the range oldest first, cancelled ones included
func (r *GormRevenueRepository) Orders(ctx context.Context, f report.RangeFilter) ([]report.OrderRow, error) {
	var rows []report.OrderRow
	query := inRange(r.db.WithContext(ctx).Table("orders"), f).
		Select(`orders.id AS order_id,
			orders.order_date AS order_date,
			COALESCE(customers.name, '') AS customer_name,
			orders.status AS status,
			orders.payment_method AS payment_method,
			orders.total_amount AS total_amount,
			COALESCE((SELECT SUM(d.quantity) FROM order_details d WHERE d.order_id = orders.id), 0) AS item_count`).
		Joins("LEFT JOIN customers ON customers.id = orders.customer_id").
		Order("orders.order_date ASC")
	if err := withLimit(query, f).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// TopProducts ranks products by revenue in the range
func (r *GormRevenueRepository) TopProducts(ctx context.Context, f report.RangeFilter) ([]report.ProductRevenue, error) {
	var rows []report.ProductRevenue
	query := r.revenueOrders(ctx, f).
		Select(`products.id AS product_id,
			products.name AS product_name,
			COALESCE(SUM(order_details.quantity), 0) AS quantity,
			COALESCE(SUM(order_details.total_price), 0) AS revenue,
			COUNT(DISTINCT orders.id) AS order_count`).
		Joins("JOIN order_details ON order_details.order_id = orders.id").
		Joins("JOIN products ON products.id = order_details.product_id").
		Group("products.id, products.name").
		Order("revenue DESC")
	if err := withLimit(query, f).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// RevenueByCategory totals quantity and revenue per category in the range
func (r *GormRevenueRepository) RevenueByCategory(ctx context.Context, f report.RangeFilter) ([]report.CategoryRevenue, error) {
	var rows []report.CategoryRevenue
	query := r.revenueOrders(ctx, f).
		Select(`categories.id AS category_id,
			categories.name AS category_name,
			COALESCE(SUM(order_details.quantity), 0) AS quantity,
			COALESCE(SUM(order_details.total_price), 0) AS revenue`).
		Joins("JOIN order_details ON order_details.order_id = orders.id").
		Joins("JOIN products ON products.id = order_details.product_id").
		Joins("JOIN categories ON categories.id = products.category_id").
		Group("categories.id, categories.name").
		Order("revenue DESC")
	if err := withLimit(query, f).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// TopCustomers ranks customers by spend in the range
func (r *GormRevenueRepository) TopCustomers(ctx context.Context, f report.RangeFilter) ([]report.CustomerRevenue, error) {
	var rows []struct {
		CustomerID   uuid.UUID
		CustomerName string
		TotalSpent   decimal.Decimal
		OrderCount   int64
		FirstOrder   dbTime
		LastOrder    dbTime
	}
	query := r.revenueOrders(ctx, f).
		Select(`customers.id AS customer_id,
			customers.name AS customer_name,
			COALESCE(SUM(orders.total_amount), 0) AS total_spent,
			COUNT(orders.id) AS order_count,
			MIN(orders.order_date) AS first_order,
			MAX(orders.order_date) AS last_order`).
		Joins("JOIN customers ON customers.id = orders.customer_id").
		Group("customers.id, customers.name").
		Order("total_spent DESC")
	if err := withLimit(query, f).Scan(&rows).Error; err != nil {
		return nil, err
	}

	customers := make([]report.CustomerRevenue, len(rows))
	for i, row := range rows {
		customers[i] = report.CustomerRevenue{
			CustomerID:   row.CustomerID,
			CustomerName: row.CustomerName,
			TotalSpent:   row.TotalSpent,
			OrderCount:   row.OrderCount,
			Average:      report.Totals{Revenue: row.TotalSpent, OrderCount: row.OrderCount}.Average(),
			FirstOrder:   row.FirstOrder.Time,
			LastOrder:    row.LastOrder.Time,
		}
	}
	return customers, nil
}

// Ensure GormRevenueRepository implements RevenueRepository
var _ report.RevenueRepository = (*GormRevenueRepository)(nil)
