package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/domain/trade"
	"github.com/phonestore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const orderProjection = "orders.*, customers.name AS customer_name, customers.email AS customer_email"

// orderRow is an order header joined with its customer
type orderRow struct {
	models.OrderModel
	CustomerName  string
	CustomerEmail string
}

func (r *orderRow) toDomain() *trade.Order {
	o := r.OrderModel.ToDomain()
	o.CustomerName = r.CustomerName
	o.CustomerEmail = r.CustomerEmail
	return o
}

// detailRow is an order line joined with product and color names
type detailRow struct {
	models.OrderDetailModel
	ProductName string
	ColorName   string
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) projected(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("orders").
		Select(orderProjection).
		Joins("LEFT JOIN customers ON customers.id = orders.customer_id")
}

// FindByID finds an order with its details and customer projection
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	return r.findOne(ctx, r.projected(ctx).Where("orders.id = ?", id))
}

// FindByIDForCustomer finds an order only when it belongs to the customer
func (r *GormOrderRepository) FindByIDForCustomer(ctx context.Context, customerID, id uuid.UUID) (*trade.Order, error) {
	return r.findOne(ctx, r.projected(ctx).Where("orders.id = ? AND orders.customer_id = ?", id, customerID))
}

func (r *GormOrderRepository) findOne(ctx context.Context, query *gorm.DB) (*trade.Order, error) {
	var row orderRow
	if err := query.Take(&row).Error; err != nil {
		return nil, translateError(err)
	}
	order := row.toDomain()

	details, err := r.findDetails(ctx, r.db.WithContext(ctx).Where("order_details.order_id = ?", order.ID))
	if err != nil {
		return nil, err
	}
	order.Details = details
	return order, nil
}

// FindAll lists order headers matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter trade.OrderFilter) ([]trade.Order, int64, error) {
	filter.Filter = filter.Normalize()

	var total int64
	countQuery := r.db.WithContext(ctx).Table("orders").
		Joins("LEFT JOIN customers ON customers.id = orders.customer_id")
	if err := r.applyFilter(countQuery, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []orderRow
	query := r.applyFilter(r.projected(ctx), filter).
		Order(orderClause("orders", filter.Filter, OrderSortFields, "order_date"))
	if err := paginate(query, filter.Filter).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	orders := make([]trade.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].toDomain()
	}
	return orders, total, nil
}

// FindRecent returns the newest orders
func (r *GormOrderRepository) FindRecent(ctx context.Context, limit int) ([]trade.Order, error) {
	var rows []orderRow
	if err := r.projected(ctx).
		Order("orders.order_date DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	orders := make([]trade.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].toDomain()
	}
	return orders, nil
}

// FindDetail finds a single order detail with product and color names
func (r *GormOrderRepository) FindDetail(ctx context.Context, detailID uuid.UUID) (*trade.OrderDetail, error) {
	details, err := r.findDetails(ctx, r.db.WithContext(ctx).Where("order_details.id = ?", detailID))
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, shared.ErrNotFound
	}
	return &details[0], nil
}

// Create inserts the order header and all of its details
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	var m models.OrderModel
	m.FromDomain(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&m).Error; err != nil {
			return translateError(err)
		}
		if len(m.Details) == 0 {
			return nil
		}
		return translateError(tx.Create(&m.Details).Error)
	})
}

// UpdateHeader persists status, payment method and notes with an
// optimistic version check. A stale version yields ErrConcurrencyConflict.
func (r *GormOrderRepository) UpdateHeader(ctx context.Context, order *trade.Order, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND version = ?", order.ID, expectedVersion).
		Updates(map[string]any{
			"status":         order.Status,
			"payment_method": order.PaymentMethod,
			"notes":          order.Notes,
			"version":        order.Version,
			"updated_at":     order.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return staleWriteError(r.db.WithContext(ctx).Model(&models.OrderModel{}), order.ID)
	}
	return nil
}

// Delete removes the order and its details
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderDetailModel{}).Error; err != nil {
			return translateDeleteError(err)
		}
		result := tx.Delete(&models.OrderModel{}, "id = ?", id)
		if result.Error != nil {
			return translateDeleteError(result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts all orders
func (r *GormOrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.OrderModel{}).Count(&count).Error
	return count, err
}

// findDetails loads order lines with their names and the image matching
// each line's color, falling back to the product's first image
func (r *GormOrderRepository) findDetails(ctx context.Context, query *gorm.DB) ([]trade.OrderDetail, error) {
	var rows []detailRow
	if err := query.
		Table("order_details").
		Select("order_details.*, COALESCE(products.name, '') AS product_name, COALESCE(colors.name, '') AS color_name").
		Joins("LEFT JOIN products ON products.id = order_details.product_id").
		Joins("LEFT JOIN colors ON colors.id = order_details.color_id").
		Order("order_details.created_at ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []trade.OrderDetail{}, nil
	}

	productIDs := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		productIDs = append(productIDs, rows[i].ProductID)
	}
	var images []models.ProductImageModel
	if err := r.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Order("sort_order ASC, created_at ASC").
		Find(&images).Error; err != nil {
		return nil, err
	}

	details := make([]trade.OrderDetail, len(rows))
	for i := range rows {
		d := rows[i].ToDomain()
		d.ProductName = rows[i].ProductName
		d.ColorName = rows[i].ColorName
		d.ImageID = pickImage(images, d.ProductID, d.ColorID)
		details[i] = *d
	}
	return details, nil
}

// pickImage selects the first image of the product in the given color,
// or the product's first image when none matches
func pickImage(images []models.ProductImageModel, productID uuid.UUID, colorID *uuid.UUID) *uuid.UUID {
	var fallback *uuid.UUID
	for i := range images {
		img := &images[i]
		if img.ProductID != productID {
			continue
		}
		if fallback == nil {
			fallback = &img.ID
		}
		if colorID != nil && img.ColorID != nil && *img.ColorID == *colorID {
			return &img.ID
		}
	}
	return fallback
}

// applyFilter applies customer, status, date and search filters without paging
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter trade.OrderFilter) *gorm.DB {
	if filter.CustomerID != nil {
		query = query.Where("orders.customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != "" {
		query = query.Where("orders.status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("orders.order_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("orders.order_date < ?", *filter.To)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(customers.name) LIKE ? ESCAPE '!' OR LOWER(customers.email) LIKE ? ESCAPE '!'", pattern, pattern)
	}
	return query
}

// Ensure GormOrderRepository implements OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)
