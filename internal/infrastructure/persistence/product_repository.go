package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/catalog"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

const productProjection = "products.*, categories.name AS category_name, COALESCE(discount_programs.percent, 0) AS discount_percent"

// productRow is a product joined with its category name and discount percent
type productRow struct {
	models.ProductModel
	CategoryName    string
	DiscountPercent int
}

func (r *productRow) toDomain() *catalog.Product {
	p := r.ProductModel.ToDomain()
	p.CategoryName = r.CategoryName
	p.DiscountPercent = r.DiscountPercent
	return p
}

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) projected(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("products").
		Select(productProjection).
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Joins("LEFT JOIN discount_programs ON discount_programs.id = products.discount_id")
}

// FindByID finds a product with its category, discount and images
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var row productRow
	if err := r.projected(ctx).Where("products.id = ?", id).Take(&row).Error; err != nil {
		return nil, translateError(err)
	}
	product := row.toDomain()

	images, err := NewGormProductImageRepository(r.db).FindByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Images = images
	return product, nil
}

// FindAll lists products matching the filter, each with its images
func (r *GormProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, int64, error) {
	filter.Filter = filter.Normalize()

	var total int64
	if err := r.applyFilter(r.db.WithContext(ctx).Table("products"), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []productRow
	query := r.applyFilter(r.projected(ctx), filter).
		Order(orderClause("products", filter.Filter, ProductSortFields, "created_at"))
	if err := paginate(query, filter.Filter).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	products := make([]catalog.Product, len(rows))
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		products[i] = *rows[i].toDomain()
		ids[i] = rows[i].ID
	}
	if err := r.attachImages(ctx, products, ids); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// FindLowStock lists products at or below the given stock level, lowest first
func (r *GormProductRepository) FindLowStock(ctx context.Context, threshold, limit int) ([]catalog.Product, error) {
	var rows []productRow
	if err := r.projected(ctx).
		Where("products.stock <= ?", threshold).
		Order("products.stock ASC, products.name ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].toDomain()
	}
	return products, nil
}

// DecrementStock subtracts qty in one conditional UPDATE so concurrent
// checkouts can never drive stock below zero
func (r *GormProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ? AND stock >= ?", id, qty).
		Updates(map[string]any{
			"stock":   gorm.Expr("stock - ?", qty),
			"version": gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, translateError(result.Error)
	}
	return result.RowsAffected == 1, nil
}

// IncrementStock returns qty units to stock
func (r *GormProductRepository) IncrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"stock":   gorm.Expr("stock + ?", qty),
			"version": gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	var m models.ProductModel
	m.FromDomain(product)
	return translateError(r.db.WithContext(ctx).Save(&m).Error)
}

// SaveWithLock updates an existing product only while the stored version
// still equals expectedVersion. Stock moves by checkout bump the version, so
// an edit made from an older read fails with ErrConcurrencyConflict.
func (r *GormProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product, expectedVersion int) error {
	var m models.ProductModel
	m.FromDomain(product)
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ? AND version = ?", product.ID, expectedVersion).
		Updates(map[string]any{
			"name":                   m.Name,
			"search_name":            m.SearchName,
			"short_description":      m.ShortDescription,
			"detail_description":     m.DetailDescription,
			"price":                  m.Price,
			"stock":                  m.Stock,
			"category_id":            m.CategoryID,
			"discount_id":            m.DiscountID,
			"is_published":           m.IsPublished,
			"warranty_period_months": m.WarrantyPeriodMonths,
			"warranty_terms":         m.WarrantyTerms,
			"version":                m.Version,
			"updated_at":             m.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return staleWriteError(r.db.WithContext(ctx).Model(&models.ProductModel{}), product.ID)
	}
	return nil
}

// Delete deletes a product and its image records
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImageModel{}).Error; err != nil {
			return translateDeleteError(err)
		}
		result := tx.Delete(&models.ProductModel{}, "id = ?", id)
		if result.Error != nil {
			return translateDeleteError(result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts all products
func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductModel{}).Count(&count).Error
	return count, err
}

// HasOrders reports whether any order detail references the product
func (r *GormProductRepository) HasOrders(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&models.OrderDetailModel{}).Where("product_id = ?", id))
}

// applyFilter applies search and attribute filters without paging
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter catalog.ProductFilter) *gorm.DB {
	if term := catalog.FoldSearchText(filter.Search); term != "" {
		query = query.Where("products.search_name LIKE ? ESCAPE '!'", containsPattern(term))
	}
	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.ColorID != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM product_images pi WHERE pi.product_id = products.id AND pi.color_id = ?)",
			*filter.ColorID)
	}
	if filter.PublishedOnly {
		query = query.Where("products.is_published = ?", true)
	} else if filter.Published != nil {
		query = query.Where("products.is_published = ?", *filter.Published)
	}
	return query
}

// attachImages loads the images of all listed products in one query
func (r *GormProductRepository) attachImages(ctx context.Context, products []catalog.Product, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	var images []models.ProductImageModel
	if err := r.db.WithContext(ctx).
		Where("product_id IN ?", ids).
		Order("sort_order ASC, created_at ASC").
		Find(&images).Error; err != nil {
		return err
	}
	byProduct := make(map[uuid.UUID][]catalog.ProductImage, len(ids))
	for i := range images {
		byProduct[images[i].ProductID] = append(byProduct[images[i].ProductID], *images[i].ToDomain())
	}
	for i := range products {
		products[i].Images = byProduct[products[i].ID]
	}
	return nil
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
