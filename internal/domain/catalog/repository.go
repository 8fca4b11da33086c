package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/shared"
)

// ProductFilter narrows product listings.
// Search is matched against the folded product name.
type ProductFilter struct {
	shared.Filter
	CategoryID    *uuid.UUID
	ColorID       *uuid.UUID
	PublishedOnly bool
	Published     *bool
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product with its category, discount and images
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindAll lists products matching the filter
	FindAll(ctx context.Context, filter ProductFilter) ([]Product, int64, error)

	// FindLowStock lists products at or below the given stock level
	FindLowStock(ctx context.Context, threshold, limit int) ([]Product, error)

	// DecrementStock subtracts qty only when at least qty units remain.
	// It returns false when the conditional update matched no row.
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error)

	// IncrementStock returns qty units to stock
	IncrementStock(ctx context.Context, id uuid.UUID, qty int) error

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// SaveWithLock updates a product only while the stored version still
	// equals expectedVersion
	SaveWithLock(ctx context.Context, product *Product, expectedVersion int) error

	// Delete deletes a product and its image records
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts all products
	Count(ctx context.Context) (int64, error)

	// HasOrders reports whether any order detail references the product
	HasOrders(ctx context.Context, id uuid.UUID) (bool, error)
}

// ProductImageRepository stores product image metadata
type ProductImageRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductImage, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]ProductImage, error)
	FindByProductAndColor(ctx context.Context, productID, colorID uuid.UUID) ([]ProductImage, error)
	NextSortOrder(ctx context.Context, productID uuid.UUID) (int, error)
	Save(ctx context.Context, image *ProductImage) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindAll(ctx context.Context) ([]Category, error)
	ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
	CountProducts(ctx context.Context, id uuid.UUID) (int64, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ColorRepository defines the interface for color persistence
type ColorRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Color, error)
	FindAll(ctx context.Context) ([]Color, error)
	ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
	IsReferenced(ctx context.Context, id uuid.UUID) (bool, error)
	Save(ctx context.Context, color *Color) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DiscountRepository defines the interface for discount program persistence
type DiscountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*DiscountProgram, error)
	FindAll(ctx context.Context) ([]DiscountProgram, error)
	Save(ctx context.Context, discount *DiscountProgram) error
	// Delete removes the program and detaches it from products
	Delete(ctx context.Context, id uuid.UUID) error
}
