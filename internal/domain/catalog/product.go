package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	// DefaultWarrantyPeriodMonths is applied to new products when none is given
	DefaultWarrantyPeriodMonths = 12
	// MaxWarrantyPeriodMonths caps the warranty a product can carry
	MaxWarrantyPeriodMonths = 60
	// LowStockThreshold marks products that need restocking on the dashboard
	LowStockThreshold = 5
)

// Product represents a phone model offered by the store.
// It is the aggregate root for stock and publication changes.
type Product struct {
	shared.BaseAggregateRoot
	Name                 string
	ShortDescription     string
	DetailDescription    string
	Price                decimal.Decimal
	Stock                int
	CategoryID           uuid.UUID
	DiscountID           *uuid.UUID
	IsPublished          bool
	WarrantyPeriodMonths int
	WarrantyTerms        string

	// Read-side projections, populated by the repository when joined
	CategoryName    string
	DiscountPercent int
	Images          []ProductImage
}

// ProductInput carries the editable attributes of a product
type ProductInput struct {
	Name                 string
	ShortDescription     string
	DetailDescription    string
	Price                decimal.Decimal
	Stock                int
	CategoryID           uuid.UUID
	DiscountID           *uuid.UUID
	IsPublished          bool
	WarrantyPeriodMonths int
	WarrantyTerms        string
}

// NewProduct creates a new product
func NewProduct(in ProductInput) (*Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	p := &Product{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	p.apply(in)
	p.Record(NewProductCreatedEvent(p))
	return p, nil
}

// Update replaces the editable attributes of the product
func (p *Product) Update(in ProductInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	p.apply(in)
	p.MarkModified()
	return nil
}

func (p *Product) apply(in ProductInput) {
	p.Name = strings.TrimSpace(in.Name)
	p.ShortDescription = in.ShortDescription
	p.DetailDescription = in.DetailDescription
	p.Price = in.Price
	p.Stock = in.Stock
	p.CategoryID = in.CategoryID
	p.DiscountID = in.DiscountID
	p.IsPublished = in.IsPublished
	p.WarrantyPeriodMonths = in.WarrantyPeriodMonths
	p.WarrantyTerms = in.WarrantyTerms
}

func (in ProductInput) validate() error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_INPUT", "Product name cannot exceed 200 characters")
	}
	if in.Price.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Price cannot be negative")
	}
	if in.Stock < 0 {
		return shared.NewDomainError("INVALID_INPUT", "Stock cannot be negative")
	}
	if in.CategoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Category is required")
	}
	if in.WarrantyPeriodMonths < 0 || in.WarrantyPeriodMonths > MaxWarrantyPeriodMonths {
		return shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Warranty period must be between 0 and %d months", MaxWarrantyPeriodMonths))
	}
	return nil
}

// Publish makes the product visible on the storefront
func (p *Product) Publish() {
	if p.IsPublished {
		return
	}
	p.IsPublished = true
	p.MarkModified()
	p.Record(NewProductPublicationChangedEvent(p))
}

// Unpublish hides the product from the storefront
func (p *Product) Unpublish() {
	if !p.IsPublished {
		return
	}
	p.IsPublished = false
	p.MarkModified()
	p.Record(NewProductPublicationChangedEvent(p))
}

// TogglePublish flips the publication flag
func (p *Product) TogglePublish() {
	if p.IsPublished {
		p.Unpublish()
		return
	}
	p.Publish()
}

// CanSell reports whether qty units can be sold right now
func (p *Product) CanSell(qty int) error {
	if !p.IsPublished {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Product %s is not available", p.Name))
	}
	if qty <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "Quantity must be positive")
	}
	if p.Stock < qty {
		return InsufficientStockError(p.Name, p.Stock)
	}
	return nil
}

// IsLowStock reports whether the product is at or below the restock threshold
func (p *Product) IsLowStock() bool {
	return p.Stock <= LowStockThreshold
}

// HasWarranty reports whether purchases of this product are covered
func (p *Product) HasWarranty() bool {
	return p.WarrantyPeriodMonths > 0
}

// SalePrice returns the price after the attached discount program, if any
func (p *Product) SalePrice() decimal.Decimal {
	if p.DiscountPercent <= 0 {
		return p.Price
	}
	factor := decimal.NewFromInt(int64(100 - p.DiscountPercent)).Div(decimal.NewFromInt(100))
	return p.Price.Mul(factor).Round(2)
}

// FirstImageID returns the id of the first image, if the product has any
func (p *Product) FirstImageID() *uuid.UUID {
	if len(p.Images) == 0 {
		return nil
	}
	id := p.Images[0].ID
	return &id
}

// InsufficientStockError builds the user-facing error naming the product and
// the units left.
func InsufficientStockError(name string, remaining int) error {
	return shared.NewDomainError("INSUFFICIENT_STOCK",
		fmt.Sprintf("Product %s only has %d left in stock", name, remaining))
}
