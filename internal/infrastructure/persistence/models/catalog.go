package models

import (
	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product aggregate.
// SearchName holds the diacritic-folded name used by storefront search.
type ProductModel struct {
	AggregateModel
	Name                 string          `gorm:"type:varchar(200);not null"`
	SearchName           string          `gorm:"type:varchar(200);not null;index"`
	ShortDescription     string          `gorm:"type:varchar(500)"`
	DetailDescription    string          `gorm:"type:text"`
	Price                decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Stock                int             `gorm:"not null;default:0;check:chk_products_stock,stock >= 0"`
	CategoryID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	DiscountID           *uuid.UUID      `gorm:"type:uuid;index"`
	IsPublished          bool            `gorm:"not null;default:true;index"`
	WarrantyPeriodMonths int             `gorm:"not null;default:12"`
	WarrantyTerms        string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot:    m.Aggregate(),
		Name:                 m.Name,
		ShortDescription:     m.ShortDescription,
		DetailDescription:    m.DetailDescription,
		Price:                m.Price,
		Stock:                m.Stock,
		CategoryID:           m.CategoryID,
		DiscountID:           m.DiscountID,
		IsPublished:          m.IsPublished,
		WarrantyPeriodMonths: m.WarrantyPeriodMonths,
		WarrantyTerms:        m.WarrantyTerms,
	}
}

// FromDomain populates the persistence model from a domain Product
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.SetAggregate(p.BaseAggregateRoot)
	m.Name = p.Name
	m.SearchName = catalog.FoldSearchText(p.Name)
	m.ShortDescription = p.ShortDescription
	m.DetailDescription = p.DetailDescription
	m.Price = p.Price
	m.Stock = p.Stock
	m.CategoryID = p.CategoryID
	m.DiscountID = p.DiscountID
	m.IsPublished = p.IsPublished
	m.WarrantyPeriodMonths = p.WarrantyPeriodMonths
	m.WarrantyTerms = p.WarrantyTerms
}

// ProductImageModel is the persistence model for image metadata
type ProductImageModel struct {
	BaseModel
	ProductID uuid.UUID  `gorm:"type:uuid;not null;index:idx_product_images_product_color,priority:1"`
	ColorID   *uuid.UUID `gorm:"type:uuid;index:idx_product_images_product_color,priority:2"`
	ObjectKey string     `gorm:"type:varchar(300);not null"`
	MimeType  string     `gorm:"type:varchar(100);not null"`
	SizeBytes int64      `gorm:"not null;default:0"`
	SortOrder int        `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductImageModel) TableName() string {
	return "product_images"
}

// ToDomain converts the persistence model to a domain ProductImage
func (m *ProductImageModel) ToDomain() *catalog.ProductImage {
	return &catalog.ProductImage{
		BaseEntity: m.Entity(),
		ProductID:  m.ProductID,
		ColorID:    m.ColorID,
		ObjectKey:  m.ObjectKey,
		MimeType:   m.MimeType,
		SizeBytes:  m.SizeBytes,
		SortOrder:  m.SortOrder,
	}
}

// FromDomain populates the persistence model from a domain ProductImage
func (m *ProductImageModel) FromDomain(img *catalog.ProductImage) {
	m.SetEntity(img.BaseEntity)
	m.ProductID = img.ProductID
	m.ColorID = img.ColorID
	m.ObjectKey = img.ObjectKey
	m.MimeType = img.MimeType
	m.SizeBytes = img.SizeBytes
	m.SortOrder = img.SortOrder
}

// CategoryModel is the persistence model for categories
type CategoryModel struct {
	BaseModel
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{BaseEntity: m.Entity(), Name: m.Name}
}

// FromDomain populates the persistence model from a domain Category
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.SetEntity(c.BaseEntity)
	m.Name = c.Name
}

// ColorModel is the persistence model for colors
type ColorModel struct {
	BaseModel
	Name string `gorm:"type:varchar(50);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (ColorModel) TableName() string {
	return "colors"
}

// ToDomain converts the persistence model to a domain Color
func (m *ColorModel) ToDomain() *catalog.Color {
	return &catalog.Color{BaseEntity: m.Entity(), Name: m.Name}
}

// FromDomain populates the persistence model from a domain Color
func (m *ColorModel) FromDomain(c *catalog.Color) {
	m.SetEntity(c.BaseEntity)
	m.Name = c.Name
}

// DiscountModel is the persistence model for discount programs
type DiscountModel struct {
	BaseModel
	Name    string `gorm:"type:varchar(100);not null"`
	Percent int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (DiscountModel) TableName() string {
	return "discount_programs"
}

// ToDomain converts the persistence model to a domain DiscountProgram
func (m *DiscountModel) ToDomain() *catalog.DiscountProgram {
	return &catalog.DiscountProgram{
		BaseEntity: m.Entity(),
		Name:       m.Name,
		Percent:    m.Percent,
	}
}

// FromDomain populates the persistence model from a domain DiscountProgram
func (m *DiscountModel) FromDomain(d *catalog.DiscountProgram) {
	m.SetEntity(d.BaseEntity)
	m.Name = d.Name
	m.Percent = d.Percent
}
