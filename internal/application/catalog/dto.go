package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ImageURLPrefix is the public path images are served under
const ImageURLPrefix = "/api/v1/store/images/"

// ImageURL returns the public URL of a stored product image
func ImageURL(id uuid.UUID) string {
	return ImageURLPrefix + id.String()
}

// ProductRequest carries the attributes of a product to create or update
type ProductRequest struct {
	Name                 string          `json:"name" binding:"required,min=1,max=200"`
	ShortDescription     string          `json:"short_description" binding:"max=500"`
	DetailDescription    string          `json:"detail_description"`
	Price                decimal.Decimal `json:"price"`
	Stock                int             `json:"stock" binding:"min=0"`
	CategoryID           uuid.UUID       `json:"category_id" binding:"required"`
	DiscountID           *uuid.UUID      `json:"discount_id"`
	IsPublished          *bool           `json:"is_published"`
	WarrantyPeriodMonths *int            `json:"warranty_period_months" binding:"omitempty,min=0,max=60"`
	WarrantyTerms        string          `json:"warranty_terms" binding:"max=2000"`
	Version              int             `json:"version" binding:"min=0"`
}

func (r ProductRequest) toInput() catalog.ProductInput {
	published := true
	if r.IsPublished != nil {
		published = *r.IsPublished
	}
	months := catalog.DefaultWarrantyPeriodMonths
	if r.WarrantyPeriodMonths != nil {
		months = *r.WarrantyPeriodMonths
	}
	return catalog.ProductInput{
		Name:                 r.Name,
		ShortDescription:     r.ShortDescription,
		DetailDescription:    r.DetailDescription,
		Price:                r.Price,
		Stock:                r.Stock,
		CategoryID:           r.CategoryID,
		DiscountID:           r.DiscountID,
		IsPublished:          published,
		WarrantyPeriodMonths: months,
		WarrantyTerms:        r.WarrantyTerms,
	}
}

// ProductListFilter holds product list query parameters
type ProductListFilter struct {
	Search     string     `form:"search"`
	CategoryID *uuid.UUID `form:"category_id"`
	ColorID    *uuid.UUID `form:"color_id"`
	Published  *bool      `form:"published"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy     string     `form:"sort_by" binding:"omitempty,oneof=name price stock created_at"`
	SortDesc   bool       `form:"sort_desc"`
}

// ProductImageResponse represents a product image in API responses
type ProductImageResponse struct {
	ID        uuid.UUID  `json:"id"`
	ProductID uuid.UUID  `json:"product_id"`
	ColorID   *uuid.UUID `json:"color_id,omitempty"`
	URL       string     `json:"url"`
	MimeType  string     `json:"mime_type"`
	SizeBytes int64      `json:"size_bytes"`
	SortOrder int        `json:"sort_order"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID                   uuid.UUID              `json:"id"`
	Name                 string                 `json:"name"`
	ShortDescription     string                 `json:"short_description"`
	DetailDescription    string                 `json:"detail_description,omitempty"`
	Price                decimal.Decimal        `json:"price"`
	SalePrice            decimal.Decimal        `json:"sale_price"`
	DiscountPercent      int                    `json:"discount_percent"`
	Stock                int                    `json:"stock"`
	IsLowStock           bool                   `json:"is_low_stock"`
	CategoryID           uuid.UUID              `json:"category_id"`
	CategoryName         string                 `json:"category_name"`
	DiscountID           *uuid.UUID             `json:"discount_id,omitempty"`
	IsPublished          bool                   `json:"is_published"`
	WarrantyPeriodMonths int                    `json:"warranty_period_months"`
	WarrantyTerms        string                 `json:"warranty_terms,omitempty"`
	ImageURL             string                 `json:"image_url,omitempty"`
	Images               []ProductImageResponse `json:"images,omitempty"`
	Version              int                    `json:"version"`
	CreatedAt            time.Time              `json:"created_at"`
	UpdatedAt            time.Time              `json:"updated_at"`
}

// ToProductImageResponse converts a domain image to a response
func ToProductImageResponse(img *catalog.ProductImage) ProductImageResponse {
	return ProductImageResponse{
		ID:        img.ID,
		ProductID: img.ProductID,
		ColorID:   img.ColorID,
		URL:       ImageURL(img.ID),
		MimeType:  img.MimeType,
		SizeBytes: img.SizeBytes,
		SortOrder: img.SortOrder,
	}
}

// ToProductResponse converts a domain product to a response
func ToProductResponse(p *catalog.Product) ProductResponse {
	resp := ProductResponse{
		ID:                   p.ID,
		Name:                 p.Name,
		ShortDescription:     p.ShortDescription,
		DetailDescription:    p.DetailDescription,
		Price:                p.Price,
		SalePrice:            p.SalePrice(),
		DiscountPercent:      p.DiscountPercent,
		Stock:                p.Stock,
		IsLowStock:           p.IsLowStock(),
		CategoryID:           p.CategoryID,
		CategoryName:         p.CategoryName,
		DiscountID:           p.DiscountID,
		IsPublished:          p.IsPublished,
		WarrantyPeriodMonths: p.WarrantyPeriodMonths,
		WarrantyTerms:        p.WarrantyTerms,
		Version:              p.Version,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
	if id := p.FirstImageID(); id != nil {
		resp.ImageURL = ImageURL(*id)
	}
	if len(p.Images) > 0 {
		resp.Images = make([]ProductImageResponse, 0, len(p.Images))
		for i := range p.Images {
			resp.Images = append(resp.Images, ToProductImageResponse(&p.Images[i]))
		}
	}
	return resp
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, ToProductResponse(&products[i]))
	}
	return out
}

// CategoryRequest carries a category name
type CategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ProductCount int64     `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToCategoryResponse converts a domain category to a response
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, ProductCount: c.ProductCount, CreatedAt: c.CreatedAt}
}

// ColorRequest carries a color name
type ColorRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

// ColorResponse represents a color in API responses
type ColorResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ToColorResponse converts a domain color to a response
func ToColorResponse(c *catalog.Color) ColorResponse {
	return ColorResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

// DiscountRequest carries a discount program definition
type DiscountRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=100"`
	Percent int    `json:"percent" binding:"min=0,max=100"`
}

// DiscountResponse represents a discount program in API responses
type DiscountResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Percent   int       `json:"percent"`
	CreatedAt time.Time `json:"created_at"`
}

// ToDiscountResponse converts a domain discount program to a response
func ToDiscountResponse(d *catalog.DiscountProgram) DiscountResponse {
	return DiscountResponse{ID: d.ID, Name: d.Name, Percent: d.Percent, CreatedAt: d.CreatedAt}
}
