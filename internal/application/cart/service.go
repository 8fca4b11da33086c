// Package cart implements the storefront cart operations on a
// request-scoped session.
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	catalogapp "github.com/phonestore/backend/internal/application/catalog"
	"github.com/phonestore/backend/internal/domain/cart"
	"github.com/phonestore/backend/internal/domain/catalog"
	"github.com/phonestore/backend/internal/domain/session"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AddItemRequest adds a product to the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"omitempty,min=1,max=100"`
}

// UpdateItemRequest sets the absolute quantity of a line
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// ItemResponse is one cart line
type ItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
	ImageURL    string          `json:"image_url,omitempty"`
}

// Response is the cart with its derived totals
type Response struct {
	Items     []ItemResponse  `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// ToResponse converts a cart to its response
func ToResponse(c *cart.Cart) Response {
	items := make([]ItemResponse, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, ItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Price:       it.Price,
			Quantity:    it.Quantity,
			Total:       it.Total(),
			ImageURL:    it.ImageURL,
		})
	}
	return Response{Items: items, Total: c.Total(), ItemCount: c.ItemCount()}
}

// Service applies cart changes to a session
type Service struct {
	productRepo catalog.ProductRepository
}

// NewService creates a new cart Service
func NewService(productRepo catalog.ProductRepository) *Service {
	return &Service{productRepo: productRepo}
}

// View returns the session cart
func (s *Service) View(sess *session.Session) Response {
	return ToResponse(sess.Cart)
}

// Add re-reads the product and merges the requested quantity into the cart.
// Name, price and image always come from the catalog.
func (s *Service) Add(ctx context.Context, sess *session.Session, req AddItemRequest) (*Response, error) {
	qty := req.Quantity
	if qty <= 0 {
		qty = 1
	}
	p, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
		}
		return nil, err
	}
	if err := p.CanSell(sess.Cart.QuantityOf(p.ID) + qty); err != nil {
		return nil, err
	}

	imageURL := ""
	if id := p.FirstImageID(); id != nil {
		imageURL = catalogapp.ImageURL(*id)
	}
	sess.Cart.Add(p.ID, p.Name, p.SalePrice(), qty, imageURL)
	sess.MarkDirty()

	resp := ToResponse(sess.Cart)
	return &resp, nil
}

// Update sets a line's quantity; zero or less removes it
func (s *Service) Update(sess *session.Session, productID uuid.UUID, qty int) (*Response, error) {
	if _, ok := sess.Cart.Get(productID); !ok {
		return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Product %s is not in the cart", productID))
	}
	sess.Cart.Update(productID, qty)
	sess.MarkDirty()
	resp := ToResponse(sess.Cart)
	return &resp, nil
}

// Remove drops a line
func (s *Service) Remove(sess *session.Session, productID uuid.UUID) Response {
	sess.Cart.Remove(productID)
	sess.MarkDirty()
	return ToResponse(sess.Cart)
}

// Clear empties the cart
func (s *Service) Clear(sess *session.Session) Response {
	sess.Cart.Clear()
	sess.MarkDirty()
	return ToResponse(sess.Cart)
}

// Count returns the number of units in the cart
func (s *Service) Count(sess *session.Session) int {
	return sess.Cart.ItemCount()
}
