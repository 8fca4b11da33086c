package trade

import (
	"time"

	"github.com/google/uuid"
	cartapp "github.com/phonestore/backend/internal/application/cart"
	catalogapp "github.com/phonestore/backend/internal/application/catalog"
	partnerapp "github.com/phonestore/backend/internal/application/partner"
	"github.com/phonestore/backend/internal/domain/partner"
	"github.com/phonestore/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Checkout DTOs
// =============================================================================

// AddressPayload is a new shipping address entered at checkout. Fields are
// checked by the checkout workflow so that an incomplete address is reported
// as a checkout failure.
type AddressPayload struct {
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	AddressLine   string `json:"address_line"`
	Ward          string `json:"ward"`
	District      string `json:"district"`
	Province      string `json:"province"`
	IsDefault     bool   `json:"is_default"`
}

func (p *AddressPayload) toInput() *partner.AddressInput {
	if p == nil {
		return nil
	}
	return &partner.AddressInput{
		RecipientName: p.RecipientName,
		Phone:         p.Phone,
		AddressLine:   p.AddressLine,
		Ward:          p.Ward,
		District:      p.District,
		Province:      p.Province,
		IsDefault:     p.IsDefault,
	}
}

// PlaceOrderRequest is the storefront place-order payload
type PlaceOrderRequest struct {
	ShippingAddressID *uuid.UUID      `json:"shipping_address_id"`
	NewAddress        *AddressPayload `json:"new_address"`
	PaymentMethod     string          `json:"payment_method"`
	Notes             string          `json:"notes" binding:"max=1000"`
}

// PlaceOrderResult is returned after a successful checkout
type PlaceOrderResult struct {
	Success            bool      `json:"success"`
	Message            string    `json:"message"`
	OrderID            uuid.UUID `json:"order_id"`
	RedirectToWarranty bool      `json:"redirect_to_warranty"`
}

// CheckoutView is the data the checkout page needs
type CheckoutView struct {
	CustomerName   string                       `json:"customer_name"`
	Cart           cartapp.Response             `json:"cart"`
	Addresses      []partnerapp.AddressResponse `json:"addresses"`
	PaymentMethods []trade.PaymentMethodOption  `json:"payment_methods"`
}

// =============================================================================
// Order DTOs
// =============================================================================

// OrderLineRequest is one line of an order entered by staff
type OrderLineRequest struct {
	ProductID uuid.UUID  `json:"product_id" binding:"required"`
	ColorID   *uuid.UUID `json:"color_id"`
	Quantity  int        `json:"quantity" binding:"required,min=1"`
}

// CreateOrderRequest is the admin manual order payload
type CreateOrderRequest struct {
	CustomerID        uuid.UUID          `json:"customer_id" binding:"required"`
	ShippingAddressID *uuid.UUID         `json:"shipping_address_id"`
	NewAddress        *AddressPayload    `json:"new_address"`
	PaymentMethod     string             `json:"payment_method" binding:"required"`
	Notes             string             `json:"notes" binding:"max=1000"`
	Lines             []OrderLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateOrderRequest edits status, payment method and notes
type UpdateOrderRequest struct {
	Status        string `json:"status" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
	Notes         string `json:"notes" binding:"max=1000"`
}

// ChangeStatusRequest changes only the status
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderListFilter is the admin order search
type OrderListFilter struct {
	Search   string     `form:"search"`
	Status   string     `form:"status"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// OrderDetailResponse is one order line
type OrderDetailResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ColorID     *uuid.UUID      `json:"color_id,omitempty"`
	ColorName   string          `json:"color_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	ImageURL    string          `json:"image_url,omitempty"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID                uuid.UUID             `json:"id"`
	CustomerID        uuid.UUID             `json:"customer_id"`
	CustomerName      string                `json:"customer_name,omitempty"`
	CustomerEmail     string                `json:"customer_email,omitempty"`
	ShippingAddressID uuid.UUID             `json:"shipping_address_id"`
	OrderDate         time.Time             `json:"order_date"`
	TotalAmount       decimal.Decimal       `json:"total_amount"`
	Status            string                `json:"status"`
	PaymentMethod     string                `json:"payment_method"`
	Notes             string                `json:"notes,omitempty"`
	ItemCount         int                   `json:"item_count"`
	Details           []OrderDetailResponse `json:"details,omitempty"`
	Version           int                   `json:"version"`
}

// ToOrderDetailResponse converts an order line to a response
func ToOrderDetailResponse(d *trade.OrderDetail) OrderDetailResponse {
	resp := OrderDetailResponse{
		ID:          d.ID,
		ProductID:   d.ProductID,
		ProductName: d.ProductName,
		ColorID:     d.ColorID,
		ColorName:   d.ColorName,
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
		TotalPrice:  d.TotalPrice,
	}
	if d.ImageID != nil {
		resp.ImageURL = catalogapp.ImageURL(*d.ImageID)
	}
	return resp
}

// ToOrderResponse converts an order to a response
func ToOrderResponse(o *trade.Order) OrderResponse {
	details := make([]OrderDetailResponse, 0, len(o.Details))
	for i := range o.Details {
		details = append(details, ToOrderDetailResponse(&o.Details[i]))
	}
	return OrderResponse{
		ID:                o.ID,
		CustomerID:        o.CustomerID,
		CustomerName:      o.CustomerName,
		CustomerEmail:     o.CustomerEmail,
		ShippingAddressID: o.ShippingAddressID,
		OrderDate:         o.OrderDate,
		TotalAmount:       o.TotalAmount,
		Status:            o.Status.String(),
		PaymentMethod:     string(o.PaymentMethod),
		Notes:             o.Notes,
		ItemCount:         o.ItemCount(),
		Details:           details,
		Version:           o.GetVersion(),
	}
}
