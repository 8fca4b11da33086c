package trade

import (
	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeOrder identifies order events
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderPlaced        = "OrderPlaced"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
	EventTypeCheckoutFailed     = "CheckoutFailed"
)

// OrderPlacedEvent is published after a checkout transaction commits
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID       `json:"order_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	LineCount     int             `json:"line_count"`
	WarrantyCount int             `json:"warranty_count"`
	PlacedByAdmin bool            `json:"placed_by_admin"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o *Order, warranties int, byAdmin bool) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		CustomerID:      o.CustomerID,
		TotalAmount:     o.TotalAmount,
		PaymentMethod:   o.PaymentMethod,
		LineCount:       len(o.Details),
		WarrantyCount:   warranties,
		PlacedByAdmin:   byAdmin,
	}
}

// OrderStatusChangedEvent is published when staff change an order's status
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID   `json:"order_id"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, from OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		FromStatus:      from,
		ToStatus:        o.Status,
	}
}

// CheckoutFailedEvent is published when a checkout transaction rolls back
type CheckoutFailedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Reason     string    `json:"reason"`
}

// NewCheckoutFailedEvent creates a new CheckoutFailedEvent. Reason is the
// domain error code of the failure.
func NewCheckoutFailedEvent(customerID uuid.UUID, reason string) *CheckoutFailedEvent {
	return &CheckoutFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCheckoutFailed, AggregateTypeOrder, uuid.Nil),
		CustomerID:      customerID,
		Reason:          reason,
	}
}
