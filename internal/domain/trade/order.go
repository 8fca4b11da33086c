package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the fulfilment status of an order
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusConfirmed  OrderStatus = "Confirmed"
	OrderStatusShipping   OrderStatus = "Shipping"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// AllOrderStatuses lists the statuses in lifecycle order
var AllOrderStatuses = []OrderStatus{
	OrderStatusProcessing,
	OrderStatusConfirmed,
	OrderStatusShipping,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// IsValid checks if the status is a known OrderStatus
func (s OrderStatus) IsValid() bool {
	for _, st := range AllOrderStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether staff may move an order from s to target.
// Any non-cancelled status may be corrected; Cancelled is terminal.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if !target.IsValid() || s == target {
		return false
	}
	return s != OrderStatusCancelled
}

// PaymentMethod is how the customer pays for an order
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentBankTransfer   PaymentMethod = "bank_transfer"
	PaymentEWallet        PaymentMethod = "e_wallet"
)

// PaymentMethodOption is a selectable payment method with its display label
type PaymentMethodOption struct {
	Code  PaymentMethod `json:"code"`
	Label string        `json:"label"`
}

// PaymentMethods lists the payment methods offered at checkout
var PaymentMethods = []PaymentMethodOption{
	{Code: PaymentCashOnDelivery, Label: "Cash on delivery"},
	{Code: PaymentBankTransfer, Label: "Bank transfer"},
	{Code: PaymentEWallet, Label: "E-wallet"},
}

// IsValid checks if the payment method is offered
func (m PaymentMethod) IsValid() bool {
	for _, opt := range PaymentMethods {
		if opt.Code == m {
			return true
		}
	}
	return false
}

// Order is the header of a customer purchase.
// It is the aggregate root for its order details.
type Order struct {
	shared.BaseAggregateRoot
	CustomerID        uuid.UUID
	ShippingAddressID uuid.UUID
	CouponID          *uuid.UUID
	OrderDate         time.Time
	TotalAmount       decimal.Decimal
	Status            OrderStatus
	PaymentMethod     PaymentMethod
	Notes             string
	Details           []OrderDetail

	// Read-side projections
	CustomerName  string
	CustomerEmail string
}

// NewOrder creates an order header in Processing status
func NewOrder(customerID, shippingAddressID uuid.UUID, total decimal.Decimal, method PaymentMethod, notes string, at time.Time) (*Order, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Customer is required")
	}
	if shippingAddressID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Shipping address is required")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Please select a payment method")
	}
	if total.IsNegative() {
		total = decimal.Zero
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		ShippingAddressID: shippingAddressID,
		OrderDate:         at,
		TotalAmount:       total,
		Status:            OrderStatusProcessing,
		PaymentMethod:     method,
		Notes:             strings.TrimSpace(notes),
		Details:           []OrderDetail{},
	}, nil
}

// AddDetail appends a line to the order
func (o *Order) AddDetail(d OrderDetail) {
	d.OrderID = o.ID
	o.Details = append(o.Details, d)
}

// RecalculateTotal sets the total to the sum of line totals
func (o *Order) RecalculateTotal() {
	total := decimal.Zero
	for _, d := range o.Details {
		total = total.Add(d.TotalPrice)
	}
	o.TotalAmount = total
}

// ChangeStatus moves the order to a new status
func (o *Order) ChangeStatus(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown order status %q", target))
	}
	if o.Status == target {
		return nil
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot change order status from %s to %s", o.Status, target))
	}
	from := o.Status
	o.Status = target
	o.MarkModified()
	o.Record(NewOrderStatusChangedEvent(o, from))
	return nil
}

// UpdateDetails changes the editable header fields
func (o *Order) UpdateDetails(method PaymentMethod, notes string) error {
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Please select a payment method")
	}
	o.PaymentMethod = method
	o.Notes = strings.TrimSpace(notes)
	o.MarkModified()
	return nil
}

// CancelByCustomer cancels an order the customer placed. Customers can only
// cancel before the order leaves the warehouse.
func (o *Order) CancelByCustomer() error {
	if o.Status != OrderStatusProcessing && o.Status != OrderStatusConfirmed {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("An order that is %s can no longer be cancelled", o.Status))
	}
	return o.ChangeStatus(OrderStatusCancelled)
}

// IsCancelled reports whether the order has been cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// ItemCount sums the quantities of all lines
func (o *Order) ItemCount() int {
	n := 0
	for _, d := range o.Details {
		n += d.Quantity
	}
	return n
}
