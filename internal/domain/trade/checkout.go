package trade

import (
	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/partner"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PlacementLine is one requested line of a new order
type PlacementLine struct {
	ProductID   uuid.UUID
	ProductName string
	ColorID     *uuid.UUID
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Total returns the requested line amount
func (l PlacementLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// PlaceOrderCommand carries everything needed to place an order in one
// transaction. Exactly one of ShippingAddressID and NewAddress is used;
// an existing address id takes precedence.
type PlaceOrderCommand struct {
	CustomerID        uuid.UUID
	ShippingAddressID *uuid.UUID
	NewAddress        *partner.AddressInput
	PaymentMethod     PaymentMethod
	Notes             string
	Lines             []PlacementLine
	PlacedByAdmin     bool
}

// Validate checks the preconditions that do not need the database
func (c PlaceOrderCommand) Validate() error {
	if len(c.Lines) == 0 {
		return shared.NewDomainError("INVALID_STATE", "Your cart is empty")
	}
	if c.CustomerID == uuid.Nil {
		return shared.NewDomainError("UNAUTHORIZED", "Please sign in to place an order")
	}
	if !c.PaymentMethod.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Please select a payment method")
	}
	if c.ShippingAddressID != nil && *c.ShippingAddressID != uuid.Nil {
		return nil
	}
	if c.NewAddress == nil {
		return shared.NewDomainError("INVALID_INPUT", "Please select a shipping address")
	}
	if !c.NewAddress.IsComplete() {
		return shared.NewDomainError("INVALID_INPUT", "Please fill in all fields of the new address")
	}
	return nil
}

// UsesExistingAddress reports whether the command refers to a saved address
func (c PlaceOrderCommand) UsesExistingAddress() bool {
	return c.ShippingAddressID != nil && *c.ShippingAddressID != uuid.Nil
}

// Total sums the requested line amounts
func (c PlaceOrderCommand) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Total())
	}
	return total
}
