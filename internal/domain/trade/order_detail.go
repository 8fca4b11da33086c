package trade

import (
	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderDetail is one line of an order. Prices are captured at purchase time
// and do not follow later product price changes.
type OrderDetail struct {
	shared.BaseEntity
	OrderID    uuid.UUID
	ProductID  uuid.UUID
	ColorID    *uuid.UUID
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal

	// Read-side projections
	ProductName string
	ColorName   string
	ImageID     *uuid.UUID
}

// NewOrderDetail creates a line, treating a non-positive quantity as 1 and
// a negative price as 0.
func NewOrderDetail(productID uuid.UUID, colorID *uuid.UUID, qty int, unitPrice decimal.Decimal) OrderDetail {
	if qty <= 0 {
		qty = 1
	}
	if unitPrice.IsNegative() {
		unitPrice = decimal.Zero
	}
	total := unitPrice.Mul(decimal.NewFromInt(int64(qty)))
	if total.IsNegative() {
		total = decimal.Zero
	}
	return OrderDetail{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		ColorID:    colorID,
		Quantity:   qty,
		UnitPrice:  unitPrice,
		TotalPrice: total,
	}
}
