package trade

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/partner"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOrder(uuid.New(), uuid.New(), decimal.NewFromInt(200), PaymentCashOnDelivery, " leave at door ", time.Now())
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("starts in processing", func(t *testing.T) {
		o := newTestOrder(t)
		assert.Equal(t, OrderStatusProcessing, o.Status)
		assert.Equal(t, "leave at door", o.Notes)
		assert.Equal(t, 1, o.Version)
	})

	t.Run("rejects unknown payment method", func(t *testing.T) {
		_, err := NewOrder(uuid.New(), uuid.New(), decimal.Zero, PaymentMethod("barter"), "", time.Now())
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("requires a shipping address", func(t *testing.T) {
		_, err := NewOrder(uuid.New(), uuid.Nil, decimal.Zero, PaymentEWallet, "", time.Now())
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusProcessing, OrderStatusConfirmed, true},
		{OrderStatusConfirmed, OrderStatusShipping, true},
		{OrderStatusDelivered, OrderStatusShipping, true},
		{OrderStatusShipping, OrderStatusCancelled, true},
		{OrderStatusCancelled, OrderStatusProcessing, false},
		{OrderStatusProcessing, OrderStatusProcessing, false},
		{OrderStatusProcessing, OrderStatus("Lost"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrder_ChangeStatus(t *testing.T) {
	t.Run("records an event", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.ChangeStatus(OrderStatusShipping))
		assert.Equal(t, OrderStatusShipping, o.Status)
		assert.Equal(t, 2, o.Version)
		require.Len(t, o.PendingEvents(), 1)
		evt := o.PendingEvents()[0].(*OrderStatusChangedEvent)
		assert.Equal(t, OrderStatusProcessing, evt.FromStatus)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.ChangeStatus(OrderStatusProcessing))
		assert.Empty(t, o.PendingEvents())
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.ChangeStatus(OrderStatusCancelled))
		err := o.ChangeStatus(OrderStatusConfirmed)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("unknown status is invalid input", func(t *testing.T) {
		o := newTestOrder(t)
		assert.ErrorIs(t, o.ChangeStatus("Returned"), shared.ErrInvalidInput)
	})
}

func TestOrder_CancelByCustomer(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		allowed bool
	}{
		{OrderStatusProcessing, true},
		{OrderStatusConfirmed, true},
		{OrderStatusShipping, false},
		{OrderStatusDelivered, false},
		{OrderStatusCancelled, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			o := newTestOrder(t)
			o.Status = tt.from

			err := o.CancelByCustomer()

			if !tt.allowed {
				assert.ErrorIs(t, err, shared.ErrInvalidState)
				assert.Equal(t, tt.from, o.Status)
				return
			}
			require.NoError(t, err)
			assert.True(t, o.IsCancelled())
		})
	}
}

func TestNewOrderDetail(t *testing.T) {
	t.Run("computes total", func(t *testing.T) {
		d := NewOrderDetail(uuid.New(), nil, 2, decimal.NewFromInt(100))
		assert.True(t, d.TotalPrice.Equal(decimal.NewFromInt(200)))
	})

	t.Run("clamps quantity and price", func(t *testing.T) {
		d := NewOrderDetail(uuid.New(), nil, 0, decimal.NewFromInt(-5))
		assert.Equal(t, 1, d.Quantity)
		assert.True(t, d.UnitPrice.IsZero())
		assert.True(t, d.TotalPrice.IsZero())
	})

	t.Run("keeps color", func(t *testing.T) {
		color := uuid.New()
		d := NewOrderDetail(uuid.New(), &color, 1, decimal.NewFromInt(1))
		require.NotNil(t, d.ColorID)
		assert.Equal(t, color, *d.ColorID)
	})
}

func TestOrder_AddDetailAndTotal(t *testing.T) {
	o := newTestOrder(t)
	o.AddDetail(NewOrderDetail(uuid.New(), nil, 2, decimal.NewFromInt(100)))
	o.AddDetail(NewOrderDetail(uuid.New(), nil, 1, decimal.NewFromInt(50)))
	o.RecalculateTotal()

	assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, 3, o.ItemCount())
	for _, d := range o.Details {
		assert.Equal(t, o.ID, d.OrderID)
	}
}

func TestPlaceOrderCommand_Validate(t *testing.T) {
	addrID := uuid.New()
	line := PlacementLine{ProductID: uuid.New(), ProductName: "A", Quantity: 2, UnitPrice: decimal.NewFromInt(100)}
	complete := &partner.AddressInput{
		RecipientName: "Lan", Phone: "0900000000", AddressLine: "1 Le Loi",
		Ward: "Ben Nghe", District: "1", Province: "HCMC",
	}

	tests := []struct {
		name    string
		cmd     PlaceOrderCommand
		wantErr error
	}{
		{"empty cart", PlaceOrderCommand{CustomerID: uuid.New(), PaymentMethod: PaymentEWallet, ShippingAddressID: &addrID}, shared.ErrInvalidState},
		{"anonymous", PlaceOrderCommand{Lines: []PlacementLine{line}, PaymentMethod: PaymentEWallet, ShippingAddressID: &addrID}, shared.ErrUnauthorized},
		{"no payment", PlaceOrderCommand{CustomerID: uuid.New(), Lines: []PlacementLine{line}, ShippingAddressID: &addrID}, shared.ErrInvalidInput},
		{"no address", PlaceOrderCommand{CustomerID: uuid.New(), Lines: []PlacementLine{line}, PaymentMethod: PaymentEWallet}, shared.ErrInvalidInput},
		{"incomplete new address", PlaceOrderCommand{CustomerID: uuid.New(), Lines: []PlacementLine{line}, PaymentMethod: PaymentEWallet, NewAddress: &partner.AddressInput{RecipientName: "Lan", Phone: " "}}, shared.ErrInvalidInput},
		{"existing address", PlaceOrderCommand{CustomerID: uuid.New(), Lines: []PlacementLine{line}, PaymentMethod: PaymentEWallet, ShippingAddressID: &addrID}, nil},
		{"new address", PlaceOrderCommand{CustomerID: uuid.New(), Lines: []PlacementLine{line}, PaymentMethod: PaymentBankTransfer, NewAddress: complete}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	cmd := PlaceOrderCommand{Lines: []PlacementLine{line, line}}
	assert.True(t, cmd.Total().Equal(decimal.NewFromInt(400)))
}
