package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/catalog"
	"github.com/phonestore/backend/internal/domain/partner"
	"github.com/phonestore/backend/internal/domain/trade"
	"github.com/phonestore/backend/internal/domain/warranty"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// shopFixture seeds a catalog with one product and a customer with an address
type shopFixture struct {
	db       *gorm.DB
	category *catalog.Category
	color    *catalog.Color
	product  *catalog.Product
	customer *partner.Customer
	address  *partner.ShippingAddress
}

func newShopFixture(t *testing.T) *shopFixture {
	t.Helper()
	ctx := context.Background()
	db := newTestDB(t)
	f := &shopFixture{db: db}

	var err error
	f.category, err = catalog.NewCategory("Smartphones")
	require.NoError(t, err)
	require.NoError(t, NewGormCategoryRepository(db).Save(ctx, f.category))

	f.color, err = catalog.NewColor("Midnight")
	require.NoError(t, err)
	require.NoError(t, NewGormColorRepository(db).Save(ctx, f.color))

	f.product = f.addProduct(t, "Điện thoại Galaxy S24", 10, decimal.NewFromInt(1000))

	f.customer, err = partner.NewCustomer(partner.CustomerProfile{
		Name:  "Lan Nguyen",
		Email: "lan@example.com",
		Phone: "0901234567",
	}, "hash")
	require.NoError(t, err)
	require.NoError(t, NewGormCustomerRepository(db).Save(ctx, f.customer))

	f.address, err = partner.NewShippingAddress(f.customer.ID, partner.AddressInput{
		RecipientName: "Lan Nguyen",
		Phone:         "0901234567",
		AddressLine:   "12 Le Loi",
		Ward:          "Ben Nghe",
		District:      "District 1",
		Province:      "Ho Chi Minh City",
		IsDefault:     true,
	})
	require.NoError(t, err)
	require.NoError(t, NewGormAddressRepository(db).Create(ctx, f.address))
	return f
}

func (f *shopFixture) addProduct(t *testing.T, name string, stock int, price decimal.Decimal) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(catalog.ProductInput{
		Name:                 name,
		Price:                price,
		Stock:                stock,
		CategoryID:           f.category.ID,
		IsPublished:          true,
		WarrantyPeriodMonths: 12,
	})
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(f.db).Save(context.Background(), p))
	return p
}

// placeOrder stores an order with one line for the fixture product
func (f *shopFixture) placeOrder(t *testing.T, status trade.OrderStatus, at time.Time, qty int) *trade.Order {
	t.Helper()
	order, err := trade.NewOrder(f.customer.ID, f.address.ID, decimal.Zero, trade.PaymentCashOnDelivery, "", at)
	require.NoError(t, err)
	colorID := f.color.ID
	order.AddDetail(trade.NewOrderDetail(f.product.ID, &colorID, qty, f.product.Price))
	order.RecalculateTotal()
	order.Status = status
	require.NoError(t, NewGormOrderRepository(f.db).Create(context.Background(), order))
	return order
}

// issueWarranty covers the order's first line starting at start
func (f *shopFixture) issueWarranty(t *testing.T, order *trade.Order, code string, start time.Time) *warranty.Warranty {
	t.Helper()
	w, err := warranty.NewWarranty(order.Details[0].ID, order.CustomerID, code, 12, start)
	require.NoError(t, err)
	require.NoError(t, NewGormWarrantyRepository(f.db).Create(context.Background(), w))
	return w
}

func ptrTime(t time.Time) *time.Time { return &t }

func ptrUUID(id uuid.UUID) *uuid.UUID { return &id }
