package warranty_test

import (
	"context"
	"errors"
	"testing"

	tradeapp "github.com/phonestore/backend/internal/application/trade"
	warrantyapp "github.com/phonestore/backend/internal/application/warranty"
	"github.com/phonestore/backend/internal/domain/catalog"
	"github.com/phonestore/backend/internal/domain/partner"
	"github.com/phonestore/backend/internal/domain/trade"
	"github.com/phonestore/backend/internal/domain/warranty"
	"github.com/phonestore/backend/internal/infrastructure/persistence"
	"github.com/phonestore/backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDiskFull = errors.New("disk full")

// failingScope fails the nth warranty insert of a workflow
type failingScope struct {
	inner  tradeapp.TransactionScope
	failOn int
}

func (s *failingScope) Execute(ctx context.Context, fn func(repos tradeapp.TransactionalRepositories) error) error {
	return s.inner.Execute(ctx, func(repos tradeapp.TransactionalRepositories) error {
		return fn(failingRepos{TransactionalRepositories: repos, warranties: &failingWarranties{
			WarrantyRepository: repos.WarrantyRepo(),
			failOn:             s.failOn,
		}})
	})
}

type failingRepos struct {
	tradeapp.TransactionalRepositories
	warranties *failingWarranties
}

func (r failingRepos) WarrantyRepo() warranty.WarrantyRepository { return r.warranties }

type failingWarranties struct {
	warranty.WarrantyRepository
	failOn  int
	creates int
}

func (w *failingWarranties) Create(ctx context.Context, wr *warranty.Warranty) error {
	w.creates++
	if w.creates == w.failOn {
		return errDiskFull
	}
	return w.WarrantyRepository.Create(ctx, wr)
}

// deliveredOrderWithoutWarranties places a two-line order, drops the
// warranties issued at checkout and marks it delivered
func deliveredOrderWithoutWarranties(t *testing.T, db *persistence.Database) *trade.Order {
	t.Helper()
	ctx := context.Background()

	category, err := catalog.NewCategory("Smartphones")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormCategoryRepository(db.DB).Save(ctx, category))

	customer, err := partner.NewCustomer(partner.CustomerProfile{Name: "Hoa Le", Email: "hoa@phonestore.test"}, "hash")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormCustomerRepository(db.DB).Save(ctx, customer))

	products := persistence.NewGormProductRepository(db.DB)
	var lines []trade.PlacementLine
	for _, name := range []string{"Galaxy Z Flip6", "Galaxy Buds3"} {
		p, err := catalog.NewProduct(catalog.ProductInput{
			Name:                 name,
			Price:                decimal.NewFromInt(500),
			Stock:                4,
			CategoryID:           category.ID,
			IsPublished:          true,
			WarrantyPeriodMonths: 12,
		})
		require.NoError(t, err)
		require.NoError(t, products.Save(ctx, p))
		lines = append(lines, trade.PlacementLine{ProductID: p.ID, ProductName: p.Name, Quantity: 1, UnitPrice: p.Price})
	}

	orders := persistence.NewGormOrderRepository(db.DB)
	checkout := tradeapp.NewCheckoutService(persistence.NewGormTransactionScope(db.DB), persistence.NewGormAddressRepository(db.DB), orders, nil, nil)
	placed, err := checkout.Place(ctx, trade.PlaceOrderCommand{
		CustomerID: customer.ID,
		NewAddress: &partner.AddressInput{
			RecipientName: "Hoa Le",
			Phone:         "0987654321",
			AddressLine:   "5 Nguyen Hue",
			Ward:          "Ben Nghe",
			District:      "District 1",
			Province:      "Ho Chi Minh City",
			IsDefault:     true,
		},
		PaymentMethod: trade.PaymentCashOnDelivery,
		Lines:         lines,
	})
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormWarrantyRepository(db.DB).DeleteByOrder(ctx, placed.ID))

	o, err := orders.FindByID(ctx, placed.ID)
	require.NoError(t, err)
	loaded := o.Version
	require.NoError(t, o.ChangeStatus(trade.OrderStatusDelivered))
	require.NoError(t, orders.UpdateHeader(ctx, o, loaded))
	return o
}

func TestAdminService_AutoCreateIsAllOrNothing(t *testing.T) {
	db := testutil.NewSQLiteDatabase(t)
	ctx := context.Background()
	order := deliveredOrderWithoutWarranties(t, db)

	warranties := persistence.NewGormWarrantyRepository(db.DB)
	claims := persistence.NewGormClaimRepository(db.DB)
	orders := persistence.NewGormOrderRepository(db.DB)
	products := persistence.NewGormProductRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	broken := warrantyapp.NewAdminService(warranties, claims, orders, products, &failingScope{inner: scope, failOn: 2}, nil, nil)
	_, err := broken.AutoCreate(ctx, order.ID)
	require.ErrorIs(t, err, errDiskFull)

	issued, err := warranties.FindByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, issued, "the first line's warranty must be rolled back")

	svc := warrantyapp.NewAdminService(warranties, claims, orders, products, scope, nil, nil)
	resp, err := svc.AutoCreate(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Created)

	issued, err = warranties.FindByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, issued, 2)
}
