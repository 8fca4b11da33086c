package warranty

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	tradeapp "github.com/phonestore/backend/internal/application/trade"
	"github.com/phonestore/backend/internal/domain/catalog"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/domain/trade"
	"github.com/phonestore/backend/internal/domain/warranty"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type adminFixture struct {
	warranties *MockWarrantyRepository
	claims     *MockClaimRepository
	orders     *MockOrderRepository
	products   *MockProductRepository
	publisher  *recordingPublisher
	svc        *AdminService
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		warranties: new(MockWarrantyRepository),
		claims:     new(MockClaimRepository),
		orders:     new(MockOrderRepository),
		products:   new(MockProductRepository),
		publisher:  &recordingPublisher{},
	}
	codes := warranty.NewCodeGeneratorWithSource(func(int) int { return 234 })
	scope := tradeapp.NewNoOpTransactionScope(f.orders, f.products, nil, f.warranties)
	f.svc = NewAdminService(f.warranties, f.claims, f.orders, f.products, scope, codes, nil)
	f.svc.now = func() time.Time { return fixedNow }
	f.svc.SetEventPublisher(f.publisher)
	return f
}

func newProduct(t *testing.T, name string, months int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(catalog.ProductInput{
		Name:                 name,
		Price:                decimal.NewFromInt(100),
		Stock:                5,
		CategoryID:           uuid.New(),
		IsPublished:          true,
		WarrantyPeriodMonths: months,
	})
	require.NoError(t, err)
	return p
}

func newOrder(t *testing.T, status trade.OrderStatus, products ...*catalog.Product) *trade.Order {
	t.Helper()
	o, err := trade.NewOrder(uuid.New(), uuid.New(), decimal.NewFromInt(100), trade.PaymentCashOnDelivery, "", fixedNow)
	require.NoError(t, err)
	for _, p := range products {
		d := trade.NewOrderDetail(p.ID, nil, 1, decimal.NewFromInt(100))
		d.OrderID = o.ID
		o.AddDetail(d)
	}
	o.Status = status
	return o
}

func TestAdminService_AutoCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("issues warranties for covered lines only", func(t *testing.T) {
		f := newAdminFixture()
		covered := newProduct(t, "Phone A", 12)
		uncovered := newProduct(t, "Case", 0)
		already := newProduct(t, "Phone B", 6)
		o := newOrder(t, trade.OrderStatusDelivered, covered, uncovered, already)

		f.orders.On("FindByID", ctx, o.ID).Return(o, nil)
		f.warranties.On("ExistsForOrderDetail", ctx, o.Details[0].ID).Return(false, nil)
		f.warranties.On("ExistsForOrderDetail", ctx, o.Details[1].ID).Return(false, nil)
		f.warranties.On("ExistsForOrderDetail", ctx, o.Details[2].ID).Return(true, nil)
		f.products.On("FindByID", ctx, covered.ID).Return(covered, nil)
		f.products.On("FindByID", ctx, uncovered.ID).Return(uncovered, nil)
		f.warranties.On("ExistsByCode", ctx, "WR202506151234").Return(false, nil)
		f.warranties.On("Create", ctx, mock.AnythingOfType("*warranty.Warranty")).Return(nil)

		resp, err := f.svc.AutoCreate(ctx, o.ID)

		require.NoError(t, err)
		assert.Equal(t, 1, resp.Created)
		assert.Equal(t, 2, resp.Skipped)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "Phone A", resp.Items[0].ProductName)
		assert.Equal(t, fixedNow.AddDate(0, 12, 0), resp.Items[0].EndDate)
		assert.Equal(t, []string{warranty.EventTypeWarrantyIssued}, f.publisher.types())
	})

	t.Run("requires a delivered order", func(t *testing.T) {
		f := newAdminFixture()
		o := newOrder(t, trade.OrderStatusShipping, newProduct(t, "Phone A", 12))
		f.orders.On("FindByID", ctx, o.ID).Return(o, nil)

		_, err := f.svc.AutoCreate(ctx, o.ID)

		assert.ErrorIs(t, err, shared.ErrInvalidState)
		f.warranties.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("failed insert publishes nothing", func(t *testing.T) {
		f := newAdminFixture()
		first := newProduct(t, "Phone A", 12)
		second := newProduct(t, "Phone B", 12)
		o := newOrder(t, trade.OrderStatusDelivered, first, second)
		f.orders.On("FindByID", ctx, o.ID).Return(o, nil)
		f.warranties.On("ExistsForOrderDetail", ctx, mock.Anything).Return(false, nil)
		f.products.On("FindByID", ctx, first.ID).Return(first, nil)
		f.products.On("FindByID", ctx, second.ID).Return(second, nil)
		f.warranties.On("ExistsByCode", ctx, mock.Anything).Return(false, nil)
		f.warranties.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.warranties.On("Create", ctx, mock.Anything).Return(errors.New("disk full")).Once()

		_, err := f.svc.AutoCreate(ctx, o.ID)

		require.Error(t, err)
		assert.Empty(t, f.publisher.types())
	})
}

func TestAdminService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("uses the product period by default", func(t *testing.T) {
		f := newAdminFixture()
		p := newProduct(t, "Phone A", 24)
		o := newOrder(t, trade.OrderStatusDelivered, p)
		d := o.Details[0]
		d.ProductName = p.Name

		f.orders.On("FindDetail", ctx, d.ID).Return(&d, nil)
		f.warranties.On("ExistsForOrderDetail", ctx, d.ID).Return(false, nil)
		f.orders.On("FindByID", ctx, o.ID).Return(o, nil)
		f.products.On("FindByID", ctx, p.ID).Return(p, nil)
		f.warranties.On("ExistsByCode", ctx, "WR202506151234").Return(false, nil)
		f.warranties.On("Create", ctx, mock.AnythingOfType("*warranty.Warranty")).Return(nil)

		resp, err := f.svc.Create(ctx, CreateWarrantyRequest{OrderDetailID: d.ID, Notes: " gift "})

		require.NoError(t, err)
		assert.Equal(t, 24, resp.WarrantyPeriodMonths)
		assert.Equal(t, o.CustomerID, resp.CustomerID)
		assert.Equal(t, "gift", resp.Notes)
		assert.Equal(t, "Phone A", resp.ProductName)
	})

	t.Run("cancelled order", func(t *testing.T) {
		f := newAdminFixture()
		o := newOrder(t, trade.OrderStatusCancelled, newProduct(t, "Phone A", 12))
		d := o.Details[0]
		f.orders.On("FindDetail", ctx, d.ID).Return(&d, nil)
		f.warranties.On("ExistsForOrderDetail", ctx, d.ID).Return(false, nil)
		f.orders.On("FindByID", ctx, o.ID).Return(o, nil)

		_, err := f.svc.Create(ctx, CreateWarrantyRequest{OrderDetailID: d.ID})

		assert.ErrorIs(t, err, shared.ErrInvalidState)
		f.warranties.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("line already covered", func(t *testing.T) {
		f := newAdminFixture()
		o := newOrder(t, trade.OrderStatusDelivered, newProduct(t, "Phone A", 12))
		d := o.Details[0]
		f.orders.On("FindDetail", ctx, d.ID).Return(&d, nil)
		f.warranties.On("ExistsForOrderDetail", ctx, d.ID).Return(true, nil)

		_, err := f.svc.Create(ctx, CreateWarrantyRequest{OrderDetailID: d.ID})

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("unknown line", func(t *testing.T) {
		f := newAdminFixture()
		id := uuid.New()
		f.orders.On("FindDetail", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Create(ctx, CreateWarrantyRequest{OrderDetailID: id})

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestAdminService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		from    warranty.Status
		to      string
		wantErr error
	}{
		{name: "active to void", from: warranty.StatusActive, to: "Void"},
		{name: "expired back to active", from: warranty.StatusExpired, to: "Active"},
		{name: "void is terminal", from: warranty.StatusVoid, to: "Active", wantErr: shared.ErrInvalidState},
		{name: "transferred is terminal", from: warranty.StatusTransferred, to: "Void", wantErr: shared.ErrInvalidState},
		{name: "unknown status", from: warranty.StatusActive, to: "Lost", wantErr: shared.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAdminFixture()
			w := newActiveWarranty(t, uuid.New(), fixedNow)
			w.Status = tt.from
			f.warranties.On("FindByID", ctx, w.ID).Return(w, nil)
			f.warranties.On("Save", ctx, w).Return(nil)

			resp, err := f.svc.UpdateStatus(ctx, w.ID, UpdateStatusRequest{Status: tt.to})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				f.warranties.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, resp.Status)
		})
	}
}

func TestAdminService_ProcessClaim(t *testing.T) {
	ctx := context.Background()

	newPendingClaim := func(t *testing.T) *warranty.Claim {
		w := newActiveWarranty(t, uuid.New(), fixedNow)
		c, err := warranty.NewClaim(w, "WC1", warranty.IssueScreen, "cracked", fixedNow)
		require.NoError(t, err)
		c.PullEvents()
		return c
	}

	t.Run("approve stamps the processor", func(t *testing.T) {
		f := newAdminFixture()
		c := newPendingClaim(t)
		f.claims.On("FindByID", ctx, c.ID).Return(c, nil)
		f.claims.On("Save", ctx, c).Return(nil)

		resp, err := f.svc.ProcessClaim(ctx, c.ID, "alice", ProcessClaimRequest{
			Status:         "Approved",
			Resolution:     "Replace screen",
			ResolutionType: "repair",
		})

		require.NoError(t, err)
		assert.Equal(t, "Approved", resp.Status)
		assert.Equal(t, "alice", resp.ProcessedBy)
		require.NotNil(t, resp.ProcessedAt)
		assert.Equal(t, fixedNow, *resp.ProcessedAt)
		assert.Nil(t, resp.CompletedAt)
		assert.Equal(t, []string{warranty.EventTypeClaimStatusChanged}, f.publisher.types())
	})

	t.Run("completion sets completed at", func(t *testing.T) {
		f := newAdminFixture()
		c := newPendingClaim(t)
		c.Status = warranty.ClaimApproved
		f.claims.On("FindByID", ctx, c.ID).Return(c, nil)
		f.claims.On("Save", ctx, c).Return(nil)

		resp, err := f.svc.UpdateClaimStatus(ctx, c.ID, "", ClaimStatusRequest{Status: "Completed"})

		require.NoError(t, err)
		assert.Equal(t, "Admin", resp.ProcessedBy)
		require.NotNil(t, resp.CompletedAt)
	})

	t.Run("completed claim cannot reopen", func(t *testing.T) {
		f := newAdminFixture()
		c := newPendingClaim(t)
		c.Status = warranty.ClaimCompleted
		f.claims.On("FindByID", ctx, c.ID).Return(c, nil)

		_, err := f.svc.UpdateClaimStatus(ctx, c.ID, "alice", ClaimStatusRequest{Status: "Pending"})

		assert.ErrorIs(t, err, shared.ErrInvalidState)
		f.claims.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestAdminService_ListClaimsRejectsUnknownStatus(t *testing.T) {
	f := newAdminFixture()
	_, err := f.svc.ListClaims(context.Background(), ClaimListFilter{Status: "Lost"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestAdminService_ExpireOverdue(t *testing.T) {
	ctx := context.Background()

	t.Run("passes the clock to the repository", func(t *testing.T) {
		f := newAdminFixture()
		f.warranties.On("ExpireOverdue", ctx, fixedNow).Return(int64(3), nil)

		n, err := f.svc.ExpireOverdue(ctx)

		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
		f.warranties.AssertExpectations(t)
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newAdminFixture()
		f.warranties.On("ExpireOverdue", ctx, fixedNow).Return(int64(0), assert.AnError)

		_, err := f.svc.ExpireOverdue(ctx)

		assert.ErrorIs(t, err, assert.AnError)
	})
}
