package warranty

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/domain/warranty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

type serviceFixture struct {
	warranties *MockWarrantyRepository
	claims     *MockClaimRepository
	publisher  *recordingPublisher
	svc        *Service
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		warranties: new(MockWarrantyRepository),
		claims:     new(MockClaimRepository),
		publisher:  &recordingPublisher{},
	}
	codes := warranty.NewCodeGeneratorWithSource(func(int) int { return 234 })
	f.svc = NewService(f.warranties, f.claims, codes, stubQR{}, nil)
	f.svc.now = func() time.Time { return fixedNow }
	f.svc.SetEventPublisher(f.publisher)
	return f
}

func newActiveWarranty(t *testing.T, customerID uuid.UUID, start time.Time) *warranty.Warranty {
	t.Helper()
	w, err := warranty.NewWarranty(uuid.New(), customerID, "WR202506011111", 12, start)
	require.NoError(t, err)
	w.PullEvents()
	w.ProductName = "Phone A"
	return w
}

func TestService_SubmitClaim(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()

	t.Run("opens a pending claim on an active warranty", func(t *testing.T) {
		f := newServiceFixture()
		w := newActiveWarranty(t, customerID, fixedNow.AddDate(0, -1, 0))
		f.warranties.On("FindByIDForCustomer", ctx, customerID, w.ID).Return(w, nil)
		f.claims.On("ExistsByCode", ctx, "WC250615093000334").Return(false, nil)
		f.claims.On("Create", ctx, mock.AnythingOfType("*warranty.Claim")).Return(nil)

		resp, err := f.svc.SubmitClaim(ctx, customerID, w.ID, SubmitClaimRequest{
			IssueType:        "screen",
			IssueDescription: "  Cracked display  ",
		})

		require.NoError(t, err)
		assert.Equal(t, "WC250615093000334", resp.ClaimCode)
		assert.Equal(t, "Pending", resp.Status)
		assert.Equal(t, "Cracked display", resp.IssueDescription)
		assert.Equal(t, "Phone A", resp.ProductName)
		assert.Equal(t, []string{warranty.EventTypeClaimSubmitted}, f.publisher.types())
	})

	t.Run("expired warranty is refused", func(t *testing.T) {
		f := newServiceFixture()
		w := newActiveWarranty(t, customerID, fixedNow.AddDate(-2, 0, 0))
		f.warranties.On("FindByIDForCustomer", ctx, customerID, w.ID).Return(w, nil)
		f.claims.On("ExistsByCode", ctx, mock.Anything).Return(false, nil)

		_, err := f.svc.SubmitClaim(ctx, customerID, w.ID, SubmitClaimRequest{IssueType: "screen", IssueDescription: "x"})

		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.claims.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("someone else's warranty is not found", func(t *testing.T) {
		f := newServiceFixture()
		id := uuid.New()
		f.warranties.On("FindByIDForCustomer", ctx, customerID, id).Return(nil, shared.ErrNotFound)
		f.claims.On("ExistsByCode", ctx, mock.Anything).Return(false, nil)

		_, err := f.svc.SubmitClaim(ctx, customerID, id, SubmitClaimRequest{IssueType: "screen", IssueDescription: "x"})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unknown issue type", func(t *testing.T) {
		f := newServiceFixture()
		w := newActiveWarranty(t, customerID, fixedNow)
		f.warranties.On("FindByIDForCustomer", ctx, customerID, w.ID).Return(w, nil)
		f.claims.On("ExistsByCode", ctx, mock.Anything).Return(false, nil)

		_, err := f.svc.SubmitClaim(ctx, customerID, w.ID, SubmitClaimRequest{IssueType: "water", IssueDescription: "wet"})

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestService_CheckByCode(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes the code", func(t *testing.T) {
		f := newServiceFixture()
		w := newActiveWarranty(t, uuid.New(), fixedNow.AddDate(0, -11, -20))
		f.warranties.On("FindByCode", ctx, "WR202506011111").Return(w, nil)

		info, err := f.svc.CheckByCode(ctx, "  wr202506011111 ")

		require.NoError(t, err)
		assert.True(t, info.IsActive)
		assert.Equal(t, "Active", info.EffectiveStatus)
		assert.Equal(t, 10, info.DaysRemaining)
	})

	t.Run("empty code", func(t *testing.T) {
		f := newServiceFixture()
		_, err := f.svc.CheckByCode(ctx, "   ")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("unknown code", func(t *testing.T) {
		f := newServiceFixture()
		f.warranties.On("FindByCode", ctx, "WR1").Return(nil, shared.ErrNotFound)

		_, err := f.svc.CheckByCode(ctx, "WR1")

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Contains(t, err.Error(), "WR1")
	})
}

func TestService_ListIncludesStats(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	customerID := uuid.New()
	w := newActiveWarranty(t, customerID, fixedNow.AddDate(-1, 0, -1))

	f.warranties.On("FindAll", ctx, mock.MatchedBy(func(filter warranty.Filter) bool {
		return filter.CustomerID != nil && *filter.CustomerID == customerID && filter.Page == 1
	})).Return([]warranty.Warranty{*w}, int64(1), nil)
	f.warranties.On("Stats", ctx, &customerID, fixedNow).Return(&warranty.Stats{Total: 1, Expired: 1}, nil)

	resp, err := f.svc.List(ctx, customerID, ListFilter{})

	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Expired", resp.Items[0].EffectiveStatus)
	assert.False(t, resp.Items[0].IsActive)
	assert.Equal(t, int64(1), resp.Stats.Expired)
}

func TestService_ListRejectsUnknownStatus(t *testing.T) {
	f := newServiceFixture()
	_, err := f.svc.List(context.Background(), uuid.New(), ListFilter{Status: "Lost"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestService_GetIncludesClaims(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	customerID := uuid.New()
	w := newActiveWarranty(t, customerID, fixedNow)
	c, err := warranty.NewClaim(w, "WC1", warranty.IssueBattery, "drains", fixedNow)
	require.NoError(t, err)

	f.warranties.On("FindByIDForCustomer", ctx, customerID, w.ID).Return(w, nil)
	f.claims.On("FindByWarranty", ctx, w.ID).Return([]warranty.Claim{*c}, nil)

	resp, err := f.svc.Get(ctx, customerID, w.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, resp.ClaimCount)
	require.Len(t, resp.Claims, 1)
	assert.Equal(t, "WC1", resp.Claims[0].ClaimCode)
}

func TestService_QRCode(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	customerID := uuid.New()
	w := newActiveWarranty(t, customerID, fixedNow)
	f.warranties.On("FindByIDForCustomer", ctx, customerID, w.ID).Return(w, nil)

	png, err := f.svc.QRCode(ctx, customerID, w.ID)

	require.NoError(t, err)
	assert.Equal(t, []byte(w.WarrantyCode), png)
}
