package partner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/partner"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByEmail(ctx context.Context, email string) (*partner.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter partner.CustomerFilter) ([]partner.Customer, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Stats(ctx context.Context, id uuid.UUID) (*partner.CustomerStats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.CustomerStats), args.Error(1)
}

func (m *MockCustomerRepository) HasOrders(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) SpendByMembership(ctx context.Context) ([]partner.MembershipSpend, error) {
	args := m.Called(ctx)
	return args.Get(0).([]partner.MembershipSpend), args.Error(1)
}

func (m *MockCustomerRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]partner.ShippingAddress, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]partner.ShippingAddress), args.Error(1)
}

func (m *MockAddressRepository) FindByIDForCustomer(ctx context.Context, customerID, id uuid.UUID) (*partner.ShippingAddress, error) {
	args := m.Called(ctx, customerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.ShippingAddress), args.Error(1)
}

func (m *MockAddressRepository) Create(ctx context.Context, address *partner.ShippingAddress) error {
	return m.Called(ctx, address).Error(0)
}

type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Membership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Membership), args.Error(1)
}

func (m *MockMembershipRepository) FindAll(ctx context.Context) ([]partner.Membership, error) {
	args := m.Called(ctx)
	return args.Get(0).([]partner.Membership), args.Error(1)
}

func (m *MockMembershipRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMembershipRepository) CountCustomers(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMembershipRepository) Save(ctx context.Context, membership *partner.Membership) error {
	return m.Called(ctx, membership).Error(0)
}

func (m *MockMembershipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Coupon, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Coupon), args.Error(1)
}

func (m *MockCouponRepository) FindAll(ctx context.Context, filter partner.CouponFilter) ([]partner.Coupon, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Coupon), args.Get(1).(int64), args.Error(2)
}

func (m *MockCouponRepository) ExistsByCode(ctx context.Context, code string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, code, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCouponRepository) Save(ctx context.Context, coupon *partner.Coupon) error {
	return m.Called(ctx, coupon).Error(0)
}

func (m *MockCouponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// plainHasher prefixes the password so tests can assert on the stored hash
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// =============================================================================
// Tests
// =============================================================================

type customerFixture struct {
	customers   *MockCustomerRepository
	addresses   *MockAddressRepository
	memberships *MockMembershipRepository
	svc         *CustomerService
}

func newCustomerFixture() *customerFixture {
	f := &customerFixture{
		customers:   new(MockCustomerRepository),
		addresses:   new(MockAddressRepository),
		memberships: new(MockMembershipRepository),
	}
	f.svc = NewCustomerService(f.customers, f.addresses, f.memberships, plainHasher{}, nil)
	return f
}

func newTestCustomer(t *testing.T) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(partner.CustomerProfile{Name: "An Nguyen", Email: "an@example.com"}, "hashed:secret1")
	require.NoError(t, err)
	return c
}

func TestCustomerService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("stores normalized email and hashed password", func(t *testing.T) {
		f := newCustomerFixture()
		f.customers.On("ExistsByEmail", ctx, "an@example.com", (*uuid.UUID)(nil)).Return(false, nil)
		f.customers.On("Save", ctx, mock.MatchedBy(func(c *partner.Customer) bool {
			return c.PasswordHash == "hashed:secret1"
		})).Return(nil)

		resp, err := f.svc.Register(ctx, RegisterCustomerRequest{Name: "An", Email: " AN@Example.com ", Password: "secret1"})

		require.NoError(t, err)
		assert.Equal(t, "an@example.com", resp.Email)
		f.customers.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newCustomerFixture()
		f.customers.On("ExistsByEmail", ctx, "an@example.com", (*uuid.UUID)(nil)).Return(true, nil)

		_, err := f.svc.Register(ctx, RegisterCustomerRequest{Name: "An", Email: "an@example.com", Password: "secret1"})

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		f.customers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCustomerService_Authenticate(t *testing.T) {
	ctx := context.Background()
	c := newTestCustomer(t)

	tests := []struct {
		name     string
		email    string
		password string
		found    bool
		wantErr  bool
	}{
		{name: "valid credentials", email: "AN@example.com", password: "secret1", found: true},
		{name: "wrong password", email: "an@example.com", password: "nope", found: true, wantErr: true},
		{name: "unknown email", email: "ghost@example.com", password: "secret1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCustomerFixture()
			if tt.found {
				f.customers.On("FindByEmail", ctx, partner.NormalizeEmail(tt.email)).Return(c, nil)
			} else {
				f.customers.On("FindByEmail", ctx, partner.NormalizeEmail(tt.email)).Return(nil, shared.ErrNotFound)
			}

			resp, err := f.svc.Authenticate(ctx, LoginCustomerRequest{Email: tt.email, Password: tt.password})

			if tt.wantErr {
				assert.ErrorIs(t, err, shared.ErrUnauthorized)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.ID, resp.ID)
		})
	}
}

func TestCustomerService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newCustomerFixture()
	c := newTestCustomer(t)
	f.customers.On("FindByID", ctx, c.ID).Return(c, nil)
	f.customers.On("HasOrders", ctx, c.ID).Return(true, nil)

	err := f.svc.Delete(ctx, c.ID)

	assert.ErrorIs(t, err, shared.ErrHasReferences)
	f.customers.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCustomerService_UpdateUnknownMembership(t *testing.T) {
	ctx := context.Background()
	f := newCustomerFixture()
	c := newTestCustomer(t)
	tier := uuid.New()
	f.customers.On("FindByID", ctx, c.ID).Return(c, nil)
	f.memberships.On("FindByID", ctx, tier).Return(nil, shared.ErrNotFound)

	_, err := f.svc.Update(ctx, c.ID, CustomerRequest{Name: "An", Email: "an@example.com", MembershipID: &tier})

	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestCustomerService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	f := newCustomerFixture()
	c := newTestCustomer(t)
	tier := uuid.New()
	c.MembershipID = &tier
	f.customers.On("FindByID", ctx, c.ID).Return(c, nil)
	f.customers.On("ExistsByEmail", ctx, "an.tran@example.com", &c.ID).Return(false, nil)
	f.customers.On("Save", ctx, c).Return(nil)

	resp, err := f.svc.UpdateProfile(ctx, c.ID, ProfileRequest{Name: "An Tran", Email: "An.Tran@example.com", Phone: "0901234567"})

	require.NoError(t, err)
	assert.Equal(t, "an.tran@example.com", resp.Email)
	require.NotNil(t, c.MembershipID)
	assert.Equal(t, tier, *c.MembershipID, "self-service edits keep the membership tier")
	assert.Equal(t, "hashed:secret1", c.PasswordHash)
}

func TestCustomerService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		req     ChangePasswordRequest
		wantErr error
	}{
		{
			name: "changes the stored hash",
			req:  ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "secret22", ConfirmPassword: "secret22"},
		},
		{
			name:    "wrong current password",
			req:     ChangePasswordRequest{CurrentPassword: "guess", NewPassword: "secret22", ConfirmPassword: "secret22"},
			wantErr: shared.ErrInvalidInput,
		},
		{
			name:    "too short",
			req:     ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "short1", ConfirmPassword: "short1"},
			wantErr: shared.ErrInvalidInput,
		},
		{
			name:    "confirmation mismatch",
			req:     ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "secret22", ConfirmPassword: "secret23"},
			wantErr: shared.ErrInvalidInput,
		},
		{
			name:    "same as current",
			req:     ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "secret123", ConfirmPassword: "secret123"},
			wantErr: shared.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCustomerFixture()
			c := newTestCustomer(t)
			f.customers.On("FindByID", ctx, c.ID).Return(c, nil).Maybe()
			f.customers.On("Save", ctx, c).Return(nil).Maybe()

			err := f.svc.ChangePassword(ctx, c.ID, tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, "hashed:secret1", c.PasswordHash)
				f.customers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "hashed:secret22", c.PasswordHash)
		})
	}
}

func TestCustomerService_AddAddress(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()

	t.Run("incomplete address", func(t *testing.T) {
		f := newCustomerFixture()
		_, err := f.svc.AddAddress(ctx, customerID, AddressRequest{RecipientName: "An", Phone: " "})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("saves trimmed address", func(t *testing.T) {
		f := newCustomerFixture()
		f.addresses.On("Create", ctx, mock.AnythingOfType("*partner.ShippingAddress")).Return(nil)

		resp, err := f.svc.AddAddress(ctx, customerID, AddressRequest{
			RecipientName: " An ", Phone: "0901", AddressLine: "1 Le Loi", Ward: "Ben Nghe", District: "1", Province: "HCMC", IsDefault: true,
		})

		require.NoError(t, err)
		assert.Equal(t, "An", resp.RecipientName)
		assert.Equal(t, "1 Le Loi, Ben Nghe, 1, HCMC", resp.FullAddress)
		assert.True(t, resp.IsDefault)
	})
}

func TestCustomerService_Report(t *testing.T) {
	ctx := context.Background()
	f := newCustomerFixture()
	gold := uuid.New()
	f.customers.On("Count", ctx).Return(int64(3), nil)
	f.customers.On("SpendByMembership", ctx).Return([]partner.MembershipSpend{
		{MembershipID: &gold, MembershipName: "Gold", CustomerCount: 1, OrderCount: 2, TotalSpent: decimal.NewFromInt(500)},
		{CustomerCount: 2, OrderCount: 1, TotalSpent: decimal.NewFromInt(100)},
	}, nil)

	report, err := f.svc.Report(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(3), report.TotalCustomers)
	assert.True(t, decimal.NewFromInt(600).Equal(report.TotalSpent))
	require.Len(t, report.ByMembership, 2)
	assert.Equal(t, "No membership", report.ByMembership[1].MembershipName)
}

func TestMembershipService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMembershipRepository)
	svc := NewMembershipService(repo)
	id := uuid.New()
	repo.On("FindByID", ctx, id).Return(&partner.Membership{}, nil)
	repo.On("CountCustomers", ctx, id).Return(int64(4), nil)

	assert.ErrorIs(t, svc.Delete(ctx, id), shared.ErrHasReferences)
}

func TestCouponService(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("create uppercases and rejects duplicates", func(t *testing.T) {
		repo := new(MockCouponRepository)
		svc := NewCouponService(repo)
		svc.now = func() time.Time { return now }
		repo.On("ExistsByCode", ctx, "SPRING10", (*uuid.UUID)(nil)).Return(true, nil)

		_, err := svc.Create(ctx, CouponRequest{Code: " spring10 ", DiscountAmount: decimal.NewFromInt(10)})

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("list reports derived status", func(t *testing.T) {
		repo := new(MockCouponRepository)
		svc := NewCouponService(repo)
		svc.now = func() time.Time { return now }
		past := now.Add(-time.Hour)
		expired, err := partner.NewCoupon("OLD", decimal.NewFromInt(5), &past)
		require.NoError(t, err)

		repo.On("FindAll", ctx, mock.MatchedBy(func(f partner.CouponFilter) bool {
			return f.Status == partner.CouponStatusExpired && f.Now.Equal(now)
		})).Return([]partner.Coupon{*expired}, int64(1), nil)

		page, err := svc.List(ctx, CouponListFilter{Status: "expired"})

		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "expired", page.Items[0].Status)
	})
}
