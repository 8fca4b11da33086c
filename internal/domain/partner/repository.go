package partner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CustomerFilter narrows customer listings.
// Search matches name, email or phone.
type CustomerFilter struct {
	shared.Filter
	MembershipID *uuid.UUID
}

// CustomerStats summarizes a customer's purchase history
type CustomerStats struct {
	OrderCount    int64
	TotalSpent    decimal.Decimal
	LastOrderDate *time.Time
}

// MembershipSpend aggregates customer spend for one membership tier.
// A nil MembershipID groups customers without a membership.
type MembershipSpend struct {
	MembershipID   *uuid.UUID
	MembershipName string
	CustomerCount  int64
	OrderCount     int64
	TotalSpent     decimal.Decimal
}

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	FindAll(ctx context.Context, filter CustomerFilter) ([]Customer, int64, error)
	ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error)
	Stats(ctx context.Context, id uuid.UUID) (*CustomerStats, error)
	HasOrders(ctx context.Context, id uuid.UUID) (bool, error)
	SpendByMembership(ctx context.Context) ([]MembershipSpend, error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, customer *Customer) error
	// Delete removes the customer together with their saved addresses
	Delete(ctx context.Context, id uuid.UUID) error
}

// AddressRepository defines the interface for shipping address persistence
type AddressRepository interface {
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]ShippingAddress, error)
	FindByIDForCustomer(ctx context.Context, customerID, id uuid.UUID) (*ShippingAddress, error)
	// Create inserts the address, clearing the default flag on the
	// customer's other addresses first when the new one is the default.
	Create(ctx context.Context, address *ShippingAddress) error
}

// MembershipRepository defines the interface for membership persistence
type MembershipRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Membership, error)
	FindAll(ctx context.Context) ([]Membership, error)
	ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
	CountCustomers(ctx context.Context, id uuid.UUID) (int64, error)
	Save(ctx context.Context, membership *Membership) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CouponFilter narrows coupon listings
type CouponFilter struct {
	shared.Filter
	Status CouponStatus
	Now    time.Time
}

// CouponRepository defines the interface for coupon persistence
type CouponRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Coupon, error)
	FindAll(ctx context.Context, filter CouponFilter) ([]Coupon, int64, error)
	ExistsByCode(ctx context.Context, code string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, coupon *Coupon) error
	Delete(ctx context.Context, id uuid.UUID) error
}
