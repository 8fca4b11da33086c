package partner

import (
	"strings"
	"time"

	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CouponStatus is derived from the used flag and expiry date
type CouponStatus string

const (
	CouponStatusActive  CouponStatus = "active"
	CouponStatusUsed    CouponStatus = "used"
	CouponStatusExpired CouponStatus = "expired"
)

// Coupon is a one-time fixed amount voucher
type Coupon struct {
	shared.BaseEntity
	Code           string
	DiscountAmount decimal.Decimal
	ExpiryDate     *time.Time
	IsUsed         bool
	UsedAt         *time.Time
}

// NewCoupon creates a coupon with an upper-cased code
func NewCoupon(code string, amount decimal.Decimal, expiry *time.Time) (*Coupon, error) {
	c := &Coupon{BaseEntity: shared.NewBaseEntity()}
	if err := c.Update(code, amount, expiry); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the code, amount and expiry
func (c *Coupon) Update(code string, amount decimal.Decimal, expiry *time.Time) error {
	code = NormalizeCouponCode(code)
	if code == "" {
		return shared.NewDomainError("INVALID_INPUT", "Coupon code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_INPUT", "Coupon code cannot exceed 50 characters")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_INPUT", "Discount amount must be positive")
	}
	c.Code = code
	c.DiscountAmount = amount
	c.ExpiryDate = expiry
	c.Touch()
	return nil
}

// MarkUsed records that the coupon has been redeemed
func (c *Coupon) MarkUsed(at time.Time) error {
	if c.IsUsed {
		return shared.NewDomainError("INVALID_STATE", "Coupon has already been used")
	}
	if c.IsExpiredAt(at) {
		return shared.NewDomainError("INVALID_STATE", "Coupon has expired")
	}
	c.IsUsed = true
	c.UsedAt = &at
	c.Touch()
	return nil
}

// IsExpiredAt reports whether the coupon is past its expiry date at t
func (c *Coupon) IsExpiredAt(t time.Time) bool {
	return c.ExpiryDate != nil && t.After(*c.ExpiryDate)
}

// StatusAt derives the coupon status at t
func (c *Coupon) StatusAt(t time.Time) CouponStatus {
	switch {
	case c.IsUsed:
		return CouponStatusUsed
	case c.IsExpiredAt(t):
		return CouponStatusExpired
	default:
		return CouponStatusActive
	}
}

// NormalizeCouponCode trims and upper-cases a coupon code
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
