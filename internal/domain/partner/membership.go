package partner

import (
	"strings"

	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Membership is a customer tier with an optional discount
type Membership struct {
	shared.BaseEntity
	Name               string
	Description        string
	DiscountPercentage *decimal.Decimal
	MinimumSpend       *decimal.Decimal
	IsActive           bool

	// CustomerCount is filled by list queries
	CustomerCount int64
}

// MembershipInput carries the editable attributes of a membership
type MembershipInput struct {
	Name               string
	Description        string
	DiscountPercentage *decimal.Decimal
	MinimumSpend       *decimal.Decimal
	IsActive           bool
}

// NewMembership creates a membership tier
func NewMembership(in MembershipInput) (*Membership, error) {
	m := &Membership{BaseEntity: shared.NewBaseEntity()}
	if err := m.Update(in); err != nil {
		return nil, err
	}
	return m, nil
}

// Update replaces the editable attributes
func (m *Membership) Update(in MembershipInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Membership name cannot be empty")
	}
	if in.DiscountPercentage != nil {
		if in.DiscountPercentage.IsNegative() || in.DiscountPercentage.GreaterThan(decimal.NewFromInt(100)) {
			return shared.NewDomainError("INVALID_INPUT", "Discount percentage must be between 0 and 100")
		}
	}
	if in.MinimumSpend != nil && in.MinimumSpend.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Minimum spend cannot be negative")
	}
	m.Name = name
	m.Description = in.Description
	m.DiscountPercentage = in.DiscountPercentage
	m.MinimumSpend = in.MinimumSpend
	m.IsActive = in.IsActive
	m.Touch()
	return nil
}
