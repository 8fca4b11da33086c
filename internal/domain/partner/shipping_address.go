package partner

import (
	"strings"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/shared"
)

// ShippingAddress is a delivery address saved by a customer
type ShippingAddress struct {
	shared.BaseEntity
	CustomerID    uuid.UUID
	RecipientName string
	Phone         string
	AddressLine   string
	Ward          string
	District      string
	Province      string
	IsDefault     bool
}

// AddressInput is the payload for a new shipping address
type AddressInput struct {
	RecipientName string
	Phone         string
	AddressLine   string
	Ward          string
	District      string
	Province      string
	IsDefault     bool
}

// IsComplete reports whether every address field is non-blank
func (in AddressInput) IsComplete() bool {
	for _, f := range []string{in.RecipientName, in.Phone, in.AddressLine, in.Ward, in.District, in.Province} {
		if strings.TrimSpace(f) == "" {
			return false
		}
	}
	return true
}

// NewShippingAddress validates and creates an address with trimmed fields
func NewShippingAddress(customerID uuid.UUID, in AddressInput) (*ShippingAddress, error) {
	if !in.IsComplete() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Please fill in all fields of the new address")
	}
	return &ShippingAddress{
		BaseEntity:    shared.NewBaseEntity(),
		CustomerID:    customerID,
		RecipientName: strings.TrimSpace(in.RecipientName),
		Phone:         strings.TrimSpace(in.Phone),
		AddressLine:   strings.TrimSpace(in.AddressLine),
		Ward:          strings.TrimSpace(in.Ward),
		District:      strings.TrimSpace(in.District),
		Province:      strings.TrimSpace(in.Province),
		IsDefault:     in.IsDefault,
	}, nil
}

// FullAddress joins the address parts for display
func (a *ShippingAddress) FullAddress() string {
	return strings.Join([]string{a.AddressLine, a.Ward, a.District, a.Province}, ", ")
}
