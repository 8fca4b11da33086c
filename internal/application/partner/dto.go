package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/partner"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Customer DTOs
// =============================================================================

// RegisterCustomerRequest is the storefront sign-up payload
type RegisterCustomerRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	Email     string `json:"email" binding:"required,email,max=200"`
	Phone     string `json:"phone" binding:"max=20"`
	BirthYear *int   `json:"birth_year" binding:"omitempty,min=1900"`
	Password  string `json:"password" binding:"required,min=6,max=72"`
}

// LoginCustomerRequest is the storefront sign-in payload
type LoginCustomerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ProfileRequest is the storefront self-service profile payload
type ProfileRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	Email     string `json:"email" binding:"required,email,max=200"`
	Phone     string `json:"phone" binding:"max=20"`
	BirthYear *int   `json:"birth_year" binding:"omitempty,min=1900"`
}

// ChangePasswordRequest is the storefront password change payload
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// CustomerRequest is the admin create/update payload.
// Password is optional; when empty on update the stored hash is kept.
type CustomerRequest struct {
	Name         string     `json:"name" binding:"required,min=1,max=100"`
	Email        string     `json:"email" binding:"required,email,max=200"`
	Phone        string     `json:"phone" binding:"max=20"`
	BirthYear    *int       `json:"birth_year" binding:"omitempty,min=1900"`
	MembershipID *uuid.UUID `json:"membership_id"`
	Password     string     `json:"password" binding:"omitempty,min=6,max=72"`
}

func (r CustomerRequest) profile() partner.CustomerProfile {
	return partner.CustomerProfile{
		Name:         r.Name,
		Email:        r.Email,
		Phone:        r.Phone,
		BirthYear:    r.BirthYear,
		MembershipID: r.MembershipID,
	}
}

// CustomerListFilter is the admin customer search
type CustomerListFilter struct {
	Search       string     `form:"search"`
	MembershipID *uuid.UUID `form:"membership_id"`
	Page         int        `form:"page" binding:"omitempty,min=1"`
	PageSize     int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	BirthYear      *int       `json:"birth_year,omitempty"`
	MembershipID   *uuid.UUID `json:"membership_id,omitempty"`
	MembershipName string     `json:"membership_name,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CustomerDetailResponse adds purchase statistics and addresses
type CustomerDetailResponse struct {
	CustomerResponse
	OrderCount    int64             `json:"order_count"`
	TotalSpent    decimal.Decimal   `json:"total_spent"`
	LastOrderDate *time.Time        `json:"last_order_date,omitempty"`
	Addresses     []AddressResponse `json:"addresses"`
}

// MembershipSpendResponse is one row of the customer report
type MembershipSpendResponse struct {
	MembershipID   *uuid.UUID      `json:"membership_id,omitempty"`
	MembershipName string          `json:"membership_name"`
	CustomerCount  int64           `json:"customer_count"`
	OrderCount     int64           `json:"order_count"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
}

// CustomerReportResponse summarizes customers and their spend
type CustomerReportResponse struct {
	TotalCustomers int64                     `json:"total_customers"`
	TotalSpent     decimal.Decimal           `json:"total_spent"`
	ByMembership   []MembershipSpendResponse `json:"by_membership"`
}

// ToCustomerResponse converts a domain customer to a response
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:             c.ID,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		BirthYear:      c.BirthYear,
		MembershipID:   c.MembershipID,
		MembershipName: c.MembershipName,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// =============================================================================
// Address DTOs
// =============================================================================

// AddressRequest is a new shipping address
type AddressRequest struct {
	RecipientName string `json:"recipient_name" binding:"required,max=100"`
	Phone         string `json:"phone" binding:"required,max=20"`
	AddressLine   string `json:"address_line" binding:"required,max=255"`
	Ward          string `json:"ward" binding:"required,max=100"`
	District      string `json:"district" binding:"required,max=100"`
	Province      string `json:"province" binding:"required,max=100"`
	IsDefault     bool   `json:"is_default"`
}

// ToInput converts the request to the domain input
func (r AddressRequest) ToInput() partner.AddressInput {
	return partner.AddressInput{
		RecipientName: r.RecipientName,
		Phone:         r.Phone,
		AddressLine:   r.AddressLine,
		Ward:          r.Ward,
		District:      r.District,
		Province:      r.Province,
		IsDefault:     r.IsDefault,
	}
}

// AddressResponse represents a shipping address in API responses
type AddressResponse struct {
	ID            uuid.UUID `json:"id"`
	RecipientName string    `json:"recipient_name"`
	Phone         string    `json:"phone"`
	AddressLine   string    `json:"address_line"`
	Ward          string    `json:"ward"`
	District      string    `json:"district"`
	Province      string    `json:"province"`
	FullAddress   string    `json:"full_address"`
	IsDefault     bool      `json:"is_default"`
}

// ToAddressResponse converts a domain address to a response
func ToAddressResponse(a *partner.ShippingAddress) AddressResponse {
	return AddressResponse{
		ID:            a.ID,
		RecipientName: a.RecipientName,
		Phone:         a.Phone,
		AddressLine:   a.AddressLine,
		Ward:          a.Ward,
		District:      a.District,
		Province:      a.Province,
		FullAddress:   a.FullAddress(),
		IsDefault:     a.IsDefault,
	}
}

// ToAddressResponses converts a slice of addresses
func ToAddressResponses(addresses []partner.ShippingAddress) []AddressResponse {
	out := make([]AddressResponse, 0, len(addresses))
	for i := range addresses {
		out = append(out, ToAddressResponse(&addresses[i]))
	}
	return out
}

// =============================================================================
// Membership DTOs
// =============================================================================

// MembershipRequest is the create/update payload for a membership tier
type MembershipRequest struct {
	Name               string           `json:"name" binding:"required,min=1,max=100"`
	Description        string           `json:"description" binding:"max=500"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"`
	MinimumSpend       *decimal.Decimal `json:"minimum_spend"`
	IsActive           *bool            `json:"is_active"`
}

func (r MembershipRequest) toInput() partner.MembershipInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return partner.MembershipInput{
		Name:               r.Name,
		Description:        r.Description,
		DiscountPercentage: r.DiscountPercentage,
		MinimumSpend:       r.MinimumSpend,
		IsActive:           active,
	}
}

// MembershipResponse represents a membership tier in API responses
type MembershipResponse struct {
	ID                 uuid.UUID        `json:"id"`
	Name               string           `json:"name"`
	Description        string           `json:"description,omitempty"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage,omitempty"`
	MinimumSpend       *decimal.Decimal `json:"minimum_spend,omitempty"`
	IsActive           bool             `json:"is_active"`
	CustomerCount      int64            `json:"customer_count"`
}

// ToMembershipResponse converts a domain membership to a response
func ToMembershipResponse(m *partner.Membership) MembershipResponse {
	return MembershipResponse{
		ID:                 m.ID,
		Name:               m.Name,
		Description:        m.Description,
		DiscountPercentage: m.DiscountPercentage,
		MinimumSpend:       m.MinimumSpend,
		IsActive:           m.IsActive,
		CustomerCount:      m.CustomerCount,
	}
}

// =============================================================================
// Coupon DTOs
// =============================================================================

// CouponRequest is the create/update payload for a coupon
type CouponRequest struct {
	Code           string          `json:"code" binding:"required,min=1,max=50"`
	DiscountAmount decimal.Decimal `json:"discount_amount" binding:"required"`
	ExpiryDate     *time.Time      `json:"expiry_date"`
}

// CouponListFilter is the admin coupon search
type CouponListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active used expired"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CouponResponse represents a coupon in API responses
type CouponResponse struct {
	ID             uuid.UUID       `json:"id"`
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	ExpiryDate     *time.Time      `json:"expiry_date,omitempty"`
	IsUsed         bool            `json:"is_used"`
	UsedAt         *time.Time      `json:"used_at,omitempty"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToCouponResponse converts a domain coupon to a response with its status at now
func ToCouponResponse(c *partner.Coupon, now time.Time) CouponResponse {
	return CouponResponse{
		ID:             c.ID,
		Code:           c.Code,
		DiscountAmount: c.DiscountAmount,
		ExpiryDate:     c.ExpiryDate,
		IsUsed:         c.IsUsed,
		UsedAt:         c.UsedAt,
		Status:         string(c.StatusAt(now)),
		CreatedAt:      c.CreatedAt,
	}
}

func pageFilter(search string, page, pageSize int) shared.Filter {
	return shared.Filter{
		Page:     page,
		PageSize: pageSize,
		Search:   search,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}.Normalize()
}
