package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for storefront customers
type CustomerModel struct {
	AggregateModel
	Name         string     `gorm:"type:varchar(100);not null"`
	Email        string     `gorm:"type:varchar(200);not null;uniqueIndex"`
	Phone        string     `gorm:"type:varchar(20)"`
	BirthYear    *int       `gorm:"type:int"`
	PasswordHash string     `gorm:"type:varchar(255)"`
	MembershipID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseAggregateRoot: m.Aggregate(),
		Name:              m.Name,
		Email:             m.Email,
		Phone:             m.Phone,
		BirthYear:         m.BirthYear,
		PasswordHash:      m.PasswordHash,
		MembershipID:      m.MembershipID,
	}
}

// FromDomain populates the persistence model from a domain Customer
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.SetAggregate(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Email = c.Email
	m.Phone = c.Phone
	m.BirthYear = c.BirthYear
	m.PasswordHash = c.PasswordHash
	m.MembershipID = c.MembershipID
}

// ShippingAddressModel is the persistence model for saved addresses
type ShippingAddressModel struct {
	BaseModel
	CustomerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	RecipientName string    `gorm:"type:varchar(100);not null"`
	Phone         string    `gorm:"type:varchar(20);not null"`
	AddressLine   string    `gorm:"type:varchar(255);not null"`
	Ward          string    `gorm:"type:varchar(100);not null"`
	District      string    `gorm:"type:varchar(100);not null"`
	Province      string    `gorm:"type:varchar(100);not null"`
	IsDefault     bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ShippingAddressModel) TableName() string {
	return "shipping_addresses"
}

// ToDomain converts the persistence model to a domain ShippingAddress
func (m *ShippingAddressModel) ToDomain() *partner.ShippingAddress {
	return &partner.ShippingAddress{
		BaseEntity:    m.Entity(),
		CustomerID:    m.CustomerID,
		RecipientName: m.RecipientName,
		Phone:         m.Phone,
		AddressLine:   m.AddressLine,
		Ward:          m.Ward,
		District:      m.District,
		Province:      m.Province,
		IsDefault:     m.IsDefault,
	}
}

// FromDomain populates the persistence model from a domain ShippingAddress
func (m *ShippingAddressModel) FromDomain(a *partner.ShippingAddress) {
	m.SetEntity(a.BaseEntity)
	m.CustomerID = a.CustomerID
	m.RecipientName = a.RecipientName
	m.Phone = a.Phone
	m.AddressLine = a.AddressLine
	m.Ward = a.Ward
	m.District = a.District
	m.Province = a.Province
	m.IsDefault = a.IsDefault
}

// MembershipModel is the persistence model for membership tiers
type MembershipModel struct {
	BaseModel
	Name               string           `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description        string           `gorm:"type:varchar(500)"`
	DiscountPercentage *decimal.Decimal `gorm:"type:decimal(5,2)"`
	MinimumSpend       *decimal.Decimal `gorm:"type:decimal(18,2)"`
	IsActive           bool             `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (MembershipModel) TableName() string {
	return "memberships"
}

// ToDomain converts the persistence model to a domain Membership
func (m *MembershipModel) ToDomain() *partner.Membership {
	return &partner.Membership{
		BaseEntity:         m.Entity(),
		Name:               m.Name,
		Description:        m.Description,
		DiscountPercentage: m.DiscountPercentage,
		MinimumSpend:       m.MinimumSpend,
		IsActive:           m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Membership
func (m *MembershipModel) FromDomain(ms *partner.Membership) {
	m.SetEntity(ms.BaseEntity)
	m.Name = ms.Name
	m.Description = ms.Description
	m.DiscountPercentage = ms.DiscountPercentage
	m.MinimumSpend = ms.MinimumSpend
	m.IsActive = ms.IsActive
}

// CouponModel is the persistence model for coupons
type CouponModel struct {
	BaseModel
	Code           string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ExpiryDate     *time.Time      `gorm:"index"`
	IsUsed         bool            `gorm:"not null;default:false"`
	UsedAt         *time.Time
}

// TableName returns the table name for GORM
func (CouponModel) TableName() string {
	return "coupons"
}

// ToDomain converts the persistence model to a domain Coupon
func (m *CouponModel) ToDomain() *partner.Coupon {
	return &partner.Coupon{
		BaseEntity:     m.Entity(),
		Code:           m.Code,
		DiscountAmount: m.DiscountAmount,
		ExpiryDate:     m.ExpiryDate,
		IsUsed:         m.IsUsed,
		UsedAt:         m.UsedAt,
	}
}

// FromDomain populates the persistence model from a domain Coupon
func (m *CouponModel) FromDomain(c *partner.Coupon) {
	m.SetEntity(c.BaseEntity)
	m.Code = c.Code
	m.DiscountAmount = c.DiscountAmount
	m.ExpiryDate = c.ExpiryDate
	m.IsUsed = c.IsUsed
	m.UsedAt = c.UsedAt
}
