package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/shared"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
)

// Customer is a storefront account holder
type Customer struct {
	shared.BaseAggregateRoot
	Name         string
	Email        string
	Phone        string
	BirthYear    *int
	PasswordHash string
	MembershipID *uuid.UUID

	// MembershipName is filled by read queries
	MembershipName string
}

// CustomerProfile carries the editable attributes of a customer
type CustomerProfile struct {
	Name         string
	Email        string
	Phone        string
	BirthYear    *int
	MembershipID *uuid.UUID
}

// NewCustomer creates a customer. passwordHash may be empty for accounts
// created by staff that have not signed in yet.
func NewCustomer(profile CustomerProfile, passwordHash string) (*Customer, error) {
	c := &Customer{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := c.UpdateProfile(profile); err != nil {
		return nil, err
	}
	c.PasswordHash = passwordHash
	return c, nil
}

// UpdateProfile replaces the editable attributes
func (c *Customer) UpdateProfile(p CustomerProfile) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Customer name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_INPUT", "Customer name cannot exceed 100 characters")
	}
	email := NormalizeEmail(p.Email)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_INPUT", "Invalid email format")
	}
	phone := strings.TrimSpace(p.Phone)
	if phone != "" && !phoneRegex.MatchString(phone) {
		return shared.NewDomainError("INVALID_INPUT", "Invalid phone number")
	}
	if p.BirthYear != nil {
		if *p.BirthYear < 1900 || *p.BirthYear > time.Now().Year() {
			return shared.NewDomainError("INVALID_INPUT", "Invalid birth year")
		}
	}

	c.Name = name
	c.Email = email
	c.Phone = phone
	c.BirthYear = p.BirthYear
	c.MembershipID = p.MembershipID
	c.Touch()
	return nil
}

// SetPasswordHash replaces the stored password hash
func (c *Customer) SetPasswordHash(hash string) {
	c.PasswordHash = hash
	c.Touch()
}

// NormalizeEmail trims and lowercases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
