package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/shared"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)

// Admin is a back-office account. New accounts start unapproved and cannot
// sign in until an authorized admin approves them.
type Admin struct {
	shared.BaseAggregateRoot
	FullName     string
	Username     string
	PasswordHash string
	BirthDate    *time.Time
	NationalID   string
	IsApproved   bool
	IsBlocked    bool
	RoleID       *uuid.UUID
	Role         *Role
}

// AdminProfile carries the self-editable fields of an admin
type AdminProfile struct {
	FullName   string
	BirthDate  *time.Time
	NationalID string
}

// NewAdmin registers an unapproved admin account
func NewAdmin(username, passwordHash string, profile AdminProfile) (*Admin, error) {
	username = strings.TrimSpace(username)
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Password is required")
	}
	a := &Admin{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          username,
		PasswordHash:      passwordHash,
	}
	if err := a.UpdateProfile(profile); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateProfile replaces the self-editable fields
func (a *Admin) UpdateProfile(p AdminProfile) error {
	name := strings.TrimSpace(p.FullName)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Full name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_INPUT", "Full name cannot exceed 100 characters")
	}
	if p.BirthDate != nil && p.BirthDate.After(time.Now()) {
		return shared.NewDomainError("INVALID_INPUT", "Birth date cannot be in the future")
	}
	a.FullName = name
	a.BirthDate = p.BirthDate
	a.NationalID = strings.TrimSpace(p.NationalID)
	a.Touch()
	return nil
}

// SetPasswordHash replaces the stored password hash
func (a *Admin) SetPasswordHash(hash string) {
	a.PasswordHash = hash
	a.MarkModified()
}

// Approve allows the account to sign in
func (a *Admin) Approve() {
	a.IsApproved = true
	a.MarkModified()
}

// RevokeApproval prevents the account from signing in
func (a *Admin) RevokeApproval() {
	a.IsApproved = false
	a.MarkModified()
}

// Block suspends the account
func (a *Admin) Block() {
	a.IsBlocked = true
	a.MarkModified()
}

// Unblock lifts a suspension
func (a *Admin) Unblock() {
	a.IsBlocked = false
	a.MarkModified()
}

// AssignRole sets the account's role
func (a *Admin) AssignRole(role *Role) error {
	if role == nil || role.ID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Role is required")
	}
	id := role.ID
	a.RoleID = &id
	a.Role = role
	a.MarkModified()
	return nil
}

// CanSignIn checks the account state before a credential is issued
func (a *Admin) CanSignIn() error {
	if a.IsBlocked {
		return shared.NewDomainError("FORBIDDEN", "This account has been blocked")
	}
	if !a.IsApproved {
		return shared.NewDomainError("FORBIDDEN", "This account is waiting for approval")
	}
	return nil
}

// RoleName returns the name of the assigned role, or empty
func (a *Admin) RoleName() string {
	if a.Role == nil {
		return ""
	}
	return a.Role.Name
}

// ValidateUsername checks admin username format
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return shared.NewDomainError("INVALID_INPUT", "Username must be at least 3 characters")
	}
	if len(username) > 50 {
		return shared.NewDomainError("INVALID_INPUT", "Username cannot exceed 50 characters")
	}
	if !usernamePattern.MatchString(username) {
		return shared.NewDomainError("INVALID_INPUT", "Username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}
