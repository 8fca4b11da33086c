package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/identity"
)

// LoginRequest represents admin sign-in credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,max=72"`
}

// LoginResponse carries the issued credential and the signed-in admin
type LoginResponse struct {
	Token     string        `json:"token"`
	TokenID   string        `json:"-"`
	ExpiresAt time.Time     `json:"expires_at"`
	Admin     AdminResponse `json:"admin"`
}

// RegisterAdminRequest creates an admin account awaiting approval
type RegisterAdminRequest struct {
	Username   string     `json:"username" binding:"required,min=3,max=50"`
	Password   string     `json:"password" binding:"required,min=6,max=72"`
	FullName   string     `json:"full_name" binding:"required,max=100"`
	BirthDate  *time.Time `json:"birth_date"`
	NationalID string     `json:"national_id" binding:"max=20"`
}

// UpdateProfileRequest edits the signed-in admin's own profile.
// NewPassword is optional and requires CurrentPassword.
type UpdateProfileRequest struct {
	FullName        string     `json:"full_name" binding:"required,max=100"`
	BirthDate       *time.Time `json:"birth_date"`
	NationalID      string     `json:"national_id" binding:"max=20"`
	CurrentPassword string     `json:"current_password" binding:"max=72"`
	NewPassword     string     `json:"new_password" binding:"omitempty,min=6,max=72"`
}

// AdminResponse represents an admin account in API responses
type AdminResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	FullName    string     `json:"full_name"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	NationalID  string     `json:"national_id,omitempty"`
	IsApproved  bool       `json:"is_approved"`
	IsBlocked   bool       `json:"is_blocked"`
	RoleID      *uuid.UUID `json:"role_id,omitempty"`
	RoleName    string     `json:"role_name,omitempty"`
	Permissions []string   `json:"permissions,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToAdminResponse converts a domain Admin to AdminResponse
func ToAdminResponse(a *identity.Admin) AdminResponse {
	resp := AdminResponse{
		ID:         a.ID,
		Username:   a.Username,
		FullName:   a.FullName,
		BirthDate:  a.BirthDate,
		NationalID: a.NationalID,
		IsApproved: a.IsApproved,
		IsBlocked:  a.IsBlocked,
		RoleID:     a.RoleID,
		RoleName:   a.RoleName(),
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
	if a.Role != nil {
		resp.Permissions = a.Role.PermissionNames()
	}
	return resp
}

// AdminListFilter narrows the admin account listing
type AdminListFilter struct {
	Search     string     `form:"search"`
	RoleID     *uuid.UUID `form:"role_id"`
	IsApproved *bool      `form:"is_approved"`
	IsBlocked  *bool      `form:"is_blocked"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ChangeRoleRequest assigns a role to an admin
type ChangeRoleRequest struct {
	RoleID uuid.UUID `json:"role_id" binding:"required"`
}

// =============================================================================
// Role DTOs
// =============================================================================

// CreateRoleRequest represents a request to create a role
type CreateRoleRequest struct {
	Name          string      `json:"name" binding:"required,max=50"`
	Description   string      `json:"description" binding:"max=200"`
	PermissionIDs []uuid.UUID `json:"permission_ids"`
}

// UpdateRoleRequest represents a request to rename a role
type UpdateRoleRequest struct {
	Name        string `json:"name" binding:"required,max=50"`
	Description string `json:"description" binding:"max=200"`
}

// SetPermissionsRequest replaces a role's permissions
type SetPermissionsRequest struct {
	PermissionIDs []uuid.UUID `json:"permission_ids"`
}

// RoleResponse represents a role in API responses
type RoleResponse struct {
	ID          uuid.UUID            `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	IsSystem    bool                 `json:"is_system"`
	AdminCount  int64                `json:"admin_count"`
	Permissions []PermissionResponse `json:"permissions"`
	CreatedAt   time.Time            `json:"created_at"`
}

// ToRoleResponse converts a domain Role to RoleResponse
func ToRoleResponse(r *identity.Role) RoleResponse {
	perms := make([]PermissionResponse, 0, len(r.Permissions))
	for i := range r.Permissions {
		perms = append(perms, ToPermissionResponse(&r.Permissions[i]))
	}
	return RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		IsSystem:    r.IsSystem,
		AdminCount:  r.AdminCount,
		Permissions: perms,
		CreatedAt:   r.CreatedAt,
	}
}

// PermissionResponse represents a permission in API responses
type PermissionResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Area        string    `json:"area"`
	Action      string    `json:"action"`
}

// ToPermissionResponse converts a domain Permission to PermissionResponse
func ToPermissionResponse(p *identity.Permission) PermissionResponse {
	return PermissionResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Area:        p.Area,
		Action:      p.Action,
	}
}
